package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "csv-cache.json"))
	assert.Nil(t, store.Read())
}

func TestStore_ReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv-cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path)
	assert.Nil(t, store.Read())
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "csv-cache.json")
	store := NewStore(path)

	snap := &Snapshot{
		Timestamp: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		RowCount:  42,
		CSVTexts: map[string]string{
			"2025":    "Date,Headline\n1/5/2025,Old incident\n",
			"current": "Date,Headline\n1/5/2026,New incident\n",
		},
	}
	require.NoError(t, store.Write(snap))

	got := store.Read()
	require.NotNil(t, got)
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_WriteReplacesWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv-cache.json")
	store := NewStore(path)

	require.NoError(t, store.Write(&Snapshot{RowCount: 10, CSVTexts: map[string]string{"a": "x"}}))
	require.NoError(t, store.Write(&Snapshot{RowCount: 3, CSVTexts: map[string]string{"b": "y"}}))

	got := store.Read()
	require.NotNil(t, got)
	assert.Equal(t, 3, got.RowCount)
	assert.Empty(t, got.Text("a"), "previous entries do not survive a write")
	assert.Equal(t, "y", got.Text("b"))
}

func TestStore_WriteIdempotentDirCreation(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "data", "csv-cache.json"))

	require.NoError(t, store.Write(&Snapshot{}))
	require.NoError(t, store.Write(&Snapshot{}))
}

func TestSnapshot_Text(t *testing.T) {
	var nilSnap *Snapshot
	assert.Empty(t, nilSnap.Text("current"))

	snap := &Snapshot{CSVTexts: map[string]string{"current": "csv"}}
	assert.Equal(t, "csv", snap.Text("current"))
	assert.Empty(t, snap.Text("2025"))
}
