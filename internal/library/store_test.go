package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkawano/hondana/internal/entities"
)

func TestStorePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	assert.Equal(t, path, NewStore(path).Path())
}

func TestLoadMissingFileReturnsEmptyLibrary(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "library.json"))

	lib, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, lib.Books)
	assert.Empty(t, lib.Books)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse library")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	store := NewStore(path)

	added := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lib := entities.Library{
		Books: []entities.Book{{
			ID:        "abc",
			Title:     "Pro Git",
			Authors:   []string{"Scott Chacon"},
			Author:    "Scott Chacon",
			Type:      entities.BookTypePDF,
			FilePath:  "/books/progit.pdf",
			IsFree:    true,
			AddedDate: added,
		}},
	}
	require.NoError(t, store.Save(&lib))
	assert.False(t, lib.LastModified.IsZero(), "save stamps lastModified")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Books, 1)
	assert.Equal(t, lib.Books[0].ID, loaded.Books[0].ID)
	assert.Equal(t, lib.Books[0].Title, loaded.Books[0].Title)
	assert.True(t, loaded.Books[0].AddedDate.Equal(added))
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	store := NewStore(path)

	lib := entities.Library{Books: []entities.Book{}}
	require.NoError(t, store.Save(&lib))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  "), "document should be pretty-printed")
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "library.json")
	store := NewStore(path)

	lib := entities.Library{Books: []entities.Book{}}
	require.NoError(t, store.Save(&lib))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "library.json"))

	lib := entities.Library{Books: []entities.Book{}}
	require.NoError(t, store.Save(&lib))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "library.json", entries[0].Name())
}
