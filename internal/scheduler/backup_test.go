package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunBackupCopiesLibraryFile(t *testing.T) {
	tmpDir := t.TempDir()
	libraryPath := filepath.Join(tmpDir, "library.json")
	require.NoError(t, os.WriteFile(libraryPath, []byte(`{"books":[]}`), 0644))

	cfg := DefaultBackupConfig()
	cfg.Dir = filepath.Join(tmpDir, "backups")
	cfg.Keep = 3

	s := NewBackupScheduler(libraryPath, cfg, zap.NewNop())
	require.NoError(t, s.RunNow())

	matches, err := filepath.Glob(filepath.Join(cfg.Dir, "library-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, `{"books":[]}`, string(data))
}

func TestRunBackupSkipsMissingLibrary(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultBackupConfig()
	cfg.Dir = filepath.Join(tmpDir, "backups")

	s := NewBackupScheduler(filepath.Join(tmpDir, "library.json"), cfg, zap.NewNop())
	require.NoError(t, s.RunNow())

	_, err := os.Stat(cfg.Dir)
	assert.True(t, os.IsNotExist(err), "backup dir should not be created when there is nothing to back up")
}

func TestPruneOldKeepsNewest(t *testing.T) {
	tmpDir := t.TempDir()
	backupDir := filepath.Join(tmpDir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))

	names := []string{
		"library-20250101-000000.json",
		"library-20250102-000000.json",
		"library-20250103-000000.json",
		"library-20250104-000000.json",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("{}"), 0644))
	}

	cfg := DefaultBackupConfig()
	cfg.Dir = backupDir
	cfg.Keep = 2

	s := NewBackupScheduler(filepath.Join(tmpDir, "library.json"), cfg, zap.NewNop())
	require.NoError(t, s.pruneOld())

	matches, err := filepath.Glob(filepath.Join(backupDir, "library-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Contains(t, matches, filepath.Join(backupDir, names[2]))
	assert.Contains(t, matches, filepath.Join(backupDir, names[3]))
}

func TestStartDisabled(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultBackupConfig()
	cfg.Enabled = false

	s := NewBackupScheduler(filepath.Join(tmpDir, "library.json"), cfg, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}
