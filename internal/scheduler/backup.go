// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BackupConfig controls the periodic library backup job.
type BackupConfig struct {
	Enabled  bool
	Schedule string
	Dir      string
	Keep     int
}

// DefaultBackupConfig backs up daily at 03:00 and keeps the last 7 copies.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		Enabled:  true,
		Schedule: "0 3 * * *",
		Dir:      "backups",
		Keep:     7,
	}
}

// BackupScheduler periodically copies the library file into the backup
// directory and prunes old copies.
type BackupScheduler struct {
	libraryPath string
	config      BackupConfig
	logger      *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isBacking  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance.
func NewBackupScheduler(libraryPath string, config BackupConfig, logger *zap.Logger) *BackupScheduler {
	return &BackupScheduler{
		libraryPath: libraryPath,
		config:      config,
		logger:      logger,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if backups are enabled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		s.logger.Info("backup scheduler disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("backup scheduler started",
		zap.String("schedule", s.config.Schedule),
		zap.String("dir", s.config.Dir),
		zap.Int("keep", s.config.Keep))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running backup.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancelFunc = nil
	s.mu.Unlock()

	// Wait outside the lock; a running backup needs it to finish.
	<-s.cron.Stop().Done()

	s.logger.Info("backup scheduler stopped")
}

// RunNow triggers an immediate backup.
func (s *BackupScheduler) RunNow() error {
	return s.runBackup()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur.
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runBackup copies the library file into the backup directory with a
// timestamped name and prunes old backups.
func (s *BackupScheduler) runBackup() error {
	s.mu.Lock()
	if s.isBacking {
		s.mu.Unlock()
		s.logger.Info("backup skipped, already in progress")
		return nil
	}
	s.isBacking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isBacking = false
		s.mu.Unlock()
	}()

	if _, err := os.Stat(s.libraryPath); os.IsNotExist(err) {
		s.logger.Info("backup skipped, no library file yet",
			zap.String("path", s.libraryPath))
		return nil
	}

	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		s.logger.Error("create backup dir", zap.Error(err))
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("library-%s.json", time.Now().UTC().Format("20060102-150405"))
	dest := filepath.Join(s.config.Dir, name)

	if err := copyFile(s.libraryPath, dest); err != nil {
		s.logger.Error("backup failed", zap.Error(err))
		return fmt.Errorf("backup library: %w", err)
	}

	s.logger.Info("library backed up", zap.String("dest", dest))

	if err := s.pruneOld(); err != nil {
		s.logger.Warn("prune old backups", zap.Error(err))
	}
	return nil
}

// pruneOld deletes the oldest backups beyond the configured keep count.
func (s *BackupScheduler) pruneOld() error {
	if s.config.Keep <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(s.config.Dir, "library-*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= s.config.Keep {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.config.Keep] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
		s.logger.Info("pruned old backup", zap.String("path", old))
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".backup-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dest)
}
