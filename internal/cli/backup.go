package cli

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/config"
	"github.com/mkawano/hondana/internal/scheduler"
)

// BackupCommand runs a one-off backup of the library file.
type BackupCommand struct {
	LibraryPath string
	BackupDir   string
	Keep        int
}

func NewBackupCommand() *BackupCommand {
	return &BackupCommand{}
}

func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	fs.StringVar(&cmd.LibraryPath, "library", config.DefaultLibraryPath, "Path to the library JSON file")
	fs.StringVar(&cmd.BackupDir, "dir", "./backups", "Directory to store backups in")
	fs.IntVar(&cmd.Keep, "keep", 7, "Number of backups to keep (0 keeps everything)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copy the library file into the backup directory and prune old copies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *BackupCommand) Run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	s := scheduler.NewBackupScheduler(cmd.LibraryPath, scheduler.BackupConfig{
		Enabled: true,
		Dir:     cmd.BackupDir,
		Keep:    cmd.Keep,
	}, logger)

	if err := s.RunNow(); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("Library backed up to %s\n", cmd.BackupDir)
	return nil
}
