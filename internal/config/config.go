package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Library
		Search
		Downloads
		Covers
		Backup
		Tasks
		Translator
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Library struct {
		Path string
	}
	Search struct {
		MaxResults     int
		FreeOnly       bool
		Subject        string
		AdapterTimeout time.Duration
		AllowedDomains []string
	}
	Downloads struct {
		Dir              string
		AllowedFileTypes []string
		MaxFileSizeMB    int64
	}
	Covers struct {
		CacheDir string
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Keep     int
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Translator struct {
		Enabled           bool
		DefaultSourceLang string
		DefaultTargetLang string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("library_path", DefaultLibraryPath)

	// Search defaults
	v.SetDefault("search_max_results", 20)
	v.SetDefault("search_free_only", true)
	v.SetDefault("search_subject", "computers")
	v.SetDefault("search_adapter_timeout", "10s")
	v.SetDefault("search_allowed_domains", DefaultAllowedDomains)

	// Download defaults
	v.SetDefault("downloads_dir", "./downloads")
	v.SetDefault("downloads_allowed_file_types", []string{".epub", ".pdf"})
	v.SetDefault("downloads_max_file_size_mb", 200)

	v.SetDefault("covers_cache_dir", "./covers")

	// Backup defaults
	v.SetDefault("backup_enabled", true)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_dir", "./backups")
	v.SetDefault("backup_keep", 7)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Translator defaults
	v.SetDefault("translator_enabled", true)
	v.SetDefault("translator_source_lang", "en")
	v.SetDefault("translator_target_lang", "ja")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Library: Library{
			Path: v.GetString("LIBRARY_PATH"),
		},
		Search: Search{
			MaxResults:     v.GetInt("SEARCH_MAX_RESULTS"),
			FreeOnly:       v.GetBool("SEARCH_FREE_ONLY"),
			Subject:        v.GetString("SEARCH_SUBJECT"),
			AdapterTimeout: v.GetDuration("SEARCH_ADAPTER_TIMEOUT"),
			AllowedDomains: v.GetStringSlice("SEARCH_ALLOWED_DOMAINS"),
		},
		Downloads: Downloads{
			Dir:              v.GetString("DOWNLOADS_DIR"),
			AllowedFileTypes: v.GetStringSlice("DOWNLOADS_ALLOWED_FILE_TYPES"),
			MaxFileSizeMB:    v.GetInt64("DOWNLOADS_MAX_FILE_SIZE_MB"),
		},
		Covers: Covers{
			CacheDir: v.GetString("COVERS_CACHE_DIR"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Translator: Translator{
			Enabled:           v.GetBool("TRANSLATOR_ENABLED"),
			DefaultSourceLang: v.GetString("TRANSLATOR_SOURCE_LANG"),
			DefaultTargetLang: v.GetString("TRANSLATOR_TARGET_LANG"),
		},
	}
}
