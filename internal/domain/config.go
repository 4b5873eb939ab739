package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Storage  StorageConfig `toml:"storage"`
	View     ViewConfig    `toml:"view"`
	Backup   BackupConfig  `toml:"backup"`
	Log      LogConfig     `toml:"log"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendGit    = "git"
)

// StorageConfig holds settings from the [storage] section.
type StorageConfig struct {
	Backend       string      `toml:"backend,omitempty"`        // file (default), sqlite, redis or git
	Key           string      `toml:"key,omitempty"`            // Key the task list is stored under
	Path          string      `toml:"path,omitempty"`           // Directory (file) or database file (sqlite)
	EncryptionKey string      `toml:"encryption_key,omitempty"` // 64 hex chars enables AES-256-GCM at rest
	Redis         RedisConfig `toml:"redis"`
	Git           GitConfig   `toml:"git"`
}

// RedisConfig holds settings from the [storage.redis] section.
type RedisConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Password string `toml:"password,omitempty"`
	URL      string `toml:"url,omitempty"` // Overrides addr/password/db when set
	DB       int    `toml:"db,omitempty"`
}

// GitConfig holds settings from the [storage.git] section.
type GitConfig struct {
	Repo      string `toml:"repo,omitempty"`      // Repository path (default: current directory)
	Namespace string `toml:"namespace,omitempty"` // Ref namespace (default: smart-tasks)
}

// ViewConfig holds default display controls from the [view] section.
type ViewConfig struct {
	Filter string `toml:"filter,omitempty"`
	Sort   string `toml:"sort,omitempty"`
	Locale string `toml:"locale,omitempty"` // BCP 47 tag for alphabetical sorting
}

// BackupConfig holds settings from the [backup] section.
type BackupConfig struct {
	File string `toml:"file,omitempty"` // Default export file name
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// Default configuration values.
const (
	DefaultStorageKey    = "smartTasks"
	DefaultBackupFile    = "smart-tasks-backup.json"
	DefaultGitNamespace  = "smart-tasks"
	DefaultRedisAddr     = "localhost:6379"
	DefaultLocale        = "en"
	DefaultLogLevel      = "info"
	DefaultSQLiteFile    = "tasks.db"
	DefaultFileStoreName = "store"
)

// Directory and file names.
const (
	AppDirName          = "smart-tasks"       // Directory name under XDG config/data homes
	ConfigFileName      = "config.toml"       // Global config file name
	LocalConfigFileName = ".smart-tasks.toml" // Config file name in the working directory
	LogsDirName         = "logs"
	LogFileName         = "tasks.log"
)

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// LocalConfigPath returns the config path in dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// DataDir returns the data directory under dataHome
// (typically XDG_DATA_HOME or ~/.local/share).
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// LogPath returns the log file path inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDirName, LogFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
			Git: GitConfig{
				Namespace: DefaultGitNamespace,
			},
		},
		View: ViewConfig{
			Locale: DefaultLocale,
		},
		Backup: BackupConfig{
			File: DefaultBackupFile,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// templateData holds all data for rendering the config template.
type templateData struct {
	Backend    string
	Key        string
	RedisAddr  string
	Namespace  string
	Locale     string
	BackupFile string
	LogLevel   string
}

// RenderConfigTemplate renders the commented config template from cfg.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		Backend:    cfg.Storage.Backend,
		Key:        cfg.Storage.Key,
		RedisAddr:  cfg.Storage.Redis.Addr,
		Namespace:  cfg.Storage.Git.Namespace,
		Locale:     cfg.View.Locale,
		BackupFile: cfg.Backup.File,
		LogLevel:   cfg.Log.Level,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
