// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/smart-tasks/internal/domain"
	"github.com/runoshun/smart-tasks/internal/infra/config"
	"github.com/runoshun/smart-tasks/internal/infra/crypto"
	"github.com/runoshun/smart-tasks/internal/infra/filekv"
	"github.com/runoshun/smart-tasks/internal/infra/gitkv"
	"github.com/runoshun/smart-tasks/internal/infra/idgen"
	"github.com/runoshun/smart-tasks/internal/infra/logging"
	"github.com/runoshun/smart-tasks/internal/infra/rediskv"
	"github.com/runoshun/smart-tasks/internal/infra/sqlitekv"
	"github.com/runoshun/smart-tasks/internal/tasklist"
	"github.com/runoshun/smart-tasks/internal/usecase"
)

// DataDirEnv overrides the data directory.
const DataDirEnv = "SMART_TASKS_DATA_DIR"

// Config holds the application paths.
type Config struct {
	WorkDir         string // Directory holding the local config file
	GlobalConfigDir string // Path to the global config directory
	DataDir         string // Path to the data directory (store, database, logs)
}

// newConfig resolves paths for the given working directory.
func newConfig(dir string) Config {
	return Config{
		WorkDir:         dir,
		GlobalConfigDir: config.DefaultGlobalConfigDir(),
		DataDir:         DefaultDataDir(),
	}
}

// DefaultDataDir returns $SMART_TASKS_DATA_DIR, or the smart-tasks
// directory under $XDG_DATA_HOME (default ~/.local/share).
func DefaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	KV            domain.KVStore
	Clock         domain.Clock
	Log           domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Tasks     *tasklist.Store
	AppConfig *domain.Config
	Logger    *slog.Logger
	closers   []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory: it loads
// configuration, opens the configured storage backend and loads the list.
func New(ctx context.Context, dir string) (*Container, error) {
	return NewWithConfig(ctx, newConfig(dir))
}

// NewWithConfig creates a new Container using explicit paths.
func NewWithConfig(ctx context.Context, cfg Config) (*Container, error) {
	configLoader := config.NewLoaderWithGlobalDir(cfg.WorkDir, cfg.GlobalConfigDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	logger := newStderrLogger(os.Stderr, level)
	fileLogger := logging.New(cfg.DataDir, level)

	kv, err := OpenKV(ctx, appConfig, cfg.DataDir)
	if err != nil {
		_ = fileLogger.Close()
		return nil, err
	}
	logger.Debug("storage opened", "backend", appConfig.Storage.Backend, "key", appConfig.Storage.Key)

	clock := domain.RealClock{}
	tasks := tasklist.New(kv, idgen.UUID{},
		tasklist.WithKey(appConfig.Storage.Key),
		tasklist.WithClock(clock),
		tasklist.WithLogger(fileLogger),
	)
	if err := tasks.Load(ctx); err != nil {
		_ = kv.Close()
		_ = fileLogger.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return &Container{
		KV:            kv,
		Clock:         clock,
		Log:           fileLogger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManagerWithGlobalDir(cfg.WorkDir, cfg.GlobalConfigDir),
		Tasks:         tasks,
		AppConfig:     appConfig,
		Logger:        logger,
		closers:       []io.Closer{kv, fileLogger},
		Config:        cfg,
	}, nil
}

// newStderrLogger returns the diagnostic logger writing to w at level.
func newStderrLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Config files are looked up under cfg's directories.
func NewWithDeps(cfg Config, appConfig *domain.Config, tasks *tasklist.Store, logger *slog.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Clock:         domain.RealClock{},
		Log:           domain.NopLogger{},
		ConfigLoader:  config.NewLoaderWithGlobalDir(cfg.WorkDir, cfg.GlobalConfigDir),
		ConfigManager: config.NewManagerWithGlobalDir(cfg.WorkDir, cfg.GlobalConfigDir),
		Tasks:         tasks,
		AppConfig:     appConfig,
		Logger:        logger,
		Config:        cfg,
	}
}

// Close releases the storage backend and the log file.
func (c *Container) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// OpenKV opens the storage backend selected by cfg, wrapped with
// encryption when an encryption key is configured.
func OpenKV(ctx context.Context, cfg *domain.Config, dataDir string) (domain.KVStore, error) {
	var kv domain.KVStore

	switch cfg.Storage.Backend {
	case "", domain.BackendFile:
		dir := cfg.Storage.Path
		if dir == "" {
			dir = filepath.Join(dataDir, domain.DefaultFileStoreName)
		}
		kv = filekv.New(dir)
	case domain.BackendSQLite:
		path := cfg.Storage.Path
		if path == "" {
			path = filepath.Join(dataDir, domain.DefaultSQLiteFile)
		}
		if path != sqlitekv.MemoryPath {
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		store, err := sqlitekv.New(path)
		if err != nil {
			return nil, err
		}
		kv = store
	case domain.BackendRedis:
		store, err := rediskv.New(ctx, cfg.Storage.Redis, domain.AppDirName)
		if err != nil {
			return nil, err
		}
		kv = store
	case domain.BackendGit:
		repo := cfg.Storage.Git.Repo
		if repo == "" {
			repo = "."
		}
		store, err := gitkv.New(repo, cfg.Storage.Git.Namespace)
		if err != nil {
			return nil, err
		}
		kv = store
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Storage.Backend)
	}

	if cfg.Storage.EncryptionKey == "" {
		return kv, nil
	}
	enc, err := crypto.NewEncryptor(cfg.Storage.EncryptionKey)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return crypto.Wrap(kv, enc), nil
}

// UseCase factory methods

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Tasks)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks)
}

// ToggleTaskUseCase returns a new ToggleTask use case.
func (c *Container) ToggleTaskUseCase() *usecase.ToggleTask {
	return usecase.NewToggleTask(c.Tasks)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Tasks)
}

// ClearTasksUseCase returns a new ClearTasks use case.
func (c *Container) ClearTasksUseCase() *usecase.ClearTasks {
	return usecase.NewClearTasks(c.Tasks, c.Log)
}

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.Tasks, c.Log, c.AppConfig.Backup.File)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Log)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
