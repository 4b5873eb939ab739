// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	localDir      string // Directory holding .smart-tasks.toml (usually the working directory)
	globalConfDir string // Path to global config directory (e.g., ~/.config/smart-tasks)
}

// NewLoaderWithGlobalDir creates a new Loader reading .smart-tasks.toml from localDir
// and config.toml from globalConfDir.
func NewLoaderWithGlobalDir(localDir, globalConfDir string) *Loader {
	return &Loader{
		localDir:      localDir,
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (local + global).
// Local config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	// Load global config first
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Load local config
	local, err := l.LoadLocal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- local (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}

	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadLocal returns only the local configuration.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	if l.localDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(domain.LocalConfigPath(l.localDir))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "storage":
			for k, v := range m {
				switch k {
				case "backend":
					setString(&res.Storage.Backend, v)
				case "key":
					setString(&res.Storage.Key, v)
				case "path":
					setString(&res.Storage.Path, v)
				case "encryption_key":
					setString(&res.Storage.EncryptionKey, v)
				case "redis":
					sub, ok := v.(map[string]any)
					if !ok {
						unknown("storage", k)
						continue
					}
					for rk, rv := range sub {
						switch rk {
						case "addr":
							setString(&res.Storage.Redis.Addr, rv)
						case "password":
							setString(&res.Storage.Redis.Password, rv)
						case "url":
							setString(&res.Storage.Redis.URL, rv)
						case "db":
							if n, ok := rv.(int64); ok {
								res.Storage.Redis.DB = int(n)
							}
						default:
							unknown("storage.redis", rk)
						}
					}
				case "git":
					sub, ok := v.(map[string]any)
					if !ok {
						unknown("storage", k)
						continue
					}
					for gk, gv := range sub {
						switch gk {
						case "repo":
							setString(&res.Storage.Git.Repo, gv)
						case "namespace":
							setString(&res.Storage.Git.Namespace, gv)
						default:
							unknown("storage.git", gk)
						}
					}
				default:
					unknown(section, k)
				}
			}
		case "view":
			for k, v := range m {
				switch k {
				case "filter":
					setString(&res.View.Filter, v)
				case "sort":
					setString(&res.View.Sort, v)
				case "locale":
					setString(&res.View.Locale, v)
				default:
					unknown(section, k)
				}
			}
		case "backup":
			for k, v := range m {
				switch k {
				case "file":
					setString(&res.Backup.File, v)
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					setString(&res.Log.Level, v)
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	if len(base.Warnings)+len(override.Warnings) > 0 {
		result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)
	}

	o := override.Storage
	overrideString(&result.Storage.Backend, o.Backend)
	overrideString(&result.Storage.Key, o.Key)
	overrideString(&result.Storage.Path, o.Path)
	overrideString(&result.Storage.EncryptionKey, o.EncryptionKey)
	overrideString(&result.Storage.Redis.Addr, o.Redis.Addr)
	overrideString(&result.Storage.Redis.Password, o.Redis.Password)
	overrideString(&result.Storage.Redis.URL, o.Redis.URL)
	if o.Redis.DB != 0 {
		result.Storage.Redis.DB = o.Redis.DB
	}
	overrideString(&result.Storage.Git.Repo, o.Git.Repo)
	overrideString(&result.Storage.Git.Namespace, o.Git.Namespace)

	overrideString(&result.View.Filter, override.View.Filter)
	overrideString(&result.View.Sort, override.View.Sort)
	overrideString(&result.View.Locale, override.View.Locale)
	overrideString(&result.Backup.File, override.Backup.File)
	overrideString(&result.Log.Level, override.Log.Level)

	return &result
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
