package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "STORYFLOW"

// configFileName is the file name searched for in the user config directory.
const configFileName = "config.yaml"

// Loader handles configuration loading with Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with defaults and environment bindings applied.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return &Loader{v: v}
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("workflow.chain", cfg.Workflow.Chain)
	v.SetDefault("workflow.manifest_path", cfg.Workflow.ManifestPath)
	v.SetDefault("workflow.start_action", cfg.Workflow.StartAction)
	v.SetDefault("workflow.failure_policy", cfg.Workflow.FailurePolicy)
	v.SetDefault("workflow.max_steps", cfg.Workflow.MaxSteps)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("output.progress", cfg.Output.Progress)
}

// Load reads configuration from the first config file found and applies
// environment overrides. Missing config files are not an error; the
// defaults are used instead.
func (l *Loader) Load() (*Config, error) {
	if path := findConfigFile(); path != "" {
		return l.LoadFromFile(path)
	}
	return l.unmarshal()
}

// LoadFromFile reads configuration from path and applies environment overrides.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if _, err := cfg.Workflow.Policy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// findConfigFile returns the highest-priority existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH"); envPath != "" {
		return envPath
	}

	candidates := []string{
		filepath.Join("config", "storyflow.yaml"),
		"storyflow.yaml",
	}
	if userPath := DefaultConfigPath(); userPath != "" {
		candidates = append([]string{userPath}, candidates...)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ConfigDir returns the platform-standard storyflow config directory, or ""
// when the user config directory cannot be determined.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "storyflow")
}

// DefaultConfigPath returns the user-level config file path, or "".
func DefaultConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileName)
}
