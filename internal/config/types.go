// Package config provides configuration loading and management for storyflow.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The package provides sensible defaults that work out of the
// box, with the ability to customize the action chain, failure policy, storage
// location, HTTP server and logging.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [WorkflowConfig] defines the action chain and how it runs
//
// Configuration priority (highest to lowest):
//  1. Environment variables (STORYFLOW_ prefix, e.g. STORYFLOW_STORE_PATH)
//  2. Config file specified by STORYFLOW_CONFIG_PATH
//  3. User config directory (platform-standard), storyflow/config.yaml
//  4. ./config/storyflow.yaml
//  5. ./storyflow.yaml
//  6. [DefaultConfig] defaults
package config

import (
	"storyflow/internal/action"
	"storyflow/internal/story"
)

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get sensible defaults.
type Config struct {
	// Workflow defines the action chain and its execution policy.
	Workflow WorkflowConfig `mapstructure:"workflow"`

	// Store contains story persistence settings.
	Store StoreConfig `mapstructure:"store"`

	// Server contains HTTP server settings for the serve command.
	Server ServerConfig `mapstructure:"server"`

	// Log contains structured logging settings.
	Log LogConfig `mapstructure:"log"`

	// Output contains terminal output settings.
	Output OutputConfig `mapstructure:"output"`
}

// WorkflowConfig defines the action chain.
//
// The chain is taken from ManifestPath when set, otherwise from Chain.
type WorkflowConfig struct {
	// Chain is the ordered list of action names.
	// Default: ["ASSIGN_STORY", "IMPLEMENT_STORY", "SEND_PULL_REQUEST_EVENT", "SEND_STORY_COMPLETE_NOTIFICATION"]
	Chain []string `mapstructure:"chain"`

	// ManifestPath points to a CSV chain definition (action,next_action).
	// Empty means use Chain.
	ManifestPath string `mapstructure:"manifest_path"`

	// StartAction is the action new stories start at.
	// Empty selects the first action of the chain.
	StartAction string `mapstructure:"start_action"`

	// FailurePolicy is "discard" (default) or "preserve". It decides whether
	// the steps recorded before an unexpected action failure are reported.
	FailurePolicy string `mapstructure:"failure_policy"`

	// MaxSteps caps the number of steps of a single run. Default: 64
	MaxSteps int `mapstructure:"max_steps"`
}

// StoreConfig contains story persistence settings.
type StoreConfig struct {
	// Path is the YAML story file. Default: "data/stories.yaml"
	Path string `mapstructure:"path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string `mapstructure:"addr"`
}

// LogConfig contains structured logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: "info"
	Level string `mapstructure:"level"`

	// JSON switches the handler from text to JSON output.
	JSON bool `mapstructure:"json"`
}

// OutputConfig contains terminal output settings.
type OutputConfig struct {
	// Progress prints each step as it finishes. Default: true
	Progress bool `mapstructure:"progress"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	names := story.DefaultActionNames()
	chain := make([]string, len(names))
	for i, n := range names {
		chain[i] = n.String()
	}

	return &Config{
		Workflow: WorkflowConfig{
			Chain:         chain,
			FailurePolicy: action.DiscardHistory.String(),
			MaxSteps:      action.DefaultMaxSteps,
		},
		Store: StoreConfig{
			Path: "data/stories.yaml",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Progress: true,
		},
	}
}

// ChainNames returns the configured chain as action names.
func (w WorkflowConfig) ChainNames() []action.Name {
	out := make([]action.Name, len(w.Chain))
	for i, n := range w.Chain {
		out[i] = action.Name(n)
	}
	return out
}

// Policy parses FailurePolicy.
func (w WorkflowConfig) Policy() (action.FailurePolicy, error) {
	return action.ParseFailurePolicy(w.FailurePolicy)
}
