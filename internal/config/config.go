// Package config loads the optional buildnative.yaml configuration file.
//
// Every field has a default reproducing the engine/host layout, so running
// without a file behaves exactly like the fixed launcher.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/buildnative/internal/buildtool"
	bnerrors "git.home.luguber.info/inful/buildnative/internal/errors"
	"git.home.luguber.info/inful/buildnative/internal/layout"
)

// DefaultFileName is the file written by `buildnative init`.
const DefaultFileName = "buildnative.yaml"

// Config represents the application configuration
type Config struct {
	// Root overrides the directory the layout is derived from. Empty means the
	// directory of the running executable.
	Root    string        `yaml:"root,omitempty"`
	Layout  layout.Spec   `yaml:"layout"`
	Build   BuildConfig   `yaml:"build"`
	Metrics MetricsConfig `yaml:"metrics"`
	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
	Watch   WatchConfig   `yaml:"watch"`
}

// BuildConfig configures the build step.
type BuildConfig struct {
	buildtool.BuildSpec `yaml:",inline"`
	// RequireSuccess skips the copy when the build tool exits non-zero.
	RequireSuccess bool `yaml:"require_success"`
}

// MetricsConfig configures Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig configures the SQLite run history.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"`
}

// NotifyConfig configures NATS run notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Paths    []string      `yaml:"paths,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file. An empty path yields the
// defaults. .env files are loaded first so ${VAR} references resolve.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if configPath == "" {
		cfg := Default()
		return cfg, Validate(cfg)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, bnerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, bnerrors.ConfigInvalid(configPath, fmt.Errorf("read: %w", err))
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, bnerrors.ConfigInvalid(configPath, fmt.Errorf("unmarshal: %w", err))
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const exampleConfig = `# buildnative configuration
#
# Paths under layout are relative to root. An empty root means the directory
# holding the buildnative executable.
root: ""

layout:
  build_dir: ../bin/Debug/Engine
  source_artifact: ../bin/Debug/PlumbusTester/libPlumbusEngine.so
  dest_dir: bin/x64/Debug/net5.0/

build:
  tool: cmake
  jobs: 12
  # Shell-quoted arguments placed before "--", e.g. "--target PlumbusEngine".
  extra_args: ""
  # When true a failing build skips the copy step.
  require_success: false

metrics:
  # Prometheus textfile written after every run.
  textfile: ""

history:
  # SQLite database recording each run.
  database: ""

notify:
  nats_url: ""
  subject: buildnative.runs

watch:
  paths:
    - ../Engine/src
  debounce: 2s
  # Periodic rebuild in addition to file events; 0 disables.
  interval: 0s
`
