// Package config loads application settings and scenario manifests.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/logging"
)

// EnvPrefix prefixes environment variables that override file settings.
const EnvPrefix = "CONDUCTOR_"

const maxConfigFileSize = 1024 * 1024

// Config holds the application settings.
type Config struct {
	Log      logging.Config `koanf:"log"`
	Dispatch DispatchConfig `koanf:"dispatch"`
	Shell    ShellConfig    `koanf:"shell"`
}

// DispatchConfig configures the UI loop.
type DispatchConfig struct {
	// QueueSize is the capacity of the UI loop's callback queue.
	QueueSize int `koanf:"queue_size"`
}

// ShellConfig configures the terminal host.
type ShellConfig struct {
	Title string `koanf:"title"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:      *logging.NewDefaultConfig(),
		Dispatch: DispatchConfig{QueueSize: dispatch.DefaultQueueSize},
		Shell:    ShellConfig{Title: "conductor"},
	}
}

// Load reads settings from the YAML file at path, then applies environment
// overrides.
//
// Precedence, highest first:
//  1. CONDUCTOR_ environment variables
//  2. the YAML file, when path is not empty
//  3. Default
//
// Environment variables map to keys by dropping the prefix, lowercasing and
// splitting section from field at the first underscore:
//
//	CONDUCTOR_LOG_LEVEL           -> log.level
//	CONDUCTOR_DISPATCH_QUEUE_SIZE -> dispatch.queue_size
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Dispatch.QueueSize <= 0 {
		return fmt.Errorf("dispatch.queue_size must be positive, got %d", c.Dispatch.QueueSize)
	}
	return nil
}
