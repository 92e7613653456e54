// Package config loads and validates the optional YAML configuration of csprocompile.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

const (
	// EngineNull selects the stub engine used when no compiler toolchain is available.
	EngineNull = "null"

	DefaultLogLevel = "WARN"
)

type Config struct {
	CSProCompile CSProCompile `yaml:"csprocompile"`
	Engine       Engine       `yaml:"engine"`
	Persist      Persist      `yaml:"persist"`
	Logger       Logger       `yaml:"logger"`
	Output       Output       `yaml:"output"`
}

type CSProCompile struct {
	HomeFolder    string `yaml:"home_folder"`
	PluginsFolder string `yaml:"plugins_folder"`
}

type Engine struct {
	Name              string `yaml:"name"`
	OutputDirectory   string `yaml:"output_directory"`
	GenerateDebugInfo *bool  `yaml:"generate_debug_info"`
}

type Persist struct {
	Enabled *bool `yaml:"enabled"`
	SARIF   bool  `yaml:"sarif"`
}

type Logger struct {
	Level           string `yaml:"level"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type Output struct {
	NoColor bool `yaml:"no_color"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// LoadConfig reads the configuration from configPath, falling back to the
// CSPROCOMPILE_CONFIG environment variable. Without either, defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CSPROCOMPILE_CONFIG")
	}

	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	return cfg, nil
}

// GetEngineName returns the configured engine, defaulting to the stub engine.
func GetEngineName(cfg *Config) string {
	if cfg == nil {
		return EngineNull
	}
	return SetThen(cfg.Engine.Name, EngineNull)
}

// GetPluginsFolder returns the folder engine plugin binaries are loaded from.
func GetPluginsFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.CSProCompile.PluginsFolder
}

// GetHomeFolder returns the csprocompile home folder.
func GetHomeFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.CSProCompile.HomeFolder
}

// GenerateDebugInfo reports whether compiled output should carry debug information.
func GenerateDebugInfo(cfg *Config) bool {
	return GetBoolValue(cfg, "Engine.GenerateDebugInfo", true)
}

// PersistEnabled reports whether error logs are written next to the input file.
func PersistEnabled(cfg *Config) bool {
	return GetBoolValue(cfg, "Persist.Enabled", true)
}
