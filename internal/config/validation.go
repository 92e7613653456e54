package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cspro-tools/csprocompile/pkg/shared/files"
)

var validLogLevels = map[string]bool{
	"TRACE": true,
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
	"OFF":   true,
}

// ValidateConfig checks if the configuration has valid values and applies environment overrides.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML config: configuration object is nil")
	}
	if err := ValidateFolders(cfg); err != nil {
		return fmt.Errorf("YAML config: csprocompile directive is invalid: %w", err)
	}
	if err := ValidateEngineConfig(&cfg.Engine); err != nil {
		return fmt.Errorf("YAML config: engine directive is invalid: %w", err)
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML config: logger directive is invalid: %w", err)
	}
	return nil
}

// ValidateFolders resolves the home and plugins folders.
func ValidateFolders(cfg *Config) error {
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.CSProCompile.PluginsFolder, "CSPROCOMPILE_PLUGINS_FOLDER", "plugins", cfg); err != nil {
		return fmt.Errorf("failed to update plugins folder: %w", err)
	}
	return nil
}

// ValidateEngineConfig checks the engine selection.
func ValidateEngineConfig(engine *Engine) error {
	if engine == nil {
		return fmt.Errorf("engine configuration is nil")
	}
	if envEngine := os.Getenv("CSPROCOMPILE_ENGINE"); envEngine != "" {
		engine.Name = envEngine
	}
	name, err := normalizeEngineName(engine.Name)
	if err != nil {
		return err
	}
	engine.Name = name

	if engine.OutputDirectory != "" {
		expanded, err := files.ExpandPath(engine.OutputDirectory)
		if err != nil {
			return fmt.Errorf("failed to expand output directory %q: %w", engine.OutputDirectory, err)
		}
		engine.OutputDirectory = expanded
	}
	return nil
}

// SetEngine selects the engine by name, overriding configuration and environment.
func SetEngine(cfg *Config, name string) error {
	normalized, err := normalizeEngineName(name)
	if err != nil {
		return err
	}
	cfg.Engine.Name = normalized
	return nil
}

func normalizeEngineName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return EngineNull, nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("engine name must be a plugin name, not a path: %q", name)
	}
	return name, nil
}

// ValidateLoggerConfig checks the configured log level.
func ValidateLoggerConfig(logger *Logger) error {
	if logger == nil {
		return fmt.Errorf("logger configuration is nil")
	}
	if logger.Level == "" {
		return nil
	}
	if !validLogLevels[strings.ToUpper(logger.Level)] {
		return fmt.Errorf("unsupported log level %q", logger.Level)
	}
	return nil
}

// updateHome updates the HomeFolder from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if homeFolder := os.Getenv("CSPROCOMPILE_HOME"); homeFolder != "" {
		cfg.CSProCompile.HomeFolder = homeFolder
	} else if cfg.CSProCompile.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.CSProCompile.HomeFolder = filepath.Join(homeFolder, ".csprocompile")
	}

	expandedHomePath, err := files.ExpandPath(cfg.CSProCompile.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand home path %q: %w", cfg.CSProCompile.HomeFolder, err)
	}
	cfg.CSProCompile.HomeFolder = expandedHomePath
	return nil
}

// updateFolder updates a folder path from envVar, defaulting to a subfolder of the home folder.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetHomeFolder(cfg), defaultSubFolder)
	}

	expandedPath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", *folder, err)
	}
	*folder = expandedPath
	return nil
}
