package logger

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/internal/config"
)

// NewLogger creates a new hclog.Logger instance based on the YAML configuration and the provided name.
// Output goes to stderr: stdout is reserved for compilation results.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return newLoggerWithWriter(cfg, name, os.Stderr)
}

func newLoggerWithWriter(cfg *config.Config, name string, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		DisableTime:     true,
		JSONFormat:      config.GetBoolValue(cfg, "Logger.JSONFormat", false),
		IncludeLocation: config.GetBoolValue(cfg, "Logger.IncludeLocation", false),
		Output:          w,
		Level:           determineLogLevel(cfg),
	})
}

// ForJob returns a logger tagged with a fresh job identifier.
// In verbose mode the level is lowered to at least INFO so progress lines are shown.
func ForJob(logger hclog.Logger, verbose bool) hclog.Logger {
	jobLogger := logger.With("job", uuid.New().String())
	if verbose && (jobLogger.GetLevel() > hclog.Info || jobLogger.GetLevel() == hclog.NoLevel) {
		jobLogger.SetLevel(hclog.Info)
	}
	return jobLogger
}

// determineLogLevel returns a log level determined first by an environment variable, and if not set, by the provided configuration.
// If neither configuration nor environment variable specifies a log level, it defaults to WARN.
func determineLogLevel(cfg *config.Config) hclog.Level {
	if logLevelEnv := os.Getenv("CSPROCOMPILE_LOG_LEVEL"); logLevelEnv != "" {
		return parseLogLevel(strings.ToUpper(logLevelEnv))
	}
	if cfg == nil || cfg.Logger.Level == "" {
		return parseLogLevel(config.DefaultLogLevel)
	}
	return parseLogLevel(strings.ToUpper(cfg.Logger.Level))
}

// parseLogLevel converts a string level to hclog.Level.
func parseLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      os.Stderr,
		}).Warn("Unrecognized log level, defaulting to WARN", "providedLevel", levelStr)
		return hclog.Warn
	}
}
