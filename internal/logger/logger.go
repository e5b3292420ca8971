package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
)

// LevelEnv overrides the default log level when --log-level is not given.
const LevelEnv = "LOG_LEVEL"

// DefaultLevel returns the level from LOG_LEVEL, or "info".
func DefaultLevel() string {
	if lvl := os.Getenv(LevelEnv); lvl != "" {
		return lvl
	}
	return "info"
}

// ParseLevel accepts the level names used on the command line.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	}
	return zapcore.InfoLevel, xerrors.Errorf("unsupported value \"%s\" for --log-level", level)
}

// Config returns the logger config for a level and a format ("console",
// "json" or "minimal"). Output always goes to stderr so stdout stays free
// for results.
func Config(level zapcore.Level, format string) (zap.Config, error) {
	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Development = false
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	case "minimal":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig = zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			LineEnding:  zapcore.DefaultLineEnding,
			EncodeLevel: zapcore.CapitalLevelEncoder,
		}
		cfg.Development = false
	default:
		return zap.Config{}, xerrors.Errorf("unsupported value \"%s\" for --log-format", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = level > zapcore.DebugLevel
	return cfg, nil
}

// New builds a logger from command-line style level and format names.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg, err := Config(lvl, format)
	if err != nil {
		return nil, err
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, xerrors.Errorf("unable to build logger: %w", err)
	}
	return l, nil
}
