// Package logger holds the process-wide structured logger.
//
// Logs always go to stderr: stdout carries generated code and, in serve
// mode, the MCP stdio transport.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It is a no-op until Initialize is called.
	Logger *zap.SugaredLogger
	// JSONOutput reports whether the last Initialize selected JSON encoding.
	JSONOutput bool
)

// Standard field names for structured logging.
const (
	FieldLanguage   = "language"
	FieldFile       = "file"
	FieldOutput     = "output"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldDurationMS = "duration_ms"
	FieldTool       = "tool"
	FieldError      = "error"
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize installs a console or JSON logger writing to stderr. debug
// lowers the level from info to debug.
func Initialize(debug, jsonOutput bool) error {
	JSONOutput = jsonOutput

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		zapLogger, err := config.Build()
		if err != nil {
			return err
		}
		Logger = zapLogger.Sugar()
		return nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	Logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)).Sugar()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
