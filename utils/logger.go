package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger that writes to stderr only, keeping
// stdout free for reports.
func NewLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// BadgerLogger adapts a zap logger to badger's Logger interface.
type BadgerLogger struct {
	sugar *zap.SugaredLogger
}

func NewBadgerLogger(logger *zap.Logger) *BadgerLogger {
	return &BadgerLogger{sugar: logger.Named("badger").Sugar()}
}

func (bl *BadgerLogger) Errorf(format string, args ...interface{}) {
	bl.sugar.Errorf(format, args...)
}

func (bl *BadgerLogger) Warningf(format string, args ...interface{}) {
	bl.sugar.Warnf(format, args...)
}

func (bl *BadgerLogger) Infof(format string, args ...interface{}) {
	bl.sugar.Debugf(format, args...)
}

func (bl *BadgerLogger) Debugf(format string, args ...interface{}) {
	bl.sugar.Debugf(format, args...)
}
