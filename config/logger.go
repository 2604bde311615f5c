package config

import (
	"fmt"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is replaced by InitLogger at startup. It starts as a no-op logger so
// packages that log during tests never hit a nil pointer.
var Logger = zap.NewNop()

// InitLogger initializes the Zap logger with Lumberjack log rotation and a 'logs' folder
func InitLogger() {
	// Ensure the 'logs' directory exists
	err := os.MkdirAll("logs", os.ModePerm)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logs directory: %v", err))
	}

	logFile := &lumberjack.Logger{
		Filename:   fmt.Sprintf("logs/%s.log", time.Now().Format("2006-01-02")),
		MaxSize:    10, // megabytes before rotation
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	// File output plus stderr for warnings and above, so container logs still show failures
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(logFile), zapcore.InfoLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapcore.WarnLevel),
	)

	Logger = zap.New(core, zap.AddCaller())
}
