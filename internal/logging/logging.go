// Package logging construye el logger zap de la aplicación. La TUI es
// dueña de stdout, así que todo va a archivo con rotación.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"vetdesk/internal/config"
)

// DefaultLogPath es la ruta por defecto bajo el directorio de caché del
// usuario.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "vetdesk.log"
	}
	return filepath.Join(dir, "vetdesk", "vetdesk.log")
}

func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", cfg.Level, err)
	}

	path := cfg.FilePath
	if path == "" {
		path = DefaultLogPath()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, level)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
