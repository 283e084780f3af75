package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mux   sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init builds the process logger. Anything other than "prod"/"production"
// gives the development encoder.
func Init(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return err
	}
	mux.Lock()
	sugar = zapLogger.Sugar()
	mux.Unlock()
	return nil
}

func get() *zap.SugaredLogger {
	mux.RLock()
	defer mux.RUnlock()
	return sugar
}

func Sync() {
	_ = get().Sync()
}

func Debug(msg string, keysAndValues ...interface{}) {
	get().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	get().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	get().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	get().Fatalw(msg, keysAndValues...)
}
