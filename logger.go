package lite

import (
	"fmt"

	"go.uber.org/zap"
)

type LogLevel int

const (
	LogLevelDev LogLevel = iota
	LogLevelProd
	LogLevelSilent
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapLogger struct {
	l *zap.SugaredLogger
}

// NewLogger wraps a zap logger.
func NewLogger(l *zap.Logger) Logger {
	return &zapLogger{l.Sugar()}
}

func newZapLogger(level LogLevel) (*zapLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch level {
	case LogLevelDev:
		l, err = zap.NewDevelopmentConfig().Build()
	case LogLevelProd:
		l, err = zap.NewProductionConfig().Build()
	case LogLevelSilent:
		l = zap.NewNop()
	default:
		return nil, fmt.Errorf("log level should be one of LogLevelDev, LogLevelProd or LogLevelSilent, got %d", level)
	}
	if err != nil {
		return nil, err
	}
	return &zapLogger{l.Sugar()}, nil
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.l.Debugf("[DEBUG] "+format, args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.l.Infof("[INFO] "+format, args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.l.Warnf("[WARN] "+format, args...)
}

func (z *zapLogger) Errorf(format string, args ...any) {
	z.l.Errorf("[ERROR] "+format, args...)
}
