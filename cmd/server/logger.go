package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	auth "github.com/goliatone/go-logins"
)

// zapLogger adapts a sugared zap logger to auth.Logger.
// Arguments are treated as alternating key/value pairs.
type zapLogger struct {
	s *zap.SugaredLogger
}

var _ auth.Logger = zapLogger{}

func (l zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }

func newZapLogger(debug bool) (*zap.Logger, error) {
	if debug {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return c.Build()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func named(base *zap.Logger, name string) auth.Logger {
	return zapLogger{s: base.Named(name).Sugar()}
}
