// Package log é um logger estruturado fino sobre zap.
package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger é o subconjunto de zap.SugaredLogger usado no projeto.
type Logger interface {
	Debugw(msg string, keyvals ...interface{})
	Infow(msg string, keyvals ...interface{})
	Warnw(msg string, keyvals ...interface{})
	Errorw(msg string, keyvals ...interface{})
	Fatalw(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) Logger
	Named(name string) Logger
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) With(keyvals ...interface{}) Logger {
	return &logger{l.SugaredLogger.With(keyvals...)}
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

// New cria um logger escrevendo em output (stdout se nil) a partir de `level`
// ("debug", "info", "warn", "error"). Nível desconhecido vira info.
func New(output zapcore.WriteSyncer, level string, jsonFormat bool) Logger {
	if output == nil {
		output = os.Stdout
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	if jsonFormat {
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, output, ParseLevel(level))
	return &logger{zap.New(core, zap.WithCaller(true)).Sugar()}
}

// Nop descarta tudo. Útil em testes.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
