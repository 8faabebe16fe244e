package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
)

const serviceName = "orquesta-admin"

// SlogLogger implementa ports.Logger com um handler JSON do log/slog
type SlogLogger struct {
	logger *slog.Logger
}

// ParseLevel traduz LOG_LEVEL. Valores desconhecidos viram info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewSlogLogger escreve em stdout no nível pedido, com o nome do serviço em cada linha
func NewSlogLogger(level string) ports.Logger {
	parsed := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     parsed,
		AddSource: parsed == slog.LevelDebug,
	}
	return NewSlogLoggerWithWriter(os.Stdout, opts).With("service", serviceName)
}

// NewSlogLoggerWithWriter cria um logger JSON escrevendo em w
func NewSlogLoggerWithWriter(w io.Writer, opts *slog.HandlerOptions) ports.Logger {
	return &SlogLogger{logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// NewDiscardLogger descarta tudo; usado em testes
func NewDiscardLogger() ports.Logger {
	return NewSlogLoggerWithWriter(io.Discard, nil)
}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

func (l *SlogLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

func (l *SlogLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *SlogLogger) With(args ...any) ports.Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}
