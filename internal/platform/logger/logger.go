package logger

import (
	"io"
	"os"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// New は環境に応じたロガーを生成します。level が空でなければ環境既定のレベルを上書きします。
func New(env, level string) zerolog.Logger {
	return newWithWriter(os.Stdout, env, level)
}

func newWithWriter(w io.Writer, env, level string) zerolog.Logger {
	var (
		log          zerolog.Logger
		unknownEnv   bool
		defaultLevel zerolog.Level
	)

	switch env {
	case envLocal:
		log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
		defaultLevel = zerolog.DebugLevel
	case envDev:
		log = zerolog.New(w)
		defaultLevel = zerolog.InfoLevel
	case envProd:
		log = zerolog.New(w)
		defaultLevel = zerolog.WarnLevel
	default:
		log = zerolog.New(w)
		defaultLevel = zerolog.ErrorLevel
		unknownEnv = true
	}

	lvl := defaultLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	log = log.Level(lvl).With().Timestamp().Str("service", "employee-api").Logger()

	if unknownEnv {
		log.Error().Msg("The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
			" Please specify the value of `env`: local, development, production")
	}

	return log
}

// NewPgxTracer は pgx のクエリログを zerolog に流す tracer を返します。
func NewPgxTracer(log zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   pgxzero.NewLogger(log.With().Str("component", "pgx").Logger()),
		LogLevel: pgxTraceLogLevel(log.GetLevel()),
	}
}

func pgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
