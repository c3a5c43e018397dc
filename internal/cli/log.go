package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Lines carry a centisecond clock
// ("14:32:01.45") so pipeline stages can be told apart when --verbose is on.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stageTimer reports how long a CLI step took.
type stageTimer struct {
	logger *log.Logger
	start  time.Time
}

func startStage(l *log.Logger) *stageTimer {
	return &stageTimer{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and an "elapsed" field,
// e.g. `Imported classes=812 root=owl:Thing elapsed=34ms`.
func (s *stageTimer) done(msg string, keyvals ...any) {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

// withCommandLogger returns a context carrying l tagged with the name of
// the running subcommand.
func withCommandLogger(ctx context.Context, l *log.Logger, command string) context.Context {
	return context.WithValue(ctx, loggerKey{}, l.With("cmd", command))
}

// commandLogger returns the logger stored by withCommandLogger, falling
// back to fallback outside a command run.
func commandLogger(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return fallback
}
