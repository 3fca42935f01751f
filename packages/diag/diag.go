// Package diag holds volt's process-wide diagnostics: the slog handler used
// for warnings and the panic guard used at the serialized boundary.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

type Options struct {
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Writer receives log records. Nil means stderr.
	Writer io.Writer
}

var once sync.Once

// Init installs the default slog logger. Only the first call has any effect.
func Init(opts Options) {
	once.Do(func() {
		slog.SetDefault(NewLogger(opts))
	})
}

func NewLogger(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Recover must be deferred directly. When the surrounding function panics it
// logs the panic under op and runs fallback, which typically assigns a named
// result.
func Recover(op string, fallback func()) {
	r := recover()
	if r == nil {
		return
	}
	slog.Error("recovered panic",
		"op", op,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()))
	if fallback != nil {
		fallback()
	}
}
