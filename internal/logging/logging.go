// Package logging configures the process-wide diagnostic logger. Diagnostics
// go to stderr so they never interleave with a job's log on stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs a tint handler on w as the default slog logger. Debug
// records are only written when debug is true. Colors are used only when w is
// a terminal and NO_COLOR is unset.
func Setup(w io.Writer, debug bool) *slog.Logger {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor(w),
	}))
	slog.SetDefault(logger)
	return logger
}

func noColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	return !ok || !isatty.IsTerminal(f.Fd())
}
