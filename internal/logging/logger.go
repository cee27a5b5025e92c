package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func InitLogger(level slog.Level, addSource bool) {
	slog.SetDefault(NewLogger(os.Stdout, level, addSource))
}

func NewLogger(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  addSource,
		NoColor:    !isTerminal(w),
	})

	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
