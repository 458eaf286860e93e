package logging

import (
	"log/slog"
	"os"
)

// NewStdoutHandler is the JSON handler on stdout. Development environments
// also get DEBUG records.
func NewStdoutHandler(appEnv string) slog.Handler {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(appEnv string) {
	slog.SetDefault(slog.New(NewStdoutHandler(appEnv)))
}

// AttachDB makes the global logger also write ERROR+ records to the
// database sink.
func AttachDB(appEnv string, sink *DBHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(NewStdoutHandler(appEnv), sink)))
}
