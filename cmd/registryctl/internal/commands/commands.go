package commands

import (
	"io"
	"log/slog"
	"os"

	"agencyreg/internal/platform/config"
	"agencyreg/internal/platform/logger"
)

type Globals struct {
	Config    config.Registry
	LogLevel  string
	LogFormat string
	Version   string

	// Stdout and Stderr default to the process streams; tests replace them.
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr != nil {
		return g.Stderr
	}
	return os.Stderr
}

func (g *Globals) logger() *slog.Logger {
	level, format := g.Config.Log.Level, g.Config.Log.Format
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	if g.LogFormat != "" {
		format = g.LogFormat
	}
	return logger.New(g.stderr(), level, format)
}
