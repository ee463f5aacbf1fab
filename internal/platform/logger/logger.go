// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the root zerolog.Logger every component derives from.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/constants"
)

// New initializes the root logger.
// 'devMode' enables human-readable console logging; 'debug' lowers the level.
func New(devMode, debug bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, devMode, debug)
}

// NewWithWriter is [New] with an explicit destination.
func NewWithWriter(out io.Writer, devMode, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if devMode {
		// Human-readable, colorful output for local development
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", constants.AppName).
		Logger()
}

// Component derives the sub-logger a component stores at construction time.
func Component(base *zerolog.Logger, name string) zerolog.Logger {
	if base == nil {
		return zerolog.Nop()
	}
	return base.With().Str("component", name).Logger()
}
