// Copyright 2025 The kvfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the leveled structured logging used throughout
// kvfs: a log/slog foundation with trace/debug/info/warning/error
// severities and a text/json format switch.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Severity levels, mapped onto slog's level scale with extra headroom
// for Trace (below Debug) and Off (above Error).
const (
	LevelTrace slog.Level = slog.LevelDebug - 4
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelOff   slog.Level = slog.LevelError + 4
)

// Severity names accepted by SetLevel / the --log-severity flag.
const (
	SeverityTrace = "trace"
	SeverityDebug = "debug"
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
	SeverityOff   = "off"
)

var programLevel = new(slog.LevelVar)

var defaultLogger = slog.New(newHandler(os.Stderr, "text", programLevel))

func levelName(level slog.Level) string {
	switch {
	case level < LevelDebug:
		return "TRACE"
	case level < LevelInfo:
		return "DEBUG"
	case level < LevelWarn:
		return "INFO"
	case level < LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

func newHandler(w io.Writer, format string, level *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl, _ := a.Value.Any().(slog.Level)
				a.Value = slog.StringValue(levelName(lvl))
				a.Key = "severity"
			}
			return a
		},
	}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetOutput redirects future log lines to w, in the given format
// ("text" or "json").
func SetOutput(w io.Writer, format string) {
	defaultLogger = slog.New(newHandler(w, format, programLevel))
}

// SetLevel sets the minimum severity that will be emitted.
func SetLevel(severity string) {
	switch severity {
	case SeverityTrace:
		programLevel.Set(LevelTrace)
	case SeverityDebug:
		programLevel.Set(LevelDebug)
	case SeverityInfo:
		programLevel.Set(LevelInfo)
	case SeverityWarn:
		programLevel.Set(LevelWarn)
	case SeverityError:
		programLevel.Set(LevelError)
	case SeverityOff:
		programLevel.Set(LevelOff)
	default:
		programLevel.Set(LevelInfo)
	}
}

func Tracef(format string, args ...interface{}) { logf(LevelTrace, format, args...) }
func Debugf(format string, args ...interface{}) { logf(LevelDebug, format, args...) }
func Infof(format string, args ...interface{})  { logf(LevelInfo, format, args...) }
func Warnf(format string, args ...interface{})  { logf(LevelWarn, format, args...) }
func Errorf(format string, args ...interface{}) { logf(LevelError, format, args...) }

func logf(level slog.Level, format string, args ...interface{}) {
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}
