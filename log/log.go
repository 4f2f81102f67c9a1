/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package log implements the kvmerkle leveled logger. It keeps a small
// interface of its own so that packages do not depend on the backend, which
// is Hashicorp's hclog.
package log

import (
	"io"
	"log"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Level represents the logging level.
type Level uint32

const (
	// NotSet level is used to indicate that no level has been set
	// and allow for a default to be used
	NotSet Level = iota

	// Off is intended to avoid tracing any action.
	Off

	// Error designates failures surfaced to the caller.
	Error

	// Warn designates potentially harmful situations (e.g. trees that
	// cannot be represented in compact form).
	Warn

	// Info
	Info

	// Debug
	Debug

	// Trace
	Trace
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// LevelFromString returns a Level type for the named log level, or
// "NotSet" if the level passed as argument is invalid.
func LevelFromString(level string) Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "off", "silent":
		return Off
	case "error":
		return Error
	case "warn":
		return Warn
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	default:
		return NotSet
	}
}

type Logger interface {
	Trace(msg string)
	Tracef(format string, args ...interface{})
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})

	// Create a logger that will prepend the given name on front of all
	// messages. If the logger has a previously set name, the new value
	// will be the appended to it.
	Named(name string) Logger

	// Create a logger that will prepend the given name on front of all
	// messages. It overrides any previously set name.
	ResetNamed(name string) Logger

	IsDebug() bool

	// StdLogger returns a logger implementation that conforms to the
	// stdlib log.Logger interface, for packages like net/http that expect
	// one.
	StdLogger() *log.Logger
}

// LoggerOptions can be used to configure a new logger.
type LoggerOptions struct {
	// Name of the subsystem to prefix logs with.
	Name string

	// Level is the threshold for the logger. Any log trace less
	// sever is supressed.
	Level Level

	// Output is the writer implementation where to write logs to.
	// If nil, defaults to DefaultOutput.
	Output io.Writer

	// TimeFormat is the time format to use instead of the default one.
	TimeFormat string

	// IncludeLocation includes file and line information in each log line.
	IncludeLocation bool

	// Mutex is an optional mutex pointer in case Output is shared.
	Mutex *sync.Mutex
}

func New(opts *LoggerOptions) Logger {
	if opts == nil {
		opts = &LoggerOptions{}
	}

	output := opts.Output
	if output == nil {
		output = DefaultOutput
	}

	level := opts.Level
	if level == NotSet {
		level = DefaultLevel
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	// a nil *sync.Mutex would still be a non nil hclog.Locker
	var mutex hclog.Locker
	if opts.Mutex != nil {
		mutex = opts.Mutex
	}

	return &hclogLogger{
		level: level,
		l: hclog.New(&hclog.LoggerOptions{
			Name:            opts.Name,
			Level:           toHclogLevel(level),
			Output:          output,
			TimeFormat:      timeFormat,
			IncludeLocation: opts.IncludeLocation,
			Mutex:           mutex,
		}),
	}
}

func toHclogLevel(level Level) hclog.Level {
	switch level {
	case Error:
		return hclog.Error
	case Warn:
		return hclog.Warn
	case Info:
		return hclog.Info
	case Debug:
		return hclog.Debug
	case Trace:
		return hclog.Trace
	default:
		return hclog.Off
	}
}
