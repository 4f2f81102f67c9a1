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

package log

import (
	"fmt"
	"log"

	"github.com/hashicorp/go-hclog"
)

// hclogLogger implements Logger on top of an hclog.Logger. Formatted
// variants are rendered before reaching hclog so that messages never carry
// key/value pairs.
type hclogLogger struct {
	level Level
	l     hclog.Logger
}

func (h *hclogLogger) Trace(msg string) { h.l.Trace(msg) }

func (h *hclogLogger) Tracef(format string, args ...interface{}) {
	if h.l.IsTrace() {
		h.l.Trace(fmt.Sprintf(format, args...))
	}
}

func (h *hclogLogger) Debug(msg string) { h.l.Debug(msg) }

func (h *hclogLogger) Debugf(format string, args ...interface{}) {
	if h.l.IsDebug() {
		h.l.Debug(fmt.Sprintf(format, args...))
	}
}

func (h *hclogLogger) Info(msg string) { h.l.Info(msg) }

func (h *hclogLogger) Infof(format string, args ...interface{}) {
	if h.l.IsInfo() {
		h.l.Info(fmt.Sprintf(format, args...))
	}
}

func (h *hclogLogger) Warn(msg string) { h.l.Warn(msg) }

func (h *hclogLogger) Warnf(format string, args ...interface{}) {
	if h.l.IsWarn() {
		h.l.Warn(fmt.Sprintf(format, args...))
	}
}

func (h *hclogLogger) Error(msg string) { h.l.Error(msg) }

func (h *hclogLogger) Errorf(format string, args ...interface{}) {
	if h.l.IsError() {
		h.l.Error(fmt.Sprintf(format, args...))
	}
}

func (h *hclogLogger) Named(name string) Logger {
	return &hclogLogger{level: h.level, l: h.l.Named(name)}
}

func (h *hclogLogger) ResetNamed(name string) Logger {
	return &hclogLogger{level: h.level, l: h.l.ResetNamed(name)}
}

func (h *hclogLogger) IsDebug() bool {
	return h.l.IsDebug()
}

func (h *hclogLogger) StdLogger() *log.Logger {
	return h.l.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
}
