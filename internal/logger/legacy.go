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

package logger

import (
	"log"
)

// NewLegacyLogger returns a *log.Logger that forwards every line it
// receives to the default kvfs logger at the given severity, tagged with
// prefix. Used to wire jacobsa/fuse's own internal logging into ours.
func NewLegacyLogger(severity string, prefix string) *log.Logger {
	return log.New(legacyLineWriter{severity: severity, prefix: prefix}, "", 0)
}

type legacyLineWriter struct {
	severity string
	prefix   string
}

func (w legacyLineWriter) Write(p []byte) (int, error) {
	msg := w.prefix + string(p)
	switch w.severity {
	case SeverityTrace:
		Tracef("%s", msg)
	case SeverityDebug:
		Debugf("%s", msg)
	case SeverityWarn:
		Warnf("%s", msg)
	case SeverityError:
		Errorf("%s", msg)
	default:
		Infof("%s", msg)
	}
	return len(p), nil
}
