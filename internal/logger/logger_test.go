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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCapturedOutput(format string) *bytes.Buffer {
	var buf bytes.Buffer
	SetOutput(&buf, format)
	return &buf
}

func TestSeverityFiltering(t *testing.T) {
	buf := withCapturedOutput("text")
	SetLevel(SeverityWarn)

	Infof("should not appear")
	assert.Empty(t, buf.String())

	Warnf("should appear")
	assert.Contains(t, buf.String(), "should appear")
	assert.Contains(t, buf.String(), "severity=WARNING")
}

func TestJSONFormat(t *testing.T) {
	buf := withCapturedOutput("json")
	SetLevel(SeverityTrace)

	Tracef("hello %s", "world")

	assert.Contains(t, buf.String(), `"severity":"TRACE"`)
	assert.Contains(t, buf.String(), `"msg":"hello world"`)
}

func TestSetLevelUnknownDefaultsToInfo(t *testing.T) {
	buf := withCapturedOutput("text")
	SetLevel("not-a-real-level")

	Debugf("hidden")
	Infof("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
