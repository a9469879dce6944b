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

package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOctalUnmarshalText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Octal
		wantErr  bool
	}{
		{name: "typical file mode", input: "644", expected: 0644},
		{name: "typical dir mode", input: "755", expected: 0755},
		{name: "leading zero accepted", input: "0600", expected: 0600},
		{name: "not octal", input: "999", wantErr: true},
		{name: "not a number", input: "rwx", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var o Octal
			err := o.UnmarshalText([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, o)
		})
	}
}

func TestOctalMarshalText(t *testing.T) {
	o := Octal(0755)
	text, err := o.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "755", string(text))
}

func TestOctalRoundTrip(t *testing.T) {
	want := Octal(0640)
	text, err := want.MarshalText()
	require.NoError(t, err)

	var got Octal
	require.NoError(t, got.UnmarshalText(text))
	assert.Equal(t, want, got)
}
