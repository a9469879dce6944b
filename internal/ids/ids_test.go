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

package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.True(t, ID{}.IsZero())
}

func TestNewIsNotZeroAndUnique(t *testing.T) {
	a := New()
	b := New()

	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
}

func TestStringLength(t *testing.T) {
	id := New()
	assert.Len(t, id.String(), Size*2)
}
