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

package kvstore

import (
	"testing"

	"github.com/nicolagi-labs/kvfs/internal/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreGetPutDelete(t *testing.T) {
	s := NewMemStore()
	key := ids.New()

	_, err := s.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(key, []byte("hello")))
	v, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(v))

	size, err := s.GetSize(key)
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	require.NoError(t, s.Delete(key))
	_, err = s.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreAppend(t *testing.T) {
	s := NewMemStore()
	key := ids.New()

	require.NoError(t, s.Append(key, []byte("foo")))
	require.NoError(t, s.Append(key, []byte("bar")))

	v, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "foobar", string(v))
}

func TestMemStoreGetReturnsIndependentCopy(t *testing.T) {
	s := NewMemStore()
	key := ids.New()
	require.NoError(t, s.Put(key, []byte("abc")))

	v, _ := s.Get(key)
	v[0] = 'z'

	v2, _ := s.Get(key)
	assert.Equal(t, "abc", string(v2))
}
