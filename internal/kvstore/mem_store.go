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

import "github.com/nicolagi-labs/kvfs/internal/ids"

// MemStore is an in-memory Store, used in unit tests that exercise the
// record codec, resolver and mutation engine without paying for a real
// bbolt file per test.
type MemStore struct {
	values map[ids.ID][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[ids.ID][]byte)}
}

func (s *MemStore) Get(key ids.ID) ([]byte, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemStore) GetSize(key ids.ID) (int, error) {
	v, ok := s.values[key]
	if !ok {
		return 0, ErrNotFound
	}
	return len(v), nil
}

func (s *MemStore) Put(key ids.ID, value []byte) error {
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStore) Append(key ids.ID, value []byte) error {
	s.values[key] = append(s.values[key], value...)
	return nil
}

func (s *MemStore) Delete(key ids.ID) error {
	delete(s.values, key)
	return nil
}

func (s *MemStore) Close() error {
	return nil
}
