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

// Package kvstore is the thin contract over the embedded key/value engine
// that backs the filesystem: get, get_size, put, append and delete, each
// keyed by a 16-byte opaque identifier. Everything above this package
// (records, paths, the resolver, the mutation engine) is written against
// the Store interface alone and never assumes a particular engine.
package kvstore

import (
	"errors"

	"github.com/nicolagi-labs/kvfs/internal/ids"
)

// ErrNotFound is returned by Get and GetSize when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the KV adapter contract. Implementations need not be safe for
// concurrent use by multiple goroutines; the filesystem core calls into a
// Store from a single goroutine at a time.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key ids.ID) ([]byte, error)

	// GetSize returns the length of the value stored under key, without
	// necessarily reading the value itself, or ErrNotFound.
	GetSize(key ids.ID) (int, error)

	// Put stores value under key, replacing any previous value.
	Put(key ids.ID, value []byte) error

	// Append appends value to whatever is currently stored under key
	// (treating a missing key as empty).
	Append(key ids.ID, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key ids.ID) error

	// Close releases any resources held by the engine.
	Close() error
}
