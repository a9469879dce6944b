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

package kvfs

import "github.com/nicolagi-labs/kvfs/internal/record"

// cacheGet returns the cached node if it is occupied and holds path,
// exactly (no prefix matching).
func (fs *FS) cacheGet(path string) (*record.Node, bool) {
	if fs.cache == nil || fs.cache.Path != path {
		return nil, false
	}
	return fs.cache.Clone(), true
}

// cacheSet overwrites the cache slot with a copy of node.
func (fs *FS) cacheSet(node *record.Node) {
	fs.cache = node.Clone()
}

// noteMutated records a successfully persisted node in the cache slot
// and, when the node is the root itself, refreshes the in-memory root
// copy so the resolver's starting point cannot drift from the store.
func (fs *FS) noteMutated(node *record.Node) {
	fs.cacheSet(node)
	if node.Path == "/" {
		fs.root = node.Clone()
	}
}

// cacheInvalidate empties the cache slot. An empty slot is a nil
// pointer, not an occupied node with a sentinel field.
func (fs *FS) cacheInvalidate() {
	fs.cache = nil
}
