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

import (
	"errors"

	"github.com/nicolagi-labs/kvfs/internal/ids"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/nicolagi-labs/kvfs/internal/pathutil"
	"github.com/nicolagi-labs/kvfs/internal/record"
)

// GetAttr resolves path and returns its node; the caller projects it
// onto whatever attribute shape it needs.
func (fs *FS) GetAttr(path string) (*record.Node, error) {
	return fs.Resolve(path)
}

// DirEntry is one entry returned by ReadDir: either a synthetic "." /
// ".." or a real child, named by its basename.
type DirEntry struct {
	Name  string
	IsDir bool
	Node  *record.Node // nil for "." and ".."
}

// ReadDir lists a directory: synthetic "." and ".." first, then one
// entry per real child slot.
func (fs *FS) ReadDir(path string) ([]DirEntry, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !IsDir(node.Mode) {
		return nil, ErrNotDir
	}

	entries := []DirEntry{
		{Name: "."},
		{Name: ".."},
	}

	for i := record.RestPos; i < int(node.NumberChildren); i++ {
		child, err := fs.getNode(node.Children[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, DirEntry{
			Name:  pathutil.Base(child.Path),
			IsDir: IsDir(child.Mode),
			Node:  child,
		})
	}

	return entries, nil
}

// Open resolves path and rejects unless the owner-read permission bit
// is set. Write-flag gating is not modeled here; write operations
// re-check their own preconditions.
func (fs *FS) Open(path string) (*record.Node, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !userReadable(node.Mode) {
		return nil, ErrPermission
	}
	return node, nil
}

// Read returns min(size-offset, requested) bytes of the file's blob
// starting at offset, or zero bytes if there is no blob yet or offset is
// at or past the logical size.
func (fs *FS) Read(path string, size int, offset int64) ([]byte, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return nil, err
	}

	if node.DataID == ids.Zero {
		return nil, nil
	}
	if offset >= node.Size {
		return nil, nil
	}

	blob, err := fs.store.Get(node.DataID)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrIO
	}

	end := offset + int64(size)
	if end > node.Size {
		end = node.Size
	}
	if end > int64(len(blob)) {
		end = int64(len(blob))
	}
	if offset > end {
		return nil, nil
	}

	return blob[offset:end], nil
}
