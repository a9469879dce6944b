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
	"github.com/nicolagi-labs/kvfs/internal/ids"
	"github.com/nicolagi-labs/kvfs/internal/pathutil"
	"github.com/nicolagi-labs/kvfs/internal/record"
)

// Resolve walks from the root to path, returning the node's record. It
// consults and maintains the single-slot lookup cache.
func (fs *FS) Resolve(path string) (*record.Node, error) {
	path = pathutil.Normalize(path)

	if hit, ok := fs.cacheGet(path); ok {
		return hit, nil
	}

	if path == "/" {
		root, err := fs.getNode(RootMetaKey)
		if err != nil {
			return nil, err
		}
		fs.root = root
		fs.cacheSet(root)
		return root.Clone(), nil
	}

	current := fs.root.Clone()
	for _, prefix := range pathutil.Prefixes(path) {
		idx, child, err := fs.findIndex(current, prefix)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			fs.cacheInvalidate()
			return nil, ErrNotFound
		}
		current = child
	}

	fs.cacheSet(current)
	return current.Clone(), nil
}

// findIndex returns the index in parent.Children (within the real-child
// range [RestPos, NumberChildren)) whose stored node has Path ==
// childPath, along with that node, or (-1, nil, nil) if absent.
func (fs *FS) findIndex(parent *record.Node, childPath string) (int, *record.Node, error) {
	for i := record.RestPos; i < int(parent.NumberChildren); i++ {
		childID := parent.Children[i]
		child, err := fs.getNode(childID)
		if err != nil {
			return -1, nil, err
		}
		if child.Path == childPath {
			return i, child, nil
		}
	}
	return -1, nil, nil
}

// resolveParent loads the parent directory of path: the literal root
// node for top-level paths, or a regular Resolve otherwise. It fails
// with ErrNotDir if the resolved node is not a directory.
func (fs *FS) resolveParent(parentPath string) (*record.Node, error) {
	var parent *record.Node
	var err error

	if parentPath == "/" {
		parent, err = fs.getNode(RootMetaKey)
	} else {
		parent, err = fs.Resolve(parentPath)
	}
	if err != nil {
		return nil, err
	}
	if !IsDir(parent.Mode) {
		return nil, ErrNotDir
	}
	return parent, nil
}

// parentOf loads the parent of node via its PARENT_POS child pointer.
func (fs *FS) parentOf(node *record.Node) (*record.Node, error) {
	parentID := node.Children[record.ParentPos]
	if parentID == ids.Zero {
		return nil, ErrNotFound
	}
	return fs.getNode(parentID)
}
