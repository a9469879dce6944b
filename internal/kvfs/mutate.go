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

// Create allocates a new node under its parent directory and links it
// into the parent's child vector. Mkdir is Create with the directory
// type bit set on mode by the caller (the fs bridge does this).
func (fs *FS) Create(path string, mode, uid, gid uint32) (*record.Node, error) {
	if len(path) >= record.PathMaxLen {
		return nil, ErrNameTooLong
	}

	parentPath := pathutil.ParentDir(path)
	parent, err := fs.resolveParent(parentPath)
	if err != nil {
		return nil, err
	}

	if idx, _, err := fs.findIndex(parent, path); err != nil {
		return nil, err
	} else if idx >= 0 {
		return nil, ErrExists
	}

	if parent.NumberChildren >= record.MaxChildren {
		return nil, ErrNoSpace
	}

	now := fs.clk.Now()
	metaID := ids.New()
	dataID := ids.New()

	node := &record.Node{
		Path:           path,
		MetaID:         metaID,
		DataID:         dataID,
		Mode:           mode,
		UID:            uid,
		GID:            gid,
		Size:           0,
		MTime:          now,
		CTime:          now,
		NumberChildren: record.RestPos,
	}
	node.Children[record.SelfPos] = metaID
	node.Children[record.ParentPos] = parent.MetaID

	parent.Children[parent.NumberChildren] = metaID
	parent.NumberChildren++
	parent.CTime = now

	if err := fs.putNode(node); err != nil {
		return nil, ErrIO
	}
	if err := fs.putNode(parent); err != nil {
		return nil, ErrIO
	}
	if err := fs.store.Put(dataID, nil); err != nil {
		return nil, ErrIO
	}

	fs.cacheSet(node)
	if parentPath == "/" {
		fs.root = parent
	}

	return node.Clone(), nil
}

// Write replaces the whole blob when offset is 0 and appends at any
// other offset. Random-offset overwrite is intentionally not supported —
// callers needing it must truncate then write sequentially.
func (fs *FS) Write(path string, data []byte, offset int64) (int, error) {
	node, err := fs.Resolve(path)
	if err != nil {
		return 0, err
	}

	if node.DataID == ids.Zero {
		node.DataID = ids.New()
	}

	if offset == 0 {
		err = fs.store.Put(node.DataID, data)
	} else {
		err = fs.store.Append(node.DataID, data)
	}
	if err != nil {
		return 0, ErrIO
	}

	now := fs.clk.Now()
	node.Size += int64(len(data))
	node.MTime = now
	node.CTime = now

	if err := fs.putNode(node); err != nil {
		return 0, ErrIO
	}

	fs.noteMutated(node)
	return len(data), nil
}

// Truncate records the new logical size. The blob itself is not
// reshaped; Size alone is authoritative, and Read clamps by it.
func (fs *FS) Truncate(path string, newSize int64) error {
	if newSize >= record.MaxFileSize {
		return ErrTooBig
	}

	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}

	node.Size = newSize
	if err := fs.putNode(node); err != nil {
		return ErrIO
	}

	fs.noteMutated(node)
	return nil
}

// Chmod replaces the node's mode bits.
func (fs *FS) Chmod(path string, mode uint32) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}
	// The caller supplies the complete mode value, file-type bits
	// included.
	node.Mode = mode
	if err := fs.putNode(node); err != nil {
		return ErrIO
	}
	fs.noteMutated(node)
	return nil
}

// Chown updates the node's owner and group. A failed persist returns
// EIO rather than being silently ignored.
func (fs *FS) Chown(path string, uid, gid uint32) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}
	node.UID = uid
	node.GID = gid
	if err := fs.putNode(node); err != nil {
		return ErrIO
	}
	fs.noteMutated(node)
	return nil
}

// Utime sets the node's modification and change times.
func (fs *FS) Utime(path string, mtime, ctime int64) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}
	node.MTime = unixToTime(mtime)
	node.CTime = unixToTime(ctime)
	if err := fs.putNode(node); err != nil {
		return ErrIO
	}
	fs.noteMutated(node)
	return nil
}

// Unlink removes path from its parent's child vector, then deletes its
// node and blob records.
func (fs *FS) Unlink(path string) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}

	parent, err := fs.parentOf(node)
	if err != nil {
		return ErrIO
	}

	idx, _, err := fs.findIndex(parent, path)
	if err != nil {
		return err
	}
	if idx < 0 {
		return ErrNotFound
	}

	for i := idx + 1; i < int(parent.NumberChildren); i++ {
		parent.Children[i-1] = parent.Children[i]
	}
	parent.NumberChildren--

	if err := fs.putNode(parent); err != nil {
		return ErrIO
	}
	if err := fs.store.Delete(node.MetaID); err != nil {
		return ErrIO
	}
	if node.DataID != ids.Zero {
		if err := fs.store.Delete(node.DataID); err != nil {
			return ErrIO
		}
	}

	fs.noteMutated(parent)

	return nil
}

// Rmdir is an empty-directory check followed by Unlink. Files and empty
// directories are removed identically; only the emptiness check
// differs.
func (fs *FS) Rmdir(path string) error {
	node, err := fs.Resolve(path)
	if err != nil {
		return err
	}
	if node.NumberChildren > record.RestPos {
		return ErrNotEmpty
	}
	return fs.Unlink(path)
}
