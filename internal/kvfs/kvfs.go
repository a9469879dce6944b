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

// Package kvfs is the on-store data model and path-resolution/mutation
// engine: it layers a hierarchical, mutable directory tree on top of a
// flat kvstore.Store, using 128-bit ids.ID keys and fixed-width
// record.Node images.
//
// Everything in this package operates on absolute paths. It knows
// nothing about inode numbers, file handles, or the kernel VFS — that
// translation is the fs package's job.
package kvfs

import (
	"fmt"

	"github.com/nicolagi-labs/kvfs/clock"
	"github.com/nicolagi-labs/kvfs/internal/ids"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/nicolagi-labs/kvfs/internal/logger"
	"github.com/nicolagi-labs/kvfs/internal/record"
)

// RootMetaKey is the well-known key under which the root directory's
// node record lives. It is a reserved, non-random identifier — the
// identifier service never hands it out via ids.New — so that bootstrap
// can always find the root without needing a second, separate pointer
// record.
var RootMetaKey = ids.ID{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// DefaultDirMode and DefaultFileMode are applied when the caller doesn't
// carry more specific permission bits (bootstrap's root, mostly).
const (
	DefaultDirMode  = ModeDir | 0755
	DefaultFileMode = ModeRegular | 0644
)

// FS is one mounted filesystem instance: the store it persists to, the
// process-wide root copy and single-slot lookup cache, the clock used
// for mtime/ctime stamping, and the configured default file and
// directory permission bits (the --file-mode/--dir-mode flags).
//
// FS assumes single-threaded cooperative use — callers (the fs bridge
// package) are responsible for serializing calls into it.
type FS struct {
	store kvstore.Store
	clk   clock.Clock

	// root is the in-memory copy of the root node's record. It is
	// rewritten on any mutation whose target is a child of the root, and
	// refreshed from the store whenever "/" is resolved.
	root *record.Node

	// cache holds the most recently resolved node, or nil if empty.
	// See cache.go.
	cache *record.Node

	// fileMode and dirMode are the configured defaults (type bits plus
	// permission bits), applied to the root at bootstrap and used by the
	// fs bridge package as the ceiling on any newly created node's
	// permission bits. See DefaultFileMode, DefaultDirMode.
	fileMode uint32
	dirMode  uint32
}

// Bootstrap opens (creating on first mount) the root directory record in
// store and returns a ready-to-use FS. fileMode and dirMode are the
// configured default permission bits (including type bits, e.g.
// ModeRegular|0644); a zero value for either falls back to the package
// default so that callers which don't care about this (tests, mostly)
// don't need to supply it.
func Bootstrap(store kvstore.Store, clk clock.Clock, uid, gid, fileMode, dirMode uint32) (*FS, error) {
	if fileMode == 0 {
		fileMode = DefaultFileMode
	}
	if dirMode == 0 {
		dirMode = DefaultDirMode
	}

	fs := &FS{store: store, clk: clk, fileMode: fileMode, dirMode: dirMode}

	buf, err := store.Get(RootMetaKey)
	if err == kvstore.ErrNotFound {
		logger.Infof("kvfs: no root record found, materializing a fresh one")
		return fs, fs.materializeRoot(uid, gid, dirMode)
	}
	if err != nil {
		return nil, fmt.Errorf("kvfs: bootstrap: reading root: %w", err)
	}

	root, err := record.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("kvfs: bootstrap: decoding root: %w", err)
	}
	fs.root = root
	logger.Infof("kvfs: loaded existing root record %s", root.MetaID)
	return fs, nil
}

// DefaultFileMode and DefaultDirMode return the permission defaults this
// FS was bootstrapped with (the --file-mode/--dir-mode flags), including
// type bits.
func (fs *FS) DefaultFileMode() uint32 { return fs.fileMode }
func (fs *FS) DefaultDirMode() uint32  { return fs.dirMode }

func (fs *FS) materializeRoot(uid, gid, dirMode uint32) error {
	now := fs.clk.Now()

	dataID := ids.New()
	root := &record.Node{
		Path:           "/",
		MetaID:         RootMetaKey,
		DataID:         dataID,
		Mode:           dirMode,
		UID:            uid,
		GID:            gid,
		Size:           0,
		MTime:          now,
		CTime:          now,
		NumberChildren: record.RestPos,
	}
	root.Children[record.SelfPos] = RootMetaKey
	root.Children[record.ParentPos] = ids.Zero

	if err := fs.store.Put(dataID, nil); err != nil {
		return fmt.Errorf("kvfs: materializing root blob: %w", err)
	}

	buf, err := root.Encode()
	if err != nil {
		return fmt.Errorf("kvfs: encoding root: %w", err)
	}
	if err := fs.store.Put(RootMetaKey, buf); err != nil {
		return fmt.Errorf("kvfs: persisting root: %w", err)
	}

	fs.root = root
	return nil
}

// Close releases the underlying store. Safe to call once, at unmount.
func (fs *FS) Close() error {
	return fs.store.Close()
}

// putNode encodes and persists node under its own MetaID.
func (fs *FS) putNode(node *record.Node) error {
	buf, err := node.Encode()
	if err != nil {
		return ErrIO
	}
	if err := fs.store.Put(node.MetaID, buf); err != nil {
		return ErrIO
	}
	return nil
}

// getNode fetches and decodes the node stored under id.
func (fs *FS) getNode(id ids.ID) (*record.Node, error) {
	buf, err := fs.store.Get(id)
	if err == kvstore.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, ErrIO
	}
	node, err := record.Decode(buf)
	if err != nil {
		return nil, ErrIO
	}
	return node, nil
}
