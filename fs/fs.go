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

package fs

import (
	"context"
	"fmt"
	"syscall"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/syncutil"
	"github.com/nicolagi-labs/kvfs/clock"
	"github.com/nicolagi-labs/kvfs/internal/kvfs"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/nicolagi-labs/kvfs/internal/logger"
	"github.com/nicolagi-labs/kvfs/internal/pathutil"
	"github.com/nicolagi-labs/kvfs/internal/record"
)

// Config holds everything needed to stand up a mounted file system.
type Config struct {
	Store kvstore.Store
	Clock clock.Clock
	Uid   uint32
	Gid   uint32

	// FileMode and DirMode are the configured default permission bits
	// (including type bits, e.g. kvfs.ModeRegular|0644), applied to the
	// root directory at bootstrap and enforced as a ceiling on every
	// newly created node's permission bits. Zero means "use the
	// package default" (see kvfs.Bootstrap).
	FileMode uint32
	DirMode  uint32
}

// NewServer bootstraps the path-based core against the given store and
// wraps it in a fuseutil.FileSystemServer, ready to be passed to
// fuse.Mount.
func NewServer(cfg *Config) (fuse.Server, error) {
	fs, err := newFileSystem(cfg)
	if err != nil {
		return nil, err
	}
	return fuseutil.NewFileSystemServer(fs), nil
}

func newFileSystem(cfg *Config) (*fileSystem, error) {
	core, err := kvfs.Bootstrap(cfg.Store, cfg.Clock, cfg.Uid, cfg.Gid, cfg.FileMode, cfg.DirMode)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	fs := &fileSystem{
		core:         core,
		uid:          cfg.Uid,
		gid:          cfg.Gid,
		paths:        make(map[fuseops.InodeID]string),
		ids:          make(map[string]fuseops.InodeID),
		lookupCounts: make(map[fuseops.InodeID]uint64),
		nextInodeID:  fuseops.RootInodeID + 1,
		handles:      make(map[fuseops.HandleID]interface{}),
		nextHandleID: 1,
	}
	fs.paths[fuseops.RootInodeID] = "/"
	fs.ids["/"] = fuseops.RootInodeID
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)

	return fs, nil
}

// fileSystem bridges jacobsa/fuse's inode-ID addressed fuseutil.FileSystem
// interface onto the path-based core in internal/kvfs. The core never
// hears about inode IDs; this is the only place that maintains the
// path<->ID table the kernel requires.
//
// LOCK ORDERING
//
// There is a single lock, fs.mu, held for the full duration of every
// operation handler. The core has no locking of its own — it assumes
// its callers deliver one operation at a time — and jacobsa/fuse
// dispatches ops from a goroutine pool, so the bridge is where that
// serialization must happen. The lock also guards the inode and handle
// tables below.
type fileSystem struct {
	fuseutil.NotImplementedFileSystem

	// GUARDED_BY(mu)
	core *kvfs.FS

	uid uint32
	gid uint32

	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	paths map[fuseops.InodeID]string
	// GUARDED_BY(mu)
	ids map[string]fuseops.InodeID
	// GUARDED_BY(mu)
	lookupCounts map[fuseops.InodeID]uint64
	// GUARDED_BY(mu)
	nextInodeID fuseops.InodeID

	// GUARDED_BY(mu)
	handles map[fuseops.HandleID]interface{}
	// GUARDED_BY(mu)
	nextHandleID fuseops.HandleID
}

// checkInvariants verifies that the path<->inode tables agree with each
// other. Only exercised when built with the race detector or explicit
// invariant checking enabled; see syncutil.InvariantMutex.
func (fs *fileSystem) checkInvariants() {
	if len(fs.paths) != len(fs.ids) {
		panic(fmt.Sprintf("fs: paths/ids size mismatch: %d vs %d", len(fs.paths), len(fs.ids)))
	}
	for id, p := range fs.paths {
		if other, ok := fs.ids[p]; !ok || other != id {
			panic(fmt.Sprintf("fs: inconsistent mapping for %s", p))
		}
	}
}

func joinChild(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// attrFor reports Nlink as number_children - 1, not the conventional
// POSIX "2 plus subdirectories for a directory, 1 for a file":
// NumberChildren counts the reserved self and parent slots plus one slot
// per real child, so subtracting one gives one for the node itself plus
// one per real child, files and directories alike.
func (fs *fileSystem) attrFor(node *record.Node) fuseops.InodeAttributes {
	nlink := uint32(node.NumberChildren) - 1
	return fuseops.InodeAttributes{
		Size:  uint64(node.Size),
		Nlink: nlink,
		Mode:  posixToGoMode(node.Mode),
		Uid:   node.UID,
		Gid:   node.GID,
		Atime: node.MTime,
		Mtime: node.MTime,
		Ctime: node.CTime,
	}
}

// EXCLUSIVE_LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) inodeForPath(path string) fuseops.InodeID {
	if path == "/" {
		return fuseops.RootInodeID
	}
	if id, ok := fs.ids[path]; ok {
		return id
	}
	id := fs.nextInodeID
	fs.nextInodeID++
	fs.ids[path] = id
	fs.paths[id] = path
	return id
}

// EXCLUSIVE_LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) pathForInode(id fuseops.InodeID) (string, bool) {
	if id == fuseops.RootInodeID {
		return "/", true
	}
	p, ok := fs.paths[id]
	return p, ok
}

// EXCLUSIVE_LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) newHandle(h interface{}) fuseops.HandleID {
	id := fs.nextHandleID
	fs.nextHandleID++
	fs.handles[id] = h
	return id
}

// lookUpChild resolves a (parent inode, child name) pair to the child's
// attributes and mints or reuses its inode ID, incrementing its lookup
// count as the kernel contract for LookUpInode/MkDir/CreateFile requires.
//
// EXCLUSIVE_LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) lookUpChild(parentID fuseops.InodeID, name string) (fuseops.InodeID, *record.Node, error) {
	parentPath, ok := fs.pathForInode(parentID)
	if !ok {
		return 0, nil, syscall.ENOENT
	}

	childPath := joinChild(parentPath, name)
	node, err := fs.core.GetAttr(childPath)
	if err != nil {
		return 0, nil, err
	}

	id := fs.inodeForPath(childPath)
	fs.lookupCounts[id]++

	return id, node, nil
}

// StatFS returns all-zero statistics: the kernel only needs the call to
// succeed for tools like df to tolerate the mount, and a KV-backed tree
// has no meaningful block geometry to report.
func (fs *fileSystem) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	return nil
}

func (fs *fileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id, node, err := fs.lookUpChild(op.Parent, op.Name)
	if err != nil {
		return err
	}
	op.Entry = fuseops.ChildInodeEntry{
		Child:      id,
		Attributes: fs.attrFor(node),
	}
	return nil
}

func (fs *fileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}

	node, err := fs.core.GetAttr(path)
	if err != nil {
		return err
	}
	op.Attributes = fs.attrFor(node)
	return nil
}

func (fs *fileSystem) SetInodeAttributes(ctx context.Context, op *fuseops.SetInodeAttributesOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}

	if op.Size != nil {
		if err := fs.core.Truncate(path, int64(*op.Size)); err != nil {
			return err
		}
	}
	if op.Mode != nil {
		if err := fs.core.Chmod(path, goModeToPosix(*op.Mode)); err != nil {
			return err
		}
	}
	if op.Mtime != nil {
		node, err := fs.core.GetAttr(path)
		if err != nil {
			return err
		}
		if err := fs.core.Utime(path, op.Mtime.Unix(), node.CTime.Unix()); err != nil {
			return err
		}
	}

	node, err := fs.core.GetAttr(path)
	if err != nil {
		return err
	}
	op.Attributes = fs.attrFor(node)
	return nil
}

func (fs *fileSystem) ForgetInode(ctx context.Context, op *fuseops.ForgetInodeOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if op.Inode == fuseops.RootInodeID {
		return nil
	}

	count := fs.lookupCounts[op.Inode]
	if op.N >= count {
		delete(fs.lookupCounts, op.Inode)
		if p, ok := fs.paths[op.Inode]; ok {
			delete(fs.paths, op.Inode)
			delete(fs.ids, p)
		}
	} else {
		fs.lookupCounts[op.Inode] = count - op.N
	}
	return nil
}

func (fs *fileSystem) MkDir(ctx context.Context, op *fuseops.MkDirOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, ok := fs.pathForInode(op.Parent)
	if !ok {
		return syscall.ENOENT
	}

	childPath := joinChild(parentPath, op.Name)
	perm := goModeToPosix(op.Mode) & 0777 & fs.core.DefaultDirMode()
	mode := kvfs.ModeDir | perm
	node, err := fs.core.Create(childPath, mode, fs.uid, fs.gid)
	if err != nil {
		return err
	}

	id := fs.inodeForPath(childPath)
	fs.lookupCounts[id]++

	op.Entry = fuseops.ChildInodeEntry{
		Child:      id,
		Attributes: fs.attrFor(node),
	}
	return nil
}

func (fs *fileSystem) CreateFile(ctx context.Context, op *fuseops.CreateFileOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, ok := fs.pathForInode(op.Parent)
	if !ok {
		return syscall.ENOENT
	}

	childPath := joinChild(parentPath, op.Name)
	perm := goModeToPosix(op.Mode) & 0777 & fs.core.DefaultFileMode()
	mode := kvfs.ModeRegular | perm
	node, err := fs.core.Create(childPath, mode, fs.uid, fs.gid)
	if err != nil {
		return err
	}

	id := fs.inodeForPath(childPath)
	fs.lookupCounts[id]++

	op.Entry = fuseops.ChildInodeEntry{
		Child:      id,
		Attributes: fs.attrFor(node),
	}
	op.Handle = fs.newHandle(newFileHandle())
	return nil
}

func (fs *fileSystem) RmDir(ctx context.Context, op *fuseops.RmDirOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, ok := fs.pathForInode(op.Parent)
	if !ok {
		return syscall.ENOENT
	}
	return fs.core.Rmdir(joinChild(parentPath, op.Name))
}

func (fs *fileSystem) Unlink(ctx context.Context, op *fuseops.UnlinkOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath, ok := fs.pathForInode(op.Parent)
	if !ok {
		return syscall.ENOENT
	}
	return fs.core.Unlink(joinChild(parentPath, op.Name))
}

func (fs *fileSystem) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}

	entries, err := fs.core.ReadDir(path)
	if err != nil {
		return err
	}

	dirents := make([]fuseutil.Dirent, 0, len(entries))
	for _, e := range entries {
		var id fuseops.InodeID
		switch e.Name {
		case ".":
			id = op.Inode
		case "..":
			id = fs.inodeForPath(pathutil.ParentDir(path))
		default:
			id = fs.inodeForPath(joinChild(path, e.Name))
		}

		isDir := e.IsDir
		if e.Node == nil {
			isDir = true // "." and ".." are always directories.
		}

		dirents = append(dirents, fuseutil.Dirent{
			Inode: id,
			Name:  e.Name,
			Type:  direntType(isDir),
		})
	}

	op.Handle = fs.newHandle(newDirHandle(dirents))
	return nil
}

func (fs *fileSystem) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dh, ok := fs.handles[op.Handle].(*dirHandle)
	if !ok {
		return syscall.EINVAL
	}
	return dh.ReadDir(op)
}

func (fs *fileSystem) ReleaseDirHandle(ctx context.Context, op *fuseops.ReleaseDirHandleOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.handles, op.Handle)
	return nil
}

func (fs *fileSystem) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}
	if _, err := fs.core.Open(path); err != nil {
		return err
	}
	op.Handle = fs.newHandle(newFileHandle())
	return nil
}

func (fs *fileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}

	data, err := fs.core.Read(path, len(op.Dst), op.Offset)
	if err != nil {
		return err
	}
	op.BytesRead = copy(op.Dst, data)
	return nil
}

func (fs *fileSystem) WriteFile(ctx context.Context, op *fuseops.WriteFileOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path, ok := fs.pathForInode(op.Inode)
	if !ok {
		return syscall.ENOENT
	}
	_, err := fs.core.Write(path, op.Data, op.Offset)
	return err
}

// SyncFile and FlushFile are no-ops: every mutation already lands in the
// store synchronously, so there is nothing buffered to push out.
func (fs *fileSystem) SyncFile(ctx context.Context, op *fuseops.SyncFileOp) error {
	return nil
}

func (fs *fileSystem) FlushFile(ctx context.Context, op *fuseops.FlushFileOp) error {
	return nil
}

func (fs *fileSystem) ReleaseFileHandle(ctx context.Context, op *fuseops.ReleaseFileHandleOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.handles, op.Handle)
	return nil
}

func (fs *fileSystem) Destroy() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.core.Close(); err != nil {
		logger.Errorf("fs: closing store: %v", err)
	}
}
