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
	"testing"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/nicolagi-labs/kvfs/clock"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileSystem(t *testing.T) *fileSystem {
	t.Helper()
	fs, err := newFileSystem(&Config{
		Store: kvstore.NewMemStore(),
		Clock: &clock.SimulatedClock{},
		Uid:   1000,
		Gid:   1000,
	})
	require.NoError(t, err)
	return fs
}

func TestMkDirThenLookUpInode(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	mkdirOp := &fuseops.MkDirOp{Parent: fuseops.RootInodeID, Name: "d", Mode: 0755}
	require.NoError(t, fs.MkDir(ctx, mkdirOp))
	assert.NotZero(t, mkdirOp.Entry.Child)
	assert.True(t, mkdirOp.Entry.Attributes.Mode.IsDir())

	lookUpOp := &fuseops.LookUpInodeOp{Parent: fuseops.RootInodeID, Name: "d"}
	require.NoError(t, fs.LookUpInode(ctx, lookUpOp))
	assert.Equal(t, mkdirOp.Entry.Child, lookUpOp.Entry.Child)
}

func TestAttrForReportsNonPOSIXNlink(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	mkdirOp := &fuseops.MkDirOp{Parent: fuseops.RootInodeID, Name: "d", Mode: 0755}
	require.NoError(t, fs.MkDir(ctx, mkdirOp))
	// A freshly created, empty directory has self + parent in its child
	// vector (NumberChildren == 2), so nlink == number_children - 1 == 1.
	assert.EqualValues(t, 1, mkdirOp.Entry.Attributes.Nlink)

	dirID := mkdirOp.Entry.Child
	createOp := &fuseops.CreateFileOp{Parent: dirID, Name: "f", Mode: 0644}
	require.NoError(t, fs.CreateFile(ctx, createOp))
	// Adding one child bumps the directory's own nlink to 2.
	getOp := &fuseops.GetInodeAttributesOp{Inode: dirID}
	require.NoError(t, fs.GetInodeAttributes(ctx, getOp))
	assert.EqualValues(t, 2, getOp.Attributes.Nlink)
}

func TestCreateFileWriteReadRoundTrip(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	createOp := &fuseops.CreateFileOp{Parent: fuseops.RootInodeID, Name: "f", Mode: 0644}
	require.NoError(t, fs.CreateFile(ctx, createOp))
	assert.NotZero(t, createOp.Handle)

	writeOp := &fuseops.WriteFileOp{Inode: createOp.Entry.Child, Data: []byte("hello"), Offset: 0}
	require.NoError(t, fs.WriteFile(ctx, writeOp))

	readOp := &fuseops.ReadFileOp{Inode: createOp.Entry.Child, Dst: make([]byte, 5), Offset: 0}
	require.NoError(t, fs.ReadFile(ctx, readOp))
	assert.Equal(t, 5, readOp.BytesRead)
	assert.Equal(t, "hello", string(readOp.Dst[:readOp.BytesRead]))
}

func TestOpenDirReadDirListsEntries(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	require.NoError(t, fs.MkDir(ctx, &fuseops.MkDirOp{Parent: fuseops.RootInodeID, Name: "d", Mode: 0755}))
	dirLookup := &fuseops.LookUpInodeOp{Parent: fuseops.RootInodeID, Name: "d"}
	require.NoError(t, fs.LookUpInode(ctx, dirLookup))
	dirID := dirLookup.Entry.Child

	require.NoError(t, fs.CreateFile(ctx, &fuseops.CreateFileOp{Parent: dirID, Name: "child", Mode: 0644}))

	openOp := &fuseops.OpenDirOp{Inode: dirID}
	require.NoError(t, fs.OpenDir(ctx, openOp))
	assert.NotZero(t, openOp.Handle)

	readOp := &fuseops.ReadDirOp{Inode: dirID, Handle: openOp.Handle, Offset: 0, Dst: make([]byte, 4096)}
	require.NoError(t, fs.ReadDir(ctx, readOp))
	assert.Greater(t, readOp.BytesRead, 0)

	require.NoError(t, fs.ReleaseDirHandle(ctx, &fuseops.ReleaseDirHandleOp{Handle: openOp.Handle}))
}

func TestUnlinkRemovesNode(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	createOp := &fuseops.CreateFileOp{Parent: fuseops.RootInodeID, Name: "f", Mode: 0644}
	require.NoError(t, fs.CreateFile(ctx, createOp))

	require.NoError(t, fs.Unlink(ctx, &fuseops.UnlinkOp{Parent: fuseops.RootInodeID, Name: "f"}))

	_, err := fs.core.GetAttr("/f")
	assert.Error(t, err)
}

func TestSetInodeAttributesTruncatesAndChmods(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	createOp := &fuseops.CreateFileOp{Parent: fuseops.RootInodeID, Name: "f", Mode: 0644}
	require.NoError(t, fs.CreateFile(ctx, createOp))

	size := uint64(10)
	mode := posixToGoMode(0100600)
	setOp := &fuseops.SetInodeAttributesOp{Inode: createOp.Entry.Child, Size: &size, Mode: &mode}
	require.NoError(t, fs.SetInodeAttributes(ctx, setOp))

	assert.EqualValues(t, 10, setOp.Attributes.Size)
	assert.EqualValues(t, 0600, setOp.Attributes.Mode.Perm())
}

func TestForgetInodeDropsMapping(t *testing.T) {
	fs := newTestFileSystem(t)
	ctx := context.Background()

	createOp := &fuseops.CreateFileOp{Parent: fuseops.RootInodeID, Name: "f", Mode: 0644}
	require.NoError(t, fs.CreateFile(ctx, createOp))
	id := createOp.Entry.Child

	require.NoError(t, fs.ForgetInode(ctx, &fuseops.ForgetInodeOp{Inode: id, N: 1}))

	_, ok := fs.pathForInode(id)
	assert.False(t, ok)
}
