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
	"testing"

	"github.com/nicolagi-labs/kvfs/clock"
	"github.com/nicolagi-labs/kvfs/internal/kvstore"
	"github.com/nicolagi-labs/kvfs/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	store := kvstore.NewMemStore()
	fs, err := Bootstrap(store, &clock.SimulatedClock{}, 1000, 1000, 0, 0)
	require.NoError(t, err)
	return fs
}

func TestBootstrapAppliesConfiguredDirMode(t *testing.T) {
	store := kvstore.NewMemStore()
	fs, err := Bootstrap(store, &clock.SimulatedClock{}, 1000, 1000, ModeRegular|0600, ModeDir|0700)
	require.NoError(t, err)

	attr, err := fs.GetAttr("/")
	require.NoError(t, err)
	assert.EqualValues(t, ModeDir|0700, attr.Mode)
	assert.EqualValues(t, ModeDir|0700, fs.DefaultDirMode())
	assert.EqualValues(t, ModeRegular|0600, fs.DefaultFileMode())
}

func TestBootstrapDefaultsZeroModesToPackageDefaults(t *testing.T) {
	store := kvstore.NewMemStore()
	fs, err := Bootstrap(store, &clock.SimulatedClock{}, 1000, 1000, 0, 0)
	require.NoError(t, err)

	assert.EqualValues(t, DefaultDirMode, fs.DefaultDirMode())
	assert.EqualValues(t, DefaultFileMode, fs.DefaultFileMode())
}

func TestMountCreateRead(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Create("/d", ModeDir|0755, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.Create("/d/f", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	n, err := fs.Write("/d/f", []byte("hello"), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	attr, err := fs.GetAttr("/d/f")
	require.NoError(t, err)
	assert.EqualValues(t, 5, attr.Size)

	data, err := fs.Read("/d/f", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestReadDirListsDotAndChildren(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/d", ModeDir|0755, 1000, 1000)
	require.NoError(t, err)
	_, err = fs.Create("/d/f", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	entries, err := fs.ReadDir("/d")
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.ElementsMatch(t, []string{".", "..", "f"}, names)
}

func TestRemoveRoundTrip(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/d", ModeDir|0755, 1000, 1000)
	require.NoError(t, err)
	_, err = fs.Create("/d/f", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	require.NoError(t, fs.Unlink("/d/f"))

	_, err = fs.GetAttr("/d/f")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := fs.ReadDir("/d")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.NoError(t, fs.Rmdir("/d"))
	err = fs.Rmdir("/d")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRmdirNonEmpty(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/a", ModeDir|0755, 1000, 1000)
	require.NoError(t, err)
	_, err = fs.Create("/a/b", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	err = fs.Rmdir("/a")
	assert.ErrorIs(t, err, ErrNotEmpty)
}

func TestAttributeUpdates(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	require.NoError(t, fs.Chmod("/x", ModeRegular|0600))
	require.NoError(t, fs.Chown("/x", 7, 8))

	attr, err := fs.GetAttr("/x")
	require.NoError(t, err)
	assert.EqualValues(t, ModeRegular|0600, attr.Mode)
	assert.EqualValues(t, 7, attr.UID)
	assert.EqualValues(t, 8, attr.GID)
}

func TestCacheDoesNotServeStaleHitAfterUnlink(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/y", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.GetAttr("/y")
	require.NoError(t, err)

	require.NoError(t, fs.Unlink("/y"))

	_, err = fs.GetAttr("/y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChmodOnRootRefreshesInMemoryRoot(t *testing.T) {
	fs := newTestFS(t)

	require.NoError(t, fs.Chmod("/", ModeDir|0700))

	// The in-memory root copy the resolver starts from must reflect the
	// change without an intervening Resolve("/").
	assert.EqualValues(t, ModeDir|0700, fs.root.Mode)

	attr, err := fs.GetAttr("/")
	require.NoError(t, err)
	assert.EqualValues(t, ModeDir|0700, attr.Mode)

	// And resolution through the root still works.
	_, err = fs.Create("/after", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)
	_, err = fs.GetAttr("/after")
	assert.NoError(t, err)
}

func TestCreateExistingPathFails(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.Create("/x", ModeRegular|0644, 1000, 1000)
	assert.ErrorIs(t, err, ErrExists)
}

func TestCreateMissingParentFails(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/missing/x", ModeRegular|0644, 1000, 1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateParentNotDirFails(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.Create("/x/y", ModeRegular|0644, 1000, 1000)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestNameTooLong(t *testing.T) {
	fs := newTestFS(t)
	longPath := "/" + string(make([]byte, record.PathMaxLen))
	_, err := fs.Create(longPath, ModeRegular|0644, 1000, 1000)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestTruncateTooBig(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	err = fs.Truncate("/x", record.MaxFileSize)
	assert.ErrorIs(t, err, ErrTooBig)
}

func TestReadOffsetAtOrPastSizeReturnsZero(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)
	_, err = fs.Write("/x", []byte("hi"), 0)
	require.NoError(t, err)

	data, err := fs.Read("/x", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenWithoutReadBitFails(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0200, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.Open("/x")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestWriteAppendsAtNonZeroOffset(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	_, err = fs.Write("/x", []byte("hello"), 0)
	require.NoError(t, err)
	_, err = fs.Write("/x", []byte("world"), 5)
	require.NoError(t, err)

	data, err := fs.Read("/x", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "helloworld", string(data))
}

func TestChmodPreservesRoundTrip(t *testing.T) {
	fs := newTestFS(t)
	_, err := fs.Create("/x", ModeRegular|0644, 1000, 1000)
	require.NoError(t, err)

	require.NoError(t, fs.Chmod("/x", ModeRegular|0600))

	attr, err := fs.GetAttr("/x")
	require.NoError(t, err)
	assert.EqualValues(t, ModeRegular|0600, attr.Mode)
}
