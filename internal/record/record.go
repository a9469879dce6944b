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

// Package record defines the Node record (file/directory metadata plus a
// bounded child vector) and its fixed-width wire encoding. The store's
// other record kind, a file's data blob, is kept as raw bytes and has no
// type or codec here.
//
// A fixed-width image, as opposed to a self-describing one, keeps the
// codec trivial: a record's on-disk size never depends on path length or
// child-vector occupancy, only on the compile-time constants below.
package record

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/nicolagi-labs/kvfs/internal/ids"
)

const (
	// PathMaxLen bounds the length of an absolute path, including the
	// leading slash.
	PathMaxLen = 256

	// MaxChildren bounds the number of child-vector slots in a Node,
	// including the two reserved slots below.
	MaxChildren = 64

	// MaxFileSize bounds the logical size Truncate will accept. Write does
	// not check it.
	MaxFileSize = 1 << 30 // 1 GiB

	// SelfPos, ParentPos and RestPos are the reserved child-vector slots.
	SelfPos   = 0
	ParentPos = 1
	RestPos   = 2
)

// Node is the in-memory form of a node record: metadata for one file or
// directory, plus its child vector.
type Node struct {
	Path   string
	MetaID ids.ID
	DataID ids.ID

	Mode uint32
	UID  uint32
	GID  uint32

	// Size is the logical size in bytes for files; unused (but kept
	// non-negative) for directories.
	Size int64

	MTime time.Time
	CTime time.Time

	NumberChildren uint32
	Children       [MaxChildren]ids.ID
}

// encodedSize is the fixed width of a Node's wire image.
const encodedSize = PathMaxLen + // path, zero-padded
	ids.Size + // meta_id
	ids.Size + // data_id
	4 + 4 + 4 + // mode, uid, gid
	8 + // size
	8 + 8 + // mtime, ctime (unix nanos)
	4 + // number_children
	MaxChildren*ids.Size // children

// EncodedSize returns the constant size of a Node's encoded form.
func EncodedSize() int { return encodedSize }

// Encode serializes n into its fixed-width wire image.
func (n *Node) Encode() ([]byte, error) {
	if len(n.Path) >= PathMaxLen {
		return nil, fmt.Errorf("record: path %q exceeds PathMaxLen", n.Path)
	}
	if n.NumberChildren > MaxChildren {
		return nil, fmt.Errorf("record: number_children %d exceeds MaxChildren", n.NumberChildren)
	}

	buf := make([]byte, encodedSize)
	off := 0

	copy(buf[off:off+PathMaxLen], n.Path)
	off += PathMaxLen

	copy(buf[off:off+ids.Size], n.MetaID[:])
	off += ids.Size

	copy(buf[off:off+ids.Size], n.DataID[:])
	off += ids.Size

	binary.BigEndian.PutUint32(buf[off:], n.Mode)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], n.UID)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], n.GID)
	off += 4

	binary.BigEndian.PutUint64(buf[off:], uint64(n.Size))
	off += 8

	binary.BigEndian.PutUint64(buf[off:], uint64(n.MTime.UnixNano()))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(n.CTime.UnixNano()))
	off += 8

	binary.BigEndian.PutUint32(buf[off:], n.NumberChildren)
	off += 4

	for i := 0; i < MaxChildren; i++ {
		copy(buf[off:off+ids.Size], n.Children[i][:])
		off += ids.Size
	}

	return buf, nil
}

// Decode parses a Node from its fixed-width wire image.
func Decode(buf []byte) (*Node, error) {
	if len(buf) != encodedSize {
		return nil, fmt.Errorf("record: bad image length %d, want %d", len(buf), encodedSize)
	}

	n := &Node{}
	off := 0

	pathBytes := buf[off : off+PathMaxLen]
	if z := indexZero(pathBytes); z >= 0 {
		n.Path = string(pathBytes[:z])
	} else {
		n.Path = string(pathBytes)
	}
	off += PathMaxLen

	copy(n.MetaID[:], buf[off:off+ids.Size])
	off += ids.Size
	copy(n.DataID[:], buf[off:off+ids.Size])
	off += ids.Size

	n.Mode = binary.BigEndian.Uint32(buf[off:])
	off += 4
	n.UID = binary.BigEndian.Uint32(buf[off:])
	off += 4
	n.GID = binary.BigEndian.Uint32(buf[off:])
	off += 4

	n.Size = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8

	n.MTime = time.Unix(0, int64(binary.BigEndian.Uint64(buf[off:]))).UTC()
	off += 8
	n.CTime = time.Unix(0, int64(binary.BigEndian.Uint64(buf[off:]))).UTC()
	off += 8

	n.NumberChildren = binary.BigEndian.Uint32(buf[off:])
	off += 4

	for i := 0; i < MaxChildren; i++ {
		copy(n.Children[i][:], buf[off:off+ids.Size])
		off += ids.Size
	}

	return n, nil
}

// Clone returns a deep (value) copy of n, safe to mutate independently.
func (n *Node) Clone() *Node {
	cp := *n
	return &cp
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
