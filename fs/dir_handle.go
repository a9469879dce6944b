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
	"sync"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
)

// dirHandle serves ReadDir calls for one OpenDir/ReleaseDirHandle cycle.
// The listing is snapshotted in full at OpenDir time: the on-disk layout
// caps a directory at record.MaxChildren entries, so there is no need for
// the incremental, token-based listing a large or paginated backend would
// require.
type dirHandle struct {
	mu      sync.Mutex
	entries []fuseutil.Dirent
}

func newDirHandle(entries []fuseutil.Dirent) *dirHandle {
	return &dirHandle{entries: entries}
}

// ReadDir copies entries starting at op.Offset into op.Dst, stopping when
// either the buffer or the entry list is exhausted.
func (dh *dirHandle) ReadDir(op *fuseops.ReadDirOp) error {
	dh.mu.Lock()
	defer dh.mu.Unlock()

	for i := int(op.Offset); i < len(dh.entries); i++ {
		e := dh.entries[i]
		e.Offset = fuseops.DirOffset(i + 1)

		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], e)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}

	return nil
}
