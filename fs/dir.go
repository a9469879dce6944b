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
	"os"

	"github.com/jacobsa/fuse/fuseutil"
	"github.com/nicolagi-labs/kvfs/internal/kvfs"
)

// posixToGoMode translates the raw POSIX mode bits stored in a record.Node
// into the os.FileMode shape fuseops expects, which encodes the file type
// in its own high bits rather than in S_IFDIR/S_IFREG.
func posixToGoMode(raw uint32) os.FileMode {
	perm := os.FileMode(raw & 0777)
	if kvfs.IsDir(raw) {
		perm |= os.ModeDir
	}
	return perm
}

// goModeToPosix is the inverse of posixToGoMode.
func goModeToPosix(m os.FileMode) uint32 {
	raw := uint32(m.Perm())
	if m.IsDir() {
		raw |= kvfs.ModeDir
	} else {
		raw |= kvfs.ModeRegular
	}
	return raw
}

// direntType maps a node's directory-ness onto the dirent type the kernel
// uses to avoid a second stat call for common operations like ls.
func direntType(isDir bool) fuseutil.DirentType {
	if isDir {
		return fuseutil.DT_Directory
	}
	return fuseutil.DT_File
}
