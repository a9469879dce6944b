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

import "syscall"

// Every operation returns a plain syscall.Errno so that the fs bridge
// package can hand it straight back to jacobsa/fuse, which understands
// syscall.Errno natively.
var (
	ErrNotFound    = syscall.ENOENT
	ErrExists      = syscall.EEXIST
	ErrNameTooLong = syscall.ENAMETOOLONG
	ErrNotEmpty    = syscall.ENOTEMPTY
	ErrTooBig      = syscall.EFBIG
	ErrPermission  = syscall.EACCES
	ErrIO          = syscall.EIO
	ErrNoSpace     = syscall.ENOSPC
	ErrNotDir      = syscall.ENOTDIR
)
