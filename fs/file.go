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

// fileHandle is the state kept for an open file. Reads and writes go
// straight through to the core, keyed by the inode's path, so there is
// nothing to buffer here; the handle exists only because OpenFile and
// CreateFile must hand the kernel a HandleID to present to later
// ReadFile/WriteFile/ReleaseFileHandle calls.
type fileHandle struct{}

func newFileHandle() *fileHandle {
	return &fileHandle{}
}
