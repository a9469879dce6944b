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

import "time"

// unixToTime converts a Unix timestamp in seconds (as the fs bridge passes
// it to Utime, after truncating fuseops' time.Time values) into a time.Time.
func unixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
