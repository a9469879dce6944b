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

// Package ids allocates the opaque 128-bit identifiers used to key node
// and data-blob records in the store. Identifiers have no structure beyond
// uniqueness; callers must not assume anything about their byte layout.
package ids

import "github.com/google/uuid"

// Size is the length in bytes of an ID.
const Size = 16

// ID is a 128-bit opaque key. The zero value is the reserved "no such
// record" sentinel (see Zero).
type ID [Size]byte

// Zero is the all-zero sentinel meaning "no such record" wherever an ID
// appears (e.g. Node.DataID, or a root's parent pointer).
var Zero ID

// IsZero reports whether id is the zero sentinel.
func (id ID) IsZero() bool {
	return id == Zero
}

// String returns a hex encoding, useful for logging.
func (id ID) String() string {
	const hextable = "0123456789abcdef"
	buf := make([]byte, Size*2)
	for i, b := range id {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf)
}

// New allocates a fresh identifier. Collision probability is negligible
// (v4 UUID, 122 bits of randomness).
func New() ID {
	var id ID
	u := uuid.New()
	copy(id[:], u[:])
	return id
}
