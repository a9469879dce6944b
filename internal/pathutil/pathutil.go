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

// Package pathutil implements the small set of absolute-path operations
// the resolver and mutation engine need: splitting into components,
// deriving a parent directory, and normalizing a trailing slash.
package pathutil

import "strings"

// Split returns the list of non-empty components after the leading
// slash. Split("/") returns an empty slice.
func Split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// ParentDir returns the substring before the last slash, or "/" when the
// last slash is the leading one. ParentDir("/x") is "/". ParentDir("/a/b")
// is "/a".
func ParentDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

// Normalize strips exactly one trailing slash, unless path is "/" itself.
func Normalize(path string) string {
	if path != "/" && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}

// Base returns the component after the last slash of path.
func Base(path string) string {
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}

// Prefixes returns the normalized path's successive slash-delimited
// prefixes: for "/a/b/c" that is ["/a", "/a/b", "/a/b/c"].
func Prefixes(path string) []string {
	parts := Split(Normalize(path))
	prefixes := make([]string, 0, len(parts))
	cur := ""
	for _, p := range parts {
		cur += "/" + p
		prefixes = append(prefixes, cur)
	}
	return prefixes
}
