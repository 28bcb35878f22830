// Copyright 2025 go-highway Authors
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

package npuapi

// Major and Minor are this package's API version, packed by Version into
// the single value spec.md §6 calls for.
const (
	Major = 1
	Minor = 0
)

// Version returns (major << 16) | (minor & 0xFFFF).
func Version() uint32 {
	return uint32(Major)<<16 | uint32(Minor)&0xFFFF
}
