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

// EncodeWeights compresses weightsOHWI (a rank-4 OHWI-layout integer
// tensor) into the byte sequence the hardware accepts as compressed
// weights, by delegating to enc. The core guarantees only that arguments
// reach enc unchanged; the encoding itself is opaque (spec.md §6).
func EncodeWeights(enc WeightEncoder, accel NpuAccelerator, weightsOHWI []int8, dilationX, dilationY int,
	ifmBitdepth int, ofmBlockDepth int, isDepthwise bool, traversal NpuBlockTraversal) ([]byte, error) {
	return enc.Encode(accel, weightsOHWI, dilationX, dilationY, ifmBitdepth, ofmBlockDepth, isDepthwise, traversal)
}
