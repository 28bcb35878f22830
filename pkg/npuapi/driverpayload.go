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

// CreateDriverPayload prepends a driver-recognizable header (accelerator
// id, stream length in words, flags) to commandStream by delegating to
// packager. 16-byte alignment of the resulting buffer in memory is the
// caller's responsibility, not this function's (spec.md §6).
func CreateDriverPayload(packager DriverPackager, commandStream []uint32, accel NpuAccelerator) ([]byte, error) {
	return packager.Package(commandStream, accel)
}
