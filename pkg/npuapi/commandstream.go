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

// GenerateRegisterCommandStream turns ops (a populated NpuOperation list —
// NpuConv2DOperation, NpuPoolingOperation, NpuElementWiseOperation or
// NpuDmaOperation values) into an ordered sequence of 32-bit register
// words, by delegating to gen. The core's contribution ends at producing a
// correctly populated operation list; wait-barrier insertion for
// cross-command dependencies is gen's responsibility (spec.md §6).
func GenerateRegisterCommandStream(gen RegisterStreamGenerator, ops []any, accel NpuAccelerator) ([]uint32, error) {
	return gen.Generate(ops, accel)
}
