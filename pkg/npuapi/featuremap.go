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

// NpuLayout is the memory layout a feature map is stored in.
type NpuLayout int

const (
	LayoutNHWC NpuLayout = iota
	LayoutNHCWB16
)

func (l NpuLayout) String() string {
	if l == LayoutNHCWB16 {
		return "NHCWB16"
	}
	return "NHWC"
}

// NpuFeatureMap is one operand or result of an NpuBlockOperation: its
// dtype, memory region, shape, tile layout, quantization and optional
// explicit strides (nil means row-major strides derived from Shape).
type NpuFeatureMap struct {
	DataType      NpuDataType
	Region        int
	Shape         NpuShape3D
	Tiles         NpuTileBox
	Quantization  NpuQuantization
	Layout        NpuLayout
	Strides       *NpuShape3D
}
