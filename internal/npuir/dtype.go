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

package npuir

// DataType is one of the element types the NPU's datapath understands.
// Signedness and bit width are intrinsic to the value, not stored
// separately, mirroring api.py's NpuDataType.
type DataType int

const (
	DataTypeUint8 DataType = iota
	DataTypeInt8
	DataTypeUint16
	DataTypeInt16
	DataTypeInt32
)

func (d DataType) String() string {
	switch d {
	case DataTypeUint8:
		return "UINT8"
	case DataTypeInt8:
		return "INT8"
	case DataTypeUint16:
		return "UINT16"
	case DataTypeInt16:
		return "INT16"
	case DataTypeInt32:
		return "INT32"
	default:
		return "DataType(?)"
	}
}

// IsSigned reports whether d's range includes negative values.
func (d DataType) IsSigned() bool {
	switch d {
	case DataTypeInt8, DataTypeInt16, DataTypeInt32:
		return true
	default:
		return false
	}
}

// SizeInBits returns the element's bit width.
func (d DataType) SizeInBits() int {
	switch d {
	case DataTypeUint8, DataTypeInt8:
		return 8
	case DataTypeUint16, DataTypeInt16:
		return 16
	case DataTypeInt32:
		return 32
	default:
		return 0
	}
}

// SizeInBytes returns the element's storage size.
func (d DataType) SizeInBytes() int {
	return d.SizeInBits() / 8
}

// MinValue returns the smallest representable value for d.
func (d DataType) MinValue() int64 {
	if !d.IsSigned() {
		return 0
	}
	return -(int64(1) << uint(d.SizeInBits()-1))
}

// MaxValue returns the largest representable value for d.
func (d DataType) MaxValue() int64 {
	bits := d.SizeInBits()
	if d.IsSigned() {
		return int64(1)<<uint(bits-1) - 1
	}
	return int64(1)<<uint(bits) - 1
}

// npuSupportedDTypes lists the element types the generic-constraint
// allow-list accepts (spec.md §4.2). The legality checker's tens_dtype rule
// keeps its own copy of this list; nothing in this package reads this set.
var npuSupportedDTypes = map[DataType]bool{
	DataTypeUint8: true,
	DataTypeInt8:  true,
	DataTypeInt16: true,
	DataTypeInt32: true,
}
