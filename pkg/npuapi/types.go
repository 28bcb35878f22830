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

// Package npuapi defines the hardware-oriented descriptors a caller
// assembling an Ethos-U-class command stream must populate, plus the five
// public entry points (version, weight encoding, bias encoding, register
// command stream generation, driver payload assembly) described in
// spec.md §4.1 and §6. The descriptors are deliberately flat and
// language-neutral; npucc's compiler core (internal/legality,
// internal/packer, internal/lut) never imports this package — only
// internal/config (for accelerator names) and cmd/npucc's emission stage
// do, the latter at the boundary where a Pass becomes a hardware operation
// list.
package npuapi

// NpuAccelerator identifies a specific Ethos-U variant. It drives
// throughput and SHRAM sizing (internal/config's per-accelerator LUT
// geometry table).
type NpuAccelerator int

const (
	AcceleratorUnknown NpuAccelerator = iota
	AcceleratorU55_32
	AcceleratorU55_64
	AcceleratorU55_128
	AcceleratorU55_256
	AcceleratorU65_256
	AcceleratorU65_512
)

var acceleratorNames = map[NpuAccelerator]string{
	AcceleratorU55_32:  "U55-32",
	AcceleratorU55_64:  "U55-64",
	AcceleratorU55_128: "U55-128",
	AcceleratorU55_256: "U55-256",
	AcceleratorU65_256: "U65-256",
	AcceleratorU65_512: "U65-512",
}

func (a NpuAccelerator) String() string {
	if s, ok := acceleratorNames[a]; ok {
		return s
	}
	return "Unknown"
}

// NpuDataType is the element type of an NPU-visible tensor.
type NpuDataType int

const (
	DataTypeUnknown NpuDataType = iota
	DataTypeUint8
	DataTypeInt8
	DataTypeUint16
	DataTypeInt16
	DataTypeInt32
)

func (d NpuDataType) String() string {
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
		return "Unknown"
	}
}

// IsSigned reports whether d's range includes negative values.
func (d NpuDataType) IsSigned() bool {
	switch d {
	case DataTypeInt8, DataTypeInt16, DataTypeInt32:
		return true
	default:
		return false
	}
}

// SizeInBits returns d's element width.
func (d NpuDataType) SizeInBits() int {
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

// SizeInBytes returns SizeInBits rounded up to a whole byte.
func (d NpuDataType) SizeInBytes() int {
	return (d.SizeInBits() + 7) / 8
}

// MinValue returns d's minimum representable value under standard
// two's-complement semantics.
func (d NpuDataType) MinValue() int64 {
	if !d.IsSigned() {
		return 0
	}
	return -(int64(1) << (d.SizeInBits() - 1))
}

// MaxValue returns d's maximum representable value.
func (d NpuDataType) MaxValue() int64 {
	if d.SizeInBits() == 0 {
		return 0
	}
	if d.IsSigned() {
		return int64(1)<<(d.SizeInBits()-1) - 1
	}
	return int64(1)<<d.SizeInBits() - 1
}

// NpuAddressRange is a region-relative byte range. Region maps to a
// base-address register set at runtime by the driver, not by this package.
type NpuAddressRange struct {
	Region  int
	Address int64
	Length  int64
}

// NpuTileBox describes a feature map split into up to four tiles. Unused
// entries are left zero.
type NpuTileBox struct {
	Height0   int
	Height1   int
	Width0    int
	Addresses [4]int64
}

// NpuShape3D is a (height, width, depth) triple, used for feature-map
// shapes and block configs.
type NpuShape3D struct {
	Height int
	Width  int
	Depth  int
}

// NpuQuantization is an optional per-tensor scale and an integer
// zero-point.
type NpuQuantization struct {
	Scale     *float64
	ZeroPoint int64
}

// NpuPadding is top/left/bottom/right padding in elements.
type NpuPadding struct {
	Top, Left, Bottom, Right int
}

// NpuKernel is a convolution/pooling window: size and stride/dilation
// along each axis. Strides and dilations are at least 1.
type NpuKernel struct {
	Width, Height       int
	StrideX, StrideY    int
	DilationX, DilationY int
}

// NpuActivationKind is the fused-activation family an operation applies to
// its output before quantizing.
type NpuActivationKind int

const (
	ActivationNoneOrRelu NpuActivationKind = iota
	ActivationTanh
	ActivationSigmoid
	ActivationTableLookup
)

// NpuActivation is the optional fused activation an operation carries.
type NpuActivation struct {
	Kind NpuActivationKind
	Min  *float64
	Max  *float64
	// LookupTableIndex selects one of the eight resident SHRAM LUT slots;
	// meaningful only when Kind is ActivationTableLookup.
	LookupTableIndex int
}

// NpuRoundingMode selects the rounding rule applied when requantizing an
// operation's accumulator to its output dtype.
type NpuRoundingMode int

const (
	RoundingTFL NpuRoundingMode = iota
	RoundingTruncate
	RoundingNatural
)

// NpuResamplingMode is the IFM upscale applied before a block operation
// reads its input, used by transpose-convolution and resize emulation.
type NpuResamplingMode int

const (
	ResamplingNone NpuResamplingMode = iota
	ResamplingNearest
	ResamplingTranspose
)

// NpuBlockTraversal selects the weight traversal order a convolution's
// encoded weights assume; it must match what EncodeWeights was called
// with.
type NpuBlockTraversal int

const (
	BlockTraversalDepthFirst NpuBlockTraversal = iota
	BlockTraversalPartKernelFirst
)
