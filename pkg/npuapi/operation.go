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

// NpuBlockOperation is the shared shape of every NPU block-level
// operation: Conv2D, ConvDepthWise, Pooling and ElementWise all embed it.
type NpuBlockOperation struct {
	IFM  NpuFeatureMap
	IFM2 *NpuFeatureMap
	// IFM2Scalar is populated instead of IFM2 when the second operand is a
	// compile-time constant scalar rather than a feature map.
	IFM2Scalar *int32
	OFM        NpuFeatureMap

	Kernel  NpuKernel
	Weights []NpuAddressRange // one entry per NPU core
	Biases  []NpuAddressRange
	Padding NpuPadding

	Activation *NpuActivation

	// BlockConfig is the caller-chosen (H,W,D) execution block shape; any
	// field left at zero means "let the scheduler choose".
	BlockConfig NpuShape3D

	RoundingMode   NpuRoundingMode
	FusedQuantize  bool
	IFMUpscale     NpuResamplingMode
}

// NpuConv2DOperation is a dense 2D convolution.
type NpuConv2DOperation struct {
	NpuBlockOperation
	// BlockTraversal must match the traversal EncodeWeights was called
	// with for this operation's Weights.
	BlockTraversal NpuBlockTraversal
}

// NpuPoolingKind distinguishes the three pooling sub-operations.
type NpuPoolingKind int

const (
	PoolingMax NpuPoolingKind = iota
	PoolingAverage
	PoolingReduceSum
)

// NpuPoolingOperation is a pooling or reduce-sum block operation.
type NpuPoolingOperation struct {
	NpuBlockOperation
	Kind NpuPoolingKind
	// Rescale is set for bilinear-resize-as-average-pool emulation.
	Rescale *float64
}

// NpuElementWiseKind distinguishes the ten elementwise sub-operations the
// NPU's elementwise block supports natively.
type NpuElementWiseKind int

const (
	ElementWiseAdd NpuElementWiseKind = iota
	ElementWiseSub
	ElementWiseMul
	ElementWiseAbs
	ElementWiseMin
	ElementWiseMax
	ElementWiseLeakyRelu
	ElementWiseCLZ
	ElementWiseSHR
	ElementWiseSHL
)

// NpuElementWiseOperation is a binary or unary elementwise block
// operation.
type NpuElementWiseOperation struct {
	NpuBlockOperation
	Kind NpuElementWiseKind
	// ReversedOperands is set when the hardware's fixed operand order
	// differs from the logical operator's (e.g. Sub(IFM2, IFM)).
	ReversedOperands bool
	// RescaleShift/RescaleScale requantize the accumulator; both zero
	// means no rescale.
	RescaleScale int32
	RescaleShift int8
}

// NpuDmaMode selects the DMA engine's transfer shape.
type NpuDmaMode int

const (
	DmaModeLinear NpuDmaMode = iota
	DmaModeTiled
)

// NpuDmaOperation moves bytes between two address ranges, used both for
// ordinary tensor staging and for LUT table loads.
type NpuDmaOperation struct {
	Src     NpuAddressRange
	Dest    NpuAddressRange
	Channel int
	Mode    NpuDmaMode
}
