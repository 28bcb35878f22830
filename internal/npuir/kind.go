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

// Package npuir is the in-memory graph representation the rest of the
// compiler operates on: operators, tensors and the subgraph arena that owns
// them.
package npuir

// Kind tags the operator a node represents. It mirrors the flat-buffer
// op-code space the external parser reads from, narrowed to the kinds this
// compiler ever needs to reason about.
type Kind int

const (
	KindUnknown Kind = iota

	// Convolution family.
	KindConv2D
	KindDepthwiseConv2DBias
	KindTransposeConv
	KindFullyConnected

	// Pooling family.
	KindMaxPool
	KindAvgPool
	KindReduceSum
	KindResizeBilinear

	// Elementwise.
	KindAdd
	KindSub
	KindMul
	KindMinimum
	KindMaximum
	KindAbs
	KindLeakyRelu
	KindRelu
	KindRelu6
	KindShl
	KindShr
	KindCLZ
	KindSigmoid
	KindTanh
	KindSoftmax

	// Data-movement / structural.
	KindConcat
	KindSplit
	KindSplitV
	KindStridedSlice
	KindReshape
	KindDMA
	KindQuantizedResizeBilinear
	KindSplitSliceRead
	KindConcatSliceWrite

	// Graph boundary.
	KindConst
	KindPlaceholder
	KindSubgraphInput
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindConv2D:                  "Conv2D",
	KindDepthwiseConv2DBias:     "DepthwiseConv2DBias",
	KindTransposeConv:           "TransposeConv",
	KindFullyConnected:          "FullyConnected",
	KindMaxPool:                 "MaxPool",
	KindAvgPool:                 "AvgPool",
	KindReduceSum:               "ReduceSum",
	KindResizeBilinear:          "ResizeBilinear",
	KindAdd:                     "Add",
	KindSub:                     "Sub",
	KindMul:                     "Mul",
	KindMinimum:                 "Minimum",
	KindMaximum:                 "Maximum",
	KindAbs:                     "Abs",
	KindLeakyRelu:               "LeakyRelu",
	KindRelu:                    "Relu",
	KindRelu6:                   "Relu6",
	KindShl:                     "Shl",
	KindShr:                     "Shr",
	KindCLZ:                     "CLZ",
	KindSigmoid:                 "Sigmoid",
	KindTanh:                    "Tanh",
	KindSoftmax:                 "Softmax",
	KindConcat:                  "Concat",
	KindSplit:                   "Split",
	KindSplitV:                  "SplitV",
	KindStridedSlice:            "StridedSlice",
	KindReshape:                 "Reshape",
	KindDMA:                     "DMA",
	KindQuantizedResizeBilinear: "QuantizedResizeBilinear",
	KindSplitSliceRead:          "SplitSliceRead",
	KindConcatSliceWrite:        "ConcatSliceWrite",
	KindConst:                   "Const",
	KindPlaceholder:             "Placeholder",
	KindSubgraphInput:           "SubgraphInput",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// IsConvolutionFamily reports whether k is one of the weighted convolution
// operators — the only family that may carry per-axis quantization.
func (k Kind) IsConvolutionFamily() bool {
	switch k {
	case KindConv2D, KindDepthwiseConv2DBias, KindTransposeConv, KindFullyConnected:
		return true
	default:
		return false
	}
}

// IsElementwiseBinary reports whether k takes two feature-map operands.
func (k Kind) IsElementwiseBinary() bool {
	switch k {
	case KindAdd, KindSub, KindMul, KindMinimum, KindMaximum, KindShl, KindShr:
		return true
	default:
		return false
	}
}
