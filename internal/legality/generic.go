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

package legality

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ajroetker/npucc/internal/npuir"
)

// scalarInputOps is the set of kinds allowed to take scalar (rank-0)
// inputs — elementwise-binary ops plus the two split variants.
var scalarInputOps = []npuir.Kind{
	npuir.KindAdd, npuir.KindSub, npuir.KindMul, npuir.KindMinimum, npuir.KindMaximum,
	npuir.KindShl, npuir.KindShr, npuir.KindSplit, npuir.KindSplitV,
}

// int32AllowedOps is the set of kinds permitted to carry INT32 tensors.
var int32AllowedOps = []npuir.Kind{
	npuir.KindReduceSum, npuir.KindCLZ,
	npuir.KindAdd, npuir.KindMul, npuir.KindSub, npuir.KindShl, npuir.KindShr,
}

var allowedFusedActivations = []npuir.ActivationKind{
	npuir.ActivationNone, npuir.ActivationReluOrNone, npuir.ActivationTanh,
	npuir.ActivationSigmoid, npuir.ActivationTableLookup,
}

// genericConstraints returns the ordered list of constraints applied to
// every operator, in the order spec.md §4.2 gives them. The
// quantization-presence check runs before the scale-finiteness check, so a
// tensor missing quantization is reported by the presence rule; the scale
// check itself skips tensors without quantization (SUPPLEMENTED
// FEATURES #7).
func genericConstraints() []Constraint {
	return []Constraint{
		{
			Name: "tens_no_dynamic",
			Doc:  "Tensors must have a defined shape, or be a scalar with a known value",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.allTensors(op) {
					if t.IsScalar() && t.ConstValues == nil {
						return false, fmt.Sprintf("Tensor '%s' has no shape and no constant value", t.Name)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_defined_shape",
			Doc:  "Tensors with a shape must have every dimension defined",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.allTensors(op) {
					if !t.IsScalar() && !t.ShapeDefined() {
						return false, fmt.Sprintf("Tensor '%s' has an undefined dimension", t.Name)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_output_scalar",
			Doc:  "The output tensor must not be a scalar",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if ofm := g.ofm(op); ofm != nil && ofm.IsScalar() {
					return false, fmt.Sprintf("OFM Tensor '%s' is scalar", ofm.Name)
				}
				return true, ""
			},
		},
		{
			Name: "tens_input_scalar",
			Doc:  "Scalar inputs are only allowed for elementwise binary ops, Split and SplitV",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if lo.Contains(scalarInputOps, op.Kind) {
					return true, ""
				}
				for _, id := range op.Inputs {
					if t := g.tensor(id); t != nil && t.IsScalar() {
						return false, fmt.Sprintf("Tensor '%s' is scalar but %s does not allow scalar inputs", t.Name, op.Kind)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_shape_size",
			Doc:  "Tensors must have no more than 4 dimensions",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.allTensors(op) {
					if t.Rank() > 4 {
						return false, fmt.Sprintf("Tensor '%s' has rank %d, must be <= 4", t.Name, t.Rank())
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_dtype",
			Doc:  "Tensors must be of type: UINT8, INT8, INT16, INT32",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.ifmIfm2WeightsOfm(op) {
					if !lo.Contains([]npuir.DataType{npuir.DataTypeUint8, npuir.DataTypeInt8, npuir.DataTypeInt16, npuir.DataTypeInt32}, t.DType) {
						return false, fmt.Sprintf("Tensor '%s' has data type %s", t.Name, t.DType)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_int32_ops",
			Doc:  "Tensors which are int32 are only valid for specific operators",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if lo.Contains(int32AllowedOps, op.Kind) {
					return true, ""
				}
				for _, t := range g.ifmIfm2WeightsOfm(op) {
					if t.DType == npuir.DataTypeInt32 {
						return false, fmt.Sprintf("Tensor '%s' is INT32 but %s does not allow INT32 tensors", t.Name, op.Kind)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_dimension",
			Doc:  "Tensor dimensions must be in the range [1, 65535]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.allTensors(op) {
					for _, d := range t.Shape {
						if d < 1 || d > 65535 {
							return false, fmt.Sprintf("Tensor '%s' has dimension %d, must be in [1, 65535]", t.Name, d)
						}
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_quant_none_check",
			Doc:  "Tensors must have quantization parameters",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.ifmIfm2WeightsOfm(op) {
					if t.Purpose == npuir.PurposeFeatureMap || t.Purpose == npuir.PurposeWeights {
						if t.Quantization == nil {
							return false, fmt.Sprintf("Tensor '%s' has no quantization parameters", t.Name)
						}
					}
				}
				return true, ""
			},
		},
		{
			// Runs after tens_quant_none_check; tensors with a nil
			// Quantization are skipped here, so a missing record is only
			// ever reported by that earlier rule (SUPPLEMENTED FEATURES #7).
			Name: "tens_quant_scale",
			Doc:  "Tensors with quantization parameters must have a finite scale",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.ifmIfm2WeightsOfm(op) {
					if t.Quantization == nil {
						continue
					}
					if !t.Quantization.ScaleFinite() {
						return false, fmt.Sprintf("Tensor '%s' has a non-finite quantization scale", t.Name)
					}
				}
				return true, ""
			},
		},
		{
			Name: "tens_quant_per_axis",
			Doc:  "Per-axis quantization is only supported for the weight tensor of convolution-family operators",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				for _, t := range g.allTensors(op) {
					if t.Quantization != nil && t.Quantization.IsPerAxis() {
						if !(op.Kind.IsConvolutionFamily() && t.Purpose == npuir.PurposeWeights) {
							return false, fmt.Sprintf("Tensor '%s' has per-axis quantization but is not a convolution weight", t.Name)
						}
					}
				}
				return true, ""
			},
		},
		{
			Name: "faf",
			Doc:  "The fused activation function (if any) must be of a supported type",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if op.Activation == nil {
					return true, ""
				}
				if !lo.Contains(allowedFusedActivations, op.Activation.Kind) {
					return false, fmt.Sprintf("Op '%s' has an unsupported fused activation", op.Name)
				}
				return true, ""
			},
		},
	}
}
