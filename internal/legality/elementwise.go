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

	"github.com/ajroetker/npucc/internal/npuir"
)

// sameQuantization reports whether a and b carry the same (scale,
// zero-point) pair, for the Min/Max "shared quantization" constraint.
func sameQuantization(a, b *npuir.Quantization) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Scale == b.Scale && a.ZeroPoint == b.ZeroPoint
}

func elementwiseBinaryConstraints() []Constraint {
	return []Constraint{
		{
			Name: "elemwise_batch_size",
			Doc:  "Batch size must be 1 when rank > 2",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ofm := g.ofm(op)
				if ofm == nil || ofm.Rank() <= 2 {
					return true, ""
				}
				if b := ofm.Dim(0); b != 1 {
					return false, fmt.Sprintf("Op '%s' has rank %d and batch size %d, must be 1", op.Name, ofm.Rank(), b)
				}
				return true, ""
			},
		},
		{
			Name: "matching_either_shapes",
			Doc:  "At least one IFM shape must equal the OFM shape",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ifm2, ofm := g.ifm(op), g.ifm2(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				if shapeEqual(ifm, ofm) {
					return true, ""
				}
				if ifm2 != nil && shapeEqual(ifm2, ofm) {
					return true, ""
				}
				return false, fmt.Sprintf("Op '%s': neither IFM shape equals OFM shape %v", op.Name, ofm.Shape)
			},
		},
		{
			Name: "broadcast_shapes",
			Doc:  "Broadcasting is only permitted along rank indices where the smaller IFM's dim is 1, and OFM's dim must equal max(IFM dim, IFM2 dim)",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ifm2, ofm := g.ifm(op), g.ifm2(op), g.ofm(op)
				if ifm == nil || ifm2 == nil || ofm == nil {
					return true, ""
				}
				for i := 0; i < 4; i++ {
					a, b, o := ifm.Dim(i), ifm2.Dim(i), ofm.Dim(i)
					want := a
					if b > want {
						want = b
					}
					if o != want {
						return false, fmt.Sprintf("Op '%s': OFM dim %d = %d, want max(%d, %d) = %d", op.Name, i, o, a, b, want)
					}
					if a != b && a != 1 && b != 1 {
						return false, fmt.Sprintf("Op '%s': dim %d broadcasts between unequal non-1 sizes %d and %d", op.Name, i, a, b)
					}
				}
				return true, ""
			},
		},
	}
}

func shapeEqual(a, b *npuir.Tensor) bool {
	for i := 0; i < 4; i++ {
		if a.Dim(i) != b.Dim(i) {
			return false
		}
	}
	return true
}

func unaryElemwiseConstraints() []Constraint {
	return []Constraint{
		{
			Name: "unary_matching_in_out_types",
			Doc:  "IFM and OFM data types must match",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				if ifm.DType != ofm.DType {
					return false, fmt.Sprintf("Op '%s' has IFM type %s but OFM type %s", op.Name, ifm.DType, ofm.DType)
				}
				return true, ""
			},
		},
	}
}

func minMaxConstraints() []Constraint {
	return []Constraint{
		{
			Name: "minmax_matching_in_out_types",
			Doc:  "IFM and OFM data types must match",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				if ifm.DType != ofm.DType {
					return false, fmt.Sprintf("Op '%s' has IFM type %s but OFM type %s", op.Name, ifm.DType, ofm.DType)
				}
				return true, ""
			},
		},
		{
			Name: "minmax_matching_quantization_parameters",
			Doc:  "IFM, IFM2 and OFM must share the same quantization",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ifm2, ofm := g.ifm(op), g.ifm2(op), g.ofm(op)
				if ifm == nil || ifm2 == nil || ofm == nil {
					return true, ""
				}
				if !sameQuantization(ifm.Quantization, ifm2.Quantization) || !sameQuantization(ifm.Quantization, ofm.Quantization) {
					return false, fmt.Sprintf("Op '%s': IFM, IFM2 and OFM must share identical quantization", op.Name)
				}
				return true, ""
			},
		},
	}
}

func addMulSubConstraints() []Constraint {
	return []Constraint{
		{
			Name: "matching_inputs_types",
			Doc:  "IFM and IFM2 data types must match",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ifm2 := g.ifm(op), g.ifm2(op)
				if ifm == nil || ifm2 == nil {
					return true, ""
				}
				if ifm.DType != ifm2.DType {
					return false, fmt.Sprintf("Op '%s' has IFM type %s but IFM2 type %s", op.Name, ifm.DType, ifm2.DType)
				}
				return true, ""
			},
		},
		{
			Name: "matching_signed",
			Doc:  "A signed IFM requires a signed OFM",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil || !ifm.DType.IsSigned() {
					return true, ""
				}
				if !ofm.DType.IsSigned() {
					return false, fmt.Sprintf("Op '%s' has signed IFM %s but unsigned OFM %s", op.Name, ifm.DType, ofm.DType)
				}
				return true, ""
			},
		},
		{
			Name: "unsigned_valid",
			Doc:  "An unsigned IFM requires an OFM of the same type or INT32",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil || ifm.DType.IsSigned() {
					return true, ""
				}
				if ofm.DType != ifm.DType && ofm.DType != npuir.DataTypeInt32 {
					return false, fmt.Sprintf("Op '%s' has unsigned IFM %s but OFM %s is neither matching nor INT32", op.Name, ifm.DType, ofm.DType)
				}
				return true, ""
			},
		},
	}
}

func shiftConstraints() []Constraint {
	return []Constraint{
		{
			Name: "inputs_int32",
			Doc:  "Both IFMs of a shift operator must be INT32",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ifm2 := g.ifm(op), g.ifm2(op)
				if ifm != nil && ifm.DType != npuir.DataTypeInt32 {
					return false, fmt.Sprintf("Op '%s' has IFM type %s, must be INT32", op.Name, ifm.DType)
				}
				if ifm2 != nil && ifm2.DType != npuir.DataTypeInt32 {
					return false, fmt.Sprintf("Op '%s' has IFM2 type %s, must be INT32", op.Name, ifm2.DType)
				}
				return true, ""
			},
		},
	}
}

func shlClzConstraints() []Constraint {
	return []Constraint{
		{
			Name: "output_int32",
			Doc:  "Output tensor must be INT32",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ofm := g.ofm(op)
				if ofm != nil && ofm.DType != npuir.DataTypeInt32 {
					return false, fmt.Sprintf("Op '%s' has OFM type %s, must be INT32", op.Name, ofm.DType)
				}
				return true, ""
			},
		},
	}
}

func leakyReluConstraints() []Constraint {
	return []Constraint{
		{
			Name: "alpha_valid",
			Doc:  "alpha must be >= 0",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				alpha, _ := op.AttrFloat("alpha")
				if alpha < 0 {
					return false, fmt.Sprintf("Op '%s' has alpha %v, must be >= 0", op.Name, alpha)
				}
				return true, ""
			},
		},
	}
}

func reluFamilyConstraints() []Constraint {
	return []Constraint{
		{
			Name: "relu_scale_finite",
			Doc:  "IFM and OFM scale must be finite",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm != nil && !ifm.Quantization.ScaleFinite() {
					return false, fmt.Sprintf("Op '%s' has non-finite IFM scale", op.Name)
				}
				if ofm != nil && !ofm.Quantization.ScaleFinite() {
					return false, fmt.Sprintf("Op '%s' has non-finite OFM scale", op.Name)
				}
				return true, ""
			},
		},
	}
}
