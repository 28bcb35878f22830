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

func softmaxConstraints() []Constraint {
	return []Constraint{
		{
			Name: "softmax_matching_shapes",
			Doc:  "IFM and OFM shapes must match",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				if !shapeEqual(ifm, ofm) {
					return false, fmt.Sprintf("Op '%s' has IFM shape %v but OFM shape %v", op.Name, ifm.Shape, ofm.Shape)
				}
				return true, ""
			},
		},
		{
			Name: "softmax_matching_in_out_types",
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
			Name: "beta_value_range",
			Doc:  "beta must be >= 0",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				beta, _ := op.AttrFloat("beta")
				if beta < 0 {
					return false, fmt.Sprintf("Op '%s' has beta %v, must be >= 0", op.Name, beta)
				}
				return true, ""
			},
		},
	}
}

func concatConstraints() []Constraint {
	return []Constraint{
		{
			Name: "axis_exists",
			Doc:  "The axis attribute must be present",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if _, ok := op.AttrInt("axis"); !ok {
					return false, fmt.Sprintf("Op '%s' has no axis attribute", op.Name)
				}
				return true, ""
			},
		},
		{
			Name: "axis_valid",
			Doc:  "0 <= axis < rank(OFM)",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				axis, ok := op.AttrInt("axis")
				ofm := g.ofm(op)
				if !ok || ofm == nil {
					return true, ""
				}
				if axis < 0 || axis >= ofm.Rank() {
					return false, fmt.Sprintf("Op '%s' has axis %d, must be in [0, %d)", op.Name, axis, ofm.Rank())
				}
				return true, ""
			},
		},
		{
			Name: "matching_dimensionality",
			Doc:  "Every input must have the same rank as OFM",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ofm := g.ofm(op)
				if ofm == nil {
					return true, ""
				}
				for _, id := range op.Inputs {
					t := g.tensor(id)
					if t != nil && t.Rank() != ofm.Rank() {
						return false, fmt.Sprintf("Op '%s': input '%s' has rank %d, OFM has rank %d", op.Name, t.Name, t.Rank(), ofm.Rank())
					}
				}
				return true, ""
			},
		},
		{
			Name: "valid_dimensions",
			Doc:  "On every non-axis dimension, every input must equal OFM",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				axis, ok := op.AttrInt("axis")
				ofm := g.ofm(op)
				if !ok || ofm == nil {
					return true, ""
				}
				for _, id := range op.Inputs {
					t := g.tensor(id)
					if t == nil {
						continue
					}
					for i := 0; i < t.Rank(); i++ {
						if i == axis {
							continue
						}
						if t.Shape[i] != ofm.Dim(4-t.Rank()+i) {
							return false, fmt.Sprintf("Op '%s': input '%s' dim %d does not match OFM on a non-axis dimension", op.Name, t.Name, i)
						}
					}
				}
				return true, ""
			},
		},
	}
}

func splitVConstraints() []Constraint {
	return []Constraint{
		{
			Name: "splitv_inferred",
			Doc:  "At most one output size may be -1 (inferred)",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				sizes, ok := op.AttrIntSlice("size_splits")
				if !ok {
					return true, ""
				}
				n := 0
				for _, s := range sizes {
					if s == -1 {
						n++
					}
				}
				if n > 1 {
					return false, fmt.Sprintf("Op '%s' has %d inferred (-1) sizes, at most 1 allowed", op.Name, n)
				}
				return true, ""
			},
		},
	}
}

func stridedSliceConstraints() []Constraint {
	return []Constraint{
		{
			Name: "stridedslice_input_count",
			Doc:  "StridedSlice must have exactly 4 inputs",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if len(op.Inputs) != 4 {
					return false, fmt.Sprintf("Op '%s' has %d inputs, must have exactly 4", op.Name, len(op.Inputs))
				}
				return true, ""
			},
		},
		{
			Name: "stridedslice_inputs_const",
			Doc:  "begin, end and strides tensors must be constant",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if len(op.Inputs) != 4 {
					return true, ""
				}
				for _, idx := range []int{1, 2, 3} {
					t := g.tensor(op.Inputs[idx])
					if t != nil && t.ConstValues == nil {
						return false, fmt.Sprintf("Op '%s': input %d is not constant", op.Name, idx)
					}
				}
				return true, ""
			},
		},
		{
			Name: "stridedslice_stride_values",
			Doc:  "All strides must equal 1",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if len(op.Inputs) != 4 {
					return true, ""
				}
				strides := g.tensor(op.Inputs[3])
				if strides == nil {
					return true, ""
				}
				for _, v := range strides.ConstValues {
					if v != 1 {
						return false, fmt.Sprintf("Op '%s' has stride %d, must be 1", op.Name, v)
					}
				}
				return true, ""
			},
		},
		{
			Name: "ellipsis_mask",
			Doc:  "ellipsis_mask must be 0",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if m := op.AttrIntOr("ellipsis_mask", 0); m != 0 {
					return false, fmt.Sprintf("Op '%s' has ellipsis_mask %d, must be 0", op.Name, m)
				}
				return true, ""
			},
		},
		{
			Name: "axis_masks",
			Doc:  "new_axis_mask and shrink_axis_mask must not both be non-zero",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				na := op.AttrIntOr("new_axis_mask", 0)
				sa := op.AttrIntOr("shrink_axis_mask", 0)
				if na != 0 && sa != 0 {
					return false, fmt.Sprintf("Op '%s' has both new_axis_mask and shrink_axis_mask set", op.Name)
				}
				return true, ""
			},
		},
		{
			Name: "slice_ranges",
			Doc:  "For every axis, the effective end must exceed the effective begin after applying begin_mask/end_mask",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				if len(op.Inputs) != 4 {
					return true, ""
				}
				begin := g.tensor(op.Inputs[1])
				end := g.tensor(op.Inputs[2])
				if begin == nil || end == nil {
					return true, ""
				}
				beginMask := op.AttrIntOr("begin_mask", 0)
				endMask := op.AttrIntOr("end_mask", 0)
				ifm := g.ifm(op)
				for i := range begin.ConstValues {
					b := begin.ConstValues[i]
					e := end.ConstValues[i]
					if beginMask&(1<<uint(i)) != 0 {
						b = 0
					}
					if endMask&(1<<uint(i)) != 0 && ifm != nil {
						e = int64(ifm.Dim(i))
					}
					if e <= b {
						return false, fmt.Sprintf("Op '%s': effective end %d does not exceed effective begin %d on axis %d", op.Name, e, b, i)
					}
				}
				return true, ""
			},
		},
	}
}
