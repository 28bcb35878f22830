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

func inRange(v, lo, hi int) bool { return v >= lo && v <= hi }

func dilatedSize(size, dilation int) int {
	return dilation*(size-1) + 1
}

func weights(op *npuir.Op, g *Graph) *npuir.Tensor {
	// Weights are the second input by convention across the conv family.
	if len(op.Inputs) < 2 {
		return nil
	}
	return g.tensor(op.Inputs[1])
}

func bias(op *npuir.Op, g *Graph) *npuir.Tensor {
	if len(op.Inputs) < 3 {
		return nil
	}
	return g.tensor(op.Inputs[2])
}

// weightSumAbsDeviation returns Σ|w - zero_point| over the weight tensor's
// constant values, the convolution weight-limit check in spec.md §3/§4.2.
func weightSumAbsDeviation(w *npuir.Tensor) int64 {
	zp := int64(0)
	if w.Quantization != nil && !w.Quantization.IsPerAxis() {
		zp = w.Quantization.ZeroPoint
	}
	var sum int64
	for _, v := range w.ConstValues {
		d := v - zp
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

func convolutionConstraints() []Constraint {
	return []Constraint{
		{
			Name: "stride_range",
			Doc:  "Stride values for both width and height must be in the range [1, 3]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				sw, sh := op.AttrIntOr("stride_w", 1), op.AttrIntOr("stride_h", 1)
				if !inRange(sw, 1, 3) || !inRange(sh, 1, 3) {
					return false, fmt.Sprintf("Op '%s' has stride (%d, %d), must be in [1, 3]", op.Name, sw, sh)
				}
				return true, ""
			},
		},
		{
			Name: "dilation_range",
			Doc:  "Dilation factors for both width and height must be in the range [1, 2]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				dw, dh := op.AttrIntOr("dilation_w_factor", 1), op.AttrIntOr("dilation_h_factor", 1)
				if !inRange(dw, 1, 2) || !inRange(dh, 1, 2) {
					return false, fmt.Sprintf("Op '%s' has dilation (%d, %d), must be in [1, 2]", op.Name, dw, dh)
				}
				return true, ""
			},
		},
		{
			Name: "dilated_height_range",
			Doc:  "Dilated kernel height must be in the range [1, 64]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				w := weights(op, g)
				if w == nil {
					return true, ""
				}
				kh := w.Dim(1)
				dh := op.AttrIntOr("dilation_h_factor", 1)
				dilated := dilatedSize(kh, dh)
				if !inRange(dilated, 1, 64) {
					return false, fmt.Sprintf("Op '%s' has dilated kernel height %d, must be in [1, 64]", op.Name, dilated)
				}
				return true, ""
			},
		},
		{
			Name: "dilated_product_range",
			Doc:  "Product of dilated kernel width and height must be in the range [1, 4096]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				w := weights(op, g)
				if w == nil {
					return true, ""
				}
				kh, kw := w.Dim(1), w.Dim(2)
				dh, dw := op.AttrIntOr("dilation_h_factor", 1), op.AttrIntOr("dilation_w_factor", 1)
				product := dilatedSize(kh, dh) * dilatedSize(kw, dw)
				if !inRange(product, 1, 4096) {
					return false, fmt.Sprintf("Op '%s' has dilated kernel W*H = %d, must be in [1, 4096]", op.Name, product)
				}
				return true, ""
			},
		},
		{
			Name: "weights_type",
			Doc:  "Weight tensors must be 8-bit",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				w := weights(op, g)
				if w == nil {
					return true, ""
				}
				if !lo.Contains([]npuir.DataType{npuir.DataTypeUint8, npuir.DataTypeInt8}, w.DType) {
					return false, fmt.Sprintf("Weight Tensor '%s' has data type %s, must be 8-bit", w.Name, w.DType)
				}
				return true, ""
			},
		},
		{
			Name: "weights_const",
			Doc:  "Weight tensors must be constant",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				w := weights(op, g)
				if w == nil {
					return true, ""
				}
				if w.ConstValues == nil {
					return false, fmt.Sprintf("Weight Tensor '%s' is not constant", w.Name)
				}
				return true, ""
			},
		},
		{
			Name: "weights_limit",
			Doc:  "Sum of weights cannot exceed 127 * 65536",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				w := weights(op, g)
				if w == nil || w.ConstValues == nil {
					return true, ""
				}
				const limit = 127 * 65536
				if sum := weightSumAbsDeviation(w); sum > limit {
					return false, fmt.Sprintf("Weight Tensor '%s' has sum-of-abs-deviation %d, exceeds %d", w.Name, sum, limit)
				}
				return true, ""
			},
		},
		{
			Name: "bias_type",
			Doc:  "Bias tensors must be of type INT32 or INT64",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				b := bias(op, g)
				if b == nil {
					return true, ""
				}
				if b.DType != npuir.DataTypeInt32 {
					return false, fmt.Sprintf("Bias Tensor '%s' has data type %s, must be INT32 or INT64", b.Name, b.DType)
				}
				return true, ""
			},
		},
		{
			Name: "bias_40bit",
			Doc:  "Bias values must fit in 40 bits",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				b := bias(op, g)
				if b == nil || b.ConstValues == nil {
					return true, ""
				}
				const limit = int64(1) << 39
				for _, v := range b.ConstValues {
					if v < -limit || v >= limit {
						return false, fmt.Sprintf("Bias Tensor '%s' has value %d that does not fit in 40 bits", b.Name, v)
					}
				}
				return true, ""
			},
		},
		{
			Name: "batch_size",
			Doc:  "IFM batch size must be 1",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm := g.ifm(op)
				if ifm == nil || ifm.Rank() < 4 {
					return true, ""
				}
				if b := ifm.Dim(0); b != 1 {
					return false, fmt.Sprintf("IFM Tensor '%s' has batch size: %d", ifm.Name, b)
				}
				return true, ""
			},
		},
	}
}

func depthwiseConstraints() []Constraint {
	return []Constraint{
		{
			Name: "depth_multiplier",
			Doc:  "If depth_multiplier > 1, IFM channels must be 1 and OFM channels must equal depth_multiplier",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				dm := op.AttrIntOr("depth_multiplier", 1)
				if dm <= 1 {
					return true, ""
				}
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm != nil && ifm.Dim(3) != 1 {
					return false, fmt.Sprintf("Op '%s' has depth_multiplier %d but IFM channels = %d, must be 1", op.Name, dm, ifm.Dim(3))
				}
				if ofm != nil && ofm.Dim(3) != dm {
					return false, fmt.Sprintf("Op '%s' has depth_multiplier %d but OFM channels = %d", op.Name, dm, ofm.Dim(3))
				}
				return true, ""
			},
		},
	}
}

func transposeConvConstraints() []Constraint {
	return []Constraint{
		{
			Name: "tconv_stride",
			Doc:  "Transpose-convolution stride must be (2, 2)",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				sw, sh := op.AttrIntOr("stride_w", 0), op.AttrIntOr("stride_h", 0)
				if sw != 2 || sh != 2 {
					return false, fmt.Sprintf("Op '%s' has stride (%d, %d), must be (2, 2)", op.Name, sw, sh)
				}
				return true, ""
			},
		},
		{
			Name: "tconv_same",
			Doc:  "With SAME padding, OFM shape must equal IFM shape scaled by stride",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				pad, _ := op.AttrString("padding")
				if pad != "SAME" {
					return true, ""
				}
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				sw, sh := op.AttrIntOr("stride_w", 2), op.AttrIntOr("stride_h", 2)
				if ofm.Dim(1) != ifm.Dim(1)*sh || ofm.Dim(2) != ifm.Dim(2)*sw {
					return false, fmt.Sprintf("Op '%s' (SAME): OFM shape does not equal IFM shape * stride", op.Name)
				}
				return true, ""
			},
		},
		{
			Name: "tconv_valid",
			Doc:  "With VALID padding, OFM shape must equal IFM shape scaled by stride plus max(kernel-stride, 0)",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				pad, _ := op.AttrString("padding")
				if pad != "VALID" {
					return true, ""
				}
				ifm, ofm := g.ifm(op), g.ofm(op)
				w := weights(op, g)
				if ifm == nil || ofm == nil || w == nil {
					return true, ""
				}
				sw, sh := op.AttrIntOr("stride_w", 2), op.AttrIntOr("stride_h", 2)
				kh, kw := w.Dim(1), w.Dim(2)
				extraH, extraW := max0(kh-sh), max0(kw-sw)
				if ofm.Dim(1) != ifm.Dim(1)*sh+extraH || ofm.Dim(2) != ifm.Dim(2)*sw+extraW {
					return false, fmt.Sprintf("Op '%s' (VALID): OFM shape does not match expected output shape", op.Name)
				}
				return true, ""
			},
		},
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
