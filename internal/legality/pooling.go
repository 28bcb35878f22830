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

func poolingConstraints() []Constraint {
	return []Constraint{
		{
			Name: "pool_stride_range",
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
			Name: "pool_batch_size",
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

func avgPoolConstraints() []Constraint {
	return []Constraint{
		{
			Name: "avgpool_matching_in_out_types",
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
			Name: "avgpool_filter_range",
			Doc:  "With SAME padding, filter width and height must be in [1, 8]; with VALID padding, filter height must be in [1, 256] and H*W in [1, 65536]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				fw, fh := op.AttrIntOr("filter_width", 1), op.AttrIntOr("filter_height", 1)
				pad, _ := op.AttrString("padding")
				if pad == "SAME" {
					if !inRange(fw, 1, 8) || !inRange(fh, 1, 8) {
						return false, fmt.Sprintf("Op '%s' (SAME) has filter (%d, %d), must be in [1, 8]", op.Name, fw, fh)
					}
					return true, ""
				}
				if !inRange(fh, 1, 256) {
					return false, fmt.Sprintf("Op '%s' (VALID) has filter height %d, must be in [1, 256]", op.Name, fh)
				}
				if product := fh * fw; !inRange(product, 1, 65536) {
					return false, fmt.Sprintf("Op '%s' (VALID) has filter H*W = %d, must be in [1, 65536]", op.Name, product)
				}
				return true, ""
			},
		},
	}
}

func maxPoolConstraints() []Constraint {
	return []Constraint{
		{
			Name: "maxpool_matching_in_out_types",
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
			Name: "maxpool_filter_range",
			Doc:  "Filter height must be in [1, 256] and H*W in [1, 65536]",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				fw, fh := op.AttrIntOr("filter_width", 1), op.AttrIntOr("filter_height", 1)
				if !inRange(fh, 1, 256) {
					return false, fmt.Sprintf("Op '%s' has filter height %d, must be in [1, 256]", op.Name, fh)
				}
				if product := fh * fw; !inRange(product, 1, 65536) {
					return false, fmt.Sprintf("Op '%s' has filter H*W = %d, must be in [1, 65536]", op.Name, product)
				}
				return true, ""
			},
		},
	}
}

func resizeBilinearConstraints() []Constraint {
	return []Constraint{
		{
			Name: "resize_shape",
			Doc:  "IFM must be 1x1, or IFM must equal OFM, or OFM must be an exact 2x (or 2x-1 with align_corners) upscale of IFM",
			Check: func(op *npuir.Op, g *Graph) (bool, string) {
				ifm, ofm := g.ifm(op), g.ofm(op)
				if ifm == nil || ofm == nil {
					return true, ""
				}
				if ifm.Dim(1) == 1 && ifm.Dim(2) == 1 {
					return true, ""
				}
				if ifm.Dim(1) == ofm.Dim(1) && ifm.Dim(2) == ofm.Dim(2) {
					return true, ""
				}
				alignCorners, _ := op.AttrBool("align_corners")
				var wantH, wantW int
				if alignCorners {
					wantH, wantW = 2*ifm.Dim(1)-1, 2*ifm.Dim(2)-1
				} else {
					wantH, wantW = 2*ifm.Dim(1), 2*ifm.Dim(2)
				}
				if ofm.Dim(1) == wantH && ofm.Dim(2) == wantW {
					return true, ""
				}
				return false, fmt.Sprintf("Op '%s' has IFM shape incompatible with OFM shape for resize", op.Name)
			},
		},
	}
}
