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

package packer

import (
	"github.com/samber/lo"

	"github.com/ajroetker/npucc/internal/npuir"
)

// ClassificationRule is one row of the ordered flag-assignment table. The
// packer tries rows in order; the first whose OpSet contains the op (or
// which is a wildcard, OpSet == nil) and whose Incompatible mask does not
// intersect the flags already accumulated on the op wins.
type ClassificationRule struct {
	Name          string
	OpSet         []npuir.Kind // nil means "matches any op" (the wildcard fallback row)
	Incompatible  Flags
	SetFlags      Flags
	ClearFlags    Flags
	Diagnostic    string // non-empty only for the wildcard fallback row
}

var (
	npuPostOps = []npuir.Kind{
		npuir.KindRelu, npuir.KindRelu6, npuir.KindSigmoid, npuir.KindTanh,
	}
	npuPostFusingLimitedOps = []npuir.Kind{
		npuir.KindConcatSliceWrite, npuir.KindSigmoid, npuir.KindTanh,
	}
	macMainOps = []npuir.Kind{
		npuir.KindConv2D, npuir.KindDepthwiseConv2DBias, npuir.KindTransposeConv,
		npuir.KindFullyConnected, npuir.KindMaxPool, npuir.KindAvgPool, npuir.KindReduceSum,
	}
	elemWiseMainOps = []npuir.Kind{
		npuir.KindAdd, npuir.KindSub, npuir.KindMul, npuir.KindMinimum, npuir.KindMaximum,
		npuir.KindAbs, npuir.KindLeakyRelu, npuir.KindShl, npuir.KindShr, npuir.KindCLZ,
	}
	npuPreOps      = []npuir.Kind{npuir.KindQuantizedResizeBilinear, npuir.KindSplitSliceRead}
	dmaOps         = []npuir.Kind{npuir.KindDMA}
	startupInitOps = []npuir.Kind{npuir.KindConst, npuir.KindPlaceholder, npuir.KindSubgraphInput}
	memoryOnlyOps  = []npuir.Kind{
		npuir.KindConcat, npuir.KindSplit, npuir.KindSplitV, npuir.KindStridedSlice, npuir.KindReshape,
	}
	cpuOps = []npuir.Kind{npuir.KindSoftmax}
)

// classificationTable is the ordered table from spec.md §4.3.1, ported
// function-for-function from pass_packing.py's test_sequence.
func classificationTable() []ClassificationRule {
	return []ClassificationRule{
		{
			Name:         "npu_post",
			OpSet:        npuPostOps,
			SetFlags:     FlagNpu | FlagPost,
			Incompatible: FlagCpu | FlagMemoryOnly | FlagPre | FlagMain,
		},
		{
			Name:         "npu_post_fusing_limited",
			OpSet:        npuPostFusingLimitedOps,
			SetFlags:     FlagNpu | FlagPostFusingLimited,
			Incompatible: FlagCpu | FlagMemoryOnly | FlagPre | FlagMain,
		},
		{
			Name:         "mac_main",
			OpSet:        macMainOps,
			SetFlags:     FlagNpu | FlagMac | FlagMain,
			Incompatible: FlagCpu | FlagMemoryOnly | FlagElementWise | FlagPre | FlagMain | FlagPostFusingLimited,
		},
		{
			Name:         "elementwise_main",
			OpSet:        elemWiseMainOps,
			SetFlags:     FlagNpu | FlagElementWise | FlagMain,
			Incompatible: FlagCpu | FlagMemoryOnly | FlagMac | FlagPre | FlagMain | FlagPostFusingLimited,
		},
		{
			Name:         "npu_pre",
			OpSet:        npuPreOps,
			SetFlags:     FlagNpu | FlagMac | FlagPre | FlagElementWise,
			Incompatible: FlagCpu | FlagMemoryOnly,
		},
		{
			Name:         "dma",
			OpSet:        dmaOps,
			SetFlags:     FlagNpu | FlagDma,
			Incompatible: FlagCpu | FlagMemoryOnly,
		},
		{
			Name:     "startup_init",
			OpSet:    startupInitOps,
			SetFlags: FlagStartupInit | FlagMain,
		},
		{
			Name:         "memory_only",
			OpSet:        memoryOnlyOps,
			SetFlags:     FlagMemoryOnly | FlagMain,
			Incompatible: FlagNpu | FlagCpu,
		},
		{
			Name:     "cpu",
			OpSet:    cpuOps,
			SetFlags: FlagCpu | FlagMain,
		},
		{
			Name:       "wildcard_fallback",
			OpSet:      nil,
			SetFlags:   FlagCpu | FlagMain,
			Diagnostic: "unknown or unsupported operation, placing on CPU",
		},
	}
}

// Classify finds the first row in the ordered table whose OpSet matches
// kind's operator (or is the wildcard) and whose Incompatible mask does
// not intersect accumulated, and returns the rule together with the new
// flag value. It always succeeds: the wildcard row matches anything.
func Classify(kind npuir.Kind, accumulated Flags) (ClassificationRule, Flags) {
	for _, row := range classificationTable() {
		if row.OpSet != nil && !lo.Contains(row.OpSet, kind) {
			continue
		}
		if row.Incompatible.Intersects(accumulated) {
			continue
		}
		next := (accumulated | row.SetFlags) &^ row.ClearFlags
		return row, next
	}
	// Unreachable: the wildcard row (OpSet == nil) always matches and
	// carries no Incompatible mask.
	panic("packer: classification table exhausted without a match")
}
