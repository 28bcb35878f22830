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
	"log/slog"

	"github.com/samber/lo"

	"github.com/ajroetker/npucc/internal/npuir"
)

var (
	npuPreOps = []npuir.Kind{npuir.KindQuantizedResizeBilinear, npuir.KindSplitSliceRead}

	macMainOps = []npuir.Kind{
		npuir.KindConv2D, npuir.KindDepthwiseConv2DBias, npuir.KindTransposeConv,
		npuir.KindFullyConnected, npuir.KindMaxPool, npuir.KindAvgPool, npuir.KindReduceSum,
	}

	elemWiseMainOps = []npuir.Kind{
		npuir.KindAdd, npuir.KindSub, npuir.KindMul, npuir.KindMinimum, npuir.KindMaximum,
		npuir.KindAbs, npuir.KindLeakyRelu, npuir.KindShl, npuir.KindShr, npuir.KindCLZ,
	}

	npuPostOps = []npuir.Kind{
		npuir.KindRelu, npuir.KindRelu6, npuir.KindSigmoid, npuir.KindTanh, npuir.KindConcatSliceWrite,
	}

	memoryOnlyOps = []npuir.Kind{
		npuir.KindConcat, npuir.KindSplit, npuir.KindSplitV, npuir.KindStridedSlice, npuir.KindReshape,
	}

	// alwaysSilencedKinds never produce the "is a CPU only op" Info
	// diagnostic: they are never NPU candidates and logging about them is
	// pure noise (SUPPLEMENTED FEATURES #2).
	alwaysSilencedKinds = []npuir.Kind{npuir.KindPlaceholder, npuir.KindConst, npuir.KindSubgraphInput}
)

// supportedOperatorKinds is the union every operator must belong to before
// any generic or per-kind constraint is even attempted.
func supportedOperatorKinds() []npuir.Kind {
	return lo.Union(npuPreOps, macMainOps, elemWiseMainOps, npuPostOps, memoryOnlyOps, []npuir.Kind{npuir.KindSoftmax, npuir.KindResizeBilinear, npuir.KindDMA})
}

// Result is the outcome of checking a single Op.
type Result struct {
	Op        *npuir.Op
	Supported bool
	Rule      string
	Diagnostic string
}

// Checker holds the ordered generic constraints and the per-kind
// constraint tables, built once and reused across every op in a compile.
type Checker struct {
	generic []Constraint
	perKind map[npuir.Kind][]Constraint
	logger  *slog.Logger
}

// NewChecker builds the full constraint registry, mirroring
// SupportedOperators.__init__'s per-family registration loops.
func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checker{
		generic: genericConstraints(),
		perKind: make(map[npuir.Kind][]Constraint),
		logger:  logger,
	}

	register := func(kinds []npuir.Kind, constraints []Constraint) {
		for _, k := range kinds {
			c.perKind[k] = append(c.perKind[k], constraints...)
		}
	}

	register([]npuir.Kind{npuir.KindConv2D, npuir.KindDepthwiseConv2DBias, npuir.KindTransposeConv}, convolutionConstraints())
	register([]npuir.Kind{npuir.KindDepthwiseConv2DBias}, depthwiseConstraints())
	register([]npuir.Kind{npuir.KindTransposeConv}, transposeConvConstraints())
	register([]npuir.Kind{npuir.KindMaxPool, npuir.KindAvgPool, npuir.KindReduceSum}, poolingConstraints())
	register([]npuir.Kind{npuir.KindAvgPool}, avgPoolConstraints())
	register([]npuir.Kind{npuir.KindMaxPool}, maxPoolConstraints())
	register([]npuir.Kind{npuir.KindResizeBilinear}, resizeBilinearConstraints())
	register([]npuir.Kind{npuir.KindRelu, npuir.KindRelu6}, reluFamilyConstraints())
	register([]npuir.Kind{npuir.KindSoftmax}, softmaxConstraints())
	register([]npuir.Kind{npuir.KindConcat}, concatConstraints())
	register([]npuir.Kind{npuir.KindSplitV}, splitVConstraints())
	register([]npuir.Kind{npuir.KindStridedSlice}, stridedSliceConstraints())

	binaryElemwise := []npuir.Kind{npuir.KindAdd, npuir.KindSub, npuir.KindMul, npuir.KindMinimum, npuir.KindMaximum, npuir.KindShl, npuir.KindShr}
	register(binaryElemwise, elementwiseBinaryConstraints())
	register([]npuir.Kind{npuir.KindAbs, npuir.KindLeakyRelu}, unaryElemwiseConstraints())
	register([]npuir.Kind{npuir.KindMinimum, npuir.KindMaximum}, minMaxConstraints())
	register([]npuir.Kind{npuir.KindAdd, npuir.KindMul, npuir.KindSub}, addMulSubConstraints())
	register([]npuir.Kind{npuir.KindShl, npuir.KindShr}, shiftConstraints())
	register([]npuir.Kind{npuir.KindShl, npuir.KindCLZ}, shlClzConstraints())
	register([]npuir.Kind{npuir.KindLeakyRelu}, leakyReluConstraints())

	return c
}

// Check runs the top-level supported-set gate, then every generic and
// per-kind constraint, in order, short-circuiting on the first failure —
// mirroring SupportedOperators.is_operator_supported.
func (c *Checker) Check(op *npuir.Op, g *Graph) Result {
	if !lo.Contains(supportedOperatorKinds(), op.Kind) {
		if !lo.Contains(alwaysSilencedKinds, op.Kind) {
			c.logger.Info("op is a CPU only op", "op", op.Kind.String(), "name", op.Name)
		}
		return Result{Op: op, Supported: false, Rule: "not_in_supported_set"}
	}

	for _, con := range c.generic {
		if ok, diag := con.Check(op, g); !ok {
			return c.reject(op, con, diag)
		}
	}
	for _, con := range c.perKind[op.Kind] {
		if ok, diag := con.Check(op, g); !ok {
			return c.reject(op, con, diag)
		}
	}
	return Result{Op: op, Supported: true}
}

func (c *Checker) reject(op *npuir.Op, con Constraint, diag string) Result {
	msg := fmt.Sprintf("Warning: %s '%s' is not supported on the NPU. Placing on CPU instead", op.Kind, op.Name)
	c.logger.Warn(msg, "op", op.Kind.String(), "name", op.Name, "rule", con.Name, "reason", con.Doc, "detail", diag)
	return Result{Op: op, Supported: false, Rule: con.Name, Diagnostic: diag}
}

// Rules returns the full enumerable diagnostic catalogue (generic rules
// followed by every per-kind rule, deduplicated), for `npucc check
// --list-rules` (SUPPLEMENTED FEATURES #8).
func (c *Checker) Rules() []Constraint {
	out := append([]Constraint(nil), c.generic...)
	seen := make(map[string]bool)
	for _, con := range c.generic {
		seen[con.Name] = true
	}
	for _, constraints := range c.perKind {
		for _, con := range constraints {
			if seen[con.Name] {
				continue
			}
			seen[con.Name] = true
			out = append(out, con)
		}
	}
	return out
}
