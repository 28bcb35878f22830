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
	"log/slog"

	"github.com/samber/lo"

	"github.com/ajroetker/npucc/internal/npuir"
)

// startupInitKinds mirrors pass_packing.py's startup_init_ops: these never
// get fused into an ordinary pass — every ready one is collected into the
// single startup_weight_initialisation pass.
var startupInitKinds = []npuir.Kind{npuir.KindConst, npuir.KindPlaceholder, npuir.KindSubgraphInput}

// Packer walks a subgraph in reverse from its outputs and groups ready
// operators into fused passes, per spec.md §4.3's packing algorithm.
type Packer struct {
	sg     *npuir.Subgraph
	logger *slog.Logger

	visitOpCount     map[npuir.OpID]int
	visitTensorCount map[npuir.TensorID]int
	scheduled        map[npuir.OpID]npuir.PassID

	startupOps []npuir.OpID
}

// NewPacker returns a Packer ready to pack sg.
func NewPacker(sg *npuir.Subgraph, logger *slog.Logger) *Packer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Packer{
		sg:               sg,
		logger:           logger,
		visitOpCount:     make(map[npuir.OpID]int),
		visitTensorCount: make(map[npuir.TensorID]int),
		scheduled:        make(map[npuir.OpID]npuir.PassID),
	}
}

// Pack runs the full packing algorithm and returns the subgraph's passes,
// including the single collected startup pass if any startup-init ops
// were found ready during the traversal.
func (pk *Packer) Pack() []*npuir.Pass {
	for _, out := range pk.sg.Outputs {
		pk.visitTensor(out)
	}

	if len(pk.startupOps) > 0 {
		startup := pk.sg.NewPass(npuir.PlacementStartupInit)
		startup.Name = "startup_weight_initialisation"
		for _, opID := range pk.startupOps {
			pk.sg.AssignPass(opID, startup.ID)
			pk.scheduled[opID] = startup.ID
		}
	}

	passes := pk.sg.AllPasses()
	for _, p := range passes {
		pk.finalizePass(p)
	}
	return passes
}

// visitTensor increments tid's visit count; once every consumer has
// requested a visit, each of its producer ops becomes a visit candidate.
func (pk *Packer) visitTensor(tid npuir.TensorID) {
	t := pk.sg.Tensor(tid)
	if t == nil {
		return
	}
	pk.visitTensorCount[tid]++
	want := len(t.Consumers)
	if want == 0 {
		want = 1 // a subgraph output has no recorded consumer but is visited once
	}
	if pk.visitTensorCount[tid] < want {
		return
	}
	for _, producer := range t.Producers {
		pk.visitOp(producer)
	}
}

// visitOp increments opid's visit count; once every output has been
// visited, the op is "ready" and either joins the startup collection or
// seeds a new fused pass.
func (pk *Packer) visitOp(opid npuir.OpID) {
	if _, done := pk.scheduled[opid]; done {
		return
	}
	op := pk.sg.Op(opid)
	if op == nil {
		return
	}
	pk.visitOpCount[opid]++
	want := len(op.Outputs)
	if want == 0 {
		want = 1
	}
	if pk.visitOpCount[opid] < want {
		return
	}

	if lo.Contains(startupInitKinds, op.Kind) {
		pk.startupOps = append(pk.startupOps, opid)
		for _, in := range op.Inputs {
			pk.visitTensor(in)
		}
		return
	}

	pk.growPass(opid)
}

// growPass builds a new Pass around the ready operator seed, breadth-first
// over its inputs, absorbing every candidate whose classification is
// compatible with the flags accumulated so far and which is not shared
// with an op outside the pass.
func (pk *Packer) growPass(seed npuir.OpID) {
	p := pk.sg.NewPass(npuir.PlacementCpu) // placement finalized once flags settle
	accumulated := FlagEmpty
	inPass := map[npuir.OpID]bool{}

	accept := func(opid npuir.OpID, row ClassificationRule, newFlags Flags) {
		pk.sg.AssignPass(opid, p.ID)
		pk.scheduled[opid] = p.ID
		inPass[opid] = true
		accumulated = newFlags
		if op := pk.sg.Op(opid); op != nil {
			setBlockType(p, op)
			if row.Diagnostic != "" {
				pk.logger.Warn(row.Diagnostic, "op", op.Kind.String(), "name", op.Name, "rule", row.Name)
			}
		}
	}

	seedOp := pk.sg.Op(seed)
	seedRow, seedFlags := Classify(seedOp.Kind, accumulated)
	if seedFlags.Has(FlagNpu) && !seedOp.RunOnNPU {
		// An op not eligible for the NPU takes the wildcard fallback row.
		seedRow, seedFlags = Classify(npuir.KindUnknown, accumulated)
	}
	accept(seed, seedRow, seedFlags)

	queue := append([]npuir.TensorID(nil), seedOp.Inputs...)
	for len(queue) > 0 {
		tid := queue[0]
		queue = queue[1:]

		t := pk.sg.Tensor(tid)
		if t == nil {
			continue
		}

		if len(t.Producers) != 1 {
			pk.addPassInput(p, tid)
			continue
		}
		producerID := t.Producers[0]
		if _, already := pk.scheduled[producerID]; already {
			pk.addPassInput(p, tid)
			continue
		}
		if !pk.allConsumersIn(t, inPass) {
			pk.addPassInput(p, tid)
			continue
		}
		producer := pk.sg.Op(producerID)
		if lo.Contains(startupInitKinds, producer.Kind) {
			pk.addPassInput(p, tid)
			continue
		}

		row, newFlags := Classify(producer.Kind, accumulated)
		if newFlags.Has(FlagNpu) && !producer.RunOnNPU {
			pk.addPassInput(p, tid)
			continue
		}
		if pl := newFlags & placementFlags; pl&(pl-1) != 0 {
			// The matched row would give the pass a second placement.
			pk.addPassInput(p, tid)
			continue
		}
		if row.Name == "dma" {
			// DMA intermediates are kept on the pass rather than dropped
			// (SUPPLEMENTED FEATURES #4).
			p.Intermediates = append(p.Intermediates, tid)
		}

		accept(producerID, row, newFlags)
		queue = append(queue, producer.Inputs...)
	}

	// Ops were accepted consumer-before-producer during the reverse
	// traversal; reverse so Pass.Ops ends up producer-before-consumer.
	for i, j := 0, len(p.Ops)-1; i < j; i, j = i+1, j-1 {
		p.Ops[i], p.Ops[j] = p.Ops[j], p.Ops[i]
	}

	p.Placement = accumulated.Placement()
	p.IsElementwise = accumulated.Has(FlagElementWise)
}

// addPassInput records tid as an external input to p, once per occurrence
// (not deduplicated): the original builds ordered_input_list by
// first-occurrence order but re-drives the visit once per refcount unit,
// so the same external tensor feeding a pass through more than one op
// appears once per edge (SUPPLEMENTED FEATURES #5).
func (pk *Packer) addPassInput(p *npuir.Pass, tid npuir.TensorID) {
	p.Inputs = append(p.Inputs, tid)
	pk.visitTensor(tid)
}

// allConsumersIn reports whether every consumer of t is already inside
// inPass — the condition that inclusion would not create a tensor shared
// with an op outside the pass.
func (pk *Packer) allConsumersIn(t *npuir.Tensor, inPass map[npuir.OpID]bool) bool {
	for _, c := range t.Consumers {
		if !inPass[c] {
			return false
		}
	}
	return true
}

// finalizePass resolves IFM/IFM2/OFM/Weights references and synthesizes a
// primary op when the pass carries the Npu flag but no Mac/ElementWise op
// (spec.md §4.3 "Primary-op synthesis").
func (pk *Packer) finalizePass(p *npuir.Pass) {
	if len(p.Inputs) > 0 {
		p.IFM = p.Inputs[0]
		if len(p.Inputs) > 1 {
			p.IFM2 = p.Inputs[1]
		} else {
			p.IFM2 = p.Inputs[0]
		}
	}
	if len(p.Ops) > 0 {
		last := pk.sg.Op(p.Ops[len(p.Ops)-1])
		if last != nil && len(last.Outputs) > 0 {
			p.OFM = last.Outputs[0]
		}
	}

	if p.Placement != npuir.PlacementNpu {
		p.PrimaryOp = findPrimaryOp(pk.sg, p)
		return
	}

	hasMainStructural := false
	for _, opid := range p.Ops {
		op := pk.sg.Op(opid)
		if op == nil {
			continue
		}
		if lo.Contains(macMainOps, op.Kind) || lo.Contains(elemWiseMainOps, op.Kind) {
			hasMainStructural = true
			break
		}
	}

	if !hasMainStructural {
		synthesizePrimaryOp(pk.sg, p)
	} else {
		p.PrimaryOp = findPrimaryOp(pk.sg, p)
	}
}
