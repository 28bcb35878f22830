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

// findPrimaryOp returns the single weighted/structural op within p whose
// attributes govern the pass (a Mac or ElementWise main op), or NoOpID if
// none exists.
func findPrimaryOp(sg *npuir.Subgraph, p *npuir.Pass) npuir.OpID {
	for _, opid := range p.Ops {
		op := sg.Op(opid)
		if op == nil {
			continue
		}
		if lo.Contains(macMainOps, op.Kind) || lo.Contains(elemWiseMainOps, op.Kind) {
			return opid
		}
	}
	return npuir.NoOpID
}

// synthesizePrimaryOp splices a 1x1 AvgPool into p's op list as the first
// element when the pass carries the Npu flag but no Mac/ElementWise op —
// the only modification to the logical graph the packer performs
// (spec.md §4.3 "Primary-op synthesis").
func synthesizePrimaryOp(sg *npuir.Subgraph, p *npuir.Pass) {
	ifm := sg.Tensor(p.IFM)
	if ifm == nil && len(p.Ops) > 0 {
		if firstOp := sg.Op(p.Ops[0]); firstOp != nil && len(firstOp.Inputs) > 0 {
			ifm = sg.Tensor(firstOp.Inputs[0])
		}
	}

	synthetic := sg.NewOp(npuir.KindAvgPool, p.Name+"_synthetic_avgpool")
	synthetic.Attrs["filter_width"] = 1
	synthetic.Attrs["filter_height"] = 1
	synthetic.Attrs["stride_w"] = 1
	synthetic.Attrs["stride_h"] = 1
	synthetic.Attrs["padding"] = "VALID"
	synthetic.Attrs["npu_block_type"] = int(npuir.BlockPooling)
	synthetic.ScheduledPass = p.ID
	if ifm != nil {
		synthetic.Inputs = []npuir.TensorID{ifm.ID}
	}

	p.Ops = append([]npuir.OpID{synthetic.ID}, p.Ops...)
	p.PrimaryOp = synthetic.ID
	p.BlockType = npuir.BlockPooling
}

// setBlockType sets p's npu_block_type from op's "npu_block_type" attribute
// if present, panicking if a second distinct non-Default block type is
// encountered — an internal invariant failure, not a user-data failure
// (SUPPLEMENTED FEATURES #3, spec.md §4.5).
func setBlockType(p *npuir.Pass, op *npuir.Op) {
	bt, ok := op.AttrInt("npu_block_type")
	if !ok || npuir.NpuBlockType(bt) == npuir.BlockDefault {
		return
	}
	want := npuir.NpuBlockType(bt)
	if p.BlockType != npuir.BlockDefault && p.BlockType != want {
		panic("packer: pass " + p.Name + " already has a primary block type; op " + op.Name + " tried to set a second, distinct one")
	}
	p.BlockType = want
}
