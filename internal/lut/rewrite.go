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

package lut

import "github.com/ajroetker/npucc/internal/npuir"

// Geometry describes the per-accelerator SHRAM LUT region the rewrite
// pass allocates within.
type Geometry struct {
	ShramLUTAddress     int64
	ShramLUTSize        int64
	ReservedUnusedBanks int
}

// Rewrite walks cmds in order and returns the rewritten command stream:
// DMA commands targeting an already-resident equivalent LUT are dropped,
// new LUT DMAs are assigned an address via FindBestAddress, and an
// NPU-stripe command that doesn't consume a LUT clobbers SHRAM when the
// accelerator reserves zero unused banks — the four rules of spec.md
// §4.4's rewrite pass, ported from optimize_high_level_cmd_stream.
func Rewrite(sg *npuir.Subgraph, cmds []Command, geo Geometry) []Command {
	state := NewState()
	out := make([]Command, 0, len(cmds))

	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case StripeCommand:
			if !c.UsesLUT && geo.ReservedUnusedBanks == 0 {
				state = Empty()
			}
			out = append(out, c)

		case DMACommand:
			if c.OutputPurpose != npuir.PurposeLUT {
				out = append(out, c)
				continue
			}
			if resident, ok := state.GetEquivalent(c.EquivalenceID); ok {
				if t := sg.Tensor(c.OutputTensor); t != nil {
					t.Address = resident.Address
				}
				setLUTIndex(sg, c.OutputTensor, (resident.Address-geo.ShramLUTAddress)/SlotSize)
				continue // drop the redundant DMA
			}
			addr := state.FindBestAddress(geo.ShramLUTAddress, geo.ShramLUTAddress+geo.ShramLUTSize, c.Size)
			if t := sg.Tensor(c.OutputTensor); t != nil {
				t.Address = addr
			}
			setLUTIndex(sg, c.OutputTensor, (addr-geo.ShramLUTAddress)/SlotSize)
			state = state.Put(Resident{Tensor: c.OutputTensor, EquivalenceID: c.EquivalenceID, Address: addr, Size: c.Size})
			out = append(out, c)

		default:
			out = append(out, cmd)
		}
	}
	return out
}

// setLUTIndex mirrors the source's attrs["lut_index"] sentinel
// (SUPPLEMENTED FEATURES #6): it walks every op that consumes the LUT
// tensor and sets both the typed Activation.LookupTableIndex and the
// generic Attrs["lut_index"] so a collaborator reading the attribute bag
// directly still finds it.
func setLUTIndex(sg *npuir.Subgraph, lutTensor npuir.TensorID, index int64) {
	t := sg.Tensor(lutTensor)
	if t == nil {
		return
	}
	for _, opid := range t.Consumers {
		op := sg.Op(opid)
		if op == nil {
			continue
		}
		if op.Activation != nil {
			op.Activation.LookupTableIndex = int(index)
		}
		op.Attrs["lut_index"] = int(index)
	}
}
