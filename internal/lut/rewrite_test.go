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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/npuir"
)

func newGeometry() Geometry {
	return Geometry{ShramLUTAddress: 0, ShramLUTSize: MaxSlots * SlotSize, ReservedUnusedBanks: 1}
}

// TestRewriteElidesRedundantDMA covers spec.md §8 scenario 5:
// DMA(LUT_A) -> NpuStripe(uses LUT_A) -> DMA(LUT_A) -> NpuStripe(uses LUT_A)
// rewrites to a single DMA, and both stripes' primary ops end up pointing at
// the same lookup_table_index.
func TestRewriteElidesRedundantDMA(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	lutA := sg.NewTensor("lut_a")
	lutA.Purpose = npuir.PurposeLUT
	op1 := sg.NewOp(npuir.KindTanh, "tanh0")
	op1.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	op2 := sg.NewOp(npuir.KindTanh, "tanh1")
	op2.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	lutA.Consumers = []npuir.OpID{op1.ID, op2.ID}

	const tokenA npuir.EquivalenceToken = 7

	cmds := []Command{
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: tokenA, Size: SlotSize},
		StripeCommand{PrimaryOp: op1.ID, UsesLUT: true},
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: tokenA, Size: SlotSize},
		StripeCommand{PrimaryOp: op2.ID, UsesLUT: true},
	}

	out := Rewrite(sg, cmds, newGeometry())

	dmaCount := 0
	for _, c := range out {
		if _, ok := c.(DMACommand); ok {
			dmaCount++
		}
	}
	require.Equal(t, 1, dmaCount, "redundant DMA of an already-resident equivalent LUT must be elided")
	require.Len(t, out, 3)

	want := []Command{
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: tokenA, Size: SlotSize},
		StripeCommand{PrimaryOp: op1.ID, UsesLUT: true},
		StripeCommand{PrimaryOp: op2.ID, UsesLUT: true},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("rewritten command stream mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, op1.Activation.LookupTableIndex, op2.Activation.LookupTableIndex)
	require.GreaterOrEqual(t, op1.Activation.LookupTableIndex, 0)
	require.Less(t, op1.Activation.LookupTableIndex, MaxSlots)
}

// TestRewriteDistinctTablesGetDistinctSlots ensures two LUTs with different
// equivalence ids both survive the rewrite and never share a slot.
func TestRewriteDistinctTablesGetDistinctSlots(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	lutA := sg.NewTensor("lut_a")
	lutA.Purpose = npuir.PurposeLUT
	lutB := sg.NewTensor("lut_b")
	lutB.Purpose = npuir.PurposeLUT
	opA := sg.NewOp(npuir.KindTanh, "tanh0")
	opA.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	opB := sg.NewOp(npuir.KindSigmoid, "sigmoid0")
	opB.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	lutA.Consumers = []npuir.OpID{opA.ID}
	lutB.Consumers = []npuir.OpID{opB.ID}

	cmds := []Command{
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: 1, Size: SlotSize},
		DMACommand{OutputTensor: lutB.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: 2, Size: SlotSize},
		StripeCommand{PrimaryOp: opA.ID, UsesLUT: true},
		StripeCommand{PrimaryOp: opB.ID, UsesLUT: true},
	}

	out := Rewrite(sg, cmds, newGeometry())

	dmaCount := 0
	for _, c := range out {
		if _, ok := c.(DMACommand); ok {
			dmaCount++
		}
	}
	require.Equal(t, 2, dmaCount)
	require.NotEqual(t, opA.Activation.LookupTableIndex, opB.Activation.LookupTableIndex)
	require.Equal(t, lutA.Address, sg.Tensor(lutA.ID).Address)
	require.False(t, Resident{Address: lutA.Address, Size: SlotSize}.overlaps(lutB.Address, SlotSize))
}

// TestRewriteStripeWithoutLUTResetsStateWhenNoReservedBanks covers the
// "NPU-stripe that doesn't consume a LUT clobbers SHRAM" rule: with zero
// reserved unused banks, a table resident before such a stripe must be
// re-DMA'd afterward rather than elided.
func TestRewriteStripeWithoutLUTResetsStateWhenNoReservedBanks(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	lutA := sg.NewTensor("lut_a")
	lutA.Purpose = npuir.PurposeLUT
	op1 := sg.NewOp(npuir.KindTanh, "tanh0")
	op1.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	op2 := sg.NewOp(npuir.KindTanh, "tanh1")
	op2.Activation = &npuir.Activation{Kind: npuir.ActivationTableLookup, LookupTableIndex: -1}
	plainOp := sg.NewOp(npuir.KindConv2D, "conv0")
	lutA.Consumers = []npuir.OpID{op1.ID, op2.ID}

	geo := Geometry{ShramLUTAddress: 0, ShramLUTSize: MaxSlots * SlotSize, ReservedUnusedBanks: 0}

	cmds := []Command{
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: 7, Size: SlotSize},
		StripeCommand{PrimaryOp: op1.ID, UsesLUT: true},
		StripeCommand{PrimaryOp: plainOp.ID, UsesLUT: false},
		DMACommand{OutputTensor: lutA.ID, OutputPurpose: npuir.PurposeLUT, EquivalenceID: 7, Size: SlotSize},
		StripeCommand{PrimaryOp: op2.ID, UsesLUT: true},
	}

	out := Rewrite(sg, cmds, geo)

	dmaCount := 0
	for _, c := range out {
		if _, ok := c.(DMACommand); ok {
			dmaCount++
		}
	}
	require.Equal(t, 2, dmaCount, "the intervening bare NPU stripe clobbers SHRAM, so the second DMA must survive")
}
