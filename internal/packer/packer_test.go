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
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/npuir"
)

// TestSingleConv2DPass covers spec.md §8 scenario 1: a lone Conv2D packs
// into one NPU pass with the Mac flag, with itself as the primary op.
func TestSingleConv2DPass(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	ifm := sg.NewTensor("ifm")
	ifm.Shape = []int{1, 1, 1, 1}
	w := sg.NewTensor("w")
	w.Shape = []int{1, 1, 1, 1}
	w.ConstValues = []int64{1}
	ofm := sg.NewTensor("ofm")
	ofm.Shape = []int{1, 1, 1, 1}

	conv := sg.NewOp(npuir.KindConv2D, "conv0")
	conv.Inputs = []npuir.TensorID{ifm.ID, w.ID}
	conv.Outputs = []npuir.TensorID{ofm.ID}
	conv.RunOnNPU = true

	sg.LinkProducersConsumers()
	sg.Outputs = []npuir.TensorID{ofm.ID}

	pk := NewPacker(sg, nil)
	passes := pk.Pack()

	require.Len(t, passes, 1)
	p := passes[0]
	require.Equal(t, npuir.PlacementNpu, p.Placement)
	require.Contains(t, p.Ops, conv.ID)
	require.Equal(t, conv.ID, p.PrimaryOp)
}

func TestWildcardFallbackReportsUnknownOp(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	ifm := sg.NewTensor("ifm")
	ofm := sg.NewTensor("ofm")
	op := sg.NewOp(npuir.Kind(9999), "mystery0")
	op.Inputs = []npuir.TensorID{ifm.ID}
	op.Outputs = []npuir.TensorID{ofm.ID}

	sg.LinkProducersConsumers()
	sg.Outputs = []npuir.TensorID{ofm.ID}

	var logs bytes.Buffer
	pk := NewPacker(sg, slog.New(slog.NewTextHandler(&logs, nil)))
	passes := pk.Pack()

	require.Len(t, passes, 1)
	require.Equal(t, npuir.PlacementCpu, passes[0].Placement)
	require.Contains(t, logs.String(), "unknown or unsupported operation, placing on CPU")
}

func TestFlagsPlacementPanicsOnMultiple(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Placement() did not panic on multiple placement flags")
		}
	}()
	f := FlagNpu | FlagCpu
	_ = f.Placement()
}
