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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/npuir"
)

func newFeatureMap(sg *npuir.Subgraph, name string, shape []int, dt npuir.DataType) *npuir.Tensor {
	t := sg.NewTensor(name)
	t.Shape = shape
	t.DType = dt
	t.Purpose = npuir.PurposeFeatureMap
	t.Quantization = &npuir.Quantization{Scale: 1.0}
	return t
}

func newWeights(sg *npuir.Subgraph, name string, shape []int, values []int64) *npuir.Tensor {
	t := sg.NewTensor(name)
	t.Shape = shape
	t.DType = npuir.DataTypeUint8
	t.Purpose = npuir.PurposeWeights
	t.Quantization = &npuir.Quantization{Scale: 1.0}
	t.ConstValues = values
	return t
}

// TestSmallConv2DAccepted covers spec.md §8 scenario 1: a valid small
// Conv2D is accepted by the checker.
func TestSmallConv2DAccepted(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	ifm := newFeatureMap(sg, "ifm", []int{1, 1, 1, 1}, npuir.DataTypeUint8)
	w := newWeights(sg, "w", []int{1, 1, 1, 1}, []int64{1})
	ofm := newFeatureMap(sg, "ofm", []int{1, 1, 1, 1}, npuir.DataTypeUint8)

	op := sg.NewOp(npuir.KindConv2D, "conv0")
	op.Inputs = []npuir.TensorID{ifm.ID, w.ID}
	op.Outputs = []npuir.TensorID{ofm.ID}
	op.Attrs["stride_w"] = 1
	op.Attrs["stride_h"] = 1

	g := NewGraph(sg)
	checker := NewChecker(slog.Default())
	res := checker.Check(op, g)
	require.True(t, res.Supported, "diagnostic: %s / %s", res.Rule, res.Diagnostic)
}

// TestSmallConv2DWithBiasAccepted covers the common case of a Conv2D op
// carrying a real INT32 bias tensor: the generic tens_dtype/tens_int32_ops
// checks must not reject it just because int32AllowedOps doesn't list
// Conv2D — the bias tensor is excluded from those checks entirely.
func TestSmallConv2DWithBiasAccepted(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	ifm := newFeatureMap(sg, "ifm", []int{1, 1, 1, 1}, npuir.DataTypeUint8)
	w := newWeights(sg, "w", []int{1, 1, 1, 1}, []int64{1})
	bias := sg.NewTensor("bias")
	bias.Shape = []int{1}
	bias.DType = npuir.DataTypeInt32
	bias.ConstValues = []int64{42}
	ofm := newFeatureMap(sg, "ofm", []int{1, 1, 1, 1}, npuir.DataTypeUint8)

	op := sg.NewOp(npuir.KindConv2D, "conv0")
	op.Inputs = []npuir.TensorID{ifm.ID, w.ID, bias.ID}
	op.Outputs = []npuir.TensorID{ofm.ID}
	op.Attrs["stride_w"] = 1
	op.Attrs["stride_h"] = 1

	g := NewGraph(sg)
	checker := NewChecker(slog.Default())
	res := checker.Check(op, g)
	require.True(t, res.Supported, "diagnostic: %s / %s", res.Rule, res.Diagnostic)
}

// TestConv2DBatch2Rejected covers spec.md §8 scenario 2.
func TestConv2DBatch2Rejected(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	ifm := newFeatureMap(sg, "ifm", []int{2, 8, 8, 8}, npuir.DataTypeUint8)
	w := newWeights(sg, "w", []int{1, 1, 1, 8}, []int64{1})
	ofm := newFeatureMap(sg, "ofm", []int{2, 8, 8, 8}, npuir.DataTypeUint8)

	op := sg.NewOp(npuir.KindConv2D, "conv0")
	op.Inputs = []npuir.TensorID{ifm.ID, w.ID}
	op.Outputs = []npuir.TensorID{ofm.ID}
	op.Attrs["stride_w"] = 1
	op.Attrs["stride_h"] = 1

	g := NewGraph(sg)
	checker := NewChecker(slog.Default())
	res := checker.Check(op, g)
	require.False(t, res.Supported)
	require.Equal(t, "batch_size", res.Rule)
}

// TestAvgPoolFilterRange covers spec.md §8 scenario 3.
func TestAvgPoolFilterRange(t *testing.T) {
	sg := npuir.NewSubgraph("sg")
	checker := NewChecker(slog.Default())

	for _, tt := range []struct {
		name    string
		padding string
		want    bool
	}{
		{"same", "SAME", false},
		{"valid", "VALID", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ifm := newFeatureMap(sg, "ifm-"+tt.name, []int{1, 32, 32, 8}, npuir.DataTypeUint8)
			ofm := newFeatureMap(sg, "ofm-"+tt.name, []int{1, 16, 16, 8}, npuir.DataTypeUint8)
			op := sg.NewOp(npuir.KindAvgPool, "pool-"+tt.name)
			op.Inputs = []npuir.TensorID{ifm.ID}
			op.Outputs = []npuir.TensorID{ofm.ID}
			op.Attrs["filter_width"] = 20
			op.Attrs["filter_height"] = 20
			op.Attrs["padding"] = tt.padding
			op.Attrs["stride_w"] = 1
			op.Attrs["stride_h"] = 1

			g := NewGraph(sg)
			res := checker.Check(op, g)
			require.Equal(t, tt.want, res.Supported, "rule=%s detail=%s", res.Rule, res.Diagnostic)
		})
	}
}

// TestBinaryAddBroadcast covers spec.md §8 scenario 4.
func TestBinaryAddBroadcast(t *testing.T) {
	checker := NewChecker(slog.Default())

	t.Run("accepted", func(t *testing.T) {
		sg := npuir.NewSubgraph("sg")
		ifm := newFeatureMap(sg, "ifm", []int{1, 4}, npuir.DataTypeUint8)
		ifm2 := newFeatureMap(sg, "ifm2", []int{4, 4}, npuir.DataTypeUint8)
		ofm := newFeatureMap(sg, "ofm", []int{4, 4}, npuir.DataTypeUint8)
		op := sg.NewOp(npuir.KindAdd, "add0")
		op.Inputs = []npuir.TensorID{ifm.ID, ifm2.ID}
		op.Outputs = []npuir.TensorID{ofm.ID}

		g := NewGraph(sg)
		res := checker.Check(op, g)
		require.True(t, res.Supported, "rule=%s detail=%s", res.Rule, res.Diagnostic)
	})

	t.Run("rejected", func(t *testing.T) {
		sg := npuir.NewSubgraph("sg")
		ifm := newFeatureMap(sg, "ifm", []int{1, 1, 4, 1}, npuir.DataTypeUint8)
		ifm2 := newFeatureMap(sg, "ifm2", []int{1, 4, 1, 16}, npuir.DataTypeUint8)
		ofm := newFeatureMap(sg, "ofm", []int{1, 4, 4, 16}, npuir.DataTypeUint8)
		op := sg.NewOp(npuir.KindAdd, "add1")
		op.Inputs = []npuir.TensorID{ifm.ID, ifm2.ID}
		op.Outputs = []npuir.TensorID{ofm.ID}

		g := NewGraph(sg)
		res := checker.Check(op, g)
		require.False(t, res.Supported)
		require.Equal(t, "matching_either_shapes", res.Rule)
	})
}

// TestStridedSlice covers spec.md §8 scenario 6.
func TestStridedSlice(t *testing.T) {
	checker := NewChecker(slog.Default())

	build := func(sg *npuir.Subgraph, strides []int64) *npuir.Op {
		ifm := newFeatureMap(sg, "ifm", []int{1, 2, 4, 1}, npuir.DataTypeUint8)
		begin := sg.NewTensor("begin")
		begin.Shape = []int{4}
		begin.ConstValues = []int64{0, 0, 0, 0}
		end := sg.NewTensor("end")
		end.Shape = []int{4}
		end.ConstValues = []int64{1, 2, 4, 1}
		strideT := sg.NewTensor("strides")
		strideT.Shape = []int{4}
		strideT.ConstValues = strides
		ofm := newFeatureMap(sg, "ofm", []int{1, 2, 4, 1}, npuir.DataTypeUint8)

		op := sg.NewOp(npuir.KindStridedSlice, "slice0")
		op.Inputs = []npuir.TensorID{ifm.ID, begin.ID, end.ID, strideT.ID}
		op.Outputs = []npuir.TensorID{ofm.ID}
		return op
	}

	t.Run("rejected", func(t *testing.T) {
		sg := npuir.NewSubgraph("sg")
		op := build(sg, []int64{1, 1, 2, 1})
		g := NewGraph(sg)
		res := checker.Check(op, g)
		require.False(t, res.Supported)
		require.Equal(t, "stridedslice_stride_values", res.Rule)
	})

	t.Run("accepted", func(t *testing.T) {
		sg := npuir.NewSubgraph("sg")
		op := build(sg, []int64{1, 1, 1, 1})
		g := NewGraph(sg)
		res := checker.Check(op, g)
		require.True(t, res.Supported, "rule=%s detail=%s", res.Rule, res.Diagnostic)
	})
}

func TestRulesEnumerable(t *testing.T) {
	checker := NewChecker(slog.Default())
	rules := checker.Rules()
	require.NotEmpty(t, rules)
	for _, r := range rules {
		require.NotEmpty(t, r.Doc, "rule %s has no diagnostic doc", r.Name)
	}
}
