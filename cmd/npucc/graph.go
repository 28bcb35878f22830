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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ajroetker/npucc/internal/npuir"
)

// graphDocument is the JSON shape npucc reads a subgraph from. The real
// flat-buffer parser is out of scope (spec.md §1); this stands in as the
// "external parser" collaborator for a CLI that needs something concrete
// to load, and gives internal/legality, internal/packer and internal/lut
// a real caller instead of only unit-test fixtures.
type graphDocument struct {
	Name    string         `json:"name"`
	Tensors []tensorRecord `json:"tensors"`
	Ops     []opRecord     `json:"ops"`
	Outputs []string       `json:"outputs"`
}

type quantizationRecord struct {
	Scale            float64 `json:"scale"`
	ZeroPoint        int64   `json:"zero_point"`
	ZeroPointPerAxis []int64 `json:"zero_point_per_axis,omitempty"`
	QuantMin         int64   `json:"quant_min"`
	QuantMax         int64   `json:"quant_max"`
}

type tensorRecord struct {
	Name         string              `json:"name"`
	Shape        []int               `json:"shape"`
	DType        string              `json:"dtype"`
	Purpose      string              `json:"purpose,omitempty"`
	Quantization *quantizationRecord `json:"quantization,omitempty"`
	ConstValues  []int64             `json:"const_values,omitempty"`
}

type opRecord struct {
	Kind       string             `json:"kind"`
	Name       string             `json:"name"`
	Inputs     []string           `json:"inputs"`
	Outputs    []string           `json:"outputs"`
	RunOnNPU   *bool              `json:"run_on_npu,omitempty"`
	AttrsInt   map[string]int     `json:"attrs_int,omitempty"`
	AttrsFloat map[string]float64 `json:"attrs_float,omitempty"`
	AttrsStr   map[string]string  `json:"attrs_string,omitempty"`
	AttrsBool  map[string]bool    `json:"attrs_bool,omitempty"`
	AttrsInts  map[string][]int   `json:"attrs_int_slice,omitempty"`
}

var dtypeByName = map[string]npuir.DataType{
	"UINT8":  npuir.DataTypeUint8,
	"INT8":   npuir.DataTypeInt8,
	"UINT16": npuir.DataTypeUint16,
	"INT16":  npuir.DataTypeInt16,
	"INT32":  npuir.DataTypeInt32,
}

var purposeByName = map[string]npuir.TensorPurpose{
	"FeatureMap": npuir.PurposeFeatureMap,
	"Weights":    npuir.PurposeWeights,
	"Scratch":    npuir.PurposeScratch,
	"LUT":        npuir.PurposeLUT,
}

var kindByName = map[string]npuir.Kind{
	"Conv2D":                  npuir.KindConv2D,
	"DepthwiseConv2DBias":     npuir.KindDepthwiseConv2DBias,
	"TransposeConv":           npuir.KindTransposeConv,
	"FullyConnected":          npuir.KindFullyConnected,
	"MaxPool":                 npuir.KindMaxPool,
	"AvgPool":                 npuir.KindAvgPool,
	"ReduceSum":               npuir.KindReduceSum,
	"ResizeBilinear":          npuir.KindResizeBilinear,
	"Add":                     npuir.KindAdd,
	"Sub":                     npuir.KindSub,
	"Mul":                     npuir.KindMul,
	"Minimum":                 npuir.KindMinimum,
	"Maximum":                 npuir.KindMaximum,
	"Abs":                     npuir.KindAbs,
	"LeakyRelu":               npuir.KindLeakyRelu,
	"Relu":                    npuir.KindRelu,
	"Relu6":                   npuir.KindRelu6,
	"Shl":                     npuir.KindShl,
	"Shr":                     npuir.KindShr,
	"CLZ":                     npuir.KindCLZ,
	"Sigmoid":                 npuir.KindSigmoid,
	"Tanh":                    npuir.KindTanh,
	"Softmax":                 npuir.KindSoftmax,
	"Concat":                  npuir.KindConcat,
	"Split":                   npuir.KindSplit,
	"SplitV":                  npuir.KindSplitV,
	"StridedSlice":            npuir.KindStridedSlice,
	"Reshape":                 npuir.KindReshape,
	"DMA":                     npuir.KindDMA,
	"QuantizedResizeBilinear": npuir.KindQuantizedResizeBilinear,
	"SplitSliceRead":          npuir.KindSplitSliceRead,
	"ConcatSliceWrite":        npuir.KindConcatSliceWrite,
	"Const":                   npuir.KindConst,
	"Placeholder":             npuir.KindPlaceholder,
	"SubgraphInput":           npuir.KindSubgraphInput,
}

// loadGraph reads a graphDocument from path and builds a fully linked
// Subgraph from it.
func loadGraph(path string) (*npuir.Subgraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	var doc graphDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}

	sg := npuir.NewSubgraph(doc.Name)
	byName := make(map[string]npuir.TensorID, len(doc.Tensors))

	for _, tr := range doc.Tensors {
		t := sg.NewTensor(tr.Name)
		t.Shape = tr.Shape
		t.ConstValues = tr.ConstValues
		if dt, ok := dtypeByName[tr.DType]; ok {
			t.DType = dt
		}
		if p, ok := purposeByName[tr.Purpose]; ok {
			t.Purpose = p
		}
		if tr.Quantization != nil {
			t.Quantization = &npuir.Quantization{
				Scale:            tr.Quantization.Scale,
				ZeroPoint:        tr.Quantization.ZeroPoint,
				ZeroPointPerAxis: tr.Quantization.ZeroPointPerAxis,
				QuantMin:         tr.Quantization.QuantMin,
				QuantMax:         tr.Quantization.QuantMax,
			}
		}
		byName[tr.Name] = t.ID
	}

	resolve := func(names []string) ([]npuir.TensorID, error) {
		ids := make([]npuir.TensorID, 0, len(names))
		for _, n := range names {
			id, ok := byName[n]
			if !ok {
				return nil, fmt.Errorf("graph: op references unknown tensor %q", n)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	for _, or := range doc.Ops {
		kind, ok := kindByName[or.Kind]
		if !ok {
			return nil, fmt.Errorf("graph: unknown op kind %q", or.Kind)
		}
		op := sg.NewOp(kind, or.Name)
		ins, err := resolve(or.Inputs)
		if err != nil {
			return nil, err
		}
		outs, err := resolve(or.Outputs)
		if err != nil {
			return nil, err
		}
		op.Inputs = ins
		op.Outputs = outs
		if or.RunOnNPU != nil {
			op.RunOnNPU = *or.RunOnNPU
		}
		for k, v := range or.AttrsInt {
			op.Attrs[k] = v
		}
		for k, v := range or.AttrsFloat {
			op.Attrs[k] = v
		}
		for k, v := range or.AttrsStr {
			op.Attrs[k] = v
		}
		for k, v := range or.AttrsBool {
			op.Attrs[k] = v
		}
		for k, v := range or.AttrsInts {
			op.Attrs[k] = v
		}
	}

	outs, err := resolve(doc.Outputs)
	if err != nil {
		return nil, err
	}
	sg.Outputs = outs

	sg.LinkProducersConsumers()
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	return sg, nil
}
