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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/npuir"
)

const testGraphJSON = `{
  "name": "conv_only",
  "tensors": [
    {"name": "ifm", "shape": [1,4,4,1], "dtype": "INT8", "purpose": "FeatureMap",
     "quantization": {"scale": 0.5, "zero_point": 0, "quant_min": -128, "quant_max": 127}},
    {"name": "weights", "shape": [1,1,1,1], "dtype": "INT8", "purpose": "Weights", "const_values": [1],
     "quantization": {"scale": 0.5, "zero_point": 0, "quant_min": -128, "quant_max": 127}},
    {"name": "ofm", "shape": [1,4,4,1], "dtype": "INT8", "purpose": "FeatureMap",
     "quantization": {"scale": 0.5, "zero_point": 0, "quant_min": -128, "quant_max": 127}}
  ],
  "ops": [
    {"kind": "Conv2D", "name": "conv0", "inputs": ["ifm", "weights"], "outputs": ["ofm"],
     "attrs_int": {"stride_h": 1, "stride_w": 1, "dilation_h": 1, "dilation_w": 1}}
  ],
  "outputs": ["ofm"]
}`

func writeTestGraph(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(testGraphJSON), 0o644))
	return path
}

func TestLoadGraphBuildsLinkedSubgraph(t *testing.T) {
	path := writeTestGraph(t)
	sg, err := loadGraph(path)
	require.NoError(t, err)
	require.Len(t, sg.AllOps(), 1)
	require.Equal(t, npuir.KindConv2D, sg.AllOps()[0].Kind)
	require.NoError(t, sg.Validate())
}

func TestLoadGraphRejectsUnknownTensorReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"bad","tensors":[],"ops":[{"kind":"Relu","name":"r0","inputs":["missing"],"outputs":[]}],"outputs":[]}`), 0o644))
	_, err := loadGraph(path)
	require.Error(t, err)
}
