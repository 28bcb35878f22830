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

// Package legality decides, for every operator in a graph, whether it can
// run on the NPU, and reports a human-readable reason when it cannot.
package legality

import "github.com/ajroetker/npucc/internal/npuir"

// Constraint is a pure predicate over an Op: it returns whether the op
// passes, and — when it doesn't — a diagnostic naming the offending
// tensor/attribute. Doc is the rule's one-line description, attached to
// the constraint itself (not duplicated at each call site) so the full
// catalogue is enumerable, mirroring each constraint_* method's docstring
// in the source this is grounded on.
type Constraint struct {
	Name  string
	Doc   string
	Check func(op *npuir.Op, g *Graph) (bool, string)
}

// Graph is the read-only view of the subgraph the legality checker needs:
// tensor lookup by ID. The checker never mutates the subgraph (spec.md §3
// Lifecycles: "The legality checker is read-only").
type Graph struct {
	sg *npuir.Subgraph
}

// NewGraph wraps sg for legality checking.
func NewGraph(sg *npuir.Subgraph) *Graph {
	return &Graph{sg: sg}
}

func (g *Graph) tensor(id npuir.TensorID) *npuir.Tensor {
	return g.sg.Tensor(id)
}

// ifm returns op's first input tensor, or nil if it has none.
func (g *Graph) ifm(op *npuir.Op) *npuir.Tensor {
	if len(op.Inputs) == 0 {
		return nil
	}
	return g.tensor(op.Inputs[0])
}

// ifm2 returns op's second input tensor, or nil if it has fewer than two.
func (g *Graph) ifm2(op *npuir.Op) *npuir.Tensor {
	if len(op.Inputs) < 2 {
		return nil
	}
	return g.tensor(op.Inputs[1])
}

// ofm returns op's first output tensor, or nil if it has none.
func (g *Graph) ofm(op *npuir.Op) *npuir.Tensor {
	if len(op.Outputs) == 0 {
		return nil
	}
	return g.tensor(op.Outputs[0])
}

// allTensors returns every input and output tensor of op, skipping unset
// IDs, for constraints that apply uniformly across an op's operands.
func (g *Graph) allTensors(op *npuir.Op) []*npuir.Tensor {
	out := make([]*npuir.Tensor, 0, len(op.Inputs)+len(op.Outputs))
	for _, id := range op.Inputs {
		if t := g.tensor(id); t != nil {
			out = append(out, t)
		}
	}
	for _, id := range op.Outputs {
		if t := g.tensor(id); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// ifmIfm2WeightsOfm returns op's IFM, IFM2-or-weights (the second input
// slot is one or the other depending on op kind) and OFM tensors, skipping
// any that aren't set. It deliberately excludes the bias tensor (the
// conv family's third input), matching get_ifm_ifm2_weights_ofm() in the
// source this is grounded on: constraints restricted to this set don't
// spuriously reject a legitimate INT32 bias.
func (g *Graph) ifmIfm2WeightsOfm(op *npuir.Op) []*npuir.Tensor {
	out := make([]*npuir.Tensor, 0, 3)
	if t := g.ifm(op); t != nil {
		out = append(out, t)
	}
	if t := g.ifm2(op); t != nil {
		out = append(out, t)
	}
	if t := g.ofm(op); t != nil {
		out = append(out, t)
	}
	return out
}
