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

package npuir

import "fmt"

// Subgraph is the arena that owns every Tensor, Op and Pass by stable ID.
// Nothing in the graph holds a Go pointer to another graph node; all edges
// are IDs resolved through the Subgraph's maps, so the producer/consumer
// cycles inherent to a dataflow graph never become Go reference cycles.
type Subgraph struct {
	Name string

	tensors map[TensorID]*Tensor
	ops     map[OpID]*Op
	passes  map[PassID]*Pass

	// Outputs is the ordered list of tensors the packer's reverse traversal
	// starts from.
	Outputs []TensorID

	nextTensorID TensorID
	nextOpID     OpID
	nextPassID   PassID

	interner *Interner
}

// NewSubgraph returns an empty arena ready to accept tensors and ops from
// the external graph parser.
func NewSubgraph(name string) *Subgraph {
	return &Subgraph{
		Name:     name,
		tensors:  make(map[TensorID]*Tensor),
		ops:      make(map[OpID]*Op),
		passes:   make(map[PassID]*Pass),
		interner: NewInterner(),
	}
}

// NewTensor allocates and registers a new Tensor with a fresh ID.
func (s *Subgraph) NewTensor(name string) *Tensor {
	id := s.nextTensorID
	s.nextTensorID++
	t := &Tensor{ID: id, Name: name, EquivalenceID: NoToken}
	s.tensors[id] = t
	return t
}

// Tensor resolves a TensorID to its Tensor, or nil if unknown.
func (s *Subgraph) Tensor(id TensorID) *Tensor {
	return s.tensors[id]
}

// NewOp allocates and registers a new Op with a fresh ID.
func (s *Subgraph) NewOp(kind Kind, name string) *Op {
	id := s.nextOpID
	s.nextOpID++
	o := NewOp(id, kind, name)
	s.ops[id] = o
	return o
}

// Op resolves an OpID to its Op, or nil if unknown.
func (s *Subgraph) Op(id OpID) *Op {
	return s.ops[id]
}

// AllOps returns every op currently registered, in ID order, useful for
// deterministic iteration in tests and diagnostics.
func (s *Subgraph) AllOps() []*Op {
	out := make([]*Op, 0, len(s.ops))
	for id := OpID(0); id < s.nextOpID; id++ {
		if o, ok := s.ops[id]; ok {
			out = append(out, o)
		}
	}
	return out
}

// NewPass allocates and registers a new, empty Pass with a fresh ID. Ops
// are added, and stamped with the ScheduledPass back-reference, by
// AssignPass.
func (s *Subgraph) NewPass(placement Placement) *Pass {
	id := s.nextPassID
	s.nextPassID++
	p := &Pass{ID: id, Placement: placement, PrimaryOp: NoOpID, IFM: NoTensorID, IFM2: NoTensorID, OFM: NoTensorID}
	s.passes[id] = p
	return p
}

// Pass resolves a PassID to its Pass, or nil if unknown.
func (s *Subgraph) Pass(id PassID) *Pass {
	return s.passes[id]
}

// AllPasses returns every pass currently registered, in creation order.
func (s *Subgraph) AllPasses() []*Pass {
	out := make([]*Pass, 0, len(s.passes))
	for id := PassID(0); id < s.nextPassID; id++ {
		if p, ok := s.passes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AssignPass records that op now belongs to pass, the side-table update
// Design Note "Mutable global state" calls for instead of a pass
// back-pointer living on Op.
func (s *Subgraph) AssignPass(opID OpID, passID PassID) {
	if o, ok := s.ops[opID]; ok {
		o.ScheduledPass = passID
	}
	if p, ok := s.passes[passID]; ok {
		p.Ops = append(p.Ops, opID)
	}
}

// Intern returns the opaque equivalence token for key, allocating a fresh
// one on first use and returning the same token for repeat callers —
// internal/npuir's content-addressed replacement for the source's
// lru_cache-backed create_equivalence_id.
func (s *Subgraph) Intern(key string) EquivalenceToken {
	return s.interner.Intern(key)
}

// Validate runs the small set of arena-level sanity checks that failing
// means a bug in graph construction, not bad input — consumers-list length
// must equal the number of operators that actually list the tensor as an
// input (spec.md §3 Invariants).
func (s *Subgraph) Validate() error {
	counts := make(map[TensorID]int)
	for _, o := range s.ops {
		for _, in := range o.Inputs {
			counts[in]++
		}
	}
	for id, t := range s.tensors {
		if got, want := len(t.Consumers), counts[id]; got != want {
			return fmt.Errorf("npuir: tensor %d (%s) has %d consumers recorded but %d ops reference it as input", id, t.Name, got, want)
		}
	}
	return nil
}

// LinkProducersConsumers walks every Op's input/output list and fills in
// each referenced Tensor's Producers/Consumers, the arena-native analogue
// of the teacher's linkProducersConsumers def/use walk — here the "def"
// and "use" sites are just an Op's Outputs/Inputs slices, since tensors
// already carry stable identity instead of being named AST values.
func (s *Subgraph) LinkProducersConsumers() {
	for _, t := range s.tensors {
		t.Producers = t.Producers[:0]
		t.Consumers = t.Consumers[:0]
	}
	for id := OpID(0); id < s.nextOpID; id++ {
		o, ok := s.ops[id]
		if !ok {
			continue
		}
		for _, out := range o.Outputs {
			if t := s.tensors[out]; t != nil {
				t.Producers = append(t.Producers, o.ID)
			}
		}
		for _, in := range o.Inputs {
			if t := s.tensors[in]; t != nil {
				t.Consumers = append(t.Consumers, o.ID)
			}
		}
	}
}
