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

import (
	"sync"
	"testing"
)

func TestSubgraphLinkProducersConsumers(t *testing.T) {
	sg := NewSubgraph("test")
	ifm := sg.NewTensor("ifm")
	ofm := sg.NewTensor("ofm")

	op := sg.NewOp(KindAvgPool, "pool0")
	op.Inputs = []TensorID{ifm.ID}
	op.Outputs = []TensorID{ofm.ID}

	sg.LinkProducersConsumers()

	if got := sg.Tensor(ifm.ID).Consumers; len(got) != 1 || got[0] != op.ID {
		t.Fatalf("ifm.Consumers = %v, want [%d]", got, op.ID)
	}
	if got := sg.Tensor(ofm.ID).Producers; len(got) != 1 || got[0] != op.ID {
		t.Fatalf("ofm.Producers = %v, want [%d]", got, op.ID)
	}
	if err := sg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestSubgraphValidateDetectsMismatch(t *testing.T) {
	sg := NewSubgraph("test")
	ifm := sg.NewTensor("ifm")
	op := sg.NewOp(KindRelu, "relu0")
	op.Inputs = []TensorID{ifm.ID}
	// Deliberately do not call LinkProducersConsumers: Consumers stays
	// empty while one op references ifm.
	if err := sg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want mismatch error")
	}
}

func TestInternerSameKeySameToken(t *testing.T) {
	in := NewInterner()
	a := in.Intern("tanh-256")
	b := in.Intern("tanh-256")
	if a != b {
		t.Fatalf("Intern(same key) = %d, %d, want equal", a, b)
	}
	c := in.Intern("sigmoid-256")
	if c == a {
		t.Fatalf("Intern(different key) = %d, want different from %d", c, a)
	}
}

func TestInternerConcurrentSameKeyCollapses(t *testing.T) {
	in := NewInterner()
	const n = 64
	tokens := make([]EquivalenceToken, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			tokens[i] = in.Intern("shared-key")
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if tokens[i] != tokens[0] {
			t.Fatalf("token[%d] = %d, want %d (all concurrent interns of the same key must collapse)", i, tokens[i], tokens[0])
		}
	}
}
