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

// Command is one entry of a subgraph's high-level command stream, the
// minimal slice of it the LUT allocator's rewrite pass needs to see.
type Command interface {
	isCommand()
}

// StripeCommand is an NPU-stripe command — the execution of one pass's
// primary op over one block of the feature map.
type StripeCommand struct {
	PrimaryOp npuir.OpID
	UsesLUT   bool
}

func (StripeCommand) isCommand() {}

// DMACommand moves data into a destination tensor; when OutputPurpose is
// LUT, the rewrite pass may elide it if an equivalent table is already
// resident.
type DMACommand struct {
	OutputTensor  npuir.TensorID
	OutputPurpose npuir.TensorPurpose
	EquivalenceID npuir.EquivalenceToken
	Size          int64
}

func (DMACommand) isCommand() {}
