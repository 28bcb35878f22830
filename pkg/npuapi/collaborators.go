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

package npuapi

import "errors"

// ErrNotImplemented is returned by the stub collaborators this package
// provides: the weight-compression codec, register-command-stream
// generator and driver-payload packager are all
// out of scope (spec.md §1) and a real implementation is expected to be
// supplied by the host toolchain.
var ErrNotImplemented = errors.New("npuapi: not implemented")

// WeightEncoder compresses an OHWI-layout weight tensor into the
// hardware's native weight-stream format. Its bit-exactness is the
// collaborator's responsibility; EncodeWeights only passes arguments
// through unchanged.
type WeightEncoder interface {
	Encode(accel NpuAccelerator, weightsOHWI []int8, dilationX, dilationY int,
		ifmBitdepth int, ofmBlockDepth int, isDepthwise bool, traversal NpuBlockTraversal) ([]byte, error)
}

// RegisterStreamGenerator turns a list of NPU operations into an ordered
// sequence of 32-bit register-write words, inserting wait barriers for
// cross-command dependencies.
type RegisterStreamGenerator interface {
	Generate(ops []any, accel NpuAccelerator) ([]uint32, error)
}

// DriverPackager prepends a driver-recognizable header to a register
// command stream.
type DriverPackager interface {
	Package(commandStream []uint32, accel NpuAccelerator) ([]byte, error)
}

// stubWeightEncoder, stubStreamGenerator and stubDriverPackager are the
// default collaborators (cmd/npucc wires the stream-generator and
// driver-packager stubs); every method returns
// ErrNotImplemented, matching "Weight-encoder and command-stream-generator
// failures propagate unchanged" (spec.md §4.5) — there is nothing for the
// core itself to retry or paper over.
type stubWeightEncoder struct{}

func (stubWeightEncoder) Encode(NpuAccelerator, []int8, int, int, int, int, bool, NpuBlockTraversal) ([]byte, error) {
	return nil, ErrNotImplemented
}

type stubStreamGenerator struct{}

func (stubStreamGenerator) Generate([]any, NpuAccelerator) ([]uint32, error) {
	return nil, ErrNotImplemented
}

type stubDriverPackager struct{}

func (stubDriverPackager) Package([]uint32, NpuAccelerator) ([]byte, error) {
	return nil, ErrNotImplemented
}

// NewStubWeightEncoder returns the default WeightEncoder, used wherever no
// real Ethos-U weight compressor has been wired in.
func NewStubWeightEncoder() WeightEncoder { return stubWeightEncoder{} }

// NewStubStreamGenerator returns the default RegisterStreamGenerator.
func NewStubStreamGenerator() RegisterStreamGenerator { return stubStreamGenerator{} }

// NewStubDriverPackager returns the default DriverPackager.
func NewStubDriverPackager() DriverPackager { return stubDriverPackager{} }
