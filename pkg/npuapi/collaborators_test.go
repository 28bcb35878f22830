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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCollaborators is a recording test double for the three external
// seams, letting dispatch plumbing (EncodeWeights, GenerateRegisterCommandStream,
// CreateDriverPayload) be exercised without a real Ethos-U toolchain.
type fakeCollaborators struct {
	encodeCalls int
	genCalls    int
	pkgCalls    int
}

func (f *fakeCollaborators) Encode(accel NpuAccelerator, weightsOHWI []int8, dilationX, dilationY int,
	ifmBitdepth int, ofmBlockDepth int, isDepthwise bool, traversal NpuBlockTraversal) ([]byte, error) {
	f.encodeCalls++
	return []byte{0xAA, 0xBB}, nil
}

func (f *fakeCollaborators) Generate(ops []any, accel NpuAccelerator) ([]uint32, error) {
	f.genCalls++
	return []uint32{1, 2, 3}, nil
}

func (f *fakeCollaborators) Package(commandStream []uint32, accel NpuAccelerator) ([]byte, error) {
	f.pkgCalls++
	return []byte{0x01, 0x02}, nil
}

func TestStubCollaboratorsReturnErrNotImplemented(t *testing.T) {
	_, err := NewStubWeightEncoder().Encode(AcceleratorU55_128, nil, 1, 1, 8, 1, false, BlockTraversalDepthFirst)
	require.ErrorIs(t, err, ErrNotImplemented)

	_, err = NewStubStreamGenerator().Generate(nil, AcceleratorU55_128)
	require.ErrorIs(t, err, ErrNotImplemented)

	_, err = NewStubDriverPackager().Package(nil, AcceleratorU55_128)
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestDispatchPlumbingCallsTheCollaborator(t *testing.T) {
	fake := &fakeCollaborators{}

	bytes, err := EncodeWeights(fake, AcceleratorU55_256, []int8{1, 2, 3, 4}, 1, 1, 8, 16, false, BlockTraversalDepthFirst)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB}, bytes)
	require.Equal(t, 1, fake.encodeCalls)

	words, err := GenerateRegisterCommandStream(fake, nil, AcceleratorU55_256)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, words)
	require.Equal(t, 1, fake.genCalls)

	payload, err := CreateDriverPayload(fake, words, AcceleratorU55_256)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, payload)
	require.Equal(t, 1, fake.pkgCalls)
}
