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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/lut"
	"github.com/ajroetker/npucc/internal/npuir"
)

func TestPackGraphProducesOneNpuPass(t *testing.T) {
	sg, err := loadGraph(writeTestGraph(t))
	require.NoError(t, err)

	checkGraph(sg)
	passes := packGraph(sg)
	require.Len(t, passes, 1)
	require.Equal(t, npuir.PlacementNpu, passes[0].Placement)

	cmds := buildCommandStream(sg, passes)
	require.Len(t, cmds, 1)
	_, ok := cmds[0].(lut.StripeCommand)
	require.True(t, ok)
}

func TestEmitStubPropagatesNotImplemented(t *testing.T) {
	sg, err := loadGraph(writeTestGraph(t))
	require.NoError(t, err)
	checkGraph(sg)
	passes := packGraph(sg)
	cmds := buildCommandStream(sg, passes)
	_, err = emitStub(cmds)
	require.Error(t, err)
}
