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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/npucc/internal/lut"
	"github.com/ajroetker/npucc/pkg/npuapi"
)

func TestDefaultConfigLoadsWithNoOverrides(t *testing.T) {
	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	require.NoError(t, err)
	require.Equal(t, "U55-128", cfg.Accelerator)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestResolveAcceleratorUnknownErrors(t *testing.T) {
	_, err := ResolveAccelerator("U99-nope")
	require.Error(t, err)
}

func TestResolveAcceleratorKnown(t *testing.T) {
	a, err := ResolveAccelerator("U55-256")
	require.NoError(t, err)
	require.Equal(t, npuapi.AcceleratorU55_256, a)
}

func TestResolveGeometryAppliesOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shram.ReservedUnusedBanks = 3
	geo, err := ResolveGeometry(cfg)
	require.NoError(t, err)
	require.Equal(t, 3, geo.ReservedUnusedBanks)
	require.Equal(t, int64(8*lut.SlotSize), geo.ShramLUTSize)
}

func TestResolveGeometryUnknownAccelerator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Accelerator = "bogus"
	_, err := ResolveGeometry(cfg)
	require.Error(t, err)
}
