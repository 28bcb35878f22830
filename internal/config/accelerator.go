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
	"fmt"

	"github.com/ajroetker/npucc/internal/lut"
	"github.com/ajroetker/npucc/pkg/npuapi"
)

// acceleratorGeometry is each accelerator's reference SHRAM LUT geometry,
// used whenever the corresponding ShramConfig field is left at zero.
var acceleratorGeometry = map[string]lut.Geometry{
	"U55-32":  {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 0},
	"U55-64":  {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 0},
	"U55-128": {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 1},
	"U55-256": {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 1},
	"U65-256": {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 1},
	"U65-512": {ShramLUTAddress: 0, ShramLUTSize: 8 * lut.SlotSize, ReservedUnusedBanks: 2},
}

var acceleratorByName = map[string]npuapi.NpuAccelerator{
	"U55-32":  npuapi.AcceleratorU55_32,
	"U55-64":  npuapi.AcceleratorU55_64,
	"U55-128": npuapi.AcceleratorU55_128,
	"U55-256": npuapi.AcceleratorU55_256,
	"U65-256": npuapi.AcceleratorU65_256,
	"U65-512": npuapi.AcceleratorU65_512,
}

// ResolveAccelerator parses the configured accelerator name.
func ResolveAccelerator(name string) (npuapi.NpuAccelerator, error) {
	a, ok := acceleratorByName[name]
	if !ok {
		return npuapi.AcceleratorUnknown, fmt.Errorf("config: unknown accelerator %q", name)
	}
	return a, nil
}

// ResolveGeometry returns the SHRAM LUT geometry for c: the named
// accelerator's reference geometry, with any explicitly non-zero
// ShramConfig field overriding it.
func ResolveGeometry(c Config) (lut.Geometry, error) {
	geo, ok := acceleratorGeometry[c.Accelerator]
	if !ok {
		return lut.Geometry{}, fmt.Errorf("config: unknown accelerator %q", c.Accelerator)
	}
	if c.Shram.LUTAddress != 0 {
		geo.ShramLUTAddress = c.Shram.LUTAddress
	}
	if c.Shram.LUTSize != 0 {
		geo.ShramLUTSize = c.Shram.LUTSize
	}
	if c.Shram.ReservedUnusedBanks != 0 {
		geo.ReservedUnusedBanks = c.Shram.ReservedUnusedBanks
	}
	return geo, nil
}
