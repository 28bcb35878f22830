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

// Package packer fuses chains of legal operators into scheduling units
// ("passes"), each placed on exactly one of {NPU, CPU, memory-only,
// startup-init}.
package packer

// Flags is the per-op, then per-pass, bitmask the classification table
// accumulates — the Go equivalent of the source's enum.Flag PassFlags.
type Flags uint

const FlagEmpty Flags = 0

const (
	FlagPre Flags = 1 << iota
	FlagMain
	FlagPost
	FlagMac
	FlagDma
	FlagElementWise
	FlagNpu
	FlagCpu
	FlagStartupInit
	FlagMemoryOnly
	FlagPostFusingLimited
)

var flagNames = []struct {
	bit  Flags
	name string
}{
	{FlagPre, "Pre"}, {FlagMain, "Main"}, {FlagPost, "Post"}, {FlagMac, "Mac"},
	{FlagDma, "Dma"}, {FlagElementWise, "ElementWise"}, {FlagNpu, "Npu"},
	{FlagCpu, "Cpu"}, {FlagStartupInit, "StartupInit"}, {FlagMemoryOnly, "MemoryOnly"},
	{FlagPostFusingLimited, "PostFusingLimited"},
}

func (f Flags) String() string {
	if f == FlagEmpty {
		return "Empty"
	}
	s := ""
	for _, n := range flagNames {
		if f&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Intersects reports whether f and other share any bit.
func (f Flags) Intersects(other Flags) bool {
	return f&other != 0
}

// placementFlags is the set of mutually exclusive placement markers;
// exactly one must be set per pass (spec.md §4.3 "Placement").
const placementFlags = FlagNpu | FlagCpu | FlagMemoryOnly | FlagStartupInit

// Placement returns the single placement flag set in f, panicking if zero
// or more than one is set — the mutual-exclusion assertion spec.md §4.3
// calls for.
func (f Flags) Placement() Flags {
	p := f & placementFlags
	switch p {
	case FlagNpu, FlagCpu, FlagMemoryOnly, FlagStartupInit:
		return p
	default:
		panic("packer: pass has placement flags " + p.String() + ", want exactly one of Npu/Cpu/MemoryOnly/StartupInit")
	}
}
