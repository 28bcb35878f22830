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

// Package lut allocates SHRAM slots to activation lookup tables and elides
// DMA copies whose table already resides on-chip.
package lut

import "github.com/ajroetker/npucc/internal/npuir"

// SlotSize is the fixed SHRAM LUT slot granularity in bytes.
const SlotSize = 256

// MaxSlots is the number of 256-byte slots the LUT region holds.
const MaxSlots = 8

// Resident is one LUT tensor currently occupying SHRAM, tracked by its
// address and half-open byte interval.
type Resident struct {
	Tensor        npuir.TensorID
	EquivalenceID npuir.EquivalenceToken
	Address       int64
	Size          int64
}

func (r Resident) overlaps(addr, size int64) bool {
	return r.Address < addr+size && addr < r.Address+r.Size
}

// State is a per-subgraph, immutable snapshot of which LUTs are resident
// in SHRAM. Every operation returns a new State rather than mutating in
// place, mirroring LUTState in lut.py.
type State struct {
	resident []Resident
}

// NewState returns the empty state (no LUTs resident).
func NewState() *State {
	return &State{}
}

// Put returns a new state containing l plus every previously-resident LUT
// whose interval does not overlap l's; the overlapping ones are evicted.
func (s *State) Put(l Resident) *State {
	next := &State{resident: make([]Resident, 0, len(s.resident)+1)}
	for _, r := range s.resident {
		if !r.overlaps(l.Address, l.Size) {
			next.resident = append(next.resident, r)
		}
	}
	next.resident = append(next.resident, l)
	return next
}

// FindBestAddress returns the address in [start, stop) with the given
// step that overlaps the fewest currently resident LUTs, ties broken
// toward the lower address.
func (s *State) FindBestAddress(start, stop, step int64) int64 {
	best := start
	bestOverlaps := -1
	for addr := start; addr < stop; addr += step {
		overlaps := 0
		for _, r := range s.resident {
			if r.overlaps(addr, step) {
				overlaps++
			}
		}
		if bestOverlaps == -1 || overlaps < bestOverlaps {
			bestOverlaps = overlaps
			best = addr
		}
	}
	return best
}

// GetEquivalent returns a resident LUT whose EquivalenceID equals id, and
// whether one was found.
func (s *State) GetEquivalent(id npuir.EquivalenceToken) (Resident, bool) {
	for _, r := range s.resident {
		if r.EquivalenceID == id {
			return r, true
		}
	}
	return Resident{}, false
}

// Empty returns the zero state, used when an NPU-stripe command clobbers
// every SHRAM bank.
func Empty() *State {
	return NewState()
}
