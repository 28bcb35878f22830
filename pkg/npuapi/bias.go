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

import "fmt"

// BiasWordSize is the length in bytes of an encoded bias word.
const BiasWordSize = 10

// EncodeBias packs (bias, scale, shift) into the hardware's 10-byte
// little-endian bias word, laid out low-to-high: bias (40 bits, signed),
// scale (32 bits), shift (6 bits), then two zero padding bits (spec.md §6).
// Unlike EncodeWeights/GenerateRegisterCommandStream/CreateDriverPayload
// this has no external collaborator: the bit layout is fixed and
// self-contained, so the core implements it directly.
func EncodeBias(bias int64, scale int32, shift int8) ([BiasWordSize]byte, error) {
	var out [BiasWordSize]byte

	const biasMin, biasMax = -(int64(1) << 39), int64(1)<<39 - 1
	if bias < biasMin || bias > biasMax {
		return out, fmt.Errorf("npuapi: bias %d out of 40-bit signed range [%d, %d]", bias, biasMin, biasMax)
	}
	if shift < 0 || shift > 63 {
		return out, fmt.Errorf("npuapi: shift %d out of 6-bit range [0, 63]", shift)
	}

	biasBits := uint64(bias) & 0xFF_FFFF_FFFF // low 40 bits, two's complement
	scaleBits := uint64(uint32(scale))
	shiftBits := uint64(shift) & 0x3F

	lo := biasBits | (scaleBits&0xFFFFFF)<<40
	hi := scaleBits>>24 | shiftBits<<8

	for i := 0; i < 8; i++ {
		out[i] = byte(lo >> (8 * i))
	}
	out[8] = byte(hi)
	out[9] = byte(hi >> 8)
	return out, nil
}

// DecodeBias is the inverse of EncodeBias, used by tests to check the
// encoding round-trips.
func DecodeBias(word [BiasWordSize]byte) (bias int64, scale int32, shift int8) {
	var lo uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(word[i]) << (8 * i)
	}
	hi := uint64(word[8]) | uint64(word[9])<<8

	biasBits := lo & 0xFF_FFFF_FFFF
	if biasBits&(1<<39) != 0 {
		bias = int64(biasBits) - (int64(1) << 40)
	} else {
		bias = int64(biasBits)
	}

	scaleBits := (lo>>40)&0xFFFFFF | (hi&0xFF)<<24
	scale = int32(uint32(scaleBits))
	shift = int8((hi >> 8) & 0x3F)
	return bias, scale, shift
}
