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

func TestEncodeBiasRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		bias  int64
		scale int32
		shift int8
	}{
		{"zero", 0, 0, 0},
		{"positive", 1 << 20, 1 << 30, 31},
		{"negative", -(1 << 20), -1, 63},
		{"max", (int64(1) << 39) - 1, 2147483647, 63},
		{"min", -(int64(1) << 39), -2147483648, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			word, err := EncodeBias(tc.bias, tc.scale, tc.shift)
			require.NoError(t, err)
			gotBias, gotScale, gotShift := DecodeBias(word)
			require.Equal(t, tc.bias, gotBias)
			require.Equal(t, tc.scale, gotScale)
			require.Equal(t, tc.shift, gotShift)
		})
	}
}

func TestEncodeBiasPaddingBitsZero(t *testing.T) {
	word, err := EncodeBias((int64(1)<<39)-1, -1, 63)
	require.NoError(t, err)
	require.Equal(t, byte(0), word[9]&0xC0, "top two bits of the 10-byte word must stay zero")
}

func TestEncodeBiasRejectsOutOfRange(t *testing.T) {
	_, err := EncodeBias(int64(1)<<39, 0, 0)
	require.Error(t, err)
	_, err = EncodeBias(-(int64(1)<<39) - 1, 0, 0)
	require.Error(t, err)
	_, err = EncodeBias(0, 0, 64)
	require.Error(t, err)
	_, err = EncodeBias(0, 0, -1)
	require.Error(t, err)
}

func TestVersionPacksMajorMinor(t *testing.T) {
	v := Version()
	require.Equal(t, uint32(Major), v>>16)
	require.Equal(t, uint32(Minor), v&0xFFFF)
}
