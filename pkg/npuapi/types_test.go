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

func TestDataTypeRanges(t *testing.T) {
	cases := []struct {
		dt       NpuDataType
		signed   bool
		bits     int
		min, max int64
	}{
		{DataTypeUint8, false, 8, 0, 255},
		{DataTypeInt8, true, 8, -128, 127},
		{DataTypeUint16, false, 16, 0, 65535},
		{DataTypeInt16, true, 16, -32768, 32767},
		{DataTypeInt32, true, 32, -2147483648, 2147483647},
	}
	for _, tc := range cases {
		t.Run(tc.dt.String(), func(t *testing.T) {
			require.Equal(t, tc.signed, tc.dt.IsSigned())
			require.Equal(t, tc.bits, tc.dt.SizeInBits())
			require.Equal(t, tc.bits/8, tc.dt.SizeInBytes())
			require.Equal(t, tc.min, tc.dt.MinValue())
			require.Equal(t, tc.max, tc.dt.MaxValue())
		})
	}
}
