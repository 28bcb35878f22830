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

package npuir

import "testing"

func TestDataTypeRanges(t *testing.T) {
	tests := []struct {
		dt       DataType
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
	for _, tt := range tests {
		t.Run(tt.dt.String(), func(t *testing.T) {
			if got := tt.dt.IsSigned(); got != tt.signed {
				t.Errorf("IsSigned() = %v, want %v", got, tt.signed)
			}
			if got := tt.dt.SizeInBits(); got != tt.bits {
				t.Errorf("SizeInBits() = %d, want %d", got, tt.bits)
			}
			if got := tt.dt.SizeInBytes(); got != tt.bits/8 {
				t.Errorf("SizeInBytes() = %d, want %d", got, tt.bits/8)
			}
			if got := tt.dt.MinValue(); got != tt.min {
				t.Errorf("MinValue() = %d, want %d", got, tt.min)
			}
			if got := tt.dt.MaxValue(); got != tt.max {
				t.Errorf("MaxValue() = %d, want %d", got, tt.max)
			}
		})
	}
}
