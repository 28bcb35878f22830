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

// ActivationKind is the NPU-native fused-activation tag. It is distinct
// from Kind: a Relu *operator* in the input graph becomes an ActivationKind
// fused onto a preceding op once the packer absorbs it.
type ActivationKind int

const (
	ActivationNone ActivationKind = iota
	ActivationReluOrNone
	ActivationTanh
	ActivationSigmoid
	ActivationTableLookup
)

// Activation is the optional fused activation an Op carries, mirroring
// NpuActivation in api.py.
type Activation struct {
	Kind      ActivationKind
	Min, Max  *float64
	// LookupTableIndex is resolved by internal/lut once the table's SHRAM
	// address is known. -1 means unresolved.
	LookupTableIndex int
}

// Op is a graph node: an operator kind, its operand tensors, and an
// untyped attribute bag mirroring the flat-buffer op's option table
// (Design Note: "Dynamic operator attributes"). Generic code reaches into
// Attrs only through the typed accessors below, never by raw map index,
// so a missing or mistyped attribute surfaces as a normal zero-value
// rather than a panic.
type Op struct {
	ID      OpID
	Kind    Kind
	Name    string
	Inputs  []TensorID
	Outputs []TensorID
	Attrs   map[string]any

	Activation *Activation

	// ScheduledPass is the side-table the packer maintains (OpID -> PassID),
	// per Design Note "Mutable global state" — a pointer back to an owning
	// Pass is not stored on Op itself.
	ScheduledPass PassID

	// RunOnNPU mirrors the source graph's run_on_npu marker; the packer's
	// table only lets an op accumulate Npu flags when this is true.
	RunOnNPU bool
}

// NewOp returns an Op with its Attrs map initialized and no scheduled pass.
func NewOp(id OpID, kind Kind, name string) *Op {
	return &Op{
		ID:            id,
		Kind:          kind,
		Name:          name,
		Attrs:         make(map[string]any),
		ScheduledPass: NoPass,
		RunOnNPU:      true,
	}
}

// AttrInt returns Attrs[key] as an int, and whether it was present and of
// that type.
func (o *Op) AttrInt(key string) (int, bool) {
	v, ok := o.Attrs[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// AttrIntOr returns AttrInt(key) or def if absent.
func (o *Op) AttrIntOr(key string, def int) int {
	if v, ok := o.AttrInt(key); ok {
		return v
	}
	return def
}

// AttrFloat returns Attrs[key] as a float64, and whether it was present and
// of that type.
func (o *Op) AttrFloat(key string) (float64, bool) {
	v, ok := o.Attrs[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// AttrString returns Attrs[key] as a string, and whether it was present.
// Used for the byte-string-valued attributes like "padding" ("SAME"/
// "VALID").
func (o *Op) AttrString(key string) (string, bool) {
	v, ok := o.Attrs[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AttrBool returns Attrs[key] as a bool, and whether it was present and of
// that type.
func (o *Op) AttrBool(key string) (bool, bool) {
	v, ok := o.Attrs[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// AttrIntSlice returns Attrs[key] as a []int, used for mask-shaped
// attributes like strides/begin/end.
func (o *Op) AttrIntSlice(key string) ([]int, bool) {
	v, ok := o.Attrs[key]
	if !ok {
		return nil, false
	}
	s, ok := v.([]int)
	return s, ok
}

// IsNpuBlockOperation reports whether o is one of the families the legality
// per-kind constraint table gives a dedicated row.
func (o *Op) IsNpuBlockOperation() bool {
	switch o.Kind {
	case KindConv2D, KindDepthwiseConv2DBias, KindTransposeConv, KindFullyConnected,
		KindMaxPool, KindAvgPool, KindReduceSum, KindResizeBilinear:
		return true
	default:
		return o.Kind.IsElementwiseBinary()
	}
}
