package node

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ValueKind is the builtin OPC UA data type carried by a Value, reduced to
// the subset spec.md's type-checker needs to reason about (scalar vs.
// array, concrete vs. BaseDataType). This mirrors the teacher's
// storage.ValueType tagged encoding (pkg/storage/types.go).
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBoolean
	KindInt32
	KindInt64
	KindDouble
	KindString
	KindByteString
	KindArray // an array of any of the scalar kinds above
)

// Value is a typed, dynamically-shaped Variable value.
type Value struct {
	Kind ValueKind
	// Scalar payload (meaningful when Kind != KindArray).
	Data []byte
	// Array payload (meaningful when Kind == KindArray).
	ElementKind ValueKind
	Elements    []Value
}

func NullValue() Value { return Value{Kind: KindNull} }

func BoolValue(b bool) Value {
	d := byte(0)
	if b {
		d = 1
	}
	return Value{Kind: KindBoolean, Data: []byte{d}}
}

func Int32Value(i int32) Value {
	d := make([]byte, 4)
	binary.LittleEndian.PutUint32(d, uint32(i))
	return Value{Kind: KindInt32, Data: d}
}

func Int64Value(i int64) Value {
	d := make([]byte, 8)
	binary.LittleEndian.PutUint64(d, uint64(i))
	return Value{Kind: KindInt64, Data: d}
}

func DoubleValue(f float64) Value {
	d := make([]byte, 8)
	binary.LittleEndian.PutUint64(d, math.Float64bits(f))
	return Value{Kind: KindDouble, Data: d}
}

func StringValue(s string) Value {
	return Value{Kind: KindString, Data: []byte(s)}
}

func ByteStringValue(b []byte) Value {
	return Value{Kind: KindByteString, Data: append([]byte(nil), b...)}
}

func ArrayValue(elementKind ValueKind, elements []Value) Value {
	return Value{Kind: KindArray, ElementKind: elementKind, Elements: elements}
}

// IsNull reports whether the value carries no data at all — the "empty
// value" state spec.md §4.5 step 5/6 checks before synthesizing a null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// IsArray reports whether the value is array-shaped.
func (v Value) IsArray() bool {
	return v.Kind == KindArray
}

func (v Value) AsInt32() (int32, error) {
	if v.Kind != KindInt32 {
		return 0, fmt.Errorf("value is not an Int32")
	}
	return int32(binary.LittleEndian.Uint32(v.Data)), nil
}

func (v Value) AsInt64() (int64, error) {
	if v.Kind != KindInt64 {
		return 0, fmt.Errorf("value is not an Int64")
	}
	return int64(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsDouble() (float64, error) {
	if v.Kind != KindDouble {
		return 0, fmt.Errorf("value is not a Double")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("value is not a String")
	}
	return string(v.Data), nil
}

// Clone deep-copies a value, recursing into array elements.
func (v Value) Clone() Value {
	c := Value{Kind: v.Kind, ElementKind: v.ElementKind}
	if v.Data != nil {
		c.Data = append([]byte(nil), v.Data...)
	}
	if v.Elements != nil {
		c.Elements = make([]Value, len(v.Elements))
		for i, e := range v.Elements {
			c.Elements[i] = e.Clone()
		}
	}
	return c
}
