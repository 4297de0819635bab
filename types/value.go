// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// A value is an class that represents a view over SQL data stored in
// some materialized state. All values have a type and comparison functions,
// and implement other type-specific functionality.
type Value struct {
	valueType TypeID
	integer   *int32
	varchar   *string
}

func NewInteger(value int32) Value {
	return Value{Integer, &value, nil}
}

func NewVarchar(value string) Value {
	return Value{Varchar, nil, &value}
}

// NewValueFromBytes is used for deserialization. data must hold at least
// valueType.Size(maxLen) bytes. A stored length larger than maxLen is clamped.
func NewValueFromBytes(data []byte, valueType TypeID, maxLen uint32) Value {
	switch valueType {
	case Integer:
		return NewInteger(int32(binary.BigEndian.Uint32(data[:4])))
	case Varchar:
		length := binary.BigEndian.Uint32(data[:VarcharLengthPrefix])
		if length > maxLen {
			length = maxLen
		}
		return NewVarchar(string(data[VarcharLengthPrefix : VarcharLengthPrefix+length]))
	}
	panic(fmt.Sprintf("%v is illegal", valueType))
}

// SerializeTo writes exactly v.ValueType().Size(maxLen) bytes into buf.
// Strings longer than maxLen are truncated; the padding is zero filled.
func (v Value) SerializeTo(buf []byte, maxLen uint32) {
	switch v.valueType {
	case Integer:
		binary.BigEndian.PutUint32(buf[:4], uint32(*v.integer))
	case Varchar:
		str := *v.varchar
		if uint32(len(str)) > maxLen {
			str = str[:maxLen]
		}
		binary.BigEndian.PutUint32(buf[:VarcharLengthPrefix], uint32(len(str)))
		payload := buf[VarcharLengthPrefix : VarcharLengthPrefix+maxLen]
		n := copy(payload, str)
		for i := n; i < len(payload); i++ {
			payload[i] = 0
		}
	default:
		panic("illegal type value")
	}
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) ToInteger() int32 {
	return *v.integer
}

func (v Value) ToVarchar() string {
	return *v.varchar
}

func (v Value) CompareEquals(right Value) bool {
	switch v.valueType {
	case Integer:
		return *v.integer == *right.integer
	case Varchar:
		return *v.varchar == *right.varchar
	}
	return false
}

func (v Value) CompareNotEquals(right Value) bool {
	return !v.CompareEquals(right)
}

func (v Value) CompareGreaterThan(right Value) bool {
	switch v.valueType {
	case Integer:
		return *v.integer > *right.integer
	case Varchar:
		return *v.varchar > *right.varchar
	}
	return false
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	return v.CompareGreaterThan(right) || v.CompareEquals(right)
}

func (v Value) CompareLessThan(right Value) bool {
	switch v.valueType {
	case Integer:
		return *v.integer < *right.integer
	case Varchar:
		return *v.varchar < *right.varchar
	}
	return false
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	return v.CompareLessThan(right) || v.CompareEquals(right)
}

// Key returns a comparable representation, usable as a map key.
func (v Value) Key() interface{} {
	switch v.valueType {
	case Integer:
		return *v.integer
	case Varchar:
		return *v.varchar
	}
	return nil
}

func (v Value) String() string {
	switch v.valueType {
	case Integer:
		return strconv.Itoa(int(*v.integer))
	case Varchar:
		return *v.varchar
	}
	return "<invalid>"
}
