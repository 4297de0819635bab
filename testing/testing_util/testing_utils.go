// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package testing_util

import (
	"github.com/heapstore/heapstore/types"
)

func GetValue(data interface{}) (value types.Value) {
	switch v := data.(type) {
	case int:
		value = types.NewInteger(int32(v))
	case int32:
		value = types.NewInteger(v)
	case string:
		value = types.NewVarchar(v)
	case types.Value:
		return v
	case *types.Value:
		return *v
	default:
		panic("not implemented")
	}
	return
}

func GetValueType(data interface{}) (value types.TypeID) {
	switch v := data.(type) {
	case int, int32:
		return types.Integer
	case string:
		return types.Varchar
	case types.Value:
		return v.ValueType()
	case *types.Value:
		return v.ValueType()
	}
	panic("not implemented")
}

// MakeRow converts Go values into a row of types.Value.
func MakeRow(data ...interface{}) []types.Value {
	row := make([]types.Value, 0, len(data))
	for _, d := range data {
		row = append(row, GetValue(d))
	}
	return row
}
