package testing_util

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heapstore/heapstore/types"
)

func TestMakeRow(t *testing.T) {
	v := types.NewInteger(3)
	row := MakeRow(1, int32(2), &v, "x")
	assert.Len(t, row, 4)
	assert.Equal(t, int32(1), row[0].ToInteger())
	assert.Equal(t, int32(3), row[2].ToInteger())
	assert.Equal(t, "x", row[3].ToVarchar())
	assert.Equal(t, types.Varchar, GetValueType("x"))
	assert.Equal(t, types.Integer, GetValueType(&v))
	assert.Panics(t, func() { GetValue(1.5) })
}
