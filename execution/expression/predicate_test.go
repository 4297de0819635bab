package expression

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

func TestPredicateFilter(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("id", types.Integer), column.NewVarcharColumn("name", 8)})
	row := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(5), types.NewVarchar("bob")}, schema_)

	cases := []struct {
		field   uint32
		op      ComparisonType
		operand types.Value
		want    bool
	}{
		{0, Equal, types.NewInteger(5), true},
		{0, NotEqual, types.NewInteger(5), false},
		{0, GreaterThan, types.NewInteger(4), true},
		{0, GreaterThanOrEqual, types.NewInteger(5), true},
		{0, LessThan, types.NewInteger(5), false},
		{0, LessThanOrEqual, types.NewInteger(5), true},
		{1, Equal, types.NewVarchar("bob"), true},
		{1, LessThan, types.NewVarchar("carl"), true},
	}
	for _, c := range cases {
		p, err := NewPredicate(schema_, c.field, c.op, c.operand)
		require.NoError(t, err)
		assert.Equal(t, c.want, p.Filter(row), p.String())
	}
}

func TestPredicateRejectsBadInput(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("id", types.Integer)})

	_, err := NewPredicate(schema_, 0, Equal, types.NewVarchar("x"))
	assert.Equal(t, ErrTypeMismatch, err)

	_, err = NewPredicate(schema_, 3, Equal, types.NewInteger(1))
	assert.True(t, pkgerrors.Is(err, ErrNoSuchField))
}

func TestComparisonTypeString(t *testing.T) {
	assert.Equal(t, "<>", NotEqual.String())
	assert.Equal(t, ">=", GreaterThanOrEqual.String())
}
