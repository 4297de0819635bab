package expression

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

const ErrNoSuchField = errors.Error("no such field")

// Predicate compares one field of a tuple with a constant: field op operand.
type Predicate struct {
	field      uint32
	op         ComparisonType
	operand    types.Value
	comparison *Comparison
}

// NewPredicate checks the field against schema_ so Filter never compares
// values of different types.
func NewPredicate(schema_ *schema.Schema, field uint32, op ComparisonType, operand types.Value) (*Predicate, error) {
	if field >= schema_.GetColumnCount() {
		return nil, pkgerrors.Wrapf(ErrNoSuchField, "field %d of %d columns", field, schema_.GetColumnCount())
	}
	column := NewColumnValue(field, schema_.GetColumn(field).GetType())
	comparison, err := NewComparison(column, NewConstantValue(operand), op)
	if err != nil {
		return nil, err
	}
	return &Predicate{field, op, operand, comparison}, nil
}

func (p *Predicate) Filter(t *tuple.Tuple) bool {
	return p.comparison.Filter(t)
}

func (p *Predicate) GetField() uint32 {
	return p.field
}

func (p *Predicate) GetOp() ComparisonType {
	return p.op
}

func (p *Predicate) GetOperand() types.Value {
	return p.operand
}

func (p *Predicate) String() string {
	return fmt.Sprintf("$%d %v %v", p.field, p.op, p.operand)
}
