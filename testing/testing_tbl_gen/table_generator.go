package testing_tbl_gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/heapstore/heapstore/catalog"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/buffer"
	"github.com/heapstore/heapstore/storage/disk"
	"github.com/heapstore/heapstore/storage/table/column"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

type ColumnInsertMeta struct {
	/**
	 * Name of the column
	 */
	Name_ string
	/**
	 * Type of the column
	 */
	Type_ types.TypeID
	/**
	 * Distribution of values
	 */
	Dist_ int32
	/**
	 * min value of the column
	 */
	Min_ int32
	/**
	 * max value of the column
	 */
	Max_ int32
	/**
	 * Counter to generate serial data
	 */
	Serial_counter_ int32
}

type TableInsertMeta struct {
	/**
	 * Name of the table
	 */
	Name_ string
	/**
	 * Number of rows
	 */
	Num_rows_ uint32
	/**
	 * Columns
	 */
	Col_meta_ []*ColumnInsertMeta
}

const DistSerial int32 = 0
const DistUniform int32 = 1

const TEST1_SIZE uint32 = 1000
const TEST2_SIZE uint32 = 100

// width of generated string columns
const TEST_VARLEN_SIZE uint32 = 10

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

func GenNumericValues(col_meta *ColumnInsertMeta, count uint32) []types.Value {
	var values []types.Value
	if col_meta.Dist_ == DistSerial {
		for i := 0; i < int(count); i++ {
			values = append(values, types.NewInteger(col_meta.Serial_counter_))
			col_meta.Serial_counter_ += 1
		}
		return values
	}

	for i := 0; i < int(count); i++ {
		values = append(values, types.NewInteger(col_meta.Min_+rng.Int31n(col_meta.Max_-col_meta.Min_+1)))
	}
	return values
}

// GenStringValues renders generated integers as strings ("v<n>").
func GenStringValues(col_meta *ColumnInsertMeta, count uint32) []types.Value {
	var values []types.Value
	for _, v := range GenNumericValues(col_meta, count) {
		values = append(values, types.NewVarchar(fmt.Sprintf("v%d", v.ToInteger())))
	}
	return values
}

func MakeValues(col_meta *ColumnInsertMeta, count uint32) []types.Value {
	switch col_meta.Type_ {
	case types.Integer:
		return GenNumericValues(col_meta, count)
	case types.Varchar:
		return GenStringValues(col_meta, count)
	default:
		panic("Not yet implemented")
	}
}

func MakeSchema(table_meta *TableInsertMeta) *schema.Schema {
	cols := make([]*column.Column, 0, len(table_meta.Col_meta_))
	for _, col_meta := range table_meta.Col_meta_ {
		if col_meta.Type_ == types.Varchar {
			cols = append(cols, column.NewVarcharColumn(col_meta.Name_, TEST_VARLEN_SIZE))
		} else {
			cols = append(cols, column.NewColumn(col_meta.Name_, col_meta.Type_))
		}
	}
	return schema.NewSchema(cols)
}

// FillTable inserts table_meta.Num_rows_ generated rows into tableID through
// the buffer pool, as part of txn.
func FillTable(bpm *buffer.BufferPoolManager, tableID types.TableID, schema_ *schema.Schema, table_meta *TableInsertMeta, txn types.TxnID) error {
	var num_inserted uint32 = 0
	var batch_size uint32 = 128
	for num_inserted < table_meta.Num_rows_ {
		num_values := batch_size
		if left := table_meta.Num_rows_ - num_inserted; left < num_values {
			num_values = left
		}
		var values [][]types.Value
		for _, col_meta := range table_meta.Col_meta_ {
			values = append(values, MakeValues(col_meta, num_values))
		}

		for i := 0; i < int(num_values); i++ {
			var entry []types.Value
			for idx := range table_meta.Col_meta_ {
				entry = append(entry, values[idx][i])
			}
			if err := bpm.InsertTuple(txn, tableID, tuple.NewTupleFromSchema(entry, schema_)); err != nil {
				return err
			}
			num_inserted++
		}
	}
	return nil
}

// CreateTable makes an in memory heap file for table_meta, registers it in c
// and fills it.
func CreateTable(c *catalog.Catalog, bpm *buffer.BufferPoolManager, table_meta *TableInsertMeta, pageSize int, txn types.TxnID) (*catalog.TableMetadata, error) {
	schema_ := MakeSchema(table_meta)
	hf, err := access.NewHeapFile(disk.NewVirtualDiskManagerImpl(table_meta.Name_+".dat", pageSize), schema_, bpm)
	if err != nil {
		return nil, err
	}
	c.AddTable(hf, table_meta.Name_, "")
	if err := FillTable(bpm, hf.GetID(), schema_, table_meta, txn); err != nil {
		return nil, err
	}
	return c.GetTableByOID(hf.GetID()), nil
}

func GenerateTestTabls(c *catalog.Catalog, bpm *buffer.BufferPoolManager, txn types.TxnID) (*catalog.TableMetadata, *catalog.TableMetadata, error) {
	tableMeta1 := &TableInsertMeta{"test_1",
		TEST1_SIZE,
		[]*ColumnInsertMeta{
			{"colA", types.Integer, DistSerial, 0, 0, 0},
			{"colB", types.Integer, DistUniform, 0, 9, 0},
			{"colC", types.Integer, DistUniform, 0, 9999, 0},
			{"colD", types.Varchar, DistUniform, 0, 99, 0},
		}}
	tableMeta2 := &TableInsertMeta{"test_2",
		TEST2_SIZE,
		[]*ColumnInsertMeta{
			{"col1", types.Integer, DistSerial, 0, 0, 0},
			{"col2", types.Integer, DistUniform, 0, 9, 0},
			{"col3", types.Integer, DistUniform, 0, 1024, 0},
			{"col4", types.Integer, DistUniform, 0, 2048, 0},
		}}
	tableMetadata1, err := CreateTable(c, bpm, tableMeta1, 4096, txn)
	if err != nil {
		return nil, nil, err
	}
	tableMetadata2, err := CreateTable(c, bpm, tableMeta2, 4096, txn)
	if err != nil {
		return nil, nil, err
	}
	return tableMetadata1, tableMetadata2, nil
}
