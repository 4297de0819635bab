package catalog

import (
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/types"
)

type TableMetadata struct {
	schema    *schema.Schema
	name      string
	table     *access.HeapFile
	pkeyField string
	oid       types.TableID
}

func (t *TableMetadata) Schema() *schema.Schema {
	return t.schema
}

func (t *TableMetadata) OID() types.TableID {
	return t.oid
}

func (t *TableMetadata) Table() *access.HeapFile {
	return t.table
}

func (t *TableMetadata) Name() string {
	return t.name
}

func (t *TableMetadata) PrimaryKey() string {
	return t.pkeyField
}
