// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/storage/access"
	"github.com/heapstore/heapstore/storage/table/schema"
	"github.com/heapstore/heapstore/storage/tuple"
	"github.com/heapstore/heapstore/types"
)

// SeqScanExecutor executes a sequential scan over a table.
// Tuples keep their RID, so they can be fed to a DeleteExecutor.
type SeqScanExecutor struct {
	context  *ExecutorContext
	tableID  types.TableID
	alias    string
	heapFile *access.HeapFile
	it       access.DbFileIterator
}

// NewSeqScanExecutor creates a new sequential scan executor. An empty alias
// means the table name.
func NewSeqScanExecutor(context *ExecutorContext, tableID types.TableID, alias string) (*SeqScanExecutor, error) {
	e := &SeqScanExecutor{context: context}
	if err := e.Reset(tableID, alias); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset points the scan at another table. The executor must be opened again.
func (e *SeqScanExecutor) Reset(tableID types.TableID, alias string) error {
	heapFile, err := e.context.GetCatalog().GetDatabaseFile(tableID)
	if err != nil {
		return err
	}
	if alias == "" {
		if alias, err = e.context.GetCatalog().GetTableName(tableID); err != nil {
			return err
		}
	}
	e.Close()
	e.tableID = tableID
	e.alias = alias
	e.heapFile = heapFile
	return nil
}

func (e *SeqScanExecutor) Open() error {
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "SeqScanExecutor::Open table=%s txn=%d\n", e.alias, e.context.GetTransaction().GetTransactionId())
	}
	e.Close()
	it := e.heapFile.Iterator(e.context.GetTransaction().GetTransactionId())
	if err := it.Open(); err != nil {
		return err
	}
	e.it = it
	return nil
}

func (e *SeqScanExecutor) HasNext() (bool, error) {
	if e.it == nil {
		return false, ErrNotOpen
	}
	return e.it.HasNext()
}

func (e *SeqScanExecutor) Next() (*tuple.Tuple, error) {
	if e.it == nil {
		return nil, ErrNotOpen
	}
	t, err := e.it.Next()
	if err == access.ErrNoSuchElement {
		return nil, ErrNoSuchElement
	}
	return t, err
}

func (e *SeqScanExecutor) Rewind() error {
	if e.it == nil {
		return ErrNotOpen
	}
	return e.it.Rewind()
}

func (e *SeqScanExecutor) Close() {
	if e.it != nil {
		e.it.Close()
		e.it = nil
	}
}

// GetOutputSchema is the table schema with every column named "alias.field".
func (e *SeqScanExecutor) GetOutputSchema() *schema.Schema {
	return e.heapFile.GetTupleDesc().WithPrefix(e.alias)
}

func (e *SeqScanExecutor) GetTableName() string {
	name, err := e.context.GetCatalog().GetTableName(e.tableID)
	if err != nil {
		return ""
	}
	return name
}

func (e *SeqScanExecutor) GetAlias() string {
	return e.alias
}

func (e *SeqScanExecutor) GetTableID() types.TableID {
	return e.tableID
}
