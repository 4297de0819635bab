// package concurrency
// package transaction
package concurrency

import (
	"github.com/heapstore/heapstore/types"
)

/**
 * Transaction states:
 *
 *     _____________
 *    |             v
 * GROWING ---> COMMITTED   ABORTED
 *    |_______________________^
 *
 * Locks are held until the end (strict two phase locking), so there is no
 * SHRINKING phase.
 **/

type TransactionState int32

const (
	GROWING TransactionState = iota
	COMMITTED
	ABORTED
)

func (s TransactionState) String() string {
	switch s {
	case GROWING:
		return "GROWING"
	case COMMITTED:
		return "COMMITTED"
	case ABORTED:
		return "ABORTED"
	}
	return "UNKNOWN"
}

/**
 * Transaction tracks information related to a transaction.
 */
type Transaction struct {
	/** The current transaction state. */
	state TransactionState

	/** The id of this transaction. */
	txn_id types.TxnID

	dbgInfo string
}

func NewTransaction(txn_id types.TxnID) *Transaction {
	return &Transaction{GROWING, txn_id, ""}
}

/** @return the id of this transaction */
func (txn *Transaction) GetTransactionId() types.TxnID { return txn.txn_id }

/** @return the current state of the transaction */
func (txn *Transaction) GetState() TransactionState { return txn.state }

func (txn *Transaction) SetState(state TransactionState) { txn.state = state }

func (txn *Transaction) IsActive() bool { return txn.state == GROWING }

func (txn *Transaction) GetDebugInfo() string { return txn.dbgInfo }

func (txn *Transaction) SetDebugInfo(dbgInfo string) { txn.dbgInfo = dbgInfo }
