package concurrency

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/heapstore/heapstore/common"
	"github.com/heapstore/heapstore/errors"
	"github.com/heapstore/heapstore/types"
)

const ErrTxnNotActive = errors.Error("transaction already finished")

// TransactionCompleter ends a transaction in the buffer pool: writes or drops
// its pages and releases its locks.
type TransactionCompleter interface {
	TransactionComplete(txn types.TxnID, commit bool) error
}

/**
 * TransactionManager keeps track of all the transactions running in the system.
 */
type TransactionManager struct {
	bpm     TransactionCompleter
	txn_map map[types.TxnID]*Transaction
	mutex   *deadlock.Mutex
}

func NewTransactionManager(bpm TransactionCompleter) *TransactionManager {
	return &TransactionManager{bpm, make(map[types.TxnID]*Transaction), new(deadlock.Mutex)}
}

/**
 * Begins a new transaction.
 * @param txn an optional transaction object to be initialized, otherwise a new transaction is created.
 * @return an initialized transaction
 */
func (transaction_manager *TransactionManager) Begin(txn *Transaction) *Transaction {
	if txn == nil {
		txn = NewTransaction(types.NewTxnID())
	}
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "TransactionManager::Begin txn_id=%d\n", txn.GetTransactionId())
	}

	transaction_manager.mutex.Lock()
	defer transaction_manager.mutex.Unlock()
	transaction_manager.txn_map[txn.GetTransactionId()] = txn
	return txn
}

/**
 * Commits a transaction: its dirty pages are forced to disk and its locks released.
 */
func (transaction_manager *TransactionManager) Commit(txn *Transaction) error {
	return transaction_manager.complete(txn, true)
}

/**
 * Aborts a transaction: its dirty pages are dropped and its locks released.
 */
func (transaction_manager *TransactionManager) Abort(txn *Transaction) error {
	return transaction_manager.complete(txn, false)
}

func (transaction_manager *TransactionManager) complete(txn *Transaction, commit bool) error {
	if !txn.IsActive() {
		return ErrTxnNotActive
	}
	err := transaction_manager.bpm.TransactionComplete(txn.GetTransactionId(), commit)
	if commit && err == nil {
		txn.SetState(COMMITTED)
	} else {
		txn.SetState(ABORTED)
	}
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "TransactionManager::complete txn_id=%d state=%v\n", txn.GetTransactionId(), txn.GetState())
	}

	transaction_manager.mutex.Lock()
	defer transaction_manager.mutex.Unlock()
	delete(transaction_manager.txn_map, txn.GetTransactionId())
	return err
}

// GetTransaction returns the running transaction txn_id, or nil.
func (transaction_manager *TransactionManager) GetTransaction(txn_id types.TxnID) *Transaction {
	transaction_manager.mutex.Lock()
	defer transaction_manager.mutex.Unlock()
	return transaction_manager.txn_map[txn_id]
}

func (transaction_manager *TransactionManager) NumActive() int {
	transaction_manager.mutex.Lock()
	defer transaction_manager.mutex.Unlock()
	return len(transaction_manager.txn_map)
}
