// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import "sync/atomic"

// TxnID is the type of the transaction identifier
type TxnID int32

const InvalidTxnID = TxnID(-1)

var nextTxnID int32

// NewTxnID hands out process wide unique transaction ids, starting at 0.
func NewTxnID() TxnID {
	return TxnID(atomic.AddInt32(&nextTxnID, 1) - 1)
}
