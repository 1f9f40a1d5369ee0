package blockchain

import "errors"

var (
	// ErrNoPendingTransactions is returned by MinePending when the pool is
	// empty. Mining an empty block is rejected except for the genesis block.
	ErrNoPendingTransactions = errors.New("no pending transactions to mine")

	// ErrBlockNotFound is returned by GetBlock for an out-of-range index.
	ErrBlockNotFound = errors.New("block not found")

	// ErrInvalidTransaction is returned by AddTransaction when a required
	// field is missing or malformed. The pool is never touched in that case.
	ErrInvalidTransaction = errors.New("invalid transaction")
)
