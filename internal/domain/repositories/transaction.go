package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. The document
// repository's multi-table writes (document row + block rows + tag rows)
// run inside one so a mid-sequence failure never leaves orphaned or
// half-replaced child rows.
type TransactionManager interface {
	// ExecTx executes a function within a transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
