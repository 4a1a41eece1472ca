// Package ordering defines the interface of the ordering service. The
// high-level purpose of this service is to apply the transactions to the
// ledger state in a single global order.
package ordering

import (
	"github.com/verivote/verivote/core/execution"
	"github.com/verivote/verivote/core/store"
	"github.com/verivote/verivote/core/txn"
)

// Service is the interface of an ordering service. It applies transactions
// one at a time, each to completion, and exposes a consistent read view of
// the resulting state.
type Service interface {
	// Process applies the transaction to the ledger and returns the result.
	// A rejected transaction leaves the state strictly unchanged.
	Process(tx txn.Transaction) (execution.Result, error)

	// View executes the closure with a read-only view of the latest state.
	View(fn func(store.Readable) error) error
}
