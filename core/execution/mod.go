// Package execution defines the service to execute a step in a validation
// batch.
package execution

import (
	"github.com/verivote/verivote/core/store"
	"github.com/verivote/verivote/core/txn"
)

// Step is the information about the current transaction. It gives the
// previous transactions of the same batch that have been accepted so that a
// contract can react to them.
type Step struct {
	Previous []txn.Transaction
	Current  txn.Transaction
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a chance to the execution to explain why a transaction
	// has failed.
	Message string
}

// Service is the execution service that defines the primitives to execute a
// transaction.
type Service interface {
	// Execute must apply the transaction to the snapshot and return the
	// result of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
