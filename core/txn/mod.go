// Package txn defines the abstraction of transactions.
//
// A transaction is a smart contract input. It is uniquely identifiable and it
// can be sorted with the nonce that acts as a sequence number. The
// transaction also carries the identity that created it, which can be used
// for access control.
package txn

import (
	"github.com/verivote/verivote/core/access"
)

// Transaction is what triggers a smart contract execution by passing it as
// part of the input.
type Transaction interface {
	// GetID returns the unique identifier for the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction which corresponds to the
	// sequence number of a unique identity.
	GetNonce() uint64

	// GetIdentity returns the identity that created the transaction.
	GetIdentity() access.Identity

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}

// Manager is a manager to create transactions. It keeps the nonce of an
// identity up to date.
type Manager interface {
	Make(args ...Arg) (Transaction, error)
}
