package fake

import "github.com/verivote/verivote/core/access"

// Transaction is a fake implementation of a transaction. Unlike a real
// transaction it accepts any identity, including one that fails to serialize.
//
// - implements txn.Transaction
type Transaction struct {
	identity access.Identity
	args     map[string][]byte
}

// NewTransaction returns a fake transaction with the given identity.
func NewTransaction(ident access.Identity) *Transaction {
	return &Transaction{
		identity: ident,
		args:     map[string][]byte{},
	}
}

// WithArg sets an argument and returns the transaction.
func (t *Transaction) WithArg(key string, value []byte) *Transaction {
	t.args[key] = value

	return t
}

// GetID implements txn.Transaction.
func (t *Transaction) GetID() []byte {
	return []byte{0x1}
}

// GetNonce implements txn.Transaction.
func (t *Transaction) GetNonce() uint64 {
	return 0
}

// GetIdentity implements txn.Transaction.
func (t *Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArg implements txn.Transaction.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}
