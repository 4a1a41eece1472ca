// Package authed is an implementation of the transaction abstraction for
// callers that have already been authenticated.
//
// The surrounding system (wallet layer, RPC gateway, ...) verifies the
// signature and only then builds a transaction with the proven identity. The
// ledger therefore never sees a signature: it trusts the identity attached
// to the transaction.
package authed

import (
	"github.com/rs/xid"
	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/core/txn"
	"golang.org/x/xerrors"
)

// Address is a textual identity, typically a wallet address.
//
// - implements access.Identity
type Address string

// MarshalText implements encoding.TextMarshaler. It returns the address as
// text.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

// Equal implements access.Identity. It returns true when the other identity
// is the same address.
func (a Address) Equal(other access.Identity) bool {
	addr, ok := other.(Address)
	return ok && addr == a
}

// String implements fmt.Stringer. It returns the address as a string.
func (a Address) String() string {
	return string(a)
}

// Transaction is a pre-authenticated transaction.
//
// - implements txn.Transaction
type Transaction struct {
	id       []byte
	nonce    uint64
	identity access.Identity
	args     map[string][]byte
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*Transaction)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tx *Transaction) {
		tx.args[key] = value
	}
}

// NewTransaction creates a new transaction with the provided nonce and
// identity.
func NewTransaction(nonce uint64, ident access.Identity, opts ...TransactionOption) (*Transaction, error) {
	if ident == nil {
		return nil, xerrors.Errorf("transaction: %w", access.ErrMissingIdentity)
	}

	_, err := ident.MarshalText()
	if err != nil {
		return nil, xerrors.Errorf("failed to serialize identity: %v", err)
	}

	tx := &Transaction{
		id:       xid.New().Bytes(),
		nonce:    nonce,
		identity: ident,
		args:     make(map[string][]byte),
	}

	for _, opt := range opts {
		opt(tx)
	}

	return tx, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t *Transaction) GetID() []byte {
	return append([]byte{}, t.id...)
}

// GetNonce implements txn.Transaction. It returns the nonce of the
// transaction.
func (t *Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the authenticated
// identity of the caller.
func (t *Transaction) GetIdentity() access.Identity {
	return t.identity
}

// GetArg implements txn.Transaction. It returns the value of the argument if
// it is set, otherwise nil.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Manager is a manager to create transactions on behalf of one identity. It
// manages the nonce by itself.
//
// - implements txn.Manager
type Manager struct {
	identity access.Identity
	nonce    uint64
}

// NewManager creates a new transaction manager for the identity.
func NewManager(ident access.Identity) *Manager {
	return &Manager{
		identity: ident,
	}
}

// Make implements txn.Manager. It creates a transaction populated with the
// arguments.
func (mgr *Manager) Make(args ...txn.Arg) (txn.Transaction, error) {
	opts := make([]TransactionOption, len(args))
	for i, arg := range args {
		opts[i] = WithArg(arg.Key, arg.Value)
	}

	tx, err := NewTransaction(mgr.nonce, mgr.identity, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	mgr.nonce++

	return tx, nil
}
