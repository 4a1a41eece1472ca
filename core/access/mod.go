// Package access defines the interfaces for the access rights control.
//
// An identity is the authenticated principal behind a transaction. The core
// does not verify signatures: the caller adapter is trusted to have done so
// before the transaction enters the ledger.
package access

import (
	"encoding"
	"strings"

	"github.com/verivote/verivote/core/store"
	"golang.org/x/xerrors"
)

// Identity is an abstraction to uniquely identify a caller.
type Identity interface {
	encoding.TextMarshaler

	// Equal returns true when the other identity is the same.
	Equal(other Identity) bool
}

// Credential is an abstraction of an access control credential. It refers to
// a rule of a given contract that an identity must be allowed to use.
type Credential interface {
	// GetID returns the identifier of the credential.
	GetID() []byte

	// GetRule returns the rule that the credential refers to.
	GetRule() string
}

// Service is an access control service. It can be used to grant access to an
// identity, or to verify that an identity is allowed for a given credential.
type Service interface {
	// Match returns nil when the identities are all allowed for the
	// credential.
	Match(store store.Readable, creds Credential, idents ...Identity) error

	// Grant updates the store so that the identities will be allowed for the
	// credential.
	Grant(store store.Snapshot, creds Credential, idents ...Identity) error
}

// Compile returns a compacted rule from the string segments.
func Compile(segments ...string) string {
	return strings.Join(segments, ":")
}

// ContractCreds is a credential for a rule defined by a contract name and a
// command.
//
// - implements access.Credential
type ContractCreds struct {
	id       []byte
	contract string
	command  string
}

// NewContractCreds creates new credentials from the identifier, the contract
// name and the command.
func NewContractCreds(id []byte, contract, command string) ContractCreds {
	return ContractCreds{
		id:       id,
		contract: contract,
		command:  command,
	}
}

// GetID implements access.Credential. It returns the identifier of the
// credential.
func (cc ContractCreds) GetID() []byte {
	return append([]byte{}, cc.id...)
}

// GetRule implements access.Credential. It returns the rule of the
// credential.
func (cc ContractCreds) GetRule() string {
	return Compile(cc.contract, cc.command)
}

// Text returns a human readable text of an identity, or an error string when
// the identity cannot be serialized.
func Text(ident Identity) string {
	if ident == nil {
		return "<nil>"
	}

	buf, err := ident.MarshalText()
	if err != nil {
		return "<malformed>"
	}

	return string(buf)
}

// ErrMissingIdentity is returned when a transaction carries no identity at
// all.
var ErrMissingIdentity = xerrors.New("missing identity")
