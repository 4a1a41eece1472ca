// Package open implements an access service that allows every well-formed
// identity.
//
// The election contract is public: anybody may register and vote, and the
// creator-only rules are enforced by the contract itself. The service still
// rejects transactions without a usable identity so that a contract can rely
// on the identity being serializable.
package open

import (
	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/core/store"
	"golang.org/x/xerrors"
)

// Service is an access service that accepts any serializable identity.
//
// - implements access.Service
type Service struct{}

// NewService creates a new open access service.
func NewService() Service {
	return Service{}
}

// Match implements access.Service. It accepts every identity that can be
// serialized to a non-empty text.
func (srvc Service) Match(store store.Readable, creds access.Credential, idents ...access.Identity) error {
	if len(idents) == 0 {
		return xerrors.Errorf("rule '%s': %w", creds.GetRule(), access.ErrMissingIdentity)
	}

	for _, ident := range idents {
		if ident == nil {
			return xerrors.Errorf("rule '%s': %w", creds.GetRule(), access.ErrMissingIdentity)
		}

		text, err := ident.MarshalText()
		if err != nil {
			return xerrors.Errorf("failed to serialize identity: %v", err)
		}

		if len(text) == 0 {
			return xerrors.Errorf("rule '%s': %w", creds.GetRule(), access.ErrMissingIdentity)
		}
	}

	return nil
}

// Grant implements access.Service. Everyone is already allowed so the store
// is left untouched.
func (srvc Service) Grant(store store.Snapshot, creds access.Credential, idents ...access.Identity) error {
	return nil
}
