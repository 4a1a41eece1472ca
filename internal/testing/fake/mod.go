// Package fake provides fake implementations for interfaces commonly used in
// the repository. The implementations offer configuration to return errors
// when it is needed by the unit test.
package fake

import (
	"time"

	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/core/store"
	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the message of an error wrapping the fake error.
func Err(msg string) string {
	return msg + ": fake error"
}

// Call is a tool to keep track of a function calls.
type Call struct {
	calls [][]interface{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	c.calls = append(c.calls, args)
}

// Identity is a fake implementation of an identity.
//
// - implements access.Identity
type Identity struct {
	text string
	err  error
}

// NewIdentity returns a new fake identity with the given text.
func NewIdentity(text string) Identity {
	return Identity{text: text}
}

// NewBadIdentity returns a fake identity that fails to serialize.
func NewBadIdentity() Identity {
	return Identity{err: fakeErr}
}

// MarshalText implements encoding.TextMarshaler.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.text), i.err
}

// Equal implements access.Identity.
func (i Identity) Equal(other access.Identity) bool {
	ident, ok := other.(Identity)
	return ok && ident.text == i.text
}

// String implements fmt.Stringer.
func (i Identity) String() string {
	return i.text
}

// AccessService is a fake implementation of an access service.
//
// - implements access.Service
type AccessService struct {
	Err error
}

// NewAccessService returns an access service that accepts everything.
func NewAccessService() AccessService {
	return AccessService{}
}

// NewBadAccessService returns an access service that refuses everything.
func NewBadAccessService() AccessService {
	return AccessService{Err: fakeErr}
}

// Match implements access.Service.
func (srvc AccessService) Match(store.Readable, access.Credential, ...access.Identity) error {
	return srvc.Err
}

// Grant implements access.Service.
func (srvc AccessService) Grant(store.Snapshot, access.Credential, ...access.Identity) error {
	return srvc.Err
}

// Clock is a fake implementation of a clock that returns a fixed instant
// until it is moved.
//
// - implements clock.Clock
type Clock struct {
	instant time.Time
}

// NewClockAt creates a fake clock set to the given Unix time.
func NewClockAt(sec int64) *Clock {
	return &Clock{instant: time.Unix(sec, 0)}
}

// Now implements clock.Clock. It returns the configured instant.
func (c *Clock) Now() time.Time {
	return c.instant
}

// Set moves the clock to the given Unix time.
func (c *Clock) Set(sec int64) {
	c.instant = time.Unix(sec, 0)
}
