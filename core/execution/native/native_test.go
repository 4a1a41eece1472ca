package native

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verivote/verivote/core/execution"
	"github.com/verivote/verivote/core/store"
	"github.com/verivote/verivote/core/store/prefixed"
	"github.com/verivote/verivote/internal/testing/fake"
)

func TestService_Set(t *testing.T) {
	srvc := NewExecution()

	srvc.Set("fake", fakeContract{uid: "FAKE"})

	require.PanicsWithError(t, "contract 'fake' already registered", func() {
		srvc.Set("fake", fakeContract{uid: "AAAA"})
	})

	require.PanicsWithError(t, "contract UID '414141' for 'short' is not 4 bytes long", func() {
		srvc.Set("short", fakeContract{uid: "AAA"})
	})

	require.PanicsWithError(t, "contract UID '46414b45' for 'other' already registered", func() {
		srvc.Set("other", fakeContract{uid: "FAKE"})
	})
}

func TestService_Execute(t *testing.T) {
	srvc := NewExecution()
	srvc.Set("fake", fakeContract{uid: "FAKE"})

	snap := fake.NewSnapshot()

	step := makeStep("fake")

	res, err := srvc.Execute(snap, step)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Empty(t, res.Message)

	// The contract wrote through its own namespace of the snapshot.
	value, err := snap.Get(prefixed.NewPrefixedKey([]byte("FAKE"), []byte("key")))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)

	value, err = snap.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	_, err = srvc.Execute(snap, makeStep("unknown"))
	require.EqualError(t, err, "unknown contract 'unknown'")

	srvc.Set("bad", fakeContract{uid: "BADC", err: fake.GetError()})

	res, err = srvc.Execute(snap, makeStep("bad"))
	require.NoError(t, err)
	require.False(t, res.Accepted)
	require.Equal(t, "fake error", res.Message)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeStep(contract string) execution.Step {
	tx := fake.NewTransaction(fake.NewIdentity("alice"))
	tx.WithArg(ContractArg, []byte(contract))

	return execution.Step{Current: tx}
}

// fakeContract writes one key so that the tests can observe the namespace of
// the snapshot it was given.
//
// - implements native.Contract
type fakeContract struct {
	uid string
	err error
}

func (c fakeContract) Execute(snap store.Snapshot, step execution.Step) error {
	if c.err != nil {
		return c.err
	}

	return snap.Set([]byte("key"), []byte("value"))
}

func (c fakeContract) UID() string {
	return c.uid
}
