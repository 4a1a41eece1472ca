package open

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/internal/testing/fake"
)

func TestService_Match(t *testing.T) {
	srvc := NewService()

	creds := access.NewContractCreds([]byte{1}, "test", "all")

	err := srvc.Match(fake.NewSnapshot(), creds, fake.NewIdentity("alice"))
	require.NoError(t, err)

	err = srvc.Match(fake.NewSnapshot(), creds)
	require.EqualError(t, err, "rule 'test:all': missing identity")
	require.ErrorIs(t, err, access.ErrMissingIdentity)

	err = srvc.Match(fake.NewSnapshot(), creds, nil)
	require.ErrorIs(t, err, access.ErrMissingIdentity)

	err = srvc.Match(fake.NewSnapshot(), creds, fake.NewIdentity(""))
	require.ErrorIs(t, err, access.ErrMissingIdentity)

	err = srvc.Match(fake.NewSnapshot(), creds, fake.NewBadIdentity())
	require.EqualError(t, err, fake.Err("failed to serialize identity"))
}

func TestService_Grant(t *testing.T) {
	srvc := NewService()

	creds := access.NewContractCreds([]byte{1}, "test", "all")

	snap := fake.NewSnapshot()

	err := srvc.Grant(snap, creds, fake.NewIdentity("alice"))
	require.NoError(t, err)
	require.Equal(t, 0, snap.Len())
}
