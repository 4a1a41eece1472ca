package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseAt(t *testing.T) {
	election := Election{
		ElectionStart: 100,
		ElectionEnd:   200,
	}

	require.Equal(t, Pending, election.PhaseAt(0))
	require.Equal(t, Pending, election.PhaseAt(99))

	// The start is inclusive, the end is exclusive.
	require.Equal(t, Active, election.PhaseAt(100))
	require.Equal(t, Active, election.PhaseAt(199))
	require.Equal(t, Ended, election.PhaseAt(200))
	require.Equal(t, Ended, election.PhaseAt(1000))

	election.Closed = true

	// Closed wins over any point in time.
	require.Equal(t, Closed, election.PhaseAt(0))
	require.Equal(t, Closed, election.PhaseAt(150))
	require.Equal(t, Closed, election.PhaseAt(1000))
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "unopened", Unopened.String())
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "active", Active.String())
	require.Equal(t, "ended", Ended.String())
	require.Equal(t, "closed", Closed.String())
	require.Equal(t, "unknown(42)", Phase(42).String())
}
