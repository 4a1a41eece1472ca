package types

import "golang.org/x/xerrors"

// The contract aborts an operation with one of the following errors and
// guarantees that the state is left strictly unchanged. The errors are
// sentinels so that a caller adapter can match them with errors.Is and map
// them to its own surface.
var (
	// ErrAlreadyCreated is returned when creating an election twice.
	ErrAlreadyCreated = xerrors.New("an election already exists")

	// ErrElectionNotFound is returned when an operation requires an election
	// that has not been created.
	ErrElectionNotFound = xerrors.New("election not found")

	// ErrInvalidWindow is returned when the voting window is malformed.
	ErrInvalidWindow = xerrors.New("invalid election window")

	// ErrNotYetStarted is returned when voting before the window opens.
	ErrNotYetStarted = xerrors.New("voting has not started")

	// ErrVotingClosed is returned when voting after the window closed.
	ErrVotingClosed = xerrors.New("voting is over")

	// ErrInvalidCandidate is returned for a ballot with an unknown
	// candidate.
	ErrInvalidCandidate = xerrors.New("invalid candidate")

	// ErrNotOptedIn is returned for a ballot from an identity without a
	// voter record.
	ErrNotOptedIn = xerrors.New("voter has not opted in")

	// ErrAlreadyVoted is returned for a second ballot from the same
	// identity.
	ErrAlreadyVoted = xerrors.New("voter has already voted")

	// ErrAlreadyOptedIn is returned when an identity opts in twice.
	ErrAlreadyOptedIn = xerrors.New("voter has already opted in")

	// ErrUnauthorized is returned when a creator-only operation is called by
	// another identity.
	ErrUnauthorized = xerrors.New("caller is not the creator")

	// ErrTooEarly is returned when closing the election before the voting
	// window ends.
	ErrTooEarly = xerrors.New("voting window is still open")

	// ErrAlreadyClosed is returned when closing the election twice. The
	// report hash is write-once so the second call must fail loudly.
	ErrAlreadyClosed = xerrors.New("election already closed")

	// ErrInvalidHash is returned for a missing or oversized report hash.
	ErrInvalidHash = xerrors.New("invalid report hash")
)
