// Package types defines the state of the election ledger: the singleton
// election aggregate, the per-identity voter records and the errors that the
// contract can return.
package types

import "fmt"

// Candidate identifiers accepted by the ballot.
const (
	// CandidateA is the ballot identifier of the first candidate.
	CandidateA uint64 = 1

	// CandidateB is the ballot identifier of the second candidate.
	CandidateB uint64 = 2
)

// MaxReportHashSize is the maximum size in bytes accepted for the report
// hash. The hash is opaque to the ledger so only a sanity bound is enforced.
const MaxReportHashSize = 128

// Phase describes the lifecycle of the election relative to a point in time.
type Phase byte

const (
	// Unopened is the phase before the election has been created.
	Unopened Phase = iota

	// Pending is the phase after creation but before the voting window
	// opens.
	Pending

	// Active is the phase where votes are accepted.
	Active

	// Ended is the phase after the voting window closed but before the
	// creator sealed the result.
	Ended

	// Closed is the terminal phase.
	Closed
)

// String implements fmt.Stringer. It returns a readable name of the phase.
func (p Phase) String() string {
	switch p {
	case Unopened:
		return "unopened"
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Ended:
		return "ended"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", byte(p))
	}
}

// Election is the singleton aggregate of the ledger. It is created once and
// never deleted: it is the permanent record of the election.
type Election struct {
	// Creator is the identity that created the election. It is the only
	// identity allowed to close it.
	Creator string `json:"creator"`

	// CandidateAVotes and CandidateBVotes are the tallies.
	CandidateAVotes uint64 `json:"candidate_a_votes"`
	CandidateBVotes uint64 `json:"candidate_b_votes"`

	// ElectionStart and ElectionEnd delimit the voting window in Unix
	// seconds. The start is inclusive, the end is exclusive.
	ElectionStart int64 `json:"election_start"`
	ElectionEnd   int64 `json:"election_end"`

	// TotalVoters is the number of ballots recorded. It always equals the
	// sum of the two tallies.
	TotalVoters uint64 `json:"total_voters"`

	// ReportHash is the digest of the externally computed report. It is
	// written once when the election is closed and never changes again.
	ReportHash []byte `json:"report_hash,omitempty"`

	// Closed reports whether the creator sealed the election. It never
	// reverts to false.
	Closed bool `json:"closed"`
}

// PhaseAt returns the phase of the election at the given Unix time.
func (e Election) PhaseAt(now int64) Phase {
	switch {
	case e.Closed:
		return Closed
	case now < e.ElectionStart:
		return Pending
	case now < e.ElectionEnd:
		return Active
	default:
		return Ended
	}
}

// VoterRecord is the per-identity state. It is created when the identity
// opts in and never deleted.
type VoterRecord struct {
	// OptedIn is true from the creation of the record.
	OptedIn bool `json:"opted_in"`

	// HasVoted flips to true when a ballot is recorded and never reverts.
	HasVoted bool `json:"has_voted"`

	// VoteTimestamp is the Unix time of the ballot, set exactly once.
	VoteTimestamp int64 `json:"vote_timestamp,omitempty"`

	// ChosenCandidate is the candidate of the ballot, set exactly once.
	ChosenCandidate uint64 `json:"chosen_candidate,omitempty"`
}

// Results is the tally snapshot returned by the results query.
type Results struct {
	CandidateAVotes uint64 `json:"candidate_a_votes"`
	CandidateBVotes uint64 `json:"candidate_b_votes"`
	TotalVoters     uint64 `json:"total_voters"`
	ElectionStart   int64  `json:"election_start"`
	ElectionEnd     int64  `json:"election_end"`
	Closed          bool   `json:"closed"`
	ReportHash      []byte `json:"report_hash,omitempty"`
}

// VoterStatus is the snapshot returned by the voter status query. An
// identity that never opted in yields the zero value.
type VoterStatus struct {
	Registered    bool  `json:"registered"`
	OptedIn       bool  `json:"opted_in"`
	HasVoted      bool  `json:"has_voted"`
	VoteTimestamp int64 `json:"vote_timestamp,omitempty"`
}
