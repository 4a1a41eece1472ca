package types

// CreateElectionArgs is the payload of a create election transaction. The
// window is given in Unix seconds.
type CreateElectionArgs struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// CastVoteArgs is the payload of a cast vote transaction.
type CastVoteArgs struct {
	CandidateID uint64 `json:"candidate_id"`
}

// CloseElectionArgs is the payload of a close election transaction. The
// report hash is computed outside of the ledger over the final tally.
type CloseElectionArgs struct {
	ReportHash []byte `json:"report_hash"`
}

// VoterStatusArgs is the payload of a voter status query. When the voter is
// empty the caller queries its own record.
type VoterStatusArgs struct {
	Voter string `json:"voter,omitempty"`
}
