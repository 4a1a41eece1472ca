package election

import (
	"encoding/json"
	"fmt"

	"github.com/verivote/verivote"
	"github.com/verivote/verivote/contracts/election/types"
	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/core/execution"
	"github.com/verivote/verivote/core/store"
	"golang.org/x/xerrors"
)

// electionKey is the storage key of the singleton election aggregate.
var electionKey = []byte("election")

// voterPrefix namespaces the voter records inside the contract storage.
const voterPrefix = "voter:"

// electionCommand implements the commands of the election contract.
//
// - implements commands
type electionCommand struct {
	*Contract
}

// createElection implements commands. It performs the CREATE_ELECTION
// command. The caller becomes the creator of the election.
func (e electionCommand) createElection(snap store.Snapshot, step execution.Step) error {
	now := e.clock.Now().Unix()

	args := types.CreateElectionArgs{}
	err := decodeArg(step, CreateElectionArg, &args)
	if err != nil {
		return err
	}

	data, err := snap.Get(electionKey)
	if err != nil {
		return xerrors.Errorf("failed to get election: %v", err)
	}

	if len(data) > 0 {
		return types.ErrAlreadyCreated
	}

	if args.End <= args.Start {
		return xerrors.Errorf("start %d is not before end %d: %w",
			args.Start, args.End, types.ErrInvalidWindow)
	}

	if !e.cfg.DisableTimeWindow && args.End <= now {
		return xerrors.Errorf("end %d is not in the future: %w",
			args.End, types.ErrInvalidWindow)
	}

	creator, err := identityText(step)
	if err != nil {
		return err
	}

	election := types.Election{
		Creator:       creator,
		ElectionStart: args.Start,
		ElectionEnd:   args.End,
	}

	if e.cfg.SeedTallies != nil {
		election.CandidateAVotes = e.cfg.SeedTallies.CandidateA
		election.CandidateBVotes = e.cfg.SeedTallies.CandidateB
		election.TotalVoters = e.cfg.SeedTallies.CandidateA + e.cfg.SeedTallies.CandidateB
	}

	err = setElection(snap, election)
	if err != nil {
		return err
	}

	verivote.Logger.Info().
		Str("contract", ContractName).
		Str("creator", creator).
		Int64("start", args.Start).
		Int64("end", args.End).
		Msg("election created")

	return nil
}

// optInVoter implements commands. It performs the OPT_IN_VOTER command. A
// second registration of the same identity fails: opting in is not
// idempotent so that a replayed transaction is detected.
func (e electionCommand) optInVoter(snap store.Snapshot, step execution.Step) error {
	_, err := getElection(snap)
	if err != nil {
		return err
	}

	voter, err := identityText(step)
	if err != nil {
		return err
	}

	_, found, err := getVoter(snap, voter)
	if err != nil {
		return err
	}

	if found {
		return xerrors.Errorf("voter '%s': %w", voter, types.ErrAlreadyOptedIn)
	}

	err = setVoter(snap, voter, types.VoterRecord{OptedIn: true})
	if err != nil {
		return err
	}

	verivote.Logger.Debug().
		Str("contract", ContractName).
		Str("voter", voter).
		Msg("voter opted in")

	return nil
}

// castVote implements commands. It performs the CAST_VOTE command. The
// preconditions are checked in a fixed order so that the outcome is
// deterministic: window first, then the candidate, then the voter record.
func (e electionCommand) castVote(snap store.Snapshot, step execution.Step) error {
	now := e.clock.Now().Unix()

	args := types.CastVoteArgs{}
	err := decodeArg(step, CastVoteArg, &args)
	if err != nil {
		return err
	}

	election, err := getElection(snap)
	if err != nil {
		return err
	}

	if e.cfg.DisableTimeWindow {
		if election.Closed {
			return xerrors.Errorf("election is closed: %w", types.ErrVotingClosed)
		}
	} else {
		switch election.PhaseAt(now) {
		case types.Pending:
			return xerrors.Errorf("voting opens at %d: %w",
				election.ElectionStart, types.ErrNotYetStarted)
		case types.Ended, types.Closed:
			return xerrors.Errorf("voting ended at %d: %w",
				election.ElectionEnd, types.ErrVotingClosed)
		}
	}

	if args.CandidateID != types.CandidateA && args.CandidateID != types.CandidateB {
		return xerrors.Errorf("candidate '%d': %w", args.CandidateID, types.ErrInvalidCandidate)
	}

	voter, err := identityText(step)
	if err != nil {
		return err
	}

	record, found, err := getVoter(snap, voter)
	if err != nil {
		return err
	}

	if !found || !record.OptedIn {
		return xerrors.Errorf("voter '%s': %w", voter, types.ErrNotOptedIn)
	}

	if record.HasVoted {
		return xerrors.Errorf("voter '%s': %w", voter, types.ErrAlreadyVoted)
	}

	record.HasVoted = true
	record.VoteTimestamp = now
	record.ChosenCandidate = args.CandidateID

	if args.CandidateID == types.CandidateA {
		election.CandidateAVotes++
	} else {
		election.CandidateBVotes++
	}

	election.TotalVoters++

	err = setVoter(snap, voter, record)
	if err != nil {
		return err
	}

	err = setElection(snap, election)
	if err != nil {
		return err
	}

	verivote.Logger.Info().
		Str("contract", ContractName).
		Str("voter", voter).
		Uint64("candidate", args.CandidateID).
		Uint64("total", election.TotalVoters).
		Msg("ballot recorded")

	return nil
}

// closeElection implements commands. It performs the CLOSE_ELECTION command.
// Only the creator may close, only once the window ended, and only once: the
// report hash is immutable for the lifetime of the election.
func (e electionCommand) closeElection(snap store.Snapshot, step execution.Step) error {
	now := e.clock.Now().Unix()

	args := types.CloseElectionArgs{}
	err := decodeArg(step, CloseElectionArg, &args)
	if err != nil {
		return err
	}

	election, err := getElection(snap)
	if err != nil {
		return err
	}

	caller, err := identityText(step)
	if err != nil {
		return err
	}

	if election.Creator != caller {
		return xerrors.Errorf("caller '%s': %w", caller, types.ErrUnauthorized)
	}

	if election.Closed {
		return types.ErrAlreadyClosed
	}

	if !e.cfg.DisableTimeWindow && now < election.ElectionEnd {
		return xerrors.Errorf("voting ends at %d: %w",
			election.ElectionEnd, types.ErrTooEarly)
	}

	if len(args.ReportHash) == 0 {
		return xerrors.Errorf("empty hash: %w", types.ErrInvalidHash)
	}

	if len(args.ReportHash) > types.MaxReportHashSize {
		return xerrors.Errorf("hash is %d bytes: %w",
			len(args.ReportHash), types.ErrInvalidHash)
	}

	election.ReportHash = args.ReportHash
	election.Closed = true

	err = setElection(snap, election)
	if err != nil {
		return err
	}

	verivote.Logger.Info().
		Str("contract", ContractName).
		Uint64("candidate_a", election.CandidateAVotes).
		Uint64("candidate_b", election.CandidateBVotes).
		Hex("report", election.ReportHash).
		Msg("election closed")

	return nil
}

// results implements commands. It performs the RESULTS command.
func (e electionCommand) results(snap store.Snapshot) error {
	res, err := GetResults(snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.printer, "a=%d b=%d total=%d window=[%d,%d) closed=%v hash=%x",
		res.CandidateAVotes, res.CandidateBVotes, res.TotalVoters,
		res.ElectionStart, res.ElectionEnd, res.Closed, res.ReportHash)

	return nil
}

// voterStatus implements commands. It performs the VOTER_STATUS command.
// Without an argument the caller queries its own record.
func (e electionCommand) voterStatus(snap store.Snapshot, step execution.Step) error {
	voter := ""

	data := step.Current.GetArg(VoterStatusArg)
	if len(data) > 0 {
		args := types.VoterStatusArgs{}

		err := json.Unmarshal(data, &args)
		if err != nil {
			return xerrors.Errorf("failed to unmarshal '%s': %v", VoterStatusArg, err)
		}

		voter = args.Voter
	}

	if voter == "" {
		ident, err := identityText(step)
		if err != nil {
			return err
		}

		voter = ident
	}

	status, err := GetVoterStatus(snap, voter)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.printer, "voter=%s registered=%v has_voted=%v timestamp=%d",
		voter, status.Registered, status.HasVoted, status.VoteTimestamp)

	return nil
}

// GetResults returns the tally snapshot of the election. It is a pure read
// available to any identity in any phase once the election exists.
func GetResults(r store.Readable) (types.Results, error) {
	election, err := getElection(r)
	if err != nil {
		return types.Results{}, err
	}

	res := types.Results{
		CandidateAVotes: election.CandidateAVotes,
		CandidateBVotes: election.CandidateBVotes,
		TotalVoters:     election.TotalVoters,
		ElectionStart:   election.ElectionStart,
		ElectionEnd:     election.ElectionEnd,
		Closed:          election.Closed,
		ReportHash:      append([]byte{}, election.ReportHash...),
	}

	return res, nil
}

// GetVoterStatus returns the record snapshot of the voter. An identity that
// never opted in yields the zero value instead of an error.
func GetVoterStatus(r store.Readable, voter string) (types.VoterStatus, error) {
	record, found, err := getVoter(r, voter)
	if err != nil {
		return types.VoterStatus{}, err
	}

	if !found {
		return types.VoterStatus{}, nil
	}

	status := types.VoterStatus{
		Registered:    true,
		OptedIn:       record.OptedIn,
		HasVoted:      record.HasVoted,
		VoteTimestamp: record.VoteTimestamp,
	}

	return status, nil
}

// -----------------------------------------------------------------------------
// Storage helpers

func voterKey(voter string) []byte {
	return []byte(voterPrefix + voter)
}

func getElection(r store.Readable) (types.Election, error) {
	data, err := r.Get(electionKey)
	if err != nil {
		return types.Election{}, xerrors.Errorf("failed to get election: %v", err)
	}

	if len(data) == 0 {
		return types.Election{}, types.ErrElectionNotFound
	}

	election := types.Election{}

	err = json.Unmarshal(data, &election)
	if err != nil {
		return types.Election{}, xerrors.Errorf("failed to unmarshal election: %v", err)
	}

	return election, nil
}

func setElection(snap store.Snapshot, election types.Election) error {
	data, err := json.Marshal(&election)
	if err != nil {
		return xerrors.Errorf("failed to marshal election: %v", err)
	}

	err = snap.Set(electionKey, data)
	if err != nil {
		return xerrors.Errorf("failed to set election: %v", err)
	}

	return nil
}

func getVoter(r store.Readable, voter string) (types.VoterRecord, bool, error) {
	data, err := r.Get(voterKey(voter))
	if err != nil {
		return types.VoterRecord{}, false, xerrors.Errorf("failed to get voter: %v", err)
	}

	if len(data) == 0 {
		return types.VoterRecord{}, false, nil
	}

	record := types.VoterRecord{}

	err = json.Unmarshal(data, &record)
	if err != nil {
		return types.VoterRecord{}, false, xerrors.Errorf("failed to unmarshal voter: %v", err)
	}

	return record, true, nil
}

func setVoter(snap store.Snapshot, voter string, record types.VoterRecord) error {
	data, err := json.Marshal(&record)
	if err != nil {
		return xerrors.Errorf("failed to marshal voter: %v", err)
	}

	err = snap.Set(voterKey(voter), data)
	if err != nil {
		return xerrors.Errorf("failed to set voter: %v", err)
	}

	return nil
}

func decodeArg(step execution.Step, key string, out interface{}) error {
	data := step.Current.GetArg(key)
	if len(data) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", key)
	}

	err := json.Unmarshal(data, out)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal '%s': %v", key, err)
	}

	return nil
}

func identityText(step execution.Step) (string, error) {
	ident := step.Current.GetIdentity()
	if ident == nil {
		return "", xerrors.Errorf("transaction: %w", access.ErrMissingIdentity)
	}

	text, err := ident.MarshalText()
	if err != nil {
		return "", xerrors.Errorf("failed to serialize identity: %v", err)
	}

	return string(text), nil
}
