// Package election implements the native contract that runs a two-candidate
// election: one identity creates it, registered identities cast at most one
// ballot inside the voting window, and the creator seals the final tally
// with an externally computed report hash.
//
// The contract is written for a total-order execution model: the ordering
// service applies one transaction at a time to completion, so the contract
// holds no lock and either mutates the snapshot entirely or not at all.
package election

import (
	"io"

	"github.com/verivote/verivote"
	"github.com/verivote/verivote/core/access"
	"github.com/verivote/verivote/core/clock"
	"github.com/verivote/verivote/core/execution"
	"github.com/verivote/verivote/core/execution/native"
	"github.com/verivote/verivote/core/store"
	"golang.org/x/xerrors"
)

// commands defines the commands of the election contract. This interface
// helps in testing the contract.
type commands interface {
	createElection(snap store.Snapshot, step execution.Step) error
	optInVoter(snap store.Snapshot, step execution.Step) error
	castVote(snap store.Snapshot, step execution.Step) error
	closeElection(snap store.Snapshot, step execution.Step) error
	results(snap store.Snapshot) error
	voterStatus(snap store.Snapshot, step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "github.com/verivote/verivote.Election"

	// ContractUID is the unique 4-byte identifier of the contract.
	ContractUID = "ELEC"

	// CmdArg is the argument's name to indicate the kind of command we want
	// to run on the contract. Should be one of the Command type.
	CmdArg = "election:command"

	// CreateElectionArg is the argument's name in the transaction that
	// contains the voting window of the election to create.
	CreateElectionArg = "election:create"

	// CastVoteArg is the argument's name in the transaction that contains
	// the ballot.
	CastVoteArg = "election:cast_vote"

	// CloseElectionArg is the argument's name in the transaction that
	// contains the report hash sealing the election.
	CloseElectionArg = "election:close"

	// VoterStatusArg is the argument's name in the transaction that names
	// the voter to query. When absent, the caller queries itself.
	VoterStatusArg = "election:voter_status"

	// credentialAllCommand defines the credential command that is allowed to
	// perform all commands.
	credentialAllCommand = "all"
)

// Command defines a type of command for the election contract.
type Command string

const (
	// CmdCreateElection defines the command to create the election.
	CmdCreateElection Command = "CREATE_ELECTION"

	// CmdOptInVoter defines the command to register the caller as a voter.
	CmdOptInVoter Command = "OPT_IN_VOTER"

	// CmdCastVote defines the command to record the ballot of the caller.
	CmdCastVote Command = "CAST_VOTE"

	// CmdCloseElection defines the command to seal the election with the
	// report hash.
	CmdCloseElection Command = "CLOSE_ELECTION"

	// CmdResults defines the command to display the tally snapshot.
	CmdResults Command = "RESULTS"

	// CmdVoterStatus defines the command to display the record of a voter.
	CmdVoterStatus Command = "VOTER_STATUS"
)

// Tally is a pair of counters, one per candidate.
type Tally struct {
	CandidateA uint64
	CandidateB uint64
}

// Config defines the behavior of the contract that may differ between a
// production and a demo deployment. Tests and demos inject the value they
// need instead of flipping a global flag.
type Config struct {
	// DisableTimeWindow skips the voting window checks so that an election
	// can be exercised without waiting. Production keeps it false.
	DisableTimeWindow bool

	// SeedTallies pre-loads the counters at creation. Nil starts from zero.
	SeedTallies *Tally
}

// NewCreds creates new credentials for an election contract execution.
func NewCreds(id []byte) access.Credential {
	return access.NewContractCreds(id, ContractName, credentialAllCommand)
}

// RegisterContract registers the election contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the smart contract recording the election.
//
// - implements native.Contract
type Contract struct {
	// access is the access control service managing this smart contract.
	access access.Service

	// accessKey is the access identifier allowed to use this smart
	// contract.
	accessKey []byte

	// clock supplies the current time. It is read at most once per
	// operation.
	clock clock.Clock

	// cfg tunes the contract for production or demo deployments.
	cfg Config

	// cmd provides the commands that can be executed by this smart
	// contract.
	cmd commands

	// printer is the output used by the RESULTS and VOTER_STATUS commands.
	printer io.Writer
}

// NewContract creates a new election contract.
func NewContract(aKey []byte, srvc access.Service, clk clock.Clock, cfg Config) Contract {
	contract := Contract{
		access:    srvc,
		accessKey: aKey,
		clock:     clk,
		cfg:       cfg,
		printer:   infoLog{},
	}

	contract.cmd = electionCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	creds := NewCreds(c.accessKey)

	err := c.access.Match(snap, creds, step.Current.GetIdentity())
	if err != nil {
		return xerrors.Errorf("identity not authorized: %v (%v)",
			step.Current.GetIdentity(), err)
	}

	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdCreateElection:
		err := c.cmd.createElection(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CREATE_ELECTION: %w", err)
		}
	case CmdOptInVoter:
		err := c.cmd.optInVoter(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to OPT_IN_VOTER: %w", err)
		}
	case CmdCastVote:
		err := c.cmd.castVote(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CAST_VOTE: %w", err)
		}
	case CmdCloseElection:
		err := c.cmd.closeElection(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CLOSE_ELECTION: %w", err)
		}
	case CmdResults:
		err := c.cmd.results(snap)
		if err != nil {
			return xerrors.Errorf("failed to RESULTS: %w", err)
		}
	case CmdVoterStatus:
		err := c.cmd.voterStatus(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to VOTER_STATUS: %w", err)
		}
	default:
		return xerrors.Errorf("unknown command: %s", cmd)
	}

	return nil
}

// UID implements native.Contract. It returns the unique identifier of the
// contract.
func (c Contract) UID() string {
	return ContractUID
}

// infoLog defines an output using zerolog.
//
// - implements io.Writer
type infoLog struct{}

func (h infoLog) Write(p []byte) (int, error) {
	verivote.Logger.Info().Msg(string(p))

	return len(p), nil
}
