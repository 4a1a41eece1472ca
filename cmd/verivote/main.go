// Package main provides the verivote binary, a caller adapter that submits
// authenticated operations to a local election ledger backed by bbolt.
//
// The binary trusts the --as flag as the authenticated identity: in a real
// deployment the wallet layer proves it before the transaction is built.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/verivote/verivote"
	"github.com/verivote/verivote/contracts/election"
	"github.com/verivote/verivote/contracts/election/types"
	"github.com/verivote/verivote/core/access/open"
	"github.com/verivote/verivote/core/clock"
	"github.com/verivote/verivote/core/execution/native"
	"github.com/verivote/verivote/core/ordering/serial"
	"github.com/verivote/verivote/core/store"
	"github.com/verivote/verivote/core/store/kv"
	"github.com/verivote/verivote/core/store/prefixed"
	"github.com/verivote/verivote/core/txn"
	"github.com/verivote/verivote/core/txn/authed"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

func main() {
	err := makeApp().Run(os.Args)
	if err != nil {
		verivote.Logger.Fatal().Err(err).Msg("command failed")
	}
}

// config is the optional YAML configuration of the binary. Flags take
// precedence over the file.
type config struct {
	DB       string `yaml:"db"`
	Identity string `yaml:"identity"`
}

func makeApp() *cli.App {
	return &cli.App{
		Name:  "verivote",
		Usage: "operate a local election ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path of the ledger database",
				Value: "verivote.db",
			},
			&cli.StringFlag{
				Name:  "as",
				Usage: "authenticated identity submitting the operation",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path of an optional YAML configuration file",
			},
			&cli.BoolFlag{
				Name:  "no-window",
				Usage: "disable the voting window checks (demo only)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create the election",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "start",
						Usage:    "unix time at which voting opens",
						Required: true,
					},
					&cli.Int64Flag{
						Name:     "end",
						Usage:    "unix time at which voting closes",
						Required: true,
					},
				},
				Action: createAction,
			},
			{
				Name:   "optin",
				Usage:  "register the caller as a voter",
				Action: optInAction,
			},
			{
				Name:  "vote",
				Usage: "cast the ballot of the caller",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "candidate",
						Usage:    "candidate identifier (1 or 2)",
						Required: true,
					},
				},
				Action: voteAction,
			},
			{
				Name:  "close",
				Usage: "seal the election with the report hash",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "hash",
						Usage:    "hex-encoded report hash",
						Required: true,
					},
				},
				Action: closeAction,
			},
			{
				Name:   "results",
				Usage:  "display the tally snapshot",
				Action: resultsAction,
			},
			{
				Name:  "status",
				Usage: "display the record of a voter",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "voter",
						Usage: "voter to query, defaults to the caller",
					},
				},
				Action: statusAction,
			},
		},
	}
}

func createAction(c *cli.Context) error {
	args := types.CreateElectionArgs{
		Start: c.Int64("start"),
		End:   c.Int64("end"),
	}

	return submit(c, election.CmdCreateElection, election.CreateElectionArg, args)
}

func optInAction(c *cli.Context) error {
	return submit(c, election.CmdOptInVoter, "", nil)
}

func voteAction(c *cli.Context) error {
	args := types.CastVoteArgs{
		CandidateID: c.Uint64("candidate"),
	}

	return submit(c, election.CmdCastVote, election.CastVoteArg, args)
}

func closeAction(c *cli.Context) error {
	hash, err := hex.DecodeString(c.String("hash"))
	if err != nil {
		return xerrors.Errorf("failed to decode hash: %v", err)
	}

	args := types.CloseElectionArgs{
		ReportHash: hash,
	}

	return submit(c, election.CmdCloseElection, election.CloseElectionArg, args)
}

func resultsAction(c *cli.Context) error {
	srvc, db, err := makeLedger(c)
	if err != nil {
		return err
	}

	defer db.Close()

	return srvc.View(func(r store.Readable) error {
		res, err := election.GetResults(prefixed.NewReadable(election.ContractUID, r))
		if err != nil {
			return xerrors.Errorf("failed to read results: %v", err)
		}

		fmt.Fprintf(c.App.Writer, "candidate A: %d\ncandidate B: %d\ntotal: %d\n",
			res.CandidateAVotes, res.CandidateBVotes, res.TotalVoters)
		fmt.Fprintf(c.App.Writer, "window: [%d, %d)\nclosed: %v\n",
			res.ElectionStart, res.ElectionEnd, res.Closed)

		if len(res.ReportHash) > 0 {
			fmt.Fprintf(c.App.Writer, "report hash: %x\n", res.ReportHash)
		}

		return nil
	})
}

func statusAction(c *cli.Context) error {
	srvc, db, err := makeLedger(c)
	if err != nil {
		return err
	}

	defer db.Close()

	voter := c.String("voter")
	if voter == "" {
		voter = identity(c)
	}

	return srvc.View(func(r store.Readable) error {
		status, err := election.GetVoterStatus(prefixed.NewReadable(election.ContractUID, r), voter)
		if err != nil {
			return xerrors.Errorf("failed to read status: %v", err)
		}

		fmt.Fprintf(c.App.Writer, "voter: %s\nregistered: %v\nhas voted: %v\n",
			voter, status.Registered, status.HasVoted)

		if status.HasVoted {
			fmt.Fprintf(c.App.Writer, "vote timestamp: %d\n", status.VoteTimestamp)
		}

		return nil
	})
}

// submit builds one authenticated transaction and applies it to the ledger.
// The outcome is the explicit result of the execution: a nil error with a
// rejected result means the operation was refused and nothing changed.
func submit(c *cli.Context, cmd election.Command, argKey string, payload interface{}) error {
	srvc, db, err := makeLedger(c)
	if err != nil {
		return err
	}

	defer db.Close()

	mgr := authed.NewManager(authed.Address(identity(c)))

	args := []txn.Arg{
		{Key: native.ContractArg, Value: []byte(election.ContractName)},
		{Key: election.CmdArg, Value: []byte(cmd)},
	}

	if argKey != "" {
		data, err := json.Marshal(payload)
		if err != nil {
			return xerrors.Errorf("failed to marshal payload: %v", err)
		}

		args = append(args, txn.Arg{Key: argKey, Value: data})
	}

	tx, err := mgr.Make(args...)
	if err != nil {
		return xerrors.Errorf("failed to make tx: %v", err)
	}

	res, err := srvc.Process(tx)
	if err != nil {
		return xerrors.Errorf("failed to process tx: %v", err)
	}

	if !res.Accepted {
		return cli.Exit(fmt.Sprintf("operation rejected: %s", res.Message), 1)
	}

	fmt.Fprintln(c.App.Writer, "ok")

	return nil
}

func makeLedger(c *cli.Context) (*serial.Service, kv.DB, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	path := c.String("db")
	if !c.IsSet("db") && cfg.DB != "" {
		path = cfg.DB
	}

	db, err := kv.New(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to open db: %v", err)
	}

	contract := election.NewContract(
		[]byte(election.ContractName),
		open.NewService(),
		clock.NewMonotonic(clock.System()),
		election.Config{DisableTimeWindow: c.Bool("no-window")},
	)

	exec := native.NewExecution()
	election.RegisterContract(exec, contract)

	return serial.NewService(db, exec), db, nil
}

func identity(c *cli.Context) string {
	ident := c.String("as")
	if ident != "" {
		return ident
	}

	cfg, err := loadConfig(c.String("config"))
	if err == nil && cfg.Identity != "" {
		return cfg.Identity
	}

	return "anonymous"
}

func loadConfig(path string) (config, error) {
	cfg := config{}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, xerrors.Errorf("failed to read config: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, xerrors.Errorf("failed to parse config: %v", err)
	}

	return cfg, nil
}
