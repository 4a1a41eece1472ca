package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestApp_Lifecycle(t *testing.T) {
	// Keep a rejected operation from exiting the test binary.
	exiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	defer func() { cli.OsExiter = exiter }()

	path := filepath.Join(t.TempDir(), "test.db")

	run := func(as string, args ...string) (string, error) {
		buffer := &bytes.Buffer{}

		app := makeApp()
		app.Writer = buffer

		argv := []string{"verivote", "--db", path, "--as", as, "--no-window"}
		err := app.Run(append(argv, args...))

		return buffer.String(), err
	}

	out, err := run("alice", "create", "--start", "100", "--end", "200")
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	_, err = run("bob", "create", "--start", "100", "--end", "200")
	require.EqualError(t, err,
		"operation rejected: failed to CREATE_ELECTION: an election already exists")

	out, err = run("bob", "optin")
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	_, err = run("bob", "vote", "--candidate", "3")
	require.EqualError(t, err,
		"operation rejected: failed to CAST_VOTE: candidate '3': invalid candidate")

	out, err = run("bob", "vote", "--candidate", "1")
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	_, err = run("bob", "vote", "--candidate", "2")
	require.EqualError(t, err,
		"operation rejected: failed to CAST_VOTE: voter 'bob': voter has already voted")

	out, err = run("carol", "results")
	require.NoError(t, err)
	require.Contains(t, out, "candidate A: 1\n")
	require.Contains(t, out, "total: 1\n")
	require.Contains(t, out, "closed: false\n")

	out, err = run("carol", "status", "--voter", "bob")
	require.NoError(t, err)
	require.Contains(t, out, "registered: true\n")
	require.Contains(t, out, "has voted: true\n")

	out, err = run("carol", "status")
	require.NoError(t, err)
	require.Contains(t, out, "registered: false\n")

	_, err = run("bob", "close", "--hash", "cafe")
	require.EqualError(t, err,
		"operation rejected: failed to CLOSE_ELECTION: caller 'bob': caller is not the creator")

	_, err = run("alice", "close", "--hash", "zz")
	require.ErrorContains(t, err, "failed to decode hash: ")

	out, err = run("alice", "close", "--hash", "cafe")
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	out, err = run("carol", "results")
	require.NoError(t, err)
	require.Contains(t, out, "closed: true\n")
	require.Contains(t, out, "report hash: cafe\n")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Empty(t, cfg.Identity)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorContains(t, err, "failed to read config: ")

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db: ledger.db\nidentity: alice\n"), 0o600))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "ledger.db", cfg.DB)
	require.Equal(t, "alice", cfg.Identity)

	require.NoError(t, os.WriteFile(path, []byte("\t"), 0o600))

	_, err = loadConfig(path)
	require.ErrorContains(t, err, "failed to parse config: ")
}
