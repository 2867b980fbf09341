package cmd_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/cmd"
	"mygov_dao/contract"
)

const (
	deployer = "0x1000000000000000000000000000000000000001"
	alice    = "0x2000000000000000000000000000000000000002"
)

// writeConfig points a file backed node at a temp dir.
func writeConfig(t *testing.T) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "mygov.yaml")
	body := fmt.Sprintf(`
store:
  backend: file
  dir: %s
log:
  level: error
  events_file: %s
contract:
  deployer: "%s"
metrics:
  enabled: false
`, filepath.Join(dir, "state"), filepath.Join(dir, "events.jsonl"), deployer)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestInitCallView(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "treasury 0x"), out)

	_, err = runCLI(t, "--config", cfgPath, "init")
	require.ErrorIs(t, err, contract.ErrAlreadyInitialized)

	out, err = runCLI(t, "--config", cfgPath, "call", "faucet", "--from", alice)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = runCLI(t, "--config", cfgPath, "call", "faucet", "--from", alice)
	require.ErrorIs(t, err, contract.ErrAlreadyClaimed)

	out, err = runCLI(t, "--config", cfgPath, "view", "member", alice)
	require.NoError(t, err)
	assert.Equal(t, "true", out)

	out, err = runCLI(t, "--config", cfgPath, "view", "balance", "mygov|"+alice)
	require.NoError(t, err)
	assert.Equal(t, `"1"`, out)

	journal, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	require.NoError(t, err)
	// init and the first faucet each log a mint line next to their own; the rejected faucet logs nothing
	lines := strings.Split(strings.TrimSpace(string(journal)), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines[:2] {
		assert.Contains(t, line, `"action":"init"`)
	}
	for _, line := range lines[2:] {
		assert.Contains(t, line, `"action":"faucet"`)
	}
	assert.Contains(t, lines[3], `"line":"fc|to:`+alice)
}

func TestCallNeedsSender(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mygov.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: memory\nmetrics:\n  enabled: false\n"), 0o600))

	_, err := runCLI(t, "--config", cfgPath, "call", "faucet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sender")
}

func TestUnknownActionAndBadConfig(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := runCLI(t, "--config", cfgPath, "call", "explode", "--from", alice)
	require.ErrorIs(t, err, contract.ErrUnknownAction)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("store:\n  backend: floppy\n"), 0o600))
	_, err = runCLI(t, "--config", bad, "actions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestActions(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "actions")
	require.NoError(t, err)
	names := strings.Split(out, "\n")
	assert.Equal(t, contract.Actions(), names)
	assert.Contains(t, names, "faucet")
}

func TestOpenFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the store and events dirs should go
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"store dir", "store:\n  backend: file\n  dir: %[1]s/state\n", "create store dir"},
		{"events dir", "store:\n  backend: memory\nlog:\n  events_file: %[1]s/events.jsonl\n", "create events dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "mygov.yaml")
			body := fmt.Sprintf(tc.body, blocker) + "metrics:\n  enabled: false\n"
			require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

			root := cmd.NewRootCmd()
			var out, errOut bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&errOut)
			root.SetArgs([]string{"--config", cfgPath, "view", "stats"})
			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, errOut.String(), "open node")
		})
	}
}
