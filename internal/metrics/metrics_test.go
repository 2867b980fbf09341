package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/internal/metrics"
	"mygov_dao/sdk"
)

var (
	deployer = sdk.MustAddress("0x1000000000000000000000000000000000000001")
	alice    = sdk.MustAddress("0x2000000000000000000000000000000000000002")
)

func TestCallsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	calls := metrics.NewCalls(reg)
	d := contract.New(sdk.NewMemoryStore(), contract.WithObserver(calls))

	require.NoError(t, d.Initialize(sdk.NewEnv(deployer, 1), contract.DefaultInitArgs()))
	require.NoError(t, d.Faucet(sdk.NewEnv(alice, 2)))
	require.Error(t, d.Faucet(sdk.NewEnv(alice, 3)))

	expected := `
# HELP mygov_contract_calls_total Contract calls by action and outcome (ok or the error kind)
# TYPE mygov_contract_calls_total counter
mygov_contract_calls_total{action="faucet",outcome="already_done"} 1
mygov_contract_calls_total{action="faucet",outcome="ok"} 1
mygov_contract_calls_total{action="init",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mygov_contract_calls_total"))

	n, err := testutil.GatherAndCount(reg, "mygov_contract_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one histogram per action")
}

func TestStatsCollector(t *testing.T) {
	d := contract.New(sdk.NewMemoryStore())
	collector := metrics.NewStatsCollector(d, nil)

	// before init only the initialized gauge is reported
	assert.Equal(t, 1, testutil.CollectAndCount(collector))

	require.NoError(t, d.Initialize(sdk.NewEnv(deployer, 1), contract.DefaultInitArgs()))
	require.NoError(t, d.Faucet(sdk.NewEnv(alice, 2)))

	expected := `
# HELP mygov_dao_members Accounts holding at least one MyGov, treasury excluded
# TYPE mygov_dao_members gauge
mygov_dao_members 2
# HELP mygov_dao_token_supply Total supply in whole tokens
# TYPE mygov_dao_token_supply gauge
mygov_dao_token_supply{asset="mygov"} 1.0000001e+07
mygov_dao_token_supply{asset="tl"} 0
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected), "mygov_dao_members", "mygov_dao_token_supply"))
	problems, err := testutil.CollectAndLint(collector)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
