package contract_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

func TestCallsBeforeInitialize(t *testing.T) {
	d := contract.New(sdk.NewMemoryStore())
	requireReason(t, d.Faucet(env(alice)), contract.ErrNotInitialized)
	_, err := d.MemberCount()
	requireReason(t, err, contract.ErrNotInitialized)
	assert.False(t, d.Initialized())
}

func TestInitializeOnce(t *testing.T) {
	ct := SetupContractTest(t)
	err := ct.DAO.Initialize(env(alice), contract.DefaultInitArgs())
	requireReason(t, err, contract.ErrAlreadyInitialized)

	cfg, err := ct.DAO.Config()
	require.NoError(t, err)
	assert.Equal(t, deployer, cfg.Deployer)
	amountsEqual(t, dao.TL(4000), cfg.ProjectFeeTL)
	amountsEqual(t, dao.MyGov(5), cfg.ProjectFeeMyGov)
	amountsEqual(t, dao.TL(1000), cfg.SurveyFeeTL)
	amountsEqual(t, dao.MyGov(2), cfg.SurveyFeeMyGov)
	assert.Equal(t, []string{"init|by:" + deployer.String() + "|tr:" + ct.Treasury.String() + "|sup:10000000"}, ct.Sink.Lines()[1:2])
}

func TestInitializeRejectsTreasuryEqualDeployer(t *testing.T) {
	d := contract.New(sdk.NewMemoryStore())
	args := contract.DefaultInitArgs()
	args.Treasury = deployer
	requireReason(t, d.Initialize(env(deployer), args), contract.ErrInvalidConfig)
	assert.False(t, d.Initialized())
}

func TestErrorMatching(t *testing.T) {
	ct := SetupContractTest(t)
	require.NoError(t, ct.DAO.Faucet(env(alice)))
	err := ct.DAO.Faucet(env(alice))
	assert.True(t, errors.Is(err, contract.ErrAlreadyDone))
	assert.True(t, errors.Is(err, contract.ErrAlreadyClaimed))
	assert.False(t, errors.Is(err, contract.ErrAlreadyVoted))
	assert.Equal(t, "already_claimed", contract.CodeOf(err))
	assert.Equal(t, contract.KindAlreadyDone, contract.KindOf(err))
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	ct := SetupContractTest(t)
	ct.giveMyGov(t, alice, 10)
	ct.giveTL(t, alice, 5000)
	// MyGov fee approved, TL fee not: the MyGov leg must roll back with the rest
	require.NoError(t, ct.DAO.Approve(env(alice), sdk.AssetMyGov, ct.Treasury, dao.MyGov(5)))

	keysBefore := ct.Store.Len()
	eventsBefore := len(ct.Sink.Events())
	_, err := ct.DAO.SubmitProjectProposal(env(alice), defaultProposal())
	requireReason(t, err, contract.ErrInsufficientAllowance)

	assert.Equal(t, keysBefore, ct.Store.Len())
	assert.Len(t, ct.Sink.Events(), eventsBefore)
	amountsEqual(t, dao.MyGov(10), balance(t, ct, sdk.AssetMyGov, alice))
	n, err := ct.DAO.GetNoOfProjectProposals()
	require.NoError(t, err)
	assert.Zero(t, n)
}

// reentrantSink calls back into the DAO from Publish, which must not deadlock.
type reentrantSink struct {
	d     *contract.DAO
	fired bool
	count uint64
	err   error
}

func (s *reentrantSink) Publish(ev sdk.Event) {
	if s.fired {
		return
	}
	s.fired = true
	s.count, s.err = s.d.MemberCount()
	if s.err == nil {
		s.err = s.d.Faucet(envAt(bob, ev.Timestamp))
	}
}

func TestSinkMayCallBackIntoDAO(t *testing.T) {
	store := sdk.NewMemoryStore()
	sink := &reentrantSink{}
	d := contract.New(store, contract.WithSink(sink))
	sink.d = d

	done := make(chan error, 1)
	go func() { done <- d.Initialize(env(deployer), contract.DefaultInitArgs()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock: sink could not call back into the DAO")
	}
	require.NoError(t, sink.err)
	assert.Equal(t, uint64(1), sink.count)
	ok, err := d.IsMember(bob)
	require.NoError(t, err)
	assert.True(t, ok)
}

type recordingObserver struct {
	mu      sync.Mutex
	actions []string
	errs    []error
}

func (o *recordingObserver) ObserveCall(action string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = append(o.actions, action)
	o.errs = append(o.errs, err)
}

func TestObserverSeesEveryCall(t *testing.T) {
	obs := &recordingObserver{}
	d := contract.New(sdk.NewMemoryStore(), contract.WithObserver(obs))
	require.NoError(t, d.Initialize(env(deployer), contract.DefaultInitArgs()))
	require.NoError(t, d.Faucet(env(alice)))
	require.Error(t, d.Faucet(env(alice)))

	assert.Equal(t, []string{"init", "faucet", "faucet"}, obs.actions)
	assert.NoError(t, obs.errs[1])
	assert.True(t, errors.Is(obs.errs[2], contract.ErrAlreadyClaimed))
}

func TestConcurrentFaucetClaims(t *testing.T) {
	ct := SetupContractTest(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = ct.DAO.Faucet(env(addrN(i % 10)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, uint64(11), memberCount(t, ct))
	supply, err := ct.DAO.TotalSupply(sdk.AssetMyGov)
	require.NoError(t, err)
	amountsEqual(t, dao.MyGov(contract.DefaultInitialSupply+10), supply)
}

func TestStats(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.reservedProject(t)
	require.Equal(t, uint64(0), id)

	s, err := ct.DAO.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Members)
	assert.Equal(t, uint64(1), s.Projects)
	assert.Equal(t, uint64(1), s.FundedProjects)
	amountsEqual(t, dao.TL(4000), s.TreasuryTL)
	amountsEqual(t, dao.TL(300), s.ReservedTL)
}

func TestUnsavedCommitIsRolledBack(t *testing.T) {
	store, err := sdk.NewFileStore(filepath.Join(t.TempDir(), "missing", "state.json"))
	require.NoError(t, err)
	sink := &sdk.MemorySink{}
	d := contract.New(store, contract.WithSink(sink))

	err = d.Initialize(env(deployer), contract.DefaultInitArgs())
	requireReason(t, err, contract.ErrInternal)
	assert.False(t, d.Initialized())
	assert.Empty(t, sink.Lines())

	// the retry hits the same disk error instead of ErrAlreadyInitialized
	requireReason(t, d.Initialize(env(deployer), contract.DefaultInitArgs()), contract.ErrInternal)
}
