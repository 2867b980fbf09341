package contract_test

import (
	"errors"
	"math/big"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// 2025-09-03T00:00:00Z
const defaultTimestamp int64 = 1756857600

var (
	deployer = sdk.MustAddress("0x1000000000000000000000000000000000000001")
	alice    = sdk.MustAddress("0x2000000000000000000000000000000000000002")
	bob      = sdk.MustAddress("0x3000000000000000000000000000000000000003")
	carol    = sdk.MustAddress("0x4000000000000000000000000000000000000004")
	dave     = sdk.MustAddress("0x5000000000000000000000000000000000000005")
	outsider = sdk.MustAddress("0x6000000000000000000000000000000000000006")
)

// default project timeline relative to defaultTimestamp
const (
	voteDeadline = defaultTimestamp + 100
	firstPayment = defaultTimestamp + 200
	lastPayment  = defaultTimestamp + 300
)

type contractTest struct {
	DAO      *contract.DAO
	Store    *sdk.MemoryStore
	Sink     *sdk.MemorySink
	Treasury sdk.Address
}

// SetupContractTest returns an initialized DAO on a fresh memory store.
func SetupContractTest(t *testing.T, tweaks ...func(*contract.InitArgs)) *contractTest {
	t.Helper()
	store := sdk.NewMemoryStore()
	sink := &sdk.MemorySink{}
	d := contract.New(store, contract.WithSink(sink))
	args := contract.DefaultInitArgs()
	for _, tweak := range tweaks {
		tweak(&args)
	}
	require.NoError(t, d.Initialize(sdk.NewEnv(deployer, defaultTimestamp), args))
	treasury, err := d.Treasury()
	require.NoError(t, err)
	return &contractTest{DAO: d, Store: store, Sink: sink, Treasury: treasury}
}

func envAt(sender sdk.Address, ts int64) sdk.Env {
	return sdk.NewEnv(sender, ts)
}

func env(sender sdk.Address) sdk.Env {
	return envAt(sender, defaultTimestamp)
}

// addrN gives distinct throwaway addresses for crowd tests.
func addrN(i int) sdk.Address {
	return sdk.AddressFromCommon(common.BigToAddress(big.NewInt(int64(0x10000 + i))))
}

// CallContract executes a pipe payload action at the default timestamp and asserts the outcome.
func CallContract(t *testing.T, ct *contractTest, action, payload string, caller sdk.Address, expectedResult bool) (string, error) {
	t.Helper()
	return CallContractAt(t, ct, action, payload, caller, expectedResult, defaultTimestamp)
}

// CallContractAt lets tests override the timestamp for window checks.
func CallContractAt(t *testing.T, ct *contractTest, action, payload string, caller sdk.Address, expectedResult bool, ts int64) (string, error) {
	t.Helper()
	ret, err := ct.DAO.Call(envAt(caller, ts), action, payload)
	if expectedResult {
		assert.NoError(t, err, "contract action %s failed", action)
	} else {
		assert.Error(t, err, "contract action %s did not fail (as expected)", action)
	}
	return ret, err
}

// giveMyGov hands out MyGov from the deployer's initial supply.
func (ct *contractTest) giveMyGov(t *testing.T, to sdk.Address, units uint64) {
	t.Helper()
	require.NoError(t, ct.DAO.SendTokens(env(deployer), to, dao.MyGov(units)))
}

// giveTL mints whole TL tokens.
func (ct *contractTest) giveTL(t *testing.T, to sdk.Address, whole uint64) {
	t.Helper()
	require.NoError(t, ct.DAO.MintTL(env(deployer), to, dao.TL(whole)))
}

// approveTreasury lets the treasury pull fees or donations from who.
func (ct *contractTest) approveTreasury(t *testing.T, who sdk.Address, mygov, tlWhole uint64) {
	t.Helper()
	require.NoError(t, ct.DAO.Approve(env(who), sdk.AssetMyGov, ct.Treasury, dao.MyGov(mygov)))
	require.NoError(t, ct.DAO.Approve(env(who), sdk.AssetTL, ct.Treasury, dao.TL(tlWhole)))
}

// newProposer funds who with enough to pay one project fee and stay a member.
func (ct *contractTest) newProposer(t *testing.T, who sdk.Address) {
	t.Helper()
	ct.giveMyGov(t, who, 10)
	ct.giveTL(t, who, 5000)
	ct.approveTreasury(t, who, 5, 4000)
}

func defaultProposal() contract.ProjectProposal {
	return contract.ProjectProposal{
		WebURL:         "https://example.org/grant",
		VoteDeadline:   voteDeadline,
		PaymentAmounts: []*uint256.Int{dao.TL(100), dao.TL(200)},
		PaySchedule:    []int64{firstPayment, lastPayment},
	}
}

// submitDefaultProject creates the default project owned by owner.
func (ct *contractTest) submitDefaultProject(t *testing.T, owner sdk.Address) uint64 {
	t.Helper()
	ct.newProposer(t, owner)
	id, err := ct.DAO.SubmitProjectProposal(env(owner), defaultProposal())
	require.NoError(t, err)
	return id
}

// reservedProject submits, passes and reserves a project owned by alice.
func (ct *contractTest) reservedProject(t *testing.T) uint64 {
	t.Helper()
	id := ct.submitDefaultProject(t, alice)
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(alice), id, true))
	require.NoError(t, ct.DAO.ReserveProjectGrant(envAt(alice, voteDeadline+1), id))
	return id
}

func balance(t *testing.T, ct *contractTest, asset sdk.Asset, addr sdk.Address) *uint256.Int {
	t.Helper()
	bal, err := ct.DAO.BalanceOf(asset, addr)
	require.NoError(t, err)
	return bal
}

func memberCount(t *testing.T, ct *contractTest) uint64 {
	t.Helper()
	n, err := ct.DAO.MemberCount()
	require.NoError(t, err)
	return n
}

// requireReason asserts the specific rejection and that it kept its kind.
func requireReason(t *testing.T, err error, reason *contract.Error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, reason), "want %s, got %v", reason.Code, err)
	require.Equal(t, reason.Kind, contract.KindOf(err))
}

func idPayload(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// amountsEqual compares uint256 values with a readable failure.
func amountsEqual(t *testing.T, want, got *uint256.Int) {
	t.Helper()
	require.Equal(t, want.Dec(), got.Dec())
}
