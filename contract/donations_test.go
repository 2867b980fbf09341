package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

func TestDonateTL(t *testing.T) {
	ct := SetupContractTest(t)
	ct.giveTL(t, bob, 50)
	requireReason(t, ct.DAO.DonateTLToken(env(bob), dao.TL(50)), contract.ErrInsufficientAllowance)

	require.NoError(t, ct.DAO.Approve(env(bob), sdk.AssetTL, ct.Treasury, dao.TL(50)))
	require.NoError(t, ct.DAO.DonateTLToken(env(bob), dao.TL(50)))
	amountsEqual(t, dao.TL(50), balance(t, ct, sdk.AssetTL, ct.Treasury))
	amountsEqual(t, dao.Zero(), balance(t, ct, sdk.AssetTL, bob))
	assert.Contains(t, ct.Sink.Lines(), "dn|as:tl|by:"+bob.String()+"|am:50000000000000000000")
}

func TestDonateMyGovWithoutCommitments(t *testing.T) {
	ct := SetupContractTest(t)
	ct.giveMyGov(t, bob, 2)
	require.NoError(t, ct.DAO.Approve(env(bob), sdk.AssetMyGov, ct.Treasury, dao.MyGov(2)))

	requireReason(t, ct.DAO.DonateMyGovToken(env(bob), dao.Zero()), contract.ErrInvalidAmount)
	// no open votes, so giving everything away is allowed
	require.NoError(t, ct.DAO.DonateMyGovToken(env(bob), dao.MyGov(2)))
	ok, err := ct.DAO.IsMember(bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDonateMyGovKeepsOneWhileCommitted(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.submitDefaultProject(t, alice)
	ct.giveMyGov(t, bob, 3)
	require.NoError(t, ct.DAO.Approve(env(bob), sdk.AssetMyGov, ct.Treasury, dao.MyGov(3)))
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(bob), id, true))

	open, err := ct.DAO.OpenCommitments(bob, defaultTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, open)

	requireReason(t, ct.DAO.DonateMyGovToken(env(bob), dao.MyGov(3)), contract.ErrInsufficientBalanceForDonation)
	require.NoError(t, ct.DAO.DonateMyGovToken(env(bob), dao.MyGov(2)))
	requireReason(t, ct.DAO.DonateMyGovToken(env(bob), dao.MyGov(1)), contract.ErrInsufficientBalanceForDonation)

	// once voting closed on a project that was never funded the commitment is gone
	require.NoError(t, ct.DAO.DonateMyGovToken(envAt(bob, voteDeadline), dao.MyGov(1)))
	open, err = ct.DAO.OpenCommitments(bob, voteDeadline)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestDelegationCountsAsCommitment(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.submitDefaultProject(t, alice)
	ct.giveMyGov(t, bob, 1)
	require.NoError(t, ct.DAO.Approve(env(bob), sdk.AssetMyGov, ct.Treasury, dao.MyGov(1)))
	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), alice, id))
	requireReason(t, ct.DAO.DonateMyGovToken(env(bob), dao.MyGov(1)), contract.ErrInsufficientBalanceForDonation)
}

func TestPaymentVoteCommitsUntilMilestoneDate(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.reservedProject(t)
	require.NoError(t, ct.DAO.VoteForProjectPayment(envAt(alice, voteDeadline+1), id, true))

	open, err := ct.DAO.OpenCommitments(alice, firstPayment-1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, open)
	open, err = ct.DAO.OpenCommitments(alice, firstPayment)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestRejectedDonationKeepsIndex(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.submitDefaultProject(t, alice)
	ct.giveMyGov(t, bob, 1)
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(bob), id, true))

	// no allowance, so the call fails after pruning and everything rolls back
	requireReason(t, ct.DAO.DonateMyGovToken(envAt(bob, voteDeadline), dao.MyGov(1)), contract.ErrInsufficientAllowance)
	open, err := ct.DAO.OpenCommitments(bob, defaultTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, open)
}
