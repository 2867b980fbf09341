package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/sdk"
)

// delegationSetup gives bob, carol and dave one MyGov each on top of alice's project.
func delegationSetup(t *testing.T) (*contractTest, uint64) {
	t.Helper()
	ct := SetupContractTest(t)
	id := ct.submitDefaultProject(t, alice)
	ct.giveMyGov(t, bob, 1)
	ct.giveMyGov(t, carol, 1)
	ct.giveMyGov(t, dave, 1)
	return ct, id
}

// Scenario D: delegated weight is cast by the delegatee.
func TestDelegatedWeightIsCastByDelegatee(t *testing.T) {
	ct, id := delegationSetup(t)
	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))

	w, err := ct.DAO.PendingWeight(carol, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), w)

	require.NoError(t, ct.DAO.VoteForProjectProposal(env(carol), id, true))
	yes, _, err := ct.DAO.GetNumOfVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), yes)

	for _, a := range []sdk.Address{bob, carol} {
		voted, err := ct.DAO.HasVoted(a, id)
		require.NoError(t, err)
		assert.True(t, voted, a.String())
	}
	assert.Contains(t, ct.Sink.Lines(), "dg|id:0|by:"+bob.String()+"|to:"+carol.String())
	assert.Contains(t, ct.Sink.Lines(), "v|id:0|by:"+carol.String()+"|c:true|w:2")

	// the delegator cannot vote on top
	requireReason(t, ct.DAO.VoteForProjectProposal(env(bob), id, false), contract.ErrAlreadyVoted)
}

// Scenario E: self delegation fails regardless of membership.
func TestSelfDelegationRejected(t *testing.T) {
	ct, id := delegationSetup(t)
	requireReason(t, ct.DAO.DelegateVoteTo(env(bob), bob, id), contract.ErrSelfDelegation)
	requireReason(t, ct.DAO.DelegateVoteTo(env(outsider), outsider, id), contract.ErrSelfDelegation)
	// even after the window closed
	requireReason(t, ct.DAO.DelegateVoteTo(envAt(outsider, voteDeadline), outsider, id), contract.ErrSelfDelegation)
}

func TestDelegationOrderOfChecks(t *testing.T) {
	ct, id := delegationSetup(t)

	requireReason(t, ct.DAO.DelegateVoteTo(env(bob), carol, 42), contract.ErrProjectNotFound)
	requireReason(t, ct.DAO.DelegateVoteTo(envAt(bob, voteDeadline), carol, id), contract.ErrVotingClosed)
	requireReason(t, ct.DAO.DelegateVoteTo(env(outsider), carol, id), contract.ErrNotMember)
	requireReason(t, ct.DAO.DelegateVoteTo(env(bob), outsider, id), contract.ErrDelegateeNotMember)

	require.NoError(t, ct.DAO.VoteForProjectProposal(env(dave), id, true))
	requireReason(t, ct.DAO.DelegateVoteTo(env(dave), carol, id), contract.ErrAlreadyVoted)
	requireReason(t, ct.DAO.DelegateVoteTo(env(bob), dave, id), contract.ErrDelegateeAlreadyVoted)

	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))
	requireReason(t, ct.DAO.DelegateVoteTo(env(bob), alice, id), contract.ErrAlreadyDelegated)
	requireReason(t, ct.DAO.VoteForProjectProposal(env(bob), id, true), contract.ErrAlreadyDelegated)
}

func TestDelegationChainCollapses(t *testing.T) {
	ct, id := delegationSetup(t)
	// bob -> carol, then carol -> dave: both weights end up with dave
	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))
	require.NoError(t, ct.DAO.DelegateVoteTo(env(carol), dave, id))

	w, err := ct.DAO.PendingWeight(dave, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), w)
	w, err = ct.DAO.PendingWeight(carol, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), w)

	// alice delegates to bob, whose chain already ends at dave
	require.NoError(t, ct.DAO.DelegateVoteTo(env(alice), bob, id))
	to, ok, err := ct.DAO.DelegatedTo(alice, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bob, to)

	require.NoError(t, ct.DAO.VoteForProjectProposal(env(dave), id, false))
	_, no, err := ct.DAO.GetNumOfVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), no)
}

func TestDelegationCycleRejected(t *testing.T) {
	ct, id := delegationSetup(t)
	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))
	require.NoError(t, ct.DAO.DelegateVoteTo(env(carol), dave, id))
	requireReason(t, ct.DAO.DelegateVoteTo(env(dave), bob, id), contract.ErrSelfDelegation)
}

func TestDelegationIsPerProject(t *testing.T) {
	ct, id := delegationSetup(t)
	ct.newProposer(t, carol)
	other, err := ct.DAO.SubmitProjectProposal(env(carol), defaultProposal())
	require.NoError(t, err)

	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))
	// the delegation on id does not touch the other project
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(bob), other, true))
	yes, _, err := ct.DAO.GetNumOfVotes(other)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), yes)
}

// Every address marked as voted accounts for exactly one unit of the tally.
func TestVoterCountMatchesTally(t *testing.T) {
	ct, id := delegationSetup(t)
	for i := 1; i <= 6; i++ {
		ct.giveMyGov(t, addrN(i), 1)
	}

	// direct votes
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(addrN(1)), id, true))
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(addrN(2)), id, false))
	// single delegation
	require.NoError(t, ct.DAO.DelegateVoteTo(env(addrN(3)), addrN(4), id))
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(addrN(4)), id, false))
	// alice -> bob -> carol -> dave collapses onto dave
	require.NoError(t, ct.DAO.DelegateVoteTo(env(bob), carol, id))
	require.NoError(t, ct.DAO.DelegateVoteTo(env(carol), dave, id))
	require.NoError(t, ct.DAO.DelegateVoteTo(env(alice), bob, id))
	require.NoError(t, ct.DAO.VoteForProjectProposal(env(dave), id, true))
	// a delegation whose end never votes counts for nobody
	require.NoError(t, ct.DAO.DelegateVoteTo(env(addrN(6)), addrN(5), id))

	participants := []sdk.Address{deployer, alice, bob, carol, dave, outsider}
	for i := 1; i <= 6; i++ {
		participants = append(participants, addrN(i))
	}
	var voters uint64
	for _, a := range participants {
		voted, err := ct.DAO.HasVoted(a, id)
		require.NoError(t, err)
		if voted {
			voters++
		}
	}

	yes, no, err := ct.DAO.GetNumOfVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), yes)
	assert.Equal(t, uint64(3), no)
	assert.Equal(t, yes+no, voters)

	for _, a := range []sdk.Address{addrN(5), addrN(6), deployer} {
		voted, err := ct.DAO.HasVoted(a, id)
		require.NoError(t, err)
		assert.False(t, voted, a.String())
	}
}
