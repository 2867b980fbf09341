package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/sdk"
)

func TestUnknownAction(t *testing.T) {
	ct := SetupContractTest(t)
	_, err := CallContract(t, ct, "steal", "", alice, false)
	requireReason(t, err, contract.ErrUnknownAction)

	_, err = ct.DAO.Query("nope", "", defaultTimestamp)
	requireReason(t, err, contract.ErrUnknownAction)
}

func TestActionsAreSorted(t *testing.T) {
	actions := contract.Actions()
	assert.Contains(t, actions, "withdraw")
	assert.Contains(t, actions, "donate_mygov")
	assert.IsIncreasing(t, actions)
}

func TestPayloadErrors(t *testing.T) {
	ct := SetupContractTest(t)
	cases := []struct {
		action  string
		payload string
		reason  *contract.Error
	}{
		{"vote", "", contract.ErrInvalidPayload},
		{"vote", "x|true", contract.ErrInvalidPayload},
		{"vote", "0", contract.ErrInvalidPayload},
		{"vote", "0|ture", contract.ErrInvalidPayload},
		{"payment_vote", "0|", contract.ErrInvalidPayload},
		{"payment_vote", "0|maybe", contract.ErrInvalidPayload},
		{"transfer", "doge|" + bob.String() + "|1", contract.ErrInvalidAsset},
		{"transfer", "mygov||1", contract.ErrInvalidPayload},
		{"transfer", "mygov|" + bob.String() + "|1.5", contract.ErrInvalidPayload},
		{"transfer", "mygov|0x12|1", contract.ErrInvalidAddress},
		{"take_survey", "0|a,b", contract.ErrInvalidPayload},
		{"submit_project", "https://x|soon|1|2", contract.ErrInvalidPayload},
	}
	for _, tc := range cases {
		t.Run(tc.action+"/"+tc.payload, func(t *testing.T) {
			_, err := CallContract(t, ct, tc.action, tc.payload, deployer, false)
			requireReason(t, err, tc.reason)
		})
	}
}

func TestGarbledChoiceIsNotAVote(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.submitDefaultProject(t, alice)
	ct.giveMyGov(t, bob, 1)

	for _, payload := range []string{idPayload(id), idPayload(id) + "|ture", idPayload(id) + "|2"} {
		_, err := CallContract(t, ct, "vote", payload, bob, false)
		requireReason(t, err, contract.ErrInvalidPayload)
	}
	yes, no, err := ct.DAO.GetNumOfVotes(id)
	require.NoError(t, err)
	assert.Zero(t, yes)
	assert.Zero(t, no)
	voted, err := ct.DAO.HasVoted(bob, id)
	require.NoError(t, err)
	assert.False(t, voted)

	CallContract(t, ct, "vote", idPayload(id)+"|false", bob, true)
	_, no, err = ct.DAO.GetNumOfVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), no)
}

func TestTransferViaQuotedPayload(t *testing.T) {
	ct := SetupContractTest(t)
	ret, _ := CallContract(t, ct, "transfer", `"tl|`+alice.String()+`|0"`, deployer, false)
	assert.Empty(t, ret)

	ct.giveTL(t, deployer, 3)
	ret, _ = CallContract(t, ct, "transfer", `"tl|`+alice.String()+`|2.5"`, deployer, true)
	assert.Equal(t, "ok", ret)

	bal, err := ct.DAO.Query("balance", "tl|"+alice.String(), defaultTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "2.5", bal)
}

func TestQueryViews(t *testing.T) {
	ct := SetupContractTest(t)
	id := ct.reservedProject(t)

	member, err := ct.DAO.Query("member", alice.String(), defaultTimestamp)
	require.NoError(t, err)
	assert.Equal(t, true, member)

	res, err := ct.DAO.Query("project", idPayload(id), voteDeadline+1)
	require.NoError(t, err)
	info, ok := res.(contract.ProjectInfo)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, alice, info.Owner)

	res, err = ct.DAO.Query("projects", "0|5", defaultTimestamp)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = ct.DAO.Query("stats", "", defaultTimestamp)
	require.NoError(t, err)
	stats, ok := res.(contract.Stats)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, uint64(1), stats.FundedProjects)

	res, err = ct.DAO.Query("commitments", alice.String(), defaultTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, res)

	_, err = ct.DAO.Query("project", "17", defaultTimestamp)
	requireReason(t, err, contract.ErrProjectNotFound)
}

func TestMintTLViaPayload(t *testing.T) {
	ct := SetupContractTest(t)
	_, err := CallContract(t, ct, "mint_tl", alice.String()+"|10", alice, false)
	requireReason(t, err, contract.ErrNotDeployer)

	open := SetupContractTest(t, func(a *contract.InitArgs) { a.OpenTLMint = true })
	CallContract(t, open, "mint_tl", alice.String()+"|10", alice, true)
	bal, err := open.DAO.BalanceOf(sdk.AssetTL, alice)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000", bal.Dec())
}
