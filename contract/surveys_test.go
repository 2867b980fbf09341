package contract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

const surveyDeadline = defaultTimestamp + 50

func defaultSurvey() contract.SurveyProposal {
	return contract.SurveyProposal{
		WebURL:       "https://example.org/poll",
		Deadline:     surveyDeadline,
		NumChoices:   4,
		AtMostChoice: 2,
	}
}

// newSurveyor funds who for one survey fee with MyGov to spare.
func (ct *contractTest) newSurveyor(t *testing.T, who sdk.Address) {
	t.Helper()
	ct.giveMyGov(t, who, 5)
	ct.giveTL(t, who, 1000)
	ct.approveTreasury(t, who, 2, 1000)
}

func TestSubmitSurvey(t *testing.T) {
	ct := SetupContractTest(t)
	ct.newSurveyor(t, alice)
	id, err := ct.DAO.SubmitSurvey(env(alice), defaultSurvey())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	amountsEqual(t, dao.MyGov(3), balance(t, ct, sdk.AssetMyGov, alice))
	amountsEqual(t, dao.TL(1000), balance(t, ct, sdk.AssetTL, ct.Treasury))

	owner, err := ct.DAO.GetSurveyOwner(id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	n, err := ct.DAO.GetNoOfSurveys()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Contains(t, ct.Sink.Lines(), "sc|id:0|by:"+alice.String())
}

func TestSubmitSurveyValidation(t *testing.T) {
	ct := SetupContractTest(t)
	ct.newSurveyor(t, alice)

	cases := []struct {
		name   string
		mutate func(p *contract.SurveyProposal)
		reason *contract.Error
	}{
		{"url too long", func(p *contract.SurveyProposal) { p.WebURL = strings.Repeat("u", contract.MaxURLLength+1) }, contract.ErrURLTooLong},
		{"past deadline", func(p *contract.SurveyProposal) { p.Deadline = defaultTimestamp - 1 }, contract.ErrInvalidDeadline},
		{"no choices", func(p *contract.SurveyProposal) { p.NumChoices = 0 }, contract.ErrInvalidSurvey},
		{"at most zero", func(p *contract.SurveyProposal) { p.AtMostChoice = 0 }, contract.ErrInvalidSurvey},
		{"at most above count", func(p *contract.SurveyProposal) { p.AtMostChoice = 5 }, contract.ErrInvalidSurvey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultSurvey()
			tc.mutate(&p)
			_, err := ct.DAO.SubmitSurvey(env(alice), p)
			requireReason(t, err, tc.reason)
		})
	}

	_, err := ct.DAO.SubmitSurvey(env(outsider), defaultSurvey())
	requireReason(t, err, contract.ErrNotMember)
}

func TestTakeSurvey(t *testing.T) {
	ct := SetupContractTest(t)
	ct.newSurveyor(t, alice)
	id, err := ct.DAO.SubmitSurvey(env(alice), defaultSurvey())
	require.NoError(t, err)
	ct.giveMyGov(t, bob, 1)

	require.NoError(t, ct.DAO.TakeSurvey(env(alice), id, []uint32{0, 3}))
	require.NoError(t, ct.DAO.TakeSurvey(env(bob), id, []uint32{3}))

	taken, results, err := ct.DAO.GetSurveyResults(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), taken)
	assert.Equal(t, []uint64{1, 0, 0, 2}, results)

	ok, err := ct.DAO.GetIfSurveyTaken(bob, id)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ct.DAO.GetIfSurveyTaken(carol, id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, ct.Sink.Lines(), "st|id:0|by:"+alice.String()+"|cs:0,3")
}

func TestTakeSurveyOrderOfChecks(t *testing.T) {
	ct := SetupContractTest(t)
	ct.newSurveyor(t, alice)
	id, err := ct.DAO.SubmitSurvey(env(alice), defaultSurvey())
	require.NoError(t, err)
	ct.giveMyGov(t, bob, 1)

	requireReason(t, ct.DAO.TakeSurvey(env(bob), 9, []uint32{0}), contract.ErrSurveyNotFound)
	requireReason(t, ct.DAO.TakeSurvey(env(outsider), id, []uint32{0}), contract.ErrNotMember)
	requireReason(t, ct.DAO.TakeSurvey(envAt(bob, surveyDeadline), id, []uint32{0}), contract.ErrSurveyExpired)
	requireReason(t, ct.DAO.TakeSurvey(env(bob), id, nil), contract.ErrNoChoices)
	requireReason(t, ct.DAO.TakeSurvey(env(bob), id, []uint32{0, 1, 2}), contract.ErrTooManyChoices)
	requireReason(t, ct.DAO.TakeSurvey(env(bob), id, []uint32{4}), contract.ErrInvalidChoiceIndex)
	requireReason(t, ct.DAO.TakeSurvey(env(bob), id, []uint32{1, 1}), contract.ErrDuplicateChoice)

	require.NoError(t, ct.DAO.TakeSurvey(env(bob), id, []uint32{1}))
	// a second answer is refused even after the deadline
	requireReason(t, ct.DAO.TakeSurvey(envAt(bob, surveyDeadline), id, []uint32{2}), contract.ErrAlreadyTaken)

	_, results, err := ct.DAO.GetSurveyResults(id)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 0, 0}, results)
}

func TestSurveyViaPayload(t *testing.T) {
	ct := SetupContractTest(t)
	ct.newSurveyor(t, alice)
	ret, _ := CallContract(t, ct, "submit_survey", "https://example.org/poll|"+idPayload(uint64(surveyDeadline))+"|3|3", alice, true)
	assert.Equal(t, "0", ret)

	CallContract(t, ct, "take_survey", "0|0,1;2", alice, true)
	_, results, err := ct.DAO.GetSurveyResults(0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1, 1}, results)

	_, err = CallContract(t, ct, "submit_survey", "https://example.org|"+idPayload(uint64(surveyDeadline))+"|65|1", alice, false)
	requireReason(t, err, contract.ErrInvalidSurvey)
}
