package dao_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

func TestParseTokenAmount(t *testing.T) {
	cases := []struct {
		in       string
		decimals uint8
		want     string
	}{
		{"4000", 18, "4000000000000000000000"},
		{"0.5", 18, "500000000000000000"},
		{".25", 18, "250000000000000000"},
		{"007", 0, "7"},
		{"0", 0, "0"},
	}
	for _, tc := range cases {
		got, err := dao.ParseTokenAmount(tc.in, tc.decimals)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.Dec(), tc.in)
	}

	for _, bad := range []string{"", "1.5e3", "-1", "1,0", "0x10"} {
		_, err := dao.ParseTokenAmount(bad, 18)
		assert.Error(t, err, bad)
	}
	_, err := dao.ParseTokenAmount("1.5", 0)
	assert.Error(t, err)
	_, err = dao.ParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	assert.Error(t, err, "2^256 does not fit")
}

func TestFormatTokenAmount(t *testing.T) {
	assert.Equal(t, "3", dao.FormatTokenAmount(dao.TL(3), 18))
	half, _ := dao.ParseTokenAmount("0.5", 18)
	assert.Equal(t, "0.5", dao.FormatTokenAmount(half, 18))
	assert.Equal(t, "0.000000000000000001", dao.FormatTokenAmount(uint256.NewInt(1), 18))
	assert.Equal(t, "12", dao.FormatTokenAmount(dao.MyGov(12), 0))
	assert.Equal(t, "0", dao.FormatTokenAmount(nil, 18))
	assert.Equal(t, "0", dao.AmountString(nil))
}

func sampleProject() *dao.Project {
	return &dao.Project{
		ID:             7,
		Owner:          sdk.MustAddress("0x2000000000000000000000000000000000000002"),
		WebURL:         "https://example.org/|pipes|ok",
		VoteDeadline:   100,
		PaymentAmounts: []*uint256.Int{dao.TL(1), new(uint256.Int).SetAllOne()},
		PaySchedule:    []int64{200, 300},
		YesVotes:       3,
		NoVotes:        1,
		BeingFunded:    true,
		NextMilestone:  1,
		TLReceived:     dao.TL(1),
		CreatedAt:      50,
		Tx:             "tx-1",
	}
}

func TestProjectCodec(t *testing.T) {
	prj := sampleProject()
	data := dao.EncodeProject(prj)
	got, err := dao.DecodeProject(data)
	require.NoError(t, err)
	assert.Equal(t, prj, got)

	// every truncation is rejected rather than half decoded
	for i := 0; i < len(data); i++ {
		_, err := dao.DecodeProject(data[:i])
		assert.Error(t, err, "prefix %d", i)
	}
	bad := append([]byte{}, data...)
	bad[0] = 9
	_, err = dao.DecodeProject(bad)
	assert.ErrorContains(t, err, "codec version")
}

func TestProjectHelpers(t *testing.T) {
	prj := sampleProject()
	assert.Equal(t, uint32(2), prj.MilestoneCount())
	assert.False(t, prj.FullyPaid())
	start, end := prj.MilestoneWindow(0)
	assert.Equal(t, [2]int64{100, 200}, [2]int64{start, end})
	start, end = prj.MilestoneWindow(1)
	assert.Equal(t, [2]int64{200, 300}, [2]int64{start, end})

	_, ok := prj.TotalPayment()
	assert.False(t, ok, "max uint256 plus one overflows")
	prj.PaymentAmounts[1] = dao.TL(2)
	total, ok := prj.TotalPayment()
	require.True(t, ok)
	assert.Equal(t, dao.TL(3).Dec(), total.Dec())
}

func TestConfigAndSurveyCodec(t *testing.T) {
	cfg := &dao.ContractConfig{
		Deployer:        sdk.MustAddress("0x1000000000000000000000000000000000000001"),
		Treasury:        sdk.MustAddress("0x9000000000000000000000000000000000000009"),
		ProjectFeeTL:    dao.TL(4000),
		ProjectFeeMyGov: dao.MyGov(5),
		SurveyFeeTL:     dao.TL(1000),
		SurveyFeeMyGov:  dao.MyGov(2),
		FaucetAmount:    dao.MyGov(1),
		OpenTLMint:      true,
		InitializedAt:   1,
		Tx:              "init",
	}
	gotCfg, err := dao.DecodeContractConfig(dao.EncodeContractConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, cfg, gotCfg)

	s := &dao.Survey{
		ID:           2,
		Owner:        cfg.Deployer,
		WebURL:       "u",
		Deadline:     10,
		NumChoices:   3,
		AtMostChoice: 2,
		Results:      []uint64{0, 5, 1 << 40},
		NumTaken:     5,
		Tx:           "",
	}
	gotSurvey, err := dao.DecodeSurvey(dao.EncodeSurvey(s))
	require.NoError(t, err)
	assert.Equal(t, s, gotSurvey)

	tally, err := dao.DecodePaymentTally(dao.EncodePaymentTally(dao.PaymentTally{Yes: 4, No: 2}))
	require.NoError(t, err)
	assert.Equal(t, dao.PaymentTally{Yes: 4, No: 2}, tally)
}

func TestProjectStateText(t *testing.T) {
	assert.Equal(t, "payment_voting_open", dao.ProjectPaymentVotingOpen.String())
	assert.Equal(t, "proposed", dao.ProjectProposed.String())
	assert.Equal(t, "Active Voting", dao.ProjectVotingOpen.Label())
	assert.Equal(t, "Voting Ended", dao.ProjectFailed.Label())
	assert.Equal(t, "Funded", dao.ProjectFullyPaid.Label())
}
