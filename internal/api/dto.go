package api

import (
	"github.com/holiman/uint256"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// Amounts leave the api as token strings ("2.5"), the same shape they come in with.

func tl(v *uint256.Int) string {
	return dao.FormatTokenAmount(v, sdk.AssetTL.Decimals())
}

type projectDTO struct {
	ID             uint64   `json:"id"`
	Owner          string   `json:"owner"`
	WebURL         string   `json:"web_url"`
	VoteDeadline   int64    `json:"vote_deadline"`
	PaymentAmounts []string `json:"payment_amounts"`
	PaySchedule    []int64  `json:"pay_schedule"`
	YesVotes       uint64   `json:"yes_votes"`
	NoVotes        uint64   `json:"no_votes"`
	Funded         bool     `json:"funded"`
	Lapsed         bool     `json:"lapsed"`
	NextMilestone  uint32   `json:"next_milestone"`
	TLReceived     string   `json:"tl_received"`
	State          string   `json:"state"`
	Label          string   `json:"label"`
	CreatedAt      int64    `json:"created_at"`
}

func toProjectDTO(info contract.ProjectInfo) projectDTO {
	amounts := make([]string, len(info.PaymentAmounts))
	for i, a := range info.PaymentAmounts {
		amounts[i] = tl(a)
	}
	return projectDTO{
		ID:             info.ID,
		Owner:          info.Owner.String(),
		WebURL:         info.WebURL,
		VoteDeadline:   info.VoteDeadline,
		PaymentAmounts: amounts,
		PaySchedule:    info.PaySchedule,
		YesVotes:       info.YesVotes,
		NoVotes:        info.NoVotes,
		Funded:         info.BeingFunded,
		Lapsed:         info.Lapsed,
		NextMilestone:  info.NextMilestone,
		TLReceived:     tl(info.TLReceived),
		State:          info.State.String(),
		Label:          info.State.Label(),
		CreatedAt:      info.CreatedAt,
	}
}

type surveyDTO struct {
	ID           uint64   `json:"id"`
	Owner        string   `json:"owner"`
	WebURL       string   `json:"web_url"`
	Deadline     int64    `json:"deadline"`
	NumChoices   uint32   `json:"num_choices"`
	AtMostChoice uint32   `json:"at_most_choice"`
	Results      []uint64 `json:"results"`
	NumTaken     uint64   `json:"num_taken"`
}

func toSurveyDTO(s *dao.Survey) surveyDTO {
	return surveyDTO{
		ID:           s.ID,
		Owner:        s.Owner.String(),
		WebURL:       s.WebURL,
		Deadline:     s.Deadline,
		NumChoices:   s.NumChoices,
		AtMostChoice: s.AtMostChoice,
		Results:      s.Results,
		NumTaken:     s.NumTaken,
	}
}

type statsDTO struct {
	Members        uint64 `json:"members"`
	Projects       uint64 `json:"projects"`
	FundedProjects uint64 `json:"funded_projects"`
	Surveys        uint64 `json:"surveys"`
	SupplyTL       string `json:"supply_tl"`
	SupplyMyGov    string `json:"supply_mygov"`
	TreasuryTL     string `json:"treasury_tl"`
	ReservedTL     string `json:"reserved_tl"`
}

func toStatsDTO(s contract.Stats) statsDTO {
	return statsDTO{
		Members:        s.Members,
		Projects:       s.Projects,
		FundedProjects: s.FundedProjects,
		Surveys:        s.Surveys,
		SupplyTL:       tl(s.SupplyTL),
		SupplyMyGov:    dao.FormatTokenAmount(s.SupplyMyGov, sdk.AssetMyGov.Decimals()),
		TreasuryTL:     tl(s.TreasuryTL),
		ReservedTL:     tl(s.ReservedTL),
	}
}

type votesDTO struct {
	Yes uint64 `json:"yes"`
	No  uint64 `json:"no"`
}
