package dao

import (
	"github.com/holiman/uint256"

	"mygov_dao/sdk"
)

// ProjectState captures where a project sits in the funding lifecycle. It is derived from
// the stored record plus the current time, never stored itself.
type ProjectState uint8

const (
	ProjectProposed            ProjectState = 0
	ProjectVotingOpen          ProjectState = 1
	ProjectVotingClosed        ProjectState = 2
	ProjectFailed              ProjectState = 3
	ProjectReserved            ProjectState = 4
	ProjectPaymentVotingOpen   ProjectState = 5
	ProjectPaymentVotingClosed ProjectState = 6
	ProjectFullyPaid           ProjectState = 7
)

// String prints the project state as lower-case text for events and logs.
// Example payload: dao.ProjectReserved.String()
func (ps ProjectState) String() string {
	switch ps {
	case ProjectVotingOpen:
		return "voting_open"
	case ProjectVotingClosed:
		return "voting_closed"
	case ProjectFailed:
		return "failed"
	case ProjectReserved:
		return "reserved"
	case ProjectPaymentVotingOpen:
		return "payment_voting_open"
	case ProjectPaymentVotingClosed:
		return "payment_voting_closed"
	case ProjectFullyPaid:
		return "fully_paid"
	default:
		return "proposed"
	}
}

// Label is the short status the web frontend shows next to a project card.
func (ps ProjectState) Label() string {
	switch ps {
	case ProjectVotingOpen:
		return "Active Voting"
	case ProjectReserved, ProjectPaymentVotingOpen, ProjectPaymentVotingClosed, ProjectFullyPaid:
		return "Funded"
	default:
		return "Voting Ended"
	}
}

// ContractConfig is written once by Initialize.
type ContractConfig struct {
	Deployer        sdk.Address
	Treasury        sdk.Address
	ProjectFeeTL    *uint256.Int
	ProjectFeeMyGov *uint256.Int
	SurveyFeeTL     *uint256.Int
	SurveyFeeMyGov  *uint256.Int
	FaucetAmount    *uint256.Int
	OpenTLMint      bool
	InitializedAt   int64
	Tx              string
}

// Project is a funding proposal. Voter sets and payment tallies live in their own keys.
type Project struct {
	ID             uint64
	Owner          sdk.Address
	WebURL         string
	VoteDeadline   int64
	PaymentAmounts []*uint256.Int
	PaySchedule    []int64
	YesVotes       uint64
	NoVotes        uint64
	BeingFunded    bool
	Lapsed         bool
	NextMilestone  uint32
	TLReceived     *uint256.Int
	CreatedAt      int64
	Tx             string
}

// MilestoneCount is the number of scheduled payments.
func (p *Project) MilestoneCount() uint32 {
	return uint32(len(p.PaySchedule))
}

// FullyPaid is true once every milestone got withdrawn.
func (p *Project) FullyPaid() bool {
	return p.NextMilestone >= p.MilestoneCount()
}

// MilestoneWindow returns [start, end) for milestone i. Milestone 0 opens when proposal voting
// ends, every later one when the previous payment date passed.
func (p *Project) MilestoneWindow(i uint32) (start, end int64) {
	if i == 0 {
		start = p.VoteDeadline
	} else {
		start = p.PaySchedule[i-1]
	}
	return start, p.PaySchedule[i]
}

// TotalPayment sums the schedule, ok is false on overflow.
func (p *Project) TotalPayment() (*uint256.Int, bool) {
	total := new(uint256.Int)
	for _, amt := range p.PaymentAmounts {
		var overflow bool
		total, overflow = new(uint256.Int).AddOverflow(total, amt)
		if overflow {
			return nil, false
		}
	}
	return total, true
}

// PaymentTally counts payment votes for one milestone.
type PaymentTally struct {
	Yes uint64
	No  uint64
}

// Survey is a multiple choice poll among members.
type Survey struct {
	ID           uint64
	Owner        sdk.Address
	WebURL       string
	Deadline     int64
	NumChoices   uint32
	AtMostChoice uint32
	Results      []uint64
	NumTaken     uint64
	CreatedAt    int64
	Tx           string
}
