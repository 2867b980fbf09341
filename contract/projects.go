package contract

import (
	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// -----------------------------------------------------------------------------
// Storage
// -----------------------------------------------------------------------------

func (c *call) loadProject(id uint64) (*dao.Project, error) {
	ptr := c.st.Get(projectKey(id))
	if ptr == nil {
		return nil, ErrProjectNotFound.withf("id %d", id)
	}
	prj, err := dao.DecodeProject([]byte(*ptr))
	if err != nil {
		return nil, internalError("decode project", err)
	}
	return prj, nil
}

func (c *call) saveProject(prj *dao.Project) {
	c.st.Set(projectKey(prj.ID), string(dao.EncodeProject(prj)))
}

// -----------------------------------------------------------------------------
// Submission
// -----------------------------------------------------------------------------

// ProjectProposal is the input of SubmitProjectProposal. Amounts are TL base units.
type ProjectProposal struct {
	WebURL         string
	VoteDeadline   int64
	PaymentAmounts []*uint256.Int
	PaySchedule    []int64
}

// validate checks the proposal shape against the block time.
func (p ProjectProposal) validate(now int64) error {
	if len(p.WebURL) > MaxURLLength {
		return ErrURLTooLong
	}
	if p.VoteDeadline <= now {
		return ErrInvalidDeadline
	}
	if len(p.PaymentAmounts) == 0 || len(p.PaySchedule) == 0 {
		return ErrInvalidSchedule.withf("empty payment schedule")
	}
	if len(p.PaymentAmounts) != len(p.PaySchedule) {
		return ErrInvalidSchedule.withf("%d amounts for %d dates", len(p.PaymentAmounts), len(p.PaySchedule))
	}
	if len(p.PaySchedule) > MaxMilestones {
		return ErrInvalidSchedule.withf("more than %d milestones", MaxMilestones)
	}
	for i, amt := range p.PaymentAmounts {
		if amt == nil || amt.IsZero() {
			return ErrInvalidAmount.withf("payment %d", i)
		}
	}
	if p.PaySchedule[0] <= p.VoteDeadline {
		return ErrInvalidSchedule.withf("first payment must be after the vote deadline")
	}
	for i := 1; i < len(p.PaySchedule); i++ {
		if p.PaySchedule[i] <= p.PaySchedule[i-1] {
			return ErrInvalidSchedule.withf("schedule not strictly increasing at %d", i)
		}
	}
	return nil
}

// SubmitProjectProposal creates a project in voting and charges the submission fee.
// The owner must be a member and have approved the treasury for both fee legs.
func (d *DAO) SubmitProjectProposal(env sdk.Env, p ProjectProposal) (uint64, error) {
	var id uint64
	err := d.exec(env, "submit_project", true, func(c *call) error {
		if err := p.validate(c.now()); err != nil {
			return err
		}
		owner := c.sender()
		if err := c.requireMember(owner, ErrNotMember); err != nil {
			return err
		}
		prj := &dao.Project{
			Owner:          owner,
			WebURL:         p.WebURL,
			VoteDeadline:   p.VoteDeadline,
			PaymentAmounts: make([]*uint256.Int, len(p.PaymentAmounts)),
			PaySchedule:    append([]int64(nil), p.PaySchedule...),
			TLReceived:     dao.Zero(),
			CreatedAt:      c.now(),
			Tx:             c.env.TxID,
		}
		for i, amt := range p.PaymentAmounts {
			prj.PaymentAmounts[i] = amt.Clone()
		}
		if _, ok := prj.TotalPayment(); !ok {
			return ErrArithmeticOverflow.withf("payment total")
		}
		if err := c.chargeFee(sdk.AssetMyGov, owner, c.cfg.ProjectFeeMyGov); err != nil {
			return err
		}
		if err := c.chargeFee(sdk.AssetTL, owner, c.cfg.ProjectFeeTL); err != nil {
			return err
		}
		next, err := c.incCount(ProjectsCount)
		if err != nil {
			return err
		}
		prj.ID = next
		c.saveProject(prj)
		c.emitProjectCreated(prj.ID, owner)
		id = prj.ID
		return nil
	})
	return id, err
}

// -----------------------------------------------------------------------------
// Derived state
// -----------------------------------------------------------------------------

// deriveState places a project in its lifecycle at time at.
func deriveState(prj *dao.Project, at int64) dao.ProjectState {
	if at < prj.VoteDeadline {
		return dao.ProjectVotingOpen
	}
	if prj.FullyPaid() {
		return dao.ProjectFullyPaid
	}
	// a released grant never pays again
	if prj.Lapsed {
		return dao.ProjectFailed
	}
	if !prj.BeingFunded {
		if prj.YesVotes <= prj.NoVotes || at >= prj.PaySchedule[0] {
			return dao.ProjectFailed
		}
		return dao.ProjectVotingClosed
	}
	start, end := prj.MilestoneWindow(prj.NextMilestone)
	switch {
	case at < start:
		return dao.ProjectReserved
	case at < end:
		return dao.ProjectPaymentVotingOpen
	default:
		return dao.ProjectPaymentVotingClosed
	}
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// ProjectInfo is a project record plus its state at the time asked for.
type ProjectInfo struct {
	*dao.Project
	State dao.ProjectState
}

// GetNoOfProjectProposals returns how many projects were ever submitted.
func (d *DAO) GetNoOfProjectProposals() (uint64, error) {
	var n uint64
	err := d.view(func(c *call) error {
		var err error
		n, err = c.getCount(ProjectsCount)
		return err
	})
	return n, err
}

// GetProjects lists projects in [start, end), clamped to what exists.
func (d *DAO) GetProjects(start, end uint64, at int64) ([]ProjectInfo, error) {
	var out []ProjectInfo
	err := d.view(func(c *call) error {
		total, err := c.getCount(ProjectsCount)
		if err != nil {
			return err
		}
		if end > total {
			end = total
		}
		for id := start; id < end; id++ {
			prj, err := c.loadProject(id)
			if err != nil {
				return err
			}
			out = append(out, ProjectInfo{Project: prj, State: deriveState(prj, at)})
		}
		return nil
	})
	return out, err
}

// GetProjectInfo returns the project record and its state at time at.
func (d *DAO) GetProjectInfo(id uint64, at int64) (ProjectInfo, error) {
	var info ProjectInfo
	err := d.view(func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		info = ProjectInfo{Project: prj, State: deriveState(prj, at)}
		return nil
	})
	return info, err
}

// ProjectState is the derived lifecycle state of a project at time at.
func (d *DAO) ProjectState(id uint64, at int64) (dao.ProjectState, error) {
	info, err := d.GetProjectInfo(id, at)
	if err != nil {
		return dao.ProjectProposed, err
	}
	return info.State, nil
}

// GetProjectOwner returns who submitted the project.
func (d *DAO) GetProjectOwner(id uint64) (sdk.Address, error) {
	info, err := d.GetProjectInfo(id, 0)
	if err != nil {
		return "", err
	}
	return info.Owner, nil
}

// GetNumOfVotes returns the proposal tallies, delegated weight included.
func (d *DAO) GetNumOfVotes(id uint64) (yes, no uint64, err error) {
	info, err := d.GetProjectInfo(id, 0)
	if err != nil {
		return 0, 0, err
	}
	return info.YesVotes, info.NoVotes, nil
}

// GetTLReceivedByProject is the sum of all withdrawn milestones.
func (d *DAO) GetTLReceivedByProject(id uint64) (*uint256.Int, error) {
	info, err := d.GetProjectInfo(id, 0)
	if err != nil {
		return nil, err
	}
	return info.TLReceived, nil
}

// GetIsProjectFunded reports whether the grant is reserved and not lapsed.
func (d *DAO) GetIsProjectFunded(id uint64) (bool, error) {
	info, err := d.GetProjectInfo(id, 0)
	if err != nil {
		return false, err
	}
	return info.BeingFunded, nil
}

// GetNoOfFundedProjects counts reservations ever made.
func (d *DAO) GetNoOfFundedProjects() (uint64, error) {
	var n uint64
	err := d.view(func(c *call) error {
		var err error
		n, err = c.getCount(FundedCount)
		return err
	})
	return n, err
}

// NextPayment describes the milestone a funded project is waiting on.
type NextPayment struct {
	Milestone uint32
	Amount    *uint256.Int
	Deadline  int64
}

// GetProjectNextPayment returns the pending milestone, ProjectFullyPaid once none remain.
func (d *DAO) GetProjectNextPayment(id uint64) (NextPayment, error) {
	info, err := d.GetProjectInfo(id, 0)
	if err != nil {
		return NextPayment{}, err
	}
	if info.FullyPaid() {
		return NextPayment{}, ErrProjectFullyPaid
	}
	i := info.NextMilestone
	return NextPayment{Milestone: i, Amount: info.PaymentAmounts[i], Deadline: info.PaySchedule[i]}, nil
}

// HasVoted reports whether addr is in the proposal voter set, directly or through delegation.
func (d *DAO) HasVoted(addr sdk.Address, id uint64) (bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return false, err
	}
	var voted bool
	err = d.view(func(c *call) error {
		if _, err := c.loadProject(id); err != nil {
			return err
		}
		voted = c.st.Get(projectVoterKey(id, addr)) != nil
		return nil
	})
	return voted, err
}
