package contract

import (
	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// -----------------------------------------------------------------------------
// Tallies and eligibility
// -----------------------------------------------------------------------------

func (c *call) paymentTally(id uint64, milestone uint32) (dao.PaymentTally, error) {
	ptr := c.st.Get(paymentTallyKey(id, milestone))
	if ptr == nil {
		return dao.PaymentTally{}, nil
	}
	t, err := dao.DecodePaymentTally([]byte(*ptr))
	if err != nil {
		return t, internalError("decode payment tally", err)
	}
	return t, nil
}

func (c *call) savePaymentTally(id uint64, milestone uint32, t dao.PaymentTally) {
	c.st.Set(paymentTallyKey(id, milestone), string(dao.EncodePaymentTally(t)))
}

// meetsPaymentQuorum is yes > 0 and yes*100 >= members*PaymentQuorumPercent, in uint256
// so neither side can wrap.
func meetsPaymentQuorum(yes, members uint64) bool {
	if yes == 0 || members == 0 {
		return false
	}
	lhs := new(uint256.Int).Mul(uint256.NewInt(yes), uint256.NewInt(100))
	rhs := new(uint256.Int).Mul(uint256.NewInt(members), uint256.NewInt(PaymentQuorumPercent))
	return !lhs.Lt(rhs)
}

// eligibleForPayment is recomputed live against the current member count.
func (c *call) eligibleForPayment(prj *dao.Project) (bool, error) {
	if !prj.BeingFunded || prj.FullyPaid() {
		return false, nil
	}
	tally, err := c.paymentTally(prj.ID, prj.NextMilestone)
	if err != nil {
		return false, err
	}
	members, err := c.getCount(MembersCount)
	if err != nil {
		return false, err
	}
	return meetsPaymentQuorum(tally.Yes, members), nil
}

// checkPaymentWindow rejects calls outside [start, end) of the pending milestone.
func (c *call) checkPaymentWindow(prj *dao.Project) error {
	start, end := prj.MilestoneWindow(prj.NextMilestone)
	if c.now() < start {
		return ErrPaymentWindowNotOpen
	}
	if c.now() >= end {
		return ErrPaymentWindowClosed
	}
	return nil
}

func (c *call) reservedTL() (*uint256.Int, error) {
	return c.getAmount(reservedKey())
}

// releaseReserved lowers the reserved total, checked.
func (c *call) releaseReserved(amount *uint256.Int) error {
	reserved, err := c.reservedTL()
	if err != nil {
		return err
	}
	rest, err := checkedSub(reserved, amount)
	if err != nil {
		return err
	}
	c.setAmount(reservedKey(), rest)
	return nil
}

// -----------------------------------------------------------------------------
// Reservation
// -----------------------------------------------------------------------------

// ReserveProjectGrant locks the whole payment schedule in the treasury for a project that passed.
// Only the owner may reserve, after voting closed and before the first payment date.
func (d *DAO) ReserveProjectGrant(env sdk.Env, id uint64) error {
	return d.exec(env, "reserve", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		if !sameAddress(c.sender(), prj.Owner) {
			return ErrNotProjectOwner
		}
		if c.now() <= prj.VoteDeadline {
			return ErrVotingStillOpen
		}
		if prj.YesVotes <= prj.NoVotes {
			return ErrVoteFailed
		}
		if prj.BeingFunded || prj.Lapsed || prj.NextMilestone > 0 {
			return ErrAlreadyReserved
		}
		if c.now() >= prj.PaySchedule[0] {
			return ErrReservationWindowPassed
		}
		total, ok := prj.TotalPayment()
		if !ok {
			return ErrArithmeticOverflow.withf("payment total")
		}
		treasuryTL, err := c.balance(sdk.AssetTL, c.treasury())
		if err != nil {
			return err
		}
		reserved, err := c.reservedTL()
		if err != nil {
			return err
		}
		free := dao.Zero()
		if treasuryTL.Gt(reserved) {
			free = new(uint256.Int).Sub(treasuryTL, reserved)
		}
		if free.Lt(total) {
			return ErrInsufficientTreasury.withf("free %s, needs %s", free.Dec(), total.Dec())
		}
		newReserved, err := checkedAdd(reserved, total)
		if err != nil {
			return err
		}
		c.setAmount(reservedKey(), newReserved)
		prj.BeingFunded = true
		c.saveProject(prj)
		if _, err := c.incCount(FundedCount); err != nil {
			return err
		}
		c.emitReserved(id, prj.Owner, total)
		return nil
	})
}

// -----------------------------------------------------------------------------
// Payment voting
// -----------------------------------------------------------------------------

// VoteForProjectPayment votes on releasing the pending milestone. Each milestone has its own tally.
func (d *DAO) VoteForProjectPayment(env sdk.Env, id uint64, choice bool) error {
	return d.exec(env, "payment_vote", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		if !prj.BeingFunded {
			return ErrProjectNotFunded
		}
		if prj.FullyPaid() {
			return ErrProjectFullyPaid
		}
		if err := c.checkPaymentWindow(prj); err != nil {
			return err
		}
		voter := c.sender()
		if err := c.requireMember(voter, ErrNotMember); err != nil {
			return err
		}
		m := prj.NextMilestone
		receiptKey := paymentVoterKey(id, m, voter)
		if c.st.Get(receiptKey) != nil {
			return ErrAlreadyVoted
		}
		tally, err := c.paymentTally(id, m)
		if err != nil {
			return err
		}
		receipt := receiptNo
		if choice {
			tally.Yes++
			receipt = receiptYes
		} else {
			tally.No++
		}
		c.savePaymentTally(id, m, tally)
		c.st.Set(receiptKey, receipt)
		if err := c.addCommitment(voter, id); err != nil {
			return err
		}
		c.emitPaymentVote(id, m, voter, choice)
		return nil
	})
}

// -----------------------------------------------------------------------------
// Withdrawal
// -----------------------------------------------------------------------------

// WithdrawProjectTLPayment pays the pending milestone to the owner once the payment vote
// cleared the member threshold. All bookkeeping is written before the TL leaves the treasury.
func (d *DAO) WithdrawProjectTLPayment(env sdk.Env, id uint64) error {
	return d.exec(env, "withdraw", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		if !sameAddress(c.sender(), prj.Owner) {
			return ErrNotProjectOwner
		}
		if !prj.BeingFunded {
			return ErrProjectNotFunded
		}
		if prj.FullyPaid() {
			return ErrProjectFullyPaid
		}
		if err := c.checkPaymentWindow(prj); err != nil {
			return err
		}
		ok, err := c.eligibleForPayment(prj)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPaymentNotApproved
		}

		m := prj.NextMilestone
		amount := prj.PaymentAmounts[m].Clone()
		received, err := checkedAdd(prj.TLReceived, amount)
		if err != nil {
			return err
		}
		prj.NextMilestone++
		prj.TLReceived = received
		if err := c.releaseReserved(amount); err != nil {
			return err
		}
		c.saveProject(prj)
		c.emitWithdrawn(id, m, prj.Owner, amount)
		return c.transfer(sdk.AssetTL, c.treasury(), prj.Owner, amount)
	})
}

// ReleaseLapsedGrant ends funding for a project whose pending milestone window passed
// without a withdrawal and frees the unpaid rest of its reservation. Anyone may call it.
func (d *DAO) ReleaseLapsedGrant(env sdk.Env, id uint64) error {
	return d.exec(env, "release", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		if !prj.BeingFunded {
			return ErrProjectNotFunded
		}
		if prj.FullyPaid() {
			return ErrProjectFullyPaid
		}
		m := prj.NextMilestone
		if c.now() < prj.PaySchedule[m] {
			return ErrPaymentWindowOpen
		}
		rest := dao.Zero()
		for _, amt := range prj.PaymentAmounts[m:] {
			if rest, err = checkedAdd(rest, amt); err != nil {
				return err
			}
		}
		if err := c.releaseReserved(rest); err != nil {
			return err
		}
		prj.BeingFunded = false
		prj.Lapsed = true
		c.saveProject(prj)
		c.emitLapsed(id, m)
		return nil
	})
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// GetNumOfVotesPayment returns the tally of the pending milestone.
func (d *DAO) GetNumOfVotesPayment(id uint64) (yes, no uint64, err error) {
	err = d.view(func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		t, err := c.paymentTally(id, prj.NextMilestone)
		if err != nil {
			return err
		}
		yes, no = t.Yes, t.No
		return nil
	})
	return yes, no, err
}

// GetProjectEligibleForPayment reports whether the pending milestone cleared the threshold.
// The payment window is not part of it.
func (d *DAO) GetProjectEligibleForPayment(id uint64) (bool, error) {
	var ok bool
	err := d.view(func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		ok, err = c.eligibleForPayment(prj)
		return err
	})
	return ok, err
}

// HasVotedPayment reports whether addr voted on the pending milestone of project id.
func (d *DAO) HasVotedPayment(addr sdk.Address, id uint64) (bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return false, err
	}
	var voted bool
	err = d.view(func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		voted = c.st.Get(paymentVoterKey(id, prj.NextMilestone, addr)) != nil
		return nil
	})
	return voted, err
}

// ReservedTL is the treasury TL currently locked for funded projects.
func (d *DAO) ReservedTL() (*uint256.Int, error) {
	var out *uint256.Int
	err := d.view(func(c *call) error {
		var err error
		out, err = c.reservedTL()
		return err
	})
	return out, err
}
