package contract

import (
	"mygov_dao/sdk"
)

// -----------------------------------------------------------------------------
// Proposal voting
// -----------------------------------------------------------------------------

// VoteForProjectProposal casts the sender's vote plus every delegation waiting on the sender.
// Voting closes at the deadline itself.
func (d *DAO) VoteForProjectProposal(env sdk.Env, id uint64, choice bool) error {
	return d.exec(env, "vote", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		if c.now() >= prj.VoteDeadline {
			return ErrVotingClosed
		}
		voter := c.sender()
		if err := c.requireMember(voter, ErrNotMember); err != nil {
			return err
		}
		if c.st.Get(projectVoterKey(id, voter)) != nil {
			return ErrAlreadyVoted
		}
		if c.st.Get(delegationKey(id, voter)) != nil {
			return ErrAlreadyDelegated
		}

		pending, err := c.pendingDelegators(id, voter)
		if err != nil {
			return err
		}
		weight := uint64(1) + uint64(len(pending))
		if choice {
			if prj.YesVotes+weight < prj.YesVotes {
				return ErrArithmeticOverflow.withf("yes votes")
			}
			prj.YesVotes += weight
		} else {
			if prj.NoVotes+weight < prj.NoVotes {
				return ErrArithmeticOverflow.withf("no votes")
			}
			prj.NoVotes += weight
		}

		receipt := receiptNo
		if choice {
			receipt = receiptYes
		}
		c.st.Set(projectVoterKey(id, voter), receipt)
		for _, delegator := range pending {
			c.st.Set(projectVoterKey(id, delegator), receiptDelegated)
		}
		c.st.Delete(pendingDelegatorsKey(id, voter))
		c.saveProject(prj)
		if err := c.addCommitment(voter, id); err != nil {
			return err
		}
		c.emitVoteCast(id, voter, choice, weight)
		return nil
	})
}
