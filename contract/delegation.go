package contract

import (
	"github.com/ethereum/go-ethereum/common"

	"mygov_dao/sdk"
)

// pendingDelegators lists who is waiting on addr to vote on project id. The value is the raw
// 20 byte addresses back to back.
func (c *call) pendingDelegators(id uint64, addr sdk.Address) ([]sdk.Address, error) {
	ptr := c.st.Get(pendingDelegatorsKey(id, addr))
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	raw := []byte(*ptr)
	if len(raw)%common.AddressLength != 0 {
		return nil, internalError("corrupt delegation list", nil)
	}
	out := make([]sdk.Address, 0, len(raw)/common.AddressLength)
	for i := 0; i < len(raw); i += common.AddressLength {
		out = append(out, sdk.AddressFromCommon(common.BytesToAddress(raw[i:i+common.AddressLength])))
	}
	return out, nil
}

func (c *call) setPendingDelegators(id uint64, addr sdk.Address, list []sdk.Address) {
	if len(list) == 0 {
		c.st.Delete(pendingDelegatorsKey(id, addr))
		return
	}
	buf := make([]byte, 0, len(list)*common.AddressLength)
	for _, a := range list {
		buf = append(buf, a.Bytes()...)
	}
	c.st.Set(pendingDelegatorsKey(id, addr), string(buf))
}

// delegatedTo returns the delegatee addr named on project id, if any.
func (c *call) delegatedTo(id uint64, addr sdk.Address) (sdk.Address, bool) {
	ptr := c.st.Get(delegationKey(id, addr))
	if ptr == nil || len(*ptr) != common.AddressLength {
		return "", false
	}
	return sdk.AddressFromCommon(common.BytesToAddress([]byte(*ptr))), true
}

// chainEnd follows delegatee -> delegatee's delegatee until someone who did not delegate.
// Reaching the delegator means a cycle.
func (c *call) chainEnd(id uint64, delegator, delegatee sdk.Address) (sdk.Address, error) {
	cur := delegatee
	for depth := 0; depth < maxDelegationDepth; depth++ {
		next, ok := c.delegatedTo(id, cur)
		if !ok {
			return cur, nil
		}
		if sameAddress(next, delegator) {
			return "", ErrSelfDelegation
		}
		cur = next
	}
	return "", ErrChainTooDeep
}

// DelegateVoteTo hands the sender's vote on project id to delegatee. The weight travels to
// whoever finally votes at the end of the chain, together with anything already delegated
// to the sender.
func (d *DAO) DelegateVoteTo(env sdk.Env, delegatee sdk.Address, id uint64) error {
	return d.exec(env, "delegate", true, func(c *call) error {
		prj, err := c.loadProject(id)
		if err != nil {
			return err
		}
		delegatee, err := canonical(delegatee)
		if err != nil {
			return err
		}
		delegator := c.sender()
		if sameAddress(delegator, delegatee) {
			return ErrSelfDelegation
		}
		if c.now() >= prj.VoteDeadline {
			return ErrVotingClosed
		}
		if err := c.requireMember(delegator, ErrNotMember); err != nil {
			return err
		}
		if err := c.requireMember(delegatee, ErrDelegateeNotMember); err != nil {
			return err
		}
		if c.st.Get(projectVoterKey(id, delegator)) != nil {
			return ErrAlreadyVoted
		}
		if _, ok := c.delegatedTo(id, delegator); ok {
			return ErrAlreadyDelegated
		}
		if c.st.Get(projectVoterKey(id, delegatee)) != nil {
			return ErrDelegateeAlreadyVoted
		}
		end, err := c.chainEnd(id, delegator, delegatee)
		if err != nil {
			return err
		}
		if c.st.Get(projectVoterKey(id, end)) != nil {
			return ErrDelegateeAlreadyVoted
		}

		mine, err := c.pendingDelegators(id, delegator)
		if err != nil {
			return err
		}
		theirs, err := c.pendingDelegators(id, end)
		if err != nil {
			return err
		}
		theirs = append(theirs, delegator)
		theirs = append(theirs, mine...)
		c.setPendingDelegators(id, end, theirs)
		c.setPendingDelegators(id, delegator, nil)
		c.st.Set(delegationKey(id, delegator), string(delegatee.Bytes()))
		if err := c.addCommitment(delegator, id); err != nil {
			return err
		}
		c.emitDelegated(id, delegator, delegatee)
		return nil
	})
}

// DelegatedTo returns the delegatee addr named on project id.
func (d *DAO) DelegatedTo(addr sdk.Address, id uint64) (sdk.Address, bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return "", false, err
	}
	var (
		to sdk.Address
		ok bool
	)
	err = d.view(func(c *call) error {
		if _, err := c.loadProject(id); err != nil {
			return err
		}
		to, ok = c.delegatedTo(id, addr)
		return nil
	})
	return to, ok, err
}

// PendingWeight is the vote weight addr would cast on project id right now.
func (d *DAO) PendingWeight(addr sdk.Address, id uint64) (uint64, error) {
	addr, err := canonical(addr)
	if err != nil {
		return 0, err
	}
	var n uint64
	err = d.view(func(c *call) error {
		if _, err := c.loadProject(id); err != nil {
			return err
		}
		pending, err := c.pendingDelegators(id, addr)
		if err != nil {
			return err
		}
		n = 1 + uint64(len(pending))
		return nil
	})
	return n, err
}
