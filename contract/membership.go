package contract

import (
	"mygov_dao/sdk"
)

// isMember is the one membership rule: a non-zero MyGov balance. The treasury never qualifies.
func (c *call) isMember(addr sdk.Address) (bool, error) {
	if sameAddress(addr, c.treasury()) {
		return false, nil
	}
	bal, err := c.balance(sdk.AssetMyGov, addr)
	if err != nil {
		return false, err
	}
	return !bal.IsZero(), nil
}

// requireMember fails with the given reason when addr holds no MyGov.
func (c *call) requireMember(addr sdk.Address, reason *Error) error {
	ok, err := c.isMember(addr)
	if err != nil {
		return err
	}
	if !ok {
		return reason
	}
	return nil
}

// Faucet mints the configured amount of MyGov once per address.
func (d *DAO) Faucet(env sdk.Env) error {
	return d.exec(env, "faucet", true, func(c *call) error {
		key := faucetKey(c.sender())
		if c.st.Get(key) != nil {
			return ErrAlreadyClaimed
		}
		c.st.Set(key, "1")
		if err := c.mint(sdk.AssetMyGov, c.sender(), c.cfg.FaucetAmount); err != nil {
			return err
		}
		c.emitFaucet(c.sender())
		return nil
	})
}

// HasUsedFaucet reports whether addr already claimed.
func (d *DAO) HasUsedFaucet(addr sdk.Address) (bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return false, err
	}
	var used bool
	err = d.view(func(c *call) error {
		used = c.st.Get(faucetKey(addr)) != nil
		return nil
	})
	return used, err
}

// IsMember reports whether addr currently holds MyGov.
func (d *DAO) IsMember(addr sdk.Address) (bool, error) {
	addr, err := canonical(addr)
	if err != nil {
		return false, err
	}
	var ok bool
	err = d.view(func(c *call) error {
		var err error
		ok, err = c.isMember(addr)
		return err
	})
	return ok, err
}

// MemberCount is the number of addresses with a non-zero MyGov balance.
func (d *DAO) MemberCount() (uint64, error) {
	var n uint64
	err := d.view(func(c *call) error {
		var err error
		n, err = c.getCount(MembersCount)
		return err
	})
	return n, err
}
