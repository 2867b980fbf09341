package contract

import (
	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// -----------------------------------------------------------------------------
// Balances
// -----------------------------------------------------------------------------

func (c *call) balance(asset sdk.Asset, addr sdk.Address) (*uint256.Int, error) {
	return c.getAmount(balanceKey(asset, addr))
}

// setBalance is the only writer of balances. MyGov writes keep the member counter in sync
// with 0 <-> non-zero transitions; the treasury never counts as a member.
func (c *call) setBalance(asset sdk.Asset, addr sdk.Address, v *uint256.Int) error {
	if asset == sdk.AssetMyGov && !sameAddress(addr, c.treasury()) {
		old, err := c.balance(asset, addr)
		if err != nil {
			return err
		}
		wasMember, isMember := !old.IsZero(), !v.IsZero()
		switch {
		case !wasMember && isMember:
			if _, err := c.incCount(MembersCount); err != nil {
				return err
			}
		case wasMember && !isMember:
			if err := c.decCount(MembersCount); err != nil {
				return err
			}
		}
	}
	c.setAmount(balanceKey(asset, addr), v)
	return nil
}

func (c *call) allowance(asset sdk.Asset, owner, spender sdk.Address) (*uint256.Int, error) {
	return c.getAmount(allowanceKey(asset, owner, spender))
}

func validateTransfer(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if !asset.IsValid() {
		return ErrInvalidAsset
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	return nil
}

// -----------------------------------------------------------------------------
// Ledger operations
// -----------------------------------------------------------------------------

// transfer moves amount from -> to. Both resulting balances are computed before anything is written.
func (c *call) transfer(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	if err := validateTransfer(asset, from, to, amount); err != nil {
		return err
	}
	fromBal, err := c.balance(asset, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance.withf("%s has %s, needs %s", asset, fromBal.Dec(), amount.Dec())
	}
	if !sameAddress(from, to) {
		toBal, err := c.balance(asset, to)
		if err != nil {
			return err
		}
		newTo, err := checkedAdd(toBal, amount)
		if err != nil {
			return err
		}
		newFrom, err := checkedSub(fromBal, amount)
		if err != nil {
			return err
		}
		if err := c.setBalance(asset, from, newFrom); err != nil {
			return err
		}
		if err := c.setBalance(asset, to, newTo); err != nil {
			return err
		}
	}
	c.emitTransfer(asset, from, to, amount)
	return nil
}

// transferFrom spends spender's allowance on from, reducing it by exactly amount.
func (c *call) transferFrom(asset sdk.Asset, spender, from, to sdk.Address, amount *uint256.Int) error {
	if err := validateTransfer(asset, from, to, amount); err != nil {
		return err
	}
	allowed, err := c.allowance(asset, from, spender)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return ErrInsufficientAllowance.withf("%s allowance %s, needs %s", asset, allowed.Dec(), amount.Dec())
	}
	rest, err := checkedSub(allowed, amount)
	if err != nil {
		return err
	}
	if err := c.transfer(asset, from, to, amount); err != nil {
		return err
	}
	c.setAmount(allowanceKey(asset, from, spender), rest)
	return nil
}

// approve overwrites the allowance, zero revokes it.
func (c *call) approve(asset sdk.Asset, owner, spender sdk.Address, amount *uint256.Int) error {
	if !asset.IsValid() {
		return ErrInvalidAsset
	}
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil {
		amount = dao.Zero()
	}
	c.setAmount(allowanceKey(asset, owner, spender), amount)
	c.emitApproval(asset, owner, spender, amount)
	return nil
}

// mint creates new units and grows the supply, both checked.
func (c *call) mint(asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	if !asset.IsValid() {
		return ErrInvalidAsset
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	supply, err := c.getAmount(supplyKey(asset))
	if err != nil {
		return err
	}
	newSupply, err := checkedAdd(supply, amount)
	if err != nil {
		return err
	}
	bal, err := c.balance(asset, to)
	if err != nil {
		return err
	}
	newBal, err := checkedAdd(bal, amount)
	if err != nil {
		return err
	}
	if err := c.setBalance(asset, to, newBal); err != nil {
		return err
	}
	c.setAmount(supplyKey(asset), newSupply)
	c.emitMint(asset, to, amount)
	return nil
}

// chargeFee pulls a fee into the treasury with the treasury as spender. Zero fees are skipped.
func (c *call) chargeFee(asset sdk.Asset, payer sdk.Address, fee *uint256.Int) error {
	if fee == nil || fee.IsZero() {
		return nil
	}
	return c.transferFrom(asset, c.treasury(), payer, c.treasury(), fee)
}

// -----------------------------------------------------------------------------
// Entry points
// -----------------------------------------------------------------------------

// Transfer sends amount of asset from the sender to to.
func (d *DAO) Transfer(env sdk.Env, asset sdk.Asset, to sdk.Address, amount *uint256.Int) error {
	return d.exec(env, "transfer", true, func(c *call) error {
		to, err := canonical(to)
		if err != nil {
			return err
		}
		return c.transfer(asset, c.sender(), to, amount)
	})
}

// TransferFrom moves from's tokens using the sender's allowance.
func (d *DAO) TransferFrom(env sdk.Env, asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) error {
	return d.exec(env, "transfer_from", true, func(c *call) error {
		from, err := canonical(from)
		if err != nil {
			return err
		}
		to, err := canonical(to)
		if err != nil {
			return err
		}
		return c.transferFrom(asset, c.sender(), from, to, amount)
	})
}

// Approve lets spender move up to amount of the sender's asset.
func (d *DAO) Approve(env sdk.Env, asset sdk.Asset, spender sdk.Address, amount *uint256.Int) error {
	return d.exec(env, "approve", true, func(c *call) error {
		spender, err := canonical(spender)
		if err != nil {
			return err
		}
		return c.approve(asset, c.sender(), spender, amount)
	})
}

// MintTL creates TL. Only the deployer may mint unless the contract was set up with OpenTLMint.
func (d *DAO) MintTL(env sdk.Env, to sdk.Address, amount *uint256.Int) error {
	return d.exec(env, "mint_tl", true, func(c *call) error {
		if !c.cfg.OpenTLMint && !sameAddress(c.sender(), c.cfg.Deployer) {
			return ErrNotDeployer
		}
		to, err := canonical(to)
		if err != nil {
			return err
		}
		return c.mint(sdk.AssetTL, to, amount)
	})
}

// SendTokens is the deployer's distribution helper, a MyGov transfer out of the deployer balance.
func (d *DAO) SendTokens(env sdk.Env, to sdk.Address, amount *uint256.Int) error {
	return d.exec(env, "send_tokens", true, func(c *call) error {
		if !sameAddress(c.sender(), c.cfg.Deployer) {
			return ErrNotDeployer
		}
		to, err := canonical(to)
		if err != nil {
			return err
		}
		return c.transfer(sdk.AssetMyGov, c.sender(), to, amount)
	})
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

// BalanceOf returns addr's balance of asset in base units.
func (d *DAO) BalanceOf(asset sdk.Asset, addr sdk.Address) (*uint256.Int, error) {
	if !asset.IsValid() {
		return nil, ErrInvalidAsset
	}
	addr, err := canonical(addr)
	if err != nil {
		return nil, err
	}
	var out *uint256.Int
	err = d.view(func(c *call) error {
		var err error
		out, err = c.balance(asset, addr)
		return err
	})
	return out, err
}

// Allowance returns how much spender may still move out of owner's balance.
func (d *DAO) Allowance(asset sdk.Asset, owner, spender sdk.Address) (*uint256.Int, error) {
	if !asset.IsValid() {
		return nil, ErrInvalidAsset
	}
	owner, err := canonical(owner)
	if err != nil {
		return nil, err
	}
	spender, err = canonical(spender)
	if err != nil {
		return nil, err
	}
	var out *uint256.Int
	err = d.view(func(c *call) error {
		var err error
		out, err = c.allowance(asset, owner, spender)
		return err
	})
	return out, err
}

// TotalSupply of asset, equal to the sum of all balances.
func (d *DAO) TotalSupply(asset sdk.Asset) (*uint256.Int, error) {
	if !asset.IsValid() {
		return nil, ErrInvalidAsset
	}
	var out *uint256.Int
	err := d.view(func(c *call) error {
		var err error
		out, err = c.getAmount(supplyKey(asset))
		return err
	})
	return out, err
}
