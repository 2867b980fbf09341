package contract

import (
	"github.com/holiman/uint256"

	"mygov_dao/sdk"
)

// DonateTLToken moves amount TL from the sender into the treasury. The sender approves the
// treasury first, like for fees.
func (d *DAO) DonateTLToken(env sdk.Env, amount *uint256.Int) error {
	return d.exec(env, "donate_tl", true, func(c *call) error {
		if err := c.transferFrom(sdk.AssetTL, c.treasury(), c.sender(), c.treasury(), amount); err != nil {
			return err
		}
		c.emitDonation(sdk.AssetTL, c.sender(), amount)
		return nil
	})
}

// DonateMyGovToken donates MyGov. A donor with an open vote, delegation or payment vote must
// keep at least one unit, so membership cannot be dropped while the commitment is live.
func (d *DAO) DonateMyGovToken(env sdk.Env, amount *uint256.Int) error {
	return d.exec(env, "donate_mygov", true, func(c *call) error {
		if amount == nil || amount.IsZero() {
			return ErrInvalidAmount
		}
		donor := c.sender()
		open, err := c.hasOpenCommitment(donor)
		if err != nil {
			return err
		}
		if open {
			bal, err := c.balance(sdk.AssetMyGov, donor)
			if err != nil {
				return err
			}
			if !bal.Gt(amount) {
				return ErrInsufficientBalanceForDonation
			}
		}
		if err := c.transferFrom(sdk.AssetMyGov, c.treasury(), donor, c.treasury(), amount); err != nil {
			return err
		}
		c.emitDonation(sdk.AssetMyGov, donor, amount)
		return nil
	})
}
