package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// emitInit records who set the contract up and where the treasury lives.
func (c *call) emitInit(deployer, treasury sdk.Address, supply *uint256.Int) {
	c.emit(fmt.Sprintf(
		"init|by:%s|tr:%s|sup:%s",
		deployer,
		treasury,
		dao.AmountString(supply),
	))
}

// emitTransfer is logged for every balance move, fees and payouts included.
func (c *call) emitTransfer(asset sdk.Asset, from, to sdk.Address, amount *uint256.Int) {
	c.emit(fmt.Sprintf(
		"tr|as:%s|from:%s|to:%s|am:%s",
		asset,
		from,
		to,
		dao.AmountString(amount),
	))
}

func (c *call) emitApproval(asset sdk.Asset, owner, spender sdk.Address, amount *uint256.Int) {
	c.emit(fmt.Sprintf(
		"ap|as:%s|by:%s|sp:%s|am:%s",
		asset,
		owner,
		spender,
		dao.AmountString(amount),
	))
}

func (c *call) emitMint(asset sdk.Asset, to sdk.Address, amount *uint256.Int) {
	c.emit(fmt.Sprintf(
		"mt|as:%s|to:%s|am:%s",
		asset,
		to,
		dao.AmountString(amount),
	))
}

// emitFaucet is the short "a new member showed up" ping.
func (c *call) emitFaucet(to sdk.Address) {
	c.emit(fmt.Sprintf("fc|to:%s", to))
}

// emitProjectCreated gives explorers a neat ping without scanning full storage diffs.
func (c *call) emitProjectCreated(id uint64, owner sdk.Address) {
	c.emit(fmt.Sprintf(
		"pc|id:%d|by:%s",
		id,
		owner,
	))
}

// emitVoteCast includes the weight so tallies can be replayed from logs only.
func (c *call) emitVoteCast(id uint64, voter sdk.Address, choice bool, weight uint64) {
	c.emit(fmt.Sprintf(
		"v|id:%d|by:%s|c:%t|w:%d",
		id,
		voter,
		choice,
		weight,
	))
}

func (c *call) emitDelegated(id uint64, delegator, delegatee sdk.Address) {
	c.emit(fmt.Sprintf(
		"dg|id:%d|by:%s|to:%s",
		id,
		delegator,
		delegatee,
	))
}

func (c *call) emitReserved(id uint64, owner sdk.Address, total *uint256.Int) {
	c.emit(fmt.Sprintf(
		"rs|id:%d|by:%s|am:%s",
		id,
		owner,
		dao.AmountString(total),
	))
}

func (c *call) emitPaymentVote(id uint64, milestone uint32, voter sdk.Address, choice bool) {
	c.emit(fmt.Sprintf(
		"pv|id:%d|m:%d|by:%s|c:%t",
		id,
		milestone,
		voter,
		choice,
	))
}

// emitWithdrawn traces a milestone payout, the matching tr line follows it.
func (c *call) emitWithdrawn(id uint64, milestone uint32, to sdk.Address, amount *uint256.Int) {
	c.emit(fmt.Sprintf(
		"wd|id:%d|m:%d|to:%s|am:%s",
		id,
		milestone,
		to,
		dao.AmountString(amount),
	))
}

// emitLapsed marks a grant whose milestone window passed without a withdrawal.
func (c *call) emitLapsed(id uint64, milestone uint32) {
	c.emit(fmt.Sprintf("lp|id:%d|m:%d", id, milestone))
}

func (c *call) emitSurveyCreated(id uint64, owner sdk.Address) {
	c.emit(fmt.Sprintf(
		"sc|id:%d|by:%s",
		id,
		owner,
	))
}

// emitSurveyTaken carries raw choice indexes like 0,2,3.
func (c *call) emitSurveyTaken(id uint64, by sdk.Address, choices []uint32) {
	c.emit(fmt.Sprintf(
		"st|id:%d|by:%s|cs:%s",
		id,
		by,
		UIntSliceToString(choices),
	))
}

func (c *call) emitDonation(asset sdk.Asset, by sdk.Address, amount *uint256.Int) {
	c.emit(fmt.Sprintf(
		"dn|as:%s|by:%s|am:%s",
		asset,
		by,
		dao.AmountString(amount),
	))
}
