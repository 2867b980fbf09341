package contract

import (
	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// call is scoped to the currently executing entry point. Everything an operation reads or
// writes goes through st, and events stay buffered until the store committed.
type call struct {
	st     sdk.State
	env    sdk.Env
	action string
	cfg    *dao.ContractConfig
	events []sdk.Event
}

// now is the block timestamp every window check compares against.
func (c *call) now() int64 {
	return c.env.Timestamp
}

// sender returns the address of the current transaction sender.
func (c *call) sender() sdk.Address {
	return c.env.Sender
}

// treasury is where fees and donations land and grants are paid from.
func (c *call) treasury() sdk.Address {
	return c.cfg.Treasury
}

// emit buffers one event line for publishing after commit.
func (c *call) emit(line string) {
	c.events = append(c.events, sdk.Event{
		TxID:      c.env.TxID,
		Action:    c.action,
		Sender:    c.env.Sender,
		Timestamp: c.env.Timestamp,
		Line:      line,
	})
}
