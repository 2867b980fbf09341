package sdk

import (
	"time"

	"github.com/google/uuid"
)

// Env is the snapshot a single call runs against: who signed it, the block time, and a tx id
// so log lines of one call can be grouped.
type Env struct {
	Sender    Address
	Timestamp int64
	TxID      string
}

// NewEnv builds an Env with a fresh tx id.
// Example payload: sdk.NewEnv(alice, 1735689600)
func NewEnv(sender Address, timestamp int64) Env {
	return Env{
		Sender:    sender,
		Timestamp: timestamp,
		TxID:      uuid.NewString(),
	}
}

// Now is a wall clock Env, used by the http api when no timestamp override is allowed.
func Now(sender Address) Env {
	return NewEnv(sender, time.Now().Unix())
}

// At returns a copy of the env moved to another timestamp, handy in tests.
func (e Env) At(timestamp int64) Env {
	e.Timestamp = timestamp
	e.TxID = uuid.NewString()
	return e
}
