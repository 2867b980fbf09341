package contract

import (
	"strconv"

	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
)

// getCount reads the string counter under the key and defaults to zero.
func (c *call) getCount(key string) (uint64, error) {
	ptr := c.st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, internalError("corrupt counter "+key, err)
	}
	return n, nil
}

// setCount stores uint64 counters back as decimal strings.
func (c *call) setCount(key string, n uint64) {
	c.st.Set(key, strconv.FormatUint(n, 10))
}

// incCount bumps a counter by one and returns the value before the bump, which is how ids are handed out.
func (c *call) incCount(key string) (uint64, error) {
	n, err := c.getCount(key)
	if err != nil {
		return 0, err
	}
	if n == ^uint64(0) {
		return 0, ErrArithmeticOverflow.withf("counter %s", key)
	}
	c.setCount(key, n+1)
	return n, nil
}

// decCount lowers a counter, refusing to wrap below zero.
func (c *call) decCount(key string) error {
	n, err := c.getCount(key)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArithmeticOverflow.withf("counter %s underflow", key)
	}
	c.setCount(key, n-1)
	return nil
}

// getAmount reads a decimal uint256 value, missing keys are zero.
func (c *call) getAmount(key string) (*uint256.Int, error) {
	ptr := c.st.Get(key)
	if ptr == nil || *ptr == "" {
		return dao.Zero(), nil
	}
	v, err := uint256.FromDecimal(*ptr)
	if err != nil {
		return nil, internalError("corrupt amount", err)
	}
	return v, nil
}

// setAmount writes v, zero values are deleted to keep the keyspace small.
func (c *call) setAmount(key string, v *uint256.Int) {
	if v == nil || v.IsZero() {
		c.st.Delete(key)
		return
	}
	stateSetIfChanged(c.st, key, v.Dec())
}

// checkedAdd fails closed with ArithmeticOverflow.
func checkedAdd(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return sum, nil
}

// checkedSub reports underflow the same way, callers check balances first so this is a guard.
func checkedSub(a, b *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return diff, nil
}
