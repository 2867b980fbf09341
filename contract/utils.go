package contract

import (
	"strconv"
	"strings"

	"mygov_dao/sdk"
)

// -----------------------------------------------------------------------------
// State Utilities
// -----------------------------------------------------------------------------

// stateSetIfChanged avoids unnecessary writes so badger transactions stay small.
func stateSetIfChanged(st sdk.State, key, value string) {
	if existing := st.Get(key); existing != nil && *existing == value {
		return
	}
	st.Set(key, value)
}

// -----------------------------------------------------------------------------
// String Conversion Helpers
// -----------------------------------------------------------------------------

// UIntSliceToString renders survey choices for event lines as 0,2,3.
// Example payload: UIntSliceToString([]uint32{0,2,3})
func UIntSliceToString(nums []uint32) string {
	strNums := make([]string, len(nums))
	for i, n := range nums {
		strNums[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(strNums, ",")
}
