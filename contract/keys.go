package contract

import "mygov_dao/sdk"

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
		byte(x>>32),
		byte(x>>40),
		byte(x>>48),
		byte(x>>56),
	)
}

// packU32LE is the 32-bit sibling, used for milestone indexes.
func packU32LE(x uint32, dst []byte) []byte {
	return append(dst, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
}

// idKey is prefix|id, the layout of every record key.
func idKey(prefix byte, id uint64) string {
	var buf [9]byte
	buf[0] = prefix
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// idAddrKey mixes id plus raw address bytes to avoid nested maps in storage.
func idAddrKey(prefix byte, id uint64, addr sdk.Address) string {
	buf := make([]byte, 0, 1+8+20)
	buf = append(buf, prefix)
	buf = packU64LE(id, buf)
	buf = append(buf, addr.Bytes()...)
	return string(buf)
}

func contractConfigKey() string {
	return string([]byte{kContractConfig})
}

// balanceKey is kBalance|asset|address.
func balanceKey(asset sdk.Asset, addr sdk.Address) string {
	buf := make([]byte, 0, 2+20)
	buf = append(buf, kBalance, asset.Byte())
	buf = append(buf, addr.Bytes()...)
	return string(buf)
}

// allowanceKey is kAllowance|asset|owner|spender.
func allowanceKey(asset sdk.Asset, owner, spender sdk.Address) string {
	buf := make([]byte, 0, 2+40)
	buf = append(buf, kAllowance, asset.Byte())
	buf = append(buf, owner.Bytes()...)
	buf = append(buf, spender.Bytes()...)
	return string(buf)
}

func supplyKey(asset sdk.Asset) string {
	return string([]byte{kSupply, asset.Byte()})
}

func faucetKey(addr sdk.Address) string {
	return string(append([]byte{kFaucetUsed}, addr.Bytes()...))
}

func reservedKey() string {
	return string([]byte{kReservedTL})
}

func projectKey(id uint64) string {
	return idKey(kProjectMeta, id)
}

func projectVoterKey(id uint64, voter sdk.Address) string {
	return idAddrKey(kProjectVoter, id, voter)
}

func delegationKey(id uint64, delegator sdk.Address) string {
	return idAddrKey(kDelegation, id, delegator)
}

func pendingDelegatorsKey(id uint64, delegatee sdk.Address) string {
	return idAddrKey(kPendingDelegators, id, delegatee)
}

// paymentTallyKey is kPaymentTally|project|milestone, a fresh key per milestone resets the count.
func paymentTallyKey(id uint64, milestone uint32) string {
	buf := make([]byte, 0, 1+8+4)
	buf = append(buf, kPaymentTally)
	buf = packU64LE(id, buf)
	buf = packU32LE(milestone, buf)
	return string(buf)
}

func paymentVoterKey(id uint64, milestone uint32, voter sdk.Address) string {
	buf := make([]byte, 0, 1+8+4+20)
	buf = append(buf, kPaymentVoter)
	buf = packU64LE(id, buf)
	buf = packU32LE(milestone, buf)
	buf = append(buf, voter.Bytes()...)
	return string(buf)
}

func surveyKey(id uint64) string {
	return idKey(kSurveyMeta, id)
}

func surveyTakenKey(id uint64, addr sdk.Address) string {
	return idAddrKey(kSurveyTaken, id, addr)
}
