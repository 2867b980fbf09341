package contract

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	// MaxURLLength limits the size of project and survey urls.
	MaxURLLength = 500
	// MaxMilestones caps the payment schedule of a single project.
	MaxMilestones = 64
	// MaxSurveyChoices caps the number of options a survey can offer.
	MaxSurveyChoices = 64
	// maxDelegationDepth bounds the delegation chain walk.
	maxDelegationDepth = 4096
)

// -----------------------------------------------------------------------------
// Governance Parameters
// -----------------------------------------------------------------------------

const (
	// PaymentQuorumPercent is the share of all members that must vote yes on a milestone.
	PaymentQuorumPercent = 1
	// DefaultInitialSupply is minted to the deployer on init, whole MyGov units.
	DefaultInitialSupply = 10_000_000
	// DefaultFaucetAmount is what a single faucet claim mints.
	DefaultFaucetAmount = 1
	// DefaultProjectFeeTL and DefaultProjectFeeMyGov are charged per project proposal (whole tokens).
	DefaultProjectFeeTL    = 4000
	DefaultProjectFeeMyGov = 5
	// DefaultSurveyFeeTL and DefaultSurveyFeeMyGov are charged per survey (whole tokens).
	DefaultSurveyFeeTL    = 1000
	DefaultSurveyFeeMyGov = 2
)

// -----------------------------------------------------------------------------
// Counter Keys
// -----------------------------------------------------------------------------

const (
	// ProjectsCount holds the project counter (next id).
	ProjectsCount = "count:proj"
	// SurveysCount holds the survey counter (next id).
	SurveysCount = "count:survey"
	// FundedCount counts grant reservations ever made.
	FundedCount = "count:funded"
	// MembersCount tracks addresses with a non-zero MyGov balance.
	MembersCount = "count:members"
)

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kContractConfig stores the encoded ContractConfig.
	kContractConfig byte = 0x00
	// kBalance holds asset|address -> decimal balance.
	kBalance byte = 0x01
	// kAllowance holds asset|owner|spender -> decimal allowance.
	kAllowance byte = 0x02
	// kSupply holds asset -> decimal total supply.
	kSupply byte = 0x03
	// kFaucetUsed flags addresses that already claimed.
	kFaucetUsed byte = 0x04
	// kReservedTL is the TL locked for reserved grants.
	kReservedTL byte = 0x05
	// kProjectMeta contains encoded Project records.
	kProjectMeta byte = 0x10
	// kProjectVoter is the proposal phase vote receipt per project+address.
	kProjectVoter byte = 0x11
	// kDelegation maps project+delegator to the named delegatee.
	kDelegation byte = 0x12
	// kPendingDelegators lists unresolved delegators waiting on a delegatee.
	kPendingDelegators byte = 0x13
	// kPaymentTally stores PaymentTally per project+milestone.
	kPaymentTally byte = 0x14
	// kPaymentVoter is the payment phase receipt per project+milestone+address.
	kPaymentVoter byte = 0x15
	// kSurveyMeta contains encoded Survey records.
	kSurveyMeta byte = 0x20
	// kSurveyTaken flags survey participation per survey+address.
	kSurveyTaken byte = 0x21
)

// -----------------------------------------------------------------------------
// Vote Receipts
// -----------------------------------------------------------------------------

const (
	receiptYes       = "y"
	receiptNo        = "n"
	receiptDelegated = "d"
)
