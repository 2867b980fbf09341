package contract

import (
	"errors"
	"fmt"
)

// Kind groups rejection reasons so integrators can branch without parsing text.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindNotMember
	KindWindowViolation
	KindAlreadyDone
	KindInvalidInput
	KindInsufficientFunds
	KindArithmeticOverflow
	KindNotEligible
	KindInternal
)

// String returns the snake case form used in api error codes and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotMember:
		return "not_member"
	case KindWindowViolation:
		return "window_violation"
	case KindAlreadyDone:
		return "already_done"
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindArithmeticOverflow:
		return "arithmetic_overflow"
	case KindNotEligible:
		return "not_eligible"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is every rejection the engine returns. Code is unique per reason; Kind is coarse.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels (no Code) by kind and everything else by code, so both
// errors.Is(err, ErrAlreadyDone) and errors.Is(err, ErrAlreadyVoted) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind == e.Kind
	}
	return t.Code == e.Code
}

// withf returns a copy carrying extra detail in the message, same code.
func (e *Error) withf(format string, args ...any) *Error {
	cp := *e
	cp.Msg = e.Msg + ": " + fmt.Sprintf(format, args...)
	return &cp
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// internalError wraps storage or codec failures, those abort the call like everything else.
func internalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Msg: msg, Err: err}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf reports the reason code of err, "internal" for foreign errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}

// ----- kind sentinels -----

var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrMembership         = &Error{Kind: KindNotMember}
	ErrWindowViolation    = &Error{Kind: KindWindowViolation}
	ErrAlreadyDone        = &Error{Kind: KindAlreadyDone}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrInsufficientFunds  = &Error{Kind: KindInsufficientFunds}
	ErrArithmeticOverflow = &Error{Kind: KindArithmeticOverflow, Code: "arithmetic_overflow", Msg: "arithmetic overflow"}
	ErrNotEligible        = &Error{Kind: KindNotEligible}
	ErrInternal           = &Error{Kind: KindInternal}
)

// ----- reasons -----

var (
	ErrNotInitialized     = newError(KindNotFound, "not_initialized", "contract not initialized")
	ErrProjectNotFound    = newError(KindNotFound, "project_not_found", "project doesn't exist")
	ErrSurveyNotFound     = newError(KindNotFound, "survey_not_found", "survey doesn't exist")
	ErrNotProjectOwner    = newError(KindUnauthorized, "not_project_owner", "caller is not the project owner")
	ErrNotDeployer        = newError(KindUnauthorized, "not_deployer", "caller is not the deployer")
	ErrTreasuryCaller     = newError(KindUnauthorized, "treasury_caller", "the treasury cannot originate calls")
	ErrNotMember          = newError(KindNotMember, "not_member", "caller is not a member (zero MyGov balance)")
	ErrDelegateeNotMember = newError(KindNotMember, "delegatee_not_member", "delegatee is not a member")

	ErrVotingClosed            = newError(KindWindowViolation, "voting_closed", "proposal vote deadline has passed")
	ErrVotingStillOpen         = newError(KindWindowViolation, "voting_still_open", "proposal voting is still open")
	ErrReservationWindowPassed = newError(KindWindowViolation, "reservation_window_passed", "grant reservation window has passed")
	ErrPaymentWindowNotOpen    = newError(KindWindowViolation, "payment_window_not_open", "payment window for this milestone is not open yet")
	ErrPaymentWindowClosed     = newError(KindWindowViolation, "payment_window_closed", "payment window for this milestone has passed")
	ErrPaymentWindowOpen       = newError(KindWindowViolation, "payment_window_open", "payment window for this milestone is still open")
	ErrSurveyExpired           = newError(KindWindowViolation, "survey_expired", "survey deadline has passed")

	ErrAlreadyInitialized    = newError(KindAlreadyDone, "already_initialized", "contract already initialized")
	ErrAlreadyClaimed        = newError(KindAlreadyDone, "already_claimed", "faucet already used")
	ErrAlreadyVoted          = newError(KindAlreadyDone, "already_voted", "already voted on proposal")
	ErrAlreadyDelegated      = newError(KindAlreadyDone, "already_delegated", "already delegated vote for this project")
	ErrDelegateeAlreadyVoted = newError(KindAlreadyDone, "delegatee_already_voted", "delegatee already voted on this project")
	ErrAlreadyReserved       = newError(KindAlreadyDone, "already_reserved", "project grant already reserved")
	ErrProjectFullyPaid      = newError(KindAlreadyDone, "project_fully_paid", "every milestone was already paid")
	ErrAlreadyTaken          = newError(KindAlreadyDone, "already_taken", "survey already taken")

	ErrSelfDelegation     = newError(KindInvalidInput, "self_delegation", "cannot delegate to self through a chain")
	ErrZeroAddress        = newError(KindInvalidInput, "zero_address", "zero address")
	ErrInvalidAddress     = newError(KindInvalidInput, "invalid_address", "malformed address")
	ErrInvalidAsset       = newError(KindInvalidInput, "invalid_asset", "unknown asset")
	ErrInvalidAmount      = newError(KindInvalidInput, "invalid_amount", "amount must be greater than zero")
	ErrInvalidDeadline    = newError(KindInvalidInput, "invalid_deadline", "deadline must be in the future")
	ErrInvalidSchedule    = newError(KindInvalidInput, "invalid_schedule", "invalid payment schedule")
	ErrURLTooLong         = newError(KindInvalidInput, "url_too_long", "url exceeds maximum length")
	ErrInvalidSurvey      = newError(KindInvalidInput, "invalid_survey", "invalid survey choice setup")
	ErrNoChoices          = newError(KindInvalidInput, "no_choices", "at least one choice required")
	ErrTooManyChoices     = newError(KindInvalidInput, "too_many_choices", "more choices than allowed")
	ErrInvalidChoiceIndex = newError(KindInvalidInput, "invalid_choice_index", "choice index out of range")
	ErrDuplicateChoice    = newError(KindInvalidInput, "duplicate_choice", "choice selected twice")
	ErrInvalidConfig      = newError(KindInvalidInput, "invalid_config", "invalid contract config")
	ErrChainTooDeep       = newError(KindInvalidInput, "delegation_chain_too_deep", "delegation chain too deep")
	ErrInvalidPayload     = newError(KindInvalidInput, "invalid_payload", "invalid payload")
	ErrUnknownAction      = newError(KindInvalidInput, "unknown_action", "unknown action")

	ErrInsufficientBalance            = newError(KindInsufficientFunds, "insufficient_balance", "insufficient balance")
	ErrInsufficientAllowance          = newError(KindInsufficientFunds, "insufficient_allowance", "insufficient allowance")
	ErrInsufficientBalanceForDonation = newError(KindInsufficientFunds, "insufficient_balance_for_donation", "MyGov balance insufficient for donation amount")
	ErrInsufficientTreasury           = newError(KindInsufficientFunds, "insufficient_treasury", "treasury cannot cover the payment schedule")

	ErrVoteFailed         = newError(KindNotEligible, "vote_failed", "proposal did not pass")
	ErrProjectNotFunded   = newError(KindNotEligible, "project_not_funded", "project grant is not reserved")
	ErrPaymentNotApproved = newError(KindNotEligible, "payment_not_approved", "payment vote is below the member threshold")
)
