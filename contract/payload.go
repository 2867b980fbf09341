package contract

import (
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// Payloads are pipe-delimited strings, the same shape for the CLI and for raw calls:
//
//	transfer       asset|to|amount
//	transfer_from  asset|from|to|amount
//	approve        asset|spender|amount
//	mint_tl        to|amount
//	send_tokens    to|amount
//	submit_project url|voteDeadline|amount,amount|ts,ts
//	vote           id|choice
//	delegate       id|delegatee
//	payment_vote   id|choice
//	submit_survey  url|deadline|numChoices|atMostChoice
//	take_survey    id|0,2
//	donate_tl      amount
//
// Amounts are whole tokens with an optional fraction ("4000", "0.5"), scaled by the asset's decimals.

// payloadParts splits a payload and always hands out n fields, missing ones are empty.
type payloadParts []string

func splitPayload(payload string, n int) payloadParts {
	parts := strings.Split(unwrapPayload(payload), "|")
	for len(parts) < n {
		parts = append(parts, "")
	}
	return payloadParts(parts)
}

func (p payloadParts) get(i int) string {
	if i < len(p) {
		return strings.TrimSpace(p[i])
	}
	return ""
}

// unwrapPayload strips surrounding quotes that shells and json bodies like to leave behind.
func unwrapPayload(payload string) string {
	raw := strings.TrimSpace(payload)
	if len(raw) >= 2 {
		first := raw[0]
		last := raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				return unquoted
			}
			raw = strings.TrimSpace(raw[1 : len(raw)-1])
		}
	}
	return raw
}

func parseUintField(val string, field string) (uint64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, ErrInvalidPayload.withf("missing %s", field)
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidPayload.withf("invalid %s", field)
	}
	return n, nil
}

func parseIntField(val string, field string) (int64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, ErrInvalidPayload.withf("missing %s", field)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidPayload.withf("invalid %s", field)
	}
	return n, nil
}

// parseBoolField only takes explicit spellings; votes are final, so a typo must not count as no.
func parseBoolField(val string, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	case "":
		return false, ErrInvalidPayload.withf("missing %s", field)
	default:
		return false, ErrInvalidPayload.withf("invalid %s", field)
	}
}

// parseChoiceField reads 0,2,5 style index lists, ';' works as separator too.
func parseChoiceField(val string) ([]uint32, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return []uint32{}, nil
	}
	raw := strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == ';'
	})
	choices := make([]uint32, 0, len(raw))
	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, ErrInvalidPayload.withf("invalid choice index %q", part)
		}
		choices = append(choices, uint32(idx))
	}
	return choices, nil
}

func parseAssetField(val string) (sdk.Asset, error) {
	a, err := sdk.ParseAsset(val)
	if err != nil {
		return "", ErrInvalidAsset.withf("%q", val)
	}
	return a, nil
}

func parseAddressField(val string, field string) (sdk.Address, error) {
	if strings.TrimSpace(val) == "" {
		return "", ErrInvalidPayload.withf("missing %s", field)
	}
	return canonical(sdk.Address(val))
}

func parseAmountField(val string, asset sdk.Asset) (*uint256.Int, error) {
	amt, err := dao.ParseTokenAmount(val, asset.Decimals())
	if err != nil {
		return nil, ErrInvalidPayload.withf("amount %q: %v", val, err)
	}
	return amt, nil
}

// parseAmountList reads comma separated TL amounts.
func parseAmountList(val string) ([]*uint256.Int, error) {
	var out []*uint256.Int
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		amt, err := parseAmountField(part, sdk.AssetTL)
		if err != nil {
			return nil, err
		}
		out = append(out, amt)
	}
	return out, nil
}

func parseTimestampList(val string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ts, err := parseIntField(part, "payment date")
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

// decodeProjectProposal expects url|voteDeadline|amounts|schedule.
func decodeProjectProposal(payload string) (ProjectProposal, error) {
	parts := splitPayload(payload, 4)
	deadline, err := parseIntField(parts.get(1), "vote deadline")
	if err != nil {
		return ProjectProposal{}, err
	}
	amounts, err := parseAmountList(parts.get(2))
	if err != nil {
		return ProjectProposal{}, err
	}
	schedule, err := parseTimestampList(parts.get(3))
	if err != nil {
		return ProjectProposal{}, err
	}
	return ProjectProposal{
		WebURL:         parts.get(0),
		VoteDeadline:   deadline,
		PaymentAmounts: amounts,
		PaySchedule:    schedule,
	}, nil
}

// decodeSurveyProposal expects url|deadline|numChoices|atMostChoice.
func decodeSurveyProposal(payload string) (SurveyProposal, error) {
	parts := splitPayload(payload, 4)
	deadline, err := parseIntField(parts.get(1), "deadline")
	if err != nil {
		return SurveyProposal{}, err
	}
	num, err := parseUintField(parts.get(2), "numChoices")
	if err != nil {
		return SurveyProposal{}, err
	}
	atMost, err := parseUintField(parts.get(3), "atMostChoice")
	if err != nil {
		return SurveyProposal{}, err
	}
	if num > MaxSurveyChoices || atMost > MaxSurveyChoices {
		return SurveyProposal{}, ErrInvalidSurvey.withf("numChoices must be within 1..%d", MaxSurveyChoices)
	}
	return SurveyProposal{
		WebURL:       parts.get(0),
		Deadline:     deadline,
		NumChoices:   uint32(num),
		AtMostChoice: uint32(atMost),
	}, nil
}

// decodeIDChoice expects id|choice.
func decodeIDChoice(payload string) (uint64, bool, error) {
	parts := splitPayload(payload, 2)
	id, err := parseUintField(parts.get(0), "id")
	if err != nil {
		return 0, false, err
	}
	choice, err := parseBoolField(parts.get(1), "choice")
	if err != nil {
		return 0, false, err
	}
	return id, choice, nil
}
