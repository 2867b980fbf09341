package contract

import (
	"sort"
	"strconv"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// Call runs one entry point by name with a pipe payload and returns a short result,
// the new id for submissions and "ok" otherwise.
// Example payload: dao.Call(env, "vote", "3|true")
func (d *DAO) Call(env sdk.Env, action, payload string) (string, error) {
	h, ok := callHandlers[action]
	if !ok {
		return "", ErrUnknownAction.withf("%q", action)
	}
	return h(d, env, payload)
}

// Actions lists the names Call accepts.
func Actions() []string {
	out := make([]string, 0, len(callHandlers))
	for name := range callHandlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type callHandler func(d *DAO, env sdk.Env, payload string) (string, error)

func okResult(err error) (string, error) {
	if err != nil {
		return "", err
	}
	return "ok", nil
}

func idResult(id uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(id, 10), nil
}

var callHandlers = map[string]callHandler{
	"init": func(d *DAO, env sdk.Env, payload string) (string, error) {
		args := DefaultInitArgs()
		if tr := splitPayload(payload, 1).get(0); tr != "" {
			args.Treasury = sdk.Address(tr)
		}
		return okResult(d.Initialize(env, args))
	},
	"faucet": func(d *DAO, env sdk.Env, _ string) (string, error) {
		return okResult(d.Faucet(env))
	},
	"transfer": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 3)
		asset, err := parseAssetField(p.get(0))
		if err != nil {
			return "", err
		}
		to, err := parseAddressField(p.get(1), "to")
		if err != nil {
			return "", err
		}
		amt, err := parseAmountField(p.get(2), asset)
		if err != nil {
			return "", err
		}
		return okResult(d.Transfer(env, asset, to, amt))
	},
	"transfer_from": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 4)
		asset, err := parseAssetField(p.get(0))
		if err != nil {
			return "", err
		}
		from, err := parseAddressField(p.get(1), "from")
		if err != nil {
			return "", err
		}
		to, err := parseAddressField(p.get(2), "to")
		if err != nil {
			return "", err
		}
		amt, err := parseAmountField(p.get(3), asset)
		if err != nil {
			return "", err
		}
		return okResult(d.TransferFrom(env, asset, from, to, amt))
	},
	"approve": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 3)
		asset, err := parseAssetField(p.get(0))
		if err != nil {
			return "", err
		}
		spender, err := parseAddressField(p.get(1), "spender")
		if err != nil {
			return "", err
		}
		amt, err := parseAmountField(p.get(2), asset)
		if err != nil {
			return "", err
		}
		return okResult(d.Approve(env, asset, spender, amt))
	},
	"mint_tl": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 2)
		to, err := parseAddressField(p.get(0), "to")
		if err != nil {
			return "", err
		}
		amt, err := parseAmountField(p.get(1), sdk.AssetTL)
		if err != nil {
			return "", err
		}
		return okResult(d.MintTL(env, to, amt))
	},
	"send_tokens": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 2)
		to, err := parseAddressField(p.get(0), "to")
		if err != nil {
			return "", err
		}
		amt, err := parseAmountField(p.get(1), sdk.AssetMyGov)
		if err != nil {
			return "", err
		}
		return okResult(d.SendTokens(env, to, amt))
	},
	"submit_project": func(d *DAO, env sdk.Env, payload string) (string, error) {
		prop, err := decodeProjectProposal(payload)
		if err != nil {
			return "", err
		}
		return idResult(d.SubmitProjectProposal(env, prop))
	},
	"vote": func(d *DAO, env sdk.Env, payload string) (string, error) {
		id, choice, err := decodeIDChoice(payload)
		if err != nil {
			return "", err
		}
		return okResult(d.VoteForProjectProposal(env, id, choice))
	},
	"delegate": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 2)
		id, err := parseUintField(p.get(0), "id")
		if err != nil {
			return "", err
		}
		to, err := parseAddressField(p.get(1), "delegatee")
		if err != nil {
			return "", err
		}
		return okResult(d.DelegateVoteTo(env, to, id))
	},
	"reserve": func(d *DAO, env sdk.Env, payload string) (string, error) {
		id, err := parseUintField(splitPayload(payload, 1).get(0), "id")
		if err != nil {
			return "", err
		}
		return okResult(d.ReserveProjectGrant(env, id))
	},
	"payment_vote": func(d *DAO, env sdk.Env, payload string) (string, error) {
		id, choice, err := decodeIDChoice(payload)
		if err != nil {
			return "", err
		}
		return okResult(d.VoteForProjectPayment(env, id, choice))
	},
	"withdraw": func(d *DAO, env sdk.Env, payload string) (string, error) {
		id, err := parseUintField(splitPayload(payload, 1).get(0), "id")
		if err != nil {
			return "", err
		}
		return okResult(d.WithdrawProjectTLPayment(env, id))
	},
	"release": func(d *DAO, env sdk.Env, payload string) (string, error) {
		id, err := parseUintField(splitPayload(payload, 1).get(0), "id")
		if err != nil {
			return "", err
		}
		return okResult(d.ReleaseLapsedGrant(env, id))
	},
	"submit_survey": func(d *DAO, env sdk.Env, payload string) (string, error) {
		prop, err := decodeSurveyProposal(payload)
		if err != nil {
			return "", err
		}
		return idResult(d.SubmitSurvey(env, prop))
	},
	"take_survey": func(d *DAO, env sdk.Env, payload string) (string, error) {
		p := splitPayload(payload, 2)
		id, err := parseUintField(p.get(0), "id")
		if err != nil {
			return "", err
		}
		choices, err := parseChoiceField(p.get(1))
		if err != nil {
			return "", err
		}
		return okResult(d.TakeSurvey(env, id, choices))
	},
	"donate_tl": func(d *DAO, env sdk.Env, payload string) (string, error) {
		amt, err := parseAmountField(splitPayload(payload, 1).get(0), sdk.AssetTL)
		if err != nil {
			return "", err
		}
		return okResult(d.DonateTLToken(env, amt))
	},
	"donate_mygov": func(d *DAO, env sdk.Env, payload string) (string, error) {
		amt, err := parseAmountField(splitPayload(payload, 1).get(0), sdk.AssetMyGov)
		if err != nil {
			return "", err
		}
		return okResult(d.DonateMyGovToken(env, amt))
	},
}

// Query runs a read-only view by name. The result is json friendly.
// Example payload: dao.Query("project", "3", time.Now().Unix())
func (d *DAO) Query(name, payload string, at int64) (any, error) {
	p := splitPayload(payload, 3)
	switch name {
	case "stats":
		return d.Stats()
	case "config":
		return d.Config()
	case "balance":
		asset, err := parseAssetField(p.get(0))
		if err != nil {
			return nil, err
		}
		addr, err := parseAddressField(p.get(1), "address")
		if err != nil {
			return nil, err
		}
		bal, err := d.BalanceOf(asset, addr)
		if err != nil {
			return nil, err
		}
		return dao.FormatTokenAmount(bal, asset.Decimals()), nil
	case "member":
		addr, err := parseAddressField(p.get(0), "address")
		if err != nil {
			return nil, err
		}
		return d.IsMember(addr)
	case "projects":
		start, err := parseUintField(p.get(0), "start")
		if err != nil {
			return nil, err
		}
		end, err := parseUintField(p.get(1), "end")
		if err != nil {
			return nil, err
		}
		return d.GetProjects(start, end, at)
	case "project":
		id, err := parseUintField(p.get(0), "id")
		if err != nil {
			return nil, err
		}
		return d.GetProjectInfo(id, at)
	case "eligible":
		id, err := parseUintField(p.get(0), "id")
		if err != nil {
			return nil, err
		}
		return d.GetProjectEligibleForPayment(id)
	case "survey":
		id, err := parseUintField(p.get(0), "id")
		if err != nil {
			return nil, err
		}
		return d.GetSurveyInfo(id)
	case "commitments":
		addr, err := parseAddressField(p.get(0), "address")
		if err != nil {
			return nil, err
		}
		return d.OpenCommitments(addr, at)
	default:
		return nil, ErrUnknownAction.withf("view %q", name)
	}
}
