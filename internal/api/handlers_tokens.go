package api

import (
	"net/http"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

type transferRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Spender string `json:"spender,omitempty"`
	Amount  string `json:"amount"`
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var body transferRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		amt, err := amountOf(body.Amount, asset)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.Transfer(env, asset, sdk.Address(body.To), amt)
	})
}

func (s *Server) transferFrom(w http.ResponseWriter, r *http.Request) {
	var body transferRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		amt, err := amountOf(body.Amount, asset)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.TransferFrom(env, asset, sdk.Address(body.From), sdk.Address(body.To), amt)
	})
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	var body transferRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		amt, err := amountOf(body.Amount, asset)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.Approve(env, asset, sdk.Address(body.Spender), amt)
	})
}

func (s *Server) mint(w http.ResponseWriter, r *http.Request) {
	var body transferRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		if asset != sdk.AssetTL {
			return nil, badRequest("INVALID_ASSET", "only tl can be minted")
		}
		amt, err := amountOf(body.Amount, asset)
		if err != nil {
			return nil, err
		}
		return nil, s.dao.MintTL(env, sdk.Address(body.To), amt)
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		bal, err := s.dao.BalanceOf(asset, addressParam(r, "address"))
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"asset":   asset.String(),
			"balance": dao.FormatTokenAmount(bal, asset.Decimals()),
		}, nil
	})
}

func (s *Server) allowance(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		amt, err := s.dao.Allowance(asset, addressParam(r, "owner"), addressParam(r, "spender"))
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"asset":     asset.String(),
			"allowance": dao.FormatTokenAmount(amt, asset.Decimals()),
		}, nil
	})
}

func (s *Server) supply(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		total, err := s.dao.TotalSupply(asset)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"asset":  asset.String(),
			"supply": dao.FormatTokenAmount(total, asset.Decimals()),
		}, nil
	})
}

func (s *Server) faucet(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, nil, func(env sdk.Env) (any, error) {
		return nil, s.dao.Faucet(env)
	})
}

func (s *Server) member(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		addr := addressParam(r, "address")
		member, err := s.dao.IsMember(addr)
		if err != nil {
			return nil, err
		}
		used, err := s.dao.HasUsedFaucet(addr)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"address":     addr.String(),
			"member":      member,
			"faucet_used": used,
		}, nil
	})
}

func (s *Server) commitments(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(at int64) (any, error) {
		ids, err := s.dao.OpenCommitments(addressParam(r, "address"), at)
		if err != nil {
			return nil, err
		}
		return map[string]any{"projects": ids}, nil
	})
}

type donationRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) donate(w http.ResponseWriter, r *http.Request) {
	var body donationRequest
	s.mutate(w, r, http.StatusOK, &body, func(env sdk.Env) (any, error) {
		asset, err := assetParam(r)
		if err != nil {
			return nil, err
		}
		amt, err := amountOf(body.Amount, asset)
		if err != nil {
			return nil, err
		}
		if asset == sdk.AssetTL {
			return nil, s.dao.DonateTLToken(env, amt)
		}
		return nil, s.dao.DonateMyGovToken(env, amt)
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(int64) (any, error) {
		st, err := s.dao.Stats()
		if err != nil {
			return nil, err
		}
		return toStatsDTO(st), nil
	})
}
