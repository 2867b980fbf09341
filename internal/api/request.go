package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// callerEnv builds the Env a mutating request runs against.
func (s *Server) callerEnv(r *http.Request) (sdk.Env, error) {
	raw := strings.TrimSpace(r.Header.Get(headerCaller))
	if raw == "" {
		return sdk.Env{}, badRequest("MISSING_CALLER", "%s header is required", headerCaller)
	}
	caller, err := sdk.ParseAddress(raw)
	if err != nil {
		return sdk.Env{}, badRequest("INVALID_CALLER", "%s is not an address", headerCaller)
	}
	ts, err := s.timestamp(r)
	if err != nil {
		return sdk.Env{}, err
	}
	txID := requestIDFromContext(r.Context())
	if txID == "" {
		txID = uuid.NewString()
	}
	return sdk.Env{Sender: caller, Timestamp: ts, TxID: txID}, nil
}

// timestamp is the wall clock unless the request overrides it and the server allows that.
func (s *Server) timestamp(r *http.Request) (int64, error) {
	raw := r.Header.Get(headerTimestamp)
	if raw == "" {
		raw = r.URL.Query().Get("at")
	}
	if raw == "" {
		return s.clock().Unix(), nil
	}
	if !s.allowTimeOverride {
		return 0, badRequest("TIME_OVERRIDE_DISABLED", "timestamp overrides are disabled on this node")
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("INVALID_TIMESTAMP", "timestamp must be unix seconds")
	}
	return ts, nil
}

// mutate decodes body (when non nil), runs fn with the caller env and writes the result.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, body any, fn func(env sdk.Env) (any, error)) {
	if body != nil {
		if err := decodeBody(r, body); err != nil {
			s.writeMappedError(w, r, badRequest("INVALID_BODY", "%v", err))
			return
		}
	}
	env, err := s.callerEnv(r)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	data, err := fn(env)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	if data == nil {
		data = map[string]any{"result": "ok"}
	}
	writeSuccess(w, status, data)
}

// read runs a view. Views take the caller's clock only when the node allows overrides.
func (s *Server) read(w http.ResponseWriter, r *http.Request, fn func(at int64) (any, error)) {
	at, err := s.timestamp(r)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	data, err := fn(at)
	if err != nil {
		s.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, data)
}

func idParam(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("INVALID_ID", "id %q is not a number", raw)
	}
	return id, nil
}

func assetParam(r *http.Request) (sdk.Asset, error) {
	asset, err := sdk.ParseAsset(chi.URLParam(r, "asset"))
	if err != nil {
		return "", badRequest("INVALID_ASSET", "%v", err)
	}
	return asset, nil
}

func addressParam(r *http.Request, name string) sdk.Address {
	return sdk.Address(chi.URLParam(r, name))
}

// amountOf parses a token amount such as "2.5" into base units of asset.
func amountOf(raw string, asset sdk.Asset) (*uint256.Int, error) {
	amt, err := dao.ParseTokenAmount(raw, asset.Decimals())
	if err != nil {
		return nil, badRequest("INVALID_AMOUNT", "%v", err)
	}
	return amt, nil
}

func queryUint(r *http.Request, name string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("INVALID_QUERY", "%s must be a number", name)
	}
	return v, nil
}
