package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mygov_dao/contract"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// requestError is a malformed request caught before the engine runs.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(code, format string, args ...any) error {
	return &requestError{code: code, msg: fmt.Sprintf(format, args...)}
}

// mapDomainError turns engine rejections into a status and a stable upper case code.
func mapDomainError(err error) (int, string, string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, reqErr.code, reqErr.msg
	}
	code := strings.ToUpper(contract.CodeOf(err))
	switch {
	case errors.Is(err, contract.ErrNotFound):
		return http.StatusNotFound, code, err.Error()
	case errors.Is(err, contract.ErrUnauthorized), errors.Is(err, contract.ErrMembership):
		return http.StatusForbidden, code, err.Error()
	case errors.Is(err, contract.ErrWindowViolation),
		errors.Is(err, contract.ErrAlreadyDone),
		errors.Is(err, contract.ErrNotEligible):
		return http.StatusConflict, code, err.Error()
	case errors.Is(err, contract.ErrInvalidInput):
		return http.StatusBadRequest, code, err.Error()
	case errors.Is(err, contract.ErrInsufficientFunds), errors.Is(err, contract.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity, code, err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

func (s *Server) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", requestFields(r, status, err)...)
	}
	writeError(w, status, code, msg)
}

// decodeBody accepts exactly one JSON object without unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
