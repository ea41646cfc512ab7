package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: w.Header().Get(RequestIDHeader),
	}})
}

// writeErr maps a coded error to its HTTP status. Internal failures are
// logged and their details withheld from the client.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		code = errors.ErrCodeRateLimited
	}
	status := StatusFor(code)

	msg := errors.UserMessage(err)
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, status, string(code), msg)
}

// StatusFor returns the HTTP status for an error code.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidIdentifier,
		errors.ErrCodeInvalidAddress, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeUpstream:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
