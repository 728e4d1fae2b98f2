package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

const (
	errCodeTokenExpired        = "TOKEN_EXPIRED"
	errCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	errCodePartialSave         = "PARTIAL_SAVE"
)

type errorResponse struct {
	Error          string `json:"error"`
	Code           string `json:"code,omitempty"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// statusFor maps a service error onto an HTTP status and response body.
func statusFor(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrCredentialExpired):
		body.Code = errCodeTokenExpired
		return http.StatusUnauthorized, body
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, body
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		body.Code = errCodeUpstreamUnavailable
		status := http.StatusBadGateway
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) && upErr.Status >= 400 {
			status = upErr.Status
			body.UpstreamStatus = upErr.Status
		}
		return status, body
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
	}
}

// writeServiceError reports err to the client. Unclassified errors are
// logged with the request context and hidden from the response body.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, body)
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

// bearerToken returns the token from an "Authorization: Bearer" header, or "".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
