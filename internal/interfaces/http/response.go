package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/budget"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
	"sparebudget/internal/shared/logger"
)

// Error codes returned in the envelope's error field
const (
	CodeMissingParameters = "missing_parameters"
	CodeMissingUserEmail  = "missing_user_email"
	CodeMissingFields     = "missing_fields"
	CodeInvalidParameters = "invalid_parameters"
	CodeInvalidBody       = "invalid_body"
	CodeUnauthorized      = "unauthorized"
	CodeSessionExpired    = "session_expired"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeNoAccounts        = "no_accounts"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeRateLimited       = "rate_limited"
	CodeOAuthConfig       = "oauth_config_error"
	CodeSyncFailed        = "sync_failed"
	CodeCleanupFailed     = "cleanup_failed"
	CodeFetchFailed       = "fetch_failed"
	CodeSaveFailed        = "save_failed"
	CodeSummaryFailed     = "summary_failed"
	CodeAnalysisFailed    = "analysis_failed"
	CodeAnalyticsFailed   = "analytics_failed"
	CodeTokenExchange     = "token_exchange_failed"
	CodeTokenRefresh      = "token_refresh_failed"
)

const maxBodyBytes = 1 << 20

// isoMillis renders UTC timestamps with millisecond precision
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Response is the envelope every endpoint answers with
type Response struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Success: false, Error: code, Message: message})
}

// allowMethods answers 405 and returns false when r.Method is not listed
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	respondError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
	return false
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondError(w, http.StatusBadRequest, CodeInvalidBody, "Invalid request body")
	return false
}

// respondFailure maps domain and upstream errors onto the envelope. Errors
// without a specific mapping are answered with 500 and fallbackCode.
func respondFailure(w http.ResponseWriter, r *http.Request, fallback zerolog.Logger, err error, fallbackCode string) {
	log := logger.FromContext(r.Context(), fallback)

	var rle *sb1.RateLimitError
	switch {
	case errors.As(err, &rle):
		seconds := int(math.Ceil(rle.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeJSON(w, http.StatusTooManyRequests, Response{
			Error:      CodeRateLimited,
			Message:    fmt.Sprintf("Rate limited by SpareBank1, retry after %d seconds", seconds),
			RetryAfter: seconds,
		})
	case errors.Is(err, sb1.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Access token is invalid or expired")
	case errors.Is(err, errSessionExpired):
		respondError(w, http.StatusUnauthorized, CodeSessionExpired, "Session expired, refresh or sign in again")
	case errors.Is(err, errNoAccessToken):
		respondError(w, http.StatusBadRequest, CodeMissingParameters, "Access token is required")
	case errors.Is(err, user.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, CodeMissingUserEmail, "User email is required")
	case errors.Is(err, account.ErrNoAccounts):
		respondError(w, http.StatusNotFound, CodeNoAccounts, "No accounts found, sync accounts first")
	case errors.Is(err, account.ErrAccountNotOwned):
		respondError(w, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, budget.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, budget.ErrInvalidPeriod),
		errors.Is(err, budget.ErrInvalidAmount),
		errors.Is(err, budget.ErrInvalidAlertLevel),
		errors.Is(err, transaction.ErrInvalidListParams):
		respondError(w, http.StatusBadRequest, CodeInvalidParameters, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("code", fallbackCode).Msg("request failed")
		respondError(w, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
