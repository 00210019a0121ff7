package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/banksync"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
)

type AccountSyncer interface {
	SyncAccounts(ctx context.Context, accessToken, email string) (*banksync.AccountSyncResult, error)
}

type TransactionSyncer interface {
	SyncTransactions(ctx context.Context, accessToken, email string) (*banksync.TransactionSyncResult, error)
}

type Collapser interface {
	Collapse(ctx context.Context, userID int64) (*transaction.CollapseResult, error)
}

// UserResolver is satisfied by *user.Service
type UserResolver interface {
	GetOrCreate(ctx context.Context, email string) (*user.User, error)
}

type SyncHandler struct {
	accounts     AccountSyncer
	transactions TransactionSyncer
	collapsor    Collapser
	users        UserResolver
	sessions     *SessionCookies
	log          zerolog.Logger
}

func NewSyncHandler(
	accounts AccountSyncer,
	transactions TransactionSyncer,
	collapsor Collapser,
	users UserResolver,
	sessions *SessionCookies,
	log zerolog.Logger,
) *SyncHandler {
	return &SyncHandler{
		accounts:     accounts,
		transactions: transactions,
		collapsor:    collapsor,
		users:        users,
		sessions:     sessions,
		log:          log,
	}
}

type SyncRequest struct {
	AccessToken string `json:"accessToken"`
	UserEmail   string `json:"userEmail"`
}

type CleanupRequest struct {
	UserEmail string `json:"userEmail"`
}

type DuplicateGroupResponse struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
	Kept        string          `json:"kept"`
	Removed     []string        `json:"removed"`
}

type CleanupResponse struct {
	DuplicatesFound   int                      `json:"duplicatesFound"`
	DuplicatesRemoved int                      `json:"duplicatesRemoved"`
	DuplicateGroups   []DuplicateGroupResponse `json:"duplicateGroups"`
}

// syncRequest decodes the body and resolves the access token
func (h *SyncHandler) syncRequest(w http.ResponseWriter, r *http.Request) (token, email string, ok bool) {
	if !allowMethods(w, r, http.MethodPost) {
		return "", "", false
	}

	var req SyncRequest
	if !decodeJSON(w, r, &req) {
		return "", "", false
	}
	if req.UserEmail == "" {
		respondError(w, http.StatusBadRequest, CodeMissingUserEmail, "User email is required")
		return "", "", false
	}

	token, err := h.sessions.AccessToken(r, req.AccessToken)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSyncFailed)
		return "", "", false
	}
	return token, req.UserEmail, true
}

func (h *SyncHandler) HandleSyncAccounts(w http.ResponseWriter, r *http.Request) {
	token, email, ok := h.syncRequest(w, r)
	if !ok {
		return
	}

	result, err := h.accounts.SyncAccounts(r.Context(), token, email)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSyncFailed)
		return
	}

	message := fmt.Sprintf("Synced %d accounts (%d created, %d updated)",
		len(result.Accounts), result.Created, result.Updated)
	if result.Cached {
		message = fmt.Sprintf("Accounts already synced today, returning %d stored accounts", len(result.Accounts))
	}
	respondData(w, result, message)
}

func (h *SyncHandler) HandleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	token, email, ok := h.syncRequest(w, r)
	if !ok {
		return
	}

	result, err := h.transactions.SyncTransactions(r.Context(), token, email)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSyncFailed)
		return
	}

	respondData(w, result, fmt.Sprintf("Synced %d new transactions, skipped %d, failed %d of %d",
		result.Saved, result.Skipped, result.Failed, result.Total))
}

func (h *SyncHandler) HandleCleanupDuplicates(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req CleanupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserEmail == "" {
		respondError(w, http.StatusBadRequest, CodeMissingUserEmail, "User email is required")
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), req.UserEmail)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeCleanupFailed)
		return
	}

	result, err := h.collapsor.Collapse(r.Context(), u.ID)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeCleanupFailed)
		return
	}

	resp := newCleanupResponse(result)
	respondData(w, resp, fmt.Sprintf("Cleanup complete: Found %d duplicates in %d groups, removed %d",
		resp.DuplicatesFound, len(resp.DuplicateGroups), resp.DuplicatesRemoved))
}

func newCleanupResponse(result *transaction.CollapseResult) CleanupResponse {
	resp := CleanupResponse{
		DuplicatesFound:   result.DuplicatesFound,
		DuplicatesRemoved: result.DuplicatesRemoved,
		DuplicateGroups:   make([]DuplicateGroupResponse, 0, len(result.Groups)),
	}
	for _, g := range result.Groups {
		resp.DuplicateGroups = append(resp.DuplicateGroups, DuplicateGroupResponse{
			Amount:      g.Amount,
			Date:        time.UnixMilli(g.Date).UTC().Format(isoMillis),
			Description: g.Description,
			Count:       g.Count,
			Kept:        g.KeptID,
			Removed:     g.RemovedIDs,
		})
	}
	return resp
}
