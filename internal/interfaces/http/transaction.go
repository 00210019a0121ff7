package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/transaction"
)

type TransactionLister interface {
	List(ctx context.Context, params transaction.ListParams) (*transaction.Page, error)
}

type TransactionHandler struct {
	transactions TransactionLister
	users        UserResolver
	loc          *time.Location
	log          zerolog.Logger
}

func NewTransactionHandler(transactions TransactionLister, users UserResolver, loc *time.Location, log zerolog.Logger) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{transactions: transactions, users: users, loc: loc, log: log}
}

// HandleListTransactions returns one page of the user's stored transactions
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	params := transaction.ListParams{
		AccountID: q.Get("accountId"),
		Search:    q.Get("search"),
	}
	// absent or out-of-range paging is normalized by the service
	var err error
	if params.Page, err = queryInt(q, "page", 0); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidParameters, err.Error())
		return
	}
	if params.Limit, err = queryInt(q, "limit", 0); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidParameters, err.Error())
		return
	}
	if params.FromDate, err = parseDateBound(q.Get("fromDate"), h.loc, false); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidParameters, err.Error())
		return
	}
	if params.ToDate, err = parseDateBound(q.Get("toDate"), h.loc, true); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidParameters, err.Error())
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), email)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeFetchFailed)
		return
	}
	params.UserID = u.ID

	page, err := h.transactions.List(r.Context(), params)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeFetchFailed)
		return
	}

	respondData(w, page, "")
}
