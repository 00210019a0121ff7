package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/analytics"
	"sparebudget/internal/domain/budget"
)

type AnalyticsReporter interface {
	Report(ctx context.Context, userID int64, p budget.Period) (*analytics.Report, error)
}

// PeriodSource supplies the default month; *budget.Service satisfies it
type PeriodSource interface {
	CurrentPeriod() budget.Period
}

type AnalyticsHandler struct {
	reports AnalyticsReporter
	periods PeriodSource
	users   UserResolver
	log     zerolog.Logger
}

func NewAnalyticsHandler(reports AnalyticsReporter, periods PeriodSource, users UserResolver, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, periods: periods, users: users, log: log}
}

// HandleAnalytics returns income, spending, health score and six month trends
func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	email, ok := requireEmail(w, r)
	if !ok {
		return
	}

	p, err := queryPeriod(r.URL.Query(), h.periods.CurrentPeriod())
	if err != nil {
		respondFailure(w, r, h.log, err, CodeAnalyticsFailed)
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), email)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeAnalyticsFailed)
		return
	}

	report, err := h.reports.Report(r.Context(), u.ID, p)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeAnalyticsFailed)
		return
	}
	respondData(w, report, "")
}
