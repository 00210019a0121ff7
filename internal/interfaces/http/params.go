package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sparebudget/internal/domain/budget"
)

const dateLayout = "2006-01-02"

// requireEmail reads userEmail from the query string
func requireEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := strings.TrimSpace(r.URL.Query().Get("userEmail"))
	if email == "" {
		respondError(w, http.StatusBadRequest, CodeMissingUserEmail, "User email is required")
		return "", false
	}
	return email, true
}

// queryPeriod reads month and year, each defaulting to the current period
func queryPeriod(q url.Values, current budget.Period) (budget.Period, error) {
	month, err := queryInt(q, "month", current.Month)
	if err != nil {
		return budget.Period{}, fmt.Errorf("%w: %v", budget.ErrInvalidPeriod, err)
	}
	year, err := queryInt(q, "year", current.Year)
	if err != nil {
		return budget.Period{}, fmt.Errorf("%w: %v", budget.ErrInvalidPeriod, err)
	}
	return budget.NewPeriod(year, month)
}

// queryInt returns def when key is absent and an error when it is not an integer
func queryInt(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// parseDateBound accepts Unix milliseconds, RFC 3339 or a plain date. A plain
// date is the start of that day in loc, or its last millisecond when endOfDay.
func parseDateBound(raw string, loc *time.Location, endOfDay bool) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &ms, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		ms := t.UnixMilli()
		return &ms, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	ms := t.UnixMilli()
	return &ms, nil
}
