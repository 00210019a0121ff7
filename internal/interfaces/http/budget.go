package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/budget"
)

// BudgetService is satisfied by *budget.Service
type BudgetService interface {
	CurrentPeriod() budget.Period
	SeedCategories(ctx context.Context) ([]*budget.Category, error)
	ListCategories(ctx context.Context, includeIncome bool) ([]*budget.Category, error)
	SaveBudget(ctx context.Context, params budget.SaveBudgetParams) (*budget.Budget, error)
	ListBudgets(ctx context.Context, userID int64, p budget.Period) ([]*budget.Budget, error)
	SetGoal(ctx context.Context, params budget.SetGoalParams) (*budget.MonthlyGoal, error)
	GetGoal(ctx context.Context, userID int64, p budget.Period) (*budget.MonthlyGoal, error)
	Summary(ctx context.Context, userID int64, p budget.Period) (*budget.Summary, error)
	Analysis(ctx context.Context, userID int64, p budget.Period) (*budget.Analysis, error)
}

type BudgetHandler struct {
	budgets BudgetService
	users   UserResolver
	log     zerolog.Logger
}

func NewBudgetHandler(budgets BudgetService, users UserResolver, log zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, users: users, log: log}
}

type SaveBudgetRequest struct {
	UserEmail       string           `json:"userEmail"`
	CategoryID      string           `json:"categoryId"`
	Month           int              `json:"month"`
	Year            int              `json:"year"`
	BudgetedAmount  *decimal.Decimal `json:"budgetedAmount"`
	AlertPercentage *int             `json:"alertPercentage,omitempty"`
}

type SetGoalRequest struct {
	UserEmail   string           `json:"userEmail"`
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	TotalBudget *decimal.Decimal `json:"totalBudget"`
	Notes       *string          `json:"notes,omitempty"`
}

type CategoriesResponse struct {
	Categories []*budget.Category `json:"categories"`
}

type BudgetsResponse struct {
	Budgets []*budget.Budget `json:"budgets"`
	Month   int              `json:"month"`
	Year    int              `json:"year"`
}

type BudgetResponse struct {
	Budget *budget.Budget `json:"budget"`
}

// HandleCategories lists the catalog on GET and seeds the defaults on POST
func (h *BudgetHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodPost {
		categories, err := h.budgets.SeedCategories(r.Context())
		if err != nil {
			respondFailure(w, r, h.log, err, CodeSaveFailed)
			return
		}
		respondData(w, CategoriesResponse{Categories: categories}, "Budget categories initialized successfully")
		return
	}

	includeIncome := r.URL.Query().Get("includeIncome") != "false"
	categories, err := h.budgets.ListCategories(r.Context(), includeIncome)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeFetchFailed)
		return
	}
	respondData(w, CategoriesResponse{Categories: categories}, "")
}

// HandleManage lists a month's budgets on GET and saves one on POST
func (h *BudgetHandler) HandleManage(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		h.saveBudget(w, r)
		return
	}

	userID, p, ok := h.userPeriod(w, r, CodeFetchFailed)
	if !ok {
		return
	}

	budgets, err := h.budgets.ListBudgets(r.Context(), userID, p)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeFetchFailed)
		return
	}
	respondData(w, BudgetsResponse{Budgets: budgets, Month: p.Month, Year: p.Year}, "")
}

func (h *BudgetHandler) saveBudget(w http.ResponseWriter, r *http.Request) {
	var req SaveBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserEmail == "" || req.CategoryID == "" || req.Month == 0 || req.Year == 0 || req.BudgetedAmount == nil {
		respondError(w, http.StatusBadRequest, CodeMissingFields,
			"userEmail, categoryId, month, year, and budgetedAmount are required")
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), req.UserEmail)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSaveFailed)
		return
	}

	b, err := h.budgets.SaveBudget(r.Context(), budget.SaveBudgetParams{
		UserID:          u.ID,
		CategoryID:      req.CategoryID,
		Month:           req.Month,
		Year:            req.Year,
		BudgetedAmount:  *req.BudgetedAmount,
		AlertPercentage: req.AlertPercentage,
	})
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSaveFailed)
		return
	}
	respondData(w, BudgetResponse{Budget: b}, "Budget saved successfully")
}

// HandleGoal returns the month's goal on GET (null when unset) and sets it on POST
func (h *BudgetHandler) HandleGoal(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		h.setGoal(w, r)
		return
	}

	userID, p, ok := h.userPeriod(w, r, CodeFetchFailed)
	if !ok {
		return
	}

	goal, err := h.budgets.GetGoal(r.Context(), userID, p)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeFetchFailed)
		return
	}
	if goal == nil {
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
			Data    any  `json:"data"`
		}{Success: true})
		return
	}
	respondData(w, goal, "")
}

func (h *BudgetHandler) setGoal(w http.ResponseWriter, r *http.Request) {
	var req SetGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserEmail == "" || req.Month == 0 || req.Year == 0 || req.TotalBudget == nil {
		respondError(w, http.StatusBadRequest, CodeMissingFields,
			"userEmail, month, year, and totalBudget are required")
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), req.UserEmail)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSaveFailed)
		return
	}

	goal, err := h.budgets.SetGoal(r.Context(), budget.SetGoalParams{
		UserID:      u.ID,
		Month:       req.Month,
		Year:        req.Year,
		TotalBudget: *req.TotalBudget,
		Notes:       req.Notes,
	})
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSaveFailed)
		return
	}
	respondData(w, goal, "Monthly budget goal saved successfully")
}

func (h *BudgetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	userID, p, ok := h.userPeriod(w, r, CodeSummaryFailed)
	if !ok {
		return
	}

	summary, err := h.budgets.Summary(r.Context(), userID, p)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeSummaryFailed)
		return
	}
	respondData(w, summary, "")
}

// HandleAnalysis runs the month analysis with projections. The month
// defaults to the current one.
func (h *BudgetHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	userID, p, ok := h.userPeriod(w, r, CodeAnalysisFailed)
	if !ok {
		return
	}

	analysis, err := h.budgets.Analysis(r.Context(), userID, p)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeAnalysisFailed)
		return
	}
	respondData(w, analysis, "")
}

// userPeriod resolves userEmail, month and year from the query string
func (h *BudgetHandler) userPeriod(w http.ResponseWriter, r *http.Request, failCode string) (int64, budget.Period, bool) {
	email, ok := requireEmail(w, r)
	if !ok {
		return 0, budget.Period{}, false
	}

	p, err := queryPeriod(r.URL.Query(), h.budgets.CurrentPeriod())
	if err != nil {
		respondFailure(w, r, h.log, err, failCode)
		return 0, budget.Period{}, false
	}

	u, err := h.users.GetOrCreate(r.Context(), email)
	if err != nil {
		respondFailure(w, r, h.log, err, failCode)
		return 0, budget.Period{}, false
	}
	return u.ID, p, true
}
