package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"sparebudget/internal/domain/analytics"
	"sparebudget/internal/domain/banksync"
	"sparebudget/internal/domain/budget"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

type MockUsers struct {
	GetOrCreateFunc func(ctx context.Context, email string) (*user.User, error)
}

func (m *MockUsers) GetOrCreate(ctx context.Context, email string) (*user.User, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, email)
	}
	return &user.User{ID: 7, Email: email}, nil
}

type MockAccountSyncer struct {
	SyncAccountsFunc func(ctx context.Context, accessToken, email string) (*banksync.AccountSyncResult, error)
}

func (m *MockAccountSyncer) SyncAccounts(ctx context.Context, accessToken, email string) (*banksync.AccountSyncResult, error) {
	if m.SyncAccountsFunc != nil {
		return m.SyncAccountsFunc(ctx, accessToken, email)
	}
	return &banksync.AccountSyncResult{}, nil
}

type MockTransactionSyncer struct {
	SyncTransactionsFunc func(ctx context.Context, accessToken, email string) (*banksync.TransactionSyncResult, error)
}

func (m *MockTransactionSyncer) SyncTransactions(ctx context.Context, accessToken, email string) (*banksync.TransactionSyncResult, error) {
	if m.SyncTransactionsFunc != nil {
		return m.SyncTransactionsFunc(ctx, accessToken, email)
	}
	return &banksync.TransactionSyncResult{}, nil
}

type MockCollapser struct {
	CollapseFunc func(ctx context.Context, userID int64) (*transaction.CollapseResult, error)
}

func (m *MockCollapser) Collapse(ctx context.Context, userID int64) (*transaction.CollapseResult, error) {
	if m.CollapseFunc != nil {
		return m.CollapseFunc(ctx, userID)
	}
	return &transaction.CollapseResult{}, nil
}

type MockTransactionLister struct {
	ListFunc func(ctx context.Context, params transaction.ListParams) (*transaction.Page, error)
}

func (m *MockTransactionLister) List(ctx context.Context, params transaction.ListParams) (*transaction.Page, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return &transaction.Page{Transactions: []*transaction.Transaction{}}, nil
}

type MockBudgetService struct {
	Current            budget.Period
	SeedCategoriesFunc func(ctx context.Context) ([]*budget.Category, error)
	ListCategoriesFunc func(ctx context.Context, includeIncome bool) ([]*budget.Category, error)
	SaveBudgetFunc     func(ctx context.Context, params budget.SaveBudgetParams) (*budget.Budget, error)
	ListBudgetsFunc    func(ctx context.Context, userID int64, p budget.Period) ([]*budget.Budget, error)
	SetGoalFunc        func(ctx context.Context, params budget.SetGoalParams) (*budget.MonthlyGoal, error)
	GetGoalFunc        func(ctx context.Context, userID int64, p budget.Period) (*budget.MonthlyGoal, error)
	SummaryFunc        func(ctx context.Context, userID int64, p budget.Period) (*budget.Summary, error)
	AnalysisFunc       func(ctx context.Context, userID int64, p budget.Period) (*budget.Analysis, error)
}

func (m *MockBudgetService) CurrentPeriod() budget.Period {
	if m.Current.Month == 0 {
		return budget.Period{Year: 2025, Month: 8}
	}
	return m.Current
}

func (m *MockBudgetService) SeedCategories(ctx context.Context) ([]*budget.Category, error) {
	if m.SeedCategoriesFunc != nil {
		return m.SeedCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockBudgetService) ListCategories(ctx context.Context, includeIncome bool) ([]*budget.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, includeIncome)
	}
	return nil, nil
}

func (m *MockBudgetService) SaveBudget(ctx context.Context, params budget.SaveBudgetParams) (*budget.Budget, error) {
	if m.SaveBudgetFunc != nil {
		return m.SaveBudgetFunc(ctx, params)
	}
	return &budget.Budget{}, nil
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, userID int64, p budget.Period) ([]*budget.Budget, error) {
	if m.ListBudgetsFunc != nil {
		return m.ListBudgetsFunc(ctx, userID, p)
	}
	return nil, nil
}

func (m *MockBudgetService) SetGoal(ctx context.Context, params budget.SetGoalParams) (*budget.MonthlyGoal, error) {
	if m.SetGoalFunc != nil {
		return m.SetGoalFunc(ctx, params)
	}
	return &budget.MonthlyGoal{}, nil
}

func (m *MockBudgetService) GetGoal(ctx context.Context, userID int64, p budget.Period) (*budget.MonthlyGoal, error) {
	if m.GetGoalFunc != nil {
		return m.GetGoalFunc(ctx, userID, p)
	}
	return nil, nil
}

func (m *MockBudgetService) Summary(ctx context.Context, userID int64, p budget.Period) (*budget.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, userID, p)
	}
	return &budget.Summary{}, nil
}

func (m *MockBudgetService) Analysis(ctx context.Context, userID int64, p budget.Period) (*budget.Analysis, error) {
	if m.AnalysisFunc != nil {
		return m.AnalysisFunc(ctx, userID, p)
	}
	return &budget.Analysis{}, nil
}

type MockReporter struct {
	ReportFunc func(ctx context.Context, userID int64, p budget.Period) (*analytics.Report, error)
}

func (m *MockReporter) Report(ctx context.Context, userID int64, p budget.Period) (*analytics.Report, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, userID, p)
	}
	return &analytics.Report{}, nil
}

type MockOAuth struct {
	NotConfigured bool
	ExchangeFunc  func(ctx context.Context, code, state string) (sb1.Session, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (sb1.Session, error)
}

func (m *MockOAuth) Configured() bool { return !m.NotConfigured }

func (m *MockOAuth) AuthCodeURL(state string) string {
	return "https://auth.example/authorize?state=" + state
}

func (m *MockOAuth) Exchange(ctx context.Context, code, state string) (sb1.Session, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code, state)
	}
	return sb1.Session{}, nil
}

func (m *MockOAuth) Refresh(ctx context.Context, refreshToken string) (sb1.Session, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return sb1.Session{}, nil
}

// envelope decodes a response with the data left raw
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	RetryAfter int             `json:"retryAfter"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return env
}
