package banksync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/transaction"
	"sparebudget/internal/domain/user"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

// memStore is an in-memory TransactionStore keyed by natural key
type memStore struct {
	mu        sync.Mutex
	rows      []transaction.CreateParams
	existsErr error
	createErr func(p transaction.CreateParams) error
}

func (m *memStore) ExistsByNaturalKey(ctx context.Context, userID int64, key transaction.NaturalKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, r := range m.rows {
		if r.UserID == userID && transaction.NewNaturalKey(r.Amount, r.Date, r.Description).String() == key.String() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(ctx context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		if err := m.createErr(p); err != nil {
			return nil, err
		}
	}
	m.rows = append(m.rows, p)
	return &transaction.Transaction{ID: "tx-" + p.Amount.String(), UserID: p.UserID, AccountID: p.AccountID}, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// MockAccountStore is a mock implementation of AccountStore for testing
type MockAccountStore struct {
	FindByKeyFunc            func(ctx context.Context, userID int64, key string) (*account.Account, error)
	UpsertFunc               func(ctx context.Context, params account.UpsertParams) (*account.Account, bool, error)
	ListAccountsByUserIDFunc func(ctx context.Context, userID int64) ([]*account.Account, error)
}

func (m *MockAccountStore) FindByKey(ctx context.Context, userID int64, key string) (*account.Account, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, userID, key)
	}
	return nil, nil
}
func (m *MockAccountStore) Upsert(ctx context.Context, params account.UpsertParams) (*account.Account, bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return &account.Account{Key: params.Key}, true, nil
}
func (m *MockAccountStore) ListAccountsByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListAccountsByUserIDFunc != nil {
		return m.ListAccountsByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

// accountsByKey returns a FindByKey func serving the given accounts
func accountsByKey(accs ...*account.Account) func(ctx context.Context, userID int64, key string) (*account.Account, error) {
	return func(ctx context.Context, userID int64, key string) (*account.Account, error) {
		for _, a := range accs {
			if a.Key == key && a.UserID == userID {
				return a, nil
			}
		}
		return nil, nil
	}
}

// MockClient is a mock implementation of sparebank1.ClientInterface
type MockClient struct {
	GetAccountsFunc     func(ctx context.Context, accessToken string) ([]sb1.Account, error)
	GetTransactionsFunc func(ctx context.Context, accessToken string, query sb1.TransactionQuery) ([]sb1.Transaction, error)
	calls               int
}

func (m *MockClient) GetAccounts(ctx context.Context, accessToken string) ([]sb1.Account, error) {
	m.calls++
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx, accessToken)
	}
	return nil, nil
}
func (m *MockClient) GetTransactions(ctx context.Context, accessToken string, query sb1.TransactionQuery) ([]sb1.Transaction, error) {
	m.calls++
	if m.GetTransactionsFunc != nil {
		return m.GetTransactionsFunc(ctx, accessToken, query)
	}
	return nil, nil
}

// MockUsers resolves every email to the same user
type MockUsers struct {
	User *user.User
	Err  error
}

func (m *MockUsers) GetOrCreate(ctx context.Context, email string) (*user.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

type MockPublisher struct {
	published []int64
	err       error
}

func (m *MockPublisher) PublishCollapseRequest(ctx context.Context, userID int64) error {
	m.published = append(m.published, userID)
	return m.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func incoming(amount string, date int64, desc, accountKey string) sb1.Transaction {
	return sb1.Transaction{
		ID:          "ext-" + amount,
		Amount:      decimal.RequireFromString(amount),
		Date:        int64Ptr(date),
		Description: strPtr(desc),
		AccountKey:  accountKey,
		Merchant:    json.RawMessage(`{"name":"x"}`),
	}
}
