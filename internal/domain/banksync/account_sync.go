package banksync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/user"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

// UserResolver resolves the owning user for an email, creating it on first use
type UserResolver interface {
	GetOrCreate(ctx context.Context, email string) (*user.User, error)
}

// AccountStore is satisfied by *account.Service
type AccountStore interface {
	AccountResolver
	Upsert(ctx context.Context, params account.UpsertParams) (*account.Account, bool, error)
	ListAccountsByUserID(ctx context.Context, userID int64) ([]*account.Account, error)
}

// AccountSyncResult contains the results of an account sync operation
type AccountSyncResult struct {
	UserID   int64              `json:"-"`
	Accounts []*account.Account `json:"accounts"`
	Created  int                `json:"created"`
	Updated  int                `json:"updated"`
	Cached   bool               `json:"cached"`
	Errors   []string           `json:"errors,omitempty"`
}

// AccountSyncService handles syncing accounts from the SpareBank1 API
type AccountSyncService struct {
	client   sb1.ClientInterface
	users    UserResolver
	accounts AccountStore
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccountSyncService(client sb1.ClientInterface, users UserResolver, accounts AccountStore, loc *time.Location, log zerolog.Logger) *AccountSyncService {
	if loc == nil {
		loc = time.UTC
	}
	return &AccountSyncService{
		client:   client,
		users:    users,
		accounts: accounts,
		loc:      loc,
		now:      time.Now,
		log:      log.With().Str("component", "account_sync").Logger(),
	}
}

// SyncAccounts refreshes the user's accounts from upstream, at most once per
// calendar day. Later calls on the same day return the stored set.
func (s *AccountSyncService) SyncAccounts(ctx context.Context, accessToken, email string) (*AccountSyncResult, error) {
	u, err := s.users.GetOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}

	result := &AccountSyncResult{UserID: u.ID}

	stored, err := s.accounts.ListAccountsByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if account.SyncedSince(stored, startOfDay(s.now(), s.loc)) {
		result.Accounts = stored
		result.Cached = true
		return result, nil
	}

	remote, err := s.client.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts from provider: %w", err)
	}

	syncedAt := s.now()
	for i := range remote {
		_, created, err := s.accounts.Upsert(ctx, upsertParams(u.ID, &remote[i], syncedAt))
		if err != nil {
			msg := fmt.Sprintf("failed to upsert account %s: %v", remote[i].Key, err)
			result.Errors = append(result.Errors, msg)
			s.log.Error().Err(err).Int64("user_id", u.ID).Str("account_key", remote[i].Key).Msg("account upsert failed")
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	result.Accounts, err = s.accounts.ListAccountsByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", u.ID).
		Int("fetched", len(remote)).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("account sync completed")

	return result, nil
}

func upsertParams(userID int64, a *sb1.Account, syncedAt time.Time) account.UpsertParams {
	return account.UpsertParams{
		UserID:            userID,
		Key:               a.Key,
		AccountNumber:     optString(a.AccountNumber),
		IBAN:              optString(a.IBAN),
		Name:              a.Name,
		Description:       optString(a.Description),
		Balance:           a.Balance,
		AvailableBalance:  a.AvailableBalance,
		CurrencyCode:      a.CurrencyCode,
		Owner:             a.Owner,
		ProductType:       optString(a.ProductType),
		Type:              optString(a.Type),
		ProductID:         optString(a.ProductID),
		DescriptionCode:   optString(a.DescriptionCode),
		DisposalRole:      a.DisposalRole,
		AccountProperties: a.AccountProperties,
		SyncedAt:          syncedAt,
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
