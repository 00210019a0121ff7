package banksync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/transaction"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

const (
	DefaultLookbackDays = 90
	DefaultRowLimit     = 1000
	dateLayout          = "2006-01-02"
)

// CollapsePublisher requests an asynchronous duplicate collapse for a user
type CollapsePublisher interface {
	PublishCollapseRequest(ctx context.Context, userID int64) error
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TransactionSyncResult contains the results of a transaction sync operation
type TransactionSyncResult struct {
	UserID    int64     `json:"-"`
	Saved     int       `json:"saved"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Total     int       `json:"total"`
	DateRange DateRange `json:"dateRange"`
}

type TransactionSyncConfig struct {
	LookbackDays int
	RowLimit     int
	Location     *time.Location
}

// TransactionSyncService fetches the rolling lookback window from upstream
// and hands it to the reconciler.
type TransactionSyncService struct {
	client     sb1.ClientInterface
	users      UserResolver
	accounts   AccountStore
	reconciler *Reconciler
	publisher  CollapsePublisher
	cfg        TransactionSyncConfig
	now        func() time.Time
	log        zerolog.Logger
}

func NewTransactionSyncService(
	client sb1.ClientInterface,
	users UserResolver,
	accounts AccountStore,
	reconciler *Reconciler,
	cfg TransactionSyncConfig,
	log zerolog.Logger,
) *TransactionSyncService {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = DefaultLookbackDays
	}
	if cfg.RowLimit <= 0 {
		cfg.RowLimit = DefaultRowLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &TransactionSyncService{
		client:     client,
		users:      users,
		accounts:   accounts,
		reconciler: reconciler,
		cfg:        cfg,
		now:        time.Now,
		log:        log.With().Str("component", "transaction_sync").Logger(),
	}
}

// WithPublisher enables collapse requests after syncs that saved rows
func (s *TransactionSyncService) WithPublisher(p CollapsePublisher) *TransactionSyncService {
	s.publisher = p
	return s
}

// SyncTransactions syncs the lookback window for the user owning email.
// Upstream failures abort the call; per-item failures are counted.
func (s *TransactionSyncService) SyncTransactions(ctx context.Context, accessToken, email string) (*TransactionSyncResult, error) {
	u, err := s.users.GetOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListAccountsByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, account.ErrNoAccounts
	}

	now := s.now().In(s.cfg.Location)
	dr := DateRange{
		From: now.AddDate(0, 0, -s.cfg.LookbackDays).Format(dateLayout),
		To:   now.Format(dateLayout),
	}

	fetched, err := s.client.GetTransactions(ctx, accessToken, sb1.TransactionQuery{
		AccountKeys: account.Keys(accounts),
		From:        dr.From,
		To:          dr.To,
		RowLimit:    s.cfg.RowLimit,
		Source:      transaction.SourceAll,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions from provider: %w", err)
	}

	batch := s.reconciler.Reconcile(ctx, u.ID, fetched)

	result := &TransactionSyncResult{
		UserID:    u.ID,
		Saved:     batch.Saved,
		Skipped:   batch.Skipped,
		Failed:    batch.Failed,
		Total:     len(fetched),
		DateRange: dr,
	}

	if result.Saved > 0 && s.publisher != nil {
		if err := s.publisher.PublishCollapseRequest(ctx, u.ID); err != nil {
			s.log.Warn().Err(err).Int64("user_id", u.ID).Msg("failed to publish collapse request")
		}
	}

	s.log.Info().
		Int64("user_id", u.ID).
		Str("from", dr.From).
		Str("to", dr.To).
		Int("total", result.Total).
		Int("saved", result.Saved).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("transaction sync completed")

	return result, nil
}
