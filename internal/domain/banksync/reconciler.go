package banksync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/transaction"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

// Status is the fate of one incoming transaction
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reason qualifies a skipped outcome
type Reason string

const (
	ReasonDuplicate     Reason = "duplicate"
	ReasonOrphanAccount Reason = "orphan_account"
	ReasonMissingDate   Reason = "missing_date"
)

// ItemOutcome records what happened to one incoming transaction
type ItemOutcome struct {
	Status        Status
	Reason        Reason
	Key           transaction.NaturalKey
	AccountKey    string
	TransactionID string
	Err           error
}

// BatchResult lists one outcome per input item, in input order
type BatchResult struct {
	Outcomes []ItemOutcome
	Saved    int
	Skipped  int
	Failed   int
}

func (b *BatchResult) record(o ItemOutcome) {
	b.Outcomes = append(b.Outcomes, o)
	switch o.Status {
	case StatusSaved:
		b.Saved++
	case StatusSkipped:
		b.Skipped++
	case StatusFailed:
		b.Failed++
	}
}

// TransactionStore is the part of the transaction repository the reconciler writes through
type TransactionStore interface {
	ExistsByNaturalKey(ctx context.Context, userID int64, key transaction.NaturalKey) (bool, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

// AccountResolver maps a provider account key to the user's stored account
type AccountResolver interface {
	FindByKey(ctx context.Context, userID int64, key string) (*account.Account, error)
}

// Reconciler persists the subset of a fetched batch that the store does not
// already hold. Items are decided one at a time; no item can abort the batch.
type Reconciler struct {
	store    TransactionStore
	accounts AccountResolver
	log      zerolog.Logger
	now      func() time.Time
	outcomes metric.Int64Counter
}

func NewReconciler(store TransactionStore, accounts AccountResolver, log zerolog.Logger) *Reconciler {
	outcomes, _ := otel.Meter("sparebudget/banksync").Int64Counter(
		"banksync.reconcile.outcomes",
		metric.WithDescription("Reconciled transactions by outcome"),
	)
	return &Reconciler{
		store:    store,
		accounts: accounts,
		log:      log.With().Str("component", "reconciler").Logger(),
		now:      time.Now,
		outcomes: outcomes,
	}
}

// Reconcile decides and applies the fate of every item in the batch
func (r *Reconciler) Reconcile(ctx context.Context, userID int64, items []sb1.Transaction) *BatchResult {
	result := &BatchResult{Outcomes: make([]ItemOutcome, 0, len(items))}
	seen := make(map[string]struct{}, len(items))
	accountCache := make(map[string]*account.Account)
	syncedAt := r.now()

	for i := range items {
		o := r.reconcileOne(ctx, userID, &items[i], seen, accountCache, syncedAt)
		result.record(o)
		if r.outcomes != nil {
			r.outcomes.Add(ctx, 1, metric.WithAttributes(
				attribute.String("status", string(o.Status)),
				attribute.String("reason", string(o.Reason)),
			))
		}
	}

	r.log.Info().
		Int64("user_id", userID).
		Int("total", len(items)).
		Int("saved", result.Saved).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("batch reconciled")

	return result
}

func (r *Reconciler) reconcileOne(
	ctx context.Context,
	userID int64,
	tx *sb1.Transaction,
	seen map[string]struct{},
	accountCache map[string]*account.Account,
	syncedAt time.Time,
) ItemOutcome {
	out := ItemOutcome{AccountKey: tx.AccountKey}

	if tx.Date == nil {
		out.Status, out.Reason = StatusSkipped, ReasonMissingDate
		r.log.Warn().Int64("user_id", userID).Str("account_key", tx.AccountKey).
			Str("reason", string(out.Reason)).Msg("skipping transaction")
		return out
	}

	out.Key = transaction.NewNaturalKey(tx.Amount, *tx.Date, tx.Description)
	keyStr := out.Key.String()
	logItem := func(e *zerolog.Event) *zerolog.Event {
		return e.Int64("user_id", userID).
			Str("account_key", tx.AccountKey).
			Str("amount", tx.Amount.String()).
			Int64("date", *tx.Date)
	}

	// 1. natural-key existence, batch-local first
	if _, dup := seen[keyStr]; dup {
		out.Status, out.Reason = StatusSkipped, ReasonDuplicate
		logItem(r.log.Debug()).Str("reason", string(out.Reason)).Msg("skipping transaction")
		return out
	}
	exists, err := r.store.ExistsByNaturalKey(ctx, userID, out.Key)
	if err != nil {
		out.Status, out.Err = StatusFailed, fmt.Errorf("failed to check existing transaction: %w", err)
		logItem(r.log.Error()).Err(err).Msg("existence check failed")
		return out
	}
	if exists {
		seen[keyStr] = struct{}{}
		out.Status, out.Reason = StatusSkipped, ReasonDuplicate
		logItem(r.log.Debug()).Str("reason", string(out.Reason)).Msg("skipping transaction")
		return out
	}

	// 2. owning account
	acc, err := r.resolveAccount(ctx, userID, tx.AccountKey, accountCache)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		logItem(r.log.Error()).Err(err).Msg("account lookup failed")
		return out
	}
	if acc == nil {
		out.Status, out.Reason = StatusSkipped, ReasonOrphanAccount
		logItem(r.log.Warn()).Str("reason", string(out.Reason)).Msg("skipping transaction without stored account")
		return out
	}

	// 3. insert verbatim
	created, err := r.store.Create(ctx, createParams(userID, acc.ID, tx, syncedAt))
	if err != nil {
		out.Status, out.Err = StatusFailed, fmt.Errorf("failed to insert transaction: %w", err)
		logItem(r.log.Error()).Err(err).Msg("insert failed")
		return out
	}

	seen[keyStr] = struct{}{}
	out.Status = StatusSaved
	if created != nil {
		out.TransactionID = created.ID
	}
	return out
}

func (r *Reconciler) resolveAccount(ctx context.Context, userID int64, key string, cache map[string]*account.Account) (*account.Account, error) {
	if acc, ok := cache[key]; ok {
		return acc, nil
	}
	if key == "" {
		return nil, nil
	}
	acc, err := r.accounts.FindByKey(ctx, userID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", key, err)
	}
	// cache misses too so an orphan key is looked up once per batch
	cache[key] = acc
	return acc, nil
}

func createParams(userID int64, accountID string, tx *sb1.Transaction, syncedAt time.Time) transaction.CreateParams {
	return transaction.CreateParams{
		UserID:                userID,
		AccountID:             accountID,
		SpareBank1ID:          optString(tx.ID),
		NonUniqueID:           optString(tx.NonUniqueID),
		Description:           tx.Description,
		CleanedDescription:    tx.CleanedDescription,
		RemoteAccountNumber:   tx.RemoteAccountNumber,
		RemoteAccountName:     tx.RemoteAccountName,
		Amount:                tx.Amount,
		Date:                  *tx.Date,
		TypeCode:              tx.TypeCode,
		CurrencyCode:          tx.CurrencyCode,
		CanShowDetails:        tx.CanShowDetails,
		Source:                tx.Source,
		IsConfidential:        tx.IsConfidential,
		BookingStatus:         tx.BookingStatus,
		AccountName:           tx.AccountName,
		AccountKey:            optString(tx.AccountKey),
		AccountCurrency:       tx.AccountCurrency,
		IsFromCurrencyAccount: tx.IsFromCurrencyAccount,
		KidOrMessage:          tx.KidOrMessage,
		AccountNumber:         tx.AccountNumber,
		ClassificationInput:   tx.ClassificationInput,
		Merchant:              tx.Merchant,
		SyncedAt:              syncedAt,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
