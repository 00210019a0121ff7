package banksync

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/account"
	"sparebudget/internal/domain/transaction"
	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

const testUserID int64 = 1

var accountA1 = &account.Account{ID: "acc-1", UserID: testUserID, Key: "A1"}

func newTestReconciler(store TransactionStore, accs ...*account.Account) *Reconciler {
	return NewReconciler(store, &MockAccountStore{FindByKeyFunc: accountsByKey(accs...)}, zerolog.Nop())
}

func TestReconcile_SkipsStoredDuplicate(t *testing.T) {
	date := int64(1717200000000)
	store := &memStore{rows: []transaction.CreateParams{{
		UserID:      testUserID,
		Amount:      decimal.RequireFromString("-99.50"),
		Date:        date,
		Description: strPtr("Kiwi"),
	}}}
	r := newTestReconciler(store, accountA1)

	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-99.5", date, "Kiwi", "A1"),
	})

	if result.Saved != 0 || result.Skipped != 1 {
		t.Errorf("saved=%d skipped=%d, want 0/1", result.Saved, result.Skipped)
	}
	if result.Outcomes[0].Reason != ReasonDuplicate {
		t.Errorf("reason = %q, want %q", result.Outcomes[0].Reason, ReasonDuplicate)
	}
	if store.count() != 1 {
		t.Errorf("stored rows = %d, want 1", store.count())
	}
}

func TestReconcile_OrphanAccountSkipped(t *testing.T) {
	store := &memStore{}
	r := newTestReconciler(store, accountA1)

	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-10", 1, "Narvesen", "UNKNOWN"),
	})

	if result.Skipped != 1 || result.Saved != 0 {
		t.Errorf("saved=%d skipped=%d, want 0/1", result.Saved, result.Skipped)
	}
	if result.Outcomes[0].Reason != ReasonOrphanAccount {
		t.Errorf("reason = %q, want %q", result.Outcomes[0].Reason, ReasonOrphanAccount)
	}
	if store.count() != 0 {
		t.Errorf("stored rows = %d, want 0", store.count())
	}
}

func TestReconcile_SameBatchDuplicates(t *testing.T) {
	store := &memStore{}
	r := newTestReconciler(store, accountA1)

	t1 := int64(1717200000000)
	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-120", t1, "Rema 1000", "A1"),
		incoming("-120", t1, "Rema 1000", "A1"),
	})

	if result.Saved != 1 || result.Skipped != 1 {
		t.Errorf("saved=%d skipped=%d, want 1/1", result.Saved, result.Skipped)
	}
	if store.count() != 1 {
		t.Errorf("stored rows = %d, want 1", store.count())
	}
}

// existence checks that never see new rows must still be covered by the batch-local set
type staleStore struct {
	memStore
}

func (s *staleStore) ExistsByNaturalKey(ctx context.Context, userID int64, key transaction.NaturalKey) (bool, error) {
	return false, nil
}

func TestReconcile_SameBatchDuplicates_StaleStore(t *testing.T) {
	store := &staleStore{}
	r := newTestReconciler(store, accountA1)

	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-120", 5, "Rema 1000", "A1"),
		incoming("-120.00", 5, "Rema 1000", "A1"),
	})

	if result.Saved != 1 || result.Skipped != 1 {
		t.Errorf("saved=%d skipped=%d, want 1/1", result.Saved, result.Skipped)
	}
}

func TestReconcile_FailedItemDoesNotAbortBatch(t *testing.T) {
	store := &memStore{
		createErr: func(p transaction.CreateParams) error {
			if p.Amount.Equal(decimal.NewFromInt(-2)) {
				return errors.New("constraint violation")
			}
			return nil
		},
	}
	r := newTestReconciler(store, accountA1)

	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-1", 1, "a", "A1"),
		incoming("-2", 1, "b", "A1"),
		incoming("-3", 1, "c", "A1"),
	})

	if result.Saved != 2 || result.Failed != 1 || result.Skipped != 0 {
		t.Errorf("saved=%d failed=%d skipped=%d, want 2/1/0", result.Saved, result.Failed, result.Skipped)
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(result.Outcomes))
	}
	if result.Outcomes[1].Status != StatusFailed || result.Outcomes[1].Err == nil {
		t.Errorf("outcome[1] = %+v, want failed with error", result.Outcomes[1])
	}
}

func TestReconcile_LookupErrorsAreItemFailures(t *testing.T) {
	t.Run("existence check", func(t *testing.T) {
		store := &memStore{existsErr: errors.New("timeout")}
		r := newTestReconciler(store, accountA1)

		result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
			incoming("-1", 1, "a", "A1"),
			incoming("-2", 1, "b", "A1"),
		})
		if result.Failed != 2 {
			t.Errorf("failed = %d, want 2", result.Failed)
		}
	})

	t.Run("account lookup", func(t *testing.T) {
		store := &memStore{}
		accounts := &MockAccountStore{
			FindByKeyFunc: func(ctx context.Context, userID int64, key string) (*account.Account, error) {
				return nil, errors.New("db down")
			},
		}
		r := NewReconciler(store, accounts, zerolog.Nop())

		result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{incoming("-1", 1, "a", "A1")})
		if result.Failed != 1 || store.count() != 0 {
			t.Errorf("failed=%d stored=%d, want 1/0", result.Failed, store.count())
		}
	})
}

func TestReconcile_AccountLookupCachedPerBatch(t *testing.T) {
	lookups := 0
	accounts := &MockAccountStore{
		FindByKeyFunc: func(ctx context.Context, userID int64, key string) (*account.Account, error) {
			lookups++
			return accountA1, nil
		},
	}
	r := NewReconciler(&memStore{}, accounts, zerolog.Nop())

	r.Reconcile(context.Background(), testUserID, []sb1.Transaction{
		incoming("-1", 1, "a", "A1"),
		incoming("-2", 1, "b", "A1"),
		incoming("-3", 1, "c", "A1"),
	})

	if lookups != 1 {
		t.Errorf("account lookups = %d, want 1", lookups)
	}
}

func TestReconcile_MissingDate(t *testing.T) {
	store := &memStore{}
	r := newTestReconciler(store, accountA1)

	tx := incoming("-1", 1, "a", "A1")
	tx.Date = nil

	result := r.Reconcile(context.Background(), testUserID, []sb1.Transaction{tx})
	if result.Skipped != 1 || result.Outcomes[0].Reason != ReasonMissingDate {
		t.Errorf("outcome = %+v, want skipped missing_date", result.Outcomes[0])
	}
}

func TestReconcile_CopiesFieldsVerbatim(t *testing.T) {
	store := &memStore{}
	r := newTestReconciler(store, accountA1)

	tx := incoming("-42.10", 99, "Vinmonopolet", "A1")
	tx.CleanedDescription = strPtr("VINMONOPOLET")
	tx.BookingStatus = strPtr(transaction.BookingStatusBooked)

	r.Reconcile(context.Background(), testUserID, []sb1.Transaction{tx})

	if store.count() != 1 {
		t.Fatalf("stored rows = %d, want 1", store.count())
	}
	got := store.rows[0]
	if got.AccountID != accountA1.ID {
		t.Errorf("AccountID = %q, want %q", got.AccountID, accountA1.ID)
	}
	if *got.SpareBank1ID != "ext--42.10" {
		t.Errorf("SpareBank1ID = %q", *got.SpareBank1ID)
	}
	if got.Amount.String() != "-42.1" || got.Date != 99 {
		t.Errorf("amount/date = %s/%d", got.Amount, got.Date)
	}
	if *got.CleanedDescription != "VINMONOPOLET" || *got.BookingStatus != "BOOKED" {
		t.Errorf("fields not copied: %+v", got)
	}
	if string(got.Merchant) != `{"name":"x"}` {
		t.Errorf("Merchant = %s", got.Merchant)
	}
}
