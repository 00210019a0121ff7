package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sparebudget/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, user_id, account_id, sparebank1_id, non_unique_id, description, cleaned_description,
	remote_account_number, remote_account_name, amount, date, type_code, currency_code,
	can_show_details, source, is_confidential, booking_status, account_name, account_key,
	account_currency, is_from_currency_account, kid_or_message, account_number,
	classification_input, merchant, synced_at, created_at`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var sb1ID, nonUniqueID, description, cleaned, remoteNumber, remoteName sql.NullString
	var typeCode, currencyCode, source, bookingStatus, accountName, accountKey sql.NullString
	var accountCurrency, kidOrMessage sql.NullString
	var canShowDetails, isConfidential, isFromCurrency sql.NullBool
	var accountNumber, classification, merchant []byte

	err := s.Scan(
		&t.ID, &t.UserID, &t.AccountID, &sb1ID, &nonUniqueID, &description, &cleaned,
		&remoteNumber, &remoteName, &t.Amount, &t.Date, &typeCode, &currencyCode,
		&canShowDetails, &source, &isConfidential, &bookingStatus, &accountName, &accountKey,
		&accountCurrency, &isFromCurrency, &kidOrMessage, &accountNumber,
		&classification, &merchant, &t.SyncedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.SpareBank1ID = stringPtr(sb1ID)
	t.NonUniqueID = stringPtr(nonUniqueID)
	t.Description = stringPtr(description)
	t.CleanedDescription = stringPtr(cleaned)
	t.RemoteAccountNumber = stringPtr(remoteNumber)
	t.RemoteAccountName = stringPtr(remoteName)
	t.TypeCode = stringPtr(typeCode)
	t.CurrencyCode = stringPtr(currencyCode)
	t.CanShowDetails = boolPtr(canShowDetails)
	t.Source = stringPtr(source)
	t.IsConfidential = boolPtr(isConfidential)
	t.BookingStatus = stringPtr(bookingStatus)
	t.AccountName = stringPtr(accountName)
	t.AccountKey = stringPtr(accountKey)
	t.AccountCurrency = stringPtr(accountCurrency)
	t.IsFromCurrencyAccount = boolPtr(isFromCurrency)
	t.KidOrMessage = stringPtr(kidOrMessage)
	t.AccountNumber = rawJSON(accountNumber)
	t.ClassificationInput = rawJSON(classification)
	t.Merchant = rawJSON(merchant)

	return &t, nil
}

func scanTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	defer rows.Close()

	var out []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

// ExistsByNaturalKey matches amount numerically and treats NULL and empty
// descriptions as equal.
func (r *TransactionRepository) ExistsByNaturalKey(ctx context.Context, userID int64, key transaction.NaturalKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1
			  AND amount = $2::numeric
			  AND date = $3
			  AND COALESCE(description, '') = $4
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, key.Amount, key.Date, key.Description).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return exists, nil
}

func (r *TransactionRepository) Create(ctx context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (
			id, user_id, account_id, sparebank1_id, non_unique_id, description, cleaned_description,
			remote_account_number, remote_account_name, amount, date, type_code, currency_code,
			can_show_details, source, is_confidential, booking_status, account_name, account_key,
			account_currency, is_from_currency_account, kid_or_message, account_number,
			classification_input, merchant, synced_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.UserID, p.AccountID, p.SpareBank1ID, p.NonUniqueID, p.Description,
		p.CleanedDescription, p.RemoteAccountNumber, p.RemoteAccountName, p.Amount, p.Date,
		p.TypeCode, p.CurrencyCode, p.CanShowDetails, p.Source, p.IsConfidential,
		p.BookingStatus, p.AccountName, p.AccountKey, p.AccountCurrency,
		p.IsFromCurrencyAccount, p.KidOrMessage, jsonParam(p.AccountNumber),
		jsonParam(p.ClassificationInput), jsonParam(p.Merchant), p.SyncedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListKeyRows(ctx context.Context, userID int64) ([]transaction.KeyRow, error) {
	query := `
		SELECT id, amount, date, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction keys: %w", err)
	}
	defer rows.Close()

	var out []transaction.KeyRow
	for rows.Next() {
		var k transaction.KeyRow
		var description sql.NullString
		if err := rows.Scan(&k.ID, &k.Amount, &k.Date, &description, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction key: %w", err)
		}
		k.Description = stringPtr(description)
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction keys: %w", err)
	}
	return out, nil
}

func (r *TransactionRepository) DeleteByIDs(ctx context.Context, userID int64, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2::uuid[])`,
		userID, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// List returns one page of the user's transactions, newest first, and the
// total number of rows matching the filters.
func (r *TransactionRepository) List(ctx context.Context, p transaction.ListParams) ([]*transaction.Transaction, int64, error) {
	where, args := listFilters(p)

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, p.Limit, p.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func listFilters(p transaction.ListParams) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{p.UserID}

	if p.AccountID != "" {
		args = append(args, p.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if p.Search != "" {
		args = append(args, "%"+escapeLike(p.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(description ILIKE $%d OR cleaned_description ILIKE $%d)", n, n))
	}
	if p.FromDate != nil {
		args = append(args, *p.FromDate)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if p.ToDate != nil {
		args = append(args, *p.ToDate)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListByDateRange returns rows with from <= date <= to
func (r *TransactionRepository) ListByDateRange(ctx context.Context, userID int64, from, to int64) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date: %w", err)
	}
	return scanTransactions(rows)
}

func (r *TransactionRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
