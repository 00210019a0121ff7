package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sparebudget/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
	id, user_id, key, account_number, iban, name, description, balance, available_balance,
	currency_code, owner, product_type, type, product_id, description_code, disposal_role,
	account_properties, synced_at, created_at, updated_at`

func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account
	var accountNumber, iban, description, productType, accType, productID, descriptionCode sql.NullString
	var disposalRole sql.NullBool
	var owner, properties []byte

	err := s.Scan(
		&acc.ID, &acc.UserID, &acc.Key, &accountNumber, &iban, &acc.Name, &description,
		&acc.Balance, &acc.AvailableBalance, &acc.CurrencyCode, &owner, &productType,
		&accType, &productID, &descriptionCode, &disposalRole, &properties,
		&acc.SyncedAt, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	acc.AccountNumber = stringPtr(accountNumber)
	acc.IBAN = stringPtr(iban)
	acc.Description = stringPtr(description)
	acc.ProductType = stringPtr(productType)
	acc.Type = stringPtr(accType)
	acc.ProductID = stringPtr(productID)
	acc.DescriptionCode = stringPtr(descriptionCode)
	acc.DisposalRole = boolPtr(disposalRole)
	acc.Owner = rawJSON(owner)
	acc.AccountProperties = rawJSON(properties)

	return &acc, nil
}

// Upsert inserts or refreshes an account by provider key. A key already held
// by another user is reported as account.ErrAccountNotOwned.
func (r *AccountRepository) Upsert(ctx context.Context, p account.UpsertParams) (*account.Account, bool, error) {
	query := `
		INSERT INTO accounts (
			id, user_id, key, account_number, iban, name, description, balance, available_balance,
			currency_code, owner, product_type, type, product_id, description_code, disposal_role,
			account_properties, synced_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (key) DO UPDATE SET
			account_number = EXCLUDED.account_number,
			iban = EXCLUDED.iban,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			balance = EXCLUDED.balance,
			available_balance = EXCLUDED.available_balance,
			currency_code = EXCLUDED.currency_code,
			owner = EXCLUDED.owner,
			product_type = EXCLUDED.product_type,
			type = EXCLUDED.type,
			product_id = EXCLUDED.product_id,
			description_code = EXCLUDED.description_code,
			disposal_role = EXCLUDED.disposal_role,
			account_properties = EXCLUDED.account_properties,
			synced_at = EXCLUDED.synced_at,
			updated_at = now()
		WHERE accounts.user_id = EXCLUDED.user_id
		RETURNING ` + accountColumns + `, (xmax = 0) AS inserted`

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.UserID, p.Key, p.AccountNumber, p.IBAN, p.Name, p.Description,
		p.Balance, p.AvailableBalance, p.CurrencyCode, jsonParam(p.Owner), p.ProductType,
		p.Type, p.ProductID, p.DescriptionCode, p.DisposalRole, jsonParam(p.AccountProperties),
		p.SyncedAt,
	)

	var inserted bool
	acc, err := scanAccount(scanWithExtra(row, &inserted))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, account.ErrAccountNotOwned
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert account: %w", err)
	}
	return acc, inserted, nil
}

// ListByUserID retrieves all accounts for a user ordered by name
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY name, key`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) FindByKey(ctx context.Context, userID int64, key string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND key = $2`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, userID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by key: %w", err)
	}
	return acc, nil
}

// extraScanner appends destinations after the ones scanAccount supplies
type extraScanner struct {
	s     scanner
	extra []any
}

func (e extraScanner) Scan(dest ...any) error {
	return e.s.Scan(append(dest, e.extra...)...)
}

func scanWithExtra(s scanner, extra ...any) scanner {
	return extraScanner{s: s, extra: extra}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func boolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}
