package account

import "context"

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Upsert creates or updates an account keyed by its provider key.
	// The returned bool is true when a new row was inserted.
	Upsert(ctx context.Context, params UpsertParams) (*Account, bool, error)

	// ListByUserID retrieves all accounts for a user ordered by name
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)

	// FindByKey returns nil, nil when the user has no account with the key
	FindByKey(ctx context.Context, userID int64, key string) (*Account, error)
}
