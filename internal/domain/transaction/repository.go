package transaction

import "context"

// Repository defines the interface for transaction data access
type Repository interface {
	// ExistsByNaturalKey reports whether the user already has a row with the key
	ExistsByNaturalKey(ctx context.Context, userID int64, key NaturalKey) (bool, error)

	// Create inserts a new row; created_at is assigned by the store
	Create(ctx context.Context, params CreateParams) (*Transaction, error)

	// ListKeyRows returns the natural-key projection of all of a user's rows
	ListKeyRows(ctx context.Context, userID int64) ([]KeyRow, error)

	// DeleteByIDs removes the given rows of a user and returns the affected count
	DeleteByIDs(ctx context.Context, userID int64, ids []string) (int64, error)

	// List returns one page of rows matching params plus the total match count
	List(ctx context.Context, params ListParams) ([]*Transaction, int64, error)

	// ListByDateRange returns rows with from <= date <= to (milliseconds)
	ListByDateRange(ctx context.Context, userID int64, from, to int64) ([]*Transaction, error)

	CountByUserID(ctx context.Context, userID int64) (int64, error)
}
