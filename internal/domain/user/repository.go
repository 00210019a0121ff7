package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// GetOrCreateByEmail returns the user with the given email, inserting it first if needed
	GetOrCreateByEmail(ctx context.Context, email string) (*User, error)

	// GetByEmail returns nil, nil when no user has the email
	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)

	// ListIDs returns the ids of every user, oldest first
	ListIDs(ctx context.Context) ([]int64, error)
}
