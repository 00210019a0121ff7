package account

import (
	"context"
	"fmt"
)

// Service contains the business logic for account operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert validates and stores one provider account.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*Account, bool, error) {
	if err := params.Validate(); err != nil {
		return nil, false, err
	}
	return s.repo.Upsert(ctx, params)
}

// ListAccountsByUserID retrieves all accounts for a specific user
func (s *Service) ListAccountsByUserID(ctx context.Context, userID int64) ([]*Account, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	accounts, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// RequireAccounts is ListAccountsByUserID but fails with ErrNoAccounts when empty.
func (s *Service) RequireAccounts(ctx context.Context, userID int64) ([]*Account, error) {
	accounts, err := s.ListAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

// FindByKey resolves a provider key to the user's stored account.
func (s *Service) FindByKey(ctx context.Context, userID int64, key string) (*Account, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	acc, err := s.repo.FindByKey(ctx, userID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", key, err)
	}
	if acc != nil && acc.UserID != userID {
		return nil, ErrAccountNotOwned
	}
	return acc, nil
}
