package transaction

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListParams filters the paginated transaction listing. FromDate and ToDate
// are inclusive millisecond bounds.
type ListParams struct {
	UserID    int64
	Page      int
	Limit     int
	AccountID string
	Search    string
	FromDate  *int64
	ToDate    *int64
}

// Normalize applies paging defaults and clamps the page size
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	p.AccountID = strings.TrimSpace(p.AccountID)
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p ListParams) Validate() error {
	if p.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidListParams)
	}
	if p.FromDate != nil && p.ToDate != nil && *p.FromDate > *p.ToDate {
		return fmt.Errorf("%w: fromDate is after toDate", ErrInvalidListParams)
	}
	return nil
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

type Page struct {
	Transactions []*Transaction `json:"transactions"`
	Pagination   Pagination     `json:"pagination"`
}

// Service serves read access to stored transactions
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the user's transactions, newest first
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if rows == nil {
		rows = []*Transaction{}
	}

	return &Page{
		Transactions: rows,
		Pagination: Pagination{
			Page:    params.Page,
			Limit:   params.Limit,
			Total:   total,
			HasMore: int64(params.Offset()+params.Limit) < total,
		},
	}, nil
}
