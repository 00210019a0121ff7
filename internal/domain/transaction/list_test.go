package transaction

import (
	"context"
	"errors"
	"testing"
)

func TestListParams_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ListParams
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListParams{}, 1, DefaultPageSize},
		{"negative page", ListParams{Page: -2, Limit: 10}, 1, 10},
		{"clamped limit", ListParams{Page: 3, Limit: 500}, 3, MaxPageSize},
		{"kept", ListParams{Page: 2, Limit: 50}, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
		})
	}
}

func TestListParams_Validate(t *testing.T) {
	from, to := int64(200), int64(100)
	p := ListParams{UserID: 1, FromDate: &from, ToDate: &to}
	if err := p.Validate(); !errors.Is(err, ErrInvalidListParams) {
		t.Errorf("Validate() = %v, want ErrInvalidListParams", err)
	}

	p = ListParams{}
	if err := p.Validate(); !errors.Is(err, ErrInvalidListParams) {
		t.Errorf("Validate() without user = %v, want ErrInvalidListParams", err)
	}
}

func TestService_List(t *testing.T) {
	var got ListParams
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, params ListParams) ([]*Transaction, int64, error) {
			got = params
			return []*Transaction{{ID: "t1"}, {ID: "t2"}}, 45, nil
		},
	}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), ListParams{UserID: 7, Page: 2, Search: "  rema "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Search != "rema" {
		t.Errorf("Search passed to repo = %q, want rema", got.Search)
	}
	if got.Offset() != 20 {
		t.Errorf("Offset = %d, want 20", got.Offset())
	}
	if page.Pagination.Total != 45 {
		t.Errorf("Total = %d, want 45", page.Pagination.Total)
	}
	if !page.Pagination.HasMore {
		t.Error("HasMore = false, want true (20+20 < 45)")
	}
	if len(page.Transactions) != 2 {
		t.Errorf("Transactions = %d, want 2", len(page.Transactions))
	}
}

func TestService_List_LastPage(t *testing.T) {
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, params ListParams) ([]*Transaction, int64, error) {
			return nil, 40, nil
		},
	}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), ListParams{UserID: 7, Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.HasMore {
		t.Error("HasMore = true, want false at 20+20 == 40")
	}
	if page.Transactions == nil {
		t.Error("Transactions should be an empty slice, not nil")
	}
}

func TestService_List_RepoError(t *testing.T) {
	repo := &MockTransactionRepo{
		ListFunc: func(ctx context.Context, params ListParams) ([]*Transaction, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}
	svc := NewService(repo)

	if _, err := svc.List(context.Background(), ListParams{UserID: 1}); err == nil {
		t.Fatal("expected error")
	}
}
