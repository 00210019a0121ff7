package user

import (
	"context"
	"errors"
	"testing"
)

type MockUserRepo struct {
	GetOrCreateByEmailFunc func(ctx context.Context, email string) (*User, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*User, error)
	GetByIDFunc            func(ctx context.Context, id int64) (*User, error)
	ListIDsFunc            func(ctx context.Context) ([]int64, error)
}

func (m *MockUserRepo) GetOrCreateByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetOrCreateByEmailFunc != nil {
		return m.GetOrCreateByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx)
	}
	return nil, nil
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"  Ola@Example.NO ", "ola@example.no", false},
		{"kari@bank.no", "kari@bank.no", false},
		{"", "", true},
		{"   ", "", true},
		{"not-an-email", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes before lookup", func(t *testing.T) {
		var seen string
		svc := NewService(&MockUserRepo{
			GetOrCreateByEmailFunc: func(ctx context.Context, email string) (*User, error) {
				seen = email
				return &User{ID: 7, Email: email}, nil
			},
		})

		u, err := svc.GetOrCreate(ctx, " Ola@Example.no")
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		if seen != "ola@example.no" {
			t.Errorf("repository saw %q, want normalized email", seen)
		}
		if u.ID != 7 {
			t.Errorf("ID = %d, want 7", u.ID)
		}
	})

	t.Run("rejects empty email without touching the store", func(t *testing.T) {
		called := false
		svc := NewService(&MockUserRepo{
			GetOrCreateByEmailFunc: func(ctx context.Context, email string) (*User, error) {
				called = true
				return nil, nil
			},
		})

		_, err := svc.GetOrCreate(ctx, "")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("error = %v, want ErrInvalidEmail", err)
		}
		if called {
			t.Error("repository should not be called for an invalid email")
		}
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		boom := errors.New("connection refused")
		svc := NewService(&MockUserRepo{
			GetOrCreateByEmailFunc: func(ctx context.Context, email string) (*User, error) {
				return nil, boom
			},
		})

		_, err := svc.GetOrCreate(ctx, "a@b.no")
		if !errors.Is(err, boom) {
			t.Errorf("error = %v, want wrapped %v", err, boom)
		}
	})
}
