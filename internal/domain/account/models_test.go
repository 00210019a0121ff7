package account

import (
	"errors"
	"testing"
	"time"
)

func TestUpsertParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  UpsertParams
		wantErr error
	}{
		{"valid", UpsertParams{UserID: 1, Key: "A1"}, nil},
		{"missing user", UpsertParams{Key: "A1"}, ErrInvalidUserID},
		{"missing key", UpsertParams{UserID: 1}, ErrMissingKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSyncedSince(t *testing.T) {
	midnight := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		accounts []*Account
		want     bool
	}{
		{"empty", nil, false},
		{"synced yesterday", []*Account{{SyncedAt: midnight.Add(-time.Minute)}}, false},
		{"synced exactly at midnight", []*Account{{SyncedAt: midnight}}, true},
		{"one of many synced today", []*Account{
			{SyncedAt: midnight.Add(-48 * time.Hour)},
			{SyncedAt: midnight.Add(9 * time.Hour)},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SyncedSince(tt.accounts, midnight); got != tt.want {
				t.Errorf("SyncedSince() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	got := Keys([]*Account{{Key: "A1"}, {Key: "B2"}})
	if len(got) != 2 || got[0] != "A1" || got[1] != "B2" {
		t.Errorf("Keys() = %v, want [A1 B2]", got)
	}
}
