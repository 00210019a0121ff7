package account

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNoAccounts      = errors.New("no accounts found for user")
	ErrMissingKey      = errors.New("account key is required")
	ErrInvalidUserID   = errors.New("valid user ID is required")
	ErrAccountNotOwned = errors.New("account belongs to another user")
)

// Account is a bank account as reported by the provider. Key is the provider's
// stable identifier and the upsert key; everything else is refreshed on sync.
type Account struct {
	ID                string          `json:"id"`
	UserID            int64           `json:"userId"`
	Key               string          `json:"key"`
	AccountNumber     *string         `json:"accountNumber,omitempty"`
	IBAN              *string         `json:"iban,omitempty"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Balance           decimal.Decimal `json:"balance"`
	AvailableBalance  decimal.Decimal `json:"availableBalance"`
	CurrencyCode      string          `json:"currencyCode"`
	Owner             json.RawMessage `json:"owner,omitempty"`
	ProductType       *string         `json:"productType,omitempty"`
	Type              *string         `json:"type,omitempty"`
	ProductID         *string         `json:"productId,omitempty"`
	DescriptionCode   *string         `json:"descriptionCode,omitempty"`
	DisposalRole      *bool           `json:"disposalRole,omitempty"`
	AccountProperties json.RawMessage `json:"accountProperties,omitempty"`
	SyncedAt          time.Time       `json:"syncedAt"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// UpsertParams carries the provider representation of one account.
type UpsertParams struct {
	UserID            int64
	Key               string
	AccountNumber     *string
	IBAN              *string
	Name              string
	Description       *string
	Balance           decimal.Decimal
	AvailableBalance  decimal.Decimal
	CurrencyCode      string
	Owner             json.RawMessage
	ProductType       *string
	Type              *string
	ProductID         *string
	DescriptionCode   *string
	DisposalRole      *bool
	AccountProperties json.RawMessage
	SyncedAt          time.Time
}

// Validate validates the upsert parameters
func (p UpsertParams) Validate() error {
	if p.UserID <= 0 {
		return ErrInvalidUserID
	}
	if p.Key == "" {
		return ErrMissingKey
	}
	return nil
}

// SyncedSince reports whether any account was refreshed at or after t.
func SyncedSince(accounts []*Account, t time.Time) bool {
	for _, a := range accounts {
		if !a.SyncedAt.Before(t) {
			return true
		}
	}
	return false
}

// Keys returns the provider keys of the accounts in order.
func Keys(accounts []*Account) []string {
	keys := make([]string, 0, len(accounts))
	for _, a := range accounts {
		keys = append(keys, a.Key)
	}
	return keys
}
