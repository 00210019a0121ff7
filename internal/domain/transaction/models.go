package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses reported by the provider
const (
	BookingStatusPending = "PENDING"
	BookingStatusBooked  = "BOOKED"
)

// Source tags reported by the provider
const (
	SourceRecent   = "RECENT"
	SourceHistoric = "HISTORIC"
	SourceAll      = "ALL"
)

var ErrInvalidListParams = errors.New("invalid transaction list parameters")

// Transaction is a stored provider transaction. Amount is signed: negative is
// an expense, positive is income. Date is a Unix timestamp in milliseconds.
type Transaction struct {
	ID                    string          `json:"id"`
	UserID                int64           `json:"userId"`
	AccountID             string          `json:"accountId"`
	SpareBank1ID          *string         `json:"sparebank1Id,omitempty"`
	NonUniqueID           *string         `json:"nonUniqueId,omitempty"`
	Description           *string         `json:"description,omitempty"`
	CleanedDescription    *string         `json:"cleanedDescription,omitempty"`
	RemoteAccountNumber   *string         `json:"remoteAccountNumber,omitempty"`
	RemoteAccountName     *string         `json:"remoteAccountName,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  int64           `json:"date"`
	TypeCode              *string         `json:"typeCode,omitempty"`
	CurrencyCode          *string         `json:"currencyCode,omitempty"`
	CanShowDetails        *bool           `json:"canShowDetails,omitempty"`
	Source                *string         `json:"source,omitempty"`
	IsConfidential        *bool           `json:"isConfidential,omitempty"`
	BookingStatus         *string         `json:"bookingStatus,omitempty"`
	AccountName           *string         `json:"accountName,omitempty"`
	AccountKey            *string         `json:"accountKey,omitempty"`
	AccountCurrency       *string         `json:"accountCurrency,omitempty"`
	IsFromCurrencyAccount *bool           `json:"isFromCurrencyAccount,omitempty"`
	KidOrMessage          *string         `json:"kidOrMessage,omitempty"`
	AccountNumber         json.RawMessage `json:"accountNumber,omitempty"`
	ClassificationInput   json.RawMessage `json:"classificationInput,omitempty"`
	Merchant              json.RawMessage `json:"merchant,omitempty"`
	SyncedAt              time.Time       `json:"syncedAt"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// DescriptionText returns the description, or "" when absent.
func (t *Transaction) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Key returns the natural key of the stored row.
func (t *Transaction) Key() NaturalKey {
	return NewNaturalKey(t.Amount, t.Date, t.Description)
}

// CreateParams holds every provider field copied onto a new row.
type CreateParams struct {
	UserID                int64
	AccountID             string
	SpareBank1ID          *string
	NonUniqueID           *string
	Description           *string
	CleanedDescription    *string
	RemoteAccountNumber   *string
	RemoteAccountName     *string
	Amount                decimal.Decimal
	Date                  int64
	TypeCode              *string
	CurrencyCode          *string
	CanShowDetails        *bool
	Source                *string
	IsConfidential        *bool
	BookingStatus         *string
	AccountName           *string
	AccountKey            *string
	AccountCurrency       *string
	IsFromCurrencyAccount *bool
	KidOrMessage          *string
	AccountNumber         json.RawMessage
	ClassificationInput   json.RawMessage
	Merchant              json.RawMessage
	SyncedAt              time.Time
}

// NaturalKey is the de-facto identity of a transaction: the provider id is
// not stable across fetches, so (amount, date, description) is used instead.
// A missing description and an empty one are the same key.
type NaturalKey struct {
	Amount      decimal.Decimal
	Date        int64
	Description string
}

func NewNaturalKey(amount decimal.Decimal, date int64, description *string) NaturalKey {
	k := NaturalKey{Amount: amount, Date: date}
	if description != nil {
		k.Description = *description
	}
	return k
}

// String is a canonical form usable as a map key; -250 and -250.00 collapse.
func (k NaturalKey) String() string {
	return fmt.Sprintf("%s|%d|%s", k.Amount.String(), k.Date, k.Description)
}

// KeyRow is the projection the collapsor needs for grouping.
type KeyRow struct {
	ID          string
	Amount      decimal.Decimal
	Date        int64
	Description *string
	CreatedAt   time.Time
}

func (r KeyRow) Key() NaturalKey {
	return NewNaturalKey(r.Amount, r.Date, r.Description)
}
