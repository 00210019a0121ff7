package sparebank1

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Account is an account as returned by GET /accounts
type Account struct {
	Key               string          `json:"key"`
	AccountNumber     string          `json:"accountNumber"`
	IBAN              string          `json:"iban"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Balance           decimal.Decimal `json:"balance"`
	AvailableBalance  decimal.Decimal `json:"availableBalance"`
	CurrencyCode      string          `json:"currencyCode"`
	Owner             json.RawMessage `json:"owner,omitempty"`
	ProductType       string          `json:"productType"`
	Type              string          `json:"type"`
	ProductID         string          `json:"productId"`
	DescriptionCode   string          `json:"descriptionCode"`
	DisposalRole      *bool           `json:"disposalRole"`
	AccountProperties json.RawMessage `json:"accountProperties,omitempty"`
}

type accountsEnvelope struct {
	Accounts []Account `json:"accounts"`
}

// Transaction is a transaction as returned by GET /transactions. Date is a
// Unix timestamp in milliseconds.
type Transaction struct {
	ID                    string          `json:"id"`
	NonUniqueID           string          `json:"nonUniqueId"`
	Description           *string         `json:"description"`
	CleanedDescription    *string         `json:"cleanedDescription"`
	AccountNumber         json.RawMessage `json:"accountNumber,omitempty"`
	RemoteAccountNumber   *string         `json:"remoteAccountNumber"`
	RemoteAccountName     *string         `json:"remoteAccountName"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  *int64          `json:"date"`
	TypeCode              *string         `json:"typeCode"`
	CurrencyCode          *string         `json:"currencyCode"`
	CanShowDetails        *bool           `json:"canShowDetails"`
	Source                *string         `json:"source"`
	IsConfidential        *bool           `json:"isConfidential"`
	BookingStatus         *string         `json:"bookingStatus"`
	AccountName           *string         `json:"accountName"`
	AccountKey            string          `json:"accountKey"`
	AccountCurrency       *string         `json:"accountCurrency"`
	IsFromCurrencyAccount *bool           `json:"isFromCurrencyAccount"`
	ClassificationInput   json.RawMessage `json:"classificationInput,omitempty"`
	Merchant              json.RawMessage `json:"merchant,omitempty"`
	KidOrMessage          *string         `json:"kidOrMessage"`
}

type transactionsEnvelope struct {
	Transactions []Transaction `json:"transactions"`
}

// TransactionQuery holds the GET /transactions query parameters. From and To
// are calendar dates formatted as yyyy-MM-dd.
type TransactionQuery struct {
	AccountKeys []string
	From        string
	To          string
	RowLimit    int
	Source      string
}
