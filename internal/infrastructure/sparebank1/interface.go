package sparebank1

import "context"

// ClientInterface defines the methods required from the SpareBank1 banking API client
type ClientInterface interface {
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	GetTransactions(ctx context.Context, accessToken string, query TransactionQuery) ([]Transaction, error)
}
