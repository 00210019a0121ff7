package transaction

import "context"

// MockTransactionRepo is a mock implementation of Repository for testing
type MockTransactionRepo struct {
	ExistsByNaturalKeyFunc func(ctx context.Context, userID int64, key NaturalKey) (bool, error)
	CreateFunc             func(ctx context.Context, params CreateParams) (*Transaction, error)
	ListKeyRowsFunc        func(ctx context.Context, userID int64) ([]KeyRow, error)
	DeleteByIDsFunc        func(ctx context.Context, userID int64, ids []string) (int64, error)
	ListFunc               func(ctx context.Context, params ListParams) ([]*Transaction, int64, error)
	ListByDateRangeFunc    func(ctx context.Context, userID int64, from, to int64) ([]*Transaction, error)
	CountByUserIDFunc      func(ctx context.Context, userID int64) (int64, error)
}

func (m *MockTransactionRepo) ExistsByNaturalKey(ctx context.Context, userID int64, key NaturalKey) (bool, error) {
	if m.ExistsByNaturalKeyFunc != nil {
		return m.ExistsByNaturalKeyFunc(ctx, userID, key)
	}
	return false, nil
}
func (m *MockTransactionRepo) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}
func (m *MockTransactionRepo) ListKeyRows(ctx context.Context, userID int64) ([]KeyRow, error) {
	if m.ListKeyRowsFunc != nil {
		return m.ListKeyRowsFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockTransactionRepo) DeleteByIDs(ctx context.Context, userID int64, ids []string) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}
func (m *MockTransactionRepo) List(ctx context.Context, params ListParams) ([]*Transaction, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return nil, 0, nil
}
func (m *MockTransactionRepo) ListByDateRange(ctx context.Context, userID int64, from, to int64) ([]*Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}
func (m *MockTransactionRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	if m.CountByUserIDFunc != nil {
		return m.CountByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

// memRepo keeps key rows in memory so collapse passes can be chained
type memRepo struct {
	MockTransactionRepo
	rows []KeyRow
}

func newMemRepo(rows ...KeyRow) *memRepo {
	m := &memRepo{rows: rows}
	m.ListKeyRowsFunc = func(ctx context.Context, userID int64) ([]KeyRow, error) {
		out := make([]KeyRow, len(m.rows))
		copy(out, m.rows)
		return out, nil
	}
	m.DeleteByIDsFunc = func(ctx context.Context, userID int64, ids []string) (int64, error) {
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		kept := m.rows[:0]
		var n int64
		for _, r := range m.rows {
			if drop[r.ID] {
				n++
				continue
			}
			kept = append(kept, r)
		}
		m.rows = kept
		return n, nil
	}
	return m
}
