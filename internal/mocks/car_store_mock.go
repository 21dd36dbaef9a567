package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockCarStore is a mock of store.CarStore interface for use with testify/mock
type TestifyMockCarStore struct {
	mock.Mock
}

var _ store.CarStore = (*TestifyMockCarStore)(nil)

// FindAll is a mock implementation of store.CarStore.FindAll
func (m *TestifyMockCarStore) FindAll(ctx context.Context, filter string) ([]domain.Car, error) {
	args := m.Called(ctx, filter)
	if cars, ok := args.Get(0).([]domain.Car); ok {
		return cars, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID is a mock implementation of store.CarStore.FindByID
func (m *TestifyMockCarStore) FindByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if car, ok := args.Get(0).(*domain.Car); ok {
		return car, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsDuplicate is a mock implementation of store.CarStore.ExistsDuplicate
func (m *TestifyMockCarStore) ExistsDuplicate(ctx context.Context, car *domain.Car, excludeID int64) (bool, error) {
	args := m.Called(ctx, car, excludeID)
	return args.Bool(0), args.Error(1)
}

// Insert is a mock implementation of store.CarStore.Insert
func (m *TestifyMockCarStore) Insert(ctx context.Context, car *domain.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

// Update is a mock implementation of store.CarStore.Update
func (m *TestifyMockCarStore) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

// Delete is a mock implementation of store.CarStore.Delete
func (m *TestifyMockCarStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the same mock so expectations set on it apply inside transactions.
func (m *TestifyMockCarStore) WithTx(tx *sql.Tx) store.CarStore {
	return m
}

// TestifyMockTxRunner is a mock of store.TxRunner. When the expectation
// returns nil the function is run inline and its error is returned.
type TestifyMockTxRunner struct {
	mock.Mock
}

var _ store.TxRunner = (*TestifyMockTxRunner)(nil)

// RunInTransaction is a mock implementation of store.TxRunner.RunInTransaction
func (m *TestifyMockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, nil)
}
