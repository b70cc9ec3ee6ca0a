package customer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)
	return ret.Error(0)
}

func (_m *MockRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, customer *Customer) error {
	ret := _m.Called(ctx, tx, customer)
	return ret.Error(0)
}

func (_m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}
