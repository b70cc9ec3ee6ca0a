package loan

import (
	"context"
	"time"

	"credit-approval/internal/domain/customer"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) CreateLoan(ctx context.Context, newLoan *Loan) (*Loan, error) {
	ret := _m.Called(ctx, newLoan)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetActiveLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, l *Loan) error {
	ret := _m.Called(ctx, tx, l)
	return ret.Error(0)
}

func (_m *MockRepository) CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	ret := _m.Called(ctx, tx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	ret := _m.Called(ctx, asOf)
	return ret.Get(0).(int64), ret.Error(1)
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

type MockCustomerRepository struct {
	mock.Mock
}

var _ customer.Repository = (*MockCustomerRepository)(nil)

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	ret := _m.Called(ctx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, cust *customer.Customer) error {
	ret := _m.Called(ctx, tx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}
