package handler

import (
	"context"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"

	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

var _ customer.Service = (*MockCustomerService)(nil)

func (_m *MockCustomerService) Register(ctx context.Context, firstName, lastName string, age int, phoneNumber string, monthlySalary float64) (*customer.Customer, error) {
	ret := _m.Called(ctx, firstName, lastName, age, phoneNumber, monthlySalary)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

var _ loan.Service = (*MockLoanService)(nil)

func (_m *MockLoanService) CheckEligibility(ctx context.Context, customerID int64, amount loan.Money, interestRate loan.Money, tenure int) (*eligibility.Decision, error) {
	ret := _m.Called(ctx, customerID, amount, interestRate, tenure)

	var r0 *eligibility.Decision
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*eligibility.Decision)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) CreateLoan(ctx context.Context, customerID int64, amount loan.Money, interestRate loan.Money, tenure int) (*loan.Loan, *eligibility.Decision, error) {
	ret := _m.Called(ctx, customerID, amount, interestRate, tenure)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	var r1 *eligibility.Decision
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*eligibility.Decision)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockLoanService) GetLoanDetail(ctx context.Context, loanID int64) (*loan.Detail, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Detail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Detail)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) ListActiveCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Detail, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*loan.Detail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Detail)
	}
	return r0, ret.Error(1)
}
