package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReader struct {
	mock.Mock
}

var _ Reader = (*MockReader)(nil)

func (_m *MockReader) CustomerRows(filePath string) ([]CustomerRow, int, error) {
	ret := _m.Called(filePath)

	var r0 []CustomerRow
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]CustomerRow)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (_m *MockReader) LoanRows(filePath string) ([]LoanRow, int, error) {
	ret := _m.Called(filePath)

	var r0 []LoanRow
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]LoanRow)
	}
	return r0, ret.Int(1), ret.Error(2)
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

type MockLoanRepository struct {
	mock.Mock
}

var _ loan.Repository = (*MockLoanRepository)(nil)

func (_m *MockLoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	ret := _m.Called(ctx, newLoan)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetActiveLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	ret := _m.Called(ctx, tx, l)
	return ret.Error(0)
}

func (_m *MockLoanRepository) CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	ret := _m.Called(ctx, tx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockLoanRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	ret := _m.Called(ctx, asOf)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockLoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockLoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func setupIngestService() (*MockReader, *MockCustomerRepository, *MockLoanRepository, Service) {
	mockReader := new(MockReader)
	mockCustomerRepo := new(MockCustomerRepository)
	mockLoanRepo := new(MockLoanRepository)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(mockReader, mockCustomerRepo, mockLoanRepo, logger)
	return mockReader, mockCustomerRepo, mockLoanRepo, service
}

func TestIngestService_IngestCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts every row in one transaction", func(t *testing.T) {
		mockReader, mockCustomerRepo, _, service := setupIngestService()

		rows := []CustomerRow{
			{CustomerID: 1, FirstName: "Aarav", LastName: "Sharma", PhoneNumber: "9876543210", MonthlySalary: 50000, ApprovedLimit: 1800000, Age: 30},
			{CustomerID: 2, FirstName: "Diya", LastName: "Patel", PhoneNumber: "9876500000", MonthlySalary: 300000, ApprovedLimit: 1100000, CurrentDebt: 25000, Age: 28},
		}
		mockReader.On("CustomerRows", "customer_data.xlsx").Return(rows, 1, nil).Once()
		mockCustomerRepo.On("BeginTx", ctx).Return(nil, nil).Once()
		mockCustomerRepo.On("UpsertInTx", ctx, nil, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.CustomerID == 1 && c.FirstName == "Aarav"
		})).Return(nil).Once()
		mockCustomerRepo.On("UpsertInTx", ctx, nil, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.CustomerID == 2 && c.CurrentDebt == 25000.0
		})).Return(nil).Once()
		mockCustomerRepo.On("CommitTx", ctx, nil).Return(nil).Once()
		mockCustomerRepo.On("RollbackTx", ctx, nil).Return(nil).Once()

		summary, err := service.IngestCustomers(ctx, "customer_data.xlsx")

		require.NoError(t, err)
		assert.Equal(t, "customers ingested: 2 upserted, 1 malformed", summary)
		mockCustomerRepo.AssertExpectations(t)
	})

	t.Run("reader failure aborts before any transaction", func(t *testing.T) {
		mockReader, mockCustomerRepo, _, service := setupIngestService()

		mockReader.On("CustomerRows", "missing.xlsx").Return(nil, 0, errors.New("open missing.xlsx: no such file")).Once()

		summary, err := service.IngestCustomers(ctx, "missing.xlsx")

		assert.Empty(t, summary)
		assert.Error(t, err)
		mockCustomerRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("upsert failure rolls everything back", func(t *testing.T) {
		mockReader, mockCustomerRepo, _, service := setupIngestService()

		rows := []CustomerRow{{CustomerID: 1, FirstName: "Aarav", LastName: "Sharma"}}
		mockReader.On("CustomerRows", "customer_data.xlsx").Return(rows, 0, nil).Once()
		mockCustomerRepo.On("BeginTx", ctx).Return(nil, nil).Once()
		mockCustomerRepo.On("UpsertInTx", ctx, nil, mock.AnythingOfType("*customer.Customer")).
			Return(errors.New("constraint violation")).Once()
		mockCustomerRepo.On("RollbackTx", ctx, nil).Return(nil).Once()

		summary, err := service.IngestCustomers(ctx, "customer_data.xlsx")

		assert.Empty(t, summary)
		assert.Error(t, err)
		mockCustomerRepo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
		mockCustomerRepo.AssertCalled(t, "RollbackTx", ctx, nil)
	})
}

func TestIngestService_IngestLoans(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("skips rows for unknown customers and counts them", func(t *testing.T) {
		mockReader, _, mockLoanRepo, service := setupIngestService()

		rows := []LoanRow{
			{CustomerID: 1, LoanID: 10, Amount: 100000, Tenure: 12, InterestRate: 12, MonthlyRepayment: 8884.88, EMIsPaidOnTime: 3, StartDate: start, EndDate: start.AddDate(0, 0, 360)},
			{CustomerID: 99, LoanID: 11, Amount: 50000, Tenure: 6, InterestRate: 10, MonthlyRepayment: 8580.52, StartDate: start, EndDate: start.AddDate(0, 0, 180)},
		}
		mockReader.On("LoanRows", "loan_data.xlsx").Return(rows, 0, nil).Once()
		mockLoanRepo.On("BeginTx", ctx).Return(nil, nil).Once()
		mockLoanRepo.On("CustomerExistsInTx", ctx, nil, int64(1)).Return(true, nil).Once()
		mockLoanRepo.On("CustomerExistsInTx", ctx, nil, int64(99)).Return(false, nil).Once()
		mockLoanRepo.On("UpsertInTx", ctx, nil, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.ID == 10 && l.CustomerID == 1
		})).Return(nil).Once()
		mockLoanRepo.On("CommitTx", ctx, nil).Return(nil).Once()
		mockLoanRepo.On("RollbackTx", ctx, nil).Return(nil).Once()

		summary, err := service.IngestLoans(ctx, "loan_data.xlsx")

		require.NoError(t, err)
		assert.Equal(t, "loans ingested: 1 upserted, 1 orphaned, 0 malformed", summary)
		mockLoanRepo.AssertExpectations(t)
	})

	t.Run("past end date lands the loan inactive", func(t *testing.T) {
		mockReader, _, mockLoanRepo, service := setupIngestService()

		ended := time.Now().AddDate(0, 0, -1)
		rows := []LoanRow{
			{CustomerID: 1, LoanID: 10, Amount: 100000, Tenure: 12, StartDate: ended.AddDate(-1, 0, 0), EndDate: ended},
		}
		mockReader.On("LoanRows", "loan_data.xlsx").Return(rows, 0, nil).Once()
		mockLoanRepo.On("BeginTx", ctx).Return(nil, nil).Once()
		mockLoanRepo.On("CustomerExistsInTx", ctx, nil, int64(1)).Return(true, nil).Once()
		mockLoanRepo.On("UpsertInTx", ctx, nil, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.ID == 10 && !l.IsActive
		})).Return(nil).Once()
		mockLoanRepo.On("CommitTx", ctx, nil).Return(nil).Once()
		mockLoanRepo.On("RollbackTx", ctx, nil).Return(nil).Once()

		summary, err := service.IngestLoans(ctx, "loan_data.xlsx")

		require.NoError(t, err)
		assert.Equal(t, "loans ingested: 1 upserted, 0 orphaned, 0 malformed", summary)
		mockLoanRepo.AssertExpectations(t)
	})

	t.Run("existence check failure rolls everything back", func(t *testing.T) {
		mockReader, _, mockLoanRepo, service := setupIngestService()

		rows := []LoanRow{{CustomerID: 1, LoanID: 10, StartDate: start, EndDate: start.AddDate(0, 0, 360)}}
		mockReader.On("LoanRows", "loan_data.xlsx").Return(rows, 0, nil).Once()
		mockLoanRepo.On("BeginTx", ctx).Return(nil, nil).Once()
		mockLoanRepo.On("CustomerExistsInTx", ctx, nil, int64(1)).Return(false, errors.New("query timeout")).Once()
		mockLoanRepo.On("RollbackTx", ctx, nil).Return(nil).Once()

		summary, err := service.IngestLoans(ctx, "loan_data.xlsx")

		assert.Empty(t, summary)
		assert.Error(t, err)
		mockLoanRepo.AssertNotCalled(t, "UpsertInTx", mock.Anything, mock.Anything, mock.Anything)
		mockLoanRepo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
	})
}
