package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// CreateLoan persists a new loan and increments the owning customer's
	// current debt by the principal, atomically. Either both rows change
	// or neither does.
	CreateLoan(ctx context.Context, newLoan *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	GetLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	GetActiveLoansByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	UpsertInTx(ctx context.Context, tx pgx.Tx, l *Loan) error

	CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error)

	DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
