package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

const uniqueViolationCode = "23505"

func queryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func translateDBError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrAlreadyExists, op, err)
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, op, err)
}

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

const loanColumns = `loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, is_active, created_at, updated_at`

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLoanRepository, using default stderr handler")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to rollback transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

// CreateLoan inserts the loan and adds its principal to the customer's
// current debt in a single transaction.
func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	if newLoan == nil {
		return nil, fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer r.RollbackTx(ctx, tx)

	loanSQL := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING ` + loanColumns

	var created loan.Loan
	start := time.Now()
	err = tx.QueryRow(ctx, loanSQL,
		newLoan.CustomerID, newLoan.Amount, newLoan.Tenure, newLoan.InterestRate,
		newLoan.MonthlyRepayment, newLoan.EMIsPaidOnTime, newLoan.StartDate,
		newLoan.EndDate, newLoan.IsActive,
	).Scan(
		&created.ID, &created.CustomerID, &created.Amount, &created.Tenure,
		&created.InterestRate, &created.MonthlyRepayment, &created.EMIsPaidOnTime,
		&created.StartDate, &created.EndDate, &created.IsActive,
		&created.CreatedAt, &created.UpdatedAt,
	)
	monitoring.RecordDBQuery("insert_loan", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return nil, translateDBError(err, "insert loan")
	}
	r.logger.InfoContext(ctx, "Loan created in DB", slog.Int64("loan_id", created.ID))

	debtSQL := `
        UPDATE customers
        SET current_debt = current_debt + $1, updated_at = NOW()
        WHERE customer_id = $2`

	start = time.Now()
	cmdTag, err := tx.Exec(ctx, debtSQL, created.Amount, created.CustomerID)
	monitoring.RecordDBQuery("increment_customer_debt", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to increment customer debt", slog.Any("error", err))
		return nil, translateDBError(err, "increment customer debt")
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, created.CustomerID)
	}

	if err := r.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	var l loan.Loan
	start := time.Now()
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.CustomerID, &l.Amount, &l.Tenure,
		&l.InterestRate, &l.MonthlyRepayment, &l.EMIsPaidOnTime,
		&l.StartDate, &l.EndDate, &l.IsActive,
		&l.CreatedAt, &l.UpdatedAt,
	)
	monitoring.RecordDBQuery("find_loan_by_id", queryStatus(err), time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", slog.Int64("loan_id", loanID))
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		r.logger.ErrorContext(ctx, "Failed to query loan", slog.Any("error", err))
		return nil, translateDBError(err, "find loan by id")
	}

	return &l, nil
}

func (r *LoanRepository) GetLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY loan_id`
	return r.queryLoans(ctx, "find_loans_by_customer", query, customerID)
}

func (r *LoanRepository) GetActiveLoansByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 AND is_active ORDER BY loan_id`
	return r.queryLoans(ctx, "find_active_loans_by_customer", query, customerID)
}

func (r *LoanRepository) queryLoans(ctx context.Context, op string, query string, args ...any) ([]*loan.Loan, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	monitoring.RecordDBQuery(op, queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans", slog.String("op", op), slog.Any("error", err))
		return nil, translateDBError(err, op)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.CustomerID, &l.Amount, &l.Tenure,
			&l.InterestRate, &l.MonthlyRepayment, &l.EMIsPaidOnTime,
			&l.StartDate, &l.EndDate, &l.IsActive,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, translateDBError(err, op)
		}
		loans = append(loans, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err, op)
	}

	return loans, nil
}

// UpsertInTx writes an externally keyed loan row inside the caller's
// transaction. Used by bulk ingestion.
func (r *LoanRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        ON CONFLICT (loan_id) DO UPDATE
        SET customer_id = EXCLUDED.customer_id, loan_amount = EXCLUDED.loan_amount, tenure = EXCLUDED.tenure,
            interest_rate = EXCLUDED.interest_rate, monthly_repayment = EXCLUDED.monthly_repayment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time, start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date, is_active = EXCLUDED.is_active, updated_at = NOW()`

	start := time.Now()
	_, err := tx.Exec(ctx, query,
		l.ID, l.CustomerID, l.Amount, l.Tenure, l.InterestRate,
		l.MonthlyRepayment, l.EMIsPaidOnTime, l.StartDate, l.EndDate, l.IsActive,
	)
	monitoring.RecordDBQuery("upsert_loan", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", slog.Int64("loan_id", l.ID), slog.Any("error", err))
		return translateDBError(err, "upsert loan")
	}

	return nil
}

func (r *LoanRepository) CustomerExistsInTx(ctx context.Context, tx pgx.Tx, customerID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`

	var exists bool
	start := time.Now()
	err := tx.QueryRow(ctx, query, customerID).Scan(&exists)
	monitoring.RecordDBQuery("customer_exists", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Any("error", err))
		return false, translateDBError(err, "customer exists")
	}

	return exists, nil
}

// DeactivateExpired flips is_active off for every active loan whose end
// date has passed. Returns the number of loans deactivated.
func (r *LoanRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
        UPDATE loans
        SET is_active = FALSE, updated_at = NOW()
        WHERE is_active AND end_date <= $1`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, asOf)
	monitoring.RecordDBQuery("deactivate_expired_loans", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to deactivate expired loans", slog.Any("error", err))
		return 0, translateDBError(err, "deactivate expired loans")
	}

	return cmdTag.RowsAffected(), nil
}
