package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *CustomerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to rollback transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.CustomerID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name()))

	query := `
        INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING customer_id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	monitoring.RecordDBQuery("insert_customer", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, "insert customer")
	}

	r.logger.InfoContext(ctx, "Customer inserted", slog.Int64("customer_id", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customer_id", cust.CustomerID))

	query := `
        UPDATE customers
        SET first_name = $1, last_name = $2, age = $3, phone_number = $4,
            monthly_salary = $5, approved_limit = $6, current_debt = $7, updated_at = NOW()
        WHERE customer_id = $8`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
		cust.CustomerID,
	)
	monitoring.RecordDBQuery("update_customer", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, "update customer")
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, cust.CustomerID)
	}

	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at
        FROM customers
        WHERE customer_id = $1`

	var cust customer.Customer
	start := time.Now()
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.CustomerID,
		&cust.FirstName,
		&cust.LastName,
		&cust.Age,
		&cust.PhoneNumber,
		&cust.MonthlySalary,
		&cust.ApprovedLimit,
		&cust.CurrentDebt,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	monitoring.RecordDBQuery("find_customer_by_id", queryStatus(err), time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customer_id", customerID))
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		r.logger.ErrorContext(ctx, "Failed to query customer", slog.Any("error", err))
		return nil, translateDBError(err, "find customer by id")
	}

	return &cust, nil
}

// UpsertInTx writes an externally keyed customer row inside the caller's
// transaction. Used by bulk ingestion, where customer IDs come from the
// source data rather than the sequence.
func (r *CustomerRepository) UpsertInTx(ctx context.Context, tx pgx.Tx, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO customers (customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        ON CONFLICT (customer_id) DO UPDATE
        SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, age = EXCLUDED.age,
            phone_number = EXCLUDED.phone_number, monthly_salary = EXCLUDED.monthly_salary,
            approved_limit = EXCLUDED.approved_limit, current_debt = EXCLUDED.current_debt, updated_at = NOW()`

	start := time.Now()
	_, err := tx.Exec(ctx, query,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	)
	monitoring.RecordDBQuery("upsert_customer", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert customer", slog.Int64("customer_id", cust.CustomerID), slog.Any("error", err))
		return translateDBError(err, "upsert customer")
	}

	return nil
}
