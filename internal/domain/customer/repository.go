package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("customer not found")

type Repository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	UpsertInTx(ctx context.Context, tx pgx.Tx, customer *Customer) error

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
