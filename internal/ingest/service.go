package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
)

const (
	jobCustomers = "customers"
	jobLoans     = "loans"
)

// Service loads spreadsheet exports into the database. Each file is one
// transaction: either every usable row lands or none do.
type Service interface {
	IngestCustomers(ctx context.Context, filePath string) (string, error)

	IngestLoans(ctx context.Context, filePath string) (string, error)
}

var _ Service = (*ingestService)(nil)

type ingestService struct {
	reader       Reader
	customerRepo customer.Repository
	loanRepo     loan.Repository
	logger       *slog.Logger
}

func NewService(reader Reader, customerRepo customer.Repository, loanRepo loan.Repository, logger *slog.Logger) Service {
	if reader == nil {
		panic("reader cannot be nil")
	}
	if customerRepo == nil {
		panic("customer repository cannot be nil")
	}
	if loanRepo == nil {
		panic("loan repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &ingestService{
		reader:       reader,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		logger:       logger.With(slog.String("component", "ingestService")),
	}
}

func (s *ingestService) IngestCustomers(ctx context.Context, filePath string) (string, error) {
	s.logger.InfoContext(ctx, "Starting customer ingestion", slog.String("file", filePath))

	rows, malformed, err := s.reader.CustomerRows(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read customer file: %w", err)
	}
	for i := 0; i < malformed; i++ {
		monitoring.RecordIngestionRow(jobCustomers, "malformed")
	}

	tx, err := s.customerRepo.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer s.customerRepo.RollbackTx(ctx, tx)

	upserted := 0
	for _, row := range rows {
		cust := &customer.Customer{
			CustomerID:    row.CustomerID,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Age:           row.Age,
			PhoneNumber:   row.PhoneNumber,
			MonthlySalary: row.MonthlySalary,
			ApprovedLimit: row.ApprovedLimit,
			CurrentDebt:   row.CurrentDebt,
		}
		if err := s.customerRepo.UpsertInTx(ctx, tx, cust); err != nil {
			return "", fmt.Errorf("failed to upsert customer %d: %w", row.CustomerID, err)
		}
		monitoring.RecordIngestionRow(jobCustomers, "upserted")
		upserted++
	}

	if err := s.customerRepo.CommitTx(ctx, tx); err != nil {
		return "", err
	}

	summary := fmt.Sprintf("customers ingested: %d upserted, %d malformed", upserted, malformed)
	s.logger.InfoContext(ctx, "Customer ingestion finished",
		slog.String("file", filePath),
		slog.Int("upserted", upserted),
		slog.Int("malformed", malformed),
	)
	return summary, nil
}

func (s *ingestService) IngestLoans(ctx context.Context, filePath string) (string, error) {
	s.logger.InfoContext(ctx, "Starting loan ingestion", slog.String("file", filePath))

	rows, malformed, err := s.reader.LoanRows(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read loan file: %w", err)
	}
	for i := 0; i < malformed; i++ {
		monitoring.RecordIngestionRow(jobLoans, "malformed")
	}

	tx, err := s.loanRepo.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer s.loanRepo.RollbackTx(ctx, tx)

	upserted, orphaned := 0, 0
	for _, row := range rows {
		exists, err := s.loanRepo.CustomerExistsInTx(ctx, tx, row.CustomerID)
		if err != nil {
			return "", err
		}
		if !exists {
			// Loan rows pointing at customers the customer file never
			// mentioned are dropped, not fatal.
			s.logger.WarnContext(ctx, "Skipping loan row for unknown customer",
				slog.Int64("loan_id", row.LoanID),
				slog.Int64("customer_id", row.CustomerID),
			)
			monitoring.RecordIngestionRow(jobLoans, "orphaned")
			orphaned++
			continue
		}

		l := &loan.Loan{
			ID:               row.LoanID,
			CustomerID:       row.CustomerID,
			Amount:           row.Amount,
			Tenure:           row.Tenure,
			InterestRate:     row.InterestRate,
			MonthlyRepayment: row.MonthlyRepayment,
			EMIsPaidOnTime:   row.EMIsPaidOnTime,
			StartDate:        row.StartDate,
			EndDate:          row.EndDate,
		}
		l.IsActive = !l.Expired(time.Now())
		if err := s.loanRepo.UpsertInTx(ctx, tx, l); err != nil {
			return "", fmt.Errorf("failed to upsert loan %d: %w", row.LoanID, err)
		}
		monitoring.RecordIngestionRow(jobLoans, "upserted")
		upserted++
	}

	if err := s.loanRepo.CommitTx(ctx, tx); err != nil {
		return "", err
	}

	summary := fmt.Sprintf("loans ingested: %d upserted, %d orphaned, %d malformed", upserted, orphaned, malformed)
	s.logger.InfoContext(ctx, "Loan ingestion finished",
		slog.String("file", filePath),
		slog.Int("upserted", upserted),
		slog.Int("orphaned", orphaned),
		slog.Int("malformed", malformed),
	)
	return summary, nil
}
