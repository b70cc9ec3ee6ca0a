package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-approval/internal/domain/loan"
)

// LoanExpiryJob deactivates loans whose repayment window has ended, so
// eligibility stops counting them as active debt.
type LoanExpiryJob struct {
	loanRepo loan.Repository
	logger   *slog.Logger
}

func NewLoanExpiryJob(loanRepo loan.Repository, logger *slog.Logger) *LoanExpiryJob {
	if loanRepo == nil || logger == nil {
		panic("LoanExpiryJob dependencies cannot be nil")
	}
	return &LoanExpiryJob{
		loanRepo: loanRepo,
		logger:   logger.With("job", "LoanExpiry"),
	}
}

func (j *LoanExpiryJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting loan expiry job.")

	deactivated, err := j.loanRepo.DeactivateExpired(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to deactivate expired loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to deactivate expired loans: %w", err)
	}

	j.logger.InfoContext(ctx, "Loan expiry job finished.",
		slog.Int64("deactivated", deactivated),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
