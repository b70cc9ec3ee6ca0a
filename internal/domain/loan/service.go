package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

var ErrNotFound = errors.New("loan not found")

// Detail pairs a loan with its owning customer for presentation.
type Detail struct {
	Loan     *Loan
	Customer *customer.Customer
}

type Service interface {
	// CheckEligibility evaluates a proposed loan against the customer's
	// history without persisting anything.
	CheckEligibility(ctx context.Context, customerID int64, amount Money, interestRate Money, tenure int) (*eligibility.Decision, error)

	// CreateLoan evaluates the proposal and, when approved, persists the
	// loan and raises the customer's debt atomically. A rejection returns
	// a nil loan and a non-nil decision, with no state change.
	CreateLoan(ctx context.Context, customerID int64, amount Money, interestRate Money, tenure int) (*Loan, *eligibility.Decision, error)

	GetLoanDetail(ctx context.Context, loanID int64) (*Detail, error)

	ListActiveCustomerLoans(ctx context.Context, customerID int64) ([]*Detail, error)
}

var _ Service = (*loanService)(nil)

type loanService struct {
	repo         Repository
	customerRepo customer.Repository
	logger       *slog.Logger
}

func NewService(repo Repository, customerRepo customer.Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("loan repository cannot be nil")
	}
	if customerRepo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &loanService{
		repo:         repo,
		customerRepo: customerRepo,
		logger:       logger.With(slog.String("component", "loanService")),
	}
}

func validateProposal(amount Money, interestRate Money, tenure int) error {
	if amount <= 0 {
		return apperrors.NewValidationError("loan_amount", "must be positive")
	}
	if interestRate < 0 {
		return apperrors.NewValidationError("interest_rate", "cannot be negative")
	}
	if tenure <= 0 {
		return apperrors.NewValidationError("tenure", "must be positive")
	}
	return nil
}

func (s *loanService) CheckEligibility(ctx context.Context, customerID int64, amount Money, interestRate Money, tenure int) (*eligibility.Decision, error) {
	if err := validateProposal(amount, interestRate, tenure); err != nil {
		return nil, err
	}

	cust, loans, err := s.loadHistory(ctx, customerID)
	if err != nil {
		return nil, err
	}

	decision := eligibility.Evaluate(
		borrowerOf(cust),
		summarize(loans),
		eligibility.Proposal{Amount: amount, InterestRate: interestRate, Tenure: tenure},
		time.Now(),
	)
	monitoring.RecordEligibilityCheck(outcomeLabel(decision.Approved))

	s.logger.InfoContext(ctx, "Eligibility evaluated",
		slog.Int64("customer_id", customerID),
		slog.Bool("approved", decision.Approved),
		slog.Float64("credit_score", decision.CreditScore),
	)
	return &decision, nil
}

func (s *loanService) CreateLoan(ctx context.Context, customerID int64, amount Money, interestRate Money, tenure int) (*Loan, *eligibility.Decision, error) {
	if err := validateProposal(amount, interestRate, tenure); err != nil {
		return nil, nil, err
	}

	cust, loans, err := s.loadHistory(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	decision := eligibility.Evaluate(
		borrowerOf(cust),
		summarize(loans),
		eligibility.Proposal{Amount: amount, InterestRate: interestRate, Tenure: tenure},
		time.Now(),
	)
	monitoring.RecordEligibilityCheck(outcomeLabel(decision.Approved))

	if !decision.Approved {
		s.logger.InfoContext(ctx, "Loan proposal rejected",
			slog.Int64("customer_id", customerID),
			slog.Float64("credit_score", decision.CreditScore),
		)
		return nil, &decision, nil
	}

	newLoan := NewLoan(customerID, amount, tenure, decision.CorrectedInterestRate, decision.MonthlyInstallment, time.Time{})
	created, err := s.repo.CreateLoan(ctx, newLoan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist approved loan", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to create loan: %w", err)
	}

	monitoring.RecordLoanCreated()
	s.logger.InfoContext(ctx, "Loan created",
		slog.Int64("loan_id", created.ID),
		slog.Int64("customer_id", customerID),
		slog.Float64("monthly_installment", created.MonthlyRepayment),
	)
	return created, &decision, nil
}

func (s *loanService) GetLoanDetail(ctx context.Context, loanID int64) (*Detail, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}

	cust, err := s.customerRepo.FindByID(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Loan references missing customer",
			slog.Int64("loan_id", loanID),
			slog.Int64("customer_id", l.CustomerID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to load customer for loan %d: %w", loanID, err)
	}

	return &Detail{Loan: l, Customer: cust}, nil
}

func (s *loanService) ListActiveCustomerLoans(ctx context.Context, customerID int64) ([]*Detail, error) {
	cust, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, customer.ErrNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	loans, err := s.repo.GetActiveLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}

	details := make([]*Detail, 0, len(loans))
	for _, l := range loans {
		details = append(details, &Detail{Loan: l, Customer: cust})
	}
	return details, nil
}

func (s *loanService) loadHistory(ctx context.Context, customerID int64) (*customer.Customer, []*Loan, error) {
	cust, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, customer.ErrNotFound) {
			return nil, nil, customer.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	loans, err := s.repo.GetLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load loan history for customer %d: %w", customerID, err)
	}
	return cust, loans, nil
}

func outcomeLabel(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}

func borrowerOf(cust *customer.Customer) eligibility.Borrower {
	return eligibility.Borrower{
		MonthlySalary: cust.MonthlySalary,
		ApprovedLimit: cust.ApprovedLimit,
	}
}

func summarize(loans []*Loan) []eligibility.LoanSummary {
	summaries := make([]eligibility.LoanSummary, 0, len(loans))
	for _, l := range loans {
		summaries = append(summaries, eligibility.LoanSummary{
			Amount:           l.Amount,
			MonthlyRepayment: l.MonthlyRepayment,
			EMIsPaidOnTime:   l.EMIsPaidOnTime,
			StartDate:        l.StartDate,
			IsActive:         l.IsActive,
		})
	}
	return summaries
}
