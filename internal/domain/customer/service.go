package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

type Service interface {
	Register(ctx context.Context, firstName, lastName string, age int, phoneNumber string, monthlySalary float64) (*Customer, error)

	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ Service = (*customerService)(nil)

type customerService struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &customerService{
		repo:   repo,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Register(ctx context.Context, firstName, lastName string, age int, phoneNumber string, monthlySalary float64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if firstName == "" {
		return nil, apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if lastName == "" {
		return nil, apperrors.NewValidationError("last_name", "cannot be empty")
	}
	if age <= 0 {
		return nil, apperrors.NewValidationError("age", "must be positive")
	}
	if phoneNumber == "" {
		return nil, apperrors.NewValidationError("phone_number", "cannot be empty")
	}
	if monthlySalary <= 0 {
		return nil, apperrors.NewValidationError("monthly_salary", "must be positive")
	}
	s.logger.DebugContext(ctx, "Registration input validation passed")

	cust := NewCustomer(firstName, lastName, age, phoneNumber, monthlySalary)
	s.logger.InfoContext(ctx, "Customer domain object created",
		slog.Float64("monthly_salary", cust.MonthlySalary),
		slog.Float64("approved_limit", cust.ApprovedLimit),
	)

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()
	s.logger.InfoContext(ctx, "Successfully registered new customer", slog.Int64("customerID", cust.CustomerID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.DebugContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}
