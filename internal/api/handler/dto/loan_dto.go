package dto

import (
	"fmt"

	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"
)

type LoanRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customer_id must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loan_amount must be greater than zero")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interest_rate must not be negative")
	}
	if r.Tenure <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	return nil
}

type EligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    string  `json:"monthly_installment"`
}

func NewEligibilityResponse(customerID int64, tenure int, d *eligibility.Decision) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            customerID,
		Approval:              d.Approved,
		InterestRate:          d.InterestRate,
		CorrectedInterestRate: d.CorrectedInterestRate,
		Tenure:                tenure,
		MonthlyInstallment:    money(d.MonthlyInstallment),
	}
}

type CreateLoanResponse struct {
	LoanID             *int64 `json:"loan_id"`
	CustomerID         int64  `json:"customer_id"`
	LoanApproved       bool   `json:"loan_approved"`
	Message            string `json:"message"`
	MonthlyInstallment string `json:"monthly_installment"`
}

func NewCreateLoanResponse(customerID int64, created *loan.Loan, d *eligibility.Decision) CreateLoanResponse {
	if created == nil {
		return CreateLoanResponse{
			CustomerID:         customerID,
			LoanApproved:       false,
			Message:            "Loan not approved based on credit eligibility",
			MonthlyInstallment: money(0),
		}
	}
	return CreateLoanResponse{
		LoanID:             &created.ID,
		CustomerID:         customerID,
		LoanApproved:       true,
		Message:            "Loan approved",
		MonthlyInstallment: money(created.MonthlyRepayment),
	}
}

type CustomerSummary struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             int64           `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         string          `json:"loan_amount"`
	InterestRate       float64         `json:"interest_rate"`
	MonthlyInstallment string          `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

func NewLoanDetailResponse(d *loan.Detail) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID: d.Loan.ID,
		Customer: CustomerSummary{
			ID:          d.Customer.CustomerID,
			FirstName:   d.Customer.FirstName,
			LastName:    d.Customer.LastName,
			PhoneNumber: d.Customer.PhoneNumber,
			Age:         d.Customer.Age,
		},
		LoanAmount:         money(d.Loan.Amount),
		InterestRate:       d.Loan.InterestRate,
		MonthlyInstallment: money(d.Loan.MonthlyRepayment),
		Tenure:             d.Loan.Tenure,
		RepaymentsLeft:     d.Loan.RepaymentsLeft(),
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
