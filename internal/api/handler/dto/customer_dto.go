package dto

import (
	"fmt"

	"credit-approval/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type RegisterCustomerRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	PhoneNumber   string  `json:"phone_number"`
	MonthlySalary float64 `json:"monthly_salary"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("first_name must not be empty")
	}
	if r.LastName == "" {
		return fmt.Errorf("last_name must not be empty")
	}
	if r.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if r.PhoneNumber == "" {
		return fmt.Errorf("phone_number must not be empty")
	}
	if r.MonthlySalary <= 0 {
		return fmt.Errorf("monthly_salary must be greater than zero")
	}
	return nil
}

// The response reports salary as monthly_income, matching the public API
// contract rather than the storage column name.
type CustomerResponse struct {
	CustomerID    int64  `json:"customer_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	MonthlyIncome string `json:"monthly_income"`
	ApprovedLimit string `json:"approved_limit"`
	PhoneNumber   string `json:"phone_number"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.Name(),
		Age:           c.Age,
		MonthlyIncome: money(c.MonthlySalary),
		ApprovedLimit: money(c.ApprovedLimit),
		PhoneNumber:   c.PhoneNumber,
	}
}

// money renders a monetary amount with fixed two-decimal precision.
func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
