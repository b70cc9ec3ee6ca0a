package customer

import (
	"fmt"
	"math"
	"time"
)

const approvedLimitRounding = 100_000.0

type Customer struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary float64
	ApprovedLimit float64
	CurrentDebt   float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewCustomer(firstName, lastName string, age int, phoneNumber string, monthlySalary float64) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlySalary,
		ApprovedLimit: ApprovedLimitFor(monthlySalary),
		CurrentDebt:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApprovedLimitFor derives the pre-approved credit limit from monthly salary,
// rounded to the nearest 100,000. Salaries below ~139,000 round down to a
// limit of zero; callers that find this surprising should check the tests
// pinning the behaviour before changing the formula.
func ApprovedLimitFor(monthlySalary float64) float64 {
	return math.Round(monthlySalary*0.36/approvedLimitRounding) * approvedLimitRounding
}

func (c *Customer) Name() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

func (c *Customer) AddDebt(amount float64) {
	c.CurrentDebt += amount
	c.UpdatedAt = time.Now()
}
