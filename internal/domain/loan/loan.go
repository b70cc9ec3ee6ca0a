package loan

import (
	"time"
)

type Money = float64

// Loan tenure is expressed in months; the repayment period spans
// 30 days per month of tenure from the start date.
const daysPerTenureMonth = 30

type Loan struct {
	ID               int64
	CustomerID       int64
	Amount           Money
	Tenure           int
	InterestRate     Money
	MonthlyRepayment Money
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewLoan(customerID int64, amount Money, tenure int, interestRate Money, monthlyRepayment Money, startDate time.Time) *Loan {
	if startDate.IsZero() {
		startDate = time.Now().Truncate(24 * time.Hour)
	}
	endDate := startDate.AddDate(0, 0, daysPerTenureMonth*tenure)

	return &Loan{
		CustomerID:       customerID,
		Amount:           amount,
		Tenure:           tenure,
		InterestRate:     interestRate,
		MonthlyRepayment: monthlyRepayment,
		EMIsPaidOnTime:   0,
		StartDate:        startDate,
		EndDate:          endDate,
		IsActive:         true,
	}
}

// RepaymentsLeft reports the number of outstanding installments. A loan
// past its end date has nothing left to repay regardless of its counter.
func (l *Loan) RepaymentsLeft() int {
	if !l.IsActive {
		return 0
	}
	left := l.Tenure - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

func (l *Loan) Expired(now time.Time) bool {
	return !l.EndDate.After(now)
}
