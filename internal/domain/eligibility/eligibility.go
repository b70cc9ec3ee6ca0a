package eligibility

import (
	"math"
	"time"
)

const (
	maxScore = 100.0
	minScore = 0.0

	weightOnTimeEMIs      = 10.0
	weightLoanCount       = 5.0
	weightCurrentYearLoan = 15.0
	loanVolumeDivisor     = 10_000.0

	// Active EMIs above this fraction of monthly salary reject the
	// proposal outright, whatever the credit score says.
	emiSalaryCap = 0.5

	midTierMinRate = 12.0
	lowTierMinRate = 16.0
)

// Borrower carries the slice of customer state the evaluator needs.
type Borrower struct {
	MonthlySalary float64
	ApprovedLimit float64
}

// LoanSummary is the evaluator's view of one historical loan.
type LoanSummary struct {
	Amount           float64
	MonthlyRepayment float64
	EMIsPaidOnTime   int
	StartDate        time.Time
	IsActive         bool
}

type Proposal struct {
	Amount       float64
	InterestRate float64
	Tenure       int
}

type Decision struct {
	Approved              bool
	CreditScore           float64
	InterestRate          float64
	CorrectedInterestRate float64
	MonthlyInstallment    float64
}

// CreditScore rates a borrower's loan history on a 0-100 scale.
// An active principal sum beyond the approved limit overrides everything
// to zero; an empty history scores maximal trust.
func CreditScore(b Borrower, loans []LoanSummary, now time.Time) float64 {
	var activePrincipal float64
	for _, l := range loans {
		if l.IsActive {
			activePrincipal += l.Amount
		}
	}
	if activePrincipal > b.ApprovedLimit {
		return minScore
	}

	if len(loans) == 0 {
		return maxScore
	}

	var onTimeEMIs, currentYearLoans int
	var totalVolume float64
	for _, l := range loans {
		onTimeEMIs += l.EMIsPaidOnTime
		if l.StartDate.Year() == now.Year() {
			currentYearLoans++
		}
		totalVolume += l.Amount
	}

	score := weightOnTimeEMIs*float64(onTimeEMIs) +
		weightLoanCount*float64(len(loans)) +
		weightCurrentYearLoan*float64(currentYearLoans) +
		totalVolume/loanVolumeDivisor

	return math.Max(minScore, math.Min(maxScore, score))
}

// Evaluate runs the full approval decision for a proposed loan. It is pure:
// persistence of an approved loan is the caller's concern.
func Evaluate(b Borrower, loans []LoanSummary, proposal Proposal, now time.Time) Decision {
	decision := Decision{
		CreditScore:           CreditScore(b, loans, now),
		InterestRate:          proposal.InterestRate,
		CorrectedInterestRate: proposal.InterestRate,
	}

	var activeEMIs float64
	for _, l := range loans {
		if l.IsActive {
			activeEMIs += l.MonthlyRepayment
		}
	}
	if activeEMIs > b.MonthlySalary*emiSalaryCap {
		return decision
	}

	switch {
	case decision.CreditScore > 50:
		decision.Approved = true
	case decision.CreditScore > 30:
		if proposal.InterestRate >= midTierMinRate {
			decision.Approved = true
		} else {
			decision.CorrectedInterestRate = midTierMinRate
		}
	case decision.CreditScore > 10:
		if proposal.InterestRate >= lowTierMinRate {
			decision.Approved = true
		} else {
			decision.CorrectedInterestRate = lowTierMinRate
		}
	}

	if decision.Approved {
		decision.MonthlyInstallment = MonthlyInstallment(proposal.Amount, decision.CorrectedInterestRate, proposal.Tenure)
	}

	return decision
}

// MonthlyInstallment computes the EMI for a principal amortized over
// tenureMonths at the given annual percentage rate, rounded to 2 decimal
// places. A zero rate degenerates to straight-line repayment.
func MonthlyInstallment(principal float64, annualRate float64, tenureMonths int) float64 {
	if tenureMonths <= 0 {
		return 0
	}

	monthlyRate := annualRate / 12 / 100
	if monthlyRate == 0 {
		return roundTo(principal/float64(tenureMonths), 2)
	}

	compound := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := principal * monthlyRate * compound / (compound - 1)
	return roundTo(emi, 2)
}

func roundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}
