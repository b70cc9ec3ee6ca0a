package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CustomerRow is one line of the customer spreadsheet, already typed.
type CustomerRow struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	PhoneNumber   string
	MonthlySalary float64
	ApprovedLimit float64
	CurrentDebt   float64
	Age           int
}

// LoanRow is one line of the loan spreadsheet, already typed.
type LoanRow struct {
	CustomerID       int64
	LoanID           int64
	Amount           float64
	Tenure           int
	InterestRate     float64
	MonthlyRepayment float64
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
}

// Reader loads typed rows from spreadsheet files. Malformed rows are
// dropped and counted rather than failing the file.
type Reader interface {
	CustomerRows(filePath string) ([]CustomerRow, int, error)
	LoanRows(filePath string) ([]LoanRow, int, error)
}

type XLSXReader struct{}

var _ Reader = (*XLSXReader)(nil)

func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

func (r *XLSXReader) CustomerRows(filePath string) ([]CustomerRow, int, error) {
	rows, err := sheetRows(filePath)
	if err != nil {
		return nil, 0, err
	}

	customers := make([]CustomerRow, 0, len(rows))
	malformed := 0
	for _, cells := range rows {
		row, err := parseCustomerRow(cells)
		if err != nil {
			malformed++
			continue
		}
		customers = append(customers, row)
	}
	return customers, malformed, nil
}

func (r *XLSXReader) LoanRows(filePath string) ([]LoanRow, int, error) {
	rows, err := sheetRows(filePath)
	if err != nil {
		return nil, 0, err
	}

	loans := make([]LoanRow, 0, len(rows))
	malformed := 0
	for _, cells := range rows {
		row, err := parseLoanRow(cells)
		if err != nil {
			malformed++
			continue
		}
		loans = append(loans, row)
	}
	return loans, malformed, nil
}

// sheetRows returns the data rows of the first sheet, header excluded.
func sheetRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// Column order follows the source files: customer_id, first_name,
// last_name, phone_number, monthly_salary, approved_limit, current_debt,
// age.
func parseCustomerRow(cells []string) (CustomerRow, error) {
	if len(cells) < 8 {
		return CustomerRow{}, fmt.Errorf("expected 8 columns, got %d", len(cells))
	}

	customerID, err := parseInt(cells[0])
	if err != nil {
		return CustomerRow{}, fmt.Errorf("customer_id: %w", err)
	}
	salary, err := parseFloat(cells[4])
	if err != nil {
		return CustomerRow{}, fmt.Errorf("monthly_salary: %w", err)
	}
	limit, err := parseFloat(cells[5])
	if err != nil {
		return CustomerRow{}, fmt.Errorf("approved_limit: %w", err)
	}
	debt, err := parseFloat(cells[6])
	if err != nil {
		return CustomerRow{}, fmt.Errorf("current_debt: %w", err)
	}
	age, err := parseInt(cells[7])
	if err != nil {
		return CustomerRow{}, fmt.Errorf("age: %w", err)
	}

	return CustomerRow{
		CustomerID:    customerID,
		FirstName:     strings.TrimSpace(cells[1]),
		LastName:      strings.TrimSpace(cells[2]),
		PhoneNumber:   strings.TrimSpace(cells[3]),
		MonthlySalary: salary,
		ApprovedLimit: limit,
		CurrentDebt:   debt,
		Age:           int(age),
	}, nil
}

// Column order follows the source files: customer_id, loan_id,
// loan_amount, tenure, interest_rate, monthly_repayment,
// emis_paid_on_time, start_date, end_date.
func parseLoanRow(cells []string) (LoanRow, error) {
	if len(cells) < 9 {
		return LoanRow{}, fmt.Errorf("expected 9 columns, got %d", len(cells))
	}

	customerID, err := parseInt(cells[0])
	if err != nil {
		return LoanRow{}, fmt.Errorf("customer_id: %w", err)
	}
	loanID, err := parseInt(cells[1])
	if err != nil {
		return LoanRow{}, fmt.Errorf("loan_id: %w", err)
	}
	amount, err := parseFloat(cells[2])
	if err != nil {
		return LoanRow{}, fmt.Errorf("loan_amount: %w", err)
	}
	tenure, err := parseInt(cells[3])
	if err != nil {
		return LoanRow{}, fmt.Errorf("tenure: %w", err)
	}
	rate, err := parseFloat(cells[4])
	if err != nil {
		return LoanRow{}, fmt.Errorf("interest_rate: %w", err)
	}
	repayment, err := parseFloat(cells[5])
	if err != nil {
		return LoanRow{}, fmt.Errorf("monthly_repayment: %w", err)
	}
	emisPaid, err := parseInt(cells[6])
	if err != nil {
		return LoanRow{}, fmt.Errorf("emis_paid_on_time: %w", err)
	}
	startDate, err := parseDate(cells[7])
	if err != nil {
		return LoanRow{}, fmt.Errorf("start_date: %w", err)
	}
	endDate, err := parseDate(cells[8])
	if err != nil {
		return LoanRow{}, fmt.Errorf("end_date: %w", err)
	}

	return LoanRow{
		CustomerID:       customerID,
		LoanID:           loanID,
		Amount:           amount,
		Tenure:           int(tenure),
		InterestRate:     rate,
		MonthlyRepayment: repayment,
		EMIsPaidOnTime:   int(emisPaid),
		StartDate:        startDate,
		EndDate:          endDate,
	}, nil
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Numeric cells sometimes come back in float notation.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01-02-06",
	"02-01-2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty cell")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
