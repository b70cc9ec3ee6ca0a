package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomerRow(t *testing.T) {
	t.Run("well-formed row", func(t *testing.T) {
		row, err := parseCustomerRow([]string{"1", "Aarav", "Sharma", "9876543210", "50000", "1800000", "0", "30"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), row.CustomerID)
		assert.Equal(t, "Aarav", row.FirstName)
		assert.Equal(t, 50000.0, row.MonthlySalary)
		assert.Equal(t, 30, row.Age)
	})

	t.Run("float-notation IDs are accepted", func(t *testing.T) {
		row, err := parseCustomerRow([]string{"1.0", "Aarav", "Sharma", "9876543210", "50000", "1800000", "0", "30.0"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), row.CustomerID)
		assert.Equal(t, 30, row.Age)
	})

	t.Run("too few columns", func(t *testing.T) {
		_, err := parseCustomerRow([]string{"1", "Aarav", "Sharma"})
		assert.Error(t, err)
	})

	t.Run("non-numeric salary", func(t *testing.T) {
		_, err := parseCustomerRow([]string{"1", "Aarav", "Sharma", "9876543210", "fifty", "1800000", "0", "30"})
		assert.ErrorContains(t, err, "monthly_salary")
	})
}

func TestParseLoanRow(t *testing.T) {
	t.Run("well-formed row", func(t *testing.T) {
		row, err := parseLoanRow([]string{"1", "10", "100000", "12", "12", "8884.88", "3", "2024-01-01", "2024-12-26"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), row.LoanID)
		assert.Equal(t, 12, row.Tenure)
		assert.Equal(t, 8884.88, row.MonthlyRepayment)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), row.StartDate)
	})

	t.Run("unparseable date", func(t *testing.T) {
		_, err := parseLoanRow([]string{"1", "10", "100000", "12", "12", "8884.88", "3", "soon", "2024-12-26"})
		assert.ErrorContains(t, err, "start_date")
	})
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-02":          time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		"2024-01-02 00:00:00": time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		"1/2/2024":            time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDate("")
	assert.Error(t, err)
}
