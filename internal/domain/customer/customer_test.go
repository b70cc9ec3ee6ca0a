package customer_test

import (
	"testing"

	"credit-approval/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestApprovedLimitFor(t *testing.T) {
	tests := []struct {
		name          string
		monthlySalary float64
		want          float64
	}{
		{"salary below rounding threshold collapses to zero", 100000, 0},
		{"salary of 139000 rounds up to one lakh", 139000, 100000},
		{"salary of 200000 rounds to one lakh", 200000, 100000},
		{"salary of 500000 rounds to two lakh", 500000, 200000},
		{"zero salary", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, customer.ApprovedLimitFor(tt.monthlySalary))
		})
	}
}

func TestNewCustomer(t *testing.T) {
	cust := customer.NewCustomer("Aarav", "Sharma", 30, "9876543210", 200000)

	assert.Equal(t, int64(0), cust.CustomerID)
	assert.Equal(t, "Aarav Sharma", cust.Name())
	assert.Equal(t, 100000.0, cust.ApprovedLimit)
	assert.Equal(t, 0.0, cust.CurrentDebt)
	assert.False(t, cust.CreatedAt.IsZero())
}

func TestAddDebt(t *testing.T) {
	cust := customer.NewCustomer("Aarav", "Sharma", 30, "9876543210", 200000)
	cust.AddDebt(50000)
	cust.AddDebt(25000)

	assert.Equal(t, 75000.0, cust.CurrentDebt)
}
