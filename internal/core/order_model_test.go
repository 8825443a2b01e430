package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingAfter(t *testing.T) {
	tests := []struct {
		name      string
		sumOfItem int64
		totalPaid int64
		want      int64
	}{
		{"nothing paid", 1_000_000, 0, 1_000_000},
		{"partially paid", 1_000_000, 400_000, 600_000},
		{"exactly paid", 1_000_000, 1_000_000, 0},
		{"overpaid clamps to zero", 1_000_000, 1_500_000, 0},
		{"zero price", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingAfter(tt.sumOfItem, tt.totalPaid))
		})
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   OrderStatus
		remaining int64
		want      OrderStatus
	}{
		{"open stays open with balance", StatusOpen, 100, StatusOpen},
		{"open closes at zero", StatusOpen, 0, StatusClosed},
		{"closed stays closed", StatusClosed, 0, StatusClosed},
		{"returned survives zero balance", StatusReturned, 0, StatusReturned},
		{"returned stays returned with balance", StatusReturned, 500, StatusReturned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatus(tt.current, tt.remaining))
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusClosed.Valid())
	assert.True(t, StatusReturned.Valid())
	assert.False(t, OrderStatus("Open").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestConsumptionOwnerValid(t *testing.T) {
	for _, owner := range ConsumptionOwners {
		assert.True(t, owner.Valid(), "owner %s", owner)
	}
	assert.False(t, ConsumptionOwner("Boshqa").Valid())
	assert.False(t, ConsumptionOwner("").Valid())
}

func TestOrderUpdateEmpty(t *testing.T) {
	assert.True(t, OrderUpdate{}.Empty())

	count := 3
	assert.False(t, OrderUpdate{ItemCount: &count}.Empty())

	status := StatusReturned
	assert.False(t, OrderUpdate{Status: &status}.Empty())
}
