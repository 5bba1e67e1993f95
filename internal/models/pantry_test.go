package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestIsLowStockNumericWinsOverFlag(t *testing.T) {
	// Both numeric fields present: the comparison is authoritative and
	// the flag is ignored, in both directions.
	item := PantryItem{CurrentQuantity: f(5), LowStockThreshold: f(2), LowStockFlag: true}
	assert.False(t, item.IsLowStock())

	item = PantryItem{CurrentQuantity: f(1), LowStockThreshold: f(2), LowStockFlag: false}
	assert.True(t, item.IsLowStock())

	// Equal counts as low.
	item = PantryItem{CurrentQuantity: f(2), LowStockThreshold: f(2)}
	assert.True(t, item.IsLowStock())
}

func TestIsLowStockFallsBackToFlag(t *testing.T) {
	assert.True(t, PantryItem{LowStockFlag: true}.IsLowStock())
	assert.False(t, PantryItem{}.IsLowStock())

	// One numeric field alone is not enough for the comparison.
	item := PantryItem{CurrentQuantity: f(0), LowStockFlag: false}
	assert.False(t, item.IsLowStock())
}

func TestExpiresWithin(t *testing.T) {
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(10 * 24 * time.Hour)

	assert.True(t, PantryItem{ExpiresAt: &soon}.ExpiresWithin(3*24*time.Hour))
	assert.False(t, PantryItem{ExpiresAt: &later}.ExpiresWithin(3*24*time.Hour))
	assert.False(t, PantryItem{}.ExpiresWithin(3*24*time.Hour))
}
