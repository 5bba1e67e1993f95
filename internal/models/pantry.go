package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// PantryItem represents a single item in a user's pantry inventory.
// Category is never empty after commit; the classifier or the user's
// clarification answer supplies it before the row is created.
type PantryItem struct {
	gorm.Model
	UserID            string `gorm:"index"`
	Name              string
	Category          StorageCategory
	Quantity          string     // free-text, e.g. "2 pints"
	CurrentQuantity   *float64   // numeric stock level, optional
	LowStockThreshold *float64   // numeric reorder point, optional
	LowStockFlag      bool       // explicit flag, used when numerics are absent
	ExpiresAt         *time.Time `gorm:"index"`
}

// IsLowStock derives the low-stock state. The numeric comparison wins
// when both numeric fields are present; the explicit flag is only
// consulted when either numeric field is missing.
func (p PantryItem) IsLowStock() bool {
	if p.CurrentQuantity != nil && p.LowStockThreshold != nil {
		return *p.CurrentQuantity <= *p.LowStockThreshold
	}
	return p.LowStockFlag
}

// ExpiresWithin reports whether the item has an expiry date falling
// inside the given window from now.
func (p PantryItem) ExpiresWithin(window time.Duration) bool {
	if p.ExpiresAt == nil {
		return false
	}
	return p.ExpiresAt.Before(time.Now().Add(window))
}

// ShoppingListItem represents an entry on a user's shopping list.
// Shopping-list additions are a disjoint action family from pantry
// additions and never pass through the classifier.
type ShoppingListItem struct {
	gorm.Model
	UserID   string `gorm:"index"`
	Name     string
	Quantity string
	Done     bool
}
