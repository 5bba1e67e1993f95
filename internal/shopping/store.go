// Package shopping persists shopping-list items. Shopping-list
// operations are a separate action family from pantry mutations and
// never involve the classifier.
package shopping

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"larder/internal/models"
)

// Store persists shopping list items.
type Store struct {
	db *gorm.DB
}

// NewStore creates a shopping list store backed by the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns the user's shopping list.
func (s *Store) List(userID string) ([]models.ShoppingListItem, error) {
	var items []models.ShoppingListItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	return items, nil
}

// Insert creates a shopping list item and returns the stored row.
func (s *Store) Insert(item *models.ShoppingListItem) (*models.ShoppingListItem, error) {
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to insert shopping item: %w", err)
	}
	return item, nil
}

// Get loads a single shopping list item by id.
func (s *Store) Get(userID string, id uint) (*models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&item).Error
	if err != nil {
		return nil, fmt.Errorf("shopping item %d not found: %w", id, err)
	}
	return &item, nil
}

// Delete removes a shopping list item by id. Hard delete, same reason
// as the pantry store: restores reuse the original primary key.
func (s *Store) Delete(userID string, id uint) error {
	err := s.db.Unscoped().Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.ShoppingListItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}

// Restore re-creates a previously deleted row, keeping its original id.
func (s *Store) Restore(item *models.ShoppingListItem) error {
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to restore shopping item: %w", err)
	}
	return nil
}
