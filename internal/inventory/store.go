package inventory

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"larder/internal/models"
)

// Store persists pantry items. Row-level atomicity is the database's
// job; the store does no locking of its own.
type Store struct {
	db *gorm.DB
}

// NewStore creates a pantry item store backed by the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns the full inventory snapshot for a user.
func (s *Store) List(userID string) ([]models.PantryItem, error) {
	var items []models.PantryItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return items, nil
}

// Insert creates a pantry item and returns the stored row so callers
// can capture it in the action log.
func (s *Store) Insert(item *models.PantryItem) (*models.PantryItem, error) {
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to insert pantry item: %w", err)
	}
	return item, nil
}

// Get loads a single pantry item by id.
func (s *Store) Get(userID string, id uint) (*models.PantryItem, error) {
	var item models.PantryItem
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&item).Error
	if err != nil {
		return nil, fmt.Errorf("pantry item %d not found: %w", id, err)
	}
	return &item, nil
}

// Update saves the full item row and returns it.
func (s *Store) Update(item *models.PantryItem) (*models.PantryItem, error) {
	if err := s.db.Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update pantry item: %w", err)
	}
	return item, nil
}

// Delete removes a pantry item by id. Hard delete: undo restores rows
// from full log snapshots, so soft-deleted ghosts would only collide
// with restored primary keys.
func (s *Store) Delete(userID string, id uint) error {
	err := s.db.Unscoped().Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.PantryItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete pantry item: %w", err)
	}
	return nil
}

// Restore re-creates a previously deleted row, keeping its original id.
func (s *Store) Restore(item *models.PantryItem) error {
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to restore pantry item: %w", err)
	}
	return nil
}

// LowStock returns the items currently considered low per the derived
// rule on PantryItem.
func (s *Store) LowStock(userID string) ([]models.PantryItem, error) {
	items, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	low := items[:0:0]
	for _, it := range items {
		if it.IsLowStock() {
			low = append(low, it)
		}
	}
	return low, nil
}
