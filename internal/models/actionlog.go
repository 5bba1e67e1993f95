package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// ActionType identifies the kind of mutation an action log entry records.
type ActionType string

const (
	ActionAddItem        ActionType = "add_item"
	ActionDeleteItem     ActionType = "delete_item"
	ActionUpdateItem     ActionType = "update_item"
	ActionAddShopping    ActionType = "add_shopping"
	ActionDeleteShopping ActionType = "delete_shopping"
)

// EntityType identifies which table an action log entry points at.
type EntityType string

const (
	EntityPantryItem       EntityType = "pantry_item"
	EntityShoppingListItem EntityType = "shopping_list_item"
)

// ActionLogEntry is an append-only audit and undo record for a single
// mutation. PreviousData and NewData hold full JSON snapshots of the row
// before and after the mutation. Entries sharing a non-empty
// ActionGroupID were created by one utterance and undo atomically as a
// unit. UndoneAt nil means the entry is still reversible.
type ActionLogEntry struct {
	gorm.Model
	UserID        string `gorm:"index"`
	ActionType    ActionType
	EntityType    EntityType
	EntityID      uint
	ItemName      string
	PreviousData  string `gorm:"type:text"`
	NewData       string `gorm:"type:text"`
	ActionGroupID string `gorm:"index"`
	UndoneAt      *time.Time
}
