// Package actionlog records every pantry and shopping-list mutation
// and can reverse the most recent group of them.
//
// Entries are append-only. Reversal restores the entire previous
// snapshot rather than a field-level diff, which keeps a reverted row
// internally consistent. Undo is idempotent: once everything is
// reversed, further calls report "nothing to undo" instead of failing.
package actionlog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"

	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/shopping"
)

// Log is the append-only mutation log and undo engine.
type Log struct {
	db       *gorm.DB
	pantry   *inventory.Store
	shopping *shopping.Store
}

// New creates the log over the given connection and stores.
func New(db *gorm.DB, pantry *inventory.Store, shop *shopping.Store) *Log {
	return &Log{db: db, pantry: pantry, shopping: shop}
}

// Record appends one mutation entry.
func (l *Log) Record(entry *models.ActionLogEntry) error {
	if err := l.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record action log entry: %w", err)
	}
	return nil
}

// RecordMutation builds and appends an entry from before/after row
// snapshots. Either snapshot may be nil (nil previous for adds, nil new
// for deletes).
func (l *Log) RecordMutation(userID string, action models.ActionType, entity models.EntityType, entityID uint, itemName string, previous, new interface{}, groupID string) error {
	entry := &models.ActionLogEntry{
		UserID:        userID,
		ActionType:    action,
		EntityType:    entity,
		EntityID:      entityID,
		ItemName:      itemName,
		ActionGroupID: groupID,
	}
	if previous != nil {
		data, err := json.Marshal(previous)
		if err != nil {
			return fmt.Errorf("failed to snapshot previous state: %w", err)
		}
		entry.PreviousData = string(data)
	}
	if new != nil {
		data, err := json.Marshal(new)
		if err != nil {
			return fmt.Errorf("failed to snapshot new state: %w", err)
		}
		entry.NewData = string(data)
	}
	return l.Record(entry)
}

// UndoResult summarizes one undo call.
type UndoResult struct {
	ReversedNames []string
	Count         int
	Message       string
}

// UndoLast reverses the newest non-undone entry for the user, expanded
// to its full action group when it has one. Re-invoking with nothing
// left to undo returns a "nothing to undo" result, never an error.
func (l *Log) UndoLast(userID string) (*UndoResult, error) {
	var newest models.ActionLogEntry
	err := l.db.Where("user_id = ? AND undone_at IS NULL", userID).
		Order("id desc").First(&newest).Error
	if gorm.IsRecordNotFoundError(err) {
		return &UndoResult{Message: "There's nothing to undo."}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load action log: %w", err)
	}

	group := []models.ActionLogEntry{newest}
	if newest.ActionGroupID != "" {
		group = group[:0]
		err = l.db.Where("user_id = ? AND action_group_id = ? AND undone_at IS NULL",
			userID, newest.ActionGroupID).Order("id desc").Find(&group).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load action group: %w", err)
		}
	}

	now := time.Now()
	result := &UndoResult{}
	for i := range group {
		name, err := l.reverse(&group[i])
		if err != nil {
			return nil, err
		}
		group[i].UndoneAt = &now
		if err := l.db.Save(&group[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to mark entry undone: %w", err)
		}
		result.ReversedNames = append(result.ReversedNames, name)
		result.Count++
	}

	result.Message = fmt.Sprintf("Undone: removed changes to %s.",
		joinNames(result.ReversedNames))
	return result, nil
}

// reverse undoes a single entry: adds are deleted, deletes and updates
// are restored from the full previous snapshot.
func (l *Log) reverse(entry *models.ActionLogEntry) (string, error) {
	switch entry.ActionType {
	case models.ActionAddItem:
		if err := l.pantry.Delete(entry.UserID, entry.EntityID); err != nil {
			return "", err
		}
		return entry.ItemName, nil

	case models.ActionDeleteItem, models.ActionUpdateItem:
		var item models.PantryItem
		if err := json.Unmarshal([]byte(entry.PreviousData), &item); err != nil {
			return "", fmt.Errorf("corrupt previous snapshot for entry %d: %w", entry.ID, err)
		}
		if entry.ActionType == models.ActionDeleteItem {
			if err := l.pantry.Restore(&item); err != nil {
				return "", err
			}
		} else {
			if _, err := l.pantry.Update(&item); err != nil {
				return "", err
			}
		}
		return item.Name, nil

	case models.ActionAddShopping:
		if err := l.shopping.Delete(entry.UserID, entry.EntityID); err != nil {
			return "", err
		}
		return entry.ItemName, nil

	case models.ActionDeleteShopping:
		var item models.ShoppingListItem
		if err := json.Unmarshal([]byte(entry.PreviousData), &item); err != nil {
			return "", fmt.Errorf("corrupt previous snapshot for entry %d: %w", entry.ID, err)
		}
		if err := l.shopping.Restore(&item); err != nil {
			return "", err
		}
		return item.Name, nil

	default:
		return "", fmt.Errorf("unknown action type %q in log entry %d", entry.ActionType, entry.ID)
	}
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
