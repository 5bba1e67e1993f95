// Package assistant wires the turn resolver to the stores: it owns the
// conversation manager, applies resolved actions to the database, and
// records every mutation in the action log.
package assistant

import (
	"context"
	"fmt"
	"time"

	"larder/internal/actionlog"
	"larder/internal/classifier"
	"larder/internal/conversation"
	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/monitoring"
	"larder/internal/resolver"
	"larder/internal/shopping"
)

// Service is the application core behind the HTTP and websocket layers.
type Service struct {
	resolver      *resolver.Resolver
	conversations *conversation.Manager
	pantry        *inventory.Store
	shopping      *shopping.Store
	log           *actionlog.Log
	metrics       *monitoring.Metrics
}

// New assembles the assistant service.
func New(res *resolver.Resolver, convs *conversation.Manager, pantry *inventory.Store, shop *shopping.Store, log *actionlog.Log, metrics *monitoring.Metrics) *Service {
	return &Service{
		resolver:      res,
		conversations: convs,
		pantry:        pantry,
		shopping:      shop,
		log:           log,
		metrics:       metrics,
	}
}

// TurnResult is what the calling layer (HTTP handler, websocket
// session) renders back to the voice client.
type TurnResult struct {
	Action      string   `json:"action"`
	Speech      string   `json:"speech"`
	PendingItem string   `json:"pending_item,omitempty"`
	Items       []string `json:"items,omitempty"`
	UndoCount   int      `json:"undo_count,omitempty"`
}

// HandleUtterance resolves one conversational turn and applies the
// resulting action. Turns for one user run one at a time; turns for
// different users are independent.
func (s *Service) HandleUtterance(ctx context.Context, userID, text string) (*TurnResult, error) {
	conv := s.conversations.Get(userID)

	inv, err := s.pantry.List(userID)
	if err != nil {
		return nil, err
	}

	action, err := s.resolver.ResolveTurn(ctx, conv, text, inv)
	if err != nil {
		return nil, err
	}

	result, err := s.apply(userID, action, inv)
	if err != nil {
		return nil, err
	}
	s.metrics.Turn(result.Action)
	return result, nil
}

// apply commits a resolved action. Ask, None, and SuggestMeals carry no
// mutation; everything else writes rows and log entries.
func (s *Service) apply(userID string, action models.Action, inv []models.PantryItem) (*TurnResult, error) {
	result := &TurnResult{Action: models.Kind(action), Speech: action.Speech()}

	switch a := action.(type) {
	case models.AddItems:
		groupID := newGroupID(len(a.Items))
		for _, item := range a.Items {
			row, err := s.pantry.Insert(&models.PantryItem{
				UserID:            userID,
				Name:              item.Name,
				Category:          item.Category,
				Quantity:          item.Quantity,
				CurrentQuantity:   item.CurrentQuantity,
				LowStockThreshold: item.LowStockThreshold,
				LowStockFlag:      item.LowStockFlag,
				ExpiresAt:         item.ExpiresAt,
			})
			if err != nil {
				return nil, err
			}
			err = s.log.RecordMutation(userID, models.ActionAddItem,
				models.EntityPantryItem, row.ID, row.Name, nil, row, groupID)
			if err != nil {
				return nil, err
			}
			result.Items = append(result.Items, row.Name)
		}

	case models.UpdateItems:
		groupID := newGroupID(len(a.Items))
		for _, item := range a.Items {
			existing := inventory.Exists(item.Name, inv)
			if existing == nil {
				continue
			}
			previous := *existing
			applyUpdate(existing, item)
			row, err := s.pantry.Update(existing)
			if err != nil {
				return nil, err
			}
			err = s.log.RecordMutation(userID, models.ActionUpdateItem,
				models.EntityPantryItem, row.ID, row.Name, &previous, row, groupID)
			if err != nil {
				return nil, err
			}
			result.Items = append(result.Items, row.Name)
		}

	case models.AddToShoppingList:
		if err := s.addToShoppingList(userID, a.Items, result); err != nil {
			return nil, err
		}

	case models.GenerateShoppingList:
		items := a.Items
		if len(items) == 0 {
			derived, err := s.lowStockProposals(userID)
			if err != nil {
				return nil, err
			}
			items = derived
		}
		if err := s.addToShoppingList(userID, items, result); err != nil {
			return nil, err
		}

	case models.Undo:
		undo, err := s.log.UndoLast(userID)
		if err != nil {
			return nil, err
		}
		result.Speech = undo.Message
		result.Items = undo.ReversedNames
		result.UndoCount = undo.Count
		if undo.Count > 0 {
			s.metrics.UndoApplied()
		}

	case models.Ask:
		result.PendingItem = a.Item

	case models.None, models.SuggestMeals:
		// No mutation.
	}

	return result, nil
}

func (s *Service) addToShoppingList(userID string, items []models.ProposedItem, result *TurnResult) error {
	groupID := newGroupID(len(items))
	for _, item := range items {
		row, err := s.shopping.Insert(&models.ShoppingListItem{
			UserID:   userID,
			Name:     item.Name,
			Quantity: item.Quantity,
		})
		if err != nil {
			return err
		}
		err = s.log.RecordMutation(userID, models.ActionAddShopping,
			models.EntityShoppingListItem, row.ID, row.Name, nil, row, groupID)
		if err != nil {
			return err
		}
		result.Items = append(result.Items, row.Name)
	}
	return nil
}

// lowStockProposals turns the low-stock report into shopping proposals,
// skipping anything already on the list.
func (s *Service) lowStockProposals(userID string) ([]models.ProposedItem, error) {
	low, err := s.pantry.LowStock(userID)
	if err != nil {
		return nil, err
	}
	current, err := s.shopping.List(userID)
	if err != nil {
		return nil, err
	}
	onList := make(map[string]bool, len(current))
	for _, item := range current {
		onList[normName(item.Name)] = true
	}

	var out []models.ProposedItem
	for _, item := range low {
		if onList[normName(item.Name)] {
			continue
		}
		out = append(out, models.ProposedItem{Name: item.Name})
	}
	return out, nil
}

// CreatePantryItem inserts a row on behalf of the CRUD surface and logs
// it, so it is undoable like any voice add.
func (s *Service) CreatePantryItem(item *models.PantryItem) (*models.PantryItem, error) {
	row, err := s.pantry.Insert(item)
	if err != nil {
		return nil, err
	}
	err = s.log.RecordMutation(row.UserID, models.ActionAddItem,
		models.EntityPantryItem, row.ID, row.Name, nil, row, "")
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdatePantryItem saves an edited row and logs the previous snapshot.
func (s *Service) UpdatePantryItem(previous, updated *models.PantryItem) (*models.PantryItem, error) {
	row, err := s.pantry.Update(updated)
	if err != nil {
		return nil, err
	}
	err = s.log.RecordMutation(row.UserID, models.ActionUpdateItem,
		models.EntityPantryItem, row.ID, row.Name, previous, row, "")
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeletePantryItem removes a row, keeping its full snapshot in the log
// so undo can restore it.
func (s *Service) DeletePantryItem(userID string, id uint) error {
	item, err := s.pantry.Get(userID, id)
	if err != nil {
		return err
	}
	previous := *item
	if err := s.pantry.Delete(userID, id); err != nil {
		return err
	}
	return s.log.RecordMutation(userID, models.ActionDeleteItem,
		models.EntityPantryItem, id, item.Name, &previous, nil, "")
}

// CreateShoppingItem inserts a shopping list row and logs it.
func (s *Service) CreateShoppingItem(item *models.ShoppingListItem) (*models.ShoppingListItem, error) {
	row, err := s.shopping.Insert(item)
	if err != nil {
		return nil, err
	}
	err = s.log.RecordMutation(row.UserID, models.ActionAddShopping,
		models.EntityShoppingListItem, row.ID, row.Name, nil, row, "")
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteShoppingItem removes a shopping list row, snapshotting it for
// undo.
func (s *Service) DeleteShoppingItem(userID string, id uint) error {
	item, err := s.shopping.Get(userID, id)
	if err != nil {
		return err
	}
	previous := *item
	if err := s.shopping.Delete(userID, id); err != nil {
		return err
	}
	return s.log.RecordMutation(userID, models.ActionDeleteShopping,
		models.EntityShoppingListItem, id, item.Name, &previous, nil, "")
}

// UndoLast exposes the undo engine to callers that bypass the turn
// resolver (e.g. the POST /undo endpoint).
func (s *Service) UndoLast(userID string) (*actionlog.UndoResult, error) {
	undo, err := s.log.UndoLast(userID)
	if err != nil {
		return nil, err
	}
	if undo.Count > 0 {
		s.metrics.UndoApplied()
	}
	return undo, nil
}

// applyUpdate merges the proposed edits into an existing row. Only
// fields the proposal actually carries are touched.
func applyUpdate(existing *models.PantryItem, item models.ProposedItem) {
	if item.Quantity != "" {
		existing.Quantity = item.Quantity
	}
	if item.CurrentQuantity != nil {
		existing.CurrentQuantity = item.CurrentQuantity
	}
	if item.LowStockThreshold != nil {
		existing.LowStockThreshold = item.LowStockThreshold
	}
	if item.LowStockFlag {
		existing.LowStockFlag = true
	}
	if item.ExpiresAt != nil {
		existing.ExpiresAt = item.ExpiresAt
	}
	if item.Category.Valid() {
		existing.Category = item.Category
	}
}

// newGroupID mints a shared group id for multi-entry mutations so they
// undo together. Single entries stay ungrouped.
func newGroupID(n int) string {
	if n < 2 {
		return ""
	}
	return fmt.Sprintf("batch-%d", time.Now().UnixNano())
}

func normName(name string) string {
	return classifier.Normalize(name)
}
