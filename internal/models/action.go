package models

import "time"

// Action is the outcome of resolving one conversational turn. It is a
// closed set of variants; handlers type-switch over it and the marker
// method keeps foreign types out of the set.
type Action interface {
	isAction()
	// Speech returns the line to speak back to the user.
	Speech() string
}

// ProposedItem is an item carried inside an Action payload, after
// classification and duplicate checking but before persistence.
type ProposedItem struct {
	Name              string
	Category          StorageCategory
	Quantity          string
	CurrentQuantity   *float64
	LowStockThreshold *float64
	LowStockFlag      bool
	ExpiresAt         *time.Time
}

// AddItems commits one or more new pantry items. Multi-item adds from a
// single utterance share one action group so they undo together.
type AddItems struct {
	Items   []ProposedItem
	Line    string
	Skipped []string // duplicates skipped with an "already have it" note
}

// UpdateItems applies edits (quantity, threshold, expiry, low-stock
// flag) to existing pantry items.
type UpdateItems struct {
	Items []ProposedItem
	Line  string
}

// Ask poses a single clarifying question and leaves the named item
// pending. At most one Ask is outstanding per conversation.
type Ask struct {
	Item     string
	Question string
}

// None is a terminal no-mutation outcome with an explanatory line:
// duplicate found, cancellation, or nothing actionable.
type None struct {
	Line string
}

// SuggestMeals carries the model's meal-suggestion text. The content is
// opaque to the core; only the routing is ours.
type SuggestMeals struct {
	Line string
}

// AddToShoppingList appends items to the shopping list. Disjoint from
// pantry adds: these never pass through the classifier.
type AddToShoppingList struct {
	Items []ProposedItem
	Line  string
}

// GenerateShoppingList builds a shopping list from low-stock items.
type GenerateShoppingList struct {
	Items []ProposedItem
	Line  string
}

// Undo reverses the most recent non-undone action group.
type Undo struct{}

func (AddItems) isAction()             {}
func (UpdateItems) isAction()          {}
func (Ask) isAction()                  {}
func (None) isAction()                 {}
func (SuggestMeals) isAction()         {}
func (AddToShoppingList) isAction()    {}
func (GenerateShoppingList) isAction() {}
func (Undo) isAction()                 {}

func (a AddItems) Speech() string             { return a.Line }
func (a UpdateItems) Speech() string          { return a.Line }
func (a Ask) Speech() string                  { return a.Question }
func (a None) Speech() string                 { return a.Line }
func (a SuggestMeals) Speech() string         { return a.Line }
func (a AddToShoppingList) Speech() string    { return a.Line }
func (a GenerateShoppingList) Speech() string { return a.Line }
func (Undo) Speech() string                   { return "" }

// Kind returns a stable tag for metrics and API payloads.
func Kind(a Action) string {
	switch a.(type) {
	case AddItems:
		return "add_items"
	case UpdateItems:
		return "update_items"
	case Ask:
		return "ask"
	case None:
		return "none"
	case SuggestMeals:
		return "suggest_meals"
	case AddToShoppingList:
		return "add_to_shopping_list"
	case GenerateShoppingList:
		return "generate_shopping_list"
	case Undo:
		return "undo"
	default:
		return "unknown"
	}
}
