package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"larder/internal/models"
)

// Proposal action tags, after normalization.
const (
	proposalAddItem          = "add_item"
	proposalUpdateItem       = "update_item"
	proposalAddShopping      = "add_shopping"
	proposalGenerateShopping = "generate_shopping"
	proposalSuggestMeals     = "suggest_meals"
	proposalUndo             = "undo"
	proposalNone             = "none"
)

// Proposal is the model's structured action proposal after repair.
type Proposal struct {
	Action string
	Items  []ProposedEntry
	Speech string
}

// ProposedEntry is one item inside a model proposal.
type ProposedEntry struct {
	Name              string                 `json:"name"`
	Category          models.StorageCategory `json:"category"`
	Quantity          string                 `json:"quantity"`
	LowStock          bool                   `json:"low_stock"`
	CurrentQuantity   *float64               `json:"current_quantity"`
	LowStockThreshold *float64               `json:"low_stock_threshold"`
	ExpiresInDays     *int                   `json:"expires_in_days"`
}

// rawProposal tolerates shape drift in the model output: items may be
// an array, a single object, or a bare string.
type rawProposal struct {
	Action string          `json:"action"`
	Items  json.RawMessage `json:"items"`
	Item   json.RawMessage `json:"item"`
	Speech string          `json:"speech"`
}

// NormalizeResponse repairs whatever the model returned into a
// Proposal. The repair steps are part of the contract: code fences are
// stripped, a flat single item is wrapped into a list, category
// synonyms are folded onto the closed enum, and a missing action tag is
// guessed from the raw utterance. Only a completely unusable payload
// (no JSON object at all) is an error.
func NormalizeResponse(raw, utterance string) (*Proposal, error) {
	blob, ok := extractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("no structured payload in model response")
	}

	var rp rawProposal
	if err := json.Unmarshal([]byte(blob), &rp); err != nil {
		return nil, fmt.Errorf("malformed model payload: %w", err)
	}

	prop := &Proposal{
		Action: normalizeAction(rp.Action, utterance),
		Speech: rp.Speech,
	}

	items := rp.Items
	if len(items) == 0 {
		items = rp.Item
	}
	prop.Items = normalizeItems(items)

	for i := range prop.Items {
		prop.Items[i].Category = normalizeCategory(string(prop.Items[i].Category))
		prop.Items[i].Name = strings.TrimSpace(prop.Items[i].Name)
	}
	return prop, nil
}

// normalizeItems accepts a list, a single object, or a bare string.
func normalizeItems(raw json.RawMessage) []ProposedEntry {
	if len(raw) == 0 {
		return nil
	}
	var list []ProposedEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single ProposedEntry
	if err := json.Unmarshal(raw, &single); err == nil && single.Name != "" {
		return []ProposedEntry{single}
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil && strings.TrimSpace(name) != "" {
		return []ProposedEntry{{Name: strings.TrimSpace(name)}}
	}
	// A list of bare strings.
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		entries := make([]ProposedEntry, 0, len(names))
		for _, n := range names {
			if strings.TrimSpace(n) != "" {
				entries = append(entries, ProposedEntry{Name: strings.TrimSpace(n)})
			}
		}
		return entries
	}
	return nil
}

// normalizeAction folds the model's action tag onto the known set; when
// the tag is missing or unrecognized it guesses from the utterance.
func normalizeAction(action, utterance string) string {
	switch strings.TrimSpace(strings.ToLower(action)) {
	case proposalAddItem, "add", "add_items":
		return proposalAddItem
	case proposalUpdateItem, "update", "update_items", "mark_low":
		return proposalUpdateItem
	case proposalAddShopping, "add_to_shopping_list", "shopping_add":
		return proposalAddShopping
	case proposalGenerateShopping, "generate_shopping_list", "shopping_list":
		return proposalGenerateShopping
	case proposalSuggestMeals, "suggest", "meal_suggestion":
		return proposalSuggestMeals
	case proposalUndo:
		return proposalUndo
	case proposalNone, "noop", "no_action":
		return proposalNone
	}
	return inferAction(utterance)
}

// inferAction guesses an action tag from the raw utterance when the
// model omitted one. Shopping-list phrasing is a literal parse branch:
// "add X to the shopping list" must never collapse into a pantry add.
func inferAction(utterance string) string {
	text := strings.ToLower(utterance)
	switch {
	case strings.Contains(text, "undo"):
		return proposalUndo
	case strings.Contains(text, "shopping list") || strings.Contains(text, "shopping"):
		if strings.Contains(text, "add") || strings.Contains(text, "put") {
			return proposalAddShopping
		}
		return proposalGenerateShopping
	case strings.Contains(text, "suggest") || strings.Contains(text, "meal") ||
		strings.Contains(text, "dinner") || strings.Contains(text, "recipe") ||
		strings.Contains(text, "what can i make"):
		return proposalSuggestMeals
	case strings.Contains(text, "running low") || strings.Contains(text, "low on") ||
		strings.Contains(text, "expire") || strings.Contains(text, "update"):
		return proposalUpdateItem
	case strings.Contains(text, "add") || strings.Contains(text, "bought") ||
		strings.Contains(text, "got some") || strings.Contains(text, "picked up"):
		return proposalAddItem
	default:
		return proposalNone
	}
}

// normalizeCategory folds category synonyms onto the closed enum; an
// unrecognized value becomes empty, which later forces a clarifying
// question unless the classifier resolves the item.
func normalizeCategory(cat string) models.StorageCategory {
	switch strings.TrimSpace(strings.ToLower(strings.ReplaceAll(cat, " ", "_"))) {
	case "fridge", "refrigerator":
		return models.CategoryFridge
	case "freezer":
		return models.CategoryFreezer
	case "cupboard", "larder", "shelf":
		return models.CategoryCupboard
	case "pantry_staples", "pantry", "staples":
		return models.CategoryPantryStaples
	default:
		return ""
	}
}

// extractJSON pulls the first balanced JSON object out of a completion,
// tolerating markdown code fences and surrounding prose.
func extractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
