package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"larder/internal/models"
)

// callModel sends the utterance plus household context to the external
// model and returns its raw completion. This is the resolver's single
// suspension point.
func (r *Resolver) callModel(ctx context.Context, utterance, pendingItem string, inv []models.PantryItem) (string, error) {
	prompt := r.buildPrompt(utterance, pendingItem, inv)

	start := time.Now()
	r.metrics.ModelRequest()
	raw, err := r.model.Call(ctx, prompt)
	r.metrics.ModelLatency(time.Since(start))
	if err != nil {
		r.metrics.ModelFailure()
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return raw, nil
}

// buildPrompt assembles the system instructions: the structured output
// contract, the keyword rules as guidance text, the inventory snapshot,
// and the household context.
func (r *Resolver) buildPrompt(utterance, pendingItem string, inv []models.PantryItem) string {
	var b strings.Builder

	b.WriteString(`You are a voice pantry assistant. Decide what the user wants and respond with ONLY a JSON object, no other text:
{"action": "add_item|update_item|add_shopping|generate_shopping|suggest_meals|undo|none", "items": [{"name": "...", "category": "fridge|freezer|cupboard|pantry_staples", "quantity": "..."}], "speech": "one short spoken sentence"}

Rules for categories:
- frozen/freeze means freezer; fresh/raw/chilled/refrigerated means fridge
- tinned/canned means cupboard; dried/dry/dehydrated means pantry staples
- long-life/UHT/shelf-stable means cupboard
- "add X to the shopping list" is add_shopping, never add_item
- "what can I make", "suggest a meal" is suggest_meals
- "undo that" is undo
`)

	if len(inv) > 0 {
		b.WriteString("\nCurrent pantry:\n")
		for _, item := range inv {
			fmt.Fprintf(&b, "- %s (%s)", item.Name, item.Category.Display())
			if item.Quantity != "" {
				fmt.Fprintf(&b, ", %s", item.Quantity)
			}
			if item.IsLowStock() {
				b.WriteString(", running low")
			}
			b.WriteString("\n")
		}
	}

	if r.opts.HouseholdSize > 0 {
		fmt.Fprintf(&b, "\nHousehold size: %d\n", r.opts.HouseholdSize)
	}
	if len(r.opts.DietaryConstraints) > 0 {
		fmt.Fprintf(&b, "Dietary constraints: %s\n", strings.Join(r.opts.DietaryConstraints, ", "))
	}
	if len(r.opts.RecipeTags) > 0 {
		fmt.Fprintf(&b, "Preferred recipe tags: %s\n", strings.Join(r.opts.RecipeTags, ", "))
	}
	if pendingItem != "" {
		fmt.Fprintf(&b, "\nThe user was just asked where to store %q.\n", pendingItem)
	}

	fmt.Fprintf(&b, "\nUser said: %s\n", utterance)
	return b.String()
}
