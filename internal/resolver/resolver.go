// Package resolver implements the conversational turn resolver: the
// state machine that turns an utterance (or a follow-up answer) plus
// the current inventory snapshot into a single Action.
//
// Local rules run first. The external language model is consulted only
// when no pending question and no shortcut applies, and its output is
// treated as untrusted: the classifier has override authority on
// categories, and the duplicate guard runs before any insert.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"larder/internal/classifier"
	"larder/internal/conversation"
	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/monitoring"
)

// Options carries the household context embedded into model prompts.
type Options struct {
	HouseholdSize      int
	DietaryConstraints []string
	RecipeTags         []string
}

// Resolver decides the action for each conversational turn.
type Resolver struct {
	model   llms.LLM
	opts    Options
	metrics *monitoring.Metrics
}

// New creates a resolver around the external model collaborator.
// metrics may be nil.
func New(model llms.LLM, opts Options, metrics *monitoring.Metrics) *Resolver {
	return &Resolver{model: model, opts: opts, metrics: metrics}
}

// Cancellation is matched as a direct string rule ahead of any model
// delegation; it is a local, zero-latency path.
var cancelWords = []string{"skip", "cancel", "stop"}

var cancelPhrases = []string{"never mind", "nevermind", "forget it", "forget that"}

// ResolveTurn resolves one turn for the given conversation. The only
// suspension point is the model call; no mutation is decided before the
// model responds, and on model failure the pending slot is left exactly
// as it was so the user can retry.
func (r *Resolver) ResolveTurn(ctx context.Context, conv *conversation.Conversation, utterance string, inv []models.PantryItem) (models.Action, error) {
	text := classifier.Normalize(utterance)

	if isCancellation(text) {
		conv.ClearPending()
		return models.None{Line: "Okay, never mind."}, nil
	}

	if pending, ok := conv.Pending(); ok {
		return r.resolvePendingAnswer(ctx, conv, pending, text, inv)
	}

	return r.delegate(ctx, conv, utterance, "", inv)
}

// resolvePendingAnswer handles a turn while a clarifying question is
// outstanding.
func (r *Resolver) resolvePendingAnswer(ctx context.Context, conv *conversation.Conversation, pending, answer string, inv []models.PantryItem) (models.Action, error) {
	// Rule 1: a direct category answer always wins, even over the
	// classifier. Commit immediately.
	if cat, ok := classifier.CategoryFromAnswer(answer); ok {
		conv.ClearPending()
		return models.AddItems{
			Items: []models.ProposedItem{{Name: pending, Category: cat}},
			Line:  fmt.Sprintf("Added %s to the %s.", pending, cat.Display()),
		}, nil
	}

	// Rule 2: a non-category reply. Duplicates first; finding one is a
	// normal no-op outcome, not an error.
	if found := inventory.Exists(pending, inv); found != nil {
		conv.ClearPending()
		return models.None{
			Line: fmt.Sprintf("You already have %s in your pantry.", found.Name),
		}, nil
	}

	res := classifier.Classify(pending)
	switch {
	case res.Category != "":
		conv.ClearPending()
		return models.AddItems{
			Items: []models.ProposedItem{{Name: pending, Category: res.Category}},
			Line:  fmt.Sprintf("Added %s to the %s.", pending, res.Category.Display()),
		}, nil

	case res.Ambiguous:
		// Re-ask, anchored to the same item. Rule 1 breaks the loop as
		// soon as the user names a category.
		conv.SetPending(pending)
		return models.Ask{
			Item:     pending,
			Question: classifier.FormatQuestion(pending, res.Candidates),
		}, nil

	default:
		// Unknown to every table: treat as a fresh utterance naming
		// this item and let the model have a go. The slot is cleared
		// only once the model turn succeeds; a failed call leaves the
		// question intact so the user can retry it.
		action, err := r.delegate(ctx, conv, pending, pending, inv)
		if err != nil {
			return nil, err
		}
		if _, ok := action.(models.Ask); !ok {
			conv.ClearPending()
		}
		return action, nil
	}
}

// delegate consults the external model for full intent and entity
// extraction, then repairs and re-checks everything it proposes.
func (r *Resolver) delegate(ctx context.Context, conv *conversation.Conversation, utterance, pendingItem string, inv []models.PantryItem) (models.Action, error) {
	raw, err := r.callModel(ctx, utterance, pendingItem, inv)
	if err != nil {
		return nil, fmt.Errorf("couldn't process that: %w", err)
	}

	prop, err := NormalizeResponse(raw, utterance)
	if err != nil {
		r.metrics.ModelFailure()
		return nil, fmt.Errorf("couldn't process that: %w", err)
	}

	switch prop.Action {
	case proposalAddItem:
		return r.commitAdds(conv, prop, inv)
	case proposalUpdateItem:
		return models.UpdateItems{
			Items: toProposed(prop.Items),
			Line:  speechOr(prop.Speech, "Updated your pantry."),
		}, nil
	case proposalAddShopping:
		return models.AddToShoppingList{
			Items: toProposed(prop.Items),
			Line:  speechOr(prop.Speech, fmt.Sprintf("Added %s to your shopping list.", namesLine(prop.Items))),
		}, nil
	case proposalGenerateShopping:
		return models.GenerateShoppingList{
			Items: toProposed(prop.Items),
			Line:  speechOr(prop.Speech, "Here's your shopping list."),
		}, nil
	case proposalSuggestMeals:
		return models.SuggestMeals{
			Line: speechOr(prop.Speech, "I couldn't think of anything this time."),
		}, nil
	case proposalUndo:
		return models.Undo{}, nil
	default:
		return models.None{Line: speechOr(prop.Speech, "Sorry, I didn't catch that.")}, nil
	}
}

// commitAdds runs every proposed add through the duplicate guard and
// the classifier. The classifier is the category authority; the model's
// category only survives when the classifier draws a blank. The first
// ambiguous item downgrades the whole turn to a single Ask — one
// clarifying question at a time, and no partial batch commits.
func (r *Resolver) commitAdds(conv *conversation.Conversation, prop *Proposal, inv []models.PantryItem) (models.Action, error) {
	var items []models.ProposedItem
	var skipped []string

	for _, entry := range prop.Items {
		if entry.Name == "" {
			continue
		}
		if found := inventory.Exists(entry.Name, inv); found != nil {
			skipped = append(skipped, found.Name)
			continue
		}

		res := classifier.Classify(entry.Name)
		cat := entry.Category
		switch {
		case res.Category != "":
			cat = res.Category
		case res.Ambiguous, !cat.Valid():
			candidates := res.Candidates
			if len(candidates) == 0 {
				candidates = models.AllCategories
			}
			conv.SetPending(entry.Name)
			return models.Ask{
				Item:     entry.Name,
				Question: classifier.FormatQuestion(entry.Name, candidates),
			}, nil
		}

		items = append(items, models.ProposedItem{
			Name:              entry.Name,
			Category:          cat,
			Quantity:          entry.Quantity,
			CurrentQuantity:   entry.CurrentQuantity,
			LowStockThreshold: entry.LowStockThreshold,
			LowStockFlag:      entry.LowStock,
			ExpiresAt:         expiryFromDays(entry.ExpiresInDays),
		})
	}

	if len(items) == 0 {
		if len(skipped) > 0 {
			return models.None{
				Line: fmt.Sprintf("You already have %s in your pantry.", joinNames(skipped)),
			}, nil
		}
		return models.None{Line: "I couldn't find anything to add."}, nil
	}

	line := addLine(items)
	if len(skipped) > 0 {
		line += fmt.Sprintf(" You already had %s.", joinNames(skipped))
	}
	return models.AddItems{Items: items, Line: line, Skipped: skipped}, nil
}

func addLine(items []models.ProposedItem) string {
	if len(items) == 1 {
		return fmt.Sprintf("Added %s to the %s.", items[0].Name, items[0].Category.Display())
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return fmt.Sprintf("Added %s to your pantry.", joinNames(names))
}

func isCancellation(text string) bool {
	for _, word := range cancelWords {
		if text == word {
			return true
		}
	}
	for _, phrase := range cancelPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func toProposed(entries []ProposedEntry) []models.ProposedItem {
	out := make([]models.ProposedItem, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		out = append(out, models.ProposedItem{
			Name:              e.Name,
			Category:          e.Category,
			Quantity:          e.Quantity,
			CurrentQuantity:   e.CurrentQuantity,
			LowStockThreshold: e.LowStockThreshold,
			LowStockFlag:      e.LowStock,
			ExpiresAt:         expiryFromDays(e.ExpiresInDays),
		})
	}
	return out
}

func expiryFromDays(days *int) *time.Time {
	if days == nil {
		return nil
	}
	t := time.Now().AddDate(0, 0, *days)
	return &t
}

func namesLine(entries []ProposedEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return joinNames(names)
}

func speechOr(speech, fallback string) string {
	if strings.TrimSpace(speech) != "" {
		return speech
	}
	return fallback
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
