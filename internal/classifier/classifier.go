// Package classifier maps grocery item names onto storage categories.
//
// Classification is pure and deterministic. Resolution order:
//  1. keyword override (frozen, fresh, tinned, dried, ...)
//  2. known multi-word phrase dictionary
//  3. known single-word dictionary (full name, then per token)
//  4. ambiguous base-item set (full name, then per token)
//  5. unknown
//
// The order is a contract, not an optimization: an explicit modifier
// always beats the bare noun's ambiguity, so "frozen fish" classifies
// as freezer and never triggers a clarifying question.
package classifier

import (
	"strings"

	"larder/internal/models"
)

// Reason records which table resolved (or failed to resolve) an item.
type Reason string

const (
	ReasonDictionary Reason = "dictionary"
	ReasonKeyword    Reason = "keyword"
	ReasonAmbiguous  Reason = "ambiguous"
	ReasonUnknown    Reason = "unknown"
)

// Result is the transient outcome of classifying one item name.
// Ambiguous implies Category is empty and Candidates has at least two
// entries. ReasonUnknown implies empty Category and Ambiguous false:
// the item is unrecognized and no choice is offered.
type Result struct {
	Category   models.StorageCategory
	Ambiguous  bool
	Candidates []models.StorageCategory
	Reason     Reason
}

// Normalize lowercases, trims, and collapses internal whitespace.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Classify resolves an item name to a storage category, flags it as
// ambiguous with candidates, or reports it unknown. Case and
// whitespace insensitive. Never returns an error: absence of a match
// is a normal result.
func Classify(itemName string) Result {
	name := Normalize(itemName)
	if name == "" {
		return Result{Reason: ReasonUnknown}
	}
	tokens := strings.Fields(name)

	// 1. Keyword override. Fires even when the base noun is ambiguous.
	for _, rule := range keywordRules {
		if matchesKeyword(name, tokens, rule.keyword) {
			return Result{Category: rule.category, Reason: ReasonKeyword}
		}
	}

	// 2. Multi-word phrase dictionary, matched as a bounded phrase in
	// slice order.
	for _, entry := range phraseDict {
		if containsPhrase(name, entry.phrase) {
			return Result{Category: entry.category, Reason: ReasonDictionary}
		}
	}

	// 3. Single-word dictionary: the whole name first, then each token
	// so "2 eggs" still matches "eggs".
	if cat, ok := wordDict[name]; ok {
		return Result{Category: cat, Reason: ReasonDictionary}
	}
	for _, tok := range tokens {
		if cat, ok := wordDict[tok]; ok {
			return Result{Category: cat, Reason: ReasonDictionary}
		}
	}

	// 4. Ambiguous base items: whole name, then tokens.
	if cands, ok := ambiguousItems[name]; ok {
		return ambiguousResult(cands)
	}
	for _, tok := range tokens {
		if cands, ok := ambiguousItems[tok]; ok {
			return ambiguousResult(cands)
		}
	}

	// 5. Nothing matched anywhere.
	return Result{Reason: ReasonUnknown}
}

func ambiguousResult(cands []models.StorageCategory) Result {
	out := make([]models.StorageCategory, len(cands))
	copy(out, cands)
	return Result{Ambiguous: true, Candidates: out, Reason: ReasonAmbiguous}
}

// matchesKeyword matches multi-word keywords as exact phrases and
// single-word keywords as whole tokens.
func matchesKeyword(name string, tokens []string, keyword string) bool {
	if strings.ContainsAny(keyword, " -") {
		return containsPhrase(name, keyword)
	}
	for _, tok := range tokens {
		if tok == keyword {
			return true
		}
	}
	return false
}

// containsPhrase reports whether phrase appears in name bounded by
// whitespace or the string edges.
func containsPhrase(name, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(name[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		leftOK := start == 0 || name[start-1] == ' '
		rightOK := end == len(name) || name[end] == ' '
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

// CategoryFromAnswer extracts a storage category from a free-text
// clarification answer, e.g. "put it in the freezer". The
// pantry-staples category also matches on the bare tokens "pantry" and
// "staples". Returns false when no category token is present.
func CategoryFromAnswer(answer string) (models.StorageCategory, bool) {
	text := Normalize(answer)
	tokens := strings.Fields(text)
	for _, tok := range tokens {
		switch tok {
		case "fridge", "refrigerator":
			return models.CategoryFridge, true
		case "freezer":
			return models.CategoryFreezer, true
		case "cupboard":
			return models.CategoryCupboard, true
		case "pantry", "staples":
			return models.CategoryPantryStaples, true
		}
	}
	if containsPhrase(text, "pantry staples") {
		return models.CategoryPantryStaples, true
	}
	return "", false
}
