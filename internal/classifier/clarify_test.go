package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"larder/internal/models"
)

func TestFormatQuestionTwoCandidates(t *testing.T) {
	q := FormatQuestion("fish", []models.StorageCategory{
		models.CategoryFridge, models.CategoryFreezer,
	})
	assert.Equal(t, "You said fish. Should that go in the fridge or freezer?", q)
}

func TestFormatQuestionDisplaysPantryStaples(t *testing.T) {
	q := FormatQuestion("beans", []models.StorageCategory{
		models.CategoryCupboard, models.CategoryPantryStaples,
	})
	assert.Equal(t, "You said beans. Should that go in the cupboard or pantry staples?", q)
}

func TestFormatQuestionOxfordComma(t *testing.T) {
	q := FormatQuestion("vegetables", []models.StorageCategory{
		models.CategoryFridge, models.CategoryFreezer, models.CategoryCupboard,
	})
	assert.Equal(t, "You said vegetables. Should that go in the fridge, freezer, or cupboard?", q)
}

func TestFormatQuestionRoundTrip(t *testing.T) {
	// The question produced for an ambiguous item must offer exactly
	// the classifier's candidates.
	res := Classify("fish")
	q := FormatQuestion("fish", res.Candidates)
	assert.Contains(t, q, "fridge or freezer")
}
