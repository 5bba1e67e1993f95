package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"larder/internal/models"
)

func TestExistsCaseInsensitive(t *testing.T) {
	inv := []models.PantryItem{
		{Name: "Milk", Category: models.CategoryFridge},
		{Name: "Baked Beans", Category: models.CategoryCupboard},
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact match", "Milk", "Milk"},
		{"lowercase", "milk", "Milk"},
		{"uppercase", "MILK", "Milk"},
		{"surrounding whitespace", "  milk ", "Milk"},
		{"multi-word", "baked beans", "Baked Beans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := Exists(tt.query, inv)
			assert.NotNil(t, found)
			assert.Equal(t, tt.want, found.Name)
		})
	}
}

func TestExistsMissIsNil(t *testing.T) {
	inv := []models.PantryItem{{Name: "Milk"}}

	assert.Nil(t, Exists("butter", inv))
	// Substrings are not matches; only the exact name counts.
	assert.Nil(t, Exists("mil", inv))
	assert.Nil(t, Exists("oat milk", inv))
	assert.Nil(t, Exists("milk", nil))
}
