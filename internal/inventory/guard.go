// Package inventory provides the pantry item store and the duplicate
// guard that protects every insert.
package inventory

import (
	"strings"

	"larder/internal/models"
)

// Exists performs a case-insensitive exact-name match against the
// supplied inventory snapshot. Read-only; callers use the result to
// short-circuit inserts. A miss is a normal result, not an error.
func Exists(name string, items []models.PantryItem) *models.PantryItem {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range items {
		if strings.ToLower(strings.TrimSpace(items[i].Name)) == want {
			return &items[i]
		}
	}
	return nil
}
