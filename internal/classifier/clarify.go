package classifier

import (
	"fmt"
	"strings"

	"larder/internal/models"
)

// FormatQuestion renders a clarifying question for an ambiguous item.
// Two candidates read "X or Y?"; three or more use an oxford-comma
// list ending ", or Z?". Pure, no side effects.
func FormatQuestion(itemName string, candidates []models.StorageCategory) string {
	return fmt.Sprintf("You said %s. Should that go in the %s?",
		itemName, formatChoices(candidates))
}

func formatChoices(candidates []models.StorageCategory) string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Display()
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
