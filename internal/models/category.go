package models

// StorageCategory is one of the four fixed pantry storage locations.
// Every committed pantry item carries exactly one of these; an empty
// value only ever appears on transient, not-yet-classified data.
type StorageCategory string

const (
	CategoryFridge        StorageCategory = "fridge"
	CategoryFreezer       StorageCategory = "freezer"
	CategoryCupboard      StorageCategory = "cupboard"
	CategoryPantryStaples StorageCategory = "pantry_staples"
)

// AllCategories lists every storage category in display order.
var AllCategories = []StorageCategory{
	CategoryFridge,
	CategoryFreezer,
	CategoryCupboard,
	CategoryPantryStaples,
}

// Valid reports whether c is one of the four known categories.
func (c StorageCategory) Valid() bool {
	switch c {
	case CategoryFridge, CategoryFreezer, CategoryCupboard, CategoryPantryStaples:
		return true
	}
	return false
}

// Display returns the category as spoken to the user. The only special
// case is pantry_staples, which reads as "pantry staples".
func (c StorageCategory) Display() string {
	if c == CategoryPantryStaples {
		return "pantry staples"
	}
	return string(c)
}
