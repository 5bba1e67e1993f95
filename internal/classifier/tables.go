package classifier

import "larder/internal/models"

// Classification tables. All immutable package-level data, loaded once;
// Classify never mutates them. Resolution order is keyword override,
// phrase dictionary, word dictionary, ambiguous set, unknown.

// keywordRule maps a modifier word or phrase to the category it forces.
// Keywords encode explicit user intent and beat every other table,
// including the ambiguous set: "frozen fish" is freezer, full stop.
type keywordRule struct {
	keyword  string
	category models.StorageCategory
}

var keywordRules = []keywordRule{
	{"frozen", models.CategoryFreezer},
	{"freeze", models.CategoryFreezer},
	{"fresh", models.CategoryFridge},
	{"raw", models.CategoryFridge},
	{"chilled", models.CategoryFridge},
	{"refrigerated", models.CategoryFridge},
	{"tinned", models.CategoryCupboard},
	{"canned", models.CategoryCupboard},
	{"tin", models.CategoryCupboard},
	{"can", models.CategoryCupboard},
	{"dried", models.CategoryPantryStaples},
	{"dry", models.CategoryPantryStaples},
	{"dehydrated", models.CategoryPantryStaples},
	{"long-life", models.CategoryCupboard},
	{"longlife", models.CategoryCupboard},
	{"long life", models.CategoryCupboard},
	{"uht", models.CategoryCupboard},
	{"shelf-stable", models.CategoryCupboard},
	{"shelf stable", models.CategoryCupboard},
}

// phraseEntry maps a known multi-word item, matched as a whole phrase
// inside the normalized name.
type phraseEntry struct {
	phrase   string
	category models.StorageCategory
}

// phraseDict is an ordered slice, not a map: scan order is part of the
// deterministic-classification contract, so earlier entries win.
var phraseDict = []phraseEntry{
	{"ice cream", models.CategoryFreezer},
	{"ice lollies", models.CategoryFreezer},
	{"fish fingers", models.CategoryFreezer},
	{"frozen yogurt", models.CategoryFreezer},
	{"fresh fish", models.CategoryFridge},
	{"fresh pasta", models.CategoryFridge},
	{"orange juice", models.CategoryFridge},
	{"cottage cheese", models.CategoryFridge},
	{"cream cheese", models.CategoryFridge},
	{"sour cream", models.CategoryFridge},
	{"baked beans", models.CategoryCupboard},
	{"tomato sauce", models.CategoryCupboard},
	{"peanut butter", models.CategoryCupboard},
	{"corn flakes", models.CategoryCupboard},
	{"hot chocolate", models.CategoryCupboard},
	{"stock cubes", models.CategoryCupboard},
	{"soy sauce", models.CategoryCupboard},
	{"olive oil", models.CategoryPantryStaples},
	{"vegetable oil", models.CategoryPantryStaples},
	{"plain flour", models.CategoryPantryStaples},
	{"self raising flour", models.CategoryPantryStaples},
	{"brown sugar", models.CategoryPantryStaples},
	{"caster sugar", models.CategoryPantryStaples},
	{"baking powder", models.CategoryPantryStaples},
}

// wordDict holds known single-word items with one unambiguous home.
var wordDict = map[string]models.StorageCategory{
	// fridge
	"milk":       models.CategoryFridge,
	"cheese":     models.CategoryFridge,
	"butter":     models.CategoryFridge,
	"yoghurt":    models.CategoryFridge,
	"yogurt":     models.CategoryFridge,
	"cream":      models.CategoryFridge,
	"eggs":       models.CategoryFridge,
	"egg":        models.CategoryFridge,
	"bacon":      models.CategoryFridge,
	"ham":        models.CategoryFridge,
	"lettuce":    models.CategoryFridge,
	"cucumber":   models.CategoryFridge,
	"spinach":    models.CategoryFridge,
	"celery":     models.CategoryFridge,
	"hummus":     models.CategoryFridge,
	"mayonnaise": models.CategoryFridge,

	// freezer
	"lollies": models.CategoryFreezer,

	// cupboard
	"cereal":    models.CategoryCupboard,
	"biscuits":  models.CategoryCupboard,
	"crisps":    models.CategoryCupboard,
	"crackers":  models.CategoryCupboard,
	"tea":       models.CategoryCupboard,
	"coffee":    models.CategoryCupboard,
	"honey":     models.CategoryCupboard,
	"jam":       models.CategoryCupboard,
	"marmite":   models.CategoryCupboard,
	"ketchup":   models.CategoryCupboard,
	"bananas":   models.CategoryCupboard,
	"banana":    models.CategoryCupboard,
	"apples":    models.CategoryCupboard,
	"apple":     models.CategoryCupboard,
	"oranges":   models.CategoryCupboard,
	"potatoes":  models.CategoryCupboard,
	"onions":    models.CategoryCupboard,
	"onion":     models.CategoryCupboard,
	"garlic":    models.CategoryCupboard,
	"chocolate": models.CategoryCupboard,

	// pantry staples
	"flour":     models.CategoryPantryStaples,
	"sugar":     models.CategoryPantryStaples,
	"rice":      models.CategoryPantryStaples,
	"pasta":     models.CategoryPantryStaples,
	"spaghetti": models.CategoryPantryStaples,
	"noodles":   models.CategoryPantryStaples,
	"oats":      models.CategoryPantryStaples,
	"salt":      models.CategoryPantryStaples,
	"pepper":    models.CategoryPantryStaples,
	"lentils":   models.CategoryPantryStaples,
	"couscous":  models.CategoryPantryStaples,
	"quinoa":    models.CategoryPantryStaples,
	"oil":       models.CategoryPantryStaples,
	"vinegar":   models.CategoryPantryStaples,
}

// ambiguousItems holds bare nouns with no single correct home absent a
// qualifier. Candidate order is the order offered in the clarifying
// question. Only consulted when no keyword fires.
var ambiguousItems = map[string][]models.StorageCategory{
	"fish":       {models.CategoryFridge, models.CategoryFreezer},
	"salmon":     {models.CategoryFridge, models.CategoryFreezer},
	"prawns":     {models.CategoryFridge, models.CategoryFreezer},
	"meat":       {models.CategoryFridge, models.CategoryFreezer},
	"chicken":    {models.CategoryFridge, models.CategoryFreezer},
	"beef":       {models.CategoryFridge, models.CategoryFreezer},
	"sausages":   {models.CategoryFridge, models.CategoryFreezer},
	"berries":    {models.CategoryFridge, models.CategoryFreezer},
	"pie":        {models.CategoryFridge, models.CategoryFreezer},
	"pastry":     {models.CategoryFridge, models.CategoryFreezer},
	"dough":      {models.CategoryFridge, models.CategoryFreezer},
	"pizza":      {models.CategoryFreezer, models.CategoryFridge},
	"peas":       {models.CategoryFreezer, models.CategoryCupboard},
	"corn":       {models.CategoryFreezer, models.CategoryCupboard},
	"sweetcorn":  {models.CategoryFreezer, models.CategoryCupboard},
	"chips":      {models.CategoryFreezer, models.CategoryCupboard},
	"bread":      {models.CategoryCupboard, models.CategoryFreezer},
	"vegetables": {models.CategoryFridge, models.CategoryFreezer, models.CategoryCupboard},
	"beans":      {models.CategoryCupboard, models.CategoryPantryStaples},
	"soup":       {models.CategoryCupboard, models.CategoryFridge},
	"tomatoes":   {models.CategoryFridge, models.CategoryCupboard},
	"mushrooms":  {models.CategoryFridge, models.CategoryCupboard},
	"herbs":      {models.CategoryFridge, models.CategoryPantryStaples},
	"tofu":       {models.CategoryFridge, models.CategoryCupboard},
}
