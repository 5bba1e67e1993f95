package assistant

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"larder/internal/actionlog"
	"larder/internal/conversation"
	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/resolver"
	"larder/internal/shopping"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func setup(t *testing.T, mockLLM llms.LLM, ttl time.Duration) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = db.AutoMigrate(
		&models.PantryItem{},
		&models.ShoppingListItem{},
		&models.ActionLogEntry{},
	).Error
	require.NoError(t, err)

	pantry := inventory.NewStore(db)
	shop := shopping.NewStore(db)
	log := actionlog.New(db, pantry, shop)
	res := resolver.New(mockLLM, resolver.Options{}, nil)
	convs := conversation.NewManager(ttl)

	return New(res, convs, pantry, shop, log, nil), db
}

func TestBatchAddSharesOneActionGroup(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_item", "items": [{"name": "milk"}, {"name": "eggs"}, {"name": "butter"}], "speech": ""}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)

	result, err := svc.HandleUtterance(context.Background(), "user-1", "add milk, eggs, and butter")
	require.NoError(t, err)
	assert.Equal(t, "add_items", result.Action)
	assert.Len(t, result.Items, 3)

	var entries []models.ActionLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 3)
	group := entries[0].ActionGroupID
	assert.NotEmpty(t, group)
	for _, e := range entries {
		assert.Equal(t, group, e.ActionGroupID)
	}

	// One undo reverses the whole batch and names all three items.
	undo, err := svc.UndoLast("user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, undo.Count)
	assert.ElementsMatch(t, []string{"milk", "eggs", "butter"}, undo.ReversedNames)

	var items []models.PantryItem
	require.NoError(t, db.Find(&items).Error)
	assert.Empty(t, items)
}

func TestSingleAddIsUngrouped(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_item", "items": [{"name": "milk"}], "speech": ""}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)

	_, err := svc.HandleUtterance(context.Background(), "user-1", "add milk")
	require.NoError(t, err)

	var entries []models.ActionLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ActionGroupID)
}

func TestDuplicateAddNeverCreatesSecondRow(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_item", "items": [{"name": "MILK"}], "speech": ""}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)
	require.NoError(t, db.Create(&models.PantryItem{
		UserID: "user-1", Name: "Milk", Category: models.CategoryFridge,
	}).Error)

	result, err := svc.HandleUtterance(context.Background(), "user-1", "add MILK")
	require.NoError(t, err)
	assert.Equal(t, "none", result.Action)
	assert.Contains(t, result.Speech, "already have")

	var items []models.PantryItem
	require.NoError(t, db.Find(&items).Error)
	assert.Len(t, items, 1)
}

func TestAskThenAnswerCommitsPendingItem(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_item", "items": [{"name": "fish"}], "speech": ""}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)

	// Turn 1: ambiguous item, so the assistant asks.
	result, err := svc.HandleUtterance(context.Background(), "user-1", "add fish")
	require.NoError(t, err)
	assert.Equal(t, "ask", result.Action)
	assert.Equal(t, "fish", result.PendingItem)
	assert.Contains(t, result.Speech, "fridge or freezer")

	// Turn 2: the answer commits without another model call.
	result, err = svc.HandleUtterance(context.Background(), "user-1", "the freezer")
	require.NoError(t, err)
	assert.Equal(t, "add_items", result.Action)

	var items []models.PantryItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "fish", items[0].Name)
	assert.Equal(t, models.CategoryFreezer, items[0].Category)

	mockLLM.AssertNumberOfCalls(t, "Call", 1)
}

func TestPendingTimeoutMakesNextTurnFresh(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_item", "items": [{"name": "fish"}], "speech": ""}`, nil)

	svc, _ := setup(t, mockLLM, 20*time.Millisecond)

	result, err := svc.HandleUtterance(context.Background(), "user-1", "add fish")
	require.NoError(t, err)
	assert.Equal(t, "ask", result.Action)

	time.Sleep(60 * time.Millisecond)

	// The stale question is gone: this goes back to the model as a
	// fresh turn instead of being read as an answer.
	result, err = svc.HandleUtterance(context.Background(), "user-1", "add fish")
	require.NoError(t, err)
	assert.Equal(t, "ask", result.Action)
	mockLLM.AssertNumberOfCalls(t, "Call", 2)
}

func TestShoppingListAddAndUndo(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "add_shopping", "items": [{"name": "milk"}], "speech": "Added milk to your shopping list."}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)

	result, err := svc.HandleUtterance(context.Background(), "user-1", "add milk to the shopping list")
	require.NoError(t, err)
	assert.Equal(t, "add_to_shopping_list", result.Action)

	// Shopping adds never touch the pantry.
	var pantryItems []models.PantryItem
	require.NoError(t, db.Find(&pantryItems).Error)
	assert.Empty(t, pantryItems)

	var listItems []models.ShoppingListItem
	require.NoError(t, db.Find(&listItems).Error)
	require.Len(t, listItems, 1)

	undo, err := svc.UndoLast("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, undo.Count)

	require.NoError(t, db.Find(&listItems).Error)
	assert.Empty(t, listItems)
}

func TestUndoTurnGoesThroughResolver(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "undo", "items": [], "speech": ""}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)
	require.NoError(t, db.Create(&models.PantryItem{
		UserID: "user-1", Name: "Milk", Category: models.CategoryFridge,
	}).Error)

	// Nothing in the log yet: a normal outcome, not an error.
	result, err := svc.HandleUtterance(context.Background(), "user-1", "undo that")
	require.NoError(t, err)
	assert.Equal(t, "undo", result.Action)
	assert.Equal(t, 0, result.UndoCount)
	assert.Contains(t, result.Speech, "nothing to undo")
}

func TestDeleteThenUndoRestoresRow(t *testing.T) {
	svc, db := setup(t, new(MockLLM), time.Minute)

	row, err := svc.CreatePantryItem(&models.PantryItem{
		UserID: "user-1", Name: "Honey", Category: models.CategoryCupboard, Quantity: "1 jar",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePantryItem("user-1", row.ID))

	var items []models.PantryItem
	require.NoError(t, db.Find(&items).Error)
	assert.Empty(t, items)

	// First undo reverses the delete, restoring the row with its
	// original id and quantity.
	undo, err := svc.UndoLast("user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Honey"}, undo.ReversedNames)

	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, row.ID, items[0].ID)
	assert.Equal(t, "1 jar", items[0].Quantity)

	// Second undo reverses the original create.
	_, err = svc.UndoLast("user-1")
	require.NoError(t, err)
	require.NoError(t, db.Find(&items).Error)
	assert.Empty(t, items)
}

func TestGenerateShoppingListFromLowStock(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(
		`{"action": "generate_shopping", "items": [], "speech": "Here's your shopping list."}`, nil)

	svc, db := setup(t, mockLLM, time.Minute)
	two, five := 2.0, 5.0
	require.NoError(t, db.Create(&models.PantryItem{
		UserID: "user-1", Name: "Rice", Category: models.CategoryPantryStaples,
		CurrentQuantity: &two, LowStockThreshold: &five,
	}).Error)
	require.NoError(t, db.Create(&models.PantryItem{
		UserID: "user-1", Name: "Milk", Category: models.CategoryFridge,
	}).Error)

	result, err := svc.HandleUtterance(context.Background(), "user-1", "make me a shopping list")
	require.NoError(t, err)
	assert.Equal(t, "generate_shopping_list", result.Action)
	assert.Equal(t, []string{"Rice"}, result.Items)
}
