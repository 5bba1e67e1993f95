package api

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"larder/internal/actionlog"
	"larder/internal/assistant"
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

func setupAPI(t *testing.T, modelResponse string) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = db.AutoMigrate(
		&models.PantryItem{},
		&models.ShoppingListItem{},
		&models.ActionLogEntry{},
	).Error
	require.NoError(t, err)

	mockLLM := new(MockLLM)
	mockLLM.On("Call", mock.Anything, mock.Anything).Return(modelResponse, nil)

	pantry := inventory.NewStore(db)
	shop := shopping.NewStore(db)
	logStore := actionlog.New(db, pantry, shop)
	res := resolver.New(mockLLM, resolver.Options{}, nil)
	convs := conversation.NewManager(time.Minute)
	svc := assistant.New(res, convs, pantry, shop, logStore, nil)

	// Empty secret: dev mode, every request runs as "default".
	return New(svc, pantry, shop, "")
}

func dialSession(t *testing.T, a *API) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSessionTurnRoundTrip(t *testing.T) {
	a := setupAPI(t, `{"action": "add_item", "items": [{"name": "milk"}], "speech": ""}`)
	conn := dialSession(t, a)

	require.NoError(t, conn.WriteJSON(sessionRequest{Text: "add milk"}))

	var result assistant.TurnResult
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, "add_items", result.Action)
	assert.Equal(t, []string{"milk"}, result.Items)
}

func TestSessionMalformedPayloadGetsErrorNotClose(t *testing.T) {
	a := setupAPI(t, "")
	conn := dialSession(t, a)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var errMsg sessionError
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Contains(t, errMsg.Error, "text")
}

func TestSessionKeepaliveSendsPings(t *testing.T) {
	old := pingPeriod
	pingPeriod = 20 * time.Millisecond
	defer func() { pingPeriod = old }()

	a := setupAPI(t, "")
	conn := dialSession(t, a)

	// An idle session must still see server pings; without them the
	// read deadline would eventually kill a quiet connection.
	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	// ReadMessage is what processes incoming control frames.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	go conn.ReadMessage()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping received from the server keepalive")
	}
}
