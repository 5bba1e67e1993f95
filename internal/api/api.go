// Package api exposes the assistant over HTTP: the turn endpoint, the
// standalone classifier, undo, and plain CRUD for pantry and shopping
// list rows. Speech-to-text and TTS live on the client; this layer
// only moves text and JSON.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"larder/internal/assistant"
	"larder/internal/classifier"
	"larder/internal/inventory"
	"larder/internal/models"
	"larder/internal/monitoring"
	"larder/internal/shopping"
)

// API is the HTTP layer over the assistant service and stores.
type API struct {
	Router    *gin.Engine
	assistant *assistant.Service
	pantry    *inventory.Store
	shopping  *shopping.Store
	auth      *Auth
	status    *monitoring.Status
}

// New builds the router with all routes registered.
func New(svc *assistant.Service, pantry *inventory.Store, shop *shopping.Store, authSecret string) *API {
	a := &API{
		Router:    gin.Default(),
		assistant: svc,
		pantry:    pantry,
		shopping:  shop,
		auth:      NewAuth(authSecret),
		status:    monitoring.NewStatus(),
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "counters": a.status.Snapshot()})
	})

	v1 := a.Router.Group("/api/v1")
	v1.Use(a.auth.Middleware())
	{
		// Conversational turns
		v1.POST("/turns", a.HandleTurn)
		v1.POST("/undo", a.HandleUndo)
		v1.GET("/classify", a.HandleClassify)

		// Pantry management
		v1.GET("/pantry", a.ListPantry)
		v1.POST("/pantry", a.CreatePantryItem)
		v1.PUT("/pantry/:id", a.UpdatePantryItem)
		v1.DELETE("/pantry/:id", a.DeletePantryItem)
		v1.GET("/pantry/low-stock", a.ListLowStock)
		v1.GET("/pantry/expiring", a.ListExpiring)

		// Shopping list
		v1.GET("/shopping", a.ListShopping)
		v1.POST("/shopping", a.CreateShoppingItem)
		v1.DELETE("/shopping/:id", a.DeleteShoppingItem)
	}

	// Live voice session
	a.Router.GET("/ws", a.auth.Middleware(), a.HandleSession)
}

// HandleTurn resolves one conversational turn.
func (a *API) HandleTurn(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.assistant.HandleUtterance(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		// Recoverable turn failure: no mutation happened and the
		// pending question, if any, is untouched.
		c.JSON(http.StatusBadGateway, gin.H{"error": "couldn't process that"})
		a.status.Bump("turn_failures")
		return
	}

	a.status.Bump("turns")
	c.JSON(http.StatusOK, result)
}

// HandleUndo reverses the most recent action group.
func (a *API) HandleUndo(c *gin.Context) {
	result, err := a.assistant.UndoLast(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.status.Bump("undos")
	c.JSON(http.StatusOK, gin.H{
		"success": result.Count > 0,
		"message": result.Message,
		"count":   result.Count,
	})
}

// HandleClassify exposes the pure classifier for bulk tooling.
func (a *API) HandleClassify(c *gin.Context) {
	item := c.Query("item")
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing item parameter"})
		return
	}
	res := classifier.Classify(item)
	c.JSON(http.StatusOK, gin.H{
		"category":            res.Category,
		"is_ambiguous":        res.Ambiguous,
		"possible_categories": res.Candidates,
		"reason":              res.Reason,
	})
}

// Pantry CRUD handlers

func (a *API) ListPantry(c *gin.Context) {
	items, err := a.pantry.List(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *API) CreatePantryItem(c *gin.Context) {
	var item models.PantryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !item.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid storage category"})
		return
	}
	item.UserID = userID(c)

	inv, err := a.pantry.List(item.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if found := inventory.Exists(item.Name, inv); found != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "item already in pantry", "item": found})
		return
	}

	// Through the service so the add is logged and undoable.
	row, err := a.assistant.CreatePantryItem(&item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (a *API) UpdatePantryItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	item, err := a.pantry.Get(userID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	previous := *item
	if err := c.ShouldBindJSON(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := a.assistant.UpdatePantryItem(&previous, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, row)
}

func (a *API) DeletePantryItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := a.assistant.DeletePantryItem(userID(c), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func (a *API) ListLowStock(c *gin.Context) {
	items, err := a.pantry.LowStock(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListExpiring returns items expiring within the given number of days
// (default 3).
func (a *API) ListExpiring(c *gin.Context) {
	days := 3
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	items, err := a.pantry.List(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	expiring := items[:0:0]
	window := time.Duration(days) * 24 * time.Hour
	for _, item := range items {
		if item.ExpiresWithin(window) {
			expiring = append(expiring, item)
		}
	}
	c.JSON(http.StatusOK, expiring)
}

// Shopping list handlers

func (a *API) ListShopping(c *gin.Context) {
	items, err := a.shopping.List(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *API) CreateShoppingItem(c *gin.Context) {
	var item models.ShoppingListItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.UserID = userID(c)
	row, err := a.assistant.CreateShoppingItem(&item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (a *API) DeleteShoppingItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := a.assistant.DeleteShoppingItem(userID(c), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}
