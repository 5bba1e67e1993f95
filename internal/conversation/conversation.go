// Package conversation holds per-session conversational state: the
// single pending-question slot awaiting a category answer.
//
// The slot is last-write-wins and auto-clears after a timeout. It is
// deliberately in-memory only: a pending question does not survive a
// process restart or a reconnect. That is a recorded product decision,
// not an oversight.
package conversation

import (
	"sync"
	"time"
)

// DefaultPendingTTL is how long an unanswered clarifying question stays
// live before the slot clears itself.
const DefaultPendingTTL = 120 * time.Second

// Conversation is the turn-to-turn memory for one client session. Not
// safe for concurrent turns from the same session; turns for one
// session are resolved one at a time by the caller.
type Conversation struct {
	mu      sync.Mutex
	userID  string
	ttl     time.Duration
	pending string
	askedAt time.Time
	gen     uint64
	timer   *time.Timer
}

// New creates a conversation for the given user with the given pending
// question TTL. A non-positive ttl falls back to DefaultPendingTTL.
func New(userID string, ttl time.Duration) *Conversation {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &Conversation{userID: userID, ttl: ttl}
}

// UserID returns the session's user identifier.
func (c *Conversation) UserID() string { return c.userID }

// SetPending arms the slot with an item awaiting clarification,
// replacing any prior pending item and restarting the timeout.
func (c *Conversation) SetPending(itemName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = itemName
	c.askedAt = time.Now()
	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
	}
	// The generation guard makes the race against an in-flight turn
	// safe: if the turn resolved or re-asked between timer fire and
	// apply, the generation moved on and the expiry is a no-op.
	c.timer = time.AfterFunc(c.ttl, func() {
		c.expire(gen)
	})
}

func (c *Conversation) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.pending = ""
	c.timer = nil
}

// Pending returns the item currently awaiting an answer. A slot whose
// TTL has lapsed reads as empty even if the timer has not fired yet.
func (c *Conversation) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == "" {
		return "", false
	}
	if time.Since(c.askedAt) > c.ttl {
		c.pending = ""
		c.gen++
		return "", false
	}
	return c.pending, true
}

// ClearPending empties the slot and disarms the timeout.
func (c *Conversation) ClearPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = ""
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Manager hands out one Conversation per user. Conversations for
// different users are fully independent.
type Manager struct {
	mu    sync.Mutex
	ttl   time.Duration
	convs map[string]*Conversation
}

// NewManager creates a manager whose conversations use the given
// pending-question TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{ttl: ttl, convs: make(map[string]*Conversation)}
}

// Get returns the conversation for a user, creating it on first use.
func (m *Manager) Get(userID string) *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.convs[userID]
	if !ok {
		conv = New(userID, m.ttl)
		m.convs[userID] = conv
	}
	return conv
}
