// Package contextchannel receives page-context updates from the embedding
// host page and exposes the latest snapshot to the orchestrator.
package contextchannel

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// ErrOriginNotAllowed is returned when a message arrives from an origin
// outside the configured allow-list.
var ErrOriginNotAllowed = errors.New("origin not allowed")

// AdvisoryMessage is surfaced in place of a welcome message when the channel
// is embedded in a foreign frame and has accumulated an origin error.
const AdvisoryMessage = "It seems that I am unable to view the page right now. Please try later or contact DTA Support team."

// Channel holds the latest page-context snapshot pushed by the host page.
type Channel struct {
	mu             sync.RWMutex
	allowedOrigins []string
	current        *domain.PageContext
	embedded       bool
	originError    bool
}

// NewChannel creates a channel trusting the given origins.
func NewChannel(allowedOrigins []string) *Channel {
	return &Channel{
		allowedOrigins: allowedOrigins,
	}
}

// OriginAllowed reports whether an origin passes the allow-list, by exact or
// prefix match.
func (c *Channel) OriginAllowed(origin string) bool {
	for _, allowed := range c.allowedOrigins {
		if origin == allowed || strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// HandleUpdate applies one inbound envelope. A disallowed origin drops the
// message and records an origin error; an allowed origin clears any prior
// origin error and, for context updates, replaces the snapshot wholesale.
func (c *Channel) HandleUpdate(origin string, payload []byte) error {
	if !c.OriginAllowed(origin) {
		log.Printf("WARN: ignored context message from origin: %s", origin)
		c.mu.Lock()
		c.originError = true
		c.mu.Unlock()
		return ErrOriginNotAllowed
	}

	c.mu.Lock()
	c.originError = false
	c.mu.Unlock()

	var msg domain.ContextUpdateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errors.New("invalid context message")
	}
	if msg.Type != domain.ContextUpdateType || msg.Context == nil {
		return nil
	}

	c.mu.Lock()
	c.current = msg.Context
	c.mu.Unlock()

	log.Printf("Context updated: route=%s change=%s", msg.Context.Route, msg.Context.ChangeType)
	return nil
}

// SeedFromSource seeds a route-only snapshot from a source query parameter.
// Lower fidelity than a pushed snapshot: no modal, edit, tab or form detail.
func (c *Channel) SeedFromSource(route string) {
	if route == "" {
		return
	}
	c.mu.Lock()
	c.current = &domain.PageContext{
		Route:      route,
		Timestamp:  time.Now().UnixMilli(),
		ChangeType: "navigation",
	}
	c.mu.Unlock()
}

// SetEmbedded records whether the assistant is hosted inside a foreign frame.
func (c *Channel) SetEmbedded(embedded bool) {
	c.mu.Lock()
	c.embedded = embedded
	c.mu.Unlock()
}

// Current returns the held snapshot, or nil when none has been received.
func (c *Channel) Current() *domain.PageContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// HasContext reports whether a snapshot has been received.
func (c *Channel) HasContext() bool {
	return c.Current() != nil
}

// ErrorMessage returns the fixed advisory when the channel is embedded and
// has an accumulated origin error, and an empty string otherwise. The
// advisory takes priority over all other initial-message logic.
func (c *Channel) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.originError && c.embedded {
		return AdvisoryMessage
	}
	return ""
}
