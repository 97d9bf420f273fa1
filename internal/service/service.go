// Package service implements the conversation orchestration core: it owns
// the thread, drives runs through their lifecycle, and executes tool calls.
package service

import (
	"errors"
	"sync"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/config"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/contextchannel"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/store"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/tools"
	"github.com/abhirupbanerjee/gea-ai-assistant/policy"
)

// ErrRunInFlight is returned when a send arrives while a run is active.
var ErrRunInFlight = errors.New("a run is already in progress")

// ErrMissingConfig is returned before any remote call when the assistant
// identity or credential is not configured.
var ErrMissingConfig = errors.New("missing assistant configuration")

// ErrEmptyMessage is returned when a send carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// Service orchestrates one conversation thread.
type Service struct {
	store        store.Store
	assistant    *assistant.Client
	registry     *tools.Registry
	channel      *contextchannel.Channel
	policyEngine *policy.Engine
	cfg          *config.Config

	mu           sync.Mutex
	runActive    bool
	threadID     string
	threadLoaded bool
}

// New creates the orchestrator service.
func New(st store.Store, client *assistant.Client, registry *tools.Registry, channel *contextchannel.Channel, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        st,
		assistant:    client,
		registry:     registry,
		channel:      channel,
		policyEngine: policyEngine,
		cfg:          cfg,
	}
}

// beginRun acquires the single-flight guard. Only one run may be in flight
// for the live thread at a time.
func (s *Service) beginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runActive {
		return ErrRunInFlight
	}
	s.runActive = true
	return nil
}

func (s *Service) endRun() {
	s.mu.Lock()
	s.runActive = false
	s.mu.Unlock()
}
