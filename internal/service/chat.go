package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// Fixed replies substituted in place of an assistant message. Terminal
// failures and timeouts are non-exceptional: the conversation continues.
const (
	replyRunFailed    = "The assistant run failed. Please try again."
	replyRunCancelled = "The assistant run was cancelled. Please try again."
	replyRunExpired   = "The assistant run expired. Please start a new conversation."
	replyTimeout      = "The assistant is taking too long to respond. Please try again."
	replyNoContent    = "No valid response."
)

// SendMessage appends a user utterance to the conversation thread, drives a
// run to completion and returns the assistant's reply.
func (s *Service) SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if s.cfg.AssistantID == "" || s.cfg.APIKey == "" {
		return nil, ErrMissingConfig
	}

	if err := s.beginRun(); err != nil {
		return nil, err
	}
	defer s.endRun()

	threadID, err := s.acquireThread(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}

	// The message must be durably appended before the run is created, or the
	// model would respond to stale history.
	if err := s.assistant.CreateMessage(ctx, threadID, "user", req.Message); err != nil {
		return nil, fmt.Errorf("failed to append message to thread: %w", err)
	}
	s.saveMessage(ctx, threadID, "user", req.Message)

	run, err := s.assistant.CreateRun(ctx, threadID, &assistant.RunRequest{
		AssistantID:            s.cfg.AssistantID,
		Tools:                  s.registry.Declarations(),
		AdditionalInstructions: s.buildInstructions(req),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	log.Printf("Run created: %s (thread %s)", run.ID, threadID)

	reply, err := s.driveRun(ctx, threadID, run)
	if err != nil {
		return nil, err
	}
	s.saveMessage(ctx, threadID, "assistant", reply)

	return &domain.ChatResponse{
		Reply:    reply,
		ThreadID: threadID,
		Status:   "success",
	}, nil
}

// driveRun polls the run until it settles, executing tool calls whenever it
// pauses for action. The poll budget bounds total wall-clock time; exceeding
// it is a timeout, not a failure.
func (s *Service) driveRun(ctx context.Context, threadID string, run *assistant.Run) (string, error) {
	status := run.Status

	for attempt := 0; status.IsActive() && attempt < s.cfg.MaxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}

		current, err := s.assistant.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return "", fmt.Errorf("failed to retrieve run status: %w", err)
		}
		status = current.Status
		log.Printf("Run %s status: %s (attempt %d)", run.ID, status, attempt+1)

		if status == domain.RunStatusRequiresAction {
			calls := pendingToolCalls(current)
			log.Printf("Processing %d function call(s)", len(calls))
			outputs := s.executeToolCalls(ctx, calls)

			// All outputs go up in one submission; if that fails the run is
			// done for — there is no retry of a failed submission.
			if err := s.assistant.SubmitToolOutputs(ctx, threadID, run.ID, outputs); err != nil {
				log.Printf("ERROR: failed to submit tool outputs: %v", err)
				status = domain.RunStatusFailed
				break
			}
		}

		if status.IsTerminal() {
			if current.LastError != nil {
				log.Printf("ERROR: run %s ended %s: %s", run.ID, status, current.LastError.Message)
			}
			break
		}
	}

	switch status {
	case domain.RunStatusCompleted:
		return s.fetchReply(ctx, threadID)
	case domain.RunStatusFailed:
		return replyRunFailed, nil
	case domain.RunStatusCancelled:
		return replyRunCancelled, nil
	case domain.RunStatusExpired:
		return replyRunExpired, nil
	default:
		// Retry budget exhausted while the run was still active.
		return replyTimeout, nil
	}
}

// fetchReply extracts and cleans the newest assistant message of the thread.
func (s *Service) fetchReply(ctx context.Context, threadID string) (string, error) {
	list, err := s.assistant.ListMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch messages: %w", err)
	}

	for _, msg := range list.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, block := range msg.Content {
			if block.Text != nil && block.Text.Value != "" {
				return CleanReply(block.Text.Value), nil
			}
		}
		break
	}
	return replyNoContent, nil
}

// HandlePendingTools drives the tool-execution side of an already-created
// run: it executes and submits pending tool calls, or reports that nothing
// was required.
func (s *Service) HandlePendingTools(ctx context.Context, threadID, runID string) (*domain.ToolHandlerResponse, error) {
	run, err := s.assistant.GetRun(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve run status: %w", err)
	}

	if run.Status != domain.RunStatusRequiresAction {
		return &domain.ToolHandlerResponse{Status: "no_action_needed"}, nil
	}

	outputs := s.executeToolCalls(ctx, pendingToolCalls(run))
	if err := s.assistant.SubmitToolOutputs(ctx, threadID, runID, outputs); err != nil {
		return nil, fmt.Errorf("failed to submit tool outputs: %w", err)
	}
	return &domain.ToolHandlerResponse{Status: "tools_executed", Result: outputs}, nil
}

// acquireThread resolves the thread for a send: an explicit request thread
// wins, then the held thread, then a freshly created one. Creation happens
// at most once per conversation lifetime unless the thread is cleared.
func (s *Service) acquireThread(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		s.holdThread(requested)
		return requested, nil
	}

	s.mu.Lock()
	loaded, held := s.threadLoaded, s.threadID
	s.mu.Unlock()

	if !loaded {
		stored, err := s.store.GetThreadID(ctx)
		if err != nil {
			log.Printf("WARN: failed to load stored thread id: %v", err)
		} else if stored != "" {
			held = stored
		}
		s.mu.Lock()
		s.threadLoaded = true
		s.threadID = held
		s.mu.Unlock()
	}
	if held != "" {
		return held, nil
	}

	thread, err := s.assistant.CreateThread(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	log.Printf("Thread created: %s", thread.ID)

	s.holdThread(thread.ID)
	if err := s.store.SaveThreadID(ctx, thread.ID); err != nil {
		log.Printf("ERROR: failed to persist thread id: %v", err)
	}
	return thread.ID, nil
}

func (s *Service) holdThread(threadID string) {
	s.mu.Lock()
	s.threadID = threadID
	s.threadLoaded = true
	s.mu.Unlock()
}

// saveMessage mirrors a transcript entry to the store. Storage failure is
// logged and does not block the conversation.
func (s *Service) saveMessage(ctx context.Context, threadID, role, content string) {
	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		log.Printf("ERROR: failed to save %s message: %v", role, err)
	}
}

// History returns the stored transcript in insertion order.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Message, error) {
	return s.store.GetMessages(ctx, limit)
}

// ClearConversation wipes the stored transcript and the held thread id. The
// next send creates a fresh thread. A remote run already in flight is not
// cancelled; its output is simply ignored.
func (s *Service) ClearConversation(ctx context.Context) error {
	if err := s.store.ClearConversation(ctx); err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	s.mu.Lock()
	s.threadID = ""
	s.threadLoaded = true
	s.mu.Unlock()
	return nil
}
