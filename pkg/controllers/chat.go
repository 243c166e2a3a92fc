package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vishnuprakaz/sales-assist/pkg/agent"
	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"
)

// Messages shown to the user. Raw error text only goes to the log.
const (
	SendFailedText    = "Sorry, I encountered an error processing your request."
	StreamFailedText  = "Sorry, an error occurred while processing your request."
	ConnectFailedText = "Failed to connect to the server. Please refresh the page."
)

// DefaultSelectionClearDelay is how long the selection stays visible after
// a successful send.
const DefaultSelectionClearDelay = 500 * time.Millisecond

var (
	ErrBusy         = errors.New("a response is still streaming")
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// AgentClient is the part of agent.Client the controller needs.
type AgentClient interface {
	CreateSession(ctx context.Context) (string, error)
	Send(ctx context.Context, req agent.SendRequest) (io.ReadCloser, error)
}

type Options struct {
	Render              render.Options
	SelectionClearDelay time.Duration
	// OnSelectionCleared runs on the timer goroutine after the selection
	// and attachments were cleared.
	OnSelectionCleared func()
}

// ChatController runs one conversation: it owns the thread, the product
// selection and the pending attachments, and drives one turn at a time.
type ChatController struct {
	client      AgentClient
	opts        Options
	thread      *chat.Thread
	selection   *chat.Selection
	attachments *chat.Attachments

	mu         sync.Mutex
	busy       bool
	clearTimer *time.Timer
}

func NewChatController(client AgentClient, attachments *chat.Attachments, opts Options) *ChatController {
	if opts.SelectionClearDelay <= 0 {
		opts.SelectionClearDelay = DefaultSelectionClearDelay
	}
	if attachments == nil {
		attachments = chat.NewAttachments(chat.DefaultMaxFileSize)
	}
	return &ChatController{
		client:      client,
		opts:        opts,
		thread:      chat.NewThread(),
		selection:   chat.NewSelection(),
		attachments: attachments,
	}
}

// Start opens the agent session. On failure the connect notice is added to
// the thread and the error returned.
func (cc *ChatController) Start(ctx context.Context) error {
	if _, err := cc.client.CreateSession(ctx); err != nil {
		logger.Error("Session creation failed: %v", err)
		cc.thread.Append(chat.NewErrorMessage(ConnectFailedText))
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// Submit sends text with the current selection and attachments and renders
// the reply on surface. It blocks until the reply is finalized and returns
// the last message added to the thread.
//
// When ctx is cancelled mid-stream the text received so far is still
// finalized and kept.
func (cc *ChatController) Submit(ctx context.Context, text string, surface render.Surface) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && cc.attachments.Len() == 0 {
		return chat.Message{}, ErrEmptyMessage
	}

	cc.mu.Lock()
	if cc.busy {
		cc.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	cc.busy = true
	cc.mu.Unlock()
	defer func() {
		cc.mu.Lock()
		cc.busy = false
		cc.mu.Unlock()
	}()

	selected := cc.selection.Products()
	files := cc.attachments.Files()
	cc.thread.Append(chat.NewUserMessage(text, selected, files))

	logger.Info("Submitting message: %d chars, %d products, %d files", len(text), len(selected), len(files))

	turn := render.NewTurn(surface, cc.opts.Render)

	body, err := cc.client.Send(ctx, agent.SendRequest{Text: text, Context: selected, Files: files})
	if err != nil {
		logger.Error("Send failed: %v", err)
		surface.Clear()
		return cc.thread.Append(chat.NewErrorMessage(SendFailedText)), fmt.Errorf("send message: %w", err)
	}
	defer body.Close()

	cc.scheduleClear()

	streamErr := stream.Consume(ctx, body, turn)
	res := turn.Finalize(ctx)

	last := chat.Message{}
	if raw := turn.FullText(); raw != "" || len(res.Segments) > 0 {
		last = cc.thread.Append(chat.NewAssistantMessage(res, raw))
	}

	for _, msg := range turn.Errors() {
		logger.Error("Agent reported an error: %s", msg)
	}

	switch {
	case streamErr != nil && ctx.Err() != nil:
		logger.Info("Response cancelled after %d chars", len(turn.FullText()))
		return last, ctx.Err()
	case streamErr != nil:
		logger.Error("Stream failed: %v", streamErr)
		return cc.thread.Append(chat.NewErrorMessage(SendFailedText)), fmt.Errorf("read response: %w", streamErr)
	case turn.Failed():
		return cc.thread.Append(chat.NewErrorMessage(StreamFailedText)), nil
	}
	return last, nil
}

func (cc *ChatController) scheduleClear() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.clearTimer != nil {
		cc.clearTimer.Stop()
	}
	cc.clearTimer = time.AfterFunc(cc.opts.SelectionClearDelay, func() {
		cc.selection.Clear()
		cc.attachments.Clear()
		if cc.opts.OnSelectionCleared != nil {
			cc.opts.OnSelectionCleared()
		}
	})
}

// Busy reports whether a turn is in flight.
func (cc *ChatController) Busy() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.busy
}

func (cc *ChatController) Thread() *chat.Thread {
	return cc.thread
}

func (cc *ChatController) Selection() *chat.Selection {
	return cc.selection
}

func (cc *ChatController) Attachments() *chat.Attachments {
	return cc.attachments
}

// SelectCard toggles the n-th product card of the thread, counting from 1.
func (cc *ChatController) SelectCard(n int) (bool, error) {
	products := cc.thread.Products()
	if n < 1 || n > len(products) {
		return false, fmt.Errorf("no product card %d (thread has %d)", n, len(products))
	}
	return cc.selection.Toggle(products[n-1]), nil
}

// UnselectCard removes the n-th product card of the thread from the
// selection.
func (cc *ChatController) UnselectCard(n int) error {
	products := cc.thread.Products()
	if n < 1 || n > len(products) {
		return fmt.Errorf("no product card %d (thread has %d)", n, len(products))
	}
	cc.selection.Remove(products[n-1].ID())
	return nil
}

// Reset clears the thread, the selection and pending attachments. The agent
// session is kept.
func (cc *ChatController) Reset() {
	cc.mu.Lock()
	if cc.clearTimer != nil {
		cc.clearTimer.Stop()
	}
	cc.mu.Unlock()

	cc.thread.Reset()
	cc.selection.Clear()
	cc.attachments.Clear()
}
