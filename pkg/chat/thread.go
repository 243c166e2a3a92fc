package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
)

// Thread is the ordered, append-only list of messages in a session.
type Thread struct {
	mu       sync.RWMutex
	messages []Message
}

func NewThread() *Thread {
	return &Thread{}
}

// Append stores msg, filling in an ID and timestamp when missing, and
// returns the stored copy.
func (t *Thread) Append(msg Message) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return msg
}

func (t *Thread) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Thread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Thread) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Products returns every product card shown in the thread, oldest first.
// The TUI numbers cards by their index in this list.
func (t *Thread) Products() []content.Product {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var products []content.Product
	for _, m := range t.messages {
		if m.IsAssistant() {
			products = append(products, m.Products()...)
		}
	}
	return products
}

// Reset drops every message.
func (t *Thread) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}
