package chat

import (
	"strings"
	"time"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
)

type Message struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Segments  []content.Segment `json:"segments,omitempty"`
	Files     []FileRef         `json:"files,omitempty"`
	Context   []content.Product `json:"context,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleError     = "error"
)

// NewUserMessage builds the message shown for a submission. Content is the
// display text; the products and files sent with it are kept alongside.
func NewUserMessage(text string, selected []content.Product, files []FileRef) Message {
	return Message{
		Role:      RoleUser,
		Content:   DisplayText(text, len(selected), len(files)),
		Context:   append([]content.Product(nil), selected...),
		Files:     append([]FileRef(nil), files...),
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage stores the raw text and a copy of the segments it
// finalized to.
func NewAssistantMessage(res content.Result, raw string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   raw,
		Segments:  content.CloneSegments(res.Segments),
		Timestamp: time.Now(),
	}
}

func NewErrorMessage(text string) Message {
	return Message{
		Role:      RoleError,
		Content:   text,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsError() bool {
	return m.Role == RoleError
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.Segments) == 0
}

// Products returns every product card in the message, in display order.
func (m Message) Products() []content.Product {
	return content.Result{Segments: m.Segments}.Products()
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.Timestamp = t
	return m
}
