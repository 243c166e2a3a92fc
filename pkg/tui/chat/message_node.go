package chat

import (
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// renderMessage draws one thread message. numbering carries card numbers
// across the whole thread.
func (m chatModel) renderMessage(msg chat.Message, numbering *theme.CardNumbering) string {
	width := m.contentWidth()

	switch msg.Role {
	case chat.RoleUser:
		body := m.styles.UserMessage.Width(width).Render("> " + msg.Content)
		var notes []string
		for _, p := range msg.Context {
			notes = append(notes, "🏷  "+p.DisplayName())
		}
		for _, f := range msg.Files {
			notes = append(notes, "📎 "+f.Name)
		}
		if len(notes) == 0 {
			return body
		}
		return body + "\n" + m.styles.InfoMessage.Width(width).Render(strings.Join(notes, "  "))

	case chat.RoleAssistant:
		if len(msg.Segments) == 0 {
			return m.renderer.Markdown(msg.Content)
		}
		return m.renderer.Segments(msg.Segments, numbering)

	case chat.RoleError:
		return m.styles.ErrorMessage.Width(width).Render(msg.Content)

	default:
		return m.styles.SystemMessage.Width(width).Render(msg.Content)
	}
}
