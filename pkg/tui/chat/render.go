package chat

import (
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// renderConversation draws the thread followed by the reply in flight.
// While a turn runs, thread messages it appended are skipped: the live
// surface already shows them.
func (m chatModel) renderConversation() string {
	msgs := m.controller.Thread().Messages()
	if m.streaming && len(msgs) > m.turnBase+1 {
		msgs = msgs[:m.turnBase+1]
	}

	numbering := &theme.CardNumbering{Selected: m.controller.Selection().Contains}

	var rendered []string
	for _, msg := range msgs {
		if block := m.renderMessage(msg, numbering); block != "" {
			rendered = append(rendered, block)
		}
	}
	if m.streaming && m.live != nil {
		if block := m.renderLive(numbering); block != "" {
			rendered = append(rendered, block)
		}
	}

	return strings.Join(rendered, "\n\n")
}

// renderLive draws the committed segments of the reply in flight and its
// loader or live text underneath.
func (m chatModel) renderLive(numbering *theme.CardNumbering) string {
	rec := m.live.rec
	var parts []string

	if segs := rec.Segments(); len(segs) > 0 {
		parts = append(parts, m.renderer.Segments(segs, numbering))
	}

	if loader, ok := rec.Loader(); ok {
		parts = append(parts, m.renderer.Loader(loader, m.spinner.View()))
	} else if text, style := rec.Text(); text != "" {
		if style == render.StyleThinking {
			parts = append(parts, m.renderer.Thinking(text))
		} else {
			parts = append(parts, m.styles.AssistantMessage.Width(m.contentWidth()).Render(text))
		}
	}

	return strings.Join(parts, "\n\n")
}

func (m chatModel) contentWidth() int {
	if m.viewport.Width <= 2 {
		return 78
	}
	return m.viewport.Width - 2
}
