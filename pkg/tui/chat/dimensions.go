package chat

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

const (
	maxInputHeight = 10
	// footer line and the rule above the input
	chromeHeight = 2
)

// calculateTextAreaHeight determines the visual height of the textarea
// based on its content and wrapping
func (m *chatModel) calculateTextAreaHeight() int {
	content := m.textarea.Value()
	if content == "" {
		return 1
	}

	textWidth := m.textarea.Width()
	if textWidth <= 0 {
		textWidth = m.width - 4
		if textWidth <= 0 {
			textWidth = 80 // fallback
		}
	}

	totalVisualLines := 0
	for _, line := range strings.Split(content, "\n") {
		// runewidth handles wide glyphs such as ₹ and emoji
		visualLines := (runewidth.StringWidth(line) + textWidth - 1) / textWidth
		if visualLines < 1 {
			visualLines = 1
		}
		totalVisualLines += visualLines
	}

	if totalVisualLines > maxInputHeight {
		return maxInputHeight
	}
	return totalVisualLines
}

// resizeInput grows or shrinks the input to its content.
func (m *chatModel) resizeInput() {
	if h := m.calculateTextAreaHeight(); m.textarea.Height() != h {
		m.textarea.SetHeight(h)
		m.updateViewportHeight()
	}
}

// updateViewportHeight adjusts the viewport height based on textarea size
func (m *chatModel) updateViewportHeight() {
	if m.height > 0 {
		h := m.height - m.calculateTextAreaHeight() - chromeHeight
		if h < 1 {
			h = 1
		}
		m.viewport.Height = h
	}
}

// handleWindowResize updates all dimensions when window size changes
func (m *chatModel) handleWindowResize(width, height int) {
	m.width = width
	m.height = height

	m.textarea.SetWidth(width - 4)
	m.textarea.SetHeight(m.calculateTextAreaHeight())

	m.viewport.Width = width
	m.updateViewportHeight()

	// Glamour wraps at construction time
	m.renderer = theme.NewRenderer(m.contentWidth(), m.mdStyle)

	m.updateViewportContent()
}
