package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.connect(), waitForEvent(m.bus))
}

// connect opens the agent session.
func (m chatModel) connect() tea.Cmd {
	controller := m.controller
	ctx := m.ctx
	return func() tea.Msg {
		return connectedMsg{Err: controller.Start(ctx)}
	}
}
