package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Send     key.Binding
	Newline  key.Binding
	Cancel   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Send:     key.NewBinding(key.WithKeys("enter")),
	Newline:  key.NewBinding(key.WithKeys("alt+enter", "ctrl+j")),
	Cancel:   key.NewBinding(key.WithKeys("esc")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
}

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		// Esc stops the reply in flight; twice clears the input
		if m.streaming && m.cancel != nil {
			m.cancel()
			m.setNotice("Cancelling response...", noticeInfo)
			return m, nil
		}
		m.numEscPress++
		if m.numEscPress == 2 {
			m.textarea.Reset()
			m.numEscPress = 0
			m.resizeInput()
		}
		return m, nil

	case key.Matches(msg, keys.PageUp, keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, keys.Send):
		m.numEscPress = 0
		input := strings.TrimSpace(m.textarea.Value())
		if cmd, ok := parseCommand(input); ok {
			m.textarea.Reset()
			m.resizeInput()
			return m.runCommand(cmd)
		}
		if input == "" && m.controller.Attachments().Len() == 0 {
			return m, nil
		}
		if m.streaming {
			m.setNotice("Wait for the current response, or press Esc to stop it.", noticeError)
			return m, nil
		}
		m.textarea.Reset()
		m.resizeInput()
		return m.submit(input)
	}

	m.numEscPress = 0

	// Let the textarea handle the key
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.resizeInput()

	return m, cmd
}
