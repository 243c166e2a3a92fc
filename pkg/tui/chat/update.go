package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/chat/status"
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		statusModel, _ := m.statusBar.Update(msg)
		m.statusBar = statusModel.(status.StatusModel)
		return m, nil

	case tea.KeyMsg:
		// All key handling happens in handleKeyMsg
		return handleKeyMsg(m, msg)

	case connectedMsg:
		if msg.Err != nil {
			m.setNotice("Type /connect to retry", noticeError)
		} else if m.notice == "Connecting..." {
			m.setNotice("Connected", noticeSuccess)
		}
		m.updateViewportContent()
		return m, nil

	case surfaceUpdatedMsg:
		m.updateViewportContent()
		return m, waitForEvent(m.bus)

	case processStateMsg:
		statusModel, _ := m.statusBar.Update(status.SetProcessStateMsg{State: msg.State})
		m.statusBar = statusModel.(status.StatusModel)
		m.updateViewportContent()
		return m, waitForEvent(m.bus)

	case selectionClearedMsg:
		model, cmd := m.refresh()
		return model, tea.Batch(cmd, waitForEvent(m.bus))

	case turnDoneMsg:
		m.streaming = false
		m.live = nil
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}

		switch {
		case msg.Err == nil:
			if m.notice == "Cancelling response..." {
				m.setNotice("", noticeInfo)
			}
		case errors.Is(msg.Err, context.Canceled):
			m.setNotice("Response stopped", noticeInfo)
		case errors.Is(msg.Err, controllers.ErrEmptyMessage), errors.Is(msg.Err, controllers.ErrBusy):
			m.setNotice(msg.Err.Error(), noticeError)
		default:
			// The thread already holds the user-facing error message
			logger.Error("tui: turn failed: %v", msg.Err)
		}

		statusModel, _ := m.statusBar.Update(status.StopStreamingMsg{})
		m.statusBar = statusModel.(status.StatusModel)
		model, cmd := m.refresh()
		return model, tea.Batch(cmd, waitForEvent(m.bus))

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewportContent()
		}
		statusModel, statusCmd := m.statusBar.Update(msg)
		m.statusBar = statusModel.(status.StatusModel)
		cmds = append(cmds, statusCmd)

	default:
		statusModel, statusCmd := m.statusBar.Update(msg)
		m.statusBar = statusModel.(status.StatusModel)
		cmds = append(cmds, statusCmd)

		// Update textarea for other messages (like blink cursor)
		var tiCmd tea.Cmd
		m.textarea, tiCmd = m.textarea.Update(msg)
		cmds = append(cmds, tiCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// submit starts a turn on its own goroutine. Progress comes back through
// the event bus.
func (m chatModel) submit(text string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.streaming = true
	m.turnBase = m.controller.Thread().Len()
	m.live = newLiveSurface(m.bus)
	m.setNotice("", noticeInfo)

	controller := m.controller
	surface := m.live
	bus := m.bus
	go func() {
		msg, err := controller.Submit(ctx, text, surface)
		bus.send(turnDoneMsg{Message: msg, Err: err})
	}()

	statusModel, statusCmd := m.statusBar.Update(status.StartStreamingMsg{})
	m.statusBar = statusModel.(status.StatusModel)
	m.updateViewportContent()

	return m, tea.Batch(m.spinner.Tick, statusCmd)
}
