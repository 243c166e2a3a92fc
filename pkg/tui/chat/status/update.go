package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/process"
)

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.isActive {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartStreamingMsg:
		m.isActive = true
		m.startTime = time.Now()
		m.timer = 0
		m = m.withState(process.StateSending)
		return m, tea.Batch(
			m.spinner.Tick,
			tickEvery(),
		)

	case SetProcessStateMsg:
		m = m.withState(msg.State)
		return m, nil

	case StopStreamingMsg:
		m.isActive = false
		m.state = process.StateIdle
		m.status = ""
		m.icon = ""
		m.timer = 0
		return m, nil

	case UpdateContextMsg:
		m.selected = msg.Selected
		m.files = msg.Files
		return m, nil

	case TickMsg:
		if m.isActive {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

func (m StatusModel) withState(s process.State) StatusModel {
	m.state = s
	m.icon = s.GetIcon()
	m.status = s.GetDisplayName()
	return m
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
