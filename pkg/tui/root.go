package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type rootModel struct {
	view tea.Model
}

func (m rootModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m rootModel) View() string {
	return m.view.View()
}

func NewRootModel(view tea.Model) rootModel {
	return rootModel{view: view}
}
