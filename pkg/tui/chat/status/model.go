package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/process"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner   spinner.Model
	state     process.State
	status    string        // "Searching", "Receiving", ...
	icon      string        // "↓" receiving, "🔍" tool
	timer     time.Duration // Elapsed time
	startTime time.Time
	isActive  bool
	selected  int
	files     int
	width     int
	styles    *theme.Styles
}

// NewStatusModel creates a new status bar model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	styles := theme.DefaultStyles()
	s.Style = styles.Loader

	return StatusModel{spinner: s, styles: styles}
}

func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Active reports whether a reply is in flight.
func (m StatusModel) Active() bool {
	return m.isActive
}

func (m StatusModel) State() process.State {
	return m.state
}
