package status

import (
	"fmt"
	"strings"
)

func (m StatusModel) View() string {
	// Nothing to report: no reply in flight and no pending context
	if m.width == 0 || (!m.isActive && m.selected == 0 && m.files == 0) {
		return ""
	}

	st := m.styles
	var components []string

	if m.isActive {
		components = append(components, m.spinner.View())

		if m.status != "" {
			components = append(components, st.StatusText.Render(m.status))
		}

		if m.timer > 0 {
			minutes := int(m.timer.Minutes())
			seconds := int(m.timer.Seconds()) % 60
			components = append(components, st.StatusTimer.Render(fmt.Sprintf("%02d:%02d", minutes, seconds)))
		}

		if m.icon != "" {
			components = append(components, st.StatusIcon.Render(m.icon))
		}
	}

	if m.selected > 0 {
		components = append(components, st.StatusCount.Render(fmt.Sprintf("%d selected", m.selected)))
	}
	if m.files > 0 {
		components = append(components, st.StatusCount.Render(plural(m.files, "file")))
	}

	return st.StatusBar.
		Width(m.width).
		Render(strings.Join(components, st.StatusSeparator.Render(" | ")))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
