package chat

import "strings"

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	return b.String()
}

// footer is the single line between the conversation and the input: a
// notice when there is one, the status bar otherwise.
func (m chatModel) footer() string {
	if m.notice != "" {
		style := m.styles.InfoMessage
		switch m.noticeKind {
		case noticeError:
			style = m.styles.ErrorMessage
		case noticeSuccess:
			style = m.styles.SuccessMessage
		}
		return style.MaxWidth(m.width).Render(m.notice)
	}
	return m.statusBar.View()
}
