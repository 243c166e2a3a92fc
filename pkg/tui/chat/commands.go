package chat

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/chat/status"
)

const helpText = "/select N  /unselect N  /attach PATH|GLOB  /detach N  /files  /clear  /connect  /quit"

// command is a slash command typed into the input.
type command struct {
	name string
	args []string
}

// parseCommand reports whether input is a slash command and splits it.
func parseCommand(input string) (command, bool) {
	if !strings.HasPrefix(input, "/") {
		return command{}, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return command{}, false
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// cardNumbers parses the 1-based card or file numbers of a command.
func (c command) cardNumbers() ([]int, error) {
	if len(c.args) == 0 {
		return nil, fmt.Errorf("usage: /%s N", c.name)
	}
	nums := make([]int, 0, len(c.args))
	for _, arg := range c.args {
		n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", arg)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func (m chatModel) runCommand(cmd command) (tea.Model, tea.Cmd) {
	logger.Debug("tui: command /%s %v", cmd.name, cmd.args)

	switch cmd.name {
	case "quit", "exit":
		return m, tea.Quit

	case "help":
		m.setNotice(helpText, noticeInfo)

	case "select":
		nums, err := cmd.cardNumbers()
		if err != nil {
			m.setNotice(err.Error(), noticeError)
			break
		}
		var picked []string
		for _, n := range nums {
			selected, err := m.controller.SelectCard(n)
			if err != nil {
				m.setNotice(err.Error(), noticeError)
				return m.refresh()
			}
			state := "unselected"
			if selected {
				state = "selected"
			}
			picked = append(picked, fmt.Sprintf("%d %s", n, state))
		}
		m.setNotice("Card "+strings.Join(picked, ", "), noticeInfo)

	case "unselect":
		nums, err := cmd.cardNumbers()
		if err != nil {
			m.setNotice(err.Error(), noticeError)
			break
		}
		for _, n := range nums {
			if err := m.controller.UnselectCard(n); err != nil {
				m.setNotice(err.Error(), noticeError)
				return m.refresh()
			}
		}
		m.setNotice(fmt.Sprintf("%d product(s) selected", m.controller.Selection().Len()), noticeInfo)

	case "attach":
		if len(cmd.args) == 0 {
			m.setNotice("usage: /attach PATH|GLOB", noticeError)
			break
		}
		added, err := m.controller.Attachments().AddPaths(cmd.args)
		if err != nil {
			m.setNotice(err.Error(), noticeError)
			break
		}
		m.setNotice(fmt.Sprintf("Attached %d file(s)", added), noticeInfo)

	case "detach":
		nums, err := cmd.cardNumbers()
		if err != nil {
			m.setNotice(err.Error(), noticeError)
			break
		}
		// Highest index first so earlier numbers stay valid.
		for i := len(nums) - 1; i >= 0; i-- {
			if !m.controller.Attachments().Remove(nums[i] - 1) {
				m.setNotice(fmt.Sprintf("no attached file %d", nums[i]), noticeError)
				return m.refresh()
			}
		}
		m.setNotice(fmt.Sprintf("%d file(s) attached", m.controller.Attachments().Len()), noticeInfo)

	case "files":
		files := m.controller.Attachments().Files()
		if len(files) == 0 {
			m.setNotice("No files attached", noticeInfo)
			break
		}
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = fmt.Sprintf("%d. %s", i+1, f.Name)
		}
		m.setNotice(strings.Join(names, "  "), noticeInfo)

	case "clear":
		if m.streaming {
			m.setNotice("Wait for the current response, or press Esc to stop it.", noticeError)
			break
		}
		m.controller.Reset()
		m.live = nil
		m.setNotice("", noticeInfo)

	case "connect":
		m.setNotice("Connecting...", noticeInfo)
		return m, m.connect()

	default:
		m.setNotice(fmt.Sprintf("Unknown command /%s. %s", cmd.name, helpText), noticeError)
	}

	return m.refresh()
}

// refresh redraws the conversation and the status bar counts.
func (m chatModel) refresh() (tea.Model, tea.Cmd) {
	statusModel, cmd := m.statusBar.Update(status.UpdateContextMsg{
		Selected: m.controller.Selection().Len(),
		Files:    m.controller.Attachments().Len(),
	})
	m.statusBar = statusModel.(status.StatusModel)
	m.updateViewportContent()
	return m, cmd
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
	noticeSuccess
)

func (m *chatModel) setNotice(text string, kind noticeKind) {
	m.notice = text
	m.noticeKind = kind
}
