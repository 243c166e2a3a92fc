package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
)

type (
	// surfaceUpdatedMsg asks for a redraw of the live reply.
	surfaceUpdatedMsg struct{}

	// processStateMsg carries a render state change of the live reply.
	processStateMsg struct {
		State process.State
	}

	// turnDoneMsg is sent once Submit returned.
	turnDoneMsg struct {
		Message chat.Message
		Err     error
	}

	// connectedMsg reports the result of opening the agent session.
	connectedMsg struct {
		Err error
	}

	// selectionClearedMsg is sent after a send cleared the selection.
	selectionClearedMsg struct{}
)

// eventBus carries messages from the turn goroutine into the program.
// Redraw requests are coalesced; everything else is delivered in order
// until the bus is closed.
type eventBus struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func newEventBus() *eventBus {
	return &eventBus{
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
}

func (b *eventBus) send(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

func (b *eventBus) poke() {
	select {
	case b.events <- surfaceUpdatedMsg{}:
	default:
	}
}

func (b *eventBus) close() {
	b.once.Do(func() { close(b.done) })
}

// waitForEvent listens for the next bus message
func waitForEvent(b *eventBus) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}
