package status

import (
	"time"

	"github.com/vishnuprakaz/sales-assist/pkg/process"
)

// StartStreamingMsg indicates a reply has started
type StartStreamingMsg struct{}

// StopStreamingMsg indicates the reply settled
type StopStreamingMsg struct{}

// SetProcessStateMsg sets the current render state and icon
type SetProcessStateMsg struct {
	State process.State
}

// UpdateContextMsg updates the selected product and attached file counts
type UpdateContextMsg struct {
	Selected int
	Files    int
}

// TickMsg updates the timer
type TickMsg time.Time
