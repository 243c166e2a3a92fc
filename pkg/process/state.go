package process

// State is the phase of the assistant message currently being rendered.
type State string

const (
	// StateIdle means no content has arrived yet; the thinking indicator shows
	StateIdle State = ""

	// StateSending means the request is on its way to the agent
	StateSending State = "sending"

	// StateStreaming means text is arriving and being appended
	StateStreaming State = "streaming"

	// StateThinking means the agent is sharing intermediate reasoning
	StateThinking State = "thinking"

	// StateToolRunning means the agent invoked a tool and is waiting on it
	StateToolRunning State = "tool"

	// StateToolDone means a tool returned and results are being prepared
	StateToolDone State = "tool_done"

	// StateFinalizing means the full text is being parsed and re-rendered
	StateFinalizing State = "finalizing"

	// StateFinalized means the message is settled
	StateFinalized State = "finalized"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Active reports whether the message is still being produced.
func (s State) Active() bool {
	return s != StateFinalized
}

// GetIcon returns the appropriate icon for a given process state
func (s State) GetIcon() string {
	switch s {
	case StateSending:
		return "↑"
	case StateStreaming:
		return "↓"
	case StateThinking:
		return "🤔"
	case StateToolRunning:
		return "🔍"
	case StateToolDone:
		return "🛍"
	case StateFinalizing:
		return "✨"
	default:
		return ""
	}
}

// GetDisplayName returns a human-readable name for the state
func (s State) GetDisplayName() string {
	switch s {
	case StateIdle:
		return "Waiting"
	case StateSending:
		return "Sending"
	case StateStreaming:
		return "Receiving"
	case StateThinking:
		return "Thinking"
	case StateToolRunning:
		return "Searching"
	case StateToolDone:
		return "Preparing results"
	case StateFinalizing:
		return "Finishing"
	case StateFinalized:
		return "Done"
	default:
		return ""
	}
}
