package stream

// Kind identifies the semantic type of an event.
type Kind int

const (
	KindUnknown Kind = iota
	KindTextChunk
	KindContentDelta
	KindFunctionCall
	KindFunctionResponse
	KindFullMessage
	KindComplete
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindTextChunk:
		return "text_chunk"
	case KindContentDelta:
		return "content_delta"
	case KindFunctionCall:
		return "function_call"
	case KindFunctionResponse:
		return "function_response"
	case KindFullMessage:
		return "message"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// synonyms maps every accepted wire event type to its kind. Matching is
// case-sensitive.
var synonyms = map[string]Kind{
	"text_chunk":        KindTextChunk,
	"text-chunk":        KindTextChunk,
	"content_delta":     KindContentDelta,
	"delta":             KindContentDelta,
	"function_call":     KindFunctionCall,
	"tool_call":         KindFunctionCall,
	"function_response": KindFunctionResponse,
	"tool_response":     KindFunctionResponse,
	"message":           KindFullMessage,
	"response":          KindFullMessage,
	"complete":          KindComplete,
	"done":              KindComplete,
	"end":               KindComplete,
	"error":             KindError,
}

// Classify returns the kind for a wire event type.
func Classify(eventType string) Kind {
	if kind, ok := synonyms[eventType]; ok {
		return kind
	}
	return KindUnknown
}

// Event is a decoded stream event.
type Event interface {
	Kind() Kind
}

// TextChunk carries incremental text.
type TextChunk struct {
	Text string
}

// ContentDelta carries incremental text from delta-style producers.
type ContentDelta struct {
	Text string
}

// FunctionCall announces a tool invocation by the agent.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// FunctionResponse signals that a tool invocation returned.
type FunctionResponse struct {
	Name string
}

// FullMessage is a snapshot of the whole message so far.
type FullMessage struct {
	Content  string
	Thinking bool
}

// StreamComplete terminates the stream.
type StreamComplete struct{}

// StreamError reports an upstream failure.
type StreamError struct {
	Message string
}

// Unknown is an event whose type is not recognised.
type Unknown struct {
	Type string
	Data string
}

func (TextChunk) Kind() Kind        { return KindTextChunk }
func (ContentDelta) Kind() Kind     { return KindContentDelta }
func (FunctionCall) Kind() Kind     { return KindFunctionCall }
func (FunctionResponse) Kind() Kind { return KindFunctionResponse }
func (FullMessage) Kind() Kind      { return KindFullMessage }
func (StreamComplete) Kind() Kind   { return KindComplete }
func (StreamError) Kind() Kind      { return KindError }
func (Unknown) Kind() Kind          { return KindUnknown }

// Arg returns a string argument of the call, or "" when absent.
func (c FunctionCall) Arg(name string) string {
	if c.Args == nil {
		return ""
	}
	if s, ok := c.Args[name].(string); ok {
		return s
	}
	return ""
}
