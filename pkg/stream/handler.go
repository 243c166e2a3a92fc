package stream

import (
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

// Handler receives decoded events of one message, in stream order.
// Text chunks and content deltas both arrive through OnText.
type Handler interface {
	OnText(text string)
	OnFunctionCall(call FunctionCall)
	OnFunctionResponse(resp FunctionResponse)
	OnMessage(msg FullMessage)
	OnComplete()
	OnError(err StreamError)
}

// HandlerFunc is a function adapter for the Handler interface. Nil fields
// ignore their events.
type HandlerFunc struct {
	TextFunc             func(text string)
	FunctionCallFunc     func(call FunctionCall)
	FunctionResponseFunc func(resp FunctionResponse)
	MessageFunc          func(msg FullMessage)
	CompleteFunc         func()
	ErrorFunc            func(err StreamError)
}

// OnText implements Handler
func (h HandlerFunc) OnText(text string) {
	if h.TextFunc != nil {
		h.TextFunc(text)
	}
}

// OnFunctionCall implements Handler
func (h HandlerFunc) OnFunctionCall(call FunctionCall) {
	if h.FunctionCallFunc != nil {
		h.FunctionCallFunc(call)
	}
}

// OnFunctionResponse implements Handler
func (h HandlerFunc) OnFunctionResponse(resp FunctionResponse) {
	if h.FunctionResponseFunc != nil {
		h.FunctionResponseFunc(resp)
	}
}

// OnMessage implements Handler
func (h HandlerFunc) OnMessage(msg FullMessage) {
	if h.MessageFunc != nil {
		h.MessageFunc(msg)
	}
}

// OnComplete implements Handler
func (h HandlerFunc) OnComplete() {
	if h.CompleteFunc != nil {
		h.CompleteFunc()
	}
}

// OnError implements Handler
func (h HandlerFunc) OnError(err StreamError) {
	if h.ErrorFunc != nil {
		h.ErrorFunc(err)
	}
}

// Dispatch routes one event to the matching handler method. Unknown events
// are logged and ignored.
func Dispatch(ev Event, h Handler) {
	switch e := ev.(type) {
	case TextChunk:
		h.OnText(e.Text)
	case ContentDelta:
		h.OnText(e.Text)
	case FunctionCall:
		h.OnFunctionCall(e)
	case FunctionResponse:
		h.OnFunctionResponse(e)
	case FullMessage:
		h.OnMessage(e)
	case StreamComplete:
		h.OnComplete()
	case StreamError:
		logger.Warn("stream: upstream error event: %s", e.Message)
		h.OnError(e)
	case Unknown:
		logger.Debug("stream: ignoring unknown event type %q", e.Type)
	default:
		logger.Debug("stream: ignoring event %T", ev)
	}
}

// Ensure implementations satisfy the interface
var _ Handler = HandlerFunc{}
