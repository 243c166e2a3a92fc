package render

import (
	"context"
	"strings"
	"sync"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"
)

// Options configures a Turn.
type Options struct {
	ShowThinking bool
	SearchTools  []string
	Pacing       Pacing
	Scheduler    Scheduler
}

// Turn owns the render state of one assistant message: the accumulated
// text, what has been shown so far, and the surface it draws on. It
// implements stream.Handler.
type Turn struct {
	mu      sync.Mutex
	surface Surface
	opts    Options

	state    process.State
	full     string // text the final render is parsed from
	streamed string // concatenated text chunks
	shown    string // plain text currently in the transient area

	sawFunctionCall bool
	completed       bool
	errors          []string
	result          *content.Result
}

// NewTurn starts a message on surface and shows the thinking loader.
func NewTurn(surface Surface, opts Options) *Turn {
	if opts.Scheduler == nil {
		opts.Scheduler = Immediate{}
	}
	if opts.SearchTools == nil {
		opts.SearchTools = DefaultSearchTools
	}

	t := &Turn{surface: surface, opts: opts}
	surface.ShowLoader(ThinkingLoader())
	t.setState(process.StateIdle)
	return t
}

func (t *Turn) setState(s process.State) {
	t.state = s
	if obs, ok := t.surface.(StateObserver); ok {
		obs.OnState(s)
	}
}

// OnText appends a chunk and renders only the part not yet shown.
func (t *Turn) OnText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if text == "" || t.result != nil {
		return
	}

	t.streamed += text
	t.full += text

	if t.state != process.StateStreaming {
		t.setState(process.StateStreaming)
	}

	display := strings.TrimSpace(t.streamed)
	switch {
	case display == "":
	case t.shown != "" && strings.HasPrefix(display, t.shown):
		if delta := display[len(t.shown):]; delta != "" {
			t.surface.AppendText(delta)
		}
	default:
		t.surface.ReplaceText(display, StylePlain)
	}
	if display != "" {
		t.shown = display
	}
}

// OnMessage replaces the full text with a snapshot.
func (t *Turn) OnMessage(msg stream.FullMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if msg.Content == "" || t.result != nil {
		return
	}

	t.full = msg.Content

	if msg.Thinking {
		t.setState(process.StateThinking)
		t.surface.ReplaceText(strings.TrimSpace(msg.Content), StyleThinking)
		t.shown = ""
		return
	}

	res := content.Parse(msg.Content)
	if !res.Structured && t.sawFunctionCall {
		// Untagged text after a tool call is usually the tool payload.
		return
	}

	display := res.DisplayText()
	if display == "" {
		return
	}
	if display == t.shown && t.state == process.StateStreaming {
		return
	}

	t.setState(process.StateStreaming)
	t.surface.ReplaceText(display, StylePlain)
	t.shown = display
}

func (t *Turn) OnFunctionCall(call stream.FunctionCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result != nil {
		return
	}

	logger.Debug("render: function call %s", call.Name)
	t.sawFunctionCall = true
	t.setState(process.StateToolRunning)
	t.surface.ShowLoader(FunctionLoader(call, t.opts.SearchTools))
	t.shown = ""
}

func (t *Turn) OnFunctionResponse(resp stream.FunctionResponse) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.result != nil {
		return
	}

	logger.Debug("render: function response %s", resp.Name)
	t.setState(process.StateToolDone)
	t.surface.ShowLoader(SkeletonLoader())
	t.shown = ""
}

func (t *Turn) OnComplete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = true
}

// OnError records the failure. Rendering continues with whatever arrives.
func (t *Turn) OnError(err stream.StreamError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, err.Message)
}

// Finalize parses the full accumulated text once and re-renders the
// message from scratch as an ordered sequence of steps. Calling it again
// returns the first result without touching the surface.
func (t *Turn) Finalize(ctx context.Context) content.Result {
	t.mu.Lock()
	if t.result != nil {
		res := *t.result
		t.mu.Unlock()
		return res
	}
	t.setState(process.StateFinalizing)
	res := content.Parse(t.full)
	t.result = &res
	t.mu.Unlock()

	t.surface.Clear()
	if err := RunSteps(ctx, t.opts.Scheduler, t.surface, t.plan(res)); err != nil {
		logger.Debug("render: reveal pacing interrupted: %v", err)
	}

	t.mu.Lock()
	t.setState(process.StateFinalized)
	t.mu.Unlock()
	return res
}

func (t *Turn) plan(res content.Result) []Step {
	pacing := t.opts.Pacing
	var steps []Step

	for _, seg := range res.Segments {
		seg := seg
		switch seg.Kind {
		case content.KindThinking:
			if !t.opts.ShowThinking {
				continue
			}
			steps = append(steps, Step{Apply: func(s Surface) { s.AppendSegment(seg) }, Pause: pacing.Text})

		case content.KindText:
			steps = append(steps, Step{Apply: func(s Surface) { s.AppendSegment(seg) }, Pause: pacing.Text})

		case content.KindProduct:
			steps = append(steps, Step{Apply: func(s Surface) { s.AppendSegment(seg) }, Pause: pacing.Card})

		case content.KindProductList:
			shell := seg
			shell.Products = nil
			steps = append(steps,
				Step{Apply: func(s Surface) { s.ShowLoader(ProductsLoader()) }, Pause: pacing.ListLoading},
				Step{Apply: func(s Surface) { s.AppendSegment(shell) }},
			)
			for _, p := range seg.Products {
				p := p
				steps = append(steps, Step{Apply: func(s Surface) { s.AppendCard(p) }, Pause: pacing.ListCard})
			}
		}
	}

	return steps
}

// State returns the current render state.
func (t *Turn) State() process.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// FullText returns the text the message is, or will be, parsed from.
func (t *Turn) FullText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.full
}

// Completed reports whether the stream sent a completion event.
func (t *Turn) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// Failed reports whether the stream carried an error event.
func (t *Turn) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.errors) > 0
}

// Errors returns the raw upstream error messages, for logging.
func (t *Turn) Errors() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.errors...)
}

var _ stream.Handler = (*Turn)(nil)
