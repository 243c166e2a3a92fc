package render

import (
	"fmt"
	"sync"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
)

// Recorder is an in-memory Surface. It keeps the current state of both
// areas and a log of every call.
type Recorder struct {
	mu        sync.Mutex
	segments  []content.Segment
	text      string
	style     TextStyle
	loader    *Loader
	state     process.State
	ops       []string
	stateSeen []process.State
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segments = nil
	r.text = ""
	r.style = StylePlain
	r.loader = nil
	r.ops = append(r.ops, "clear")
}

func (r *Recorder) ShowLoader(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = ""
	r.loader = &l
	r.ops = append(r.ops, fmt.Sprintf("loader:%d", l.Kind))
}

func (r *Recorder) AppendText(delta string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loader != nil {
		r.loader = nil
		r.text = ""
	}
	r.text += delta
	r.style = StylePlain
	r.ops = append(r.ops, "append:"+delta)
}

func (r *Recorder) ReplaceText(text string, style TextStyle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loader = nil
	r.text = text
	r.style = style
	r.ops = append(r.ops, "replace:"+text)
}

func (r *Recorder) AppendSegment(seg content.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seg.Products = append([]content.Product(nil), seg.Products...)
	r.segments = append(r.segments, seg)
	r.loader = nil
	r.text = ""
	r.ops = append(r.ops, "segment:"+seg.Kind.String())
}

func (r *Recorder) AppendCard(p content.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.segments) - 1; i >= 0; i-- {
		if r.segments[i].Kind == content.KindProductList {
			r.segments[i].Products = append(r.segments[i].Products, p)
			break
		}
	}
	r.ops = append(r.ops, "card:"+p.DisplayName())
}

func (r *Recorder) OnState(s process.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
	r.stateSeen = append(r.stateSeen, s)
}

// Segments returns a copy of the committed segments.
func (r *Recorder) Segments() []content.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]content.Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// Text returns the live text and its style.
func (r *Recorder) Text() (string, TextStyle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text, r.style
}

// Loader returns the loader currently shown, if any.
func (r *Recorder) Loader() (Loader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loader == nil {
		return Loader{}, false
	}
	return *r.loader, true
}

func (r *Recorder) State() process.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// States returns every state reported so far.
func (r *Recorder) States() []process.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.State(nil), r.stateSeen...)
}

// Ops returns the call log.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

var (
	_ Surface       = (*Recorder)(nil)
	_ StateObserver = (*Recorder)(nil)
)
