package render

import (
	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
)

// TextStyle selects how transient text is drawn.
type TextStyle int

const (
	StylePlain TextStyle = iota
	StyleThinking
)

// Surface is the render target of one assistant message. A surface has a
// committed area, which only grows through AppendSegment and AppendCard,
// and a transient area below it holding either a loader or live text.
type Surface interface {
	// Clear empties both areas.
	Clear()
	// ShowLoader replaces the transient area with a loader.
	ShowLoader(l Loader)
	// AppendText appends to the live text, replacing any loader.
	AppendText(delta string)
	// ReplaceText sets the live text, replacing any loader.
	ReplaceText(text string, style TextStyle)
	// AppendSegment commits a segment and empties the transient area. A
	// product list segment may arrive without products and be filled by
	// AppendCard.
	AppendSegment(seg content.Segment)
	// AppendCard adds a card to the last committed product list.
	AppendCard(p content.Product)
}

// StateObserver is implemented by surfaces that want to follow the
// message state, such as a status bar.
type StateObserver interface {
	OnState(s process.State)
}
