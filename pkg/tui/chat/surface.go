package chat

import (
	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
)

// liveSurface records the reply in flight and asks the program to redraw
// after every change. View reads the recorder directly.
type liveSurface struct {
	rec *render.Recorder
	bus *eventBus
}

func newLiveSurface(bus *eventBus) *liveSurface {
	return &liveSurface{rec: render.NewRecorder(), bus: bus}
}

func (s *liveSurface) Clear() {
	s.rec.Clear()
	s.bus.poke()
}

func (s *liveSurface) ShowLoader(l render.Loader) {
	s.rec.ShowLoader(l)
	s.bus.poke()
}

func (s *liveSurface) AppendText(delta string) {
	s.rec.AppendText(delta)
	s.bus.poke()
}

func (s *liveSurface) ReplaceText(text string, style render.TextStyle) {
	s.rec.ReplaceText(text, style)
	s.bus.poke()
}

func (s *liveSurface) AppendSegment(seg content.Segment) {
	s.rec.AppendSegment(seg)
	s.bus.poke()
}

func (s *liveSurface) AppendCard(p content.Product) {
	s.rec.AppendCard(p)
	s.bus.poke()
}

func (s *liveSurface) OnState(state process.State) {
	s.rec.OnState(state)
	s.bus.send(processStateMsg{State: state})
}

var (
	_ render.Surface       = (*liveSurface)(nil)
	_ render.StateObserver = (*liveSurface)(nil)
)
