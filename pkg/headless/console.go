package headless

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// Console is a render.Surface for plain terminals and pipes. Committed
// segments go to out; loaders and live text go to progress, which may be
// io.Discard.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	progress  io.Writer
	renderer  *theme.Renderer
	numbering theme.CardNumbering

	wroteBlock bool
	live       string
	loader     string
}

func NewConsole(out, progress io.Writer, renderer *theme.Renderer) *Console {
	if progress == nil {
		progress = io.Discard
	}
	return &Console{out: out, progress: progress, renderer: renderer}
}

func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLive()
	c.loader = ""
}

func (c *Console) ShowLoader(l render.Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLive()

	line := strings.TrimSpace(l.Icon + " " + l.Message)
	if l.Kind == render.LoaderThinking {
		line = "… " + l.Message
	}
	if line == c.loader {
		return
	}
	c.loader = line
	fmt.Fprintln(c.progress, line)
}

func (c *Console) AppendText(delta string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loader = ""
	c.live += delta
	fmt.Fprint(c.progress, delta)
}

func (c *Console) ReplaceText(text string, style render.TextStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.live {
		return
	}
	if c.live != "" && strings.HasPrefix(text, c.live) {
		fmt.Fprint(c.progress, text[len(c.live):])
		c.live = text
		return
	}
	c.endLive()
	c.loader = ""
	if style == render.StyleThinking {
		fmt.Fprint(c.progress, "💭 ")
	}
	fmt.Fprint(c.progress, text)
	c.live = text
}

func (c *Console) endLive() {
	if c.live != "" {
		fmt.Fprintln(c.progress)
		c.live = ""
	}
}

func (c *Console) AppendSegment(seg content.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLive()
	c.loader = ""

	if seg.Kind == content.KindProductList && len(seg.Products) == 0 {
		// Cards follow one by one through AppendCard.
		c.writeBlock(c.renderer.ListHeader(0))
		return
	}
	c.writeBlock(c.renderer.Segment(seg, &c.numbering))
}

func (c *Console) AppendCard(p content.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.renderer.Segment(content.ProductSegment(0, p), &c.numbering))
}

// OnState is a no-op; the console has no status bar.
func (c *Console) OnState(process.State) {}

// Notice prints a message outside the reply, such as an error notice.
func (c *Console) Notice(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLive()
	c.writeBlock(c.renderer.Styles().ErrorMessage.Render(text))
}

func (c *Console) writeBlock(block string) {
	if block == "" {
		return
	}
	if c.wroteBlock {
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, block)
	c.wroteBlock = true
}

var (
	_ render.Surface       = (*Console)(nil)
	_ render.StateObserver = (*Console)(nil)
)
