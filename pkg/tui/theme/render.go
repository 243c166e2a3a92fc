package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
)

const maxCardWidth = 56

// Renderer turns message content into styled terminal text.
type Renderer struct {
	styles   *Styles
	width    int
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at width. markdownStyle is a
// glamour standard style name such as "dark" or "notty".
func NewRenderer(width int, markdownStyle string) *Renderer {
	if width < 20 {
		width = 20
	}
	if markdownStyle == "" {
		markdownStyle = "notty"
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("Markdown renderer unavailable, using plain text: %v", err)
		md = nil
	}

	return &Renderer{styles: DefaultStyles(), width: width, markdown: md}
}

func (r *Renderer) Width() int {
	return r.width
}

func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Markdown renders text as markdown, falling back to the raw text.
func (r *Renderer) Markdown(text string) string {
	if r.markdown == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := r.markdown.Render(text)
	if err != nil {
		logger.Debug("Markdown render failed: %v", err)
		return text
	}
	return strings.Trim(out, "\n")
}

// Thinking renders reasoning text.
func (r *Renderer) Thinking(text string) string {
	return r.styles.ThinkingMessage.Width(r.width).Render("💭 " + text)
}

// Card renders one product card. number is the card's position in the
// thread, used by the select commands.
func (r *Renderer) Card(p content.Product, number int, selected bool) string {
	inner := r.cardWidth() - 4
	var lines []string

	title := runewidth.Truncate(p.DisplayName(), inner-6, "...")
	lines = append(lines, r.styles.CardIndex.Render(fmt.Sprintf("[%d] ", number))+r.styles.CardTitle.Render(title))

	if p.Brand != "" {
		lines = append(lines, r.styles.CardBrand.Render("by "+p.Brand))
	}

	price := r.styles.CardPrice.Render(p.CurrentPrice())
	if original, ok := p.OriginalPrice(); ok {
		price += " " + r.styles.CardStrike.Render(original)
	}
	if pct, ok := p.DiscountPercent(); ok {
		price += " " + r.styles.CardBadge.Render(fmt.Sprintf("%d%% OFF", pct))
	}
	lines = append(lines, price)

	if desc := p.ShortDescription(); desc != "" {
		lines = append(lines, r.styles.CardDesc.Width(inner).Render(desc))
	}
	if p.URL != "" {
		lines = append(lines, r.styles.CardURL.Render(runewidth.Truncate(p.URL, inner, "...")))
	}

	style := r.styles.Card
	if selected {
		style = r.styles.CardSelected
	}
	return style.Width(r.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (r *Renderer) cardWidth() int {
	if r.width < maxCardWidth {
		return r.width
	}
	return maxCardWidth
}

// ListHeader renders the heading shown above a product list.
// A count of zero gives a header without a number, for lists whose cards
// are still arriving.
func (r *Renderer) ListHeader(count int) string {
	if count <= 0 {
		return r.styles.ListHeader.Render("🛍  Products")
	}
	noun := "products"
	if count == 1 {
		noun = "product"
	}
	return r.styles.ListHeader.Render(fmt.Sprintf("🛍  %d %s", count, noun))
}

// CardNumbering assigns thread-wide numbers to cards and reports which are
// selected.
type CardNumbering struct {
	Next     int
	Selected func(id string) bool
}

func (n *CardNumbering) take(p content.Product) (int, bool) {
	if n.Next == 0 {
		n.Next = 1
	}
	num := n.Next
	n.Next++
	return num, n.Selected != nil && n.Selected(p.ID())
}

// Segments renders finalized segments in order.
func (r *Renderer) Segments(segs []content.Segment, numbering *CardNumbering) string {
	var blocks []string
	for _, seg := range segs {
		if block := r.Segment(seg, numbering); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// Segment renders one segment. Thinking segments are only passed in when
// they should be shown.
func (r *Renderer) Segment(seg content.Segment, numbering *CardNumbering) string {
	if numbering == nil {
		numbering = &CardNumbering{}
	}

	switch seg.Kind {
	case content.KindText:
		return r.Markdown(seg.Body)
	case content.KindThinking:
		return r.Thinking(seg.Body)
	case content.KindProduct:
		num, sel := numbering.take(seg.Product())
		return r.Card(seg.Product(), num, sel)
	case content.KindProductList:
		parts := []string{r.ListHeader(len(seg.Products))}
		for _, p := range seg.Products {
			num, sel := numbering.take(p)
			parts = append(parts, r.Card(p, num, sel))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return ""
}

// Loader renders a placeholder. spin is the current spinner frame.
func (r *Renderer) Loader(l render.Loader, spin string) string {
	icon := l.Icon
	if icon == "" {
		icon = spin
	}

	head := r.styles.Loader.Render(strings.TrimSpace(icon + " " + l.Message))
	if l.Kind == render.LoaderThinking && spin != "" {
		head = r.styles.Loader.Render(spin + " " + l.Message + "...")
	}

	parts := []string{head}
	if l.Subtext != "" {
		parts = append(parts, r.styles.LoaderSubtext.Render(l.Subtext))
	}
	for i := 0; i < l.Placeholders; i++ {
		parts = append(parts, r.styles.Skeleton.Width(r.cardWidth()).Render(strings.Repeat("░", r.cardWidth()/2)))
	}
	return strings.Join(parts, "\n")
}
