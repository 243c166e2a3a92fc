package content

import "strings"

// Kind identifies what a segment renders as.
type Kind int

const (
	KindText Kind = iota
	KindThinking
	KindProduct
	KindProductList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindThinking:
		return "thinking"
	case KindProduct:
		return "product"
	case KindProductList:
		return "product_list"
	default:
		return "unknown"
	}
}

// Segment is one ordered unit of parsed message content. Position is the
// byte offset of the segment's opening tag in the source text.
type Segment struct {
	Kind     Kind
	Position int
	Body     string
	Products []Product
}

func TextSegment(pos int, body string) Segment {
	return Segment{Kind: KindText, Position: pos, Body: body}
}

func ThinkingSegment(pos int, body string) Segment {
	return Segment{Kind: KindThinking, Position: pos, Body: body}
}

func ProductSegment(pos int, p Product) Segment {
	return Segment{Kind: KindProduct, Position: pos, Products: []Product{p}}
}

func ProductListSegment(pos int, products []Product) Segment {
	return Segment{Kind: KindProductList, Position: pos, Products: products}
}

// Product returns the record of a single product segment.
func (s Segment) Product() Product {
	if len(s.Products) == 0 {
		return Product{}
	}
	return s.Products[0]
}

// Result is the outcome of parsing one message.
type Result struct {
	Segments []Segment
	// Leftover is the text found outside any recognised tag, with stray
	// tags removed.
	Leftover string
	// Structured reports whether any tag of the current protocol matched.
	Structured bool
}

// Texts returns the bodies of all text segments in order.
func (r Result) Texts() []string {
	var texts []string
	for _, seg := range r.Segments {
		if seg.Kind == KindText {
			texts = append(texts, seg.Body)
		}
	}
	return texts
}

// Products returns every product in segment order.
func (r Result) Products() []Product {
	var products []Product
	for _, seg := range r.Segments {
		if seg.Kind == KindProduct || seg.Kind == KindProductList {
			products = append(products, seg.Products...)
		}
	}
	return products
}

// DisplayText is the plain text to show for the message. Structured text
// blocks win; leftover text is only used when there are none, so the two
// never appear together.
func (r Result) DisplayText() string {
	if r.Structured {
		return strings.Join(r.Texts(), "\n\n")
	}
	return r.Leftover
}

// CloneSegments copies segs and the product slices they hold.
func CloneSegments(segs []Segment) []Segment {
	if segs == nil {
		return nil
	}
	out := make([]Segment, len(segs))
	for i, seg := range segs {
		seg.Products = append([]Product(nil), seg.Products...)
		out[i] = seg
	}
	return out
}
