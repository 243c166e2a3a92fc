package content

import (
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

type tagFamily struct {
	name string
	kind Kind
}

// families are tried longest first so "productcardList" is not read as
// "productcard" and "thinking" is not read as "think".
var families = []tagFamily{
	{name: "productcardlist", kind: KindProductList},
	{name: "productcard", kind: KindProduct},
	{name: "thinking", kind: KindThinking},
	{name: "think", kind: KindThinking},
	{name: "text", kind: KindText},
}

// block is one matched tag pair in the source text.
type block struct {
	family tagFamily
	start  int // offset of '<' of the opening tag
	end    int // offset just past the closing tag
	body   string
}

// Parse splits message text into ordered segments. It is pure: the same
// input always yields the same result. Tags are matched case-insensitively
// in a single forward scan; each opening tag pairs with the next closing
// tag of its own family, and unclosed tags are skipped.
func Parse(text string) Result {
	lower := asciiLower(text)
	blocks := scanBlocks(text, lower, families)

	structured := false
	for _, b := range blocks {
		if b.family.kind != KindThinking {
			structured = true
			break
		}
	}
	if !structured {
		return parseLegacy(text, lower, blocks)
	}

	res := Result{Structured: true}
	for _, b := range blocks {
		if seg, ok := blockSegment(b); ok {
			res.Segments = append(res.Segments, seg)
		}
	}
	res.Leftover = leftover(text, blocks)
	return res
}

// ExtractText returns the bodies of the text blocks, in order.
func ExtractText(text string) []string {
	return Parse(text).Texts()
}

func scanBlocks(text, lower string, fams []tagFamily) []block {
	var blocks []block

	for i := 0; i < len(lower); {
		open := strings.IndexByte(lower[i:], '<')
		if open < 0 {
			break
		}
		open += i

		fam, bodyStart, ok := matchOpenTag(lower, open, fams)
		if !ok {
			i = open + 1
			continue
		}

		closeTag := "</" + fam.name + ">"
		closeIdx := strings.Index(lower[bodyStart:], closeTag)
		if closeIdx < 0 {
			i = bodyStart
			continue
		}
		closeIdx += bodyStart

		blocks = append(blocks, block{
			family: fam,
			start:  open,
			end:    closeIdx + len(closeTag),
			body:   text[bodyStart:closeIdx],
		})
		i = closeIdx + len(closeTag)
	}

	return blocks
}

// matchOpenTag reports which family's opening tag starts at pos and where
// its body begins.
func matchOpenTag(lower string, pos int, fams []tagFamily) (tagFamily, int, bool) {
	for _, fam := range fams {
		tag := "<" + fam.name + ">"
		if strings.HasPrefix(lower[pos:], tag) {
			return fam, pos + len(tag), true
		}
	}
	return tagFamily{}, 0, false
}

func blockSegment(b block) (Segment, bool) {
	switch b.family.kind {
	case KindText:
		return TextSegment(b.start, strings.TrimSpace(b.body)), true

	case KindThinking:
		return ThinkingSegment(b.start, strings.TrimSpace(b.body)), true

	case KindProduct:
		p, err := decodeProduct(b.body)
		if err != nil {
			logger.Warn("content: dropping product card at offset %d: %v", b.start, err)
			return Segment{}, false
		}
		return ProductSegment(b.start, p), true

	case KindProductList:
		products, err := decodeProductList(b.body)
		if err != nil {
			logger.Warn("content: dropping product list at offset %d: %v", b.start, err)
			return Segment{}, false
		}
		if len(products) == 0 {
			logger.Debug("content: dropping empty product list at offset %d", b.start)
			return Segment{}, false
		}
		return ProductListSegment(b.start, products), true
	}
	return Segment{}, false
}

// leftover returns the text outside the matched blocks with stray tags
// removed.
func leftover(text string, blocks []block) string {
	var pieces []string
	prev := 0
	for _, blk := range blocks {
		if gap := strings.TrimSpace(text[prev:blk.start]); gap != "" {
			pieces = append(pieces, gap)
		}
		prev = blk.end
	}
	if gap := strings.TrimSpace(text[prev:]); gap != "" {
		pieces = append(pieces, gap)
	}
	return cleanLeftover(strings.Join(pieces, "\n"))
}

func cleanLeftover(s string) string {
	s = stripStrayTags(s)
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

var strayTagNames = []string{"productcardlist", "productcard", "thinking", "think", "text", "product", "json"}

// stripStrayTags removes unmatched opening or closing tags of every known
// family.
func stripStrayTags(s string) string {
	lower := asciiLower(s)
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if n := strayTagLen(lower[i:]); n > 0 {
				i += n
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func strayTagLen(lower string) int {
	rest := lower[1:]
	prefix := 1
	if strings.HasPrefix(rest, "/") {
		rest = rest[1:]
		prefix++
	}
	for _, name := range strayTagNames {
		if strings.HasPrefix(rest, name+">") {
			return prefix + len(name) + 1
		}
	}
	return 0
}

// asciiLower lowercases ASCII letters only, so byte offsets stay aligned
// with the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
