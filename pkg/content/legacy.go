package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

const legacyCardsType = "product_cards"

// Older agents wrapped product payloads in <PRODUCT> or <JSON> blocks.
var legacyFamilies = []tagFamily{
	{name: "product", kind: KindProductList},
	{name: "json", kind: KindProductList},
}

type legacyPayload struct {
	Type     string    `json:"type"`
	Products []Product `json:"products"`
}

// parseLegacy handles text with no current-protocol tags. thinking holds
// any think blocks already matched in the text.
func parseLegacy(text, lower string, thinking []block) Result {
	blocks := append([]block(nil), thinking...)
	for _, b := range scanBlocks(text, lower, legacyFamilies) {
		if !overlapsAny(b, thinking) {
			blocks = append(blocks, b)
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })

	var res Result
	for _, b := range blocks {
		if b.family.kind == KindThinking {
			res.Segments = append(res.Segments, ThinkingSegment(b.start, strings.TrimSpace(b.body)))
			continue
		}

		products, err := decodeLegacy(b.family.name, b.body)
		if err != nil {
			logger.Warn("content: dropping legacy %s block at offset %d: %v", b.family.name, b.start, err)
			continue
		}
		if len(products) > 0 {
			res.Segments = append(res.Segments, ProductListSegment(b.start, products))
		}
	}

	res.Leftover = leftover(text, blocks)
	if res.Leftover != "" {
		res.Segments = append(res.Segments, TextSegment(firstContentOffset(text, blocks), res.Leftover))
		sort.SliceStable(res.Segments, func(i, j int) bool {
			return res.Segments[i].Position < res.Segments[j].Position
		})
	}
	return res
}

func decodeLegacy(name, body string) ([]Product, error) {
	var payload legacyPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(sanitize(body))), &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", name, err)
	}
	if name == "json" && payload.Type != legacyCardsType {
		return nil, fmt.Errorf("json block has type %q, want %q", payload.Type, legacyCardsType)
	}
	return payload.Products, nil
}

func overlapsAny(b block, others []block) bool {
	for _, o := range others {
		if b.start < o.end && o.start < b.end {
			return true
		}
	}
	return false
}

// firstContentOffset is the offset of the first visible character outside
// the blocks, used to order leftover text among the other segments.
func firstContentOffset(text string, blocks []block) int {
	prev := 0
	for _, b := range blocks {
		if idx := visibleIndex(text[prev:b.start]); idx >= 0 {
			return prev + idx
		}
		prev = b.end
	}
	if idx := visibleIndex(text[prev:]); idx >= 0 {
		return prev + idx
	}
	return prev
}

func visibleIndex(gap string) int {
	if cleanLeftover(gap) == "" {
		return -1
	}
	return strings.IndexFunc(gap, func(r rune) bool { return !unicode.IsSpace(r) })
}
