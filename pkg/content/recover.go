package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// sanitize removes C0 and C1 control characters, which agents leak into
// JSON string values, and turns non-breaking spaces into plain spaces.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case r <= 0x1f, r >= 0x7f && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

func decodeProduct(body string) (Product, error) {
	var p Product
	if err := json.Unmarshal([]byte(strings.TrimSpace(sanitize(body))), &p); err != nil {
		return Product{}, fmt.Errorf("decode product: %w", err)
	}
	return p, nil
}

// decodeProductList parses a JSON array of products. When the body is not
// a clean array it tries, in order, the span from the first '[' to the last
// ']' when that '[' opens before any object, then every balanced top-level
// object found in the body.
func decodeProductList(body string) ([]Product, error) {
	clean := strings.TrimSpace(sanitize(body))

	var products []Product
	firstErr := json.Unmarshal([]byte(clean), &products)
	if firstErr == nil {
		return products, nil
	}

	// A '[' after the first '{' belongs to an object field, not the list.
	start := strings.IndexByte(clean, '[')
	if brace := strings.IndexByte(clean, '{'); start >= 0 && (brace < 0 || start < brace) {
		if end := strings.LastIndexByte(clean, ']'); end > start {
			products = nil
			if err := json.Unmarshal([]byte(clean[start:end+1]), &products); err == nil {
				return products, nil
			}
		}
	}

	objects := topLevelObjects(clean)
	if len(objects) > 0 {
		products = nil
		joined := "[" + strings.Join(objects, ",") + "]"
		if err := json.Unmarshal([]byte(joined), &products); err == nil {
			return products, nil
		}

		// Keep whichever objects decode on their own.
		products = nil
		for _, obj := range objects {
			var p Product
			if err := json.Unmarshal([]byte(obj), &p); err == nil {
				products = append(products, p)
			}
		}
		if len(products) > 0 {
			return products, nil
		}
	}

	return nil, fmt.Errorf("decode product list: %w", firstErr)
}

// topLevelObjects returns every balanced {...} substring that is not nested
// in another object. Braces inside JSON strings are ignored.
func topLevelObjects(s string) []string {
	var (
		objects  []string
		depth    int
		start    int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					objects = append(objects, s[start:i+1])
				}
			}
		}
	}

	return objects
}
