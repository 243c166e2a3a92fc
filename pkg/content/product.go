package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/k3a/html2text"
	"github.com/mattn/go-runewidth"
)

const (
	PlaceholderImage   = "https://placehold.co/80x80?text=No+Image"
	UnknownProductName = "Unknown Product"
	UnknownPrice       = "N/A"

	descriptionLimit = 80
)

// Product is one product record as emitted by the agent. Every field is
// optional; the accessors apply display fallbacks.
type Product struct {
	Name            string `json:"name,omitempty"`
	URL             string `json:"url,omitempty"`
	Image           string `json:"image,omitempty"`
	Price           string `json:"price,omitempty"`
	DiscountedPrice string `json:"discountedPrice,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Description     string `json:"description,omitempty"`
}

type wireProduct struct {
	Name            flexString      `json:"name"`
	URL             flexString      `json:"url"`
	Image           json.RawMessage `json:"image"`
	Price           flexString      `json:"price"`
	RetailPrice     flexString      `json:"retailPrice"`
	DiscountedPrice flexString      `json:"discountedPrice"`
	Brand           flexString      `json:"brand"`
	Description     flexString      `json:"description"`
}

// UnmarshalJSON accepts the loosely typed records agents produce: image as
// a string or list, prices as strings or numbers, retailPrice as an alias
// for price.
func (p *Product) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return fmt.Errorf("product record must be an object, got %s", truncate(string(data), 20))
	}

	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Product{
		Name:            strings.TrimSpace(string(w.Name)),
		URL:             strings.TrimSpace(string(w.URL)),
		Image:           firstImage(w.Image),
		Price:           strings.TrimSpace(string(w.RetailPrice)),
		DiscountedPrice: strings.TrimSpace(string(w.DiscountedPrice)),
		Brand:           strings.TrimSpace(string(w.Brand)),
		Description:     cleanDescription(string(w.Description)),
	}
	if p.Price == "" {
		p.Price = strings.TrimSpace(string(w.Price))
	}
	return nil
}

// ID is the selection identity: the URL when present, else the name.
func (p Product) ID() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Name
}

func (p Product) DisplayName() string {
	if p.Name == "" {
		return UnknownProductName
	}
	return p.Name
}

func (p Product) ImageURL() string {
	if p.Image == "" {
		return PlaceholderImage
	}
	return p.Image
}

// CurrentPrice is the discounted price when present, else the regular one.
func (p Product) CurrentPrice() string {
	if p.DiscountedPrice != "" {
		return p.DiscountedPrice
	}
	if p.Price != "" {
		return p.Price
	}
	return UnknownPrice
}

// OriginalPrice returns the struck-through price shown next to a discount.
func (p Product) OriginalPrice() (string, bool) {
	if p.DiscountedPrice == "" || p.Price == "" || p.DiscountedPrice == p.Price {
		return "", false
	}
	return p.Price, true
}

// DiscountPercent is round((retail-discounted)/retail*100). It reports false
// when either price is missing or not numeric, or there is no saving.
func (p Product) DiscountPercent() (int, bool) {
	if p.DiscountedPrice == "" || p.Price == "" {
		return 0, false
	}
	retail, ok := parsePrice(p.Price)
	if !ok || retail <= 0 {
		return 0, false
	}
	discounted, ok := parsePrice(p.DiscountedPrice)
	if !ok || discounted >= retail {
		return 0, false
	}
	return int(math.Round((retail - discounted) / retail * 100)), true
}

// ShortDescription truncates the description to the card excerpt length.
func (p Product) ShortDescription() string {
	return truncate(p.Description, descriptionLimit)
}

// parsePrice reads the numeric value out of strings such as "₹1,299.00" or
// "$45".
func parsePrice(s string) (float64, bool) {
	var b strings.Builder
loop:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
		default:
			if b.Len() > 0 {
				break loop
			}
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func truncate(s string, limit int) string {
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "") + "..."
}

func firstImage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		return strings.TrimSpace(single)
	}

	var list []flexString
	if err := json.Unmarshal(trimmed, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(string(list[0]))
	}
	return ""
}

func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "<&") {
		s = strings.TrimSpace(html2text.HTML2Text(s))
	}
	return s
}

// flexString decodes JSON strings, numbers and booleans into their text
// form; null and other values decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*f = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case 't', 'f':
		*f = flexString(string(trimmed))
	case 'n', '{', '[':
		*f = ""
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}
