package chat

import (
	"fmt"
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
)

// ComposeText appends the selected products to the user's text so the agent
// sees what they refer to.
func ComposeText(text string, selected []content.Product) string {
	if len(selected) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n[Context - Selected Products]:\n")
	for i, p := range selected {
		fmt.Fprintf(&b, "\nProduct %d:\n", i+1)
		fmt.Fprintf(&b, "- Name: %s\n", p.Name)
		fmt.Fprintf(&b, "- Price: %s\n", firstNonEmpty(p.DiscountedPrice, p.Price))
		if p.Brand != "" {
			fmt.Fprintf(&b, "- Brand: %s\n", p.Brand)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "- Description: %s\n", p.Description)
		}
	}
	return b.String()
}

// DisplayText is what the thread shows for a submission: the typed text
// plus a note of what was sent with it.
func DisplayText(text string, products, files int) string {
	text = strings.TrimSpace(text)
	if products > 0 {
		text += fmt.Sprintf(" [%s selected]", plural(products, "product"))
	}
	if files > 0 {
		text += fmt.Sprintf(" [%s attached]", plural(files, "file"))
	}
	return strings.TrimSpace(text)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
