package content_test

import (
	"encoding/json"
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/content"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Product", func() {
	decode := func(raw string) content.Product {
		var p content.Product
		Expect(json.Unmarshal([]byte(raw), &p)).To(Succeed())
		return p
	}

	It("accepts an image list and uses its first entry", func() {
		p := decode(`{"name":"A","image":["https://x/1.png","https://x/2.png"]}`)
		Expect(p.ImageURL()).To(Equal("https://x/1.png"))
	})

	It("uses retailPrice as the price and accepts numbers", func() {
		p := decode(`{"name":"A","retailPrice":1999,"price":"ignored","discountedPrice":1499}`)

		Expect(p.Price).To(Equal("1999"))
		Expect(p.CurrentPrice()).To(Equal("1499"))
		original, ok := p.OriginalPrice()
		Expect(ok).To(BeTrue())
		Expect(original).To(Equal("1999"))
	})

	It("applies display fallbacks", func() {
		p := decode(`{}`)

		Expect(p.DisplayName()).To(Equal(content.UnknownProductName))
		Expect(p.ImageURL()).To(Equal(content.PlaceholderImage))
		Expect(p.CurrentPrice()).To(Equal(content.UnknownPrice))
		_, ok := p.OriginalPrice()
		Expect(ok).To(BeFalse())
	})

	It("computes the discount badge", func() {
		p := decode(`{"retailPrice":"₹2,000","discountedPrice":"₹1,499"}`)

		pct, ok := p.DiscountPercent()
		Expect(ok).To(BeTrue())
		Expect(pct).To(Equal(25))
	})

	It("reports no discount without a saving", func() {
		_, ok := decode(`{"price":"10","discountedPrice":"12"}`).DiscountPercent()
		Expect(ok).To(BeFalse())

		_, ok = decode(`{"price":"call us","discountedPrice":"5"}`).DiscountPercent()
		Expect(ok).To(BeFalse())
	})

	It("identifies products by url, then name", func() {
		Expect(content.Product{Name: "A", URL: "https://shop/a"}.ID()).To(Equal("https://shop/a"))
		Expect(content.Product{Name: "A"}.ID()).To(Equal("A"))
	})

	It("truncates long descriptions", func() {
		p := content.Product{Description: strings.Repeat("x", 100)}

		Expect(p.ShortDescription()).To(Equal(strings.Repeat("x", 80) + "..."))
		Expect(content.Product{Description: "short"}.ShortDescription()).To(Equal("short"))
	})

	It("converts html descriptions to text", func() {
		p := decode(`{"description":"<p>Soft <b>cotton</b></p>"}`)

		Expect(p.Description).NotTo(ContainSubstring("<"))
		Expect(p.Description).To(ContainSubstring("cotton"))
	})

	It("rejects records that are not objects", func() {
		var p content.Product
		Expect(json.Unmarshal([]byte(`"just a string"`), &p)).NotTo(Succeed())
	})
})
