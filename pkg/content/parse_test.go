package content_test

import (
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/content"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func kinds(res content.Result) []content.Kind {
	var out []content.Kind
	for _, seg := range res.Segments {
		out = append(out, seg.Kind)
	}
	return out
}

var _ = Describe("Parse", func() {
	It("keeps segments in source order", func() {
		text := `<text>Intro</text><productcard>{"name":"A"}</productcard><text>Middle</text>` +
			`<productcardList>[{"name":"B"},{"name":"C"}]</productcardList><text>Outro</text>`

		res := content.Parse(text)

		Expect(kinds(res)).To(Equal([]content.Kind{
			content.KindText, content.KindProduct, content.KindText, content.KindProductList, content.KindText,
		}))
		Expect(res.Segments[0].Body).To(Equal("Intro"))
		Expect(res.Segments[1].Product().Name).To(Equal("A"))
		Expect(res.Segments[2].Body).To(Equal("Middle"))
		Expect(res.Segments[3].Products).To(HaveLen(2))
		Expect(res.Segments[4].Body).To(Equal("Outro"))

		for i := 1; i < len(res.Segments); i++ {
			Expect(res.Segments[i].Position).To(BeNumerically(">", res.Segments[i-1].Position))
		}
	})

	It("records the opening tag offset as the position", func() {
		text := "Hi <text>a</text> <productcard>{\"name\":\"A\"}</productcard>"
		res := content.Parse(text)

		Expect(res.Segments[0].Position).To(Equal(strings.Index(text, "<text>")))
		Expect(res.Segments[1].Position).To(Equal(strings.Index(text, "<productcard>")))
	})

	It("matches tags case-insensitively", func() {
		res := content.Parse(`<TEXT>Hello</Text><ProductCardList>[{"name":"A"}]</PRODUCTCARDLIST>`)

		Expect(kinds(res)).To(Equal([]content.Kind{content.KindText, content.KindProductList}))
	})

	It("never merges adjacent text blocks", func() {
		res := content.Parse("<text>one</text><text>two</text>")

		Expect(res.Texts()).To(Equal([]string{"one", "two"}))
	})

	It("isolates a malformed product card", func() {
		res := content.Parse(`<text>Before</text><productcard>{"name": oops}</productcard><text>After</text>`)

		Expect(kinds(res)).To(Equal([]content.Kind{content.KindText, content.KindText}))
		Expect(res.Texts()).To(Equal([]string{"Before", "After"}))
	})

	It("skips unclosed tags and keeps scanning", func() {
		res := content.Parse(`<text>dangling <productcard>{"name":"A"}</productcard>`)

		Expect(kinds(res)).To(Equal([]content.Kind{content.KindProduct}))
	})

	It("is idempotent", func() {
		text := `<text>Hi</text><productcardList>[{"name":"A"}]</productcardList>`

		Expect(content.Parse(text)).To(Equal(content.Parse(text)))
	})

	It("extends the previous result when more complete tags arrive", func() {
		first := `<text>Hi</text><productcard>{"name":"A"}</productcard>`
		second := first + `<text>More</text>`

		a := content.Parse(first)
		b := content.Parse(second)

		Expect(b.Segments[:len(a.Segments)]).To(Equal(a.Segments))
		Expect(b.Segments).To(HaveLen(len(a.Segments) + 1))
	})

	It("returns nothing for empty input", func() {
		res := content.Parse("   ")

		Expect(res.Segments).To(BeEmpty())
		Expect(res.DisplayText()).To(BeEmpty())
	})

	Describe("product lists", func() {
		It("recovers an array wrapped in prose", func() {
			res := content.Parse(`<productcardList>Here you go: [{"name":"A"},{"name":"B"}] enjoy</productcardList>`)

			Expect(res.Segments).To(HaveLen(1))
			Expect(res.Products()).To(HaveLen(2))
		})

		It("recovers bare objects without brackets", func() {
			res := content.Parse(`<productcardList>{"name":"A"} {"name":"B", "description":"has } brace"}</productcardList>`)

			Expect(res.Products()).To(Equal([]content.Product{
				{Name: "A"},
				{Name: "B", Description: "has } brace"},
			}))
		})

		It("does not mistake a nested array for the list", func() {
			res := content.Parse(`<productcardList>{"name":"A","variants":[{"sku":"1"}]}{"name":"B"}</productcardList>`)

			Expect(res.Products()).To(Equal([]content.Product{{Name: "A"}, {Name: "B"}}))
		})

		It("keeps the objects that decode when others are broken", func() {
			res := content.Parse(`<productcardList>[{"name":"A"}, {"name": nope}]</productcardList>`)

			Expect(res.Products()).To(Equal([]content.Product{{Name: "A"}}))
		})

		It("strips control characters and non-breaking spaces", func() {
			res := content.Parse("<productcardList>[{\"name\":\"Blue Tee\",\n\"brand\":\"Acme\x01\"}]</productcardList>")

			Expect(res.Products()).To(Equal([]content.Product{{Name: "Blue Tee", Brand: "Acme"}}))
		})

		It("drops an unrecoverable list", func() {
			res := content.Parse(`<text>x</text><productcardList>no products here</productcardList>`)

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindText}))
		})

		It("drops an empty list", func() {
			res := content.Parse(`<text>x</text><productcardList>[]</productcardList>`)

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindText}))
		})
	})

	Describe("legacy blocks", func() {
		It("reads PRODUCT blocks when no current tags are present", func() {
			res := content.Parse(`Some intro <PRODUCT>{"products":[{"name":"A"}]}</PRODUCT>`)

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindText, content.KindProductList}))
			Expect(res.Segments[0].Body).To(Equal("Some intro"))
			Expect(res.Products()).To(Equal([]content.Product{{Name: "A"}}))
		})

		It("reads JSON blocks typed as product cards", func() {
			res := content.Parse(`<JSON>{"type":"product_cards","products":[{"name":"A"}]}</JSON> trailing words`)

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindProductList, content.KindText}))
			Expect(res.Segments[1].Body).To(Equal("trailing words"))
		})

		It("ignores JSON blocks of other types", func() {
			res := content.Parse(`<JSON>{"type":"other","products":[{"name":"A"}]}</JSON>`)

			Expect(res.Segments).To(BeEmpty())
		})

		It("turns plain text into a single text segment", func() {
			res := content.Parse("Hello world")

			Expect(res.Segments).To(Equal([]content.Segment{content.TextSegment(0, "Hello world")}))
			Expect(res.DisplayText()).To(Equal("Hello world"))
		})

		It("ignores legacy blocks once current tags are present", func() {
			res := content.Parse(`<text>Hi</text><PRODUCT>{"products":[{"name":"A"}]}</PRODUCT>`)

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindText}))
		})
	})

	Describe("display text", func() {
		It("prefers structured text over leftover text", func() {
			res := content.Parse("stray words <text>Real answer</text> more stray")

			Expect(res.Leftover).To(Equal("stray words\nmore stray"))
			Expect(res.DisplayText()).To(Equal("Real answer"))
		})

		It("joins text blocks with a blank line", func() {
			Expect(content.Parse("<text>a</text><text>b</text>").DisplayText()).To(Equal("a\n\nb"))
		})

		It("is empty for product-only messages", func() {
			Expect(content.Parse(`<productcard>{"name":"A"}</productcard>`).DisplayText()).To(BeEmpty())
		})
	})

	Describe("thinking blocks", func() {
		It("emits thinking segments in order", func() {
			res := content.Parse("<think>planning</think><text>Answer</text>")

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindThinking, content.KindText}))
			Expect(res.Segments[0].Body).To(Equal("planning"))
			Expect(res.DisplayText()).To(Equal("Answer"))
		})

		It("keeps untagged text next to thinking blocks", func() {
			res := content.Parse("<thinking>hmm</thinking>\nPlain reply")

			Expect(kinds(res)).To(Equal([]content.Kind{content.KindThinking, content.KindText}))
			Expect(res.DisplayText()).To(Equal("Plain reply"))
		})
	})

	It("extracts text bodies", func() {
		Expect(content.ExtractText("<text>a</text>x<text> b </text>")).To(Equal([]string{"a", "b"}))
	})
})
