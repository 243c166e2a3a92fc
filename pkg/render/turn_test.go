package render_test

import (
	"context"
	"strings"
	"time"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/process"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Turn", func() {
	var (
		rec  *render.Recorder
		turn *render.Turn
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		rec = render.NewRecorder()
		turn = render.NewTurn(rec, render.Options{})
	})

	It("starts with the thinking loader", func() {
		loader, ok := rec.Loader()
		Expect(ok).To(BeTrue())
		Expect(loader.Kind).To(Equal(render.LoaderThinking))
		Expect(turn.State()).To(Equal(process.StateIdle))
	})

	Describe("text chunks", func() {
		It("renders exactly the concatenated text", func() {
			chunks := []string{"Hel", "lo", " ", "wor", "ld", "!"}
			for _, c := range chunks {
				turn.OnText(c)
			}

			text, style := rec.Text()
			Expect(text).To(Equal(strings.Join(chunks, "")))
			Expect(style).To(Equal(render.StylePlain))
			_, hasLoader := rec.Loader()
			Expect(hasLoader).To(BeFalse())
			Expect(turn.State()).To(Equal(process.StateStreaming))
		})

		It("appends only the unseen suffix", func() {
			turn.OnText("Hello")
			turn.OnText(" world")

			Expect(rec.Ops()).To(HaveExactElements(
				"loader:0",
				"replace:Hello",
				"append: world",
			))
		})

		It("ignores empty chunks", func() {
			turn.OnText("")

			Expect(turn.State()).To(Equal(process.StateIdle))
		})
	})

	Describe("tool calls", func() {
		It("shows a query-specific loader for search calls", func() {
			turn.OnFunctionCall(stream.FunctionCall{
				Name: "rag_search_agent",
				Args: map[string]any{"request": "bluetooth speakers under 2000"},
			})

			loader, ok := rec.Loader()
			Expect(ok).To(BeTrue())
			Expect(loader.Kind).To(Equal(render.LoaderFunction))
			Expect(loader.Message).To(Equal("Finding excellent speakers for you"))
			Expect(turn.State()).To(Equal(process.StateToolRunning))
		})

		It("shows the skeleton after the tool returns", func() {
			turn.OnFunctionCall(stream.FunctionCall{Name: "rag_search_agent"})
			turn.OnFunctionResponse(stream.FunctionResponse{})

			loader, ok := rec.Loader()
			Expect(ok).To(BeTrue())
			Expect(loader.Kind).To(Equal(render.LoaderSkeleton))
			Expect(loader.Placeholders).To(Equal(3))
			Expect(turn.State()).To(Equal(process.StateToolDone))
		})

		It("replaces the loader when text resumes", func() {
			turn.OnFunctionCall(stream.FunctionCall{Name: "lookup"})
			turn.OnText("Found them")

			_, hasLoader := rec.Loader()
			Expect(hasLoader).To(BeFalse())
			text, _ := rec.Text()
			Expect(text).To(Equal("Found them"))
		})
	})

	Describe("full messages", func() {
		It("shows the structured text of a snapshot", func() {
			turn.OnMessage(stream.FullMessage{Content: `<text>Hi there</text><productcard>{"name":"A"}</productcard>`})

			text, _ := rec.Text()
			Expect(text).To(Equal("Hi there"))
		})

		It("does not re-render an unchanged snapshot", func() {
			msg := stream.FullMessage{Content: "<text>Same</text>"}
			turn.OnMessage(msg)
			turn.OnMessage(msg)

			replaces := 0
			for _, op := range rec.Ops() {
				if strings.HasPrefix(op, "replace:") {
					replaces++
				}
			}
			Expect(replaces).To(Equal(1))
		})

		It("renders thinking snapshots in the thinking style", func() {
			turn.OnMessage(stream.FullMessage{Content: "Let me look", Thinking: true})

			text, style := rec.Text()
			Expect(text).To(Equal("Let me look"))
			Expect(style).To(Equal(render.StyleThinking))
			Expect(turn.State()).To(Equal(process.StateThinking))
		})

		It("hides untagged snapshots once a tool was called", func() {
			turn.OnFunctionCall(stream.FunctionCall{Name: "rag_search_agent"})
			turn.OnMessage(stream.FullMessage{Content: `{"results": [1,2,3]}`})

			loader, ok := rec.Loader()
			Expect(ok).To(BeTrue())
			Expect(loader.Kind).To(Equal(render.LoaderFunction))
		})
	})

	Describe("Finalize", func() {
		It("renders the whole message from the accumulated text", func() {
			turn.OnText("<text>Here are")
			turn.OnText(` options</text><productcard>{"name":"X"}</productcard>`)
			turn.OnComplete()

			res := turn.Finalize(ctx)

			Expect(res.Segments).To(HaveLen(2))
			Expect(rec.Segments()).To(Equal([]content.Segment{
				content.TextSegment(0, "Here are options"),
				content.ProductSegment(strings.Index(turn.FullText(), "<productcard>"), content.Product{Name: "X"}),
			}))
			text, _ := rec.Text()
			Expect(text).To(BeEmpty())
			Expect(turn.Completed()).To(BeTrue())
			Expect(turn.State()).To(Equal(process.StateFinalized))
		})

		It("overrides whatever the incremental render showed", func() {
			turn.OnMessage(stream.FullMessage{Content: "<text>Draft</text>"})
			turn.OnMessage(stream.FullMessage{Content: "<text>Final answer</text>"})

			turn.Finalize(ctx)

			Expect(rec.Segments()).To(Equal([]content.Segment{content.TextSegment(0, "Final answer")}))
		})

		It("reveals product lists card by card", func() {
			turn.OnText(`<productcardList>[{"name":"A"},{"name":"B"}]</productcardList>`)
			turn.Finalize(ctx)

			ops := rec.Ops()
			Expect(ops[len(ops)-5:]).To(HaveExactElements(
				"clear",
				"loader:3",
				"segment:product_list",
				"card:A",
				"card:B",
			))
			segs := rec.Segments()
			Expect(segs).To(HaveLen(1))
			Expect(segs[0].Products).To(Equal([]content.Product{{Name: "A"}, {Name: "B"}}))
		})

		It("is idempotent", func() {
			turn.OnText("<text>Once</text>")
			first := turn.Finalize(ctx)
			opsAfterFirst := rec.Ops()

			second := turn.Finalize(ctx)

			Expect(second).To(Equal(first))
			Expect(rec.Ops()).To(Equal(opsAfterFirst))
		})

		It("ignores events that arrive after finalizing", func() {
			turn.OnText("<text>Done</text>")
			turn.Finalize(ctx)

			turn.OnText("late")
			turn.OnFunctionCall(stream.FunctionCall{Name: "rag_search_agent"})

			Expect(rec.Segments()).To(Equal([]content.Segment{content.TextSegment(0, "Done")}))
			_, hasLoader := rec.Loader()
			Expect(hasLoader).To(BeFalse())
		})

		It("hides thinking segments unless enabled", func() {
			turn.OnText("<think>plan</think><text>Answer</text>")
			turn.Finalize(ctx)
			Expect(rec.Segments()).To(HaveLen(1))

			rec = render.NewRecorder()
			turn = render.NewTurn(rec, render.Options{ShowThinking: true})
			turn.OnText("<think>plan</think><text>Answer</text>")
			turn.Finalize(ctx)
			Expect(rec.Segments()).To(HaveLen(2))
			Expect(rec.Segments()[0].Kind).To(Equal(content.KindThinking))
		})

		It("still settles when pacing is cancelled", func() {
			paced := render.NewTurn(rec, render.Options{
				Scheduler: render.Paced{},
				Pacing:    render.Pacing{Text: time.Hour, Card: time.Hour, ListLoading: time.Hour, ListCard: time.Hour},
			})
			paced.OnText(`<text>a</text><productcardList>[{"name":"A"}]</productcardList><text>b</text>`)

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			done := make(chan content.Result, 1)
			go func() { done <- paced.Finalize(cancelled) }()

			Eventually(done).Should(Receive())
			Expect(rec.Segments()).To(HaveLen(3))
			Expect(paced.State()).To(Equal(process.StateFinalized))
		})

		It("finalizes partial text after an upstream error", func() {
			turn.OnText("<text>Partial")
			turn.OnError(stream.StreamError{Message: "quota exceeded"})

			res := turn.Finalize(ctx)

			Expect(turn.Failed()).To(BeTrue())
			Expect(turn.Errors()).To(Equal([]string{"quota exceeded"}))
			Expect(res.DisplayText()).To(Equal("Partial"))
		})
	})

	It("reports state transitions to observing surfaces", func() {
		turn.OnText("Looking")
		turn.OnFunctionCall(stream.FunctionCall{Name: "rag_search_agent"})
		turn.OnFunctionResponse(stream.FunctionResponse{})
		turn.OnText(" done")
		turn.Finalize(ctx)

		Expect(rec.States()).To(Equal([]process.State{
			process.StateIdle,
			process.StateStreaming,
			process.StateToolRunning,
			process.StateToolDone,
			process.StateStreaming,
			process.StateFinalizing,
			process.StateFinalized,
		}))
	})
})
