package controllers_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vishnuprakaz/sales-assist/pkg/agent"
	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/mockserver"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeClient answers every send with the body its stream func returns.
type fakeClient struct {
	sessionErr error
	sendErr    error
	stream     func(ctx context.Context) io.ReadCloser
}

func (f *fakeClient) CreateSession(context.Context) (string, error) {
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return "session-1", nil
}

func (f *fakeClient) Send(ctx context.Context, _ agent.SendRequest) (io.ReadCloser, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.stream(ctx), nil
}

func staticStream(recorded string) func(context.Context) io.ReadCloser {
	return func(context.Context) io.ReadCloser {
		return io.NopCloser(strings.NewReader(recorded))
	}
}

// pipeStream returns a body fed by the returned writer. The body fails
// with the context error once ctx is done.
func pipeStream(writers chan<- *io.PipeWriter) func(context.Context) io.ReadCloser {
	return func(ctx context.Context) io.ReadCloser {
		pr, pw := io.Pipe()
		go func() {
			<-ctx.Done()
			pw.CloseWithError(ctx.Err())
		}()
		writers <- pw
		return pr
	}
}

type failingBody struct {
	r   io.Reader
	err error
}

func (b *failingBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		return n, b.err
	}
	return n, err
}

func (b *failingBody) Close() error { return nil }

var _ = Describe("ChatController", func() {
	var (
		ctx context.Context
		rec *render.Recorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		rec = render.NewRecorder()
	})

	Context("against the mock agent server", func() {
		var (
			mock       *mockserver.Server
			server     *httptest.Server
			controller *controllers.ChatController
			cleared    atomic.Int32
		)

		BeforeEach(func() {
			cleared.Store(0)
			mock = mockserver.New(mockserver.Options{})
			server = httptest.NewServer(mock)
			controller = controllers.NewChatController(
				agent.NewClient(agent.Config{BaseURL: server.URL}),
				nil,
				controllers.Options{
					SelectionClearDelay: 10 * time.Millisecond,
					OnSelectionCleared:  func() { cleared.Add(1) },
				},
			)
			Expect(controller.Start(ctx)).To(Succeed())
		})

		AfterEach(func() {
			server.Close()
		})

		It("renders a full turn and stores it in the thread", func() {
			msg, err := controller.Submit(ctx, "  speakers under 5000  ", rec)

			Expect(err).NotTo(HaveOccurred())
			Expect(msg.IsAssistant()).To(BeTrue())

			kinds := []content.Kind{}
			for _, seg := range rec.Segments() {
				kinds = append(kinds, seg.Kind)
			}
			Expect(kinds).To(Equal([]content.Kind{content.KindText, content.KindProductList, content.KindText}))

			messages := controller.Thread().Messages()
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].Content).To(Equal("speakers under 5000"))
			Expect(messages[1].Products()).To(HaveLen(2))
			Expect(controller.Busy()).To(BeFalse())
		})

		It("sends the selected cards as context and clears the selection afterwards", func() {
			_, err := controller.Submit(ctx, "speakers", rec)
			Expect(err).NotTo(HaveOccurred())
			Eventually(cleared.Load).Should(BeNumerically("==", 1))

			selected, err := controller.SelectCard(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(selected).To(BeTrue())

			_, err = controller.Submit(ctx, "tell me more", render.NewRecorder())
			Expect(err).NotTo(HaveOccurred())

			runs := mock.Runs()
			Expect(runs).To(HaveLen(2))
			Expect(runs[1].Text).To(ContainSubstring("- Name: JBL Go 3"))

			user := controller.Thread().Messages()[2]
			Expect(user.Content).To(Equal("tell me more [1 product selected]"))

			Eventually(controller.Selection().Len).Should(BeZero())
			Eventually(cleared.Load).Should(BeNumerically("==", 2))
		})

		It("rejects empty messages", func() {
			_, err := controller.Submit(ctx, "   ", rec)

			Expect(err).To(MatchError(controllers.ErrEmptyMessage))
			Expect(controller.Thread().Len()).To(BeZero())
		})

		It("rejects out of range cards", func() {
			_, err := controller.SelectCard(1)
			Expect(err).To(HaveOccurred())
			Expect(controller.UnselectCard(0)).NotTo(Succeed())
		})

		It("resets the conversation", func() {
			_, err := controller.Submit(ctx, "speakers", rec)
			Expect(err).NotTo(HaveOccurred())
			_, _ = controller.SelectCard(1)

			controller.Reset()

			Expect(controller.Thread().Len()).To(BeZero())
			Expect(controller.Selection().Len()).To(BeZero())
		})
	})

	It("adds the connect notice when the session cannot be created", func() {
		controller := controllers.NewChatController(&fakeClient{sessionErr: errors.New("refused")}, nil, controllers.Options{})

		Expect(controller.Start(ctx)).NotTo(Succeed())

		last, ok := controller.Thread().Last()
		Expect(ok).To(BeTrue())
		Expect(last.IsError()).To(BeTrue())
		Expect(last.Content).To(Equal(controllers.ConnectFailedText))
	})

	It("shows the send failure notice without the raw error", func() {
		controller := controllers.NewChatController(&fakeClient{sendErr: errors.New("dial tcp: refused")}, nil, controllers.Options{})

		msg, err := controller.Submit(ctx, "hi", rec)

		Expect(err).To(HaveOccurred())
		Expect(msg.Content).To(Equal(controllers.SendFailedText))
		_, hasLoader := rec.Loader()
		Expect(hasLoader).To(BeFalse())
		Expect(controller.Thread().Len()).To(Equal(2))
	})

	It("keeps the partial reply and adds a notice after an upstream error event", func() {
		client := &fakeClient{stream: staticStream(
			"event: text_chunk\ndata: {\"text\": \"<text>Partial answer</text>\"}\n\n" +
				"event: error\ndata: {\"error\": \"quota exceeded\"}\n\n" +
				"event: complete\ndata: {}\n\n",
		)}
		controller := controllers.NewChatController(client, nil, controllers.Options{})

		msg, err := controller.Submit(ctx, "hi", rec)

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Content).To(Equal(controllers.StreamFailedText))

		messages := controller.Thread().Messages()
		Expect(messages).To(HaveLen(3))
		Expect(messages[1].Segments).To(Equal([]content.Segment{content.TextSegment(0, "Partial answer")}))
		for _, m := range messages {
			Expect(m.Content).NotTo(ContainSubstring("quota"))
		}
	})

	It("finalizes what arrived before a transport failure", func() {
		client := &fakeClient{stream: func(context.Context) io.ReadCloser {
			return &failingBody{
				r:   strings.NewReader("event: text_chunk\ndata: {\"text\": \"<text>Half</text>\"}\n\nevent: text_chu"),
				err: errors.New("connection reset"),
			}
		}}
		controller := controllers.NewChatController(client, nil, controllers.Options{})

		msg, err := controller.Submit(ctx, "hi", rec)

		Expect(err).To(HaveOccurred())
		Expect(msg.Content).To(Equal(controllers.SendFailedText))
		Expect(rec.Segments()).To(Equal([]content.Segment{content.TextSegment(0, "Half")}))
	})

	It("allows a single turn at a time and finalizes on cancel", func() {
		writers := make(chan *io.PipeWriter, 1)
		controller := controllers.NewChatController(&fakeClient{stream: pipeStream(writers)}, nil, controllers.Options{})

		turnCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		type outcome struct {
			msg chat.Message
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			msg, err := controller.Submit(turnCtx, "first", rec)
			done <- outcome{msg, err}
		}()

		var pw *io.PipeWriter
		Eventually(writers).Should(Receive(&pw))
		_, err := pw.Write([]byte("event: text_chunk\ndata: {\"text\": \"Streaming so far\"}\n\n"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() string { text, _ := rec.Text(); return text }).Should(Equal("Streaming so far"))
		Expect(controller.Busy()).To(BeTrue())

		_, err = controller.Submit(ctx, "second", render.NewRecorder())
		Expect(err).To(MatchError(controllers.ErrBusy))

		cancel()

		var result outcome
		Eventually(done).Should(Receive(&result))
		Expect(result.err).To(MatchError(context.Canceled))
		Expect(result.msg.IsAssistant()).To(BeTrue())
		Expect(result.msg.Segments).To(Equal([]content.Segment{content.TextSegment(0, "Streaming so far")}))
		Expect(controller.Busy()).To(BeFalse())
	})
})
