package agent_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/vishnuprakaz/sales-assist/pkg/agent"
	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/mockserver"
	"github.com/vishnuprakaz/sales-assist/pkg/sse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		mock   *mockserver.Server
		server *httptest.Server
		client *agent.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = mockserver.New(mockserver.Options{})
		server = httptest.NewServer(mock)
		client = agent.NewClient(agent.Config{BaseURL: server.URL + "/"})
	})

	AfterEach(func() {
		server.Close()
	})

	It("applies defaults", func() {
		c := agent.NewClient(agent.Config{})
		Expect(c.Config().BaseURL).To(Equal(agent.DefaultBaseURL))
		Expect(c.Config().AppName).To(Equal("rag_agent"))
		Expect(c.Config().UserID).To(Equal("user"))
	})

	It("creates a session", func() {
		id, err := client.CreateSession(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeEmpty())
		Expect(client.SessionID()).To(Equal(id))
	})

	It("refuses to send without a session", func() {
		_, err := client.Send(ctx, agent.SendRequest{Text: "hi"})

		Expect(err).To(MatchError(agent.ErrNoSession))
	})

	It("returns the event stream body", func() {
		_, err := client.CreateSession(ctx)
		Expect(err).NotTo(HaveOccurred())

		body, err := client.Send(ctx, agent.SendRequest{Text: "speakers please"})
		Expect(err).NotTo(HaveOccurred())
		defer body.Close()

		raw, err := io.ReadAll(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(sse.SplitFrames(string(raw))).To(Equal(mockserver.DefaultScript().Frames))
	})

	It("sends the context block and attachments", func() {
		_, err := client.CreateSession(ctx)
		Expect(err).NotTo(HaveOccurred())

		body, err := client.Send(ctx, agent.SendRequest{
			Text:    "compare",
			Context: []content.Product{{Name: "JBL Go 3", Price: "₹3,499"}},
			Files:   []chat.FileRef{{Name: "room.png", MIMEType: "image/png", Size: 2, Data: []byte{1, 2}}},
		})
		Expect(err).NotTo(HaveOccurred())
		_, _ = io.Copy(io.Discard, body)
		body.Close()

		runs := mock.Runs()
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].SessionID).To(Equal(client.SessionID()))
		Expect(runs[0].Text).To(HavePrefix("compare\n\n[Context - Selected Products]:\n"))
		Expect(runs[0].Text).To(ContainSubstring("- Name: JBL Go 3\n"))
		Expect(runs[0].Files).To(Equal([]string{"room.png"}))
	})

	It("reports error bodies on non-200 responses", func() {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": "agent overloaded"}`))
		}))
		defer failing.Close()

		c := agent.NewClient(agent.Config{BaseURL: failing.URL})
		_, err := c.CreateSession(ctx)

		var statusErr *agent.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(statusErr.Message).To(Equal("agent overloaded"))
		Expect(c.SessionID()).To(BeEmpty())
	})

	It("fails when the server is unreachable", func() {
		addr := server.URL
		server.Close()

		c := agent.NewClient(agent.Config{BaseURL: addr})
		_, err := c.CreateSession(ctx)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewRunRequest", func() {
	It("encodes the wire format the agent expects", func() {
		c := agent.NewClient(agent.Config{AppName: "shop", UserID: "u1", Streaming: true})
		req := c.NewRunRequest(agent.SendRequest{
			Text:  "hello",
			Files: []chat.FileRef{{Name: "notes.txt", MIMEType: "text/plain", Data: []byte("hi")}},
		})

		raw, err := json.Marshal(req)
		Expect(err).NotTo(HaveOccurred())

		var wire map[string]any
		Expect(json.Unmarshal(raw, &wire)).To(Succeed())
		Expect(wire["appName"]).To(Equal("shop"))
		Expect(wire["userId"]).To(Equal("u1"))
		Expect(wire["streaming"]).To(BeTrue())

		msg := wire["newMessage"].(map[string]any)
		Expect(msg["role"]).To(Equal("user"))
		parts := msg["parts"].([]any)
		Expect(parts).To(HaveLen(2))
		Expect(parts[0].(map[string]any)["text"]).To(Equal("hello"))

		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		Expect(inline["displayName"]).To(Equal("notes.txt"))
		Expect(inline["mimeType"]).To(Equal("text/plain"))
		Expect(inline["data"]).To(Equal(base64.StdEncoding.EncodeToString([]byte("hi"))))
	})
})
