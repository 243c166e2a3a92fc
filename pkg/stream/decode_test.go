package stream_test

import (
	"github.com/vishnuprakaz/sales-assist/pkg/sse"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	decode := func(eventType, data string) stream.Event {
		ev, err := stream.Decode(sse.Frame{Event: eventType, Data: data})
		Expect(err).NotTo(HaveOccurred())
		return ev
	}

	Describe("text chunks", func() {
		It("reads the text field", func() {
			Expect(decode("text_chunk", `{"text":"Hello"}`)).To(Equal(stream.TextChunk{Text: "Hello"}))
		})

		It("falls back to the content field", func() {
			Expect(decode("text_chunk", `{"content":"Hello"}`)).To(Equal(stream.TextChunk{Text: "Hello"}))
		})

		It("treats synonyms identically", func() {
			Expect(decode("text-chunk", `{"text":"Hi"}`)).To(Equal(decode("text_chunk", `{"text":"Hi"}`)))
		})

		It("uses raw data when the payload is not JSON", func() {
			Expect(decode("text_chunk", "plain words")).To(Equal(stream.TextChunk{Text: "plain words"}))
		})
	})

	Describe("content deltas", func() {
		It("prefers the delta field", func() {
			Expect(decode("delta", `{"delta":"a","text":"b"}`)).To(Equal(stream.ContentDelta{Text: "a"}))
		})

		It("rejects malformed payloads", func() {
			_, err := stream.Decode(sse.Frame{Event: "content_delta", Data: "{oops"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("function calls", func() {
		It("reads name and args", func() {
			ev := decode("function_call", `{"name":"rag_search_agent","args":{"request":"bluetooth speakers"}}`)
			Expect(ev).To(Equal(stream.FunctionCall{
				Name: "rag_search_agent",
				Args: map[string]any{"request": "bluetooth speakers"},
			}))
		})

		It("accepts the alternative field names", func() {
			ev := decode("tool_call", `{"function_name":"lookup","arguments":"{\"request\":\"shoes\"}"}`)
			Expect(ev).To(Equal(stream.FunctionCall{
				Name: "lookup",
				Args: map[string]any{"request": "shoes"},
			}))
		})

		It("rejects malformed payloads", func() {
			_, err := stream.Decode(sse.Frame{Event: "function_call", Data: `{"name":`})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("function responses", func() {
		It("accepts an empty payload", func() {
			Expect(decode("function_response", "")).To(Equal(stream.FunctionResponse{}))
		})

		It("reads the function name", func() {
			Expect(decode("tool_response", `{"name":"rag_search_agent","response":{}}`)).
				To(Equal(stream.FunctionResponse{Name: "rag_search_agent"}))
		})

		It("rejects malformed non-empty payloads", func() {
			_, err := stream.Decode(sse.Frame{Event: "function_response", Data: "nope"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("full messages", func() {
		It("joins agent content parts", func() {
			ev := decode("message", `{"content":{"parts":[{"text":"<text>Hel"},{"text":"lo</text>"}],"role":"model"}}`)
			Expect(ev).To(Equal(stream.FullMessage{Content: "<text>Hello</text>"}))
		})

		It("flags thinking from the first part's signature", func() {
			ev := decode("message", `{"content":{"parts":[{"text":"pondering","thoughtSignature":"abc"}]}}`)
			Expect(ev).To(Equal(stream.FullMessage{Content: "pondering", Thinking: true}))
		})

		It("flags thought parts as thinking", func() {
			ev := decode("response", `{"content":{"parts":[{"text":"hmm","thought":true}]}}`)
			Expect(ev).To(Equal(stream.FullMessage{Content: "hmm", Thinking: true}))
		})

		It("accepts string content", func() {
			Expect(decode("message", `{"content":"hello"}`)).To(Equal(stream.FullMessage{Content: "hello"}))
		})

		It("falls back to text and message fields", func() {
			Expect(decode("message", `{"text":"a"}`)).To(Equal(stream.FullMessage{Content: "a"}))
			Expect(decode("message", `{"message":"b"}`)).To(Equal(stream.FullMessage{Content: "b"}))
		})

		It("maps function call parts to function call events", func() {
			ev := decode("message", `{"content":{"parts":[{"functionCall":{"name":"rag_search_agent","args":{"request":"phones"}}}]}}`)
			Expect(ev).To(Equal(stream.FunctionCall{
				Name: "rag_search_agent",
				Args: map[string]any{"request": "phones"},
			}))
		})

		It("maps function response parts to function response events", func() {
			ev := decode("message", `{"content":{"parts":[{"functionResponse":{"name":"rag_search_agent","response":{"result":"ok"}}}]}}`)
			Expect(ev).To(Equal(stream.FunctionResponse{Name: "rag_search_agent"}))
		})

		It("maps error payloads to stream errors", func() {
			Expect(decode("message", `{"error":"model overloaded"}`)).To(Equal(stream.StreamError{Message: "model overloaded"}))
		})

		It("rejects payloads that are not JSON objects", func() {
			_, err := stream.Decode(sse.Frame{Event: "message", Data: "not json"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("other events", func() {
		It("decodes completion synonyms", func() {
			for _, t := range []string{"complete", "done", "end"} {
				Expect(decode(t, "")).To(Equal(stream.StreamComplete{}))
			}
		})

		It("extracts error messages", func() {
			Expect(decode("error", `{"error":"boom"}`)).To(Equal(stream.StreamError{Message: "boom"}))
			Expect(decode("error", "raw failure")).To(Equal(stream.StreamError{Message: "raw failure"}))
		})

		It("keeps unknown events with their raw data", func() {
			Expect(decode("heartbeat", "1")).To(Equal(stream.Unknown{Type: "heartbeat", Data: "1"}))
		})
	})
})
