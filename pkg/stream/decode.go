package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/sse"
)

// Decode classifies a frame and parses its payload. A returned error means
// the payload was malformed for its type and the event should be dropped.
func Decode(frame sse.Frame) (Event, error) {
	data := frame.Data

	switch Classify(frame.Event) {
	case KindTextChunk:
		return decodeTextChunk(data), nil
	case KindContentDelta:
		return decodeDelta(data)
	case KindFunctionCall:
		return decodeFunctionCall(data)
	case KindFunctionResponse:
		return decodeFunctionResponse(data)
	case KindFullMessage:
		return decodeMessage(data)
	case KindComplete:
		return StreamComplete{}, nil
	case KindError:
		return decodeError(data), nil
	default:
		return Unknown{Type: frame.Event, Data: data}, nil
	}
}

type textPayload struct {
	Text    string `json:"text"`
	Content string `json:"content"`
	Delta   string `json:"delta"`
}

// decodeTextChunk falls back to the raw data when it is not a JSON object,
// so plain-text producers still render.
func decodeTextChunk(data string) TextChunk {
	var p textPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return TextChunk{Text: data}
	}
	return TextChunk{Text: firstNonEmpty(p.Text, p.Content)}
}

func decodeDelta(data string) (Event, error) {
	var p textPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode delta: %w", err)
	}
	return ContentDelta{Text: firstNonEmpty(p.Delta, p.Text, p.Content)}, nil
}

type callPayload struct {
	Name         string          `json:"name"`
	FunctionName string          `json:"function_name"`
	Args         json.RawMessage `json:"args"`
	Arguments    json.RawMessage `json:"arguments"`
}

func decodeFunctionCall(data string) (Event, error) {
	var p callPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode function call: %w", err)
	}

	raw := p.Args
	if isEmptyJSON(raw) {
		raw = p.Arguments
	}

	return FunctionCall{
		Name: firstNonEmpty(p.Name, p.FunctionName),
		Args: decodeArgs(raw),
	}, nil
}

// decodeArgs accepts an object or a JSON-encoded object string.
func decodeArgs(raw json.RawMessage) map[string]any {
	if isEmptyJSON(raw) {
		return nil
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err == nil {
		return args
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &args); err == nil {
			return args
		}
	}

	logger.Debug("stream: ignoring function arguments that are not an object: %s", string(raw))
	return nil
}

func decodeFunctionResponse(data string) (Event, error) {
	if strings.TrimSpace(data) == "" {
		return FunctionResponse{}, nil
	}

	var p struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode function response: %w", err)
	}
	return FunctionResponse{Name: p.Name}, nil
}

func decodeError(data string) StreamError {
	var p struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(data), &p); err == nil {
		if msg := firstNonEmpty(p.Error, p.Message); msg != "" {
			return StreamError{Message: msg}
		}
	}
	return StreamError{Message: data}
}

// adkPart is one part of an agent content payload. Only the fields the
// client acts on are decoded.
type adkPart struct {
	Text             string          `json:"text"`
	Thought          bool            `json:"thought"`
	ThoughtSignature json.RawMessage `json:"thoughtSignature"`
	FunctionCall     *callPayload    `json:"functionCall"`
	FunctionResponse *struct {
		Name string `json:"name"`
	} `json:"functionResponse"`
}

type messagePayload struct {
	Content      json.RawMessage `json:"content"`
	Text         string          `json:"text"`
	Message      string          `json:"message"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"errorMessage"`
}

func decodeMessage(data string) (Event, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &generic); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	logger.Debug("stream: message keys %v", sortedKeys(generic))

	var p messagePayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	var (
		content  string
		thinking bool
		parts    []adkPart
	)

	switch {
	case isEmptyJSON(p.Content):
	case bytes.HasPrefix(bytes.TrimSpace(p.Content), []byte(`"`)):
		if err := json.Unmarshal(p.Content, &content); err != nil {
			return nil, fmt.Errorf("decode message content: %w", err)
		}
	default:
		var c struct {
			Parts []adkPart `json:"parts"`
		}
		if err := json.Unmarshal(p.Content, &c); err != nil {
			return nil, fmt.Errorf("decode message content: %w", err)
		}
		parts = c.Parts
		content, thinking = joinParts(parts)
	}

	if content == "" {
		content = firstNonEmpty(p.Text, p.Message)
	}

	if content == "" {
		if msg := firstNonEmpty(p.Error, p.ErrorMessage); msg != "" {
			return StreamError{Message: msg}, nil
		}
		for _, part := range parts {
			if part.FunctionCall != nil {
				call := part.FunctionCall
				return FunctionCall{
					Name: firstNonEmpty(call.Name, call.FunctionName),
					Args: decodeArgs(call.Args),
				}, nil
			}
			if part.FunctionResponse != nil {
				return FunctionResponse{Name: part.FunctionResponse.Name}, nil
			}
		}
	}

	return FullMessage{Content: content, Thinking: thinking}, nil
}

// joinParts concatenates part texts. The message counts as thinking when
// its first part carries a thought signature or any part is a thought.
func joinParts(parts []adkPart) (string, bool) {
	var b strings.Builder
	thinking := false
	for i, part := range parts {
		b.WriteString(part.Text)
		if part.Thought {
			thinking = true
		}
		if i == 0 && !isEmptyJSON(part.ThoughtSignature) && string(part.ThoughtSignature) != `""` {
			thinking = true
		}
	}
	return b.String(), thinking
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
