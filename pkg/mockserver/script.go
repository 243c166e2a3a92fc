package mockserver

import (
	"fmt"
	"os"

	"github.com/vishnuprakaz/sales-assist/pkg/sse"
)

// Script is the sequence of frames the server replays for every run.
type Script struct {
	Frames []sse.Frame
}

const defaultScript = `event: function_call
data: {"name": "rag_search_agent", "args": {"request": "bluetooth speakers under 5000"}}

event: function_response
data: {"name": "rag_search_agent"}

event: text_chunk
data: {"text": "<text>Here are a few speakers that fit your budget.</text>"}

event: text_chunk
data: {"text": "<productcardList>[{\"name\": \"boAt Stone 650\", \"url\": \"https://shop.example/p/stone-650\", \"image\": \"https://shop.example/img/stone-650.jpg\", \"retailPrice\": \"₹3,990\", \"discountedPrice\": \"₹1,799\", \"brand\": \"boAt\", \"description\": \"10W portable speaker with <b>IPX7</b> water resistance\"},"}

event: text_chunk
data: {"text": " {\"name\": \"JBL Go 3\", \"url\": \"https://shop.example/p/go-3\", \"price\": 3499, \"brand\": \"JBL\", \"description\": \"Compact speaker with bold sound\"}]</productcardList>"}

event: text_chunk
data: {"text": "<text>Want me to compare any of these?</text>"}

event: complete
data: {}

`

// DefaultScript is a search turn: a tool call, two text blocks and a
// product list split across chunks.
func DefaultScript() Script {
	return ParseScript(defaultScript)
}

// ParseScript reads frames in event stream format.
func ParseScript(recorded string) Script {
	return Script{Frames: sse.SplitFrames(recorded)}
}

// LoadScript reads a recorded .sse file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("load script: %w", err)
	}
	script := ParseScript(string(data))
	if len(script.Frames) == 0 {
		return Script{}, fmt.Errorf("load script: %s has no complete frames", path)
	}
	return script, nil
}
