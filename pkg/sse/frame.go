package sse

import (
	"strings"
)

// DefaultEvent is the event type of a frame without an "event:" line.
const DefaultEvent = "message"

// Frame is one parsed server-sent event.
type Frame struct {
	Event string
	Data  string
}

// ParseFrame parses the lines of a single raw frame (without the trailing
// blank line). Data lines are trimmed and concatenated with no separator.
func ParseFrame(raw string) Frame {
	frame := Frame{Event: DefaultEvent}

	var data strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "event:"):
			frame.Event = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(line[len("data:"):]))
		}
	}
	frame.Data = data.String()

	if frame.Event == "" {
		frame.Event = DefaultEvent
	}
	return frame
}

// Encode returns the wire form of the frame, terminated by a blank line.
func (f Frame) Encode() string {
	var b strings.Builder
	if f.Event != "" && f.Event != DefaultEvent {
		b.WriteString("event: ")
		b.WriteString(f.Event)
		b.WriteString("\n")
	}
	for _, line := range strings.Split(f.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// SplitFrames parses every complete frame in a recorded stream. A trailing
// fragment without a terminating blank line is ignored.
func SplitFrames(recorded string) []Frame {
	recorded = strings.ReplaceAll(recorded, "\r\n", "\n")
	parts := strings.Split(recorded, "\n\n")

	var frames []Frame
	for _, raw := range parts[:len(parts)-1] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		frames = append(frames, ParseFrame(raw))
	}
	return frames
}
