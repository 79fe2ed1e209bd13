package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire framing: every frame is a single JSON payload behind a fixed literal
// marker, terminated by a blank line. json.Marshal escapes newlines inside
// string values, so the terminator can never appear inside a payload.
const (
	FrameMarker     = "data: "
	FrameTerminator = "\n\n"
)

// Encode serializes an event into one self-delimited frame. It does not fail
// for events built through the package constructors.
func Encode(event *Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(FrameMarker) + len(payload) + len(FrameTerminator))
	buf.WriteString(FrameMarker)
	buf.Write(payload)
	buf.WriteString(FrameTerminator)
	return buf.Bytes(), nil
}

// Decode parses a single frame back into an event. A decode error is never
// fatal to a session: the caller skips the frame and keeps reading.
func Decode(frame []byte) (*Event, error) {
	payload := bytes.TrimSpace(frame)
	payload = bytes.TrimPrefix(payload, []byte(FrameMarker))
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if _, ok := knownTypes[event.Type]; !ok {
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
	return &event, nil
}
