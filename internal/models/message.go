package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

const (
	SegmentText  = "text"
	SegmentImage = "image"
)

// Segment is one typed node of an outgoing message. Text segments carry
// their payload in Text; every other kind keeps its raw data map so the
// segment can be forwarded upstream without loss.
type Segment struct {
	Kind string
	Text string
	Data map[string]any
}

func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

// Renderable reports whether the segment has a visible representation
// a notice can be appended after.
func (s Segment) Renderable() bool {
	return s.Kind == SegmentText || s.Kind == SegmentImage
}

// Render produces the plain-text projection used for detail logging.
func (s Segment) Render() string {
	if s.Kind == SegmentText {
		return s.Text
	}
	return "[" + s.Kind + "]"
}

type segmentWire struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s Segment) MarshalJSON() ([]byte, error) {
	var data any
	if s.Kind == SegmentText {
		data = map[string]string{"text": s.Text}
	} else if s.Data != nil {
		data = s.Data
	} else {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(segmentWire{Type: s.Kind, Data: raw})
}

func (s *Segment) UnmarshalJSON(b []byte) error {
	var wire segmentWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.Type == "" {
		return fmt.Errorf("message segment without type tag")
	}
	s.Kind = wire.Type
	if len(wire.Data) == 0 {
		return nil
	}
	if wire.Type == SegmentText {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(wire.Data, &payload); err != nil {
			return err
		}
		s.Text = payload.Text
		return nil
	}
	return json.Unmarshal(wire.Data, &s.Data)
}

// Message is the ordered segment list of one outgoing send.
type Message []Segment

// PlainText concatenates the rendered projection of every segment.
func (m Message) PlainText() string {
	out := ""
	for _, seg := range m {
		out += seg.Render()
	}
	return out
}

// EndsRenderable reports whether the message currently ends with a
// segment a notice may be appended after. Empty messages do not.
func (m Message) EndsRenderable() bool {
	if len(m) == 0 {
		return false
	}
	return m[len(m)-1].Renderable()
}

// WithAppendedText returns the message with a trailing text segment.
func (m Message) WithAppendedText(text string) Message {
	out := make(Message, 0, len(m)+1)
	out = append(out, m...)
	return append(out, TextSegment(text))
}

// WithPrependedText returns the message with a leading text segment.
func (m Message) WithPrependedText(text string) Message {
	out := make(Message, 0, len(m)+1)
	out = append(out, TextSegment(text))
	return append(out, m...)
}
