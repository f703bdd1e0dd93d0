package internal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// EventType identifies a protocol event
type EventType string

const (
	EventStatus  EventType = "status"
	EventChunk   EventType = "chunk"
	EventSources EventType = "sources"
	EventDone    EventType = "done"
	EventError   EventType = "error"
)

// Event is a decoded protocol event. Which fields are populated depends on
// Type: Message for status/error, Content for chunk, Sources (and optionally
// Confidence) for sources.
type Event struct {
	Type       EventType
	Message    string
	Content    string
	Sources    []Source
	Confidence *float64
}

// IsTerminal reports whether no further events follow this one
func (e Event) IsTerminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// dataPrefix marks an event payload line on the wire
const dataPrefix = "data:"

// EventDecoder turns a raw event stream into typed events. Frames are
// `data: <json>` lines terminated by a blank line; payload bytes split
// across reads are buffered until the frame completes. Malformed frames
// and unknown event types are logged and skipped.
type EventDecoder struct {
	r       *bufio.Reader
	payload bytes.Buffer
	pending bool
}

// NewEventDecoder creates a decoder reading from r
func NewEventDecoder(r io.Reader) *EventDecoder {
	return &EventDecoder{r: bufio.NewReader(r)}
}

// Next returns the next well-formed event. It returns io.EOF when the
// stream is exhausted and the transport error otherwise.
func (d *EventDecoder) Next() (Event, error) {
	for {
		line, err := d.r.ReadString('\n')
		if line != "" {
			if ev, ok := d.consumeLine(strings.TrimRight(line, "\r\n")); ok {
				return ev, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Frame without a trailing blank line at stream end
				if ev, ok := d.flush(); ok {
					return ev, nil
				}
				return Event{}, io.EOF
			}
			return Event{}, err
		}
	}
}

// consumeLine folds one line into the current frame. It returns an event
// when a blank line completes a decodable frame.
func (d *EventDecoder) consumeLine(line string) (Event, bool) {
	if line == "" {
		return d.flush()
	}
	if rest, found := strings.CutPrefix(line, dataPrefix); found {
		if d.pending {
			// Multi-line payloads are joined with a newline, per SSE framing
			d.payload.WriteByte('\n')
		}
		d.payload.WriteString(strings.TrimPrefix(rest, " "))
		d.pending = true
		return Event{}, false
	}
	// Comments and non-data fields carry no payload for this protocol
	LogDebug("decoder: ignoring non-data line %q", line)
	return Event{}, false
}

// flush decodes and resets the buffered frame, if any
func (d *EventDecoder) flush() (Event, bool) {
	if !d.pending {
		return Event{}, false
	}
	raw := d.payload.String()
	d.payload.Reset()
	d.pending = false
	return decodeEvent(raw)
}

// eventEnvelope is the untrusted wire form of an event. Pointer fields
// distinguish missing from empty so required fields can be validated.
type eventEnvelope struct {
	Type       string    `json:"type"`
	Message    *string   `json:"message"`
	Content    *string   `json:"content"`
	Sources    []Source  `json:"sources"`
	Confidence *float64  `json:"confidence"`
}

// decodeEvent validates a frame payload against the per-type required
// fields. Invalid frames are dropped, never fatal: one malformed status
// update must not lose the rest of the answer.
func decodeEvent(raw string) (Event, bool) {
	var env eventEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		LogWarn("decoder: skipping malformed frame: %v", err)
		return Event{}, false
	}

	switch EventType(env.Type) {
	case EventStatus:
		if env.Message == nil {
			LogWarn("decoder: skipping status event without message")
			return Event{}, false
		}
		return Event{Type: EventStatus, Message: *env.Message}, true
	case EventChunk:
		if env.Content == nil {
			LogWarn("decoder: skipping chunk event without content")
			return Event{}, false
		}
		return Event{Type: EventChunk, Content: *env.Content}, true
	case EventSources:
		if env.Sources == nil {
			LogWarn("decoder: skipping sources event without sources")
			return Event{}, false
		}
		return Event{Type: EventSources, Sources: env.Sources, Confidence: env.Confidence}, true
	case EventDone:
		return Event{Type: EventDone}, true
	case EventError:
		msg := "unknown error"
		if env.Message != nil {
			msg = *env.Message
		}
		return Event{Type: EventError, Message: msg}, true
	default:
		LogWarn("decoder: skipping unknown event type %q", env.Type)
		return Event{}, false
	}
}
