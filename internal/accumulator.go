package internal

import "fmt"

// UpdateFunc observes the in-progress assistant message after every event
// that changes visible state
type UpdateFunc func(Message)

// Accumulator folds one turn's event sequence into a single assistant
// message. A sources event arriving before the first chunk is buffered and
// attached once the message materializes, so ordering never drops citations.
type Accumulator struct {
	msg               *Message
	pendingSources    []Source
	pendingConfidence *float64
	finished          bool
	onUpdate          UpdateFunc
}

// NewAccumulator creates an accumulator for one turn. onUpdate may be nil.
func NewAccumulator(onUpdate UpdateFunc) *Accumulator {
	return &Accumulator{onUpdate: onUpdate}
}

// Apply folds one event and reports whether the turn is terminal.
// Events after a terminal event are dropped.
func (a *Accumulator) Apply(ev Event) bool {
	if a.finished {
		if ev.Type == EventSources {
			LogWarn("accumulator: sources event after terminal event, dropping")
		} else {
			LogDebug("accumulator: ignoring %s event after terminal event", ev.Type)
		}
		return true
	}

	switch ev.Type {
	case EventStatus:
		// Progress only, no content mutation
		LogDebug("accumulator: status: %s", ev.Message)
	case EventChunk:
		a.ensureMessage()
		a.msg.Content += ev.Content
		a.notify()
	case EventSources:
		if a.msg == nil {
			a.pendingSources = ev.Sources
			a.pendingConfidence = ev.Confidence
			return false
		}
		a.attachSources(ev.Sources, ev.Confidence)
		a.notify()
	case EventDone:
		a.ensureMessage()
		a.finished = true
	case EventError:
		a.fail(ev.Message)
	}
	return a.finished
}

// FinishInterrupted finalizes the turn after the transport ended without a
// terminal event. It is a no-op when the turn already finished.
func (a *Accumulator) FinishInterrupted(reason string) {
	if a.finished {
		return
	}
	if reason == "" {
		reason = "connection closed before the response completed"
	}
	a.fail(reason)
}

// Finished reports whether a terminal event has been applied
func (a *Accumulator) Finished() bool {
	return a.finished
}

// Message returns the accumulated message. Only meaningful after the turn
// finished; callers always receive a terminal message, never an in-progress
// one.
func (a *Accumulator) Message() Message {
	if a.msg == nil {
		a.ensureMessage()
	}
	return *a.msg
}

// ensureMessage materializes the assistant message on first use and applies
// any sources buffered before the first chunk
func (a *Accumulator) ensureMessage() {
	if a.msg != nil {
		return
	}
	msg := NewAssistantMessage()
	a.msg = &msg
	if a.pendingSources != nil {
		a.attachSources(a.pendingSources, a.pendingConfidence)
		a.pendingSources = nil
		a.pendingConfidence = nil
	}
}

// attachSources attaches citations at most once per message. The message
// confidence comes from the event when present, otherwise from the highest
// per-source score.
func (a *Accumulator) attachSources(sources []Source, confidence *float64) {
	if a.msg.Sources != nil {
		LogWarn("accumulator: duplicate sources event, keeping first")
		return
	}
	a.msg.Sources = sources
	switch {
	case confidence != nil:
		a.msg.Confidence = confidence
	default:
		if best, ok := maxSourceConfidence(sources); ok {
			a.msg.Confidence = &best
		}
	}
}

// fail terminates the turn, preserving any partial answer
func (a *Accumulator) fail(reason string) {
	if a.msg == nil || a.msg.Content == "" {
		a.ensureMessage()
		a.msg.Content = fmt.Sprintf("Sorry, something went wrong: %s", reason)
	} else {
		a.msg.Content += fmt.Sprintf("\n\n[Response interrupted: %s]", reason)
	}
	a.finished = true
	a.notify()
}

func (a *Accumulator) notify() {
	if a.onUpdate != nil {
		a.onUpdate(*a.msg)
	}
}

func maxSourceConfidence(sources []Source) (float64, bool) {
	var best float64
	found := false
	for _, src := range sources {
		if src.Confidence > 0 && (!found || src.Confidence > best) {
			best = src.Confidence
			found = true
		}
	}
	return best, found
}
