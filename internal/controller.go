package internal

import (
	"context"
	"errors"
	"io"
	"sync"
)

// State is the controller's turn state
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Controller orchestrates one conversation at a time: it opens a stream for
// a user query, folds the events into an assistant message, and commits the
// finished turn to the session store. At most one turn is in flight; the
// commit targets the session captured at submit time, so switching the
// active session mid-stream never misroutes the result.
type Controller struct {
	store    *SessionStore
	streamer Streamer

	mu      sync.Mutex
	state   State
	current *Session
}

// NewController creates a controller, restoring the persisted active
// session when one exists. A missing or dangling pointer yields a fresh
// transient session: the controller never points at nothing.
func NewController(store *SessionStore, streamer Streamer) (*Controller, error) {
	c := &Controller{store: store, streamer: streamer}

	id, err := store.ActiveSession()
	if err != nil {
		return nil, err
	}
	if id != "" {
		session, err := store.Load(id)
		if err != nil {
			return nil, err
		}
		c.current = session
	}
	if c.current == nil {
		c.current = NewSession()
	}
	return c, nil
}

// Current returns the active session
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the turn state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sessions returns the session index, newest first
func (c *Controller) Sessions() ([]SessionSummary, error) {
	return c.store.List()
}

// NewChatSession switches to a fresh transient session and returns it
func (c *Controller) NewChatSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = NewSession()
	c.persistPointer(c.current.ID)
	return c.current
}

// LoadChatSession makes a stored session the active one
func (c *Controller) LoadChatSession(id string) (*Session, error) {
	session, err := c.store.Load(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &StorageError{Op: "load", Key: id, Err: errors.New("session not found")}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = session
	c.persistPointer(id)
	return session, nil
}

// DeleteChatSession removes a session from the store. Deleting the active
// session immediately replaces it with a fresh transient one, so the
// controller is never left with a dangling identifier.
func (c *Controller) DeleteChatSession(id string) error {
	if err := c.store.Delete(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == id {
		c.current = NewSession()
		c.persistPointer(c.current.ID)
	}
	return nil
}

// Submit runs one conversational turn against the active session: it
// appends the user message, streams the response, and commits the terminal
// assistant message. A second submit while a turn is in flight returns
// ErrTurnInFlight without opening a second stream.
//
// A context canceled by the caller discards the partial turn; any other
// stream failure finalizes it with a failure notice so the caller always
// receives a terminal message. When the turn completed but could not be
// persisted, the message is returned together with a *StorageWarning.
func (c *Controller) Submit(ctx context.Context, query string, onUpdate UpdateFunc) (Message, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return Message{}, ErrTurnInFlight
	}
	c.state = StateSending
	session := c.current // commit target, captured at submit time
	session.Append(NewUserMessage(query))
	c.mu.Unlock()

	acc := NewAccumulator(onUpdate)

	body, err := c.streamer.OpenStream(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			c.setIdle()
			return Message{}, ctx.Err()
		}
		LogWarn("controller: failed to open stream: %v", err)
		acc.FinishInterrupted(err.Error())
		return c.commit(session, acc.Message())
	}
	defer body.Close()

	c.setState(StateStreaming)

	decoder := NewEventDecoder(body)
	var streamErr error
	for !acc.Finished() {
		event, err := decoder.Next()
		if err != nil {
			streamErr = err
			break
		}
		acc.Apply(event)
	}

	if !acc.Finished() {
		if ctx.Err() != nil {
			// Canceled by the caller: the partial answer is superseded
			// state, not a result. Discard it.
			c.setIdle()
			return Message{}, ctx.Err()
		}
		reason := ""
		if streamErr != nil && !errors.Is(streamErr, io.EOF) {
			reason = streamErr.Error()
		}
		acc.FinishInterrupted(reason)
	}

	return c.commit(session, acc.Message())
}

// commit is the terminal transition: append the assistant message, persist
// the whole session, and return to idle. A persistence failure keeps the
// turn visible in memory and surfaces a warning instead of losing it.
func (c *Controller) commit(session *Session, reply Message) (Message, error) {
	c.mu.Lock()
	session.Append(reply)
	saveErr := c.store.Save(session)
	if saveErr == nil && c.current == session {
		c.persistPointer(session.ID)
	}
	c.state = StateIdle
	c.mu.Unlock()

	if saveErr != nil {
		LogWarn("controller: %v", saveErr)
		return reply, &StorageWarning{Err: saveErr}
	}
	return reply, nil
}

// persistPointer records the active-session pointer, tolerating store
// failures. Must be called with the lock held.
func (c *Controller) persistPointer(id string) {
	if err := c.store.SetActiveSession(id); err != nil {
		LogWarn("controller: failed to persist active session pointer: %v", err)
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setIdle() {
	c.setState(StateIdle)
}
