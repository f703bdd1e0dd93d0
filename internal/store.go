package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
)

// activeSessionKey is the app_state key holding the active-session pointer
const activeSessionKey = "active_session"

// SessionStore persists sessions keyed by id. Every write replaces the full
// record; sessions with no messages are never stored.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a store backed by an open session database
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts the full session record. The title is recomputed from the
// message log on every save. Saving a session with no messages deletes it:
// the store never holds empty sessions.
func (s *SessionStore) Save(session *Session) error {
	if len(session.Messages) == 0 {
		return s.Delete(session.ID)
	}

	session.Title = DeriveTitle(session.Messages)

	payload, err := json.Marshal(session)
	if err != nil {
		return &StorageError{Op: "save", Key: session.ID, Err: err}
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, value, last_activity) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET value = excluded.value, last_activity = excluded.last_activity`,
		session.ID, string(payload), session.LastActivity.UnixMilli(),
	)
	if err != nil {
		return &StorageError{Op: "save", Key: session.ID, Err: err}
	}
	return nil
}

// Load returns the session for id, or nil when no record exists
func (s *SessionStore) Load(id string) (*Session, error) {
	var payload string
	err := s.db.QueryRow(`SELECT value FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Key: id, Err: err}
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, &StorageError{Op: "load", Key: id, Err: err}
	}
	return &session, nil
}

// Delete removes the session record. Deleting a missing id is not an error.
func (s *SessionStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return &StorageError{Op: "delete", Key: id, Err: err}
	}
	return nil
}

// List recomputes the session index from the store's current contents,
// ordered by last activity descending. It is never cached across writes.
func (s *SessionStore) List() ([]SessionSummary, error) {
	rows, err := s.db.Query(`SELECT value FROM sessions ORDER BY last_activity DESC, id`)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	summaries := make([]SessionSummary, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}

		var session Session
		if err := json.Unmarshal([]byte(payload), &session); err != nil {
			// Skip corrupt rows but keep the rest of the index usable
			LogWarn("store: skipping unreadable session record: %v", err)
			continue
		}
		summaries = append(summaries, SessionSummary{
			ID:           session.ID,
			Title:        session.Title,
			LastActivity: session.LastActivity,
			MessageCount: len(session.Messages),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return summaries, nil
}

// ActiveSession returns the persisted active-session pointer, or "" when
// none is set
func (s *SessionStore) ActiveSession() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, activeSessionKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Op: "load", Key: activeSessionKey, Err: err}
	}
	return id, nil
}

// SetActiveSession persists the active-session pointer
func (s *SessionStore) SetActiveSession(id string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeSessionKey, id,
	)
	if err != nil {
		return &StorageError{Op: "save", Key: activeSessionKey, Err: err}
	}
	return nil
}

// ClearActiveSession removes the active-session pointer
func (s *SessionStore) ClearActiveSession() error {
	if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, activeSessionKey); err != nil {
		return &StorageError{Op: "delete", Key: activeSessionKey, Err: err}
	}
	return nil
}
