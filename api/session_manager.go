package api

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/service"
	"github.com/lookbusy1344/regdeps-toolkit/stream"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session represents an active trace-browsing session backed by a
// decoded instruction trace.
type Session struct {
	ID        string
	Service   *service.BrowserService
	CreatedAt time.Time
}

// SessionManager manages multiple trace-browsing sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession decodes a byte range into an instruction trace and
// registers it under a freshly generated session ID. Decoding runs
// through stream.Reader rather than stream.Decode so progress can be
// broadcast instruction-by-instruction as the upload is consumed,
// instead of all at once after the fact.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	var progress *DecodeProgressWriter
	if sm.broadcaster != nil {
		progress = NewDecodeProgressWriter(sm.broadcaster, sessionID, 0)
	} else {
		debugLog("session %s: WARNING - no broadcaster available for progress events", sessionID)
	}

	reader := stream.NewReader(bytes.NewReader(opts.Data))
	var insts []*regdeps.Instruction
	for {
		inst, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		if progress != nil {
			progress.Advance(1)
		}
	}
	debugLog("session %s: decoded %d instructions", sessionID, len(insts))

	browserService := service.NewBrowserService(insts)

	session := &Session{
		ID:        sessionID,
		Service:   browserService,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID.
func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
