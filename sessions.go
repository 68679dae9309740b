package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"payhelper/pkg/roster"
)

// session is one in-memory workspace: the record roster plus the last
// reported progress of its OCR batch. Nothing here survives a restart.
type session struct {
	// mu serializes the workspace's single writer against readers; the
	// roster itself assumes one mutating operation at a time.
	mu          sync.Mutex
	roster      *roster.Roster
	ocrProgress int
	// gen bumps on Clear so an OCR batch started before the clear cannot
	// append its results to the emptied workspace
	gen       int
	createdAt time.Time
}

func (s *session) setProgress(p int) {
	s.mu.Lock()
	s.ocrProgress = p
	s.mu.Unlock()
}

func (s *session) progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ocrProgress
}

// sessionTTL bounds a workspace's lifetime; the issued token expires at the
// same moment, so an evicted session can never be the only thing rejecting
// a still-valid token.
const sessionTTL = 24 * time.Hour

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: map[string]*session{}}
}

func (r *sessionRegistry) create() string {
	id := uuid.NewString()
	now := time.Now()
	r.mu.Lock()
	// sweep on create keeps the map bounded without a janitor goroutine
	for old, s := range r.sessions {
		if now.Sub(s.createdAt) > sessionTTL {
			delete(r.sessions, old)
		}
	}
	r.sessions[id] = &session{roster: roster.New(), createdAt: now}
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(s.createdAt) > sessionTTL {
		delete(r.sessions, id)
		return nil, false
	}
	return s, true
}
