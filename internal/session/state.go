package session

import (
	"sync"
	"time"

	"dentalAssistant/internal/dental"
	"dentalAssistant/internal/media"
)

// State is one user's single-slot workspace: the current image and the last report.
type State struct {
	mu       sync.RWMutex
	id       string
	image    *media.Image
	report   *dental.Report
	lastSeen time.Time
}

func newState(id string, now time.Time) *State {
	return &State{id: id, lastSeen: now}
}

// ID returns the session identifier.
func (s *State) ID() string {
	return s.id
}

// SetImage replaces the held image. An existing report is kept.
func (s *State) SetImage(img *media.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
}

// SetReport replaces the held report.
func (s *State) SetReport(report dental.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &report
}

// Clear drops both the image and the report.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = nil
	s.report = nil
}

// Image returns the held image or nil.
func (s *State) Image() *media.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image
}

// Report returns a copy of the held report, or nil when none exists.
func (s *State) Report() *dental.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil
	}
	copied := *s.report
	return &copied
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
