package model

import (
	"fmt"

	"telegram-video-bot/internal/domain"
)

type SessionState string

const (
	SessionIdle             SessionState = "idle"
	SessionCollectingPhotos SessionState = "collecting_photos"
	SessionWaitingForPrompt SessionState = "waiting_for_prompt"
	SessionProcessing       SessionState = "processing"
)

// MaxSessionPhotos is the hard cap on reference photos per session.
const MaxSessionPhotos = 4

// VideoSession accumulates one user's generation inputs through a small
// state lattice and gates when a job may be created. It has no side
// effects; callers serialize access per user id.
type VideoSession struct {
	State  SessionState `json:"state"`
	Photos []string     `json:"photos"`
	Prompt string       `json:"prompt"`
}

func NewVideoSession() *VideoSession {
	return &VideoSession{State: SessionIdle}
}

// AddPhoto appends a photo reference. Valid only while idle or collecting;
// the first photo moves the session to collecting. Returns false without
// mutating once the cap is reached or the state disallows it.
func (s *VideoSession) AddPhoto(ref string) bool {
	if s.State == SessionIdle {
		s.State = SessionCollectingPhotos
	}
	if s.State != SessionCollectingPhotos {
		return false
	}
	if len(s.Photos) >= MaxSessionPhotos {
		return false
	}
	s.Photos = append(s.Photos, ref)
	return true
}

// SetPrompt stores the prompt and moves to waiting_for_prompt. Allowed from
// any state except processing; a prior prompt is overwritten.
func (s *VideoSession) SetPrompt(prompt string) bool {
	if s.State == SessionProcessing {
		return false
	}
	s.Prompt = prompt
	s.State = SessionWaitingForPrompt
	return true
}

// IsReady reports whether a job may be created from this session.
func (s *VideoSession) IsReady() bool {
	return len(s.Photos) >= 1 && s.Prompt != "" && s.State == SessionWaitingForPrompt
}

// StartProcessing freezes the session for the duration of a generation run.
func (s *VideoSession) StartProcessing() error {
	if !s.IsReady() {
		return fmt.Errorf("%w: cannot start processing from %s", domain.ErrInvalidStateTransition, s.State)
	}
	s.State = SessionProcessing
	return nil
}

// Reset unconditionally returns the session to its initial state.
func (s *VideoSession) Reset() {
	s.State = SessionIdle
	s.Photos = nil
	s.Prompt = ""
}
