package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"telegram-video-bot/internal/domain"
)

type VideoJobStatus string

const (
	VideoJobStatusPending    VideoJobStatus = "pending"
	VideoJobStatusProcessing VideoJobStatus = "processing"
	VideoJobStatusCompleted  VideoJobStatus = "completed"
	VideoJobStatusFailed     VideoJobStatus = "failed"
)

// Terminal reports whether no further status transition may occur.
func (s VideoJobStatus) Terminal() bool {
	return s == VideoJobStatusCompleted || s == VideoJobStatusFailed
}

// VideoJob is one generation attempt. Inputs are snapshot at submission
// time and never change; only status, video path and error message move.
type VideoJob struct {
	ID           string
	UserID       int64
	Prompt       string
	Photos       []string
	Status       VideoJobStatus
	VideoPath    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewJobID returns a fresh "vid_" + 12 hex id, unique and filename-safe.
func NewJobID() string {
	return "vid_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func NewVideoJob(id string, userID int64, prompt string, photos []string) (*VideoJob, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidArgument)
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("%w: at least one photo is required", domain.ErrInvalidArgument)
	}
	if id == "" {
		id = NewJobID()
	}
	now := time.Now()
	snap := make([]string, len(photos))
	copy(snap, photos)
	return &VideoJob{
		ID:        id,
		UserID:    userID,
		Prompt:    prompt,
		Photos:    snap,
		Status:    VideoJobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition moves the job forward through the status lattice
// pending -> processing -> completed|failed. Transitions out of a
// terminal state or backwards are rejected.
func (j *VideoJob) Transition(to VideoJobStatus) error {
	if j.Status == to {
		return nil
	}
	if j.Status.Terminal() {
		return fmt.Errorf("%w: job %s is already %s", domain.ErrInvalidStateTransition, j.ID, j.Status)
	}
	if j.Status == VideoJobStatusProcessing && to == VideoJobStatusPending {
		return fmt.Errorf("%w: job %s cannot return to pending", domain.ErrInvalidStateTransition, j.ID)
	}
	j.Status = to
	j.UpdatedAt = time.Now()
	return nil
}

// Complete marks the job completed with the local artifact path.
func (j *VideoJob) Complete(videoPath string) error {
	if err := j.Transition(VideoJobStatusCompleted); err != nil {
		return err
	}
	j.VideoPath = videoPath
	return nil
}

// Fail marks the job failed with a human-readable message.
func (j *VideoJob) Fail(message string) error {
	if err := j.Transition(VideoJobStatusFailed); err != nil {
		return err
	}
	j.ErrorMessage = message
	return nil
}
