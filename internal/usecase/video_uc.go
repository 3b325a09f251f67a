// File: internal/usecase/video_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/domain/ports/repository"
	"telegram-video-bot/internal/infra/logging"
	"telegram-video-bot/internal/infra/metrics"
	"telegram-video-bot/internal/infra/worker"
)

// JobResult is the uniform outcome of one generation attempt, identical in
// shape for the mock and real paths.
type JobResult struct {
	JobID     string
	Status    model.VideoJobStatus
	VideoPath string
	Error     string
}

// Compile-time check
var _ VideoUseCase = (*videoUC)(nil)

// VideoUseCase is the surface the command router talks to: per-user input
// collection plus the generation orchestrator.
type VideoUseCase interface {
	StartCollectingPhoto(ctx context.Context, userID int64, ref string) (added bool, count int, err error)
	SetPrompt(ctx context.Context, userID int64, prompt string) error
	IsReady(userID int64) bool
	Session(userID int64) model.VideoSession
	Reset(ctx context.Context, userID int64)
	// Submit runs the full pipeline for the user's ready session and blocks
	// until a terminal result.
	Submit(ctx context.Context, userID int64) (*JobResult, error)
	// SubmitAsync schedules Submit on the worker pool and reports the
	// result through onDone. It fails only when the queue is saturated.
	SubmitAsync(userID int64, onDone func(context.Context, *JobResult)) error
	// Generate runs one generation attempt outside of any session.
	Generate(ctx context.Context, userID int64, prompt string, photos []string, jobID ...string) *JobResult
}

// sessionSlot serializes all access to one user's session. Slots are never
// removed; a user's slot is reused for every later session.
type sessionSlot struct {
	mu      sync.Mutex
	session *model.VideoSession
}

type videoUC struct {
	mu    sync.Mutex
	slots map[int64]*sessionSlot

	jobs     repository.VideoJobRepository
	states   repository.SessionStateRepository
	backend  adapter.GenerationBackend
	enhancer adapter.PromptEnhancer
	pool     *worker.Pool
	mode     string // "mock" | "real", metrics label only
	log      *zerolog.Logger
}

func NewVideoUseCase(
	jobs repository.VideoJobRepository,
	states repository.SessionStateRepository,
	backend adapter.GenerationBackend,
	enhancer adapter.PromptEnhancer,
	pool *worker.Pool,
	mode string,
	logger *zerolog.Logger,
) *videoUC {
	ucLog := logger.With().Str("component", "VideoUC").Logger()
	return &videoUC{
		slots:    make(map[int64]*sessionSlot),
		jobs:     jobs,
		states:   states,
		backend:  backend,
		enhancer: enhancer,
		pool:     pool,
		mode:     mode,
		log:      &ucLog,
	}
}

func (v *videoUC) slot(userID int64) *sessionSlot {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.slots[userID]
	if !ok {
		s = &sessionSlot{session: model.NewVideoSession()}
		v.slots[userID] = s
	}
	return s
}

// mirror pushes the session snapshot to the shared store. Best effort; the
// in-memory session stays authoritative.
func (v *videoUC) mirror(ctx context.Context, userID int64, session *model.VideoSession) {
	if v.states == nil {
		return
	}
	if err := v.states.SetSession(ctx, userID, session); err != nil {
		v.log.Warn().Err(err).Int64("tg_id", userID).Msg("session mirror failed")
	}
}

func (v *videoUC) StartCollectingPhoto(ctx context.Context, userID int64, ref string) (bool, int, error) {
	if ref == "" {
		return false, 0, domain.ErrInvalidArgument
	}
	s := v.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.session.AddPhoto(ref)
	if added {
		v.mirror(ctx, userID, s.session)
	}
	return added, len(s.session.Photos), nil
}

func (v *videoUC) SetPrompt(ctx context.Context, userID int64, prompt string) error {
	s := v.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.SetPrompt(prompt) {
		return domain.ErrInvalidStateTransition
	}
	v.mirror(ctx, userID, s.session)
	return nil
}

func (v *videoUC) IsReady(userID int64) bool {
	s := v.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsReady()
}

// Session returns a copy of the user's current session.
func (v *videoUC) Session(userID int64) model.VideoSession {
	s := v.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.session
	cp.Photos = append([]string(nil), s.session.Photos...)
	return cp
}

func (v *videoUC) Reset(ctx context.Context, userID int64) {
	s := v.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	if v.states != nil {
		if err := v.states.ClearSession(ctx, userID); err != nil {
			v.log.Warn().Err(err).Int64("tg_id", userID).Msg("session clear failed")
		}
	}
}

func (v *videoUC) Submit(ctx context.Context, userID int64) (*JobResult, error) {
	s := v.slot(userID)

	s.mu.Lock()
	if err := s.session.StartProcessing(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionNotReady, err)
	}
	prompt := s.session.Prompt
	photos := append([]string(nil), s.session.Photos...)
	v.mirror(ctx, userID, s.session)
	s.mu.Unlock()

	prompt = v.enhancePrompt(ctx, prompt)
	result := v.Generate(ctx, userID, prompt, photos)

	// The session becomes available again once the job is terminal.
	v.Reset(ctx, userID)
	return result, nil
}

func (v *videoUC) SubmitAsync(userID int64, onDone func(context.Context, *JobResult)) error {
	return v.pool.Submit(func(ctx context.Context) error {
		result, err := v.Submit(ctx, userID)
		if err != nil {
			return err
		}
		if onDone != nil {
			onDone(ctx, result)
		}
		return nil
	})
}

// enhancePrompt is best effort: any enhancer failure falls back to the
// raw prompt.
func (v *videoUC) enhancePrompt(ctx context.Context, prompt string) string {
	if v.enhancer == nil {
		return prompt
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	enhanced, err := v.enhancer.Enhance(ctx, prompt)
	if err != nil || enhanced == "" {
		if err != nil {
			v.log.Warn().Err(err).Msg("prompt enhancement failed; using raw prompt")
		}
		return prompt
	}
	return enhanced
}

// Generate owns the job for the duration of the run. Every failure mode,
// panics included, is normalized into a failed JobResult; no fault crosses
// this boundary.
func (v *videoUC) Generate(ctx context.Context, userID int64, prompt string, photos []string, jobID ...string) (result *JobResult) {
	id := ""
	if len(jobID) > 0 {
		id = jobID[0]
	}

	job, err := model.NewVideoJob(id, userID, prompt, photos)
	if err != nil {
		return &JobResult{JobID: id, Status: model.VideoJobStatusFailed, Error: err.Error()}
	}

	ctx = logging.WithJobID(logging.WithTgID(ctx, userID), job.ID)
	log := logging.With(ctx, v.log)
	defer logging.TraceDuration(log, "VideoUC.Generate")()
	log.Info().Str("mode", v.mode).Int("photos", len(photos)).Msg("starting video generation job")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("generation panicked")
			result = v.finishJob(job, "", fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := v.jobs.Create(ctx, job); err != nil {
		// Persistence is advisory for the run itself; the pipeline continues.
		log.Error().Err(err).Msg("failed to persist job record")
	}

	path, genErr := v.backend.Generate(ctx, adapter.GenerationRequest{
		JobID:  job.ID,
		Prompt: prompt,
		Photos: photos,
	}, func() {
		if err := job.Transition(model.VideoJobStatusProcessing); err == nil {
			v.persistStatus(job)
		}
	})

	if genErr != nil {
		result = v.finishJob(job, "", genErr.Error())
	} else {
		result = v.finishJob(job, path, "")
	}

	elapsed := time.Since(start)
	metrics.IncVideoJob(string(job.Status), v.mode)
	metrics.ObserveVideoJobDuration(v.mode, elapsed.Seconds())
	log.Info().Str("status", string(job.Status)).Dur("duration", elapsed).Msg("video generation job finished")
	return result
}

// finishJob drives the job to its terminal state, persists the transition
// and shapes the uniform result.
func (v *videoUC) finishJob(job *model.VideoJob, videoPath, errMsg string) *JobResult {
	if errMsg != "" {
		_ = job.Fail(errMsg)
	} else {
		_ = job.Complete(videoPath)
	}
	v.persistStatus(job)
	return &JobResult{
		JobID:     job.ID,
		Status:    job.Status,
		VideoPath: job.VideoPath,
		Error:     job.ErrorMessage,
	}
}

func (v *videoUC) persistStatus(job *model.VideoJob) {
	// Background context: status transitions are recorded even when the
	// request context is already canceled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.jobs.UpdateStatus(ctx, job.ID, job.Status, job.VideoPath, job.ErrorMessage); err != nil {
		v.log.Error().Err(err).Str("job_id", job.ID).Str("status", string(job.Status)).Msg("failed to persist job status")
	}
}
