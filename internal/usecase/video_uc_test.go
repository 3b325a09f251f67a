// File: internal/usecase/video_uc_test.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/infra/worker"
)

func testVideoUC(t *testing.T, backend *fakeBackend) (*videoUC, *memJobRepo, *memStateRepo) {
	t.Helper()
	jobs := newMemJobRepo()
	states := newMemStateRepo()
	log := zerolog.Nop()
	uc := NewVideoUseCase(jobs, states, backend, &fakeEnhancer{}, nil, "mock", &log)
	return uc, jobs, states
}

func TestSessionCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("photo cap", func(t *testing.T) {
		uc, _, _ := testVideoUC(t, &fakeBackend{path: "out.mp4"})
		for i := 0; i < model.MaxSessionPhotos; i++ {
			added, count, err := uc.StartCollectingPhoto(ctx, 1, "photo")
			if err != nil || !added {
				t.Fatalf("photo %d: added=%v err=%v", i, added, err)
			}
			if count != i+1 {
				t.Fatalf("photo %d: count = %d", i, count)
			}
		}
		added, count, err := uc.StartCollectingPhoto(ctx, 1, "one-too-many")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added || count != model.MaxSessionPhotos {
			t.Fatalf("cap not enforced: added=%v count=%d", added, count)
		}
	})

	t.Run("empty ref rejected", func(t *testing.T) {
		uc, _, _ := testVideoUC(t, &fakeBackend{})
		if _, _, err := uc.StartCollectingPhoto(ctx, 1, ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("ready requires photo and prompt", func(t *testing.T) {
		uc, _, _ := testVideoUC(t, &fakeBackend{})
		if uc.IsReady(1) {
			t.Fatal("fresh session must not be ready")
		}
		uc.StartCollectingPhoto(ctx, 1, "p1")
		if uc.IsReady(1) {
			t.Fatal("photo alone must not be ready")
		}
		if err := uc.SetPrompt(ctx, 1, "a cat surfing"); err != nil {
			t.Fatalf("SetPrompt: %v", err)
		}
		if !uc.IsReady(1) {
			t.Fatal("photo + prompt must be ready")
		}
	})

	t.Run("reset clears session and mirror", func(t *testing.T) {
		uc, _, states := testVideoUC(t, &fakeBackend{})
		uc.StartCollectingPhoto(ctx, 7, "p1")
		uc.SetPrompt(ctx, 7, "hello")
		uc.Reset(ctx, 7)

		got := uc.Session(7)
		if got.State != model.SessionIdle || len(got.Photos) != 0 || got.Prompt != "" {
			t.Fatalf("session not reset: %+v", got)
		}
		if _, err := states.GetSession(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("mirror not cleared: %v", err)
		}
	})

	t.Run("sessions are isolated per user", func(t *testing.T) {
		uc, _, _ := testVideoUC(t, &fakeBackend{})
		uc.StartCollectingPhoto(ctx, 1, "p1")
		if got := uc.Session(2); len(got.Photos) != 0 {
			t.Fatalf("user 2 sees user 1 photos: %+v", got)
		}
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		backend := &fakeBackend{path: "videos/vid_abc.mp4"}
		uc, jobs, _ := testVideoUC(t, backend)

		uc.StartCollectingPhoto(ctx, 42, "ref-1")
		uc.StartCollectingPhoto(ctx, 42, "ref-2")
		uc.SetPrompt(ctx, 42, "a dancing robot")

		result, err := uc.Submit(ctx, 42)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if result.Status != model.VideoJobStatusCompleted {
			t.Fatalf("status = %s, want completed (%s)", result.Status, result.Error)
		}
		if result.VideoPath != "videos/vid_abc.mp4" {
			t.Fatalf("video path = %q", result.VideoPath)
		}
		if !strings.HasPrefix(result.JobID, "vid_") {
			t.Fatalf("job id = %q", result.JobID)
		}
		if got := backend.lastReq; got.Prompt != "a dancing robot" || len(got.Photos) != 2 {
			t.Fatalf("backend request = %+v", got)
		}

		want := []model.VideoJobStatus{
			model.VideoJobStatusPending,
			model.VideoJobStatusProcessing,
			model.VideoJobStatusCompleted,
		}
		got := jobs.transitions()
		if len(got) != len(want) {
			t.Fatalf("transitions = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("transition %d = %s, want %s", i, got[i], want[i])
			}
		}

		// Session is free again.
		if got := uc.Session(42); got.State != model.SessionIdle {
			t.Fatalf("session state after submit = %s", got.State)
		}
	})

	t.Run("not ready", func(t *testing.T) {
		uc, _, _ := testVideoUC(t, &fakeBackend{})
		uc.StartCollectingPhoto(ctx, 1, "p1")

		if _, err := uc.Submit(ctx, 1); !errors.Is(err, domain.ErrSessionNotReady) {
			t.Fatalf("err = %v, want ErrSessionNotReady", err)
		}
	})

	t.Run("backend failure becomes failed result", func(t *testing.T) {
		backend := &fakeBackend{err: domain.ErrUploadFailed}
		uc, jobs, _ := testVideoUC(t, backend)

		uc.StartCollectingPhoto(ctx, 1, "p1")
		uc.SetPrompt(ctx, 1, "prompt")

		result, err := uc.Submit(ctx, 1)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if result.Status != model.VideoJobStatusFailed {
			t.Fatalf("status = %s, want failed", result.Status)
		}
		if result.Error != "Failed to upload photos" {
			t.Fatalf("error = %q", result.Error)
		}

		job, err := jobs.FindByID(ctx, result.JobID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if job.Status != model.VideoJobStatusFailed || job.ErrorMessage != "Failed to upload photos" {
			t.Fatalf("persisted job = %+v", job)
		}
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input fails without backend call", func(t *testing.T) {
		backend := &fakeBackend{path: "out.mp4"}
		uc, _, _ := testVideoUC(t, backend)

		result := uc.Generate(ctx, 1, "", []string{"p1"})
		if result.Status != model.VideoJobStatusFailed {
			t.Fatalf("status = %s, want failed", result.Status)
		}
		if backend.callCount() != 0 {
			t.Fatalf("backend called %d times for invalid input", backend.callCount())
		}
	})

	t.Run("panic is normalized into failed result", func(t *testing.T) {
		backend := &fakeBackend{panicWith: "boom"}
		uc, jobs, _ := testVideoUC(t, backend)

		result := uc.Generate(ctx, 1, "prompt", []string{"p1"})
		if result.Status != model.VideoJobStatusFailed {
			t.Fatalf("status = %s, want failed", result.Status)
		}
		if !strings.Contains(result.Error, "boom") {
			t.Fatalf("error = %q, want panic message", result.Error)
		}
		job, err := jobs.FindByID(ctx, result.JobID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if !job.Status.Terminal() {
			t.Fatalf("persisted status = %s, want terminal", job.Status)
		}
	})

	t.Run("persistence failure does not block generation", func(t *testing.T) {
		backend := &fakeBackend{path: "out.mp4"}
		uc, jobs, _ := testVideoUC(t, backend)
		jobs.createErr = errors.New("database down")

		result := uc.Generate(ctx, 1, "prompt", []string{"p1"})
		if result.Status != model.VideoJobStatusCompleted {
			t.Fatalf("status = %s, want completed", result.Status)
		}
	})

	t.Run("explicit job id is honored", func(t *testing.T) {
		backend := &fakeBackend{path: "out.mp4"}
		uc, _, _ := testVideoUC(t, backend)

		result := uc.Generate(ctx, 1, "prompt", []string{"p1"}, "vid_fixed123456")
		if result.JobID != "vid_fixed123456" {
			t.Fatalf("job id = %q", result.JobID)
		}
	})
}

func TestSubmitSerializesPerUser(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0
	backend := &fakeBackend{path: "out.mp4"}

	jobs := newMemJobRepo()
	log := zerolog.Nop()
	uc := NewVideoUseCase(jobs, newMemStateRepo(), backend, nil, nil, "mock", &log)

	// A second Submit for the same user must fail fast while the first
	// session is still processing, instead of queueing behind it.
	uc.StartCollectingPhoto(ctx, 9, "p1")
	uc.SetPrompt(ctx, 9, "prompt")

	s := uc.slot(9)
	s.mu.Lock()
	if err := s.session.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	s.mu.Unlock()

	if _, err := uc.Submit(ctx, 9); !errors.Is(err, domain.ErrSessionNotReady) {
		t.Fatalf("second submit err = %v, want ErrSessionNotReady", err)
	}

	// Distinct users run concurrently without interference.
	var wg sync.WaitGroup
	for id := int64(100); id < 104; id++ {
		uc.StartCollectingPhoto(ctx, id, "p1")
		uc.SetPrompt(ctx, id, "prompt")
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()
			result, err := uc.Submit(ctx, id)
			mu.Lock()
			inFlight--
			mu.Unlock()
			if err != nil || result.Status != model.VideoJobStatusCompleted {
				t.Errorf("user %d: result=%+v err=%v", id, result, err)
			}
		}(id)
	}
	wg.Wait()
}

func TestSubmitAsync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := zerolog.Nop()
	pool := worker.NewPool(2, &log)
	pool.Start(ctx)
	defer pool.Stop()

	backend := &fakeBackend{path: "out.mp4"}
	uc := NewVideoUseCase(newMemJobRepo(), newMemStateRepo(), backend, &fakeEnhancer{}, pool, "mock", &log)

	uc.StartCollectingPhoto(ctx, 5, "p1")
	uc.SetPrompt(ctx, 5, "prompt")

	done := make(chan *JobResult, 1)
	if err := uc.SubmitAsync(5, func(_ context.Context, r *JobResult) {
		done <- r
	}); err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}

	select {
	case result := <-done:
		if result.Status != model.VideoJobStatusCompleted {
			t.Fatalf("status = %s (%s)", result.Status, result.Error)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for async result")
	}
}

func TestEnhancerFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("enhanced prompt reaches backend", func(t *testing.T) {
		backend := &fakeBackend{path: "out.mp4"}
		jobs := newMemJobRepo()
		log := zerolog.Nop()
		uc := NewVideoUseCase(jobs, newMemStateRepo(), backend, &fakeEnhancer{out: "cinematic: raw"}, nil, "real", &log)

		uc.StartCollectingPhoto(ctx, 1, "p1")
		uc.SetPrompt(ctx, 1, "raw")
		if _, err := uc.Submit(ctx, 1); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if backend.lastReq.Prompt != "cinematic: raw" {
			t.Fatalf("backend prompt = %q", backend.lastReq.Prompt)
		}
	})

	t.Run("enhancer failure falls back to raw prompt", func(t *testing.T) {
		backend := &fakeBackend{path: "out.mp4"}
		log := zerolog.Nop()
		uc := NewVideoUseCase(newMemJobRepo(), newMemStateRepo(), backend, &fakeEnhancer{err: errors.New("quota")}, nil, "real", &log)

		uc.StartCollectingPhoto(ctx, 1, "p1")
		uc.SetPrompt(ctx, 1, "raw")
		if _, err := uc.Submit(ctx, 1); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if backend.lastReq.Prompt != "raw" {
			t.Fatalf("backend prompt = %q", backend.lastReq.Prompt)
		}
	})
}

func TestMoneyLogIncome(t *testing.T) {
	ctx := context.Background()
	repo := &memIncomeRepo{}
	uc := NewMoneyUseCase(repo)

	t.Run("full line", func(t *testing.T) {
		entry, err := uc.LogIncome(ctx, "consulting | 1500 | 200 | site rebuild")
		if err != nil {
			t.Fatalf("LogIncome: %v", err)
		}
		if entry.Category != "consulting" || entry.GrossAmount != 1500 || entry.BillsAmount != 200 {
			t.Fatalf("entry = %+v", entry)
		}
		if entry.NetAmount != 1300 {
			t.Fatalf("net = %v, want 1300", entry.NetAmount)
		}
	})

	t.Run("bills optional", func(t *testing.T) {
		entry, err := uc.LogIncome(ctx, "sales | 90")
		if err != nil {
			t.Fatalf("LogIncome: %v", err)
		}
		if entry.NetAmount != 90 {
			t.Fatalf("net = %v, want 90", entry.NetAmount)
		}
	})

	t.Run("malformed lines", func(t *testing.T) {
		for _, line := range []string{"just words", "cat | notanumber", "cat | 10 | nope"} {
			if _, err := uc.LogIncome(ctx, line); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("line %q: err = %v, want ErrInvalidArgument", line, err)
			}
		}
	})

	t.Run("monthly summary", func(t *testing.T) {
		summary, err := uc.MonthlySummary(ctx)
		if err != nil {
			t.Fatalf("MonthlySummary: %v", err)
		}
		if summary.TotalGross != 1590 || summary.TotalNet != 1390 {
			t.Fatalf("summary = %+v", summary)
		}
	})

	t.Run("recent entries are newest first and capped", func(t *testing.T) {
		entries, err := uc.RecentEntries(ctx, 1)
		if err != nil {
			t.Fatalf("RecentEntries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("len = %d, want 1", len(entries))
		}
		if entries[0].Category != "sales" {
			t.Fatalf("newest entry = %+v", entries[0])
		}
	})
}
