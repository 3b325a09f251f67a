package seedance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/config"
	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/storage"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.SeedanceConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Duration:       5,
		Resolution:     "1080p",
		PollInterval:   5 * time.Millisecond,
		MaxWait:        time.Second,
		RequestTimeout: time.Second,
	}
	c, err := NewClient(cfg, storage.NewArtifactStore(t.TempDir()), testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeTempPhoto(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	return path
}

func TestNewClient(t *testing.T) {
	t.Run("should fail fast without an API key", func(t *testing.T) {
		_, err := NewClient(config.SeedanceConfig{}, storage.NewArtifactStore(t.TempDir()), testLogger())
		if !errors.Is(err, domain.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestPollUntilDone(t *testing.T) {
	t.Run("should return completed after exactly N+1 queries", func(t *testing.T) {
		const pendingCycles = 3
		var queries int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&queries, 1)
			status := "pending"
			if n > pendingCycles {
				status = "completed"
			}
			json.NewEncoder(w).Encode(map[string]string{"status": status, "video_url": "http://example.com/v.mp4"})
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		res, err := c.PollUntilDone(context.Background(), "rj-1")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if res.Status != remoteStatusCompleted {
			t.Errorf("expected completed, got %s", res.Status)
		}
		if got := atomic.LoadInt32(&queries); got != pendingCycles+1 {
			t.Errorf("expected %d status queries, got %d", pendingCycles+1, got)
		}
	})

	t.Run("should return remote failure with its error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "failed", "error": "nsfw content rejected"})
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		res, err := c.PollUntilDone(context.Background(), "rj-2")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if res.Status != remoteStatusFailed || res.Error != "nsfw content rejected" {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("should time out at or after maxWait when the job never terminates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		c.maxWait = 60 * time.Millisecond
		c.pollInterval = 10 * time.Millisecond

		start := time.Now()
		_, err := c.PollUntilDone(context.Background(), "rj-3")
		elapsed := time.Since(start)
		if !errors.Is(err, domain.ErrGenerationTimeout) {
			t.Fatalf("expected ErrGenerationTimeout, got %v", err)
		}
		if elapsed < c.maxWait {
			t.Errorf("timed out after %v, before maxWait %v", elapsed, c.maxWait)
		}
	})

	t.Run("should treat transient poll errors as still pending", func(t *testing.T) {
		var queries int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&queries, 1)
			if n <= 2 {
				http.Error(w, "upstream hiccup", http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "completed", "video_url": "http://example.com/v.mp4"})
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		res, err := c.PollUntilDone(context.Background(), "rj-4")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if res.Status != remoteStatusCompleted {
			t.Errorf("expected completed, got %s", res.Status)
		}
	})

	t.Run("should stop when the context is canceled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
		}))
		defer srv.Close()

		c := testClient(t, srv.URL)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.PollUntilDone(ctx, "rj-5")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context deadline error, got %v", err)
		}
	})
}

func TestGenerate(t *testing.T) {
	t.Run("should run upload, submit, poll and download end to end", func(t *testing.T) {
		var polls int32
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-key" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, _, err := r.FormFile("file"); err != nil {
				http.Error(w, "bad multipart", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"file_id": "file-1"})
		})
		mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
			var req generateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
			if req.Prompt != "dance video" || len(req.ReferenceImages) != 1 || req.Options.Duration != 5 {
				http.Error(w, "unexpected request", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"job_id": "remote-1"})
		})
		mux.HandleFunc("/jobs/remote-1", func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&polls, 1) < 3 {
				json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "completed", "video_url": srv.URL + "/artifact"})
		})
		mux.HandleFunc("/artifact", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("mp4-bytes"))
		})

		videosDir := t.TempDir()
		cfg := config.SeedanceConfig{
			APIKey:         "test-key",
			BaseURL:        srv.URL,
			Duration:       5,
			Resolution:     "1080p",
			PollInterval:   5 * time.Millisecond,
			MaxWait:        time.Second,
			RequestTimeout: time.Second,
		}
		c, err := NewClient(cfg, storage.NewArtifactStore(videosDir), testLogger())
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}

		var sawProcessing bool
		path, err := c.Generate(context.Background(), adapter.GenerationRequest{
			JobID:  "vid_e2e000000001",
			Prompt: "dance video",
			Photos: []string{writeTempPhoto(t, "p1.jpg")},
		}, func() { sawProcessing = true })
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !sawProcessing {
			t.Error("expected onProcessing callback after submit")
		}
		if path != filepath.Join(videosDir, "vid_e2e000000001.mp4") {
			t.Errorf("unexpected artifact path: %s", path)
		}
		b, err := os.ReadFile(path)
		if err != nil || string(b) != "mp4-bytes" {
			t.Errorf("artifact content mismatch: %q err=%v", b, err)
		}
	})

	t.Run("should fail with upload error and never submit when no upload succeeds", func(t *testing.T) {
		var submits int32
		mux := http.NewServeMux()
		mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "storage full", http.StatusInternalServerError)
		})
		mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&submits, 1)
			json.NewEncoder(w).Encode(map[string]string{"job_id": "remote-x"})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.Generate(context.Background(), adapter.GenerationRequest{
			JobID:  "vid_upl000000001",
			Prompt: "dance video",
			Photos: []string{writeTempPhoto(t, "p1.jpg"), writeTempPhoto(t, "p2.jpg")},
		}, nil)
		if !errors.Is(err, domain.ErrUploadFailed) {
			t.Fatalf("expected ErrUploadFailed, got %v", err)
		}
		if atomic.LoadInt32(&submits) != 0 {
			t.Error("expected no submit call after total upload failure")
		}
	})

	t.Run("should skip failed uploads but proceed with the successful ones", func(t *testing.T) {
		var uploads int32
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&uploads, 1) == 1 {
				http.Error(w, "flaky", http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"file_id": fmt.Sprintf("file-%d", atomic.LoadInt32(&uploads))})
		})
		mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
			var req generateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.ReferenceImages) != 1 {
				http.Error(w, "unexpected image count", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"job_id": "remote-2"})
		})
		mux.HandleFunc("/jobs/remote-2", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "completed", "video_url": srv.URL + "/artifact"})
		})
		mux.HandleFunc("/artifact", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})

		c := testClient(t, srv.URL)
		_, err := c.Generate(context.Background(), adapter.GenerationRequest{
			JobID:  "vid_skp000000001",
			Prompt: "dance video",
			Photos: []string{writeTempPhoto(t, "p1.jpg"), writeTempPhoto(t, "p2.jpg")},
		}, nil)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
	})

	t.Run("should carry the raw payload when the service rejects the submission", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"file_id": "file-1"})
		})
		mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"prompt too long"}`, http.StatusBadRequest)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := testClient(t, srv.URL)
		_, err := c.Generate(context.Background(), adapter.GenerationRequest{
			JobID:  "vid_rej000000001",
			Prompt: "dance video",
			Photos: []string{writeTempPhoto(t, "p1.jpg")},
		}, nil)
		if !errors.Is(err, domain.ErrSubmissionRejected) {
			t.Fatalf("expected ErrSubmissionRejected, got %v", err)
		}
		if want := "prompt too long"; err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("expected raw payload in error, got %v", err)
		}
	})
}

func TestMockBackend(t *testing.T) {
	t.Run("should create a placeholder artifact without network calls", func(t *testing.T) {
		videosDir := t.TempDir()
		m := NewMockBackend(10*time.Millisecond, storage.NewArtifactStore(videosDir), testLogger())

		start := time.Now()
		path, err := m.Generate(context.Background(), adapter.GenerationRequest{
			JobID:  "vid_mck000000001",
			Prompt: "dance video",
			Photos: []string{"p1.jpg"},
		}, nil)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if time.Since(start) < 10*time.Millisecond {
			t.Error("expected the simulated delay to elapse")
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("placeholder missing: %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("expected empty placeholder, got %d bytes", info.Size())
		}
	})

	t.Run("should abort the simulated delay on cancellation", func(t *testing.T) {
		m := NewMockBackend(time.Second, storage.NewArtifactStore(t.TempDir()), testLogger())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := m.Generate(ctx, adapter.GenerationRequest{JobID: "vid_mck000000002"}, nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context deadline error, got %v", err)
		}
	})
}
