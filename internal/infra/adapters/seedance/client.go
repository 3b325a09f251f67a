package seedance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-video-bot/internal/config"
	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/ports/adapter"
	"telegram-video-bot/internal/infra/metrics"
	"telegram-video-bot/internal/infra/storage"
)

// Compile-time assurance this backend satisfies the port
var _ adapter.GenerationBackend = (*Client)(nil)

// Client drives the Seedance-style generation service over HTTP with bearer
// auth. Upload, submit and download are bounded by the transport timeout;
// polling carries its own wall-clock deadline.
type Client struct {
	apiKey       string
	base         string
	duration     int
	resolution   string
	pollInterval time.Duration
	maxWait      time.Duration
	store        *storage.ArtifactStore
	client       *http.Client
	log          *zerolog.Logger
}

func NewClient(cfg config.SeedanceConfig, store *storage.ArtifactStore, logger *zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrNotConfigured
	}
	cliLog := logger.With().Str("component", "SeedanceClient").Logger()
	return &Client{
		apiKey:       cfg.APIKey,
		base:         strings.TrimRight(cfg.BaseURL, "/"),
		duration:     cfg.Duration,
		resolution:   cfg.Resolution,
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		store:        store,
		client:       &http.Client{Timeout: cfg.RequestTimeout},
		log:          &cliLog,
	}, nil
}

// Generate runs the four transfer phases in order. Each phase is
// independently failable; the first failing phase aborts the run.
func (c *Client) Generate(ctx context.Context, req adapter.GenerationRequest, onProcessing func()) (string, error) {
	fileIDs, err := c.uploadPhotos(ctx, req.Photos)
	if err != nil {
		return "", err
	}

	remoteJobID, err := c.submit(ctx, req.Prompt, fileIDs)
	if err != nil {
		return "", err
	}
	c.log.Info().Str("job_id", req.JobID).Str("remote_job_id", remoteJobID).Msg("generation job submitted")
	if onProcessing != nil {
		onProcessing()
	}

	res, err := c.PollUntilDone(ctx, remoteJobID)
	if err != nil {
		return "", err
	}
	if res.Status == remoteStatusFailed {
		msg := res.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return "", fmt.Errorf("remote generation failed: %s", msg)
	}

	data, err := c.download(ctx, res.VideoURL)
	if err != nil {
		return "", err
	}
	return c.store.WriteVideo(req.JobID, data)
}

// uploadPhotos sends each photo to the service and collects returned file
// handles. Individual upload failures are skipped; zero successes aborts
// the run before anything is submitted.
func (c *Client) uploadPhotos(ctx context.Context, photos []string) ([]string, error) {
	fileIDs := make([]string, 0, len(photos))
	for _, photo := range photos {
		start := time.Now()
		id, err := c.uploadOne(ctx, photo)
		metrics.ObserveTransferPhase("upload", int(time.Since(start)/time.Millisecond), err == nil)
		if err != nil {
			c.log.Warn().Err(err).Str("photo", photo).Msg("photo upload failed; skipping")
			continue
		}
		fileIDs = append(fileIDs, id)
	}
	if len(fileIDs) == 0 {
		return nil, domain.ErrUploadFailed
	}
	return fileIDs, nil
}

func (c *Client) uploadOne(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrTransfer, path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrTransfer, path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upload http %d", domain.ErrTransfer, resp.StatusCode)
	}

	var payload struct {
		FileID string `json:"file_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode upload response: %v", domain.ErrTransfer, err)
	}
	if payload.FileID == "" {
		return "", fmt.Errorf("%w: empty file_id", domain.ErrTransfer)
	}
	return payload.FileID, nil
}

type generateRequest struct {
	Prompt          string          `json:"prompt"`
	ReferenceImages []string        `json:"reference_images"`
	Options         generateOptions `json:"options"`
}

type generateOptions struct {
	Duration   int    `json:"duration"`
	Resolution string `json:"resolution"`
}

// submit sends the generation request and returns the remote job handle,
// distinct from the local job id. A non-200 response fails with the raw
// error payload.
func (c *Client) submit(ctx context.Context, prompt string, fileIDs []string) (string, error) {
	start := time.Now()
	remoteID, err := c.doSubmit(ctx, prompt, fileIDs)
	metrics.ObserveTransferPhase("submit", int(time.Since(start)/time.Millisecond), err == nil)
	return remoteID, err
}

func (c *Client) doSubmit(ctx context.Context, prompt string, fileIDs []string) (string, error) {
	b, _ := json.Marshal(generateRequest{
		Prompt:          prompt,
		ReferenceImages: fileIDs,
		Options:         generateOptions{Duration: c.duration, Resolution: c.resolution},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/generate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %s", domain.ErrSubmissionRejected, strings.TrimSpace(string(raw)))
	}

	var payload struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode generate response: %v", domain.ErrTransfer, err)
	}
	if payload.JobID == "" {
		return "", fmt.Errorf("%w: empty remote job_id", domain.ErrTransfer)
	}
	return payload.JobID, nil
}

// download fetches the finished artifact bytes.
func (c *Client) download(ctx context.Context, videoURL string) ([]byte, error) {
	start := time.Now()
	data, err := c.doDownload(ctx, videoURL)
	metrics.ObserveTransferPhase("download", int(time.Since(start)/time.Millisecond), err == nil)
	return data, err
}

func (c *Client) doDownload(ctx context.Context, videoURL string) ([]byte, error) {
	if videoURL == "" {
		return nil, fmt.Errorf("%w: missing video_url", domain.ErrTransfer)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download http %d", domain.ErrTransfer, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", domain.ErrTransfer, err)
	}
	return data, nil
}
