package seedance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/infra/metrics"
)

type remoteStatus string

const (
	remoteStatusPending   remoteStatus = "pending"
	remoteStatusCompleted remoteStatus = "completed"
	remoteStatusFailed    remoteStatus = "failed"
)

// PollResult is the terminal outcome reported by the remote service.
type PollResult struct {
	RemoteJobID string
	Status      remoteStatus
	VideoURL    string
	Error       string
}

// PollUntilDone queries the remote job status on a fixed interval until a
// terminal status or the wall-clock deadline. A poll request that errors
// transiently counts as still pending for that cycle; only the overall
// deadline bounds the loop.
func (c *Client) PollUntilDone(ctx context.Context, remoteJobID string) (*PollResult, error) {
	deadline := time.Now().Add(c.maxWait)

	for time.Now().Before(deadline) {
		status, videoURL, errMsg, err := c.queryStatus(ctx, remoteJobID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.IncPollCycle("transient_error")
			c.log.Warn().Err(err).Str("remote_job_id", remoteJobID).Msg("status poll failed; treating as pending")
		case status == remoteStatusCompleted:
			metrics.IncPollCycle("completed")
			return &PollResult{RemoteJobID: remoteJobID, Status: status, VideoURL: videoURL}, nil
		case status == remoteStatusFailed:
			metrics.IncPollCycle("failed")
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			return &PollResult{RemoteJobID: remoteJobID, Status: status, Error: errMsg}, nil
		default:
			metrics.IncPollCycle("pending")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return nil, domain.ErrGenerationTimeout
}

func (c *Client) queryStatus(ctx context.Context, remoteJobID string) (remoteStatus, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/jobs/"+remoteJobID, nil)
	if err != nil {
		return "", "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", "", fmt.Errorf("%w: status http %d", domain.ErrTransfer, resp.StatusCode)
	}

	var payload struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", "", fmt.Errorf("%w: decode status response: %v", domain.ErrTransfer, err)
	}
	if payload.Status == "" {
		payload.Status = string(remoteStatusPending)
	}
	return remoteStatus(payload.Status), payload.VideoURL, payload.Error, nil
}
