package adapter

import "context"

// GenerationRequest carries the inputs for one generation attempt. JobID is
// the local job id; the remote service issues its own handle internally.
type GenerationRequest struct {
	JobID  string
	Prompt string
	Photos []string
}

// GenerationBackend is the port for producing a video artifact from a
// request. Exactly one implementation is selected at startup: the real
// transfer client when an API key is configured, the local mock otherwise.
// The pipeline itself never branches on the mode.
type GenerationBackend interface {
	// Generate runs the full pipeline (upload, submit, poll, download for
	// the real backend; a simulated delay for the mock) and returns the
	// local path of the finished artifact. onProcessing, if non-nil, is
	// called once when the request has been accepted and generation is
	// underway, so the caller can persist the intermediate status.
	Generate(ctx context.Context, req GenerationRequest, onProcessing func()) (string, error)
}
