package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
)

type videoJobResponse struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Prompt       string    `json:"prompt"`
	PhotoCount   int       `json:"photo_count"`
	Status       string    `json:"status"`
	VideoPath    string    `json:"video_path,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toJobResponse(job *model.VideoJob) videoJobResponse {
	return videoJobResponse{
		ID:           job.ID,
		UserID:       job.UserID,
		Prompt:       job.Prompt,
		PhotoCount:   len(job.Photos),
		Status:       string(job.Status),
		VideoPath:    job.VideoPath,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

// jobGetHandler serves one job record by id.
func (s *Server) jobGetHandler(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := s.jobs.FindByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("job_id", jobID).Msg("job lookup failed")
		http.Error(w, "Failed to get job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toJobResponse(job))
}

// userJobsHandler lists a user's recent jobs, newest first.
func (s *Server) userJobsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	jobs, err := s.jobs.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("job list failed")
		http.Error(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}

	out := make([]videoJobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobResponse(job))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
