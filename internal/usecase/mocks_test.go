// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telegram-video-bot/internal/domain"
	"telegram-video-bot/internal/domain/model"
	"telegram-video-bot/internal/domain/ports/adapter"
)

// memJobRepo is a small in-memory implementation used by unit tests.
type memJobRepo struct {
	mu        sync.Mutex
	jobs      map[string]*model.VideoJob
	statusLog []model.VideoJobStatus
	createErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.VideoJob)}
}

func (m *memJobRepo) Create(ctx context.Context, job *model.VideoJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *job
	m.jobs[job.ID] = &cp
	m.statusLog = append(m.statusLog, job.Status)
	return nil
}

func (m *memJobRepo) UpdateStatus(ctx context.Context, jobID string, status model.VideoJobStatus, videoPath, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = status
	if videoPath != "" {
		job.VideoPath = videoPath
	}
	if errMsg != "" {
		job.ErrorMessage = errMsg
	}
	job.UpdatedAt = time.Now()
	m.statusLog = append(m.statusLog, status)
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, jobID string) (*model.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *memJobRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.VideoJob
	for _, j := range m.jobs {
		if j.UserID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memJobRepo) transitions() []model.VideoJobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.VideoJobStatus(nil), m.statusLog...)
}

// memStateRepo mirrors sessions in memory instead of Redis.
type memStateRepo struct {
	mu       sync.Mutex
	sessions map[int64]*model.VideoSession
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{sessions: make(map[int64]*model.VideoSession)}
}

func (m *memStateRepo) SetSession(ctx context.Context, userID int64, s *model.VideoSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[userID] = &cp
	return nil
}

func (m *memStateRepo) GetSession(ctx context.Context, userID int64) (*model.VideoSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStateRepo) ClearSession(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// fakeBackend implements adapter.GenerationBackend with a scripted outcome.
type fakeBackend struct {
	mu         sync.Mutex
	path       string
	err        error
	panicWith  interface{}
	calls      int
	lastReq    adapter.GenerationRequest
	processing bool
}

func (f *fakeBackend) Generate(ctx context.Context, req adapter.GenerationRequest, onProcessing func()) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()

	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return "", f.err
	}
	if onProcessing != nil {
		f.mu.Lock()
		f.processing = true
		f.mu.Unlock()
		onProcessing()
	}
	return f.path, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeEnhancer rewrites prompts deterministically or fails.
type fakeEnhancer struct {
	out string
	err error
}

func (f *fakeEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.out == "" {
		return prompt, nil
	}
	return f.out, nil
}

// memIncomeRepo backs the money use case in tests.
type memIncomeRepo struct {
	mu      sync.Mutex
	entries []*model.IncomeEntry
}

func (m *memIncomeRepo) Add(ctx context.Context, e *model.IncomeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memIncomeRepo) MonthlySummary(ctx context.Context, ref time.Time) (*model.MonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &model.MonthlySummary{Month: ref.Month(), Year: ref.Year(), ByCategory: map[string]float64{}}
	for _, e := range m.entries {
		if e.EntryDate.Month() == ref.Month() && e.EntryDate.Year() == ref.Year() {
			summary.TotalGross += e.GrossAmount
			summary.TotalNet += e.NetAmount
			summary.TotalBills += e.BillsAmount
			summary.ByCategory[e.Category] += e.NetAmount
		}
	}
	return summary, nil
}

func (m *memIncomeRepo) ListRecent(ctx context.Context, limit int) ([]*model.IncomeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*model.IncomeEntry(nil), m.entries...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memRecipeRepo backs the meal use case in tests.
type memRecipeRepo struct {
	mu      sync.Mutex
	nextID  int64
	recipes map[int64]*model.Recipe
}

func newMemRecipeRepo() *memRecipeRepo {
	return &memRecipeRepo{recipes: make(map[int64]*model.Recipe)}
}

func (m *memRecipeRepo) Save(ctx context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if recipe.ID == 0 {
		m.nextID++
		recipe.ID = m.nextID
	} else if _, ok := m.recipes[recipe.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *recipe
	m.recipes[recipe.ID] = &cp
	return nil
}

func (m *memRecipeRepo) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *recipe
	return &cp, nil
}

func (m *memRecipeRepo) Random(ctx context.Context, category string) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, recipe := range m.recipes {
		if category == "" || recipe.Category == category {
			cp := *recipe
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRecipeRepo) List(ctx context.Context) ([]*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Recipe
	for _, recipe := range m.recipes {
		cp := *recipe
		out = append(out, &cp)
	}
	return out, nil
}

// memLeadRepo backs the lead use case in tests.
type memLeadRepo struct {
	mu    sync.Mutex
	seq   int
	leads map[string]*model.Lead
}

func newMemLeadRepo() *memLeadRepo {
	return &memLeadRepo{leads: make(map[string]*model.Lead)}
}

func (m *memLeadRepo) Add(ctx context.Context, lead *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lead.ID == "" {
		m.seq++
		lead.ID = fmt.Sprintf("lead-%d", m.seq)
	}
	cp := *lead
	m.leads[lead.ID] = &cp
	return nil
}

func (m *memLeadRepo) ListByStatus(ctx context.Context, status model.LeadStatus, limit int) ([]*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lead
	for _, lead := range m.leads {
		if status != "" && lead.Status != status {
			continue
		}
		cp := *lead
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memLeadRepo) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.ErrNotFound
	}
	lead.Status = status
	return nil
}
