package api

import (
	"errors"
	"sync"
	"time"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// RunStatus is the lifecycle state of one background run.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run kinds.
const (
	RunKindArticle = "article"
	RunKindEdit    = "edit"
)

// ErrRunNotFound indicates an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is the status record for one background generation or edit.
type Run struct {
	ID        string              `json:"id"`
	Kind      string              `json:"kind"`
	Status    RunStatus           `json:"status"`
	Topic     string              `json:"topic,omitempty"`
	Slug      string              `json:"slug,omitempty"`
	Error     string              `json:"error,omitempty"`
	Submitted time.Time           `json:"submitted"`
	Finished  *time.Time          `json:"finished,omitempty"`
	Article   *blog.ArticleRecord `json:"article,omitempty"`
}

// RunStore keeps run records in memory. Records survive for the life of the
// process only; a restart forgets past runs.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]Run)}
}

// Create records a new run.
func (s *RunStore) Create(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

// Get returns a run by ID.
func (s *RunStore) Get(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return run, nil
}

// SetRunning marks a run as in progress.
func (s *RunStore) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = RunRunning
		s.runs[id] = run
	}
}

// SetSucceeded marks a run as finished, optionally attaching the produced
// article.
func (s *RunStore) SetSucceeded(id string, finished time.Time, article *blog.ArticleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = RunSucceeded
		run.Finished = &finished
		run.Article = article
		if article != nil {
			run.Slug = article.Slug
		}
		s.runs[id] = run
	}
}

// SetFailed marks a run as failed with the error message.
func (s *RunStore) SetFailed(id string, finished time.Time, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = RunFailed
		run.Finished = &finished
		run.Error = errMsg
		s.runs[id] = run
	}
}
