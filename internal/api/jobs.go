package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ipv6poetry/poetrytools/core/poetry"
)

// JobStatus represents the current state of a batch job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
)

// BatchRequest is the body of POST /v1/batch.
type BatchRequest struct {
	Addresses []string `json:"addresses,omitempty"`
	Phrases   []string `json:"phrases,omitempty"`
}

// BatchItem is one converted entry of a batch job. Failed entries carry an
// error string; the rest of the batch still completes.
type BatchItem struct {
	Input    string              `json:"input"`
	Output   string              `json:"output,omitempty"`
	Warnings []poetry.Diagnostic `json:"warnings,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Job represents an asynchronous batch conversion job.
type Job struct {
	ID          string      `json:"id"`
	Status      JobStatus   `json:"status"`
	Progress    int         `json:"progress"` // 0-100
	Items       []BatchItem `json:"items,omitempty"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt string      `json:"completed_at,omitempty"`
}

// JobStore manages batch jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create registers a new pending job and returns it.
func (s *JobStore) Create() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.jobs[job.ID] = job
	return job
}

// Get returns a snapshot copy of the job with the given ID.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	snapshot := *job
	snapshot.Items = append([]BatchItem(nil), job.Items...)
	return snapshot, ok
}

func (s *JobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
	}
}

func (s *Server) handleBatchCreate(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if len(req.Addresses) == 0 && len(req.Phrases) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "addresses or phrases required")
		return
	}

	job := s.jobs.Create()
	go s.runBatch(job.ID, req)
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) handleJobGet(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no such job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// runBatch converts every entry of the request, updating progress and
// broadcasting job events as it goes.
func (s *Server) runBatch(id string, req BatchRequest) {
	total := len(req.Addresses) + len(req.Phrases)
	done := 0

	s.jobs.update(id, func(j *Job) { j.Status = JobStatusRunning })
	s.hub.BroadcastEvent("job", map[string]any{"id": id, "status": string(JobStatusRunning)})

	record := func(item BatchItem) {
		done++
		progress := done * 100 / total
		s.jobs.update(id, func(j *Job) {
			j.Items = append(j.Items, item)
			j.Progress = progress
		})
	}

	for _, addr := range req.Addresses {
		item := BatchItem{Input: addr}
		if phrase, err := s.codec.Encode(addr); err != nil {
			item.Error = err.Error()
		} else {
			item.Output = phrase
		}
		record(item)
	}
	for _, phrase := range req.Phrases {
		item := BatchItem{Input: phrase}
		if addr, diags, err := s.codec.Decode(phrase); err != nil {
			item.Error = err.Error()
		} else {
			item.Output = addr
			item.Warnings = diags
		}
		record(item)
	}

	s.jobs.update(id, func(j *Job) {
		j.Status = JobStatusCompleted
		j.Progress = 100
		j.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	})
	s.hub.BroadcastEvent("job", map[string]any{"id": id, "status": string(JobStatusCompleted)})
}
