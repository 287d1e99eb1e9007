package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hragent/hiring-pipeline/internal/apperrors"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Task is the progress record of one intake batch. It lives in process
// memory only and ages out a retention window after finishing.
type Task struct {
	ID          string     `json:"id"`
	Status      TaskStatus `json:"status"`
	Total       int        `json:"total"`
	Processed   int        `json:"processed"`
	Shortlisted int        `json:"shortlisted"`
	Rejected    int        `json:"rejected"`
	Failed      int        `json:"failed"`
	Skipped     int        `json:"skipped"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`

	cancelRequested bool
}

func (t *Task) terminal() bool {
	switch t.Status {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// TaskRegistry owns all in-flight intake tasks behind one lock. It is
// injected rather than global so call sites never touch process-wide state.
type TaskRegistry struct {
	mu        sync.Mutex
	tasks     map[string]*Task
	retention time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

func NewTaskRegistry(retention time.Duration) *TaskRegistry {
	return &TaskRegistry{
		tasks:     make(map[string]*Task),
		retention: retention,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the janitor that drops terminal tasks once their retention
// window has passed.
func (r *TaskRegistry) Start() {
	r.wg.Add(1)
	go r.janitor()
}

func (r *TaskRegistry) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}

func (r *TaskRegistry) janitor() {
	defer r.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.purgeExpired()
		}
	}
}

func (r *TaskRegistry) purgeExpired() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.retention)
	for id, task := range r.tasks {
		if task.terminal() && task.FinishedAt != nil && task.FinishedAt.Before(cutoff) {
			delete(r.tasks, id)
			log.Printf("🧹 Task %s aged out of the registry\n", id)
		}
	}
}

// Create registers a new pending task for a batch of the given size.
func (r *TaskRegistry) Create(total int) *Task {
	task := &Task{
		ID:        uuid.New().String(),
		Status:    TaskPending,
		Total:     total,
		StartedAt: time.Now(),
	}
	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()
	return snapshot(task)
}

// Get returns a copy of the task, or NotFound once it has aged out.
func (r *TaskRegistry) Get(id string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.NewNotFound("task %s not found", id)
	}
	return snapshot(task), nil
}

// Cancel requests cooperative cancellation. Only pending or processing
// tasks can be cancelled; the orchestrator observes the flag between items
// and finishes the task as cancelled.
func (r *TaskRegistry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return apperrors.NewNotFound("task %s not found", id)
	}
	if task.terminal() {
		return apperrors.NewValidation("task %s is already %s and cannot be cancelled", id, task.Status)
	}
	task.cancelRequested = true
	return nil
}

func (r *TaskRegistry) IsCancelled(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	return ok && task.cancelRequested
}

func (r *TaskRegistry) MarkProcessing(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok && task.Status == TaskPending {
		task.Status = TaskProcessing
	}
}

// ItemOutcome classifies one processed batch item for counter updates.
type ItemOutcome int

const (
	OutcomeShortlisted ItemOutcome = iota
	OutcomeRejected
	OutcomeFailed
	OutcomeSkipped
)

// Record updates the task counters for one finished item. Workers finish
// concurrently, so all counter writes happen under the registry lock.
func (r *TaskRegistry) Record(id string, outcome ItemOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return
	}
	task.Processed++
	switch outcome {
	case OutcomeShortlisted:
		task.Shortlisted++
	case OutcomeRejected:
		task.Rejected++
	case OutcomeFailed:
		task.Failed++
	case OutcomeSkipped:
		task.Skipped++
	}
}

// Finish moves a task into a terminal status and stamps the finish time.
func (r *TaskRegistry) Finish(id string, status TaskStatus, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.terminal() {
		return
	}
	now := time.Now()
	task.Status = status
	task.Error = errMsg
	task.FinishedAt = &now
}

func snapshot(task *Task) *Task {
	copied := *task
	if task.FinishedAt != nil {
		finished := *task.FinishedAt
		copied.FinishedAt = &finished
	}
	return &copied
}
