package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/gate"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
)

// TaskRow is a task as the UI lists it. Key is the task id, or a random
// key minted when the task was loaded without one; such rows have
// CanRemove false.
type TaskRow struct {
	Key       string
	Task      models.Task
	CanRemove bool
}

// Schedule is the task view of one employee. It owns the single task list
// the upcoming and completed buckets are projected from, plus the two
// confirmation gates guarding task and user removal.
//
// Network calls run without the lock held. Results that come back after
// Close, or after a newer Load was started, are dropped.
type Schedule struct {
	client     client.Client
	store      *session.Store
	log        logging.Logger
	employeeID string

	mu      sync.Mutex
	gen     uint64
	closed  bool
	removed bool
	rows    []TaskRow

	taskGate gate.Gate[string]
	userGate gate.Gate[string]
}

func NewSchedule(c client.Client, store *session.Store, log logging.Logger, employeeID string) *Schedule {
	return &Schedule{
		client:     c,
		store:      store,
		log:        log.With("employee_id", employeeID),
		employeeID: employeeID,
	}
}

func (s *Schedule) EmployeeID() string {
	return s.employeeID
}

// Close detaches the view. Nothing is applied to it afterwards.
func (s *Schedule) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.taskGate.Cancel()
	s.userGate.Cancel()
}

// Active is false once the view was closed or its employee removed.
func (s *Schedule) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Removed reports whether the employee of this view was deleted.
func (s *Schedule) Removed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// authorized returns ctx carrying the session token. A missing token is an
// auth error: the view cannot recover without a new login.
func (s *Schedule) authorized(ctx context.Context) (context.Context, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, common.NewError(common.KindAuth, common.ErrNoSession.Error(), common.ErrNoSession)
	}
	return client.WithToken(ctx, token), nil
}

// Load fetches the employee's tasks and replaces the local list.
func (s *Schedule) Load(ctx context.Context) error {
	if s.employeeID == "" {
		return common.InputError(common.ErrMissingIdentity)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return common.InputError(common.ErrContextClosed)
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	ctx, err := s.authorized(ctx)
	if err != nil {
		return err
	}

	tasks, err := s.client.ListTasks(ctx, s.employeeID)
	if err != nil {
		logFailure(ctx, s.log, "fetch tasks failed", err)
		return err
	}

	rows := make([]TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskRow{Key: t.ID, Task: t, CanRemove: t.HasIdentity()}
		if !t.HasIdentity() {
			rows[i].Key = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.gen != gen {
		s.log.Debug(ctx, "dropping stale task list", "generation", gen)
		return nil
	}
	s.rows = rows
	s.log.Debug(ctx, "tasks loaded", "count", len(rows))
	return nil
}

// Refresh re-fetches the list.
func (s *Schedule) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Tasks returns a copy of the source list.
func (s *Schedule) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Task
	}
	return out
}

// Upcoming is every task whose status is not completed.
func (s *Schedule) Upcoming() []models.Task {
	upcoming, _ := models.Partition(s.Tasks())
	return upcoming
}

func (s *Schedule) Completed() []models.Task {
	_, completed := models.Partition(s.Tasks())
	return completed
}

// Rows returns both buckets as rows, in list order.
func (s *Schedule) Rows() (upcoming, completed []TaskRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	upcoming = make([]TaskRow, 0, len(s.rows))
	completed = make([]TaskRow, 0)
	for _, r := range s.rows {
		if r.Task.IsCompleted() {
			completed = append(completed, r)
		} else {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, completed
}

// Task looks up a loaded task by id, e.g. for the logs of a completed one.
func (s *Schedule) Task(id string) (models.Task, bool) {
	if id == "" {
		return models.Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Task.ID == id {
			return r.Task, true
		}
	}
	return models.Task{}, false
}

// InitiateRemoveTask opens the task gate for taskID, replacing any earlier
// candidate. Nothing is sent yet.
func (s *Schedule) InitiateRemoveTask(taskID string) error {
	if taskID == "" {
		return common.InputError(common.ErrMissingIdentity)
	}
	if !s.Active() {
		return common.InputError(common.ErrContextClosed)
	}
	if s.isSyntheticKey(taskID) {
		return common.InputError(common.ErrMissingIdentity)
	}
	s.taskGate.Open(taskID)
	return nil
}

// isSyntheticKey reports whether key was generated for a row the server
// sent without an id.
func (s *Schedule) isSyntheticKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Key == key {
			return !r.CanRemove
		}
	}
	return false
}

func (s *Schedule) PendingTaskRemoval() (string, bool) {
	return s.taskGate.Pending()
}

// CancelRemoveTask discards the candidate without any network call.
func (s *Schedule) CancelRemoveTask() {
	s.taskGate.Cancel()
}

// ConfirmRemoveTask deletes the pending candidate. The gate is closed
// whatever the outcome; the task leaves the local list only when the
// server accepted the deletion.
func (s *Schedule) ConfirmRemoveTask(ctx context.Context) error {
	taskID, ok := s.taskGate.Take()
	if !ok {
		return common.InputError(common.ErrNothingPending)
	}

	ctx, err := s.authorized(ctx)
	if err != nil {
		return err
	}
	if err := s.client.DeleteTask(ctx, taskID); err != nil {
		logFailure(ctx, s.log, "remove task failed", err, "task_id", taskID)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	kept := make([]TaskRow, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Task.ID != taskID {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	s.log.Info(ctx, "task removed", "task_id", taskID)
	return nil
}

// InitiateRemoveUser opens the user gate for this view's employee.
func (s *Schedule) InitiateRemoveUser() error {
	if s.employeeID == "" {
		return common.InputError(common.ErrMissingIdentity)
	}
	if !s.Active() {
		return common.InputError(common.ErrContextClosed)
	}
	s.userGate.Open(s.employeeID)
	return nil
}

func (s *Schedule) PendingUserRemoval() (string, bool) {
	return s.userGate.Pending()
}

func (s *Schedule) CancelRemoveUser() {
	s.userGate.Cancel()
}

// ConfirmRemoveUser deletes the employee. On success the view is closed:
// a schedule of a deleted employee must not be shown again.
func (s *Schedule) ConfirmRemoveUser(ctx context.Context) error {
	employeeID, ok := s.userGate.Take()
	if !ok {
		return common.InputError(common.ErrNothingPending)
	}

	ctx, err := s.authorized(ctx)
	if err != nil {
		return err
	}
	if err := s.client.DeleteUser(ctx, employeeID); err != nil {
		logFailure(ctx, s.log, "remove user failed", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = true
	s.closed = true
	s.rows = nil
	s.taskGate.Cancel()
	s.log.Info(ctx, "user removed")
	return nil
}
