package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
)

// Roster is the manager's list of employees. Filters are derived views and
// never touch the list itself; a department update swaps exactly one
// pointer in it.
type Roster struct {
	client   client.Client
	store    *session.Store
	log      logging.Logger
	validate *validator.Validate

	mu        sync.Mutex
	gen       uint64
	closed    bool
	employees []*models.User
	loadErr   error
}

func NewRoster(c client.Client, store *session.Store, log logging.Logger) *Roster {
	return &Roster{
		client:   c,
		store:    store,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Close detaches the view; late answers are dropped.
func (r *Roster) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// withSession attaches the token when there is one. Roster calls do not
// require it; the server decides.
func (r *Roster) withSession(ctx context.Context) context.Context {
	token, err := r.store.Token(ctx)
	if err != nil {
		r.log.Warn(ctx, "read session token", "error", err)
		return ctx
	}
	return client.WithToken(ctx, token)
}

// Load fetches the roster. On failure the previous list stays and the
// error is kept as a retryable banner until the next successful load.
func (r *Roster) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return common.InputError(common.ErrContextClosed)
	}
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	users, err := r.client.ListEmployees(r.withSession(ctx))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.gen != gen {
		r.log.Debug(ctx, "dropping stale roster", "generation", gen)
		return nil
	}
	if err != nil {
		r.loadErr = err
		logFailure(ctx, r.log, "load employees failed", err)
		return err
	}
	r.employees = make([]*models.User, 0, len(users))
	for _, u := range users {
		if u != nil {
			r.employees = append(r.employees, u)
		}
	}
	r.loadErr = nil
	r.log.Debug(ctx, "roster loaded", "count", len(users))
	return nil
}

// Banner is the message of the last failed load, or "".
func (r *Roster) Banner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr == nil {
		return ""
	}
	return MsgLoadEmployees
}

// Employees returns the roster. The slice is a copy; the records are shared.
func (r *Roster) Employees() []*models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.User(nil), r.employees...)
}

// Filter returns the employees whose username contains query, ignoring
// case, and who belong to dept. An empty query or department matches all.
func (r *Roster) Filter(query string, dept models.Department) []*models.User {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.User, 0)
	for _, u := range r.Employees() {
		if u == nil {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Username), query) {
			continue
		}
		if dept != models.DepartmentUnset && u.Department != dept {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *Roster) Search(query string) []*models.User {
	return r.Filter(query, models.DepartmentUnset)
}

func (r *Roster) ByDepartment(dept models.Department) []*models.User {
	return r.Filter("", dept)
}

// Lookup finds a loaded employee by id.
func (r *Roster) Lookup(id string) (*models.User, bool) {
	if id == "" {
		return nil, false
	}
	for _, u := range r.Employees() {
		if u.HasIdentity() && u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// UpdateDepartment assigns dept to the employee. The answer must be a valid
// user record with the same id; only then does it replace the matching
// entry. Two updates racing for one employee resolve last-response-wins.
func (r *Roster) UpdateDepartment(ctx context.Context, employeeID string, dept models.Department) (*models.User, error) {
	if employeeID == "" {
		return nil, common.InputError(common.ErrMissingIdentity)
	}
	if !dept.Valid() {
		return nil, common.InputError(common.ErrInvalidDepartment)
	}

	updated, err := r.client.UpdateDepartment(r.withSession(ctx), employeeID, dept)
	if err != nil {
		logFailure(ctx, r.log, "update department failed", err, "employee_id", employeeID)
		return nil, err
	}
	if err := r.validate.Struct(updated); err != nil {
		err = common.NewError(common.KindDataShape, "", fmt.Errorf("%w: %v", client.ErrMalformedResponse, err))
		logFailure(ctx, r.log, "update department failed", err, "employee_id", employeeID)
		return nil, err
	}
	if updated.ID != employeeID {
		err := common.NewError(common.KindDataShape, "", fmt.Errorf("%w: answer for %q", client.ErrMalformedResponse, updated.ID))
		logFailure(ctx, r.log, "update department failed", err, "employee_id", employeeID)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return updated, nil
	}
	next := make([]*models.User, len(r.employees))
	for i, u := range r.employees {
		if u.HasIdentity() && u.ID == employeeID {
			next[i] = updated
		} else {
			next[i] = u
		}
	}
	r.employees = next
	r.log.Info(ctx, "department updated", "employee_id", employeeID, "department", string(dept))
	return updated, nil
}

// AssignTask creates a task for the employee.
func (r *Roster) AssignTask(ctx context.Context, employeeID string, draft models.TaskDraft) (*models.Task, error) {
	if employeeID == "" {
		return nil, common.InputError(common.ErrMissingIdentity)
	}
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Date = strings.TrimSpace(draft.Date)
	draft.Time = strings.TrimSpace(draft.Time)
	draft.Address = strings.TrimSpace(draft.Address)
	if err := r.validate.Struct(draft); err != nil {
		return nil, common.NewError(common.KindInput, common.ErrEmptyField.Error(), fmt.Errorf("%w: %v", common.ErrEmptyField, err))
	}

	task, err := r.client.AssignTask(r.withSession(ctx), employeeID, draft)
	if err != nil {
		logFailure(ctx, r.log, "assign task failed", err, "employee_id", employeeID)
		return nil, err
	}
	r.log.Info(ctx, "task assigned", "employee_id", employeeID, "task_id", task.ID)
	return task, nil
}

// AssignTaskPath is where the UI goes to assign a task to the employee.
func AssignTaskPath(employeeID string) (string, error) {
	if employeeID == "" {
		return "", common.InputError(common.ErrMissingIdentity)
	}
	return "/manager/add-task/" + employeeID, nil
}

// SchedulePath is where the UI goes to show the employee's schedule.
func SchedulePath(employeeID string) (string, error) {
	if employeeID == "" {
		return "", common.InputError(common.ErrMissingIdentity)
	}
	return "/manager/view-schedule/" + employeeID, nil
}
