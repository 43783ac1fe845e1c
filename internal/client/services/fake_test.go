package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewStore(db)
}

func nopLogger() logging.Logger {
	return logging.New(io.Discard, logging.Options{Level: "debug"})
}

// ---- fake client ----

type call struct {
	Method string
	Arg    string
	Token  string
}

// fakeClient implements client.Client with canned answers and records every
// call together with the bearer token it carried.
type fakeClient struct {
	mu    sync.Mutex
	calls []call

	LoginRet models.SessionGrant
	LoginErr error
	LastPass string

	RequestOTPRet string
	RequestOTPErr error

	// VerifyOTPFn decides per code; nil means success with VerifyGrant.
	VerifyOTPFn func(email, code string) (models.OTPVerification, error)
	VerifyGrant models.SessionGrant

	VerifyResetRet string
	VerifyResetErr error

	ResetRet string
	ResetErr error

	Employees    []*models.User
	EmployeesErr error

	UpdateRet *models.User
	UpdateErr error

	DeleteUserErr error

	Tasks    []models.Task
	TasksErr error
	// TasksGate, when set, blocks ListTasks until it is closed.
	TasksGate chan struct{}

	AssignRet *models.Task
	AssignErr error

	DeleteTaskErr error

	Down bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(ctx context.Context, method, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Arg: arg, Token: client.TokenFrom(ctx)})
}

func (f *fakeClient) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeClient) CallsTo(method string) []call {
	var out []call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	f.record(ctx, "Login", creds.Email)
	f.LastPass = string(creds.Password)
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) RequestOTP(ctx context.Context, purpose models.Purpose, email string) (string, error) {
	f.record(ctx, "RequestOTP", string(purpose)+":"+email)
	return f.RequestOTPRet, f.RequestOTPErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, code string) (models.OTPVerification, error) {
	f.record(ctx, "VerifyOTP", email+":"+code)
	if f.VerifyOTPFn != nil {
		return f.VerifyOTPFn(email, code)
	}
	return models.OTPVerification{Success: true, Grant: f.VerifyGrant}, nil
}

func (f *fakeClient) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	f.record(ctx, "VerifyResetOTP", email+":"+code)
	return f.VerifyResetRet, f.VerifyResetErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, email string, newPassword []byte) (string, error) {
	f.record(ctx, "ResetPassword", email+":"+string(newPassword))
	return f.ResetRet, f.ResetErr
}

func (f *fakeClient) ListEmployees(ctx context.Context) ([]*models.User, error) {
	f.record(ctx, "ListEmployees", "")
	return f.Employees, f.EmployeesErr
}

func (f *fakeClient) UpdateDepartment(ctx context.Context, employeeID string, department models.Department) (*models.User, error) {
	f.record(ctx, "UpdateDepartment", employeeID+":"+string(department))
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, employeeID string) error {
	f.record(ctx, "DeleteUser", employeeID)
	return f.DeleteUserErr
}

func (f *fakeClient) ListTasks(ctx context.Context, employeeID string) ([]models.Task, error) {
	f.record(ctx, "ListTasks", employeeID)
	if f.TasksGate != nil {
		<-f.TasksGate
	}
	return append([]models.Task(nil), f.Tasks...), f.TasksErr
}

func (f *fakeClient) AssignTask(ctx context.Context, employeeID string, draft models.TaskDraft) (*models.Task, error) {
	f.record(ctx, "AssignTask", employeeID+":"+draft.Description)
	return f.AssignRet, f.AssignErr
}

func (f *fakeClient) DeleteTask(ctx context.Context, taskID string) error {
	f.record(ctx, "DeleteTask", taskID)
	return f.DeleteTaskErr
}

func (f *fakeClient) Available() bool { return !f.Down }
