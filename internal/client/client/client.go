package client

import (
	"context"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
)

// Client is the slice of the TrackMate API this client consumes.
//
// Calls that need a session read the bearer token from ctx (see WithToken).
// Every error is a *common.Error whose Kind follows the taxonomy in package
// common; callers never need to inspect HTTP status codes.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (models.SessionGrant, error)
	// RequestOTP asks the server to mail a code for purpose and returns its message.
	RequestOTP(ctx context.Context, purpose models.Purpose, email string) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (models.OTPVerification, error)
	VerifyResetOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, email string, newPassword []byte) (string, error)

	ListEmployees(ctx context.Context) ([]*models.User, error)
	UpdateDepartment(ctx context.Context, employeeID string, department models.Department) (*models.User, error)
	DeleteUser(ctx context.Context, employeeID string) error

	ListTasks(ctx context.Context, employeeID string) ([]models.Task, error)
	AssignTask(ctx context.Context, employeeID string, draft models.TaskDraft) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	// Available is false while the circuit to the API is open.
	Available() bool
}

type tokenKey struct{}

// WithToken returns a context whose outbound requests carry token as a
// bearer credential. An empty token leaves ctx unchanged.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token carried by ctx, or "".
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}
