package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
)

// AuthService issues and drops sessions.
//
// Contract:
//   - Login: exchange a password credential for a persisted session.
//   - Establish: persist a grant obtained elsewhere (OTP verification),
//     consuming the pending email of purpose in the same write.
//   - Logout: forget the session and every pending email.
//   - Identity: the current session, if any.
//
// On failure no session state is created or changed.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte, role models.Role) (models.Identity, error)
	Establish(ctx context.Context, grant models.SessionGrant, consumed models.Purpose) (models.Identity, error)
	Logout(ctx context.Context) error
	Identity(ctx context.Context) (models.Identity, bool, error)
	Available() bool
}

type authService struct {
	client client.Client
	store  *session.Store
	log    logging.Logger
}

func NewAuthService(c client.Client, store *session.Store, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log}
}

// Login wipes password before returning.
func (a *authService) Login(ctx context.Context, email string, password []byte, role models.Role) (models.Identity, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return models.Identity{}, common.InputError(common.ErrEmptyField)
	}
	if role == "" {
		role = models.RoleManager
	}

	grant, err := a.client.Login(ctx, models.Credentials{Email: email, Password: password, Role: role})
	if err != nil {
		logFailure(ctx, a.log, "login failed", err, "email", email)
		return models.Identity{}, err
	}
	if grant.Token == "" {
		return models.Identity{}, common.NewError(common.KindDataShape, "", fmt.Errorf("%w: login answer without token", client.ErrMalformedResponse))
	}
	return a.Establish(ctx, grant, "")
}

func (a *authService) Establish(ctx context.Context, grant models.SessionGrant, consumed models.Purpose) (models.Identity, error) {
	if err := a.store.Establish(ctx, grant, consumed); err != nil {
		return models.Identity{}, fmt.Errorf("persist session: %w", err)
	}
	id, _, err := a.store.Identity(ctx)
	if err != nil {
		return models.Identity{}, fmt.Errorf("read session: %w", err)
	}
	a.log.Info(ctx, "session established", "user_id", id.UserID)
	return id, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) Identity(ctx context.Context) (models.Identity, bool, error) {
	return a.store.Identity(ctx)
}

func (a *authService) Available() bool {
	return a.client.Available()
}

// logFailure logs err at the level its kind calls for: remote rejections
// and input errors are routine, everything else is not.
func logFailure(ctx context.Context, log logging.Logger, msg string, err error, args ...any) {
	kind := common.KindOf(err)
	args = append(args, "kind", kind, "error", err)
	switch kind {
	case common.KindInput, common.KindRemote, common.KindAuth:
		log.Warn(ctx, msg, args...)
	default:
		log.Error(ctx, msg, args...)
	}
}
