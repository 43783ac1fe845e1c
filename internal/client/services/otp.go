package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"
)

// Stage is the position of one OTP flow.
//
//	login: Idle -> OTPRequested -> OTPVerified -> SessionEstablished
//	reset: Idle -> OTPRequested -> OTPVerified -> PasswordReset -> Idle
//
// Failures never move a flow; a new request is accepted from any stage.
type Stage int

const (
	StageIdle Stage = iota
	StageOTPRequested
	StageOTPVerified
	StageSessionEstablished
	StagePasswordReset
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageOTPRequested:
		return "otp-requested"
	case StageOTPVerified:
		return "otp-verified"
	case StageSessionEstablished:
		return "session-established"
	case StagePasswordReset:
		return "password-reset"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// OTPService drives the request/verify cycle for both purposes. The email a
// code was issued for is kept in the session store and reused on verify, so
// a code is always checked against the address it was sent to.
type OTPService interface {
	// Resume restores stages from emails left pending by an earlier run.
	Resume(ctx context.Context) error
	RequestOTP(ctx context.Context, purpose models.Purpose, email string) (string, error)
	PendingEmail(ctx context.Context, purpose models.Purpose) (string, error)
	// VerifyOTP checks code against the pending email of purpose. A verified
	// login code establishes the session; a verified reset code unlocks
	// ResetPassword.
	VerifyOTP(ctx context.Context, purpose models.Purpose, code string) (string, error)
	// ResetPassword wipes both buffers before returning.
	ResetPassword(ctx context.Context, newPassword, confirm []byte) (string, error)
	Stage(purpose models.Purpose) Stage
}

type otpService struct {
	client client.Client
	store  *session.Store
	auth   AuthService
	log    logging.Logger

	mu     sync.Mutex
	stages map[models.Purpose]Stage
}

func NewOTPService(c client.Client, store *session.Store, auth AuthService, log logging.Logger) OTPService {
	return &otpService{
		client: c,
		store:  store,
		auth:   auth,
		log:    log,
		stages: make(map[models.Purpose]Stage),
	}
}

func (o *otpService) Stage(purpose models.Purpose) Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stages[purpose]
}

func (o *otpService) setStage(ctx context.Context, purpose models.Purpose, s Stage) {
	o.mu.Lock()
	prev := o.stages[purpose]
	o.stages[purpose] = s
	o.mu.Unlock()
	if prev != s {
		o.log.Debug(ctx, "otp flow moved", "purpose", purpose, "from", prev.String(), "to", s.String())
	}
}

func (o *otpService) Resume(ctx context.Context) error {
	for _, p := range []models.Purpose{models.PurposeLogin, models.PurposeReset} {
		email, err := o.store.PendingEmail(ctx, p)
		if err != nil {
			return err
		}
		if email != "" {
			o.setStage(ctx, p, StageOTPRequested)
		}
	}
	return nil
}

func (o *otpService) PendingEmail(ctx context.Context, purpose models.Purpose) (string, error) {
	return o.store.PendingEmail(ctx, purpose)
}

// RequestOTP performs no format check on email; the server owns that.
func (o *otpService) RequestOTP(ctx context.Context, purpose models.Purpose, email string) (string, error) {
	if _, err := session.PendingKey(purpose); err != nil {
		return "", common.NewError(common.KindInput, err.Error(), err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", common.InputError(common.ErrEmptyField)
	}

	msg, err := o.client.RequestOTP(ctx, purpose, email)
	if err != nil {
		logFailure(ctx, o.log, "otp request failed", err, "purpose", purpose)
		return "", err
	}

	if err := o.store.SetPendingEmail(ctx, purpose, email); err != nil {
		return "", fmt.Errorf("store pending email: %w", err)
	}
	o.setStage(ctx, purpose, StageOTPRequested)
	o.log.Info(ctx, "otp requested", "purpose", purpose, "email", email)

	if msg == "" {
		msg = MsgOTPSent
	}
	return msg, nil
}

func (o *otpService) pendingEmail(ctx context.Context, purpose models.Purpose) (string, error) {
	email, err := o.store.PendingEmail(ctx, purpose)
	if err != nil {
		return "", fmt.Errorf("read pending email: %w", err)
	}
	if email == "" {
		return "", common.InputError(common.ErrNoPendingChallenge)
	}
	return email, nil
}

func (o *otpService) VerifyOTP(ctx context.Context, purpose models.Purpose, code string) (string, error) {
	if _, err := session.PendingKey(purpose); err != nil {
		return "", common.NewError(common.KindInput, err.Error(), err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", common.InputError(common.ErrEmptyField)
	}
	email, err := o.pendingEmail(ctx, purpose)
	if err != nil {
		return "", err
	}

	if purpose == models.PurposeReset {
		return o.verifyReset(ctx, email, code)
	}
	return o.verifyLogin(ctx, email, code)
}

func (o *otpService) verifyLogin(ctx context.Context, email, code string) (string, error) {
	res, err := o.client.VerifyOTP(ctx, email, code)
	if err != nil {
		logFailure(ctx, o.log, "otp verification failed", err, "purpose", models.PurposeLogin)
		return "", err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = MsgInvalidOTP
		}
		o.log.Warn(ctx, "otp rejected", "purpose", models.PurposeLogin, "email", email)
		return "", common.NewError(common.KindRemote, msg, nil)
	}

	// Stage moves only once the session is persisted.
	if _, err := o.auth.Establish(ctx, res.Grant, models.PurposeLogin); err != nil {
		logFailure(ctx, o.log, "persist session failed", err, "purpose", models.PurposeLogin)
		return "", err
	}
	o.setStage(ctx, models.PurposeLogin, StageOTPVerified)
	o.setStage(ctx, models.PurposeLogin, StageSessionEstablished)

	if res.Message != "" {
		return res.Message, nil
	}
	return MsgOTPVerified, nil
}

// verifyReset keeps the pending email: ResetPassword still needs it.
func (o *otpService) verifyReset(ctx context.Context, email, code string) (string, error) {
	msg, err := o.client.VerifyResetOTP(ctx, email, code)
	if err != nil {
		logFailure(ctx, o.log, "otp verification failed", err, "purpose", models.PurposeReset)
		return "", err
	}
	o.setStage(ctx, models.PurposeReset, StageOTPVerified)
	if msg == "" {
		msg = MsgOTPVerified
	}
	return msg, nil
}

func (o *otpService) ResetPassword(ctx context.Context, newPassword, confirm []byte) (string, error) {
	defer common.WipeByteArray(newPassword)
	defer common.WipeByteArray(confirm)

	if len(newPassword) == 0 {
		return "", common.InputError(common.ErrEmptyField)
	}
	if string(newPassword) != string(confirm) {
		return "", common.InputError(common.ErrPasswordMismatch)
	}
	if o.Stage(models.PurposeReset) != StageOTPVerified {
		return "", common.InputError(common.ErrOTPNotVerified)
	}
	email, err := o.pendingEmail(ctx, models.PurposeReset)
	if err != nil {
		return "", err
	}

	msg, err := o.client.ResetPassword(ctx, email, newPassword)
	if err != nil {
		logFailure(ctx, o.log, "password reset failed", err)
		return "", err
	}

	o.setStage(ctx, models.PurposeReset, StagePasswordReset)
	if err := o.store.ClearPendingEmail(ctx, models.PurposeReset); err != nil {
		return "", fmt.Errorf("clear pending email: %w", err)
	}
	o.setStage(ctx, models.PurposeReset, StageIdle)
	o.log.Info(ctx, "password reset", "email", email)
	return msg, nil
}
