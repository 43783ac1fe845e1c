package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOTP(t *testing.T, fc *fakeClient) (OTPService, *session.Store) {
	t.Helper()
	store := newTestStore(t)
	log := nopLogger()
	return NewOTPService(fc, store, NewAuthService(fc, store, log), log), store
}

func TestOTP_WrongThenCorrectCode(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{
		VerifyOTPFn: func(email, code string) (models.OTPVerification, error) {
			if code != "123456" {
				return models.OTPVerification{Success: false}, nil
			}
			return models.OTPVerification{Success: true, Grant: models.SessionGrant{Token: "tok", UserID: "u1"}}, nil
		},
	}
	otp, store := newOTP(t, fc)

	_, err := otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, StageOTPRequested, otp.Stage(models.PurposeLogin))

	_, err = otp.VerifyOTP(ctx, models.PurposeLogin, "000000")
	require.Error(t, err)
	assert.Equal(t, common.KindRemote, common.KindOf(err))
	assert.Equal(t, MsgInvalidOTP, common.UserMessage(err, MsgVerifyFailed))
	assert.Equal(t, StageOTPRequested, otp.Stage(models.PurposeLogin))

	email, err := store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	_, ok, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a rejected code creates no session")

	msg, err := otp.VerifyOTP(ctx, models.PurposeLogin, "123456")
	require.NoError(t, err)
	assert.Equal(t, MsgOTPVerified, msg)
	assert.Equal(t, StageSessionEstablished, otp.Stage(models.PurposeLogin))

	email, err = store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	assert.Empty(t, email)

	id, ok, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Identity{UserID: "u1", Token: "tok"}, id)

	for _, c := range fc.CallsTo("VerifyOTP") {
		assert.Contains(t, c.Arg, "a@x.com:", "code is always checked against the stored email")
	}
}

func TestOTP_ServerMessageWinsOnRejection(t *testing.T) {
	fc := &fakeClient{
		VerifyOTPFn: func(string, string) (models.OTPVerification, error) {
			return models.OTPVerification{Success: false, Message: "OTP expired"}, nil
		},
	}
	otp, _ := newOTP(t, fc)
	ctx := context.Background()

	_, err := otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	_, err = otp.VerifyOTP(ctx, models.PurposeLogin, "1")
	assert.Equal(t, "OTP expired", common.UserMessage(err, MsgVerifyFailed))
}

func TestOTP_RequestOverwritesOnlySamePurpose(t *testing.T) {
	ctx := context.Background()
	otp, store := newOTP(t, &fakeClient{})

	_, err := otp.RequestOTP(ctx, models.PurposeReset, "r@x.com")
	require.NoError(t, err)
	_, err = otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	_, err = otp.RequestOTP(ctx, models.PurposeLogin, "b@x.com")
	require.NoError(t, err)

	login, err := store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	reset, err := store.PendingEmail(ctx, models.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", login)
	assert.Equal(t, "r@x.com", reset)
}

func TestOTP_RequestValidationAndFailure(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	otp, store := newOTP(t, fc)

	_, err := otp.RequestOTP(ctx, models.PurposeLogin, "   ")
	require.ErrorIs(t, err, common.ErrEmptyField)
	_, err = otp.RequestOTP(ctx, "sms", "a@x.com")
	assert.Equal(t, common.KindInput, common.KindOf(err))
	assert.Empty(t, fc.Calls())

	fc.RequestOTPErr = common.NewError(common.KindRemote, "User not found", nil)
	_, err = otp.RequestOTP(ctx, models.PurposeLogin, "ghost@x.com")
	require.Error(t, err)
	assert.Equal(t, StageIdle, otp.Stage(models.PurposeLogin))

	email, err := store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	assert.Empty(t, email, "the email is only held after the server accepted the request")
}

func TestOTP_RequestMessage(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	otp, _ := newOTP(t, fc)

	msg, err := otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, MsgOTPSent, msg)

	fc.RequestOTPRet = "OTP sent"
	msg, err = otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent", msg)
}

func TestOTP_VerifyWithoutRequest(t *testing.T) {
	fc := &fakeClient{}
	otp, _ := newOTP(t, fc)

	_, err := otp.VerifyOTP(context.Background(), models.PurposeLogin, "123")
	require.ErrorIs(t, err, common.ErrNoPendingChallenge)
	_, err = otp.VerifyOTP(context.Background(), models.PurposeLogin, "")
	require.ErrorIs(t, err, common.ErrEmptyField)
	assert.Empty(t, fc.Calls())
}

func TestOTP_TransportFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{
		VerifyOTPFn: func(string, string) (models.OTPVerification, error) {
			return models.OTPVerification{}, common.NewError(common.KindTransport, "", client.ErrUnavailable)
		},
	}
	otp, store := newOTP(t, fc)

	_, err := otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)
	_, err = otp.VerifyOTP(ctx, models.PurposeLogin, "123")
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, MsgVerifyFailed, common.UserMessage(err, MsgVerifyFailed))
	assert.Equal(t, StageOTPRequested, otp.Stage(models.PurposeLogin))

	email, err := store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestOTP_ResetFlow(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{VerifyResetRet: "OTP verified", ResetRet: "Password reset successful"}
	otp, store := newOTP(t, fc)

	_, err := otp.RequestOTP(ctx, models.PurposeReset, "r@x.com")
	require.NoError(t, err)

	_, err = otp.ResetPassword(ctx, []byte("n3w"), []byte("n3w"))
	require.ErrorIs(t, err, common.ErrOTPNotVerified)

	msg, err := otp.VerifyOTP(ctx, models.PurposeReset, "654321")
	require.NoError(t, err)
	assert.Equal(t, "OTP verified", msg)
	assert.Equal(t, StageOTPVerified, otp.Stage(models.PurposeReset))

	email, err := store.PendingEmail(ctx, models.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "r@x.com", email, "reset email is kept until the password is changed")

	pw, confirm := []byte("n3w"), []byte("n3w")
	msg, err = otp.ResetPassword(ctx, pw, confirm)
	require.NoError(t, err)
	assert.Equal(t, "Password reset successful", msg)
	assert.Equal(t, StageIdle, otp.Stage(models.PurposeReset))
	assert.Equal(t, []byte{0, 0, 0}, pw)
	assert.Equal(t, []byte{0, 0, 0}, confirm)

	email, err = store.PendingEmail(ctx, models.PurposeReset)
	require.NoError(t, err)
	assert.Empty(t, email)

	resets := fc.CallsTo("ResetPassword")
	require.Len(t, resets, 1)
	assert.Equal(t, "r@x.com:n3w", resets[0].Arg)
	assert.Empty(t, fc.CallsTo("VerifyOTP"))
}

func TestOTP_ResetMismatchNoNetwork(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	otp, _ := newOTP(t, fc)

	_, err := otp.ResetPassword(ctx, []byte("a"), []byte("b"))
	require.ErrorIs(t, err, common.ErrPasswordMismatch)
	assert.Equal(t, "passwords do not match", common.UserMessage(err, MsgResetFailed))

	_, err = otp.ResetPassword(ctx, nil, nil)
	require.ErrorIs(t, err, common.ErrEmptyField)
	assert.Empty(t, fc.Calls())
}

func TestOTP_ResetRejectedStaysVerified(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{ResetErr: common.NewError(common.KindRemote, "Password too weak", nil)}
	otp, store := newOTP(t, fc)

	_, err := otp.RequestOTP(ctx, models.PurposeReset, "r@x.com")
	require.NoError(t, err)
	_, err = otp.VerifyOTP(ctx, models.PurposeReset, "1")
	require.NoError(t, err)

	_, err = otp.ResetPassword(ctx, []byte("x"), []byte("x"))
	assert.Equal(t, "Password too weak", common.UserMessage(err, MsgResetFailed))
	assert.Equal(t, StageOTPVerified, otp.Stage(models.PurposeReset))

	email, err := store.PendingEmail(ctx, models.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "r@x.com", email)
}

func TestOTP_Resume(t *testing.T) {
	ctx := context.Background()
	otp, store := newOTP(t, &fakeClient{})
	require.NoError(t, store.SetPendingEmail(ctx, models.PurposeReset, "r@x.com"))

	require.NoError(t, otp.Resume(ctx))
	assert.Equal(t, StageOTPRequested, otp.Stage(models.PurposeReset))
	assert.Equal(t, StageIdle, otp.Stage(models.PurposeLogin))
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "otp-verified", StageOTPVerified.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}

// brokenStoreAuth fails every session write.
type brokenStoreAuth struct {
	AuthService
}

func (brokenStoreAuth) Establish(context.Context, models.SessionGrant, models.Purpose) (models.Identity, error) {
	return models.Identity{}, errors.New("disk I/O error")
}

func TestOTP_PersistFailureKeepsChallengeOpen(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{
		VerifyOTPFn: func(string, string) (models.OTPVerification, error) {
			return models.OTPVerification{Success: true, Grant: models.SessionGrant{Token: "tok"}}, nil
		},
	}
	store := newTestStore(t)
	log := nopLogger()
	otp := NewOTPService(fc, store, brokenStoreAuth{NewAuthService(fc, store, log)}, log)

	_, err := otp.RequestOTP(ctx, models.PurposeLogin, "a@x.com")
	require.NoError(t, err)

	_, err = otp.VerifyOTP(ctx, models.PurposeLogin, "123456")
	require.Error(t, err)
	assert.Equal(t, StageOTPRequested, otp.Stage(models.PurposeLogin))

	email, err := store.PendingEmail(ctx, models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}
