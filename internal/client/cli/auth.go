package cli

import (
	"context"
	"errors"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/services"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email, role and password and exchanges them for a
// session. The password is wiped by the auth service.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	roleText, err := getSimpleText(a.reader, "Role (manager/employee, empty for manager)", a.out)
	if err != nil {
		return err
	}
	role := models.RoleManager
	if roleText == string(models.RoleEmployee) {
		role = models.RoleEmployee
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	id, err := a.authService.Login(ctx, email, password, role)
	if err != nil {
		return a.fail(err, services.MsgLoginFailed)
	}
	a.printf("Logged in as %s\n", id.UserID)
	if role == models.RoleManager {
		return a.Employees(ctx)
	}
	return nil
}

// RequestOTP asks for a login code for args[0] or a prompted email.
func (a *App) RequestOTP(ctx context.Context, args []string) error {
	return a.requestOTP(ctx, models.PurposeLogin, args)
}

// Forgot asks for a password-reset code.
func (a *App) Forgot(ctx context.Context, args []string) error {
	return a.requestOTP(ctx, models.PurposeReset, args)
}

func (a *App) requestOTP(ctx context.Context, purpose models.Purpose, args []string) error {
	email, err := argOrPrompt(args, a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	msg, err := a.otpService.RequestOTP(ctx, purpose, email)
	if err != nil {
		return a.fail(err, services.MsgOTPRequestFailed)
	}
	a.println(msg)
	if purpose == models.PurposeReset {
		a.println("Enter the code with: verify-reset")
	} else {
		a.println("Enter the code with: verify")
	}
	return nil
}

// VerifyOTP checks a login code against the email it was sent to. On
// success the session is established and the roster is shown.
func (a *App) VerifyOTP(ctx context.Context, args []string) error {
	return a.verify(ctx, models.PurposeLogin, args)
}

// VerifyReset checks a password-reset code.
func (a *App) VerifyReset(ctx context.Context, args []string) error {
	return a.verify(ctx, models.PurposeReset, args)
}

func (a *App) verify(ctx context.Context, purpose models.Purpose, args []string) error {
	email, err := a.otpService.PendingEmail(ctx, purpose)
	if err != nil {
		return a.fail(err, services.MsgVerifyFailed)
	}
	if email == "" {
		return a.fail(common.InputError(common.ErrNoPendingChallenge), services.MsgVerifyFailed)
	}
	a.printf("Email: %s\n", email)

	code, err := argOrPrompt(args, a.reader, "Enter OTP", a.out)
	if err != nil {
		return err
	}

	fallback := services.MsgVerifyFailed
	if purpose == models.PurposeReset {
		fallback = services.MsgResetOTPInvalid
	}
	msg, err := a.otpService.VerifyOTP(ctx, purpose, code)
	if err != nil {
		return a.fail(err, fallback)
	}
	a.println(msg)

	if purpose == models.PurposeReset {
		a.println("Choose a new password with: reset")
		return nil
	}
	return a.Employees(ctx)
}

// Reset sets a new password after a verified reset code. Both buffers are
// wiped by the OTP service.
func (a *App) Reset(ctx context.Context) error {
	pw, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return err
	}

	msg, err := a.otpService.ResetPassword(ctx, pw, confirm)
	if err != nil {
		if errors.Is(err, common.ErrOTPNotVerified) {
			a.println("Verify the reset code first: forgot, then verify-reset")
		}
		return a.fail(err, services.MsgResetFailed)
	}
	if msg == "" {
		msg = "Password reset successful."
	}
	a.println(msg)
	return nil
}

// Logout closes the open views and drops the session.
func (a *App) Logout(ctx context.Context) error {
	a.closeSchedule()
	if err := a.authService.Logout(ctx); err != nil {
		return a.fail(err, "Logout failed")
	}
	a.println("Logged out")
	return nil
}
