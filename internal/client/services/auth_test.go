package services

import (
	"context"
	"testing"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginPersistsSessionAndWipesPassword(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	fc := &fakeClient{LoginRet: models.SessionGrant{Token: "tok", UserID: "m1"}}
	svc := NewAuthService(fc, store, nopLogger())

	pass := []byte("secret")
	id, err := svc.Login(ctx, " boss@x.com ", pass, models.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, models.Identity{UserID: "m1", Token: "tok"}, id)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, pass)
	assert.Equal(t, "secret", fc.LastPass)
	require.Len(t, fc.CallsTo("Login"), 1)
	assert.Equal(t, "boss@x.com", fc.CallsTo("Login")[0].Arg)

	got, ok, err := svc.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestAuthService_LoginEmptyInputNoNetwork(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	svc := NewAuthService(fc, newTestStore(t), nopLogger())

	_, err := svc.Login(ctx, "", []byte("x"), models.RoleManager)
	require.ErrorIs(t, err, common.ErrEmptyField)
	assert.Equal(t, common.KindInput, common.KindOf(err))

	_, err = svc.Login(ctx, "a@x.com", nil, models.RoleManager)
	require.ErrorIs(t, err, common.ErrEmptyField)

	assert.Empty(t, fc.Calls())
}

func TestAuthService_LoginFailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Establish(ctx, models.SessionGrant{Token: "old", UserID: "u-old"}, ""))

	fc := &fakeClient{LoginErr: common.NewError(common.KindAuth, "Invalid credentials", client.ErrUnauthorized)}
	svc := NewAuthService(fc, store, nopLogger())

	_, err := svc.Login(ctx, "a@x.com", []byte("bad"), models.RoleEmployee)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", common.UserMessage(err, MsgLoginFailed))

	id, ok, err := svc.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Identity{UserID: "u-old", Token: "old"}, id)
}

func TestAuthService_LoginWithoutTokenIsDataShape(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{LoginRet: models.SessionGrant{Message: "ok"}}
	svc := NewAuthService(fc, newTestStore(t), nopLogger())

	_, err := svc.Login(ctx, "a@x.com", []byte("pw"), models.RoleManager)
	require.ErrorIs(t, err, client.ErrMalformedResponse)
	assert.Equal(t, common.KindDataShape, common.KindOf(err))

	_, ok, err := svc.Identity(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewAuthService(&fakeClient{}, store, nopLogger())

	_, err := svc.Establish(ctx, models.SessionGrant{Token: "tok", UserID: "u1"}, "")
	require.NoError(t, err)
	require.NoError(t, store.SetPendingEmail(ctx, models.PurposeReset, "r@x.com"))

	require.NoError(t, svc.Logout(ctx))

	_, ok, err := svc.Identity(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	email, err := store.PendingEmail(ctx, models.PurposeReset)
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestAuthService_Available(t *testing.T) {
	fc := &fakeClient{Down: true}
	svc := NewAuthService(fc, newTestStore(t), nopLogger())
	assert.False(t, svc.Available())
	fc.Down = false
	assert.True(t, svc.Available())
}
