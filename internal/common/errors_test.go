package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "classified", err: NewError(KindRemote, "nope", nil), want: KindRemote},
		{name: "wrapped classified", err: fmt.Errorf("ctx: %w", NewError(KindAuth, "", ErrNoSession)), want: KindAuth},
		{name: "unclassified", err: errors.New("boom"), want: KindTransport},
		{name: "input helper", err: InputError(ErrPasswordMismatch), want: KindInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_UnwrapKeepsSentinel(t *testing.T) {
	err := NewError(KindAuth, "", ErrNoSession)
	require.ErrorIs(t, err, ErrNoSession)
	assert.True(t, IsKind(err, KindAuth))
	assert.False(t, IsKind(nil, KindAuth))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "bad: inner", NewError(KindRemote, "bad", errors.New("inner")).Error())
	assert.Equal(t, "bad", NewError(KindRemote, "bad", nil).Error())
	assert.Equal(t, "inner", NewError(KindRemote, "", errors.New("inner")).Error())
	assert.Equal(t, "remote", NewError(KindRemote, "", nil).Error())

	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "fallback"))
	assert.Equal(t, "Invalid OTP", UserMessage(NewError(KindRemote, "Invalid OTP", nil), "fallback"))
	assert.Equal(t, "fallback", UserMessage(NewError(KindRemote, "", nil), "fallback"))
	assert.Equal(t, "fallback", UserMessage(NewError(KindTransport, "dial tcp refused", nil), "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("raw"), "fallback"))
	assert.Equal(t, ErrPasswordMismatch.Error(), UserMessage(InputError(ErrPasswordMismatch), "fallback"))
}
