package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SlogText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Backend: BackendSlog, Level: "warn"})
	_, ok := log.(*SlogLogger)
	require.True(t, ok)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNew_SlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "info", JSON: true})
	log.Info(context.Background(), "hello", "user", "u1")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"user":"u1"`)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "chatty"})
	log.Debug(context.Background(), "dbg")
	log.Info(context.Background(), "inf")

	assert.NotContains(t, buf.String(), "dbg")
	assert.Contains(t, buf.String(), "inf")
}

func TestNew_Zap(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Backend: "ZAP", Level: "debug"})
	zl, ok := log.(*ZapLogger)
	require.True(t, ok)

	log.With("component", "schedule").Debug(context.Background(), "tasks loaded", "count", 2)
	require.NoError(t, zl.Sync())

	out := buf.String()
	assert.Contains(t, out, "tasks loaded")
	assert.Contains(t, out, `"component": "schedule"`)
	assert.Contains(t, out, `"count": 2`)
}
