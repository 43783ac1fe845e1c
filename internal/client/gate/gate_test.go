package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_ZeroValueIsIdle(t *testing.T) {
	var g Gate[string]

	_, ok := g.Pending()
	assert.False(t, ok)

	_, ok = g.Take()
	assert.False(t, ok)
}

func TestGate_OpenTake(t *testing.T) {
	var g Gate[string]
	g.Open("t1")

	c, ok := g.Pending()
	assert.True(t, ok)
	assert.Equal(t, "t1", c)

	c, ok = g.Take()
	assert.True(t, ok)
	assert.Equal(t, "t1", c)

	_, ok = g.Take()
	assert.False(t, ok, "a candidate is taken at most once")
}

func TestGate_ReopenReplacesCandidate(t *testing.T) {
	var g Gate[string]
	g.Open("t1")
	g.Open("t2")

	c, ok := g.Take()
	assert.True(t, ok)
	assert.Equal(t, "t2", c)
}

func TestGate_Cancel(t *testing.T) {
	var g Gate[string]
	g.Open("t1")
	g.Cancel()

	c, ok := g.Pending()
	assert.False(t, ok)
	assert.Empty(t, c)
}

func TestGate_ZeroCandidateStillCounts(t *testing.T) {
	var g Gate[int]
	g.Open(0)

	c, ok := g.Take()
	assert.True(t, ok)
	assert.Equal(t, 0, c)
}
