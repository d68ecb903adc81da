package result

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownID(t *testing.T) {
	s := NewStore()
	chunk, drained := s.Fetch(99, 80)
	assert.Empty(t, chunk)
	assert.False(t, drained)
}

func TestPendingThenComplete(t *testing.T) {
	s := NewStore()
	s.Begin(0)
	assert.True(t, s.IsPending(0))

	chunk, drained := s.Fetch(0, 80)
	assert.Equal(t, "[3]", chunk)
	assert.False(t, drained)

	s.Complete(0, "hi")
	assert.False(t, s.IsPending(0))

	chunk, drained = s.Fetch(0, 80)
	assert.Equal(t, "[1,hi]", chunk)
	assert.False(t, drained)

	chunk, drained = s.Fetch(0, 80)
	assert.Empty(t, chunk)
	assert.True(t, drained)

	// After the drain the id is unknown again.
	chunk, drained = s.Fetch(0, 80)
	assert.Empty(t, chunk)
	assert.False(t, drained)
}

func TestCompleteWithoutBegin(t *testing.T) {
	s := NewStore()
	s.Complete(4, "x")
	chunk, _ := s.Fetch(4, 80)
	assert.Equal(t, "[1,x]", chunk)
}

func TestChunking(t *testing.T) {
	s := NewStore()
	payload := strings.Repeat("a", 200)
	s.Complete(0, payload)

	var parts []string
	for {
		chunk, drained := s.Fetch(0, 80)
		if drained {
			break
		}
		require.LessOrEqual(t, len(chunk), 80-9)
		require.NotEmpty(t, chunk)
		parts = append(parts, chunk)
	}
	assert.Equal(t, "[1,"+payload+"]", strings.Join(parts, ""))
}

// Reassembly must be exact for payloads around the chunk boundary.
func TestChunkBoundaries(t *testing.T) {
	for _, n := range []int{1, 70, 71, 72, 141, 142, 143, 1000} {
		s := NewStore()
		payload := strings.Repeat("x", n)
		s.Complete(0, payload)

		var sb strings.Builder
		for {
			chunk, drained := s.Fetch(0, 80)
			if drained {
				break
			}
			sb.WriteString(chunk)
		}
		assert.Equal(t, "[1,"+payload+"]", sb.String(), "payload size %d", n)
	}
}

func TestAbort(t *testing.T) {
	s := NewStore()
	s.Begin(3)
	s.Abort(3)
	assert.False(t, s.IsPending(3))
	chunk, drained := s.Fetch(3, 80)
	assert.Empty(t, chunk)
	assert.False(t, drained)
}
