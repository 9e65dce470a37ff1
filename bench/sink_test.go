package bench

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriterSink{W: &buf}.Export("5\t0.2\n"))
	assert.Equal(t, "5\t0.2\n", buf.String())
	assert.NoError(t, NopSink{}.Export("ignored"))
}

func TestNopSilencer(t *testing.T) {
	restore, err := NopSilencer{}.Silence()
	assert.NoError(t, err)
	assert.NoError(t, restore())
}

func TestSilencersRollBackOnFailure(t *testing.T) {
	first := &countingSilencer{}
	second := &countingSilencer{failSilence: true}
	_, err := Silencers{first, second}.Silence()
	assert.Error(t, err)
	assert.Equal(t, 1, first.restored)
	assert.False(t, first.active)

	third := &countingSilencer{failRestore: true}
	restore, err := Silencers{first, third}.Silence()
	require.NoError(t, err)
	assert.True(t, first.active)
	assert.ErrorContains(t, restore(), "cannot restore")
	assert.ErrorContains(t, restore(), "cannot restore")
	assert.False(t, first.active)
	assert.Equal(t, 1, third.restored)
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	assert.Equal(t, start, clock.Now())
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, clock.Now().Sub(start))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "generating", PhaseGenerating.String())
	assert.Equal(t, "solving", PhaseSolving.String())
	assert.Equal(t, "done", PhaseDone.String())
}
