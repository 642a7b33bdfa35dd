package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsUpdate(t *testing.T) {
	MetricsReset()
	MetricsUpdate(2*time.Millisecond, 3, 21, 9, 0)
	MetricsUpdate(4*time.Millisecond, 1, 7, 3, 1)

	s := MetricsSnapshot()
	assert.Equal(t, int64(2), s.Packs)
	assert.Equal(t, int64(4), s.Objects)
	assert.Equal(t, int64(28), s.Vertices)
	assert.Equal(t, int64(12), s.Faces)
	assert.Equal(t, int64(1), s.Failures)
	assert.InDelta(t, 3.0, MetricsPackTime(), 1e-9)
}

func TestMetricsRollingAverage(t *testing.T) {
	MetricsReset()
	for i := 0; i < int(AVG_COUNT)+5; i++ {
		MetricsUpdate(time.Millisecond, 0, 0, 0, 0)
	}
	assert.InDelta(t, 1.0, MetricsPackTime(), 1e-9)
	assert.Equal(t, int64(AVG_COUNT)+5, MetricsSnapshot().Packs)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLogLevel("WARN"))
	assert.Equal(t, InfoLevel, ParseLogLevel(""))
	assert.Equal(t, InfoLevel, ParseLogLevel("chatty"))
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	assert.Greater(t, c.Elapsed(), time.Duration(0))

	c.Stop()
	e := c.Elapsed()
	c.Update()
	assert.Equal(t, e, c.Elapsed())
}
