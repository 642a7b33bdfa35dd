package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsEveryJob(t *testing.T) {
	js, err := NewJobSystem(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, js.Workers())

	var completed, failed, callbacks atomic.Int32
	var wg sync.WaitGroup
	boom := errors.New("boom")
	for i := 0; i < 50; i++ {
		wg.Add(1)
		err := js.Submit(metadata.JobTask{
			Name: "job",
			Run: func() error {
				if i%5 == 0 {
					return boom
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure: func(err error) {
				assert.ErrorIs(t, err, boom)
				failed.Add(1)
			},
			OnCompletionCallback: func() {
				callbacks.Add(1)
				wg.Done()
			},
		})
		require.NoError(t, err)
	}
	wg.Wait()
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	assert.Equal(t, int32(40), completed.Load())
	assert.Equal(t, int32(10), failed.Load())
	assert.Equal(t, int32(50), callbacks.Load())
}

func TestJobSystemRecoversPanics(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	done := make(chan error, 1)
	require.NoError(t, js.Submit(metadata.JobTask{
		Run:       func() error { panic("bad primitive") },
		OnFailure: func(err error) { done <- err },
	}))
	assert.ErrorIs(t, <-done, core.ErrUnknown)

	// the worker survived
	ok := make(chan struct{})
	require.NoError(t, js.Submit(metadata.JobTask{
		Run:        func() error { return nil },
		OnComplete: func() { close(ok) },
	}))
	<-ok
}

func TestJobSystemSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(2, 1)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())

	ran := false
	err = js.Submit(metadata.JobTask{Run: func() error { ran = true; return nil }})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
	assert.False(t, ran)
}
