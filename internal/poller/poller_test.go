package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
)

type checkerFunc func(dryRun bool) error

func (f checkerFunc) CheckTurns(dryRun bool) error { return f(dryRun) }

func TestTick_AlertsOncePerErrorStreak(t *testing.T) {
	notif := notifier.NewMock()
	m := metrics.NewMock()

	var fail atomic.Bool
	p := New(checkerFunc(func(dryRun bool) error {
		if fail.Load() {
			return errors.New("boom")
		}
		return nil
	}), notif, m, time.Minute)

	fail.Store(true)
	p.tick()
	p.tick()
	p.tick()

	// Three consecutive failures, one admin alert.
	require.Len(t, notif.SendAdminCalls, 1)
	assert.Equal(t, "Exception while checking turns - check the logs", notif.SendAdminCalls[0])

	// A successful sweep re-arms the alert.
	fail.Store(false)
	p.tick()
	fail.Store(true)
	p.tick()
	assert.Len(t, notif.SendAdminCalls, 2)

	assert.Equal(t, 5, m.PollRuns())
}

func TestTick_RecoversPanics(t *testing.T) {
	notif := notifier.NewMock()
	p := New(checkerFunc(func(dryRun bool) error {
		panic("unexpected")
	}), notif, metrics.NewMock(), time.Minute)

	assert.NotPanics(t, func() { p.tick() })
	assert.Len(t, notif.SendAdminCalls, 1)
}

func TestRun_SweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	var sweeps atomic.Int32
	p := New(checkerFunc(func(dryRun bool) error {
		sweeps.Add(1)
		return nil
	}), notifier.NewMock(), metrics.NewMock(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
	assert.EqualValues(t, 1, sweeps.Load(), "the first sweep runs before any tick")
}
