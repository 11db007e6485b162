package main

import (
	"context"
	"testing"
	"time"

	"rigidbox/internal/logging"
	"rigidbox/internal/physics"
	"rigidbox/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepperPauseAndSingleStep(t *testing.T) {
	logger := logging.NewTestLogger(t)
	w := physics.New(logger)
	s := newStepper(w, 0.001, logger)
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return w.Tick() > 2 }, time.Second, time.Millisecond)

	assert.True(t, s.TogglePause())
	assert.True(t, s.Paused())
	time.Sleep(20 * time.Millisecond)
	paused := w.Tick()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, w.Tick())

	s.StepOnce()
	require.Eventually(t, func() bool { return w.Tick() == paused+1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused+1, w.Tick())

	assert.False(t, s.TogglePause())
	require.Eventually(t, func() bool { return w.Tick() > paused+3 }, time.Second, time.Millisecond)
}

func TestStepperStopWaits(t *testing.T) {
	w := physics.New(nil)
	s := newStepper(w, 0.001, logging.NewTestLogger(t))
	s.Stop() // not started

	s.Start(context.Background())
	require.Eventually(t, func() bool { return w.Tick() > 0 }, time.Second, time.Millisecond)
	s.Stop()
	stopped := w.Tick()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, w.Tick())
	s.Stop()
}

func TestStepperUsesStep(t *testing.T) {
	w := physics.New(nil)
	s := newStepper(w, 0.001, logging.NewTestLogger(t))
	s.SetStep(0.002)
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return w.Snapshot().Tick > 0 }, time.Second, time.Millisecond)
	assert.Equal(t, float32(0.002), w.Snapshot().DT)
}

func TestStagesLabel(t *testing.T) {
	assert.Equal(t, "position on, normal on, friction on, angular on", stagesLabel(resolver.AllStages()))
	assert.Equal(t, "position off, normal on, friction off, angular off", stagesLabel(resolver.Stages{Normal: true}))
}
