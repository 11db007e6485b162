package main

import (
	"context"
	"time"

	"rigidbox/internal/logging"
	"rigidbox/internal/physics"

	"go.uber.org/atomic"
)

// stepper drives a World at a fixed rate on its own goroutine. The render
// thread only ever reads the World's published snapshot.
type stepper struct {
	world  *physics.World
	logger logging.Logger

	step   *atomic.Float32 // seconds per tick
	paused *atomic.Bool
	single *atomic.Bool // advance one tick while paused

	cancel context.CancelFunc
	done   chan struct{}
}

func newStepper(w *physics.World, step float32, logger logging.Logger) *stepper {
	return &stepper{
		world:  w,
		logger: logger,
		step:   atomic.NewFloat32(step),
		paused: atomic.NewBool(false),
		single: atomic.NewBool(false),
		done:   make(chan struct{}),
	}
}

func (s *stepper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop ends the loop and waits for the current tick to finish.
func (s *stepper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *stepper) SetStep(step float32) {
	s.step.Store(step)
}

// TogglePause reports whether the stepper is now paused.
func (s *stepper) TogglePause() bool {
	return !s.paused.Toggle()
}

func (s *stepper) Paused() bool {
	return s.paused.Load()
}

func (s *stepper) StepOnce() {
	s.single.Store(true)
}

func (s *stepper) run(ctx context.Context) {
	defer close(s.done)

	step := s.step.Load()
	ticker := time.NewTicker(seconds(step))
	defer ticker.Stop()
	s.logger.Infow("simulation started", "step", step)

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("simulation stopped", "ticks", s.world.Tick())
			return
		case <-ticker.C:
			if cur := s.step.Load(); cur != step {
				step = cur
				ticker.Reset(seconds(step))
			}
			if s.paused.Load() && !s.single.CompareAndSwap(true, false) {
				continue
			}
			s.world.Step(step)
		}
	}
}

func seconds(f float32) time.Duration {
	return time.Duration(float64(f) * float64(time.Second))
}
