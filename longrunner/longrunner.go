// pn532-badgereader
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of pn532-badgereader.
//
// pn532-badgereader is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// pn532-badgereader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with pn532-badgereader; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package longrunner is a cooperative, single goroutine scheduler for
// periodic tasks. Tasks run to completion one at a time; a task that blocks
// delays every other task by as long as it blocks, so tasks must bound their
// own waits.
package longrunner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/rs/zerolog/log"
)

// DefaultIdleSleep is the pause between dispatch passes
const DefaultIdleSleep = time.Millisecond

var (
	// ErrRegistryClosed is returned by Register once Run has started
	ErrRegistryClosed = errors.New("task registry is closed")

	// ErrInvalidTask is returned for a nil entrypoint or a non-positive period
	ErrInvalidTask = errors.New("invalid task")

	// ErrDuplicateTask is returned when a task name is registered twice
	ErrDuplicateTask = errors.New("task already registered")

	// ErrAlreadyRunning is returned when Run is called twice concurrently
	ErrAlreadyRunning = errors.New("scheduler is already running")
)

type task struct {
	lastRun      time.Time
	fn           func()
	name         string
	period       time.Duration
	lastDuration time.Duration
	runs         uint64
	panics       uint64
	hasRun       bool
}

// due reports whether the task may run at now. A task that never ran is
// always due.
func (t *task) due(now time.Time) bool {
	return !t.hasRun || now.Sub(t.lastRun) >= t.period
}

// Scheduler dispatches registered tasks from one control loop.
//
// Thread Safety: Register, Tick and Run must be called from one goroutine.
// Stats may be called from any goroutine.
type Scheduler struct {
	clock   clock.Clock
	tasks   []*task
	names   map[string]struct{}
	idle    time.Duration
	mu      sync.Mutex
	closed  bool
	running bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock sets the clock used for eligibility checks and idle sleeps
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithIdleSleep sets the pause between dispatch passes
func WithIdleSleep(d time.Duration) Option {
	return func(s *Scheduler) {
		s.idle = d
	}
}

// New creates an empty scheduler
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock: clock.New(),
		names: make(map[string]struct{}),
		idle:  DefaultIdleSleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a task that runs every period. Tasks run in registration
// order when several are due in the same pass. Tasks cannot be removed.
func (s *Scheduler) Register(name string, entrypoint func(), period time.Duration) error {
	if entrypoint == nil {
		return fmt.Errorf("%w: %s has no entrypoint", ErrInvalidTask, name)
	}
	if period <= 0 {
		return fmt.Errorf("%w: %s period %s", ErrInvalidTask, name, period)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrRegistryClosed
	}
	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
	}

	s.names[name] = struct{}{}
	s.tasks = append(s.tasks, &task{name: name, fn: entrypoint, period: period})
	log.Debug().Str("task", name).Dur("period", period).Msg("longrunner task registered")
	return nil
}

// Len returns the number of registered tasks
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tick runs one dispatch pass and returns how many tasks ran. Time is read
// separately for each task, so a slow task pushes back the ones after it.
func (s *Scheduler) Tick() int {
	ran := 0
	for _, t := range s.snapshot() {
		now := s.clock.Now()
		if !t.due(now) {
			continue
		}

		s.invoke(t)
		elapsed := s.clock.Now().Sub(now)

		s.mu.Lock()
		t.lastRun = now
		t.hasRun = true
		t.runs++
		t.lastDuration = elapsed
		s.mu.Unlock()

		if elapsed > t.period {
			log.Debug().Str("task", t.name).Dur("took", elapsed).Dur("period", t.period).
				Msg("longrunner task overran its period")
		}
		ran++
	}
	return ran
}

// Run closes the registry and dispatches tasks until ctx is done. ctx is
// only checked between passes; a running task is never interrupted.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.closed = true
	count := len(s.tasks)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Info().Int("tasks", count).Msg("longrunner started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("longrunner stopped")
			return nil
		default:
		}

		s.Tick()
		s.clock.Sleep(s.idle)
	}
}

func (s *Scheduler) snapshot() []*task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*task(nil), s.tasks...)
}

// invoke runs one task; a panicking task is logged and counted
func (s *Scheduler) invoke(t *task) {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			t.panics++
			s.mu.Unlock()
			log.Error().Str("task", t.name).Interface("panic", r).Msg("longrunner task panicked")
		}
	}()
	t.fn()
}
