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

// Package clock abstracts time so bounded waits and the task scheduler can be
// driven deterministically in tests
package clock

import (
	"sync"
	"time"
)

// Clock provides the time operations used by bounded waits and the scheduler
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// Sleep pauses the caller for d
	Sleep(d time.Duration)
}

// Real implements Clock using the system clock
type Real struct{}

// New returns the system clock
func New() Clock {
	return Real{}
}

// Now returns time.Now()
func (Real) Now() time.Time {
	return time.Now()
}

// Sleep calls time.Sleep
func (Real) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Fake is a manually driven clock. Sleep advances the clock instead of
// blocking, so a wait loop that sleeps 1ms per poll consumes exactly 1ms of
// simulated time per iteration.
type Fake struct {
	now    time.Time
	slept  time.Duration
	sleeps int
	mu     sync.Mutex
}

// NewFake returns a fake clock starting at start
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the simulated time
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep advances the simulated time by d
func (f *Fake) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d > 0 {
		f.now = f.now.Add(d)
		f.slept += d
	}
	f.sleeps++
}

// Advance moves the simulated time forward without counting as a sleep
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Slept returns the total simulated time spent in Sleep
func (f *Fake) Slept() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slept
}

// Sleeps returns how many times Sleep was called
func (f *Fake) Sleeps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sleeps
}
