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

package report

import (
	"context"
	"sync"
)

// Event is one call seen by a Recorder
type Event struct {
	Kind  string
	Tag   string
	Score int
}

// Recorder is an in-memory Reporter for tests
//
// Thread Safety: Recorder is safe for concurrent use.
type Recorder struct {
	err    error
	events []Event
	mu     sync.Mutex
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// PostTag implements Reporter
func (r *Recorder) PostTag(_ context.Context, tag string) error {
	return r.record(Event{Kind: "tag", Tag: tag})
}

// PostScore implements Reporter
func (r *Recorder) PostScore(_ context.Context, tag string, score int) error {
	return r.record(Event{Kind: "score", Tag: tag, Score: score})
}

// Heartbeat implements Reporter
func (r *Recorder) Heartbeat(context.Context) error {
	return r.record(Event{Kind: "heartbeat"})
}

// SetError makes every later call fail with err after being recorded
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Events returns the recorded calls in order
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

// Ensure Recorder implements Reporter
var _ Reporter = (*Recorder)(nil)
