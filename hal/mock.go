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

package hal

import (
	"fmt"
	"sync"
	"time"
)

// PulseRecord is one Pulse call seen by MockPins
type PulseRecord struct {
	Pin      int
	Duration time.Duration
	Active   Level
}

// MockPins is an in-memory Pins for tests. Inputs are driven with Press and
// SetLevel; outputs and pulses are recorded.
//
// Thread Safety: MockPins is safe for concurrent use.
type MockPins struct {
	levels   map[int]Level
	dirs     map[int]Direction
	reserved map[int]bool
	readErr  map[int]error
	resErr   map[int]error
	writes   map[int][]Level
	pulses   []PulseRecord
	released []int
	mu       sync.Mutex
}

// NewMockPins creates a mock pin set with every pin low and unreserved
func NewMockPins() *MockPins {
	return &MockPins{
		levels:   make(map[int]Level),
		dirs:     make(map[int]Direction),
		reserved: make(map[int]bool),
		readErr:  make(map[int]error),
		resErr:   make(map[int]error),
		writes:   make(map[int][]Level),
	}
}

// Reserve implements Pins
func (m *MockPins) Reserve(pin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.resErr[pin]; err != nil {
		return err
	}
	m.reserved[pin] = true
	return nil
}

// Release implements Pins
func (m *MockPins) Release(pin int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reserved, pin)
	delete(m.dirs, pin)
	m.released = append(m.released, pin)
	return nil
}

// SetDirection implements Pins
func (m *MockPins) SetDirection(pin int, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.reserved[pin] {
		return fmt.Errorf("%w: GPIO%d", ErrNotReserved, pin)
	}
	m.dirs[pin] = dir
	return nil
}

// Write implements Pins
func (m *MockPins) Write(pin int, level Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(pin, level)
}

func (m *MockPins) write(pin int, level Level) error {
	if dir, ok := m.dirs[pin]; !ok || dir != Out {
		return fmt.Errorf("%w: GPIO%d", ErrWrongDirection, pin)
	}
	m.levels[pin] = level
	m.writes[pin] = append(m.writes[pin], level)
	return nil
}

// Read implements Pins
func (m *MockPins) Read(pin int) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[pin]; err != nil {
		return Low, err
	}
	if _, ok := m.dirs[pin]; !ok {
		return Low, fmt.Errorf("%w: GPIO%d", ErrWrongDirection, pin)
	}
	return m.levels[pin], nil
}

// Pulse implements Pins. It records the pulse without sleeping.
func (m *MockPins) Pulse(pin int, d time.Duration, active Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write(pin, active); err != nil {
		return err
	}
	m.pulses = append(m.pulses, PulseRecord{Pin: pin, Duration: d, Active: active})
	return m.write(pin, !active)
}

// SetLevel sets the level an input pin reads as
func (m *MockPins) SetLevel(pin int, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = level
}

// Press holds an active-high button down
func (m *MockPins) Press(pin int) {
	m.SetLevel(pin, High)
}

// Lift releases an active-high button
func (m *MockPins) Lift(pin int) {
	m.SetLevel(pin, Low)
}

// SetReserveError makes Reserve fail with err for pin
func (m *MockPins) SetReserveError(pin int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resErr[pin] = err
}

// SetReadError makes reads of pin fail with err; nil clears it
func (m *MockPins) SetReadError(pin int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErr, pin)
		return
	}
	m.readErr[pin] = err
}

// Level returns the current level of pin
func (m *MockPins) Level(pin int) Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin]
}

// Direction returns the configured direction of pin and whether it is set
func (m *MockPins) Direction(pin int) (Direction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir, ok := m.dirs[pin]
	return dir, ok
}

// Reserved reports whether pin is reserved
func (m *MockPins) Reserved(pin int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserved[pin]
}

// Writes returns every level written to pin, pulses included
func (m *MockPins) Writes(pin int) []Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Level(nil), m.writes[pin]...)
}

// Pulses returns every pulse issued
func (m *MockPins) Pulses() []PulseRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PulseRecord(nil), m.pulses...)
}

// Released returns the pins passed to Release, in order
func (m *MockPins) Released() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.released...)
}

// Ensure MockPins implements Pins
var _ Pins = (*MockPins)(nil)
