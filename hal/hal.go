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

// Package hal is the GPIO abstraction used by the button and light tasks.
// Pins are addressed by their BCM number.
package hal

import (
	"errors"
	"time"
)

// Level is the logic level of a pin
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Direction selects whether a pin is read or driven
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

var (
	// ErrUnknownPin is returned when the platform has no such GPIO
	ErrUnknownPin = errors.New("unknown GPIO pin")

	// ErrNotReserved is returned for operations on a pin that was not reserved
	ErrNotReserved = errors.New("GPIO pin not reserved")

	// ErrWrongDirection is returned when writing an input or reading an
	// unconfigured pin
	ErrWrongDirection = errors.New("GPIO pin has the wrong direction")
)

// Pins is the set of GPIO operations the appliance needs.
//
// Thread Safety: implementations are driven from the scheduler goroutine
// only and need not be safe for concurrent use.
type Pins interface {
	// Reserve claims pin for this process
	Reserve(pin int) error

	// Release gives pin back. Releasing an unreserved pin is not an error.
	Release(pin int) error

	// SetDirection configures pin as input or output
	SetDirection(pin int, dir Direction) error

	// Write drives an output pin
	Write(pin int, level Level) error

	// Read samples a pin
	Read(pin int) (Level, error)

	// Pulse drives pin to active for d, then back to the opposite level.
	// It blocks for d.
	Pulse(pin int, d time.Duration, active Level) error
}
