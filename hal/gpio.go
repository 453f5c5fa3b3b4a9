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

	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	hostInit    sync.Once
	errHostInit error
)

type pinState struct {
	io  gpio.PinIO
	dir Direction
	set bool
}

// GPIO implements Pins with periph.io
type GPIO struct {
	lookup func(name string) gpio.PinIO
	clock  clock.Clock
	pins   map[int]*pinState
	pull   gpio.Pull
}

// GPIOOption configures a GPIO
type GPIOOption func(*GPIO)

// WithLookup replaces the pin registry lookup. Tests use it to hand out
// gpiotest pins.
func WithLookup(lookup func(name string) gpio.PinIO) GPIOOption {
	return func(g *GPIO) {
		g.lookup = lookup
	}
}

// WithClock sets the clock Pulse sleeps on
func WithClock(c clock.Clock) GPIOOption {
	return func(g *GPIO) {
		g.clock = c
	}
}

// WithPull sets the pull resistor applied to inputs
func WithPull(pull gpio.Pull) GPIOOption {
	return func(g *GPIO) {
		g.pull = pull
	}
}

// NewGPIO creates a periph backed pin set
func NewGPIO(opts ...GPIOOption) *GPIO {
	g := &GPIO{
		lookup: lookupHostPin,
		clock:  clock.New(),
		pins:   make(map[int]*pinState),
		pull:   gpio.PullNoChange,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func lookupHostPin(name string) gpio.PinIO {
	hostInit.Do(func() {
		if _, err := host.Init(); err != nil {
			errHostInit = fmt.Errorf("failed to initialize periph host: %w", err)
		}
	})
	if errHostInit != nil {
		return nil
	}
	return gpioreg.ByName(name)
}

// Reserve implements Pins
func (g *GPIO) Reserve(pin int) error {
	if _, ok := g.pins[pin]; ok {
		return nil
	}
	p := g.lookup(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		if errHostInit != nil {
			return fmt.Errorf("GPIO%d: %w", pin, errHostInit)
		}
		return fmt.Errorf("%w: GPIO%d", ErrUnknownPin, pin)
	}
	g.pins[pin] = &pinState{io: p}
	return nil
}

// Release implements Pins
func (g *GPIO) Release(pin int) error {
	st, ok := g.pins[pin]
	if !ok {
		return nil
	}
	delete(g.pins, pin)
	if err := st.io.Halt(); err != nil {
		return fmt.Errorf("GPIO%d halt: %w", pin, err)
	}
	return nil
}

// SetDirection implements Pins
func (g *GPIO) SetDirection(pin int, dir Direction) error {
	st, err := g.pin(pin)
	if err != nil {
		return err
	}
	switch dir {
	case In:
		err = st.io.In(g.pull, gpio.NoEdge)
	case Out:
		err = st.io.Out(gpio.Low)
	}
	if err != nil {
		return fmt.Errorf("GPIO%d direction %s: %w", pin, dir, err)
	}
	st.dir = dir
	st.set = true
	return nil
}

// Write implements Pins
func (g *GPIO) Write(pin int, level Level) error {
	st, err := g.output(pin)
	if err != nil {
		return err
	}
	if err := st.io.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("GPIO%d write: %w", pin, err)
	}
	return nil
}

// Read implements Pins
func (g *GPIO) Read(pin int) (Level, error) {
	st, err := g.pin(pin)
	if err != nil {
		return Low, err
	}
	if !st.set {
		return Low, fmt.Errorf("%w: GPIO%d", ErrWrongDirection, pin)
	}
	return Level(st.io.Read()), nil
}

// Pulse implements Pins
func (g *GPIO) Pulse(pin int, d time.Duration, active Level) error {
	if err := g.Write(pin, active); err != nil {
		return err
	}
	g.clock.Sleep(d)
	return g.Write(pin, !active)
}

func (g *GPIO) pin(pin int) (*pinState, error) {
	st, ok := g.pins[pin]
	if !ok {
		return nil, fmt.Errorf("%w: GPIO%d", ErrNotReserved, pin)
	}
	return st, nil
}

func (g *GPIO) output(pin int) (*pinState, error) {
	st, err := g.pin(pin)
	if err != nil {
		return nil, err
	}
	if !st.set || st.dir != Out {
		return nil, fmt.Errorf("%w: GPIO%d", ErrWrongDirection, pin)
	}
	return st, nil
}

// Ensure GPIO implements Pins
var _ Pins = (*GPIO)(nil)
