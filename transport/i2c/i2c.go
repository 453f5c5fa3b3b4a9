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

// Package i2c provides a periph.io backed I2C bus for the PN532 session
package i2c

import (
	"errors"
	"fmt"
	"sync"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Max clock frequency (400 kHz).
const maxClockFreq = 400 * physic.KiloHertz

var (
	// ErrNotOpen is returned by reads and writes before Open
	ErrNotOpen = errors.New("i2c bus not open")

	hostInit    sync.Once
	errHostInit error
)

// Bus implements pn532.Bus on a periph.io I2C bus. Each Read and Write is a
// single I2C transaction, so every read starts with the PN532 status byte.
type Bus struct {
	bus     i2c.BusCloser
	dev     *i2c.Dev
	opener  func(name string) (i2c.BusCloser, error)
	busName string
	addr    uint16
}

// Option configures a Bus
type Option func(*Bus)

// WithOpener replaces the function used to open the named bus. Tests use it
// to attach an i2ctest.Playback.
func WithOpener(opener func(name string) (i2c.BusCloser, error)) Option {
	return func(b *Bus) {
		b.opener = opener
	}
}

// New creates a closed bus. An empty busName selects the first bus periph
// finds.
func New(busName string, opts ...Option) *Bus {
	b := &Bus{
		busName: busName,
		addr:    pn532.DefaultAddress,
		opener:  openHostBus,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func openHostBus(name string) (i2c.BusCloser, error) {
	hostInit.Do(func() {
		if _, err := host.Init(); err != nil {
			errHostInit = fmt.Errorf("failed to initialize periph host: %w", err)
		}
	})
	if errHostInit != nil {
		return nil, errHostInit
	}
	return i2creg.Open(name)
}

// Open implements pn532.Bus
func (b *Bus) Open() error {
	if b.bus != nil {
		return nil
	}

	bus, err := b.opener(b.busName)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %s: %w", b.busName, err)
	}

	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	b.bus = bus
	b.dev = &i2c.Dev{Addr: b.addr, Bus: bus}
	return nil
}

// SetAddress implements pn532.Bus
func (b *Bus) SetAddress(addr uint16) error {
	if addr > 0x7F {
		return fmt.Errorf("%w: 7-bit address %#x", pn532.ErrInvalidParameter, addr)
	}
	b.addr = addr
	if b.dev != nil {
		b.dev.Addr = addr
	}
	return nil
}

// Write implements pn532.Bus
func (b *Bus) Write(p []byte) error {
	if b.dev == nil {
		return ErrNotOpen
	}
	if err := b.dev.Tx(p, nil); err != nil {
		return fmt.Errorf("failed to send I2C frame: %w", err)
	}
	return nil
}

// Read implements pn532.Bus. periph transfers are all-or-nothing, so a
// successful read always fills p.
func (b *Bus) Read(p []byte) (int, error) {
	if b.dev == nil {
		return 0, ErrNotOpen
	}
	if err := b.dev.Tx(nil, p); err != nil {
		return 0, fmt.Errorf("I2C read failed: %w", err)
	}
	return len(p), nil
}

// Close implements pn532.Bus
func (b *Bus) Close() error {
	if b.bus == nil {
		return nil
	}
	err := b.bus.Close()
	b.bus = nil
	b.dev = nil
	if err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", b.busName, err)
	}
	return nil
}

// Name implements pn532.Bus
func (b *Bus) Name() string {
	if b.busName == "" {
		return "i2c"
	}
	return b.busName
}

// Ensure Bus implements pn532.Bus
var _ pn532.Bus = (*Bus)(nil)
