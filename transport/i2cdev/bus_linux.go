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

//go:build linux

package i2cdev

import (
	"fmt"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"golang.org/x/sys/unix"
)

// Open implements pn532.Bus
func (b *Bus) Open() error {
	if b.open {
		return nil
	}
	fd, err := unix.Open(b.path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", b.path, err)
	}
	b.fd = fd
	b.open = true
	return nil
}

// SetAddress implements pn532.Bus
func (b *Bus) SetAddress(addr uint16) error {
	if addr > 0x7F {
		return fmt.Errorf("%w: 7-bit address %#x", pn532.ErrInvalidParameter, addr)
	}
	if !b.open {
		return ErrNotOpen
	}
	if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("I2C_SLAVE %#02x on %s: %w", addr, b.path, err)
	}
	b.addr = addr
	return nil
}

// Write implements pn532.Bus
func (b *Bus) Write(p []byte) error {
	if !b.open {
		return ErrNotOpen
	}
	n, err := unix.Write(b.fd, p)
	if err != nil {
		return fmt.Errorf("write to %s: %w", b.path, err)
	}
	if n != len(p) {
		return fmt.Errorf("write to %s: %w (%d of %d bytes)", b.path, ErrShortWrite, n, len(p))
	}
	return nil
}

// Read implements pn532.Bus
func (b *Bus) Read(p []byte) (int, error) {
	if !b.open {
		return 0, ErrNotOpen
	}
	n, err := unix.Read(b.fd, p)
	if err != nil {
		return 0, fmt.Errorf("read from %s: %w", b.path, err)
	}
	return n, nil
}

// Close implements pn532.Bus
func (b *Bus) Close() error {
	if !b.open {
		return nil
	}
	b.open = false
	fd := b.fd
	b.fd = -1
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close %s: %w", b.path, err)
	}
	return nil
}
