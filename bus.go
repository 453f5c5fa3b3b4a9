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

package pn532

// Bus is the byte transport the PN532 is attached to. It is implemented by
// the I2C backends under transport/.
//
// Read may return fewer bytes than requested; callers accumulate. A Bus is
// owned by a single Session and is not safe for concurrent use.
type Bus interface {
	// Open opens the underlying bus device
	Open() error

	// SetAddress selects the slave address used by Read and Write
	SetAddress(addr uint16) error

	// Write sends p as a single transaction
	Write(p []byte) error

	// Read reads up to len(p) bytes and returns how many were read
	Read(p []byte) (int, error)

	// Close releases the bus device
	Close() error

	// Name identifies the bus in errors and logs
	Name() string
}

// DefaultAddress is the 7-bit I2C address of the PN532 (0x48 >> 1)
const DefaultAddress uint16 = 0x24
