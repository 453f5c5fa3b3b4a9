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

//go:build !linux

package i2cdev

// Open implements pn532.Bus
func (*Bus) Open() error {
	return ErrUnsupportedPlatform
}

// SetAddress implements pn532.Bus
func (*Bus) SetAddress(uint16) error {
	return ErrUnsupportedPlatform
}

// Write implements pn532.Bus
func (*Bus) Write([]byte) error {
	return ErrUnsupportedPlatform
}

// Read implements pn532.Bus
func (*Bus) Read([]byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

// Close implements pn532.Bus
func (*Bus) Close() error {
	return nil
}

// FindBuses returns no buses outside linux
func FindBuses() ([]BusInfo, error) {
	return nil, ErrUnsupportedPlatform
}
