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

// Package i2cdev drives a PN532 through the Linux i2c-dev character device
// (/dev/i2c-N) with plain read and write calls. Unlike periph transfers, a
// read here may return fewer bytes than asked for.
package i2cdev

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
)

// i2c-dev ioctl requests from linux/i2c-dev.h
const (
	i2cSlave = 0x0703
	i2cFuncs = 0x0705

	i2cFuncI2C = 0x00000001
)

const devPrefix = "/dev/i2c-"

var (
	// ErrUnsupportedPlatform is returned where i2c-dev does not exist
	ErrUnsupportedPlatform = errors.New("i2c-dev is only available on linux")

	// ErrNotOpen is returned by operations on a closed bus
	ErrNotOpen = errors.New("i2c-dev bus not open")

	// ErrShortWrite is returned when the adapter accepted part of a frame
	ErrShortWrite = errors.New("short write")
)

// Bus implements pn532.Bus on /dev/i2c-N.
//
// Thread Safety: Bus is NOT thread-safe; it is owned by one Session.
type Bus struct {
	path string
	fd   int
	addr uint16
	open bool
}

// New creates a closed bus for name, which is either a bus number ("1") or
// a device path ("/dev/i2c-1")
func New(name string) *Bus {
	return &Bus{
		path: DevicePath(name),
		fd:   -1,
		addr: pn532.DefaultAddress,
	}
}

// DevicePath expands a bare bus number into its i2c-dev path
func DevicePath(name string) string {
	if _, err := strconv.Atoi(name); err == nil {
		return devPrefix + name
	}
	return name
}

// BusNumber extracts N from an i2c-N device node
func BusNumber(path string) (int, error) {
	num, ok := strings.CutPrefix(filepath.Base(path), "i2c-")
	if !ok {
		return 0, fmt.Errorf("%s is not an i2c-dev node", path)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("invalid bus number in %s: %w", path, err)
	}
	return n, nil
}

// Name implements pn532.Bus
func (b *Bus) Name() string {
	return b.path
}

// Ensure Bus implements pn532.Bus
var _ pn532.Bus = (*Bus)(nil)
