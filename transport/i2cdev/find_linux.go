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
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// FindBuses lists the i2c-dev adapters that support plain I2C transfers,
// lowest bus number first
func FindBuses() ([]BusInfo, error) {
	return findBuses(devPrefix + "*")
}

func findBuses(pattern string) ([]BusInfo, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C devices: %w", err)
	}

	buses := make([]BusInfo, 0, len(matches))
	for _, path := range matches {
		num, err := BusNumber(path)
		if err != nil {
			continue
		}
		if !supportsI2C(path) {
			log.Debug().Str("path", path).Msg("skipping adapter without plain I2C support")
			continue
		}
		buses = append(buses, BusInfo{Path: path, Number: num})
	}

	slices.SortFunc(buses, func(a, b BusInfo) int { return a.Number - b.Number })
	return buses, nil
}

func supportsI2C(path string) bool {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return false
	}
	defer func() { _ = unix.Close(fd) }()

	funcs, err := unix.IoctlGetUint32(fd, i2cFuncs)
	if err != nil {
		return false
	}
	return funcs&i2cFuncI2C != 0
}
