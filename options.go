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

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithAckTimeout sets the ACK timeout for configuration commands
func WithAckTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: ack timeout %s", ErrInvalidParameter, timeout)
		}
		d.config.AckTimeout = timeout
		return nil
	}
}

// WithResponseTimeout sets the response timeout for configuration commands
func WithResponseTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: response timeout %s", ErrInvalidParameter, timeout)
		}
		d.config.ResponseTimeout = timeout
		return nil
	}
}

// WithPassiveActivationRetries sets the retry count sent during Init
func WithPassiveActivationRetries(maxRetries byte) Option {
	return func(d *Device) error {
		d.config.PassiveActivationRetries = maxRetries
		return nil
	}
}

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return ErrInvalidParameter
		}
		d.config = config
		return nil
	}
}
