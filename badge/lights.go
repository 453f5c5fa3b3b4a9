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

package badge

import (
	"fmt"
	"time"

	"github.com/ZaparooProject/pn532-badgereader/hal"
)

// DefaultBlinkDuration is how long the status light flashes per tag
const DefaultBlinkDuration = 250 * time.Millisecond

// Lights drives the three indicator LEDs and remembers their state
type Lights struct {
	pins   hal.Pins
	pinMap PinMap
	wifi   bool
	status bool
	score  bool
}

// NewLights creates the light driver. Setup must run before use.
func NewLights(pins hal.Pins, pinMap PinMap) *Lights {
	return &Lights{pins: pins, pinMap: pinMap}
}

// Setup claims the light pins as outputs and switches them off
func (l *Lights) Setup() error {
	for _, pin := range l.pinMap.lights() {
		if err := l.pins.Reserve(pin); err != nil {
			return fmt.Errorf("reserve light GPIO%d: %w", pin, err)
		}
		if err := l.pins.SetDirection(pin, hal.Out); err != nil {
			return fmt.Errorf("light GPIO%d direction: %w", pin, err)
		}
		if err := l.pins.Write(pin, hal.Low); err != nil {
			return fmt.Errorf("light GPIO%d off: %w", pin, err)
		}
	}
	return nil
}

// SetWifi switches the WiFi light
func (l *Lights) SetWifi(on bool) error {
	l.wifi = on
	return l.pins.Write(l.pinMap.LightWifi, hal.Level(on))
}

// SetStatus switches the status light
func (l *Lights) SetStatus(on bool) error {
	l.status = on
	return l.pins.Write(l.pinMap.LightStatus, hal.Level(on))
}

// SetScore switches the score light
func (l *Lights) SetScore(on bool) error {
	l.score = on
	return l.pins.Write(l.pinMap.LightScore, hal.Level(on))
}

// BlinkStatus flashes the status light for d. It blocks for d.
func (l *Lights) BlinkStatus(d time.Duration) error {
	return l.pins.Pulse(l.pinMap.LightStatus, d, hal.High)
}

// Wifi reports whether the WiFi light is on
func (l *Lights) Wifi() bool { return l.wifi }

// Status reports whether the status light is on
func (l *Lights) Status() bool { return l.status }

// Score reports whether the score light is on
func (l *Lights) Score() bool { return l.score }
