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

// PinMap assigns BCM pin numbers to the buttons and lights
type PinMap struct {
	// Score buttons 1..5, scanned in this order
	Score [5]int
	// ScoreMode toggles between tag and tag+score reports
	ScoreMode int
	// Wifi is reserved as an input but has no behavior
	Wifi int

	LightWifi   int
	LightStatus int
	LightScore  int
}

// DefaultPinMap returns the wiring of the reader board
func DefaultPinMap() PinMap {
	return PinMap{
		Score:       [5]int{14, 16, 19, 18, 22},
		ScoreMode:   24,
		Wifi:        21,
		LightWifi:   6,
		LightStatus: 8,
		LightScore:  0,
	}
}

// buttons returns every input pin in setup order
func (p PinMap) buttons() []int {
	pins := make([]int, 0, len(p.Score)+2)
	pins = append(pins, p.Score[:]...)
	return append(pins, p.Wifi, p.ScoreMode)
}

// lights returns every output pin
func (p PinMap) lights() []int {
	return []int{p.LightWifi, p.LightStatus, p.LightScore}
}
