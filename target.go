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
	"encoding/hex"
	"fmt"
	"slices"
)

// BaudRate selects the modulation used by InListPassiveTarget
type BaudRate byte

const (
	// BaudISO14443A is 106 kbps type A (MIFARE, NTAG)
	BaudISO14443A BaudRate = 0x00
	// BaudFeliCa212 is 212 kbps FeliCa
	BaudFeliCa212 BaudRate = 0x01
	// BaudFeliCa424 is 424 kbps FeliCa
	BaudFeliCa424 BaudRate = 0x02
	// BaudISO14443B is 106 kbps type B
	BaudISO14443B BaudRate = 0x03
	// BaudJewel is 106 kbps Innovision Jewel
	BaudJewel BaudRate = 0x04
)

// TargetID is the result of a successful passive target read
type TargetID struct {
	// UID in transmission order
	UID []byte
	// ATQA is the SENS_RES answer, kept for diagnostics
	ATQA uint16
	// SAK is the SEL_RES answer, kept for diagnostics
	SAK byte
}

// UIDLen returns the UID length (4 or 7)
func (t *TargetID) UIDLen() int {
	return len(t.UID)
}

// String returns the UID formatted by FormatUID
func (t *TargetID) String() string {
	return FormatUID(t.UID)
}

// Diagnostics returns ATQA and SAK in a log friendly form
func (t *TargetID) Diagnostics() string {
	return fmt.Sprintf("ATQA: 0x%04x, SAK: 0x%02x", t.ATQA, t.SAK)
}

// FormatUID renders uid as fixed-width lower-case hex, most significant byte
// first. The PN532 transmits the UID least significant byte first, so the
// output is the reverse of wire order.
func FormatUID(uid []byte) string {
	reversed := slices.Clone(uid)
	slices.Reverse(reversed)
	return hex.EncodeToString(reversed)
}
