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

import "time"

// PN532 Command codes
const (
	cmdGetFirmwareVersion  = 0x02
	cmdSamConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInListPassiveTarget = 0x4A
)

// Response frame layouts. Offsets index the response with the I2C status
// byte stripped, so offset 0 is the frame preamble and offset 5 the TFI.
const (
	firmwareResponseLen   = 12
	firmwareVersionOffset = 7

	samResponseLen    = 8
	samResponseOffset = 6
	samResponseCode   = cmdSamConfiguration + 1

	passiveTargetResponseLen = 20
	tagsFoundOffset          = 7
	sensResOffset            = 9
	selResOffset             = 11
	uidLengthOffset          = 12
	uidOffset                = 13
)

// firmwareSignature is preamble, start code, LEN=6, LCS and TFI of a
// GetFirmwareVersion response
var firmwareSignature = []byte{0x00, 0x00, 0xFF, 0x06, 0xFA, 0xD5}

// SAMConfiguration parameters
const (
	samModeNormal  = 0x01
	samTimeout1s   = 0x14 // 50ms * 20
	samUseIRQ      = 0x01
	rfCfgMaxRetry  = 0x05
	rfMxRtyATR     = 0xFF
	rfMxRtyPSL     = 0x01
	maxTargetsOnce = 0x01
)

// DefaultPassiveActivationRetries bounds InListPassiveTarget on the chip
// side. Each retry is roughly 100ms, so 0x0A gives up after about a second.
// 0xFF makes the chip wait forever.
const DefaultPassiveActivationRetries byte = 0x0A

// Default timeouts
const (
	DefaultAckTimeout      = time.Second
	DefaultResponseTimeout = 500 * time.Millisecond
)
