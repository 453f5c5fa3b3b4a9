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

import "fmt"

// FirmwareVersion is the 32-bit word returned by GetFirmwareVersion:
// IC << 24 | Ver << 16 | Rev << 8 | Support
type FirmwareVersion uint32

// IC returns the chip identifier (0x32 for a PN532)
func (v FirmwareVersion) IC() byte { return byte(v >> 24) }

// Version returns the firmware major version
func (v FirmwareVersion) Version() byte { return byte(v >> 16) }

// Revision returns the firmware revision
func (v FirmwareVersion) Revision() byte { return byte(v >> 8) }

// Support returns the supported protocols bit field
func (v FirmwareVersion) Support() byte { return byte(v) }

// SupportsISO14443A reports whether the chip can read type A cards
func (v FirmwareVersion) SupportsISO14443A() bool { return v.Support()&0x01 != 0 }

// SupportsISO14443B reports whether the chip can read type B cards
func (v FirmwareVersion) SupportsISO14443B() bool { return v.Support()&0x02 != 0 }

// SupportsISO18092 reports whether the chip supports ISO 18092
func (v FirmwareVersion) SupportsISO18092() bool { return v.Support()&0x04 != 0 }

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("PN5%02x v%d.%d", v.IC(), v.Version(), v.Revision())
}
