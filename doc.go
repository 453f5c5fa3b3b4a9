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

/*
Package pn532 drives a PN532 NFC controller wired to an I2C bus, as fitted
to the badge reader boards.

The package is split in two layers. A Session owns the bus and performs one
framed exchange at a time: write a command frame, poll the status byte until
the chip is ready, check the ACK frame, then poll again for the response.
Every wait is bounded by a timeout and never blocks longer than that timeout
plus one poll interval. A Device sits on top of a Session and holds the
command catalog: GetFirmwareVersion, SAMConfiguration, RFConfiguration and
InListPassiveTarget.

Basic Usage:

	bus := i2cdev.New("1")
	device, err := pn532.New(pn532.NewSession(bus))
	if err != nil {
	    return err
	}
	defer device.Close()

	version, err := device.Init()
	if err != nil {
	    return err
	}
	log.Info().Str("firmware", version.String()).Msg("PN532 ready")

	target, err := device.ReadPassiveTarget(pn532.BaudISO14443A, 1500*time.Millisecond)
	switch {
	case pn532.IsNoTag(err):
	    // nothing in the field
	case err != nil:
	    return err
	default:
	    fmt.Println(target.String())
	}

Error Handling:

Exchange failures are returned as *TransportError. A bus failure closes the
session and the caller decides when to Open it again; timeouts, missing ACKs
and corrupted frames leave it usable. Replies that arrive intact but carry
the wrong content are returned as *ProtocolError. Both wrap sentinel errors
for errors.Is:

	if errors.Is(err, pn532.ErrTimedOut) {
	    // the chip did not answer in time
	}

Thread Safety:

Session and Device are not safe for concurrent use. The reader runs every
exchange from a single longrunner task.
*/
package pn532
