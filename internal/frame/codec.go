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

package frame

import (
	"bytes"
	"errors"
)

// Codec errors
var (
	ErrShortRead        = errors.New("short read")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrInvalidFrame     = errors.New("invalid frame")
)

// EncodeCommand builds a host-to-PN532 information frame around payload.
// The payload starts with the command code. Callers are responsible for
// keeping len(payload) <= MaxPayloadLength.
func EncodeCommand(payload []byte) []byte {
	return Encode(HostToPn532, payload)
}

// Encode builds a normal information frame with the given direction byte
func Encode(direction byte, payload []byte) []byte {
	length := byte(len(payload) + 1) // TFI + payload

	frm := make([]byte, 0, len(payload)+Overhead)
	frm = append(frm, Preamble, StartCode1, StartCode2, length, CalculateLengthChecksum(length), direction)
	frm = append(frm, payload...)
	frm = append(frm, CalculateDataChecksum(direction, payload), Postamble)
	return frm
}

// ValidateAck reports whether b holds exactly the ACK frame
func ValidateAck(b []byte) bool {
	return len(b) == AckLength && bytes.Equal(b, AckFrame)
}

// RawLength returns how many bytes an I2C read must fetch to deliver
// expectedLen bytes of frame data.
func RawLength(expectedLen int) int {
	return statusPrefix + expectedLen + trailingPad
}

// DecodeResponse strips the I2C status byte and the trailing pad byte from a
// raw read and returns the expectedLen bytes in between.
func DecodeResponse(raw []byte, expectedLen int) ([]byte, error) {
	if expectedLen < 0 || len(raw) < RawLength(expectedLen) {
		return nil, ErrShortRead
	}

	out := make([]byte, expectedLen)
	copy(out, raw[statusPrefix:statusPrefix+expectedLen])
	return out, nil
}

// ParseFrame validates a complete information frame and returns its direction
// byte and payload. Leading zero bytes before the start code are tolerated.
func ParseFrame(frm []byte) (direction byte, payload []byte, err error) {
	off := bytes.Index(frm, []byte{StartCode1, StartCode2})
	if off < 0 {
		return 0, nil, ErrInvalidFrame
	}
	off += 2 // LEN

	if len(frm) < off+2 {
		return 0, nil, ErrShortRead
	}
	length := frm[off]
	if length == 0 {
		// ACK/NACK frames carry no TFI
		return 0, nil, ErrInvalidFrame
	}
	if length+frm[off+1] != 0 {
		return 0, nil, ErrChecksumMismatch
	}

	body := off + 2 // TFI
	end := body + int(length)
	if len(frm) < end+1 {
		return 0, nil, ErrShortRead
	}
	if !ValidChecksum(frm[body : end+1]) {
		return 0, nil, ErrChecksumMismatch
	}

	payload = make([]byte, int(length)-1)
	copy(payload, frm[body+1:end])
	return frm[body], payload, nil
}
