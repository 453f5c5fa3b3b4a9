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

// CalculateChecksum returns the sum of all bytes modulo 256
func CalculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// CalculateLengthChecksum returns the LCS byte so that LEN + LCS == 0 (mod 256)
func CalculateLengthChecksum(length byte) byte {
	return ^length + 1
}

// CalculateDataChecksum returns the DCS byte so that TFI + data + DCS == 0 (mod 256)
func CalculateDataChecksum(tfi byte, data []byte) byte {
	return ^(tfi + CalculateChecksum(data)) + 1
}

// ValidChecksum reports whether data sums to zero. data is TFI, payload
// and DCS of a received frame.
func ValidChecksum(data []byte) bool {
	return CalculateChecksum(data) == 0
}
