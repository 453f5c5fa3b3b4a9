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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload []byte
		want    []byte
	}{
		{
			name:    "GetFirmwareVersion",
			payload: []byte{0x02},
			want:    []byte{0x00, 0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x02, 0x2A, 0x00},
		},
		{
			name:    "SAMConfiguration",
			payload: []byte{0x14, 0x01, 0x14, 0x01},
			want:    []byte{0x00, 0x00, 0xFF, 0x05, 0xFB, 0xD4, 0x14, 0x01, 0x14, 0x01, 0x02, 0x00},
		},
		{
			name:    "empty payload",
			payload: nil,
			want:    []byte{0x00, 0x00, 0xFF, 0x01, 0xFF, 0xD4, 0x2C, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EncodeCommand(tt.payload))
		})
	}
}

// TestEncodeCommandChecksumsSumToZero checks LEN+LCS and TFI+payload+DCS
// both sum to zero for every payload length a normal frame can carry
func TestEncodeCommandChecksumsSumToZero(t *testing.T) {
	t.Parallel()
	for n := 0; n <= MaxPayloadLength; n++ {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i*7 + n)
		}

		frm := EncodeCommand(payload)
		require.Len(t, frm, n+Overhead)
		assert.Equal(t, byte(n+1), frm[3], "length byte for n=%d", n)
		assert.Equal(t, byte(0), frm[3]+frm[4], "LCS for n=%d", n)
		assert.Equal(t, byte(0), CalculateChecksum(frm[5:len(frm)-1]), "DCS for n=%d", n)
		assert.Equal(t, byte(Postamble), frm[len(frm)-1])
	}
}

func TestParseFrameRoundTrip(t *testing.T) {
	t.Parallel()
	for _, payload := range [][]byte{
		{},
		{0x02},
		{0x4A, 0x01, 0x00},
		{0x32, 0x05, 0xFF, 0x01, 0x0A},
	} {
		direction, got, err := ParseFrame(EncodeCommand(payload))
		require.NoError(t, err)
		assert.Equal(t, byte(HostToPn532), direction)
		assert.Equal(t, payload, got)
	}
}

func TestDecodeResponseRoundTrip(t *testing.T) {
	t.Parallel()
	payload := []byte{0x4A, 0x01, 0x00}
	frm := EncodeCommand(payload)

	// What an I2C read returns: status byte, the frame, a pad byte
	raw := append([]byte{StatusReady}, frm...)
	raw = append(raw, 0x00)

	decoded, err := DecodeResponse(raw, len(frm))
	require.NoError(t, err)
	assert.Equal(t, frm, decoded)

	_, got, err := ParseFrame(decoded)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecodeResponseAck(t *testing.T) {
	t.Parallel()
	raw := append([]byte{StatusReady}, AckFrame...)
	raw = append(raw, 0x00)

	decoded, err := DecodeResponse(raw, AckLength)
	require.NoError(t, err)
	assert.True(t, ValidateAck(decoded))
}

func TestDecodeResponseShortRead(t *testing.T) {
	t.Parallel()
	_, err := DecodeResponse([]byte{0x01, 0x00, 0x00}, 6)
	require.ErrorIs(t, err, ErrShortRead)

	_, err = DecodeResponse(nil, 0)
	require.ErrorIs(t, err, ErrShortRead)
}

func TestParseFrameErrors(t *testing.T) {
	t.Parallel()
	valid := EncodeCommand([]byte{0x02})

	badDCS := append([]byte(nil), valid...)
	badDCS[len(badDCS)-2]++

	badLCS := append([]byte(nil), valid...)
	badLCS[4]++

	tests := []struct {
		want error
		name string
		frm  []byte
	}{
		{name: "no start code", frm: []byte{0x01, 0x02, 0x03}, want: ErrInvalidFrame},
		{name: "ack frame", frm: AckFrame, want: ErrInvalidFrame},
		{name: "truncated", frm: valid[:6], want: ErrShortRead},
		{name: "bad data checksum", frm: badDCS, want: ErrChecksumMismatch},
		{name: "bad length checksum", frm: badLCS, want: ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ParseFrame(tt.frm)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateAck(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidateAck([]byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}))
	assert.False(t, ValidateAck(NackFrame))
	assert.False(t, ValidateAck(AckFrame[:5]))
	assert.False(t, ValidateAck(nil))
}
