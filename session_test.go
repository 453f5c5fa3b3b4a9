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
	"testing"
	"time"

	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, bus *MockBus, opts ...SessionOption) (*Session, *clock.Fake) {
	t.Helper()

	clk := clock.NewFake(time.Unix(1700000000, 0))
	s := NewSession(bus, append([]SessionOption{WithClock(clk)}, opts...)...)
	require.NoError(t, s.Open())
	return s, clk
}

func TestSession_Open(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	s := NewSession(bus, WithAddress(0x25))

	assert.False(t, s.IsOpen())
	require.NoError(t, s.Open())
	assert.True(t, s.IsOpen())
	assert.Equal(t, uint16(0x25), bus.Address())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "mock", s.BusName())

	require.NoError(t, s.Open())
	assert.Equal(t, 1, bus.OpenCount(), "open on an open session is a no-op")

	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	assert.False(t, bus.IsOpen())
	require.NoError(t, s.Close())
}

func TestSession_OpenErrors(t *testing.T) {
	t.Parallel()

	t.Run("open fails", func(t *testing.T) {
		t.Parallel()
		bus := NewMockBus()
		bus.SetOpenError(errMockIO)
		s := NewSession(bus)

		err := s.Open()
		require.Error(t, err)
		assert.True(t, IsBusError(err))
		assert.False(t, s.IsOpen())
		assert.Equal(t, StateBusError, s.State())
	})

	t.Run("address fails", func(t *testing.T) {
		t.Parallel()
		bus := NewMockBus()
		bus.SetAddressError(errMockIO)
		s := NewSession(bus)

		err := s.Open()
		require.Error(t, err)
		assert.ErrorIs(t, err, errMockIO)
		assert.False(t, bus.IsOpen(), "bus is released when addressing fails")
	})
}

func TestSession_SendAndAwaitAck(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	s, clk := newTestSession(t, bus)

	require.NoError(t, s.SendAndAwaitAck([]byte{0x02}, time.Second))

	writes := bus.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x02, 0x2A, 0x00}, writes[0])
	assert.Equal(t, StateAwaitingResponse, s.State())
	assert.Equal(t, defaultWakeDelay, clk.Slept(), "only the wake delay is slept when the chip is ready")
}

func TestSession_SendAndAwaitAck_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want    error
		name    string
		payload []byte
		timeout time.Duration
		closed  bool
	}{
		{name: "closed session", payload: []byte{0x02}, timeout: time.Second, closed: true, want: ErrSessionClosed},
		{name: "zero timeout", payload: []byte{0x02}, timeout: 0, want: ErrInvalidParameter},
		{name: "empty payload", payload: nil, timeout: time.Second, want: ErrInvalidParameter},
		{
			name:    "payload too large",
			payload: make([]byte, frame.MaxPayloadLength+1),
			timeout: time.Second,
			want:    ErrDataTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bus := NewMockBus()
			s := NewSession(bus)
			if !tt.closed {
				require.NoError(t, s.Open())
			}

			err := s.SendAndAwaitAck(tt.payload, tt.timeout)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, bus.Writes(), "nothing is written for a rejected exchange")
		})
	}
}

func TestSession_MaxPayloadAccepted(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	s, _ := newTestSession(t, bus)

	payload := make([]byte, frame.MaxPayloadLength)
	payload[0] = 0x40
	require.NoError(t, s.SendAndAwaitAck(payload, time.Second))
	assert.Len(t, bus.Writes()[0], frame.MaxPayloadLength+frame.Overhead)
}

func TestSession_AckMismatch(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.SetAck(frame.NackFrame)
	s, _ := newTestSession(t, bus)

	err := s.SendAndAwaitAck([]byte{0x02}, time.Second)
	require.ErrorIs(t, err, ErrNoACK)
	assert.True(t, s.IsOpen(), "a bad ACK leaves the session usable")
	assert.Equal(t, StateDone, s.State())
}

func TestSession_AckTimeout(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.SetNeverReady(true)
	s, clk := newTestSession(t, bus)
	start := clk.Now()

	err := s.SendAndAwaitAck([]byte{0x02}, 50*time.Millisecond)

	require.ErrorIs(t, err, ErrTimedOut)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, StateTimedOut, s.State())
	assert.True(t, s.IsOpen(), "a timeout leaves the session usable")

	waited := clk.Now().Sub(start) - defaultWakeDelay
	assert.Greater(t, waited, 50*time.Millisecond, "never fails before the timeout")
	assert.LessOrEqual(t, waited, 50*time.Millisecond+defaultPollInterval)
}

func TestSession_ReadResponse(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.SetResponse(0x14, []byte{0x15})
	s, _ := newTestSession(t, bus)

	require.NoError(t, s.SendAndAwaitAck([]byte{0x14, 0x01, 0x14, 0x01}, time.Second))
	res, err := s.ReadResponse(8, time.Second)

	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0x02, 0xFE, 0xD5, 0x15, 0x16}, res)
	assert.Equal(t, StateDone, s.State())
}

func TestSession_ReadResponse_NotReadyThenReady(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.SetResponse(0x14, []byte{0x15})
	bus.SetNotReadyPolls(3)
	s, clk := newTestSession(t, bus)

	require.NoError(t, s.SendAndAwaitAck([]byte{0x14, 0x01, 0x14, 0x01}, time.Second))
	res, err := s.ReadResponse(8, time.Second)

	require.NoError(t, err)
	assert.Equal(t, byte(0x15), res[6])
	assert.Equal(t, 6, clk.Sleeps()-1, "three busy polls before the ACK and three before the response")
}

func TestSession_ReadResponse_PartialReads(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	bus.SetResponse(0x02, []byte{0x03, 0x32, 0x01, 0x06, 0x07})
	bus.SetChunkSize(3)
	s, _ := newTestSession(t, bus)

	require.NoError(t, s.SendAndAwaitAck([]byte{0x02}, time.Second))
	res, err := s.ReadResponse(12, time.Second)

	require.NoError(t, err)
	assert.Equal(t, []byte{0x32, 0x01, 0x06, 0x07}, res[7:11])
}

func TestSession_ReadResponse_Timeout(t *testing.T) {
	t.Parallel()

	bus := NewMockBus()
	s, clk := newTestSession(t, bus)

	require.NoError(t, s.SendAndAwaitAck([]byte{0x4A, 0x01, 0x00}, time.Second))
	start := clk.Now()
	_, err := s.ReadResponse(20, 100*time.Millisecond)

	require.ErrorIs(t, err, ErrTimedOut)
	assert.Greater(t, clk.Now().Sub(start), 100*time.Millisecond)
	assert.True(t, s.IsOpen())
}

func TestSession_BusErrorClosesSession(t *testing.T) {
	t.Parallel()

	t.Run("write", func(t *testing.T) {
		t.Parallel()
		bus := NewMockBus()
		s, _ := newTestSession(t, bus)
		bus.SetWriteError(errMockIO)

		err := s.SendAndAwaitAck([]byte{0x02}, time.Second)
		require.ErrorIs(t, err, ErrBusIO)
		assert.False(t, s.IsOpen())
		assert.Equal(t, StateBusError, s.State())

		err = s.SendAndAwaitAck([]byte{0x02}, time.Second)
		require.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()
		bus := NewMockBus()
		s, _ := newTestSession(t, bus)
		bus.SetReadError(errMockIO)

		err := s.SendAndAwaitAck([]byte{0x02}, time.Second)
		require.ErrorIs(t, err, errMockIO)
		assert.False(t, s.IsOpen())
		assert.False(t, bus.IsOpen())
	})

	t.Run("reopen after failure", func(t *testing.T) {
		t.Parallel()
		bus := NewMockBus()
		s, _ := newTestSession(t, bus)
		bus.SetWriteError(errMockIO)
		require.Error(t, s.SendAndAwaitAck([]byte{0x02}, time.Second))

		bus.SetWriteError(nil)
		require.NoError(t, s.Open())
		require.NoError(t, s.SendAndAwaitAck([]byte{0x02}, time.Second))
	})
}

func TestSessionState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-ack", StateAwaitingAck.String())
	assert.Equal(t, "timed-out", StateTimedOut.String())
	assert.Equal(t, "bus-error", StateBusError.String())
	assert.Equal(t, "unknown", SessionState(42).String())
}
