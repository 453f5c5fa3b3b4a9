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
	"time"

	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/internal/frame"
	"github.com/rs/zerolog/log"
)

// SessionState tracks where a command exchange currently is
type SessionState int

const (
	StateIdle SessionState = iota
	StateSending
	StateAwaitingAck
	StateAwaitingResponse
	StateDone
	StateTimedOut
	StateBusError
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateAwaitingAck:
		return "awaiting-ack"
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateDone:
		return "done"
	case StateTimedOut:
		return "timed-out"
	case StateBusError:
		return "bus-error"
	default:
		return "unknown"
	}
}

const (
	defaultWakeDelay    = 2 * time.Millisecond
	defaultPollInterval = time.Millisecond
)

// Session owns the bus binding and the scratch buffers for command
// exchanges with one PN532. It implements the write/ACK/response handshake;
// nothing in it retries.
//
// Thread Safety: Session is NOT thread-safe. It is meant to be driven from
// the single scheduler goroutine.
type Session struct {
	bus          Bus
	clock        clock.Clock
	buf          []byte
	ackBuf       [1 + frame.AckLength]byte
	wakeDelay    time.Duration
	pollInterval time.Duration
	state        SessionState
	addr         uint16
	open         bool
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock replaces the clock used for bounded waits
func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

// WithAddress sets the I2C slave address
func WithAddress(addr uint16) SessionOption {
	return func(s *Session) {
		s.addr = addr
	}
}

// WithPollInterval sets the sleep between ready-status polls
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.pollInterval = d
	}
}

// WithWakeDelay sets the delay before each command write
func WithWakeDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.wakeDelay = d
	}
}

// NewSession creates a closed session on bus
func NewSession(bus Bus, opts ...SessionOption) *Session {
	s := &Session{
		bus:          bus,
		clock:        clock.New(),
		addr:         DefaultAddress,
		wakeDelay:    defaultWakeDelay,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pollInterval <= 0 {
		s.pollInterval = defaultPollInterval
	}
	return s
}

// Open opens the bus and selects the PN532 address. A session closed after
// a bus error is reopened the same way.
func (s *Session) Open() error {
	if s.open {
		return nil
	}

	if err := s.bus.Open(); err != nil {
		s.state = StateBusError
		return NewBusError("open", s.bus.Name(), err)
	}

	if err := s.bus.SetAddress(s.addr); err != nil {
		_ = s.bus.Close()
		s.state = StateBusError
		return NewBusError("setAddress", s.bus.Name(), err)
	}

	s.open = true
	s.state = StateIdle
	log.Debug().Str("bus", s.bus.Name()).Uint16("addr", s.addr).Msg("pn532 session opened")
	return nil
}

// Close closes the bus. It is safe to call on a closed session.
func (s *Session) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	s.state = StateIdle
	if err := s.bus.Close(); err != nil {
		return NewBusError("close", s.bus.Name(), err)
	}
	return nil
}

// IsOpen reports whether the bus is open and addressed
func (s *Session) IsOpen() bool {
	return s.open
}

// State returns the state the last exchange ended in
func (s *Session) State() SessionState {
	return s.state
}

// BusName returns the name of the underlying bus
func (s *Session) BusName() string {
	return s.bus.Name()
}

// SendAndAwaitAck writes payload as a command frame and waits at most
// ackTimeout for the ACK frame. A malformed ACK is reported as ErrNoACK and
// left to the caller.
func (s *Session) SendAndAwaitAck(payload []byte, ackTimeout time.Duration) error {
	const op = "sendAndAwaitAck"

	if err := s.checkExchange(op, ackTimeout); err != nil {
		return err
	}
	if len(payload) == 0 {
		return NewTransportError(op, s.bus.Name(), ErrInvalidParameter, ErrorTypePermanent)
	}
	if len(payload) > frame.MaxPayloadLength {
		return NewDataTooLargeError(op, s.bus.Name())
	}

	s.state = StateSending
	s.clock.Sleep(s.wakeDelay)
	if err := s.bus.Write(frame.EncodeCommand(payload)); err != nil {
		return s.fail(op, err)
	}

	s.state = StateAwaitingAck
	raw := s.ackBuf[:]
	if err := s.readRaw(op, raw, ackTimeout); err != nil {
		return err
	}

	if !frame.ValidateAck(raw[1:]) {
		s.state = StateDone
		log.Debug().Hex("got", raw[1:]).Uint8("cmd", payload[0]).Msg("pn532 ack mismatch")
		return NewNoACKError(op, s.bus.Name())
	}

	s.state = StateAwaitingResponse
	return nil
}

// ReadResponse waits at most timeout for the response frame and returns n
// bytes of it with the status and pad bytes stripped. The returned slice
// starts at the frame preamble.
func (s *Session) ReadResponse(n int, timeout time.Duration) ([]byte, error) {
	const op = "readResponse"

	if err := s.checkExchange(op, timeout); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, NewTransportError(op, s.bus.Name(), ErrInvalidParameter, ErrorTypePermanent)
	}

	s.state = StateAwaitingResponse
	raw := s.scratch(frame.RawLength(n))
	if err := s.readRaw(op, raw, timeout); err != nil {
		return nil, err
	}

	data, err := frame.DecodeResponse(raw, n)
	if err != nil {
		s.state = StateDone
		return nil, NewFrameCorruptedError(op, s.bus.Name())
	}

	s.state = StateDone
	return data, nil
}

func (s *Session) checkExchange(op string, timeout time.Duration) error {
	if !s.open {
		return NewTransportError(op, s.bus.Name(), ErrSessionClosed, ErrorTypePermanent)
	}
	if timeout <= 0 {
		return NewTransportError(op, s.bus.Name(), ErrInvalidParameter, ErrorTypePermanent)
	}
	return nil
}

// readRaw polls the bus until the status byte reports ready, then keeps
// reading until raw is full. Both phases are bounded by timeout.
func (s *Session) readRaw(op string, raw []byte, timeout time.Duration) error {
	start := s.clock.Now()

	read := 0
	for {
		n, err := s.bus.Read(raw)
		if err != nil {
			return s.fail(op, err)
		}
		if n > 0 && raw[0]&frame.StatusReady != 0 {
			read = n
			break
		}
		if err := s.tick(op, start, timeout); err != nil {
			return err
		}
	}

	for read < len(raw) {
		n, err := s.bus.Read(raw[read:])
		if err != nil {
			return s.fail(op, err)
		}
		if n > 0 {
			read += n
			continue
		}
		if err := s.tick(op, start, timeout); err != nil {
			return err
		}
	}

	return nil
}

// tick sleeps one poll interval and reports a timeout once more than timeout
// has elapsed since start
func (s *Session) tick(op string, start time.Time, timeout time.Duration) error {
	s.clock.Sleep(s.pollInterval)
	if s.clock.Now().Sub(start) > timeout {
		s.state = StateTimedOut
		log.Debug().Str("op", op).Dur("timeout", timeout).Msg("pn532 wait timed out")
		return NewTimeoutError(op, s.bus.Name())
	}
	return nil
}

// fail closes the session after a bus failure
func (s *Session) fail(op string, cause error) error {
	s.state = StateBusError
	s.open = false
	_ = s.bus.Close()
	log.Error().Err(cause).Str("op", op).Str("bus", s.bus.Name()).Msg("pn532 bus error, session closed")
	return NewBusError(op, s.bus.Name(), cause)
}

func (s *Session) scratch(n int) []byte {
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	s.buf = s.buf[:n]
	clear(s.buf)
	return s.buf
}
