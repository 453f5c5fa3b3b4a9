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
	"errors"
	"fmt"
	"sync"

	"github.com/ZaparooProject/pn532-badgereader/internal/frame"
)

// ErrMockBusClosed is returned by MockBus reads and writes on a closed bus
var ErrMockBusClosed = errors.New("mock bus closed")

// MockBus simulates a PN532 behind an I2C bus. Each accepted command frame
// queues an ACK followed by the configured response. Every message is
// delivered as a ready status byte followed by the frame; once a message is
// drained the bus reads as zeros.
//
// Thread Safety: MockBus is safe for concurrent use.
type MockBus struct {
	responses    map[byte][]byte
	queued       map[byte][][]byte
	openErr      error
	addrErr      error
	writeErr     error
	readErr      error
	ack          []byte
	stream       []byte
	next         []byte
	writes       [][]byte
	name         string
	notReady     int
	notReadyLeft int
	chunk        int
	reads        int
	opens        int
	addr         uint16
	mu           sync.Mutex
	open         bool
	neverReady   bool
}

// NewMockBus creates a mock bus that ACKs every command and has no
// responses configured
func NewMockBus() *MockBus {
	return &MockBus{
		responses: make(map[byte][]byte),
		queued:    make(map[byte][][]byte),
		ack:       append([]byte(nil), frame.AckFrame...),
		name:      "mock",
	}
}

// Open implements Bus
func (m *MockBus) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.open = true
	m.opens++
	return nil
}

// SetAddress implements Bus
func (m *MockBus) SetAddress(addr uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addrErr != nil {
		return m.addrErr
	}
	m.addr = addr
	return nil
}

// Write implements Bus. A valid command frame arms the ACK and response.
func (m *MockBus) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrMockBusClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))

	tfi, payload, err := frame.ParseFrame(p)
	if err != nil || tfi != frame.HostToPn532 || len(payload) == 0 {
		m.stream, m.next = nil, nil
		return nil
	}

	m.stream = m.message(m.ack)
	m.next = nil
	if frm := m.responseFor(payload[0]); frm != nil {
		m.next = m.message(frm)
	}
	m.notReadyLeft = m.notReady
	return nil
}

// Read implements Bus
func (m *MockBus) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if !m.open {
		return 0, ErrMockBusClosed
	}
	if m.readErr != nil {
		return 0, m.readErr
	}

	clear(p)
	if len(m.stream) == 0 && m.next != nil {
		m.stream, m.next = m.next, nil
		m.notReadyLeft = m.notReady
	}
	if m.neverReady || len(m.stream) == 0 {
		return len(p), nil
	}
	if m.notReadyLeft > 0 {
		m.notReadyLeft--
		return len(p), nil
	}

	n := len(p)
	if m.chunk > 0 && n > m.chunk {
		n = m.chunk
	}
	copied := copy(p[:n], m.stream)
	m.stream = m.stream[copied:]
	return n, nil
}

// Close implements Bus
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.stream, m.next = nil, nil
	return nil
}

// Name implements Bus
func (m *MockBus) Name() string {
	return m.name
}

// SetResponse sets the response to cmd. payload starts after the TFI, so a
// firmware response is {0x03, IC, Ver, Rev, Support}.
func (m *MockBus) SetResponse(cmd byte, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = frame.Encode(frame.Pn532ToHost, payload)
}

// SetResponseFrame sets the raw frame answered to cmd
func (m *MockBus) SetResponseFrame(cmd byte, frm []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[cmd] = append([]byte(nil), frm...)
}

// QueueResponse queues a one-shot response to cmd that takes precedence over
// the one set by SetResponse
func (m *MockBus) QueueResponse(cmd byte, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued[cmd] = append(m.queued[cmd], frame.Encode(frame.Pn532ToHost, payload))
}

// ClearResponse removes every response to cmd, so it is ACKed but never
// answered
func (m *MockBus) ClearResponse(cmd byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.responses, cmd)
	delete(m.queued, cmd)
}

// SetAck replaces the ACK frame sent after each command
func (m *MockBus) SetAck(ack []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ack = append([]byte(nil), ack...)
}

// SetNeverReady makes every read report a busy status
func (m *MockBus) SetNeverReady(never bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.neverReady = never
}

// SetNotReadyPolls makes each message report busy for n reads first
func (m *MockBus) SetNotReadyPolls(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notReady = n
}

// SetChunkSize limits how many bytes a single read returns
func (m *MockBus) SetChunkSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunk = n
}

// SetOpenError makes Open fail with err
func (m *MockBus) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetAddressError makes SetAddress fail with err
func (m *MockBus) SetAddressError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addrErr = err
}

// SetWriteError makes Write fail with err
func (m *MockBus) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetReadError makes Read fail with err
func (m *MockBus) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Writes returns a copy of every frame written
func (m *MockBus) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// Commands returns the command code of every valid frame written
func (m *MockBus) Commands() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cmds []byte
	for _, w := range m.writes {
		if _, payload, err := frame.ParseFrame(w); err == nil && len(payload) > 0 {
			cmds = append(cmds, payload[0])
		}
	}
	return cmds
}

// IsOpen reports whether the bus is open
func (m *MockBus) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// OpenCount returns how many times Open succeeded
func (m *MockBus) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// ReadCount returns how many times Read was called
func (m *MockBus) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Address returns the last slave address set
func (m *MockBus) Address() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

func (m *MockBus) responseFor(cmd byte) []byte {
	if q := m.queued[cmd]; len(q) > 0 {
		m.queued[cmd] = q[1:]
		return q[0]
	}
	return m.responses[cmd]
}

func (*MockBus) message(frm []byte) []byte {
	msg := make([]byte, 0, len(frm)+1)
	msg = append(msg, frame.StatusReady)
	return append(msg, frm...)
}

// NewMockPN532 returns a mock bus answering like a PN532 v1.6 with no tag in
// the field
func NewMockPN532() *MockBus {
	m := NewMockBus()
	m.SetResponse(cmdGetFirmwareVersion, []byte{cmdGetFirmwareVersion + 1, 0x32, 0x01, 0x06, 0x07})
	m.SetResponse(cmdSamConfiguration, []byte{samResponseCode})
	m.SetResponse(cmdInListPassiveTarget, []byte{cmdInListPassiveTarget + 1, 0x00})
	return m
}

// PassiveTargetResponse builds the InListPassiveTarget payload for a single
// ISO14443A target with the given UID
func PassiveTargetResponse(uid []byte) []byte {
	if len(uid) > 0xFF {
		panic(fmt.Sprintf("uid too long: %d", len(uid)))
	}
	res := []byte{cmdInListPassiveTarget + 1, 0x01, 0x01, 0x00, 0x04, 0x08, byte(len(uid))}
	return append(res, uid...)
}
