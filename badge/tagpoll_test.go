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

package badge

import (
	"errors"
	"testing"
	"time"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"github.com/ZaparooProject/pn532-badgereader/hal"
	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestIO = errors.New("remote I/O error")

type tagPollFixture struct {
	task     *TagPollTask
	bus      *pn532.MockBus
	pins     *hal.MockPins
	recorder *report.Recorder
	state    *ScoreState
	clock    *clock.Fake
}

func newTagPollFixture(t *testing.T) *tagPollFixture {
	t.Helper()

	clk := clock.NewFake(time.Unix(1700000000, 0))
	bus := pn532.NewMockPN532()
	device, err := pn532.New(pn532.NewSession(bus, pn532.WithClock(clk)))
	require.NoError(t, err)
	_, err = device.Init()
	require.NoError(t, err)

	pins := hal.NewMockPins()
	lights := NewLights(pins, DefaultPinMap())
	require.NoError(t, lights.Setup())

	f := &tagPollFixture{
		bus:      bus,
		pins:     pins,
		recorder: report.NewRecorder(),
		state:    NewScoreState(),
		clock:    clk,
	}
	f.task = NewTagPollTask(device, f.recorder, f.state, lights, clk, DefaultTagPollConfig())
	return f
}

// commandsSinceInit drops GetFirmwareVersion and RFConfiguration
func (f *tagPollFixture) commandsSinceInit() []byte {
	return f.bus.Commands()[2:]
}

func TestTagPollTask_ReportsTag(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{0x11, 0x22, 0x33, 0x44}))
	before := f.clock.Slept()

	f.task.Run()

	assert.Equal(t, []report.Event{{Kind: "tag", Tag: "44332211"}}, f.recorder.Events())
	assert.Equal(t, []byte{0x14, 0x4A}, f.commandsSinceInit(), "SAM is configured before the read")
	assert.Equal(t, []hal.PulseRecord{
		{Pin: DefaultPinMap().LightStatus, Duration: DefaultBlinkDuration, Active: hal.High},
	}, f.pins.Pulses())
	assert.GreaterOrEqual(t, f.clock.Slept()-before, DefaultReadDelay, "post-read delay is slept")
	assert.Equal(t, uint64(1), f.task.Stats().Tags)
}

func TestTagPollTask_ScoreMode(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{0x04, 0xA1, 0xB2, 0xC3, 0xD4, 0xE5, 0xF6}))
	f.state.ScoreMode = true
	f.state.LastScore = 3

	f.task.Run()

	assert.Equal(t, []report.Event{{Kind: "score", Tag: "f6e5d4c3b2a104", Score: 3}}, f.recorder.Events())
}

func TestTagPollTask_NoTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup func(*pn532.MockBus)
		name  string
	}{
		{name: "zero targets", setup: func(*pn532.MockBus) {}},
		{name: "timeout", setup: func(b *pn532.MockBus) { b.ClearResponse(0x4A) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newTagPollFixture(t)
			f.task.config.ReadDelay = time.Hour
			tt.setup(f.bus)
			before := f.clock.Slept()

			f.task.Run()

			assert.Empty(t, f.recorder.Events())
			assert.Empty(t, f.pins.Pulses())
			assert.Equal(t, uint64(1), f.task.Stats().Misses)
			assert.Equal(t, uint64(0), f.task.Stats().Failures)
			assert.Less(t, f.clock.Slept()-before, time.Hour, "no post-read delay without a tag")
		})
	}
}

func TestTagPollTask_SAMRejected(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.SetResponse(0x14, []byte{0x00})

	f.task.Run()

	assert.Equal(t, []byte{0x14}, f.commandsSinceInit(), "no read without SAM")
	assert.Equal(t, uint64(1), f.task.Stats().Failures)
	assert.Equal(t, uint64(0), f.task.Stats().SAMTimeouts)
}

func TestTagPollTask_SAMTimeout(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.ClearResponse(0x14)

	f.task.Run()

	stats := f.task.Stats()
	assert.Equal(t, []byte{0x14}, f.commandsSinceInit(), "no read without SAM")
	assert.Equal(t, uint64(1), stats.SAMTimeouts)
	assert.Equal(t, uint64(0), stats.Failures, "a slow chip is not counted as a failure")
	assert.True(t, f.bus.IsOpen(), "a timeout leaves the session open")

	f.bus.SetResponse(0x14, []byte{0x15})
	f.task.Run()
	assert.Equal(t, []byte{0x14, 0x14, 0x4A}, f.commandsSinceInit(), "next run polls normally")
}

func TestTagPollTask_SkipSAM(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.task.config.SkipSAM = true

	f.task.Run()

	assert.Equal(t, []byte{0x4A}, f.commandsSinceInit())
}

func TestTagPollTask_MalformedUIDIsAFailure(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{1, 2, 3}))

	f.task.Run()

	assert.Empty(t, f.recorder.Events())
	assert.Equal(t, uint64(1), f.task.Stats().Failures)
}

func TestTagPollTask_ReportFailure(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	f.bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{0x11, 0x22, 0x33, 0x44}))
	f.recorder.SetError(report.ErrUnexpectedStatus)

	f.task.Run()

	assert.Len(t, f.recorder.Events(), 1)
	assert.Equal(t, uint64(1), f.task.Stats().ReportFailures)
}

func TestTagPollTask_ReopensAfterBusError(t *testing.T) {
	t.Parallel()

	f := newTagPollFixture(t)
	session := f.task.device.Session()

	f.bus.SetReadError(errTestIO)
	f.task.Run()
	require.False(t, session.IsOpen())
	assert.Equal(t, uint64(1), f.task.Stats().Failures)

	f.bus.SetReadError(nil)
	f.bus.SetOpenError(errTestIO)
	f.task.Run()
	assert.False(t, session.IsOpen())
	assert.Equal(t, uint64(1), f.task.Stats().Reopens)

	f.bus.SetOpenError(nil)
	f.task.Run()
	assert.Equal(t, uint64(1), f.task.Stats().Reopens, "reopen attempts are rate limited")
	assert.False(t, session.IsOpen())

	f.clock.Advance(DefaultReopenInterval)
	f.bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{0x11, 0x22, 0x33, 0x44}))
	f.task.Run()
	assert.True(t, session.IsOpen())
	assert.Equal(t, uint64(2), f.task.Stats().Reopens)
	assert.Equal(t, []report.Event{{Kind: "tag", Tag: "44332211"}}, f.recorder.Events())
}

func TestTagPollTask_WithoutLights(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(time.Unix(1700000000, 0))
	bus := pn532.NewMockPN532()
	bus.SetResponse(0x4A, pn532.PassiveTargetResponse([]byte{0x11, 0x22, 0x33, 0x44}))
	device, err := pn532.New(pn532.NewSession(bus, pn532.WithClock(clk)))
	require.NoError(t, err)
	_, err = device.Init()
	require.NoError(t, err)

	recorder := report.NewRecorder()
	NewTagPollTask(device, recorder, NewScoreState(), nil, clk, DefaultTagPollConfig()).Run()

	assert.Len(t, recorder.Events(), 1)
}
