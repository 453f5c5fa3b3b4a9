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
	"context"
	"time"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/report"
	"github.com/rs/zerolog/log"
)

// Tag poll defaults
const (
	DefaultTagPollInterval = 10 * time.Millisecond
	DefaultPollTimeout     = 1500 * time.Millisecond
	DefaultReadDelay       = time.Second
	DefaultReportTimeout   = 5 * time.Second
	DefaultReopenInterval  = 5 * time.Second
)

// TagPollConfig tunes the tag poll task
type TagPollConfig struct {
	// PollTimeout bounds the ACK and the response of each passive target read
	PollTimeout time.Duration
	// ReadDelay is slept after a reported tag so one card is not reported
	// again on the next tick
	ReadDelay time.Duration
	// BlinkDuration is how long the status light flashes per tag
	BlinkDuration time.Duration
	// ReportTimeout bounds one report call
	ReportTimeout time.Duration
	// ReopenInterval spaces attempts to reopen a session closed by a bus error
	ReopenInterval time.Duration
	// SkipSAM disables the SAM configuration sent before every read
	SkipSAM bool
}

// DefaultTagPollConfig returns the defaults
func DefaultTagPollConfig() TagPollConfig {
	return TagPollConfig{
		PollTimeout:    DefaultPollTimeout,
		ReadDelay:      DefaultReadDelay,
		BlinkDuration:  DefaultBlinkDuration,
		ReportTimeout:  DefaultReportTimeout,
		ReopenInterval: DefaultReopenInterval,
	}
}

// TagPollStats counts poll outcomes
type TagPollStats struct {
	Polls          uint64
	Tags           uint64
	Misses         uint64
	Failures       uint64
	SAMTimeouts    uint64
	ReportFailures uint64
	Reopens        uint64
}

// TagPollTask reads one tag per run and reports it. It owns the retry policy
// of the reader: nothing below it retries, a failed poll is simply tried
// again on the next run.
type TagPollTask struct {
	lastReopen time.Time
	device     *pn532.Device
	reporter   report.Reporter
	lights     *Lights
	state      *ScoreState
	clock      clock.Clock
	config     TagPollConfig
	stats      TagPollStats
}

// NewTagPollTask creates the task. lights may be nil on boards without LEDs.
func NewTagPollTask(
	device *pn532.Device,
	reporter report.Reporter,
	state *ScoreState,
	lights *Lights,
	clk clock.Clock,
	config TagPollConfig,
) *TagPollTask {
	if clk == nil {
		clk = clock.New()
	}
	return &TagPollTask{
		device:   device,
		reporter: reporter,
		state:    state,
		lights:   lights,
		clock:    clk,
		config:   config,
	}
}

// Stats returns the poll counters
func (t *TagPollTask) Stats() TagPollStats {
	return t.stats
}

// Run performs one poll
func (t *TagPollTask) Run() {
	if !t.device.Session().IsOpen() && !t.reopen() {
		return
	}

	t.stats.Polls++

	if !t.config.SkipSAM {
		if err := t.device.ConfigureSAM(); err != nil {
			if pn532.IsTimeout(err) {
				t.stats.SAMTimeouts++
				log.Debug().Err(err).Msg("PN532 did not answer SAM configuration in time")
				return
			}
			t.stats.Failures++
			log.Error().Err(err).Msg("could not configure PN532 to read RFID tags")
			return
		}
	}

	target, err := t.device.ReadPassiveTarget(pn532.BaudISO14443A, t.config.PollTimeout)
	if err != nil {
		if pn532.IsNoTag(err) {
			t.stats.Misses++
			log.Debug().Err(err).Dur("timeout", t.config.PollTimeout).Msg("no tag in field")
			return
		}
		t.stats.Failures++
		log.Error().Err(err).Dur("timeout", t.config.PollTimeout).Msg("could not read NFC tag")
		return
	}

	t.stats.Tags++
	uid := target.String()
	log.Info().Str("uid", uid).Str("diag", target.Diagnostics()).Msg("NFC tag found")

	if t.lights != nil {
		if err := t.lights.BlinkStatus(t.config.BlinkDuration); err != nil {
			log.Warn().Err(err).Msg("could not blink status light")
		}
	}

	t.report(uid)
	t.clock.Sleep(t.config.ReadDelay)
}

func (t *TagPollTask) report(uid string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.config.ReportTimeout)
	defer cancel()

	var err error
	if t.state.ScoreMode {
		err = t.reporter.PostScore(ctx, uid, t.state.LastScore)
	} else {
		err = t.reporter.PostTag(ctx, uid)
	}
	if err != nil {
		t.stats.ReportFailures++
		log.Error().Err(err).Str("uid", uid).Bool("score_mode", t.state.ScoreMode).Msg("could not report tag")
	}
}

// reopen tries to reopen a session closed by a bus error, at most once per
// ReopenInterval
func (t *TagPollTask) reopen() bool {
	now := t.clock.Now()
	if !t.lastReopen.IsZero() && now.Sub(t.lastReopen) < t.config.ReopenInterval {
		return false
	}
	t.lastReopen = now
	t.stats.Reopens++

	if err := t.device.Session().Open(); err != nil {
		log.Error().Err(err).Str("bus", t.device.Session().BusName()).Msg("could not reopen PN532 session")
		return false
	}
	log.Info().Str("bus", t.device.Session().BusName()).Msg("PN532 session reopened")
	return true
}
