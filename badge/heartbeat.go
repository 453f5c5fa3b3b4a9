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

	"github.com/ZaparooProject/pn532-badgereader/report"
	"github.com/rs/zerolog/log"
)

// DefaultHeartbeatInterval is how often the reader reports it is alive
const DefaultHeartbeatInterval = 10 * time.Second

// HeartbeatTask posts a liveness event on every run. The WiFi light shows
// whether the last heartbeat reached the service.
type HeartbeatTask struct {
	reporter report.Reporter
	lights   *Lights
	timeout  time.Duration
	failures uint64
}

// NewHeartbeatTask creates the task; timeout bounds each post. lights may be
// nil.
func NewHeartbeatTask(reporter report.Reporter, lights *Lights, timeout time.Duration) *HeartbeatTask {
	if timeout <= 0 {
		timeout = DefaultReportTimeout
	}
	return &HeartbeatTask{reporter: reporter, lights: lights, timeout: timeout}
}

// Failures returns how many heartbeats failed
func (h *HeartbeatTask) Failures() uint64 {
	return h.failures
}

// Run posts one heartbeat
func (h *HeartbeatTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	err := h.reporter.Heartbeat(ctx)
	h.setWifi(err == nil)
	if err != nil {
		h.failures++
		log.Error().Err(err).Msg("could not post heartbeat")
		return
	}
	log.Debug().Msg("heartbeat posted")
}

func (h *HeartbeatTask) setWifi(connected bool) {
	if h.lights == nil || h.lights.Wifi() == connected {
		return
	}
	if err := h.lights.SetWifi(connected); err != nil {
		log.Warn().Err(err).Msg("could not switch wifi light")
	}
}
