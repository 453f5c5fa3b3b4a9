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

package main

import (
	"errors"
	"fmt"

	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"github.com/ZaparooProject/pn532-badgereader/badge"
	"github.com/ZaparooProject/pn532-badgereader/hal"
	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/internal/config"
	"github.com/ZaparooProject/pn532-badgereader/longrunner"
	"github.com/ZaparooProject/pn532-badgereader/report"
	"github.com/ZaparooProject/pn532-badgereader/transport/i2c"
	"github.com/ZaparooProject/pn532-badgereader/transport/i2cdev"
	"github.com/rs/zerolog/log"
)

// Task names as they appear in logs and stats
const (
	taskTagPoll   = "tag-poll"
	taskButtons   = "buttons"
	taskHeartbeat = "heartbeat"
)

var errNoBus = errors.New("no I2C bus found")

type app struct {
	scheduler *longrunner.Scheduler
	device    *pn532.Device
	tagPoll   *badge.TagPollTask
	buttons   *badge.ButtonLightTask
	heartbeat *badge.HeartbeatTask
	lights    *badge.Lights
	state     *badge.ScoreState
}

// newBus picks the bus driver named by the configuration
func newBus(cfg config.Config) (pn532.Bus, error) {
	if cfg.Driver == config.DriverPeriph {
		return i2c.New(cfg.Bus), nil
	}

	name := cfg.Bus
	if name == "" {
		buses, err := i2cdev.FindBuses()
		if err != nil {
			return nil, fmt.Errorf("failed to list I2C buses: %w", err)
		}
		if len(buses) == 0 {
			return nil, errNoBus
		}
		name = buses[0].Path
		log.Info().Str("bus", name).Int("found", len(buses)).Msg("auto-detected I2C bus")
	}
	return i2cdev.New(name), nil
}

// newApp wires the reader. A PN532 or GPIO chip that fails to initialise is
// logged and its task left out of the schedule so the rest keeps running.
func newApp(cfg config.Config, bus pn532.Bus, pins hal.Pins, reporter report.Reporter, clk clock.Clock) (*app, error) {
	a := &app{
		scheduler: longrunner.New(longrunner.WithClock(clk)),
		state:     badge.NewScoreState(),
	}

	a.lights = badge.NewLights(pins, cfg.Pins)
	a.buttons = badge.NewButtonLightTask(pins, cfg.Pins, a.lights, a.state)
	if err := a.buttons.Setup(); err != nil {
		log.Error().Err(err).Msg("GPIO not available, buttons and lights disabled")
		a.buttons = nil
		a.lights = nil
	}
	if a.buttons != nil {
		if err := a.scheduler.Register(taskButtons, a.buttons.Run, cfg.ButtonInterval); err != nil {
			return nil, err
		}
	}

	session := pn532.NewSession(bus, pn532.WithAddress(cfg.Address), pn532.WithClock(clk))
	device, err := pn532.New(session,
		pn532.WithAckTimeout(cfg.AckTimeout),
		pn532.WithPassiveActivationRetries(cfg.PassiveRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create PN532 device: %w", err)
	}
	a.device = device

	version, err := device.Init()
	if err != nil {
		log.Error().Err(err).Str("bus", bus.Name()).Msg("PN532 not available, tag polling disabled")
	} else {
		log.Info().Str("firmware", version.String()).Str("bus", bus.Name()).Msg("PN532 ready")
		a.tagPoll = badge.NewTagPollTask(device, reporter, a.state, a.lights, clk, cfg.TagPoll())
		if err := a.scheduler.Register(taskTagPoll, a.tagPoll.Run, cfg.PollInterval); err != nil {
			return nil, err
		}
	}

	a.heartbeat = badge.NewHeartbeatTask(reporter, a.lights, cfg.HTTPTimeout)
	if err := a.scheduler.Register(taskHeartbeat, a.heartbeat.Run, cfg.HeartbeatInterval); err != nil {
		return nil, err
	}

	return a, nil
}

// close releases the reader
func (a *app) close() {
	if err := a.device.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close PN532 session")
	}
	for _, stat := range a.scheduler.Stats() {
		log.Debug().Str("task", stat.Name).Uint64("runs", stat.Runs).Msg("task summary")
	}
}
