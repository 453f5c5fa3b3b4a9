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
	"fmt"
	"time"

	"github.com/ZaparooProject/pn532-badgereader/hal"
	"github.com/rs/zerolog/log"
)

// DefaultButtonInterval is the button sampling period
const DefaultButtonInterval = 50 * time.Millisecond

// ButtonLightTask samples the score buttons and the score-mode toggle and
// mirrors score mode on the score light
type ButtonLightTask struct {
	pins       hal.Pins
	lights     *Lights
	state      *ScoreState
	pinMap     PinMap
	toggleHeld bool
}

// NewButtonLightTask creates the task. Setup must run before the first Run.
func NewButtonLightTask(pins hal.Pins, pinMap PinMap, lights *Lights, state *ScoreState) *ButtonLightTask {
	return &ButtonLightTask{
		pins:   pins,
		pinMap: pinMap,
		lights: lights,
		state:  state,
	}
}

// Setup releases, reserves and configures every button as an input, then
// sets up the lights
func (b *ButtonLightTask) Setup() error {
	buttons := b.pinMap.buttons()
	for _, pin := range buttons {
		if err := b.pins.Release(pin); err != nil {
			return fmt.Errorf("release button GPIO%d: %w", pin, err)
		}
	}
	for _, pin := range buttons {
		if err := b.pins.Reserve(pin); err != nil {
			return fmt.Errorf("reserve button GPIO%d: %w", pin, err)
		}
	}
	for _, pin := range buttons {
		if err := b.pins.SetDirection(pin, hal.In); err != nil {
			return fmt.Errorf("button GPIO%d direction: %w", pin, err)
		}
	}

	if err := b.lights.Setup(); err != nil {
		return err
	}

	log.Info().Ints("score", b.pinMap.Score[:]).Int("score_mode", b.pinMap.ScoreMode).
		Msg("button and light task initialised")
	return nil
}

// Run samples the buttons once. Every score button is scanned in order 1..5
// and the last one found pressed wins. The score-mode button toggles only on
// a released to pressed transition.
func (b *ButtonLightTask) Run() {
	for i, pin := range b.pinMap.Score {
		if b.pressed(pin) {
			b.state.LastScore = i + MinScore
		}
	}

	level, err := b.pins.Read(b.pinMap.ScoreMode)
	if err != nil {
		log.Warn().Err(err).Int("pin", b.pinMap.ScoreMode).Msg("could not read score mode button")
		return
	}

	if level == hal.High {
		if !b.toggleHeld {
			b.state.ScoreMode = !b.state.ScoreMode
			if err := b.lights.SetScore(b.state.ScoreMode); err != nil {
				log.Warn().Err(err).Msg("could not switch score light")
			}
			log.Debug().Bool("score_mode", b.state.ScoreMode).Msg("score mode toggled")
		}
		b.toggleHeld = true
		return
	}
	b.toggleHeld = false
}

func (b *ButtonLightTask) pressed(pin int) bool {
	level, err := b.pins.Read(pin)
	if err != nil {
		log.Warn().Err(err).Int("pin", pin).Msg("could not read score button")
		return false
	}
	return level == hal.High
}
