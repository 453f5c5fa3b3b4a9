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

// MinScore and MaxScore bound the selectable score
const (
	MinScore = 1
	MaxScore = 5
)

// ScoreState is the operator selection shared by the button and tag tasks.
// The button task is its only writer; both tasks run on the scheduler
// goroutine, so it carries no lock.
type ScoreState struct {
	// ScoreMode attaches LastScore to tag reports when set
	ScoreMode bool
	// LastScore is the most recently pressed score button
	LastScore int
}

// NewScoreState returns the power-on selection: score mode off, score 1
func NewScoreState() *ScoreState {
	return &ScoreState{LastScore: MinScore}
}
