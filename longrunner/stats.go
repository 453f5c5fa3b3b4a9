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

package longrunner

import "time"

// TaskStats describes one registered task
type TaskStats struct {
	LastRun      time.Time
	Name         string
	Period       time.Duration
	LastDuration time.Duration
	Runs         uint64
	Panics       uint64
}

// Stats returns a snapshot of every task in registration order
func (s *Scheduler) Stats() []TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]TaskStats, 0, len(s.tasks))
	for _, t := range s.tasks {
		stats = append(stats, TaskStats{
			Name:         t.name,
			Period:       t.period,
			Runs:         t.runs,
			Panics:       t.panics,
			LastRun:      t.lastRun,
			LastDuration: t.lastDuration,
		})
	}
	return stats
}
