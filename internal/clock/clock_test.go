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

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeSleepAdvances(t *testing.T) {
	t.Parallel()
	start := time.Unix(1000, 0)
	f := NewFake(start)

	f.Sleep(time.Millisecond)
	f.Sleep(2 * time.Millisecond)
	f.Advance(time.Second)

	assert.Equal(t, start.Add(time.Second+3*time.Millisecond), f.Now())
	assert.Equal(t, 3*time.Millisecond, f.Slept())
	assert.Equal(t, 2, f.Sleeps())
}

func TestRealClock(t *testing.T) {
	t.Parallel()
	c := New()
	before := c.Now()
	c.Sleep(time.Millisecond)
	assert.False(t, c.Now().Before(before.Add(time.Millisecond)))
}
