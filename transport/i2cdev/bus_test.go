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

package i2cdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bus number", in: "1", want: "/dev/i2c-1"},
		{name: "device path", in: "/dev/i2c-3", want: "/dev/i2c-3"},
		{name: "other path", in: "/tmp/fake-bus", want: "/tmp/fake-bus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DevicePath(tt.in))
			assert.Equal(t, tt.want, New(tt.in).Name())
		})
	}
}

func TestBusNumber(t *testing.T) {
	t.Parallel()

	n, err := BusNumber("/dev/i2c-11")
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	n, err = BusNumber("/tmp/adapters/i2c-3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = BusNumber("/dev/spidev0.0")
	require.Error(t, err)

	_, err = BusNumber("/dev/i2c-x")
	require.Error(t, err)
}
