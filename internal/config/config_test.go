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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/pn532-badgereader/badge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "badgereader.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverI2CDev, cfg.Driver)
	assert.Equal(t, uint16(0x24), cfg.Address)
	assert.Equal(t, time.Second, cfg.AckTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.ButtonInterval)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, byte(0x0A), cfg.PassiveRetries)
	assert.Equal(t, "dptboard-agent/1.0", cfg.UserAgent)
	assert.True(t, cfg.ConfigureSAM)
	assert.Equal(t, badge.DefaultPinMap(), cfg.Pins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
bus = "/dev/i2c-0"
driver = "periph"
address = 0x25
poll_timeout = "5s"
read_delay = "2s"
heartbeat_interval = "30s"
passive_retries = 255
configure_sam = false
post_tag = "https://stumon.example/api/tag"
post_score = "https://stumon.example/api/score"
post_heartbeat = "https://stumon.example/api/heartbeat"
reader_id = " reader-7 "
reader_key = "s3cret"
log_level = "debug"

[pins]
score = [5, 6, 7, 8, 9]
score_mode = 10
light_status = 11
light_wifi = 12
light_score = 13
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/i2c-0", cfg.Bus)
	assert.Equal(t, DriverPeriph, cfg.Driver)
	assert.Equal(t, uint16(0x25), cfg.Address)
	assert.Equal(t, 5*time.Second, cfg.PollTimeout)
	assert.Equal(t, 2*time.Second, cfg.ReadDelay)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, byte(0xFF), cfg.PassiveRetries)
	assert.False(t, cfg.ConfigureSAM)
	assert.Equal(t, "reader-7", cfg.ReaderID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, [5]int{5, 6, 7, 8, 9}, cfg.Pins.Score)
	assert.Equal(t, 10, cfg.Pins.ScoreMode)
	assert.Equal(t, 21, cfg.Pins.Wifi, "unset pins keep their default")

	assert.Equal(t, "https://stumon.example/api/score", cfg.Endpoints().Score)
	assert.Equal(t, "s3cret", cfg.Credentials().ReaderKey)

	tp := cfg.TagPoll()
	assert.Equal(t, 5*time.Second, tp.PollTimeout)
	assert.True(t, tp.SkipSAM)
	assert.Equal(t, cfg.HTTPTimeout, tp.ReportTimeout)
}

func TestLoad_MissingKeysKeepDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `reader_id = "r1"`))
	require.NoError(t, err)

	want := Default()
	want.ReaderID = "r1"
	assert.Equal(t, want, cfg)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "bad duration", body: `ack_timeout = "soon"`},
		{name: "zero timeout", body: `ack_timeout = "0s"`, wantErr: ErrInvalidConfig},
		{name: "unknown driver", body: `driver = "uart"`, wantErr: ErrInvalidConfig},
		{name: "address out of range", body: `address = 0x80`, wantErr: ErrInvalidConfig},
		{name: "retries out of range", body: `passive_retries = 256`, wantErr: ErrInvalidConfig},
		{name: "relative url", body: `post_tag = "/api/tag"`, wantErr: ErrInvalidConfig},
		{name: "unknown key", body: `stumon_post_tag = "x"`, wantErr: ErrInvalidConfig},
		{name: "short score pins", body: "[pins]\nscore = [1, 2]", wantErr: ErrInvalidConfig},
		{name: "pin used twice", body: "[pins]\nscore_mode = 14", wantErr: ErrInvalidConfig},
		{name: "not toml", body: `bus = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_DuplicatePinMessage(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Pins.LightScore = cfg.Pins.Score[2]
	cfg.Pins.ScoreMode = cfg.Pins.Score[2]

	for range 20 {
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.EqualError(t, err, "invalid configuration: GPIO19 used by both pins.score[2] and pins.score_mode")
	}
}
