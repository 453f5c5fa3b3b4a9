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

// Package config loads the badge reader configuration from a TOML file
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	pn532 "github.com/ZaparooProject/pn532-badgereader"
	"github.com/ZaparooProject/pn532-badgereader/badge"
	"github.com/ZaparooProject/pn532-badgereader/report"
)

// Bus drivers
const (
	DriverI2CDev = "i2cdev"
	DriverPeriph = "periph"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete reader configuration
type Config struct {
	// Bus is the I2C bus, "/dev/i2c-1" or "1" for i2cdev, a periph bus name
	// for periph. Empty picks the first bus found.
	Bus    string
	Driver string

	PostTag       string
	PostScore     string
	PostHeartbeat string
	ReaderID      string
	ReaderKey     string
	UserAgent     string
	LogLevel      string

	Pins badge.PinMap

	AckTimeout        time.Duration
	PollTimeout       time.Duration
	PollInterval      time.Duration
	ButtonInterval    time.Duration
	ReadDelay         time.Duration
	HeartbeatInterval time.Duration
	HTTPTimeout       time.Duration

	Address        uint16
	PassiveRetries byte
	ConfigureSAM   bool
}

type pinsFile struct {
	Score       []int `toml:"score"`
	ScoreMode   int   `toml:"score_mode"`
	Wifi        int   `toml:"wifi"`
	LightWifi   int   `toml:"light_wifi"`
	LightStatus int   `toml:"light_status"`
	LightScore  int   `toml:"light_score"`
}

type fileConfig struct {
	Bus               string   `toml:"bus"`
	Driver            string   `toml:"driver"`
	AckTimeout        string   `toml:"ack_timeout"`
	PollTimeout       string   `toml:"poll_timeout"`
	PollInterval      string   `toml:"poll_interval"`
	ButtonInterval    string   `toml:"button_interval"`
	ReadDelay         string   `toml:"read_delay"`
	HeartbeatInterval string   `toml:"heartbeat_interval"`
	HTTPTimeout       string   `toml:"http_timeout"`
	PostTag           string   `toml:"post_tag"`
	PostScore         string   `toml:"post_score"`
	PostHeartbeat     string   `toml:"post_heartbeat"`
	ReaderID          string   `toml:"reader_id"`
	ReaderKey         string   `toml:"reader_key"`
	UserAgent         string   `toml:"user_agent"`
	LogLevel          string   `toml:"log_level"`
	Pins              pinsFile `toml:"pins"`
	Address           int      `toml:"address"`
	PassiveRetries    int      `toml:"passive_retries"`
	ConfigureSAM      bool     `toml:"configure_sam"`
}

// Default returns the configuration of a stock reader board
func Default() Config {
	return Config{
		Driver:            DriverI2CDev,
		Address:           pn532.DefaultAddress,
		AckTimeout:        pn532.DefaultAckTimeout,
		PollTimeout:       badge.DefaultPollTimeout,
		PollInterval:      badge.DefaultTagPollInterval,
		ButtonInterval:    badge.DefaultButtonInterval,
		ReadDelay:         badge.DefaultReadDelay,
		HeartbeatInterval: badge.DefaultHeartbeatInterval,
		HTTPTimeout:       report.DefaultTimeout,
		PassiveRetries:    pn532.DefaultPassiveActivationRetries,
		ConfigureSAM:      true,
		UserAgent:         report.DefaultUserAgent,
		LogLevel:          "info",
		Pins:              badge.DefaultPinMap(),
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalidConfig, undecoded[0])
	}

	strs := []struct {
		dst *string
		key string
		val string
	}{
		{&cfg.Bus, "bus", raw.Bus},
		{&cfg.Driver, "driver", raw.Driver},
		{&cfg.PostTag, "post_tag", raw.PostTag},
		{&cfg.PostScore, "post_score", raw.PostScore},
		{&cfg.PostHeartbeat, "post_heartbeat", raw.PostHeartbeat},
		{&cfg.ReaderID, "reader_id", raw.ReaderID},
		{&cfg.ReaderKey, "reader_key", raw.ReaderKey},
		{&cfg.UserAgent, "user_agent", raw.UserAgent},
		{&cfg.LogLevel, "log_level", raw.LogLevel},
	}
	for _, s := range strs {
		if meta.IsDefined(s.key) {
			*s.dst = strings.TrimSpace(s.val)
		}
	}

	durations := []struct {
		dst *time.Duration
		key string
		val string
	}{
		{&cfg.AckTimeout, "ack_timeout", raw.AckTimeout},
		{&cfg.PollTimeout, "poll_timeout", raw.PollTimeout},
		{&cfg.PollInterval, "poll_interval", raw.PollInterval},
		{&cfg.ButtonInterval, "button_interval", raw.ButtonInterval},
		{&cfg.ReadDelay, "read_delay", raw.ReadDelay},
		{&cfg.HeartbeatInterval, "heartbeat_interval", raw.HeartbeatInterval},
		{&cfg.HTTPTimeout, "http_timeout", raw.HTTPTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.val))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if meta.IsDefined("address") {
		if raw.Address < 0x08 || raw.Address > 0x77 {
			return Config{}, fmt.Errorf("%w: address %#x outside 0x08..0x77", ErrInvalidConfig, raw.Address)
		}
		cfg.Address = uint16(raw.Address)
	}

	if meta.IsDefined("passive_retries") {
		if raw.PassiveRetries < 0 || raw.PassiveRetries > 0xFF {
			return Config{}, fmt.Errorf("%w: passive_retries %d outside 0..255", ErrInvalidConfig, raw.PassiveRetries)
		}
		cfg.PassiveRetries = byte(raw.PassiveRetries)
	}

	if meta.IsDefined("configure_sam") {
		cfg.ConfigureSAM = raw.ConfigureSAM
	}

	if err := applyPins(&cfg.Pins, raw.Pins, meta); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyPins(pins *badge.PinMap, raw pinsFile, meta toml.MetaData) error {
	if meta.IsDefined("pins", "score") {
		if len(raw.Score) != len(pins.Score) {
			return fmt.Errorf("%w: pins.score needs %d pins, got %d", ErrInvalidConfig, len(pins.Score), len(raw.Score))
		}
		copy(pins.Score[:], raw.Score)
	}

	ints := []struct {
		dst *int
		key string
		val int
	}{
		{&pins.ScoreMode, "score_mode", raw.ScoreMode},
		{&pins.Wifi, "wifi", raw.Wifi},
		{&pins.LightWifi, "light_wifi", raw.LightWifi},
		{&pins.LightStatus, "light_status", raw.LightStatus},
		{&pins.LightScore, "light_score", raw.LightScore},
	}
	for _, p := range ints {
		if meta.IsDefined("pins", p.key) {
			*p.dst = p.val
		}
	}
	return nil
}

// Validate checks values that cannot work on the hardware
func (c Config) Validate() error {
	switch c.Driver {
	case DriverI2CDev, DriverPeriph:
	default:
		return fmt.Errorf("%w: driver %q, want %q or %q", ErrInvalidConfig, c.Driver, DriverI2CDev, DriverPeriph)
	}

	positive := []struct {
		name string
		d    time.Duration
	}{
		{"ack_timeout", c.AckTimeout},
		{"poll_timeout", c.PollTimeout},
		{"poll_interval", c.PollInterval},
		{"button_interval", c.ButtonInterval},
		{"heartbeat_interval", c.HeartbeatInterval},
		{"http_timeout", c.HTTPTimeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, p.name, p.d)
		}
	}
	if c.ReadDelay < 0 {
		return fmt.Errorf("%w: read_delay must not be negative", ErrInvalidConfig)
	}

	for _, u := range []struct{ name, val string }{
		{"post_tag", c.PostTag},
		{"post_score", c.PostScore},
		{"post_heartbeat", c.PostHeartbeat},
	} {
		if u.val == "" {
			continue
		}
		parsed, err := url.Parse(u.val)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s %q is not an absolute URL", ErrInvalidConfig, u.name, u.val)
		}
	}

	type namedPin struct {
		name string
		pin  int
	}
	pins := make([]namedPin, 0, len(c.Pins.Score)+5)
	for i, pin := range c.Pins.Score {
		pins = append(pins, namedPin{fmt.Sprintf("score[%d]", i), pin})
	}
	pins = append(pins,
		namedPin{"score_mode", c.Pins.ScoreMode},
		namedPin{"wifi", c.Pins.Wifi},
		namedPin{"light_wifi", c.Pins.LightWifi},
		namedPin{"light_status", c.Pins.LightStatus},
		namedPin{"light_score", c.Pins.LightScore},
	)

	seen := make(map[int]string, len(pins))
	for _, p := range pins {
		name, pin := p.name, p.pin
		if pin < 0 {
			return fmt.Errorf("%w: pins.%s is negative", ErrInvalidConfig, name)
		}
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%w: GPIO%d used by both pins.%s and pins.%s", ErrInvalidConfig, pin, other, name)
		}
		seen[pin] = name
	}
	return nil
}

// Endpoints returns the reporting URLs
func (c Config) Endpoints() report.Endpoints {
	return report.Endpoints{Tag: c.PostTag, Score: c.PostScore, Heartbeat: c.PostHeartbeat}
}

// Credentials returns the reader identity
func (c Config) Credentials() report.Credentials {
	return report.Credentials{ReaderID: c.ReaderID, ReaderKey: c.ReaderKey}
}

// TagPoll returns the tag poll task settings
func (c Config) TagPoll() badge.TagPollConfig {
	tp := badge.DefaultTagPollConfig()
	tp.PollTimeout = c.PollTimeout
	tp.ReadDelay = c.ReadDelay
	tp.ReportTimeout = c.HTTPTimeout
	tp.SkipSAM = !c.ConfigureSAM
	return tp
}
