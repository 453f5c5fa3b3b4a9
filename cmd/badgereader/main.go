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
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/pn532-badgereader/hal"
	"github.com/ZaparooProject/pn532-badgereader/internal/clock"
	"github.com/ZaparooProject/pn532-badgereader/internal/config"
	"github.com/ZaparooProject/pn532-badgereader/internal/logging"
	"github.com/ZaparooProject/pn532-badgereader/report"
	"github.com/rs/zerolog/log"
)

type flags struct {
	configPath *string
	logLevel   *string
	noColor    *bool
}

func parseFlags() flags {
	f := flags{
		configPath: flag.String("config", "", "Path to the TOML configuration file. Empty uses the built-in defaults."),
		logLevel:   flag.String("log-level", "", "Log level (trace, debug, info, warn, error). Overrides the config file."),
		noColor:    flag.Bool("no-color", false, "Disable colored log output"),
	}
	flag.Parse()
	return f
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	f := parseFlags()

	cfg, err := loadConfig(*f.configPath)
	if err != nil {
		logging.Setup(logging.Options{App: "badgereader", NoColor: *f.noColor})
		log.Fatal().Err(err).Str("path", *f.configPath).Msg("failed to load configuration")
	}
	if *f.logLevel != "" {
		cfg.LogLevel = *f.logLevel
	}
	logging.Setup(logging.Options{App: "badgereader", Level: cfg.LogLevel, NoColor: *f.noColor})

	bus, err := newBus(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to select I2C bus")
	}

	reporter := report.NewHTTPClient(cfg.Endpoints(), cfg.Credentials(),
		report.WithUserAgent(cfg.UserAgent),
		report.WithTimeout(cfg.HTTPTimeout),
	)

	a, err := newApp(cfg, bus, hal.NewGPIO(), reporter, clock.New())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start reader")
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("tasks", a.scheduler.Len()).Msg("reader running")
	if err := a.scheduler.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler stopped")
	}
	log.Info().Msg("reader stopped")
}
