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

// Package report posts badge events to the remote scoring service
package report

import (
	"context"
	"errors"
)

// ErrUnexpectedStatus is returned when the service answers anything but 200
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Reporter delivers tag, score and heartbeat events
type Reporter interface {
	// PostTag reports a tag read in plain mode
	PostTag(ctx context.Context, tag string) error

	// PostScore reports a tag read with the selected score attached
	PostScore(ctx context.Context, tag string, score int) error

	// Heartbeat reports that the reader is alive
	Heartbeat(ctx context.Context) error
}

// TagEvent is the body of a tag post
type TagEvent struct {
	Tag       string `json:"tag"`
	ReaderID  string `json:"reader_id"`
	ReaderKey string `json:"reader_key"`
}

// ScoreEvent is the body of a score post
type ScoreEvent struct {
	Tag       string `json:"tag"`
	Score     int    `json:"score"`
	ReaderID  string `json:"reader_id"`
	ReaderKey string `json:"reader_key"`
}

// HeartbeatEvent is the body of a heartbeat post
type HeartbeatEvent struct {
	ReaderID  string `json:"reader_id"`
	ReaderKey string `json:"reader_key"`
}
