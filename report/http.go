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

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultUserAgent identifies the reader to the service
const DefaultUserAgent = "dptboard-agent/1.0"

// DefaultTimeout bounds one post, including connection setup
const DefaultTimeout = 5 * time.Second

const contentType = "application/json;charset=UTF-8"

// Endpoints are the URLs events are posted to. An empty URL disables that
// event kind.
type Endpoints struct {
	Tag       string
	Score     string
	Heartbeat string
}

// Credentials identify the reader
type Credentials struct {
	ReaderID  string
	ReaderKey string
}

// HTTPClient implements Reporter with JSON posts
type HTTPClient struct {
	client    *http.Client
	endpoints Endpoints
	creds     Credentials
	userAgent string
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) {
		h.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		h.client = &http.Client{Timeout: d}
	}
}

// NewHTTPClient creates a reporter posting to endpoints
func NewHTTPClient(endpoints Endpoints, creds Credentials, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		client:    &http.Client{Timeout: DefaultTimeout},
		endpoints: endpoints,
		creds:     creds,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PostTag implements Reporter
func (h *HTTPClient) PostTag(ctx context.Context, tag string) error {
	return h.post(ctx, "tag", h.endpoints.Tag, TagEvent{
		Tag:       tag,
		ReaderID:  h.creds.ReaderID,
		ReaderKey: h.creds.ReaderKey,
	})
}

// PostScore implements Reporter
func (h *HTTPClient) PostScore(ctx context.Context, tag string, score int) error {
	return h.post(ctx, "score", h.endpoints.Score, ScoreEvent{
		Tag:       tag,
		Score:     score,
		ReaderID:  h.creds.ReaderID,
		ReaderKey: h.creds.ReaderKey,
	})
}

// Heartbeat implements Reporter
func (h *HTTPClient) Heartbeat(ctx context.Context) error {
	return h.post(ctx, "heartbeat", h.endpoints.Heartbeat, HeartbeatEvent{
		ReaderID:  h.creds.ReaderID,
		ReaderKey: h.creds.ReaderKey,
	})
}

func (h *HTTPClient) post(ctx context.Context, kind, url string, body any) error {
	if url == "" {
		log.Debug().Str("kind", kind).Msg("no endpoint configured, event dropped")
		return nil
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", kind, err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	log.Debug().Str("kind", kind).Str("url", url).Str("request_id", requestID).Msg("posting event")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s to %s: %w", kind, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s to %s: %w: %d", kind, url, ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// Ensure HTTPClient implements Reporter
var _ Reporter = (*HTTPClient)(nil)
