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

package pn532

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// AckTimeout bounds the wait for the ACK of configuration commands
	AckTimeout time.Duration
	// ResponseTimeout bounds the wait for configuration command responses
	ResponseTimeout time.Duration
	// PassiveActivationRetries is sent to the chip during Init
	PassiveActivationRetries byte
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		AckTimeout:               DefaultAckTimeout,
		ResponseTimeout:          DefaultResponseTimeout,
		PassiveActivationRetries: DefaultPassiveActivationRetries,
	}
}

// Device is the PN532 command catalog on top of a Session. Transport errors
// are returned unchanged; protocol errors are wrapped in *ProtocolError.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine, which in this appliance is the scheduler loop.
type Device struct {
	session         *Session
	config          *DeviceConfig
	firmwareVersion FirmwareVersion
}

// New creates a new PN532 device on the given session
func New(session *Session, opts ...Option) (*Device, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: nil session", ErrInvalidParameter)
	}

	device := &Device{
		session: session,
		config:  DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Session returns the underlying session
func (d *Device) Session() *Session {
	return d.session
}

// FirmwareVersion returns the version read by the last successful Init
func (d *Device) FirmwareVersion() FirmwareVersion {
	return d.firmwareVersion
}

// Init opens the session, identifies the chip and bounds its passive
// activation retries. Any error here means the reader is unusable.
func (d *Device) Init() (FirmwareVersion, error) {
	if err := d.session.Open(); err != nil {
		return 0, fmt.Errorf("failed to open session: %w", err)
	}

	version, err := d.GetFirmwareVersion()
	if err != nil {
		return 0, fmt.Errorf("failed to identify PN53x reader: %w", err)
	}
	d.firmwareVersion = version

	log.Debug().
		Str("chip", fmt.Sprintf("PN5%02x", version.IC())).
		Str("firmware", fmt.Sprintf("%d.%d", version.Version(), version.Revision())).
		Bool("iso14443a", version.SupportsISO14443A()).
		Bool("iso14443b", version.SupportsISO14443B()).
		Bool("iso18092", version.SupportsISO18092()).
		Msg("found PN53x reader")
	if !version.SupportsISO14443A() {
		log.Warn().Uint8("support", version.Support()).
			Msg("firmware does not report ISO14443A support, badges may not be detected")
	}

	if err := d.SetPassiveActivationRetries(d.config.PassiveActivationRetries); err != nil {
		return 0, fmt.Errorf("failed to set passive activation retries: %w", err)
	}

	return version, nil
}

// Close closes the session
func (d *Device) Close() error {
	return d.session.Close()
}

// exchange sends payload, waits for its ACK, then reads n response bytes
func (d *Device) exchange(name string, payload []byte, n int, ackTimeout, respTimeout time.Duration) ([]byte, error) {
	if err := d.session.SendAndAwaitAck(payload, ackTimeout); err != nil {
		log.Debug().Err(err).Str("command", name).Dur("timeout", ackTimeout).Msg("command not acknowledged")
		return nil, err
	}

	res, err := d.session.ReadResponse(n, respTimeout)
	if err != nil {
		log.Debug().Err(err).Str("command", name).Int("len", n).Dur("timeout", respTimeout).
			Msg("could not read response")
		return nil, err
	}

	return res, nil
}

// GetFirmwareVersion queries the embedded firmware version
func (d *Device) GetFirmwareVersion() (FirmwareVersion, error) {
	const name = "GetFirmwareVersion"

	res, err := d.exchange(name, []byte{cmdGetFirmwareVersion}, firmwareResponseLen,
		d.config.AckTimeout, d.config.ResponseTimeout)
	if err != nil {
		return 0, err
	}

	if !bytes.Equal(res[:len(firmwareSignature)], firmwareSignature) {
		return 0, newProtocolError(name, ErrUnexpectedSignature)
	}

	return FirmwareVersion(binary.BigEndian.Uint32(res[firmwareVersionOffset:])), nil
}

// ConfigureSAM puts the Secure Access Module in normal mode with a one
// second timeout and the IRQ line enabled
func (d *Device) ConfigureSAM() error {
	const name = "SAMConfiguration"

	payload := []byte{cmdSamConfiguration, samModeNormal, samTimeout1s, samUseIRQ}
	res, err := d.exchange(name, payload, samResponseLen, d.config.AckTimeout, d.config.ResponseTimeout)
	if err != nil {
		return err
	}

	if res[samResponseOffset] != samResponseCode {
		return newProtocolError(name, ErrConfigRejected)
	}
	return nil
}

// SetPassiveActivationRetries sets the MxRtyPassiveActivation byte of the
// RFConfiguration register. 0xFF waits forever, 0x00..0xFE gives up after
// that many retries. Only the ACK is checked.
func (d *Device) SetPassiveActivationRetries(maxRetries byte) error {
	payload := []byte{cmdRFConfiguration, rfCfgMaxRetry, rfMxRtyATR, rfMxRtyPSL, maxRetries}
	if err := d.session.SendAndAwaitAck(payload, d.config.AckTimeout); err != nil {
		log.Debug().Err(err).Str("command", "RFConfiguration").Uint8("max_retries", maxRetries).
			Msg("command not acknowledged")
		return err
	}
	return nil
}

// ReadPassiveTarget asks the chip for at most one card at baudRate. Both the
// ACK and the response wait are bounded by timeout.
func (d *Device) ReadPassiveTarget(baudRate BaudRate, timeout time.Duration) (*TargetID, error) {
	const name = "InListPassiveTarget"

	payload := []byte{cmdInListPassiveTarget, maxTargetsOnce, byte(baudRate)}
	res, err := d.exchange(name, payload, passiveTargetResponseLen, timeout, timeout)
	if err != nil {
		return nil, err
	}

	if res[tagsFoundOffset] != 1 {
		return nil, newProtocolError(name, ErrNoTagPresent)
	}

	uidLen := int(res[uidLengthOffset])
	if uidLen != 4 && uidLen != 7 {
		return nil, newProtocolError(name, fmt.Errorf("%w: %d", ErrMalformedUID, uidLen))
	}

	target := &TargetID{
		UID:  make([]byte, uidLen),
		ATQA: binary.BigEndian.Uint16(res[sensResOffset:]),
		SAK:  res[selResOffset],
	}
	copy(target.UID, res[uidOffset:uidOffset+uidLen])

	log.Debug().Str("command", name).Msg(target.Diagnostics())
	return target, nil
}
