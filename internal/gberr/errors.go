// Package gberr defines the sentinel errors the core can return across its
// host-facing API. These are the only error kinds the core ever surfaces;
// everything else (bad memory accesses, disabled RAM, DMA timing) is
// modeled rather than reported, per the core's error handling design.
package gberr

import "errors"

var (
	// RomTooSmall is returned by LoadROM when the supplied bytes are
	// shorter than the cartridge header requires.
	RomTooSmall = errors.New("gbcore: rom shorter than 0x150 bytes")

	// InvalidSlot is returned by photo slot operations when the slot is
	// outside the valid 1..30 range.
	InvalidSlot = errors.New("gbcore: photo slot out of range (want 1..30)")

	// InvalidImageSize is returned when a supplied image buffer doesn't
	// match the expected pixel count for its operation.
	InvalidImageSize = errors.New("gbcore: image buffer has the wrong size")
)
