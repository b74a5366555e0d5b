// Package cartridge implements cartridge header parsing and every memory
// bank controller the core supports: none (32KB ROM-only), MBC1, MBC3 (with
// real-time clock), MBC5, MBC7 (EEPROM + accelerometer), and Pocket Camera.
package cartridge

import "github.com/pixeltrail/gbcore/pkg/log"

// MBCType identifies the bank controller a ROM's header selects.
type MBCType int

const (
	NoMBC MBCType = iota
	MBC1
	MBC3
	MBC5
	MBC7
	PocketCamera
)

// Cartridge is the interface the memory bus routes 0x0000-0x7FFF (ROM) and
// 0xA000-0xBFFF (external RAM) accesses through. Every MBC implementation
// owns its ROM, RAM, and banking registers; the bus holds nothing but this
// interface.
type Cartridge interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)

	// RAMBytes returns the cartridge's persistable save data.
	RAMBytes() []uint8
	// LoadRAM installs previously-saved data, truncated to fit.
	LoadRAM(data []uint8)

	Type() MBCType
	ROMBankCount() int

	// TickRTC advances a real-time clock by one wall-clock second. A no-op
	// for cartridges without one.
	TickRTC()
}

const romBankSize = 0x4000
const ramBankSize = 0x2000

func romByteOrFF(rom []uint8, addr int) uint8 {
	if addr < 0 || addr >= len(rom) {
		return 0xFF
	}
	return rom[addr]
}

func ramByteOrFF(ram []uint8, offset int) uint8 {
	if offset < 0 || offset >= len(ram) {
		return 0xFF
	}
	return ram[offset]
}

// New constructs the cartridge implementation selected by the header's cart
// type byte, per the 0x0147 -> MBC variant table.
func New(header Header, rom []uint8, logger log.Logger) Cartridge {
	ramSize := header.RAMSize
	switch header.MBC {
	case NoMBC:
		return newNoMBC(rom)
	case MBC1:
		return newMBC1(rom, ramSize)
	case MBC3:
		return newMBC3(rom, ramSize)
	case MBC5:
		return newMBC5(rom, ramSize)
	case MBC7:
		return newMBC7(rom)
	case PocketCamera:
		return newPocketCamera(rom, logger)
	default:
		return newMBC5(rom, ramSize)
	}
}
