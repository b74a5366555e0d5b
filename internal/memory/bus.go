// Package memory implements the 16-bit address space bus: it routes every
// CPU and PPU-adjacent access to the component that owns that range
// (cartridge ROM/RAM, PPU VRAM/OAM/registers, working RAM, timer, interrupt
// controller, joypad, high RAM) and owns OAM DMA and CGB HDMA directly,
// since both are address-space-wide operations rather than belonging to
// any one peripheral.
package memory

import (
	"github.com/pixeltrail/gbcore/internal/cartridge"
	"github.com/pixeltrail/gbcore/internal/interrupts"
	"github.com/pixeltrail/gbcore/internal/joypad"
	"github.com/pixeltrail/gbcore/internal/ppu"
	"github.com/pixeltrail/gbcore/internal/timer"
	"github.com/pixeltrail/gbcore/pkg/log"
)

// Bus is the single aggregate the CPU and frame loop read and write
// through. Its component fields are exported; package gameboy reaches the
// cartridge through Bus.Cart for the accessory host operations.
type Bus struct {
	CGB bool

	Cart   cartridge.Cartridge
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Irq    *interrupts.Service
	Joypad *joypad.State

	wram     [8][0x1000]uint8
	wramBank uint8 // SVBK; CGB only, 0 remaps to 1

	hram [0x7F]uint8
	io   [0x80]uint8 // catch-all store for serial/sound/unmodeled registers

	speedArmed  *bool // aliases cpu.SpeedSwitchArmed
	speedDouble *bool // aliases cpu.DoubleSpeed

	hdma hdmaState

	log log.Logger
}

// New returns a Bus with every component wired. Call LinkCPUSpeed once more
// before use so the KEY1 register can mirror CPU speed-switch state.
func New(cgb bool, cart cartridge.Cartridge, p *ppu.PPU, t *timer.Controller, irq *interrupts.Service, jp *joypad.State, logger log.Logger) *Bus {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &Bus{CGB: cgb, Cart: cart, PPU: p, Timer: t, Irq: irq, Joypad: jp, wramBank: 1, log: logger}
}

// LinkCPUSpeed wires KEY1 (0xFF4D) to the CPU's speed-switch state. The CPU
// remains the sole owner of both booleans; the bus only mirrors them into
// the register's bits 0 and 7.
func (b *Bus) LinkCPUSpeed(armed, double *bool) {
	b.speedArmed = armed
	b.speedDouble = double
}

func (b *Bus) wramBankOrOne() uint8 {
	if !b.CGB || b.wramBank == 0 {
		return 1
	}
	return b.wramBank
}

// Read returns the byte at the given 16-bit address. Reads are always
// side-effect free - no component mutates its state from a Read.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.ReadROM(addr)
	case addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr <= 0xBFFF:
		return b.Cart.ReadRAM(addr)
	case addr <= 0xCFFF:
		return b.wram[0][addr-0xC000]
	case addr <= 0xDFFF:
		return b.wram[b.wramBankOrOne()][addr-0xD000]
	case addr <= 0xEFFF:
		return b.wram[0][addr&0x0FFF]
	case addr <= 0xFDFF:
		return b.wram[b.wramBankOrOne()][addr&0x0FFF]
	case addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.Timer.Read(addr)
	case addr == 0xFF0F:
		return b.Irq.Read(addr)
	case addr == 0xFF46:
		return b.io[addr&0x7F]
	case (addr >= 0xFF40 && addr <= 0xFF45) || (addr >= 0xFF47 && addr <= 0xFF4B):
		return b.PPU.ReadRegister(addr)
	case addr == 0xFF4C || addr == 0xFF4E:
		return 0xFF
	case !b.CGB && (addr == 0xFF4D || (addr >= 0xFF51 && addr <= 0xFF56)):
		return 0xFF // KEY1, HDMA1-5 and RP are open bus in DMG mode
	case addr == 0xFF4D:
		return b.readKey1()
	case addr == 0xFF4F:
		return b.PPU.ReadRegister(addr)
	case addr >= 0xFF51 && addr <= 0xFF55:
		return b.hdma.read(addr)
	case addr >= 0xFF57 && addr <= 0xFF67:
		return 0xFF
	case addr >= 0xFF68 && addr <= 0xFF6B:
		return b.PPU.ReadRegister(addr)
	case addr == 0xFF70:
		if !b.CGB {
			return 0xFF
		}
		return b.wramBank | 0xF8
	case addr <= 0xFF7F:
		return b.io[addr&0x7F]
	case addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		return b.Irq.Read(addr)
	}
}

// Write stores the given byte at the given 16-bit address, dispatching to
// whichever component owns that range. Writes to unmapped/unusable ranges
// are dropped.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.WriteROM(addr, value)
	case addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, value)
	case addr <= 0xBFFF:
		b.Cart.WriteRAM(addr, value)
	case addr <= 0xCFFF:
		b.wram[0][addr-0xC000] = value
	case addr <= 0xDFFF:
		b.wram[b.wramBankOrOne()][addr-0xD000] = value
	case addr <= 0xEFFF:
		b.wram[0][addr&0x0FFF] = value
	case addr <= 0xFDFF:
		b.wram[b.wramBankOrOne()][addr&0x0FFF] = value
	case addr <= 0xFE9F:
		b.PPU.WriteOAM(addr, value)
	case addr <= 0xFEFF:
		// unusable, drop
	case addr == 0xFF00:
		b.Joypad.Write(value)
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.Timer.Write(addr, value)
	case addr == 0xFF0F:
		b.Irq.Write(addr, value)
	case addr == 0xFF46:
		b.io[addr&0x7F] = value
		b.oamDMA(value)
	case (addr >= 0xFF40 && addr <= 0xFF45) || (addr >= 0xFF47 && addr <= 0xFF4B):
		b.PPU.WriteRegister(addr, value)
	case addr == 0xFF4C || addr == 0xFF4E:
		// unusable, drop
	case !b.CGB && (addr == 0xFF4D || (addr >= 0xFF51 && addr <= 0xFF56)):
		// KEY1, HDMA1-5 and RP ignore writes in DMG mode
	case addr == 0xFF4D:
		b.writeKey1(value)
	case addr == 0xFF4F:
		b.PPU.WriteRegister(addr, value)
	case addr >= 0xFF51 && addr <= 0xFF55:
		b.hdma.write(addr, value, b)
	case addr >= 0xFF57 && addr <= 0xFF67:
		// unusable, drop
	case addr >= 0xFF68 && addr <= 0xFF6B:
		b.PPU.WriteRegister(addr, value)
	case addr == 0xFF70:
		if b.CGB {
			b.wramBank = value & 0x07
		}
	case addr <= 0xFF7F:
		b.io[addr&0x7F] = value
	case addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	default: // 0xFFFF
		b.Irq.Write(addr, value)
	}
}

// oamDMA performs the atomic OAM transfer triggered by a write to 0xFF46:
// OAM[i] = Read((source<<8)+i) for i in [0, 0xA0).
func (b *Bus) oamDMA(source uint8) {
	base := uint16(source) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.PPU.WriteOAM(0xFE00+i, b.Read(base+i))
	}
}

func (b *Bus) readKey1() uint8 {
	v := uint8(0x7E)
	if b.speedArmed != nil && *b.speedArmed {
		v |= 0x01
	}
	if b.speedDouble != nil && *b.speedDouble {
		v |= 0x80
	}
	return v
}

func (b *Bus) writeKey1(value uint8) {
	if b.speedArmed != nil {
		*b.speedArmed = value&0x01 != 0
	}
}
