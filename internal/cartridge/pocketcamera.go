package cartridge

import (
	"github.com/pixeltrail/gbcore/internal/camera"
	"github.com/pixeltrail/gbcore/pkg/log"
)

// PocketCameraCart is cart type 0xFC (Game Boy Camera). ROM banking is
// MBC3-compatible; the RAM address space is a bank-selected overlay between
// 128KB of always-accessible SRAM (photo storage) and the sensor register
// file plus a read-only mirror of the active capture.
type PocketCameraCart struct {
	rom []uint8

	Sensor *camera.Sensor

	romBank uint16
	ramBank uint8 // 0x00-0x0F selects SRAM, >= 0x10 selects sensor registers

	log log.Logger
}

func newPocketCamera(rom []uint8, logger log.Logger) *PocketCameraCart {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &PocketCameraCart{
		rom:     rom,
		Sensor:  camera.New(logger),
		romBank: 1,
		log:     logger,
	}
}

var ramWriteLimiter = log.NewRateLimiter(100)

func (c *PocketCameraCart) ReadROM(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return romByteOrFF(c.rom, int(addr))
	default:
		bank := c.romBank
		if bank == 0 {
			bank = 1
		}
		offset := int(bank)*romBankSize + int(addr) - 0x4000
		return romByteOrFF(c.rom, offset)
	}
}

func (c *PocketCameraCart) WriteROM(addr uint16, v uint8) {
	switch {
	case addr <= 0x1FFF:
		// RAM enable is ignored: SRAM is always accessible on this cartridge.
	case addr <= 0x3FFF:
		bank := v & 0x7F
		if bank == 0 {
			bank = 1
		}
		c.romBank = uint16(bank)
	case addr <= 0x5FFF:
		c.ramBank = v & 0x1F
	}
}

func (c *PocketCameraCart) ReadRAM(addr uint16) uint8 {
	if c.ramBank >= 0x10 {
		regAddr := int(addr - 0xA000)
		if regAddr < 0x80 {
			return c.Sensor.Regs[regAddr]
		}
		// A080-AFFF: read-only mirror of the active capture at SRAM 0x0100.
		tileOffset := regAddr - 0x80
		if tileOffset < 0x0E00 {
			sramAddr := 0x0100 + tileOffset
			return ramByteOrFF(c.Sensor.RAM, sramAddr)
		}
		return 0x00
	}

	offset := int(c.ramBank)*ramBankSize + int(addr-0xA000)
	if offset < 0 || offset >= len(c.Sensor.RAM) {
		return 0x00
	}
	return c.Sensor.RAM[offset]
}

func (c *PocketCameraCart) WriteRAM(addr uint16, v uint8) {
	if c.ramBank >= 0x10 {
		regAddr := int(addr - 0xA000)
		if regAddr >= 0x80 {
			return
		}
		c.log.InfofLimited(ramWriteLimiter, log.Camera, "camera register write A%03X = 0x%02X", regAddr, v)
		c.Sensor.Regs[regAddr] = v

		if regAddr == 0 && v&0x01 != 0 {
			invert := v&0x02 != 0
			c.Sensor.ProcessCapture(invert)
			c.Sensor.CaptureDirty = true
			c.Sensor.Regs[0] &^= 0x01
		}
		return
	}

	offset := int(c.ramBank)*ramBankSize + int(addr-0xA000)
	if offset >= 0 && offset < len(c.Sensor.RAM) {
		c.Sensor.RAM[offset] = v
	}
}

func (c *PocketCameraCart) RAMBytes() []uint8    { return c.Sensor.RAM }
func (c *PocketCameraCart) LoadRAM(data []uint8) { copy(c.Sensor.RAM, data) }
func (c *PocketCameraCart) Type() MBCType        { return PocketCamera }
func (c *PocketCameraCart) ROMBankCount() int     { return len(c.rom) / romBankSize }
func (c *PocketCameraCart) TickRTC()              {}
