package memory

import (
	"testing"

	"github.com/pixeltrail/gbcore/internal/cartridge"
	"github.com/pixeltrail/gbcore/internal/interrupts"
	"github.com/pixeltrail/gbcore/internal/joypad"
	"github.com/pixeltrail/gbcore/internal/ppu"
	"github.com/pixeltrail/gbcore/internal/timer"
)

func newTestBus(cgb bool) *Bus {
	irq := interrupts.NewService()
	cart := cartridge.New(cartridge.Header{MBC: cartridge.NoMBC}, make([]uint8, 0x8000), nil)
	p := ppu.New(cgb, irq, nil)
	t := timer.NewController(irq)
	jp := joypad.New(irq)
	return New(cgb, cart, p, t, irq, jp, nil)
}

func TestEchoRAMMirrorsWorkRAMBothWays(t *testing.T) {
	b := newTestBus(false)

	b.Write(0xC010, 0x42)
	if got := b.Read(0xE010); got != 0x42 {
		t.Fatalf("echo read at 0xE010 = 0x%02X, want 0x42", got)
	}

	b.Write(0xE020, 0x99)
	if got := b.Read(0xC020); got != 0x99 {
		t.Fatalf("work RAM read at 0xC020 = 0x%02X, want 0x99", got)
	}

	b.Write(0xD100, 0x55)
	if got := b.Read(0xF100); got != 0x55 {
		t.Fatalf("echo read at 0xF100 = 0x%02X, want 0x55", got)
	}
}

func TestOAMDMACopiesWorkRAMBlock(t *testing.T) {
	b := newTestBus(false)

	for i := 0; i < 0xA0; i++ {
		b.Write(0xC000+uint16(i), uint8(i))
	}

	b.Write(0xFF46, 0xC0)

	for i := 0; i < 0xA0; i++ {
		if got := b.PPU.ReadOAM(0xFE00 + uint16(i)); got != uint8(i) {
			t.Fatalf("OAM[%d] = %d, want %d", i, got, i)
		}
	}
}

func TestInterruptRegistersMaskOnRead(t *testing.T) {
	b := newTestBus(false)

	b.Irq.Enable = 0x1F
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Fatalf("IE read = 0x%02X, want 0x1F", got)
	}

	b.Irq.Flag = 0x03
	if got := b.Read(0xFF0F); got != 0x03|0xE0 {
		t.Fatalf("IF read = 0x%02X, want 0x%02X", got, 0x03|0xE0)
	}
}

func TestGeneralPurposeHDMACompletesAtomically(t *testing.T) {
	b := newTestBus(true)

	for i := 0; i < 32; i++ {
		b.Write(0xC200+uint16(i), uint8(0x10+i))
	}

	b.Write(0xFF51, 0xC2) // source high
	b.Write(0xFF52, 0x00) // source low
	b.Write(0xFF53, 0x00) // dest high (VRAM offset 0x0000)
	b.Write(0xFF54, 0x00) // dest low
	b.Write(0xFF55, 0x01) // 2 blocks, bit7=0 -> general purpose, completes now

	for i := 0; i < 32; i++ {
		if got := b.PPU.ReadVRAM(0x8000 + uint16(i)); got != uint8(0x10+i) {
			t.Fatalf("VRAM[0x%04X] = 0x%02X, want 0x%02X", 0x8000+i, got, 0x10+i)
		}
	}
	if b.Read(0xFF55) != 0xFF {
		t.Fatalf("HDMA5 should read 0xFF once inactive")
	}
}

func TestHBlankDMAStepsOneBlockPerCall(t *testing.T) {
	b := newTestBus(true)

	for i := 0; i < 48; i++ {
		b.Write(0xC300+uint16(i), uint8(i))
	}

	b.Write(0xFF51, 0xC3)
	b.Write(0xFF52, 0x00)
	b.Write(0xFF53, 0x00)
	b.Write(0xFF54, 0x00)
	b.Write(0xFF55, 0x82) // bit7=1 H-blank mode, 3 blocks

	if !b.hdma.active {
		t.Fatalf("expected H-blank transfer to be armed, not yet copying")
	}
	if b.PPU.ReadVRAM(0x8000) != 0 {
		t.Fatalf("no bytes should have copied before the first H-blank")
	}

	b.StepHDMA()
	for i := 0; i < 16; i++ {
		if got := b.PPU.ReadVRAM(0x8000 + uint16(i)); got != uint8(i) {
			t.Fatalf("block 1 byte %d = 0x%02X, want 0x%02X", i, got, i)
		}
	}
	if !b.hdma.active {
		t.Fatalf("expected transfer still active after one of three blocks")
	}

	b.StepHDMA()
	b.StepHDMA()
	if b.hdma.active {
		t.Fatalf("expected transfer to finish after three blocks")
	}
	if got := b.PPU.ReadVRAM(0x8000 + 47); got != 47 {
		t.Fatalf("last byte = %d, want 47", got)
	}
}

func TestKEY1MirrorsCPUSpeedState(t *testing.T) {
	b := newTestBus(true)
	armed := false
	double := false
	b.LinkCPUSpeed(&armed, &double)

	b.Write(0xFF4D, 0x01)
	if !armed {
		t.Fatalf("expected KEY1 write to arm the speed switch")
	}
	if got := b.Read(0xFF4D); got&0x01 == 0 {
		t.Fatalf("expected KEY1 read to reflect armed bit")
	}

	double = true
	if got := b.Read(0xFF4D); got&0x80 == 0 {
		t.Fatalf("expected KEY1 bit 7 to reflect current double-speed state")
	}
}

func TestSVBKBanksWorkRAMInCGBMode(t *testing.T) {
	b := newTestBus(true)

	b.Write(0xD000, 0x11) // bank 1 (current SVBK=1)
	b.Write(0xFF70, 0x02) // switch to bank 2
	b.Write(0xD000, 0x22)
	b.Write(0xFF70, 0x01)

	if got := b.Read(0xD000); got != 0x11 {
		t.Fatalf("bank 1 byte = 0x%02X, want 0x11", got)
	}
	b.Write(0xFF70, 0x02)
	if got := b.Read(0xD000); got != 0x22 {
		t.Fatalf("bank 2 byte = 0x%02X, want 0x22", got)
	}
}
