package gameboy

import (
	"testing"

	"github.com/pixeltrail/gbcore/internal/ppu"
)

// loopROM returns a minimal valid 32KB NoMBC image whose entry point is an
// infinite self-loop (JR -2), enough to drive the frame loop without ever
// reaching an unimplemented opcode.
func loopROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x18 // JR e8
	rom[0x0101] = 0xFE // e8 = -2, jumps back to 0x0100
	rom[0x0147] = 0x00 // NoMBC
	rom[0x0149] = 0x00 // no RAM
	return rom
}

func TestLoadROMRejectsShortImage(t *testing.T) {
	gb := Create()
	if err := gb.LoadROM(make([]byte, 0x10), false); err == nil {
		t.Fatalf("expected an error loading a too-short ROM")
	}
}

func TestStepFrameAdvancesExactlyOneFrame(t *testing.T) {
	gb := Create()
	if err := gb.LoadROM(loopROM(), false); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	gb.StepFrame()
	if gb.PPU.LY != 0 || gb.PPU.Mode != ppu.OAMScan {
		t.Fatalf("expected PPU to land back at LY=0/OAMScan after a frame, got LY=%d mode=%v", gb.PPU.LY, gb.PPU.Mode)
	}
	fb := gb.FrameBufferFront()
	if len(fb) != ppu.ScreenWidth*ppu.ScreenHeight*4 {
		t.Fatalf("frame buffer length = %d, want %d", len(fb), ppu.ScreenWidth*ppu.ScreenHeight*4)
	}
}

func TestSetButtonRequestsJoypadInterrupt(t *testing.T) {
	gb := Create()
	if err := gb.LoadROM(loopROM(), false); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	gb.Irq.Flag = 0
	gb.SetButton(ButtonA, true)
	if gb.Irq.Flag&(1<<4) == 0 {
		t.Fatalf("expected a joypad interrupt request on button press")
	}
}

func TestReadMemoryReflectsBusState(t *testing.T) {
	gb := Create()
	if err := gb.LoadROM(loopROM(), false); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	gb.Bus.Write(0xC000, 0x7A)
	if got := gb.ReadMemory(0xC000); got != 0x7A {
		t.Fatalf("ReadMemory(0xC000) = 0x%02X, want 0x7A", got)
	}
	rng := gb.ReadRange(0xC000, 4)
	if rng[0] != 0x7A {
		t.Fatalf("ReadRange[0] = 0x%02X, want 0x7A", rng[0])
	}
}

func TestLoadROMResetsPreviousState(t *testing.T) {
	gb := Create()
	if err := gb.LoadROM(loopROM(), false); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	gb.Bus.Write(0xC000, 0xFF)
	gb.StepFrame()

	if err := gb.LoadROM(loopROM(), false); err != nil {
		t.Fatalf("second LoadROM failed: %v", err)
	}
	if got := gb.ReadMemory(0xC000); got != 0x00 {
		t.Fatalf("expected WRAM cleared after reload, got 0x%02X", got)
	}
	if gb.CPU.PC != 0x0100 {
		t.Fatalf("expected CPU PC reset to 0x0100, got 0x%04X", gb.CPU.PC)
	}
}
