package cartridge

import "testing"

func TestPocketCameraCaptureScenario(t *testing.T) {
	c := newPocketCamera(make([]uint8, 0x8000), nil)

	img := make([]uint8, 128*112)
	for y := 0; y < 112; y++ {
		for x := 0; x < 128; x++ {
			img[y*128+x] = uint8((x * 2) % 256)
		}
	}
	c.Sensor.SetImage(img)

	c.WriteROM(0x4000, 0x10) // select camera register bank
	for i := 0; i < 16; i++ {
		base := uint16(0xA000 + 0x06 + i*3)
		c.WriteRAM(base, 0x40)
		c.WriteRAM(base+1, 0x80)
		c.WriteRAM(base+2, 0xC0)
	}

	c.WriteRAM(0xA000, 0x01) // trigger capture

	if c.Sensor.Regs[0]&0x01 != 0 {
		t.Fatalf("capture bit should clear after processing")
	}
	if !c.Sensor.CaptureDirty {
		t.Fatalf("expected capture_dirty to be set")
	}

	c.WriteROM(0x4000, 0x00) // back to SRAM bank 0
	nonZero := false
	for addr := uint16(0xA100); addr < 0xA100+0x0E00; addr++ {
		if c.ReadRAM(addr) != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected non-zero tile data in SRAM at 0x0100")
	}
}

func TestPocketCameraSRAMAlwaysAccessibleWithoutEnable(t *testing.T) {
	c := newPocketCamera(make([]uint8, 0x8000), nil)

	// RAM enable register (0x0000-0x1FFF) is never written, yet SRAM must
	// still be accessible - this cartridge ignores the enable gate.
	c.WriteRAM(0xA000, 0x77)
	if got := c.ReadRAM(0xA000); got != 0x77 {
		t.Fatalf("SRAM should be accessible without an enable write, got 0x%02X", got)
	}
}
