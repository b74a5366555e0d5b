package cartridge

import "testing"

func openMBC7RAM(c *MBC7) {
	c.WriteROM(0x0000, 0x0A)
	c.WriteROM(0x4000, 0x40)
}

func TestMBC7RequiresBothGates(t *testing.T) {
	c := newMBC7(make([]uint8, 0x4000))
	if c.ramOpen() {
		t.Fatalf("RAM must start closed")
	}
	c.WriteROM(0x0000, 0x0A)
	if c.ramOpen() {
		t.Fatalf("one gate must not be enough")
	}
	c.WriteROM(0x4000, 0x40)
	if !c.ramOpen() {
		t.Fatalf("both gates open should enable RAM")
	}
}

func TestMBC7AccelerometerLatchSequence(t *testing.T) {
	c := newMBC7(make([]uint8, 0x4000))
	openMBC7RAM(c)

	c.SetAccelerometer(0x1000, -0x1000) // +1g, -1g

	// reading before the latch sequence must return the centered default
	if got := c.ReadRAM(0xA020); got != uint8(accelCenter&0xFF) {
		t.Fatalf("pre-latch X low = 0x%02X, want center", got)
	}

	c.WriteRAM(0xA000, 0x55)
	c.WriteRAM(0xA010, 0xAA)

	wantX := clampAccel(accelCenter + 0x70)
	wantY := clampAccel(accelCenter - 0x70)
	gotX := uint16(c.ReadRAM(0xA020)) | uint16(c.ReadRAM(0xA030))<<8
	gotY := uint16(c.ReadRAM(0xA040)) | uint16(c.ReadRAM(0xA050))<<8
	if gotX != wantX {
		t.Fatalf("latched X = 0x%04X, want 0x%04X", gotX, wantX)
	}
	if gotY != wantY {
		t.Fatalf("latched Y = 0x%04X, want 0x%04X", gotY, wantY)
	}
}

func TestMBC7ZAxisConstant(t *testing.T) {
	c := newMBC7(make([]uint8, 0x4000))
	openMBC7RAM(c)
	if c.ReadRAM(0xA060) != 0x00 || c.ReadRAM(0xA070) != 0xFF {
		t.Fatalf("Z axis must read constant 0x00/0xFF")
	}
}

func TestEEPROMWriteEnableGatesWrites(t *testing.T) {
	e := newEEPROM()

	sendBits := func(bits ...int) {
		for _, b := range bits {
			value := uint8(0x80) // CS held high
			if b != 0 {
				value |= 0x02 // DI
			}
			e.write(value)         // DI settles
			e.write(value | 0x40)  // CLK rising edge
			e.write(value)         // CLK falling edge
		}
	}

	// CS rising edge starts the transaction.
	e.write(0x80)

	// WREN: start(1) + opcode(00) + address top 2 bits = 11 -> 1 00 11xxxxx
	sendBits(1, 0, 0, 1, 1, 0, 0, 0, 0, 0)
	e.write(0x00) // CS low, end transaction

	// Start a WRITE to address 0: 1 01 0000000
	e.write(0x80)
	sendBits(1, 0, 1, 0, 0, 0, 0, 0, 0, 0)
	for i := 0; i < 16; i++ {
		bit := 1
		sendBits(bit)
	}
	e.write(0x00)

	word := e.readWord(0)
	if word != 0xFFFF {
		t.Fatalf("write of all-1 bits with WREN active should store 0xFFFF, got 0x%04X", word)
	}
}
