package timer

import (
	"testing"

	"github.com/pixeltrail/gbcore/internal/interrupts"
)

func newTestController() (*Controller, *interrupts.Service) {
	irq := interrupts.NewService()
	return NewController(irq), irq
}

func TestDivIncrementsWithCycles(t *testing.T) {
	c, _ := newTestController()
	initial := c.Read(DividerRegister)
	c.Tick(128)
	c.Tick(128)
	if got := c.Read(DividerRegister); got != initial+1 {
		t.Fatalf("DIV = %d, want %d after 256 cycles", got, initial+1)
	}
}

func TestDivResetOnWrite(t *testing.T) {
	c, _ := newTestController()
	c.divider = 0x1234
	c.Write(DividerRegister, 0xFF)
	if c.divider != 0 {
		t.Fatalf("divider = %04X, want 0 after write", c.divider)
	}
}

func TestTimerDisabledNeverIncrementsTIMA(t *testing.T) {
	c, _ := newTestController()
	c.Write(ControlRegister, 0x00)
	for i := 0; i < 4; i++ {
		c.Tick(250)
	}
	if c.counter != 0 {
		t.Fatalf("TIMA = %d, want 0 while disabled", c.counter)
	}
}

func TestFallingEdgeIncrementsTIMA(t *testing.T) {
	c, _ := newTestController()
	c.Write(ControlRegister, 0x07) // enabled, bit 7 (16384 Hz)
	c.Tick(0x80)                   // divider -> 0x80, bit 7 set
	if c.counter != 0 {
		t.Fatalf("TIMA = %d before falling edge, want 0", c.counter)
	}
	c.Tick(0x80) // divider -> 0x100, bit 7 falls: falling edge
	if c.counter != 1 {
		t.Fatalf("TIMA = %d after falling edge, want 1", c.counter)
	}
}

func TestOverflowReloadsAfterDelayAndRequestsInterrupt(t *testing.T) {
	c, irq := newTestController()
	c.Write(ModuloRegister, 0x5A)
	c.Write(ControlRegister, 0x05) // enabled, bit 3 (262144 Hz)
	c.counter = 0xFF

	c.Tick(0x08) // bit 3 rises
	c.Tick(0x08) // bit 3 falls: TIMA overflows 0xFF -> 0x00, delay armed

	if c.counter != 0 {
		t.Fatalf("TIMA = %d, want 0 momentarily after overflow", c.counter)
	}
	if irq.Flag&(1<<interrupts.TimerFlag) != 0 {
		t.Fatalf("timer interrupt requested before the 4-cycle delay elapsed")
	}

	c.Tick(4)
	if c.counter != 0x5A {
		t.Fatalf("TIMA = %02X, want TMA (0x5A) after reload", c.counter)
	}
	if irq.Flag&(1<<interrupts.TimerFlag) == 0 {
		t.Fatalf("timer interrupt was not requested on reload")
	}
}

func TestWritingTIMADuringReloadWindowCancelsIt(t *testing.T) {
	c, _ := newTestController()
	c.Write(ModuloRegister, 0x77)
	c.Write(ControlRegister, 0x05)
	c.counter = 0xFF
	c.Tick(0x08)
	c.Tick(0x08) // overflow armed, overflowCycles = 4

	c.Write(CounterRegister, 0x10) // cancels the pending reload
	c.Tick(10)
	if c.counter != 0x10 {
		t.Fatalf("TIMA = %02X, want 0x10 (reload cancelled)", c.counter)
	}
}
