// Package gameboy assembles the CPU, PPU, timer, interrupt controller,
// joypad, and memory bus into the host-facing emulator core: LoadROM,
// StepFrame/StepInstruction, the frame buffer, button input, cartridge
// RAM save/restore, Pocket Camera and MBC7 accessory I/O, and the debug
// memory-read API.
package gameboy

import (
	"github.com/pixeltrail/gbcore/internal/camera"
	"github.com/pixeltrail/gbcore/internal/cartridge"
	"github.com/pixeltrail/gbcore/internal/cpu"
	"github.com/pixeltrail/gbcore/internal/gberr"
	"github.com/pixeltrail/gbcore/internal/interrupts"
	"github.com/pixeltrail/gbcore/internal/joypad"
	"github.com/pixeltrail/gbcore/internal/memory"
	"github.com/pixeltrail/gbcore/internal/ppu"
	"github.com/pixeltrail/gbcore/internal/timer"
	"github.com/pixeltrail/gbcore/pkg/log"
)

// clockHz is the DMG/CGB base clock rate; cartridge RTCs advance against
// this many elapsed Game-Boy-time cycles, unaffected by CPU double speed.
const clockHz = 4194304

// cyclesPerFrame is the DMG frame budget in T-cycles: 154 scanlines of 456.
const cyclesPerFrame = 70224

// GameBoy is the top-level aggregate. It is created empty via Create and
// becomes runnable once LoadROM installs a cartridge.
type GameBoy struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Irq    *interrupts.Service
	Joypad *joypad.State
	Bus    *memory.Bus

	cgb bool

	rtcAccumulator int
	log            log.Logger
}

// Opt configures a GameBoy at construction time.
type Opt func(*GameBoy)

// WithLogger installs a custom logger; the default is a no-op logger.
func WithLogger(logger log.Logger) Opt {
	return func(gb *GameBoy) { gb.log = logger }
}

// Create returns a fresh core with no ROM loaded. Until LoadROM installs a
// cartridge, cartridge ROM/RAM reads return 0xFF and writes to them are
// dropped; the rest of the address space is live.
func Create(opts ...Opt) *GameBoy {
	gb := &GameBoy{log: log.NewNullLogger()}
	for _, opt := range opts {
		opt(gb)
	}
	gb.wire(cartridge.New(cartridge.Header{MBC: cartridge.NoMBC}, nil, gb.log), false)
	return gb
}

// wire constructs every component fresh and links them through the bus.
func (gb *GameBoy) wire(cart cartridge.Cartridge, cgb bool) {
	gb.cgb = cgb
	irq := interrupts.NewService()
	p := ppu.New(cgb, irq, gb.log)
	t := timer.NewController(irq)
	jp := joypad.New(irq)
	c := cpu.New(irq)
	bus := memory.New(cgb, cart, p, t, irq, jp, gb.log)
	bus.LinkCPUSpeed(&c.SpeedSwitchArmed, &c.DoubleSpeed)

	gb.CPU = c
	gb.PPU = p
	gb.Timer = t
	gb.Irq = irq
	gb.Joypad = jp
	gb.Bus = bus
	gb.rtcAccumulator = 0
}

// LoadROM resets all core state and installs a fresh cartridge parsed from
// rom's header. cgb selects CGB mode; it is never auto-detected. Returns
// gberr.RomTooSmall if rom is shorter than the header requires. On error,
// the previous core state is left completely intact.
func (gb *GameBoy) LoadROM(rom []byte, cgb bool) error {
	header, err := cartridge.ParseHeader(rom)
	if err != nil {
		return err
	}
	cart := cartridge.New(header, rom, gb.log)
	gb.wire(cart, cgb)
	return nil
}

// StepInstruction advances the CPU by one instruction (or one interrupt
// dispatch), ticking every other component by the equivalent number of
// cycles, and returns the number of CPU T-cycles consumed.
func (gb *GameBoy) StepInstruction() int {
	c := gb.CPU.Step(gb.Bus)

	gbCycles := c
	if gb.CPU.DoubleSpeed {
		gbCycles = c / 2
	}

	gb.Timer.Tick(uint8(c))

	if gb.PPU.Tick(gbCycles) {
		gb.Bus.StepHDMA()
	}

	gb.rtcAccumulator += gbCycles
	for gb.rtcAccumulator >= clockHz {
		gb.Bus.Cart.TickRTC()
		gb.rtcAccumulator -= clockHz
	}

	return c
}

// StepFrame advances the core until it has produced one 70,224-cycle DMG
// frame. The PPU swaps its buffers internally on entering V-blank, which
// always happens before this budget is exhausted.
func (gb *GameBoy) StepFrame() {
	elapsed := 0
	for elapsed < cyclesPerFrame {
		c := gb.StepInstruction()
		gbCycles := c
		if gb.CPU.DoubleSpeed {
			gbCycles = c / 2
		}
		elapsed += gbCycles
	}
}

// FrameBufferFront returns the read-only RGBA8 front buffer (160*144*4
// bytes). The host must not mutate it.
func (gb *GameBoy) FrameBufferFront() []uint8 {
	return gb.PPU.Front[:]
}

// Button identifies one of the eight physical buttons, 0=A .. 7=Down.
type Button = uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

var buttonBit = [8]joypad.Button{
	joypad.ButtonA, joypad.ButtonB, joypad.ButtonSelect, joypad.ButtonStart,
	joypad.ButtonRight, joypad.ButtonLeft, joypad.ButtonUp, joypad.ButtonDown,
}

// SetButton presses or releases one of the eight buttons (0=A, 1=B,
// 2=Select, 3=Start, 4=Right, 5=Left, 6=Up, 7=Down).
func (gb *GameBoy) SetButton(button Button, pressed bool) {
	if button > ButtonDown {
		return
	}
	bit := buttonBit[button]
	if pressed {
		gb.Joypad.Press(bit)
	} else {
		gb.Joypad.Release(bit)
	}
}

// GetCartridgeRAM returns a snapshot of the cartridge's save RAM.
func (gb *GameBoy) GetCartridgeRAM() []uint8 {
	return gb.Bus.Cart.RAMBytes()
}

// LoadCartridgeRAM restores previously-saved cartridge RAM, truncated to
// fit the cartridge's current RAM size.
func (gb *GameBoy) LoadCartridgeRAM(data []uint8) {
	gb.Bus.Cart.LoadRAM(data)
}

// cameraSensor returns the Pocket Camera sensor if the loaded cartridge is
// one, or nil otherwise.
func (gb *GameBoy) cameraSensor() *camera.Sensor {
	pc, ok := gb.Bus.Cart.(*cartridge.PocketCameraCart)
	if !ok {
		return nil
	}
	return pc.Sensor
}

// SetCameraImage supplies the next 128x112 grayscale host frame for a
// Pocket Camera cartridge. A no-op on any other cartridge type.
func (gb *GameBoy) SetCameraImage(img []uint8) error {
	if len(img) != 128*112 {
		return gberr.InvalidImageSize
	}
	if s := gb.cameraSensor(); s != nil {
		s.SetImage(img)
	}
	return nil
}

// UpdateCameraLive reports whether the sensor has captured since the last
// check, clearing the dirty flag. The host re-derives its live preview
// from the SRAM tile data (via ReadRange) only when this returns true.
func (gb *GameBoy) UpdateCameraLive() bool {
	s := gb.cameraSensor()
	if s == nil || !s.CaptureDirty {
		return false
	}
	s.CaptureDirty = false
	return true
}

// DecodeCameraPhoto returns a 128x112x4 RGBA image for the given photo
// slot (0 = active capture, 1..30 = stored photos), or nil if unoccupied
// or the cartridge has no camera.
func (gb *GameBoy) DecodeCameraPhoto(slot uint8) []uint8 {
	s := gb.cameraSensor()
	if s == nil {
		return nil
	}
	return s.DecodePhoto(slot)
}

// EncodeCameraPhoto stores a 128x112x4 RGBA image into photo slot 1..30,
// marking it occupied. Returns false if the slot is out of range or the
// cartridge has no camera.
func (gb *GameBoy) EncodeCameraPhoto(slot uint8, rgba []uint8) bool {
	if slot < 1 || slot > 30 {
		return false
	}
	s := gb.cameraSensor()
	if s == nil {
		return false
	}
	return s.EncodePhoto(slot, rgba)
}

// ClearCameraPhotoSlot erases photo slot 1..30.
func (gb *GameBoy) ClearCameraPhotoSlot(slot uint8) error {
	if slot < 1 || slot > 30 {
		return gberr.InvalidSlot
	}
	if s := gb.cameraSensor(); s != nil {
		s.ClearPhotoSlot(slot)
	}
	return nil
}

// SetAccelerometer feeds an MBC7 tilt reading, in +-0x1000-per-g units. A
// no-op on any other cartridge type.
func (gb *GameBoy) SetAccelerometer(x, y int32) {
	if m, ok := gb.Bus.Cart.(*cartridge.MBC7); ok {
		m.SetAccelerometer(x, y)
	}
}

// ReadMemory reads a single byte from the full address space. It has no
// side effects and never alters MBC banking state.
func (gb *GameBoy) ReadMemory(addr uint16) uint8 {
	return gb.Bus.Read(addr)
}

// ReadRange reads length bytes starting at addr, wrapping at 0x10000.
func (gb *GameBoy) ReadRange(addr uint16, length int) []uint8 {
	out := make([]uint8, length)
	for i := 0; i < length; i++ {
		out[i] = gb.Bus.Read(addr + uint16(i))
	}
	return out
}

// ReadVRAMBank reads length bytes of VRAM from an explicit bank (0 or 1),
// bypassing the current VBK selection - used by debug tooling that wants
// to inspect CGB bank 1 regardless of which bank the game has selected.
func (gb *GameBoy) ReadVRAMBank(bank uint8, addr uint16, length int) []uint8 {
	out := make([]uint8, length)
	for i := 0; i < length; i++ {
		out[i] = gb.PPU.ReadVRAMBank(bank, addr+uint16(i))
	}
	return out
}
