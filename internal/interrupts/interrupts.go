// Package interrupts implements the two-register interrupt controller: IF
// (request flags, 0xFF0F) and IE (enable flags, 0xFFFF). IME and the
// EI-delay live on the CPU, not here - this controller only tracks which
// interrupts are requested and which are enabled.
package interrupts

import "fmt"

// Address is the service vector an interrupt dispatches to.
type Address = uint16

const (
	VBlank Address = 0x0040
	LCD    Address = 0x0048
	Timer  Address = 0x0050
	Serial Address = 0x0058
	Joypad Address = 0x0060
)

// Flag is the bit index of an interrupt within IF/IE.
type Flag = uint8

const (
	VBlankFlag Flag = 0
	LCDFlag    Flag = 1
	TimerFlag  Flag = 2
	SerialFlag Flag = 3
	JoypadFlag Flag = 4
)

const (
	// FlagRegister is IF: request flags. (R/W)
	FlagRegister uint16 = 0xFF0F
	// EnableRegister is IE: enable flags. (R/W)
	EnableRegister uint16 = 0xFFFF
)

// flagAddress maps a Flag to its service vector, in priority order
// (V-blank highest, Joypad lowest).
var flagAddress = [5]Address{VBlank, LCD, Timer, Serial, Joypad}

// Service holds the IF and IE registers.
type Service struct {
	Flag   uint8
	Enable uint8
}

// NewService returns a fresh, all-clear Service.
func NewService() *Service {
	return &Service{}
}

// Request sets the IF bit for the given interrupt.
func (s *Service) Request(flag Flag) {
	s.Flag |= 1 << flag
}

// Clear clears the IF bit for the given interrupt.
func (s *Service) Clear(flag Flag) {
	s.Flag &^= 1 << flag
}

// Pending reports the highest-priority interrupt that is both requested
// and enabled, if any. ok is false when none is pending.
func (s *Service) Pending() (flag Flag, vector Address, ok bool) {
	pending := s.Flag & s.Enable & 0x1F
	if pending == 0 {
		return 0, 0, false
	}
	for f := Flag(0); f < 5; f++ {
		if pending&(1<<f) != 0 {
			return f, flagAddress[f], true
		}
	}
	panic("interrupts: unreachable")
}

// Read returns the value of the register at the given address.
func (s *Service) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return s.Flag&0b0001_1111 | 0b1110_0000
	case EnableRegister:
		return s.Enable
	}
	panic(fmt.Sprintf("interrupts: illegal read from address %04X", address))
}

// Write writes the given value to the register at the given address.
func (s *Service) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		s.Flag = value
	case EnableRegister:
		s.Enable = value
	default:
		panic(fmt.Sprintf("interrupts: illegal write to address %04X", address))
	}
}
