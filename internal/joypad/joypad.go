// Package joypad implements the multiplexed action/direction button matrix
// at 0xFF00.
package joypad

import (
	"github.com/pixeltrail/gbcore/internal/interrupts"
)

// Button identifies a physical button by its bit in the direction/action
// nibble.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

// State is the joypad register (0xFF00) plus the live button bitmask.
type State struct {
	register uint8 // bits 4/5 select group; written by the game
	pressed  Button

	irq *interrupts.Service
}

// New returns a fresh joypad with no buttons held.
func New(irq *interrupts.Service) *State {
	return &State{register: 0xCF, irq: irq}
}

// Read returns the value of the FF00 register: bits 6/7 always 1, bits 4/5
// reflect which group is selected, bits 0-3 reflect the selected group
// active-low (0 = pressed). When neither group is selected its nibble
// reads all 1.
func (s *State) Read() uint8 {
	selectActions := s.register&0x20 == 0
	selectDpad := s.register&0x10 == 0

	result := uint8(0xCF) | (s.register & 0x30)
	if selectDpad {
		result &^= (s.pressed >> 4) & 0x0F
	}
	if selectActions {
		result &^= s.pressed & 0x0F
	}
	return result
}

// Write updates the group-select bits (4/5); all other bits are read-only.
func (s *State) Write(value uint8) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks a button as held, requesting the Joypad interrupt if the
// transition is observable (the button wasn't already held, and its group
// is currently selected).
func (s *State) Press(key Button) {
	wasHeld := s.pressed&key != 0
	s.pressed |= key

	var selected bool
	if key <= ButtonStart {
		selected = s.register&0x20 == 0
	} else {
		selected = s.register&0x10 == 0
	}

	if !wasHeld && selected {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// Release marks a button as released.
func (s *State) Release(key Button) {
	s.pressed &^= key
}
