package cpu

import "fmt"

type opFunc func(c *CPU, bus Bus) int

var primaryTable [256]opFunc

func init() {
	primaryTable[0x00] = func(c *CPU, bus Bus) int { return 4 } // NOP

	buildLoadImmediate16()
	buildIncDec16()
	buildIncDecR8()
	buildLoadR8Imm()
	buildRotateAccumulator()
	buildAddHL()
	buildLoadIndirectAccumulator()
	buildLoadR8R8()
	buildALU()
	buildJumpsAndCalls()
	buildPushPop()
	buildRST()
	buildMisc()
}

func buildLoadImmediate16() {
	primaryTable[0x01] = func(c *CPU, bus Bus) int { c.Reg.SetBC(c.fetch16(bus)); return 12 }
	primaryTable[0x11] = func(c *CPU, bus Bus) int { c.Reg.SetDE(c.fetch16(bus)); return 12 }
	primaryTable[0x21] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.fetch16(bus)); return 12 }
	primaryTable[0x31] = func(c *CPU, bus Bus) int { c.SP = c.fetch16(bus); return 12 }

	primaryTable[0x08] = func(c *CPU, bus Bus) int {
		addr := c.fetch16(bus)
		bus.Write(addr, uint8(c.SP))
		bus.Write(addr+1, uint8(c.SP>>8))
		return 20
	}
}

func buildIncDec16() {
	primaryTable[0x03] = func(c *CPU, bus Bus) int { c.Reg.SetBC(c.Reg.BC() + 1); return 8 }
	primaryTable[0x13] = func(c *CPU, bus Bus) int { c.Reg.SetDE(c.Reg.DE() + 1); return 8 }
	primaryTable[0x23] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.Reg.HL() + 1); return 8 }
	primaryTable[0x33] = func(c *CPU, bus Bus) int { c.SP++; return 8 }

	primaryTable[0x0B] = func(c *CPU, bus Bus) int { c.Reg.SetBC(c.Reg.BC() - 1); return 8 }
	primaryTable[0x1B] = func(c *CPU, bus Bus) int { c.Reg.SetDE(c.Reg.DE() - 1); return 8 }
	primaryTable[0x2B] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.Reg.HL() - 1); return 8 }
	primaryTable[0x3B] = func(c *CPU, bus Bus) int { c.SP--; return 8 }
}

func buildIncDecR8() {
	// INC/DEC for B,C,D,E,H,L,(HL),A — slots 0..7, opcodes step by 8 starting at 0x04/0x05.
	for slot := uint8(0); slot < 8; slot++ {
		slot := slot
		incOp := uint8(0x04) + slot*8
		decOp := uint8(0x05) + slot*8
		primaryTable[incOp] = func(c *CPU, bus Bus) int {
			v := c.getR8(bus, slot)
			c.setR8(bus, slot, c.inc8(v))
			return 4 + 8*r8Cycles(slot)
		}
		primaryTable[decOp] = func(c *CPU, bus Bus) int {
			v := c.getR8(bus, slot)
			c.setR8(bus, slot, c.dec8(v))
			return 4 + 8*r8Cycles(slot)
		}
	}
}

func buildLoadR8Imm() {
	for slot := uint8(0); slot < 8; slot++ {
		slot := slot
		op := uint8(0x06) + slot*8
		primaryTable[op] = func(c *CPU, bus Bus) int {
			v := c.fetch8(bus)
			c.setR8(bus, slot, v)
			if slot == 6 {
				return 12
			}
			return 8
		}
	}
}

func buildRotateAccumulator() {
	// RLCA/RRCA/RLA/RRA always clear Z, unlike their CB counterparts.
	primaryTable[0x07] = func(c *CPU, bus Bus) int {
		c.Reg.A = c.rlc(c.Reg.A)
		c.clearFlag(FlagZero)
		return 4
	}
	primaryTable[0x0F] = func(c *CPU, bus Bus) int {
		c.Reg.A = c.rrc(c.Reg.A)
		c.clearFlag(FlagZero)
		return 4
	}
	primaryTable[0x17] = func(c *CPU, bus Bus) int {
		c.Reg.A = c.rl(c.Reg.A)
		c.clearFlag(FlagZero)
		return 4
	}
	primaryTable[0x1F] = func(c *CPU, bus Bus) int {
		c.Reg.A = c.rr(c.Reg.A)
		c.clearFlag(FlagZero)
		return 4
	}
}

func buildAddHL() {
	primaryTable[0x09] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.addHL(c.Reg.HL(), c.Reg.BC())); return 8 }
	primaryTable[0x19] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.addHL(c.Reg.HL(), c.Reg.DE())); return 8 }
	primaryTable[0x29] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.addHL(c.Reg.HL(), c.Reg.HL())); return 8 }
	primaryTable[0x39] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.addHL(c.Reg.HL(), c.SP)); return 8 }
}

func buildLoadIndirectAccumulator() {
	primaryTable[0x02] = func(c *CPU, bus Bus) int { bus.Write(c.Reg.BC(), c.Reg.A); return 8 }
	primaryTable[0x12] = func(c *CPU, bus Bus) int { bus.Write(c.Reg.DE(), c.Reg.A); return 8 }
	primaryTable[0x0A] = func(c *CPU, bus Bus) int { c.Reg.A = bus.Read(c.Reg.BC()); return 8 }
	primaryTable[0x1A] = func(c *CPU, bus Bus) int { c.Reg.A = bus.Read(c.Reg.DE()); return 8 }

	primaryTable[0x22] = func(c *CPU, bus Bus) int {
		bus.Write(c.Reg.HL(), c.Reg.A)
		c.Reg.SetHL(c.Reg.HL() + 1)
		return 8
	}
	primaryTable[0x32] = func(c *CPU, bus Bus) int {
		bus.Write(c.Reg.HL(), c.Reg.A)
		c.Reg.SetHL(c.Reg.HL() - 1)
		return 8
	}
	primaryTable[0x2A] = func(c *CPU, bus Bus) int {
		c.Reg.A = bus.Read(c.Reg.HL())
		c.Reg.SetHL(c.Reg.HL() + 1)
		return 8
	}
	primaryTable[0x3A] = func(c *CPU, bus Bus) int {
		c.Reg.A = bus.Read(c.Reg.HL())
		c.Reg.SetHL(c.Reg.HL() - 1)
		return 8
	}

	primaryTable[0xE0] = func(c *CPU, bus Bus) int {
		bus.Write(0xFF00+uint16(c.fetch8(bus)), c.Reg.A)
		return 12
	}
	primaryTable[0xF0] = func(c *CPU, bus Bus) int {
		c.Reg.A = bus.Read(0xFF00 + uint16(c.fetch8(bus)))
		return 12
	}
	primaryTable[0xE2] = func(c *CPU, bus Bus) int { bus.Write(0xFF00+uint16(c.Reg.C), c.Reg.A); return 8 }
	primaryTable[0xF2] = func(c *CPU, bus Bus) int { c.Reg.A = bus.Read(0xFF00 + uint16(c.Reg.C)); return 8 }
	primaryTable[0xEA] = func(c *CPU, bus Bus) int { bus.Write(c.fetch16(bus), c.Reg.A); return 16 }
	primaryTable[0xFA] = func(c *CPU, bus Bus) int { c.Reg.A = bus.Read(c.fetch16(bus)); return 16 }
}

// buildLoadR8R8 fills the 0x40-0x7F block: LD r,r' for every (dst,src) pair
// of the 8 operand slots, except 0x76 which is HALT.
func buildLoadR8R8() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst*8 + src
			if op == 0x76 {
				continue
			}
			dst, src := dst, src
			cycles := 4
			if dst == 6 || src == 6 {
				cycles = 8
			}
			primaryTable[op] = func(c *CPU, bus Bus) int {
				c.setR8(bus, dst, c.getR8(bus, src))
				return cycles
			}
		}
	}
	primaryTable[0x76] = func(c *CPU, bus Bus) int { c.Halted = true; return 4 }
}

// buildALU fills 0x80-0xBF: eight ALU ops, each over the 8 operand slots.
func buildALU() {
	type aluOp struct {
		base uint8
		fn   func(c *CPU, n uint8)
	}
	ops := []aluOp{
		{0x80, func(c *CPU, n uint8) { c.Reg.A = c.add8(c.Reg.A, n) }},
		{0x88, func(c *CPU, n uint8) { c.Reg.A = c.adc8(c.Reg.A, n) }},
		{0x90, func(c *CPU, n uint8) { c.Reg.A = c.sub8(c.Reg.A, n) }},
		{0x98, func(c *CPU, n uint8) { c.Reg.A = c.sbc8(c.Reg.A, n) }},
		{0xA0, func(c *CPU, n uint8) { c.Reg.A = c.and8(c.Reg.A, n) }},
		{0xA8, func(c *CPU, n uint8) { c.Reg.A = c.xor8(c.Reg.A, n) }},
		{0xB0, func(c *CPU, n uint8) { c.Reg.A = c.or8(c.Reg.A, n) }},
		{0xB8, func(c *CPU, n uint8) { c.cp8(c.Reg.A, n) }},
	}
	for _, op := range ops {
		op := op
		for slot := uint8(0); slot < 8; slot++ {
			slot := slot
			cycles := 4 + 4*r8Cycles(slot)
			primaryTable[op.base+slot] = func(c *CPU, bus Bus) int {
				op.fn(c, c.getR8(bus, slot))
				return cycles
			}
		}
	}

	// immediate forms
	primaryTable[0xC6] = func(c *CPU, bus Bus) int { c.Reg.A = c.add8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xCE] = func(c *CPU, bus Bus) int { c.Reg.A = c.adc8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xD6] = func(c *CPU, bus Bus) int { c.Reg.A = c.sub8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xDE] = func(c *CPU, bus Bus) int { c.Reg.A = c.sbc8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xE6] = func(c *CPU, bus Bus) int { c.Reg.A = c.and8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xEE] = func(c *CPU, bus Bus) int { c.Reg.A = c.xor8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xF6] = func(c *CPU, bus Bus) int { c.Reg.A = c.or8(c.Reg.A, c.fetch8(bus)); return 8 }
	primaryTable[0xFE] = func(c *CPU, bus Bus) int { c.cp8(c.Reg.A, c.fetch8(bus)); return 8 }
}

func buildJumpsAndCalls() {
	jr := func(cond func(c *CPU) bool) opFunc {
		return func(c *CPU, bus Bus) int {
			offset := int8(c.fetch8(bus))
			if cond(c) {
				c.PC = uint16(int32(c.PC) + int32(offset))
				return 12
			}
			return 8
		}
	}
	primaryTable[0x18] = func(c *CPU, bus Bus) int {
		offset := int8(c.fetch8(bus))
		c.PC = uint16(int32(c.PC) + int32(offset))
		return 12
	}
	primaryTable[0x20] = jr(func(c *CPU) bool { return !c.isSet(FlagZero) })
	primaryTable[0x28] = jr(func(c *CPU) bool { return c.isSet(FlagZero) })
	primaryTable[0x30] = jr(func(c *CPU) bool { return !c.isSet(FlagCarry) })
	primaryTable[0x38] = jr(func(c *CPU) bool { return c.isSet(FlagCarry) })

	jp := func(cond func(c *CPU) bool) opFunc {
		return func(c *CPU, bus Bus) int {
			addr := c.fetch16(bus)
			if cond(c) {
				c.PC = addr
				return 16
			}
			return 12
		}
	}
	primaryTable[0xC3] = func(c *CPU, bus Bus) int { c.PC = c.fetch16(bus); return 16 }
	primaryTable[0xC2] = jp(func(c *CPU) bool { return !c.isSet(FlagZero) })
	primaryTable[0xCA] = jp(func(c *CPU) bool { return c.isSet(FlagZero) })
	primaryTable[0xD2] = jp(func(c *CPU) bool { return !c.isSet(FlagCarry) })
	primaryTable[0xDA] = jp(func(c *CPU) bool { return c.isSet(FlagCarry) })
	primaryTable[0xE9] = func(c *CPU, bus Bus) int { c.PC = c.Reg.HL(); return 4 }

	call := func(cond func(c *CPU) bool) opFunc {
		return func(c *CPU, bus Bus) int {
			addr := c.fetch16(bus)
			if cond(c) {
				c.push16(bus, c.PC)
				c.PC = addr
				return 24
			}
			return 12
		}
	}
	primaryTable[0xCD] = func(c *CPU, bus Bus) int {
		addr := c.fetch16(bus)
		c.push16(bus, c.PC)
		c.PC = addr
		return 24
	}
	primaryTable[0xC4] = call(func(c *CPU) bool { return !c.isSet(FlagZero) })
	primaryTable[0xCC] = call(func(c *CPU) bool { return c.isSet(FlagZero) })
	primaryTable[0xD4] = call(func(c *CPU) bool { return !c.isSet(FlagCarry) })
	primaryTable[0xDC] = call(func(c *CPU) bool { return c.isSet(FlagCarry) })

	ret := func(cond func(c *CPU) bool) opFunc {
		return func(c *CPU, bus Bus) int {
			if cond(c) {
				c.PC = c.pop16(bus)
				return 20
			}
			return 8
		}
	}
	primaryTable[0xC9] = func(c *CPU, bus Bus) int { c.PC = c.pop16(bus); return 16 }
	primaryTable[0xC0] = ret(func(c *CPU) bool { return !c.isSet(FlagZero) })
	primaryTable[0xC8] = ret(func(c *CPU) bool { return c.isSet(FlagZero) })
	primaryTable[0xD0] = ret(func(c *CPU) bool { return !c.isSet(FlagCarry) })
	primaryTable[0xD8] = ret(func(c *CPU) bool { return c.isSet(FlagCarry) })
	primaryTable[0xD9] = func(c *CPU, bus Bus) int {
		c.PC = c.pop16(bus)
		c.IME = true
		c.imePending = false
		return 16
	}
}

func buildPushPop() {
	primaryTable[0xC5] = func(c *CPU, bus Bus) int { c.push16(bus, c.Reg.BC()); return 16 }
	primaryTable[0xD5] = func(c *CPU, bus Bus) int { c.push16(bus, c.Reg.DE()); return 16 }
	primaryTable[0xE5] = func(c *CPU, bus Bus) int { c.push16(bus, c.Reg.HL()); return 16 }
	primaryTable[0xF5] = func(c *CPU, bus Bus) int { c.push16(bus, c.Reg.AF()); return 16 }

	primaryTable[0xC1] = func(c *CPU, bus Bus) int { c.Reg.SetBC(c.pop16(bus)); return 12 }
	primaryTable[0xD1] = func(c *CPU, bus Bus) int { c.Reg.SetDE(c.pop16(bus)); return 12 }
	primaryTable[0xE1] = func(c *CPU, bus Bus) int { c.Reg.SetHL(c.pop16(bus)); return 12 }
	primaryTable[0xF1] = func(c *CPU, bus Bus) int { c.Reg.SetAF(c.pop16(bus)); return 12 }
}

func buildRST() {
	vectors := [8]uint16{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}
	for i, vec := range vectors {
		op := uint8(0xC7 + i*8)
		vec := vec
		primaryTable[op] = func(c *CPU, bus Bus) int {
			c.push16(bus, c.PC)
			c.PC = vec
			return 16
		}
	}
}

func buildMisc() {
	primaryTable[0x10] = func(c *CPU, bus Bus) int {
		c.fetch8(bus) // mandatory (and ignored) second byte
		if c.SpeedSwitchArmed {
			c.DoubleSpeed = !c.DoubleSpeed
			c.SpeedSwitchArmed = false
		} else {
			c.Halted = true
		}
		return 4
	}

	primaryTable[0x27] = func(c *CPU, bus Bus) int { c.daa(); return 4 }

	primaryTable[0x2F] = func(c *CPU, bus Bus) int {
		c.Reg.A = ^c.Reg.A
		c.setFlag(FlagSubtract)
		c.setFlag(FlagHalfCarry)
		return 4
	}

	primaryTable[0x37] = func(c *CPU, bus Bus) int {
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
		c.setFlag(FlagCarry)
		return 4
	}

	primaryTable[0x3F] = func(c *CPU, bus Bus) int {
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
		c.setFlagTo(FlagCarry, !c.isSet(FlagCarry))
		return 4
	}

	primaryTable[0xF3] = func(c *CPU, bus Bus) int {
		c.IME = false
		c.imePending = false
		return 4
	}
	primaryTable[0xFB] = func(c *CPU, bus Bus) int {
		c.imePending = true
		return 4
	}

	primaryTable[0xE8] = func(c *CPU, bus Bus) int {
		e := int8(c.fetch8(bus))
		c.SP = c.addSPSigned(c.SP, e)
		return 16
	}
	primaryTable[0xF8] = func(c *CPU, bus Bus) int {
		e := int8(c.fetch8(bus))
		c.Reg.SetHL(c.addSPSigned(c.SP, e))
		return 12
	}
	primaryTable[0xF9] = func(c *CPU, bus Bus) int { c.SP = c.Reg.HL(); return 8 }

	primaryTable[0xCB] = func(c *CPU, bus Bus) int {
		op := c.fetch8(bus)
		fn := cbTable[op]
		if fn == nil {
			panic(fmt.Sprintf("cpu: unimplemented CB opcode 0x%02X", op))
		}
		return fn(c, bus)
	}
}
