package cpu

// cbTable holds the 256 CB-prefixed opcodes: eight rotate/shift operations
// and BIT/RES/SET, each spanning the 8 operand slots from operand.go.
var cbTable [256]opFunc

func init() {
	shiftOps := []func(c *CPU, v uint8) uint8{
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}
	for row, op := range shiftOps {
		op := op
		base := uint8(row * 8)
		for slot := uint8(0); slot < 8; slot++ {
			slot := slot
			op := op
			cbTable[base+slot] = func(c *CPU, bus Bus) int {
				v := c.getR8(bus, slot)
				c.setR8(bus, slot, op(c, v))
				return 8 + 8*r8Cycles(slot)
			}
		}
	}

	for bit := uint8(0); bit < 8; bit++ {
		bit := bit
		for slot := uint8(0); slot < 8; slot++ {
			slot := slot
			mask := uint8(1) << bit

			bitOp := uint8(0x40) + bit*8 + slot
			cbTable[bitOp] = func(c *CPU, bus Bus) int {
				v := c.getR8(bus, slot)
				c.setFlagTo(FlagZero, v&mask == 0)
				c.clearFlag(FlagSubtract)
				c.setFlag(FlagHalfCarry)
				if slot == 6 {
					return 12
				}
				return 8
			}

			resOp := uint8(0x80) + bit*8 + slot
			cbTable[resOp] = func(c *CPU, bus Bus) int {
				v := c.getR8(bus, slot)
				c.setR8(bus, slot, v&^mask)
				return 8 + 8*r8Cycles(slot)
			}

			setOp := uint8(0xC0) + bit*8 + slot
			cbTable[setOp] = func(c *CPU, bus Bus) int {
				v := c.getR8(bus, slot)
				c.setR8(bus, slot, v|mask)
				return 8 + 8*r8Cycles(slot)
			}
		}
	}
}
