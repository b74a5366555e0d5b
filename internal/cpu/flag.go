package cpu

// Flag is one of the four status bits held in the top nibble of F; the
// bottom nibble is always zero when read back.
//
//	Bit 7 - (Z) FlagZero
//	Bit 6 - (N) FlagSubtract
//	Bit 5 - (H) FlagHalfCarry
//	Bit 4 - (C) FlagCarry
type Flag = uint8

const (
	FlagZero      Flag = 1 << 7
	FlagSubtract  Flag = 1 << 6
	FlagHalfCarry Flag = 1 << 5
	FlagCarry     Flag = 1 << 4
)

func (c *CPU) setFlag(f Flag) {
	c.Reg.F |= f
}

func (c *CPU) clearFlag(f Flag) {
	c.Reg.F &^= f
}

func (c *CPU) setFlagTo(f Flag, on bool) {
	if on {
		c.setFlag(f)
	} else {
		c.clearFlag(f)
	}
}

func (c *CPU) isSet(f Flag) bool {
	return c.Reg.F&f != 0
}
