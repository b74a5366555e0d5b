package ppu

import "github.com/pixeltrail/gbcore/pkg/log"

// ReadVRAM reads VRAM at a full bus address (0x8000-0x9FFF), honoring the
// CGB bank select register (VBK). DMG always reads bank 0.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.vram[p.VBK&1][addr-0x8000]
}

// WriteVRAM writes VRAM at a full bus address, honoring VBK.
func (p *PPU) WriteVRAM(addr uint16, value uint8) {
	p.vram[p.VBK&1][addr-0x8000] = value
}

// ReadVRAMBank reads VRAM from an explicit bank, bypassing VBK - used by the
// host debug API, which must be able to inspect bank 1 from a DMG-unaware
// caller.
func (p *PPU) ReadVRAMBank(bank uint8, addr uint16) uint8 {
	return p.vram[bank&1][addr-0x8000]
}

// ReadOAM reads OAM at a full bus address (0xFE00-0xFE9F).
func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr-0xFE00]
}

// WriteOAM writes OAM at a full bus address.
func (p *PPU) WriteOAM(addr uint16, value uint8) {
	p.oam[addr-0xFE00] = value
}

// ReadRegister returns the value of an LCD/palette register at the given
// bus address (0xFF40-0xFF4B, plus the CGB-only 0xFF4F/0xFF68-0xFF6B).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.LCDC
	case 0xFF41:
		return 0x80 | (p.STAT & 0x7C) | uint8(p.Mode)&0x03
	case 0xFF42:
		return p.SCY
	case 0xFF43:
		return p.SCX
	case 0xFF44:
		return p.LY
	case 0xFF45:
		return p.LYC
	case 0xFF47:
		return p.BGP
	case 0xFF48:
		return p.OBP0
	case 0xFF49:
		return p.OBP1
	case 0xFF4A:
		return p.WY
	case 0xFF4B:
		return p.WX
	case 0xFF4F:
		if !p.CGB {
			return 0xFF
		}
		return p.VBK | 0xFE
	case 0xFF68:
		if !p.CGB {
			return 0xFF
		}
		return p.BCPS | 0x40
	case 0xFF69:
		if !p.CGB {
			return 0xFF
		}
		return p.BGPaletteRAM[p.BCPS&0x3F]
	case 0xFF6A:
		if !p.CGB {
			return 0xFF
		}
		return p.OCPS | 0x40
	case 0xFF6B:
		if !p.CGB {
			return 0xFF
		}
		return p.OBJPalette[p.OCPS&0x3F]
	}
	p.log.Warnf(log.PPU, "read from unmapped register 0x%04X", addr)
	return 0xFF
}

// WriteRegister writes an LCD/palette register. LY (0xFF44) is read-only;
// writes to it are dropped.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		p.LCDC = value
	case 0xFF41:
		p.STAT = (p.STAT & 0x04) | (value & 0x78)
	case 0xFF42:
		p.SCY = value
	case 0xFF43:
		p.SCX = value
	case 0xFF44:
		// read-only
	case 0xFF45:
		p.LYC = value
		p.checkLYC()
	case 0xFF47:
		p.BGP = value
	case 0xFF48:
		p.OBP0 = value
	case 0xFF49:
		p.OBP1 = value
	case 0xFF4A:
		p.WY = value
	case 0xFF4B:
		p.WX = value
	case 0xFF4F:
		if p.CGB {
			p.VBK = value & 0x01
		}
	case 0xFF68:
		if p.CGB {
			p.BCPS = value & 0xBF
		}
	case 0xFF69:
		if p.CGB {
			idx := p.BCPS & 0x3F
			p.BGPaletteRAM[idx] = value
			if p.BCPS&0x80 != 0 {
				p.BCPS = (p.BCPS & 0xC0) | ((idx + 1) & 0x3F) | 0x80
			}
		}
	case 0xFF6A:
		if p.CGB {
			p.OCPS = value & 0xBF
		}
	case 0xFF6B:
		if p.CGB {
			idx := p.OCPS & 0x3F
			p.OBJPalette[idx] = value
			if p.OCPS&0x80 != 0 {
				p.OCPS = (p.OCPS & 0xC0) | ((idx + 1) & 0x3F) | 0x80
			}
		}
	default:
		p.log.Warnf(log.PPU, "write to unmapped register 0x%04X", addr)
	}
}
