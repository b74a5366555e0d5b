package ppu

import "sort"

var grayShades = [4]uint8{0xFF, 0xAA, 0x55, 0x00}

func dmgShade(palette, color uint8) uint8 {
	return (palette >> (color * 2)) & 0x3
}

func grayRGB(shade uint8) (r, g, b uint8) {
	v := grayShades[shade]
	return v, v, v
}

// tileDataAddr resolves a tile index into a byte offset within a VRAM bank,
// honoring LCDC bit 4's signed/unsigned addressing mode.
func tileDataAddr(index uint8, unsigned bool) uint16 {
	if unsigned {
		return uint16(index) * 16
	}
	return uint16(int32(0x1000) + int32(int8(index))*16)
}

func (p *PPU) tilePixel(bank uint8, tileAddr uint16, row, bitIndex uint8) uint8 {
	lowByte := p.vram[bank][tileAddr+uint16(row)*2]
	highByte := p.vram[bank][tileAddr+uint16(row)*2+1]
	lo := (lowByte >> bitIndex) & 1
	hi := (highByte >> bitIndex) & 1
	return lo | hi<<1
}

func (p *PPU) setPixel(x, y int, r, g, b uint8) {
	i := (y*ScreenWidth + x) * 4
	p.Back[i] = r
	p.Back[i+1] = g
	p.Back[i+2] = b
	p.Back[i+3] = 255
}

// scanOAM selects the (at most 10) sprites visible on the current scanline,
// sorted by X with OAM order preserved for ties.
func (p *PPU) scanOAM() {
	ly := p.LY
	height := uint8(8)
	if p.LCDC&lcdcOBJSize != 0 {
		height = 16
	}

	found := p.visibleSprites[:0]
	for i := 0; i < 40; i++ {
		base := i * 4
		rawY := p.oam[base]
		screenY := int(rawY) - 16
		if int(ly) < screenY || int(ly) >= screenY+int(height) {
			continue
		}
		found = append(found, spriteEntry{
			y: rawY, x: p.oam[base+1], tile: p.oam[base+2], attr: p.oam[base+3], oamIndex: i,
		})
		if len(found) == 10 {
			break
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].x < found[j].x })
	p.visibleSprites = found
}

func (p *PPU) renderScanline() {
	if int(p.LY) >= ScreenHeight {
		return
	}
	if p.CGB {
		p.renderScanlineCGB()
	} else {
		p.renderScanlineDMG()
	}
	p.renderSprites()
}

func (p *PPU) renderScanlineDMG() {
	ly := p.LY
	var colorRow [ScreenWidth]uint8
	p.bgRowDMG(ly, &colorRow)
	p.windowRowDMG(ly, &colorRow)
	for x := 0; x < ScreenWidth; x++ {
		shade := dmgShade(p.BGP, colorRow[x])
		r, g, b := grayRGB(shade)
		p.setPixel(x, int(ly), r, g, b)
	}
}

func (p *PPU) bgRowDMG(ly uint8, colorRow *[ScreenWidth]uint8) {
	bgEnable := p.LCDC&lcdcBGWindowEnable != 0
	mapBase := uint16(0x1800)
	if p.LCDC&lcdcBGTileMap != 0 {
		mapBase = 0x1C00
	}
	unsigned := p.LCDC&lcdcTileData != 0
	y := ly + p.SCY
	tileRow := y / 8
	fineY := y % 8

	for x := 0; x < ScreenWidth; x++ {
		if !bgEnable {
			colorRow[x] = 0
			p.bgInfo[x] = bgPixelInfo{color0: true}
			continue
		}
		sx := uint8(x) + p.SCX
		tileCol := sx / 8
		bitIndex := 7 - (sx & 7)
		mapAddr := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileIndex := p.vram[0][mapAddr]
		tileAddr := tileDataAddr(tileIndex, unsigned)
		color := p.tilePixel(0, tileAddr, fineY, bitIndex)
		colorRow[x] = color
		p.bgInfo[x] = bgPixelInfo{color0: color == 0}
	}
}

func (p *PPU) windowRowDMG(ly uint8, colorRow *[ScreenWidth]uint8) {
	if p.LCDC&lcdcWindowEnable == 0 || ly < p.WY || p.WX > 166 {
		return
	}
	mapBase := uint16(0x1800)
	if p.LCDC&lcdcWindowTileMap != 0 {
		mapBase = 0x1C00
	}
	unsigned := p.LCDC&lcdcTileData != 0
	tileRow := p.windowLine / 8
	fineY := p.windowLine % 8
	startX := int(p.WX) - 7

	drawnAny := false
	for x := 0; x < ScreenWidth; x++ {
		if x < startX {
			continue
		}
		wx := uint8(x - startX)
		tileCol := wx / 8
		bitIndex := 7 - (wx & 7)
		mapAddr := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileIndex := p.vram[0][mapAddr]
		tileAddr := tileDataAddr(tileIndex, unsigned)
		color := p.tilePixel(0, tileAddr, fineY, bitIndex)
		colorRow[x] = color
		p.bgInfo[x] = bgPixelInfo{color0: color == 0}
		drawnAny = true
	}
	if drawnAny {
		p.windowLine++
	}
}

func (p *PPU) renderScanlineCGB() {
	ly := p.LY
	var colorRow [ScreenWidth]uint8
	p.bgRowCGB(ly, &colorRow, false)
	p.bgRowCGB(ly, &colorRow, true)
	for x := 0; x < ScreenWidth; x++ {
		info := p.bgInfo[x]
		r, g, b := p.cgbColor(&p.BGPaletteRAM, info.palette, colorRow[x])
		p.setPixel(x, int(ly), r, g, b)
	}
}

func (p *PPU) bgRowCGB(ly uint8, colorRow *[ScreenWidth]uint8, isWindow bool) {
	var mapBase uint16
	var baseTileRow, baseFineY uint8
	startX := 0

	if isWindow {
		if p.LCDC&lcdcWindowEnable == 0 || ly < p.WY || p.WX > 166 {
			return
		}
		mapBase = 0x1800
		if p.LCDC&lcdcWindowTileMap != 0 {
			mapBase = 0x1C00
		}
		baseTileRow = p.windowLine / 8
		baseFineY = p.windowLine % 8
		startX = int(p.WX) - 7
	} else {
		mapBase = 0x1800
		if p.LCDC&lcdcBGTileMap != 0 {
			mapBase = 0x1C00
		}
		y := ly + p.SCY
		baseTileRow = y / 8
		baseFineY = y % 8
	}
	unsigned := p.LCDC&lcdcTileData != 0

	drawnAny := false
	for x := 0; x < ScreenWidth; x++ {
		var sx uint8
		if isWindow {
			if x < startX {
				continue
			}
			sx = uint8(x - startX)
		} else {
			sx = uint8(x) + p.SCX
		}
		tileCol := sx / 8
		bitIndex := 7 - (sx & 7)
		mapAddr := mapBase + uint16(baseTileRow)*32 + uint16(tileCol)
		tileIndex := p.vram[0][mapAddr]
		attr := p.vram[1][mapAddr]

		bank := uint8(0)
		if attr&0x08 != 0 {
			bank = 1
		}
		rowInTile := baseFineY
		if attr&0x40 != 0 {
			rowInTile = 7 - baseFineY
		}
		if attr&0x20 != 0 {
			bitIndex = 7 - bitIndex
		}

		tileAddr := tileDataAddr(tileIndex, unsigned)
		color := p.tilePixel(bank, tileAddr, rowInTile, bitIndex)
		colorRow[x] = color
		p.bgInfo[x] = bgPixelInfo{color0: color == 0, priority: attr&0x80 != 0, palette: attr & 0x07}
		drawnAny = true
	}
	if isWindow && drawnAny {
		p.windowLine++
	}
}

func (p *PPU) cgbColor(ram *[64]uint8, palette, color uint8) (r, g, b uint8) {
	idx := (int(palette)*4 + int(color)) * 2
	lo := ram[idx]
	hi := ram[idx+1]
	v := uint16(lo) | uint16(hi)<<8
	r5 := uint8(v & 0x1F)
	g5 := uint8((v >> 5) & 0x1F)
	b5 := uint8((v >> 10) & 0x1F)
	return r5<<3 | r5>>2, g5<<3 | g5>>2, b5<<3 | b5>>2
}

func (p *PPU) renderSprites() {
	if p.LCDC&lcdcOBJEnable == 0 {
		return
	}
	ly := p.LY
	height := uint8(8)
	if p.LCDC&lcdcOBJSize != 0 {
		height = 16
	}

	for idx := len(p.visibleSprites) - 1; idx >= 0; idx-- {
		s := p.visibleSprites[idx]
		screenY := int(s.y) - 16
		rowInSprite := int(ly) - screenY
		if s.attr&0x40 != 0 {
			rowInSprite = int(height) - 1 - rowInSprite
		}
		tileIndex := s.tile
		if height == 16 {
			tileIndex &^= 1
			if rowInSprite >= 8 {
				tileIndex |= 1
				rowInSprite -= 8
			}
		}
		bank := uint8(0)
		if p.CGB && s.attr&0x08 != 0 {
			bank = 1
		}
		tileAddr := uint16(tileIndex) * 16

		for px := 0; px < 8; px++ {
			screenX := int(s.x) - 8 + px
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			bitIndex := uint8(7 - px)
			if s.attr&0x20 != 0 {
				bitIndex = uint8(px)
			}
			color := p.tilePixel(bank, tileAddr, uint8(rowInSprite), bitIndex)
			if color == 0 {
				continue
			}

			bgPix := p.bgInfo[screenX]
			if p.CGB {
				if p.LCDC&lcdcBGWindowEnable != 0 {
					if bgPix.priority && !bgPix.color0 {
						continue
					}
					if s.attr&0x80 != 0 && !bgPix.color0 {
						continue
					}
				}
			} else if s.attr&0x80 != 0 && !bgPix.color0 {
				continue
			}

			var r, g, b uint8
			if p.CGB {
				r, g, b = p.cgbColor(&p.OBJPalette, s.attr&0x07, color)
			} else {
				palette := p.OBP0
				if s.attr&0x10 != 0 {
					palette = p.OBP1
				}
				r, g, b = grayRGB(dmgShade(palette, color))
			}
			p.setPixel(screenX, int(ly), r, g, b)
		}
	}
}
