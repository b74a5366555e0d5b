// Package ppu implements the pixel processing unit: the mode state machine,
// DMG and CGB scanline rendering, sprite priority, and the LCDC/STAT/LY
// register file. VRAM and OAM are owned here; the bus reaches them through
// the exported Read/Write methods rather than holding its own copy.
package ppu

import (
	"github.com/pixeltrail/gbcore/pkg/log"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	oamScanCycles  = 80
	drawCycles     = 172
	hblankCycles   = 204
	scanlineCycles = 456
	linesPerFrame  = 154
	vblankLine     = 144
)

// Mode is the PPU's current scanline phase, matching the STAT register's
// mode bits (0=HBlank, 1=VBlank, 2=OAMScan, 3=Drawing).
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Drawing
)

const (
	lcdcBGWindowEnable = 1 << 0
	lcdcOBJEnable      = 1 << 1
	lcdcOBJSize        = 1 << 2
	lcdcBGTileMap      = 1 << 3
	lcdcTileData       = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowTileMap  = 1 << 6
	lcdcEnable         = 1 << 7

	statLYCInterrupt    = 1 << 6
	statOAMInterrupt    = 1 << 5
	statVBlankInterrupt = 1 << 4
	statHBlankInterrupt = 1 << 3
	statCoincidence     = 1 << 2
)

// IrqRequester is the subset of the interrupt controller the PPU needs.
type IrqRequester interface {
	Request(flag uint8)
}

const (
	vblankFlag = 0
	lcdFlag    = 1
)

type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         int
}

type bgPixelInfo struct {
	color0   bool
	priority bool
	palette  uint8
}

// PPU holds the full pixel-pipeline state: registers, VRAM, OAM, the CGB
// palette RAMs, and the double-buffered RGBA frame buffer.
type PPU struct {
	CGB bool

	LCDC, STAT               uint8
	SCY, SCX                 uint8
	LY, LYC                  uint8
	BGP, OBP0, OBP1          uint8
	WY, WX                   uint8
	VBK                      uint8
	BCPS, OCPS               uint8
	BGPaletteRAM, OBJPalette [64]uint8

	vram [2][0x2000]uint8
	oam  [0xA0]uint8

	Mode       Mode
	modeCycles int
	windowLine uint8

	visibleSprites []spriteEntry
	bgInfo         [ScreenWidth]bgPixelInfo

	Back       [ScreenWidth * ScreenHeight * 4]uint8
	Front      [ScreenWidth * ScreenHeight * 4]uint8
	FrameReady bool

	irq IrqRequester
	log log.Logger
}

// New returns a PPU wired to the given interrupt controller and logger.
// cgb selects CGB-only register and palette behavior.
func New(cgb bool, irq IrqRequester, logger log.Logger) *PPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	p := &PPU{CGB: cgb, irq: irq, log: logger}
	p.Reset()
	return p
}

// Reset restores post-boot register state and clears VRAM/OAM.
func (p *PPU) Reset() {
	p.LCDC = 0x91
	p.STAT = 0x00
	p.SCY, p.SCX = 0, 0
	p.LY, p.LYC = 0, 0
	p.BGP = 0xFC
	p.OBP0, p.OBP1 = 0xFF, 0xFF
	p.WY, p.WX = 0, 0
	p.VBK = 0
	p.BCPS, p.OCPS = 0, 0
	p.vram = [2][0x2000]uint8{}
	p.oam = [0xA0]uint8{}
	p.BGPaletteRAM = [64]uint8{}
	p.OBJPalette = [64]uint8{}
	p.Mode = OAMScan
	p.modeCycles = 0
	p.windowLine = 0
	p.Back = [ScreenWidth * ScreenHeight * 4]uint8{}
	p.Front = [ScreenWidth * ScreenHeight * 4]uint8{}
	p.FrameReady = false
}

// Tick advances the PPU by the given number of Game Boy T-cycles (already
// halved for double speed by the caller). It returns true exactly when this
// call caused HBlank to be entered, so the bus can perform one HDMA block.
func (p *PPU) Tick(cycles int) bool {
	if p.LCDC&lcdcEnable == 0 {
		p.Mode = HBlank
		p.LY = 0
		p.modeCycles = 0
		return false
	}

	p.modeCycles += cycles
	hblankEntered := false
	for {
		switch p.Mode {
		case OAMScan:
			if p.modeCycles < oamScanCycles {
				return hblankEntered
			}
			p.modeCycles -= oamScanCycles
			p.scanOAM()
			p.setMode(Drawing)
		case Drawing:
			if p.modeCycles < drawCycles {
				return hblankEntered
			}
			p.modeCycles -= drawCycles
			p.renderScanline()
			p.setMode(HBlank)
			hblankEntered = true
		case HBlank:
			if p.modeCycles < hblankCycles {
				return hblankEntered
			}
			p.modeCycles -= hblankCycles
			p.LY++
			p.checkLYC()
			if p.LY >= vblankLine {
				p.setMode(VBlank)
				p.irq.Request(vblankFlag)
				p.SwapBuffers()
				p.FrameReady = true
			} else {
				p.setMode(OAMScan)
			}
		case VBlank:
			if p.modeCycles < scanlineCycles {
				return hblankEntered
			}
			p.modeCycles -= scanlineCycles
			p.LY++
			if p.LY >= linesPerFrame {
				p.LY = 0
				p.windowLine = 0
				p.setMode(OAMScan)
			}
			p.checkLYC()
		}
	}
}

// SwapBuffers copies the back buffer into the front buffer. Called once a
// frame, on entering VBlank.
func (p *PPU) SwapBuffers() {
	p.Front = p.Back
}

func (p *PPU) setMode(m Mode) {
	p.Mode = m
	var bit uint8
	switch m {
	case HBlank:
		bit = statHBlankInterrupt
	case VBlank:
		bit = statVBlankInterrupt
	case OAMScan:
		bit = statOAMInterrupt
	case Drawing:
		return
	}
	if p.STAT&bit != 0 {
		p.irq.Request(lcdFlag)
	}
}

func (p *PPU) checkLYC() {
	if p.LY == p.LYC {
		p.STAT |= statCoincidence
		if p.STAT&statLYCInterrupt != 0 {
			p.irq.Request(lcdFlag)
		}
	} else {
		p.STAT &^= statCoincidence
	}
}
