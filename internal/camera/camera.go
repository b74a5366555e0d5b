// Package camera implements the Pocket Camera (Mitsubishi M64282FP) sensor
// pipeline: register-driven capture, photo slot encode/decode, and the
// 30-slot state vector that Game Boy Camera cartridges keep in SRAM bank 0.
package camera

import (
	"github.com/pixeltrail/gbcore/pkg/log"
)

const (
	Width  = 128
	Height = 112

	tileSize  = 8
	tilesX    = Width / tileSize
	tilesY    = Height / tileSize
	tileBytes = 16
	photoBytes = tilesX * tilesY * tileBytes // 3584

	ramBankSize = 0x2000

	stateVectorOffset = 0x11B2
	numPhotoSlots      = 30
	checksumOffset     = 0x11D5
)

// Sensor holds the M64282FP register file, the host-supplied source image,
// and the cartridge's 128KB photo RAM. A PocketCamera cartridge owns exactly
// one Sensor.
type Sensor struct {
	Regs  [0x80]uint8
	Image [Width * Height]uint8

	ImageReady   bool
	CaptureDirty bool

	exposureSmooth   float32
	exposureOverride *uint16

	RAM []uint8

	log log.Logger
}

func New(logger log.Logger) *Sensor {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	s := &Sensor{
		exposureSmooth: 1.0,
		RAM:            make([]uint8, 128*1024),
		log:            logger,
	}
	for i := 0; i < numPhotoSlots; i++ {
		s.RAM[stateVectorOffset+i] = 0xFF
	}
	s.updateStateVectorChecksum()
	return s
}

// SetImage loads a new 128x112 8-bit grayscale source frame (0=black,
// 255=white). Shorter inputs are copied as-is; the remainder keeps its
// previous contents.
func (s *Sensor) SetImage(data []uint8) {
	n := len(data)
	if n > len(s.Image) {
		n = len(s.Image)
	}
	copy(s.Image[:n], data[:n])
	s.ImageReady = true
}

// SetExposureOverride bypasses the ROM-controlled exposure registers when
// non-nil, matching a debug/host hook rather than real sensor hardware.
func (s *Sensor) SetExposureOverride(value *uint16) {
	s.exposureOverride = value
}

// ProcessCapture runs the sensor pipeline over the current source image and
// packs the result into the 2bpp tile region at SRAM offset 0x0100:
// exposure smoothing, per-pixel gain, optional edge enhancement, dither (or
// plain threshold) quantization, then tile packing.
func (s *Sensor) ProcessCapture(invert bool) {
	const sramOffset = 0x0100

	regA001 := s.Regs[0x01]
	exposureLow := s.Regs[0x02]
	exposureHigh := s.Regs[0x03]
	regA004 := s.Regs[0x04]
	voltageOffset := s.Regs[0x05]

	exposure := uint16(exposureHigh)<<8 | uint16(exposureLow)
	if s.exposureOverride != nil {
		exposure = *s.exposureOverride
	}
	gainBits := (regA001 >> 4) & 0x03
	edgeMode := (regA004 >> 4) & 0x07
	outputNegative := regA001&0x02 != 0

	var ditherThresholds [16][3]uint8
	for i := 0; i < 16; i++ {
		for t := 0; t < 3; t++ {
			regIdx := 0x06 + i*3 + t
			if regIdx < 0x36 {
				ditherThresholds[i][t] = s.Regs[regIdx]
			}
		}
	}
	ditherActive := false
	for _, t := range ditherThresholds {
		if t[0] != 0 || t[1] != 0 || t[2] != 0 {
			ditherActive = true
			break
		}
	}

	targetFactor := float32(0)
	if exposure > 0 {
		targetFactor = float32(exposure) / 4096.0
	}
	s.exposureSmooth = s.exposureSmooth*0.5 + targetFactor*0.5
	exposureFactor := s.exposureSmooth

	var gainFactor float32
	switch gainBits {
	case 0b00:
		gainFactor = 2.0
	case 0b01:
		gainFactor = 1.5
	case 0b10:
		gainFactor = 1.0
	case 0b11:
		gainFactor = 0.75
	default:
		gainFactor = 1.0
	}

	offsetAdjustment := float32(voltageOffset) / 255.0 * 64.0

	s.log.Debugf(log.Camera, "sensor: exposure=%d gain_bits=%d edge=%d offset=%d neg=%v invert=%v",
		exposure, gainBits, edgeMode, voltageOffset, outputNegative, invert)

	var processed [Width * Height]uint8
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			idx := y*Width + x
			raw := float32(s.Image[idx])
			exposed := raw * exposureFactor
			offsetApplied := exposed - offsetAdjustment
			centered := offsetApplied - 128.0
			gained := centered*gainFactor + 128.0
			processed[idx] = clamp8(gained)
		}
	}

	if edgeMode > 0 {
		edgeStrength := float32(edgeMode) / 7.0
		enhanced := processed
		for y := 1; y < Height-1; y++ {
			for x := 1; x < Width-1; x++ {
				idx := y*Width + x
				center := int32(processed[idx])
				avgNeighbors := (int32(processed[idx-Width]) + int32(processed[idx+Width]) +
					int32(processed[idx-1]) + int32(processed[idx+1])) / 4
				edge := center - avgNeighbors
				result := center + int32(float32(edge)*edgeStrength*2.0)
				enhanced[idx] = clampInt32(result)
			}
		}
		processed = enhanced
	}

	var quantized [Width * Height]uint8
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			idx := y*Width + x
			pixel := processed[idx]
			ditherIdx := (y%4)*4 + (x % 4)
			thresholds := ditherThresholds[ditherIdx]

			var color uint8
			if ditherActive {
				switch {
				case pixel < thresholds[0]:
					color = 0
				case pixel < thresholds[1]:
					color = 1
				case pixel < thresholds[2]:
					color = 2
				default:
					color = 3
				}
			} else {
				inverted := 255 - pixel
				color = inverted / 64
				if color > 3 {
					color = 3
				}
			}

			if outputNegative || invert {
				color = 3 - color
			}
			quantized[idx] = color
		}
	}

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			tileIndex := tileY*tilesX + tileX
			sramAddr := sramOffset + tileIndex*tileBytes

			for row := 0; row < tileSize; row++ {
				pixelY := tileY*tileSize + row
				var lowByte, highByte uint8

				for col := 0; col < tileSize; col++ {
					pixelX := tileX*tileSize + col
					color := quantized[pixelY*Width+pixelX]
					bitPos := 7 - col
					lowByte |= (color & 0x01) << bitPos
					highByte |= ((color >> 1) & 0x01) << bitPos
				}

				if sramAddr+row*2+1 < len(s.RAM) {
					s.RAM[sramAddr+row*2] = lowByte
					s.RAM[sramAddr+row*2+1] = highByte
				}
			}
		}
	}
}

func clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampInt32(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// DecodePhoto renders a stored photo slot (0 = the active capture buffer,
// 1-30 = saved photos) to 128x112x4 RGBA bytes. Returns nil for an
// unoccupied slot.
func (s *Sensor) DecodePhoto(slot uint8) []uint8 {
	if slot >= 1 && slot <= 30 {
		stateIdx := stateVectorOffset + int(slot-1)
		if stateIdx < len(s.RAM) && s.RAM[stateIdx] == 0xFF {
			return nil
		}
	}

	sramOffset := s.photoSlotOffset(slot)
	if sramOffset+photoBytes > len(s.RAM) {
		return nil
	}

	palette := [4]uint8{0xFF, 0xAA, 0x55, 0x00}
	rgba := make([]uint8, Width*Height*4)

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			tileIndex := tileY*tilesX + tileX
			tileOffset := sramOffset + tileIndex*tileBytes

			for row := 0; row < tileSize; row++ {
				low := s.RAM[tileOffset+row*2]
				high := s.RAM[tileOffset+row*2+1]

				for col := 0; col < tileSize; col++ {
					bit := 7 - col
					colorIdx := ((high>>bit)&1)<<1 | ((low >> bit) & 1)
					gray := palette[colorIdx]
					px := tileX*tileSize + col
					py := tileY*tileSize + row
					i := (py*Width + px) * 4
					rgba[i] = gray
					rgba[i+1] = gray
					rgba[i+2] = gray
					rgba[i+3] = 255
				}
			}
		}
	}

	return rgba
}

// EncodePhoto packs 128x112x4 RGBA bytes into photo slot 1-30 and marks the
// slot occupied in the state vector. Returns false on a bad slot or size.
func (s *Sensor) EncodePhoto(slot uint8, rgba []uint8) bool {
	if slot == 0 || slot > 30 || len(rgba) != Width*Height*4 {
		return false
	}

	sramOffset := s.photoSlotOffset(slot)
	if sramOffset+photoBytes > len(s.RAM) {
		return false
	}

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			tileIndex := tileY*tilesX + tileX
			sramAddr := sramOffset + tileIndex*tileBytes

			for row := 0; row < tileSize; row++ {
				pixelY := tileY*tileSize + row
				var lowByte, highByte uint8

				for col := 0; col < tileSize; col++ {
					pixelX := tileX*tileSize + col
					i := (pixelY*Width + pixelX) * 4
					gray := rgba[i]
					var color uint8
					switch {
					case gray >= 0xC0:
						color = 0
					case gray >= 0x80:
						color = 1
					case gray >= 0x40:
						color = 2
					default:
						color = 3
					}
					bitPos := 7 - col
					lowByte |= (color & 0x01) << bitPos
					highByte |= ((color >> 1) & 0x01) << bitPos
				}

				s.RAM[sramAddr+row*2] = lowByte
				s.RAM[sramAddr+row*2+1] = highByte
			}
		}
	}

	s.setStateVectorEntry(slot, uint8(slot-1))
	return true
}

// ClearPhotoSlot zeroes a saved photo's tile data and marks it empty.
func (s *Sensor) ClearPhotoSlot(slot uint8) {
	if slot == 0 || slot > 30 {
		return
	}
	sramOffset := s.photoSlotOffset(slot)
	if sramOffset+photoBytes <= len(s.RAM) {
		for i := sramOffset; i < sramOffset+photoBytes; i++ {
			s.RAM[i] = 0
		}
	}
	s.setStateVectorEntry(slot, 0xFF)
}

func (s *Sensor) photoSlotOffset(slot uint8) int {
	if slot == 0 {
		return 0x0100
	}
	adjusted := int(slot - 1)
	bank := adjusted/2 + 1
	offsetInBank := (adjusted % 2) * 0x1000
	return bank*ramBankSize + offsetInBank
}

// Contrast derives the contrast level (0-15) the current dither matrix
// matches against the known gb-photo threshold tables, or -1 if no table
// matches.
func (s *Sensor) Contrast() int {
	highLight := [16][4]uint8{
		{0x80, 0x8F, 0xD0, 0xE6}, {0x82, 0x90, 0xC8, 0xE3}, {0x84, 0x90, 0xC0, 0xE0}, {0x85, 0x91, 0xB8, 0xDD},
		{0x86, 0x91, 0xB1, 0xDB}, {0x87, 0x92, 0xAA, 0xD8}, {0x88, 0x92, 0xA5, 0xD5}, {0x89, 0x92, 0xA2, 0xD2},
		{0x8A, 0x92, 0xA1, 0xC8}, {0x8B, 0x92, 0xA0, 0xBE}, {0x8C, 0x92, 0x9E, 0xB4}, {0x8D, 0x92, 0x9C, 0xAC},
		{0x8E, 0x92, 0x9B, 0xA5}, {0x8F, 0x92, 0x99, 0xA0}, {0x90, 0x92, 0x97, 0x9A}, {0x92, 0x92, 0x92, 0x92},
	}
	lowLight := [16][4]uint8{
		{0x80, 0x94, 0xDC, 0xFF}, {0x82, 0x95, 0xD2, 0xFF}, {0x84, 0x96, 0xCA, 0xFF}, {0x86, 0x96, 0xC4, 0xFF},
		{0x88, 0x97, 0xBE, 0xFF}, {0x8A, 0x97, 0xB8, 0xFF}, {0x8B, 0x98, 0xB2, 0xF5}, {0x8C, 0x98, 0xAC, 0xEB},
		{0x8D, 0x98, 0xAA, 0xDD}, {0x8E, 0x98, 0xA8, 0xD0}, {0x8F, 0x98, 0xA6, 0xC4}, {0x90, 0x98, 0xA4, 0xBA},
		{0x92, 0x98, 0xA1, 0xB2}, {0x94, 0x98, 0x9D, 0xA8}, {0x96, 0x98, 0x99, 0xA0}, {0x98, 0x98, 0x98, 0x98},
	}

	t := [3]uint8{0xFF, 0xFF, 0xFF}
	for pos := 0; pos < 16; pos++ {
		for ch := 0; ch < 3; ch++ {
			val := s.Regs[0x06+pos*3+ch]
			if val < t[ch] {
				t[ch] = val
			}
		}
	}

	for level, row := range lowLight {
		if t[0] == row[0] && t[1] == row[1] && t[2] == row[2] {
			return level
		}
	}
	for level, row := range highLight {
		if t[0] == row[0] && t[1] == row[1] && t[2] == row[2] {
			return level
		}
	}
	return -1
}

// PhotoCount returns the number of occupied photo slots by scanning the
// state vector.
func (s *Sensor) PhotoCount() uint8 {
	end := stateVectorOffset + numPhotoSlots
	if end > len(s.RAM) {
		end = len(s.RAM)
	}
	count := uint8(0)
	for _, b := range s.RAM[stateVectorOffset:end] {
		if b != 0xFF {
			count++
		}
	}
	return count
}

func (s *Sensor) setStateVectorEntry(slot, value uint8) {
	if slot == 0 || int(slot) > numPhotoSlots {
		return
	}
	idx := stateVectorOffset + int(slot-1)
	if idx >= len(s.RAM) {
		return
	}
	s.RAM[idx] = value
	s.updateStateVectorChecksum()
}

func (s *Sensor) updateStateVectorChecksum() {
	end := stateVectorOffset + numPhotoSlots
	if end > len(s.RAM) || checksumOffset+1 >= len(s.RAM) {
		return
	}
	var sum, xor uint8
	for _, b := range s.RAM[stateVectorOffset:end] {
		sum += b
		xor ^= b
	}
	s.RAM[checksumOffset] = sum
	s.RAM[checksumOffset+1] = xor
}
