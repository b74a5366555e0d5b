package cartridge

import "github.com/pixeltrail/gbcore/internal/gberr"

// Header is the parsed subset of the cartridge header (0x0100-0x014F) the
// core needs to install the right bank controller and size its RAM.
type Header struct {
	// 0x0134-0x0143 - ASCII title, up to the first NUL.
	Title string

	// 0x0147 - raw cart type byte, kept for diagnostics.
	CartType uint8
	MBC      MBCType

	// RAMSize is the external RAM size in bytes per the 0x0149 table.
	// PocketCamera ignores this and always allocates 128KB.
	RAMSize int

	// HeaderChecksum is the byte at 0x014D. The core never rejects a ROM on
	// mismatch - only the boot ROM does that on real hardware.
	HeaderChecksum uint8
	computedChecksum uint8
}

// ParseHeader reads the header out of the first 0x150 bytes of a ROM image.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, gberr.RomTooSmall
	}

	h := Header{}

	end := 0x0134
	for end < 0x0144 && rom[end] != 0 {
		end++
	}
	h.Title = string(rom[0x0134:end])

	h.CartType = rom[0x0147]
	h.MBC = mbcForCartType(h.CartType)

	h.RAMSize = ramSizeFromHeader(rom[0x0149])
	if h.MBC == PocketCamera {
		h.RAMSize = 128 * 1024
	}

	h.HeaderChecksum = rom[0x014D]
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	h.computedChecksum = sum

	return h, nil
}

// ChecksumValid reports whether the header checksum byte matches the
// computed value. The core itself never acts on this - it's exposed for
// diagnostics only.
func (h Header) ChecksumValid() bool {
	return h.HeaderChecksum == h.computedChecksum
}

func mbcForCartType(t uint8) MBCType {
	switch {
	case t == 0x00:
		return NoMBC
	case t >= 0x01 && t <= 0x03:
		return MBC1
	case t >= 0x0F && t <= 0x13:
		return MBC3
	case t >= 0x19 && t <= 0x1E:
		return MBC5
	case t == 0x22:
		return MBC7
	case t == 0xFC:
		return PocketCamera
	default:
		return MBC5
	}
}

func ramSizeFromHeader(b uint8) int {
	switch b {
	case 0x00:
		return 8 * 1024
	case 0x01:
		return 2 * 1024
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 128 * 1024
	}
}
