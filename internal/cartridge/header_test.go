package cartridge

import "testing"

func makeHeaderROM(cartType, ramSize uint8) []uint8 {
	rom := make([]uint8, 0x150)
	copy(rom[0x0134:], []byte("TESTGAME"))
	rom[0x0147] = cartType
	rom[0x0149] = ramSize
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	return rom
}

func TestParseHeaderTooSmall(t *testing.T) {
	_, err := ParseHeader(make([]uint8, 0x10))
	if err == nil {
		t.Fatalf("expected error for ROM shorter than 0x150 bytes")
	}
}

func TestParseHeaderMBCSelection(t *testing.T) {
	cases := []struct {
		cartType uint8
		want     MBCType
	}{
		{0x00, NoMBC},
		{0x01, MBC1}, {0x02, MBC1}, {0x03, MBC1},
		{0x0F, MBC3}, {0x13, MBC3},
		{0x19, MBC5}, {0x1E, MBC5},
		{0x22, MBC7},
		{0xFC, PocketCamera},
		{0x77, MBC5}, // unknown -> safe default
	}
	for _, c := range cases {
		h, err := ParseHeader(makeHeaderROM(c.cartType, 0x00))
		if err != nil {
			t.Fatalf("cartType 0x%02X: unexpected error: %v", c.cartType, err)
		}
		if h.MBC != c.want {
			t.Fatalf("cartType 0x%02X: MBC = %v, want %v", c.cartType, h.MBC, c.want)
		}
	}
}

func TestParseHeaderTitleStopsAtNUL(t *testing.T) {
	h, err := ParseHeader(makeHeaderROM(0x00, 0x00))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Title != "TESTGAME" {
		t.Fatalf("Title = %q, want TESTGAME", h.Title)
	}
}

func TestParseHeaderChecksumValid(t *testing.T) {
	h, err := ParseHeader(makeHeaderROM(0x00, 0x00))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.ChecksumValid() {
		t.Fatalf("expected computed checksum to match")
	}
}

func TestParseHeaderPocketCameraForces128KRAM(t *testing.T) {
	h, err := ParseHeader(makeHeaderROM(0xFC, 0x00))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.RAMSize != 128*1024 {
		t.Fatalf("RAMSize = %d, want 128KB regardless of header byte", h.RAMSize)
	}
}
