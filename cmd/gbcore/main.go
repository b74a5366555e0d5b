// Command gbcore is a minimal debug driver for the emulator core: it loads
// a ROM, runs it for a fixed number of frames with no display or audio
// attached, and prints a frame fingerprint so two runs can be compared for
// determinism.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"github.com/pixeltrail/gbcore/internal/gameboy"
)

func main() {
	romPath := flag.String("rom", "", "the ROM file to load")
	frames := flag.Int("frames", 60, "number of frames to run before reporting")
	cgb := flag.Bool("cgb", false, "run in CGB mode instead of DMG")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		os.Exit(1)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	gb := gameboy.Create()
	if err := gb.LoadROM(rom, *cgb); err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *frames; i++ {
		gb.StepFrame()
	}

	hash := xxhash.Sum64(gb.FrameBufferFront())
	fmt.Printf("frames=%d frame_hash=%016x\n", *frames, hash)
}
