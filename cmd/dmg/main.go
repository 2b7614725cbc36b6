// Command dmg is the headless reference driver: it loads a cartridge image,
// runs it under the two-activity machine with a no-op Displayer, and exits
// per the exit-code contract below. It exercises internal/emulator without
// pulling in a windowing toolkit; cmd/dmgsdl is the interactive frontend.
package main

import (
	"flag"
	"fmt"
	"os"

	"dmgcore/internal/debug"
	"dmgcore/internal/emulator"
	"dmgcore/internal/joypad"
	"dmgcore/internal/pixelmap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dmg", flag.ContinueOnError)
	noTrace := fs.Bool("n", false, "disable the per-instruction debug trace")
	if err := fs.Parse(args); err != nil {
		return -2
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: dmg [-n] <rom-path>")
		return -2
	}

	logger := debug.NewLogger(10000)
	if !*noTrace {
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetMinLevel(debug.LogLevelTrace)
	}
	m := emulator.New(logger, !*noTrace)

	if err := m.LoadROMFile(fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "dmg: %v\n", err)
		return -1
	}

	d := &headlessDisplayer{}
	d.Prepare(m.Joypad)
	if err := m.Run(d); err != nil {
		fmt.Fprintf(os.Stderr, "dmg: %v\n", err)
		return -1
	}
	return 0
}

// headlessDisplayer satisfies emulator.Displayer by discarding every frame;
// it lets cmd/dmg exercise the full machine loop without a windowing
// dependency.
type headlessDisplayer struct {
	pad *joypad.Joypad
}

func (d *headlessDisplayer) Prepare(pad *joypad.Joypad) bool {
	d.pad = pad
	return true
}

func (d *headlessDisplayer) PushFrame(frame *pixelmap.PixelMap) {}

func (d *headlessDisplayer) Run() {}
