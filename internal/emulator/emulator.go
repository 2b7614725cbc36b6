// Package emulator wires CPU, Bus, Cartridge, Timer, PPU, and Joypad into a
// runnable machine and drives it under the two-activity concurrency model:
// one goroutine runs emulation (CPU.Step -> Timer.Advance -> PPU.Advance,
// paced to a 15ms minimum frame interval), a second, independent goroutine
// presents frames and forwards key events. The two communicate through a
// small bounded frame queue and the joypad's own atomic fields; neither
// activity ever blocks on the other for longer than a queue push/pop.
package emulator

import (
	"fmt"
	"os"
	"time"

	"dmgcore/internal/cartridge"
	"dmgcore/internal/clock"
	"dmgcore/internal/cpu"
	"dmgcore/internal/debug"
	"dmgcore/internal/joypad"
	"dmgcore/internal/memory"
	"dmgcore/internal/pixelmap"
	"dmgcore/internal/ppu"
	"dmgcore/internal/timer"
)

// targetFrameInterval is the minimum gap enforced between two published
// frames: 15ms, giving a ~66fps ceiling rather than chasing real 59.7Hz
// DMG timing exactly.
const targetFrameInterval = 15 * time.Millisecond

// frameQueueDepth bounds how many undisplayed frames the emulation activity
// may get ahead by before it starts dropping the oldest one.
const frameQueueDepth = 3

// Displayer is the presentation-side collaborator the VM driver publishes
// frames through and reads key state from. Prepare is called once before
// Run with the joypad the presentation loop should forward host input into;
// Run owns the presentation event loop until the user closes it.
type Displayer interface {
	Prepare(pad *joypad.Joypad) bool
	PushFrame(frame *pixelmap.PixelMap)
	Run()
}

// Machine owns every hardware component and the scheduling glue between
// them. It has no presentation logic of its own; a Displayer is handed
// frames through its bounded queue.
type Machine struct {
	CPU       *cpu.CPU
	Bus       *memory.Bus
	Cartridge *cartridge.Cartridge
	Timer     *timer.Timer
	PPU       *ppu.PPU
	Joypad    *joypad.Joypad
	Logger    *debug.Logger

	scheduler *clock.Scheduler
	cpuTrace  *cpu.CPULoggerAdapter

	frames     *frameQueue
	lastPush   time.Time
	hasBootROM bool

	running bool
}

// New constructs a Machine with every component wired onto the bus, but no
// cartridge loaded yet. trace enables CPU instruction logging.
func New(logger *debug.Logger, trace bool) *Machine {
	bus := memory.NewBus()
	bus.SetLogger(logger)

	cpuTrace := cpu.NewCPULoggerAdapter(logger)
	cpuTrace.SetEnabled(trace)
	core := cpu.NewCPU(bus, cpuTrace)
	bus.SetIEAccessors(core.ReadIE, core.WriteIE)

	if err := bus.MapPort(0xFF0F, core.ReadIF, core.WriteIF); err != nil {
		panic(err) // only reachable if New is called twice against one Bus, which never happens
	}

	t := timer.New(func() { core.RequestInterrupt(cpu.IntTimer) })
	mustMapPort(bus, 0xFF04, t.ReadDIV, t.WriteDIV)
	mustMapPort(bus, 0xFF05, t.ReadTIMA, t.WriteTIMA)
	mustMapPort(bus, 0xFF06, t.ReadTMA, t.WriteTMA)
	mustMapPort(bus, 0xFF07, t.ReadTAC, t.WriteTAC)

	video := ppu.New(
		func() { core.RequestInterrupt(cpu.IntLCDSTAT) },
		func() { core.RequestInterrupt(cpu.IntVBlank) },
	)
	bus.SetVideo(video)
	mustMapPort(bus, 0xFF40, func() uint8 { return video.LCDC }, func(v uint8) { video.LCDC = v })
	mustMapPort(bus, 0xFF41, func() uint8 { return video.STAT }, func(v uint8) { video.STAT = v })
	mustMapPort(bus, 0xFF42, func() uint8 { return video.SCY }, func(v uint8) { video.SCY = v })
	mustMapPort(bus, 0xFF43, func() uint8 { return video.SCX }, func(v uint8) { video.SCX = v })
	mustMapPort(bus, 0xFF44, func() uint8 { return video.LY }, func(uint8) {} /* read-only */)
	mustMapPort(bus, 0xFF45, func() uint8 { return video.LYC }, func(v uint8) { video.LYC = v })
	mustMapPort(bus, 0xFF47, func() uint8 { return video.BGP }, func(v uint8) { video.BGP = v })
	mustMapPort(bus, 0xFF48, func() uint8 { return video.OBP0 }, func(v uint8) { video.OBP0 = v })
	mustMapPort(bus, 0xFF49, func() uint8 { return video.OBP1 }, func(v uint8) { video.OBP1 = v })
	mustMapPort(bus, 0xFF4A, func() uint8 { return video.WY }, func(v uint8) { video.WY = v })
	mustMapPort(bus, 0xFF4B, func() uint8 { return video.WX }, func(v uint8) { video.WX = v })

	pad := joypad.New()
	mustMapPort(bus, 0xFF00, pad.Read, pad.Write)

	sched := clock.NewScheduler()
	sched.TimerStep = t.Advance
	sched.PPUStep = video.Advance

	return &Machine{
		CPU:       core,
		Bus:       bus,
		Timer:     t,
		PPU:       video,
		Joypad:    pad,
		Logger:    logger,
		scheduler: sched,
		cpuTrace:  cpuTrace,
		frames:    newFrameQueue(frameQueueDepth),
	}
}

func mustMapPort(bus *memory.Bus, addr uint16, read func() uint8, write func(uint8)) {
	if err := bus.MapPort(addr, read, write); err != nil {
		panic(err)
	}
}

// LoadBootROM attaches a boot program that shadows the cartridge's low page
// until it writes a nonzero value to the boot-disable port. When no boot
// ROM is attached, LoadROM instead places PC directly at the cartridge's
// fixed entry point (0x0100).
func (m *Machine) LoadBootROM(data []byte) {
	m.Bus.SetBootROM(data)
	m.hasBootROM = len(data) > 0
}

// LoadROM parses and attaches a cartridge image. If a boot ROM is already
// attached, PC is left at 0 so the boot program runs first; otherwise PC is
// placed directly at the cartridge's fixed entry point (0x0100).
func (m *Machine) LoadROM(data []byte) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return fmt.Errorf("emulator: failed to load ROM: %w", err)
	}
	m.Cartridge = cart
	m.Bus.SetCartridge(cart)
	if !m.hasBootROM {
		m.CPU.SetEntryPoint(cart.EntryPoint())
	}
	return nil
}

// Step runs exactly one CPU instruction and fans its clock cost out to
// Timer and PPU, in that order. It reports whether the PPU just completed
// a frame.
func (m *Machine) Step() (bool, error) {
	clocks, err := m.CPU.Step()
	if err != nil {
		return false, err
	}
	endOfFrame := m.scheduler.Advance(clocks)
	return endOfFrame, nil
}

// RunFrame steps the machine until one PPU frame completes, publishes it
// to the frame queue, and sleeps whatever remains of the 15ms pacing
// interval since the last published frame.
func (m *Machine) RunFrame() error {
	for {
		endOfFrame, err := m.Step()
		if err != nil {
			return err
		}
		if endOfFrame {
			break
		}
	}

	m.frames.Push(m.PPU.RenderFrame())

	elapsed := time.Since(m.lastPush)
	if elapsed < targetFrameInterval {
		time.Sleep(targetFrameInterval - elapsed)
	}
	m.lastPush = time.Now()
	return nil
}

// Run drives emulation forever on the calling goroutine, handing each
// finished frame to displayer's queue via Pop/PushFrame, until Stop is
// called from another goroutine. Intended to run on its own goroutine
// while a Displayer's Run() occupies the caller's.
func (m *Machine) Run(displayer Displayer) error {
	m.running = true
	for m.running {
		if err := m.RunFrame(); err != nil {
			return err
		}
		if frame, ok := m.frames.Pop(); ok {
			displayer.PushFrame(frame)
		}
	}
	return nil
}

// Stop asks Run to return after finishing its current frame.
func (m *Machine) Stop() { m.running = false }

// RunHeadless runs frameCount frames of the already-loaded ROM with no
// Displayer and no wall-clock pacing, returning the final rendered frame.
func (m *Machine) RunHeadless(frameCount int) (*pixelmap.PixelMap, error) {
	var last *pixelmap.PixelMap
	for i := 0; i < frameCount; i++ {
		for {
			endOfFrame, err := m.Step()
			if err != nil {
				return nil, err
			}
			if endOfFrame {
				break
			}
		}
		last = m.PPU.RenderFrame()
	}
	return last, nil
}

// LoadROMFile is a convenience wrapper cmd/dmg and cmd/dmgsdl both use.
func (m *Machine) LoadROMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("emulator: failed to read ROM file: %w", err)
	}
	return m.LoadROM(data)
}
