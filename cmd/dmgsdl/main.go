// Command dmgsdl is the interactive reference frontend: an SDL2 window
// blitting the PPU's rendered frames at an integer scale, with arrow
// keys/Z/X/Enter/RShift mapped onto the eight joypad keys.
//
// The window/renderer/streaming-texture setup and the per-frame event-pump
// plus GetKeyboardState() polling loop follow this codebase's existing
// internal/ui package; command-line parsing uses kong instead of the
// stdlib flag package cmd/dmg uses, matching the CLI style of the other
// Game Boy core present in the reference pack (richardwooding/nostalgiza).
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/veandco/go-sdl2/sdl"

	"dmgcore/internal/debug"
	"dmgcore/internal/emulator"
	"dmgcore/internal/joypad"
	"dmgcore/internal/pixelmap"
	"dmgcore/internal/ppu"
)

var cli struct {
	ROM     string `arg:"" help:"Path to the cartridge image."`
	Scale   int    `default:"4" help:"Integer display scale."`
	NoTrace bool   `name:"n" help:"Disable the per-instruction debug trace."`
}

func main() {
	kong.Parse(&cli, kong.Description("SDL2 reference frontend for the DMG-class emulator core."))

	logger := debug.NewLogger(10000)
	if !cli.NoTrace {
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetMinLevel(debug.LogLevelTrace)
	}
	m := emulator.New(logger, !cli.NoTrace)
	if err := m.LoadROMFile(cli.ROM); err != nil {
		fmt.Fprintf(os.Stderr, "dmgsdl: %v\n", err)
		os.Exit(-1)
	}

	display, err := newSDLDisplayer(cli.Scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dmgsdl: %v\n", err)
		os.Exit(-1)
	}
	defer display.Close()

	if !display.Prepare(m.Joypad) {
		fmt.Fprintln(os.Stderr, "dmgsdl: failed to prepare display")
		os.Exit(-1)
	}

	go func() {
		if err := m.Run(display); err != nil {
			fmt.Fprintf(os.Stderr, "dmgsdl: emulation error: %v\n", err)
			display.Stop()
		}
	}()

	display.Run()
	m.Stop()
}

// keyBindings maps SDL scancodes to joypad keys.
var keyBindings = map[sdl.Scancode]joypad.Key{
	sdl.SCANCODE_RIGHT:  joypad.Right,
	sdl.SCANCODE_LEFT:   joypad.Left,
	sdl.SCANCODE_UP:     joypad.Up,
	sdl.SCANCODE_DOWN:   joypad.Down,
	sdl.SCANCODE_Z:      joypad.A,
	sdl.SCANCODE_X:      joypad.B,
	sdl.SCANCODE_RSHIFT: joypad.Select,
	sdl.SCANCODE_RETURN: joypad.Start,
}

// sdlDisplayer implements emulator.Displayer. PushFrame is called from the
// emulation goroutine and only ever stores a pointer; Run, which owns the
// window, runs on the caller's (main) goroutine and polls the stored frame
// and the live keyboard state at its own pace.
type sdlDisplayer struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	scale    int

	mu      sync.Mutex
	pending *pixelmap.PixelMap
	pad     *joypad.Joypad

	running bool
}

func newSDLDisplayer(scale int) (*sdlDisplayer, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	width := int32(ppu.ScreenWidth * scale)
	height := int32(ppu.ScreenHeight * scale)

	window, err := sdl.CreateWindow("DMG", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		int32(ppu.ScreenWidth), int32(ppu.ScreenHeight))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	return &sdlDisplayer{window: window, renderer: renderer, texture: texture, scale: scale}, nil
}

func (d *sdlDisplayer) Prepare(pad *joypad.Joypad) bool {
	d.pad = pad
	d.running = true
	return true
}

func (d *sdlDisplayer) PushFrame(frame *pixelmap.PixelMap) {
	d.mu.Lock()
	d.pending = frame
	d.mu.Unlock()
}

func (d *sdlDisplayer) Stop() { d.running = false }

// shade maps a 2-bit DMG palette index to the classic four-tone green-gray
// ramp, brightest for index 0.
var shade = [4][3]byte{
	{0xE0, 0xF0, 0xE0},
	{0xA0, 0xB8, 0xA0},
	{0x60, 0x78, 0x60},
	{0x20, 0x30, 0x20},
}

func (d *sdlDisplayer) Run() {
	for d.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				d.running = false
			}
		}
		d.pollKeys()
		d.draw()
		sdl.Delay(8)
	}
}

func (d *sdlDisplayer) pollKeys() {
	if d.pad == nil {
		return
	}
	keys := sdl.GetKeyboardState()
	for scancode, key := range keyBindings {
		d.pad.UpdateKey(key, keys[scancode] != 0)
	}
}

func (d *sdlDisplayer) draw() {
	d.mu.Lock()
	frame := d.pending
	d.mu.Unlock()
	if frame == nil {
		return
	}

	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			c := shade[frame.Pixel(x, y)&0x03]
			i := (y*ppu.ScreenWidth + x) * 3
			pixels[i], pixels[i+1], pixels[i+2] = c[0], c[1], c[2]
		}
	}
	d.texture.Update(nil, pixels, ppu.ScreenWidth*3)

	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)
	d.renderer.Present()
}

func (d *sdlDisplayer) Close() {
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.Quit()
}
