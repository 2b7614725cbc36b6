// Package ppu implements the scanline-driven picture processor: VRAM, OAM,
// the LCDC/STAT register pair and their scroll/palette siblings, and the
// Mode0-3 timing state machine.
//
// The VRAM/OAM byte-array layout follows this codebase's existing
// internal/ppu package; the registers are exported fields that
// internal/emulator binds to I/O ports. The mode timing
// table and frame composition algorithm follow this module's own PPU
// design, closely mirroring _examples/original_source/src/core/gpu.h's
// LCDCtrlBits/Tile/TileSelector/Sprite/OAM/GPU shapes.
package ppu

import "dmgcore/internal/pixelmap"

// Mode is one of the four PPU states.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModePixelTransfer
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// LCDC bits.
const (
	lcdcBGEnable      = 1 << 0
	lcdcOBJEnable     = 1 << 1
	lcdcOBJSize       = 1 << 2
	lcdcBGTilemap     = 1 << 3
	lcdcTileData      = 1 << 4
	lcdcWindowEnable  = 1 << 5
	lcdcWindowTilemap = 1 << 6
)

// STAT bits.
const (
	statLYCFlag  = 1 << 2
	statLYCIntEn = 1 << 6
)

// PPU owns VRAM, OAM, and the registers driving the scanline state machine.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	LCDC uint8
	STAT uint8
	SCY  uint8
	SCX  uint8
	LY   uint8
	LYC  uint8
	BGP  uint8
	OBP0 uint8
	OBP1 uint8
	WY   uint8
	WX   uint8

	mode       Mode
	modeClocks uint32

	requestStat   func()
	requestVBlank func()
}

// New constructs a PPU with all registers and memories zeroed.
func New(requestStat, requestVBlank func()) *PPU {
	return &PPU{requestStat: requestStat, requestVBlank: requestVBlank}
}

func (p *PPU) ReadVRAM(offset uint16) uint8     { return p.vram[offset] }
func (p *PPU) WriteVRAM(offset uint16, v uint8) { p.vram[offset] = v }

func (p *PPU) ReadOAM(offset uint8) uint8     { return p.oam[offset] }
func (p *PPU) WriteOAM(offset uint8, v uint8) { p.oam[offset] = v }

// statWithMode folds the live mode bits into STAT's low two bits, leaving
// the LYC-compare flag and interrupt-enable bits as last set.
func (p *PPU) statWithMode() uint8 {
	return (p.STAT &^ 0x03) | uint8(p.mode)
}

// Advance runs the mode state machine forward by clocks, returning true
// exactly once per frame on the Mode0->Mode1 transition.
func (p *PPU) Advance(clocks uint32) bool {
	endOfFrame := false
	p.modeClocks += clocks

	switch p.mode {
	case ModeOAMScan:
		if p.modeClocks >= 80 {
			p.modeClocks -= 80
			p.mode = ModePixelTransfer
		}
	case ModePixelTransfer:
		if p.modeClocks >= 172 {
			p.modeClocks -= 172
			p.mode = ModeHBlank
		}
	case ModeHBlank:
		if p.modeClocks >= 204 {
			p.modeClocks -= 204
			if p.LY < 143 {
				p.setLine(p.LY + 1)
				p.mode = ModeOAMScan
			} else {
				p.setLine(p.LY + 1)
				p.mode = ModeVBlank
				endOfFrame = true
				if p.requestVBlank != nil {
					p.requestVBlank()
				}
			}
		}
	case ModeVBlank:
		if p.modeClocks >= 456 {
			p.modeClocks -= 456
			if p.LY >= 153 {
				p.setLine(0)
				p.mode = ModeOAMScan
			} else {
				p.setLine(p.LY + 1)
			}
		}
	}

	p.STAT = p.statWithMode()
	return endOfFrame
}

// setLine updates LY and re-runs the LYC comparison on every line change.
func (p *PPU) setLine(line uint8) {
	p.LY = line
	if p.LY == p.LYC {
		p.STAT |= statLYCFlag
		if p.STAT&statLYCIntEn != 0 && p.requestStat != nil {
			p.requestStat()
		}
	} else {
		p.STAT &^= statLYCFlag
	}
}

// RenderFrame composes the current VRAM/OAM state into a 160x144 PixelMap
// per the background, window, and sprite layering rules.
func (p *PPU) RenderFrame() *pixelmap.PixelMap {
	frame := pixelmap.New(ScreenWidth, ScreenHeight)

	if p.LCDC&lcdcBGEnable != 0 {
		p.renderBackground(frame)
	}
	if p.LCDC&lcdcWindowEnable != 0 {
		p.renderWindow(frame)
	}
	if p.LCDC&lcdcOBJEnable != 0 {
		p.renderSprites(frame)
	}

	return frame
}
