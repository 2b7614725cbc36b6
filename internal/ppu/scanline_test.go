package ppu

import (
	"testing"

	"dmgcore/internal/pixelmap"
)

func TestTilePixelDecodeFormula(t *testing.T) {
	p := New(nil, nil)
	// Tile 0 in unsigned mode lives at vram offset 0. Row 0: low=0b10110000, high=0b11000000.
	p.vram[0] = 0b10110000
	p.vram[1] = 0b11000000

	want := []pixelmap.Pixel{3, 2, 1, 1, 0, 0, 0, 0}
	for col := 0; col < 8; col++ {
		got := p.tilePixel(0, 0, col, true)
		if got != want[col] {
			t.Errorf("col %d: expected %d, got %d", col, want[col], got)
		}
	}
}

func TestSignedTileAddressingBiasesIndex(t *testing.T) {
	p := New(nil, nil)
	// Index 0 in signed (0x8800) mode should land at vram offset 0x1000 (address 0x9000).
	p.vram[0x1000] = 0xFF
	p.vram[0x1001] = 0xFF
	got := p.tilePixel(0, 0, 0, false)
	if got != 3 {
		t.Errorf("Expected pixel 3 from signed-mode tile 0 at 0x9000, got %d", got)
	}
}

func TestRenderBackgroundWrapsAtScreenEdge(t *testing.T) {
	p := New(nil, nil)
	p.LCDC = lcdcBGEnable // tilemap 0x9800, tile-data mode 0x8800 (bit 4 clear)
	// SCX=255 makes screenX=0 sample background column 255, which lives in
	// tilemap column 31 (the last column of row 0); screenX=1 wraps back to
	// background column 0, tilemap column 0.
	// Tile index 5 in signed mode lives at vram offset 0x1050; tilemap column
	// 0's default index 0 lives at 0x1000 and is left zeroed (transparent).
	p.vram[0x9800-0x8000+31] = 0x05
	for row := 0; row < 8; row++ {
		p.vram[0x1050+uint16(row)*2] = 0xFF
		p.vram[0x1050+uint16(row)*2+1] = 0xFF
	}
	p.SCX = 255
	p.SCY = 0

	frame := pixelmap.New(ScreenWidth, ScreenHeight)
	p.renderBackground(frame)

	if got := frame.Pixel(0, 0); got != 3 {
		t.Errorf("Expected column 0 to show tilemap column 31's solid tile, got %d", got)
	}
	if got := frame.Pixel(1, 0); got != 0 {
		t.Errorf("Expected column 1 to wrap to tilemap column 0 (unset tile), got %d", got)
	}
}
