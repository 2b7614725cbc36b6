package ppu

import "testing"

func TestModeTimingTransitions(t *testing.T) {
	p := New(nil, nil)
	if p.mode != ModeHBlank {
		t.Fatalf("Expected initial mode to be HBlank (zero value), got %d", p.mode)
	}
	p.mode = ModeOAMScan

	p.Advance(79)
	if p.mode != ModeOAMScan {
		t.Errorf("Expected still OAMScan before 80 clocks, got %d", p.mode)
	}
	p.Advance(1)
	if p.mode != ModePixelTransfer {
		t.Errorf("Expected PixelTransfer after 80 clocks, got %d", p.mode)
	}

	p.Advance(172)
	if p.mode != ModeHBlank {
		t.Errorf("Expected HBlank after 172 more clocks, got %d", p.mode)
	}
}

func TestEndOfFrameSignaledOnceAtLine143(t *testing.T) {
	vblankFired := 0
	p := New(nil, func() { vblankFired++ })
	p.mode = ModeHBlank
	p.LY = 143
	p.modeClocks = 203

	endOfFrame := p.Advance(1)
	if !endOfFrame {
		t.Errorf("Expected Advance to report end-of-frame at line 143's HBlank->VBlank transition")
	}
	if p.mode != ModeVBlank {
		t.Errorf("Expected VBlank mode, got %d", p.mode)
	}
	if vblankFired != 1 {
		t.Errorf("Expected exactly one VBlank interrupt request, got %d", vblankFired)
	}
}

func TestLineWrapsFrom153To0(t *testing.T) {
	p := New(nil, nil)
	p.mode = ModeVBlank
	p.LY = 153
	p.modeClocks = 455

	p.Advance(1)
	if p.LY != 0 {
		t.Errorf("Expected LY to wrap to 0, got %d", p.LY)
	}
	if p.mode != ModeOAMScan {
		t.Errorf("Expected mode OAMScan after wrap, got %d", p.mode)
	}
}

func TestLYCCompareSetsStatBitAndRequestsInterrupt(t *testing.T) {
	statFired := 0
	p := New(func() { statFired++ }, nil)
	p.STAT = statLYCIntEn
	p.LYC = 5
	p.mode = ModeHBlank
	p.LY = 4
	p.modeClocks = 204

	p.Advance(0)
	if p.LY != 5 {
		t.Fatalf("Expected LY=5, got %d", p.LY)
	}
	if p.STAT&statLYCFlag == 0 {
		t.Errorf("Expected STAT bit 2 set on LYC match")
	}
	if statFired != 1 {
		t.Errorf("Expected one LCD-STAT interrupt request, got %d", statFired)
	}
}

func TestStatLowBitsReflectMode(t *testing.T) {
	p := New(nil, nil)
	p.mode = ModePixelTransfer
	p.STAT = p.statWithMode()
	if p.STAT&0x03 != uint8(ModePixelTransfer) {
		t.Errorf("Expected STAT low bits to reflect PixelTransfer mode, got 0x%02X", p.STAT)
	}
}
