package joypad

import "testing"

func TestInitialStateIsAllReleased(t *testing.T) {
	j := New()
	j.Write(0x20) // Direction
	if got := j.Read(); got != 0x1F {
		t.Errorf("Expected direction row all released (0x1F), got 0x%02X", got)
	}
	j.Write(0x10) // Button
	if got := j.Read(); got != 0x2F {
		t.Errorf("Expected button row all released (0x2F), got 0x%02X", got)
	}
	j.Write(0x30) // neither bit low: None selected
	if got := j.Read(); got != 0x3F {
		t.Errorf("Expected 0x3F when no row selected, got 0x%02X", got)
	}
}

func TestDirectionRowReadback(t *testing.T) {
	j := New()
	j.Write(0x20) // bit 4 low: Direction selected (bit5 still set)
	if got := j.Read(); got != 0x1F {
		t.Errorf("Expected 0x1F (select bit 4 | all released), got 0x%02X", got)
	}

	j.UpdateKey(Right, true)
	if got := j.Read(); got != 0x1E {
		t.Errorf("Expected Right pressed to clear bit 0, got 0x%02X", got)
	}

	j.UpdateKey(Right, false)
	if got := j.Read(); got != 0x1F {
		t.Errorf("Expected Right released to restore bit 0, got 0x%02X", got)
	}
}

func TestButtonRowReadback(t *testing.T) {
	j := New()
	j.Write(0x10) // bit 5 low: Button selected
	j.UpdateKey(Start, true)
	if got := j.Read(); got != 0x27 {
		t.Errorf("Expected 0x27 (select bit 5 | Start cleared), got 0x%02X", got)
	}
}

func TestKeyMappingIsIndependentPerRow(t *testing.T) {
	j := New()
	j.UpdateKey(A, true)    // button row bit 0
	j.UpdateKey(Right, true) // direction row bit 0

	j.Write(0x20) // Direction
	if got := j.Read(); got != 0x1E {
		t.Errorf("Expected direction row bit 0 cleared independent of button row, got 0x%02X", got)
	}

	j.Write(0x10) // Button
	if got := j.Read(); got != 0x2E {
		t.Errorf("Expected button row bit 0 cleared independent of direction row, got 0x%02X", got)
	}
}
