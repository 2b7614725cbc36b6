package emulator

import (
	"testing"

	"dmgcore/internal/pixelmap"
)

// newROMImage builds a minimally valid cartridge image, mirroring
// internal/cartridge's own test helper since this package can't import an
// unexported test helper across packages.
func newROMImage(size int, cartType, romSizeCode, ramSizeCode uint8) []byte {
	data := make([]byte, size)
	copy(data[0x134:], "TEST")
	data[0x147] = cartType
	data[0x148] = romSizeCode
	data[0x149] = ramSizeCode
	data[0x14B] = 0x00
	return data
}

func TestClockCostsFedToSchedulerMatchCPUStepCosts(t *testing.T) {
	data := newROMImage(0x8000, 0x00, 0x00, 0x00)
	for i := 0x100; i < 0x110; i++ {
		data[i] = 0x00 // NOP, 4 clocks each
	}
	m := New(nil, false)
	if err := m.LoadROM(data); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	const steps = 10
	var wantClocks uint64
	for i := 0; i < steps; i++ {
		clocks, err := m.CPU.Step()
		if err != nil {
			t.Fatalf("CPU.Step failed: %v", err)
		}
		wantClocks += uint64(clocks)
		m.scheduler.Advance(clocks)
	}

	if got := m.scheduler.GetCycle(); got != wantClocks {
		t.Errorf("Expected scheduler cycle total %d to equal summed CPU clock costs, got %d", wantClocks, got)
	}
}

func TestBootROMDisableScenario(t *testing.T) {
	boot := make([]byte, 256)
	boot[0] = 0x31 // LD SP, d16
	boot[1] = 0xFE
	boot[2] = 0xFF
	boot[3] = 0x3E // LD A, d8
	boot[4] = 0x01
	boot[5] = 0xE0 // LDH (a8), A
	boot[6] = 0x50

	cartData := newROMImage(0x8000, 0x00, 0x00, 0x00)
	cartData[0] = 0x99 // distinguishable first cartridge byte

	m := New(nil, false)
	m.LoadBootROM(boot)
	if err := m.LoadROM(cartData); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	if got := m.Bus.Read8(0x0000); got != 0x31 {
		t.Fatalf("Expected first boot ROM byte 0x31 before execution, got 0x%02X", got)
	}

	for i := 0; i < 3; i++ {
		if _, err := m.CPU.Step(); err != nil {
			t.Fatalf("CPU.Step failed at instruction %d: %v", i, err)
		}
	}

	if got := m.Bus.Read8(0x0000); got != 0x99 {
		t.Errorf("Expected cartridge byte 0x99 at 0x0000 after boot disable, got 0x%02X", got)
	}
	if got := m.Bus.Read8(0xFF50); got != 0x01 {
		t.Errorf("Expected boot-disable port to read back 1, got 0x%02X", got)
	}
}

func TestMBC1BankSwitchScenario(t *testing.T) {
	data := newROMImage(4*0x4000, 0x01, 0x01, 0x00)
	data[3*0x4000] = 0x2A // bank 3's first byte

	m := New(nil, false)
	if err := m.LoadROM(data); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	m.Bus.Write8(0x2100, 0x03)
	if got := m.Bus.Read8(0x4000); got != 0x2A {
		t.Errorf("Expected bank 3's byte 0x2A at 0x4000, got 0x%02X", got)
	}
}

func TestFrameQueueDropsOldestWhenFull(t *testing.T) {
	q := newFrameQueue(2)
	a := pixelmap.New(1, 1)
	b := pixelmap.New(1, 1)
	c := pixelmap.New(1, 1)
	q.Push(a)
	q.Push(b)
	q.Push(c) // a should be dropped

	first, ok := q.Pop()
	if !ok || first != b {
		t.Errorf("Expected oldest surviving frame to be b after a was dropped")
	}
	second, ok := q.Pop()
	if !ok || second != c {
		t.Errorf("Expected second frame to be c")
	}
	if _, ok := q.Pop(); ok {
		t.Errorf("Expected queue to be empty after draining both frames")
	}
}

func TestJoypadPortRoutesThroughBus(t *testing.T) {
	m := New(nil, false)
	m.Joypad.UpdateKey(0 /* Right */, true)

	m.Bus.Write8(0xFF00, 0xEF) // select direction row (bit 4 low)
	if got := m.Bus.Read8(0xFF00); got&0x01 != 0 {
		t.Errorf("Expected Right bit clear through the bus-mapped joypad port, got 0x%02X", got)
	}
}
