// Package memory implements the flat 16-bit address bus: range dispatch
// across boot ROM, cartridge, VRAM, work RAM, OAM, and I/O ports, plus the
// DMA and boot-ROM-disable ports that live directly on the bus.
//
// Grounded on this codebase's existing internal/memory/bus.go for the
// IOHandler-interface-plus-range-dispatch shape and the logger hookup
// pattern; the range boundaries and port table follow this module's own
// memory-map layout.
package memory

import (
	"fmt"

	"dmgcore/internal/debug"
)

// IOHandler describes a component exposing one byte of state per address
// it owns. MapPort does not take an IOHandler; it binds a plain read/write
// function pair per port.
type IOHandler interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, value uint8)
}

// Cartridge is the subset of cartridge.Cartridge the bus depends on.
type Cartridge interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, value uint8)
}

// Video is the subset of ppu.PPU the bus depends on to route VRAM/OAM
// accesses to the component that actually owns that memory. When no Video
// is attached, the bus falls back to its own arrays so bus-only tests don't
// need a PPU.
type Video interface {
	ReadVRAM(offset uint16) uint8
	WriteVRAM(offset uint16, value uint8)
	ReadOAM(offset uint8) uint8
	WriteOAM(offset uint8, value uint8)
}

// port is a single bound I/O address.
type port struct {
	read  func() uint8
	write func(uint8)
}

// Bus routes every CPU-visible memory access to its owning component.
type Bus struct {
	bootROM       []byte
	bootROMActive bool

	cart  Cartridge
	video Video

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte

	ports map[uint16]port

	bootDisableValue uint8

	ie uint8 // owned by the CPU normally, but the bus intercepts 0xFFFF for callers without direct CPU access

	ieReader func() uint8
	ieWriter func(uint8)

	logger *debug.Logger
}

// NewBus constructs a bus with no cartridge or boot ROM attached; callers
// wire those in before running the CPU.
func NewBus() *Bus {
	return &Bus{ports: make(map[uint16]port)}
}

func (b *Bus) SetLogger(logger *debug.Logger) { b.logger = logger }

// SetCartridge attaches the cartridge backing 0x0100-0x7FFF and 0xA000-0xBFFF.
func (b *Bus) SetCartridge(cart Cartridge) { b.cart = cart }

// SetVideo attaches the PPU backing VRAM (0x8000-0x9FFF) and OAM
// (0xFE00-0xFE9F); without one the bus keeps that memory itself.
func (b *Bus) SetVideo(video Video) { b.video = video }

// SetBootROM attaches a 256-byte boot program, active until the boot-disable
// port is written.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = data
	b.bootROMActive = len(data) > 0
}

// SetIEAccessors lets the CPU keep owning IE (0xFFFF) while the bus still
// dispatches reads/writes that land on that single address.
func (b *Bus) SetIEAccessors(read func() uint8, write func(uint8)) {
	b.ieReader = read
	b.ieWriter = write
}

// MapPort binds a read/write pair to a single I/O address (0xFF00-0xFF7F).
// Binding the same address twice is an error.
func (b *Bus) MapPort(addr uint16, read func() uint8, write func(uint8)) error {
	if _, exists := b.ports[addr]; exists {
		return fmt.Errorf("memory: port 0x%04X is already bound", addr)
	}
	b.ports[addr] = port{read: read, write: write}
	return nil
}

// Read8 reads one byte from the full 16-bit address space.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x0100:
		if b.bootROMActive {
			return b.bootROM[addr]
		}
		return b.cartRead(addr)
	case addr < 0x8000:
		return b.cartRead(addr)
	case addr < 0xA000:
		if b.video != nil {
			return b.video.ReadVRAM(addr - 0x8000)
		}
		return b.vram[addr-0x8000]
	case addr < 0xC000:
		return b.cartRead(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0x2000-0xC000]
	case addr < 0xFEA0:
		if b.video != nil {
			return b.video.ReadOAM(uint8(addr - 0xFE00))
		}
		return b.oam[addr-0xFE00]
	case addr < 0xFF00:
		return 0
	case addr == 0xFF50:
		return b.bootDisableValue
	case addr < 0xFF80:
		if p, ok := b.ports[addr]; ok {
			return p.read()
		}
		return 0xFF
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		if b.ieReader != nil {
			return b.ieReader()
		}
		return b.ie
	}
}

// Write8 writes one byte to the full 16-bit address space.
func (b *Bus) Write8(addr uint16, value uint8) {
	switch {
	case addr < 0x0100:
		// Boot ROM is read-only; writes here fall through to the cartridge.
		b.cartWrite(addr, value)
	case addr < 0x8000:
		b.cartWrite(addr, value)
	case addr < 0xA000:
		if b.video != nil {
			b.video.WriteVRAM(addr-0x8000, value)
		} else {
			b.vram[addr-0x8000] = value
		}
	case addr < 0xC000:
		b.cartWrite(addr, value)
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0x2000-0xC000] = value
	case addr < 0xFEA0:
		if b.video != nil {
			b.video.WriteOAM(uint8(addr-0xFE00), value)
		} else {
			b.oam[addr-0xFE00] = value
		}
	case addr < 0xFF00:
		// Unmapped: writes are ignored.
	case addr == 0xFF46:
		b.runDMA(value)
	case addr == 0xFF50:
		if value != 0 {
			b.bootROMActive = false
		}
		b.bootDisableValue = value
	case addr < 0xFF80:
		if p, ok := b.ports[addr]; ok {
			p.write(value)
		}
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default: // 0xFFFF
		if b.ieWriter != nil {
			b.ieWriter(value)
		} else {
			b.ie = value
		}
	}
}

func (b *Bus) cartRead(addr uint16) uint8 {
	if b.cart == nil {
		return 0xFF
	}
	return b.cart.Read8(addr)
}

func (b *Bus) cartWrite(addr uint16, value uint8) {
	if b.cart == nil {
		return
	}
	b.cart.Write8(addr, value)
}

// runDMA copies 160 bytes from value*0x100 into OAM, modeled as atomic
// within this single bus write.
func (b *Bus) runDMA(value uint8) {
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		v := b.Read8(src + i)
		if b.video != nil {
			b.video.WriteOAM(uint8(i), v)
		} else {
			b.oam[i] = v
		}
	}
	if b.logger != nil {
		b.logger.LogMemory(debug.LogLevelDebug, fmt.Sprintf("DMA transfer from 0x%04X", src), nil)
	}
}
