// Package joypad implements the single-port button matrix: two 4-bit rows
// selected by the port write, read back with select-indicator bits.
//
// The row/select-bit readback shape follows this codebase's existing
// internal/input IOHandler convention (a single mapped port, Read8/Write8),
// though the bit semantics here are the select-and-read matrix a DMG
// exposes rather than the latched shift-register protocol the existing
// input package models. The two rows are stored as atomics because a
// presentation activity updates them concurrently with the emulation
// activity that reads them through Write/Read (see internal/emulator) — a
// byte-granular lock-free update, not a mutex-guarded one.
package joypad

import "sync/atomic"

// Key identifies one button across both rows.
type Key int

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

type selectMode int32

const (
	selectNone selectMode = iota
	selectDirection
	selectButton
)

// Joypad holds the direction and button rows, both 1-initialized (1 = released).
type Joypad struct {
	direction atomic.Uint32
	button    atomic.Uint32
	mode      atomic.Int32
}

// New constructs a Joypad with both rows released.
func New() *Joypad {
	j := &Joypad{}
	j.direction.Store(0x0F)
	j.button.Store(0x0F)
	j.mode.Store(int32(selectNone))
	return j
}

// Write selects which row reads back: bit 4 low selects Direction, bit 5 low
// selects Button, neither selects None.
func (j *Joypad) Write(value uint8) {
	dirSelected := value&0x10 == 0
	btnSelected := value&0x20 == 0
	switch {
	case dirSelected:
		j.mode.Store(int32(selectDirection))
	case btnSelected:
		j.mode.Store(int32(selectButton))
	default:
		j.mode.Store(int32(selectNone))
	}
}

// Read returns 0x3F when no row is selected, else the select-indicator bit
// ORed with the selected row's 4 bits.
func (j *Joypad) Read() uint8 {
	switch selectMode(j.mode.Load()) {
	case selectDirection:
		return 0x10 | uint8(j.direction.Load())
	case selectButton:
		return 0x20 | uint8(j.button.Load())
	default:
		return 0x3F
	}
}

// UpdateKey records a host key event: pressed clears the bit, released sets
// it. Safe to call from a different goroutine than Read/Write.
func (j *Joypad) UpdateKey(key Key, pressed bool) {
	row, bit := j.rowAndBit(key)
	for {
		old := row.Load()
		var next uint32
		if pressed {
			next = old &^ (1 << bit)
		} else {
			next = old | (1 << bit)
		}
		if row.CompareAndSwap(old, next) {
			return
		}
	}
}

func (j *Joypad) rowAndBit(key Key) (*atomic.Uint32, uint8) {
	switch key {
	case Right:
		return &j.direction, 0
	case Left:
		return &j.direction, 1
	case Up:
		return &j.direction, 2
	case Down:
		return &j.direction, 3
	case A:
		return &j.button, 0
	case B:
		return &j.button, 1
	case Select:
		return &j.button, 2
	default: // Start
		return &j.button, 3
	}
}
