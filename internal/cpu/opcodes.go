package cpu

// Register-index encoding shared by the LD r,r' block, the ALU A,r block,
// and every CB-prefixed opcode: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.

func (c *CPU) r8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.R.B
	case 1:
		return c.R.C
	case 2:
		return c.R.D
	case 3:
		return c.R.E
	case 4:
		return c.R.H
	case 5:
		return c.R.L
	case 6:
		return c.mem.Read8(c.R.HL())
	default:
		return c.R.A
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.R.B = v
	case 1:
		c.R.C = v
	case 2:
		c.R.D = v
	case 3:
		c.R.E = v
	case 4:
		c.R.H = v
	case 5:
		c.R.L = v
	case 6:
		c.mem.Write8(c.R.HL(), v)
	default:
		c.R.A = v
	}
}

func (c *CPU) ccTaken(cc uint8) bool {
	switch cc {
	case 0: // NZ
		return !c.R.FlagSet(FlagZ)
	case 1: // Z
		return c.R.FlagSet(FlagZ)
	case 2: // NC
		return !c.R.FlagSet(FlagC)
	default: // C
		return c.R.FlagSet(FlagC)
	}
}

// buildPrimaryTable fills in the 256-entry primary opcode table: the
// irregular rows (0x00-0x3F, 0xC0-0xFF) get individual handlers; the two
// regular blocks (LD r,r' at 0x40-0x7F, ALU A,r at 0x80-0xBF) are generated
// by looping over the register-index encoding, per the design note's
// preference for a table over one giant switch.
func (c *CPU) buildPrimaryTable() {
	t := &c.primary

	t[0x00] = func(c *CPU) uint32 { return 4 }
	t[0x01] = func(c *CPU) uint32 { c.R.SetBC(c.fetch16()); return 12 }
	t[0x02] = func(c *CPU) uint32 { c.mem.Write8(c.R.BC(), c.R.A); return 8 }
	t[0x03] = func(c *CPU) uint32 { c.R.SetBC(c.R.BC() + 1); return 8 }
	t[0x04] = func(c *CPU) uint32 { c.R.B = c.inc8(c.R.B); return 4 }
	t[0x05] = func(c *CPU) uint32 { c.R.B = c.dec8(c.R.B); return 4 }
	t[0x06] = func(c *CPU) uint32 { c.R.B = c.fetch8(); return 8 }
	t[0x07] = func(c *CPU) uint32 { c.R.A = c.rlc(c.R.A); c.R.SetFlag(FlagZ, false); return 4 }
	t[0x08] = func(c *CPU) uint32 {
		addr := c.fetch16()
		c.mem.Write8(addr, uint8(c.R.SP))
		c.mem.Write8(addr+1, uint8(c.R.SP>>8))
		return 20
	}
	t[0x09] = func(c *CPU) uint32 { c.addHL(c.R.BC()); return 8 }
	t[0x0A] = func(c *CPU) uint32 { c.R.A = c.mem.Read8(c.R.BC()); return 8 }
	t[0x0B] = func(c *CPU) uint32 { c.R.SetBC(c.R.BC() - 1); return 8 }
	t[0x0C] = func(c *CPU) uint32 { c.R.C = c.inc8(c.R.C); return 4 }
	t[0x0D] = func(c *CPU) uint32 { c.R.C = c.dec8(c.R.C); return 4 }
	t[0x0E] = func(c *CPU) uint32 { c.R.C = c.fetch8(); return 8 }
	t[0x0F] = func(c *CPU) uint32 { c.R.A = c.rrc(c.R.A); c.R.SetFlag(FlagZ, false); return 4 }

	t[0x10] = func(c *CPU) uint32 { c.fetch8(); return 4 } // STOP: modeled as 4-clock NOP
	t[0x11] = func(c *CPU) uint32 { c.R.SetDE(c.fetch16()); return 12 }
	t[0x12] = func(c *CPU) uint32 { c.mem.Write8(c.R.DE(), c.R.A); return 8 }
	t[0x13] = func(c *CPU) uint32 { c.R.SetDE(c.R.DE() + 1); return 8 }
	t[0x14] = func(c *CPU) uint32 { c.R.D = c.inc8(c.R.D); return 4 }
	t[0x15] = func(c *CPU) uint32 { c.R.D = c.dec8(c.R.D); return 4 }
	t[0x16] = func(c *CPU) uint32 { c.R.D = c.fetch8(); return 8 }
	t[0x17] = func(c *CPU) uint32 { c.R.A = c.rl(c.R.A); c.R.SetFlag(FlagZ, false); return 4 }
	t[0x18] = func(c *CPU) uint32 { e := int8(c.fetch8()); c.R.PC = uint16(int32(c.R.PC) + int32(e)); return 12 }
	t[0x19] = func(c *CPU) uint32 { c.addHL(c.R.DE()); return 8 }
	t[0x1A] = func(c *CPU) uint32 { c.R.A = c.mem.Read8(c.R.DE()); return 8 }
	t[0x1B] = func(c *CPU) uint32 { c.R.SetDE(c.R.DE() - 1); return 8 }
	t[0x1C] = func(c *CPU) uint32 { c.R.E = c.inc8(c.R.E); return 4 }
	t[0x1D] = func(c *CPU) uint32 { c.R.E = c.dec8(c.R.E); return 4 }
	t[0x1E] = func(c *CPU) uint32 { c.R.E = c.fetch8(); return 8 }
	t[0x1F] = func(c *CPU) uint32 { c.R.A = c.rr(c.R.A); c.R.SetFlag(FlagZ, false); return 4 }

	t[0x20] = jrcc(0)
	t[0x21] = func(c *CPU) uint32 { c.R.SetHL(c.fetch16()); return 12 }
	t[0x22] = func(c *CPU) uint32 { hl := c.R.HL(); c.mem.Write8(hl, c.R.A); c.R.SetHL(hl + 1); return 8 }
	t[0x23] = func(c *CPU) uint32 { c.R.SetHL(c.R.HL() + 1); return 8 }
	t[0x24] = func(c *CPU) uint32 { c.R.H = c.inc8(c.R.H); return 4 }
	t[0x25] = func(c *CPU) uint32 { c.R.H = c.dec8(c.R.H); return 4 }
	t[0x26] = func(c *CPU) uint32 { c.R.H = c.fetch8(); return 8 }
	t[0x27] = func(c *CPU) uint32 { c.daa(); return 4 }
	t[0x28] = jrcc(1)
	t[0x29] = func(c *CPU) uint32 { c.addHL(c.R.HL()); return 8 }
	t[0x2A] = func(c *CPU) uint32 { hl := c.R.HL(); c.R.A = c.mem.Read8(hl); c.R.SetHL(hl + 1); return 8 }
	t[0x2B] = func(c *CPU) uint32 { c.R.SetHL(c.R.HL() - 1); return 8 }
	t[0x2C] = func(c *CPU) uint32 { c.R.L = c.inc8(c.R.L); return 4 }
	t[0x2D] = func(c *CPU) uint32 { c.R.L = c.dec8(c.R.L); return 4 }
	t[0x2E] = func(c *CPU) uint32 { c.R.L = c.fetch8(); return 8 }
	t[0x2F] = func(c *CPU) uint32 {
		c.R.A = ^c.R.A
		c.R.SetFlag(FlagN, true)
		c.R.SetFlag(FlagH, true)
		return 4
	}

	t[0x30] = jrcc(2)
	t[0x31] = func(c *CPU) uint32 { c.R.SP = c.fetch16(); return 12 }
	t[0x32] = func(c *CPU) uint32 { hl := c.R.HL(); c.mem.Write8(hl, c.R.A); c.R.SetHL(hl - 1); return 8 }
	t[0x33] = func(c *CPU) uint32 { c.R.SP++; return 8 }
	t[0x34] = func(c *CPU) uint32 { c.mem.Write8(c.R.HL(), c.inc8(c.mem.Read8(c.R.HL()))); return 12 }
	t[0x35] = func(c *CPU) uint32 { c.mem.Write8(c.R.HL(), c.dec8(c.mem.Read8(c.R.HL()))); return 12 }
	t[0x36] = func(c *CPU) uint32 { c.mem.Write8(c.R.HL(), c.fetch8()); return 12 }
	t[0x37] = func(c *CPU) uint32 {
		c.R.SetFlag(FlagN, false)
		c.R.SetFlag(FlagH, false)
		c.R.SetFlag(FlagC, true)
		return 4
	}
	t[0x38] = jrcc(3)
	t[0x39] = func(c *CPU) uint32 { c.addHL(c.R.SP); return 8 }
	t[0x3A] = func(c *CPU) uint32 { hl := c.R.HL(); c.R.A = c.mem.Read8(hl); c.R.SetHL(hl - 1); return 8 }
	t[0x3B] = func(c *CPU) uint32 { c.R.SP--; return 8 }
	t[0x3C] = func(c *CPU) uint32 { c.R.A = c.inc8(c.R.A); return 4 }
	t[0x3D] = func(c *CPU) uint32 { c.R.A = c.dec8(c.R.A); return 4 }
	t[0x3E] = func(c *CPU) uint32 { c.R.A = c.fetch8(); return 8 }
	t[0x3F] = func(c *CPU) uint32 {
		c.R.SetFlag(FlagN, false)
		c.R.SetFlag(FlagH, false)
		c.R.SetFlag(FlagC, !c.R.FlagSet(FlagC))
		return 4
	}

	// 0x40-0x7F: LD r,r'. 0x76 is HALT, not a self-load.
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			t[op] = func(c *CPU) uint32 { c.Halted = true; return 4 }
			continue
		}
		dst := uint8((op >> 3) & 7)
		src := uint8(op & 7)
		clocks := uint32(4)
		if dst == 6 || src == 6 {
			clocks = 8
		}
		t[op] = func(c *CPU) uint32 { c.setR8(dst, c.r8(src)); return clocks }
	}

	// 0x80-0xBF: ALU A,r (ADD/ADC/SUB/SBC/AND/XOR/OR/CP).
	for op := 0x80; op <= 0xBF; op++ {
		kind := uint8((op >> 3) & 7)
		src := uint8(op & 7)
		clocks := uint32(4)
		if src == 6 {
			clocks = 8
		}
		t[op] = aluHandler(kind, src, clocks)
	}

	t[0xC0] = retcc(0)
	t[0xC1] = func(c *CPU) uint32 { c.R.SetBC(c.pop16()); return 12 }
	t[0xC2] = jpcc(0)
	t[0xC3] = func(c *CPU) uint32 { c.R.PC = c.fetch16(); return 16 }
	t[0xC4] = callcc(0)
	t[0xC5] = func(c *CPU) uint32 { c.push16(c.R.BC()); return 16 }
	t[0xC6] = func(c *CPU) uint32 { c.R.A = c.add8(c.R.A, c.fetch8()); return 8 }
	t[0xC7] = rst(0x00)
	t[0xC8] = retcc(1)
	t[0xC9] = func(c *CPU) uint32 { c.R.PC = c.pop16(); return 16 }
	t[0xCA] = jpcc(1)
	t[0xCB] = func(c *CPU) uint32 {
		op2 := c.fetch8()
		return c.cb[op2](c)
	}
	t[0xCC] = callcc(1)
	t[0xCD] = func(c *CPU) uint32 { addr := c.fetch16(); c.push16(c.R.PC); c.R.PC = addr; return 24 }
	t[0xCE] = func(c *CPU) uint32 { c.R.A = c.adc8(c.R.A, c.fetch8()); return 8 }
	t[0xCF] = rst(0x08)

	t[0xD0] = retcc(2)
	t[0xD1] = func(c *CPU) uint32 { c.R.SetDE(c.pop16()); return 12 }
	t[0xD2] = jpcc(2)
	t[0xD4] = callcc(2)
	t[0xD5] = func(c *CPU) uint32 { c.push16(c.R.DE()); return 16 }
	t[0xD6] = func(c *CPU) uint32 { c.R.A = c.sub8(c.R.A, c.fetch8()); return 8 }
	t[0xD7] = rst(0x10)
	t[0xD8] = retcc(3)
	t[0xD9] = func(c *CPU) uint32 { c.R.PC = c.pop16(); c.IME = true; return 16 }
	t[0xDA] = jpcc(3)
	t[0xDC] = callcc(3)
	t[0xDE] = func(c *CPU) uint32 { c.R.A = c.sbc8(c.R.A, c.fetch8()); return 8 }
	t[0xDF] = rst(0x18)

	t[0xE0] = func(c *CPU) uint32 { c.mem.Write8(0xFF00+uint16(c.fetch8()), c.R.A); return 12 }
	t[0xE1] = func(c *CPU) uint32 { c.R.SetHL(c.pop16()); return 12 }
	t[0xE2] = func(c *CPU) uint32 { c.mem.Write8(0xFF00+uint16(c.R.C), c.R.A); return 8 }
	t[0xE5] = func(c *CPU) uint32 { c.push16(c.R.HL()); return 16 }
	t[0xE6] = func(c *CPU) uint32 { c.R.A = c.and8(c.R.A, c.fetch8()); return 8 }
	t[0xE7] = rst(0x20)
	t[0xE8] = func(c *CPU) uint32 { c.R.SP = c.addSPSigned(c.R.SP, c.fetch8()); return 16 }
	t[0xE9] = func(c *CPU) uint32 { c.R.PC = c.R.HL(); return 4 }
	t[0xEA] = func(c *CPU) uint32 { c.mem.Write8(c.fetch16(), c.R.A); return 16 }
	t[0xEE] = func(c *CPU) uint32 { c.R.A = c.xor8(c.R.A, c.fetch8()); return 8 }
	t[0xEF] = rst(0x28)

	t[0xF0] = func(c *CPU) uint32 { c.R.A = c.mem.Read8(0xFF00 + uint16(c.fetch8())); return 12 }
	t[0xF1] = func(c *CPU) uint32 { c.R.SetAF(c.pop16()); return 12 }
	t[0xF2] = func(c *CPU) uint32 { c.R.A = c.mem.Read8(0xFF00 + uint16(c.R.C)); return 8 }
	t[0xF3] = func(c *CPU) uint32 { c.IME = false; return 4 }
	t[0xF5] = func(c *CPU) uint32 { c.push16(c.R.AF()); return 16 }
	t[0xF6] = func(c *CPU) uint32 { c.R.A = c.or8(c.R.A, c.fetch8()); return 8 }
	t[0xF7] = rst(0x30)
	t[0xF8] = func(c *CPU) uint32 { c.R.SetHL(c.addSPSigned(c.R.SP, c.fetch8())); return 12 }
	t[0xF9] = func(c *CPU) uint32 { c.R.SP = c.R.HL(); return 8 }
	t[0xFA] = func(c *CPU) uint32 { c.R.A = c.mem.Read8(c.fetch16()); return 16 }
	t[0xFB] = func(c *CPU) uint32 { c.IME = true; return 4 } // EI applied immediately, not delayed by one instruction
	t[0xFE] = func(c *CPU) uint32 { c.cp8(c.R.A, c.fetch8()); return 8 }
	t[0xFF] = rst(0x38)

	// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD are
	// left nil: undefined on real hardware, the decoder fails fatally on them.
}

func jrcc(cc uint8) opcodeHandler {
	return func(c *CPU) uint32 {
		e := int8(c.fetch8())
		if !c.ccTaken(cc) {
			return 8
		}
		c.R.PC = uint16(int32(c.R.PC) + int32(e))
		return 12
	}
}

func jpcc(cc uint8) opcodeHandler {
	return func(c *CPU) uint32 {
		addr := c.fetch16()
		if !c.ccTaken(cc) {
			return 12
		}
		c.R.PC = addr
		return 16
	}
}

func callcc(cc uint8) opcodeHandler {
	return func(c *CPU) uint32 {
		addr := c.fetch16()
		if !c.ccTaken(cc) {
			return 12
		}
		c.push16(c.R.PC)
		c.R.PC = addr
		return 24
	}
}

func retcc(cc uint8) opcodeHandler {
	return func(c *CPU) uint32 {
		if !c.ccTaken(cc) {
			return 8
		}
		c.R.PC = c.pop16()
		return 20
	}
}

func rst(vector uint16) opcodeHandler {
	return func(c *CPU) uint32 {
		c.push16(c.R.PC)
		c.R.PC = vector
		return 16
	}
}

// aluHandler implements the ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r block; kind
// selects the operation, src the operand register index.
func aluHandler(kind, src uint8, clocks uint32) opcodeHandler {
	return func(c *CPU) uint32 {
		operand := c.r8(src)
		switch kind {
		case 0:
			c.R.A = c.add8(c.R.A, operand)
		case 1:
			c.R.A = c.adc8(c.R.A, operand)
		case 2:
			c.R.A = c.sub8(c.R.A, operand)
		case 3:
			c.R.A = c.sbc8(c.R.A, operand)
		case 4:
			c.R.A = c.and8(c.R.A, operand)
		case 5:
			c.R.A = c.xor8(c.R.A, operand)
		case 6:
			c.R.A = c.or8(c.R.A, operand)
		case 7:
			c.cp8(c.R.A, operand)
		}
		return clocks
	}
}

// buildCBTable fills in the 256 CB-prefixed opcodes. The encoding is
// regular: bits 6-7 select rotate/shift (00), BIT (01), RES (10), SET (11);
// for the rotate/shift group bits 3-5 select the specific operation; for
// BIT/RES/SET bits 3-5 select the bit number. Bits 0-2 always select the
// register-index operand (or (HL)).
func (c *CPU) buildCBTable() {
	t := &c.cb
	for op := 0; op < 256; op++ {
		src := uint8(op & 7)
		group := uint8((op >> 6) & 3)
		sel := uint8((op >> 3) & 7)

		regClocks, memClocks := uint32(8), uint32(16)
		if group == 1 { // BIT (HL) is 12, not 16
			memClocks = 12
		}
		clocks := regClocks
		if src == 6 {
			clocks = memClocks
		}

		switch group {
		case 0:
			t[op] = rotateShiftHandler(sel, src, clocks)
		case 1:
			t[op] = func(c *CPU) uint32 { c.bit(sel, c.r8(src)); return clocks }
		case 2:
			t[op] = func(c *CPU) uint32 { c.setR8(src, res(sel, c.r8(src))); return clocks }
		default:
			t[op] = func(c *CPU) uint32 { c.setR8(src, set(sel, c.r8(src))); return clocks }
		}
	}
}

func rotateShiftHandler(op, src uint8, clocks uint32) opcodeHandler {
	return func(c *CPU) uint32 {
		v := c.r8(src)
		var result uint8
		switch op {
		case 0:
			result = c.rlc(v)
		case 1:
			result = c.rrc(v)
		case 2:
			result = c.rl(v)
		case 3:
			result = c.rr(v)
		case 4:
			result = c.sla(v)
		case 5:
			result = c.sra(v)
		case 6:
			result = c.swap(v)
		default:
			result = c.srl(v)
		}
		if op < 4 {
			// RLC/RRC/RL/RR (CB-prefixed) set Z from the result, unlike
			// their non-prefixed RLCA/RRCA/RLA/RRA counterparts.
			c.R.SetFlag(FlagZ, result == 0)
		}
		c.setR8(src, result)
		return clocks
	}
}
