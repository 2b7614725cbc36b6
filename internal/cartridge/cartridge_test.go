package cartridge

import "testing"

// newROMImage builds a minimally valid header in an otherwise zeroed image
// of the given total size.
func newROMImage(size int, cartType, romSizeCode, ramSizeCode uint8, title string) []byte {
	data := make([]byte, size)
	copy(data[0x134:], title)
	data[0x147] = cartType
	data[0x148] = romSizeCode
	data[0x149] = ramSizeCode
	data[0x14B] = 0x00 // old-license path
	return data
}

func TestLoadParsesHeaderFields(t *testing.T) {
	data := newROMImage(0x8000, 0x00, 0x00, 0x00, "TESTGAME")
	c, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Header.Title != "TESTGAME" {
		t.Errorf("Expected title TESTGAME, got %q", c.Header.Title)
	}
	if c.Header.ROMBanks != 2 {
		t.Errorf("Expected 2 banks for ROM size code 0, got %d", c.Header.ROMBanks)
	}
}

func TestLoadRejectsUnsupportedCartridgeType(t *testing.T) {
	data := newROMImage(0x8000, 0x05, 0x00, 0x00, "BAD")
	if _, err := Load(data); err == nil {
		t.Errorf("Expected load failure for unrecognized cartridge type")
	}
}

func TestLoadRejectsTruncatedImage(t *testing.T) {
	// Header claims a 32KiB image (ROM size code 0) but only 0x150 bytes follow.
	data := newROMImage(0x150, 0x00, 0x00, 0x00, "SHORT")
	if _, err := Load(data); err == nil {
		t.Errorf("Expected load failure for an image shorter than its declared ROM size")
	}
}

func TestROMOnlyReadsDirectlyFromROM(t *testing.T) {
	data := newROMImage(0x8000, 0x00, 0x00, 0x00, "ROM")
	data[0x4000] = 0xAB
	c, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Read8(0x4000); got != 0xAB {
		t.Errorf("Expected 0xAB at 0x4000, got 0x%02X", got)
	}
}

func TestROMOnlyWritesAreIgnored(t *testing.T) {
	data := newROMImage(0x8000, 0x00, 0x00, 0x00, "ROM")
	c, _ := Load(data)
	c.Write8(0x2000, 0xFF) // would be a bank-select write on MBC1
	if got := c.romBank(); got != 1 {
		t.Errorf("Expected ROM-only bank to remain fixed at 1, got %d", got)
	}
}

func TestMBC1BankSwitchLowerZeroCoercedToOne(t *testing.T) {
	data := newROMImage(8*0x4000, 0x01, 0x02, 0x00, "MBC1")
	// Bank 2's first byte, to distinguish it from bank 1.
	data[2*0x4000] = 0x77
	c, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Write8(0x2000, 0x02)
	if got := c.Read8(0x4000); got != 0x77 {
		t.Errorf("Expected bank 2 byte 0x77 at 0x4000, got 0x%02X", got)
	}

	c.Write8(0x2000, 0x00) // coerced to bank 1
	if got := c.romBank(); got != 1 {
		t.Errorf("Expected writing lower=0 to coerce to bank 1, got %d", got)
	}
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	data := newROMImage(2*0x4000, 0x03, 0x00, 0x02, "MBC1RAM")
	c, _ := Load(data)
	if got := c.Read8(0xA000); got != 0xFF {
		t.Errorf("Expected 0xFF from disabled external RAM, got 0x%02X", got)
	}
}

func TestMBC1RAMEnableAndWrite(t *testing.T) {
	data := newROMImage(2*0x4000, 0x03, 0x00, 0x02, "MBC1RAM")
	c, _ := Load(data)
	c.Write8(0x0000, 0x0A) // enable RAM
	c.Write8(0xA000, 0x42)
	if got := c.Read8(0xA000); got != 0x42 {
		t.Errorf("Expected 0x42 read back from external RAM, got 0x%02X", got)
	}
}

func TestMBC1RAMBankSelectInRAMMode(t *testing.T) {
	data := newROMImage(2*0x4000, 0x03, 0x00, 0x03, "MBC1RAM")
	c, _ := Load(data)
	c.Write8(0x0000, 0x0A)
	c.Write8(0x6000, 0x01) // RAM banking mode
	c.Write8(0x4000, 0x02) // select RAM bank 2
	c.Write8(0xA000, 0x99)

	c.Write8(0x4000, 0x00) // switch to bank 0
	if got := c.Read8(0xA000); got == 0x99 {
		t.Errorf("Expected bank 0 to be distinct from bank 2's data")
	}

	c.Write8(0x4000, 0x02)
	if got := c.Read8(0xA000); got != 0x99 {
		t.Errorf("Expected bank 2 to still hold 0x99, got 0x%02X", got)
	}
}

func TestNewLicenseParsedWhenOldCodeIs0x33(t *testing.T) {
	data := newROMImage(0x8000, 0x00, 0x00, 0x00, "NEWLIC")
	data[0x14B] = 0x33
	copy(data[0x144:], "01")
	c, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Header.HasNewLicense || c.Header.NewLicenseCode != "01" {
		t.Errorf("Expected new-license code 01, got %+v", c.Header)
	}
}
