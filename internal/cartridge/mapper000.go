package cartridge

// mapper000 implements NROM: no bank switching, a 16KB PRG bank mirrored
// across the full 32KB CPU window when only one bank is present, and either
// CHR-ROM or CHR-RAM depending on the header's declared CHR bank count.
type mapper000 struct {
	cart     *Cartridge
	prgBanks int
}

func newMapper000(cart *Cartridge) *mapper000 {
	return &mapper000{
		cart:     cart,
		prgBanks: len(cart.prgROM) / prgBankSize,
	}
}

// ReadPRG returns the byte at addr within the $8000-$FFFF PRG window,
// mirroring a single 16KB bank across the full 32KB window. Addresses
// below $8000 read as $FF; the CPU Bus never passes them, since it treats
// $4020-$7FFF as a pure open-bus stub (NROM has no SRAM/expansion hardware
// in this core).
func (m *mapper000) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0xff
	}
	offset := addr - 0x8000
	if m.prgBanks == 1 {
		offset &= 0x3fff
	}
	if int(offset) < len(m.cart.prgROM) {
		return m.cart.prgROM[offset]
	}
	return 0
}

// WritePRG is a no-op: PRG-ROM is read-only and NROM has no SRAM.
func (m *mapper000) WritePRG(addr uint16, value uint8) {}

func (m *mapper000) ReadCHR(addr uint16) uint8 {
	if addr < 0x2000 && int(addr) < len(m.cart.chrROM) {
		return m.cart.chrROM[addr]
	}
	return 0
}

func (m *mapper000) WriteCHR(addr uint16, value uint8) {
	if m.cart.hasCHRRAM && addr < 0x2000 && int(addr) < len(m.cart.chrROM) {
		m.cart.chrROM[addr] = value
	}
}
