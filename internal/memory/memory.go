// Package memory implements the NES CPU and PPU address-space mappings:
// RAM mirroring, the PPU-register forwarding window, open-bus behavior for
// unmapped regions, and PPU-side nametable/palette mirroring.
package memory

// PPURegisters is the subset of the PPU the CPU bus forwards $2000-$3FFF to.
type PPURegisters interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// Cartridge is the subset of cartridge.Cartridge both buses depend on.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
}

// Bus is the 64KiB CPU address space.
type Bus struct {
	ram       [0x800]uint8
	ppu       PPURegisters
	cartridge Cartridge

	// openBus is the last byte successfully read, returned verbatim by
	// reads that land in an unmapped region ($4000-$7FFF on NROM).
	openBus uint8
}

// NewBus builds a CPU bus wired to the given PPU register surface and
// cartridge.
func NewBus(ppu PPURegisters, cart Cartridge) *Bus {
	return &Bus{ppu: ppu, cartridge: cart}
}

// Read returns the byte at addr, applying RAM mirroring, PPU-register
// forwarding, and open-bus fallback for the $4000-$7FFF open-bus stub.
func (b *Bus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = b.ram[addr&0x07ff]
	case addr < 0x4000:
		value = b.ppu.ReadRegister(0x2000 + (addr & 0x0007))
	case addr < 0x8000:
		// $4000-$401F (APU/IO) and $4020-$7FFF (expansion/SRAM on NROM)
		// are both open-bus stubs in this core: no APU, no mapper SRAM
		// beyond what NROM itself exposes through PRG.
		value = b.openBus
	default:
		value = b.cartridge.ReadPRG(addr)
	}
	b.openBus = value
	return value
}

// Write stores a byte at addr, forwarding to PPU registers and ignoring
// writes to read-only or unmapped regions.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07ff] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+(addr&0x0007), value)
	case addr < 0x8000:
		// open-bus stub; writes have no effect
	default:
		b.cartridge.WritePRG(addr, value)
	}
}

// ReadWord reads a little-endian 16-bit value from two independent byte
// reads at addr and addr+1.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return lo | hi<<8
}

// PPUBus is the 16KiB PPU address space: pattern tables, nametables, and
// palette RAM.
type PPUBus struct {
	vram       [0x800]uint8 // 2KiB, mirrored per the uniform "mod 2KiB" rule
	paletteRAM [32]uint8
	cartridge  Cartridge
}

// NewPPUBus builds a PPU bus over the given cartridge's CHR memory.
func NewPPUBus(cart Cartridge) *PPUBus {
	pb := &PPUBus{cartridge: cart}
	for i := 0; i < 32; i += 4 {
		pb.paletteRAM[i] = 0x0f
	}
	return pb
}

// Read returns the byte at the given 14-bit PPU address (the top two bits
// of addr are ignored).
func (pb *PPUBus) Read(addr uint16) uint8 {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		return pb.cartridge.ReadCHR(addr)
	case addr < 0x3000:
		return pb.vram[nametableIndex(addr)]
	case addr < 0x3f00:
		return pb.vram[nametableIndex(addr-0x1000)]
	default:
		return pb.paletteRAM[paletteIndex(addr)]
	}
}

// Write stores a byte at the given 14-bit PPU address.
func (pb *PPUBus) Write(addr uint16, value uint8) {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		pb.cartridge.WriteCHR(addr, value)
	case addr < 0x3000:
		pb.vram[nametableIndex(addr)] = value
	case addr < 0x3f00:
		pb.vram[nametableIndex(addr-0x1000)] = value
	default:
		pb.paletteRAM[paletteIndex(addr)] = value
	}
}

// nametableIndex applies the simple "mirror to 2KiB" rule: the cartridge's
// declared mirroring layout is not consulted (see DESIGN.md, Open
// Question 2).
func nametableIndex(addr uint16) uint16 {
	return (addr - 0x2000) % 0x0800
}

// paletteIndex applies the 32-byte repeat and the $3F10/14/18/1C aliases.
func paletteIndex(addr uint16) uint16 {
	index := (addr - 0x3f00) & 0x1f
	if index&0x13 == 0x10 { // 0x10, 0x14, 0x18, 0x1c
		index &= 0x0f
	}
	return index
}
