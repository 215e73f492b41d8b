// Package ppu implements the NES Picture Processing Unit's background
// rendering core: the $2000-$2007 register surface, the 262-scanline by
// 341-dot timing machine, and the five-step background pixel pipeline.
package ppu

// Bus is the 14-bit PPU address space (pattern tables, nametables, palette
// RAM) that the rendering pipeline and register reads/writes go through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	ctrlNMIEnable     = 0x80
	ctrlBGPatternTbl  = 0x10
	ctrlVRAMIncrement = 0x04

	statusVBlank      = 0x80
	statusSprite0Hit  = 0x40
	statusSpriteOver  = 0x20
	statusOpenBusMask = 0x1F
)

// PPU is the NES 2C02's register and timing state, producing a palette-index
// framebuffer. Sprites and scroll-register-driven scanning are out of scope:
// the background pipeline always reads the nametable at $2000 directly from
// screen coordinates (see SPEC_FULL.md, REDESIGN FLAGS).
type PPU struct {
	ctrl    uint8 // $2000
	mask    uint8 // $2001
	status  uint8 // $2002 (top 3 bits only; rest always 0)
	oamAddr uint8 // $2003

	v uint16 // current VRAM address (14 bits)
	w bool   // write toggle shared by $2005/$2006

	readBuffer uint8 // buffered $2007 read for non-palette addresses
	latch      uint8 // last byte written to any register or read from $2002/$2004/$2007; returned by open-bus reads

	oam [256]uint8

	bus Bus

	scanline int
	dot      int
	frame    uint64

	nmiPending bool

	frameBuffer [256 * 240]uint8
}

// New constructs a PPU wired to the given PPU bus.
func New(bus Bus) *PPU {
	p := &PPU{bus: bus}
	p.Reset()
	return p
}

// Reset clears all register and timing state. The frame buffer is cleared
// to palette index 0.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v = 0
	p.w = false
	p.readBuffer = 0
	p.latch = 0
	for i := range p.oam {
		p.oam[i] = 0
	}
	p.scanline = 0
	p.dot = 0
	p.frame = 0
	p.nmiPending = false
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// ReadRegister reads CPU-visible register addr (already folded to
// $2000-$2007 by the caller).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2002:
		value := (p.status & 0xE0) | (p.latch & statusOpenBusMask)
		p.status &^= statusVBlank
		p.w = false
		p.latch = value
		return value
	case 0x2004:
		value := p.oam[p.oamAddr]
		p.latch = value
		return value
	case 0x2007:
		value := p.readPPUData()
		p.latch = value
		return value
	default: // $2000, $2001, $2003, $2005, $2006: write-only, open-bus read
		return p.latch
	}
}

// WriteRegister writes CPU-visible register addr (already folded to
// $2000-$2007 by the caller).
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	p.latch = value
	switch addr {
	case 0x2000:
		p.ctrl = value
	case 0x2001:
		p.mask = value
	case 0x2002:
		// read-only; writes ignored
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		// X/Y scroll: the written values are not stored, since the
		// non-scrolling background pipeline never reads them (see
		// DESIGN.md). Only the write toggle advances, so $2006 sequencing
		// downstream of a $2005 write stays correct.
		p.w = !p.w
	case 0x2006:
		if !p.w {
			p.v = (p.v & 0x00FF) | (uint16(value&0x3F) << 8)
		} else {
			p.v = (p.v & 0xFF00) | uint16(value)
		}
		p.w = !p.w
	case 0x2007:
		p.writePPUData(value)
	}
}

// WriteOAM writes OAM directly at addr, used by OAM DMA.
func (p *PPU) WriteOAM(addr uint8, value uint8) {
	p.oam[addr] = value
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&ctrlVRAMIncrement != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readPPUData() uint8 {
	var data uint8
	if p.v >= 0x3F00 {
		data = p.bus.Read(p.v)
		p.readBuffer = p.bus.Read(p.v - 0x1000)
	} else {
		data = p.readBuffer
		p.readBuffer = p.bus.Read(p.v)
	}
	p.v = (p.v + p.vramIncrement()) & 0x3FFF
	return data
}

func (p *PPU) writePPUData(value uint8) {
	p.bus.Write(p.v, value)
	p.v = (p.v + p.vramIncrement()) & 0x3FFF
}

// NMIPending reports whether the PPU has raised NMI since the last call, and
// clears the flag. The caller (the bus, wiring PPU to CPU) is expected to
// poll this once per tick and forward true transitions to the CPU.
func (p *PPU) NMIPending() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// FrameCount reports the number of frames completed since Reset.
func (p *PPU) FrameCount() uint64 { return p.frame }

// Scanline and Dot report the current position in the timing machine,
// primarily for tests.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

// FrameBuffer returns a read-only view of the completed palette-index
// framebuffer, ready to be lent to the presenter.
func (p *PPU) FrameBuffer() *[256 * 240]uint8 {
	return &p.frameBuffer
}

// Tick advances the PPU by n dots, rendering background pixels on visible
// scanlines and driving the vblank/NMI timing machine.
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	if p.scanline < 240 && p.dot < 256 {
		p.renderPixel(p.dot, p.scanline)
	}

	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frame++
		}
	}

	switch {
	case p.scanline == 241 && p.dot == 1:
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiPending = true
		}
	case p.scanline == 261 && p.dot == 1:
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOver
	}
}

// renderPixel computes and stores the background color for screen
// coordinate (x,y) per the five-step pipeline: nametable fetch, pattern
// fetch, plane combine, attribute fetch, final palette lookup.
func (p *PPU) renderPixel(x, y int) {
	tileX := x / 8
	tileY := y / 8

	nametableAddr := uint16(0x2000 + tileY*32 + tileX)
	tileIndex := p.bus.Read(nametableAddr)

	var patternBase uint16
	if p.ctrl&ctrlBGPatternTbl != 0 {
		patternBase = 0x1000
	}
	patternAddr := patternBase + uint16(tileIndex)*16 + uint16(y%8)
	low := p.bus.Read(patternAddr)
	high := p.bus.Read(patternAddr + 8)

	bit := uint(7 - x%8)
	pixel := ((high>>bit)&1)<<1 | ((low >> bit) & 1)

	attrAddr := uint16(0x23C0 + (y/32)*8 + (x / 32))
	attrByte := p.bus.Read(attrAddr)
	shift := 0
	if y&16 != 0 {
		shift += 4
	}
	if x&16 != 0 {
		shift += 2
	}
	selector := (attrByte >> uint(shift)) & 0x03

	var paletteAddr uint16
	if pixel == 0 {
		paletteAddr = 0x3F00
	} else {
		paletteAddr = 0x3F00 + uint16(selector)*4 + uint16(pixel)
	}
	colorIndex := p.bus.Read(paletteAddr) & 0x3F

	p.frameBuffer[y*256+x] = colorIndex
}
