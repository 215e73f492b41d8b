package ppu

import "testing"

// fakeBus is a flat 16KiB PPU address space for driving the pipeline
// directly in tests, without going through internal/memory's mirroring.
type fakeBus struct {
	data [0x4000]uint8
}

func (b *fakeBus) Read(addr uint16) uint8         { return b.data[addr&0x3FFF] }
func (b *fakeBus) Write(addr uint16, value uint8) { b.data[addr&0x3FFF] = value }

func TestRegisterOpenBusOnWriteOnlyRegisters(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2000, 0x81)
	if got := p.ReadRegister(0x2000); got != 0x81 {
		t.Errorf("ReadRegister($2000) = %#x, want latched 0x81", got)
	}
}

func TestStatusReadClearsVBlankAndToggle(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2006, 0x3F) // first write of a pair sets w=true
	p.status |= statusVBlank
	status := p.ReadRegister(0x2002)
	if status&statusVBlank == 0 {
		t.Error("expected vblank bit set in the returned status byte")
	}
	if p.status&statusVBlank != 0 {
		t.Error("vblank flag should be cleared by the $2002 read")
	}
	if p.w {
		t.Error("write toggle should be cleared by the $2002 read")
	}
}

func TestOAMDataReadWriteAutoIncrement(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0xAB)
	if p.oamAddr != 0x11 {
		t.Errorf("oamAddr = %#x, want 0x11 after auto-increment", p.oamAddr)
	}
	p.WriteRegister(0x2003, 0x10)
	if got := p.ReadRegister(0x2004); got != 0xAB {
		t.Errorf("OAMDATA read = %#x, want 0xAB", got)
	}
}

func TestPPUAddrLatchAndDataAutoIncrement(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	bus.data[0x0010] = 0x55
	bus.data[0x0011] = 0x66

	p.WriteRegister(0x2006, 0x00) // high byte
	p.WriteRegister(0x2006, 0x10) // low byte -> v = 0x0010

	p.ReadRegister(0x2007) // primes the read buffer, returns stale data
	first := p.ReadRegister(0x2007)
	if first != 0x55 {
		t.Errorf("first buffered PPUDATA read = %#x, want 0x55", first)
	}
	second := p.ReadRegister(0x2007)
	if second != 0x66 {
		t.Errorf("second buffered PPUDATA read = %#x, want 0x66", second)
	}
}

func TestPPUDataPaletteReadIsUnbuffered(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	bus.data[0x3F00] = 0x20

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)
	if got := p.ReadRegister(0x2007); got != 0x20 {
		t.Errorf("palette PPUDATA read = %#x, want 0x20 (unbuffered)", got)
	}
}

func TestPPUDataWriteIncrementBy32(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2000, ctrlVRAMIncrement)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x42)
	if p.v != 32 {
		t.Errorf("v = %#x, want 0x20 after a +32 PPUDATA write", p.v)
	}
	if bus.data[0x0000] != 0x42 {
		t.Errorf("bus.data[0] = %#x, want 0x42", bus.data[0x0000])
	}
}

func TestVBlankSetAndNMIRaisedAtScanline241Dot1(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2000, ctrlNMIEnable)

	// Advance exactly to scanline 241, dot 1 — the dot vblank is set at.
	p.Tick(241*341 + 1)

	if p.scanline != 241 || p.dot != 1 {
		t.Fatalf("scanline/dot = %d/%d, want 241/1", p.scanline, p.dot)
	}
	if p.status&statusVBlank == 0 {
		t.Error("expected vblank flag set at scanline 241 dot 1")
	}
	if !p.NMIPending() {
		t.Error("expected NMI to be raised at vblank entry")
	}
}

func TestVBlankClearedAtPreRenderDot1(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.Tick(261*341 + 1) // exactly scanline 261, dot 1 — the pre-render flag-clear point

	if p.scanline != 261 || p.dot != 1 {
		t.Fatalf("scanline/dot = %d/%d, want 261/1", p.scanline, p.dot)
	}
	if p.status&statusVBlank != 0 {
		t.Error("expected vblank flag cleared at pre-render dot 1")
	}
}

func TestFrameWrapsAfterFullFrame(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.Tick(262 * 341)
	if p.scanline != 0 || p.dot != 0 {
		t.Errorf("scanline/dot = %d/%d, want 0/0 after a full frame", p.scanline, p.dot)
	}
	if p.frame != 1 {
		t.Errorf("frame = %d, want 1", p.frame)
	}
}

func TestBackgroundPixelPipeline(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)

	// Tile 0 at nametable (0,0) covers screen pixels (0..7, 0..7).
	bus.data[0x2000] = 0x01 // tile index 1
	// Pattern table 0, tile 1: low/high planes for row 0 select color 3
	// at bit 7 (pixelInTileX == 0).
	bus.data[0x0010] = 0x80 // low plane row 0, bit7 = 1
	bus.data[0x0018] = 0x80 // high plane row 0, bit7 = 1
	// Attribute byte selects palette group 0 for the top-left quadrant.
	bus.data[0x23C0] = 0x00
	bus.data[0x3F00+4*0+3] = 0x16 // palette 0, color 3

	p.renderPixel(0, 0)
	if got := p.frameBuffer[0]; got != 0x16 {
		t.Errorf("frameBuffer[0] = %#x, want 0x16", got)
	}
}

func TestBackgroundPixelZeroUsesBackdropColor(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	bus.data[0x3F00] = 0x0F // universal background color

	p.renderPixel(10, 10)
	if got := p.frameBuffer[10*256+10]; got != 0x0F {
		t.Errorf("frameBuffer = %#x, want 0x0F backdrop", got)
	}
}
