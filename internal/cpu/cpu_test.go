package cpu

import "testing"

// flatMemory is a simple 64KiB byte array satisfying the Bus interface,
// used to drive the CPU directly in tests without a real PPU/cartridge.
type flatMemory struct {
	data [0x10000]uint8
}

func (m *flatMemory) Read(addr uint16) uint8         { return m.data[addr] }
func (m *flatMemory) Write(addr uint16, value uint8) { m.data[addr] = value }

func (m *flatMemory) setBytes(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.data[addr+uint16(i)] = b
	}
}

func TestResetVector(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0xc0)
	c := New(mem)
	c.Reset()
	if c.PC != 0xc000 {
		t.Errorf("PC = %#x, want 0xc000", c.PC)
	}
	if c.SP != 0xfd {
		t.Errorf("SP = %#x, want 0xfd", c.SP)
	}
	if !c.I {
		t.Error("I flag should be set after reset")
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("registers not zeroed: A=%d X=%d Y=%d", c.A, c.X, c.Y)
	}
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0x8000, 0xA9, 0x00)
	c := New(mem)
	c.Reset()
	cycles := c.Step()
	if c.A != 0 {
		t.Errorf("A = %#x, want 0", c.A)
	}
	if !c.Z {
		t.Error("Z flag should be set")
	}
	if c.N {
		t.Error("N flag should be clear")
	}
	if c.PC != 0x8002 {
		t.Errorf("PC = %#x, want 0x8002", c.PC)
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0x8000, 0x69, 0x50) // ADC #$50
	c := New(mem)
	c.Reset()
	c.A = 0x50
	c.C = false
	c.Step()
	if c.A != 0xa0 {
		t.Errorf("A = %#x, want 0xa0", c.A)
	}
	if !c.N {
		t.Error("N should be set")
	}
	if !c.V {
		t.Error("V should be set (signed overflow)")
	}
	if c.C {
		t.Error("C should be clear")
	}
	if c.Z {
		t.Error("Z should be clear")
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0x8000, 0x20, 0x34, 0x12) // JSR $1234
	mem.setBytes(0x1234, 0x60)             // RTS
	c := New(mem)
	c.Reset()
	c.Step() // JSR
	if c.PC != 0x1234 {
		t.Errorf("PC after JSR = %#x, want 0x1234", c.PC)
	}
	if c.SP != 0xfb {
		t.Errorf("SP after JSR = %#x, want 0xfb", c.SP)
	}
	if mem.data[0x0100|uint16(0xfd)] != 0x80 || mem.data[0x0100|uint16(0xfc)] != 0x02 {
		t.Errorf("stack contents wrong: %#x %#x", mem.data[0x01fd], mem.data[0x01fc])
	}
	c.Step() // RTS
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = %#x, want 0x8003", c.PC)
	}
	if c.SP != 0xfd {
		t.Errorf("SP after RTS = %#x, want 0xfd", c.SP)
	}
}

func TestIndirectJMPPageBoundaryBug(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0x8000, 0x6C, 0xFF, 0x10) // JMP ($10FF)
	mem.data[0x10ff] = 0x34
	mem.data[0x1000] = 0x12
	mem.data[0x1100] = 0x56
	c := New(mem)
	c.Reset()
	c.Step()
	if c.PC != 0x1234 {
		t.Errorf("PC = %#x, want 0x1234 (page-boundary bug)", c.PC)
	}
}

func TestBranchTakenCrossesPC(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0x8000, 0xD0, 0x05) // BNE +5
	c := New(mem)
	c.Reset()
	c.Z = false
	c.Step()
	if c.PC != 0x8007 {
		t.Errorf("PC = %#x, want 0x8007", c.PC)
	}
}

func TestStackPushPullRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := New(mem)
	c.SP = 0xfd
	startSP := c.SP
	c.push(0x42)
	if got := c.pop(); got != 0x42 {
		t.Errorf("pop() = %#x, want 0x42", got)
	}
	if c.SP != startSP {
		t.Errorf("SP = %#x, want %#x", c.SP, startSP)
	}
}

func TestNMIServicedBetweenInstructions(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.setBytes(0xfffa, 0x00, 0x90) // NMI vector -> $9000
	mem.setBytes(0x8000, 0xEA)       // NOP
	c := New(mem)
	c.Reset()
	c.SetNMI(true)
	c.SetNMI(false) // falling edge latches pending NMI
	c.Step()         // services NMI instead of executing NOP
	if c.PC != 0x9000 {
		t.Errorf("PC = %#x, want 0x9000 (NMI vector)", c.PC)
	}
	if !c.I {
		t.Error("I should be set after NMI entry")
	}
}

func TestUnrecognizedOpcodeIsZeroCycleNOP(t *testing.T) {
	mem := &flatMemory{}
	mem.setBytes(0xfffc, 0x00, 0x80)
	mem.data[0x8000] = 0x02 // not a defined official opcode
	c := New(mem)
	c.Reset()
	cycles := c.Step()
	if cycles != 0 {
		t.Errorf("cycles = %d, want 0", cycles)
	}
	if c.PC != 0x8001 {
		t.Errorf("PC = %#x, want 0x8001", c.PC)
	}
}
