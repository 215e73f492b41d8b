// Package bus wires the CPU, PPU, and cartridge together into the outer
// step loop: one CPU instruction, then three PPU dots per CPU cycle, with
// NMI delivery and OAM DMA as bus-level concerns.
package bus

import (
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/memory"
	"nesgo/internal/ppu"
)

// Cartridge is the subset of cartridge.Cartridge the machine depends on.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
}

const oamDMARegister = 0x4014

// Machine owns one CPU, one PPU, their address buses, and a loaded
// cartridge, and drives the instruction/dot step loop between them.
// Machine itself satisfies cpu.Bus so it can intercept $4014 (OAM DMA)
// ahead of the CPU bus's open-bus stub.
type Machine struct {
	CPU *cpu.CPU
	PPU *ppu.PPU

	cpuBus *memory.Bus
	ppuBus *memory.PPUBus
	cart   Cartridge

	cpuCycles uint64
	frame     uint64

	dmaStallCycles uint64
}

// New builds a Machine around the given cartridge and resets it to power-on
// state.
func New(cart Cartridge) *Machine {
	ppuBus := memory.NewPPUBus(cart)
	p := ppu.New(ppuBus)
	cpuBus := memory.NewBus(p, cart)

	m := &Machine{
		PPU:    p,
		ppuBus: ppuBus,
		cpuBus: cpuBus,
		cart:   cart,
	}
	m.CPU = cpu.New(m)
	m.Reset()
	return m
}

// Read implements cpu.Bus, delegating to the CPU address space.
func (m *Machine) Read(addr uint16) uint8 {
	return m.cpuBus.Read(addr)
}

// Write implements cpu.Bus. $4014 triggers OAM DMA; everything else
// delegates to the CPU address space.
func (m *Machine) Write(addr uint16, value uint8) {
	if addr == oamDMARegister {
		m.triggerOAMDMA(value)
		return
	}
	m.cpuBus.Write(addr, value)
}

// Reset reinitializes CPU and PPU state and reloads PC from the reset
// vector.
func (m *Machine) Reset() {
	m.PPU.Reset()
	m.CPU.Reset()
	m.cpuCycles = 0
	m.frame = 0
	m.dmaStallCycles = 0
}

// triggerOAMDMA copies the 256-byte page starting at sourcePage<<8 from the
// CPU address space into OAM, and stalls the CPU for 513 or 514 cycles
// (514 if the transfer starts on an odd CPU cycle).
func (m *Machine) triggerOAMDMA(sourcePage uint8) {
	base := uint16(sourcePage) << 8
	for i := 0; i < 256; i++ {
		m.PPU.WriteOAM(uint8(i), m.cpuBus.Read(base+uint16(i)))
	}
	if m.cpuCycles%2 == 1 {
		m.dmaStallCycles = 514
	} else {
		m.dmaStallCycles = 513
	}
}

// Step executes one CPU instruction (or consumes one DMA stall cycle),
// advances the PPU by three dots per CPU cycle consumed, and forwards any
// NMI the PPU raised to the CPU, which services it at the start of its next
// Step. It returns true if a frame was completed this step.
func (m *Machine) Step() bool {
	var cycles uint8
	if m.dmaStallCycles > 0 {
		m.dmaStallCycles--
		cycles = 1
	} else {
		cycles = m.CPU.Step()
	}
	m.cpuCycles += uint64(cycles)

	scanlineBefore := m.PPU.Scanline()
	m.PPU.Tick(int(cycles) * 3)
	if m.PPU.NMIPending() {
		m.CPU.SetNMI(true)
		m.CPU.SetNMI(false)
	}

	frameCompleted := m.PPU.Scanline() < scanlineBefore
	if frameCompleted {
		m.frame = m.PPU.FrameCount()
	}
	return frameCompleted
}

// RunFrame steps the machine until a frame boundary is crossed.
func (m *Machine) RunFrame() {
	for !m.Step() {
	}
}

// SetUnrecognizedOpcodeHandler installs a diagnostic callback for decode
// failures, passed through to the CPU.
func (m *Machine) SetUnrecognizedOpcodeHandler(fn cpu.UnrecognizedOpcodeFunc) {
	m.CPU.SetUnrecognizedOpcodeHandler(fn)
}

// SetStrictDecode toggles whether an unrecognized opcode panics instead of
// behaving as a zero-cycle no-op.
func (m *Machine) SetStrictDecode(strict bool) {
	m.CPU.SetStrictDecode(strict)
}

// FrameBuffer returns the PPU's current palette-index framebuffer.
func (m *Machine) FrameBuffer() *[256 * 240]uint8 {
	return m.PPU.FrameBuffer()
}

// FrameCount reports the number of frames completed since Reset.
func (m *Machine) FrameCount() uint64 { return m.frame }

// CycleCount reports the number of CPU cycles consumed since Reset.
func (m *Machine) CycleCount() uint64 { return m.cpuCycles }

var _ Cartridge = (*cartridge.Cartridge)(nil)
