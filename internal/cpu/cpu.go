// Package cpu implements a 6502 interpreter for the NES: the 151 official
// opcodes, thirteen addressing modes, and stack/interrupt discipline.
package cpu

import "fmt"

// AddressingMode identifies how an instruction's operand is resolved.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	zeroPageMask = 0xff
	pageMask     = 0xff00

	nmiVector   = 0xfffa
	resetVector = 0xfffc
)

// Instruction is one entry of the 256-slot opcode table. Unofficial opcodes
// leave their slot nil.
type Instruction struct {
	Name   string
	Opcode uint8
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// Bus is the memory interface the CPU reads instructions and operands
// through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU is a 6502 interpreter holding the full register set and the static
// opcode dispatch table.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C bool
	Z bool
	I bool
	D bool
	V bool
	N bool

	bus    Bus
	cycles uint64

	instructions [256]*Instruction

	nmiPending  bool
	nmiPrevious bool

	onUnrecognized UnrecognizedOpcodeFunc
	strictDecode   bool
}

// UnrecognizedOpcodeFunc is invoked when Step decodes an opcode with no
// table entry, before the strict-decode check is applied.
type UnrecognizedOpcodeFunc func(opcode uint8, pc uint16)

// SetUnrecognizedOpcodeHandler installs a callback for unrecognized
// opcodes, letting the caller log a diagnostic without the CPU package
// depending on a logging backend.
func (cpu *CPU) SetUnrecognizedOpcodeHandler(fn UnrecognizedOpcodeFunc) {
	cpu.onUnrecognized = fn
}

// SetStrictDecode controls whether an unrecognized opcode panics instead of
// being treated as a zero-cycle no-op.
func (cpu *CPU) SetStrictDecode(strict bool) {
	cpu.strictDecode = strict
}

// New constructs a CPU wired to bus. Call Reset before the first Step.
func New(bus Bus) *CPU {
	cpu := &CPU{bus: bus, SP: 0xfd}
	cpu.initInstructions()
	return cpu
}

// Reset loads PC from the reset vector and sets the power-up register
// state. No dummy bus cycles are modeled (Non-goal: sub-instruction cycle
// accuracy).
func (cpu *CPU) Reset() {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = 0xfd
	cpu.C, cpu.Z, cpu.D, cpu.V, cpu.N = false, false, false, false, false
	cpu.I = true
	cpu.cycles = 0
	cpu.PC = cpu.readWord(resetVector)
}

// SetNMI updates the NMI input line. NMI is edge-triggered: a true→false
// transition latches a pending NMI that Step services before its next
// fetch.
func (cpu *CPU) SetNMI(state bool) {
	if cpu.nmiPrevious && !state {
		cpu.nmiPending = true
	}
	cpu.nmiPrevious = state
}

// Cycles reports the running total of cycles consumed since Reset.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Step services a pending NMI if one is latched and returns the 7 cycles of
// the interrupt sequence without executing an instruction; otherwise it
// executes exactly one instruction and returns its baseline cycle count.
func (cpu *CPU) Step() uint8 {
	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.serviceNMI()
		return 7
	}

	opcode := cpu.bus.Read(cpu.PC)
	instr := cpu.instructions[opcode]
	if instr == nil {
		if cpu.onUnrecognized != nil {
			cpu.onUnrecognized(opcode, cpu.PC)
		}
		if cpu.strictDecode {
			panic(fmt.Sprintf("cpu: unrecognized opcode %#02x at %#04x", opcode, cpu.PC))
		}
		// Unrecognized opcode: treated as a zero-cycle NOP rather than a
		// fatal error outside strict mode.
		cpu.PC++
		return 0
	}

	cpu.PC++
	address := cpu.getOperandAddress(instr.Mode)
	cpu.execute(opcode, address)

	cpu.cycles += uint64(instr.Cycles)
	return instr.Cycles
}

func (cpu *CPU) serviceNMI() {
	cpu.pushWord(cpu.PC)
	cpu.pushStatus(false)
	cpu.I = true
	cpu.PC = cpu.readWord(nmiVector)
	cpu.cycles += 7
}

func (cpu *CPU) readWord(addr uint16) uint16 {
	lo := uint16(cpu.bus.Read(addr))
	hi := uint16(cpu.bus.Read(addr + 1))
	return lo | hi<<8
}

// getOperandAddress resolves the effective address for mode, advancing PC
// past the operand bytes. Implied/Accumulator modes have no effective
// address; Relative returns the branch target.
func (cpu *CPU) getOperandAddress(mode AddressingMode) uint16 {
	switch mode {
	case Implied, Accumulator:
		return 0

	case Immediate:
		addr := cpu.PC
		cpu.PC++
		return addr

	case ZeroPage:
		addr := uint16(cpu.bus.Read(cpu.PC))
		cpu.PC++
		return addr

	case ZeroPageX:
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		return uint16((base + cpu.X) & zeroPageMask)

	case ZeroPageY:
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		return uint16((base + cpu.Y) & zeroPageMask)

	case Relative:
		offset := int8(cpu.bus.Read(cpu.PC))
		cpu.PC++
		return uint16(int32(cpu.PC) + int32(offset))

	case Absolute:
		addr := cpu.readWord(cpu.PC)
		cpu.PC += 2
		return addr

	case AbsoluteX:
		base := cpu.readWord(cpu.PC)
		cpu.PC += 2
		return base + uint16(cpu.X)

	case AbsoluteY:
		base := cpu.readWord(cpu.PC)
		cpu.PC += 2
		return base + uint16(cpu.Y)

	case Indirect: // JMP only; reproduces the page-boundary bug
		ptr := cpu.readWord(cpu.PC)
		cpu.PC += 2
		if ptr&zeroPageMask == zeroPageMask {
			lo := uint16(cpu.bus.Read(ptr))
			hi := uint16(cpu.bus.Read(ptr & pageMask))
			return hi<<8 | lo
		}
		return cpu.readWord(ptr)

	case IndexedIndirect: // (zp,X)
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		ptr := (base + cpu.X) & zeroPageMask
		lo := uint16(cpu.bus.Read(uint16(ptr)))
		hi := uint16(cpu.bus.Read(uint16((ptr + 1) & zeroPageMask)))
		return hi<<8 | lo

	case IndirectIndexed: // (zp),Y
		ptr := uint16(cpu.bus.Read(cpu.PC))
		cpu.PC++
		lo := uint16(cpu.bus.Read(ptr))
		hi := uint16(cpu.bus.Read((ptr + 1) & zeroPageMask))
		return (hi<<8 | lo) + uint16(cpu.Y)

	default:
		return 0
	}
}

func (cpu *CPU) push(value uint8) {
	cpu.bus.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.bus.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	return hi<<8 | lo
}

func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// statusByte packs the flags into the conventional NV-BDIZC-ordered byte.
// The break bit has no corresponding CPU field — the 6502 synthesizes it
// only at push time — so a plain status read always observes it as 0; use
// pushStatus to push with B set.
func (cpu *CPU) statusByte() uint8 {
	var s uint8
	if cpu.N {
		s |= nFlagMask
	}
	if cpu.V {
		s |= vFlagMask
	}
	s |= unusedMask
	if cpu.D {
		s |= dFlagMask
	}
	if cpu.I {
		s |= iFlagMask
	}
	if cpu.Z {
		s |= zFlagMask
	}
	if cpu.C {
		s |= cFlagMask
	}
	return s
}

// pushStatus pushes the status byte with the break bit set according to
// context: true for PHP/BRK, false for a hardware NMI/IRQ sequence.
func (cpu *CPU) pushStatus(breakBit bool) {
	s := cpu.statusByte()
	if breakBit {
		s |= bFlagMask
	}
	cpu.push(s)
}

// setStatusByte unpacks flags from a byte (PLP/RTI). Bit 4 (the break bit)
// is ignored, matching real 6502 behavior: it is never a stored flag.
func (cpu *CPU) setStatusByte(s uint8) {
	cpu.N = s&nFlagMask != 0
	cpu.V = s&vFlagMask != 0
	cpu.D = s&dFlagMask != 0
	cpu.I = s&iFlagMask != 0
	cpu.Z = s&zFlagMask != 0
	cpu.C = s&cFlagMask != 0
}

// StatusByte exposes the packed processor status (break bit clear) for
// tests and tooling.
func (cpu *CPU) StatusByte() uint8 { return cpu.statusByte() }
