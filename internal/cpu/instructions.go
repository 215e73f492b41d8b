package cpu

// initInstructions populates the 256-entry opcode table with the 151
// official 6502 instructions. Unofficial opcodes are deliberately left nil.
func (cpu *CPU) initInstructions() {
	add := func(name string, opcode uint8, bytes, cycles uint8, mode AddressingMode) {
		cpu.instructions[opcode] = &Instruction{Name: name, Opcode: opcode, Bytes: bytes, Cycles: cycles, Mode: mode}
	}

	add("LDA", 0xA9, 2, 2, Immediate)
	add("LDA", 0xA5, 2, 3, ZeroPage)
	add("LDA", 0xB5, 2, 4, ZeroPageX)
	add("LDA", 0xAD, 3, 4, Absolute)
	add("LDA", 0xBD, 3, 4, AbsoluteX)
	add("LDA", 0xB9, 3, 4, AbsoluteY)
	add("LDA", 0xA1, 2, 6, IndexedIndirect)
	add("LDA", 0xB1, 2, 5, IndirectIndexed)

	add("LDX", 0xA2, 2, 2, Immediate)
	add("LDX", 0xA6, 2, 3, ZeroPage)
	add("LDX", 0xB6, 2, 4, ZeroPageY)
	add("LDX", 0xAE, 3, 4, Absolute)
	add("LDX", 0xBE, 3, 4, AbsoluteY)

	add("LDY", 0xA0, 2, 2, Immediate)
	add("LDY", 0xA4, 2, 3, ZeroPage)
	add("LDY", 0xB4, 2, 4, ZeroPageX)
	add("LDY", 0xAC, 3, 4, Absolute)
	add("LDY", 0xBC, 3, 4, AbsoluteX)

	add("STA", 0x85, 2, 3, ZeroPage)
	add("STA", 0x95, 2, 4, ZeroPageX)
	add("STA", 0x8D, 3, 4, Absolute)
	add("STA", 0x9D, 3, 5, AbsoluteX)
	add("STA", 0x99, 3, 5, AbsoluteY)
	add("STA", 0x81, 2, 6, IndexedIndirect)
	add("STA", 0x91, 2, 6, IndirectIndexed)

	add("STX", 0x86, 2, 3, ZeroPage)
	add("STX", 0x96, 2, 4, ZeroPageY)
	add("STX", 0x8E, 3, 4, Absolute)

	add("STY", 0x84, 2, 3, ZeroPage)
	add("STY", 0x94, 2, 4, ZeroPageX)
	add("STY", 0x8C, 3, 4, Absolute)

	add("TAX", 0xAA, 1, 2, Implied)
	add("TAY", 0xA8, 1, 2, Implied)
	add("TXA", 0x8A, 1, 2, Implied)
	add("TYA", 0x98, 1, 2, Implied)
	add("TSX", 0xBA, 1, 2, Implied)
	add("TXS", 0x9A, 1, 2, Implied)

	add("PHA", 0x48, 1, 3, Implied)
	add("PLA", 0x68, 1, 4, Implied)
	add("PHP", 0x08, 1, 3, Implied)
	add("PLP", 0x28, 1, 4, Implied)

	add("ADC", 0x69, 2, 2, Immediate)
	add("ADC", 0x65, 2, 3, ZeroPage)
	add("ADC", 0x75, 2, 4, ZeroPageX)
	add("ADC", 0x6D, 3, 4, Absolute)
	add("ADC", 0x7D, 3, 4, AbsoluteX)
	add("ADC", 0x79, 3, 4, AbsoluteY)
	add("ADC", 0x61, 2, 6, IndexedIndirect)
	add("ADC", 0x71, 2, 5, IndirectIndexed)

	add("SBC", 0xE9, 2, 2, Immediate)
	add("SBC", 0xE5, 2, 3, ZeroPage)
	add("SBC", 0xF5, 2, 4, ZeroPageX)
	add("SBC", 0xED, 3, 4, Absolute)
	add("SBC", 0xFD, 3, 4, AbsoluteX)
	add("SBC", 0xF9, 3, 4, AbsoluteY)
	add("SBC", 0xE1, 2, 6, IndexedIndirect)
	add("SBC", 0xF1, 2, 5, IndirectIndexed)

	add("AND", 0x29, 2, 2, Immediate)
	add("AND", 0x25, 2, 3, ZeroPage)
	add("AND", 0x35, 2, 4, ZeroPageX)
	add("AND", 0x2D, 3, 4, Absolute)
	add("AND", 0x3D, 3, 4, AbsoluteX)
	add("AND", 0x39, 3, 4, AbsoluteY)
	add("AND", 0x21, 2, 6, IndexedIndirect)
	add("AND", 0x31, 2, 5, IndirectIndexed)

	add("ORA", 0x09, 2, 2, Immediate)
	add("ORA", 0x05, 2, 3, ZeroPage)
	add("ORA", 0x15, 2, 4, ZeroPageX)
	add("ORA", 0x0D, 3, 4, Absolute)
	add("ORA", 0x1D, 3, 4, AbsoluteX)
	add("ORA", 0x19, 3, 4, AbsoluteY)
	add("ORA", 0x01, 2, 6, IndexedIndirect)
	add("ORA", 0x11, 2, 5, IndirectIndexed)

	add("EOR", 0x49, 2, 2, Immediate)
	add("EOR", 0x45, 2, 3, ZeroPage)
	add("EOR", 0x55, 2, 4, ZeroPageX)
	add("EOR", 0x4D, 3, 4, Absolute)
	add("EOR", 0x5D, 3, 4, AbsoluteX)
	add("EOR", 0x59, 3, 4, AbsoluteY)
	add("EOR", 0x41, 2, 6, IndexedIndirect)
	add("EOR", 0x51, 2, 5, IndirectIndexed)

	add("CMP", 0xC9, 2, 2, Immediate)
	add("CMP", 0xC5, 2, 3, ZeroPage)
	add("CMP", 0xD5, 2, 4, ZeroPageX)
	add("CMP", 0xCD, 3, 4, Absolute)
	add("CMP", 0xDD, 3, 4, AbsoluteX)
	add("CMP", 0xD9, 3, 4, AbsoluteY)
	add("CMP", 0xC1, 2, 6, IndexedIndirect)
	add("CMP", 0xD1, 2, 5, IndirectIndexed)

	add("CPX", 0xE0, 2, 2, Immediate)
	add("CPX", 0xE4, 2, 3, ZeroPage)
	add("CPX", 0xEC, 3, 4, Absolute)

	add("CPY", 0xC0, 2, 2, Immediate)
	add("CPY", 0xC4, 2, 3, ZeroPage)
	add("CPY", 0xCC, 3, 4, Absolute)

	add("INC", 0xE6, 2, 5, ZeroPage)
	add("INC", 0xF6, 2, 6, ZeroPageX)
	add("INC", 0xEE, 3, 6, Absolute)
	add("INC", 0xFE, 3, 7, AbsoluteX)

	add("DEC", 0xC6, 2, 5, ZeroPage)
	add("DEC", 0xD6, 2, 6, ZeroPageX)
	add("DEC", 0xCE, 3, 6, Absolute)
	add("DEC", 0xDE, 3, 7, AbsoluteX)

	add("INX", 0xE8, 1, 2, Implied)
	add("DEX", 0xCA, 1, 2, Implied)
	add("INY", 0xC8, 1, 2, Implied)
	add("DEY", 0x88, 1, 2, Implied)

	add("ASL", 0x0A, 1, 2, Accumulator)
	add("ASL", 0x06, 2, 5, ZeroPage)
	add("ASL", 0x16, 2, 6, ZeroPageX)
	add("ASL", 0x0E, 3, 6, Absolute)
	add("ASL", 0x1E, 3, 7, AbsoluteX)

	add("LSR", 0x4A, 1, 2, Accumulator)
	add("LSR", 0x46, 2, 5, ZeroPage)
	add("LSR", 0x56, 2, 6, ZeroPageX)
	add("LSR", 0x4E, 3, 6, Absolute)
	add("LSR", 0x5E, 3, 7, AbsoluteX)

	add("ROL", 0x2A, 1, 2, Accumulator)
	add("ROL", 0x26, 2, 5, ZeroPage)
	add("ROL", 0x36, 2, 6, ZeroPageX)
	add("ROL", 0x2E, 3, 6, Absolute)
	add("ROL", 0x3E, 3, 7, AbsoluteX)

	add("ROR", 0x6A, 1, 2, Accumulator)
	add("ROR", 0x66, 2, 5, ZeroPage)
	add("ROR", 0x76, 2, 6, ZeroPageX)
	add("ROR", 0x6E, 3, 6, Absolute)
	add("ROR", 0x7E, 3, 7, AbsoluteX)

	add("JMP", 0x4C, 3, 3, Absolute)
	add("JMP", 0x6C, 3, 5, Indirect)
	add("JSR", 0x20, 3, 6, Absolute)
	add("RTS", 0x60, 1, 6, Implied)
	add("RTI", 0x40, 1, 6, Implied)

	add("BPL", 0x10, 2, 2, Relative)
	add("BMI", 0x30, 2, 2, Relative)
	add("BVC", 0x50, 2, 2, Relative)
	add("BVS", 0x70, 2, 2, Relative)
	add("BCC", 0x90, 2, 2, Relative)
	add("BCS", 0xB0, 2, 2, Relative)
	add("BNE", 0xD0, 2, 2, Relative)
	add("BEQ", 0xF0, 2, 2, Relative)

	add("CLC", 0x18, 1, 2, Implied)
	add("SEC", 0x38, 1, 2, Implied)
	add("CLI", 0x58, 1, 2, Implied)
	add("SEI", 0x78, 1, 2, Implied)
	add("CLD", 0xD8, 1, 2, Implied)
	add("SED", 0xF8, 1, 2, Implied)
	add("CLV", 0xB8, 1, 2, Implied)

	add("BIT", 0x24, 2, 3, ZeroPage)
	add("BIT", 0x2C, 3, 4, Absolute)

	add("NOP", 0xEA, 1, 2, Implied)
	add("BRK", 0x00, 1, 7, Implied)
}

// execute dispatches opcode to its handler. address is the effective
// address already resolved by getOperandAddress; handlers that need the
// addressing mode (to distinguish Accumulator from memory) consult
// cpu.instructions[opcode].Mode.
func (cpu *CPU) execute(opcode uint8, address uint16) {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		cpu.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		cpu.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		cpu.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		cpu.bus.Write(address, cpu.A)
	case 0x86, 0x96, 0x8E:
		cpu.bus.Write(address, cpu.X)
	case 0x84, 0x94, 0x8C:
		cpu.bus.Write(address, cpu.Y)

	case 0xAA:
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
	case 0xA8:
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
	case 0x8A:
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
	case 0x98:
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)
	case 0xBA:
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
	case 0x9A:
		cpu.SP = cpu.X

	case 0x48:
		cpu.push(cpu.A)
	case 0x68:
		cpu.A = cpu.pop()
		cpu.setZN(cpu.A)
	case 0x08:
		cpu.pushStatus(true)
	case 0x28:
		cpu.setStatusByte(cpu.pop())

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		cpu.adc(cpu.bus.Read(address))
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		cpu.adc(cpu.bus.Read(address) ^ 0xff)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		cpu.A &= cpu.bus.Read(address)
		cpu.setZN(cpu.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		cpu.A |= cpu.bus.Read(address)
		cpu.setZN(cpu.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		cpu.A ^= cpu.bus.Read(address)
		cpu.setZN(cpu.A)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		cpu.compare(cpu.A, cpu.bus.Read(address))
	case 0xE0, 0xE4, 0xEC:
		cpu.compare(cpu.X, cpu.bus.Read(address))
	case 0xC0, 0xC4, 0xCC:
		cpu.compare(cpu.Y, cpu.bus.Read(address))

	case 0xE6, 0xF6, 0xEE, 0xFE:
		v := cpu.bus.Read(address) + 1
		cpu.bus.Write(address, v)
		cpu.setZN(v)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		v := cpu.bus.Read(address) - 1
		cpu.bus.Write(address, v)
		cpu.setZN(v)
	case 0xE8:
		cpu.X++
		cpu.setZN(cpu.X)
	case 0xCA:
		cpu.X--
		cpu.setZN(cpu.X)
	case 0xC8:
		cpu.Y++
		cpu.setZN(cpu.Y)
	case 0x88:
		cpu.Y--
		cpu.setZN(cpu.Y)

	case 0x0A, 0x06, 0x16, 0x0E, 0x1E:
		cpu.shiftRotate(opcode, address, cpu.asl)
	case 0x4A, 0x46, 0x56, 0x4E, 0x5E:
		cpu.shiftRotate(opcode, address, cpu.lsr)
	case 0x2A, 0x26, 0x36, 0x2E, 0x3E:
		cpu.shiftRotate(opcode, address, cpu.rol)
	case 0x6A, 0x66, 0x76, 0x6E, 0x7E:
		cpu.shiftRotate(opcode, address, cpu.ror)

	case 0x4C, 0x6C:
		cpu.PC = address
	case 0x20:
		cpu.pushWord(cpu.PC - 1)
		cpu.PC = address
	case 0x60:
		cpu.PC = cpu.popWord() + 1
	case 0x40:
		cpu.setStatusByte(cpu.pop())
		cpu.PC = cpu.popWord()

	case 0x10:
		cpu.branch(!cpu.N, address)
	case 0x30:
		cpu.branch(cpu.N, address)
	case 0x50:
		cpu.branch(!cpu.V, address)
	case 0x70:
		cpu.branch(cpu.V, address)
	case 0x90:
		cpu.branch(!cpu.C, address)
	case 0xB0:
		cpu.branch(cpu.C, address)
	case 0xD0:
		cpu.branch(!cpu.Z, address)
	case 0xF0:
		cpu.branch(cpu.Z, address)

	case 0x18:
		cpu.C = false
	case 0x38:
		cpu.C = true
	case 0x58:
		cpu.I = false
	case 0x78:
		cpu.I = true
	case 0xD8:
		cpu.D = false
	case 0xF8:
		cpu.D = true
	case 0xB8:
		cpu.V = false

	case 0x24, 0x2C:
		v := cpu.bus.Read(address)
		cpu.Z = cpu.A&v == 0
		cpu.V = v&vFlagMask != 0
		cpu.N = v&nFlagMask != 0

	case 0xEA:
		// no-op

	case 0x00:
		cpu.PC++
		cpu.pushWord(cpu.PC)
		cpu.pushStatus(true)
		cpu.I = true
		cpu.PC = cpu.readWord(0xfffe)
	}
}

func (cpu *CPU) lda(address uint16) {
	cpu.A = cpu.bus.Read(address)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) ldx(address uint16) {
	cpu.X = cpu.bus.Read(address)
	cpu.setZN(cpu.X)
}

func (cpu *CPU) ldy(address uint16) {
	cpu.Y = cpu.bus.Read(address)
	cpu.setZN(cpu.Y)
}

// adc implements ADC directly; SBC calls it with the operand's ones'
// complement, which reduces to the same carry/overflow arithmetic.
func (cpu *CPU) adc(operand uint8) {
	carry := uint16(0)
	if cpu.C {
		carry = 1
	}
	sum := uint16(cpu.A) + uint16(operand) + carry
	result := uint8(sum)
	cpu.V = (cpu.A^operand)&0x80 == 0 && (cpu.A^result)&0x80 != 0
	cpu.C = sum > 0xff
	cpu.A = result
	cpu.setZN(cpu.A)
}

func (cpu *CPU) compare(reg, operand uint8) {
	cpu.C = reg >= operand
	result := reg - operand
	cpu.setZN(result)
}

func (cpu *CPU) asl(v uint8) uint8 {
	cpu.C = v&0x80 != 0
	return v << 1
}

func (cpu *CPU) lsr(v uint8) uint8 {
	cpu.C = v&0x01 != 0
	return v >> 1
}

func (cpu *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if cpu.C {
		carryIn = 1
	}
	cpu.C = v&0x80 != 0
	return v<<1 | carryIn
}

func (cpu *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if cpu.C {
		carryIn = 0x80
	}
	cpu.C = v&0x01 != 0
	return v>>1 | carryIn
}

// shiftRotate applies op to the accumulator (Accumulator mode) or to the
// byte at address (every other mode this family uses), writing the result
// back and updating Z/N.
func (cpu *CPU) shiftRotate(opcode uint8, address uint16, op func(uint8) uint8) {
	if cpu.instructions[opcode].Mode == Accumulator {
		cpu.A = op(cpu.A)
		cpu.setZN(cpu.A)
		return
	}
	v := op(cpu.bus.Read(address))
	cpu.bus.Write(address, v)
	cpu.setZN(v)
}

func (cpu *CPU) branch(condition bool, target uint16) {
	if condition {
		cpu.PC = target
	}
}
