package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execImmediateMath implements the ImmediateMath (I) opcode family:
// register-immediate ALU operations selected by funct3, with the shift
// instructions further selected by the upper 7 bits of the immediate field.
func (vm *VM) execImmediateMath(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	rs1, err := operand(vm, inst, rv32i.Reg1)
	if err != nil {
		return err
	}
	funct3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return err
	}

	a := vm.Registers.Get(rs1)
	imm := inst.Immediate()

	switch funct3 {
	case 0b000: // ADDI
		vm.Registers.Set(rd, a+uint32(imm))
	case 0b010: // SLTI (signed)
		vm.Registers.Set(rd, boolToWord(int32(a) < imm))
	case 0b011: // SLTIU (unsigned)
		vm.Registers.Set(rd, boolToWord(a < uint32(imm)))
	case 0b100: // XORI
		vm.Registers.Set(rd, a^uint32(imm))
	case 0b110: // ORI
		vm.Registers.Set(rd, a|uint32(imm))
	case 0b111: // ANDI
		vm.Registers.Set(rd, a&uint32(imm))
	case 0b001, 0b101:
		return vm.execShiftImmediate(inst, rd, a, funct3)
	default:
		return &ExecutionError{Opcode: "ImmediateMath", Reason: "unmatched funct3"}
	}
	return nil
}

// execShiftImmediate handles SLLI/SRLI/SRAI: the shift amount is the low 5
// bits of the immediate field; the upper 7 bits select logical vs
// arithmetic and must match one of the two allowed patterns.
func (vm *VM) execShiftImmediate(inst rv32i.Instruction, rd RegisterID, a uint32, funct3 uint32) error {
	raw, err := inst.Value(rv32i.Imm110)
	if err != nil {
		return err
	}
	shamt := raw & 0x1F
	mode := raw >> 5

	switch {
	case funct3 == 0b001 && mode == 0b0000000: // SLLI
		vm.Registers.Set(rd, a<<shamt)
	case funct3 == 0b101 && mode == 0b0000000: // SRLI
		vm.Registers.Set(rd, a>>shamt)
	case funct3 == 0b101 && mode == 0b0100000: // SRAI
		vm.Registers.Set(rd, uint32(int32(a)>>shamt))
	default:
		return &ExecutionError{Opcode: "ImmediateMath", Reason: "unmatched shift mode"}
	}
	return nil
}
