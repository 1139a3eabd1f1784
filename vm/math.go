package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execMath implements the Math (R) opcode family: register-register ALU
// operations selected by (funct3, funct7).
func (vm *VM) execMath(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	rs1, err := operand(vm, inst, rv32i.Reg1)
	if err != nil {
		return err
	}
	rs2, err := operand(vm, inst, rv32i.Reg2)
	if err != nil {
		return err
	}
	funct3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return err
	}
	funct7, err := inst.Value(rv32i.Funct7)
	if err != nil {
		return err
	}

	a, b := vm.Registers.Get(rs1), vm.Registers.Get(rs2)

	switch {
	case funct3 == 0b000 && funct7 == 0b0000000: // ADD
		vm.Registers.Set(rd, a+b)
	case funct3 == 0b000 && funct7 == 0b0100000: // SUB
		vm.Registers.Set(rd, a-b)
	case funct3 == 0b001 && funct7 == 0b0000000: // SLL
		vm.Registers.Set(rd, a<<(b&0x1F))
	case funct3 == 0b010 && funct7 == 0b0000000: // SLT (signed)
		vm.Registers.Set(rd, boolToWord(int32(a) < int32(b)))
	case funct3 == 0b011 && funct7 == 0b0000000: // SLTU (unsigned)
		if rs1 == X0 {
			vm.Registers.Set(rd, boolToWord(b != 0))
		} else {
			vm.Registers.Set(rd, boolToWord(a < b))
		}
	case funct3 == 0b100 && funct7 == 0b0000000: // XOR
		vm.Registers.Set(rd, a^b)
	case funct3 == 0b101 && funct7 == 0b0000000: // SRL
		vm.Registers.Set(rd, a>>(b&0x1F))
	case funct3 == 0b101 && funct7 == 0b0100000: // SRA
		vm.Registers.Set(rd, uint32(int32(a)>>(b&0x1F)))
	case funct3 == 0b110 && funct7 == 0b0000000: // OR
		vm.Registers.Set(rd, a|b)
	case funct3 == 0b111 && funct7 == 0b0000000: // AND
		vm.Registers.Set(rd, a&b)
	default:
		return &ExecutionError{Opcode: "Math", Reason: "unmatched funct3/funct7"}
	}
	return nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
