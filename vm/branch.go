package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execBranch implements the Branch (B) opcode family. A taken branch sets PC
// to its target minus 4, so that execute's uniform post-increment lands
// exactly on the architectural target; a not-taken branch leaves PC alone
// and falls through the same way. BGE/BGEU are greater-or-equal, matching
// the ISA (the source this design was distilled from used strict
// greater-than for both).
func (vm *VM) execBranch(inst rv32i.Instruction) error {
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

	a, b := vm.Registers.Get(rs1), vm.Registers.Get(rs2)
	var taken bool

	switch funct3 {
	case 0b000: // BEQ
		taken = a == b
	case 0b001: // BNE
		taken = a != b
	case 0b100: // BLT (signed)
		taken = int32(a) < int32(b)
	case 0b101: // BGE (signed)
		taken = int32(a) >= int32(b)
	case 0b110: // BLTU
		taken = a < b
	case 0b111: // BGEU
		taken = a >= b
	default:
		return &ExecutionError{Opcode: "Branch", Reason: "unmatched funct3"}
	}

	if taken {
		target := vm.Registers.PC() + uint32(inst.Immediate())
		vm.Registers.SetPC(target - 4)
	}
	return nil
}
