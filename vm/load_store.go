package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execLoad implements the Load (I) opcode family. Effective address is
// rs1 + sign-extended immediate; funct3 selects width and sign/zero
// extension.
func (vm *VM) execLoad(inst rv32i.Instruction) error {
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

	ea := vm.Registers.Get(rs1) + uint32(inst.Immediate())

	switch funct3 {
	case 0b000: // LB
		b, err := vm.Memory.ByteAt(ea)
		if err != nil {
			return err
		}
		vm.Registers.Set(rd, uint32(int32(int8(b))))
	case 0b001: // LH
		h, err := vm.Memory.HalfwordAt(ea)
		if err != nil {
			return err
		}
		vm.Registers.Set(rd, uint32(int32(int16(h))))
	case 0b010: // LW
		w, err := vm.Memory.WordAt(ea)
		if err != nil {
			return err
		}
		vm.Registers.Set(rd, w)
	case 0b100: // LBU
		b, err := vm.Memory.ByteAt(ea)
		if err != nil {
			return err
		}
		vm.Registers.Set(rd, uint32(b))
	case 0b101: // LHU
		h, err := vm.Memory.HalfwordAt(ea)
		if err != nil {
			return err
		}
		vm.Registers.Set(rd, uint32(h))
	default:
		return &ExecutionError{Opcode: "Load", Reason: "unmatched funct3"}
	}
	return nil
}

// execStore implements the Store (S) opcode family. Effective address is
// rs1 + sign-extended immediate; funct3 selects how many low bytes of rs2
// are written.
func (vm *VM) execStore(inst rv32i.Instruction) error {
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

	ea := vm.Registers.Get(rs1) + uint32(inst.Immediate())
	v := vm.Registers.Get(rs2)

	switch funct3 {
	case 0b000: // SB
		return vm.Memory.SetByteAt(ea, byte(v))
	case 0b001: // SH
		return vm.Memory.SetHalfwordAt(ea, uint16(v))
	case 0b010: // SW
		return vm.Memory.SetWordAt(ea, v)
	default:
		return &ExecutionError{Opcode: "Store", Reason: "unmatched funct3"}
	}
}
