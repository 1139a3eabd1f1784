package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execLUI implements LUI (U): rd <- imm[31:12] << 12, low 12 bits zero.
func (vm *VM) execLUI(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	vm.Registers.Set(rd, uint32(inst.Immediate()))
	return nil
}

// execAUIPC implements AUIPC (U): rd <- PC + (imm[31:12] << 12).
func (vm *VM) execAUIPC(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	vm.Registers.Set(rd, vm.Registers.PC()+uint32(inst.Immediate()))
	return nil
}
