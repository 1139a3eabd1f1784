package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// execJAL implements JAL (J): rd <- PC + 4; PC <- PC + immediate. The
// J-immediate already encodes a multiple of 2 after reassembly, so it is
// used directly — not doubled, unlike one of the two conflicting JAL
// variants found in the source this design was distilled from. PC is set to
// the target minus 4 so execute's uniform post-increment lands on it. If rd
// is X0 the link write is simply discarded, giving an unconditional jump.
func (vm *VM) execJAL(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	pc := vm.Registers.PC()
	vm.Registers.Set(rd, pc+4)
	vm.Registers.SetPC(pc + uint32(inst.Immediate()) - 4)
	return nil
}

// execJALR implements JALR (I): rd <- PC + 4; PC <- (rs1 + immediate) & ~1.
// The target is independent of the current PC value, unlike JAL.
func (vm *VM) execJALR(inst rv32i.Instruction) error {
	rd, err := operand(vm, inst, rv32i.Dest)
	if err != nil {
		return err
	}
	rs1, err := operand(vm, inst, rv32i.Reg1)
	if err != nil {
		return err
	}
	pc := vm.Registers.PC()
	target := (vm.Registers.Get(rs1) + uint32(inst.Immediate())) &^ 1
	vm.Registers.Set(rd, pc+4)
	vm.Registers.SetPC(target - 4)
	return nil
}
