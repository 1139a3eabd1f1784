package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// VM owns one RegisterFile, one Memory, and executes instructions against
// them. It is the single mutator in the system: RegisterFile and Memory are
// otherwise pure data.
type VM struct {
	Registers *RegisterFile
	Memory    *Memory
	Tracer    Tracer
}

// NewVM returns a VM with a zeroed register file and a DefaultMemoryCapacity
// memory, with the stack pointer (X2) initialized to the top of memory.
func NewVM() *VM {
	return NewVMWithMemoryCapacity(DefaultMemoryCapacity)
}

// NewVMWithMemoryCapacity is NewVM with an explicit memory size.
func NewVMWithMemoryCapacity(capacity uint32) *VM {
	vm := &VM{
		Registers: NewRegisterFile(),
		Memory:    NewMemoryWithCapacity(capacity),
	}
	vm.Registers.Set(X2, capacity)
	return vm
}

func (vm *VM) trace() Tracer {
	if vm.Tracer == nil {
		return noopTracer{}
	}
	return vm.Tracer
}

// Reset zeroes registers and memory, then reinitializes the stack pointer.
func (vm *VM) Reset() {
	capacity := vm.Memory.Capacity()
	vm.Registers.Reset()
	vm.Memory.Reset()
	vm.Registers.Set(X2, capacity)
}

// execute dispatches inst to its opcode's handler, then advances PC by 4 —
// including when the handler itself set PC, since every control-flow
// handler pre-subtracts 4 so this uniform post-increment lands on the
// intended target. On error, PC is left unchanged.
func (vm *VM) execute(inst rv32i.Instruction) error {
	pc := vm.Registers.PC()

	var err error
	switch inst.Opcode {
	case rv32i.OpLUI:
		err = vm.execLUI(inst)
	case rv32i.OpAUIPC:
		err = vm.execAUIPC(inst)
	case rv32i.OpJAL:
		err = vm.execJAL(inst)
	case rv32i.OpJALR:
		err = vm.execJALR(inst)
	case rv32i.OpBranch:
		err = vm.execBranch(inst)
	case rv32i.OpLoad:
		err = vm.execLoad(inst)
	case rv32i.OpStore:
		err = vm.execStore(inst)
	case rv32i.OpImmediateMath:
		err = vm.execImmediateMath(inst)
	case rv32i.OpMath:
		err = vm.execMath(inst)
	case rv32i.OpFence:
		err = &ExecutionError{Opcode: "FENCE", Reason: "unimplemented"}
	case rv32i.OpSystem:
		err = &ExecutionError{Opcode: "System", Reason: "ECALL/EBREAK unimplemented"}
	default:
		err = &ExecutionError{Opcode: inst.Opcode.String(), Reason: "unrecognized opcode"}
	}

	if err != nil {
		vm.Registers.SetPC(pc)
		return err
	}
	vm.Registers.SetPC(vm.Registers.PC() + 4)
	return nil
}

func operand(vm *VM, inst rv32i.Instruction, part rv32i.Part) (RegisterID, error) {
	raw, err := inst.Value(part)
	if err != nil {
		return 0, err
	}
	return RegisterFromIndex(raw)
}
