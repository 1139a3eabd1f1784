package vm

import "fmt"

// RegisterError reports a register index outside the valid 0..31 range.
type RegisterError struct {
	Index int
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("register error: index %d outside 0..31", e.Index)
}

// MemoryError reports an access that would exceed memory capacity.
type MemoryError struct {
	Address  uint32
	Width    uint32
	Capacity uint32
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory error: access at 0x%08X width %d exceeds capacity %d",
		e.Address, e.Width, e.Capacity)
}

// ExecutionError reports a recognized opcode whose handler rejected the
// specific funct3/funct7 combination, or an opcode left deliberately
// unimplemented (FENCE, ECALL/EBREAK).
type ExecutionError struct {
	Opcode string
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error: %s: %s", e.Opcode, e.Reason)
}
