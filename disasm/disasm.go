// Package disasm renders a decoded instruction as its canonical RV32I
// assembly mnemonic. It holds no state and performs no side effects; it
// exists purely to turn an rv32i.Instruction into a human-readable line for
// the debugger and any CLI dump mode.
package disasm

import (
	"fmt"

	"github.com/cmarsh-dev/rv32i-emu/rv32i"
	"github.com/cmarsh-dev/rv32i-emu/vm"
)

func regOf(inst rv32i.Instruction, part rv32i.Part) string {
	v, err := inst.Value(part)
	if err != nil {
		return "?"
	}
	return vm.RegisterID(v).String()
}

// Disassemble renders inst as its canonical mnemonic line, e.g.
// "add x1, x2, x3", "addi x1, x0, 13", "lw x12, 0(x13)", "beq x12, x13, 24",
// "jal x1, 8", "lui x1, 1312". Register names are lowercase x0..x31.
// Offsets and immediates used in arithmetic are the fully reassembled,
// sign-extended values — not the raw per-piece field values the format
// slices into the word.
func Disassemble(inst rv32i.Instruction) (string, error) {
	switch inst.Opcode {
	case rv32i.OpLUI:
		return disasmUpper("lui", inst)
	case rv32i.OpAUIPC:
		return disasmUpper("auipc", inst)
	case rv32i.OpMath:
		return disasmMath(inst)
	case rv32i.OpImmediateMath:
		return disasmImmediateMath(inst)
	case rv32i.OpJAL:
		return disasmJAL(inst)
	case rv32i.OpJALR:
		return disasmJALR(inst)
	case rv32i.OpBranch:
		return disasmBranch(inst)
	case rv32i.OpLoad:
		return disasmLoad(inst)
	case rv32i.OpStore:
		return disasmStore(inst)
	case rv32i.OpFence:
		return "fence", nil
	case rv32i.OpSystem:
		return "ecall", nil
	default:
		return "", fmt.Errorf("disasm: unrecognized opcode %v", inst.Opcode)
	}
}

// disasmUpper renders LUI/AUIPC, whose assembly operand is the raw
// imm[31:12] field, not the shifted 32-bit value execution uses.
func disasmUpper(mnemonic string, inst rv32i.Instruction) (string, error) {
	rd := regOf(inst, rv32i.Dest)
	imm, err := inst.Value(rv32i.Imm3112)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s, %d", mnemonic, rd, imm), nil
}

func disasmMath(inst rv32i.Instruction) (string, error) {
	f3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return "", err
	}
	f7, err := inst.Value(rv32i.Funct7)
	if err != nil {
		return "", err
	}
	var op string
	switch {
	case f3 == 0b000 && f7 == 0b0000000:
		op = "add"
	case f3 == 0b000 && f7 == 0b0100000:
		op = "sub"
	case f3 == 0b001 && f7 == 0b0000000:
		op = "sll"
	case f3 == 0b010 && f7 == 0b0000000:
		op = "slt"
	case f3 == 0b011 && f7 == 0b0000000:
		op = "sltu"
	case f3 == 0b100 && f7 == 0b0000000:
		op = "xor"
	case f3 == 0b101 && f7 == 0b0000000:
		op = "srl"
	case f3 == 0b101 && f7 == 0b0100000:
		op = "sra"
	case f3 == 0b110 && f7 == 0b0000000:
		op = "or"
	case f3 == 0b111 && f7 == 0b0000000:
		op = "and"
	default:
		return "", fmt.Errorf("disasm: unmatched math funct3/funct7")
	}
	return fmt.Sprintf("%s %s, %s, %s", op, regOf(inst, rv32i.Dest), regOf(inst, rv32i.Reg1), regOf(inst, rv32i.Reg2)), nil
}

func disasmImmediateMath(inst rv32i.Instruction) (string, error) {
	f3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return "", err
	}
	rd, rs1 := regOf(inst, rv32i.Dest), regOf(inst, rv32i.Reg1)

	if f3 == 0b001 || f3 == 0b101 {
		raw, err := inst.Value(rv32i.Imm110)
		if err != nil {
			return "", err
		}
		shamt := raw & 0x1F
		mode := raw >> 5
		var op string
		switch {
		case f3 == 0b001 && mode == 0b0000000:
			op = "slli"
		case f3 == 0b101 && mode == 0b0000000:
			op = "srli"
		case f3 == 0b101 && mode == 0b0100000:
			op = "srai"
		default:
			return "", fmt.Errorf("disasm: unmatched shift mode")
		}
		return fmt.Sprintf("%s %s, %s, %d", op, rd, rs1, shamt), nil
	}

	var op string
	switch f3 {
	case 0b000:
		op = "addi"
	case 0b010:
		op = "slti"
	case 0b011:
		op = "sltiu"
	case 0b100:
		op = "xori"
	case 0b110:
		op = "ori"
	case 0b111:
		op = "andi"
	default:
		return "", fmt.Errorf("disasm: unmatched immediate-math funct3")
	}
	return fmt.Sprintf("%s %s, %s, %d", op, rd, rs1, inst.Immediate()), nil
}

func disasmJAL(inst rv32i.Instruction) (string, error) {
	return fmt.Sprintf("jal %s, %d", regOf(inst, rv32i.Dest), inst.Immediate()), nil
}

func disasmJALR(inst rv32i.Instruction) (string, error) {
	return fmt.Sprintf("jalr %s, %s, %d", regOf(inst, rv32i.Dest), regOf(inst, rv32i.Reg1), inst.Immediate()), nil
}

func disasmBranch(inst rv32i.Instruction) (string, error) {
	f3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return "", err
	}
	var op string
	switch f3 {
	case 0b000:
		op = "beq"
	case 0b001:
		op = "bne"
	case 0b100:
		op = "blt"
	case 0b101:
		op = "bge"
	case 0b110:
		op = "bltu"
	case 0b111:
		op = "bgeu"
	default:
		return "", fmt.Errorf("disasm: unmatched branch funct3")
	}
	return fmt.Sprintf("%s %s, %s, %d", op, regOf(inst, rv32i.Reg1), regOf(inst, rv32i.Reg2), inst.Immediate()), nil
}

func disasmLoad(inst rv32i.Instruction) (string, error) {
	f3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return "", err
	}
	var op string
	switch f3 {
	case 0b000:
		op = "lb"
	case 0b001:
		op = "lh"
	case 0b010:
		op = "lw"
	case 0b100:
		op = "lbu"
	case 0b101:
		op = "lhu"
	default:
		return "", fmt.Errorf("disasm: unmatched load funct3")
	}
	return fmt.Sprintf("%s %s, %d(%s)", op, regOf(inst, rv32i.Dest), inst.Immediate(), regOf(inst, rv32i.Reg1)), nil
}

func disasmStore(inst rv32i.Instruction) (string, error) {
	f3, err := inst.Value(rv32i.Funct3)
	if err != nil {
		return "", err
	}
	var op string
	switch f3 {
	case 0b000:
		op = "sb"
	case 0b001:
		op = "sh"
	case 0b010:
		op = "sw"
	default:
		return "", fmt.Errorf("disasm: unmatched store funct3")
	}
	return fmt.Sprintf("%s %s, %d(%s)", op, regOf(inst, rv32i.Reg2), inst.Immediate(), regOf(inst, rv32i.Reg1)), nil
}
