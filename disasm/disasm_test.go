package disasm

import (
	"testing"

	"github.com/cmarsh-dev/rv32i-emu/rv32i"
)

func mustDecode(t *testing.T, raw uint32) rv32i.Instruction {
	t.Helper()
	inst, err := rv32i.Decode(raw)
	if err != nil {
		t.Fatalf("Decode(%#08x) unexpected error: %v", raw, err)
	}
	return inst
}

func TestDisassembleAddi(t *testing.T) {
	inst := mustDecode(t, 0x00d00093) // addi x1, x0, 13
	got, err := Disassemble(inst)
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "addi x1, x0, 13" {
		t.Errorf("Disassemble = %q, expected %q", got, "addi x1, x0, 13")
	}
}

func TestDisassembleAdd(t *testing.T) {
	inst := mustDecode(t, 0x003100b3) // add x1, x2, x3
	got, err := Disassemble(inst)
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "add x1, x2, x3" {
		t.Errorf("Disassemble = %q, expected %q", got, "add x1, x2, x3")
	}
}

func TestDisassembleLUI(t *testing.T) {
	inst := mustDecode(t, 0x005200b7) // lui x1, 1312
	got, err := Disassemble(inst)
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "lui x1, 1312" {
		t.Errorf("Disassemble = %q, expected %q", got, "lui x1, 1312")
	}
}

func TestDisassembleJAL(t *testing.T) {
	inst := mustDecode(t, 0x0080006f) // jal x0, +8
	got, err := Disassemble(inst)
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "jal x0, 8" {
		t.Errorf("Disassemble = %q, expected %q", got, "jal x0, 8")
	}
}

func TestDisassembleLoad(t *testing.T) {
	load := rv32i.NewBuilder(rv32i.OpLoad).
		Set(rv32i.Dest, 12).
		Set(rv32i.Funct3, 0b010). // LW
		Set(rv32i.Reg1, 13).
		SetImmediate(12).
		Word()
	got, err := Disassemble(mustDecode(t, load))
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "lw x12, 12(x13)" {
		t.Errorf("Disassemble = %q, expected %q", got, "lw x12, 12(x13)")
	}
}

func TestDisassembleStore(t *testing.T) {
	store := rv32i.NewBuilder(rv32i.OpStore).
		Set(rv32i.Funct3, 0b010). // SW
		Set(rv32i.Reg1, 16).
		Set(rv32i.Reg2, 2).
		SetImmediate(0).
		Word()
	got, err := Disassemble(mustDecode(t, store))
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "sw x2, 0(x16)" {
		t.Errorf("Disassemble = %q, expected %q", got, "sw x2, 0(x16)")
	}
}

func TestDisassembleBranch(t *testing.T) {
	beq := rv32i.NewBuilder(rv32i.OpBranch).
		Set(rv32i.Funct3, 0b000).
		Set(rv32i.Reg1, 12).
		Set(rv32i.Reg2, 13).
		SetImmediate(24).
		Word()
	got, err := Disassemble(mustDecode(t, beq))
	if err != nil {
		t.Fatalf("Disassemble unexpected error: %v", err)
	}
	if got != "beq x12, x13, 24" {
		t.Errorf("Disassemble = %q, expected %q", got, "beq x12, x13, 24")
	}
}

func TestDisassembleUnimplementedOpcodes(t *testing.T) {
	fence := rv32i.NewBuilder(rv32i.OpFence).Word()
	if got, err := Disassemble(mustDecode(t, fence)); err != nil || got != "fence" {
		t.Errorf("Disassemble(FENCE) = %q, %v", got, err)
	}
}
