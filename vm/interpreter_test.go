package vm

import (
	"testing"

	"github.com/cmarsh-dev/rv32i-emu/rv32i"
)

// S1: addi x1,x0,13 ; addi x2,x1,12 ; sw x2,0(x16)
func TestScenarioSimpleArithmetic(t *testing.T) {
	m := NewVM()
	prog := FromAsm([]uint32{0x00d00093, 0x00c08113, 0x00282023})
	if err := prog.Run(m); err != nil {
		t.Fatalf("Run unexpected error: %v", err)
	}
	if got := m.Registers.Get(X1); got != 13 {
		t.Errorf("X1 = %d, expected 13", got)
	}
	if got := m.Registers.Get(X2); got != 25 {
		t.Errorf("X2 = %d, expected 25", got)
	}
	if got := m.Registers.Get(X16); got != 0 {
		t.Errorf("X16 = %d, expected 0", got)
	}
	word, err := m.Memory.WordAt(0)
	if err != nil {
		t.Fatalf("WordAt unexpected error: %v", err)
	}
	if word != 25 {
		t.Errorf("mem[0..4] = %d, expected 25", word)
	}
}

// S2: addi x1,x0,13 ; addi x2,x0,12 ; j +8 ; addi x2,x0,161 ; sw x2,0(x16)
func TestScenarioUnconditionalJump(t *testing.T) {
	m := NewVM()
	prog := FromAsm([]uint32{
		0x00d00093, 0x00c00113, 0x0080006f, 0x0a100113, 0x00282023,
	})
	if err := prog.Run(m); err != nil {
		t.Fatalf("Run unexpected error: %v", err)
	}
	if got := m.Registers.Get(X1); got != 13 {
		t.Errorf("X1 = %d, expected 13", got)
	}
	if got := m.Registers.Get(X2); got != 12 {
		t.Errorf("X2 = %d, expected 12 (the addi x2,x0,161 must be skipped)", got)
	}
	word, err := m.Memory.WordAt(0)
	if err != nil {
		t.Fatalf("WordAt unexpected error: %v", err)
	}
	if word != 12 {
		t.Errorf("mem[0] = %d, expected 12", word)
	}
}

// S3: x1 = 3+5+4 = 12; the BNE loop adds 1 to x2 per pass until x2 == x1,
// then x1 += 1 (13) and x2 = x1 + x2 (25) is stored at mem[0].
func TestScenarioLoopWithBNE(t *testing.T) {
	m := NewVM()
	// The loop counts x2 up from zero; NewVM starts x2 (the stack pointer)
	// at the memory capacity, so clear it first.
	m.Registers.Set(X2, 0)
	prog := FromAsm([]uint32{
		0x00300093, 0x00508093, 0x00408093, 0x00110113,
		0xfff10113, 0x00110113, 0xfe209ae3, 0x00108093,
		0x00208133, 0x00282023,
	})
	if err := prog.Run(m); err != nil {
		t.Fatalf("Run unexpected error: %v", err)
	}
	if got := m.Registers.Get(X1); got != 13 {
		t.Errorf("X1 = %d, expected 13", got)
	}
	if got := m.Registers.Get(X2); got != 25 {
		t.Errorf("X2 = %d, expected 25", got)
	}
	word, err := m.Memory.WordAt(0)
	if err != nil {
		t.Fatalf("WordAt unexpected error: %v", err)
	}
	if word != 25 {
		t.Errorf("mem[0] = %d, expected 25", word)
	}
}

// S6: a B-type built with funct3=BEQ and offset 24 branches when rs1==rs2,
// and falls through (PC advances by 4) when they differ.
func TestScenarioBranchEncoding(t *testing.T) {
	taken := rv32i.NewBuilder(rv32i.OpBranch).
		Set(rv32i.Funct3, 0).
		Set(rv32i.Reg1, 12).
		Set(rv32i.Reg2, 13).
		SetImmediate(24).
		Word()

	m := NewVM()
	inst, err := rv32i.Decode(taken)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	if err := m.execute(inst); err != nil {
		t.Fatalf("execute unexpected error: %v", err)
	}
	if got := m.Registers.PC(); got != 24 {
		t.Errorf("PC = %d, expected 24 (branch taken, x12==x13==0)", got)
	}

	m2 := NewVM()
	m2.Registers.Set(X13, 1)
	inst2, err := rv32i.Decode(taken)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	if err := m2.execute(inst2); err != nil {
		t.Fatalf("execute unexpected error: %v", err)
	}
	if got := m2.Registers.PC(); got != 4 {
		t.Errorf("PC = %d, expected 4 (branch not taken, x12=0 != x13=1)", got)
	}
}

func TestX0AlwaysReadsZero(t *testing.T) {
	m := NewVM()
	m.Registers.Set(X0, 12345)
	if got := m.Registers.Get(X0); got != 0 {
		t.Errorf("X0 = %d after write, expected 0 (hardwired)", got)
	}
}

func TestBGEUsesGreaterOrEqual(t *testing.T) {
	m := NewVM()
	word := rv32i.NewBuilder(rv32i.OpBranch).
		Set(rv32i.Funct3, 0b101). // BGE
		Set(rv32i.Reg1, 1).
		Set(rv32i.Reg2, 2).
		SetImmediate(8).
		Word()
	inst, err := rv32i.Decode(word)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	// x1 == x2 == 0: BGE must take the branch (>=, not strict >). NewVM
	// starts x2 (the stack pointer) at the memory capacity, so clear it.
	m.Registers.Set(X2, 0)
	if err := m.execute(inst); err != nil {
		t.Fatalf("execute unexpected error: %v", err)
	}
	if got := m.Registers.PC(); got != 8 {
		t.Errorf("PC = %d, expected 8 (BGE must be taken on equal operands)", got)
	}
}

func TestPCProgressionOnNonControlFlow(t *testing.T) {
	m := NewVM()
	word := rv32i.NewBuilder(rv32i.OpImmediateMath).
		Set(rv32i.Dest, 1).
		Set(rv32i.Funct3, 0).
		Set(rv32i.Reg1, 0).
		SetImmediate(1).
		Word()
	inst, err := rv32i.Decode(word)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	before := m.Registers.PC()
	if err := m.execute(inst); err != nil {
		t.Fatalf("execute unexpected error: %v", err)
	}
	if got := m.Registers.PC(); got != before+4 {
		t.Errorf("PC = %d, expected %d", got, before+4)
	}
}

func TestFenceAndSystemAreUnimplemented(t *testing.T) {
	fence := rv32i.NewBuilder(rv32i.OpFence).Word()
	inst, err := rv32i.Decode(fence)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	m := NewVM()
	if err := m.execute(inst); err == nil {
		t.Error("FENCE execute expected error, got none")
	}

	sys := rv32i.NewBuilder(rv32i.OpSystem).Word()
	inst2, err := rv32i.Decode(sys)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	if err := m.execute(inst2); err == nil {
		t.Error("ECALL/EBREAK execute expected error, got none")
	}
}
