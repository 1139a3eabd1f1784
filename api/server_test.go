package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cmarsh-dev/rv32i-emu/vm"
)

func TestHandleState(t *testing.T) {
	machine := vm.NewVM()
	machine.Registers.Set(vm.X1, 42)
	program := vm.NewProgram(0)

	s := NewServer("127.0.0.1:0", machine, program)

	req := httptest.NewRequest("GET", "/state", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap StateSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if snap.Registers[1] != 42 {
		t.Errorf("x1 = %d, want 42", snap.Registers[1])
	}
	if len(snap.Memory) != int(machine.Memory.Capacity()) {
		t.Errorf("memory length = %d, want %d", len(snap.Memory), machine.Memory.Capacity())
	}
}

func TestHandleStateRejectsNonGet(t *testing.T) {
	machine := vm.NewVM()
	program := vm.NewProgram(0)
	s := NewServer("127.0.0.1:0", machine, program)

	req := httptest.NewRequest("POST", "/state", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != 405 {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestBroadcasterDropsSlowClient(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 20; i++ {
		b.Broadcast(StateSnapshot{PC: uint32(i)})
	}

	select {
	case <-ch:
	default:
		t.Fatal("expected at least one buffered snapshot")
	}
}
