package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cmarsh-dev/rv32i-emu/vm"
)

// Server is the read-only HTTP/WebSocket inspection surface described for
// interactive use: GET /state returns one JSON snapshot, GET /ws streams
// one snapshot per executed instruction. It holds a reference to the
// driver's VM and Program but never calls Step itself.
type Server struct {
	mu      sync.RWMutex
	machine *vm.VM
	program *vm.Program

	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	addr        string
}

// NewServer creates a server that will listen on addr, reporting the state
// of machine/program.
func NewServer(addr string, machine *vm.VM, program *vm.Program) *Server {
	s := &Server{
		machine:     machine,
		program:     program,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		addr:        addr,
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// snapshot takes a consistent, read-locked copy of VM state.
func (s *Server) snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regs [32]uint32
	for i := 0; i < 32; i++ {
		regs[i] = s.machine.Registers.Get(vm.RegisterID(i))
	}

	mem := make([]byte, s.machine.Memory.Capacity())
	for addr := uint32(0); addr < s.machine.Memory.Capacity(); addr++ {
		b, err := s.machine.Memory.ByteAt(addr)
		if err != nil {
			break
		}
		mem[addr] = b
	}

	return StateSnapshot{
		PC:        s.machine.Registers.PC(),
		Registers: regs,
		Memory:    mem,
		Done:      s.program.IsDone(s.machine),
	}
}

// NotifyStep is called by the driver loop, under its own lock discipline,
// after each instruction executes. It pushes a fresh snapshot to every
// connected WebSocket client.
func (s *Server) NotifyStep() {
	s.broadcaster.Broadcast(s.snapshot())
}

// Lock and Unlock expose the server's state mutex to the driver loop, so it
// can hold the write lock for the duration of a Step call — this is the
// single synchronization point between the stepping goroutine and any
// inspection request in flight.
func (s *Server) Lock()   { s.mu.Lock() }
func (s *Server) Unlock() { s.mu.Unlock() }

func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// Start runs the HTTP server; it blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("inspection API listening on http://%s", s.addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server and disconnects all WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

// corsMiddleware allows only local origins (localhost, 127.0.0.1 and
// file://), matching the browser-based
// front end this endpoint is meant for.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "file://") {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding JSON: %v", err)
	}
}
