package vm

import (
	"fmt"
	"io"
)

// Tracer is a diagnostic sink invoked by Program.Step at each fetch, decode
// and execute, and at each error. It never affects execution correctness: execute must
// produce identical results whether or not a Tracer is attached. The zero
// value of VM uses noopTracer, so tracing is opt-in.
type Tracer interface {
	// OnFetch is called with the raw word and its fetch address, before
	// decoding.
	OnFetch(pc uint32, raw uint32)
	// OnDecode is called after a word has been successfully decoded.
	OnDecode(pc uint32, inst string)
	// OnExecute is called after an instruction has been dispatched and
	// applied, with the PC it executed at.
	OnExecute(pc uint32, inst string)
	// OnError is called whenever execute or step returns an error.
	OnError(pc uint32, err error)
}

type noopTracer struct{}

func (noopTracer) OnFetch(uint32, uint32)   {}
func (noopTracer) OnDecode(uint32, string)  {}
func (noopTracer) OnExecute(uint32, string) {}
func (noopTracer) OnError(uint32, error)    {}

// TextTracer writes one human-readable line per event to an io.Writer. It is
// the opt-in trace mode referenced in the error-handling design: when no
// Tracer is attached, these call sites are silent.
type TextTracer struct {
	w io.Writer
}

// NewTextTracer wraps w as a Tracer.
func NewTextTracer(w io.Writer) *TextTracer {
	return &TextTracer{w: w}
}

func (t *TextTracer) OnFetch(pc uint32, raw uint32) {
	fmt.Fprintf(t.w, "fetch  pc=0x%08x raw=0x%08x\n", pc, raw)
}

func (t *TextTracer) OnDecode(pc uint32, inst string) {
	fmt.Fprintf(t.w, "decode pc=0x%08x %s\n", pc, inst)
}

func (t *TextTracer) OnExecute(pc uint32, inst string) {
	fmt.Fprintf(t.w, "exec   pc=0x%08x %s\n", pc, inst)
}

func (t *TextTracer) OnError(pc uint32, err error) {
	fmt.Fprintf(t.w, "error  pc=0x%08x %v\n", pc, err)
}
