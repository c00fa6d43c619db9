package vm

import (
	"testing"

	"github.com/dvhtn/forthcpu/word"
)

type stubIO struct {
	in  []byte
	pos int
	out []byte
	eof bool // once in is exhausted: report EOF if set, else "no data yet"
}

func (s *stubIO) Get() (byte, bool, bool) {
	if s.pos >= len(s.in) {
		return 0, false, s.eof
	}
	b := s.in[s.pos]
	s.pos++
	return b, true, false
}

func (s *stubIO) Put(b byte) error {
	s.out = append(s.out, b)
	return nil
}

func (s *stubIO) Save(mem []word.Instr) error { return nil }

func load(m *Machine, at word.Instr, prog ...word.Instr) {
	for i, w := range prog {
		m.Mem[int(at)+i] = w
	}
	m.PC = at
}

// scenario 6 of spec.md §8: "1 2 + bye" returns 3.
func TestOnePlusTwoBye(t *testing.T) {
	m := New(&stubIO{})
	load(m, word.StartAddr,
		word.MakeLiteral(1),
		word.MakeLiteral(2),
		word.MakeALU(word.ALUTPlusN, word.ALUFlags{DDelta: -1}),
		word.MakeALU(word.ALUBye, word.ALUFlags{RDelta: 0, DDelta: 0}),
	)
	status, code, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusHalted {
		t.Fatalf("status = %d, want StatusHalted", status)
	}
	if code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
}

func TestLiteralPushesImmediate(t *testing.T) {
	m := New(&stubIO{})
	load(m, word.StartAddr,
		word.MakeLiteral(0x1234),
		word.MakeALU(word.ALUBye, word.ALUFlags{}),
	)
	_, code, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0x1234 {
		t.Fatalf("code = %#x, want 0x1234", code)
	}
}

func TestPreludeIsAllBranchesToStart(t *testing.T) {
	m := New(&stubIO{})
	for i := word.Instr(0); i < word.StartAddr; i++ {
		if got, want := m.Mem[i], word.MakeBranch(word.StartAddr); got != want {
			t.Fatalf("Mem[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestCircularStackPointerDoesNotPanic(t *testing.T) {
	m := New(&stubIO{})
	m.SP = word.MemSize - 1
	load(m, word.StartAddr,
		word.MakeLiteral(1),
		word.MakeLiteral(2),
		word.MakeALU(word.ALUBye, word.ALUFlags{}),
	)
	if _, _, err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRXPendingThenDelivered(t *testing.T) {
	io := &stubIO{}
	m := New(io)
	load(m, word.StartAddr,
		word.MakeALU(word.ALURX, word.ALUFlags{}),
		word.MakeALU(word.ALUBye, word.ALUFlags{}),
	)
	status, _, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusPending {
		t.Fatalf("status = %d, want StatusPending", status)
	}
	if m.PC != word.StartAddr {
		t.Fatalf("PC advanced past a pending RX: %v", m.PC)
	}

	io.in = []byte{'A'}
	status, code, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusHalted || code != 'A' {
		t.Fatalf("status=%d code=%d, want halted with 'A'", status, code)
	}
}

func TestRXEscapeExitsCleanly(t *testing.T) {
	io := &stubIO{in: []byte{27}}
	m := New(io)
	load(m, word.StartAddr, word.MakeALU(word.ALURX, word.ALUFlags{}))
	status, code, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusHalted || code != 0 {
		t.Fatalf("status=%d code=%d, want a clean halt", status, code)
	}
}
