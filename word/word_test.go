package word

import "testing"

func TestPredicatesArePartition(t *testing.T) {
	classify := func(w Instr) int {
		n := 0
		for _, ok := range []bool{IsLiteral(w), IsALU(w), IsCall(w), Is0Branch(w), IsBranch(w)} {
			if ok {
				n++
			}
		}
		return n
	}
	for w := 0; w < 0x10000; w += 0x0101 {
		if n := classify(Instr(w)); n != 1 {
			t.Fatalf("word %04x classified as %d classes, want 1", w, n)
		}
	}
}

func TestALURoundTrip(t *testing.T) {
	deltas := []int{0, 1, -2, -1}
	ops := []Instr{ALUT, ALUTPlusN, ALUNotT, ALUDepth, ALURDepth, ALUTEq0, ALUBye}
	for _, op := range ops {
		for _, rd := range deltas {
			for _, dd := range deltas {
				for _, ttoN := range []bool{false, true} {
					for _, ttoR := range []bool{false, true} {
						f := ALUFlags{TtoN: ttoN, TtoR: ttoR, RDelta: rd, DDelta: dd}
						w := MakeALU(op, f)
						if !IsALU(w) {
							t.Fatalf("MakeALU(%v, %+v) = %v, not classified as ALU", op, f, w)
						}
						if got := ALUOp(w); got != op {
							t.Fatalf("ALUOp(%v) = %v, want %v", w, got, op)
						}
						if got := StackDelta(RDelta(w)); got != rd {
							t.Fatalf("StackDelta(RDelta(%v)) = %d, want %d", w, got, rd)
						}
						if got := StackDelta(DDelta(w)); got != dd {
							t.Fatalf("StackDelta(DDelta(%v)) = %d, want %d", w, got, dd)
						}
						if TtoN(w) != ttoN || TtoR(w) != ttoR {
							t.Fatalf("flags round trip failed for %v", w)
						}
					}
				}
			}
		}
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	for _, n := range []Instr{0, 1, 0x7fff, 0x4242, 0x1} {
		w := MakeLiteral(n)
		if !IsLiteral(w) {
			t.Fatalf("MakeLiteral(%v) not classified as literal", n)
		}
		if got := Literal(w); got != n {
			t.Fatalf("Literal(MakeLiteral(%v)) = %v", n, got)
		}
	}
}

func TestAddrRoundTrip(t *testing.T) {
	make := []func(Instr) Instr{MakeCall, Make0Branch, MakeBranch}
	is := []func(Instr) bool{IsCall, Is0Branch, IsBranch}
	for i := range make {
		for _, a := range []Instr{0, 1, MaxProgram - 1, StartAddr} {
			w := make[i](a)
			if !is[i](w) {
				t.Fatalf("constructor %d did not produce its own class for addr %v", i, a)
			}
			if got := Addr(w); got != a {
				t.Fatalf("Addr round trip: got %v, want %v", got, a)
			}
		}
	}
}

func TestStackDeltaTable(t *testing.T) {
	want := [4]int{0, 1, -2, -1}
	for code, w := range want {
		if got := StackDelta(Instr(code)); got != w {
			t.Fatalf("StackDelta(%d) = %d, want %d", code, got, w)
		}
	}
}
