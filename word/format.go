package word

import "fmt"

// String renders w as a 4-digit hex cell, the format the VM and
// assembler use in diagnostics and disassembly.
func (w Instr) String() string {
	return fmt.Sprintf("%04x", uint16(w))
}

// Disassemble returns a short mnemonic rendering of w, best-effort: it
// does not attempt to resolve call/branch targets against a symbol
// table, only the raw instruction shape.
func Disassemble(w Instr) string {
	switch {
	case IsLiteral(w):
		return fmt.Sprintf("lit %04x", uint16(Literal(w)))
	case IsCall(w):
		return fmt.Sprintf("call %04x", uint16(Addr(w)))
	case Is0Branch(w):
		return fmt.Sprintf("0branch %04x", uint16(Addr(w)))
	case IsBranch(w):
		return fmt.Sprintf("branch %04x", uint16(Addr(w)))
	case IsALU(w):
		name, ok := aluNames[ALUOp(w)]
		if !ok {
			name = fmt.Sprintf("alu?%x", uint16(ALUOp(w)))
		}
		return name
	default:
		return fmt.Sprintf("??? %04x", uint16(w))
	}
}

var aluNames = map[Instr]string{
	ALUT:        "t",
	ALUN:        "n",
	ALUTPlusN:   "t+n",
	ALUTAndN:    "t&n",
	ALUTOrN:     "t|n",
	ALUTXorN:    "t^n",
	ALUNotT:     "invert",
	ALUTEqN:     "=",
	ALUNLtT:     "<",
	ALUNRShiftT: "rshift",
	ALUTMinus1:  "1-",
	ALUR:        "r",
	ALULoad:     "@",
	ALUNLShiftT: "lshift",
	ALUDepth:    "depth",
	ALUNULtT:    "u<",
	ALURDepth:   "rdepth",
	ALUTEq0:     "0=",
	ALUTX:       "tx",
	ALURX:       "rx",
	ALUSave:     "save",
	ALUBye:      "bye",
}
