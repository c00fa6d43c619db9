package word

// Predicates classify a word by its top bits. Exactly one of these five
// is true for any word.

// IsLiteral reports whether w pushes an immediate value.
func IsLiteral(w Instr) bool { return w&classLiteral != 0 }

// IsALU reports whether w is an ALU operation.
func IsALU(w Instr) bool { return !IsLiteral(w) && w&classMask == classALU }

// IsCall reports whether w calls a subroutine.
func IsCall(w Instr) bool { return !IsLiteral(w) && w&classMask == classCall }

// Is0Branch reports whether w is a conditional (pop-and-test-zero) branch.
func Is0Branch(w Instr) bool { return !IsLiteral(w) && w&classMask == class0Branch }

// IsBranch reports whether w is an unconditional branch.
func IsBranch(w Instr) bool { return !IsLiteral(w) && w&classMask == classBranch }

// Addr extracts the 13-bit target address from a call, branch, or
// 0branch word.
func Addr(w Instr) Instr { return w & addrMask }

// Literal extracts the zero-extended immediate from a literal word.
func Literal(w Instr) Instr { return w & litMask }

// ALUOp extracts the ALU opcode (bit 4 folded in as the high bit, see
// DESIGN.md) from an ALU word.
func ALUOp(w Instr) Instr { return (w >> aluOpShift) & aluOpMask | w&extPage }

// RDelta extracts the 2-bit return-stack delta code.
func RDelta(w Instr) Instr { return (w >> rDeltaShift) & rDeltaMask }

// DDelta extracts the 2-bit data-stack delta code.
func DDelta(w Instr) Instr { return w & dDeltaMask }

// TtoN reports whether the ALU word transfers T to N.
func TtoN(w Instr) bool { return w&FlagTtoN != 0 }

// TtoR reports whether the ALU word transfers T to the return stack.
func TtoR(w Instr) bool { return w&FlagTtoR != 0 }

// NtoAddrT reports whether the ALU word stores N to the memory cell
// addressed by T.
func NtoAddrT(w Instr) bool { return w&FlagNtoAT != 0 }

// RtoPC reports whether the ALU word loads PC from the return stack top
// after the op runs (used to compile EXIT).
func RtoPC(w Instr) bool { return w&FlagRtoPC != 0 }

// MakeLiteral composes a literal instruction pushing the low 15 bits of n.
func MakeLiteral(n Instr) Instr { return OpLiteral | (n & litMask) }

// MakeCall composes a call to addr.
func MakeCall(addr Instr) Instr { return OpCall | (addr & addrMask) }

// Make0Branch composes a 0branch to addr.
func Make0Branch(addr Instr) Instr { return Op0Branch | (addr & addrMask) }

// MakeBranch composes an unconditional branch to addr.
func MakeBranch(addr Instr) Instr { return OpBranch | (addr & addrMask) }

// ALUFlags bundles the transfer/return flags accepted by MakeALU so
// callers don't have to remember bit positions.
type ALUFlags struct {
	RtoPC bool
	TtoN  bool
	TtoR  bool
	NtoT  bool // N -> [T]: store N to the address held in T
	RDelta int // one of 0, 1, -2, -1
	DDelta int // one of 0, 1, -2, -1
}

func deltaCode(delta int) Instr {
	for code, d := range stackDelta {
		if d == delta {
			return Instr(code)
		}
	}
	panic("word: invalid stack delta")
}

// MakeALU composes an ALU instruction word for the given opcode and flags.
func MakeALU(op Instr, f ALUFlags) Instr {
	w := OpALU | (op&aluOpMask)<<aluOpShift | op&extPage
	if f.RtoPC {
		w |= FlagRtoPC
	}
	if f.TtoN {
		w |= FlagTtoN
	}
	if f.TtoR {
		w |= FlagTtoR
	}
	if f.NtoT {
		w |= FlagNtoAT
	}
	w |= deltaCode(f.RDelta) << rDeltaShift
	w |= deltaCode(f.DDelta)
	return w
}
