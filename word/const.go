package word

// Instr is a single 16-bit cell of H2 core memory, interpreted either as
// an instruction word or as data depending on where control flow finds
// it.
type Instr uint16

// Memory geometry. original_source/h2.c does not ship the header that
// defines these; the values below are chosen to match the bit widths
// spec.md prescribes (a 13-bit call/branch/0branch address field, a
// 16-bit cell) rather than lifted from an unavailable source file. See
// DESIGN.md.
const (
	// MaxMemory is the size, in bytes, of the addressable image. It is
	// not itself a cell count: the core array holds MaxMemory/2 cells.
	MaxMemory = 32768

	// MemSize is the length, in cells, of the VM's core memory array.
	MemSize = MaxMemory / 2

	// MaxProgram is the number of cells reachable by a call, branch, or
	// 0branch instruction's 13-bit address field. The program counter
	// wraps modulo MaxProgram on every advance.
	MaxProgram = 1 << 13

	// StartAddr is the first cell of user code. Cells below it are
	// pre-filled with an unconditional branch to StartAddr, so that a
	// stray jump to a low address (e.g. a hardware reset vector) lands
	// back in user code instead of running whatever data happens to sit
	// there.
	StartAddr = 8

	// VariableStackStart and ReturnStackStart are the initial values of
	// sp and rp. Both stacks live in the same memory array as code and
	// grow upward by increment, per spec.md's data model.
	VariableStackStart = MemSize - 128
	ReturnStackStart   = MemSize - 64
)

// Instruction class prefixes, matched against the top bits of a word.
const (
	classLiteral = 0x8000
	classALU     = 0x6000
	classCall    = 0x4000
	class0Branch = 0x2000
	classBranch  = 0x0000

	classMask = 0xE000
	addrMask  = MaxProgram - 1 // 0x1FFF
	litMask   = 0x7FFF
)

// Opcodes for the composers below.
const (
	OpLiteral  Instr = classLiteral
	OpALU      Instr = classALU
	OpCall     Instr = classCall
	Op0Branch  Instr = class0Branch
	OpBranch   Instr = classBranch
)

// ALU flag bits.
const (
	FlagRtoPC Instr = 1 << 12 // R -> PC: load PC from top of return stack
	FlagTtoN  Instr = 1 << 7  // T -> N
	FlagTtoR  Instr = 1 << 6  // T -> R
	FlagNtoAT Instr = 1 << 5  // N -> [T]
	// bit 4 selects the extended ALU opcode page (extPage below)
)

const (
	aluOpShift = 8
	aluOpMask  = 0xF
	rDeltaShift = 2
	rDeltaMask  = 0x3
	dDeltaMask  = 0x3
)

// ALU operation codes (bits 11:8 of an ALU word).
const (
	ALUT       Instr = iota // T
	ALUN                    // N
	ALUTPlusN               // T+N
	ALUTAndN                // T&N
	ALUTOrN                 // T|N
	ALUTXorN                // T^N
	ALUNotT                 // ~T
	ALUTEqN                 // T==N
	ALUNLtT                 // N<T (signed)
	ALUNRShiftT             // N>>T
	ALUTMinus1              // T-1
	ALUR                    // R (top of return stack)
	ALULoad                 // [T>>1]
	ALUNLShiftT             // N<<T
	ALUDepth                // depth
	ALUNULtT                // N<T (unsigned)
)

// Extended ALU sub-operations. RDEPTH, T==0, TX, RX, SAVE and BYE are
// not part of the primary 16, but spec.md lists 22 named ALU operations
// for one 4-bit field. To keep decode total and unambiguous the six
// extended operations get their own space: bit 4 (always 0 for the
// primary 16) serves as a second opcode page, so each extended op is a
// primary code with extPage set and never aliases a primary op.
const (
	extPage       Instr = 1 << 4
	ALURDepth     Instr = ALUT | extPage       // rdepth
	ALUTEq0       Instr = ALUN | extPage       // T==0
	ALUTX         Instr = ALUTPlusN | extPage  // TX: write T, then T=N
	ALURX         Instr = ALUTAndN | extPage   // RX: read input into T
	ALUSave       Instr = ALUTOrN | extPage    // SAVE: persist block
	ALUBye        Instr = ALUTXorN | extPage   // BYE: halt, return T
)

// stackDelta maps a 2-bit stack-delta code to its signed cell delta.
// This table is a hardware convention (two's-complement encodings of
// small negatives in a 2-bit field) and must not be "corrected".
var stackDelta = [4]int{0, 1, -2, -1}

// StackDelta returns the signed pointer delta encoded by a 2-bit
// r-stack or d-stack delta field.
func StackDelta(code Instr) int {
	return stackDelta[code&0x3]
}
