package vm

import "github.com/dvhtn/forthcpu/word"

// memMask bounds every memory index (data pointer, return pointer, or a
// [T>>1] address) to the core array's size. word.MemSize is a power of
// two, so this both prevents an out-of-range Go slice access and gives
// the "circular ... into adjacent memory" behavior spec.md asks for on
// stack overflow/underflow: the pointer keeps counting, but the cell it
// names wraps back into the same array instead of panicking.
const memMask = word.MemSize - 1

// IO supplies the host-side callbacks a Machine needs for the TX, RX,
// and SAVE ALU operations. Implementations are expected to be the
// console package's Console, but tests commonly supply a stub.
type IO interface {
	// Get returns the next input byte. ok is false when no byte is
	// currently available (the RX op should leave T unmodified... per
	// spec.md, RX polls: the driver re-enters after a short sleep, so
	// Get's contract here is "return promptly", not "block until data").
	// eof is true when the input source is exhausted.
	Get() (b byte, ok bool, eof bool)
	// Put writes one output byte.
	Put(b byte) error
	// Save persists the current memory image.
	Save(mem []word.Instr) error
}

// Machine is a Forth CPU core: a memory image, a program counter, and
// three registers (T, sp, rp) that alias into that same memory.
type Machine struct {
	Mem [word.MemSize]word.Instr

	PC  word.Instr // word index of the next instruction
	TOS word.Instr // top-of-stack register (T)
	SP  word.Instr // data-stack pointer
	RP  word.Instr // return-stack pointer

	IO IO

	// pending is set by RX when no input is currently available; Run
	// returns it as the driver's re-enter sentinel instead of an error.
	pending bool

	lastPC    word.Instr
	lastInstr word.Instr
}

// New returns a Machine with a freshly reset register file. Callers load
// a program into Mem (e.g. by copying an assembled image) before calling
// Run.
func New(io IO) *Machine {
	m := &Machine{
		PC: word.StartAddr,
		SP: word.VariableStackStart,
		RP: word.ReturnStackStart,
		IO: io,
	}
	for i := word.Instr(0); i < word.StartAddr; i++ {
		m.Mem[i] = word.MakeBranch(word.StartAddr)
	}
	return m
}

// Load copies img into memory starting at cell 0, e.g. after reading a
// persisted block file.
func (m *Machine) Load(img []word.Instr) {
	copy(m.Mem[:], img)
}

func (m *Machine) at(a word.Instr) *word.Instr {
	return &m.Mem[a&memMask]
}

// Exit codes returned by Run's status result.
const (
	// StatusHalted means BYE ran; Run's int32 result is T at that point.
	StatusHalted = 0
	// StatusPending means RX found no input; the driver should sleep
	// briefly and call Run again.
	StatusPending = 1
)

// Run executes instructions until BYE, EOF-on-input, or ESCAPE-on-input
// stops the machine, or a Fault occurs. status is StatusHalted (0) on a
// clean BYE/EOF/ESCAPE exit carrying the returned T value in code, or
// StatusPending (positive) when RX ran dry and the caller should re-enter
// after a short delay.
func (m *Machine) Run() (status int, code int32, err error) {
	for {
		m.lastPC = m.PC
		instr := *m.at(m.PC)
		m.lastInstr = instr
		pcPlusOne := (m.PC + 1) % word.MaxProgram

		switch {
		case word.IsLiteral(instr):
			m.push(word.Literal(instr))
			m.PC = pcPlusOne

		case word.IsALU(instr):
			halt, code2, err2 := m.stepALU(instr, pcPlusOne)
			if err2 != nil {
				return StatusHalted, 0, err2
			}
			if halt {
				return StatusHalted, code2, nil
			}
			if m.pending {
				m.pending = false
				return StatusPending, 0, nil
			}

		case word.IsCall(instr):
			m.RP++
			*m.at(m.RP) = pcPlusOne << 1
			m.PC = word.Addr(instr)

		case word.Is0Branch(instr):
			popped := m.pop()
			if popped == 0 {
				m.PC = word.Addr(instr) % word.MaxProgram
			} else {
				m.PC = pcPlusOne
			}

		case word.IsBranch(instr):
			m.PC = word.Addr(instr)

		default:
			return StatusHalted, 0, m.fault(IllegalInstruction, 0, nil)
		}
	}
}

// push implements the literal-instruction push: the old T moves down
// into the cell above SP, and n becomes the new T.
func (m *Machine) push(n word.Instr) {
	m.SP++
	*m.at(m.SP) = m.TOS
	m.TOS = n
}

// pop implements the inverse of push, used by 0BRANCH.
func (m *Machine) pop() word.Instr {
	r := m.TOS
	m.TOS = *m.at(m.SP)
	m.SP--
	return r
}

// stepALU runs one ALU instruction. halt is true for BYE, EOF-on-input,
// and ESCAPE-on-input, with code holding the value Run should return.
func (m *Machine) stepALU(instr, pcPlusOne word.Instr) (halt bool, code int32, err error) {
	rd := word.StackDelta(word.RDelta(instr))
	dd := word.StackDelta(word.DDelta(instr))
	nos := *m.at(m.SP)
	oldTOS := m.TOS
	tos := oldTOS
	npc := pcPlusOne
	if word.RtoPC(instr) {
		npc = *m.at(m.RP) >> 1
	}

	switch word.ALUOp(instr) {
	case word.ALUT:
		// tos = tos
	case word.ALUN:
		tos = nos
	case word.ALUTPlusN:
		tos += nos
	case word.ALUTAndN:
		tos &= nos
	case word.ALUTOrN:
		tos |= nos
	case word.ALUTXorN:
		tos ^= nos
	case word.ALUNotT:
		tos = ^tos
	case word.ALUTEqN:
		tos = boolCell(tos == nos)
	case word.ALUNLtT:
		tos = boolCell(int16(nos) < int16(tos))
	case word.ALUNRShiftT:
		tos = nos >> tos
	case word.ALUTMinus1:
		tos--
	case word.ALUR:
		tos = *m.at(m.RP)
	case word.ALULoad:
		tos = *m.at(oldTOS >> 1)
	case word.ALUNLShiftT:
		tos = nos << tos
	case word.ALUDepth:
		tos = m.SP - word.VariableStackStart
	case word.ALUNULtT:
		tos = boolCell(nos < tos)
	case word.ALURDepth:
		tos = m.RP - word.ReturnStackStart
	case word.ALUTEq0:
		tos = boolCell(tos == 0)
	case word.ALUTX:
		if putErr := m.IO.Put(byte(tos)); putErr != nil {
			return false, 0, m.fault(IOError, 0, putErr)
		}
		tos = nos
	case word.ALURX:
		b, ok, eof := m.IO.Get()
		switch {
		case eof:
			return true, 0, nil
		case b == 27: // ESCAPE
			return true, 0, nil
		case !ok:
			m.pending = true
			tos = oldTOS
		default:
			tos = word.Instr(b)
		}
	case word.ALUSave:
		if saveErr := m.IO.Save(m.Mem[:]); saveErr != nil {
			return false, 0, m.fault(IOError, 0, saveErr)
		}
	case word.ALUBye:
		return true, int32(int16(tos)), nil
	default:
		return false, 0, m.fault(IllegalInstruction, 0, nil)
	}

	if m.pending {
		// RX found nothing: leave every register untouched, PC included,
		// so a re-entry re-executes this exact instruction.
		return false, 0, nil
	}

	m.SP += word.Instr(dd)
	m.RP += word.Instr(rd)

	if word.TtoR(instr) {
		*m.at(m.RP) = oldTOS
	}
	if word.TtoN(instr) {
		*m.at(m.SP) = oldTOS
	}
	if word.NtoAddrT(instr) {
		*m.at(oldTOS >> 1) = nos
	}

	m.TOS = tos
	m.PC = npc
	return false, 0, nil
}

func boolCell(b bool) word.Instr {
	if b {
		return 0xFFFF
	}
	return 0
}
