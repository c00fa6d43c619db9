package asm

import "github.com/dvhtn/forthcpu/word"

// Mode bits controlling the assembler's optional behavior, grounded on
// original_source/h2.c's assembler_mode_e. The zero value, ModeNormal,
// emits neither word headers nor peephole-optimized code.
const (
	ModeNormal             word.Instr = 0
	ModeCompileWordHeader  word.Instr = 1 << 0
	ModeOptimizationOn     word.Instr = 1 << 1
)

// Assembler walks a parsed program and emits instruction words into a
// memory image, threading a symbol table, a previous-word pointer, and
// the peephole optimizer's fence through the process. One Assembler
// assembles exactly one program; construct a fresh one per compile.
type Assembler struct {
	mem   []word.Instr
	pc    word.Instr
	pwd   word.Instr
	fence word.Instr
	mode  word.Instr

	startDefined       bool
	start              word.Instr
	builtInWordsDefined bool
	inDefinition        bool

	sym *SymbolTable

	doVar   *Symbol
	doConst *Symbol
}

// NewAssembler returns an Assembler with a fresh image and symbol
// table, in ModeNormal, PC positioned at StartAddr.
func NewAssembler() *Assembler {
	a := &Assembler{
		mem: make([]word.Instr, word.MemSize),
		pc:  word.StartAddr,
		sym: NewSymbolTable(),
	}
	for i := word.Instr(0); i < word.StartAddr; i++ {
		a.mem[i] = word.MakeBranch(word.StartAddr)
	}
	return a
}

// Symbols returns the table the assembler wrote to and read from.
func (a *Assembler) Symbols() *SymbolTable { return a.sym }

// Assemble walks the program AST and returns the resulting memory
// image. It stops and returns the first error encountered.
func (a *Assembler) Assemble(prog *Node) ([]word.Instr, error) {
	if err := a.stmts(prog.Children); err != nil {
		return nil, err
	}
	return a.mem, nil
}

func (a *Assembler) updateFence(pc word.Instr) {
	if pc > a.fence {
		a.fence = pc
	}
}

// here raises the fence to pc (a label or jump target was taken here)
// and returns pc.
func (a *Assembler) here() word.Instr {
	a.updateFence(a.pc)
	return a.pc
}

// hole reserves one cell to be patched later by fix, raising the
// fence first the same way here does.
func (a *Assembler) hole() word.Instr {
	a.here()
	h := a.pc
	a.pc++
	return h
}

func (a *Assembler) fix(hole, val word.Instr) {
	a.mem[hole] = val
}

// generate is the sole place instructions reach the image. It applies
// the two EXIT-related peephole rules from spec.md §4.6 when
// optimization is on and raises the fence for any control-flow-ish
// word, mirroring original_source/h2.c's generate().
func (a *Assembler) generate(instr word.Instr) error {
	if a.pc >= word.MaxProgram {
		return errf(Overflow, 0, "program counter overflow at %#x", a.pc)
	}

	if word.IsCall(instr) || word.IsLiteral(instr) || word.Is0Branch(instr) || word.IsBranch(instr) {
		a.updateFence(a.pc)
	}

	if a.mode&ModeOptimizationOn != 0 && a.pc > 0 {
		prev := a.mem[a.pc-1]
		switch {
		case a.pc > a.fence && word.IsALU(prev) && instr == codeExit && canMergeExit(prev):
			a.mem[a.pc-1] = prev | instr
			a.updateFence(a.pc - 1)
			return nil
		case a.pc > a.fence && word.IsCall(prev) && instr == codeExit:
			a.mem[a.pc-1] = word.MakeBranch(word.Addr(prev))
			a.updateFence(a.pc - 1)
			return nil
		}
	}

	a.mem[a.pc] = instr
	a.pc++
	return nil
}

// canMergeExit reports whether prev (an ALU word) can absorb an
// immediately following EXIT: it must not already return (R→PC) and
// must not already pop the return stack (an r-stack delta of -1),
// since EXIT needs to own both of those.
func canMergeExit(prev word.Instr) bool {
	if word.RtoPC(prev) {
		return false
	}
	return word.StackDelta(word.RDelta(prev)) != -1
}

func (a *Assembler) emitLiteral(n word.Instr) error {
	if n&word.OpLiteral != 0 {
		if err := a.generate(word.MakeLiteral(^n)); err != nil {
			return err
		}
		return a.generate(codeInvert)
	}
	return a.generate(word.MakeLiteral(n))
}

func (a *Assembler) jumpTarget(v Token) (word.Instr, error) {
	switch v.Kind {
	case TokLiteral:
		return word.Instr(uint16(v.Num)), nil
	case TokIdentifier:
		s := a.sym.Lookup(v.Str)
		if s == nil {
			return 0, errf(UndefinedSymbol, v.Line, "undefined symbol: %s", v.Str)
		}
		return s.Value, nil
	default:
		return 0, errf(SyntaxError, v.Line, "invalid jump target")
	}
}

func (a *Assembler) generateJump(kind NodeKind, tok Token, target Token) error {
	addr, err := a.jumpTarget(target)
	if err != nil {
		return err
	}
	if target.Kind == TokIdentifier {
		if s := a.sym.Lookup(target.Str); s != nil && s.Type == SymCall && kind != NCall {
			return errf(SemanticError, tok.Line, "cannot branch/0branch to a call symbol: %s", target.Str)
		}
	}
	if int(addr) > int(word.MaxProgram) {
		return errf(Overflow, tok.Line, "jump address out of range: %#x", addr)
	}
	switch kind {
	case NCall:
		return a.generate(word.MakeCall(addr))
	case NBranch:
		return a.generate(word.MakeBranch(addr))
	case N0Branch:
		return a.generate(word.Make0Branch(addr))
	}
	panic("asm: invalid jump kind")
}

func packString(a *Assembler, s string) (word.Instr, error) {
	if len(s) > 255 {
		return 0, errf(Overflow, 0, "string %q exceeds 255 bytes", s)
	}
	start := a.hole()
	if len(s) == 0 {
		a.fix(start, 0)
		a.here()
		return start, nil
	}
	a.fix(start, word.Instr(s[0])<<8|word.Instr(len(s)))
	i := 1
	for ; i+1 < len(s); i += 2 {
		c := a.hole()
		a.fix(c, word.Instr(s[i+1])<<8|word.Instr(s[i]))
	}
	if i < len(s) {
		c := a.hole()
		a.fix(c, word.Instr(s[i]))
	}
	a.here()
	return start, nil
}

func (a *Assembler) emitHeader(name string) error {
	h := a.hole()
	a.fix(h, a.pwd)
	a.pwd = h << 1
	_, err := packString(a, name)
	return err
}

func (a *Assembler) stmts(nodes []*Node) error {
	for _, n := range nodes {
		if err := a.stmt(n); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) stmt(n *Node) error {
	if a.pc > word.MaxProgram {
		return errf(Overflow, n.Line, "program counter overflow")
	}

	switch n.Kind {
	case NLabel:
		return a.sym.Add(SymLabel, n.Str, a.here(), false)

	case NBranch, N0Branch:
		return a.generateJump(n.Kind, n.Tok, n.Value)

	case NCall:
		if n.Tok.Kind == TokCall {
			return a.generateJump(NCall, n.Tok, n.Value)
		}
		return a.callByName(n)

	case NLiteral:
		return a.emitLiteral(word.Instr(uint16(n.Tok.Num)))

	case NConstant:
		return a.constant(n)
	case NVariable:
		return a.variable(n, false)
	case NLocation:
		return a.variable(n, true)

	case NQuote:
		s := a.sym.Lookup(n.Value.Str)
		if s == nil || (s.Type != SymCall && s.Type != SymLabel) {
			return errf(UndefinedSymbol, n.Line, "not a defined procedure: %s", n.Value.Str)
		}
		return a.emitLiteral(s.Value << 1)

	case NMnemonic:
		return a.emitMnemonic(n.Str)

	case NIf:
		return a.ifNode(n)

	case NBeginAgain, NBeginUntil:
		return a.beginLoop(n)
	case NBeginWhileRepeat:
		return a.beginWhile(n)

	case NFor:
		if n.HasAft {
			return a.forAftThenNext(n)
		}
		return a.forNext(n)

	case NDefine:
		return a.define(n)

	case NChar:
		return a.emitLiteral(word.Instr(n.Str[0]))

	case NPwd:
		v, err := a.jumpTarget(n.Value)
		if err != nil {
			return err
		}
		a.pwd = v
		return nil
	case NPc:
		v, err := a.jumpTarget(n.Value)
		if err != nil {
			return err
		}
		a.pc = v
		return nil
	case NAllocate:
		v, err := a.jumpTarget(n.Value)
		if err != nil {
			return err
		}
		a.pc += v >> 1
		return nil
	case NMode:
		a.mode = word.Instr(uint16(n.Value.Num))
		return nil

	case NSet:
		return a.setDirective(n)

	case NBuiltIn:
		return a.expandBuiltIns()

	default:
		return errf(SyntaxError, n.Line, "unhandled node kind %v", n.Kind)
	}
}

func (a *Assembler) callByName(n *Node) error {
	s := a.sym.Lookup(n.Str)
	if s == nil {
		return errf(UndefinedSymbol, n.Line, "undefined symbol: %s", n.Str)
	}
	switch s.Type {
	case SymCall:
		return a.generate(word.MakeCall(s.Value))
	case SymConstant, SymVariable:
		return a.emitLiteral(s.Value)
	default:
		return errf(SemanticError, n.Line, "%s is not callable", n.Str)
	}
}

func (a *Assembler) emitMnemonic(name string) error {
	steps, ok := mnemonics[name]
	if !ok {
		return errf(SyntaxError, 0, "unknown instruction mnemonic: %s", name)
	}
	for _, s := range steps {
		if err := a.generate(word.MakeALU(s.op, s.flags)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) constant(n *Node) error {
	if n.Value.Kind != TokLiteral {
		return errf(SemanticError, n.Line, "constant %s needs a literal value", n.Str)
	}
	if a.mode&ModeCompileWordHeader != 0 && a.builtInWordsDefined && n.Bits&BitHidden == 0 {
		if a.doConst == nil {
			a.doConst = a.sym.Lookup("doConst")
		}
		if a.doConst == nil {
			return errf(SemanticError, n.Line, "constant used but doConst not defined")
		}
		if err := a.emitHeader(n.Str); err != nil {
			return err
		}
		if err := a.generate(word.MakeCall(a.doConst.Value)); err != nil {
			return err
		}
		h := a.hole()
		a.fix(h, word.Instr(uint16(n.Value.Num)))
	}
	return a.sym.Add(SymConstant, n.Str, word.Instr(uint16(n.Value.Num)), false)
}

func (a *Assembler) variable(n *Node, isLocation bool) error {
	if !isLocation {
		if a.mode&ModeCompileWordHeader != 0 && a.builtInWordsDefined && n.Bits&BitHidden == 0 {
			if a.doVar == nil {
				a.doVar = a.sym.Lookup("doVar")
			}
			if a.doVar == nil {
				return errf(SemanticError, n.Line, "variable used but doVar not defined, use location")
			}
			if err := a.emitHeader(n.Str); err != nil {
				return err
			}
			if err := a.generate(word.MakeCall(a.doVar.Value)); err != nil {
				return err
			}
		} else if n.Bits&BitHidden == 0 {
			return errf(SemanticError, n.Line, "variable used but doVar not defined, use location")
		}
	}

	a.here()
	var addr word.Instr
	if n.Value.Kind == TokLiteral {
		h := a.hole()
		a.fix(h, word.Instr(uint16(n.Value.Num)))
		addr = h
	} else {
		var err error
		addr, err = packString(a, n.Value.Str)
		if err != nil {
			return err
		}
	}

	typ := SymVariable
	hidden := isLocation
	return a.sym.Add(typ, n.Str, addr<<1, hidden)
}

func (a *Assembler) ifNode(n *Node) error {
	hole0branch := a.hole()
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	if n.Else != nil {
		holeBranch := a.hole()
		a.fix(hole0branch, word.Make0Branch(a.here()))
		if err := a.stmts(n.Else); err != nil {
			return err
		}
		a.fix(holeBranch, word.MakeBranch(a.here()))
	} else {
		a.fix(hole0branch, word.Make0Branch(a.here()))
	}
	return nil
}

func (a *Assembler) beginLoop(n *Node) error {
	top := a.here()
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	if n.Kind == NBeginAgain {
		return a.generate(word.MakeBranch(top))
	}
	return a.generate(word.Make0Branch(top))
}

func (a *Assembler) beginWhile(n *Node) error {
	top := a.here()
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	hole0 := a.hole()
	if err := a.stmts(n.Else); err != nil {
		return err
	}
	if err := a.generate(word.MakeBranch(top)); err != nil {
		return err
	}
	a.fix(hole0, word.Make0Branch(a.here()))
	return nil
}

// loopDecrement emits the r>,1-,>r sequence that pulls the loop count
// off the return stack, decrements it, and pushes it back. When
// .built-in has run and optimization is on, it calls the r1- helper
// word instead of inlining the three mnemonics, matching h2.c's
// generate_loop_decrement.
func (a *Assembler) loopDecrement() error {
	if a.mode&ModeOptimizationOn != 0 {
		if s := a.sym.Lookup("r1-"); s != nil {
			return a.generate(word.MakeCall(s.Value))
		}
	}
	for _, name := range []string{"r>", "1-", ">r"} {
		if err := a.emitMnemonic(name); err != nil {
			return err
		}
	}
	return nil
}

// forNext implements "for statements next" without the doNext tail
// optimization h2.c applies when its own doNext dictionary word is
// present; see DESIGN.md for why that optimization is not ported.
func (a *Assembler) forNext(n *Node) error {
	if err := a.emitMnemonic(">r"); err != nil {
		return err
	}
	top := a.here()
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	if err := a.emitMnemonic("r@"); err != nil {
		return err
	}
	hole0 := a.hole()
	if err := a.loopDecrement(); err != nil {
		return err
	}
	if err := a.generate(word.MakeBranch(top)); err != nil {
		return err
	}
	a.fix(hole0, word.Make0Branch(a.here()))
	return a.emitMnemonic("rdrop")
}

func (a *Assembler) forAftThenNext(n *Node) error {
	if err := a.emitMnemonic(">r"); err != nil {
		return err
	}
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	hole1 := a.hole()
	ratAddr := a.here()
	if err := a.emitMnemonic("r@"); err != nil {
		return err
	}
	if err := a.loopDecrement(); err != nil {
		return err
	}
	hole2 := a.hole()
	if err := a.stmts(n.Aft); err != nil {
		return err
	}
	a.fix(hole1, word.MakeBranch(a.here()))
	if err := a.stmts(n.Else); err != nil {
		return err
	}
	if err := a.generate(word.MakeBranch(ratAddr)); err != nil {
		return err
	}
	a.fix(hole2, word.Make0Branch(a.here()))
	return a.emitMnemonic("rdrop")
}

func (a *Assembler) define(n *Node) error {
	hidden := n.Bits&BitHidden != 0
	if a.mode&ModeCompileWordHeader != 0 && !hidden {
		bits := n.Bits & (BitImmediate | BitInline)
		h := a.hole()
		a.fix(h, a.pwd|word.Instr(bits)<<13)
		a.pwd = h << 1
		if _, err := packString(a, n.Str); err != nil {
			return err
		}
	}
	if err := a.sym.Add(SymCall, n.Str, a.here(), hidden); err != nil {
		return err
	}
	if err := a.stmts(n.Children); err != nil {
		return err
	}
	return a.generate(codeExit)
}

func (a *Assembler) setDirective(n *Node) error {
	addr, err := a.jumpTarget(n.Value)
	if err != nil {
		return err
	}
	var val word.Instr
	switch {
	case n.Value2.Str == "$pc":
		val = a.pc << 1
	case n.Value2.Str == "$pwd":
		val = a.pwd
	case n.Value2.Kind == TokLiteral:
		val = word.Instr(uint16(n.Value2.Num))
	case n.Value2.Kind == TokIdentifier || n.Value2.Kind == TokString:
		s := a.sym.Lookup(n.Value2.Str)
		if s == nil {
			return errf(UndefinedSymbol, n.Line, "undefined symbol: %s", n.Value2.Str)
		}
		val = s.Value
		if s.Type == SymCall {
			val <<= 1
		}
	default:
		return errf(SyntaxError, n.Line, ".set expects an identifier, literal, or string")
	}
	a.mem[addr>>1] = val
	return nil
}

func (a *Assembler) expandBuiltIns() error {
	if a.builtInWordsDefined {
		return errf(SemanticError, 0, ".built-in may only run once")
	}
	a.builtInWordsDefined = true
	for _, b := range builtinsOnce {
		if b.compile && !b.hidden {
			if err := a.emitHeader(b.name); err != nil {
				return err
			}
		}
		if err := a.sym.Add(SymCall, b.name, a.here(), b.hidden); err != nil {
			return err
		}
		for _, step := range b.body {
			if err := a.generate(word.MakeALU(step.op, step.flags)); err != nil {
				return err
			}
		}
		if err := a.generate(codeExit); err != nil {
			return err
		}
	}
	return nil
}

// codeExit and codeInvert are the two ALU words the peephole optimizer
// and literal emission need to recognize by exact bit pattern.
var (
	codeExit   = word.MakeALU(mnemonics["exit"][0].op, mnemonics["exit"][0].flags)
	codeInvert = word.MakeALU(word.ALUNotT, word.ALUFlags{})
)
