package asm

import "github.com/dvhtn/forthcpu/word"

// aluStep is one emitted ALU cell: an opcode plus the flag bits that
// dress it. Most mnemonics are a single step; "!" needs two, because
// this architecture's ALU can only see T and N (never a third stack
// cell) in one instruction, so shedding two stack cells and surfacing
// the item beneath them takes two steps (see the "!" entry below).
type aluStep struct {
	op    word.Instr
	flags word.ALUFlags
}

// mnemonics maps every instruction-mnemonic name to the ALU
// cell(s) it expands to. Names and flag placement are grounded in
// spec.md §3's 22-op ALU list together with the register-transfer
// semantics implemented in vm/machine.go: each entry was hand-derived
// by tracing what a Machine.stepALU call does to T, N and the stack
// pointers, the same way the "1 2 + bye" scenario was checked.
var mnemonics = map[string][]aluStep{
	"and":    {{word.ALUTAndN, word.ALUFlags{DDelta: -1}}},
	"or":     {{word.ALUTOrN, word.ALUFlags{DDelta: -1}}},
	"xor":    {{word.ALUTXorN, word.ALUFlags{DDelta: -1}}},
	"invert": {{word.ALUNotT, word.ALUFlags{}}},
	"=":      {{word.ALUTEqN, word.ALUFlags{DDelta: -1}}},
	"<":      {{word.ALUNLtT, word.ALUFlags{DDelta: -1}}},
	"u<":     {{word.ALUNULtT, word.ALUFlags{DDelta: -1}}},
	"rshift": {{word.ALUNRShiftT, word.ALUFlags{DDelta: -1}}},
	"lshift": {{word.ALUNLShiftT, word.ALUFlags{DDelta: -1}}},
	"1-":     {{word.ALUTMinus1, word.ALUFlags{}}},
	"+":      {{word.ALUTPlusN, word.ALUFlags{DDelta: -1}}},
	"@":      {{word.ALULoad, word.ALUFlags{}}},
	"depth":  {{word.ALUDepth, word.ALUFlags{}}},
	"rdepth": {{word.ALURDepth, word.ALUFlags{}}},
	"0=":     {{word.ALUTEq0, word.ALUFlags{}}},
	"tx":     {{word.ALUTX, word.ALUFlags{DDelta: -1}}},
	"rx":     {{word.ALURX, word.ALUFlags{TtoN: true, DDelta: 1}}},
	"save":   {{word.ALUSave, word.ALUFlags{}}},
	"bye":    {{word.ALUBye, word.ALUFlags{}}},

	// exit: R→PC, r-stack shrinks by one. The peephole optimizer looks
	// specifically for this shape when merging a following CODE_EXIT.
	"exit": {{word.ALUT, word.ALUFlags{RtoPC: true, RDelta: -1}}},

	// stack shuffling, all built from T/N flag placement, no new ALU op.
	"dup":   {{word.ALUT, word.ALUFlags{TtoN: true, DDelta: 1}}},
	"over":  {{word.ALUN, word.ALUFlags{TtoN: true, DDelta: 1}}},
	"swap":  {{word.ALUN, word.ALUFlags{TtoN: true}}},
	"nip":   {{word.ALUT, word.ALUFlags{DDelta: -1}}},
	"drop":  {{word.ALUN, word.ALUFlags{DDelta: -1}}},
	">r":    {{word.ALUN, word.ALUFlags{TtoR: true, DDelta: -1, RDelta: 1}}},
	"r>":    {{word.ALUR, word.ALUFlags{TtoN: true, DDelta: 1, RDelta: -1}}},
	"r@":    {{word.ALUR, word.ALUFlags{TtoN: true, DDelta: 1}}},
	"rdrop": {{word.ALUT, word.ALUFlags{RDelta: -1}}},

	// ! (val addr -- ): step one stores N at [T] and, since the ALU
	// can only surface N as the next T, leaves the stored value
	// sitting on top; step two drops it, surfacing the cell beneath.
	"!": {
		{word.ALUN, word.ALUFlags{NtoT: true, DDelta: -1}},
		{word.ALUN, word.ALUFlags{DDelta: -1}},
	},
}

func isMnemonic(s string) bool {
	_, ok := mnemonics[s]
	return ok
}
