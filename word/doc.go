// Package word decodes and composes the 16-bit instruction words of the
// H2 Forth CPU.
//
// Each cell in the machine's memory is either data or one instruction
// word, distinguished only by how the fetching code interprets it. The
// top bits of a word select one of five instruction classes:
//
//	1xxx xxxx xxxx xxxx  literal
//	011x xxxx xxxx xxxx  ALU operation
//	010x xxxx xxxx xxxx  call
//	001x xxxx xxxx xxxx  conditional (zero) branch
//	000x xxxx xxxx xxxx  unconditional branch
//
// Literal words push their low 15 bits, zero-extended, onto the data
// stack. Call, branch, and 0branch words carry a 13-bit target address
// in their low bits, addressing memory in cells rather than bytes.
//
// An ALU word has the following fields:
//
//	011R oooo TNne rrdd
//
//	R    = 1: after the ALU op runs, PC is loaded from the top of the
//	          return stack (used to implement EXIT)
//	oooo = ALU operation, one of the 16 primary opcodes in const.go
//	T    = 1: push T (the pre-op top of stack) to N (second on stack)
//	N    = 1: push T to the return stack
//	n    = 1: store N to the memory cell addressed by (pre-op) T
//	e    = 1: oooo selects one of the six extended opcodes (extPage)
//	rr   = return-stack pointer delta, see stackDelta
//	dd   = data-stack pointer delta, see stackDelta
//
// The bit at position 4 (e) is zero for the 16 primary opcodes and set
// by MakeALU only for the extended ones.
package word
