package asm

import (
	"fmt"
	"io"

	"github.com/dvhtn/forthcpu/word"
)

// SymType tags what a symbol names.
type SymType int

const (
	SymLabel SymType = iota
	SymCall
	SymConstant
	SymVariable
)

func (t SymType) String() string {
	switch t {
	case SymLabel:
		return "label"
	case SymCall:
		return "call"
	case SymConstant:
		return "constant"
	case SymVariable:
		return "variable"
	default:
		return "?"
	}
}

// Symbol is one entry in the table: name, value, kind, and visibility.
type Symbol struct {
	Name   string
	Value  word.Instr
	Type   SymType
	Hidden bool
}

// SymbolTable is an insertion-ordered, append-only (barring explicit
// redefinition checks) collection of Symbols. Lookup goes through a
// map; insertion order is kept only so that printing a table reads
// like the source that built it.
type SymbolTable struct {
	order []string
	byID  map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byID: make(map[string]*Symbol)}
}

// Add inserts a new symbol. Redefining an existing name is rejected.
func (t *SymbolTable) Add(typ SymType, id string, value word.Instr, hidden bool) error {
	if _, ok := t.byID[id]; ok {
		return errf(SemanticError, 0, "symbol %q already defined", id)
	}
	t.byID[id] = &Symbol{Name: id, Value: value, Type: typ, Hidden: hidden}
	t.order = append(t.order, id)
	return nil
}

// Lookup returns the symbol named id, or nil if there is none.
func (t *SymbolTable) Lookup(id string) *Symbol {
	return t.byID[id]
}

// Print writes every symbol in insertion order, one per line.
func (t *SymbolTable) Print(w io.Writer) error {
	for _, id := range t.order {
		s := t.byID[id]
		hidden := ""
		if s.Hidden {
			hidden = " (hidden)"
		}
		if _, err := fmt.Fprintf(w, "%-8s %-20s %04x%s\n", s.Type, s.Name, s.Value, hidden); err != nil {
			return err
		}
	}
	return nil
}
