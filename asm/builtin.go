package asm

// builtin is one dictionary entry ".built-in" expands into the image:
// a name, its body of ALU cells, and whether it should get a word
// header (compile). hidden suppresses that header and marks the
// symbol hidden; the symbol is still found by name lookup.
type builtin struct {
	name    string
	body    []aluStep
	compile bool
	hidden  bool
}

// mnemonicOrder fixes the iteration order .built-in uses when turning
// the mnemonic table into dictionary entries, so two assembler runs
// over the same source produce byte-identical images (the peephole
// idempotence property in spec.md §8 depends on this determinism).
var mnemonicOrder = []string{
	"and", "or", "xor", "invert", "=", "<", "u<", "rshift", "lshift",
	"1-", "+", "@", "depth", "rdepth", "0=", "tx", "rx", "save", "bye",
	"exit", "dup", "over", "swap", "nip", "drop", ">r", "r>", "r@",
	"rdrop", "!",
}

// builtinsOnce holds the fixed dictionary .built-in installs: one
// visible entry per instruction mnemonic, plus the three hidden
// helper words the assembler itself calls by name when compiling
// constant/variable headers and for/next loops.
//
// doVar, doConst and the loop decrement helper (named "r1-" and
// looked up only under that name; see DESIGN.md) are grounded
// directly on original_source/h2.c's built_in_words table: doVar is
// {r>}, doConst is {r> @}, and the decrement helper is
// {r> r> 1- >r >r} — the two extra r>/>r round trips thread a nested
// return address (the call to the helper itself) through the loop
// counter that's actually being decremented.
var builtinsOnce = func() []builtin {
	list := make([]builtin, 0, len(mnemonicOrder)+3)
	for _, name := range mnemonicOrder {
		list = append(list, builtin{name: name, body: mnemonics[name], compile: true})
	}
	decrement := []aluStep{
		mnemonics["r>"][0],
		mnemonics["r>"][0],
		mnemonics["1-"][0],
		mnemonics[">r"][0],
		mnemonics[">r"][0],
	}
	list = append(list,
		builtin{name: "doVar", body: mnemonics["r>"], compile: true, hidden: true},
		builtin{name: "doConst", body: append(append([]aluStep{}, mnemonics["r>"]...), mnemonics["@"]...), compile: true, hidden: true},
		builtin{name: "r1-", body: decrement, compile: true, hidden: true},
	)
	return list
}()

func lookupBuiltinBody(name string) ([]aluStep, bool) {
	for _, b := range builtinsOnce {
		if b.name == name {
			return b.body, true
		}
	}
	return nil, false
}
