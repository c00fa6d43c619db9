package asm

// TokKind names the lexical category of a Token, mirroring the LEX_*
// tag set: the small set of "shape" tokens (literal/identifier/label/
// string) that carry a payload first, then the named punctuation and
// control keywords, then the single tag for instruction mnemonics.
type TokKind int

const (
	TokEOF TokKind = iota
	TokError

	TokLiteral
	TokIdentifier
	TokLabel
	TokString

	// Control-structure and directive keywords.
	TokConstant
	TokVariable
	TokLocation
	TokHidden
	TokImmediate
	TokInline
	TokIf
	TokElse
	TokThen
	TokBegin
	TokAgain
	TokUntil
	TokWhile
	TokRepeat
	TokFor
	TokAft
	TokNext
	TokChar
	TokQuote
	TokDefine    // ":"
	TokEndDefine // ";"
	TokPwd
	TokSet
	TokPc
	TokMode
	TokAllocate
	TokBuiltIn
	TokCall
	TokBranch
	TokZeroBranch

	// TokMnemonic covers every entry in the instruction-mnemonic table;
	// Token.Str carries which one.
	TokMnemonic
)

// keywords lists every reserved word except instruction mnemonics,
// which live in the separate mnemonic table so the lexer can probe
// both without conflating the two ranges (spec's keyword lookup is a
// single ordered linear scan across both, but splitting them costs
// nothing observable since both are exact-match tables).
var keywords = map[string]TokKind{
	"constant":   TokConstant,
	"variable":   TokVariable,
	"location":   TokLocation,
	"hidden":     TokHidden,
	"immediate":  TokImmediate,
	"inline":     TokInline,
	"if":         TokIf,
	"else":       TokElse,
	"then":       TokThen,
	"begin":      TokBegin,
	"again":      TokAgain,
	"until":      TokUntil,
	"while":      TokWhile,
	"repeat":     TokRepeat,
	"for":        TokFor,
	"aft":        TokAft,
	"next":       TokNext,
	"[char]":     TokChar,
	"'":          TokQuote,
	":":          TokDefine,
	";":          TokEndDefine,
	".pwd":       TokPwd,
	".set":       TokSet,
	".pc":        TokPc,
	".mode":      TokMode,
	".allocate":  TokAllocate,
	".built-in":  TokBuiltIn,
	"call":       TokCall,
	"branch":     TokBranch,
	"0branch":    TokZeroBranch,
}

// Token is the lexer's output unit: a tag plus whatever payload that
// tag carries (Num for literals, Str for identifiers/labels/strings
// and mnemonic names), and the source line it started on.
type Token struct {
	Kind TokKind
	Str  string
	Num  int32
	Line int
}
