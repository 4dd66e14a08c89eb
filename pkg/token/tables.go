package token

// Keywords are operand-position words that denote boolean literals. They
// lex directly to a NUMBER token carrying the canonical value.
var Keywords = map[string]float64{
	"true":  1,
	"false": 0,
}

// Ternary words bootstrap the `if … then … else …` surface form.
const (
	KeywordIf   = "if"
	KeywordThen = "then"
	KeywordElse = "else"
)

// PrefixOps is matched longest-first: the tokenizer tries every entry and
// keeps the longest one that matches, so entry order does not matter.
var PrefixOps = []string{"!", "¬", "-"}

// PostfixOps are single glyphs; order does not matter since none is a
// prefix of another.
var PostfixOps = []string{"²", "³"}

// InfixOps lists the operator lexemes recognized directly by longest-match
// scanning in INFIX position. The separator "," and the ternary opener "?"
// are handled structurally by the tokenizer and are not part of this table;
// ":" is likewise never scanned here — it only ever appears as the closing
// terminator of an anonymous "?" group (see tokenizer closure handling).
// The tokenizer tries every entry and keeps the longest match, so "<="
// wins over "<" regardless of the order in which they are listed.
var InfixOps = []string{
	"==", "!=", "<=", ">=", "<", ">",
	":=", "≔", "+=", "-=", "*=", "/=",
	"+", "-", "*", "/", "^",
	"&&", "||",
	"and", "or", "not in", "in",
	"≠", "≤", "≥", "∧", "∨", "∈", "∉",
}

// SeparatorLexeme and TernaryOpen are structural infix lexemes with dedicated
// tokenizer handling rather than generic operator matching.
const (
	SeparatorLexeme = ","
	TernaryOpen     = "?"
	TernaryElse     = ":"
)

// SymbolicNames aliases a single Unicode glyph operand to the name of a
// built-in callable. Each alias requires an immediate "(" (function call)
// or "{" (aggregation) — see spec §4.1 and §4.2.
var SymbolicNames = map[string]string{
	"∑": "sum",
	"√": "sqrt",
	"∛": "cbrt",
}

// wordOperators lists the infix/ternary lexemes that are identifier-shaped
// words and therefore subject to the word-boundary rule: they only match
// when not immediately followed by another identifier character.
var wordOperators = map[string]bool{
	"and": true, "or": true, "in": true, "not in": true,
	"if": true, "then": true, "else": true,
	"true": true, "false": true,
}

// IsWordOperator reports whether lexeme is one of the textual keyword-style
// operators subject to the word-boundary rule.
func IsWordOperator(lexeme string) bool {
	return wordOperators[lexeme]
}

// IsIdentChar reports whether r is legal within an identifier: letters,
// digits, or underscore (spec §4.1 "Identifier alphabet").
func IsIdentChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// IsIdentStart reports whether r may begin an identifier (digits are
// excluded so a numeric lexeme is never misread as a name).
func IsIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsSpace reports whether r is a standard whitespace character recognized
// between tokens.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
