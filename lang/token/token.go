// Package token defines the lexical tokens of the language and the literal
// value representation shared by the lexer, parser and constant folder.
package token

import "fmt"

// Kind identifies the lexical class of a Token. Operator nodes in the AST
// reuse Kind values directly as their operator tag, so that an operator's
// integer value equals its originating token kind.
type Kind int8

const (
	ILLEGAL Kind = iota
	END          // end of token stream

	IDENT
	INT    // numeric literal without a fractional part
	FLOAT  // numeric literal with a fractional part
	STRING // string literal; lexeme is empty, see Token.Literal

	// single-character punctuation
	DOT
	COMMA
	COLON
	SEMI
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	HASH
	ASSIGN
	LT
	GT
	BANG

	// two-character punctuation
	EQ  // ==
	NEQ // !=
	LE  // <=
	GE  // >=

	// keywords
	VAR
	FOR
	WHILE
	TRUE
	FALSE
	RETURN
	OR
	AND
	IF
	ELSE
	PROC
	IMPORT

	// primitive type names
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE

	maxKind
)

var kindNames = [...]string{
	ILLEGAL:     "illegal",
	END:         "end",
	IDENT:       "ident",
	INT:         "int-literal",
	FLOAT:       "float-literal",
	STRING:      "string-literal",
	DOT:         ".",
	COMMA:       ",",
	COLON:       ":",
	SEMI:        ";",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
	PERCENT:     "%",
	HASH:        "#",
	ASSIGN:      "=",
	LT:          "<",
	GT:          ">",
	BANG:        "!",
	EQ:          "==",
	NEQ:         "!=",
	LE:          "<=",
	GE:          ">=",
	VAR:         "var",
	FOR:         "for",
	WHILE:       "while",
	TRUE:        "true",
	FALSE:       "false",
	RETURN:      "return",
	OR:          "or",
	AND:         "and",
	IF:          "if",
	ELSE:        "else",
	PROC:        "proc",
	IMPORT:      "import",
	INT_TYPE:    "int",
	FLOAT_TYPE:  "float",
	STRING_TYPE: "string",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// keywords maps the reserved-word spelling to its Kind. Order of this table
// matters only for iteration (there is none here), never for semantics.
var keywords = map[string]Kind{
	"var":    VAR,
	"for":    FOR,
	"while":  WHILE,
	"true":   TRUE,
	"false":  FALSE,
	"return": RETURN,
	"or":     OR,
	"and":    AND,
	"if":     IF,
	"else":   ELSE,
	"proc":   PROC,
	"import": IMPORT,
	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"string": STRING_TYPE,
}

// Lookup reports the Kind for an identifier spelling, returning (IDENT,
// false) if it is not a reserved word.
func Lookup(ident string) (Kind, bool) {
	if k, ok := keywords[ident]; ok {
		return k, true
	}
	return IDENT, false
}

// IsPrimitiveTypeName reports whether k names a primitive type in type
// position (e.g. the `int` in `var x : int`).
func IsPrimitiveTypeName(k Kind) bool {
	return k == INT_TYPE || k == FLOAT_TYPE || k == STRING_TYPE
}

// ValueKind tags the dynamic type carried by a Value.
type ValueKind uint8

const (
	NilValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
	BoolValue
)

func (vk ValueKind) String() string {
	switch vk {
	case NilValue:
		return "nil"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case StringValue:
		return "string"
	case BoolValue:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is the tagged-sum literal value carried by a token and, after
// folding, by a literal expression node.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Str  string
	Bool bool
}

func IntLit(v int64) Value    { return Value{Kind: IntValue, Int: v} }
func FloatLit(v float64) Value { return Value{Kind: FloatValue, Real: v} }
func StringLit(v string) Value { return Value{Kind: StringValue, Str: v} }
func BoolLit(v bool) Value     { return Value{Kind: BoolValue, Bool: v} }
func NilLit() Value            { return Value{Kind: NilValue} }

// Equal implements the tagged-sum equality described in the data model:
// same tag required, strings compare by byte content, reals compare by
// bitwise ==.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case NilValue:
		return true
	case IntValue:
		return v.Int == o.Int
	case FloatValue:
		return v.Real == o.Real
	case StringValue:
		return v.Str == o.Str
	case BoolValue:
		return v.Bool == o.Bool
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case NilValue:
		return "nil"
	case IntValue:
		return fmt.Sprintf("%d", v.Int)
	case FloatValue:
		return fmt.Sprintf("%g", v.Real)
	case StringValue:
		return v.Str
	case BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return "?"
	}
}

// Token is a fixed-layout lexical token record.
type Token struct {
	Kind    Kind
	Lexeme  string // borrowed slice of source; empty for STRING (see Literal)
	Literal Value
	Line    int
	Offset  int // byte offset into the source
}

func (t Token) Pos() Pos { return Pos{Line: t.Line, Offset: t.Offset} }

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}
