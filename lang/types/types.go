// Package types defines the type id space shared by the resolver, the type
// checker and the bytecode layer.
package types

import (
	"fmt"

	"github.com/mua900/pebble/lang/token"
)

// ID is a 64-bit opaque type identifier. The two top bits partition the
// space into {primitive, procedure-type, structure-type}; primitives are a
// small fixed enumeration, procedure and structure types are represented
// externally and the id indexes into a per-program table.
type ID uint64

const (
	procedureMask ID = 1 << 62
	structureMask ID = 1 << 63
	kindMask      ID = procedureMask | structureMask
)

// Primitive type ids. These occupy the low bits with both top bits clear.
const (
	None ID = iota
	Int
	Float
	String
	Boolean
	Nil
)

// IsProcedure reports whether id names a procedure type.
func IsProcedure(id ID) bool { return id&kindMask == procedureMask }

// IsStructure reports whether id names a structure type.
func IsStructure(id ID) bool { return id&kindMask == structureMask }

// IsPrimitive reports whether id names one of the fixed primitive types.
func IsPrimitive(id ID) bool { return id&kindMask == 0 }

// IsNumeric reports whether id is Int or Float.
func IsNumeric(id ID) bool { return id == Int || id == Float }

// ConvertibleToBoolean reports whether a value of type id may stand in a
// boolean context (currently only Boolean itself; widened here rather than
// in every caller so a future relaxation has one place to change).
func ConvertibleToBoolean(id ID) bool { return id == Boolean }

var primitiveNames = map[ID]string{
	None:    "none",
	Int:     "int",
	Float:   "float",
	String:  "string",
	Boolean: "boolean",
	Nil:     "nil",
}

// String implements fmt.Stringer so a bare ID can be used directly in
// Printf-style diagnostics.
func (id ID) String() string { return idString(id) }

// idString renders a type id for diagnostics.
func idString(id ID) string {
	if IsProcedure(id) {
		return fmt.Sprintf("proc-type(%d)", uint64(id&^kindMask))
	}
	if IsStructure(id) {
		return fmt.Sprintf("struct-type(%d)", uint64(id&^kindMask))
	}
	if name, ok := primitiveNames[id]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint64(id))
}

// FromPrimitiveTypeName maps a primitive-type-name token kind (int, float,
// string) to its type id. ok is false for any other kind.
func FromPrimitiveTypeName(k token.Kind) (ID, bool) {
	switch k {
	case token.INT_TYPE:
		return Int, true
	case token.FLOAT_TYPE:
		return Float, true
	case token.STRING_TYPE:
		return String, true
	default:
		return None, false
	}
}

// FromValueKind maps a literal value's dynamic tag to its type id; booleans
// and the nil literal are only reachable from true/false/nil literals.
func FromValueKind(vk token.ValueKind) ID {
	switch vk {
	case token.IntValue:
		return Int
	case token.FloatValue:
		return Float
	case token.StringValue:
		return String
	case token.BoolValue:
		return Boolean
	case token.NilValue:
		return Nil
	default:
		return None
	}
}

// ProcSignature describes a procedure type: "a type like proc(int, float) ->
// int, bool". Procedure type ids index into a per-program table of these;
// nothing in the module populates or consults the table yet: the checker
// works with primitive type ids only.
type ProcSignature struct {
	Params  []ID
	Results []ID
}

// Table is the per-program side table that procedure/structure type ids
// index into.
type Table struct {
	procs   []ProcSignature
	structs [][]ID // field types, by declaration order; names are kept on Structure records
}

// AddProc registers a procedure signature and returns its type id.
func (t *Table) AddProc(sig ProcSignature) ID {
	t.procs = append(t.procs, sig)
	return procedureMask | ID(len(t.procs)-1)
}

// Proc returns the signature for a procedure type id.
func (t *Table) Proc(id ID) (ProcSignature, bool) {
	if !IsProcedure(id) {
		return ProcSignature{}, false
	}
	idx := int(id &^ kindMask)
	if idx < 0 || idx >= len(t.procs) {
		return ProcSignature{}, false
	}
	return t.procs[idx], true
}

// AddStruct registers a structure's field type list and returns its type id.
func (t *Table) AddStruct(fields []ID) ID {
	t.structs = append(t.structs, fields)
	return structureMask | ID(len(t.structs)-1)
}
