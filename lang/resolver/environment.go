// Package resolver implements the two-pass (declare then reference) name
// resolver: it builds a forest of Environments, indexed contiguously, and
// binds every identifier use to a stable integer id.
package resolver

import (
	"fmt"
	"io"

	"github.com/dolthub/swiss"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/types"
)

// Variable records a resolved variable declaration.
type Variable struct {
	VarID int
	Name  string
	Type  types.ID
}

// Procedure records a resolved procedure declaration.
type Procedure struct {
	ProcID  int
	Name    string
	Params  []Variable
	Returns []types.ID
	Body    *ast.BlockStmt
	// ProcScope is the index, into the resolver's environment vector, of
	// this procedure's own scope.
	ProcScope int
	IsNested  bool
}

// Structure records a resolved structure declaration. Structures are a
// future extension point only; no syntax in this language produces one
// yet (member typing itself is a Non-goal), but the
// Environment carries the slot so a later structure-literal feature has
// somewhere to bind into without reshaping Environment.
type Structure struct {
	StructID int
	Name     string
	Fields   []Variable
}

// Environment is a single lexical scope: an ordered name->declaration
// mapping per declaration kind, plus a monotonically increasing 1-based id
// counter per kind. Name lookup within one Environment is O(1) via a
// swiss.Map index kept alongside the order-preserving slices; walking the
// parent chain across Environments remains the resolver's job.
type Environment struct {
	ParentIndex int // -1 for the global environment

	varNames  []string
	variables []Variable
	varIndex  *swiss.Map[string, int]
	nextVarID int

	procNames  []string
	procedures []Procedure
	procIndex  *swiss.Map[string, int]
	nextProcID int

	typeNames  []string
	structures []Structure
	typeIndex  *swiss.Map[string, int]
	nextTypeID int
}

func newEnvironment(parent int) *Environment {
	return &Environment{
		ParentIndex: parent,
		varIndex:    swiss.NewMap[string, int](8),
		procIndex:   swiss.NewMap[string, int](4),
		typeIndex:   swiss.NewMap[string, int](2),
		nextVarID:   1,
		nextProcID:  1,
		nextTypeID:  1,
	}
}

// BindVariable binds name to v in this environment, assigning it the next
// 1-based variable id, and returns that id.
func (e *Environment) BindVariable(name string, v Variable) int {
	v.VarID = e.nextVarID
	e.varIndex.Put(name, len(e.variables))
	e.varNames = append(e.varNames, name)
	e.variables = append(e.variables, v)
	e.nextVarID++
	return v.VarID
}

// BindProcedure binds name to proc in this environment, assigning it the
// next 1-based procedure id, and returns that id.
func (e *Environment) BindProcedure(name string, proc Procedure) int {
	proc.ProcID = e.nextProcID
	e.procIndex.Put(name, len(e.procedures))
	e.procNames = append(e.procNames, name)
	e.procedures = append(e.procedures, proc)
	e.nextProcID++
	return proc.ProcID
}

// BindStructure binds name to s in this environment, assigning it the next
// 1-based structure id, and returns that id.
func (e *Environment) BindStructure(name string, s Structure) int {
	s.StructID = e.nextTypeID
	e.typeIndex.Put(name, len(e.structures))
	e.typeNames = append(e.typeNames, name)
	e.structures = append(e.structures, s)
	e.nextTypeID++
	return s.StructID
}

// GetVariable looks up name in this environment only (no parent walk).
func (e *Environment) GetVariable(name string) (Variable, bool) {
	idx, ok := e.varIndex.Get(name)
	if !ok {
		return Variable{}, false
	}
	return e.variables[idx], true
}

// GetProcedure looks up name in this environment only (no parent walk).
func (e *Environment) GetProcedure(name string) (Procedure, bool) {
	idx, ok := e.procIndex.Get(name)
	if !ok {
		return Procedure{}, false
	}
	return e.procedures[idx], true
}

// GetStructure looks up name in this environment only (no parent walk).
func (e *Environment) GetStructure(name string) (Structure, bool) {
	idx, ok := e.typeIndex.Get(name)
	if !ok {
		return Structure{}, false
	}
	return e.structures[idx], true
}

// Dump writes every name this environment binds, one per line. Grounded on
// Resolver::dump_environments's per-environment Environment::dump in the
// original resolver.
func (e *Environment) Dump(w io.Writer) {
	for i, name := range e.varNames {
		fmt.Fprintf(w, "  var %s -> id %d, type %s\n", name, e.variables[i].VarID, e.variables[i].Type)
	}
	for i, name := range e.procNames {
		fmt.Fprintf(w, "  proc %s -> id %d, %d param(s), %d return(s)\n",
			name, e.procedures[i].ProcID, len(e.procedures[i].Params), len(e.procedures[i].Returns))
	}
	for i, name := range e.typeNames {
		fmt.Fprintf(w, "  struct %s -> id %d, %d field(s)\n", name, e.structures[i].StructID, len(e.structures[i].Fields))
	}
}

// VarFromID returns the variable previously bound with the given 1-based id.
func (e *Environment) VarFromID(id int) Variable { return e.variables[id-1] }

// ProcFromID returns the procedure previously bound with the given 1-based id.
func (e *Environment) ProcFromID(id int) Procedure { return e.procedures[id-1] }
