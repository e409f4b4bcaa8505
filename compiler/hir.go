package compiler

// This file defines the HIR-level aggregate types: Component, Service, and
// Memory, plus the Context that threads the symbol table, accumulated
// errors, and declared units through every later pass. Grounded on yaegi's
// own `Interpreter` holding `universe *scope`, `scopes map[string]*scope`,
// and accumulated state across compileSrc stages — here one Context struct
// plays that role for one compilation instead of a long-lived REPL.

import "go.uber.org/zap"

// BufferEntry is one `fby`-lifted memory cell, per the Memory
// definition: `{id, typ, initial_expression}`.
type BufferEntry struct {
	ID      Id
	Name    string
	Typ     *Type
	Initial *Expr
}

// Memory is the per-component bookkeeping materialized by normalization
// (the design notes): an ordered buffer list plus a map from call-site memory
// Id to the called component's Id.
type Memory struct {
	Buffers         []BufferEntry
	CalledComponent map[Id]Id // call-site memory Id -> called component Id
}

func newMemory() *Memory {
	return &Memory{CalledComponent: map[Id]Id{}}
}

// OutputBinding pairs a component's declared output name with its Id.
type OutputBinding struct {
	Name string
	ID   Id
}

// Component is the HIR aggregate for one `component` declaration,
// mirroring the Component definition field-for-field.
type Component struct {
	ID       Id
	Name     string
	Inputs   []Id
	Outputs  []OutputBinding
	Statements []*Stmt
	Memory   *Memory
	Contract []*Expr
	Loc      Span

	DependencyGraph *DepGraph
	ReducedGraph    *ReducedGraph

	// Unitary-extraction bookkeeping: set when this Component is one of N
	// unitary forms split out of a multi-output original (the design notes).
	UnitaryOf     Id // original multi-output component Id, invalidID if none
	UnitaryOutput Id // the single output this unitary form retains
}

// Service is the HIR aggregate for the single top-level `service` block,
// mirroring the Service definition.
type Service struct {
	ID          Id
	Name        string
	MinMs       *int
	MaxMs       *int
	Imports     []Id
	Exports     []Id
	Statements  []*Stmt
	Propagation PropagationStrategy
	Loc         Span

	Graph         *DepGraph
	TriggerGraph  TriggerGraph
}

// Context owns everything threaded across the compilation of one source
// file: the symbol table, the accumulated diagnostics, every declared
// unit, and an injected logger (nil-safe, defaulting to a no-op sink per
// yaegi's io.Writer-injection style rather than a process-global logger).
type Context struct {
	FileID int
	Syms   *SymbolTable
	Errs   *errorList
	Log    *zap.Logger

	Enums     map[Id]*EnumDecl
	Structs   map[Id]*StructDecl
	Functions map[Id]*FunctionDecl
	Components map[Id]*Component
	Service   *Service

	// ReducedGraphs caches each analyzed component's reduced graph, keyed
	// by component Id, so later passes (normalization's inline-when-needed,
	// a second dependency computation after hoisting) can look up a
	// callee's graph without re-running analysis.
	ReducedGraphs map[Id]*ReducedGraph

	Stats *Stats
}

func newContext(fileID int, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		FileID:     fileID,
		Syms:       NewSymbolTable(),
		Errs:       newErrorList(),
		Log:        logger,
		Enums:      map[Id]*EnumDecl{},
		Structs:    map[Id]*StructDecl{},
		Functions:  map[Id]*FunctionDecl{},
		Components: map[Id]*Component{},
		ReducedGraphs: map[Id]*ReducedGraph{},
		Stats:      NewStats(),
	}
}
