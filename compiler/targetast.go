package compiler

// targetast.go defines the target-language AST that codegen.go emits
// into and the target package renders from: a small Go source tree,
// deliberately a much simpler sum type than Expr/Stmt above since the
// target language is fixed (Go) rather than a family of stages.

// TargetExpr is a generated Go expression, rendered by render.go's
// writer. It carries pre-formatted Go source fragments rather than a
// full token tree — codegen.go is responsible for producing valid Go
// snippets, matching yaegi's own approach of building against go/ast
// only where it must and falling back to plain strings elsewhere.
type TargetExpr struct {
	Src string
}

func lit(src string) *TargetExpr { return &TargetExpr{Src: src} }

// TargetField is one struct field: `Name Type`.
type TargetField struct {
	Name string
	Type string
	Tag  string
}

// TargetStruct is a generated `type Name struct { ... }`.
type TargetStruct struct {
	Name   string
	Doc    string
	Fields []TargetField
}

// TargetParam is one function parameter or result.
type TargetParam struct {
	Name string
	Type string
}

// TargetMethod is a generated method on a receiver type, e.g.
// `func (s *CounterState) Step(tick Input) Output { ... }`.
type TargetMethod struct {
	Receiver   string // receiver variable name
	RecvType   string // receiver type name (pointer added by the writer)
	Name       string
	Params     []TargetParam
	Results    []TargetParam
	Body       []string // pre-rendered Go statement lines
	Doc        string
}

// TargetFunc is a generated free function, e.g. `func NewCounterState() CounterState`.
type TargetFunc struct {
	Name    string
	Params  []TargetParam
	Results []TargetParam
	Body    []string
	Doc     string
}

// TargetEnum is a generated Go-idiomatic enum: a named int type plus a
// const block, matching this package's own `token.go`/`symtab.go` kind
// enums rather than introducing a third-party enum-generation scheme.
type TargetEnum struct {
	Name     string
	Doc      string
	Variants []string
}

// TargetFile is one emitted Go source file.
type TargetFile struct {
	Package  string
	Imports  []string
	Structs  []*TargetStruct
	Enums    []*TargetEnum
	Methods  []*TargetMethod
	Funcs    []*TargetFunc
	// RequiredLibraries names third-party import paths the generated
	// runtime loop depends on (runtime/sink always, runtime/timerstream when
	// the service ticks a timer, golang.org/x/sync/errgroup when parallel
	// emission is on).
	RequiredLibraries []string
}

func newTargetFile(pkg string) *TargetFile {
	return &TargetFile{Package: pkg}
}

func (f *TargetFile) addImport(path string) {
	for _, p := range f.Imports {
		if p == path {
			return
		}
	}
	f.Imports = append(f.Imports, path)
}

func (f *TargetFile) addRequiredLibrary(path string) {
	for _, p := range f.RequiredLibraries {
		if p == path {
			return
		}
	}
	f.RequiredLibraries = append(f.RequiredLibraries, path)
	f.addImport(path)
}
