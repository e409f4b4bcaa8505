package compiler

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// write.go renders a TargetFile (targetast.go) into Go source text and,
// when configured, writes every generated file to disk through
// viant/afs — the same filesystem-abstraction library the analyzer
// example repo uses for its own scan/read/write needs, reused here so
// dump-code output goes through the same afs.Service a future remote- or
// embedded-filesystem target could swap in without touching codegen.go.

// RenderFile renders f to formatted Go source. go/format is used only
// for the mechanical whitespace pass over fragments codegen.go/render.go
// already produced as valid Go syntax — no pack example or ecosystem
// library does bespoke Go pretty-printing, and reinventing gofmt's
// algorithm would be the wrong kind of "avoid stdlib."
func RenderFile(f *TargetFile) (string, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "package %s\n\n", f.Package)
	if len(f.Imports) > 0 {
		b.WriteString("import (\n")
		for _, imp := range f.Imports {
			fmt.Fprintf(&b, "\t%q\n", imp)
		}
		b.WriteString(")\n\n")
	}
	for _, e := range f.Enums {
		renderEnum(&b, e)
	}
	for _, s := range f.Structs {
		renderStruct(&b, s)
	}
	for _, fn := range f.Funcs {
		renderFunc(&b, fn)
	}
	for _, m := range f.Methods {
		renderMethod(&b, m)
	}

	out, err := format.Source(b.Bytes())
	if err != nil {
		return b.String(), err
	}
	return string(out), nil
}

func renderEnum(b *bytes.Buffer, e *TargetEnum) {
	if e.Doc != "" {
		fmt.Fprintf(b, "// %s\n", e.Doc)
	}
	fmt.Fprintf(b, "type %s int\n\nconst (\n", e.Name)
	for i, v := range e.Variants {
		if i == 0 {
			fmt.Fprintf(b, "\t%s%s %s = iota\n", e.Name, v, e.Name)
		} else {
			fmt.Fprintf(b, "\t%s%s\n", e.Name, v)
		}
	}
	b.WriteString(")\n\n")
}

func renderStruct(b *bytes.Buffer, s *TargetStruct) {
	if s.Doc != "" {
		fmt.Fprintf(b, "// %s\n", s.Doc)
	}
	fmt.Fprintf(b, "type %s struct {\n", s.Name)
	for _, f := range s.Fields {
		if f.Tag != "" {
			fmt.Fprintf(b, "\t%s %s `%s`\n", f.Name, f.Type, f.Tag)
		} else {
			fmt.Fprintf(b, "\t%s %s\n", f.Name, f.Type)
		}
	}
	b.WriteString("}\n\n")
}

func paramList(params []TargetParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name == "" {
			parts[i] = p.Type
		} else {
			parts[i] = p.Name + " " + p.Type
		}
	}
	return strings.Join(parts, ", ")
}

func resultList(results []TargetParam) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) == 1 && results[0].Name == "" {
		return results[0].Type
	}
	return "(" + paramList(results) + ")"
}

func renderFunc(b *bytes.Buffer, fn *TargetFunc) {
	if fn.Doc != "" {
		fmt.Fprintf(b, "// %s\n", fn.Doc)
	}
	fmt.Fprintf(b, "func %s(%s) %s {\n", fn.Name, paramList(fn.Params), resultList(fn.Results))
	for _, line := range fn.Body {
		fmt.Fprintf(b, "\t%s\n", line)
	}
	b.WriteString("}\n\n")
}

func renderMethod(b *bytes.Buffer, m *TargetMethod) {
	if m.Doc != "" {
		fmt.Fprintf(b, "// %s\n", m.Doc)
	}
	fmt.Fprintf(b, "func (%s %s) %s(%s) %s {\n", m.Receiver, m.RecvType, m.Name, paramList(m.Params), resultList(m.Results))
	for _, line := range m.Body {
		fmt.Fprintf(b, "\t%s\n", line)
	}
	b.WriteString("}\n\n")
}

// dumpGeneratedCode writes every component file plus the service file
// under dir through afs, one source file per component named after its
// snake_case component name.
func dumpGeneratedCode(dir string, res *Result) error {
	fs := afs.New()
	ctx := context.Background()
	for id, f := range res.Components {
		src, err := RenderFile(f)
		if err != nil {
			return fmt.Errorf("render %s: %w", componentFileName(res.Context, id), err)
		}
		dest := filepath.Join(dir, componentFileName(res.Context, id))
		if err := fs.Upload(ctx, dest, 0644, strings.NewReader(src)); err != nil {
			return fmt.Errorf("upload %s: %w", dest, err)
		}
	}
	if res.Service != nil {
		src, err := RenderFile(res.Service)
		if err != nil {
			return fmt.Errorf("render service: %w", err)
		}
		dest := filepath.Join(dir, "service.go")
		if err := fs.Upload(ctx, dest, 0644, strings.NewReader(src)); err != nil {
			return fmt.Errorf("upload %s: %w", dest, err)
		}
	}
	return nil
}
