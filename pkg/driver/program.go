package driver

import (
	"fmt"

	"github.com/samber/lo"

	"fun/interpreter-go/pkg/ast"
	"fun/interpreter-go/pkg/interpreter"
	"fun/interpreter-go/pkg/typechecker"
)

// SourceFile is one parsed file of a program.
type SourceFile struct {
	Path string
	// Package names the dependency the file belongs to; empty for the root
	// package or a standalone file.
	Package string
	Decls   []ast.Decl
}

// IsDependency reports whether the file comes from a dependency package.
func (f *SourceFile) IsDependency() bool {
	return f.Package != ""
}

// Program is the ordered list of files whose declarations share one global
// scope. Dependencies come first and the file defining the entry point last.
type Program struct {
	Files []*SourceFile
}

// Options configures declaration processing.
type Options struct {
	EntryPoint string
}

func (o Options) entryPoint() string {
	if o.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return o.EntryPoint
}

// Binding records a global declaration that was typed and evaluated.
type Binding struct {
	Name string
	Type ast.Type
	Path string
}

// Result is the outcome of Process: the context holding every global
// binding and the entry declaration, which is never inserted into it.
type Result struct {
	Context    *interpreter.ProgramContext
	Bindings   []Binding
	EntryPoint string
	Entry      *ast.LetDecl
	EntryPath  string

	// checker is set when declarations are typed without being evaluated.
	checker *typechecker.Checker
}

// Names lists the declared globals in declaration order.
func (r *Result) Names() []string {
	return lo.Map(r.Bindings, func(b Binding, _ int) string { return b.Name })
}

// Process folds the program's declarations into ctx, file by file in order.
// Each let is typed and evaluated as it is reached, so effects of earlier
// declarations happen even when a later one fails.
func Process(program *Program, ctx *interpreter.ProgramContext, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = interpreter.DefaultContext()
	}
	return fold(program, &Result{Context: ctx, EntryPoint: opts.entryPoint()})
}

// Check applies the same declaration rules as Process but only typechecks:
// no declaration is evaluated, so nothing in the program runs. The returned
// Context is ctx unchanged; Bindings carry the inferred types.
func Check(program *Program, ctx *interpreter.ProgramContext, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = interpreter.DefaultContext()
	}
	return fold(program, &Result{
		Context:    ctx,
		EntryPoint: opts.entryPoint(),
		checker:    typechecker.WithEnvironment(ctx.TypeEnvironment()),
	})
}

func fold(program *Program, result *Result) (*Result, error) {
	if program == nil {
		return result, nil
	}
	for _, file := range program.Files {
		if file == nil {
			continue
		}
		for _, decl := range file.Decls {
			if err := result.declare(file, decl); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (r *Result) declare(file *SourceFile, decl ast.Decl) error {
	fail := func(format string, args ...any) error {
		return &Diagnostic{Path: file.Path, Span: decl.Span(), Message: fmt.Sprintf(format, args...)}
	}
	switch d := decl.(type) {
	case *ast.TypeDecl:
		return fail("type declarations are not supported: %s", d.Name)
	case *ast.LetDecl:
		if r.defined(d.Name) {
			return fail("Term defined twice at the global scope: %s", d.Name)
		}
		if r.Entry != nil {
			return fail("Term defined after %s: %s", r.EntryPoint, d.Name)
		}
		if d.Name == r.EntryPoint {
			if file.IsDependency() {
				return fail("dependency %s must not define %s", file.Package, r.EntryPoint)
			}
			r.Entry = d
			r.EntryPath = file.Path
			return nil
		}
		typ, err := r.bind(d)
		if err != nil {
			return diagnosticFor(file.Path, d.Span(), err)
		}
		r.Bindings = append(r.Bindings, Binding{Name: d.Name, Type: typ, Path: file.Path})
		return nil
	default:
		return fail("unsupported declaration %T", decl)
	}
}

func (r *Result) defined(name string) bool {
	if r.checker != nil {
		_, ok := r.checker.Environment().Lookup(name)
		return ok
	}
	_, _, ok := r.Context.Lookup(name)
	return ok
}

func (r *Result) bind(d *ast.LetDecl) (ast.Type, error) {
	if r.checker != nil {
		typ, err := r.checker.Check(d.Term)
		if err != nil {
			return nil, &interpreter.ProgramError{Kind: interpreter.TypingFailure, Err: err}
		}
		r.checker = r.checker.Bind(d.Name, typ)
		return typ, nil
	}
	next, err := r.Context.InsertTerm(d.Name, d.Term)
	if err != nil {
		return nil, err
	}
	_, typ, _ := next.Lookup(d.Name)
	r.Context = next
	return typ, nil
}

func (r *Result) typeOf(term ast.Term) (ast.Type, error) {
	if r.checker != nil {
		return r.checker.Check(term)
	}
	return r.Context.TypeOf(term)
}

// EntryType typechecks the entry declaration and verifies it is Unit -> Unit.
func (r *Result) EntryType() (ast.Type, error) {
	if r.Entry == nil {
		return nil, &Diagnostic{Message: fmt.Sprintf("No %s function defined", r.EntryPoint)}
	}
	typ, err := r.typeOf(r.Entry.Term)
	if err != nil {
		return nil, diagnosticFor(r.EntryPath, r.Entry.Span(), &interpreter.ProgramError{Kind: interpreter.TypingFailure, Err: err})
	}
	want := ast.Arrow(ast.UnitType(), ast.UnitType())
	if !ast.TypesEqual(typ, want) {
		return nil, &Diagnostic{
			Path:    r.EntryPath,
			Span:    r.Entry.Span(),
			Message: fmt.Sprintf("Invalid type defined for %s (%s): it must have type Unit -> Unit", r.EntryPoint, typ),
		}
	}
	return typ, nil
}

// RunEntry applies the entry point to Unit for its effects.
func RunEntry(result *Result) error {
	if result == nil {
		return fmt.Errorf("driver: nil result")
	}
	if result.checker != nil {
		return fmt.Errorf("driver: cannot run a program that was only checked")
	}
	if _, err := result.EntryType(); err != nil {
		return err
	}
	call := ast.NewApp(result.Entry.Term, ast.NewVar(ast.TypeNameUnit))
	ast.SetSpan(call, result.Entry.Span())
	if _, _, err := result.Context.Run(call); err != nil {
		return diagnosticFor(result.EntryPath, result.Entry.Span(), err)
	}
	return nil
}

// Execute processes program and runs its entry point.
func Execute(program *Program, ctx *interpreter.ProgramContext, opts Options) (*Result, error) {
	result, err := Process(program, ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := RunEntry(result); err != nil {
		return result, err
	}
	return result, nil
}
