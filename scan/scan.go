// Package scan finds the interrupt handlers an application provides.
// A handler is a function without parameters or results exported under
// its handler symbol, either with a directive in its doc comment
//
//	//go:export uart_handler
//	func onUART() {}
//
// or with a standalone directive naming both
//
//	//go:export onUART uart_handler
package scan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/packages"
)

var (
	ErrPackage          = errors.New("package error")
	ErrDirective        = errors.New("malformed export directive")
	ErrUnknownFunction  = errors.New("export directive names an unknown function")
	ErrSignature        = errors.New("handler must take no arguments and return nothing")
	ErrDuplicateHandler = errors.New("handler symbol exported twice")
)

var directives = []string{"//go:export", "//export"}

// Handler is an exported function.
type Handler struct {
	Symbol   string
	Func     string
	Position token.Position
}

// Handlers loads the packages matching patterns relative to dir and
// returns their exported handlers ordered by symbol.
func Handlers(ctx context.Context, dir string, patterns ...string) ([]Handler, error) {
	fset := token.NewFileSet()
	config := packages.Config{
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Context: ctx,
		Dir:     dir,
		Fset:    fset,
		Tests:   false,
	}

	pkgs, err := packages.Load(&config, patterns...)
	if err != nil {
		return nil, errors.Join(ErrPackage, err)
	}

	var handlers []Handler
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			err = errors.Join(err, fmt.Errorf("%w: %s", ErrPackage, pkgErr))
		}
		for _, file := range pkg.Syntax {
			found, fileErr := File(fset, file, pkg.PkgPath)
			err = errors.Join(err, fileErr)
			handlers = append(handlers, found...)
		}
	}
	if err != nil {
		return nil, err
	}
	return handlers, Check(handlers)
}

// File returns the handlers exported in file.
func File(fset *token.FileSet, file *ast.File, pkgPath string) ([]Handler, error) {
	funcs := map[string]*ast.FuncDecl{}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			funcs[fn.Name.Name] = fn
		}
	}

	// Directives inside a function's doc comment bind to it
	owner := map[*ast.Comment]*ast.FuncDecl{}
	for _, fn := range funcs {
		if fn.Doc != nil {
			for _, c := range fn.Doc.List {
				owner[c] = fn
			}
		}
	}

	var handlers []Handler
	var errs []error
	for _, group := range file.Comments {
		for _, c := range group.List {
			parts := strings.Fields(c.Text)
			if len(parts) == 0 || !slices.Contains(directives, parts[0]) {
				continue
			}
			pos := fset.Position(c.Slash)

			var fn *ast.FuncDecl
			var symbol string
			switch len(parts) {
			case 2:
				fn, symbol = owner[c], parts[1]
				if fn == nil {
					errs = append(errs, fmt.Errorf("%s: %w: %q is not attached to a function", pos, ErrDirective, c.Text))
					continue
				}
			case 3:
				fn, symbol = funcs[parts[1]], parts[2]
				if fn == nil {
					errs = append(errs, fmt.Errorf("%s: %w: %s", pos, ErrUnknownFunction, parts[1]))
					continue
				}
			default:
				errs = append(errs, fmt.Errorf("%s: %w: %q", pos, ErrDirective, c.Text))
				continue
			}

			if fn.Type.Params.NumFields() != 0 || fn.Type.Results.NumFields() != 0 {
				errs = append(errs, fmt.Errorf("%s: %w: %s", pos, ErrSignature, fn.Name.Name))
				continue
			}
			handlers = append(handlers, Handler{
				Symbol:   symbol,
				Func:     pkgPath + "." + fn.Name.Name,
				Position: pos,
			})
		}
	}
	return handlers, errors.Join(errs...)
}

// Check sorts handlers by symbol and reports symbols exported more than
// once.
func Check(handlers []Handler) error {
	slices.SortStableFunc(handlers, func(a, b Handler) bool {
		return a.Symbol < b.Symbol
	})
	var errs []error
	for i := 1; i < len(handlers); i++ {
		if handlers[i].Symbol == handlers[i-1].Symbol {
			errs = append(errs, fmt.Errorf("%w: %s by %s and %s", ErrDuplicateHandler,
				handlers[i].Symbol, handlers[i-1].Func, handlers[i].Func))
		}
	}
	return errors.Join(errs...)
}
