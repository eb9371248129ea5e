// Package shaderir provides a handle-validated shader IR.
//
// Modules live in arena storage: every type, constant, global variable,
// function, and expression is referenced through a typed handle into its
// arena rather than a pointer. The package validates that those handles are
// sound and renders modules as Graphviz DOT graphs for inspection:
//   - Validation: every handle refers to an existing element that was
//     created before its user, so later passes can dereference freely
//   - DOT: a graph of the module's declarations and expression trees
//
// The package provides a simple, high-level API as well as lower-level
// access to the individual stages.
//
// Example usage:
//
//	module := fixture.Quad()
//	source, err := shaderir.Graph(module)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For control over rendering, use the dot package directly:
//
//	source, err := dot.Write(module, dot.Options{Statements: false})
//
// For validation alone, use the valid package:
//
//	err := valid.ValidateModuleHandles(module)
package shaderir

import (
	"fmt"

	"github.com/gogpu/shaderir/dot"
	"github.com/gogpu/shaderir/ir"
	"github.com/gogpu/shaderir/valid"
)

// Options configures graph rendering.
type Options struct {
	// Statements also renders the statement tree of each function body
	Statements bool

	// Validate enables handle validation before rendering
	Validate bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Statements: true,
		Validate:   true,
	}
}

// Graph renders an IR module as Graphviz DOT source using default options.
//
// This is the simplest way to inspect a module. For more control, use
// GraphWithOptions or the individual Validate and dot.Write functions.
func Graph(module *ir.Module) (string, error) {
	return GraphWithOptions(module, DefaultOptions())
}

// GraphWithOptions renders an IR module as Graphviz DOT source with custom
// options.
//
// The pipeline is:
//  1. Validate module handles (if enabled)
//  2. Render the module to DOT
func GraphWithOptions(module *ir.Module, opts Options) (string, error) {
	if opts.Validate {
		if err := Validate(module); err != nil {
			return "", fmt.Errorf("validation error: %w", err)
		}
	}

	source, err := dot.Write(module, dot.Options{Statements: opts.Statements})
	if err != nil {
		return "", err
	}
	return source, nil
}

// Validate validates an IR module's handles.
//
// Validation checks that every stored handle refers to an element that is
// present in its arena and was created before the element using it. The
// first violation is reported as either a bad handle error or a
// valid.ForwardDependencyError; a nil return means every handle in the
// module can be dereferenced safely in arena order.
func Validate(module *ir.Module) error {
	return valid.ValidateModuleHandles(module)
}
