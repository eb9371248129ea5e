// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dot

import (
	"fmt"

	"github.com/gogpu/shaderir/ir"
)

// Options configures DOT output.
type Options struct {
	// Statements also renders the statement tree of each function body.
	// Expression and declaration nodes are always emitted.
	Statements bool
}

// DefaultOptions returns sensible default options for DOT generation.
func DefaultOptions() Options {
	return Options{
		Statements: true,
	}
}

// Write renders module as a DOT graph.
// Returns the graph source as a string, or an error.
func Write(module *ir.Module, options Options) (string, error) {
	if module == nil {
		return "", fmt.Errorf("dot: module is nil")
	}

	w := newWriter(module, &options)
	if err := w.writeModule(); err != nil {
		return "", fmt.Errorf("dot: %w", err)
	}

	return w.String(), nil
}
