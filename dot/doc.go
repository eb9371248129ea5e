// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dot provides a Graphviz DOT backend for shader IR.
//
// This package generates DOT source from the IR representation so a module
// can be inspected visually. The graph mirrors the reference structure of
// the module: one cluster per arena, one cluster per function body, and one
// edge per handle an element carries.
//
// Nodes appear in arena order and handles are never dereferenced, so a
// module with dangling or forward handles still renders; broken edges
// simply point at nodes Graphviz synthesizes on the fly. That makes the
// output usable for debugging modules that fail handle validation.
//
// # Basic Usage
//
//	source, err := dot.Write(module, dot.DefaultOptions())
//
// Render the result with the Graphviz dot tool:
//
//	dot -Tsvg shader.dot -o shader.svg
package dot
