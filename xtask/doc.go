// Package xtask implements the repository's development task runner.
//
// It validates generated snapshot outputs against the real shader
// toolchains (spirv-tools, the Metal compiler, glslang, dxc/fxc and
// Graphviz), cleans generated artifacts, and drives the aggregate
// format/vet/test checks. The heavy lifting lives in Runner; the
// cmd/xtask binary is a thin cobra front end over it.
package xtask
