// Package ir defines the arena-based intermediate representation for
// shader modules.
//
// The IR is designed to be:
//   - Shader-agnostic: Not tied to any specific shading language
//   - Handle-addressed: Entities reference each other through typed arena
//     handles instead of pointers
//   - Ordered: Arenas are append-only, so a well-formed entity only depends
//     on entities appended before it
//
// # Structure
//
// The IR is organized around a Module type that contains:
//   - Types: All type definitions used in the shader
//   - Constants: Module-scope constant values
//   - GlobalVariables: Module-scope variables (uniforms, storage, etc.)
//   - Functions: All function definitions
//   - EntryPoints: Shader entry points, each owning its function directly
//
// Functions additionally carry per-function arenas for local variables and
// expressions. Expressions follow SSA form: each is defined once and refers
// to earlier expressions by handle.
//
// # Handle discipline
//
// Handles are 1-based ordinals into their arena; the zero value means "no
// handle". Packages consuming the IR may index arenas without bounds checks
// only after the valid package has accepted the module, since handle
// validation proves every reference resolves and respects arena order.
//
// # References
//
// This IR design is inspired by:
//   - naga (Rust): https://github.com/gfx-rs/naga
//   - SPIR-V specification: https://www.khronos.org/registry/SPIR-V/
package ir
