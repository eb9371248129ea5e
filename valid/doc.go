// Package valid checks shader IR modules for structural soundness.
//
// The handle pass proves that every handle stored in a module refers to an
// element of the arena it is dereferenced against, and that references
// within a single arena only point backwards. Once a module passes,
// consumers may resolve any reachable handle without bounds checks, and
// may process each arena front to back knowing that dependencies were
// appended before their dependents; recursive definitions cannot occur.
//
// Validation is fail-fast. Traversal order is fixed (types, constants,
// global variables, functions, entry points), so the first offending
// reference is deterministic. It is reported as either an
// *arena.BadHandle, when a reference names a missing element, or a
// *ForwardDependencyError, when a same-arena reference points forwards or
// at its own element.
//
// The pass checks handles only. Type agreement, expression legality, and
// statement well-formedness are separate concerns layered on top of it.
package valid
