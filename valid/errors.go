package valid

import "fmt"

// ErasedDescriptor is a handle stripped of its arena element type, keeping
// only what a diagnostic needs: the ordinal and a description of the role
// the handle played.
type ErasedDescriptor struct {
	Ordinal     uint32
	Description string
}

// String formats the descriptor the way validation errors embed it.
func (d ErasedDescriptor) String() string {
	return fmt.Sprintf("%s (handle %d)", d.Description, d.Ordinal)
}

// ForwardDependencyError reports a same-arena reference that points at its
// own element or at one appended later. Ordering violations are reported
// through this error rather than a cycle check; with append-only arenas,
// backwards-only references make cycles impossible.
type ForwardDependencyError struct {
	Subject   ErasedDescriptor
	DependsOn ErasedDescriptor
}

func (e *ForwardDependencyError) Error() string {
	return fmt.Sprintf("%s depends on %s, which has not been processed yet", e.Subject, e.DependsOn)
}
