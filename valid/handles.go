package valid

import (
	"fmt"
	"strconv"

	"github.com/gogpu/shaderir/arena"
	"github.com/gogpu/shaderir/ir"
)

// ValidateModuleHandles checks every handle stored in m: cross-arena
// references must resolve to an existing element, and same-arena
// references must point strictly backwards. The first violation is
// returned as an *arena.BadHandle or a *ForwardDependencyError; a nil
// result means every handle in the module is sound.
//
// The module is never mutated, and the success path performs no
// allocation, so the pass is cheap enough to run on every build of a
// module.
func ValidateModuleHandles(m *ir.Module) error {
	if m == nil {
		return fmt.Errorf("module is nil")
	}
	v := &handleValidator{module: m}
	return v.validate()
}

// handleValidator carries the module so cross-arena existence checks can
// reach the arenas from any traversal depth.
type handleValidator struct {
	module *ir.Module
}

func (v *handleValidator) validate() error {
	// Types must come first. Every later pass may reference the type
	// arena and relies on it being proven well ordered already.
	if err := v.validateTypes(); err != nil {
		return err
	}
	if err := v.validateConstants(); err != nil {
		return err
	}
	if err := v.validateGlobalVariables(); err != nil {
		return err
	}
	if err := v.validateFunctions(); err != nil {
		return err
	}
	return v.validateEntryPoints()
}

func (v *handleValidator) validateTypes() error {
	for h, ty := range v.module.Types.Iter() {
		// Scalar, Vector, Matrix, ValuePointer, Atomic, Image, and
		// Sampler types hold no handles.
		switch inner := ty.Inner.(type) {
		case ir.PointerType:
			subject := descNamed(h, "pointer type", ty.Name)
			if err := subject.checkDep(desc(inner.Base, "base type")); err != nil {
				return err
			}
		case ir.ArrayType:
			subject := descNamed(h, "array type", ty.Name)
			if err := subject.checkDep(desc(inner.Base, "base type")); err != nil {
				return err
			}
		case ir.BindingArrayType:
			subject := descNamed(h, "binding array type", ty.Name)
			if err := subject.checkDep(desc(inner.Base, "base type")); err != nil {
				return err
			}
		case ir.StructType:
			subject := descNamed(h, "structure", ty.Name)
			for _, member := range inner.Members {
				if err := subject.checkDep(descNamed(member.Type, "member type", member.Name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *handleValidator) validateConstants() error {
	for h, constant := range v.module.Constants.Iter() {
		// Scalar constants are self-describing leaves.
		switch value := constant.Value.(type) {
		case ir.CompositeValue:
			if err := v.checkType(value.Type); err != nil {
				return err
			}
			subject := descNamed(h, "constant", constant.Name)
			for _, component := range value.Components {
				if err := subject.checkDep(desc(component, "component")); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *handleValidator) validateGlobalVariables() error {
	for _, global := range v.module.GlobalVariables.Iter() {
		if err := v.checkType(global.Type); err != nil {
			return err
		}
		if err := v.checkConstantOpt(global.Init); err != nil {
			return err
		}
	}
	return nil
}

func (v *handleValidator) validateFunctions() error {
	for _, fn := range v.module.Functions.Iter() {
		if err := v.validateFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

// validateEntryPoints checks each entry point's embedded function. Entry
// point functions live outside the function arena, so they can call into
// it but can never be the target of a CallResult themselves.
func (v *handleValidator) validateEntryPoints() error {
	for i := range v.module.EntryPoints {
		if err := v.validateFunction(&v.module.EntryPoints[i].Function); err != nil {
			return err
		}
	}
	return nil
}

// validateFunction checks the function's local-variable arena and then its
// expression arena. Argument and result types are positional metadata and
// carry no arena ordering to enforce; the function body refers to
// expressions already covered here.
func (v *handleValidator) validateFunction(fn *ir.Function) error {
	for _, local := range fn.LocalVariables.Iter() {
		if err := v.checkType(local.Type); err != nil {
			return err
		}
		if err := v.checkConstantOpt(local.Init); err != nil {
			return err
		}
	}
	for h, expr := range fn.Expressions.Iter() {
		if err := v.validateExpression(fn, h, expr); err != nil {
			return err
		}
	}
	return nil
}

func (v *handleValidator) validateExpression(fn *ir.Function, h ir.ExpressionHandle, expr *ir.Expression) error {
	switch kind := expr.Kind.(type) {
	case ir.ExprAccess:
		return descExpr(h, "access").checkDep(descExpr(kind.Base, "access base"))
	case ir.ExprAccessIndex:
		return descExpr(h, "access").checkDep(descExpr(kind.Base, "access base"))
	case ir.ExprConstant:
		return v.checkConstant(kind.Constant)
	case ir.ExprZeroValue:
		return v.checkType(kind.Type)
	case ir.ExprSplat:
		return descExpr(h, "splat").checkDep(descExpr(kind.Value, "splat value"))
	case ir.ExprSwizzle:
		return descExpr(h, "swizzle").checkDep(descExpr(kind.Vector, "vector"))
	case ir.ExprCompose:
		if err := v.checkType(kind.Type); err != nil {
			return err
		}
		subject := descExpr(h, "composite")
		for _, component := range kind.Components {
			if err := subject.checkDep(descExpr(component, "component")); err != nil {
				return err
			}
		}
		return nil
	case ir.ExprFunctionArgument:
		// Arguments are positional parameters, not arena elements.
		return nil
	case ir.ExprGlobalVariable:
		return v.module.GlobalVariables.CheckContains(kind.Variable)
	case ir.ExprLocalVariable:
		return fn.LocalVariables.CheckContains(kind.Variable)
	case ir.ExprLoad:
		return descExpr(h, "load").checkDep(descExpr(kind.Pointer, "pointee"))
	case ir.ExprImageSample:
		// The offset is a module-scope constant and is checked for
		// existence before any ordering is considered. Gather and the
		// sample level carry no ordering to enforce here.
		if err := v.checkConstantOpt(kind.Offset); err != nil {
			return err
		}
		subject := descExpr(h, "image sample")
		if err := subject.checkDep(descExpr(kind.Image, "image")); err != nil {
			return err
		}
		if err := subject.checkDep(descExpr(kind.Sampler, "sampler")); err != nil {
			return err
		}
		if err := subject.checkDep(descExpr(kind.Coordinate, "coordinate")); err != nil {
			return err
		}
		if err := subject.checkDepOpt(kind.ArrayIndex, exprDesc("array index")); err != nil {
			return err
		}
		return subject.checkDepOpt(kind.DepthRef, exprDesc("depth reference"))
	case ir.ExprImageLoad:
		subject := descExpr(h, "image load")
		if err := subject.checkDep(descExpr(kind.Image, "image")); err != nil {
			return err
		}
		if err := subject.checkDep(descExpr(kind.Coordinate, "coordinate")); err != nil {
			return err
		}
		if err := subject.checkDepOpt(kind.ArrayIndex, exprDesc("array index")); err != nil {
			return err
		}
		if err := subject.checkDepOpt(kind.Sample, exprDesc("sample index")); err != nil {
			return err
		}
		return subject.checkDepOpt(kind.Level, exprDesc("level of detail"))
	case ir.ExprImageQuery:
		subject := descExpr(h, "image query")
		if err := subject.checkDep(descExpr(kind.Image, "image")); err != nil {
			return err
		}
		if size, ok := kind.Query.(ir.ImageQuerySize); ok {
			return subject.checkDepOpt(size.Level, exprDesc("level of detail"))
		}
		return nil
	case ir.ExprUnary:
		return descExpr(h, "unary").checkDep(descExpr(kind.Expr, "unary operand"))
	case ir.ExprBinary:
		subject := descExpr(h, "binary")
		if err := subject.checkDep(descExpr(kind.Left, "left operand")); err != nil {
			return err
		}
		return subject.checkDep(descExpr(kind.Right, "right operand"))
	case ir.ExprSelect:
		subject := desc(h, "`select` function call")
		if err := subject.checkDep(descExpr(kind.Condition, "condition")); err != nil {
			return err
		}
		if err := subject.checkDep(descExpr(kind.Accept, "accept")); err != nil {
			return err
		}
		return subject.checkDep(descExpr(kind.Reject, "reject"))
	case ir.ExprDerivative:
		return descExpr(h, "derivative").checkDep(descExpr(kind.Expr, "argument"))
	case ir.ExprRelational:
		return desc(h, "relational function call").checkDep(descExpr(kind.Argument, "argument"))
	case ir.ExprMath:
		subject := desc(h, "math function call")
		if err := subject.checkDep(descExpr(kind.Arg, "first argument")); err != nil {
			return err
		}
		if err := subject.checkDepOpt(kind.Arg1, exprDesc("second argument")); err != nil {
			return err
		}
		if err := subject.checkDepOpt(kind.Arg2, exprDesc("third argument")); err != nil {
			return err
		}
		return subject.checkDepOpt(kind.Arg3, exprDesc("fourth argument"))
	case ir.ExprAs:
		return descExpr(h, "cast").checkDep(descExpr(kind.Expr, "input"))
	case ir.ExprCallResult:
		return v.module.Functions.CheckContains(kind.Function)
	case ir.ExprArrayLength:
		return descExpr(h, "array length").checkDep(descExpr(kind.Array, "array"))
	}
	// Literal and AtomicResult expressions hold no handles.
	return nil
}

func (v *handleValidator) checkType(h ir.TypeHandle) error {
	return v.module.Types.CheckContains(h)
}

func (v *handleValidator) checkConstant(h ir.ConstantHandle) error {
	return v.module.Constants.CheckContains(h)
}

func (v *handleValidator) checkConstantOpt(h *ir.ConstantHandle) error {
	if h == nil {
		return nil
	}
	return v.checkConstant(*h)
}

// description identifies the role a handle plays in the entity being
// validated. It stores parts rather than a formatted string so that
// building one costs nothing; String runs only when an error is reported.
type description struct {
	kind string
	name string
	expr bool // append " expression" to the kind
}

func (d description) String() string {
	s := d.kind
	if d.expr {
		s += " expression"
	}
	if d.name != "" {
		s += " " + strconv.Quote(d.name)
	}
	return s
}

func exprDesc(kind string) description {
	return description{kind: kind, expr: true}
}

// handleDescriptor pairs a handle with the description used if the handle
// turns out to be part of an invalid reference.
type handleDescriptor[T any] struct {
	handle arena.Handle[T]
	desc   description
}

func desc[T any](h arena.Handle[T], kind string) handleDescriptor[T] {
	return handleDescriptor[T]{handle: h, desc: description{kind: kind}}
}

func descNamed[T any](h arena.Handle[T], kind, name string) handleDescriptor[T] {
	return handleDescriptor[T]{handle: h, desc: description{kind: kind, name: name}}
}

func descExpr(h ir.ExpressionHandle, kind string) handleDescriptor[ir.Expression] {
	return handleDescriptor[ir.Expression]{handle: h, desc: exprDesc(kind)}
}

// checkDep verifies that dep's element was appended strictly before d's.
// Equality fails: an element cannot depend on itself. The zero handle
// never passes; it refers to nothing. Both descriptors must come from the
// same arena for the comparison to mean anything.
func (d handleDescriptor[T]) checkDep(dep handleDescriptor[T]) error {
	if dep.handle.IsValid() && dep.handle.Ordinal() < d.handle.Ordinal() {
		return nil
	}
	return &ForwardDependencyError{
		Subject:   d.erase(),
		DependsOn: dep.erase(),
	}
}

// checkDepOpt is checkDep for optional handles; a nil dep passes.
func (d handleDescriptor[T]) checkDepOpt(dep *arena.Handle[T], role description) error {
	if dep == nil {
		return nil
	}
	return d.checkDep(handleDescriptor[T]{handle: *dep, desc: role})
}

func (d handleDescriptor[T]) erase() ErasedDescriptor {
	return ErasedDescriptor{Ordinal: d.handle.Ordinal(), Description: d.desc.String()}
}
