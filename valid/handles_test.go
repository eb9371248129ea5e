package valid

import (
	"errors"
	"testing"

	"github.com/gogpu/shaderir/arena"
	"github.com/gogpu/shaderir/ir"
)

// Helpers for building optional handle fields in module literals.

func constHandlePtr(h ir.ConstantHandle) *ir.ConstantHandle {
	return &h
}

func exprHandlePtr(h ir.ExpressionHandle) *ir.ExpressionHandle {
	return &h
}

func wantForwardDep(t *testing.T, err error, want string) {
	t.Helper()
	var fwd *ForwardDependencyError
	if !errors.As(err, &fwd) {
		t.Fatalf("got error %v (%T), want *ForwardDependencyError", err, err)
	}
	if got := fwd.Error(); got != want {
		t.Errorf("error text mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func wantBadHandle(t *testing.T, err error, kind string, ordinal uint32) {
	t.Helper()
	var bad *arena.BadHandle
	if !errors.As(err, &bad) {
		t.Fatalf("got error %v (%T), want *arena.BadHandle", err, err)
	}
	if bad.Kind != kind || bad.Ordinal != ordinal {
		t.Errorf("BadHandle = {%s %d}, want {%s %d}", bad.Kind, bad.Ordinal, kind, ordinal)
	}
}

// wellFormedModule exercises every entity kind with sound handles: each
// reference resolves and same-arena references point backwards.
func wellFormedModule() *ir.Module {
	four := uint32(4)
	f32 := ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	return &ir.Module{
		Types: arena.Of(
			ir.Type{Name: "f32", Inner: f32},                                                           // 1
			ir.Type{Name: "vec4f", Inner: ir.VectorType{Size: ir.Vec4, Scalar: f32}},                   // 2
			ir.Type{Inner: ir.PointerType{Base: 1, Space: ir.SpaceFunction}},                           // 3
			ir.Type{Inner: ir.ArrayType{Base: 2, Size: ir.ArraySize{Constant: &four}, Stride: 16}},     // 4
			ir.Type{Name: "Light", Inner: ir.StructType{Members: []ir.StructMember{
				{Name: "pos", Type: 2, Offset: 0},
				{Name: "intensity", Type: 1, Offset: 16},
			}, Span: 32}}, // 5
			ir.Type{Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled}},                   // 6
			ir.Type{Inner: ir.SamplerType{}},                                                           // 7
			ir.Type{Inner: ir.BindingArrayType{Base: 6, Size: ir.ArraySize{Constant: &four}}},          // 8
			ir.Type{Inner: ir.AtomicType{Scalar: ir.ScalarType{Kind: ir.ScalarUint, Width: 4}}},        // 9
			ir.Type{Inner: ir.ValuePointerType{Scalar: f32, Space: ir.SpaceFunction}},                  // 10
		),
		Constants: arena.Of(
			ir.Constant{Name: "one", Value: ir.ScalarValue{Bits: 0x3f800000, Kind: ir.ScalarFloat, Width: 4}}, // 1
			ir.Constant{Name: "zero", Value: ir.ScalarValue{Kind: ir.ScalarFloat, Width: 4}},                  // 2
			ir.Constant{Name: "ones", Value: ir.CompositeValue{Type: 2, Components: []ir.ConstantHandle{1, 1, 1, 2}}}, // 3
		),
		GlobalVariables: arena.Of(
			ir.GlobalVariable{Name: "light", Space: ir.SpaceUniform, Binding: &ir.ResourceBinding{Group: 0, Binding: 0}, Type: 5, Init: constHandlePtr(3)}, // 1
			ir.GlobalVariable{Name: "tex", Space: ir.SpaceHandle, Binding: &ir.ResourceBinding{Group: 0, Binding: 1}, Type: 6},                             // 2
			ir.GlobalVariable{Name: "samp", Space: ir.SpaceHandle, Binding: &ir.ResourceBinding{Group: 0, Binding: 2}, Type: 7},                            // 3
		),
		Functions: arena.Of(
			ir.Function{
				Name:      "scale",
				Arguments: []ir.FunctionArgument{{Name: "x", Type: 1}},
				Result:    &ir.FunctionResult{Type: 1},
				LocalVariables: arena.Of(
					ir.LocalVariable{Name: "acc", Type: 1, Init: constHandlePtr(1)},
				),
				Expressions: arena.Of(
					ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}},                       // 1
					ir.Expression{Kind: ir.ExprConstant{Constant: 1}},                            // 2
					ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: 1, Right: 2}}, // 3
					ir.Expression{Kind: ir.ExprMath{Fun: ir.MathAbs, Arg: 3}},                    // 4
				),
				Body: ir.Block{
					ir.Statement{Kind: ir.StmtEmit{Range: ir.Range{Start: 3, End: 5}}},
					ir.Statement{Kind: ir.StmtReturn{Value: exprHandlePtr(4)}},
				},
			},
		),
		EntryPoints: []ir.EntryPoint{{
			Name:  "fs_main",
			Stage: ir.StageFragment,
			Function: ir.Function{
				Name: "fs_main",
				Expressions: arena.Of(
					ir.Expression{Kind: ir.ExprGlobalVariable{Variable: 2}}, // 1
					ir.Expression{Kind: ir.ExprGlobalVariable{Variable: 3}}, // 2
					ir.Expression{Kind: ir.ExprZeroValue{Type: 2}},          // 3
					ir.Expression{Kind: ir.ExprImageSample{
						Image:      1,
						Sampler:    2,
						Coordinate: 3,
						Offset:     constHandlePtr(2),
						Level:      ir.SampleLevelAuto{},
					}}, // 4
					ir.Expression{Kind: ir.ExprCallResult{Function: 1}}, // 5
				),
				Body: ir.Block{
					ir.Statement{Kind: ir.StmtEmit{Range: ir.Range{Start: 1, End: 5}}},
					ir.Statement{Kind: ir.StmtReturn{Value: exprHandlePtr(4)}},
				},
			},
		}},
	}
}

func TestValidateNilModule(t *testing.T) {
	if err := ValidateModuleHandles(nil); err == nil {
		t.Error("expected error for nil module")
	}
}

func TestValidateEmptyModule(t *testing.T) {
	if err := ValidateModuleHandles(&ir.Module{}); err != nil {
		t.Errorf("empty module should validate, got: %v", err)
	}
}

func TestValidateWellFormedModule(t *testing.T) {
	m := wellFormedModule()
	if err := ValidateModuleHandles(m); err != nil {
		t.Fatalf("well-formed module rejected: %v", err)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	m := wellFormedModule()
	for i := 0; i < 3; i++ {
		if err := ValidateModuleHandles(m); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if m.Types.Len() != 10 || m.Constants.Len() != 3 || m.GlobalVariables.Len() != 3 || m.Functions.Len() != 1 {
		t.Error("validation mutated arena lengths")
	}

	bad := &ir.Module{
		Types: arena.Of(
			ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
			ir.Type{Inner: ir.PointerType{Base: 2, Space: ir.SpaceFunction}},
		),
	}
	first := ValidateModuleHandles(bad)
	if first == nil {
		t.Fatal("expected error")
	}
	for i := 0; i < 3; i++ {
		again := ValidateModuleHandles(bad)
		if again == nil || again.Error() != first.Error() {
			t.Errorf("run %d: error changed from %q to %v", i, first.Error(), again)
		}
	}
}

func TestTypeHandleChecks(t *testing.T) {
	tests := []struct {
		name   string
		module *ir.Module
		want   string
	}{
		{
			name: "pointer depending on itself",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
					ir.Type{Inner: ir.PointerType{Base: 2, Space: ir.SpaceFunction}},
				),
			},
			want: "pointer type (handle 2) depends on base type (handle 2), which has not been processed yet",
		},
		{
			name: "named pointer keeps its name in the report",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Name: "pf32", Inner: ir.PointerType{Base: 1, Space: ir.SpaceFunction}},
				),
			},
			want: `pointer type "pf32" (handle 1) depends on base type (handle 1), which has not been processed yet`,
		},
		{
			name: "array base appended later",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
					ir.Type{Inner: ir.ArrayType{Base: 3, Size: ir.ArraySize{}, Stride: 4}},
					ir.Type{Name: "u32", Inner: ir.ScalarType{Kind: ir.ScalarUint, Width: 4}},
				),
			},
			want: "array type (handle 2) depends on base type (handle 3), which has not been processed yet",
		},
		{
			name: "binding array base appended later",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Inner: ir.BindingArrayType{Base: 2, Size: ir.ArraySize{}}},
					ir.Type{Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled}},
				),
			},
			want: "binding array type (handle 1) depends on base type (handle 2), which has not been processed yet",
		},
		{
			name: "struct member type appended later",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
					ir.Type{Name: "Light", Inner: ir.StructType{Members: []ir.StructMember{
						{Name: "pos", Type: 1, Offset: 0},
						{Name: "color", Type: 5, Offset: 16},
					}, Span: 32}},
				),
			},
			want: `structure "Light" (handle 2) depends on member type "color" (handle 5), which has not been processed yet`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantForwardDep(t, ValidateModuleHandles(tt.module), tt.want)
		})
	}

	t.Run("leaf types hold no handles", func(t *testing.T) {
		size := ir.Vec2
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Inner: ir.ScalarType{Kind: ir.ScalarBool, Width: 1}},
				ir.Type{Inner: ir.VectorType{Size: ir.Vec3, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
				ir.Type{Inner: ir.MatrixType{Columns: ir.Vec4, Rows: ir.Vec4, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
				ir.Type{Inner: ir.ValuePointerType{Size: &size, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}, Space: ir.SpacePrivate}},
				ir.Type{Inner: ir.AtomicType{Scalar: ir.ScalarType{Kind: ir.ScalarSint, Width: 4}}},
				ir.Type{Inner: ir.ImageType{Dim: ir.DimCube, Class: ir.ImageClassDepth}},
				ir.Type{Inner: ir.SamplerType{Comparison: true}},
			),
		}
		if err := ValidateModuleHandles(m); err != nil {
			t.Errorf("leaf-only types rejected: %v", err)
		}
	})
}

func TestConstantHandleChecks(t *testing.T) {
	t.Run("scalar constants are leaves", func(t *testing.T) {
		m := &ir.Module{
			Constants: arena.Of(
				ir.Constant{Name: "a", Value: ir.ScalarValue{Bits: 1, Kind: ir.ScalarUint, Width: 4}},
				ir.Constant{Name: "b", Value: ir.ScalarValue{Bits: 2, Kind: ir.ScalarUint, Width: 4}},
			),
		}
		if err := ValidateModuleHandles(m); err != nil {
			t.Errorf("scalar constants rejected: %v", err)
		}
	})

	t.Run("composite type must exist", func(t *testing.T) {
		m := &ir.Module{
			Constants: arena.Of(
				ir.Constant{Name: "c", Value: ir.CompositeValue{Type: 9, Components: nil}},
			),
		}
		err := ValidateModuleHandles(m)
		wantBadHandle(t, err, "ir.Type", 9)
		want := "handle 9 of ir.Type is either not present, or inaccessible yet"
		if err.Error() != want {
			t.Errorf("error text = %q, want %q", err.Error(), want)
		}
	})

	t.Run("composite type checked before components", func(t *testing.T) {
		// Both the type handle and the component ordering are broken;
		// the cross-arena existence check runs first.
		m := &ir.Module{
			Constants: arena.Of(
				ir.Constant{Name: "c", Value: ir.CompositeValue{Type: 9, Components: []ir.ConstantHandle{5}}},
			),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 9)
	})

	t.Run("component depending on itself", func(t *testing.T) {
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
			),
			Constants: arena.Of(
				ir.Constant{Name: "lights", Value: ir.CompositeValue{Type: 1, Components: []ir.ConstantHandle{1}}},
			),
		}
		wantForwardDep(t, ValidateModuleHandles(m),
			`constant "lights" (handle 1) depends on component (handle 1), which has not been processed yet`)
	})

	t.Run("component beyond the arena is an ordering error", func(t *testing.T) {
		// Same-arena references are never dereferenced, so an
		// out-of-range component surfaces as a forward dependency,
		// not a bad handle.
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
			),
			Constants: arena.Of(
				ir.Constant{Value: ir.ScalarValue{Kind: ir.ScalarFloat, Width: 4}},
				ir.Constant{Value: ir.ScalarValue{Kind: ir.ScalarFloat, Width: 4}},
				ir.Constant{Name: "c", Value: ir.CompositeValue{Type: 1, Components: []ir.ConstantHandle{1, 5}}},
			),
		}
		wantForwardDep(t, ValidateModuleHandles(m),
			`constant "c" (handle 3) depends on component (handle 5), which has not been processed yet`)
	})

	t.Run("cross-arena type reference ignores ordering", func(t *testing.T) {
		// The type arena was fully validated before constants run, so
		// a composite may reference any in-range type, including the
		// last one.
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
				ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
			),
			Constants: arena.Of(
				ir.Constant{Value: ir.ScalarValue{Kind: ir.ScalarFloat, Width: 4}},
				ir.Constant{Value: ir.CompositeValue{Type: 2, Components: []ir.ConstantHandle{1, 1}}},
			),
		}
		if err := ValidateModuleHandles(m); err != nil {
			t.Errorf("composite referencing later type rejected: %v", err)
		}
	})
}

func TestGlobalVariableHandleChecks(t *testing.T) {
	t.Run("type must exist", func(t *testing.T) {
		m := &ir.Module{
			GlobalVariables: arena.Of(
				ir.GlobalVariable{Name: "g", Space: ir.SpacePrivate, Type: 4},
			),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 4)
	})

	t.Run("initializer constant must exist", func(t *testing.T) {
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
			),
			GlobalVariables: arena.Of(
				ir.GlobalVariable{Name: "g", Space: ir.SpacePrivate, Type: 1, Init: constHandlePtr(2)},
			),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Constant", 2)
	})

	t.Run("absent initializer passes", func(t *testing.T) {
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
			),
			GlobalVariables: arena.Of(
				ir.GlobalVariable{Name: "g", Space: ir.SpacePrivate, Type: 1},
			),
		}
		if err := ValidateModuleHandles(m); err != nil {
			t.Errorf("global without initializer rejected: %v", err)
		}
	})
}

func TestLocalVariableHandleChecks(t *testing.T) {
	t.Run("type must exist", func(t *testing.T) {
		m := &ir.Module{
			Functions: arena.Of(ir.Function{
				Name: "f",
				LocalVariables: arena.Of(
					ir.LocalVariable{Name: "v", Type: 3},
				),
			}),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 3)
	})

	t.Run("initializer constant must exist", func(t *testing.T) {
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
			),
			Functions: arena.Of(ir.Function{
				Name: "f",
				LocalVariables: arena.Of(
					ir.LocalVariable{Name: "v", Type: 1, Init: constHandlePtr(7)},
				),
			}),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Constant", 7)
	})

	t.Run("locals are validated before expressions", func(t *testing.T) {
		// Both the local's type and an expression are broken; the
		// local-variable arena is walked first.
		m := &ir.Module{
			Functions: arena.Of(ir.Function{
				Name: "f",
				LocalVariables: arena.Of(
					ir.LocalVariable{Name: "v", Type: 3},
				),
				Expressions: arena.Of(
					ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: 1}},
				),
			}),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 3)
	})
}

// exprModule wraps expressions in a single function so tables can focus on
// the expression under test.
func exprModule(exprs ...ir.Expression) *ir.Module {
	return &ir.Module{
		Functions: arena.Of(ir.Function{
			Name:        "f",
			Expressions: arena.Of(exprs...),
		}),
	}
}

func TestExpressionOrderingChecks(t *testing.T) {
	lit := ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(1)}}

	tests := []struct {
		name   string
		module *ir.Module
		want   string
	}{
		{
			name:   "access base",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprAccess{Base: 2, Index: 1}}),
			want:   "access expression (handle 2) depends on access base expression (handle 2), which has not been processed yet",
		},
		{
			name:   "access index base",
			module: exprModule(ir.Expression{Kind: ir.ExprAccessIndex{Base: 1, Index: 0}}),
			want:   "access expression (handle 1) depends on access base expression (handle 1), which has not been processed yet",
		},
		{
			name:   "splat value",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec4, Value: 3}}),
			want:   "splat expression (handle 2) depends on splat value expression (handle 3), which has not been processed yet",
		},
		{
			name:   "swizzle vector",
			module: exprModule(ir.Expression{Kind: ir.ExprSwizzle{Size: ir.Vec2, Vector: 1}}),
			want:   "swizzle expression (handle 1) depends on vector expression (handle 1), which has not been processed yet",
		},
		{
			name: "compose component",
			module: &ir.Module{
				Types: arena.Of(
					ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}}},
				),
				Functions: arena.Of(ir.Function{
					Name: "f",
					Expressions: arena.Of(
						ir.Expression{Kind: ir.ExprCompose{Type: 1, Components: []ir.ExpressionHandle{2}}},
					),
				}),
			},
			want: "composite expression (handle 1) depends on component expression (handle 2), which has not been processed yet",
		},
		{
			name:   "load pointee",
			module: exprModule(ir.Expression{Kind: ir.ExprLoad{Pointer: 1}}),
			want:   "load expression (handle 1) depends on pointee expression (handle 1), which has not been processed yet",
		},
		{
			name: "image sample image",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 4, Sampler: 1, Coordinate: 2, Level: ir.SampleLevelAuto{}}}),
			want: "image sample expression (handle 4) depends on image expression (handle 4), which has not been processed yet",
		},
		{
			name: "image sample sampler",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 4, Coordinate: 2, Level: ir.SampleLevelAuto{}}}),
			want: "image sample expression (handle 4) depends on sampler expression (handle 4), which has not been processed yet",
		},
		{
			name: "image sample coordinate",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 2, Coordinate: 5, Level: ir.SampleLevelAuto{}}}),
			want: "image sample expression (handle 4) depends on coordinate expression (handle 5), which has not been processed yet",
		},
		{
			name: "image sample array index",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 2, Coordinate: 3, ArrayIndex: exprHandlePtr(4), Level: ir.SampleLevelAuto{}}}),
			want: "image sample expression (handle 4) depends on array index expression (handle 4), which has not been processed yet",
		},
		{
			name: "image sample depth reference",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 2, Coordinate: 3, DepthRef: exprHandlePtr(9), Level: ir.SampleLevelAuto{}}}),
			want: "image sample expression (handle 4) depends on depth reference expression (handle 9), which has not been processed yet",
		},
		{
			name: "image load image",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageLoad{Image: 2, Coordinate: 1}}),
			want: "image load expression (handle 2) depends on image expression (handle 2), which has not been processed yet",
		},
		{
			name: "image load coordinate",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageLoad{Image: 1, Coordinate: 2}}),
			want: "image load expression (handle 2) depends on coordinate expression (handle 2), which has not been processed yet",
		},
		{
			name: "image load array index",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageLoad{Image: 1, Coordinate: 1, ArrayIndex: exprHandlePtr(2)}}),
			want: "image load expression (handle 2) depends on array index expression (handle 2), which has not been processed yet",
		},
		{
			name: "image load sample index",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageLoad{Image: 1, Coordinate: 1, Sample: exprHandlePtr(3)}}),
			want: "image load expression (handle 2) depends on sample index expression (handle 3), which has not been processed yet",
		},
		{
			name: "image load level of detail",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageLoad{Image: 1, Coordinate: 1, Level: exprHandlePtr(2)}}),
			want: "image load expression (handle 2) depends on level of detail expression (handle 2), which has not been processed yet",
		},
		{
			name: "image query image",
			module: exprModule(ir.Expression{Kind: ir.ExprImageQuery{Image: 1, Query: ir.ImageQueryNumLevels{}}}),
			want:  "image query expression (handle 1) depends on image expression (handle 1), which has not been processed yet",
		},
		{
			name: "image query size level",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprImageQuery{Image: 1, Query: ir.ImageQuerySize{Level: exprHandlePtr(2)}}}),
			want: "image query expression (handle 2) depends on level of detail expression (handle 2), which has not been processed yet",
		},
		{
			name:   "unary operand",
			module: exprModule(ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: 1}}),
			want:   "unary expression (handle 1) depends on unary operand expression (handle 1), which has not been processed yet",
		},
		{
			name:   "zero handle never passes",
			module: exprModule(ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: 0}}),
			want:   "unary expression (handle 1) depends on unary operand expression (handle 0), which has not been processed yet",
		},
		{
			name:   "binary left operand",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: 2, Right: 1}}),
			want:   "binary expression (handle 2) depends on left operand expression (handle 2), which has not been processed yet",
		},
		{
			name:   "binary right operand",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: 1, Right: 2}}),
			want:   "binary expression (handle 2) depends on right operand expression (handle 2), which has not been processed yet",
		},
		{
			name: "select condition",
			module: exprModule(lit, lit,
				ir.Expression{Kind: ir.ExprSelect{Condition: 3, Accept: 1, Reject: 2}}),
			want: "`select` function call (handle 3) depends on condition expression (handle 3), which has not been processed yet",
		},
		{
			name: "select accept",
			module: exprModule(lit, lit,
				ir.Expression{Kind: ir.ExprSelect{Condition: 1, Accept: 3, Reject: 2}}),
			want: "`select` function call (handle 3) depends on accept expression (handle 3), which has not been processed yet",
		},
		{
			name: "select reject",
			module: exprModule(lit, lit,
				ir.Expression{Kind: ir.ExprSelect{Condition: 1, Accept: 2, Reject: 4}}),
			want: "`select` function call (handle 3) depends on reject expression (handle 4), which has not been processed yet",
		},
		{
			name:   "derivative argument",
			module: exprModule(ir.Expression{Kind: ir.ExprDerivative{Axis: ir.DerivativeX, Expr: 1}}),
			want:   "derivative expression (handle 1) depends on argument expression (handle 1), which has not been processed yet",
		},
		{
			name:   "relational argument",
			module: exprModule(ir.Expression{Kind: ir.ExprRelational{Fun: ir.RelationalAll, Argument: 1}}),
			want:   "relational function call (handle 1) depends on argument expression (handle 1), which has not been processed yet",
		},
		{
			name:   "math first argument",
			module: exprModule(ir.Expression{Kind: ir.ExprMath{Fun: ir.MathAbs, Arg: 1}}),
			want:   "math function call (handle 1) depends on first argument expression (handle 1), which has not been processed yet",
		},
		{
			name: "math optional argument",
			module: exprModule(lit,
				ir.Expression{Kind: ir.ExprMath{Fun: ir.MathClamp, Arg: 1, Arg1: exprHandlePtr(1), Arg2: exprHandlePtr(2)}}),
			want: "math function call (handle 2) depends on third argument expression (handle 2), which has not been processed yet",
		},
		{
			name:   "cast input",
			module: exprModule(ir.Expression{Kind: ir.ExprAs{Expr: 1, Kind: ir.ScalarUint}}),
			want:   "cast expression (handle 1) depends on input expression (handle 1), which has not been processed yet",
		},
		{
			name:   "array length array",
			module: exprModule(ir.Expression{Kind: ir.ExprArrayLength{Array: 1}}),
			want:   "array length expression (handle 1) depends on array expression (handle 1), which has not been processed yet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantForwardDep(t, ValidateModuleHandles(tt.module), tt.want)
		})
	}
}

func TestExpressionExistenceChecks(t *testing.T) {
	tests := []struct {
		name    string
		module  *ir.Module
		kind    string
		ordinal uint32
	}{
		{
			name:    "constant expression",
			module:  exprModule(ir.Expression{Kind: ir.ExprConstant{Constant: 3}}),
			kind:    "ir.Constant",
			ordinal: 3,
		},
		{
			name:    "zero value type",
			module:  exprModule(ir.Expression{Kind: ir.ExprZeroValue{Type: 2}}),
			kind:    "ir.Type",
			ordinal: 2,
		},
		{
			name:    "compose type",
			module:  exprModule(ir.Expression{Kind: ir.ExprCompose{Type: 7}}),
			kind:    "ir.Type",
			ordinal: 7,
		},
		{
			name:    "global variable expression",
			module:  exprModule(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: 1}}),
			kind:    "ir.GlobalVariable",
			ordinal: 1,
		},
		{
			name:    "local variable expression",
			module:  exprModule(ir.Expression{Kind: ir.ExprLocalVariable{Variable: 1}}),
			kind:    "ir.LocalVariable",
			ordinal: 1,
		},
		{
			name:    "call result function",
			module:  exprModule(ir.Expression{Kind: ir.ExprCallResult{Function: 2}}),
			kind:    "ir.Function",
			ordinal: 2,
		},
		{
			name: "image sample offset constant",
			module: exprModule(
				ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}},
				ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}},
				ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}},
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 2, Coordinate: 3, Offset: constHandlePtr(4), Level: ir.SampleLevelAuto{}}}),
			kind:    "ir.Constant",
			ordinal: 4,
		},
		{
			name: "offset existence runs before image ordering",
			module: exprModule(
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 1, Coordinate: 1, Offset: constHandlePtr(4), Level: ir.SampleLevelAuto{}}}),
			kind:    "ir.Constant",
			ordinal: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantBadHandle(t, ValidateModuleHandles(tt.module), tt.kind, tt.ordinal)
		})
	}
}

func TestExpressionsWithoutChecks(t *testing.T) {
	lit := ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(true)}}

	tests := []struct {
		name   string
		module *ir.Module
	}{
		{
			name:   "function argument index is not arena-checked",
			module: exprModule(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 999}}),
		},
		{
			name:   "atomic result",
			module: exprModule(ir.Expression{Kind: ir.ExprAtomicResult{}}),
		},
		{
			name:   "literal",
			module: exprModule(lit),
		},
		{
			name:   "access computed index is not ordering-checked",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprAccess{Base: 1, Index: 99}}),
		},
		{
			name: "image sample level is not ordering-checked",
			module: exprModule(lit, lit, lit,
				ir.Expression{Kind: ir.ExprImageSample{Image: 1, Sampler: 2, Coordinate: 3, Level: ir.SampleLevelExact{Level: 99}}}),
		},
		{
			name:   "image query without level",
			module: exprModule(lit, ir.Expression{Kind: ir.ExprImageQuery{Image: 1, Query: ir.ImageQueryNumLayers{}}}),
		},
		{
			name:   "call result may reference the containing function",
			module: exprModule(ir.Expression{Kind: ir.ExprCallResult{Function: 1}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateModuleHandles(tt.module); err != nil {
				t.Errorf("module rejected: %v", err)
			}
		})
	}
}

func TestTraversalOrder(t *testing.T) {
	badTypes := arena.Of(
		ir.Type{Inner: ir.PointerType{Base: 1, Space: ir.SpaceFunction}},
	)
	badConstants := arena.Of(
		ir.Constant{Name: "c", Value: ir.CompositeValue{Type: 9}},
	)
	badGlobals := arena.Of(
		ir.GlobalVariable{Name: "g", Space: ir.SpacePrivate, Type: 8},
	)
	badFunction := ir.Function{
		Name:        "f",
		Expressions: arena.Of(ir.Expression{Kind: ir.ExprLoad{Pointer: 1}}),
	}
	badEntryPoint := ir.EntryPoint{
		Name:     "ep",
		Stage:    ir.StageCompute,
		Function: badFunction,
	}

	t.Run("types before constants", func(t *testing.T) {
		m := &ir.Module{Types: badTypes, Constants: badConstants}
		wantForwardDep(t, ValidateModuleHandles(m),
			"pointer type (handle 1) depends on base type (handle 1), which has not been processed yet")
	})

	t.Run("constants before globals", func(t *testing.T) {
		m := &ir.Module{Constants: badConstants, GlobalVariables: badGlobals}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 9)
	})

	t.Run("globals before functions", func(t *testing.T) {
		m := &ir.Module{
			GlobalVariables: badGlobals,
			Functions:       arena.Of(badFunction),
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Type", 8)
	})

	t.Run("functions before entry points", func(t *testing.T) {
		m := &ir.Module{
			Functions: arena.Of(ir.Function{
				Name:        "f",
				Expressions: arena.Of(ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: 1}}),
			}),
			EntryPoints: []ir.EntryPoint{badEntryPoint},
		}
		wantForwardDep(t, ValidateModuleHandles(m),
			"unary expression (handle 1) depends on unary operand expression (handle 1), which has not been processed yet")
	})

	t.Run("entry point errors surface when the rest is clean", func(t *testing.T) {
		m := &ir.Module{EntryPoints: []ir.EntryPoint{badEntryPoint}}
		wantForwardDep(t, ValidateModuleHandles(m),
			"load expression (handle 1) depends on pointee expression (handle 1), which has not been processed yet")
	})

	t.Run("first broken expression wins", func(t *testing.T) {
		m := exprModule(
			ir.Expression{Kind: ir.ExprLoad{Pointer: 1}},
			ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: 2}},
		)
		wantForwardDep(t, ValidateModuleHandles(m),
			"load expression (handle 1) depends on pointee expression (handle 1), which has not been processed yet")
	})
}

func TestEntryPointFunctions(t *testing.T) {
	t.Run("embedded function may use module arenas", func(t *testing.T) {
		m := &ir.Module{
			Types: arena.Of(
				ir.Type{Name: "f32", Inner: ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}},
			),
			Constants: arena.Of(
				ir.Constant{Name: "k", Value: ir.ScalarValue{Kind: ir.ScalarFloat, Width: 4}},
			),
			Functions: arena.Of(ir.Function{Name: "helper"}),
			EntryPoints: []ir.EntryPoint{{
				Name:  "cs_main",
				Stage: ir.StageCompute,
				Function: ir.Function{
					Name: "cs_main",
					LocalVariables: arena.Of(
						ir.LocalVariable{Name: "v", Type: 1, Init: constHandlePtr(1)},
					),
					Expressions: arena.Of(
						ir.Expression{Kind: ir.ExprConstant{Constant: 1}},
						ir.Expression{Kind: ir.ExprCallResult{Function: 1}},
					),
				},
			}},
		}
		if err := ValidateModuleHandles(m); err != nil {
			t.Errorf("entry point using module arenas rejected: %v", err)
		}
	})

	t.Run("embedded function is not in the function arena", func(t *testing.T) {
		// With an empty function arena, an entry point cannot call
		// anything, itself included.
		m := &ir.Module{
			EntryPoints: []ir.EntryPoint{{
				Name:  "cs_main",
				Stage: ir.StageCompute,
				Function: ir.Function{
					Name: "cs_main",
					Expressions: arena.Of(
						ir.Expression{Kind: ir.ExprCallResult{Function: 1}},
					),
				},
			}},
		}
		wantBadHandle(t, ValidateModuleHandles(m), "ir.Function", 1)
	})
}
