// Package fixture provides hand-built IR modules for tests and the
// validation harness.
//
// Each fixture mirrors a well-known reference shader and is constructed
// with arena appends, so every element depends only on elements appended
// before it and the modules pass handle validation by construction.
// Between them the fixtures touch every shader stage and most expression
// and statement kinds, which makes them a useful corpus for backend
// snapshot tests.
package fixture

import (
	"github.com/gogpu/shaderir/ir"
)

// Fixture pairs a module builder with the name used for golden files.
type Fixture struct {
	Name  string
	Build func() *ir.Module
}

// All returns every fixture in name order.
func All() []Fixture {
	return []Fixture{
		{Name: "boids", Build: Boids},
		{Name: "quad", Build: Quad},
		{Name: "shadow", Build: Shadow},
	}
}

func constPtr(h ir.ConstantHandle) *ir.ConstantHandle { return &h }

func exprPtr(h ir.ExpressionHandle) *ir.ExpressionHandle { return &h }

func widthPtr(w uint8) *uint8 { return &w }

func u32Ptr(v uint32) *uint32 { return &v }

func binding(b ir.Binding) *ir.Binding { return &b }

// Quad builds the textured-quad module: a vertex stage scaling the input
// position by a module constant, and a fragment stage sampling a texture
// with a constant offset and discarding fully transparent texels through
// a premultiply helper function.
func Quad() *ir.Module {
	m := &ir.Module{}

	f32 := ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	i32 := ir.ScalarType{Kind: ir.ScalarSint, Width: 4}

	tVec2F := m.Types.Append(ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: f32}})
	tVec4F := m.Types.Append(ir.Type{Name: "vec4f", Inner: ir.VectorType{Size: ir.Vec4, Scalar: f32}})
	tVec2I := m.Types.Append(ir.Type{Name: "vec2i", Inner: ir.VectorType{Size: ir.Vec2, Scalar: i32}})
	tVertexOutput := m.Types.Append(ir.Type{Name: "VertexOutput", Inner: ir.StructType{
		Members: []ir.StructMember{
			{Name: "uv", Type: tVec2F, Binding: binding(ir.LocationBinding{Location: 0}), Offset: 0},
			{Name: "position", Type: tVec4F, Binding: binding(ir.BuiltinBinding{Builtin: ir.BuiltinPosition}), Offset: 8},
		},
		Span: 24,
	}})
	tTexture := m.Types.Append(ir.Type{Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled}})
	tSampler := m.Types.Append(ir.Type{Inner: ir.SamplerType{}})

	// 1.2f
	cScale := m.Constants.Append(ir.Constant{Name: "c_scale", Value: ir.ScalarValue{Bits: 0x3f99999a, Kind: ir.ScalarFloat, Width: 4}})
	cZeroI := m.Constants.Append(ir.Constant{Value: ir.ScalarValue{Bits: 0, Kind: ir.ScalarSint, Width: 4}})
	cOffset := m.Constants.Append(ir.Constant{Name: "sample_offset", Value: ir.CompositeValue{
		Type:       tVec2I,
		Components: []ir.ConstantHandle{cZeroI, cZeroI},
	}})

	gTexture := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "u_texture",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 0},
		Type:    tTexture,
	})
	gSampler := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "u_sampler",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 1},
		Type:    tSampler,
	})

	premultiply := ir.Function{
		Name:      "premultiply",
		Arguments: []ir.FunctionArgument{{Name: "color", Type: tVec4F}},
		Result:    &ir.FunctionResult{Type: tVec4F},
	}
	eColor := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eZero := premultiply.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}})
	eAlpha := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eColor, Index: 3}})
	eSpread := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec4, Value: eAlpha}})
	eScaled := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: eSpread, Right: eColor}})
	eOrdered := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprSwizzle{
		Size:    ir.Vec4,
		Vector:  eScaled,
		Pattern: [4]ir.SwizzleComponent{ir.SwizzleX, ir.SwizzleY, ir.SwizzleZ, ir.SwizzleW},
	}})
	eOpaque := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryGreater, Left: eAlpha, Right: eZero}})
	eResult := premultiply.Expressions.Append(ir.Expression{Kind: ir.ExprSelect{Condition: eOpaque, Accept: eOrdered, Reject: eColor}})
	premultiply.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eAlpha, End: eResult + 1}}},
		{Kind: ir.StmtReturn{Value: exprPtr(eResult)}},
	}
	fnPremultiply := m.Functions.Append(premultiply)

	vsMain := ir.Function{
		Name: "vs_main",
		Arguments: []ir.FunctionArgument{
			{Name: "pos", Type: tVec2F, Binding: binding(ir.LocationBinding{Location: 0})},
			{Name: "uv", Type: tVec2F, Binding: binding(ir.LocationBinding{Location: 1})},
		},
		Result: &ir.FunctionResult{Type: tVertexOutput},
	}
	ePos := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eUV := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 1}})
	eScale := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprConstant{Constant: cScale}})
	eZeroF := vsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}})
	eOneF := vsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(1)}})
	eScaledPos := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: eScale, Right: ePos}})
	ePosition := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCompose{
		Type:       tVec4F,
		Components: []ir.ExpressionHandle{eScaledPos, eZeroF, eOneF},
	}})
	eOut := vsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCompose{
		Type:       tVertexOutput,
		Components: []ir.ExpressionHandle{eUV, ePosition},
	}})
	vsMain.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eScaledPos, End: eOut + 1}}},
		{Kind: ir.StmtReturn{Value: exprPtr(eOut)}},
	}
	m.EntryPoints = append(m.EntryPoints, ir.EntryPoint{
		Name:     "vs_main",
		Stage:    ir.StageVertex,
		Function: vsMain,
	})

	fsMain := ir.Function{
		Name: "fs_main",
		Arguments: []ir.FunctionArgument{
			{Name: "uv", Type: tVec2F, Binding: binding(ir.LocationBinding{Location: 0})},
		},
		Result: &ir.FunctionResult{Type: tVec4F, Binding: binding(ir.LocationBinding{Location: 0})},
	}
	eTexture := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gTexture}})
	eSamplerRef := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gSampler}})
	eFragUV := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eSampled := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprImageSample{
		Image:      eTexture,
		Sampler:    eSamplerRef,
		Coordinate: eFragUV,
		Offset:     constPtr(cOffset),
		Level:      ir.SampleLevelAuto{},
	}})
	eSampledAlpha := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eSampled, Index: 3}})
	eZeroAlpha := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}})
	eByteScale := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(255)}})
	eClear := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryEqual, Left: eSampledAlpha, Right: eZeroAlpha}})
	eScaledAlpha := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: eSampledAlpha, Right: eByteScale}})
	eCoverage := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAs{Expr: eScaledAlpha, Kind: ir.ScalarUint, Convert: widthPtr(4)}})
	ePremultiplied := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCallResult{Function: fnPremultiply}})
	fsMain.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eSampled, End: eSampledAlpha + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eClear, End: eCoverage + 1}}},
		{Kind: ir.StmtIf{
			Condition: eClear,
			Accept:    ir.Block{{Kind: ir.StmtKill{}}},
		}},
		{Kind: ir.StmtCall{
			Function:  fnPremultiply,
			Arguments: []ir.ExpressionHandle{eSampled},
			Result:    exprPtr(ePremultiplied),
		}},
		{Kind: ir.StmtReturn{Value: exprPtr(ePremultiplied)}},
	}
	m.EntryPoints = append(m.EntryPoints, ir.EntryPoint{
		Name:     "fs_main",
		Stage:    ir.StageFragment,
		Function: fsMain,
	})

	return m
}

// Boids builds the particle-simulation module: a single compute stage that
// integrates particle positions from one storage buffer into another and
// counts processed invocations through an atomic.
func Boids() *ir.Module {
	m := &ir.Module{}

	f32 := ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	u32 := ir.ScalarType{Kind: ir.ScalarUint, Width: 4}

	tF32 := m.Types.Append(ir.Type{Name: "f32", Inner: f32})
	tU32 := m.Types.Append(ir.Type{Name: "u32", Inner: u32})
	tVec2F := m.Types.Append(ir.Type{Name: "vec2f", Inner: ir.VectorType{Size: ir.Vec2, Scalar: f32}})
	tVec3U := m.Types.Append(ir.Type{Name: "vec3u", Inner: ir.VectorType{Size: ir.Vec3, Scalar: u32}})
	tAtomicU32 := m.Types.Append(ir.Type{Inner: ir.AtomicType{Scalar: u32}})
	tParticle := m.Types.Append(ir.Type{Name: "Particle", Inner: ir.StructType{
		Members: []ir.StructMember{
			{Name: "pos", Type: tVec2F, Offset: 0},
			{Name: "vel", Type: tVec2F, Offset: 8},
		},
		Span: 16,
	}})
	tParticleArray := m.Types.Append(ir.Type{Inner: ir.ArrayType{Base: tParticle, Size: ir.ArraySize{}, Stride: 16}})
	tParticles := m.Types.Append(ir.Type{Name: "Particles", Inner: ir.StructType{
		Members: []ir.StructMember{{Name: "particles", Type: tParticleArray, Offset: 0}},
		Span:    16,
	}})
	tSimParams := m.Types.Append(ir.Type{Name: "SimParams", Inner: ir.StructType{
		Members: []ir.StructMember{
			{Name: "delta_t", Type: tF32, Offset: 0},
			{Name: "rule1_distance", Type: tF32, Offset: 4},
		},
		Span: 8,
	}})

	cZeroU := m.Constants.Append(ir.Constant{Value: ir.ScalarValue{Bits: 0, Kind: ir.ScalarUint, Width: 4}})
	cNumParticles := m.Constants.Append(ir.Constant{Name: "num_particles", Value: ir.ScalarValue{Bits: 1500, Kind: ir.ScalarUint, Width: 4}})

	gParams := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "params",
		Space:   ir.SpaceUniform,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 0},
		Type:    tSimParams,
	})
	gSrc := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "particles_src",
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 1},
		Type:    tParticles,
	})
	gDst := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "particles_dst",
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 2},
		Type:    tParticles,
	})
	gCounter := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "processed",
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 3},
		Type:    tAtomicU32,
	})

	csMain := ir.Function{
		Name: "cs_main",
		Arguments: []ir.FunctionArgument{
			{
				Name:    "invocation_id",
				Type:    tVec3U,
				Binding: binding(ir.BuiltinBinding{Builtin: ir.BuiltinGlobalInvocationID}),
			},
		},
	}
	lIndex := csMain.LocalVariables.Append(ir.LocalVariable{Name: "i", Type: tU32, Init: constPtr(cZeroU)})
	lPos := csMain.LocalVariables.Append(ir.LocalVariable{Name: "pos", Type: tVec2F})

	eID := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eIDx := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eID, Index: 0}})
	eTotal := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprConstant{Constant: cNumParticles}})
	eOutOfRange := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryGreaterEqual, Left: eIDx, Right: eTotal}})
	eIndexPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLocalVariable{Variable: lIndex}})
	ePosPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLocalVariable{Variable: lPos}})
	eSrc := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gSrc}})
	eDst := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gDst}})
	eCounter := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gCounter}})
	eParams := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gParams}})
	eOne := csMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralU32(1)}})
	eTicket := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAtomicResult{}})
	eSrcField := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eSrc, Index: 0}})
	eCapacity := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprArrayLength{Array: eSrcField}})
	eLimit := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprMath{Fun: ir.MathMin, Arg: eCapacity, Arg1: exprPtr(eTotal)}})
	eIndex := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eIndexPtr}})
	eDone := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryGreaterEqual, Left: eIndex, Right: eLimit}})
	eSrcParticle := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccess{Base: eSrcField, Index: eIndex}})
	eSrcPosPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eSrcParticle, Index: 0}})
	eSrcPos := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eSrcPosPtr}})
	eDeltaPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eParams, Index: 0}})
	eDelta := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eDeltaPtr}})
	eSrcVelPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eSrcParticle, Index: 1}})
	eSrcVel := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eSrcVelPtr}})
	eStepVec := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec2, Value: eDelta}})
	eStep := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: eSrcVel, Right: eStepVec}})
	eIntegrated := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: eSrcPos, Right: eStep}})
	eIndexAgain := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eIndexPtr}})
	eNext := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: eIndexAgain, Right: eOne}})
	eDstField := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eDst, Index: 0}})
	eDstParticle := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccess{Base: eDstField, Index: eIDx}})
	eDstPosPtr := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eDstParticle, Index: 0}})
	eFinalPos := csMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: ePosPtr}})

	csMain.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eIDx, End: eIDx + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eOutOfRange, End: eOutOfRange + 1}}},
		{Kind: ir.StmtIf{
			Condition: eOutOfRange,
			Accept:    ir.Block{{Kind: ir.StmtReturn{}}},
		}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eSrcField, End: eLimit + 1}}},
		{Kind: ir.StmtLoop{
			Body: ir.Block{
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eIndex, End: eDone + 1}}},
				{Kind: ir.StmtIf{
					Condition: eDone,
					Accept:    ir.Block{{Kind: ir.StmtBreak{}}},
				}},
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eSrcParticle, End: eIntegrated + 1}}},
				{Kind: ir.StmtSwitch{
					Selector: eIndex,
					Cases: []ir.SwitchCase{
						{
							Value: ir.SwitchValueU32(0),
							Body:  ir.Block{{Kind: ir.StmtStore{Pointer: ePosPtr, Value: eSrcPos}}},
						},
						{
							Value: ir.SwitchValueDefault{},
							Body:  ir.Block{{Kind: ir.StmtStore{Pointer: ePosPtr, Value: eIntegrated}}},
						},
					},
				}},
			},
			Continuing: ir.Block{
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eIndexAgain, End: eIndexAgain + 1}}},
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eNext, End: eNext + 1}}},
				{Kind: ir.StmtStore{Pointer: eIndexPtr, Value: eNext}},
			},
		}},
		{Kind: ir.StmtAtomic{
			Pointer: eCounter,
			Fun:     ir.AtomicAdd{},
			Value:   eOne,
			Result:  exprPtr(eTicket),
		}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eDstField, End: eFinalPos + 1}}},
		{Kind: ir.StmtStore{Pointer: eDstPosPtr, Value: eFinalPos}},
		{Kind: ir.StmtReturn{}},
	}
	m.EntryPoints = append(m.EntryPoints, ir.EntryPoint{
		Name:      "cs_main",
		Stage:     ir.StageCompute,
		Workgroup: [3]uint32{64, 1, 1},
		Function:  csMain,
	})

	return m
}

// Shadow builds the shadow-mapping module: a fragment stage accumulating
// light contributions through a depth-comparison helper, with a bindless
// shadow-map array and a multisampled resolve source on the side.
func Shadow() *ir.Module {
	m := &ir.Module{}

	f32 := ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	u32 := ir.ScalarType{Kind: ir.ScalarUint, Width: 4}
	i32 := ir.ScalarType{Kind: ir.ScalarSint, Width: 4}

	tF32 := m.Types.Append(ir.Type{Name: "f32", Inner: f32})
	tU32 := m.Types.Append(ir.Type{Name: "u32", Inner: u32})
	tVec3F := m.Types.Append(ir.Type{Name: "vec3f", Inner: ir.VectorType{Size: ir.Vec3, Scalar: f32}})
	tVec4F := m.Types.Append(ir.Type{Name: "vec4f", Inner: ir.VectorType{Size: ir.Vec4, Scalar: f32}})
	tVec2I := m.Types.Append(ir.Type{Name: "vec2i", Inner: ir.VectorType{Size: ir.Vec2, Scalar: i32}})
	tMat4 := m.Types.Append(ir.Type{Name: "mat4x4f", Inner: ir.MatrixType{Columns: ir.Vec4, Rows: ir.Vec4, Scalar: f32}})
	tShadowTexture := m.Types.Append(ir.Type{Inner: ir.ImageType{Dim: ir.Dim2D, Arrayed: true, Class: ir.ImageClassDepth}})
	tComparisonSampler := m.Types.Append(ir.Type{Inner: ir.SamplerType{Comparison: true}})
	tMsaaTexture := m.Types.Append(ir.Type{Inner: ir.ImageType{Dim: ir.Dim2D, Class: ir.ImageClassSampled, Multisampled: true}})
	tLight := m.Types.Append(ir.Type{Name: "Light", Inner: ir.StructType{
		Members: []ir.StructMember{
			{Name: "proj", Type: tMat4, Offset: 0},
			{Name: "pos", Type: tVec4F, Offset: 64},
			{Name: "color", Type: tVec4F, Offset: 80},
		},
		Span: 96,
	}})
	tLightArray := m.Types.Append(ir.Type{Inner: ir.ArrayType{Base: tLight, Size: ir.ArraySize{}, Stride: 96}})
	tLights := m.Types.Append(ir.Type{Name: "Lights", Inner: ir.StructType{
		Members: []ir.StructMember{{Name: "data", Type: tLightArray, Offset: 0}},
		Span:    96,
	}})
	tShadowMaps := m.Types.Append(ir.Type{Inner: ir.BindingArrayType{
		Base: tShadowTexture,
		Size: ir.ArraySize{Constant: u32Ptr(8)},
	}})
	tGlobals := m.Types.Append(ir.Type{Name: "Globals", Inner: ir.StructType{
		Members: []ir.StructMember{
			{Name: "view_proj", Type: tMat4, Offset: 0},
			{Name: "num_lights", Type: tU32, Offset: 64},
		},
		Span: 80,
	}})

	// 0.005f
	cShadowBias := m.Constants.Append(ir.Constant{Name: "shadow_bias", Value: ir.ScalarValue{Bits: 0x3ba3d70a, Kind: ir.ScalarFloat, Width: 4}})
	cMaxLights := m.Constants.Append(ir.Constant{Name: "max_lights", Value: ir.ScalarValue{Bits: 10, Kind: ir.ScalarUint, Width: 4}})
	cZeroU := m.Constants.Append(ir.Constant{Value: ir.ScalarValue{Bits: 0, Kind: ir.ScalarUint, Width: 4}})

	gGlobals := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "u_globals",
		Space:   ir.SpaceUniform,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 0},
		Type:    tGlobals,
	})
	gLights := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "s_lights",
		Space:   ir.SpaceStorage,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 1},
		Type:    tLights,
	})
	gShadow := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "t_shadow",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 2},
		Type:    tShadowTexture,
	})
	gShadowSampler := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "sampler_shadow",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 3},
		Type:    tComparisonSampler,
	})
	gMsaa := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "t_resolve",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 4},
		Type:    tMsaaTexture,
	})
	gShadowMaps := m.GlobalVariables.Append(ir.GlobalVariable{
		Name:    "t_shadow_maps",
		Space:   ir.SpaceHandle,
		Binding: &ir.ResourceBinding{Group: 0, Binding: 5},
		Type:    tShadowMaps,
	})

	fetch := ir.Function{
		Name: "fetch_shadow",
		Arguments: []ir.FunctionArgument{
			{Name: "light_id", Type: tU32},
			{Name: "homogeneous_coords", Type: tVec4F},
		},
		Result: &ir.FunctionResult{Type: tF32},
	}
	eLightID := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eCoords := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 1}})
	eZeroF := fetch.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0)}})
	eW := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eCoords, Index: 3}})
	eBehind := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryLessEqual, Left: eW, Right: eZeroF}})
	eFallback := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprZeroValue{Type: tF32}})
	eHalf := fetch.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(0.5)}})
	eXY := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprSwizzle{
		Size:    ir.Vec2,
		Vector:  eCoords,
		Pattern: [4]ir.SwizzleComponent{ir.SwizzleX, ir.SwizzleY},
	}})
	eWSpread := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec2, Value: eW}})
	eProj := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryDivide, Left: eXY, Right: eWSpread}})
	eHalfSpread := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec2, Value: eHalf}})
	eScaledUV := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryMultiply, Left: eProj, Right: eHalfSpread}})
	eUV := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: eScaledUV, Right: eHalfSpread}})
	eShadowMap := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gShadow}})
	eShadowSampler := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gShadowSampler}})
	eLayer := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprAs{Expr: eLightID, Kind: ir.ScalarSint, Convert: widthPtr(4)}})
	eZ := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eCoords, Index: 2}})
	eDepth := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryDivide, Left: eZ, Right: eW}})
	eBias := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprConstant{Constant: cShadowBias}})
	eRef := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinarySubtract, Left: eDepth, Right: eBias}})
	eSample := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprImageSample{
		Image:      eShadowMap,
		Sampler:    eShadowSampler,
		Coordinate: eUV,
		ArrayIndex: exprPtr(eLayer),
		Level:      ir.SampleLevelZero{},
		DepthRef:   exprPtr(eRef),
	}})
	eResult := fetch.Expressions.Append(ir.Expression{Kind: ir.ExprSelect{Condition: eBehind, Accept: eFallback, Reject: eSample}})
	fetch.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eW, End: eBehind + 1}}},
		{Kind: ir.StmtIf{
			Condition: eBehind,
			Accept:    ir.Block{{Kind: ir.StmtReturn{Value: exprPtr(eFallback)}}},
		}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eXY, End: eUV + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eLayer, End: eDepth + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eRef, End: eRef + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eSample, End: eResult + 1}}},
		{Kind: ir.StmtReturn{Value: exprPtr(eResult)}},
	}
	fnFetch := m.Functions.Append(fetch)

	fsMain := ir.Function{
		Name: "fs_main",
		Arguments: []ir.FunctionArgument{
			{Name: "position", Type: tVec4F, Binding: binding(ir.LocationBinding{Location: 0})},
			{Name: "normal", Type: tVec3F, Binding: binding(ir.LocationBinding{Location: 1})},
		},
		Result: &ir.FunctionResult{Type: tVec4F, Binding: binding(ir.LocationBinding{Location: 0})},
	}
	lColor := fsMain.LocalVariables.Append(ir.LocalVariable{Name: "color", Type: tVec3F})
	lIndex := fsMain.LocalVariables.Append(ir.LocalVariable{Name: "i", Type: tU32, Init: constPtr(cZeroU)})

	eNormalArg := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 1}})
	eNegated := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprUnary{Op: ir.UnaryNegate, Expr: eNormalArg}})
	eNormal := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprMath{Fun: ir.MathNormalize, Arg: eNegated}})
	eSlope := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprDerivative{
		Axis:    ir.DerivativeX,
		Control: ir.DerivativeCoarse,
		Expr:    eNormal,
	}})
	eNan := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprRelational{Fun: ir.RelationalIsNan, Argument: eSlope}})
	eDegenerate := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprRelational{Fun: ir.RelationalAll, Argument: eNan}})
	eMsaa := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gMsaa}})
	eZeroI := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralI32(0)}})
	eTexel := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCompose{
		Type:       tVec2I,
		Components: []ir.ExpressionHandle{eZeroI, eZeroI},
	}})
	eResolved := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprImageLoad{
		Image:      eMsaa,
		Coordinate: eTexel,
		Sample:     exprPtr(eZeroI),
	}})
	eShadowRef := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gShadow}})
	eLayerCount := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprImageQuery{
		Image: eShadowRef,
		Query: ir.ImageQueryNumLayers{},
	}})
	eZeroLod := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralU32(0)}})
	eShadowSize := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprImageQuery{
		Image: eShadowRef,
		Query: ir.ImageQuerySize{Level: exprPtr(eZeroLod)},
	}})
	eInit := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprZeroValue{Type: tVec3F}})
	eColorPtr := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLocalVariable{Variable: lColor}})
	eIndexPtr := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLocalVariable{Variable: lIndex}})
	eGlobals := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gGlobals}})
	eMax := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprConstant{Constant: cMaxLights}})
	eNumPtr := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eGlobals, Index: 1}})
	eNum := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eNumPtr}})
	eLimit := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprMath{Fun: ir.MathMin, Arg: eNum, Arg1: exprPtr(eMax)}})
	eLights := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gLights}})
	eMaps := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprGlobalVariable{Variable: gShadowMaps}})
	ePosArg := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprFunctionArgument{Index: 0}})
	eIndex := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eIndexPtr}})
	eDone := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryGreaterEqual, Left: eIndex, Right: eLimit}})
	eData := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eLights, Index: 0}})
	eLight := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccess{Base: eData, Index: eIndex}})
	eLightPosPtr := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccessIndex{Base: eLight, Index: 1}})
	eLightPos := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eLightPosPtr}})
	eDelta := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinarySubtract, Left: eLightPos, Right: ePosArg}})
	eMap := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprAccess{Base: eMaps, Index: eIndex}})
	eShadow := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCallResult{Function: fnFetch}})
	eContribution := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprSplat{Size: ir.Vec3, Value: eShadow}})
	eAccum := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eColorPtr}})
	eSum := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: eAccum, Right: eContribution}})
	eIndexAgain := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eIndexPtr}})
	eOneU := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralU32(1)}})
	eNext := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprBinary{Op: ir.BinaryAdd, Left: eIndexAgain, Right: eOneU}})
	eFinal := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprLoad{Pointer: eColorPtr}})
	eOneF := fsMain.Expressions.Append(ir.Expression{Kind: ir.Literal{Value: ir.LiteralF32(1)}})
	eOutput := fsMain.Expressions.Append(ir.Expression{Kind: ir.ExprCompose{
		Type:       tVec4F,
		Components: []ir.ExpressionHandle{eFinal, eOneF},
	}})

	fsMain.Body = ir.Block{
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eNegated, End: eDegenerate + 1}}},
		{Kind: ir.StmtIf{
			Condition: eDegenerate,
			Accept:    ir.Block{{Kind: ir.StmtKill{}}},
		}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eTexel, End: eResolved + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eLayerCount, End: eLayerCount + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eShadowSize, End: eShadowSize + 1}}},
		{Kind: ir.StmtStore{Pointer: eColorPtr, Value: eInit}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eNumPtr, End: eLimit + 1}}},
		{Kind: ir.StmtLoop{
			Body: ir.Block{
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eIndex, End: eDone + 1}}},
				{Kind: ir.StmtIf{
					Condition: eDone,
					Accept:    ir.Block{{Kind: ir.StmtBreak{}}},
				}},
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eData, End: eMap + 1}}},
				{Kind: ir.StmtCall{
					Function:  fnFetch,
					Arguments: []ir.ExpressionHandle{eIndex, eDelta},
					Result:    exprPtr(eShadow),
				}},
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eContribution, End: eSum + 1}}},
				{Kind: ir.StmtStore{Pointer: eColorPtr, Value: eSum}},
			},
			Continuing: ir.Block{
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eIndexAgain, End: eIndexAgain + 1}}},
				{Kind: ir.StmtEmit{Range: ir.Range{Start: eNext, End: eNext + 1}}},
				{Kind: ir.StmtStore{Pointer: eIndexPtr, Value: eNext}},
			},
		}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eFinal, End: eFinal + 1}}},
		{Kind: ir.StmtEmit{Range: ir.Range{Start: eOutput, End: eOutput + 1}}},
		{Kind: ir.StmtReturn{Value: exprPtr(eOutput)}},
	}
	m.EntryPoints = append(m.EntryPoints, ir.EntryPoint{
		Name:     "fs_main",
		Stage:    ir.StageFragment,
		Function: fsMain,
	})

	return m
}
