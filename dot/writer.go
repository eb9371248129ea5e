// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dot

import (
	"fmt"
	"strings"

	"github.com/gogpu/shaderir/ir"
)

// Writer generates DOT source from IR.
type Writer struct {
	module  *ir.Module
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Statement counter for the function body currently being written
	stmtCount int
}

// newWriter creates a new DOT writer.
func newWriter(module *ir.Module, options *Options) *Writer {
	return &Writer{
		module:  module,
		options: options,
	}
}

// String returns the generated DOT source.
func (w *Writer) String() string {
	return w.out.String()
}

// line writes a single indented line.
func (w *Writer) line(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteByte('\t')
	}
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteByte('\n')
}

// labelEscaper makes arbitrary text safe inside a double-quoted DOT string.
var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (w *Writer) node(id, label string) {
	w.line(`%s [label="%s"];`, id, labelEscaper.Replace(label))
}

func (w *Writer) stmtNode(id, label string) {
	w.line(`%s [shape=ellipse, label="%s"];`, id, labelEscaper.Replace(label))
}

func (w *Writer) edge(from, to, role string) {
	w.line(`%s -> %s [label="%s"];`, from, to, labelEscaper.Replace(role))
}

// childEdge links a statement to a statement nested in one of its blocks.
func (w *Writer) childEdge(from, to, role string) {
	w.line(`%s -> %s [style=dotted, label="%s"];`, from, to, labelEscaper.Replace(role))
}

// Node identifiers. Handles are turned into ids without dereferencing them,
// which keeps the writer total over broken modules.

func typeNode(h ir.TypeHandle) string { return fmt.Sprintf("t%d", h.Ordinal()) }

func constantNode(h ir.ConstantHandle) string { return fmt.Sprintf("c%d", h.Ordinal()) }

func globalNode(h ir.GlobalVariableHandle) string { return fmt.Sprintf("g%d", h.Ordinal()) }

func functionNode(h ir.FunctionHandle) string { return fmt.Sprintf("fn%d", h.Ordinal()) }

func exprNode(prefix string, h ir.ExpressionHandle) string {
	return fmt.Sprintf("%s_e%d", prefix, h.Ordinal())
}

func localNode(prefix string, h ir.LocalVariableHandle) string {
	return fmt.Sprintf("%s_l%d", prefix, h.Ordinal())
}

func quoted(name string) string {
	return "'" + name + "'"
}

// writeModule writes the complete graph.
func (w *Writer) writeModule() error {
	w.line("digraph Module {")
	w.indent++
	w.line("rankdir=LR;")
	w.line(`node [shape=box, fontname="monospace"];`)

	if err := w.writeTypes(); err != nil {
		return err
	}
	if err := w.writeConstants(); err != nil {
		return err
	}
	w.writeGlobalVariables()
	w.writeFunctionArena()
	for h, fn := range w.module.Functions.Iter() {
		title := "Function"
		if fn.Name != "" {
			title += " " + quoted(fn.Name)
		}
		if err := w.writeFunctionBody(functionNode(h), title, fn); err != nil {
			return err
		}
	}
	if err := w.writeEntryPoints(); err != nil {
		return err
	}

	w.indent--
	w.line("}")
	return nil
}

func (w *Writer) writeTypes() error {
	if w.module.Types.Len() == 0 {
		return nil
	}
	w.line("subgraph cluster_types {")
	w.indent++
	w.line(`label="Types";`)
	for h, ty := range w.module.Types.Iter() {
		var kind string
		switch ty.Inner.(type) {
		case ir.ScalarType:
			kind = "Scalar"
		case ir.VectorType:
			kind = "Vector"
		case ir.MatrixType:
			kind = "Matrix"
		case ir.PointerType:
			kind = "Pointer"
		case ir.ValuePointerType:
			kind = "ValuePointer"
		case ir.ArrayType:
			kind = "Array"
		case ir.StructType:
			kind = "Struct"
		case ir.ImageType:
			kind = "Image"
		case ir.SamplerType:
			kind = "Sampler"
		case ir.AtomicType:
			kind = "Atomic"
		case ir.BindingArrayType:
			kind = "BindingArray"
		default:
			return fmt.Errorf("unsupported type %T", ty.Inner)
		}

		id := typeNode(h)
		label := h.String() + " " + kind
		if ty.Name != "" {
			label += " " + quoted(ty.Name)
		}
		w.node(id, label)

		switch inner := ty.Inner.(type) {
		case ir.PointerType:
			w.edge(id, typeNode(inner.Base), "base")
		case ir.ArrayType:
			w.edge(id, typeNode(inner.Base), "base")
		case ir.BindingArrayType:
			w.edge(id, typeNode(inner.Base), "base")
		case ir.StructType:
			for _, member := range inner.Members {
				w.edge(id, typeNode(member.Type), "member "+quoted(member.Name))
			}
		}
	}
	w.indent--
	w.line("}")
	return nil
}

func (w *Writer) writeConstants() error {
	if w.module.Constants.Len() == 0 {
		return nil
	}
	w.line("subgraph cluster_constants {")
	w.indent++
	w.line(`label="Constants";`)
	for h, c := range w.module.Constants.Iter() {
		var kind string
		switch c.Value.(type) {
		case ir.ScalarValue:
			kind = "Scalar"
		case ir.CompositeValue:
			kind = "Composite"
		default:
			return fmt.Errorf("unsupported constant %T", c.Value)
		}

		id := constantNode(h)
		label := h.String() + " " + kind
		if c.Name != "" {
			label += " " + quoted(c.Name)
		}
		w.node(id, label)

		if composite, ok := c.Value.(ir.CompositeValue); ok {
			w.edge(id, typeNode(composite.Type), "type")
			for _, component := range composite.Components {
				w.edge(id, constantNode(component), "component")
			}
		}
	}
	w.indent--
	w.line("}")
	return nil
}

func (w *Writer) writeGlobalVariables() {
	if w.module.GlobalVariables.Len() == 0 {
		return
	}
	w.line("subgraph cluster_globals {")
	w.indent++
	w.line(`label="Global variables";`)
	for h, gv := range w.module.GlobalVariables.Iter() {
		id := globalNode(h)
		label := h.String()
		if gv.Name != "" {
			label += " " + quoted(gv.Name)
		}
		w.node(id, label)
		w.edge(id, typeNode(gv.Type), "type")
		if gv.Init != nil {
			w.edge(id, constantNode(*gv.Init), "init")
		}
	}
	w.indent--
	w.line("}")
}

// writeFunctionArena writes the arena view of the functions: one node per
// function with its signature edges. Bodies follow in their own clusters.
func (w *Writer) writeFunctionArena() {
	if w.module.Functions.Len() == 0 {
		return
	}
	w.line("subgraph cluster_functions {")
	w.indent++
	w.line(`label="Functions";`)
	for h, fn := range w.module.Functions.Iter() {
		id := functionNode(h)
		label := h.String()
		if fn.Name != "" {
			label += " " + quoted(fn.Name)
		}
		w.node(id, label)
		w.writeSignature(id, fn)
	}
	w.indent--
	w.line("}")
}

func (w *Writer) writeSignature(id string, fn *ir.Function) {
	for i := range fn.Arguments {
		arg := &fn.Arguments[i]
		role := "arg"
		if arg.Name != "" {
			role += " " + quoted(arg.Name)
		}
		w.edge(id, typeNode(arg.Type), role)
	}
	if fn.Result != nil {
		w.edge(id, typeNode(fn.Result.Type), "result")
	}
}

func (w *Writer) writeEntryPoints() error {
	if len(w.module.EntryPoints) == 0 {
		return nil
	}
	w.line("subgraph cluster_entry_points {")
	w.indent++
	w.line(`label="Entry points";`)
	for i := range w.module.EntryPoints {
		ep := &w.module.EntryPoints[i]
		id := fmt.Sprintf("ep%d", i+1)
		label := quoted(ep.Name) + " (" + stageName(ep.Stage) + ")"
		w.node(id, label)
		w.writeSignature(id, &ep.Function)
	}
	w.indent--
	w.line("}")

	for i := range w.module.EntryPoints {
		ep := &w.module.EntryPoints[i]
		title := "EntryPoint"
		if ep.Name != "" {
			title += " " + quoted(ep.Name)
		}
		prefix := fmt.Sprintf("ep%d", i+1)
		if err := w.writeFunctionBody(prefix, title, &ep.Function); err != nil {
			return err
		}
	}
	return nil
}

// writeFunctionBody writes the cluster holding a function's local variables,
// expressions, and optionally its statement tree.
func (w *Writer) writeFunctionBody(prefix, title string, fn *ir.Function) error {
	statements := w.options.Statements && len(fn.Body) > 0
	if fn.LocalVariables.Len() == 0 && fn.Expressions.Len() == 0 && !statements {
		return nil
	}

	w.line("subgraph cluster_%s {", prefix)
	w.indent++
	w.line(`label="%s";`, labelEscaper.Replace(title))

	for h, lv := range fn.LocalVariables.Iter() {
		id := localNode(prefix, h)
		label := h.String() + " Local"
		if lv.Name != "" {
			label += " " + quoted(lv.Name)
		}
		w.node(id, label)
		w.edge(id, typeNode(lv.Type), "type")
		if lv.Init != nil {
			w.edge(id, constantNode(*lv.Init), "init")
		}
	}

	for h, expr := range fn.Expressions.Iter() {
		if err := w.writeExpression(prefix, h, expr); err != nil {
			return err
		}
	}

	if statements {
		w.stmtCount = 0
		if err := w.writeBlock(prefix, "", "", fn.Body); err != nil {
			return err
		}
	}

	w.indent--
	w.line("}")
	return nil
}

func (w *Writer) writeExpression(prefix string, h ir.ExpressionHandle, expr *ir.Expression) error {
	id := exprNode(prefix, h)
	head := h.String() + " "

	switch k := expr.Kind.(type) {
	case ir.Literal:
		w.node(id, head+"Literal "+literalLabel(k.Value))
	case ir.ExprConstant:
		w.node(id, head+"Constant")
		w.edge(id, constantNode(k.Constant), "constant")
	case ir.ExprZeroValue:
		w.node(id, head+"ZeroValue")
		w.edge(id, typeNode(k.Type), "type")
	case ir.ExprCompose:
		w.node(id, head+"Compose")
		w.edge(id, typeNode(k.Type), "type")
		for _, component := range k.Components {
			w.edge(id, exprNode(prefix, component), "component")
		}
	case ir.ExprAccess:
		w.node(id, head+"Access")
		w.edge(id, exprNode(prefix, k.Base), "base")
		w.edge(id, exprNode(prefix, k.Index), "index")
	case ir.ExprAccessIndex:
		w.node(id, fmt.Sprintf("%sAccessIndex[%d]", head, k.Index))
		w.edge(id, exprNode(prefix, k.Base), "base")
	case ir.ExprSplat:
		w.node(id, head+"Splat")
		w.edge(id, exprNode(prefix, k.Value), "value")
	case ir.ExprSwizzle:
		w.node(id, head+"Swizzle ."+swizzlePattern(k.Size, k.Pattern))
		w.edge(id, exprNode(prefix, k.Vector), "vector")
	case ir.ExprFunctionArgument:
		w.node(id, fmt.Sprintf("%sFunctionArgument[%d]", head, k.Index))
	case ir.ExprGlobalVariable:
		w.node(id, head+"GlobalVariable")
		w.edge(id, globalNode(k.Variable), "variable")
	case ir.ExprLocalVariable:
		w.node(id, head+"LocalVariable")
		w.edge(id, localNode(prefix, k.Variable), "variable")
	case ir.ExprLoad:
		w.node(id, head+"Load")
		w.edge(id, exprNode(prefix, k.Pointer), "pointee")
	case ir.ExprImageSample:
		label := head + "ImageSample"
		if k.Gather != nil {
			label += " gather"
		}
		w.node(id, label)
		w.edge(id, exprNode(prefix, k.Image), "image")
		w.edge(id, exprNode(prefix, k.Sampler), "sampler")
		w.edge(id, exprNode(prefix, k.Coordinate), "coordinate")
		if k.ArrayIndex != nil {
			w.edge(id, exprNode(prefix, *k.ArrayIndex), "array index")
		}
		if k.Offset != nil {
			w.edge(id, constantNode(*k.Offset), "offset")
		}
		switch level := k.Level.(type) {
		case ir.SampleLevelAuto, ir.SampleLevelZero:
		case ir.SampleLevelExact:
			w.edge(id, exprNode(prefix, level.Level), "level")
		case ir.SampleLevelBias:
			w.edge(id, exprNode(prefix, level.Bias), "bias")
		case ir.SampleLevelGradient:
			w.edge(id, exprNode(prefix, level.X), "grad x")
			w.edge(id, exprNode(prefix, level.Y), "grad y")
		default:
			return fmt.Errorf("unsupported sample level %T", k.Level)
		}
		if k.DepthRef != nil {
			w.edge(id, exprNode(prefix, *k.DepthRef), "depth ref")
		}
	case ir.ExprImageLoad:
		w.node(id, head+"ImageLoad")
		w.edge(id, exprNode(prefix, k.Image), "image")
		w.edge(id, exprNode(prefix, k.Coordinate), "coordinate")
		if k.ArrayIndex != nil {
			w.edge(id, exprNode(prefix, *k.ArrayIndex), "array index")
		}
		if k.Sample != nil {
			w.edge(id, exprNode(prefix, *k.Sample), "sample")
		}
		if k.Level != nil {
			w.edge(id, exprNode(prefix, *k.Level), "level")
		}
	case ir.ExprImageQuery:
		var query string
		switch k.Query.(type) {
		case ir.ImageQuerySize:
			query = "size"
		case ir.ImageQueryNumLevels:
			query = "levels"
		case ir.ImageQueryNumLayers:
			query = "layers"
		case ir.ImageQueryNumSamples:
			query = "samples"
		default:
			return fmt.Errorf("unsupported image query %T", k.Query)
		}
		w.node(id, head+"ImageQuery "+query)
		w.edge(id, exprNode(prefix, k.Image), "image")
		if size, ok := k.Query.(ir.ImageQuerySize); ok && size.Level != nil {
			w.edge(id, exprNode(prefix, *size.Level), "level")
		}
	case ir.ExprUnary:
		w.node(id, head+"Unary "+unaryOpToken(k.Op))
		w.edge(id, exprNode(prefix, k.Expr), "operand")
	case ir.ExprBinary:
		w.node(id, head+"Binary "+binaryOpToken(k.Op))
		w.edge(id, exprNode(prefix, k.Left), "left")
		w.edge(id, exprNode(prefix, k.Right), "right")
	case ir.ExprSelect:
		w.node(id, head+"Select")
		w.edge(id, exprNode(prefix, k.Condition), "condition")
		w.edge(id, exprNode(prefix, k.Accept), "accept")
		w.edge(id, exprNode(prefix, k.Reject), "reject")
	case ir.ExprDerivative:
		w.node(id, head+"Derivative "+derivativeAxisName(k.Axis))
		w.edge(id, exprNode(prefix, k.Expr), "argument")
	case ir.ExprRelational:
		w.node(id, head+"Relational "+relationalName(k.Fun))
		w.edge(id, exprNode(prefix, k.Argument), "argument")
	case ir.ExprMath:
		w.node(id, head+"Math")
		w.edge(id, exprNode(prefix, k.Arg), "arg")
		if k.Arg1 != nil {
			w.edge(id, exprNode(prefix, *k.Arg1), "arg1")
		}
		if k.Arg2 != nil {
			w.edge(id, exprNode(prefix, *k.Arg2), "arg2")
		}
		if k.Arg3 != nil {
			w.edge(id, exprNode(prefix, *k.Arg3), "arg3")
		}
	case ir.ExprAs:
		w.node(id, head+"As "+scalarKindName(k.Kind))
		w.edge(id, exprNode(prefix, k.Expr), "input")
	case ir.ExprCallResult:
		w.node(id, head+"CallResult")
		w.edge(id, functionNode(k.Function), "function")
	case ir.ExprArrayLength:
		w.node(id, head+"ArrayLength")
		w.edge(id, exprNode(prefix, k.Array), "array")
	case ir.ExprAtomicResult:
		w.node(id, head+"AtomicResult")
	default:
		return fmt.Errorf("unsupported expression %T", expr.Kind)
	}
	return nil
}

// writeBlock writes every statement of a block. When parent is set, each
// statement is linked to it with a dotted edge labeled by the block's role.
func (w *Writer) writeBlock(prefix, parent, role string, block ir.Block) error {
	for i := range block {
		if err := w.writeStatement(prefix, parent, role, &block[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeStatement(prefix, parent, role string, stmt *ir.Statement) error {
	w.stmtCount++
	id := fmt.Sprintf("%s_s%d", prefix, w.stmtCount)

	emit := func(label string) {
		w.stmtNode(id, label)
		if parent != "" {
			w.childEdge(parent, id, role)
		}
	}

	switch k := stmt.Kind.(type) {
	case ir.StmtEmit:
		emit(fmt.Sprintf("Emit [%d, %d)", k.Range.Start.Ordinal(), k.Range.End.Ordinal()))
	case ir.StmtBlock:
		emit("Block")
		return w.writeBlock(prefix, id, "block", k.Block)
	case ir.StmtIf:
		emit("If")
		w.edge(id, exprNode(prefix, k.Condition), "condition")
		if err := w.writeBlock(prefix, id, "accept", k.Accept); err != nil {
			return err
		}
		return w.writeBlock(prefix, id, "reject", k.Reject)
	case ir.StmtSwitch:
		emit("Switch")
		w.edge(id, exprNode(prefix, k.Selector), "selector")
		for i := range k.Cases {
			if err := w.writeBlock(prefix, id, "case", k.Cases[i].Body); err != nil {
				return err
			}
		}
	case ir.StmtLoop:
		emit("Loop")
		if k.BreakIf != nil {
			w.edge(id, exprNode(prefix, *k.BreakIf), "break if")
		}
		if err := w.writeBlock(prefix, id, "body", k.Body); err != nil {
			return err
		}
		return w.writeBlock(prefix, id, "continuing", k.Continuing)
	case ir.StmtBreak:
		emit("Break")
	case ir.StmtContinue:
		emit("Continue")
	case ir.StmtReturn:
		emit("Return")
		if k.Value != nil {
			w.edge(id, exprNode(prefix, *k.Value), "value")
		}
	case ir.StmtKill:
		emit("Kill")
	case ir.StmtBarrier:
		emit("Barrier")
	case ir.StmtStore:
		emit("Store")
		w.edge(id, exprNode(prefix, k.Pointer), "pointer")
		w.edge(id, exprNode(prefix, k.Value), "value")
	case ir.StmtImageStore:
		emit("ImageStore")
		w.edge(id, exprNode(prefix, k.Image), "image")
		w.edge(id, exprNode(prefix, k.Coordinate), "coordinate")
		if k.ArrayIndex != nil {
			w.edge(id, exprNode(prefix, *k.ArrayIndex), "array index")
		}
		w.edge(id, exprNode(prefix, k.Value), "value")
	case ir.StmtAtomic:
		emit("Atomic")
		w.edge(id, exprNode(prefix, k.Pointer), "pointer")
		w.edge(id, exprNode(prefix, k.Value), "value")
		if exchange, ok := k.Fun.(ir.AtomicExchange); ok && exchange.Compare != nil {
			w.edge(id, exprNode(prefix, *exchange.Compare), "compare")
		}
		if k.Result != nil {
			w.edge(id, exprNode(prefix, *k.Result), "result")
		}
	case ir.StmtWorkGroupUniformLoad:
		emit("WorkGroupUniformLoad")
		w.edge(id, exprNode(prefix, k.Pointer), "pointer")
		w.edge(id, exprNode(prefix, k.Result), "result")
	case ir.StmtCall:
		emit("Call")
		w.edge(id, functionNode(k.Function), "function")
		for _, arg := range k.Arguments {
			w.edge(id, exprNode(prefix, arg), "argument")
		}
		if k.Result != nil {
			w.edge(id, exprNode(prefix, *k.Result), "result")
		}
	case ir.StmtRayQuery:
		emit("RayQuery")
		w.edge(id, exprNode(prefix, k.Query), "query")
		switch fun := k.Fun.(type) {
		case ir.RayQueryInitialize:
			w.edge(id, exprNode(prefix, fun.AccelerationStructure), "acceleration structure")
			w.edge(id, exprNode(prefix, fun.Descriptor), "descriptor")
		case ir.RayQueryProceed:
			w.edge(id, exprNode(prefix, fun.Result), "result")
		}
	default:
		return fmt.Errorf("unsupported statement %T", stmt.Kind)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Label helpers
// ---------------------------------------------------------------------------

func literalLabel(v ir.LiteralValue) string {
	switch lit := v.(type) {
	case ir.LiteralF64:
		return fmt.Sprintf("f64(%v)", float64(lit))
	case ir.LiteralF32:
		return fmt.Sprintf("f32(%v)", float32(lit))
	case ir.LiteralU32:
		return fmt.Sprintf("u32(%d)", uint32(lit))
	case ir.LiteralI32:
		return fmt.Sprintf("i32(%d)", int32(lit))
	case ir.LiteralU64:
		return fmt.Sprintf("u64(%d)", uint64(lit))
	case ir.LiteralI64:
		return fmt.Sprintf("i64(%d)", int64(lit))
	case ir.LiteralBool:
		return fmt.Sprintf("bool(%t)", bool(lit))
	case ir.LiteralAbstractInt:
		return fmt.Sprintf("abstract_int(%d)", int64(lit))
	case ir.LiteralAbstractFloat:
		return fmt.Sprintf("abstract_float(%v)", float64(lit))
	default:
		return "?"
	}
}

func swizzlePattern(size ir.VectorSize, pattern [4]ir.SwizzleComponent) string {
	const letters = "xyzw"
	n := int(size)
	if n > len(pattern) {
		n = len(pattern)
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if c := int(pattern[i]); c < len(letters) {
			sb.WriteByte(letters[c])
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

func unaryOpToken(op ir.UnaryOperator) string {
	switch op {
	case ir.UnaryNegate:
		return "-"
	case ir.UnaryLogicalNot:
		return "!"
	case ir.UnaryBitwiseNot:
		return "~"
	default:
		return "?"
	}
}

func binaryOpToken(op ir.BinaryOperator) string {
	switch op {
	case ir.BinaryAdd:
		return "+"
	case ir.BinarySubtract:
		return "-"
	case ir.BinaryMultiply:
		return "*"
	case ir.BinaryDivide:
		return "/"
	case ir.BinaryModulo:
		return "%"
	case ir.BinaryEqual:
		return "=="
	case ir.BinaryNotEqual:
		return "!="
	case ir.BinaryLess:
		return "<"
	case ir.BinaryLessEqual:
		return "<="
	case ir.BinaryGreater:
		return ">"
	case ir.BinaryGreaterEqual:
		return ">="
	case ir.BinaryAnd:
		return "&"
	case ir.BinaryExclusiveOr:
		return "^"
	case ir.BinaryInclusiveOr:
		return "|"
	case ir.BinaryLogicalAnd:
		return "&&"
	case ir.BinaryLogicalOr:
		return "||"
	case ir.BinaryShiftLeft:
		return "<<"
	case ir.BinaryShiftRight:
		return ">>"
	default:
		return "?"
	}
}

func derivativeAxisName(axis ir.DerivativeAxis) string {
	switch axis {
	case ir.DerivativeX:
		return "dx"
	case ir.DerivativeY:
		return "dy"
	case ir.DerivativeWidth:
		return "fwidth"
	default:
		return "?"
	}
}

func relationalName(fun ir.RelationalFunction) string {
	switch fun {
	case ir.RelationalAll:
		return "all"
	case ir.RelationalAny:
		return "any"
	case ir.RelationalIsNan:
		return "isnan"
	case ir.RelationalIsInf:
		return "isinf"
	default:
		return "?"
	}
}

func scalarKindName(kind ir.ScalarKind) string {
	switch kind {
	case ir.ScalarSint:
		return "sint"
	case ir.ScalarUint:
		return "uint"
	case ir.ScalarFloat:
		return "float"
	case ir.ScalarBool:
		return "bool"
	default:
		return "?"
	}
}

func stageName(stage ir.ShaderStage) string {
	switch stage {
	case ir.StageVertex:
		return "vertex"
	case ir.StageFragment:
		return "fragment"
	case ir.StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}
