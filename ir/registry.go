package ir

import (
	"fmt"
	"strconv"

	"github.com/gogpu/shaderir/arena"
)

// TypeRegistry deduplicates structurally identical types while appending
// them to a module's type arena. Dedup preserves the arena's ordering
// guarantee: a type's dependencies always carry smaller ordinals, because
// callers must register them first to obtain their handles.
type TypeRegistry struct {
	types   *arena.Arena[Type]
	typeMap map[string]TypeHandle
	keyBuf  []byte // reusable buffer for building type keys
}

// NewTypeRegistry creates a registry that appends into types.
func NewTypeRegistry(types *arena.Arena[Type]) *TypeRegistry {
	return &TypeRegistry{
		types:   types,
		typeMap: make(map[string]TypeHandle, 16),
		keyBuf:  make([]byte, 0, 64),
	}
}

// GetOrCreate returns an existing handle for a structurally identical type,
// or appends a new type and returns its fresh handle.
func (r *TypeRegistry) GetOrCreate(name string, inner TypeInner) TypeHandle {
	return r.GetOrCreateWithSpan(name, inner, arena.Span{})
}

// GetOrCreateWithSpan is GetOrCreate with source span metadata for newly
// created types. The span of an existing type is left untouched.
func (r *TypeRegistry) GetOrCreateWithSpan(name string, inner TypeInner, span arena.Span) TypeHandle {
	key := r.normalizeType(inner)

	// Check if type already exists
	if handle, exists := r.typeMap[key]; exists {
		return handle
	}

	handle := r.types.AppendWithSpan(Type{
		Name:  name,
		Inner: inner,
	}, span)
	r.typeMap[key] = handle

	return handle
}

// normalizeType creates a unique key for a type based on its structure.
// Two structurally identical types will produce the same key.
// Uses a reusable byte buffer to avoid fmt.Sprintf allocations for common types.
func (r *TypeRegistry) normalizeType(inner TypeInner) string {
	b := r.keyBuf[:0]

	switch t := inner.(type) {
	case ScalarType:
		b = append(b, "scalar:"...)
		b = strconv.AppendInt(b, int64(t.Kind), 10)
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(t.Width), 10)
		r.keyBuf = b
		return string(b)

	case VectorType:
		// Recursive call clobbers keyBuf, so build with string concat.
		scalarKey := r.normalizeType(t.Scalar)
		return "vec:" + strconv.FormatUint(uint64(t.Size), 10) + ":" + scalarKey

	case MatrixType:
		scalarKey := r.normalizeType(t.Scalar)
		return "mat:" + strconv.FormatUint(uint64(t.Columns), 10) + "x" + strconv.FormatUint(uint64(t.Rows), 10) + ":" + scalarKey

	case ArrayType:
		var sizeKey string
		if t.Size.Constant != nil {
			sizeKey = strconv.FormatUint(uint64(*t.Size.Constant), 10)
		} else {
			sizeKey = "runtime"
		}
		return "array:" + strconv.FormatUint(uint64(t.Base.Ordinal()), 10) + ":" + sizeKey + ":" + strconv.FormatUint(uint64(t.Stride), 10)

	case StructType:
		// Structs use fmt.Sprintf since they're less frequent and more complex.
		key := fmt.Sprintf("struct:%d:%d", len(t.Members), t.Span)
		for _, member := range t.Members {
			key += fmt.Sprintf(":m(%s,%d,%d)", member.Name, member.Type.Ordinal(), member.Offset)
		}
		return key

	case PointerType:
		return "ptr:" + strconv.FormatUint(uint64(t.Base.Ordinal()), 10) + ":" + strconv.FormatInt(int64(t.Space), 10)

	case ValuePointerType:
		sizeKey := "scalar"
		if t.Size != nil {
			sizeKey = strconv.FormatUint(uint64(*t.Size), 10)
		}
		scalarKey := r.normalizeType(t.Scalar)
		return "vptr:" + sizeKey + ":" + scalarKey + ":" + strconv.FormatInt(int64(t.Space), 10)

	case SamplerType:
		if t.Comparison {
			return "sampler:true"
		}
		return "sampler:false"

	case ImageType:
		return fmt.Sprintf("image:%d:%v:%d:%v", t.Dim, t.Arrayed, t.Class, t.Multisampled)

	case BindingArrayType:
		var sizeKey string
		if t.Size.Constant != nil {
			sizeKey = strconv.FormatUint(uint64(*t.Size.Constant), 10)
		} else {
			sizeKey = "runtime"
		}
		return "bindarray:" + strconv.FormatUint(uint64(t.Base.Ordinal()), 10) + ":" + sizeKey

	case AtomicType:
		b = append(b, "atomic:"...)
		b = strconv.AppendInt(b, int64(t.Scalar.Kind), 10)
		b = append(b, ':')
		b = strconv.AppendUint(b, uint64(t.Scalar.Width), 10)
		r.keyBuf = b
		return string(b)

	default:
		return fmt.Sprintf("unknown:%T", inner)
	}
}

// Lookup finds a type by its handle.
func (r *TypeRegistry) Lookup(handle TypeHandle) (Type, bool) {
	t, err := r.types.TryGet(handle)
	if err != nil {
		return Type{}, false
	}
	return *t, true
}

// Count returns the number of unique types registered.
func (r *TypeRegistry) Count() int {
	return r.types.Len()
}
