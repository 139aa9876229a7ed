package ir

// ElemKind identifies a tensor element type.
type ElemKind int

const (
	ElemInvalid ElemKind = iota
	ElemBool
	ElemInt32
	ElemInt64
	ElemFloat32
	ElemBFloat16
	ElemString
	ElemResource
	ElemVariant
)

var elemNames = map[ElemKind]string{
	ElemBool:     "bool",
	ElemInt32:    "i32",
	ElemInt64:    "i64",
	ElemFloat32:  "f32",
	ElemBFloat16: "bf16",
	ElemString:   "str",
	ElemResource: "resource",
	ElemVariant:  "variant",
}

var elemsByName = func() map[string]ElemKind {
	m := make(map[string]ElemKind, len(elemNames))
	for k, name := range elemNames {
		m[name] = k
	}
	return m
}()

func (e ElemKind) String() string {
	if name, ok := elemNames[e]; ok {
		return name
	}
	return "invalid"
}

// TensorType describes the element type of a value.
// Shape information is irrelevant to structural validation and is not
// modeled.
type TensorType struct {
	Elem ElemKind
}

// Convenience types for tests and builders.
var (
	Bool     = TensorType{ElemBool}
	I32      = TensorType{ElemInt32}
	I64      = TensorType{ElemInt64}
	F32      = TensorType{ElemFloat32}
	BF16     = TensorType{ElemBFloat16}
	Str      = TensorType{ElemString}
	Resource = TensorType{ElemResource}
	Variant  = TensorType{ElemVariant}
)

// ParseType maps a textual element type to a TensorType.
func ParseType(name string) (TensorType, bool) {
	e, ok := elemsByName[name]
	return TensorType{Elem: e}, ok
}

func (t TensorType) String() string { return t.Elem.String() }

// ValidForXLA reports whether the type can be accelerator-compiled.
// Strings, variants, and resource references cannot.
func (t TensorType) ValidForXLA() bool {
	switch t.Elem {
	case ElemString, ElemVariant, ElemResource, ElemInvalid:
		return false
	}
	return true
}

// IsResource reports whether the type is a resource reference.
// Resource operands are tolerated by accelerator compilation even
// though the type itself is not compilable.
func (t TensorType) IsResource() bool {
	return t.Elem == ElemResource
}
