package gdgen

import (
	"strconv"
	"strings"

	"gdflat/pkg/schemas"
)

// KindInfo is everything the emitters need to know about one type tag.
type KindInfo struct {
	Decode string // PackedByteArray decode_/encode_ suffix, "" if not inline
	Encode string // FlatBufferBuilder add_element_/create_vector_ suffix
	Width  int    // byte width on the wire (offset width for indirect kinds)
	Signed bool   // two's complement or floating point
	GDType string // GDScript spelling of a decoded value

	// Bulk vector access: the packed array returned, and the
	// PackedByteArray method reinterpreting a byte run as that array.
	// Convert is "slice" when the run is returned as is, and "" when
	// elements have to be decoded one by one.
	Packed  string
	Convert string
}

const convertSlice = "slice"

// kinds is the single table keyed on the closed tag set. Widths follow
// the wire format; indirect kinds report the width of their offset.
var kinds = map[schemas.BaseType]KindInfo{
	schemas.BaseTypeNone:     {Decode: "u8", Encode: "u8", Width: 1, GDType: "int", Packed: "PackedByteArray", Convert: convertSlice},
	schemas.BaseTypeUType:    {Decode: "u8", Encode: "u8", Width: 1, GDType: "int", Packed: "PackedByteArray", Convert: convertSlice},
	schemas.BaseTypeBool:     {Decode: "u8", Encode: "bool", Width: 1, GDType: "bool", Packed: "Array"},
	schemas.BaseTypeByte:     {Decode: "s8", Encode: "s8", Width: 1, GDType: "int", Packed: "PackedInt32Array", Signed: true},
	schemas.BaseTypeUByte:    {Decode: "u8", Encode: "u8", Width: 1, GDType: "int", Packed: "PackedByteArray", Convert: convertSlice},
	schemas.BaseTypeShort:    {Decode: "s16", Encode: "s16", Width: 2, GDType: "int", Packed: "PackedInt32Array", Signed: true},
	schemas.BaseTypeUShort:   {Decode: "u16", Encode: "u16", Width: 2, GDType: "int", Packed: "PackedInt32Array"},
	schemas.BaseTypeInt:      {Decode: "s32", Encode: "s32", Width: 4, GDType: "int", Packed: "PackedInt32Array", Convert: "to_int32_array", Signed: true},
	schemas.BaseTypeUInt:     {Decode: "u32", Encode: "u32", Width: 4, GDType: "int", Packed: "PackedInt64Array"},
	schemas.BaseTypeLong:     {Decode: "s64", Encode: "s64", Width: 8, GDType: "int", Packed: "PackedInt64Array", Convert: "to_int64_array", Signed: true},
	schemas.BaseTypeULong:    {Decode: "u64", Encode: "u64", Width: 8, GDType: "int", Packed: "PackedInt64Array", Convert: "to_int64_array"},
	schemas.BaseTypeFloat:    {Decode: "float", Encode: "float", Width: 4, GDType: "float", Packed: "PackedFloat32Array", Convert: "to_float32_array", Signed: true},
	schemas.BaseTypeDouble:   {Decode: "double", Encode: "double", Width: 8, GDType: "float", Packed: "PackedFloat64Array", Convert: "to_float64_array", Signed: true},
	schemas.BaseTypeString:   {Decode: "u32", Width: 4, GDType: "String", Packed: "PackedStringArray"},
	schemas.BaseTypeVector:   {Decode: "u32", Width: 4, GDType: "Array"},
	schemas.BaseTypeVector64: {Decode: "u64", Width: 8, GDType: "Array"},
	schemas.BaseTypeStruct:   {Width: 4, GDType: "Object"},
	schemas.BaseTypeUnion:    {Decode: "u32", Width: 4, GDType: "Object"},
	schemas.BaseTypeArray:    {Width: 0, GDType: "Array"},
}

// Kind returns the table entry for a tag. ok is false for a tag outside
// the table, which callers report as a diagnostic.
func Kind(bt schemas.BaseType) (KindInfo, bool) {
	info, ok := kinds[bt]
	return info, ok
}

// Shape is the semantic reading of a type, computed once per field so
// emitters branch on meaning instead of on tag values.
type Shape struct {
	Type *schemas.Type
	Info KindInfo

	IsScalar bool // inline number, including enums and union discriminants
	IsEnum   bool // scalar backed by a (union) enum definition
	IsString bool
	IsStruct bool // fixed struct stored inline
	IsTable  bool // table stored behind an offset
	IsUnion  bool // union payload offset
	IsSeries bool // vector, vector64 or fixed array

	Element *schemas.Type // element type of a series
}

// Classify computes the shape of t. ok is false for unmapped tags and for
// references the parser left unresolved.
func Classify(t *schemas.Type) (Shape, bool) {
	if t == nil {
		return Shape{}, false
	}
	info, ok := Kind(t.BaseType)
	if !ok {
		return Shape{Type: t}, false
	}
	s := Shape{Type: t, Info: info}
	switch {
	case t.BaseType.IsScalar():
		s.IsScalar = true
		s.IsEnum = t.EnumDef != nil
		if t.BaseType == schemas.BaseTypeUType && t.EnumDef == nil {
			return s, false
		}
	case t.BaseType == schemas.BaseTypeString:
		s.IsString = true
	case t.BaseType == schemas.BaseTypeStruct:
		if t.StructDef == nil {
			return s, false
		}
		s.IsStruct = t.StructDef.Fixed
		s.IsTable = !t.StructDef.Fixed
	case t.BaseType == schemas.BaseTypeUnion:
		if t.EnumDef == nil {
			return s, false
		}
		s.IsUnion = true
	case t.BaseType.IsVector(), t.BaseType == schemas.BaseTypeArray:
		if t.Element == nil {
			return s, false
		}
		s.IsSeries = true
		s.Element = t.Element
	default:
		return s, false
	}
	return s, true
}

// IsIndirect reports whether the value lives behind a relative offset.
func (s Shape) IsIndirect() bool {
	return s.IsString || s.IsTable || s.IsUnion || (s.IsSeries && s.Type.BaseType.IsVector())
}

// InlineSize is the number of bytes a value of t occupies where it is
// stored: the struct size for inline structs, the tag width otherwise.
func InlineSize(t *schemas.Type) int {
	if t.BaseType == schemas.BaseTypeStruct && t.StructDef != nil && t.StructDef.Fixed {
		return t.StructDef.ByteSize
	}
	if t.BaseType == schemas.BaseTypeArray && t.Element != nil {
		return InlineSize(t.Element) * t.FixedLength
	}
	info, _ := Kind(t.BaseType)
	return info.Width
}

// DefaultLiteral spells a declared scalar default as a GDScript literal.
func DefaultLiteral(bt schemas.BaseType, text string) string {
	text = strings.TrimSpace(text)
	switch {
	case bt == schemas.BaseTypeBool:
		switch strings.ToLower(text) {
		case "", "0", "false":
			return "false"
		}
		return "true"
	case bt.IsFloat():
		switch strings.ToLower(text) {
		case "":
			return "0.0"
		case "nan", "+nan", "-nan":
			return "NAN"
		case "inf", "+inf", "infinity", "+infinity":
			return "INF"
		case "-inf", "-infinity":
			return "-INF"
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			lit := strconv.FormatFloat(f, 'g', -1, 64)
			if !strings.ContainsAny(lit, ".eE") {
				lit += ".0"
			}
			return lit
		}
		return text
	default:
		if text == "" {
			return "0"
		}
		if strings.ContainsAny(text, ".eE") {
			// integral defaults written as 1.0 by some parsers
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				return strconv.FormatInt(int64(f), 10)
			}
		}
		return text
	}
}
