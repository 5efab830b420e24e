package schemas

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/thorn-jmh/errorst"
)

// BaseType is the closed set of type tags a schema field can carry.
type BaseType int

const (
	BaseTypeNone BaseType = iota
	BaseTypeUType
	BaseTypeBool
	BaseTypeByte
	BaseTypeUByte
	BaseTypeShort
	BaseTypeUShort
	BaseTypeInt
	BaseTypeUInt
	BaseTypeLong
	BaseTypeULong
	BaseTypeFloat
	BaseTypeDouble
	BaseTypeString
	BaseTypeVector
	BaseTypeVector64
	BaseTypeStruct
	BaseTypeUnion
	BaseTypeArray
)

var baseTypeNames = [...]string{
	BaseTypeNone:     "none",
	BaseTypeUType:    "utype",
	BaseTypeBool:     "bool",
	BaseTypeByte:     "byte",
	BaseTypeUByte:    "ubyte",
	BaseTypeShort:    "short",
	BaseTypeUShort:   "ushort",
	BaseTypeInt:      "int",
	BaseTypeUInt:     "uint",
	BaseTypeLong:     "long",
	BaseTypeULong:    "ulong",
	BaseTypeFloat:    "float",
	BaseTypeDouble:   "double",
	BaseTypeString:   "string",
	BaseTypeVector:   "vector",
	BaseTypeVector64: "vector64",
	BaseTypeStruct:   "struct",
	BaseTypeUnion:    "union",
	BaseTypeArray:    "array",
}

// sized aliases accepted on input
var baseTypeAliases = map[string]BaseType{
	"int8":    BaseTypeByte,
	"uint8":   BaseTypeUByte,
	"int16":   BaseTypeShort,
	"uint16":  BaseTypeUShort,
	"int32":   BaseTypeInt,
	"uint32":  BaseTypeUInt,
	"int64":   BaseTypeLong,
	"uint64":  BaseTypeULong,
	"float32": BaseTypeFloat,
	"float64": BaseTypeDouble,
	"table":   BaseTypeStruct,
}

func (t BaseType) String() string {
	if t < 0 || int(t) >= len(baseTypeNames) {
		return "basetype(" + strconv.Itoa(int(t)) + ")"
	}
	return baseTypeNames[t]
}

// ParseBaseType maps a type name to its tag.
func ParseBaseType(name string) (BaseType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range baseTypeNames {
		if n == name {
			return BaseType(i), nil
		}
	}
	if t, ok := baseTypeAliases[name]; ok {
		return t, nil
	}
	return BaseTypeNone, errorst.Wrap(ErrUnknownBaseType, "base type <%s>", name)
}

// UnmarshalJSON implements json.Unmarshaler for BaseType.
func (t *BaseType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errorst.NewError("failed to unmarshal base type: %w", err)
	}
	parsed, err := ParseBaseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsScalar reports whether the tag is stored inline as a fixed-width number.
func (t BaseType) IsScalar() bool {
	return t >= BaseTypeUType && t <= BaseTypeDouble
}

// IsInteger reports whether the tag is an integral scalar.
func (t BaseType) IsInteger() bool {
	return t >= BaseTypeUType && t <= BaseTypeULong && t != BaseTypeBool
}

// IsFloat reports whether the tag is a floating point scalar.
func (t BaseType) IsFloat() bool {
	return t == BaseTypeFloat || t == BaseTypeDouble
}

// IsVector reports whether the tag is an offset-indirect vector.
func (t BaseType) IsVector() bool {
	return t == BaseTypeVector || t == BaseTypeVector64
}
