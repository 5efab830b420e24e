package gdgen

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// NameStyle formats an identifier.
type NameStyle interface {
	Format(name string) string
}

type NameStyleFunc func(name string) string

func (f NameStyleFunc) Format(name string) string {
	return f(name)
}

var UnchangedStyle NameStyleFunc = func(name string) string {
	return name
}

// UpperCamelStyle: "hit_points" -> "HitPoints"
var UpperCamelStyle NameStyleFunc = func(name string) string {
	if name == "" {
		return name
	}
	return inflect.Camelize(name)
}

// LowerCamelStyle: "hit_points" -> "hitPoints"
var LowerCamelStyle NameStyleFunc = func(name string) string {
	// CamelizeDownFirst panics when nothing but separators is left
	if inflect.Camelize(name) == "" {
		return name
	}
	return inflect.CamelizeDownFirst(name)
}

// SnakeStyle: "MonsterData" -> "monster_data"
var SnakeStyle NameStyleFunc = func(name string) string {
	if name == "" {
		return name
	}
	return inflect.Underscore(name)
}

// UnionTypeFieldSuffix is appended by the parser to a union field's name
// to form its discriminant field.
const UnionTypeFieldSuffix = "_type"

// escapeMarker is appended to identifiers that collide with a reserved word.
const escapeMarker = "_"

var reservedWords = func() map[string]bool {
	words := []string{
		// GDScript keywords
		"if", "elif", "else", "for", "while", "match", "when", "break",
		"continue", "pass", "return", "class", "class_name", "extends",
		"is", "in", "as", "self", "super", "signal", "func", "static",
		"const", "enum", "var", "breakpoint", "preload", "await", "yield",
		"assert", "void", "not", "and", "or", "true", "false", "null",
		"PI", "TAU", "INF", "NAN",
		// Godot builtin types
		"bool", "int", "float", "String", "StringName", "NodePath",
		"Array", "Dictionary", "Object", "Callable", "Signal", "RID",
		"Variant", "Vector2", "Vector2i", "Vector3", "Vector3i", "Vector4",
		"Vector4i", "Rect2", "Rect2i", "Transform2D", "Transform3D",
		"Plane", "Quaternion", "AABB", "Basis", "Projection", "Color",
		"PackedByteArray", "PackedInt32Array", "PackedInt64Array",
		"PackedFloat32Array", "PackedFloat64Array", "PackedStringArray",
		"PackedVector2Array", "PackedVector3Array", "PackedColorArray",
		"RefCounted", "Resource", "Node",
		// members of the generated classes and their runtime base
		"start", "bytes", "get_field_offset", "new", "free", "get", "set",
		"call", "get_class", "is_class", "notification", "pack",
		"pack_dict", "unpack", "finish",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()

// IsReserved reports whether name collides with a reserved word.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// nameResolver derives collision-free GDScript identifiers.
type nameResolver struct {
	style NameStyle
}

func newNameResolver(style NameStyle) *nameResolver {
	if style == nil {
		style = UnchangedStyle
	}
	return &nameResolver{style: style}
}

// Escape appends the escape marker to reserved words.
func (r *nameResolver) Escape(name string) string {
	if reservedWords[name] {
		return name + escapeMarker
	}
	return name
}

// Resolve applies the field case style to raw and escapes the result.
// The discriminant suffix of a union type field keeps its spelling.
func (r *nameResolver) Resolve(raw string, unionDiscriminant bool) string {
	name, suffix := raw, ""
	if unionDiscriminant && strings.HasSuffix(raw, UnionTypeFieldSuffix) {
		if len(raw) <= len(UnionTypeFieldSuffix) {
			panic("gdgen: union discriminant name " + raw + " has no base name")
		}
		name = raw[:len(raw)-len(UnionTypeFieldSuffix)]
		suffix = UnionTypeFieldSuffix
	}
	return r.Escape(r.style.Format(name) + suffix)
}

// Definition names are not re-cased.
func (r *nameResolver) Definition(name string) string {
	return r.Escape(name)
}

// EnumKey spells an enum member as an upper-case constant.
func (r *nameResolver) EnumKey(name string) string {
	return r.Escape(strings.ToUpper(name))
}

// OffsetName is the vtable slot constant of a resolved field name.
func (r *nameResolver) OffsetName(field string) string {
	return "VT_" + strings.ToUpper(field)
}
