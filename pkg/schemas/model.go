package schemas

import (
	"strconv"
	"strings"
)

// Schema is the resolved schema graph handed over by the parser.
// It is built once, read many times and never mutated by generators.
type Schema struct {
	// File is the root schema file the graph was parsed from.
	File string `json:"file"`
	// Files lists every schema file of the graph with its direct includes.
	Files []*SchemaFile `json:"files,omitempty"`

	// Definitions in declaration order.
	Enums   []*EnumDef   `json:"enums,omitempty"`
	Structs []*StructDef `json:"structs,omitempty"`
}

// SchemaFile is one schema source file and the files it includes.
type SchemaFile struct {
	Name     string   `json:"name"`
	Includes []string `json:"includes,omitempty"`
}

// Definition holds the attributes shared by enums, structs and tables.
type Definition struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	File      string   `json:"file,omitempty"` // declaring schema file
	Doc       []string `json:"doc,omitempty"`  // doc comment lines
	// Generated marks definitions pulled in from included files. It only
	// matters when generating the root file.
	Generated bool `json:"generated,omitempty"`
}

// Owns reports whether the script generated for file carries def. Every
// definition declared in a file belongs to it, except those marked
// Generated when file is the root file.
func (s *Schema) Owns(def *Definition, file string) bool {
	if def.File != file {
		return false
	}
	return !def.Generated || file != s.File
}

// QualifiedName returns the namespace-qualified name used by references.
func (d *Definition) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// EnumDef is an enumeration or, when IsUnion is set, the variant list of a union.
type EnumDef struct {
	Definition
	Underlying BaseType   `json:"underlying"`
	IsUnion    bool       `json:"is_union,omitempty"`
	Values     []*EnumVal `json:"values"`
}

// EnumVal is one enum member with its explicit value.
type EnumVal struct {
	Name  string   `json:"name"`
	Value int64    `json:"value"`
	Doc   []string `json:"doc,omitempty"`
	// UnionType is the payload type of a union variant; nil for plain enums
	// and for the reserved NONE variant.
	UnionType *Type `json:"union_type,omitempty"`
}

// Lookup returns the member carrying value v.
func (e *EnumDef) Lookup(v int64) (*EnumVal, bool) {
	for _, ev := range e.Values {
		if ev.Value == v {
			return ev, true
		}
	}
	return nil, false
}

// StructDef is a fixed struct (Fixed) or a table.
type StructDef struct {
	Definition
	Fixed      bool        `json:"fixed,omitempty"`
	SortBySize bool        `json:"sort_by_size,omitempty"`
	ByteSize   int         `json:"byte_size,omitempty"` // fixed structs only
	MinAlign   int         `json:"min_align,omitempty"` // fixed structs only
	Fields     []*FieldDef `json:"fields"`
}

// Field returns the field with the given schema name.
func (s *StructDef) Field(name string) (*FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldDef is one field of a struct or table.
type FieldDef struct {
	Name string   `json:"name"`
	Doc  []string `json:"doc,omitempty"`
	Type *Type    `json:"type"`
	// Offset is the vtable slot offset for table fields and the byte
	// offset within the struct for fixed struct fields.
	Offset     int    `json:"offset"`
	Default    string `json:"default,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
	Required   bool   `json:"required,omitempty"`
	Key        bool   `json:"key,omitempty"`
}

// Type describes the type of a field, vector element or union variant.
//
// After linking, StructDef is set for struct and table types, EnumDef for
// enum-typed scalars, unions and union discriminants.
type Type struct {
	BaseType    BaseType `json:"base"`
	Element     *Type    `json:"element,omitempty"` // vectors and fixed arrays
	Ref         string   `json:"ref,omitempty"`     // qualified name of the referenced definition
	FixedLength int      `json:"length,omitempty"`  // fixed arrays only

	StructDef *StructDef `json:"-"`
	EnumDef   *EnumDef   `json:"-"`
}

// String renders the type in schema notation, e.g. "[Monster]" or "[float:3]".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.BaseType {
	case BaseTypeVector, BaseTypeVector64:
		return "[" + t.Element.String() + "]"
	case BaseTypeArray:
		return "[" + t.Element.String() + ":" + strconv.Itoa(t.FixedLength) + "]"
	case BaseTypeStruct:
		if t.StructDef != nil {
			return t.StructDef.QualifiedName()
		}
	case BaseTypeUnion, BaseTypeUType:
		if t.EnumDef != nil {
			return t.EnumDef.QualifiedName()
		}
	}
	if t.EnumDef != nil {
		return t.EnumDef.QualifiedName()
	}
	if t.Ref != "" {
		return t.Ref
	}
	return t.BaseType.String()
}

// DefinitionFile returns the declaring file of the definition the type
// refers to, or "" for types that refer to no definition.
func (t *Type) DefinitionFile() string {
	switch {
	case t == nil:
		return ""
	case t.StructDef != nil:
		return t.StructDef.File
	case t.EnumDef != nil:
		return t.EnumDef.File
	}
	return ""
}

// FileIncludes returns the direct includes of the named schema file.
func (s *Schema) FileIncludes(name string) []string {
	for _, f := range s.Files {
		if f.Name == name {
			return f.Includes
		}
	}
	return nil
}

// DeclaredFiles returns every file that declares at least one definition,
// in first-declaration order.
func (s *Schema) DeclaredFiles() []string {
	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		files = append(files, f)
	}
	for _, e := range s.Enums {
		add(e.File)
	}
	for _, st := range s.Structs {
		add(st.File)
	}
	return files
}

func splitQualified(name string) (namespace, short string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
