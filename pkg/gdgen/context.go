package gdgen

import (
	"strings"

	"gdflat/pkg/schemas"
)

// Context carries what one field emission needs to know; nothing else
// crosses field boundaries.
type Context struct {
	State
}

type State struct {
	Record *schemas.StructDef // record owning the field
	Field  *schemas.FieldDef
	Index  int // declaration index within the record

	Name       string // resolved field identifier
	OffsetName string // vtable slot constant, tables only
	// Discriminant is the resolved name of a union field's type field.
	Discriminant string
	Shape      Shape

	// Reason is set when the field cannot be generated.
	Reason string
}

// Supported reports whether accessors and builder code exist for the field.
func (c Context) Supported() bool {
	return c.Reason == ""
}

// fieldContexts classifies every non-deprecated field of st once and
// settles the member names of the record.
func (g *Generator) fieldContexts(st *schemas.StructDef) []Context {
	var ctxs []Context
	for i, f := range st.Fields {
		if f.Deprecated {
			continue
		}
		ctx := Context{State{
			Record: st,
			Field:  f,
			Index:  i,
			Name:   g.names.Resolve(f.Name, isDiscriminant(f)),
		}}
		shape, ok := Classify(f.Type)
		ctx.Shape = shape
		switch {
		case !ok:
			ctx.Reason = "type has no mapping"
		case st.Fixed:
			ctx.Reason = unsupportedInStruct(shape)
		default:
			ctx.Reason = unsupportedInTable(shape)
		}
		ctxs = append(ctxs, ctx)
	}
	resolveMembers(ctxs)

	for i := range ctxs {
		if !st.Fixed {
			ctxs[i].OffsetName = g.names.OffsetName(ctxs[i].Name)
		}
		if !ctxs[i].Shape.IsUnion {
			continue
		}
		ctxs[i].Discriminant = g.names.Resolve(ctxs[i].Field.Name+UnionTypeFieldSuffix, true)
		if d, ok := st.Field(ctxs[i].Field.Name + UnionTypeFieldSuffix); ok {
			for _, c := range ctxs {
				if c.Field == d {
					ctxs[i].Discriminant = c.Name
				}
			}
		}
	}
	return ctxs
}

// derivedMembers lists the accessors generated from a field besides the
// getter named after it.
func derivedMembers(ctx Context) []string {
	if !ctx.Supported() {
		return nil
	}
	n := ctx.Name
	var names []string
	if !ctx.Record.Fixed {
		names = append(names, "has_"+n)
	}
	switch s := ctx.Shape; {
	case s.IsSeries && ctx.Record.Fixed:
		names = append(names, n+"_size", n+"_at", "set_"+n+"_at")
	case s.IsSeries:
		names = append(names, "_"+n+"_vector", n+"_size", n+"_at")
	case s.IsScalar && ctx.Record.Fixed:
		names = append(names, "set_"+n)
	}
	return names
}

// resolveMembers escapes field names that collide with an accessor
// derived from another field, or whose vtable constant is already taken.
func resolveMembers(ctxs []Context) {
	owner := make(map[string]int)
	for i, ctx := range ctxs {
		for _, m := range derivedMembers(ctx) {
			if _, ok := owner[m]; !ok {
				owner[m] = i
			}
		}
	}

	taken := make(map[string]bool)
	for i := range ctxs {
		name := ctxs[i].Name
		for {
			o, derived := owner[name]
			vt := name
			if !ctxs[i].Record.Fixed {
				vt = "VT_" + strings.ToUpper(name)
			}
			if !taken[name] && !taken[vt] && (!derived || o == i) {
				taken[name], taken[vt] = true, true
				break
			}
			name += escapeMarker
		}
		ctxs[i].Name = name
	}
}

func isDiscriminant(f *schemas.FieldDef) bool {
	return f.Type != nil && f.Type.BaseType == schemas.BaseTypeUType
}

func unsupportedInStruct(s Shape) string {
	switch {
	case s.IsScalar, s.IsStruct:
		return ""
	case s.IsSeries && s.Type.BaseType == schemas.BaseTypeArray:
		es, ok := Classify(s.Element)
		if ok && (es.IsScalar || es.IsStruct) {
			return ""
		}
		return "fixed array of " + s.Element.String() + " in a struct"
	}
	return s.Type.String() + " in a struct"
}

func unsupportedInTable(s Shape) string {
	if !s.IsSeries {
		return ""
	}
	if s.Type.BaseType == schemas.BaseTypeArray {
		return "fixed array in a table"
	}
	es, ok := Classify(s.Element)
	switch {
	case !ok:
		return "vector element type has no mapping"
	case es.IsUnion:
		return "vector of unions"
	case es.IsSeries:
		return "nested vector"
	}
	return ""
}
