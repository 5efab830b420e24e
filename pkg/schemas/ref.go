package schemas

import (
	"github.com/agext/levenshtein"
	"github.com/thorn-jmh/errorst"
)

var (
	ErrUnknownBaseType = errorst.NewError("unknown base type")
	ErrUnresolvedRef   = errorst.NewError("cannot resolve type reference")
	ErrMissingRef      = errorst.Wrap(ErrUnresolvedRef, "type refers to no definition")
	ErrWrongRefKind    = errorst.Wrap(ErrUnresolvedRef, "reference names the wrong kind of definition")
	ErrMissingType     = errorst.NewError("field has no type")
)

// RefKind tells which definition kind a reference must resolve to.
type RefKind string

const (
	RefKindStruct RefKind = "struct"
	RefKindEnum   RefKind = "enum"
	RefKindUnion  RefKind = "union"
)

// refResolver indexes definitions by qualified name.
type refResolver struct {
	structs map[string]*StructDef
	enums   map[string]*EnumDef
	names   []string
}

func newRefResolver(s *Schema) *refResolver {
	r := &refResolver{
		structs: make(map[string]*StructDef, len(s.Structs)),
		enums:   make(map[string]*EnumDef, len(s.Enums)),
	}
	for _, e := range s.Enums {
		r.enums[e.QualifiedName()] = e
		r.names = append(r.names, e.QualifiedName())
	}
	for _, st := range s.Structs {
		r.structs[st.QualifiedName()] = st
		r.names = append(r.names, st.QualifiedName())
	}
	return r
}

// candidates yields the lookup keys for ref, seen from namespace ns:
// the name as written, then relative to ns and each enclosing namespace.
func candidates(ref, ns string) []string {
	keys := []string{ref}
	for ns != "" {
		keys = append(keys, ns+"."+ref)
		ns, _ = splitQualified(ns)
	}
	return keys
}

func (r *refResolver) structDef(ref, ns string) (*StructDef, bool) {
	for _, k := range candidates(ref, ns) {
		if st, ok := r.structs[k]; ok {
			return st, true
		}
	}
	return nil, false
}

func (r *refResolver) enumDef(ref, ns string) (*EnumDef, bool) {
	for _, k := range candidates(ref, ns) {
		if e, ok := r.enums[k]; ok {
			return e, true
		}
	}
	return nil, false
}

// suggest returns the known definition name closest to ref, or "".
func (r *refResolver) suggest(ref string) string {
	best, bestDist := "", -1
	for _, name := range r.names {
		_, short := splitQualified(name)
		d := levenshtein.Distance(ref, name, nil)
		if ds := levenshtein.Distance(ref, short, nil); ds < d {
			d = ds
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	limit := len(ref) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func (r *refResolver) unresolved(kind RefKind, ref, where string) error {
	if s := r.suggest(ref); s != "" {
		return errorst.Wrap(ErrUnresolvedRef, "%s <%s> at %s (did you mean <%s>?)", kind, ref, where, s)
	}
	return errorst.Wrap(ErrUnresolvedRef, "%s <%s> at %s", kind, ref, where)
}

// linkType resolves the references of t, recursing into element types.
func (r *refResolver) linkType(t *Type, ns, where string) error {
	if t == nil {
		return errorst.Wrap(ErrMissingType, "at %s", where)
	}
	switch t.BaseType {
	case BaseTypeVector, BaseTypeVector64, BaseTypeArray:
		if t.Element == nil {
			return errorst.Wrap(ErrMissingType, "element of %s at %s", t.BaseType, where)
		}
		return r.linkType(t.Element, ns, where)
	case BaseTypeStruct:
		if t.Ref == "" {
			return errorst.Wrap(ErrMissingRef, "%s at %s", t.BaseType, where)
		}
		st, ok := r.structDef(t.Ref, ns)
		if !ok {
			if _, isEnum := r.enumDef(t.Ref, ns); isEnum {
				return errorst.Wrap(ErrWrongRefKind, "<%s> is an enum at %s", t.Ref, where)
			}
			return r.unresolved(RefKindStruct, t.Ref, where)
		}
		t.StructDef = st
	case BaseTypeUnion, BaseTypeUType:
		if t.Ref == "" {
			return errorst.Wrap(ErrMissingRef, "%s at %s", t.BaseType, where)
		}
		e, ok := r.enumDef(t.Ref, ns)
		if !ok {
			return r.unresolved(RefKindUnion, t.Ref, where)
		}
		t.EnumDef = e
	default:
		if t.Ref == "" {
			return nil
		}
		e, ok := r.enumDef(t.Ref, ns)
		if !ok {
			if _, isStruct := r.structDef(t.Ref, ns); isStruct {
				return errorst.Wrap(ErrWrongRefKind, "<%s> is not an enum at %s", t.Ref, where)
			}
			return r.unresolved(RefKindEnum, t.Ref, where)
		}
		t.EnumDef = e
	}
	return nil
}
