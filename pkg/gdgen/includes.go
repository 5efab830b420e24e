package gdgen

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"gdflat/pkg/schemas"
)

// Include is one preload of another generated script.
type Include struct {
	Alias string // script constant the types are reached through
	File  string // declaring schema file
	Path  string // path of the generated script, relative to this one
}

// includeResolver maps referenced definitions to the alias of their
// declaring file. Both maps are filled once by a scan of the schema and
// only read afterwards.
type includeResolver struct {
	current string
	builtin string

	declaredIn map[string]string // qualified definition name -> declaring file
	aliases    map[string]string // declaring file -> alias
	includes   []Include
}

func newIncludeResolver(sch *schemas.Schema, current string, opts Options) *includeResolver {
	r := &includeResolver{
		current:    current,
		builtin:    opts.BuiltinFile,
		declaredIn: make(map[string]string),
		aliases:    make(map[string]string),
	}
	taken := make(map[string]bool)

	var visit func(t *schemas.Type)
	visit = func(t *schemas.Type) {
		if t == nil {
			return
		}
		visit(t.Element)

		var def *schemas.Definition
		switch {
		case t.StructDef != nil:
			def = &t.StructDef.Definition
		case t.EnumDef != nil:
			def = &t.EnumDef.Definition
		default:
			return
		}
		if _, seen := r.declaredIn[def.QualifiedName()]; seen {
			return
		}
		file := t.DefinitionFile()
		r.declaredIn[def.QualifiedName()] = file
		r.assign(file, taken, opts)
	}

	for _, e := range sch.Enums {
		if !sch.Owns(&e.Definition, current) {
			continue
		}
		for _, ev := range e.Values {
			visit(ev.UnionType)
		}
	}
	for _, st := range sch.Structs {
		if !sch.Owns(&st.Definition, current) {
			continue
		}
		for _, f := range st.Fields {
			if f.Deprecated {
				continue
			}
			visit(f.Type)
		}
	}
	return r
}

func (r *includeResolver) assign(file string, taken map[string]bool, opts Options) {
	if !r.needsInclude(file) {
		return
	}
	if _, ok := r.aliases[file]; ok {
		return
	}
	base := aliasBase(file)
	alias := base
	for n := 2; taken[alias] || IsReserved(alias); n++ {
		alias = base + strconv.Itoa(n)
	}
	taken[alias] = true
	r.aliases[file] = alias
	r.includes = append(r.includes, Include{
		Alias: alias,
		File:  file,
		Path:  filepath.Base(GeneratedFileName("", file, opts)),
	})
}

func (r *includeResolver) needsInclude(file string) bool {
	return file != "" && file != r.current && file != r.builtin
}

// IncludeFor returns the alias prefix for a definition, or "" when the
// definition is reachable without one.
func (r *includeResolver) IncludeFor(def *schemas.Definition) string {
	file, ok := r.declaredIn[def.QualifiedName()]
	if !ok {
		file = def.File
	}
	if !r.needsInclude(file) {
		return ""
	}
	return r.aliases[file]
}

// Includes returns the preloads in first-reference order.
func (r *includeResolver) Includes() []Include {
	return r.includes
}

// aliasBase turns "dir/weapon-defs.fbs" into "weapon_defs_fb".
func aliasBase(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	var sb strings.Builder
	for i, c := range base {
		switch {
		case unicode.IsLetter(c), c == '_':
			sb.WriteRune(c)
		case unicode.IsDigit(c):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String() + "_fb"
}
