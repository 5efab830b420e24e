package gdgen

import (
	"strconv"
	"strings"

	"gdflat/pkg/schemas"
)

// emitEnum writes an enum with explicit values, its underlying width and a
// value -> name lookup. Union variant lists are emitted the same way and
// serve as the discriminant type.
func (g *Generator) emitEnum(e *schemas.EnumDef) {
	w := g.w
	w.ClearValues()
	w.SetValue("ENUM_NAME", g.names.Definition(e.Name))
	w.SetValue("ENUM_CONST", strings.ToUpper(e.Name))
	w.SetValue("UNDERLYING", e.Underlying.String())
	info, _ := Kind(e.Underlying)
	w.SetValue("WIDTH", strconv.Itoa(info.Width))

	w.Comment(e.Doc)
	w.Line("# {{ENUM_NAME}} : {{UNDERLYING}}")
	w.Line("enum {{ENUM_NAME}} {")
	w.Indent()
	for i, ev := range e.Values {
		sep := ","
		if i == len(e.Values)-1 {
			sep = ""
		}
		w.Comment(ev.Doc)
		w.Line(g.names.EnumKey(ev.Name) + " = " + strconv.FormatInt(ev.Value, 10) + sep)
	}
	w.Dedent()
	w.Line("}")
	w.Line("const {{ENUM_CONST}}_BYTE_SIZE := {{WIDTH}}")
	w.Line("const {{ENUM_CONST}}_NAMES := {")
	w.Indent()
	// the first member wins when values repeat
	var entries []string
	seen := make(map[int64]bool)
	for _, ev := range e.Values {
		if seen[ev.Value] {
			continue
		}
		seen[ev.Value] = true
		entries = append(entries, strconv.FormatInt(ev.Value, 10)+": "+strconv.Quote(ev.Name))
	}
	w.Line(strings.Join(entries, ",\n"))
	w.Dedent()
	w.Line("}")
	w.Blank()
}
