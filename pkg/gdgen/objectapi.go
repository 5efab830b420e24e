package gdgen

import (
	"strconv"
	"strings"

	"gdflat/pkg/schemas"
)

// emitDebugDump writes _to_string() listing every readable field.
func (g *Generator) emitDebugDump(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)

	var parts, values []string
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		parts = append(parts, ctx.Field.Name+"=%s")
		values = append(values, ctx.Name+"()")
	}
	if len(values) == 0 {
		w.Line("func _to_string() -> String:\n\treturn \"{{NAME}}{}\"")
		w.Blank()
		return
	}
	w.SetValue("FORMAT", strconv.Quote(st.Name+"{"+strings.Join(parts, ", ")+"}"))
	w.SetValue("VALUES", strings.Join(values, ", "))
	w.Line("func _to_string() -> String:\n\treturn {{FORMAT}} % [{{VALUES}}]")
	w.Blank()
}

// emitUnpack writes unpack(), copying the record into a Dictionary keyed
// by schema field names. Absent table fields are left out, except scalars
// which carry their default.
func (g *Generator) emitUnpack(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)
	w.Line("func unpack() -> Dictionary:\n\tvar _out := {}")
	w.Indent()
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		g.setField(ctx)
		w.SetValue("KEY", strconv.Quote(ctx.Field.Name))
		guarded := !st.Fixed && !ctx.Shape.IsScalar
		if guarded {
			w.Line("if has_{{FIELD}}():")
			w.Indent()
		}
		g.unpackField(ctx)
		if guarded {
			w.Dedent()
		}
	}
	w.Line("return _out")
	w.Dedent()
	w.Blank()
}

func (g *Generator) unpackField(ctx Context) {
	w := g.w
	s := ctx.Shape
	switch {
	case s.IsStruct, s.IsTable:
		w.Line("_out[{{KEY}}] = {{FIELD}}().unpack()")
	case s.IsUnion:
		w.Line("var _{{FIELD}}_v = {{FIELD}}()\n_out[{{KEY}}] = _{{FIELD}}_v.unpack() if _{{FIELD}}_v is Object else _{{FIELD}}_v")
	case s.IsSeries:
		es, _ := Classify(s.Element)
		if es.IsStruct || es.IsTable {
			w.Line(`var _{{FIELD}}_list := []
for _i in {{FIELD}}_size():
	_{{FIELD}}_list.append({{FIELD}}_at(_i).unpack())
_out[{{KEY}}] = _{{FIELD}}_list`)
			return
		}
		w.Line("_out[{{KEY}}] = {{FIELD}}()")
	default:
		w.Line("_out[{{KEY}}] = {{FIELD}}()")
	}
}

// emitStructPackDict writes the inverse of a struct's unpack().
func (g *Generator) emitStructPackDict(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)
	w.Line("static func pack_dict(d: Dictionary) -> PackedByteArray:")
	w.Indent()

	var args []string
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		key := strconv.Quote(ctx.Field.Name)
		t := ctx.Field.Type
		switch s := ctx.Shape; {
		case s.IsScalar:
			args = append(args, "d.get("+key+", "+DefaultLiteral(t.BaseType, ctx.Field.Default)+")")
		case s.IsStruct:
			args = append(args, g.structRef(t.StructDef, "pack_dict")+"(d.get("+key+", {}))")
		case s.IsSeries && t.Element.StructDef != nil:
			g.setField(ctx)
			w.SetValue("KEY", key)
			w.SetValue("PACK", g.structRef(t.Element.StructDef, "pack_dict"))
			w.Line(`var _{{FIELD}}_v := []
for _e in d.get({{KEY}}, []):
	_{{FIELD}}_v.append({{PACK}}(_e))`)
			args = append(args, "_"+ctx.Name+"_v")
		default:
			args = append(args, "d.get("+key+", [])")
		}
	}
	w.Line("return pack(" + strings.Join(args, ", ") + ")")
	w.Dedent()
	w.Blank()
}

// structRef spells a static function of a struct or table class.
func (g *Generator) structRef(st *schemas.StructDef, fn string) string {
	return g.classRef(st) + "." + fn
}

// emitTablePack writes Pack<T>(fbb, d), building every child from the
// Dictionary before handing over to Create<T>.
func (g *Generator) emitTablePack(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)
	w.Line("static func Pack{{NAME}}(_fbb: FlatBufferBuilder, _d: Dictionary) -> int:")
	w.Indent()

	args := []string{"_fbb"}
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		g.setField(ctx)
		key := strconv.Quote(ctx.Field.Name)
		w.SetValue("KEY", key)
		t := ctx.Field.Type
		switch s := ctx.Shape; {
		case s.IsScalar:
			args = append(args, "_d.get("+key+", "+DefaultLiteral(t.BaseType, ctx.Field.Default)+")")
		case s.IsString:
			args = append(args, "_d.get("+key+")")
		case s.IsStruct:
			w.SetValue("PACK", g.structRef(t.StructDef, "pack_dict"))
			w.Line("var _{{FIELD}}_v = {{PACK}}(_d[{{KEY}}]) if _d.has({{KEY}}) else null")
			args = append(args, "_"+ctx.Name+"_v")
		case s.IsTable:
			w.SetValue("PACK", g.scriptRef(t.StructDef, "Pack"))
			w.Line("var _{{FIELD}}_v: int = {{PACK}}(_fbb, _d[{{KEY}}]) if _d.has({{KEY}}) else 0")
			args = append(args, "_"+ctx.Name+"_v")
		case s.IsUnion:
			g.packUnion(ctx)
			args = append(args, "_"+ctx.Name+"_v")
		case s.IsSeries:
			es, _ := Classify(t.Element)
			switch {
			case es.IsTable:
				w.SetValue("PACK", g.scriptRef(t.Element.StructDef, "Pack"))
				w.Line(`var _{{FIELD}}_v = null
if _d.has({{KEY}}):
	_{{FIELD}}_v = PackedInt32Array()
	for _e in _d[{{KEY}}]:
		_{{FIELD}}_v.append({{PACK}}(_fbb, _e))`)
				args = append(args, "_"+ctx.Name+"_v")
			case es.IsStruct:
				w.SetValue("PACK", g.structRef(t.Element.StructDef, "pack_dict"))
				w.Line(`var _{{FIELD}}_v = null
if _d.has({{KEY}}):
	_{{FIELD}}_v = []
	for _e in _d[{{KEY}}]:
		_{{FIELD}}_v.append({{PACK}}(_e))`)
				args = append(args, "_"+ctx.Name+"_v")
			default:
				args = append(args, "_d.get("+key+")")
			}
		}
	}
	w.Line("return Create{{NAME}}(" + strings.Join(args, ", ") + ")")
	w.Dedent()
	w.Blank()
	w.Blank()
}

// packUnion builds the payload selected by the discriminant in the
// Dictionary into _<field>_v.
func (g *Generator) packUnion(ctx Context) {
	w := g.w
	e := ctx.Field.Type.EnumDef
	w.SetValue("TYPE_KEY", strconv.Quote(ctx.Field.Name+UnionTypeFieldSuffix))
	w.Line("var _{{FIELD}}_v: int = 0\nmatch _d.get({{TYPE_KEY}}, 0):")
	w.Indent()
	cases := 0
	for _, ev := range e.Values {
		if ev.Value == 0 || unsupportedVariant(ev) != "" {
			continue
		}
		s, _ := Classify(ev.UnionType)
		var build string
		switch {
		case s.IsTable:
			build = g.scriptRef(ev.UnionType.StructDef, "Pack") + "(_fbb, _d[{{KEY}}])"
		case s.IsString:
			build = "_fbb.create_string(_d[{{KEY}}])"
		default:
			// struct payloads have no standalone offset form
			continue
		}
		w.Line(g.enumRef(e) + "." + g.names.EnumKey(ev.Name) + ":\n\t_{{FIELD}}_v = " + build)
		cases++
	}
	if cases == 0 {
		w.Line("_:\n\tpass")
	}
	w.Dedent()
}
