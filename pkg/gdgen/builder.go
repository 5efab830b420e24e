package gdgen

import (
	"strconv"
	"strings"

	"github.com/ahmetb/go-linq/v3"

	"gdflat/pkg/schemas"
)

// createOrder is the order fields are built and added in. Size-sorted
// tables go by decreasing width band, 8 down to 1, and every other table
// in reverse declaration order; ties within a band also go in reverse
// declaration order.
func createOrder(st *schemas.StructDef, ctxs []Context) []Context {
	q := linq.From(ctxs).Where(func(c interface{}) bool {
		return c.(Context).Supported()
	})
	index := func(c interface{}) interface{} {
		return c.(Context).Index
	}

	var ordered linq.OrderedQuery
	if st.SortBySize {
		ordered = q.OrderByDescending(func(c interface{}) interface{} {
			return fieldWidth(c.(Context))
		}).ThenByDescending(index)
	} else {
		ordered = q.OrderByDescending(index)
	}

	var out []Context
	ordered.ToSlice(&out)
	return out
}

// fieldWidth is the wire size of the field's base type, which decides
// its band in size-sorted tables.
func fieldWidth(ctx Context) int {
	info, _ := Kind(ctx.Field.Type.BaseType)
	return info.Width
}

// prebuilt reports fields whose payload the create function builds before
// the table is started.
func prebuilt(ctx Context) bool {
	return ctx.Shape.IsString || ctx.Shape.IsSeries
}

// >>>>>>>>>>>>>>>>>>>> builder class >>>>>>>>>>>>>>>>>>>>

func builderName(st *schemas.StructDef) string {
	return st.Name + "Builder"
}

func (g *Generator) emitBuilder(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)
	w.SetValue("BUILDER", builderName(st))
	w.Line(`class {{BUILDER}}:
	var _fbb: FlatBufferBuilder
	var _start: int
	var _finished := false

	func _init(fbb: FlatBufferBuilder) -> void:
		_fbb = fbb
		_start = fbb.start_table()
`)
	w.Indent()
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		g.emitAdd(ctx)
	}

	g.beginUnit(st)
	w.SetValue("BUILDER", builderName(st))
	w.Line(`func finish() -> int:
	assert(not _finished, "{{BUILDER}}: finish called twice")
	_finished = true
	var _o: int = _fbb.end_table(_start)`)
	w.Indent()
	for _, ctx := range ctxs {
		if ctx.Field.Required {
			w.Line("_fbb.required(_o, {{CLASS}}." + ctx.OffsetName + ")")
		}
	}
	w.Line("return _o")
	w.Dedent()
	w.Dedent()
	w.Blank()
	w.Blank()
}

func (g *Generator) emitAdd(ctx Context) {
	w := g.w
	g.setField(ctx)
	w.SetValue("BUILDER", builderName(ctx.Record))
	t := ctx.Field.Type
	switch s := ctx.Shape; {
	case s.IsScalar:
		info, _ := Kind(t.BaseType)
		w.SetValue("TYPE", g.scalarType(t))
		w.SetValue("ENC", info.Encode)
		w.SetValue("DEFAULT", DefaultLiteral(t.BaseType, ctx.Field.Default))
		w.Line(`func add_{{FIELD}}(value: {{TYPE}}) -> void:
	assert(not _finished, "{{BUILDER}}: add_{{FIELD}} after finish")
	_fbb.add_element_{{ENC}}({{CLASS}}.{{VT}}, value, {{DEFAULT}})`)
	case s.IsStruct:
		w.Line(`func add_{{FIELD}}(value: PackedByteArray) -> void:
	assert(not _finished, "{{BUILDER}}: add_{{FIELD}} after finish")
	_fbb.add_struct({{CLASS}}.{{VT}}, value)`)
	default:
		w.Line(`func add_{{FIELD}}(value: int) -> void:
	assert(not _finished, "{{BUILDER}}: add_{{FIELD}} after finish")
	_fbb.add_offset({{CLASS}}.{{VT}}, value)`)
	}
	w.Blank()
}

// >>>>>>>>>>>>>>>>>>>> create function >>>>>>>>>>>>>>>>>>>>

// createParam spells the parameter of the create function for a field.
// Strings, vectors and structs are passed as native values and may be
// null; tables and union payloads are offsets of already built objects.
func (g *Generator) createParam(ctx Context) string {
	t := ctx.Field.Type
	s := ctx.Shape
	switch {
	case s.IsScalar && t.EnumDef != nil:
		value := DefaultLiteral(t.BaseType, ctx.Field.Default)
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			if ev, ok := t.EnumDef.Lookup(v); ok {
				ref := g.enumRef(t.EnumDef)
				return ctx.Name + ": " + ref + " = " + ref + "." + g.names.EnumKey(ev.Name)
			}
		}
		return ctx.Name + ": int = " + value
	case s.IsScalar:
		return ctx.Name + ": " + g.scalarType(t) + " = " + DefaultLiteral(t.BaseType, ctx.Field.Default)
	case s.IsTable, s.IsUnion:
		return ctx.Name + ": int = 0"
	}
	return ctx.Name + " = null"
}

func (g *Generator) emitCreate(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)
	w.SetValue("BUILDER", builderName(st))

	params := []string{"_fbb: FlatBufferBuilder"}
	for _, ctx := range ctxs {
		if ctx.Supported() {
			params = append(params, g.createParam(ctx))
		}
	}
	w.SetValue("PARAMS", strings.Join(params, ", "))
	w.Line("static func Create{{NAME}}({{PARAMS}}) -> int:")
	w.Indent()

	order := createOrder(st, ctxs)
	for _, ctx := range order {
		if prebuilt(ctx) {
			g.emitPrebuild(ctx)
		}
	}

	g.beginUnit(st)
	w.SetValue("BUILDER", builderName(st))
	w.Line("var _builder := {{BUILDER}}.new(_fbb)")
	for _, ctx := range order {
		g.setField(ctx)
		switch s := ctx.Shape; {
		case prebuilt(ctx):
			w.Line("if _{{FIELD}}_off:\n\t_builder.add_{{FIELD}}(_{{FIELD}}_off)")
		case s.IsStruct:
			w.Line("if {{FIELD}} != null:\n\t_builder.add_{{FIELD}}({{FIELD}})")
		case s.IsTable, s.IsUnion:
			w.Line("if {{FIELD}}:\n\t_builder.add_{{FIELD}}({{FIELD}})")
		default:
			w.Line("_builder.add_{{FIELD}}({{FIELD}})")
		}
	}
	w.Line("return _builder.finish()")
	w.Dedent()
	w.Blank()
	w.Blank()
}

// emitPrebuild builds a string or vector into _<field>_off.
func (g *Generator) emitPrebuild(ctx Context) {
	w := g.w
	g.setField(ctx)
	w.Line("var _{{FIELD}}_off := 0\nif {{FIELD}} != null:")
	w.Indent()
	defer w.Dedent()

	if ctx.Shape.IsString {
		w.Line("_{{FIELD}}_off = _fbb.create_string({{FIELD}})")
		return
	}

	create := "create_vector"
	if ctx.Field.Type.BaseType == schemas.BaseTypeVector64 {
		create = "create_vector64"
	}
	w.SetValue("CREATE", create)
	elem := ctx.Field.Type.Element
	es, _ := Classify(elem)
	switch {
	case es.IsScalar:
		w.SetValue("ENC", es.Info.Encode)
		w.Line("_{{FIELD}}_off = _fbb.{{CREATE}}_{{ENC}}({{FIELD}})")
	case es.IsString:
		w.Line(`var _offsets := PackedInt32Array()
for _s in {{FIELD}}:
	_offsets.append(_fbb.create_string(_s))
_{{FIELD}}_off = _fbb.{{CREATE}}_offsets(_offsets)`)
	case es.IsStruct:
		w.SetValue("SIZE", strconv.Itoa(elem.StructDef.ByteSize))
		w.SetValue("ALIGN", strconv.Itoa(elem.StructDef.MinAlign))
		w.Line("_{{FIELD}}_off = _fbb.{{CREATE}}_structs({{FIELD}}, {{SIZE}}, {{ALIGN}})")
	default:
		w.Line("_{{FIELD}}_off = _fbb.{{CREATE}}_offsets({{FIELD}})")
	}
}

// >>>>>>>>>>>>>>>>>>>> struct packing >>>>>>>>>>>>>>>>>>>>

// emitStructPack writes the static pack function producing the raw bytes
// of a struct, zero padded to its byte size.
func (g *Generator) emitStructPack(st *schemas.StructDef, ctxs []Context) {
	w := g.w
	g.beginUnit(st)

	var params []string
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		if typ := g.packParamType(ctx); typ != "" {
			params = append(params, ctx.Name+": "+typ)
		} else {
			params = append(params, ctx.Name)
		}
	}
	w.SetValue("PARAMS", strings.Join(params, ", "))
	w.Line(`static func pack({{PARAMS}}) -> PackedByteArray:
	var _bytes := PackedByteArray()
	_bytes.resize(BYTE_SIZE)
	_bytes.fill(0)`)
	w.Indent()
	for _, ctx := range ctxs {
		if !ctx.Supported() {
			continue
		}
		g.setField(ctx)
		t := ctx.Field.Type
		s := ctx.Shape
		switch {
		case s.IsScalar:
			info, _ := Kind(t.BaseType)
			w.SetValue("ENC", info.Decode)
			w.SetValue("VALUE", encodeValue(t, ctx.Name))
			w.Line("_bytes.encode_{{ENC}}({{OFFSET}}, {{VALUE}})")
		case s.IsStruct:
			w.SetValue("SIZE", strconv.Itoa(t.StructDef.ByteSize))
			w.Line(`for _i in mini({{SIZE}}, {{FIELD}}.size()):
	_bytes[{{OFFSET}} + _i] = {{FIELD}}[_i]`)
		case s.IsSeries:
			es, _ := Classify(t.Element)
			w.SetValue("LENGTH", strconv.Itoa(t.FixedLength))
			w.SetValue("STRIDE", strconv.Itoa(InlineSize(t.Element)))
			if es.IsStruct {
				w.Line(`for _i in mini({{LENGTH}}, {{FIELD}}.size()):
	for _j in mini({{STRIDE}}, {{FIELD}}[_i].size()):
		_bytes[{{OFFSET}} + _i * {{STRIDE}} + _j] = {{FIELD}}[_i][_j]`)
			} else {
				info, _ := Kind(t.Element.BaseType)
				w.SetValue("ENC", info.Decode)
				w.SetValue("VALUE", encodeValue(t.Element, ctx.Name+"[_i]"))
				w.Line(`for _i in mini({{LENGTH}}, {{FIELD}}.size()):
	_bytes.encode_{{ENC}}({{OFFSET}} + _i * {{STRIDE}}, {{VALUE}})`)
			}
		}
	}
	w.Line("return _bytes")
	w.Dedent()
	w.Blank()
}

// packParamType is "" for arrays, which may come as Array or as a packed
// array.
func (g *Generator) packParamType(ctx Context) string {
	switch s := ctx.Shape; {
	case s.IsScalar:
		return g.scalarType(ctx.Field.Type)
	case s.IsStruct:
		return "PackedByteArray"
	}
	return ""
}
