package gdgen

import (
	"strconv"

	"gdflat/pkg/schemas"
)

// beginUnit resets the substitution map for one record member.
func (g *Generator) beginUnit(st *schemas.StructDef) {
	g.w.ClearValues()
	g.w.SetValue("CLASS", className(st))
	g.w.SetValue("NAME", st.Name)
}

func (g *Generator) setField(ctx Context) {
	g.beginUnit(ctx.Record)
	g.w.SetValue("FIELD", ctx.Name)
	g.w.SetValue("VT", ctx.OffsetName)
	g.w.SetValue("OFFSET", strconv.Itoa(ctx.Field.Offset))
}

// >>>>>>>>>>>>>>>>>>>> records >>>>>>>>>>>>>>>>>>>>

func (g *Generator) emitStruct(st *schemas.StructDef) {
	ctxs := g.fieldContexts(st)
	w := g.w

	g.beginUnit(st)
	w.SetValue("BYTE_SIZE", strconv.Itoa(st.ByteSize))
	w.SetValue("MIN_ALIGN", strconv.Itoa(st.MinAlign))
	w.Comment(st.Doc)
	w.Line("class {{CLASS}} extends GD_FlatBuffer:")
	w.Indent()
	w.Line("const BYTE_SIZE := {{BYTE_SIZE}}\nconst MIN_ALIGN := {{MIN_ALIGN}}")
	w.Blank()
	g.emitGetter(st)

	for _, ctx := range ctxs {
		if !ctx.Supported() {
			g.unsupported(ctx)
			continue
		}
		w.Comment(ctx.Field.Doc)
		g.emitStructField(ctx)
	}
	g.emitStructPack(st, ctxs)
	if g.opts.DebugDump {
		g.emitDebugDump(st, ctxs)
	}
	if g.opts.PackUnpackAPI {
		g.emitUnpack(st, ctxs)
		g.emitStructPackDict(st, ctxs)
	}
	w.Dedent()
	w.Blank()
}

func (g *Generator) emitTable(st *schemas.StructDef) {
	ctxs := g.fieldContexts(st)
	w := g.w

	g.beginUnit(st)
	w.Comment(st.Doc)
	w.Line("class {{CLASS}} extends GD_FlatBuffer:")
	w.Indent()
	if len(ctxs) > 0 {
		w.Line("enum {")
		w.Indent()
		for i, ctx := range ctxs {
			sep := ","
			if i == len(ctxs)-1 {
				sep = ""
			}
			w.Line(ctx.OffsetName + " = " + strconv.Itoa(ctx.Field.Offset) + sep)
		}
		w.Dedent()
		w.Line("}")
		w.Blank()
	}
	g.emitGetter(st)
	w.Line(`static func GetRootAs{{NAME}}(_bytes: PackedByteArray) -> {{CLASS}}:
	return Get{{NAME}}(_bytes.decode_u32(0), _bytes)`)
	w.Blank()

	for _, ctx := range ctxs {
		if !ctx.Supported() {
			g.unsupported(ctx)
			continue
		}
		w.Comment(ctx.Field.Doc)
		g.emitTableField(ctx)
	}
	if g.opts.DebugDump {
		g.emitDebugDump(st, ctxs)
	}
	if g.opts.PackUnpackAPI {
		g.emitUnpack(st, ctxs)
	}
	w.Dedent()
	w.Blank()

	g.emitBuilder(st, ctxs)
	g.emitCreate(st, ctxs)
	if g.opts.PackUnpackAPI {
		g.emitTablePack(st, ctxs)
	}
}

func (g *Generator) emitGetter(st *schemas.StructDef) {
	g.beginUnit(st)
	g.w.Line(`static func Get{{NAME}}(_start: int, _bytes: PackedByteArray) -> {{CLASS}}:
	var _o := {{CLASS}}.new()
	_o.start = _start
	_o.bytes = _bytes
	return _o`)
	g.w.Blank()
}

// >>>>>>>>>>>>>>>>>>>> fixed struct fields >>>>>>>>>>>>>>>>>>>>

func (g *Generator) emitStructField(ctx Context) {
	w := g.w
	g.setField(ctx)
	t := ctx.Field.Type
	switch s := ctx.Shape; {
	case s.IsScalar:
		info, _ := Kind(t.BaseType)
		w.SetValue("TYPE", g.scalarType(t))
		w.SetValue("SFX", info.Decode)
		w.SetValue("READ", g.scalarRead(t, "start + "+strconv.Itoa(ctx.Field.Offset)))
		w.SetValue("VALUE", encodeValue(t, "_value"))
		w.Line(`func {{FIELD}}() -> {{TYPE}}:
	return {{READ}}`)
		w.Blank()
		w.Line(`func set_{{FIELD}}(_value: {{TYPE}}) -> void:
	bytes.encode_{{SFX}}(start + {{OFFSET}}, {{VALUE}})`)
		w.Blank()
	case s.IsStruct:
		w.SetValue("TYPE", g.classRef(t.StructDef))
		w.SetValue("GET", g.structGet(t.StructDef))
		w.Line(`func {{FIELD}}() -> {{TYPE}}:
	return {{GET}}(start + {{OFFSET}}, bytes)`)
		w.Blank()
	case s.IsSeries:
		g.emitSeries(ctx, g.arraySeries(ctx))
	}
}

// encodeValue spells v as stored by PackedByteArray.encode_*.
func encodeValue(t *schemas.Type, v string) string {
	if t.BaseType == schemas.BaseTypeBool {
		return "1 if " + v + " else 0"
	}
	return v
}

// structGet spells the static view constructor of a struct or table.
func (g *Generator) structGet(st *schemas.StructDef) string {
	return g.classRef(st) + ".Get" + st.Name
}

// >>>>>>>>>>>>>>>>>>>> table fields >>>>>>>>>>>>>>>>>>>>

func (g *Generator) emitTableField(ctx Context) {
	w := g.w
	g.setField(ctx)
	w.Line(`func has_{{FIELD}}() -> bool:
	return get_field_offset({{VT}}) != 0`)
	w.Blank()

	t := ctx.Field.Type
	s := ctx.Shape
	switch {
	case s.IsScalar:
		w.SetValue("TYPE", g.scalarType(t))
		w.SetValue("DEFAULT", g.scalarDefault(ctx.Field))
		w.SetValue("READ", g.scalarRead(t, "start + _foffset"))
		w.Line(`func {{FIELD}}() -> {{TYPE}}:
	var _foffset: int = get_field_offset({{VT}})
	if not _foffset:
		return {{DEFAULT}}
	return {{READ}}`)
	case s.IsStruct:
		w.SetValue("TYPE", g.classRef(t.StructDef))
		w.SetValue("GET", g.structGet(t.StructDef))
		w.Line(`func {{FIELD}}() -> {{TYPE}}:
	var _foffset: int = get_field_offset({{VT}})
	if not _foffset:
		return null
	return {{GET}}(start + _foffset, bytes)`)
	case s.IsString, s.IsTable:
		w.SetValue("TYPE", "String")
		w.SetValue("ABSENT", `""`)
		if s.IsTable {
			w.SetValue("TYPE", g.classRef(t.StructDef))
			w.SetValue("ABSENT", "null")
		}
		w.Line(`func {{FIELD}}() -> {{TYPE}}:
	var _foffset: int = get_field_offset({{VT}})
	if not _foffset:
		return {{ABSENT}}
	var _pos: int = start + _foffset
	_pos += bytes.decode_u32(_pos)`)
		w.Indent()
		w.Line(g.indirectReturn(t, "_pos"))
		w.Dedent()
	case s.IsUnion:
		g.emitUnionPayload(ctx)
	case s.IsSeries:
		g.emitSeries(ctx, g.vectorSeries(ctx))
		return
	}
	w.Blank()
}

// indirectReturn returns the string, table or struct starting at pos.
func (g *Generator) indirectReturn(t *schemas.Type, pos string) string {
	switch {
	case t.BaseType == schemas.BaseTypeString:
		return "return bytes.slice(" + pos + " + 4, " + pos + " + 4 + bytes.decode_u32(" + pos + ")).get_string_from_utf8()"
	case t.StructDef != nil:
		return "return " + g.structGet(t.StructDef) + "(" + pos + ", bytes)"
	}
	return "return null"
}

// emitUnionPayload dispatches on the current discriminant value, one case
// per declared non-zero variant.
func (g *Generator) emitUnionPayload(ctx Context) {
	w := g.w
	e := ctx.Field.Type.EnumDef
	w.SetValue("DISCRIMINANT", ctx.Discriminant)
	w.Line(`func {{FIELD}}():
	var _foffset: int = get_field_offset({{VT}})
	if not _foffset:
		return null
	var _pos: int = start + _foffset
	_pos += bytes.decode_u32(_pos)
	match {{DISCRIMINANT}}():`)
	w.Indent()
	w.Indent()
	for _, ev := range e.Values {
		if ev.Value == 0 {
			continue
		}
		w.Line(g.enumRef(e) + "." + g.names.EnumKey(ev.Name) + ":")
		w.Indent()
		if reason := unsupportedVariant(ev); reason != "" {
			g.unsupported(Context{State{Record: ctx.Record, Field: ctx.Field, Reason: reason}})
			w.Line("return null")
		} else {
			w.Line(g.indirectReturn(ev.UnionType, "_pos"))
		}
		w.Dedent()
	}
	w.Line("_:\n\treturn null")
	w.Dedent()
	w.Dedent()
}

func unsupportedVariant(ev *schemas.EnumVal) string {
	s, ok := Classify(ev.UnionType)
	if ok && (s.IsTable || s.IsStruct || s.IsString) {
		return ""
	}
	return "union variant " + ev.Name + " has no payload accessor"
}

// >>>>>>>>>>>>>>>>>>>> series >>>>>>>>>>>>>>>>>>>>

// series is the layout of a vector or fixed array: elements start at
// the run start and lie stride bytes apart.
type series struct {
	elem   *schemas.Type
	shape  Shape // of the element
	stride int

	// vectors live behind an offset and carry a count header
	vector bool
	sfx    string // decode suffix of the offset and the count
	header int

	length int // fixed arrays
}

func (g *Generator) vectorSeries(ctx Context) series {
	t := ctx.Field.Type
	es, _ := Classify(t.Element)
	info, _ := Kind(t.BaseType)
	sr := series{elem: t.Element, shape: es, vector: true, sfx: info.Decode, header: info.Width}
	sr.stride = InlineSize(t.Element)
	if es.IsIndirect() {
		sr.stride = 4
	}
	return sr
}

func (g *Generator) arraySeries(ctx Context) series {
	t := ctx.Field.Type
	es, _ := Classify(t.Element)
	return series{elem: t.Element, shape: es, stride: InlineSize(t.Element), length: t.FixedLength}
}

// elemType is the GDScript spelling of one element.
func (g *Generator) elemType(sr series) string {
	switch {
	case sr.shape.IsScalar:
		return g.scalarType(sr.elem)
	case sr.shape.IsString:
		return "String"
	case sr.elem.StructDef != nil:
		return g.classRef(sr.elem.StructDef)
	}
	return "Variant"
}

// bulkType is the array type returned by the bulk accessor.
func bulkType(sr series) string {
	if (sr.shape.IsScalar || sr.shape.IsString) && sr.shape.Info.Packed != "" {
		return sr.shape.Info.Packed
	}
	return "Array"
}

func (g *Generator) emitSeries(ctx Context, sr series) {
	w := g.w
	w.SetValue("ELEM_TYPE", g.elemType(sr))
	w.SetValue("STRIDE", strconv.Itoa(sr.stride))
	w.SetValue("BULK", bulkType(sr))

	if sr.vector {
		w.SetValue("SFX", sr.sfx)
		w.SetValue("HEADER", strconv.Itoa(sr.header))
		w.Line(`func _{{FIELD}}_vector() -> int:
	var _foffset: int = get_field_offset({{VT}})
	if not _foffset:
		return 0
	var _pos: int = start + _foffset
	return _pos + bytes.decode_{{SFX}}(_pos)`)
		w.Blank()
		w.Line(`func {{FIELD}}_size() -> int:
	var _pos: int = _{{FIELD}}_vector()
	if not _pos:
		return 0
	return bytes.decode_{{SFX}}(_pos)`)
		w.Blank()
		w.Line(`func {{FIELD}}_at(_i: int) -> {{ELEM_TYPE}}:
	var _elem: int = _{{FIELD}}_vector() + {{HEADER}} + _i * {{STRIDE}}`)
	} else {
		w.SetValue("LENGTH", strconv.Itoa(sr.length))
		w.Line(`func {{FIELD}}_size() -> int:
	return {{LENGTH}}`)
		w.Blank()
		w.Line(`func {{FIELD}}_at(_i: int) -> {{ELEM_TYPE}}:
	var _elem: int = start + {{OFFSET}} + _i * {{STRIDE}}`)
	}
	w.Indent()
	g.elemReturn(sr)
	w.Dedent()
	w.Blank()

	if !sr.vector && sr.shape.IsScalar {
		info, _ := Kind(sr.elem.BaseType)
		w.SetValue("ENC", info.Decode)
		w.SetValue("VALUE", encodeValue(sr.elem, "_value"))
		w.Line(`func set_{{FIELD}}_at(_i: int, _value: {{ELEM_TYPE}}) -> void:
	bytes.encode_{{ENC}}(start + {{OFFSET}} + _i * {{STRIDE}}, {{VALUE}})`)
		w.Blank()
	}

	if sr.vector {
		w.Line(`func {{FIELD}}() -> {{BULK}}:
	var _pos: int = _{{FIELD}}_vector()
	if not _pos:
		return {{BULK}}()
	var _count: int = bytes.decode_{{SFX}}(_pos)
	_pos += {{HEADER}}`)
	} else {
		w.Line(`func {{FIELD}}() -> {{BULK}}:
	var _pos: int = start + {{OFFSET}}
	var _count: int = {{LENGTH}}`)
	}
	w.Indent()
	g.bulkBody(sr)
	w.Dedent()
	w.Blank()
}

// elemReturn reads the element at _elem.
func (g *Generator) elemReturn(sr series) {
	switch {
	case sr.shape.IsScalar:
		g.w.Line("return " + g.scalarRead(sr.elem, "_elem"))
	case sr.shape.IsStruct:
		g.w.Line(g.indirectReturn(sr.elem, "_elem"))
	default:
		g.w.Line("_elem += bytes.decode_u32(_elem)")
		g.w.Line(g.indirectReturn(sr.elem, "_elem"))
	}
}

// bulkBody fills the bulk result from _pos and _count with the same stride
// as the indexed accessor.
func (g *Generator) bulkBody(sr series) {
	w := g.w
	info := sr.shape.Info
	switch {
	case sr.shape.IsScalar && info.Convert == convertSlice:
		w.Line("return bytes.slice(_pos, _pos + _count * {{STRIDE}})")
	case sr.shape.IsScalar && info.Convert != "":
		w.SetValue("CONVERT", info.Convert)
		w.Line("return bytes.slice(_pos, _pos + _count * {{STRIDE}}).{{CONVERT}}()")
	case sr.shape.IsScalar:
		w.SetValue("READ", g.scalarRead(sr.elem, "_pos + _i * "+strconv.Itoa(sr.stride)))
		w.Line(`var _array := {{BULK}}()
_array.resize(_count)
for _i in _count:
	_array[_i] = {{READ}}
return _array`)
	default:
		w.Line(`var _array := {{BULK}}()
for _i in _count:
	_array.append({{FIELD}}_at(_i))
return _array`)
	}
}
