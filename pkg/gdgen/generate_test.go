package gdgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gdflat/internal/testutil"
	"gdflat/pkg/schemas"
)

func TestGenerateMonsterLayout(t *testing.T) {
	res := generate(t, loadMonster(t), "monster.fbs", DefaultOptions())
	code := res.Code

	testutil.ExpectEq(t, filepath.Join("out", "monster_generated.gd"), res.Path)
	testutil.ExpectEq(t, 0, len(res.Diagnostics))
	testutil.ExpectTrue(t, strings.HasPrefix(code, headerComment+"\n\nconst weapons_fb = preload(\"weapons_generated.gd\")\n"))

	// enums, then fixed structs, then tables
	testutil.ExpectOrdered(t, code,
		"enum Color_ {",
		"enum Equipment {",
		"class FB_Vec3 extends GD_FlatBuffer:",
		"class FB_Monster extends GD_FlatBuffer:",
		"class MonsterBuilder:",
		"static func CreateMonster(",
	)

	// definitions of other files are referenced, never emitted
	testutil.ExpectNotContains(t, code, "class FB_Weapon")
	testutil.ExpectNotContains(t, code, "class FB_Vector3")
	testutil.ExpectContains(t, code, "func spawn() -> FB_Vector3:")
	testutil.ExpectContains(t, code, "func weapons_at(_i: int) -> weapons_fb.FB_Weapon:")

	// deprecated fields vanish
	testutil.ExpectNotContains(t, code, "friendly")
	testutil.ExpectNotContains(t, code, "VT_FRIENDLY")
}

func TestGenerateEnum(t *testing.T) {
	code := generate(t, loadMonster(t), "monster.fbs", DefaultOptions()).Code

	testutil.ExpectContains(t, code, `# Colors a monster can be painted.
# Color_ : ubyte
enum Color_ {
	RED = 1,
	GREEN = 2,
	BLUE = 8
}
const COLOR_BYTE_SIZE := 1
const COLOR_NAMES := {
	1: "Red",
	2: "Green",
	8: "Blue"
}
`)
	testutil.ExpectContains(t, code, "enum Equipment {\n\tNONE = 0,\n\tWEAPON = 1\n}")
}

func TestGenerateVtableFidelity(t *testing.T) {
	sch := link(t, nil, table("Pair", "test.fbs",
		&schemas.FieldDef{Name: "a", Type: scalar(schemas.BaseTypeInt), Offset: 4, Default: "1"},
		&schemas.FieldDef{Name: "b", Type: scalar(schemas.BaseTypeShort), Offset: 6, Default: "-3"},
	))
	code := generate(t, sch, "test.fbs", DefaultOptions()).Code

	testutil.ExpectContains(t, code, "\tenum {\n\t\tVT_A = 4,\n\t\tVT_B = 6\n\t}\n")
	testutil.ExpectNoDiff(t, "\tfunc has_b() -> bool:\n\t\treturn get_field_offset(VT_B) != 0\n", testutil.Section(code, "func has_b()")+"\n")
	testutil.ExpectNoDiff(t, `	func b() -> int:
		var _foffset: int = get_field_offset(VT_B)
		if not _foffset:
			return -3
		return bytes.decode_s16(start + _foffset)
`, testutil.Section(code, "func b()")+"\n")
}

func TestGenerateMonsterExample(t *testing.T) {
	sch := link(t, nil, table("Monster", "test.fbs",
		&schemas.FieldDef{Name: "hp", Type: scalar(schemas.BaseTypeInt), Offset: 4, Default: "100"},
		field("name", scalar(schemas.BaseTypeString), 6),
	))
	code := generate(t, sch, "test.fbs", DefaultOptions()).Code

	hp := testutil.Section(code, "func hp()")
	testutil.ExpectContains(t, hp, "return 100\n")
	testutil.ExpectContains(t, hp, "return bytes.decode_s32(start + _foffset)")

	testutil.ExpectNoDiff(t, `	func name() -> String:
		var _foffset: int = get_field_offset(VT_NAME)
		if not _foffset:
			return ""
		var _pos: int = start + _foffset
		_pos += bytes.decode_u32(_pos)
		return bytes.slice(_pos + 4, _pos + 4 + bytes.decode_u32(_pos)).get_string_from_utf8()
`, testutil.Section(code, "func name()")+"\n")

	testutil.ExpectContains(t, code, "static func CreateMonster(_fbb: FlatBufferBuilder, hp: int = 100, name = null) -> int:")
	testutil.ExpectContains(t, code, "_fbb.add_element_s32(FB_Monster.VT_HP, value, 100)")
}

func TestGenerateScalarAccessors(t *testing.T) {
	code := generate(t, loadMonster(t), "monster.fbs", DefaultOptions()).Code

	color := testutil.Section(code, "func color()")
	testutil.ExpectContains(t, color, "func color() -> Color_:")
	testutil.ExpectContains(t, color, "return 8 as Color_")
	testutil.ExpectContains(t, color, "return bytes.decode_u8(start + _foffset) as Color_")

	pos := testutil.Section(code, "func pos()")
	testutil.ExpectContains(t, pos, "return null")
	testutil.ExpectContains(t, pos, "return FB_Vec3.GetVec3(start + _foffset, bytes)")

	testutil.ExpectContains(t, code, "static func GetRootAsMonster(_bytes: PackedByteArray) -> FB_Monster:\n\t\treturn GetMonster(_bytes.decode_u32(0), _bytes)")
}

func TestGenerateBuilder(t *testing.T) {
	code := generate(t, loadMonster(t), "monster.fbs", DefaultOptions()).Code
	builder := testutil.Section(code, "class MonsterBuilder:")

	testutil.ExpectContains(t, builder, "\t\t_fbb.add_struct(FB_Monster.VT_POS, value)")
	testutil.ExpectContains(t, builder, "\t\t_fbb.add_element_u8(FB_Monster.VT_COLOR, value, 8)")
	testutil.ExpectContains(t, builder, "\t\t_fbb.add_offset(FB_Monster.VT_NAME, value)")
	testutil.ExpectContains(t, builder, "\t\tassert(not _finished, \"MonsterBuilder: add_mana after finish\")")
	testutil.ExpectNoDiff(t, `	func finish() -> int:
		assert(not _finished, "MonsterBuilder: finish called twice")
		_finished = true
		var _o: int = _fbb.end_table(_start)
		_fbb.required(_o, FB_Monster.VT_NAME)
		return _o
`, testutil.Section(builder, "func finish()")+"\n")

	create := testutil.Section(code, "static func CreateMonster(")
	testutil.ExpectContains(t, create, "color: Color_ = Color_.BLUE")
	testutil.ExpectContains(t, create, "equipped_type: Equipment = Equipment.NONE")
	testutil.ExpectOrdered(t, create,
		"_path_off = _fbb.create_vector_structs(path, 12, 4)",
		"_weapons_off = _fbb.create_vector_offsets(weapons)",
		"_inventory_off = _fbb.create_vector_u8(inventory)",
		"_name_off = _fbb.create_string(name)",
		"var _builder := MonsterBuilder.new(_fbb)",
		"_builder.add_spawn(spawn)",
		"_builder.add_path(_path_off)",
		"_builder.add_equipped(equipped)",
		"_builder.add_equipped_type(equipped_type)",
		"_builder.add_weapons(_weapons_off)",
		"_builder.add_color(color)",
		"_builder.add_inventory(_inventory_off)",
		"_builder.add_name(_name_off)",
		"_builder.add_hp(hp)",
		"_builder.add_mana(mana)",
		"_builder.add_pos(pos)",
		"return _builder.finish()",
	)
}

func TestGenerateBuilderOrderSizeSorted(t *testing.T) {
	st := table("Sorted", "test.fbs",
		field("a", scalar(schemas.BaseTypeUByte), 4),
		field("b", scalar(schemas.BaseTypeInt), 6),
		field("c", scalar(schemas.BaseTypeLong), 8),
	)
	st.SortBySize = true
	code := generate(t, link(t, nil, st), "test.fbs", DefaultOptions()).Code

	testutil.ExpectOrdered(t, testutil.Section(code, "static func CreateSorted("),
		"_builder.add_c(c)", "_builder.add_b(b)", "_builder.add_a(a)")
}

func TestGenerateBuilderPrebuildOrder(t *testing.T) {
	st := table("Children", "test.fbs",
		field("s", scalar(schemas.BaseTypeString), 4),
		field("u", scalar(schemas.BaseTypeUByte), 6),
		field("v", &schemas.Type{BaseType: schemas.BaseTypeVector64, Element: scalar(schemas.BaseTypeUByte)}, 8),
		field("arr", vectorOf(scalar(schemas.BaseTypeShort)), 10),
	)
	st.SortBySize = true
	code := generate(t, link(t, nil, st), "test.fbs", DefaultOptions()).Code
	create := testutil.Section(code, "static func CreateChildren(")

	// 8-byte band, then the 4-byte band in reverse declaration order
	testutil.ExpectOrdered(t, create,
		"_v_off = _fbb.create_vector64_u8(v)",
		"_arr_off = _fbb.create_vector_s16(arr)",
		"_s_off = _fbb.create_string(s)",
		"var _builder",
		"_builder.add_v(", "_builder.add_arr(", "_builder.add_s(", "_builder.add_u(",
	)

	// unsorted tables go in reverse declaration order
	st.SortBySize = false
	code = generate(t, link(t, nil, st), "test.fbs", DefaultOptions()).Code
	testutil.ExpectOrdered(t, testutil.Section(code, "static func CreateChildren("),
		"_arr_off =", "_v_off =", "_s_off =",
		"_builder.add_arr(", "_builder.add_v(", "_builder.add_u(", "_builder.add_s(",
	)
}

func TestGenerateUnionCompleteness(t *testing.T) {
	pick := &schemas.EnumDef{
		Definition: schemas.Definition{Name: "Pick", File: "test.fbs"},
		Underlying: schemas.BaseTypeUType,
		IsUnion:    true,
		Values: []*schemas.EnumVal{
			{Name: "NONE", Value: 0},
			{Name: "Sword", Value: 1, UnionType: ref(schemas.BaseTypeStruct, "Sword")},
			{Name: "Shield", Value: 2, UnionType: ref(schemas.BaseTypeStruct, "Shield")},
			{Name: "Note", Value: 5, UnionType: scalar(schemas.BaseTypeString)},
		},
	}
	sch := link(t, []*schemas.EnumDef{pick},
		table("Sword", "test.fbs", field("dmg", scalar(schemas.BaseTypeInt), 4)),
		table("Shield", "test.fbs", field("def", scalar(schemas.BaseTypeInt), 4)),
		table("Hero", "test.fbs",
			field("item_type", ref(schemas.BaseTypeUType, "Pick"), 4),
			field("item", ref(schemas.BaseTypeUnion, "Pick"), 6),
		),
	)
	code := generate(t, sch, "test.fbs", DefaultOptions()).Code
	payload := testutil.Section(code, "func item():")

	cases, fallbacks := 0, 0
	for _, line := range strings.Split(payload, "\n") {
		switch line = strings.TrimSpace(line); {
		case strings.HasPrefix(line, "Pick.") && strings.HasSuffix(line, ":"):
			cases++
		case line == "_:":
			fallbacks++
		}
	}
	testutil.ExpectEq(t, 3, cases)
	testutil.ExpectEq(t, 1, fallbacks)
	testutil.ExpectContains(t, payload, "match item_type():")
	testutil.ExpectContains(t, payload, "\t\t\tPick.SWORD:\n\t\t\t\treturn FB_Sword.GetSword(_pos, bytes)")
	testutil.ExpectContains(t, payload, "\t\t\tPick.NOTE:\n\t\t\t\treturn bytes.slice(_pos + 4,")
	testutil.ExpectContains(t, code, "func item_type() -> Pick:")
}

func TestGenerateVectorConsistency(t *testing.T) {
	st := table("Bag", "test.fbs",
		field("bytes", vectorOf(scalar(schemas.BaseTypeUByte)), 4),
		field("shorts", vectorOf(scalar(schemas.BaseTypeShort)), 6),
		field("ints", vectorOf(scalar(schemas.BaseTypeInt)), 8),
		field("names", vectorOf(scalar(schemas.BaseTypeString)), 10),
		field("wide", &schemas.Type{BaseType: schemas.BaseTypeVector64, Element: scalar(schemas.BaseTypeDouble)}, 12),
	)
	code := generate(t, link(t, nil, st), "test.fbs", DefaultOptions()).Code

	tests := []struct {
		field  string
		header string
		stride string
		bulk   string
	}{
		{"shorts", "4", "2", "_array[_i] = bytes.decode_s16(_pos + _i * 2)"},
		{"ints", "4", "4", "return bytes.slice(_pos, _pos + _count * 4).to_int32_array()"},
		{"names", "4", "4", "_array.append(names_at(_i))"},
		{"wide", "8", "8", "return bytes.slice(_pos, _pos + _count * 8).to_float64_array()"},
	}
	for _, tt := range tests {
		at := testutil.Section(code, "func "+tt.field+"_at(")
		testutil.ExpectContains(t, at, "var _elem: int = _"+tt.field+"_vector() + "+tt.header+" + _i * "+tt.stride)

		bulk := testutil.Section(code, "func "+tt.field+"() -> ")
		testutil.ExpectContains(t, bulk, "var _pos: int = _"+tt.field+"_vector()")
		testutil.ExpectContains(t, bulk, "_pos += "+tt.header)
		testutil.ExpectContains(t, bulk, tt.bulk)
	}

	testutil.ExpectContains(t, code, "func shorts() -> PackedInt32Array:")
	testutil.ExpectContains(t, code, "func names() -> PackedStringArray:")
	testutil.ExpectContains(t, testutil.Section(code, "func wide_size()"), "return bytes.decode_u64(_pos)")
	testutil.ExpectContains(t, testutil.Section(code, "func _wide_vector()"), "return _pos + bytes.decode_u64(_pos)")
	// a field named like a runtime member is escaped
	testutil.ExpectContains(t, code, "func bytes__size() -> int:")
}

func TestGenerateFixedStruct(t *testing.T) {
	inner := &schemas.StructDef{
		Definition: schemas.Definition{Name: "Inner", File: "test.fbs"},
		Fixed:      true, ByteSize: 4, MinAlign: 2,
		Fields: []*schemas.FieldDef{
			field("a", scalar(schemas.BaseTypeShort), 0),
			field("b", scalar(schemas.BaseTypeBool), 2),
		},
	}
	outer := &schemas.StructDef{
		Definition: schemas.Definition{Name: "Outer", File: "test.fbs"},
		Fixed:      true, ByteSize: 16, MinAlign: 4,
		Fields: []*schemas.FieldDef{
			field("inner", ref(schemas.BaseTypeStruct, "Inner"), 0),
			field("vals", &schemas.Type{BaseType: schemas.BaseTypeArray, Element: scalar(schemas.BaseTypeFloat), FixedLength: 2}, 4),
			field("flag", scalar(schemas.BaseTypeBool), 12),
		},
	}
	code := generate(t, link(t, nil, inner, outer), "test.fbs", DefaultOptions()).Code
	cls := testutil.Section(code, "class FB_Outer")

	testutil.ExpectContains(t, cls, "const BYTE_SIZE := 16\n\tconst MIN_ALIGN := 4")
	testutil.ExpectContains(t, cls, "func inner() -> FB_Inner:\n\t\treturn FB_Inner.GetInner(start + 0, bytes)")
	testutil.ExpectNotContains(t, cls, "func set_inner(")
	testutil.ExpectNotContains(t, cls, "func has_")
	testutil.ExpectContains(t, cls, "func vals_size() -> int:\n\t\treturn 2")
	testutil.ExpectContains(t, cls, "func vals_at(_i: int) -> float:\n\t\tvar _elem: int = start + 4 + _i * 4\n\t\treturn bytes.decode_float(_elem)")
	testutil.ExpectContains(t, cls, "func set_vals_at(_i: int, _value: float) -> void:\n\t\tbytes.encode_float(start + 4 + _i * 4, _value)")
	testutil.ExpectContains(t, cls, "return bytes.slice(_pos, _pos + _count * 4).to_float32_array()")
	testutil.ExpectContains(t, cls, "func flag() -> bool:\n\t\treturn bytes.decode_u8(start + 12) != 0")
	testutil.ExpectContains(t, cls, "func set_flag(_value: bool) -> void:\n\t\tbytes.encode_u8(start + 12, 1 if _value else 0)")

	testutil.ExpectNoDiff(t, `	static func pack(inner: PackedByteArray, vals, flag: bool) -> PackedByteArray:
		var _bytes := PackedByteArray()
		_bytes.resize(BYTE_SIZE)
		_bytes.fill(0)
		for _i in mini(4, inner.size()):
			_bytes[0 + _i] = inner[_i]
		for _i in mini(2, vals.size()):
			_bytes.encode_float(4 + _i * 4, vals[_i])
		_bytes.encode_u8(12, 1 if flag else 0)
		return _bytes
`, testutil.Section(cls, "static func pack(")+"\n")
}

func TestGenerateTablesHaveNoSetters(t *testing.T) {
	code := generate(t, loadMonster(t), "monster.fbs", DefaultOptions()).Code
	testutil.ExpectContains(t, testutil.Section(code, "class FB_Vec3"), "func set_x(_value: float) -> void:")
	testutil.ExpectNotContains(t, testutil.Section(code, "class FB_Monster"), "func set_")
}

func TestGenerateUnsupportedFieldsAreDiagnosed(t *testing.T) {
	pick := &schemas.EnumDef{
		Definition: schemas.Definition{Name: "Pick", File: "test.fbs"},
		Underlying: schemas.BaseTypeUType,
		IsUnion:    true,
		Values:     []*schemas.EnumVal{{Name: "NONE", Value: 0}},
	}
	sch := link(t, []*schemas.EnumDef{pick}, table("Odd", "test.fbs",
		field("ok", scalar(schemas.BaseTypeInt), 4),
		field("arr", &schemas.Type{BaseType: schemas.BaseTypeArray, Element: scalar(schemas.BaseTypeInt), FixedLength: 3}, 6),
		field("picks", vectorOf(ref(schemas.BaseTypeUnion, "Pick")), 8),
		field("after", scalar(schemas.BaseTypeShort), 10),
	))
	res := generate(t, sch, "test.fbs", DefaultOptions())

	testutil.ExpectDeepEq(t, []Diagnostic{
		{Record: "Odd", Field: "arr", Type: "[int:3]", Reason: "fixed array in a table"},
		{Record: "Odd", Field: "picks", Type: "[Pick]", Reason: "vector of unions"},
	}, res.Diagnostics)
	testutil.ExpectEq(t, "Odd.arr ([int:3]): fixed array in a table", res.Diagnostics[0].String())

	code := res.Code
	testutil.ExpectContains(t, code, "\t# FIXME(gdflat): unsupported field arr: fixed array in a table\n")
	testutil.ExpectContains(t, code, "\t# FIXME(gdflat): unsupported field picks: vector of unions\n")
	testutil.ExpectContains(t, code, "VT_ARR = 6,")
	testutil.ExpectContains(t, code, "func after() -> int:")
	testutil.ExpectNotContains(t, code, "add_arr")
	testutil.ExpectNotContains(t, code, "add_picks")
	testutil.ExpectContains(t, code, "static func CreateOdd(_fbb: FlatBufferBuilder, ok: int = 0, after: int = 0) -> int:")
}

func TestGenerateIsIdempotent(t *testing.T) {
	sch := loadMonster(t)
	opts := DefaultOptions()
	opts.DebugDump = true
	opts.PackUnpackAPI = true

	g, err := NewGenerator(sch, "out", "monster.fbs", opts)
	testutil.AssertNoError(t, err)
	first, err := g.Generate()
	testutil.AssertNoError(t, err)
	second, err := g.Generate()
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, first.Code, second.Code)

	third := generate(t, sch, "monster.fbs", opts)
	testutil.ExpectNoDiff(t, first.Code, third.Code)
}

func TestGenerateKeywordFields(t *testing.T) {
	sch := link(t, nil, table("Kw", "test.fbs",
		field("class", scalar(schemas.BaseTypeInt), 4),
		field("start", scalar(schemas.BaseTypeInt), 6),
	))
	code := generate(t, sch, "test.fbs", DefaultOptions()).Code

	testutil.ExpectContains(t, code, "VT_CLASS_ = 4,")
	testutil.ExpectContains(t, code, "func class_() -> int:")
	testutil.ExpectContains(t, code, "func start_() -> int:")
	testutil.ExpectNotContains(t, code, "func class()")
}

func TestGenerateFieldCase(t *testing.T) {
	opts := DefaultOptions()
	opts.FieldCase = CaseUpperCamel
	code := generate(t, loadMonster(t), "monster.fbs", opts).Code

	testutil.ExpectContains(t, code, "func Mana() -> int:")
	testutil.ExpectContains(t, code, "VT_MANA = 6,")
	testutil.ExpectContains(t, code, "func Equipped_type() -> Equipment:")
	testutil.ExpectContains(t, code, "match Equipped_type():")
}

func TestGenerateObjectAPI(t *testing.T) {
	opts := DefaultOptions()
	opts.DebugDump = true
	opts.PackUnpackAPI = true
	code := generate(t, loadMonster(t), "monster.fbs", opts).Code

	vec := testutil.Section(code, "class FB_Vec3")
	testutil.ExpectContains(t, vec, `return "Vec3{x=%s, y=%s, z=%s}" % [x(), y(), z()]`)
	testutil.ExpectContains(t, vec, "static func pack_dict(d: Dictionary) -> PackedByteArray:\n\t\treturn pack(d.get(\"x\", 0.0), d.get(\"y\", 0.0), d.get(\"z\", 0.0))")

	unpack := testutil.Section(testutil.Section(code, "class FB_Monster"), "func unpack()")
	testutil.ExpectContains(t, unpack, "_out[\"mana\"] = mana()")
	testutil.ExpectContains(t, unpack, "if has_pos():\n\t\t\t_out[\"pos\"] = pos().unpack()")
	testutil.ExpectContains(t, unpack, "_weapons_list.append(weapons_at(_i).unpack())")

	pack := testutil.Section(code, "static func PackMonster(")
	testutil.ExpectContains(t, pack, "var _pos_v = FB_Vec3.pack_dict(_d[\"pos\"]) if _d.has(\"pos\") else null")
	testutil.ExpectContains(t, pack, "_weapons_v.append(weapons_fb.PackWeapon(_fbb, _e))")
	testutil.ExpectContains(t, pack, "Equipment.WEAPON:\n\t\t\t_equipped_v = weapons_fb.PackWeapon(_fbb, _d[\"equipped\"])")
	testutil.ExpectContains(t, pack, "return CreateMonster(_fbb, _pos_v, _d.get(\"mana\", 150), _d.get(\"hp\", 100), _d.get(\"name\"), _d.get(\"inventory\"), _d.get(\"color\", 8), _weapons_v, _d.get(\"equipped_type\", 0), _equipped_v, _path_v, _spawn_v)")
}

func TestNewGeneratorRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.FieldCase = "shouting"
	_, err := NewGenerator(loadMonster(t), "out", "monster.fbs", opts)
	testutil.AssertError(t, err)

	opts = DefaultOptions()
	opts.FileSuffix = "/x"
	_, err = NewGenerator(loadMonster(t), "out", "monster.fbs", opts)
	testutil.AssertError(t, err)
}

func TestGeneratedFileName(t *testing.T) {
	opts := DefaultOptions()
	testutil.ExpectEq(t, filepath.Join("gen", "monster_generated.gd"), GeneratedFileName("gen", "schemas/monster.fbs", opts))

	opts.FileNaming = FileNamingSnake
	opts.FileSuffix = ""
	opts.FileExtension = ".gd"
	testutil.ExpectEq(t, "monster_data.gd", GeneratedFileName("", "MonsterData.fbs", opts))
}

func TestResultSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	res := &Result{Path: filepath.Join(dir, "x_generated.gd"), Code: "# code\n"}
	testutil.AssertNoError(t, res.Save())

	data, err := os.ReadFile(res.Path)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "# code\n", string(data))

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 1, len(entries))
}

func TestMakeRule(t *testing.T) {
	sch := loadMonster(t)
	testutil.ExpectEq(t,
		filepath.Join("out", "monster_generated.gd")+": godot.fbs monster.fbs weapons.fbs",
		MakeRule(sch, "out", "monster.fbs", DefaultOptions()))
	testutil.ExpectEq(t,
		"weapons_generated.gd: godot.fbs weapons.fbs",
		MakeRule(sch, "", "weapons.fbs", DefaultOptions()))
}

func TestGenerateIncludedFile(t *testing.T) {
	opts := DefaultOptions()
	opts.PackUnpackAPI = true
	res := generate(t, loadMonster(t), "weapons.fbs", opts)
	code := res.Code

	testutil.ExpectEq(t, filepath.Join("out", "weapons_generated.gd"), res.Path)
	testutil.ExpectContains(t, code, "class FB_Weapon extends GD_FlatBuffer:")
	testutil.ExpectContains(t, code, "static func CreateWeapon(")
	testutil.ExpectContains(t, code, "static func PackWeapon(_fbb: FlatBufferBuilder, _d: Dictionary) -> int:")
	testutil.ExpectNotContains(t, code, "preload(")
	testutil.ExpectNotContains(t, code, "class FB_Monster")
}

func TestGenerateAccessorCollisions(t *testing.T) {
	stats := table("Stats", "test.fbs",
		field("hp", vectorOf(scalar(schemas.BaseTypeInt)), 4),
		field("hp_size", scalar(schemas.BaseTypeInt), 6),
		field("HP", scalar(schemas.BaseTypeShort), 8),
	)
	code := generate(t, link(t, nil, stats), "test.fbs", DefaultOptions()).Code

	testutil.ExpectEq(t, 1, strings.Count(code, "func hp_size()"))
	testutil.ExpectContains(t, code, "func hp_size_() -> int:")
	testutil.ExpectContains(t, code, "func has_hp_size_() -> bool:")
	testutil.ExpectContains(t, code, "func HP_() -> int:")
	testutil.ExpectContains(t, code, "\t\tVT_HP = 4,\n\t\tVT_HP_SIZE_ = 6,\n\t\tVT_HP_ = 8\n")
	testutil.ExpectContains(t, code, "static func CreateStats(_fbb: FlatBufferBuilder, hp = null, hp_size_: int = 0, HP_: int = 0) -> int:")
}

func TestGenerateStructSetterCollision(t *testing.T) {
	pair := table("Pair", "test.fbs",
		field("x", scalar(schemas.BaseTypeInt), 0),
		field("set_x", scalar(schemas.BaseTypeInt), 4),
	)
	pair.Fixed, pair.ByteSize, pair.MinAlign = true, 8, 4
	code := generate(t, link(t, nil, pair), "test.fbs", DefaultOptions()).Code

	testutil.ExpectEq(t, 1, strings.Count(code, "func set_x("))
	testutil.ExpectContains(t, code, "func set_x_() -> int:")
	testutil.ExpectContains(t, code, "func set_set_x_(_value: int) -> void:")
}
