package gdgen

import (
	"testing"

	"gdflat/internal/testutil"
	"gdflat/pkg/schemas"
)

func loadMonster(t *testing.T) *schemas.Schema {
	t.Helper()
	sch, err := schemas.FromJSONFile("../schemas/testdata/monster.json")
	testutil.AssertNoError(t, err)
	return sch
}

func scalar(bt schemas.BaseType) *schemas.Type {
	return &schemas.Type{BaseType: bt}
}

func ref(bt schemas.BaseType, name string) *schemas.Type {
	return &schemas.Type{BaseType: bt, Ref: name}
}

func vectorOf(elem *schemas.Type) *schemas.Type {
	return &schemas.Type{BaseType: schemas.BaseTypeVector, Element: elem}
}

func field(name string, typ *schemas.Type, offset int) *schemas.FieldDef {
	return &schemas.FieldDef{Name: name, Type: typ, Offset: offset}
}

func table(name, file string, fields ...*schemas.FieldDef) *schemas.StructDef {
	return &schemas.StructDef{Definition: schemas.Definition{Name: name, File: file}, Fields: fields}
}

// link builds a one-file schema around defs.
func link(t *testing.T, enums []*schemas.EnumDef, structs ...*schemas.StructDef) *schemas.Schema {
	t.Helper()
	sch := &schemas.Schema{File: "test.fbs", Enums: enums, Structs: structs}
	testutil.AssertNoError(t, schemas.Link(sch))
	return sch
}

func generate(t *testing.T, sch *schemas.Schema, file string, opts Options) *Result {
	t.Helper()
	g, err := NewGenerator(sch, "out", file, opts)
	testutil.AssertNoError(t, err)
	res, err := g.Generate()
	testutil.AssertNoError(t, err)
	return res
}
