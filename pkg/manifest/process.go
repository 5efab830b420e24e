package manifest

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/thorn-jmh/errorst"

	"gdflat/pkg/gdgen"
	"gdflat/pkg/schemas"
)

const headerComment = "Code generated by gdflat. DO NOT EDIT."

// FromSchema collects the layout declarations of the definitions file owns.
func FromSchema(sch *schemas.Schema, file string) (decls []Decl, err error) {
	for _, e := range sch.Enums {
		if !sch.Owns(&e.Definition, file) {
			continue
		}
		enum, err := GenerateEnum(e)
		if err != nil {
			return nil, errorst.Wrap(err, "failed to generate enum <%s>", e.QualifiedName())
		}
		decls = append(decls, enum)
	}
	for _, st := range sch.Structs {
		if !sch.Owns(&st.Definition, file) {
			continue
		}
		decls = append(decls, GenerateRecord(st))
	}
	return decls, nil
}

func GenerateEnum(e *schemas.EnumDef) (*Enum, error) {
	typ, err := goIntType(e.Underlying)
	if err != nil {
		return nil, err
	}
	enum := &Enum{
		Alias: Alias{
			Name:     goName(e.Name),
			Comment:  strings.Join(e.Doc, " "),
			BaseType: typ,
		},
	}
	for _, ev := range e.Values {
		enum.Values = append(enum.Values, EnumValue{Name: ev.Name, Value: ev.Value})
	}
	return enum, nil
}

func GenerateRecord(st *schemas.StructDef) *Record {
	rec := &Record{
		Name:    goName(st.Name),
		Comment: strings.Join(st.Doc, " "),
		Fixed:   st.Fixed,
	}
	if st.Fixed {
		rec.ByteSize = st.ByteSize
		rec.MinAlign = st.MinAlign
		return rec
	}
	for _, f := range st.Fields {
		if f.Deprecated {
			continue
		}
		rec.Slots = append(rec.Slots, Slot{Name: goName(f.Name), Offset: f.Offset})
	}
	return rec
}

// Generate renders the manifest of file as Go source of package pkg.
func Generate(sch *schemas.Schema, file, pkg string) (*jen.File, error) {
	decls, err := FromSchema(sch, file)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(pkg)
	f.HeaderComment(headerComment)
	f.Commentf("Layout of %s.", filepath.Base(file))
	for _, d := range decls {
		if err := d.Gen(f); err != nil {
			return nil, errorst.Wrap(err, "failed to generate manifest of <%s>", file)
		}
	}
	return f, nil
}

// FileName is the manifest path next to the generated scripts.
func FileName(dir, file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(dir, base+"_layout.go")
}

// Save renders f and writes it atomically.
func Save(f *jen.File, path string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return errorst.Wrap(ErrRender, "%s: %v", path, err)
	}
	return gdgen.SaveFile(path, buf.Bytes())
}

// goName exports a schema identifier: "hit_points" becomes "HitPoints".
func goName(name string) string {
	return gdgen.UpperCamelStyle.Format(name)
}

// goIntType derives the Go integer type from the wire width and sign.
func goIntType(bt schemas.BaseType) (Type, error) {
	if !bt.IsInteger() {
		return Type{}, errorst.Wrap(ErrNotInteger, "%s", bt)
	}
	info, _ := gdgen.Kind(bt)
	if info.Signed {
		return Type{Name: "int" + strconv.Itoa(info.Width*8)}, nil
	}
	return Type{Name: "uint" + strconv.Itoa(info.Width*8), Unsigned: true}, nil
}
