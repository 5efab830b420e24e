package manifest

import (
	"strconv"

	"github.com/dave/jennifer/jen"
	"github.com/thorn-jmh/errorst"
)

type Decl interface {
	Gen(file *jen.File) error
}

func (d *Record) Gen(f *jen.File) error {
	f.Line()
	if d.Comment != "" {
		f.Comment(d.Comment)
	}

	// fixed structs: size and alignment
	if d.Fixed {
		f.Const().Defs(
			jen.Id(d.Name+"ByteSize").Op("=").Lit(d.ByteSize),
			jen.Id(d.Name+"MinAlign").Op("=").Lit(d.MinAlign),
		)
		return nil
	}

	// tables: one constant per vtable slot
	if len(d.Slots) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(d.Slots))
	var slots []jen.Code
	for _, s := range d.Slots {
		id := d.Name + "Vt" + s.Name
		if seen[id] {
			return errorst.Wrap(ErrDuplicateName, "<%s> in record <%s>", id, d.Name)
		}
		seen[id] = true
		slots = append(slots, jen.Id(id).Op("=").Lit(s.Offset))
	}
	f.Const().Defs(slots...)
	return nil
}

func (d *Alias) Gen(f *jen.File) error {
	// just alias it
	f.Line()
	if d.Comment != "" {
		f.Comment(d.Comment)
	}
	f.Type().Id(d.Name).Id(d.BaseType.Name)
	return nil
}

func (d *Enum) Gen(f *jen.File) error {
	// first alias it
	if err := d.Alias.Gen(f); err != nil {
		return errorst.Wrap(err, "failed to alias enum<%s>", d.Name)
	}

	// second declare values
	f.Line().Commentf("enum %s values", d.Name)
	var enumValues []jen.Code
	for _, value := range d.Values {
		ev := jen.Id(d.Name + "_" + value.Name).Id(d.Name).Op("=").Add(enumLit(d.BaseType, value.Value))
		enumValues = append(enumValues, ev)
	}
	f.Const().Defs(enumValues...)

	return nil
}

// enumLit spells v in the domain of typ. Values of unsigned enums are kept
// as int64 bit patterns, so uint64 values above MaxInt64 arrive negative.
func enumLit(typ Type, v int64) jen.Code {
	if typ.Unsigned {
		return jen.Op(strconv.FormatUint(uint64(v), 10))
	}
	return jen.Lit(int(v))
}
