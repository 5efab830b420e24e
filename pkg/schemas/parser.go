package schemas

import (
	"encoding/json"
	"io"
	"os"

	"github.com/thorn-jmh/errorst"
)

// FromJSONFile reads a resolved schema graph from a JSON file.
func FromJSONFile(filePath string) (*Schema, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errorst.NewError("failed to open file %s: %w", filePath, err)
	}

	defer func() {
		_ = f.Close()
	}()

	return FromJSON(f)
}

// FromJSON reads a resolved schema graph from a JSON reader and links
// every named reference to its definition.
func FromJSON(r io.Reader) (*Schema, error) {
	var schema Schema
	if err := json.NewDecoder(r).Decode(&schema); err != nil {
		return nil, errorst.NewError("failed to unmarshal JSON: %w", err)
	}

	if err := Link(&schema); err != nil {
		return nil, err
	}

	return &schema, nil
}

// Link resolves the `ref` names of every type in the graph. Definitions
// without a declaring file are attributed to the root file.
//
// Link performs no validation beyond reference resolution: offsets,
// defaults and layouts are trusted as the parser produced them.
func Link(s *Schema) error {
	r := newRefResolver(s)

	for _, e := range s.Enums {
		if e.File == "" {
			e.File = s.File
		}
		if !e.Underlying.IsScalar() {
			if e.Underlying == BaseTypeNone && e.IsUnion {
				e.Underlying = BaseTypeUType
			} else {
				return errorst.Wrap(ErrUnknownBaseType, "underlying type %s of enum <%s>", e.Underlying, e.QualifiedName())
			}
		}
		for _, ev := range e.Values {
			if ev.UnionType == nil {
				continue
			}
			where := e.QualifiedName() + "." + ev.Name
			if err := r.linkType(ev.UnionType, e.Namespace, where); err != nil {
				return err
			}
		}
	}

	for _, st := range s.Structs {
		if st.File == "" {
			st.File = s.File
		}
		for _, f := range st.Fields {
			where := st.QualifiedName() + "." + f.Name
			if err := r.linkType(f.Type, st.Namespace, where); err != nil {
				return err
			}
		}
	}

	return nil
}
