package gdgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thorn-jmh/errorst"

	"gdflat/pkg/schemas"
)

const headerComment = "# automatically generated by gdflat, do not modify"

// Diagnostic describes one field the generator could not express. The
// generated text carries a FIXME placeholder at the same spot.
type Diagnostic struct {
	Record string
	Field  string
	Type   string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s (%s): %s", d.Record, d.Field, d.Type, d.Reason)
}

// Result is the assembled output for one schema file.
type Result struct {
	Path        string
	Code        string
	Diagnostics []Diagnostic
}

// Save performs the single terminal write of the result.
func (r *Result) Save() error {
	return SaveFile(r.Path, []byte(r.Code))
}

// Generator emits the GDScript script of one schema file. A Generator is
// not safe for concurrent use; Generate may be called repeatedly and
// yields identical results.
type Generator struct {
	sch  *schemas.Schema
	dir  string
	file string
	opts Options
	log  *slog.Logger

	names    *nameResolver
	includes *includeResolver

	// per run
	w       *codeWriter
	emitted map[string]bool
	diags   []Diagnostic
}

// NewGenerator prepares the generation of file, which must be one of the
// schema files, into the output directory dir.
func NewGenerator(sch *schemas.Schema, dir, file string, opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if file == "" {
		file = sch.File
	}
	if file == "" {
		return nil, ErrNoSchemaFile
	}
	return &Generator{
		sch:   sch,
		dir:   dir,
		file:  file,
		opts:  opts,
		log:   slog.Default(),
		names: newNameResolver(opts.nameStyle()),
	}, nil
}

// WithLogger replaces the default logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.log = l
	}
	return g
}

// Path is where the generated script is written.
func (g *Generator) Path() string {
	return GeneratedFileName(g.dir, g.file, g.opts)
}

// Generate assembles the whole script in memory: preloads, enums, fixed
// structs, then tables with their builders.
func (g *Generator) Generate() (*Result, error) {
	g.w = newCodeWriter()
	g.emitted = make(map[string]bool)
	g.diags = nil
	g.includes = newIncludeResolver(g.sch, g.file, g.opts)

	g.w.Line(headerComment)
	g.w.Blank()
	if incs := g.includes.Includes(); len(incs) > 0 {
		for _, inc := range incs {
			g.w.Line(fmt.Sprintf("const %s = preload(\"%s\")", inc.Alias, inc.Path))
		}
		g.w.Blank()
	}

	for _, e := range g.sch.Enums {
		if g.skip(&e.Definition) {
			continue
		}
		g.log.Debug("emit enum", "enum", e.QualifiedName())
		g.emitEnum(e)
	}
	for _, st := range g.sch.Structs {
		if !st.Fixed || g.skip(&st.Definition) {
			continue
		}
		g.log.Debug("emit struct", "struct", st.QualifiedName())
		g.emitStruct(st)
	}
	for _, st := range g.sch.Structs {
		if st.Fixed || g.skip(&st.Definition) {
			continue
		}
		g.log.Debug("emit table", "table", st.QualifiedName())
		g.emitTable(st)
	}

	for _, d := range g.diags {
		g.log.Warn("unsupported field", "file", g.file, "field", d.Record+"."+d.Field, "type", d.Type, "reason", d.Reason)
	}
	return &Result{
		Path:        g.Path(),
		Code:        strings.TrimRight(g.w.String(), "\n") + "\n",
		Diagnostics: g.diags,
	}, nil
}

// skip reports definitions that are not emitted into this file, and marks
// the others as emitted for the rest of the run.
func (g *Generator) skip(def *schemas.Definition) bool {
	if !g.sch.Owns(def, g.file) {
		return true
	}
	key := def.QualifiedName()
	if g.emitted[key] {
		return true
	}
	g.emitted[key] = true
	return false
}

// unsupported writes the placeholder for a field and records it.
func (g *Generator) unsupported(ctx Context) {
	g.w.Line(fmt.Sprintf("# FIXME(gdflat): unsupported field %s: %s", ctx.Field.Name, ctx.Reason))
	g.w.Blank()
	g.diags = append(g.diags, Diagnostic{
		Record: ctx.Record.QualifiedName(),
		Field:  ctx.Field.Name,
		Type:   ctx.Field.Type.String(),
		Reason: ctx.Reason,
	})
}

// >>>>>>>>>>>>>>>>>>>> type spellings >>>>>>>>>>>>>>>>>>>>

func (g *Generator) qualifier(def *schemas.Definition) string {
	if alias := g.includes.IncludeFor(def); alias != "" {
		return alias + "."
	}
	return ""
}

func className(st *schemas.StructDef) string {
	return "FB_" + st.Name
}

// classRef spells a struct or table class as seen from this file.
func (g *Generator) classRef(st *schemas.StructDef) string {
	return g.qualifier(&st.Definition) + className(st)
}

// enumRef spells an enum type as seen from this file.
func (g *Generator) enumRef(e *schemas.EnumDef) string {
	return g.qualifier(&e.Definition) + g.names.Definition(e.Name)
}

// scriptRef spells a top-level function of the script declaring st.
func (g *Generator) scriptRef(st *schemas.StructDef, fn string) string {
	return g.qualifier(&st.Definition) + fn + st.Name
}

// scalarType is the GDScript spelling of a scalar or enum value.
func (g *Generator) scalarType(t *schemas.Type) string {
	if t.EnumDef != nil {
		return g.enumRef(t.EnumDef)
	}
	info, _ := Kind(t.BaseType)
	return info.GDType
}

// scalarDefault spells the declared default of a scalar field.
func (g *Generator) scalarDefault(f *schemas.FieldDef) string {
	lit := DefaultLiteral(f.Type.BaseType, f.Default)
	if e := f.Type.EnumDef; e != nil {
		return lit + " as " + g.enumRef(e)
	}
	return lit
}

// scalarRead spells the decoding of the scalar stored at pos.
func (g *Generator) scalarRead(t *schemas.Type, pos string) string {
	info, _ := Kind(t.BaseType)
	read := "bytes.decode_" + info.Decode + "(" + pos + ")"
	switch {
	case t.BaseType == schemas.BaseTypeBool:
		return read + " != 0"
	case t.EnumDef != nil:
		return read + " as " + g.enumRef(t.EnumDef)
	}
	return read
}

// >>>>>>>>>>>>>>>>>>>> files >>>>>>>>>>>>>>>>>>>>

// GeneratedFileName derives the output path of a schema file:
// "monster.fbs" becomes "<dir>/monster_generated.gd".
func GeneratedFileName(dir, file string, opts Options) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if opts.FileNaming == FileNamingSnake {
		base = SnakeStyle.Format(base)
	}
	name := base + opts.FileSuffix
	if opts.FileExtension != "" {
		name += "." + strings.TrimPrefix(opts.FileExtension, ".")
	}
	return filepath.Join(dir, name)
}

// SaveFile writes content to path through a temporary file in the same
// directory, so readers never observe a partial file.
func SaveFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errorst.Wrap(ErrWriteFile, "create directory %s: %v", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errorst.Wrap(ErrWriteFile, "create temporary file for %s: %v", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return errorst.Wrap(ErrWriteFile, "write %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errorst.Wrap(ErrWriteFile, "close %s: %v", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errorst.Wrap(ErrWriteFile, "chmod %s: %v", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errorst.Wrap(ErrWriteFile, "rename into %s: %v", path, err)
	}
	return nil
}
