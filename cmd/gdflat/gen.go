package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/thorn-jmh/errorst"
	"go.uber.org/multierr"

	"gdflat/pkg/gdgen"
	"gdflat/pkg/manifest"
	"gdflat/pkg/schemas"
)

// gen generates every requested file of one schema graph. A failing file
// does not stop the others; all errors are returned together.
func gen(cfg config, schemaPath string, out io.Writer, log *slog.Logger) error {
	sch, err := schemas.FromJSONFile(schemaPath)
	if err != nil {
		return errorst.Wrap(err, "failed to load schema %s", schemaPath)
	}

	var errs error
	for _, file := range targetFiles(cfg, sch) {
		if err := genFile(cfg, sch, file, out, log); err != nil {
			errs = appendErr(errs, errorst.Wrap(err, "failed to generate %s", file))
		}
	}
	return errs
}

func targetFiles(cfg config, sch *schemas.Schema) []string {
	if !cfg.All {
		return []string{sch.File}
	}
	var files []string
	for _, f := range sch.DeclaredFiles() {
		if f != cfg.BuiltinFile {
			files = append(files, f)
		}
	}
	return files
}

func genFile(cfg config, sch *schemas.Schema, file string, out io.Writer, log *slog.Logger) error {
	g, err := gdgen.NewGenerator(sch, cfg.Output, file, cfg.Options)
	if err != nil {
		return err
	}
	res, err := g.WithLogger(log).Generate()
	if err != nil {
		return err
	}
	if err := res.Save(); err != nil {
		return err
	}
	log.Info("generated", "file", file, "path", res.Path, "unsupported", len(res.Diagnostics))

	if cfg.GoManifest != "" {
		f, err := manifest.Generate(sch, file, cfg.GoManifest)
		if err != nil {
			return err
		}
		path := manifest.FileName(cfg.Output, file)
		if err := manifest.Save(f, path); err != nil {
			return err
		}
		log.Info("generated manifest", "file", file, "path", path)
	}

	if cfg.MakeRule {
		if _, err := fmt.Fprintln(out, gdgen.MakeRule(sch, cfg.Output, file, cfg.Options)); err != nil {
			return err
		}
	}
	return nil
}

func appendErr(errs, err error) error {
	return multierr.Append(errs, err)
}
