package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gdflat [-o <outputDir>] [--config <file>] <schema.json...>",
	Short: "Generate GDScript accessors and builders for FlatBuffers schemas",
	Long: `gdflat reads the resolved schema graph emitted by the schema parser as
JSON and writes one GDScript file per schema file, with read accessors for
tables and structs and builders that assemble new buffers.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		cfg, err := loadConfig(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		log := newLogger(cfg.Verbose)

		var errs error
		for _, schemaPath := range args {
			if err := gen(cfg, schemaPath, cmd.OutOrStdout(), log); err != nil {
				log.Error("generation failed", "schema", schemaPath, "err", err)
				errs = appendErr(errs, err)
			}
		}
		return errs
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON configuration file")
	registerFlags(rootCmd.PersistentFlags())
}

// registerFlags declares the flags loadConfig reads back.
func registerFlags(fs *pflag.FlagSet) {
	def := defaultConfig()

	fs.StringP("output", "o", def.Output, "output directory")
	fs.BoolP("verbose", "v", def.Verbose, "log every emitted definition")
	fs.Bool("all", def.All, "generate every declared schema file, not just the root one")
	fs.Bool("make-rule", def.MakeRule, "print a make dependency rule per generated file")
	fs.String("go-manifest", def.GoManifest, "also write a Go layout manifest in this package")

	fs.String("field-case", string(def.FieldCase), "field identifier case: unchanged, upper or lower")
	fs.Bool("debug-dump", def.DebugDump, "emit _to_string() on generated classes")
	fs.Bool("pack-unpack", def.PackUnpackAPI, "emit the Dictionary pack/unpack API")
	fs.String("file-naming", string(def.FileNaming), "generated file naming: keep or snake")
	fs.String("file-suffix", def.FileSuffix, "suffix appended to generated file names")
	fs.String("file-extension", def.FileExtension, "extension of generated files")
	fs.String("builtin-file", def.BuiltinFile, "schema file whose types the runtime provides")
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
