package main

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/thorn-jmh/errorst"
	"go.uber.org/multierr"

	"gdflat/pkg/gdgen"
)

// config is one invocation's settings. Defaults are overridden by the
// configuration file, which is overridden by explicitly set flags.
type config struct {
	Output     string `mapstructure:"output"`
	All        bool   `mapstructure:"all"`
	MakeRule   bool   `mapstructure:"make_rule"`
	GoManifest string `mapstructure:"go_manifest"`
	Verbose    bool   `mapstructure:"verbose"`

	gdgen.Options `mapstructure:",squash"`
}

func defaultConfig() config {
	return config{
		Output:  ".",
		Options: gdgen.DefaultOptions(),
	}
}

func loadConfig(path string, fs *pflag.FlagSet) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := decodeConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyFlags(fs, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Options.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errorst.NewError("failed to read config %s: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errorst.NewError("failed to unmarshal config %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return errorst.NewError("invalid config %s: %w", path, err)
	}
	return nil
}

// applyFlags copies the flags set on the command line into cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config) (err error) {
	str := func(name string, dst *string) {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		v, e := fs.GetString(name)
		err = multierr.Append(err, e)
		*dst = v
	}
	boolean := func(name string, dst *bool) {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		v, e := fs.GetBool(name)
		err = multierr.Append(err, e)
		*dst = v
	}

	str("output", &cfg.Output)
	boolean("all", &cfg.All)
	boolean("make-rule", &cfg.MakeRule)
	str("go-manifest", &cfg.GoManifest)
	boolean("verbose", &cfg.Verbose)

	var fieldCase, fileNaming string
	str("field-case", &fieldCase)
	if fieldCase != "" {
		cfg.FieldCase = gdgen.CaseStyle(fieldCase)
	}
	str("file-naming", &fileNaming)
	if fileNaming != "" {
		cfg.FileNaming = gdgen.FileNaming(fileNaming)
	}
	boolean("debug-dump", &cfg.DebugDump)
	boolean("pack-unpack", &cfg.PackUnpackAPI)
	str("file-suffix", &cfg.FileSuffix)
	str("file-extension", &cfg.FileExtension)
	str("builtin-file", &cfg.BuiltinFile)
	return err
}
