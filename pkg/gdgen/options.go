package gdgen

import (
	"strings"

	"github.com/thorn-jmh/errorst"
)

// CaseStyle selects how field identifiers are re-cased.
type CaseStyle string

const (
	CaseUnchanged  CaseStyle = "unchanged"
	CaseUpperCamel CaseStyle = "upper"
	CaseLowerCamel CaseStyle = "lower"
)

// FileNaming selects how generated file names derive from schema file names.
type FileNaming string

const (
	FileNamingKeep  FileNaming = "keep"
	FileNamingSnake FileNaming = "snake"
)

// Options is the immutable configuration of one generation run.
type Options struct {
	FieldCase     CaseStyle  `mapstructure:"field_case"`
	DebugDump     bool       `mapstructure:"debug_dump"`
	PackUnpackAPI bool       `mapstructure:"pack_unpack_api"`
	FileNaming    FileNaming `mapstructure:"file_naming"`
	FileSuffix    string     `mapstructure:"file_suffix"`
	FileExtension string     `mapstructure:"file_extension"`
	// BuiltinFile is the shared vocabulary schema that never gets a preload.
	BuiltinFile string `mapstructure:"builtin_file"`
}

func DefaultOptions() Options {
	return Options{
		FieldCase:     CaseUnchanged,
		FileNaming:    FileNamingKeep,
		FileSuffix:    "_generated",
		FileExtension: "gd",
		BuiltinFile:   "godot.fbs",
	}
}

// Validate reports the first option holding a value outside its domain.
func (o Options) Validate() error {
	switch o.FieldCase {
	case CaseUnchanged, CaseUpperCamel, CaseLowerCamel:
	default:
		return errorst.Wrap(ErrInvalidOptions, "field_case <%s>", o.FieldCase)
	}
	switch o.FileNaming {
	case FileNamingKeep, FileNamingSnake:
	default:
		return errorst.Wrap(ErrInvalidOptions, "file_naming <%s>", o.FileNaming)
	}
	if strings.ContainsAny(o.FileSuffix+o.FileExtension, `/\`) {
		return errorst.Wrap(ErrInvalidOptions, "file name parts must not contain path separators")
	}
	return nil
}

func (o Options) nameStyle() NameStyle {
	switch o.FieldCase {
	case CaseUpperCamel:
		return UpperCamelStyle
	case CaseLowerCamel:
		return LowerCamelStyle
	}
	return UnchangedStyle
}
