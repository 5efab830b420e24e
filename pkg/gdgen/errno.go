package gdgen

import "github.com/thorn-jmh/errorst"

var (
	ErrInvalidOptions = errorst.NewError("invalid generator options")
	ErrNoSchemaFile   = errorst.NewError("no schema file to generate")
	ErrWriteFile      = errorst.NewError("failed to write generated file")
)
