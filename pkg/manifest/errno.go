package manifest

import "github.com/thorn-jmh/errorst"

var (
	ErrDuplicateName = errorst.NewError("duplicate Go identifier")
	ErrNotInteger    = errorst.NewError("enum underlying type is not an integer")
	ErrRender        = errorst.NewError("failed to render Go manifest")
)
