package edge

import "errors"

var (
	ErrObjectNotFound = errors.New("object not found inside the inventory")
	ErrDuplicateName  = errors.New("an edge group with this name already exists")
	ErrInvalidGroup   = errors.New("invalid edge group")
)
