package note

import "errors"

// ErrNotFound covers both a missing row and a row owned by someone else,
// so callers cannot probe for other users' data.
var ErrNotFound = errors.New("not found")

var ErrDuplicateName = errors.New("duplicate label name")

var ErrValidation = errors.New("validation failed")
