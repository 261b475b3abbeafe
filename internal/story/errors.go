package story

import "errors"

var (
	ErrBeatIndex        = errors.New("beat index out of range")
	ErrFieldPath        = errors.New("invalid field path")
	ErrNotEditable      = errors.New("field is not editable")
	ErrDuplicateLabel   = errors.New("modifier label already exists")
	ErrModifierNotFound = errors.New("modifier not found")
	ErrCatalogExhausted = errors.New("every catalog modifier is already attached")
	ErrMalformedStory   = errors.New("malformed story")
	ErrActOutOfRange    = errors.New("act out of range")
)
