package models

import "errors"

var (
	ErrEmptyGeometry     = errors.New("empty geometry: no vertices present")
	ErrInvalidFaceIndex  = errors.New("invalid face index")
	ErrLoadFailure       = errors.New("load failure")
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)
