package renderer

import "errors"

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize = errors.New("renderer: invalid frame size")
	ErrOddFrameWidth    = errors.New("renderer: frame width must be even")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")
)
