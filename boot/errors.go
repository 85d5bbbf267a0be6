package boot

import "errors"

var (
	ErrInvertedRegion     = errors.New("region ends before it starts")
	ErrOverlappingRegions = errors.New("regions overlap")
	ErrAlreadyBooted      = errors.New("reset sequence already ran")
)
