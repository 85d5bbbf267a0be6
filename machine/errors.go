package machine

import "errors"

var (
	ErrNoCode        = errors.New("no code at vector address")
	ErrLockup        = errors.New("core locked up")
	ErrBadStack      = errors.New("initial stack pointer outside ram")
	ErrAlreadyLoaded = errors.New("machine already holds a program")
	ErrNotLoaded     = errors.New("no program loaded")
)
