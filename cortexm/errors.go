package cortexm

import "errors"

var (
	ErrCoreException = errors.New("core exceptions cannot be enabled, disabled or pended through the NVIC")
	ErrFixedPriority = errors.New("exception has a fixed priority")
)
