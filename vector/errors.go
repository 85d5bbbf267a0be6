package vector

import "errors"

var (
	ErrSlotOutOfRange   = errors.New("slot out of range")
	ErrUnknownHandler   = errors.New("unknown handler name")
	ErrReservedSlot     = errors.New("slot is reserved")
	ErrDuplicateHandler = errors.New("handler registered twice")
	ErrNullHandler      = errors.New("handler address is zero")
	ErrMissingSymbol    = errors.New("required symbol not defined")
	ErrImageSize        = errors.New("vector table image has the wrong size")
	ErrVerify           = errors.New("vector table does not match registry")
)
