package nrf51

import "errors"

var ErrPinOutOfRange = errors.New("pin is not on the GPIO port")
