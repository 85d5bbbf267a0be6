package builder

import "errors"

var (
	ErrScanError            = errors.New("handler scan failed")
	ErrUnexpectedOutputPath = errors.New("unexpected output path provided")
	ErrUnknownSymbolFormat  = errors.New("unknown symbol file format")
	ErrHandlerNotLinked     = errors.New("exported handler missing from the symbol table")
)
