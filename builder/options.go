package builder

type Options struct {
	// Packages are scanned for exported interrupt handlers.
	Packages []string
	// Dir is the directory the package patterns are relative to.
	Dir string
	// Output is the directory receiving the image and linker fragments.
	Output string
	// Target is a board or chip name from the target database.
	Target string
	// Symbols is a linked ELF file or a YAML symbol map. Without one the
	// builder plans addresses for the handlers it found.
	Symbols string
	// DataSize and BssSize size the data sections when the symbol table
	// does not provide them.
	DataSize    uint32
	BssSize     uint32
	Environment Env
	Verbose     bool
}
