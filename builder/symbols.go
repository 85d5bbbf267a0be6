package builder

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"omibyte.io/bootcore/vector"
)

// ReadSymbols loads a symbol table from a linked ELF file or from a YAML
// map of symbol names to addresses.
func ReadSymbols(fname string) (vector.Symbols, error) {
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(buf, []byte(elf.ELFMAG)) {
		return readELF(fname, buf)
	}

	// A symbol map written by Write carries its symbols as hex strings
	var m symbolMap
	if err = yaml.Unmarshal(buf, &m); err == nil && len(m.Symbols) > 0 {
		return m.symbols(fname)
	}

	var syms vector.Symbols
	if err = yaml.Unmarshal(buf, &syms); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownSymbolFormat, fname, err)
	}
	return syms, nil
}

func (m symbolMap) symbols(fname string) (vector.Symbols, error) {
	syms := vector.Symbols{}
	for name, value := range m.Symbols {
		addr, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: symbol %s: %v", ErrUnknownSymbolFormat, fname, name, err)
		}
		syms[name] = uint32(addr)
	}
	return syms, nil
}

func readELF(fname string, buf []byte) (vector.Symbols, error) {
	f, err := elf.NewFile(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownSymbolFormat, fname, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_ARM {
		return nil, fmt.Errorf("%w: %s is %s %s, not a 32-bit ARM image", ErrUnknownSymbolFormat, fname, f.Class, f.Machine)
	}

	elfSyms, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	syms := vector.Symbols{}
	global := map[string]bool{}
	for _, sym := range elfSyms {
		// Skip ARM mapping symbols and section or file entries
		if len(sym.Name) == 0 || strings.HasPrefix(sym.Name, "$") {
			continue
		}
		// Undefined references, weak handlers included, have no address
		if sym.Section == elf.SHN_UNDEF {
			continue
		}
		switch elf.ST_TYPE(sym.Info) {
		case elf.STT_FUNC, elf.STT_OBJECT, elf.STT_NOTYPE:
		default:
			continue
		}

		// A global definition wins over a local one of the same name
		isGlobal := elf.ST_BIND(sym.Info) != elf.STB_LOCAL
		if _, ok := syms[sym.Name]; ok && (global[sym.Name] || !isGlobal) {
			continue
		}
		syms[sym.Name] = uint32(sym.Value)
		global[sym.Name] = isGlobal
	}
	return syms, nil
}
