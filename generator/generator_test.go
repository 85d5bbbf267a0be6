package generator

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/svd"
	"omibyte.io/bootcore/targets"
)

func newTestGenerator(t *testing.T) *irqgen {
	t.Helper()
	f, err := os.Open("../svd/testdata/nrf51.svd")
	require.NoError(t, err)
	defer f.Close()
	device, err := svd.Parse(f)
	require.NoError(t, err)

	target, err := targets.All().FindByChip("nrf51822")
	require.NoError(t, err)
	return NewGenerator(device, target, "nrf51", "nrf51.svd").(*irqgen)
}

var chipIRQs = map[string]cortexm.Interrupt{
	"POWER_CLOCK": nrf51.POWER_CLOCK,
	"RADIO":       nrf51.RADIO,
	"UART0":       nrf51.UART0,
	"SPI0_TWI0":   nrf51.SPI0_TWI0,
	"SPI1_TWI1":   nrf51.SPI1_TWI1,
	"GPIOTE":      nrf51.GPIOTE,
	"ADC":         nrf51.ADC,
	"TIMER0":      nrf51.TIMER0,
	"TIMER1":      nrf51.TIMER1,
	"TIMER2":      nrf51.TIMER2,
	"RTC0":        nrf51.RTC0,
	"TEMP":        nrf51.TEMP,
	"RNG":         nrf51.RNG,
	"ECB":         nrf51.ECB,
	"CCM_AAR":     nrf51.CCM_AAR,
	"WDT":         nrf51.WDT,
	"RTC1":        nrf51.RTC1,
	"QDEC":        nrf51.QDEC,
	"LPCOMP":      nrf51.LPCOMP,
	"SWI0":        nrf51.SWI0,
	"SWI1":        nrf51.SWI1,
	"SWI2":        nrf51.SWI2,
	"SWI3":        nrf51.SWI3,
	"SWI4":        nrf51.SWI4,
	"SWI5":        nrf51.SWI5,
}

func TestIRQSourceMatchesChip(t *testing.T) {
	g := newTestGenerator(t)
	src, err := g.IRQSource()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "// Code generated by bootcore svd-gen from nrf51.svd; DO NOT EDIT.\n"))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "irq.go", src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "nrf51", file.Name.Name)

	consts := map[string]int{}
	handlers := map[string]string{}
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			switch gen.Tok {
			case token.CONST:
				v, err := strconv.Atoi(vs.Values[0].(*ast.BasicLit).Value)
				require.NoError(t, err)
				consts[vs.Names[0].Name] = v
			case token.VAR:
				require.Equal(t, "IRQHandlers", vs.Names[0].Name)
				for _, elt := range vs.Values[0].(*ast.CompositeLit).Elts {
					kv := elt.(*ast.KeyValueExpr)
					name, err := strconv.Unquote(kv.Value.(*ast.BasicLit).Value)
					require.NoError(t, err)
					handlers[kv.Key.(*ast.Ident).Name] = name
				}
			}
		}
	}

	assert.Equal(t, nrf51.NumIRQ, consts["NumIRQ"])
	delete(consts, "NumIRQ")
	assert.Len(t, consts, len(chipIRQs))
	for name, irq := range chipIRQs {
		assert.Equal(t, int(irq), consts[name], name)
		assert.Equal(t, nrf51.IRQHandlers[irq], handlers[name], name)
	}
}

func TestDeviceSourceMatchesChip(t *testing.T) {
	src, err := newTestGenerator(t).DeviceSource()
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "devices.go", src, 0)
	require.NoError(t, err)
	tables := map[string][]uint32{}
	for _, decl := range file.Decls {
		gen := decl.(*ast.GenDecl)
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			lit := vs.Values[0].(*ast.CompositeLit)
			var bases []uint32
			for _, elt := range lit.Elts {
				v, err := strconv.ParseUint(elt.(*ast.BasicLit).Value, 0, 32)
				require.NoError(t, err)
				bases = append(bases, uint32(v))
			}
			tables[vs.Names[0].Name] = bases
		}
	}

	assert.Equal(t, map[string][]uint32{
		"TIMER": nrf51.TIMER[:],
		"I2C":   nrf51.I2C[:],
		"SPI":   nrf51.SPI[:],
	}, tables)
}

func TestDeviceSourceUnknownGroup(t *testing.T) {
	g := newTestGenerator(t)
	g.target.Devices = map[string]string{"USB": "USBD"}
	_, err := g.DeviceSource()
	assert.ErrorIs(t, err, ErrNoInstances)
}

func TestLayoutMatchesChip(t *testing.T) {
	layout, err := newTestGenerator(t).Layout()
	require.NoError(t, err)
	assert.Equal(t, nrf51.VectorLayout(), layout)
}

func TestLinkerAliases(t *testing.T) {
	ld, err := newTestGenerator(t).LinkerAliases()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(ld)), "\n")
	var provides []string
	for _, line := range lines {
		if strings.HasPrefix(line, "PROVIDE(") {
			provides = append(provides, line)
		}
	}
	assert.Len(t, provides, len(nrf51.VectorLayout().Handlers()))
	assert.Contains(t, provides, "PROVIDE(nmi_handler = default_handler);")
	assert.Contains(t, provides, "PROVIDE(uart_handler = default_handler);")
	assert.Contains(t, provides, "PROVIDE(swi5_handler = default_handler);")
	assert.NotContains(t, string(ld), "__reset")
	assert.NotContains(t, string(ld), "__stack")
}

func TestTooManyInterrupts(t *testing.T) {
	g := newTestGenerator(t)
	g.target.IRQSlots = 16
	_, err := g.IRQSource()
	assert.ErrorIs(t, err, ErrTooManyInterrupts)
	_, err = g.LinkerAliases()
	assert.ErrorIs(t, err, ErrTooManyInterrupts)
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nrf51")
	require.NoError(t, newTestGenerator(t).Generate(out))

	for _, name := range []string{"irq.go", "devices.go", "handlers.ld"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteMemoryScript(t *testing.T) {
	target, err := targets.All().FindByBoard("microbit-v1")
	require.NoError(t, err)
	layout, err := target.Layout(0xC0, 0, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteMemoryScript(&buf, target, layout, "test")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "/* test */\n"))
	assert.Contains(t, out, "FLASH (rx)  : ORIGIN = 0x00000000, LENGTH = 0x40000\n")
	assert.Contains(t, out, "RAM   (rwx) : ORIGIN = 0x20000000, LENGTH = 0x4000\n")
	assert.Contains(t, out, "__stack = 0x20004000;\n")
	assert.Contains(t, out, "__stack_size = 0x800;\n")
}
