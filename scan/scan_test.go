package scan

import (
	"context"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ([]Handler, error) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "app.go", src, parser.ParseComments)
	require.NoError(t, err)
	return File(fset, file, "example.com/app")
}

func symbols(handlers []Handler) []string {
	var names []string
	for _, h := range handlers {
		names = append(names, h.Symbol)
	}
	return names
}

func TestFile(t *testing.T) {
	handlers, err := parse(t, `package main

// onUART echoes received bytes.
//
//go:export uart_handler
func onUART() {}

//export timer0_handler
func onTimer() {}

//go:export onRTC rtc0_handler

func onRTC() {}

// Not a directive: go:export
func other() {}
`)
	require.NoError(t, err)
	require.Len(t, handlers, 3)
	assert.Equal(t, []string{"uart_handler", "timer0_handler", "rtc0_handler"}, symbols(handlers))
	assert.Equal(t, "example.com/app.onUART", handlers[0].Func)
	assert.Equal(t, "example.com/app.onRTC", handlers[2].Func)
	assert.Equal(t, 5, handlers[0].Position.Line)
}

func TestFileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"detached", "package main\n\n//go:export uart_handler\n\nvar x int\n", ErrDirective},
		{"too many fields", "package main\n\n//go:export a b c\nfunc a() {}\n", ErrDirective},
		{"unknown function", "package main\n\n//go:export missing uart_handler\n", ErrUnknownFunction},
		{"arguments", "package main\n\n//go:export uart_handler\nfunc h(x int) {}\n", ErrSignature},
		{"results", "package main\n\n//go:export uart_handler\nfunc h() error { return nil }\n", ErrSignature},
		{"method", "package main\n\ntype T struct{}\n\n//go:export T.h uart_handler\nfunc (T) h() {}\n", ErrUnknownFunction},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handlers, err := parse(t, test.src)
			assert.ErrorIs(t, err, test.err)
			assert.Empty(t, handlers)
		})
	}
}

func TestCheck(t *testing.T) {
	handlers := []Handler{
		{Symbol: "uart_handler", Func: "a.f"},
		{Symbol: "adc_handler", Func: "a.g"},
		{Symbol: "uart_handler", Func: "b.f"},
	}
	err := Check(handlers)
	assert.ErrorIs(t, err, ErrDuplicateHandler)
	assert.Equal(t, []string{"adc_handler", "uart_handler", "uart_handler"}, symbols(handlers))

	assert.NoError(t, Check(handlers[:2]))
}

func TestHandlers(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	handlers, err := Handlers(context.Background(), "testdata/app", ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"timer0_handler", "uart_handler"}, symbols(handlers))
	assert.Equal(t, "onTimer", handlers[0].Func[len(handlers[0].Func)-len("onTimer"):])
}
