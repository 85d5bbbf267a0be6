package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Env map[string]string

// Environment returns the builder settings taken from the process
// environment.
func Environment() Env {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	return map[string]string{
		"BOOTCORE_TARGET":  getenv("BOOTCORE_TARGET", "microbit-v1"),
		"BOOTCORE_OUT":     getenv("BOOTCORE_OUT", filepath.Join(cwd, "build")),
		"BOOTCORE_SYMBOLS": getenv("BOOTCORE_SYMBOLS", ""),
	}
}

func (e Env) Print() {
	for _, line := range e.List() {
		fmt.Printf("set %s\n", line)
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

// List returns the settings as sorted KEY=value pairs.
func (e Env) List() []string {
	var result []string
	for key, value := range e {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(result)
	return result
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
