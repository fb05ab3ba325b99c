package domain

import (
	"strings"

	"github.com/fatih/camelcase"
)

// NormalizeModuleName reduces a report or test file name to a canonical
// module key, so conventions like test_TempConverter.c, testTempConverter.c
// and test_temp_converter.c all resolve to "temp_converter". The rule:
// strip the extension, split on underscores/hyphens and CamelCase
// boundaries, lowercase every word, drop a leading "test" word and a
// trailing "test" or "spec" word, join with underscores.
func NormalizeModuleName(fileName string) string {
	name := baseName(fileName)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}

	var words []string
	for _, chunk := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		for _, w := range camelcase.Split(chunk) {
			words = append(words, strings.ToLower(w))
		}
	}

	if len(words) > 0 && words[0] == "test" {
		words = words[1:]
	}
	if n := len(words); n > 1 && (words[n-1] == "test" || words[n-1] == "spec") {
		words = words[:n-1]
	}
	return strings.Join(words, "_")
}

// IsMainModule reports whether a module key names the program entry point.
// main.c hosts its own main() and cannot link against a Unity test runner,
// so test_main targets are excluded from discovery.
func IsMainModule(module string) bool {
	return module == "main"
}
