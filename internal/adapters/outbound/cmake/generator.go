// Package cmake generates the workspace build descriptor and drives the
// CMake toolchain.
package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unitrun/unitrun/internal/domain"
)

// DescriptorFile is the name of the build descriptor at the workspace root.
const DescriptorFile = "CMakeLists.txt"

// Generator implements domain.DescriptorGenerator by writing a
// CMakeLists.txt with one executable target per discovered test. Output is
// a pure function of the targets: identical input, byte-identical file.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(workspace string, targets []domain.BuildTarget) error {
	content := Render(targets)
	path := filepath.Join(workspace, DescriptorFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", DescriptorFile, err)
	}
	return nil
}

// Render produces the descriptor text. Coverage instrumentation is always
// on: producing coverage is the point of the build, so the cost is accepted
// for every target. Targets are emitted in name order.
func Render(targets []domain.BuildTarget) string {
	sorted := make([]domain.BuildTarget, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	b.WriteString("cmake_minimum_required(VERSION 3.10)\n")
	b.WriteString("project(Tests C)\n\n")
	b.WriteString("set(CMAKE_C_STANDARD 99)\n")
	b.WriteString("add_definitions(-DUNIT_TEST)\n\n")
	b.WriteString("set(CMAKE_C_FLAGS \"${CMAKE_C_FLAGS} --coverage\")\n")
	b.WriteString("set(CMAKE_EXE_LINKER_FLAGS \"${CMAKE_EXE_LINKER_FLAGS} --coverage\")\n\n")
	b.WriteString("include_directories(unity/src)\n")
	b.WriteString("include_directories(src)\n\n")
	b.WriteString("add_library(unity unity/src/unity.c)\n\n")

	for _, t := range sorted {
		sources := append([]string{t.TestSource}, t.Sources...)
		fmt.Fprintf(&b, "add_executable(%s %s)\n", t.Name, strings.Join(sources, " "))
		fmt.Fprintf(&b, "target_link_libraries(%s unity)\n\n", t.Name)
	}
	return b.String()
}
