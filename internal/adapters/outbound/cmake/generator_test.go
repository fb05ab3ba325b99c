package cmake_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitrun/unitrun/internal/adapters/outbound/cmake"
	"github.com/unitrun/unitrun/internal/domain"
)

func sampleTargets() []domain.BuildTarget {
	return []domain.BuildTarget{
		{
			Name:       "temp_converter",
			TestSource: "tests/test_temp_converter.c",
			Sources:    []string{"src/temp_converter.c"},
		},
		{
			Name:       "led_driver",
			TestSource: "tests/test_led_driver.c",
			Sources:    []string{"src/led_driver.c"},
		},
	}
}

func TestRender_Content(t *testing.T) {
	out := cmake.Render(sampleTargets())

	assert.Contains(t, out, "cmake_minimum_required(VERSION 3.10)")
	assert.Contains(t, out, "project(Tests C)")
	assert.Contains(t, out, "set(CMAKE_C_STANDARD 99)")
	assert.Contains(t, out, "add_definitions(-DUNIT_TEST)")
	assert.Contains(t, out, `set(CMAKE_C_FLAGS "${CMAKE_C_FLAGS} --coverage")`)
	assert.Contains(t, out, `set(CMAKE_EXE_LINKER_FLAGS "${CMAKE_EXE_LINKER_FLAGS} --coverage")`)
	assert.Contains(t, out, "include_directories(unity/src)")
	assert.Contains(t, out, "include_directories(src)")
	assert.Contains(t, out, "add_library(unity unity/src/unity.c)")
	assert.Contains(t, out, "add_executable(temp_converter tests/test_temp_converter.c src/temp_converter.c)")
	assert.Contains(t, out, "target_link_libraries(temp_converter unity)")
	assert.Contains(t, out, "add_executable(led_driver tests/test_led_driver.c src/led_driver.c)")
}

func TestRender_NoSourceLinksOnlyUnity(t *testing.T) {
	out := cmake.Render([]domain.BuildTarget{{
		Name:       "widget",
		TestSource: "tests/test_widget.c",
	}})

	assert.Contains(t, out, "add_executable(widget tests/test_widget.c)")
	assert.Contains(t, out, "target_link_libraries(widget unity)")
}

func TestRender_Deterministic(t *testing.T) {
	targets := sampleTargets()
	reversed := []domain.BuildTarget{targets[1], targets[0]}

	first := cmake.Render(targets)
	second := cmake.Render(reversed)
	assert.Equal(t, first, second, "target order in input must not change the descriptor")
}

func TestRender_TargetsSortedByName(t *testing.T) {
	out := cmake.Render(sampleTargets())

	led := indexOf(t, out, "add_executable(led_driver")
	temp := indexOf(t, out, "add_executable(temp_converter")
	assert.Less(t, led, temp)
}

func TestGenerator_Generate(t *testing.T) {
	workspace := t.TempDir()

	g := cmake.NewGenerator()
	require.NoError(t, g.Generate(workspace, sampleTargets()))

	data, err := os.ReadFile(filepath.Join(workspace, cmake.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, cmake.Render(sampleTargets()), string(data))
}

func TestGenerator_Generate_ByteIdenticalAcrossRuns(t *testing.T) {
	g := cmake.NewGenerator()
	ws1, ws2 := t.TempDir(), t.TempDir()

	require.NoError(t, g.Generate(ws1, sampleTargets()))
	require.NoError(t, g.Generate(ws2, sampleTargets()))

	a, err := os.ReadFile(filepath.Join(ws1, cmake.DescriptorFile))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(ws2, cmake.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "%q not found", needle)
	return idx
}
