package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unitrun/unitrun/internal/domain"
)

func TestNormalizeModuleName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"test_temp_converter.c", "temp_converter"},
		{"testTempConverter.c", "temp_converter"},
		{"test_TempConverter.c", "temp_converter"},
		{"TempConverter.c", "temp_converter"},
		{"temp_converter.c", "temp_converter"},
		{"test-led-driver.c", "led_driver"},
		{"temp_converter_test.c", "temp_converter"},
		{"pump_spec.c", "pump"},
		{"unit_test.c", "unit"},
		{"test_temp_converter", "temp_converter"},
		{"tests/test_temp_converter.c", "temp_converter"},
		{"test_main.c", "main"},
		{"test_.c", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.NormalizeModuleName(tc.in), "input %q", tc.in)
	}
}

func TestIsMainModule(t *testing.T) {
	assert.True(t, domain.IsMainModule("main"))
	assert.False(t, domain.IsMainModule("main_loop"))
	assert.False(t, domain.IsMainModule("temp_converter"))
}
