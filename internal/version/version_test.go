package version_test

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"mend/internal/version"
)

func TestDefaultVersion(t *testing.T) {
	assert.NotEmpty(t, version.Version)
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"dev", "dev"},
		{"1.2", "1.2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, version.Colored(tt.in), tt.in)
	}

	color.NoColor = false
	assert.Contains(t, version.Colored("1.2.3"), "\x1b[")
	assert.Equal(t, "dev", version.Colored("dev"))
}
