package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDefaults(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "version", value: Version, want: "dev"},
		{name: "git commit", value: GitCommit, want: "unknown"},
		{name: "build time", value: BuildTime, want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value)
		})
	}
}
