package render

import (
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"short", "main.go", "main.go"},
		{"exactly at limit", "abcdefghijklmnopqr", "abcdefghijklmnopqr"},
		{"one over", "abcdefghijklmnopqrs", "abcdefghijklmnop…"},
		{"empty", "", ""},
		{"combining marks", "éééééééééé", "éééééééééé"},
		{"emoji", "🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪", "🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪🇩🇪…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.label, 18)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, uniseg.GraphemeClusterCount(got), 18)
		})
	}

	assert.Equal(t, "a…", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
