package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRelativeDate(t *testing.T) {
	ref := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset any
		want   string
	}{
		{"positive days", 14, "2025-01-15"},
		{"zero days", 0, "2025-01-01"},
		{"negative days yield a past date", -10, "2024-12-22"},
		{"absent offset counts as zero", nil, "2025-01-01"},
		{"json float offset", float64(90), "2025-04-01"},
		{"numeric string offset", "7", "2025-01-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRelativeDate(ref, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelativeDateRejectsNonIntegerOffsets(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []any{"soon", true, map[string]any{"days": 3}, []any{3}} {
		_, err := ResolveRelativeDate(ref, offset)
		assert.ErrorIs(t, err, ErrDateResolution, "offset %v", offset)
	}
}
