package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalTime(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		endOfDay bool
		want     time.Time
	}{
		{name: "date only", in: "2026-01-01", want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "utc timestamp", in: "2026-01-01T23:00:00Z", want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "negative offset keeps local day", in: "2026-01-01T23:00:00-05:00", want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "positive offset keeps local day", in: "2026-01-02T01:00:00+09:00", want: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{
			name:     "end of day",
			in:       "2026-01-01T23:00:00-05:00",
			endOfDay: true,
			want:     time.Date(2026, 1, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptionalTime(tt.in, tt.endOfDay)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}

	t.Run("empty", func(t *testing.T) {
		got, err := parseOptionalTime("  ", false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parseOptionalTime("yesterday", false)
		assert.Error(t, err)
	})
}
