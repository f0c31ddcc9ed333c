package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTC(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00+07:00", time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUTC(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseUTC("01/03/2024")
	assert.Error(t, err)
}

func TestUTCTime_JSON(t *testing.T) {
	var payload struct {
		At UTCTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-05-06T07:08:09"}`), &payload))
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), payload.At.Time)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-05-06T07:08:09Z"}`, string(out))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%50\% off%`, ContainsPattern("50% off"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
}

func TestNonEmpty(t *testing.T) {
	assert.Nil(t, NonEmpty("   "))
	assert.Equal(t, "x", *NonEmpty(" x "))
}
