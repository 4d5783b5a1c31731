package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["Go","SQL"]`, []string{"Go", "SQL"}},
		{"wrapped", `{"skills":["React","AWS"]}`, []string{"React", "AWS"}},
		{"empty", ``, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseSkills(json.RawMessage(tt.raw)))
		})
	}

	// Arbitrary object: keys become the skill list, order unspecified.
	got := parseSkills(json.RawMessage(`{"Go":5,"SQL":3}`))
	require.ElementsMatch(t, []string{"Go", "SQL"}, got)
}

func TestParseExperience(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"10 years shipping Go services"`, "10 years shipping Go services"},
		{"summary", `{"summary":"ex-Stripe, ex-Airbnb"}`, "ex-Stripe, ex-Airbnb"},
		{"years", `{"years":7}`, "7 years of experience"},
		{"empty", ``, ""},
		{"unusable", `[1,2,3]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseExperience(json.RawMessage(tt.raw)))
		})
	}
}

func TestParseWireTime(t *testing.T) {
	require.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), parseWireTime("2025-01-02T10:00:00Z"))
	require.True(t, parseWireTime("").IsZero())
	require.True(t, parseWireTime("yesterday").IsZero())
}
