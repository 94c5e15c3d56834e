package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"hours minutes seconds", "01:02:03", 3723},
		{"minutes seconds", "02:30", 150},
		{"bare seconds", "90", 90},
		{"fractional seconds", "125.4", 125.4},
		{"single digit fields", "0:00", 0},
		{"no bounds validation", "0:75", 75},
		{"hours above 24", "30:00:00", 108000},
		{"surrounding spaces", " 1:05 ", 65},
		{"empty field", "1::30", 3630},
		{"letters", "abc", 0},
		{"empty", "", 0},
		{"too many fields", "1:2:3:4", 0},
		{"non numeric field", "1:a:3", 0},
		{"negative", "-5", 0},
		{"infinity", "Inf", 0},
		{"nan", "NaN", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseSeconds(tt.input), 1e-9)
		})
	}
}

func TestParseSecondsNeverPanics(t *testing.T) {
	for _, input := range []string{":", "::", ":::", "1:", ":1", "\x00", "1e400"} {
		assert.NotPanics(t, func() { ParseSeconds(input) }, input)
	}
}
