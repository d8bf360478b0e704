package num

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{"four places", 0.123456, 4, 0.1235},
		{"two places", 1.005001, 2, 1.01},
		{"three places", 12.3454, 3, 12.345},
		{"zero", 0, 4, 0},
		{"negative", -0.98765, 2, -0.99},
		{"binary value below the tie", 1.2345, 3, 1.234},
		{"small score below the tie", 0.00035, 4, 0.0003},
		{"exact tie goes to even", 0.125, 2, 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.value, tt.places))
		})
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1.5, Seconds(1500*time.Millisecond, 2))
	assert.Equal(t, 0.012, Seconds(12345*time.Microsecond, 3))
}
