package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRounding(t *testing.T) {
	assert.Equal(t, 6500.46, Round2(6500.456))
	assert.Equal(t, 4.58, Round3(4.580))
	assert.Equal(t, 4.581, Round3(4.5805))
	assert.Equal(t, 29026.0, RoundRupees(29025.75))
	assert.Equal(t, 744.0, RoundRupees(744.25))
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "₹0"},
		{76, "₹76"},
		{950, "₹950"},
		{6500, "₹6,500"},
		{29026, "₹29,026"},
		{100000, "₹1,00,000"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{73000.4, "₹73,000"},
		{-29026, "-₹29,026"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.value), "value=%v", tt.value)
	}
}
