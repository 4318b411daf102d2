package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAndRatio(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"low score", Score(3.2), "3.20"},
		{"high score", Score(6.57), "6.57"},
		{"ratio", Ratio(0.8664), "0.866"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.want)
		})
	}
}

func TestRow(t *testing.T) {
	assert.Contains(t, Row("score", "5.00"), "5.00")
	assert.Contains(t, Row("score", "5.00"), "score")
}
