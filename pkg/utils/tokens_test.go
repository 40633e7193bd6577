package utils

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short", "abcd", 1},
		{"sentence", "hello world, this is a test!", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenCounter_NilFallback(t *testing.T) {
	var tc *TokenCounter
	if got := tc.Count("abcdefgh"); got != 2 {
		t.Errorf("nil counter Count() = %d, want estimate 2", got)
	}
}
