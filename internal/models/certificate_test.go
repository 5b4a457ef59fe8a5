package models

import "testing"

func TestCertificateIsPassing(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{0, false},
		{69, false},
		{70, true},
		{100, true},
	}

	for _, tt := range tests {
		c := Certificate{Score: tt.score}
		if got := c.IsPassing(); got != tt.want {
			t.Errorf("score %d: IsPassing() = %v, want %v", tt.score, got, tt.want)
		}
	}
}
