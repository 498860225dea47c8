package service

import (
	"testing"
	"time"
)

func TestFormatContractNumber(t *testing.T) {
	day := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		seq  int
		want string
	}{
		{name: "first of the day", seq: 1, want: "2026082901"},
		{name: "two digit sequence", seq: 42, want: "2026082942"},
		{name: "last padded value", seq: 99, want: "2026082999"},
		{name: "hundredth widens instead of wrapping", seq: 100, want: "20260829100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatContractNumber(day, tt.seq); got != tt.want {
				t.Errorf("formatContractNumber(%d) = %q, want %q", tt.seq, got, tt.want)
			}
		})
	}
}
