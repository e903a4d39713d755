package version

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1 << 16},
		{"1.2", 1<<16 | 2<<8},
		{"1.2.3", 1<<16 | 2<<8 | 3},
		{"1.10.9.1", 1<<16 | 10<<8 | 9},
		{"1.a", 0},
		{"1.1.a", 0},
		{"", 0},
		{"1.", 1 << 16},
		{"1..2", 1<<16 | 2<<8},
		{".3", 3 << 16},
		{"1.512", (1<<8 | 512) << 8},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Fatalf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10", "1.9", 1},
		{"1.9", "1.10", -1},
		{"1", "1.0.0", 0},
		{"2.0", "1.99.99", 1},
		{"x", "0", 0},
		{"1.", "1", 0},
		{"1.512", "1.0", 1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
