package cluster

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical", a: "springfield", b: "springfield", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "empty left", a: "", b: "main", want: 4},
		{name: "empty right", a: "main", b: "", want: 4},
		{name: "single substitution", a: "springfield", b: "sprungfield", want: 1},
		{name: "adjacent transposition costs one", a: "springfield", b: "springfeild", want: 1},
		{name: "transposition mid word", a: "chruch", b: "church", want: 1},
		{name: "single deletion", a: "springfield", b: "sprinfield", want: 1},
		{name: "single insertion", a: "alton", b: "altton", want: 1},
		{name: "completely different", a: "abc", b: "xyz", want: 3},
		{name: "prefix", a: "main", b: "main st", want: 3},
		{name: "symmetric", a: "horndean", b: "horndena", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Distance(tt.b, tt.a); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
